package response

import (
	"errors"
	"net/http"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/apperrors"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Domain packages classify
// their sentinels through the apperrors taxonomy, so one mapping covers every
// module; anything unclassified is an internal error.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	kind, ok := apperrors.KindOf(err)
	if !ok {
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch kind {
	case apperrors.KindValidation:
		UnprocessableEntity(w, err.Error())
	case apperrors.KindConflict:
		Conflict(w, err.Error())
	case apperrors.KindInvalidState:
		Conflict(w, err.Error())
	case apperrors.KindNotFound:
		NotFound(w, err.Error())
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
