package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies how a rejected operation should be reported to the caller.
type Kind int

const (
	// KindValidation means the input was malformed; resubmit with corrected input.
	KindValidation Kind = iota
	// KindConflict means the input collides with existing state (overlapping
	// assignment, duplicate period).
	KindConflict
	// KindInvalidState means the operation is illegal for the aggregate's
	// current status. No side effect occurred.
	KindInvalidState
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindNotFound:
		return "NOT_FOUND"
	}
	return "UNKNOWN"
}

// Error is a classified domain error. Domain packages declare sentinels with
// New and services wrap them via fmt.Errorf("%w", ...), so errors.Is/As keep
// working across layers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// KindOf extracts the taxonomy kind from an error chain. The second return is
// false when the error carries no classification (treated as internal).
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}
