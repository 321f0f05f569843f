package violation

import "github.com/schoolhub/shiftops-backend-go/internal/pkg/apperrors"

// Violation domain errors
var (
	ErrNotFound            = apperrors.NotFound("attendance violation not found")
	ErrExplanationNotFound = apperrors.NotFound("violation explanation not found")
	ErrEvidenceNotFound    = apperrors.NotFound("explanation evidence not found")

	ErrNotExplainable      = apperrors.InvalidState("violation is not awaiting an explanation")
	ErrExplanationNotEditable = apperrors.InvalidState("explanation can no longer be edited")
	ErrExplanationReviewed = apperrors.InvalidState("explanation has already been reviewed")
	ErrNotSubmitter        = apperrors.InvalidState("only the submitting employee may edit this explanation")
	ErrNotViolationOwner   = apperrors.InvalidState("only the employee on the violation may explain it")
	ErrResubmissionLimit   = apperrors.InvalidState("maximum number of resubmissions reached")
	ErrStatusTransition    = apperrors.InvalidState("illegal violation status transition")

	ErrEvidenceFileType = apperrors.Validation("evidence file type is not allowed")
	ErrEvidenceTooLarge = apperrors.Validation("evidence file exceeds the size limit")
	ErrEmptyExplanation = apperrors.Validation("explanation text is required")
)
