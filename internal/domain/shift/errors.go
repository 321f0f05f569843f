package shift

import "github.com/schoolhub/shiftops-backend-go/internal/pkg/apperrors"

// Shift domain errors
var (
	// Template errors
	ErrTemplateNotFound   = apperrors.NotFound("shift template not found")
	ErrTemplateCodeTaken  = apperrors.Conflict("shift template code already in use")
	ErrTemplateInactive   = apperrors.Validation("shift template is not active")
	ErrTemplateInvalidTime = apperrors.Validation("template start time must be before end time")
	ErrBreakOutsideShift  = apperrors.Validation("break window must lie strictly within the shift")
	ErrTemplateInUse      = apperrors.Conflict("shift template is referenced by assignments; deactivate it instead")

	// Schedule errors
	ErrScheduleNotFound      = apperrors.NotFound("shift schedule not found")
	ErrScheduleInvalidRange  = apperrors.Validation("schedule start date must not be after end date")
	ErrScheduleNotDraft      = apperrors.InvalidState("schedule can only be modified while in draft")
	ErrPublishEmptySchedule  = apperrors.InvalidState("schedule needs at least one assignment before publishing")
	ErrScheduleTransition    = apperrors.InvalidState("illegal schedule status transition")

	// Assignment errors
	ErrAssignmentNotFound  = apperrors.NotFound("shift assignment not found")
	ErrAssignmentConflict  = apperrors.Conflict("employee already has an overlapping shift on this date")
	ErrAssignmentTime      = apperrors.Validation("planned start must be before planned end")
	ErrCheckInNotAllowed   = apperrors.InvalidState("check-in is only allowed for a scheduled shift")
	ErrCheckOutNotAllowed  = apperrors.InvalidState("check-out requires an in-progress shift")
	ErrCancelCompleted     = apperrors.InvalidState("a completed shift cannot be cancelled")
	ErrAssignmentCancelled = apperrors.InvalidState("shift assignment is already cancelled")
	ErrVersionConflict     = apperrors.InvalidState("shift assignment was modified concurrently")
)
