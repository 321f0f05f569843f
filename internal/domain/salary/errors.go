package salary

import "github.com/schoolhub/shiftops-backend-go/internal/pkg/apperrors"

// Salary domain errors
var (
	ErrStructureNotFound     = apperrors.NotFound("salary structure not found")
	ErrNoActiveStructure     = apperrors.NotFound("no active salary structure covers the pay period")
	ErrStructureOverlap      = apperrors.Conflict("an active salary structure already covers part of this range")
	ErrStructureInvalidRange = apperrors.Validation("effective date must not be after end date")
	ErrNegativeAmount        = apperrors.Validation("salary amounts must not be negative")

	ErrPayrollNotFound   = apperrors.NotFound("payroll not found")
	ErrPayrollExists     = apperrors.Conflict("payroll for this employee and period already exists")
	ErrPayrollNotEditable = apperrors.InvalidState("payroll can no longer be recalculated")
	ErrPayrollTransition = apperrors.InvalidState("illegal payroll status transition")
	ErrPayrollPaid       = apperrors.InvalidState("a paid payroll cannot be cancelled")
	ErrInvalidPeriod     = apperrors.Validation("period must be a valid year and month")
	ErrVersionConflict   = apperrors.InvalidState("payroll was modified concurrently")
)
