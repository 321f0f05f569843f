package notification

import "context"

// Event types emitted by the core after a state transition commits.
const (
	EventShiftAssigned      = "shift.assigned"
	EventShiftCancelled     = "shift.cancelled"
	EventSwapRequested      = "swap.requested"
	EventSwapTargetResponse = "swap.target_response"
	EventSwapDecided        = "swap.decided"
	EventSwapExpired        = "swap.expired"
	EventViolationDetected  = "violation.detected"
	EventExplanationReviewed = "violation.explanation_reviewed"
	EventPayrollCalculated  = "payroll.calculated"
	EventPayrollApproved    = "payroll.approved"
	EventPayrollPaid        = "payroll.paid"
)

// Sink delivers notifications best-effort. Implementations must never block a
// state transition; failures are logged, not propagated.
type Sink interface {
	Notify(ctx context.Context, userID string, eventType string, payload map[string]interface{})
}
