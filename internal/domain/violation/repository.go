package violation

import (
	"context"
	"time"
)

// ViolationRepository defines data access for attendance violations.
type ViolationRepository interface {
	Create(ctx context.Context, v AttendanceViolation) (AttendanceViolation, error)
	GetByID(ctx context.Context, id string) (AttendanceViolation, error)
	Update(ctx context.Context, v AttendanceViolation) error
	List(ctx context.Context, filter ViolationFilter) ([]AttendanceViolation, int64, error)
	// ExistsForAssignment prevents duplicate detection of the same violation
	// type on one assignment.
	ExistsForAssignment(ctx context.Context, assignmentID string, violationType Type) (bool, error)
	// ListOverdue returns violations pending explanation since before the cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]AttendanceViolation, error)
	// ListResolvedForPeriod returns an employee's violations between from and
	// to for payroll reconciliation.
	ListForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceViolation, error)
}

// ExplanationRepository defines data access for violation explanations.
type ExplanationRepository interface {
	Create(ctx context.Context, e ViolationExplanation) (ViolationExplanation, error)
	GetByID(ctx context.Context, id string) (ViolationExplanation, error)
	GetLatestByViolation(ctx context.Context, violationID string) (*ViolationExplanation, error)
	Update(ctx context.Context, e ViolationExplanation) error
}

// EvidenceRepository defines data access for explanation evidence rows.
type EvidenceRepository interface {
	Create(ctx context.Context, ev ExplanationEvidence) (ExplanationEvidence, error)
	GetByID(ctx context.Context, id string) (ExplanationEvidence, error)
	ListByExplanation(ctx context.Context, explanationID string) ([]ExplanationEvidence, error)
	Delete(ctx context.Context, id string) error
}
