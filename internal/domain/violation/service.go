package violation

import (
	"context"
	"io"
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
)

// DetectionService raises violations by comparing planned against actual
// attendance.
type DetectionService interface {
	// DetectForAssignment inspects one settled or in-progress assignment and
	// records any violations not yet on file. Called after check-in/check-out
	// and from the end-of-day job.
	DetectForAssignment(ctx context.Context, assignment shift.ShiftAssignment) ([]AttendanceViolation, error)
	// DetectForDate runs end-of-day reconciliation over all assignments of a
	// date, including missing check-out and absence detection.
	DetectForDate(ctx context.Context, date time.Time) (int, error)
}

// ExplanationService manages the explanation/evidence/review workflow.
type ExplanationService interface {
	SubmitExplanation(ctx context.Context, req SubmitExplanationRequest) (ExplanationResponse, error)
	UpdateExplanation(ctx context.Context, req UpdateExplanationRequest) (ExplanationResponse, error)
	AttachEvidence(ctx context.Context, req AttachEvidenceRequest, file io.Reader) (EvidenceResponse, error)
	RemoveEvidence(ctx context.Context, evidenceID string) error
	ReviewExplanation(ctx context.Context, req ReviewExplanationRequest) (ExplanationResponse, error)
	GetExplanation(ctx context.Context, id string) (ExplanationResponse, error)
}

// ViolationService exposes violation queries and the escalation sweep.
type ViolationService interface {
	GetViolation(ctx context.Context, id string) (ViolationResponse, error)
	ListViolations(ctx context.Context, filter ViolationFilter) ([]ViolationResponse, int64, error)
	ListOverdue(ctx context.Context) ([]ViolationResponse, error)
	// EscalateOverdue marks overdue violations escalated. Only run when the
	// escalation policy is enabled.
	EscalateOverdue(ctx context.Context) (int, error)
}
