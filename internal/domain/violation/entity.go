package violation

import (
	"strings"
	"time"
)

type Type string

const (
	TypeLateArrival             Type = "late_arrival"
	TypeEarlyDeparture          Type = "early_departure"
	TypeMissingCheckIn          Type = "missing_check_in"
	TypeMissingCheckOut         Type = "missing_check_out"
	TypeAbsentWithoutLeave      Type = "absent_without_leave"
	TypeOvertimeWithoutApproval Type = "overtime_without_approval"
	TypeWrongLocation           Type = "wrong_location"
)

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for the at-least-major floor on absences.
var severityRank = map[Severity]int{
	SeverityMinor:    0,
	SeverityModerate: 1,
	SeverityMajor:    2,
	SeverityCritical: 3,
}

// SeverityThresholds classify a deviation by magnitude. Values are
// configuration, minutes.
type SeverityThresholds struct {
	MinorMax    int // deviation <= MinorMax    -> minor
	ModerateMax int // deviation <= ModerateMax -> moderate
	MajorMax    int // deviation <= MajorMax    -> major, else critical
}

func DefaultSeverityThresholds() SeverityThresholds {
	return SeverityThresholds{MinorMax: 30, ModerateMax: 60, MajorMax: 120}
}

// ClassifySeverity maps a deviation to a severity. Absence without leave is
// always at least major regardless of the thresholds.
func ClassifySeverity(violationType Type, deviationMinutes int, t SeverityThresholds) Severity {
	var s Severity
	switch {
	case deviationMinutes <= t.MinorMax:
		s = SeverityMinor
	case deviationMinutes <= t.ModerateMax:
		s = SeverityModerate
	case deviationMinutes <= t.MajorMax:
		s = SeverityMajor
	default:
		s = SeverityCritical
	}
	if violationType == TypeAbsentWithoutLeave && severityRank[s] < severityRank[SeverityMajor] {
		s = SeverityMajor
	}
	return s
}

type Status string

const (
	StatusPendingExplanation   Status = "pending_explanation"
	StatusExplanationSubmitted Status = "explanation_submitted"
	StatusUnderReview          Status = "under_review"
	StatusApproved             Status = "approved"
	StatusRejected             Status = "rejected"
	StatusResolved             Status = "resolved"
	StatusEscalated            Status = "escalated"
)

var violationTransitions = map[Status][]Status{
	StatusPendingExplanation:   {StatusExplanationSubmitted, StatusEscalated},
	StatusExplanationSubmitted: {StatusUnderReview, StatusResolved, StatusPendingExplanation},
	StatusUnderReview:          {StatusResolved, StatusPendingExplanation, StatusExplanationSubmitted},
	StatusApproved:             {},
	StatusRejected:             {StatusPendingExplanation},
	StatusResolved:             {},
	StatusEscalated:            {StatusResolved},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range violationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AttendanceViolation is a detected deviation between planned and actual
// attendance on one assignment.
type AttendanceViolation struct {
	ID               string
	EmployeeID       string
	AssignmentID     *string
	Date             time.Time
	Type             Type
	Severity         Severity
	ExpectedTime     *time.Time
	ActualTime       *time.Time
	DeviationMinutes int
	Status           Status
	AutoDetected     bool
	Description      *string
	ResolvedBy       *string
	ResolvedAt       *time.Time
	ResolutionNote   *string
	ResubmissionCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanBeExplained reports whether the employee may still submit an explanation.
func (v AttendanceViolation) CanBeExplained() bool {
	return v.Status == StatusPendingExplanation || v.Status == StatusRejected
}

// IsOverdue reports whether the violation has waited for an explanation longer
// than the configured number of days.
func (v AttendanceViolation) IsOverdue(now time.Time, overdueDays int) bool {
	if v.Status != StatusPendingExplanation {
		return false
	}
	return now.Sub(v.CreatedAt) > time.Duration(overdueDays)*24*time.Hour
}

type ExplanationStatus string

const (
	ExplanationSubmitted        ExplanationStatus = "submitted"
	ExplanationUnderReview      ExplanationStatus = "under_review"
	ExplanationApproved         ExplanationStatus = "approved"
	ExplanationRejected         ExplanationStatus = "rejected"
	ExplanationRequiresMoreInfo ExplanationStatus = "requires_more_info"
)

// ViolationExplanation is the employee's justification for a violation,
// optionally evidenced, subject to manager review.
type ViolationExplanation struct {
	ID          string
	ViolationID string
	SubmittedBy string
	Text        string
	Status      ExplanationStatus
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNotes *string
	IsValid     bool
	Evidence    []ExplanationEvidence
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEditable: only while submitted or when the reviewer asked for more info.
func (e ViolationExplanation) IsEditable() bool {
	return e.Status == ExplanationSubmitted || e.Status == ExplanationRequiresMoreInfo
}

// ExplanationEvidence is an attached file. Bytes are opaque to the core; only
// name, size and type are checked.
type ExplanationEvidence struct {
	ID            string
	ExplanationID string
	FileName      string
	FilePath      string
	FileURL       *string
	FileSize      int64
	MimeType      string
	FileHash      *string
	IsVerified    bool
	VerifiedBy    *string
	UploadedAt    time.Time
}

// allowedEvidenceExtensions is the evidence file allow-list.
var allowedEvidenceExtensions = []string{
	"jpg", "jpeg", "png", "gif", "bmp",
	"pdf",
	"doc", "docx",
	"xls", "xlsx",
	"txt",
}

// IsAllowedEvidenceFile checks the extension against the allow-list.
func IsAllowedEvidenceFile(fileName string) bool {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return false
	}
	ext := strings.ToLower(fileName[idx+1:])
	for _, allowed := range allowedEvidenceExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
