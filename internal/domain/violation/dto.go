package violation

import (
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

type SubmitExplanationRequest struct {
	ViolationID string `json:"-"`
	Text        string `json:"text"`
}

func (r *SubmitExplanationRequest) Validate() error {
	if validator.IsEmpty(r.Text) {
		return validator.ValidationErrors{{Field: "text", Message: "text is required"}}
	}
	return nil
}

type UpdateExplanationRequest struct {
	ExplanationID string `json:"-"`
	Text          string `json:"text"`
}

func (r *UpdateExplanationRequest) Validate() error {
	if validator.IsEmpty(r.Text) {
		return validator.ValidationErrors{{Field: "text", Message: "text is required"}}
	}
	return nil
}

type ReviewAction string

const (
	ReviewApprove         ReviewAction = "approve"
	ReviewReject          ReviewAction = "reject"
	ReviewRequestMoreInfo ReviewAction = "request_more_info"
)

type ReviewExplanationRequest struct {
	ExplanationID string  `json:"-"`
	Action        string  `json:"action"`
	Notes         *string `json:"notes,omitempty"`
}

func (r *ReviewExplanationRequest) Validate() error {
	if !validator.IsOneOf(r.Action, string(ReviewApprove), string(ReviewReject), string(ReviewRequestMoreInfo)) {
		return validator.ValidationErrors{{Field: "action", Message: "action must be approve, reject or request_more_info"}}
	}
	return nil
}

type AttachEvidenceRequest struct {
	ExplanationID string `json:"-"`
	FileName      string `json:"-"`
	MimeType      string `json:"-"`
	FileSize      int64  `json:"-"`
}

type ViolationFilter struct {
	EmployeeID *string
	Status     *Status
	Type       *Type
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type ViolationResponse struct {
	ID               string     `json:"id"`
	EmployeeID       string     `json:"employee_id"`
	AssignmentID     *string    `json:"assignment_id,omitempty"`
	Date             string     `json:"date"`
	Type             string     `json:"type"`
	Severity         string     `json:"severity"`
	ExpectedTime     *time.Time `json:"expected_time,omitempty"`
	ActualTime       *time.Time `json:"actual_time,omitempty"`
	DeviationMinutes int        `json:"deviation_minutes"`
	Status           string     `json:"status"`
	AutoDetected     bool       `json:"auto_detected"`
	Description      *string    `json:"description,omitempty"`
	Overdue          bool       `json:"overdue"`
	CreatedAt        time.Time  `json:"created_at"`

	LatestExplanation *ExplanationResponse `json:"latest_explanation,omitempty"`
}

func NewViolationResponse(v AttendanceViolation, now time.Time, overdueDays int) ViolationResponse {
	return ViolationResponse{
		ID:               v.ID,
		EmployeeID:       v.EmployeeID,
		AssignmentID:     v.AssignmentID,
		Date:             v.Date.Format("2006-01-02"),
		Type:             string(v.Type),
		Severity:         string(v.Severity),
		ExpectedTime:     v.ExpectedTime,
		ActualTime:       v.ActualTime,
		DeviationMinutes: v.DeviationMinutes,
		Status:           string(v.Status),
		AutoDetected:     v.AutoDetected,
		Description:      v.Description,
		Overdue:          v.IsOverdue(now, overdueDays),
		CreatedAt:        v.CreatedAt,
	}
}

type EvidenceResponse struct {
	ID         string  `json:"id"`
	FileName   string  `json:"file_name"`
	FileURL    *string `json:"file_url,omitempty"`
	FileSize   int64   `json:"file_size"`
	MimeType   string  `json:"mime_type"`
	IsVerified bool    `json:"is_verified"`
}

type ExplanationResponse struct {
	ID          string             `json:"id"`
	ViolationID string             `json:"violation_id"`
	SubmittedBy string             `json:"submitted_by"`
	Text        string             `json:"text"`
	Status      string             `json:"status"`
	ReviewedBy  *string            `json:"reviewed_by,omitempty"`
	ReviewNotes *string            `json:"review_notes,omitempty"`
	IsValid     bool               `json:"is_valid"`
	Evidence    []EvidenceResponse `json:"evidence,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func NewExplanationResponse(e ViolationExplanation) ExplanationResponse {
	resp := ExplanationResponse{
		ID:          e.ID,
		ViolationID: e.ViolationID,
		SubmittedBy: e.SubmittedBy,
		Text:        e.Text,
		Status:      string(e.Status),
		ReviewedBy:  e.ReviewedBy,
		ReviewNotes: e.ReviewNotes,
		IsValid:     e.IsValid,
		CreatedAt:   e.CreatedAt,
	}
	for _, ev := range e.Evidence {
		resp.Evidence = append(resp.Evidence, EvidenceResponse{
			ID:         ev.ID,
			FileName:   ev.FileName,
			FileURL:    ev.FileURL,
			FileSize:   ev.FileSize,
			MimeType:   ev.MimeType,
			IsVerified: ev.IsVerified,
		})
	}
	return resp
}
