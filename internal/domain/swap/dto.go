package swap

import (
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

type CreateSwapRequest struct {
	TargetEmployeeID      string  `json:"target_employee_id"`
	RequesterAssignmentID string  `json:"requester_assignment_id"`
	TargetAssignmentID    string  `json:"target_assignment_id"`
	Priority              string  `json:"priority"`
	IsEmergency           bool    `json:"is_emergency"`
	Reason                *string `json:"reason,omitempty"`
	ExpiryHours           int     `json:"expiry_hours"`
}

func (r *CreateSwapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TargetEmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "target_employee_id", Message: "target_employee_id is required"})
	}
	if validator.IsEmpty(r.RequesterAssignmentID) {
		errs = append(errs, validator.ValidationError{Field: "requester_assignment_id", Message: "requester_assignment_id is required"})
	}
	if validator.IsEmpty(r.TargetAssignmentID) {
		errs = append(errs, validator.ValidationError{Field: "target_assignment_id", Message: "target_assignment_id is required"})
	}
	if r.Priority != "" && !validator.IsOneOf(r.Priority, string(PriorityLow), string(PriorityNormal), string(PriorityHigh)) {
		errs = append(errs, validator.ValidationError{Field: "priority", Message: "priority must be low, normal or high"})
	}
	if r.ExpiryHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "expiry_hours", Message: "expiry_hours must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TargetResponseRequest struct {
	SwapRequestID string  `json:"-"`
	Response      string  `json:"response"` // accepted / rejected
	Reason        *string `json:"reason,omitempty"`
}

func (r *TargetResponseRequest) Validate() error {
	if !validator.IsOneOf(r.Response, string(TargetAccepted), string(TargetRejected)) {
		return validator.ValidationErrors{{Field: "response", Message: "response must be accepted or rejected"}}
	}
	return nil
}

type ManagerResponseRequest struct {
	SwapRequestID string  `json:"-"`
	Response      string  `json:"response"` // approved / declined
	Note          *string `json:"note,omitempty"`
}

func (r *ManagerResponseRequest) Validate() error {
	if !validator.IsOneOf(r.Response, string(ManagerApproved), string(ManagerDeclined)) {
		return validator.ValidationErrors{{Field: "response", Message: "response must be approved or declined"}}
	}
	return nil
}

type SwapFilter struct {
	RequesterID *string
	TargetID    *string
	Status      *Status
	Page        int
	Limit       int
}

type SwapResponse struct {
	ID                    string     `json:"id"`
	RequesterID           string     `json:"requester_id"`
	TargetEmployeeID      string     `json:"target_employee_id"`
	RequesterAssignmentID string     `json:"requester_assignment_id"`
	TargetAssignmentID    string     `json:"target_assignment_id"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	IsEmergency           bool       `json:"is_emergency"`
	RequesterReason       *string    `json:"requester_reason,omitempty"`
	TargetReason          *string    `json:"target_reason,omitempty"`
	ManagerNote           *string    `json:"manager_note,omitempty"`
	TargetResponse        *string    `json:"target_response,omitempty"`
	ManagerResponse       *string    `json:"manager_response,omitempty"`
	ApprovedBy            *string    `json:"approved_by,omitempty"`
	ExpiryTime            time.Time  `json:"expiry_time"`
	CreatedAt             time.Time  `json:"created_at"`
	TargetRespondedAt     *time.Time `json:"target_responded_at,omitempty"`
	ManagerRespondedAt    *time.Time `json:"manager_responded_at,omitempty"`
}

func NewSwapResponse(r SwapRequest) SwapResponse {
	resp := SwapResponse{
		ID:                    r.ID,
		RequesterID:           r.RequesterID,
		TargetEmployeeID:      r.TargetEmployeeID,
		RequesterAssignmentID: r.RequesterAssignmentID,
		TargetAssignmentID:    r.TargetAssignmentID,
		Status:                string(r.Status),
		Priority:              string(r.Priority),
		IsEmergency:           r.IsEmergency,
		RequesterReason:       r.RequesterReason,
		TargetReason:          r.TargetReason,
		ManagerNote:           r.ManagerNote,
		ApprovedBy:            r.ApprovedBy,
		ExpiryTime:            r.ExpiryTime,
		CreatedAt:             r.CreatedAt,
		TargetRespondedAt:     r.TargetRespondedAt,
		ManagerRespondedAt:    r.ManagerRespondedAt,
	}
	if r.TargetResponse != nil {
		s := string(*r.TargetResponse)
		resp.TargetResponse = &s
	}
	if r.ManagerResponse != nil {
		s := string(*r.ManagerResponse)
		resp.ManagerResponse = &s
	}
	return resp
}
