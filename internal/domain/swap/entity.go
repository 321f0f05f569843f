package swap

import (
	"time"
)

type Status string

const (
	StatusPendingTarget  Status = "pending_target"
	StatusPendingManager Status = "pending_manager"
	StatusAccepted       Status = "accepted"
	StatusRejected       Status = "rejected"
	StatusApproved       Status = "approved"
	StatusDeclined       Status = "declined"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusDeclined, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type TargetResponse string

const (
	TargetAccepted TargetResponse = "accepted"
	TargetRejected TargetResponse = "rejected"
)

type ManagerResponse string

const (
	ManagerApproved ManagerResponse = "approved"
	ManagerDeclined ManagerResponse = "declined"
)

// SwapRequest negotiates the exchange of two assignments between two
// employees, gated by target acceptance and manager approval.
type SwapRequest struct {
	ID                    string
	RequesterID           string
	TargetEmployeeID      string
	RequesterAssignmentID string
	TargetAssignmentID    string
	Status                Status
	Priority              Priority
	IsEmergency           bool
	RequesterReason       *string
	TargetReason          *string
	ManagerNote           *string
	TargetResponse        *TargetResponse
	TargetRespondedAt     *time.Time
	ManagerResponse       *ManagerResponse
	ApprovedBy            *string
	ManagerRespondedAt    *time.Time
	ExpiryTime            time.Time
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// InitialStatus is pending_target for normal requests; emergency requests
// enter the manager queue immediately, with target acceptance running in
// parallel.
func InitialStatus(emergency bool) Status {
	if emergency {
		return StatusPendingManager
	}
	return StatusPendingTarget
}

// RespondTarget applies the target employee's response. A rejection always
// wins: it discards any manager approval already recorded on an emergency
// request that the target had not yet answered.
func (r *SwapRequest) RespondTarget(response TargetResponse, reason *string, now time.Time) error {
	switch r.Status {
	case StatusPendingTarget, StatusPendingManager:
	default:
		return ErrTargetResponseClosed
	}
	if r.TargetResponse != nil {
		return ErrTargetResponseClosed
	}

	r.TargetResponse = &response
	r.TargetRespondedAt = &now
	r.TargetReason = reason

	if response == TargetRejected {
		r.Status = StatusRejected
		// Conservative rule for the emergency fast-track: target rejection
		// overrides a manager approval recorded while acceptance was pending.
		r.ManagerResponse = nil
		r.ApprovedBy = nil
		r.ManagerRespondedAt = nil
		return nil
	}

	if r.readyToApply() {
		// Emergency track: a manager approval was already recorded while
		// target acceptance was pending.
		r.Status = StatusApproved
	} else if r.Status == StatusPendingTarget {
		r.Status = StatusAccepted
	}
	// Emergency requests without a manager decision stay pending_manager;
	// acceptance is recorded on the response fields.
	return nil
}

// RespondManager applies the manager's decision. Approval is only legal once
// the request is accepted, or still pending_manager on the emergency track.
func (r *SwapRequest) RespondManager(response ManagerResponse, approverID string, note *string, now time.Time) error {
	switch r.Status {
	case StatusAccepted, StatusPendingManager:
	default:
		return ErrManagerResponseClosed
	}
	if r.ManagerResponse != nil {
		return ErrManagerResponseClosed
	}

	r.ManagerResponse = &response
	r.ApprovedBy = &approverID
	r.ManagerRespondedAt = &now
	r.ManagerNote = note

	if response == ManagerDeclined {
		r.Status = StatusDeclined
		return nil
	}

	if r.readyToApply() {
		r.Status = StatusApproved
	}
	// Otherwise an emergency approval waits for target acceptance; status
	// stays pending_manager until the target answers.
	return nil
}

// readyToApply means both parties said yes.
func (r *SwapRequest) readyToApply() bool {
	return r.TargetResponse != nil && *r.TargetResponse == TargetAccepted &&
		r.ManagerResponse != nil && *r.ManagerResponse == ManagerApproved
}

// Cancel lets the requester withdraw before the swap is applied.
func (r *SwapRequest) Cancel() error {
	switch r.Status {
	case StatusPendingTarget, StatusPendingManager, StatusAccepted:
		r.Status = StatusCancelled
		return nil
	}
	return ErrCancelClosed
}

// Expire flips a non-terminal request past its expiry time. Idempotent and
// safe to apply redundantly.
func (r *SwapRequest) Expire(now time.Time) bool {
	if r.Status.IsTerminal() {
		return false
	}
	if now.Before(r.ExpiryTime) {
		return false
	}
	r.Status = StatusExpired
	return true
}
