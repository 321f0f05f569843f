package shift

import (
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

// ========================================
// TEMPLATE DTOs
// ========================================

type CreateTemplateRequest struct {
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	StartTime        string  `json:"start_time"` // HH:MM
	EndTime          string  `json:"end_time"`
	BreakStart       *string `json:"break_start,omitempty"`
	BreakEnd         *string `json:"break_end,omitempty"`
	BreakMinutes     int     `json:"break_minutes"`
	OvertimeEligible bool    `json:"overtime_eligible"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	if !validator.IsValidClockTime(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
	}
	if !validator.IsValidClockTime(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
	}
	if (r.BreakStart == nil) != (r.BreakEnd == nil) {
		errs = append(errs, validator.ValidationError{Field: "break_start", Message: "break_start and break_end must be set together"})
	}
	if r.BreakStart != nil && !validator.IsValidClockTime(*r.BreakStart) {
		errs = append(errs, validator.ValidationError{Field: "break_start", Message: "break_start must be HH:MM"})
	}
	if r.BreakEnd != nil && !validator.IsValidClockTime(*r.BreakEnd) {
		errs = append(errs, validator.ValidationError{Field: "break_end", Message: "break_end must be HH:MM"})
	}
	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "break_minutes must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateTemplateRequest struct {
	ID               string  `json:"-"`
	Name             *string `json:"name,omitempty"`
	OvertimeEligible *bool   `json:"overtime_eligible,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

type TemplateResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Code             string  `json:"code"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	BreakStart       *string `json:"break_start,omitempty"`
	BreakEnd         *string `json:"break_end,omitempty"`
	BreakMinutes     int     `json:"break_minutes"`
	TotalHours       float64 `json:"total_hours"`
	OvertimeEligible bool    `json:"overtime_eligible"`
	IsActive         bool    `json:"is_active"`
}

func NewTemplateResponse(t ShiftTemplate) TemplateResponse {
	return TemplateResponse{
		ID:               t.ID,
		Name:             t.Name,
		Code:             t.Code,
		StartTime:        t.StartTime,
		EndTime:          t.EndTime,
		BreakStart:       t.BreakStart,
		BreakEnd:         t.BreakEnd,
		BreakMinutes:     t.BreakMinutes,
		TotalHours:       t.TotalHours(),
		OvertimeEligible: t.OvertimeEligible,
		IsActive:         t.IsActive,
	}
}

// ========================================
// SCHEDULE DTOs
// ========================================

type CreateScheduleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	StartDate   string  `json:"start_date"` // YYYY-MM-DD
	EndDate     string  `json:"end_date"`
	Type        string  `json:"type"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidDate(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	if !validator.IsValidDate(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if !validator.IsOneOf(r.Type, string(ScheduleTypeWeekly), string(ScheduleTypeMonthly), string(ScheduleTypeCustom)) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be weekly, monthly or custom"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	AssignmentCount int        `json:"assignment_count"`
	PublishedBy     *string    `json:"published_by,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

func NewScheduleResponse(s ShiftSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		StartDate:       s.StartDate.Format("2006-01-02"),
		EndDate:         s.EndDate.Format("2006-01-02"),
		Type:            string(s.Type),
		Status:          string(s.Status),
		AssignmentCount: s.AssignmentCount,
		PublishedBy:     s.PublishedBy,
		PublishedAt:     s.PublishedAt,
	}
}

// ========================================
// ASSIGNMENT DTOs
// ========================================

type CreateAssignmentRequest struct {
	EmployeeID string  `json:"employee_id"`
	TemplateID string  `json:"template_id"`
	ScheduleID *string `json:"schedule_id,omitempty"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Notes      *string `json:"notes,omitempty"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.TemplateID) {
		errs = append(errs, validator.ValidationError{Field: "template_id", Message: "template_id is required"})
	}
	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInRequest struct {
	AssignmentID string  `json:"-"`
	Location     *string `json:"location,omitempty"`
}

type CheckOutRequest struct {
	AssignmentID string  `json:"-"`
	Location     *string `json:"location,omitempty"`
}

type CancelAssignmentRequest struct {
	AssignmentID string `json:"-"`
	Reason       string `json:"reason"`
}

func (r *CancelAssignmentRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "reason is required"}}
	}
	return nil
}

type AssignmentFilter struct {
	EmployeeID *string
	ScheduleID *string
	Status     *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type AssignmentResponse struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employee_id"`
	TemplateID        string     `json:"template_id"`
	ScheduleID        *string    `json:"schedule_id,omitempty"`
	Date              string     `json:"date"`
	PlannedStart      time.Time  `json:"planned_start"`
	PlannedEnd        time.Time  `json:"planned_end"`
	ActualStart       *time.Time `json:"actual_start,omitempty"`
	ActualEnd         *time.Time `json:"actual_end,omitempty"`
	PlannedHours      float64    `json:"planned_hours"`
	ActualHours       float64    `json:"actual_hours"`
	OvertimeHours     float64    `json:"overtime_hours"`
	Status            string     `json:"status"`
	AttendanceStatus  string     `json:"attendance_status"`
	LateMinutes       *int       `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int       `json:"early_leave_minutes,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

func NewAssignmentResponse(a ShiftAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		TemplateID:        a.TemplateID,
		ScheduleID:        a.ScheduleID,
		Date:              a.Date.Format("2006-01-02"),
		PlannedStart:      a.PlannedStart,
		PlannedEnd:        a.PlannedEnd,
		ActualStart:       a.ActualStart,
		ActualEnd:         a.ActualEnd,
		PlannedHours:      a.PlannedHours,
		ActualHours:       a.ActualHours,
		OvertimeHours:     a.OvertimeHours,
		Status:            string(a.Status),
		AttendanceStatus:  string(a.AttendanceStatus),
		LateMinutes:       a.LateMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
		Notes:             a.Notes,
	}
}
