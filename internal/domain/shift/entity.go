package shift

import (
	"time"
)

// ShiftTemplate is a reusable shift definition, not tied to any employee or date.
type ShiftTemplate struct {
	ID               string
	Name             string
	Code             string
	StartTime        string // HH:MM
	EndTime          string // HH:MM
	BreakStart       *string
	BreakEnd         *string
	BreakMinutes     int
	OvertimeEligible bool
	IsActive         bool
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TotalHours is the template working span minus the break window.
func (t ShiftTemplate) TotalHours() float64 {
	start, err1 := time.Parse("15:04", t.StartTime)
	end, err2 := time.Parse("15:04", t.EndTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := end.Sub(start).Minutes()
	if t.BreakStart != nil && t.BreakEnd != nil {
		bs, err1 := time.Parse("15:04", *t.BreakStart)
		be, err2 := time.Parse("15:04", *t.BreakEnd)
		if err1 == nil && err2 == nil {
			minutes -= be.Sub(bs).Minutes()
		}
	} else if t.BreakMinutes > 0 {
		minutes -= float64(t.BreakMinutes)
	}
	if minutes < 0 {
		return 0
	}
	return minutes / 60
}

type ScheduleType string

const (
	ScheduleTypeWeekly  ScheduleType = "weekly"
	ScheduleTypeMonthly ScheduleType = "monthly"
	ScheduleTypeCustom  ScheduleType = "custom"
)

type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusPublished ScheduleStatus = "published"
	ScheduleStatusArchived  ScheduleStatus = "archived"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// scheduleTransitions is the single source of truth for legal schedule
// lifecycle moves.
var scheduleTransitions = map[ScheduleStatus][]ScheduleStatus{
	ScheduleStatusDraft:     {ScheduleStatusPublished, ScheduleStatusCancelled},
	ScheduleStatusPublished: {ScheduleStatusArchived, ScheduleStatusCancelled},
	ScheduleStatusArchived:  {},
	ScheduleStatusCancelled: {},
}

func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	for _, allowed := range scheduleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShiftSchedule groups assignments over a date range with a publish lifecycle.
type ShiftSchedule struct {
	ID              string
	Name            string
	Description     *string
	StartDate       time.Time
	EndDate         time.Time
	Type            ScheduleType
	Status          ScheduleStatus
	AssignmentCount int
	PublishedBy     *string
	PublishedAt     *time.Time
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type AssignmentStatus string

const (
	AssignmentStatusScheduled  AssignmentStatus = "scheduled"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
	AssignmentStatusNoShow     AssignmentStatus = "no_show"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusScheduled:  {AssignmentStatusInProgress, AssignmentStatusCancelled, AssignmentStatusNoShow},
	AssignmentStatusInProgress: {AssignmentStatusCompleted, AssignmentStatusCancelled},
	AssignmentStatusCompleted:  {},
	AssignmentStatusCancelled:  {},
	AssignmentStatusNoShow:     {},
}

func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AttendanceStatus string

const (
	AttendancePending    AttendanceStatus = "pending"
	AttendancePresent    AttendanceStatus = "present"
	AttendanceAbsent     AttendanceStatus = "absent"
	AttendanceLate       AttendanceStatus = "late"
	AttendanceEarlyLeave AttendanceStatus = "early_leave"
)

// ShiftAssignment binds one employee to a concrete shift on a specific date.
// Completed assignments are never deleted; cancellations and swaps are recorded
// in place so the history stays auditable.
type ShiftAssignment struct {
	ID               string
	EmployeeID       string
	TemplateID       string
	ScheduleID       *string
	AssignedBy       string
	Date             time.Time
	PlannedStart     time.Time
	PlannedEnd       time.Time
	BreakStart       *time.Time
	BreakEnd         *time.Time
	ActualStart      *time.Time
	ActualEnd        *time.Time
	PlannedHours     float64
	ActualHours      float64
	OvertimeHours    float64
	Status           AssignmentStatus
	AttendanceStatus AttendanceStatus
	LateMinutes      *int
	EarlyLeaveMinutes *int
	CheckInLocation  *string
	CheckOutLocation *string
	Notes            *string
	// Swap lineage: set when a manager-approved swap moved this slot to a
	// different employee.
	SwappedFromEmployeeID *string
	SwapRequestID         *string
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Overlaps reports whether two planned windows on the same date collide.
// Half-open semantics: a shift ending exactly when another begins is fine.
func (a ShiftAssignment) Overlaps(other ShiftAssignment) bool {
	if !sameDay(a.Date, other.Date) {
		return false
	}
	return a.PlannedStart.Before(other.PlannedEnd) && a.PlannedEnd.After(other.PlannedStart)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CheckIn applies the check-in transition. Tolerance is the grace window after
// plannedStart before the check-in counts as late.
func (a *ShiftAssignment) CheckIn(now time.Time, location *string, tolerance time.Duration) error {
	if a.Status != AssignmentStatusScheduled {
		return ErrCheckInNotAllowed
	}

	a.ActualStart = &now
	a.Status = AssignmentStatusInProgress
	a.CheckInLocation = location

	if now.After(a.PlannedStart.Add(tolerance)) {
		late := int(now.Sub(a.PlannedStart).Minutes())
		a.AttendanceStatus = AttendanceLate
		a.LateMinutes = &late
	} else {
		a.AttendanceStatus = AttendancePresent
	}
	return nil
}

// CheckOut applies the check-out transition and settles worked hours. Break
// overlap with the actual window is excluded; hours never go negative.
func (a *ShiftAssignment) CheckOut(now time.Time, location *string, tolerance time.Duration) error {
	if a.Status != AssignmentStatusInProgress {
		return ErrCheckOutNotAllowed
	}

	a.ActualEnd = &now
	a.Status = AssignmentStatusCompleted
	a.CheckOutLocation = location

	worked := now.Sub(*a.ActualStart)
	if a.BreakStart != nil && a.BreakEnd != nil {
		worked -= intervalOverlap(*a.ActualStart, now, *a.BreakStart, *a.BreakEnd)
	}
	if worked < 0 {
		worked = 0
	}
	a.ActualHours = worked.Hours()
	a.OvertimeHours = a.ActualHours - a.PlannedHours
	if a.OvertimeHours < 0 {
		a.OvertimeHours = 0
	}

	if now.Before(a.PlannedEnd.Add(-tolerance)) {
		early := int(a.PlannedEnd.Sub(now).Minutes())
		// The enum holds the most recent determination; LateMinutes keeps the
		// earlier signal so neither is lost.
		a.AttendanceStatus = AttendanceEarlyLeave
		a.EarlyLeaveMinutes = &early
	}
	return nil
}

// Cancel marks the assignment cancelled with the reason appended to notes.
func (a *ShiftAssignment) Cancel(reason string) error {
	if a.Status == AssignmentStatusCompleted {
		return ErrCancelCompleted
	}
	if a.Status == AssignmentStatusCancelled {
		return ErrAssignmentCancelled
	}
	a.Status = AssignmentStatusCancelled
	a.AttendanceStatus = AttendanceAbsent
	note := "cancelled: " + reason
	if a.Notes != nil && *a.Notes != "" {
		note = *a.Notes + "; " + note
	}
	a.Notes = &note
	return nil
}

func intervalOverlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0
	}
	return end.Sub(start)
}
