package shift

import (
	"context"
	"time"
)

// TemplateRepository defines data access for the shift template catalog.
type TemplateRepository interface {
	Create(ctx context.Context, template ShiftTemplate) (ShiftTemplate, error)
	GetByID(ctx context.Context, id string) (ShiftTemplate, error)
	GetByCode(ctx context.Context, code string) (*ShiftTemplate, error)
	Update(ctx context.Context, template ShiftTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]ShiftTemplate, error)
	CountAssignments(ctx context.Context, templateID string) (int64, error)
}

// ScheduleRepository defines data access for shift schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule ShiftSchedule) (ShiftSchedule, error)
	GetByID(ctx context.Context, id string) (ShiftSchedule, error)
	UpdateStatus(ctx context.Context, id string, status ScheduleStatus, publishedBy *string, publishedAt *time.Time) error
	List(ctx context.Context, status *ScheduleStatus, page, limit int) ([]ShiftSchedule, int64, error)
	CountAssignments(ctx context.Context, scheduleID string) (int64, error)
}

// AssignmentRepository defines data access for shift assignments.
//
// ListByEmployeeAndDate must be called inside the same transaction that
// inserts a new assignment so concurrent creations cannot both pass the
// conflict check.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	GetByID(ctx context.Context, id string) (ShiftAssignment, error)
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]ShiftAssignment, error)
	// Update persists a state transition guarded by the optimistic version;
	// returns ErrVersionConflict when the row moved underneath.
	Update(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]ShiftAssignment, int64, error)
	// ListOpenPast returns scheduled assignments whose planned end already
	// passed, for no-show reconciliation.
	ListOpenPast(ctx context.Context, before time.Time) ([]ShiftAssignment, error)
	// ExchangeEmployees swaps the employee references of two assignments in
	// one transaction and stamps swap lineage on both rows.
	ExchangeEmployees(ctx context.Context, firstID, secondID, swapRequestID string) error
	// ListSettledForPeriod returns completed/no_show/cancelled assignments of
	// one employee between from and to, for payroll reconciliation.
	ListSettledForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]ShiftAssignment, error)
}
