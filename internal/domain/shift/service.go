package shift

import (
	"context"
)

// TemplateService defines business logic for the shift template catalog.
type TemplateService interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (TemplateResponse, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	// DeleteTemplate removes an unused template; templates referenced by
	// assignments can only be deactivated.
	DeleteTemplate(ctx context.Context, id string) error
	ListTemplates(ctx context.Context, activeOnly bool) ([]TemplateResponse, error)
}

// ScheduleService defines business logic for the schedule lifecycle.
type ScheduleService interface {
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	PublishSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ArchiveSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	CancelSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ListSchedules(ctx context.Context, status *ScheduleStatus, page, limit int) ([]ScheduleResponse, int64, error)
}

// AssignmentService owns the assignment check-in/check-out state machine.
type AssignmentService interface {
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)
	GetAssignment(ctx context.Context, id string) (AssignmentResponse, error)
	CheckIn(ctx context.Context, req CheckInRequest) (AssignmentResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AssignmentResponse, error)
	CancelAssignment(ctx context.Context, req CancelAssignmentRequest) (AssignmentResponse, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]AssignmentResponse, int64, error)
	// MarkNoShows flips scheduled assignments past their planned end with no
	// check-in to no_show. Run from the end-of-day job.
	MarkNoShows(ctx context.Context) (int, error)
}
