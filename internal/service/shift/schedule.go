package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

type scheduleServiceImpl struct {
	scheduleRepo shift.ScheduleRepository
	clk          clock.Clock
}

func NewScheduleService(scheduleRepo shift.ScheduleRepository, clk clock.Clock) shift.ScheduleService {
	return &scheduleServiceImpl{scheduleRepo: scheduleRepo, clk: clk}
}

// CreateSchedule implements shift.ScheduleService.
func (s *scheduleServiceImpl) CreateSchedule(ctx context.Context, req shift.CreateScheduleRequest) (shift.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ScheduleResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if startDate.After(endDate) {
		return shift.ScheduleResponse{}, shift.ErrScheduleInvalidRange
	}

	createdBy, err := actorID(ctx)
	if err != nil {
		return shift.ScheduleResponse{}, err
	}

	schedule := shift.ShiftSchedule{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Type:        shift.ScheduleType(req.Type),
		Status:      shift.ScheduleStatusDraft,
		CreatedBy:   &createdBy,
	}

	created, err := s.scheduleRepo.Create(ctx, schedule)
	if err != nil {
		return shift.ScheduleResponse{}, fmt.Errorf("failed to create shift schedule: %w", err)
	}
	return shift.NewScheduleResponse(created), nil
}

// GetSchedule implements shift.ScheduleService.
func (s *scheduleServiceImpl) GetSchedule(ctx context.Context, id string) (shift.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ScheduleResponse{}, err
	}
	return shift.NewScheduleResponse(schedule), nil
}

// PublishSchedule implements shift.ScheduleService. Publishing requires at
// least one assignment; an empty roster has nothing to announce.
func (s *scheduleServiceImpl) PublishSchedule(ctx context.Context, id string) (shift.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ScheduleResponse{}, err
	}
	if !schedule.Status.CanTransitionTo(shift.ScheduleStatusPublished) {
		return shift.ScheduleResponse{}, shift.ErrScheduleTransition
	}

	count, err := s.scheduleRepo.CountAssignments(ctx, id)
	if err != nil {
		return shift.ScheduleResponse{}, fmt.Errorf("failed to count schedule assignments: %w", err)
	}
	if count == 0 {
		return shift.ScheduleResponse{}, shift.ErrPublishEmptySchedule
	}

	publishedBy, err := actorID(ctx)
	if err != nil {
		return shift.ScheduleResponse{}, err
	}
	publishedAt := s.clk.Now()

	if err := s.scheduleRepo.UpdateStatus(ctx, id, shift.ScheduleStatusPublished, &publishedBy, &publishedAt); err != nil {
		return shift.ScheduleResponse{}, fmt.Errorf("failed to publish schedule: %w", err)
	}

	schedule.Status = shift.ScheduleStatusPublished
	schedule.PublishedBy = &publishedBy
	schedule.PublishedAt = &publishedAt
	return shift.NewScheduleResponse(schedule), nil
}

// ArchiveSchedule implements shift.ScheduleService.
func (s *scheduleServiceImpl) ArchiveSchedule(ctx context.Context, id string) (shift.ScheduleResponse, error) {
	return s.transition(ctx, id, shift.ScheduleStatusArchived)
}

// CancelSchedule implements shift.ScheduleService.
func (s *scheduleServiceImpl) CancelSchedule(ctx context.Context, id string) (shift.ScheduleResponse, error) {
	return s.transition(ctx, id, shift.ScheduleStatusCancelled)
}

func (s *scheduleServiceImpl) transition(ctx context.Context, id string, next shift.ScheduleStatus) (shift.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ScheduleResponse{}, err
	}
	if !schedule.Status.CanTransitionTo(next) {
		return shift.ScheduleResponse{}, shift.ErrScheduleTransition
	}

	if err := s.scheduleRepo.UpdateStatus(ctx, id, next, nil, nil); err != nil {
		return shift.ScheduleResponse{}, fmt.Errorf("failed to update schedule status: %w", err)
	}

	schedule.Status = next
	return shift.NewScheduleResponse(schedule), nil
}

// ListSchedules implements shift.ScheduleService.
func (s *scheduleServiceImpl) ListSchedules(ctx context.Context, status *shift.ScheduleStatus, page, limit int) ([]shift.ScheduleResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	schedules, total, err := s.scheduleRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift schedules: %w", err)
	}

	responses := make([]shift.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		responses = append(responses, shift.NewScheduleResponse(sc))
	}
	return responses, total, nil
}
