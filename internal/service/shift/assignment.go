package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
	"github.com/schoolhub/shiftops-backend-go/internal/repository/postgresql"
)

type assignmentServiceImpl struct {
	db           *database.DB
	assignmentRepo shift.AssignmentRepository
	templateRepo shift.TemplateRepository
	scheduleRepo shift.ScheduleRepository
	notifier     notification.Sink
	detector     violation.DetectionService
	clk          clock.Clock
	tolerance    time.Duration
}

func NewAssignmentService(
	db *database.DB,
	assignmentRepo shift.AssignmentRepository,
	templateRepo shift.TemplateRepository,
	scheduleRepo shift.ScheduleRepository,
	notifier notification.Sink,
	detector violation.DetectionService,
	clk clock.Clock,
	toleranceMinutes int,
) shift.AssignmentService {
	return &assignmentServiceImpl{
		db:             db,
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		scheduleRepo:   scheduleRepo,
		notifier:       notifier,
		detector:       detector,
		clk:            clk,
		tolerance:      time.Duration(toleranceMinutes) * time.Minute,
	}
}

// CreateAssignment implements shift.AssignmentService. The overlap check and
// the insert share one transaction so two concurrent creations for the same
// employee cannot both pass.
func (s *assignmentServiceImpl) CreateAssignment(ctx context.Context, req shift.CreateAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	template, err := s.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if !template.IsActive {
		return shift.AssignmentResponse{}, shift.ErrTemplateInactive
	}

	if req.ScheduleID != nil {
		schedule, err := s.scheduleRepo.GetByID(ctx, *req.ScheduleID)
		if err != nil {
			return shift.AssignmentResponse{}, err
		}
		if schedule.Status != shift.ScheduleStatusDraft {
			return shift.AssignmentResponse{}, shift.ErrScheduleNotDraft
		}
	}

	assignedBy, err := actorID(ctx)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	assignment := shift.ShiftAssignment{
		ID:               uuid.New().String(),
		EmployeeID:       req.EmployeeID,
		TemplateID:       template.ID,
		ScheduleID:       req.ScheduleID,
		AssignedBy:       assignedBy,
		Date:             date,
		PlannedStart:     atClockTime(date, template.StartTime),
		PlannedEnd:       atClockTime(date, template.EndTime),
		PlannedHours:     template.TotalHours(),
		Status:           shift.AssignmentStatusScheduled,
		AttendanceStatus: shift.AttendancePending,
		Notes:            req.Notes,
		Version:          1,
	}
	if template.BreakStart != nil && template.BreakEnd != nil {
		bs := atClockTime(date, *template.BreakStart)
		be := atClockTime(date, *template.BreakEnd)
		assignment.BreakStart = &bs
		assignment.BreakEnd = &be
	}
	if !assignment.PlannedStart.Before(assignment.PlannedEnd) {
		return shift.AssignmentResponse{}, shift.ErrAssignmentTime
	}

	var created shift.ShiftAssignment
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		existing, err := s.assignmentRepo.ListByEmployeeAndDate(txCtx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to list existing assignments: %w", err)
		}
		for _, other := range existing {
			if assignment.Overlaps(other) {
				return shift.ErrAssignmentConflict
			}
		}

		created, err = s.assignmentRepo.Create(txCtx, assignment)
		if err != nil {
			return fmt.Errorf("failed to create shift assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	s.notifier.Notify(ctx, created.EmployeeID, notification.EventShiftAssigned, map[string]interface{}{
		"assignment_id": created.ID,
		"date":          created.Date.Format("2006-01-02"),
		"template_code": template.Code,
	})

	return shift.NewAssignmentResponse(created), nil
}

// GetAssignment implements shift.AssignmentService.
func (s *assignmentServiceImpl) GetAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	return shift.NewAssignmentResponse(assignment), nil
}

// CheckIn implements shift.AssignmentService.
func (s *assignmentServiceImpl) CheckIn(ctx context.Context, req shift.CheckInRequest) (shift.AssignmentResponse, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	if err := assignment.CheckIn(s.clk.Now(), req.Location, s.tolerance); err != nil {
		return shift.AssignmentResponse{}, err
	}

	updated, err := s.assignmentRepo.Update(ctx, assignment)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	s.detect(ctx, updated)
	return shift.NewAssignmentResponse(updated), nil
}

// CheckOut implements shift.AssignmentService.
func (s *assignmentServiceImpl) CheckOut(ctx context.Context, req shift.CheckOutRequest) (shift.AssignmentResponse, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	if err := assignment.CheckOut(s.clk.Now(), req.Location, s.tolerance); err != nil {
		return shift.AssignmentResponse{}, err
	}

	updated, err := s.assignmentRepo.Update(ctx, assignment)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	s.detect(ctx, updated)
	return shift.NewAssignmentResponse(updated), nil
}

// detect runs violation detection over a freshly settled assignment. The
// attendance record stands on its own, so a detection failure is logged and
// the end-of-day job picks the assignment up again.
func (s *assignmentServiceImpl) detect(ctx context.Context, assignment shift.ShiftAssignment) {
	if s.detector == nil {
		return
	}
	if _, err := s.detector.DetectForAssignment(ctx, assignment); err != nil {
		slog.ErrorContext(ctx, "violation detection failed",
			slog.String("assignment_id", assignment.ID),
			slog.Any("error", err),
		)
	}
}

// CancelAssignment implements shift.AssignmentService.
func (s *assignmentServiceImpl) CancelAssignment(ctx context.Context, req shift.CancelAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	if err := assignment.Cancel(req.Reason); err != nil {
		return shift.AssignmentResponse{}, err
	}

	updated, err := s.assignmentRepo.Update(ctx, assignment)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	s.notifier.Notify(ctx, updated.EmployeeID, notification.EventShiftCancelled, map[string]interface{}{
		"assignment_id": updated.ID,
		"date":          updated.Date.Format("2006-01-02"),
		"reason":        req.Reason,
	})

	return shift.NewAssignmentResponse(updated), nil
}

// ListAssignments implements shift.AssignmentService.
func (s *assignmentServiceImpl) ListAssignments(ctx context.Context, filter shift.AssignmentFilter) ([]shift.AssignmentResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	assignments, total, err := s.assignmentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, shift.NewAssignmentResponse(a))
	}
	return responses, total, nil
}

// MarkNoShows implements shift.AssignmentService. Assignments that another
// worker settled in the meantime are skipped.
func (s *assignmentServiceImpl) MarkNoShows(ctx context.Context) (int, error) {
	open, err := s.assignmentRepo.ListOpenPast(ctx, s.clk.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list open past assignments: %w", err)
	}

	marked := 0
	for _, assignment := range open {
		if !assignment.Status.CanTransitionTo(shift.AssignmentStatusNoShow) {
			continue
		}
		assignment.Status = shift.AssignmentStatusNoShow
		assignment.AttendanceStatus = shift.AttendanceAbsent

		if _, err := s.assignmentRepo.Update(ctx, assignment); err != nil {
			if errors.Is(err, shift.ErrVersionConflict) {
				continue
			}
			return marked, fmt.Errorf("failed to mark no-show: %w", err)
		}
		marked++
	}
	return marked, nil
}

// atClockTime pins an HH:MM template time onto a concrete date.
func atClockTime(date time.Time, clockTime string) time.Time {
	t, err := time.Parse("15:04", clockTime)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
