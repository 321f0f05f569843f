package violation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

type detectionServiceImpl struct {
	violationRepo  violation.ViolationRepository
	assignmentRepo shift.AssignmentRepository
	notifier       notification.Sink
	clk            clock.Clock
	thresholds     violation.SeverityThresholds
}

func NewDetectionService(
	violationRepo violation.ViolationRepository,
	assignmentRepo shift.AssignmentRepository,
	notifier notification.Sink,
	clk clock.Clock,
	thresholds violation.SeverityThresholds,
) violation.DetectionService {
	return &detectionServiceImpl{
		violationRepo:  violationRepo,
		assignmentRepo: assignmentRepo,
		notifier:       notifier,
		clk:            clk,
		thresholds:     thresholds,
	}
}

// candidate is a potential violation derived from one assignment.
type candidate struct {
	violationType    violation.Type
	expectedTime     *time.Time
	actualTime       *time.Time
	deviationMinutes int
	description      string
}

// DetectForAssignment implements violation.DetectionService. Detection is
// idempotent: a type already on file for the assignment is never raised twice.
func (s *detectionServiceImpl) DetectForAssignment(ctx context.Context, assignment shift.ShiftAssignment) ([]violation.AttendanceViolation, error) {
	var created []violation.AttendanceViolation

	for _, c := range s.candidates(assignment) {
		exists, err := s.violationRepo.ExistsForAssignment(ctx, assignment.ID, c.violationType)
		if err != nil {
			return created, fmt.Errorf("failed to check existing violation: %w", err)
		}
		if exists {
			continue
		}

		assignmentID := assignment.ID
		description := c.description
		v := violation.AttendanceViolation{
			ID:               uuid.New().String(),
			EmployeeID:       assignment.EmployeeID,
			AssignmentID:     &assignmentID,
			Date:             assignment.Date,
			Type:             c.violationType,
			Severity:         violation.ClassifySeverity(c.violationType, c.deviationMinutes, s.thresholds),
			ExpectedTime:     c.expectedTime,
			ActualTime:       c.actualTime,
			DeviationMinutes: c.deviationMinutes,
			Status:           violation.StatusPendingExplanation,
			AutoDetected:     true,
			Description:      &description,
		}

		stored, err := s.violationRepo.Create(ctx, v)
		if err != nil {
			return created, fmt.Errorf("failed to create violation: %w", err)
		}
		created = append(created, stored)

		s.notifier.Notify(ctx, stored.EmployeeID, notification.EventViolationDetected, map[string]interface{}{
			"violation_id": stored.ID,
			"type":         string(stored.Type),
			"severity":     string(stored.Severity),
		})
	}
	return created, nil
}

// DetectForDate implements violation.DetectionService.
func (s *detectionServiceImpl) DetectForDate(ctx context.Context, date time.Time) (int, error) {
	detected := 0
	page := 1
	for {
		filter := shift.AssignmentFilter{
			DateFrom: &date,
			DateTo:   &date,
			Page:     page,
			Limit:    200,
		}
		assignments, total, err := s.assignmentRepo.List(ctx, filter)
		if err != nil {
			return detected, fmt.Errorf("failed to list assignments for detection: %w", err)
		}

		for _, assignment := range assignments {
			created, err := s.DetectForAssignment(ctx, assignment)
			if err != nil {
				return detected, err
			}
			detected += len(created)
		}

		if int64(page*200) >= total || len(assignments) == 0 {
			break
		}
		page++
	}
	return detected, nil
}

// candidates derives every violation the assignment's current state supports.
func (s *detectionServiceImpl) candidates(a shift.ShiftAssignment) []candidate {
	var out []candidate
	now := s.clk.Now()

	if a.LateMinutes != nil && *a.LateMinutes > 0 {
		start := a.PlannedStart
		out = append(out, candidate{
			violationType:    violation.TypeLateArrival,
			expectedTime:     &start,
			actualTime:       a.ActualStart,
			deviationMinutes: *a.LateMinutes,
			description:      fmt.Sprintf("checked in %d minutes after the planned start", *a.LateMinutes),
		})
	}

	if a.EarlyLeaveMinutes != nil && *a.EarlyLeaveMinutes > 0 {
		end := a.PlannedEnd
		out = append(out, candidate{
			violationType:    violation.TypeEarlyDeparture,
			expectedTime:     &end,
			actualTime:       a.ActualEnd,
			deviationMinutes: *a.EarlyLeaveMinutes,
			description:      fmt.Sprintf("checked out %d minutes before the planned end", *a.EarlyLeaveMinutes),
		})
	}

	if a.Status == shift.AssignmentStatusNoShow {
		start := a.PlannedStart
		out = append(out, candidate{
			violationType:    violation.TypeAbsentWithoutLeave,
			expectedTime:     &start,
			deviationMinutes: int(a.PlannedEnd.Sub(a.PlannedStart).Minutes()),
			description:      "no check-in recorded for the scheduled shift",
		})
	}

	if a.Status == shift.AssignmentStatusInProgress && now.After(a.PlannedEnd) {
		end := a.PlannedEnd
		out = append(out, candidate{
			violationType:    violation.TypeMissingCheckOut,
			expectedTime:     &end,
			deviationMinutes: int(now.Sub(a.PlannedEnd).Minutes()),
			description:      "shift still open past its planned end",
		})
	}

	return out
}
