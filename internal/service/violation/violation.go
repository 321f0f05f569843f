package violation

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

type violationServiceImpl struct {
	violationRepo   violation.ViolationRepository
	explanationRepo violation.ExplanationRepository
	clk             clock.Clock
	overdueDays     int
}

func NewViolationService(violationRepo violation.ViolationRepository, explanationRepo violation.ExplanationRepository, clk clock.Clock, overdueDays int) violation.ViolationService {
	return &violationServiceImpl{
		violationRepo:   violationRepo,
		explanationRepo: explanationRepo,
		clk:             clk,
		overdueDays:     overdueDays,
	}
}

// GetViolation implements violation.ViolationService. The detail view carries
// the most recent explanation so a reviewer sees the case in one read.
func (s *violationServiceImpl) GetViolation(ctx context.Context, id string) (violation.ViolationResponse, error) {
	v, err := s.violationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationResponse{}, err
	}

	resp := violation.NewViolationResponse(v, s.clk.Now(), s.overdueDays)

	latest, err := s.explanationRepo.GetLatestByViolation(ctx, v.ID)
	if err != nil {
		return violation.ViolationResponse{}, fmt.Errorf("failed to load latest explanation: %w", err)
	}
	if latest != nil {
		er := violation.NewExplanationResponse(*latest)
		resp.LatestExplanation = &er
	}
	return resp, nil
}

// ListViolations implements violation.ViolationService.
func (s *violationServiceImpl) ListViolations(ctx context.Context, filter violation.ViolationFilter) ([]violation.ViolationResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	violations, total, err := s.violationRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list violations: %w", err)
	}

	now := s.clk.Now()
	responses := make([]violation.ViolationResponse, 0, len(violations))
	for _, v := range violations {
		responses = append(responses, violation.NewViolationResponse(v, now, s.overdueDays))
	}
	return responses, total, nil
}

// ListOverdue implements violation.ViolationService.
func (s *violationServiceImpl) ListOverdue(ctx context.Context) ([]violation.ViolationResponse, error) {
	now := s.clk.Now()
	overdue, err := s.violationRepo.ListOverdue(ctx, s.cutoff(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue violations: %w", err)
	}

	responses := make([]violation.ViolationResponse, 0, len(overdue))
	for _, v := range overdue {
		responses = append(responses, violation.NewViolationResponse(v, now, s.overdueDays))
	}
	return responses, nil
}

// EscalateOverdue implements violation.ViolationService.
func (s *violationServiceImpl) EscalateOverdue(ctx context.Context) (int, error) {
	now := s.clk.Now()
	overdue, err := s.violationRepo.ListOverdue(ctx, s.cutoff(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue violations: %w", err)
	}

	escalated := 0
	for _, v := range overdue {
		if !v.Status.CanTransitionTo(violation.StatusEscalated) {
			continue
		}
		v.Status = violation.StatusEscalated
		if err := s.violationRepo.Update(ctx, v); err != nil {
			return escalated, fmt.Errorf("failed to escalate violation: %w", err)
		}
		escalated++
	}
	return escalated, nil
}

func (s *violationServiceImpl) cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(s.overdueDays) * 24 * time.Hour)
}
