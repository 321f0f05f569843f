package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/swap"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

// ShiftJobs bundles the periodic sweeps around the shift engine: swap-request
// expiry, no-show reconciliation, end-of-day violation detection and the
// optional overdue-violation escalation.
type ShiftJobs struct {
	swapService       swap.SwapService
	assignmentService shift.AssignmentService
	detectionService  violation.DetectionService
	violationService  violation.ViolationService
	clk               clock.Clock
	escalationEnabled bool
}

func NewShiftJobs(
	swapService swap.SwapService,
	assignmentService shift.AssignmentService,
	detectionService violation.DetectionService,
	violationService violation.ViolationService,
	clk clock.Clock,
	escalationEnabled bool,
) *ShiftJobs {
	return &ShiftJobs{
		swapService:       swapService,
		assignmentService: assignmentService,
		detectionService:  detectionService,
		violationService:  violationService,
		clk:               clk,
		escalationEnabled: escalationEnabled,
	}
}

func (j *ShiftJobs) RegisterJobs(scheduler *Scheduler, swapSweep, reconcile time.Duration) {
	scheduler.AddJob("expire_swap_requests", swapSweep, j.ExpireSwapRequests)
	scheduler.AddJob("reconcile_attendance", reconcile, j.ReconcileAttendance)
	if j.escalationEnabled {
		scheduler.AddJob("escalate_overdue_violations", 24*time.Hour, j.EscalateOverdueViolations)
	}
}

// ExpireSwapRequests flips non-terminal swap requests past their expiry time.
// Idempotent; redundant runs are harmless.
func (j *ShiftJobs) ExpireSwapRequests(ctx context.Context) error {
	count, err := j.swapService.ExpireStale(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Expired stale swap requests", "count", count)
	}
	return nil
}

// ReconcileAttendance marks no-shows and runs violation detection for the
// previous day.
func (j *ShiftJobs) ReconcileAttendance(ctx context.Context) error {
	marked, err := j.assignmentService.MarkNoShows(ctx)
	if err != nil {
		return err
	}
	if marked > 0 {
		slog.Info("Marked no-show assignments", "count", marked)
	}

	yesterday := j.clk.Now().AddDate(0, 0, -1)
	detected, err := j.detectionService.DetectForDate(ctx, yesterday)
	if err != nil {
		return err
	}
	if detected > 0 {
		slog.Info("Detected attendance violations", "date", yesterday.Format("2006-01-02"), "count", detected)
	}
	return nil
}

// EscalateOverdueViolations escalates violations pending explanation past the
// configured deadline. Registered only when the escalation policy is enabled.
func (j *ShiftJobs) EscalateOverdueViolations(ctx context.Context) error {
	count, err := j.violationService.EscalateOverdue(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Escalated overdue violations", "count", count)
	}
	return nil
}
