package violation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

func TestGetViolation_IncludesLatestExplanation(t *testing.T) {
	violationRepo := newFakeViolationRepo(lateArrivalViolation("v-1", "emp-1"))
	explanationRepo := newFakeExplanationRepo()
	clk := clock.NewFixed(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	svc := NewViolationService(violationRepo, explanationRepo, clk, 3)

	_, err := explanationRepo.Create(context.Background(), violation.ViolationExplanation{
		ID:          "e-1",
		ViolationID: "v-1",
		SubmittedBy: "emp-1",
		Text:        "first attempt",
		Status:      violation.ExplanationRejected,
	})
	require.NoError(t, err)
	_, err = explanationRepo.Create(context.Background(), violation.ViolationExplanation{
		ID:          "e-2",
		ViolationID: "v-1",
		SubmittedBy: "emp-1",
		Text:        "second attempt with receipt",
		Status:      violation.ExplanationSubmitted,
	})
	require.NoError(t, err)

	resp, err := svc.GetViolation(context.Background(), "v-1")
	require.NoError(t, err)
	require.NotNil(t, resp.LatestExplanation)
	assert.Equal(t, "e-2", resp.LatestExplanation.ID)
	assert.Equal(t, "second attempt with receipt", resp.LatestExplanation.Text)
}

func TestGetViolation_NoExplanationYet(t *testing.T) {
	violationRepo := newFakeViolationRepo(lateArrivalViolation("v-1", "emp-1"))
	clk := clock.NewFixed(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	svc := NewViolationService(violationRepo, newFakeExplanationRepo(), clk, 3)

	resp, err := svc.GetViolation(context.Background(), "v-1")
	require.NoError(t, err)
	assert.Nil(t, resp.LatestExplanation)
	assert.Equal(t, string(violation.StatusPendingExplanation), resp.Status)
}

func TestGetViolation_NotFound(t *testing.T) {
	clk := clock.NewFixed(time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC))
	svc := NewViolationService(newFakeViolationRepo(), newFakeExplanationRepo(), clk, 3)

	_, err := svc.GetViolation(context.Background(), "missing")
	assert.ErrorIs(t, err, violation.ErrNotFound)
}
