package swap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var swapNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func pendingRequest(emergency bool) SwapRequest {
	return SwapRequest{
		ID:                    "s1",
		RequesterID:           "e1",
		TargetEmployeeID:      "e2",
		RequesterAssignmentID: "a1",
		TargetAssignmentID:    "a2",
		Status:                InitialStatus(emergency),
		Priority:              PriorityNormal,
		IsEmergency:           emergency,
		ExpiryTime:            swapNow.Add(48 * time.Hour),
		Version:               1,
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPendingTarget, InitialStatus(false))
	assert.Equal(t, StatusPendingManager, InitialStatus(true))
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusApproved, StatusRejected, StatusDeclined, StatusCancelled, StatusExpired}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}
	open := []Status{StatusPendingTarget, StatusPendingManager, StatusAccepted}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

func TestNormalFlow(t *testing.T) {
	r := pendingRequest(false)

	require.NoError(t, r.RespondTarget(TargetAccepted, nil, swapNow))
	assert.Equal(t, StatusAccepted, r.Status)
	require.NotNil(t, r.TargetRespondedAt)

	require.NoError(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow.Add(time.Hour)))
	assert.Equal(t, StatusApproved, r.Status)
	require.NotNil(t, r.ApprovedBy)
	assert.Equal(t, "mgr", *r.ApprovedBy)
}

func TestTargetRejectionEndsRequest(t *testing.T) {
	r := pendingRequest(false)

	require.NoError(t, r.RespondTarget(TargetRejected, strPtr("unavailable"), swapNow))
	assert.Equal(t, StatusRejected, r.Status)
	require.NotNil(t, r.TargetReason)

	assert.ErrorIs(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow), ErrManagerResponseClosed)
}

func TestManagerApproveBeforeAcceptIsClosed(t *testing.T) {
	r := pendingRequest(false)
	assert.ErrorIs(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow), ErrManagerResponseClosed)
}

func TestManagerDecline(t *testing.T) {
	r := pendingRequest(false)
	require.NoError(t, r.RespondTarget(TargetAccepted, nil, swapNow))
	require.NoError(t, r.RespondManager(ManagerDeclined, "mgr", strPtr("coverage gap"), swapNow))

	assert.Equal(t, StatusDeclined, r.Status)
	require.NotNil(t, r.ManagerNote)
}

func TestEmergencyManagerFirstThenTargetAccept(t *testing.T) {
	r := pendingRequest(true)

	// Manager can decide immediately on the emergency track, but the swap
	// only applies once the target has also accepted.
	require.NoError(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow))
	assert.Equal(t, StatusPendingManager, r.Status)

	require.NoError(t, r.RespondTarget(TargetAccepted, nil, swapNow.Add(time.Hour)))
	assert.Equal(t, StatusApproved, r.Status)
}

func TestEmergencyTargetRejectionOverridesApproval(t *testing.T) {
	r := pendingRequest(true)

	require.NoError(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow))
	require.NoError(t, r.RespondTarget(TargetRejected, nil, swapNow.Add(time.Hour)))

	assert.Equal(t, StatusRejected, r.Status)
	assert.Nil(t, r.ManagerResponse)
	assert.Nil(t, r.ApprovedBy)
	assert.Nil(t, r.ManagerRespondedAt)
}

func TestEmergencyTargetAcceptFirst(t *testing.T) {
	r := pendingRequest(true)

	require.NoError(t, r.RespondTarget(TargetAccepted, nil, swapNow))
	assert.Equal(t, StatusPendingManager, r.Status)

	require.NoError(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow.Add(time.Hour)))
	assert.Equal(t, StatusApproved, r.Status)
}

func TestDoubleResponsesRejected(t *testing.T) {
	r := pendingRequest(true)
	require.NoError(t, r.RespondTarget(TargetAccepted, nil, swapNow))
	assert.ErrorIs(t, r.RespondTarget(TargetAccepted, nil, swapNow), ErrTargetResponseClosed)

	require.NoError(t, r.RespondManager(ManagerApproved, "mgr", nil, swapNow))
	assert.ErrorIs(t, r.RespondManager(ManagerDeclined, "mgr", nil, swapNow), ErrManagerResponseClosed)
}

func TestCancelWindows(t *testing.T) {
	for _, s := range []Status{StatusPendingTarget, StatusPendingManager, StatusAccepted} {
		r := pendingRequest(false)
		r.Status = s
		require.NoError(t, r.Cancel(), string(s))
		assert.Equal(t, StatusCancelled, r.Status)
	}

	for _, s := range []Status{StatusApproved, StatusRejected, StatusDeclined, StatusCancelled, StatusExpired} {
		r := pendingRequest(false)
		r.Status = s
		assert.ErrorIs(t, r.Cancel(), ErrCancelClosed, string(s))
	}
}

func TestExpire(t *testing.T) {
	t.Run("before expiry is a no-op", func(t *testing.T) {
		r := pendingRequest(false)
		assert.False(t, r.Expire(swapNow))
		assert.Equal(t, StatusPendingTarget, r.Status)
	})

	t.Run("flips a stale open request", func(t *testing.T) {
		r := pendingRequest(false)
		assert.True(t, r.Expire(r.ExpiryTime))
		assert.Equal(t, StatusExpired, r.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		r := pendingRequest(false)
		require.True(t, r.Expire(r.ExpiryTime.Add(time.Hour)))
		assert.False(t, r.Expire(r.ExpiryTime.Add(2*time.Hour)))
	})

	t.Run("never touches terminal requests", func(t *testing.T) {
		r := pendingRequest(false)
		r.Status = StatusApproved
		assert.False(t, r.Expire(r.ExpiryTime.Add(time.Hour)))
		assert.Equal(t, StatusApproved, r.Status)
	})
}

func strPtr(s string) *string { return &s }
