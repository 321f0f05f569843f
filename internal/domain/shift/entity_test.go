package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTemplateTotalHours(t *testing.T) {
	cases := []struct {
		name     string
		template ShiftTemplate
		want     float64
	}{
		{
			name:     "no break",
			template: ShiftTemplate{StartTime: "08:00", EndTime: "12:00"},
			want:     4,
		},
		{
			name: "break window",
			template: ShiftTemplate{
				StartTime:  "08:00",
				EndTime:    "17:00",
				BreakStart: strPtr("12:00"),
				BreakEnd:   strPtr("13:00"),
			},
			want: 8,
		},
		{
			name:     "break minutes fallback",
			template: ShiftTemplate{StartTime: "08:00", EndTime: "17:00", BreakMinutes: 30},
			want:     8.5,
		},
		{
			name: "break window takes precedence over minutes",
			template: ShiftTemplate{
				StartTime:    "08:00",
				EndTime:      "17:00",
				BreakStart:   strPtr("12:00"),
				BreakEnd:     strPtr("12:30"),
				BreakMinutes: 60,
			},
			want: 8.5,
		},
		{
			name:     "invalid time string",
			template: ShiftTemplate{StartTime: "8am", EndTime: "17:00"},
			want:     0,
		},
		{
			name:     "break longer than shift clamps at zero",
			template: ShiftTemplate{StartTime: "08:00", EndTime: "08:30", BreakMinutes: 60},
			want:     0,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, c.template.TotalHours(), 0.001)
		})
	}
}

func TestScheduleStatusTransitions(t *testing.T) {
	assert.True(t, ScheduleStatusDraft.CanTransitionTo(ScheduleStatusPublished))
	assert.True(t, ScheduleStatusDraft.CanTransitionTo(ScheduleStatusCancelled))
	assert.False(t, ScheduleStatusDraft.CanTransitionTo(ScheduleStatusArchived))

	assert.True(t, ScheduleStatusPublished.CanTransitionTo(ScheduleStatusArchived))
	assert.True(t, ScheduleStatusPublished.CanTransitionTo(ScheduleStatusCancelled))
	assert.False(t, ScheduleStatusPublished.CanTransitionTo(ScheduleStatusDraft))

	assert.False(t, ScheduleStatusArchived.CanTransitionTo(ScheduleStatusPublished))
	assert.False(t, ScheduleStatusCancelled.CanTransitionTo(ScheduleStatusDraft))
}

func TestAssignmentStatusTransitions(t *testing.T) {
	assert.True(t, AssignmentStatusScheduled.CanTransitionTo(AssignmentStatusInProgress))
	assert.True(t, AssignmentStatusScheduled.CanTransitionTo(AssignmentStatusNoShow))
	assert.True(t, AssignmentStatusInProgress.CanTransitionTo(AssignmentStatusCompleted))
	assert.False(t, AssignmentStatusInProgress.CanTransitionTo(AssignmentStatusNoShow))
	assert.False(t, AssignmentStatusCompleted.CanTransitionTo(AssignmentStatusInProgress))
	assert.False(t, AssignmentStatusNoShow.CanTransitionTo(AssignmentStatusScheduled))
}

func testAssignment(start, end time.Time) ShiftAssignment {
	return ShiftAssignment{
		ID:           "a1",
		EmployeeID:   "e1",
		Date:         start.Truncate(24 * time.Hour),
		PlannedStart: start,
		PlannedEnd:   end,
		PlannedHours: end.Sub(start).Hours(),
		Status:       AssignmentStatusScheduled,
		AttendanceStatus: AttendancePending,
	}
}

func TestAssignmentOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	a := testAssignment(at(8, 0), at(12, 0))
	a.Date = day

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical window", at(8, 0), at(12, 0), true},
		{"partial overlap", at(11, 0), at(15, 0), true},
		{"contained", at(9, 0), at(10, 0), true},
		{"adjacent after", at(12, 0), at(16, 0), false},
		{"adjacent before", at(4, 0), at(8, 0), false},
		{"disjoint", at(13, 0), at(17, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := testAssignment(c.start, c.end)
			b.Date = day
			assert.Equal(t, c.want, a.Overlaps(b))
			assert.Equal(t, c.want, b.Overlaps(a))
		})
	}

	t.Run("different day never overlaps", func(t *testing.T) {
		b := testAssignment(at(8, 0).AddDate(0, 0, 1), at(12, 0).AddDate(0, 0, 1))
		assert.False(t, a.Overlaps(b))
	})
}

func TestAssignmentCheckIn(t *testing.T) {
	tolerance := 15 * time.Minute
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("on time within tolerance", func(t *testing.T) {
		a := testAssignment(start, end)
		now := start.Add(10 * time.Minute)
		require.NoError(t, a.CheckIn(now, nil, tolerance))

		assert.Equal(t, AssignmentStatusInProgress, a.Status)
		assert.Equal(t, AttendancePresent, a.AttendanceStatus)
		assert.Nil(t, a.LateMinutes)
		require.NotNil(t, a.ActualStart)
		assert.Equal(t, now, *a.ActualStart)
	})

	t.Run("at the tolerance boundary is not late", func(t *testing.T) {
		a := testAssignment(start, end)
		require.NoError(t, a.CheckIn(start.Add(tolerance), nil, tolerance))
		assert.Equal(t, AttendancePresent, a.AttendanceStatus)
	})

	t.Run("past tolerance records full lateness", func(t *testing.T) {
		a := testAssignment(start, end)
		require.NoError(t, a.CheckIn(start.Add(20*time.Minute), nil, tolerance))

		assert.Equal(t, AttendanceLate, a.AttendanceStatus)
		require.NotNil(t, a.LateMinutes)
		assert.Equal(t, 20, *a.LateMinutes)
	})

	t.Run("rejected unless scheduled", func(t *testing.T) {
		a := testAssignment(start, end)
		a.Status = AssignmentStatusCompleted
		assert.ErrorIs(t, a.CheckIn(start, nil, tolerance), ErrCheckInNotAllowed)

		a.Status = AssignmentStatusCancelled
		assert.ErrorIs(t, a.CheckIn(start, nil, tolerance), ErrCheckInNotAllowed)
	})
}

func TestAssignmentCheckOut(t *testing.T) {
	tolerance := 15 * time.Minute
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	checkedIn := func(at time.Time) ShiftAssignment {
		a := testAssignment(start, end)
		if err := a.CheckIn(at, nil, tolerance); err != nil {
			t.Fatal(err)
		}
		return a
	}

	t.Run("settles actual and overtime hours", func(t *testing.T) {
		a := checkedIn(start)
		now := end.Add(30 * time.Minute)
		require.NoError(t, a.CheckOut(now, nil, tolerance))

		assert.Equal(t, AssignmentStatusCompleted, a.Status)
		assert.InDelta(t, 4.5, a.ActualHours, 0.001)
		assert.InDelta(t, 0.5, a.OvertimeHours, 0.001)
	})

	t.Run("overtime never negative", func(t *testing.T) {
		a := checkedIn(start.Add(5 * time.Minute))
		now := end.Add(5 * time.Minute)
		require.NoError(t, a.CheckOut(now, nil, tolerance))

		assert.InDelta(t, 4.0, a.ActualHours, 0.001)
		assert.Equal(t, 0.0, a.OvertimeHours)
	})

	t.Run("break overlapping the actual window is excluded", func(t *testing.T) {
		a := checkedIn(start)
		bs := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		be := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
		a.BreakStart = &bs
		a.BreakEnd = &be
		require.NoError(t, a.CheckOut(end, nil, tolerance))

		assert.InDelta(t, 3.5, a.ActualHours, 0.001)
	})

	t.Run("early departure past tolerance", func(t *testing.T) {
		a := checkedIn(start)
		require.NoError(t, a.CheckOut(end.Add(-30*time.Minute), nil, tolerance))

		assert.Equal(t, AttendanceEarlyLeave, a.AttendanceStatus)
		require.NotNil(t, a.EarlyLeaveMinutes)
		assert.Equal(t, 30, *a.EarlyLeaveMinutes)
	})

	t.Run("late check-in survives on LateMinutes after early check-out", func(t *testing.T) {
		a := checkedIn(start.Add(20 * time.Minute))
		require.NoError(t, a.CheckOut(end.Add(-30*time.Minute), nil, tolerance))

		assert.Equal(t, AttendanceEarlyLeave, a.AttendanceStatus)
		require.NotNil(t, a.LateMinutes)
		assert.Equal(t, 20, *a.LateMinutes)
	})

	t.Run("rejected unless in progress", func(t *testing.T) {
		a := testAssignment(start, end)
		assert.ErrorIs(t, a.CheckOut(end, nil, tolerance), ErrCheckOutNotAllowed)
	})
}

func TestAssignmentCancel(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("cancels a scheduled assignment", func(t *testing.T) {
		a := testAssignment(start, end)
		require.NoError(t, a.Cancel("coverage no longer needed"))

		assert.Equal(t, AssignmentStatusCancelled, a.Status)
		assert.Equal(t, AttendanceAbsent, a.AttendanceStatus)
		require.NotNil(t, a.Notes)
		assert.Equal(t, "cancelled: coverage no longer needed", *a.Notes)
	})

	t.Run("appends to existing notes", func(t *testing.T) {
		a := testAssignment(start, end)
		a.Notes = strPtr("swapped in")
		require.NoError(t, a.Cancel("sick"))
		assert.Equal(t, "swapped in; cancelled: sick", *a.Notes)
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		a := testAssignment(start, end)
		a.Status = AssignmentStatusCompleted
		assert.ErrorIs(t, a.Cancel("x"), ErrCancelCompleted)
	})

	t.Run("cancel twice fails", func(t *testing.T) {
		a := testAssignment(start, end)
		require.NoError(t, a.Cancel("x"))
		assert.ErrorIs(t, a.Cancel("y"), ErrAssignmentCancelled)
	})
}
