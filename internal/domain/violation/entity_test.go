package violation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	thresholds := DefaultSeverityThresholds()

	cases := []struct {
		name          string
		violationType Type
		deviation     int
		want          Severity
	}{
		{"short lateness", TypeLateArrival, 10, SeverityMinor},
		{"minor boundary", TypeLateArrival, 30, SeverityMinor},
		{"moderate lateness", TypeLateArrival, 45, SeverityModerate},
		{"moderate boundary", TypeLateArrival, 60, SeverityModerate},
		{"major lateness", TypeLateArrival, 90, SeverityMajor},
		{"major boundary", TypeLateArrival, 120, SeverityMajor},
		{"critical lateness", TypeLateArrival, 121, SeverityCritical},
		{"early departure uses the same bands", TypeEarlyDeparture, 45, SeverityModerate},
		{"short absence still at least major", TypeAbsentWithoutLeave, 10, SeverityMajor},
		{"long absence stays critical", TypeAbsentWithoutLeave, 480, SeverityCritical},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ClassifySeverity(c.violationType, c.deviation, thresholds))
		})
	}
}

func TestViolationStatusTransitions(t *testing.T) {
	assert.True(t, StatusPendingExplanation.CanTransitionTo(StatusExplanationSubmitted))
	assert.True(t, StatusPendingExplanation.CanTransitionTo(StatusEscalated))
	assert.False(t, StatusPendingExplanation.CanTransitionTo(StatusResolved))

	assert.True(t, StatusExplanationSubmitted.CanTransitionTo(StatusUnderReview))
	assert.True(t, StatusExplanationSubmitted.CanTransitionTo(StatusResolved))
	assert.True(t, StatusExplanationSubmitted.CanTransitionTo(StatusPendingExplanation))

	assert.True(t, StatusUnderReview.CanTransitionTo(StatusResolved))
	assert.True(t, StatusEscalated.CanTransitionTo(StatusResolved))

	assert.False(t, StatusResolved.CanTransitionTo(StatusPendingExplanation))
	assert.False(t, StatusEscalated.CanTransitionTo(StatusPendingExplanation))
}

func TestCanBeExplained(t *testing.T) {
	explainable := []Status{StatusPendingExplanation, StatusRejected}
	for _, s := range explainable {
		v := AttendanceViolation{Status: s}
		assert.True(t, v.CanBeExplained(), string(s))
	}
	closed := []Status{StatusExplanationSubmitted, StatusUnderReview, StatusResolved, StatusEscalated}
	for _, s := range closed {
		v := AttendanceViolation{Status: s}
		assert.False(t, v.CanBeExplained(), string(s))
	}
}

func TestIsOverdue(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	v := AttendanceViolation{Status: StatusPendingExplanation, CreatedAt: created}

	assert.False(t, v.IsOverdue(created.Add(72*time.Hour), 3))
	assert.True(t, v.IsOverdue(created.Add(73*time.Hour), 3))

	v.Status = StatusExplanationSubmitted
	assert.False(t, v.IsOverdue(created.Add(200*time.Hour), 3))
}

func TestExplanationIsEditable(t *testing.T) {
	editable := []ExplanationStatus{ExplanationSubmitted, ExplanationRequiresMoreInfo}
	for _, s := range editable {
		e := ViolationExplanation{Status: s}
		assert.True(t, e.IsEditable(), string(s))
	}
	locked := []ExplanationStatus{ExplanationUnderReview, ExplanationApproved, ExplanationRejected}
	for _, s := range locked {
		e := ViolationExplanation{Status: s}
		assert.False(t, e.IsEditable(), string(s))
	}
}

func TestIsAllowedEvidenceFile(t *testing.T) {
	allowed := []string{
		"photo.jpg", "SCAN.PDF", "report.docx", "sheet.xlsx",
		"note.txt", "archive.name.with.dots.png",
	}
	for _, name := range allowed {
		assert.True(t, IsAllowedEvidenceFile(name), name)
	}

	rejected := []string{
		"malware.exe", "script.sh", "archive.zip",
		"noextension", "trailingdot.", "", ".hidden",
	}
	for _, name := range rejected {
		assert.False(t, IsAllowedEvidenceFile(name), name)
	}
}
