package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

func TestCreateTemplateRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := CreateTemplateRequest{
			Name:      "Morning",
			Code:      "MORN",
			StartTime: "08:00",
			EndTime:   "12:00",
		}
		assert.NoError(t, r.Validate())
	})

	t.Run("collects all field errors", func(t *testing.T) {
		r := CreateTemplateRequest{StartTime: "8am", EndTime: "noon", BreakMinutes: -5}
		err := r.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		fields := errs.ToMap()
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "code")
		assert.Contains(t, fields, "start_time")
		assert.Contains(t, fields, "end_time")
		assert.Contains(t, fields, "break_minutes")
	})

	t.Run("break bounds must come together", func(t *testing.T) {
		bs := "12:00"
		r := CreateTemplateRequest{
			Name:       "Morning",
			Code:       "MORN",
			StartTime:  "08:00",
			EndTime:    "17:00",
			BreakStart: &bs,
		}
		err := r.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "break_start")
	})
}

func TestCreateScheduleRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := CreateScheduleRequest{
			Name:      "Week 10",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-08",
			Type:      "weekly",
		}
		assert.NoError(t, r.Validate())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		r := CreateScheduleRequest{
			Name:      "Week 10",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-08",
			Type:      "fortnightly",
		}
		var errs validator.ValidationErrors
		require.ErrorAs(t, r.Validate(), &errs)
		assert.Contains(t, errs.ToMap(), "type")
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		r := CreateScheduleRequest{
			Name:      "Week 10",
			StartDate: "02-03-2026",
			EndDate:   "2026-03-08",
			Type:      "weekly",
		}
		assert.Error(t, r.Validate())
	})
}

func TestCreateAssignmentRequestValidate(t *testing.T) {
	r := CreateAssignmentRequest{
		EmployeeID: "e1",
		TemplateID: "t1",
		Date:       "2026-03-02",
	}
	assert.NoError(t, r.Validate())

	r.Date = "tomorrow"
	assert.Error(t, r.Validate())

	r = CreateAssignmentRequest{Date: "2026-03-02"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, r.Validate(), &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "template_id")
}

func TestCancelAssignmentRequestValidate(t *testing.T) {
	r := CancelAssignmentRequest{AssignmentID: "a1", Reason: "sick leave"}
	assert.NoError(t, r.Validate())

	r.Reason = "   "
	assert.Error(t, r.Validate())
}
