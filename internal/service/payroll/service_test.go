package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

type fakePayrollRepo struct {
	payrolls map[string]salary.Payroll
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{payrolls: map[string]salary.Payroll{}}
}

func (r *fakePayrollRepo) Create(_ context.Context, p salary.Payroll) (salary.Payroll, error) {
	r.payrolls[p.ID] = p
	return p, nil
}

func (r *fakePayrollRepo) GetByID(_ context.Context, id string) (salary.Payroll, error) {
	p, ok := r.payrolls[id]
	if !ok {
		return salary.Payroll{}, salary.ErrPayrollNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) GetByEmployeeAndPeriod(_ context.Context, employeeID string, year, month int) (*salary.Payroll, error) {
	for _, p := range r.payrolls {
		if p.EmployeeID == employeeID && p.Year == year && p.Month == month {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *fakePayrollRepo) Update(_ context.Context, p salary.Payroll) (salary.Payroll, error) {
	if _, ok := r.payrolls[p.ID]; !ok {
		return salary.Payroll{}, salary.ErrPayrollNotFound
	}
	p.Version++
	r.payrolls[p.ID] = p
	return p, nil
}

func (r *fakePayrollRepo) List(_ context.Context, _ salary.PayrollFilter) ([]salary.Payroll, int64, error) {
	out := make([]salary.Payroll, 0, len(r.payrolls))
	for _, p := range r.payrolls {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type fakeStructureRepo struct {
	structures []salary.SalaryStructure
}

func (r *fakeStructureRepo) Create(_ context.Context, s salary.SalaryStructure) (salary.SalaryStructure, error) {
	r.structures = append(r.structures, s)
	return s, nil
}

func (r *fakeStructureRepo) GetByID(_ context.Context, id string) (salary.SalaryStructure, error) {
	for _, s := range r.structures {
		if s.ID == id {
			return s, nil
		}
	}
	return salary.SalaryStructure{}, salary.ErrStructureNotFound
}

func (r *fakeStructureRepo) GetActiveForDate(_ context.Context, employeeID string, date time.Time) (salary.SalaryStructure, error) {
	for _, s := range r.structures {
		if s.EmployeeID == employeeID && s.IsActive && s.CoversDate(date) {
			return s, nil
		}
	}
	return salary.SalaryStructure{}, salary.ErrNoActiveStructure
}

func (r *fakeStructureRepo) HasOverlap(_ context.Context, _ string, _ time.Time, _ *time.Time) (bool, error) {
	return false, nil
}

func (r *fakeStructureRepo) Deactivate(_ context.Context, _ string) error { return nil }

func (r *fakeStructureRepo) ListByEmployee(_ context.Context, employeeID string) ([]salary.SalaryStructure, error) {
	var out []salary.SalaryStructure
	for _, s := range r.structures {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStructureRepo) ListActiveEmployeeIDs(_ context.Context, _ time.Time) ([]string, error) {
	var out []string
	for _, s := range r.structures {
		if s.IsActive {
			out = append(out, s.EmployeeID)
		}
	}
	return out, nil
}

type fakeSettledRepo struct {
	assignments []shift.ShiftAssignment
}

func (r *fakeSettledRepo) Create(_ context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	return a, nil
}

func (r *fakeSettledRepo) GetByID(_ context.Context, _ string) (shift.ShiftAssignment, error) {
	return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
}

func (r *fakeSettledRepo) ListByEmployeeAndDate(_ context.Context, _ string, _ time.Time) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

func (r *fakeSettledRepo) Update(_ context.Context, a shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	return a, nil
}

func (r *fakeSettledRepo) List(_ context.Context, _ shift.AssignmentFilter) ([]shift.ShiftAssignment, int64, error) {
	return nil, 0, nil
}

func (r *fakeSettledRepo) ListOpenPast(_ context.Context, _ time.Time) ([]shift.ShiftAssignment, error) {
	return nil, nil
}

func (r *fakeSettledRepo) ExchangeEmployees(_ context.Context, _, _, _ string) error { return nil }

func (r *fakeSettledRepo) ListSettledForPeriod(_ context.Context, employeeID string, from, to time.Time) ([]shift.ShiftAssignment, error) {
	var out []shift.ShiftAssignment
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeViolationListRepo struct {
	violations []violation.AttendanceViolation
}

func (r *fakeViolationListRepo) Create(_ context.Context, v violation.AttendanceViolation) (violation.AttendanceViolation, error) {
	return v, nil
}

func (r *fakeViolationListRepo) GetByID(_ context.Context, _ string) (violation.AttendanceViolation, error) {
	return violation.AttendanceViolation{}, violation.ErrNotFound
}

func (r *fakeViolationListRepo) Update(_ context.Context, _ violation.AttendanceViolation) error {
	return nil
}

func (r *fakeViolationListRepo) List(_ context.Context, _ violation.ViolationFilter) ([]violation.AttendanceViolation, int64, error) {
	return nil, 0, nil
}

func (r *fakeViolationListRepo) ExistsForAssignment(_ context.Context, _ string, _ violation.Type) (bool, error) {
	return false, nil
}

func (r *fakeViolationListRepo) ListOverdue(_ context.Context, _ time.Time) ([]violation.AttendanceViolation, error) {
	return nil, nil
}

func (r *fakeViolationListRepo) ListForPeriod(_ context.Context, _ string, _, _ time.Time) ([]violation.AttendanceViolation, error) {
	return r.violations, nil
}

type silentSink struct{}

func (silentSink) Notify(_ context.Context, _ string, _ string, _ map[string]interface{}) {}

// monthlyStructure pays 20M VND base with a 2M position allowance and the
// statutory 10.5% insurance burden.
func monthlyStructure(employeeID string) salary.SalaryStructure {
	return salary.SalaryStructure{
		ID:                        "str-1",
		EmployeeID:                employeeID,
		EffectiveDate:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BaseSalary:                decimal.NewFromInt(20_000_000),
		PositionAllowance:         decimal.NewFromInt(2_000_000),
		SocialInsuranceRate:       decimal.RequireFromString("0.08"),
		HealthInsuranceRate:       decimal.RequireFromString("0.015"),
		UnemploymentInsuranceRate: decimal.RequireFromString("0.01"),
		Type:                      salary.SalaryTypeMonthly,
		IsActive:                  true,
	}
}

// weekdayAssignments settles full eight-hour weekday shifts in March 2025,
// starting Monday the 3rd.
func weekdayAssignments(employeeID string, completed, noShow int) []shift.ShiftAssignment {
	var out []shift.ShiftAssignment
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for len(out) < completed+noShow {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
			continue
		}
		a := shift.ShiftAssignment{
			ID:           fmt.Sprintf("a-%d", len(out)+1),
			EmployeeID:   employeeID,
			Date:         day,
			PlannedHours: 8,
		}
		if len(out) < completed {
			a.Status = shift.AssignmentStatusCompleted
			a.ActualHours = 8
		} else {
			a.Status = shift.AssignmentStatusNoShow
		}
		out = append(out, a)
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func newPayrollFixture(assignments []shift.ShiftAssignment, violations []violation.AttendanceViolation) (salary.PayrollService, *fakePayrollRepo) {
	payrollRepo := newFakePayrollRepo()
	structureRepo := &fakeStructureRepo{structures: []salary.SalaryStructure{monthlyStructure("emp-9")}}
	svc := NewPayrollService(
		payrollRepo,
		structureRepo,
		&fakeSettledRepo{assignments: assignments},
		&fakeViolationListRepo{violations: violations},
		silentSink{},
		clock.NewFixed(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		Rates{
			LatePenaltyRate:     decimal.RequireFromString("0.005"),
			AbsentPenaltyRate:   decimal.RequireFromString("0.01"),
			WorkingDaysPerMonth: 20,
			WorkingHoursPerDay:  8,
		},
		salary.DefaultTaxTable(),
	)
	return svc, payrollRepo
}

func TestCalculatePayroll_MonthlyFullAttendance(t *testing.T) {
	svc, payrollRepo := newPayrollFixture(weekdayAssignments("emp-9", 20, 0), nil)

	resp, err := svc.CalculatePayroll(context.Background(), salary.CalculatePayrollRequest{
		EmployeeID: "emp-9",
		Year:       2025,
		Month:      3,
	})
	require.NoError(t, err)

	stored := payrollRepo.payrolls[resp.ID]
	assert.Equal(t, 20, stored.ActualWorkingDays)
	assert.Equal(t, 20, stored.TotalWorkingDays)

	// Full attendance pays the full monthly base.
	assert.True(t, stored.RegularPay.Equal(decimal.NewFromInt(20_000_000)), "regular pay %s", stored.RegularPay)

	// Insurance: 20M * (0.08 + 0.015 + 0.01) = 2.1M.
	insurance := stored.SocialInsurance.Add(stored.HealthInsurance).Add(stored.UnemploymentInsurance)
	assert.True(t, insurance.Equal(decimal.NewFromInt(2_100_000)), "insurance %s", insurance)

	// Taxable 22M - 2.1M - 11M = 8.9M: 5M at 5% plus 3.9M at 10% = 640k.
	assert.True(t, resp.PersonalIncomeTax.Equal(decimal.NewFromInt(640_000)), "tax %s", resp.PersonalIncomeTax)

	// Net: 22M gross - 2.1M insurance - 640k tax.
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(19_260_000)), "net %s", resp.NetSalary)
	assert.Equal(t, string(salary.PayrollStatusCalculated), resp.Status)
}

func TestCalculatePayroll_MonthlyProratedByAttendance(t *testing.T) {
	svc, payrollRepo := newPayrollFixture(weekdayAssignments("emp-9", 18, 2), nil)

	resp, err := svc.CalculatePayroll(context.Background(), salary.CalculatePayrollRequest{
		EmployeeID: "emp-9",
		Year:       2025,
		Month:      3,
	})
	require.NoError(t, err)

	stored := payrollRepo.payrolls[resp.ID]
	assert.Equal(t, 18, stored.ActualWorkingDays)
	assert.Equal(t, 2, resp.AbsentDays)

	// 20M * 18/20 worked days.
	assert.True(t, stored.RegularPay.Equal(decimal.NewFromInt(18_000_000)), "regular pay %s", stored.RegularPay)

	// Two unexcused absences at 1% of base each.
	assert.True(t, resp.AbsentPenalty.Equal(decimal.NewFromInt(400_000)), "absent penalty %s", resp.AbsentPenalty)
}

func TestCalculatePayroll_ResolvedAbsenceBecomesLeave(t *testing.T) {
	assignments := weekdayAssignments("emp-9", 18, 2)
	excusedID := assignments[18].ID
	svc, payrollRepo := newPayrollFixture(assignments, []violation.AttendanceViolation{{
		ID:           "v-1",
		EmployeeID:   "emp-9",
		AssignmentID: &excusedID,
		Date:         assignments[18].Date,
		Type:         violation.TypeAbsentWithoutLeave,
		Status:       violation.StatusResolved,
	}})

	resp, err := svc.CalculatePayroll(context.Background(), salary.CalculatePayrollRequest{
		EmployeeID: "emp-9",
		Year:       2025,
		Month:      3,
	})
	require.NoError(t, err)

	stored := payrollRepo.payrolls[resp.ID]
	assert.Equal(t, 1, resp.AbsentDays)
	assert.Equal(t, 1, stored.LeaveDays)
	assert.True(t, resp.AbsentPenalty.Equal(decimal.NewFromInt(200_000)), "absent penalty %s", resp.AbsentPenalty)
}

func TestCalculatePayroll_RejectsDuplicatePeriod(t *testing.T) {
	svc, _ := newPayrollFixture(weekdayAssignments("emp-9", 20, 0), nil)

	req := salary.CalculatePayrollRequest{EmployeeID: "emp-9", Year: 2025, Month: 3}
	_, err := svc.CalculatePayroll(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CalculatePayroll(context.Background(), req)
	assert.ErrorIs(t, err, salary.ErrPayrollExists)
}

func TestCalculatePayroll_HourlyTypeStaysHourly(t *testing.T) {
	payrollRepo := newFakePayrollRepo()
	hourly := monthlyStructure("emp-9")
	hourly.Type = salary.SalaryTypeHourly
	rate := decimal.NewFromInt(100_000)
	hourly.HourlyRate = &rate
	structureRepo := &fakeStructureRepo{structures: []salary.SalaryStructure{hourly}}

	svc := NewPayrollService(
		payrollRepo,
		structureRepo,
		&fakeSettledRepo{assignments: weekdayAssignments("emp-9", 20, 0)},
		&fakeViolationListRepo{},
		silentSink{},
		clock.NewFixed(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		Rates{
			LatePenaltyRate:     decimal.RequireFromString("0.005"),
			AbsentPenaltyRate:   decimal.RequireFromString("0.01"),
			WorkingDaysPerMonth: 20,
			WorkingHoursPerDay:  8,
		},
		salary.DefaultTaxTable(),
	)

	resp, err := svc.CalculatePayroll(context.Background(), salary.CalculatePayrollRequest{
		EmployeeID: "emp-9",
		Year:       2025,
		Month:      3,
	})
	require.NoError(t, err)

	// 160 regular hours at the explicit hourly rate.
	stored := payrollRepo.payrolls[resp.ID]
	assert.True(t, stored.RegularPay.Equal(decimal.NewFromInt(16_000_000)), "regular pay %s", stored.RegularPay)
}
