package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
)

// Rates collects the penalty and working-time configuration applied during
// calculation.
type Rates struct {
	LatePenaltyRate     decimal.Decimal // fraction of base salary per late arrival
	AbsentPenaltyRate   decimal.Decimal // fraction of base salary per unexcused absent day
	WorkingDaysPerMonth int
	WorkingHoursPerDay  int
}

var (
	defaultOvertimeMultiplier = decimal.RequireFromString("1.5")
	defaultHolidayMultiplier  = decimal.RequireFromString("2")
	defaultWeekendMultiplier  = decimal.RequireFromString("1.5")
)

type payrollServiceImpl struct {
	payrollRepo    salary.PayrollRepository
	structureRepo  salary.StructureRepository
	assignmentRepo shift.AssignmentRepository
	violationRepo  violation.ViolationRepository
	notifier       notification.Sink
	clk            clock.Clock
	rates          Rates
	taxTable       salary.TaxTable
}

func NewPayrollService(
	payrollRepo salary.PayrollRepository,
	structureRepo salary.StructureRepository,
	assignmentRepo shift.AssignmentRepository,
	violationRepo violation.ViolationRepository,
	notifier notification.Sink,
	clk clock.Clock,
	rates Rates,
	taxTable salary.TaxTable,
) salary.PayrollService {
	return &payrollServiceImpl{
		payrollRepo:    payrollRepo,
		structureRepo:  structureRepo,
		assignmentRepo: assignmentRepo,
		violationRepo:  violationRepo,
		notifier:       notifier,
		clk:            clk,
		rates:          rates,
		taxTable:       taxTable,
	}
}

// CalculatePayroll implements salary.PayrollService.
func (s *payrollServiceImpl) CalculatePayroll(ctx context.Context, req salary.CalculatePayrollRequest) (salary.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.PayrollResponse{}, err
	}

	existing, err := s.payrollRepo.GetByEmployeeAndPeriod(ctx, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return salary.PayrollResponse{}, fmt.Errorf("failed to check existing payroll: %w", err)
	}
	if existing != nil {
		return salary.PayrollResponse{}, salary.ErrPayrollExists
	}

	payroll := salary.Payroll{
		ID:         uuid.New().String(),
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		Version:    1,
	}
	if err := s.compute(ctx, &payroll); err != nil {
		return salary.PayrollResponse{}, err
	}

	created, err := s.payrollRepo.Create(ctx, payroll)
	if err != nil {
		return salary.PayrollResponse{}, fmt.Errorf("failed to create payroll: %w", err)
	}

	s.notifier.Notify(ctx, created.EmployeeID, notification.EventPayrollCalculated, map[string]interface{}{
		"payroll_id": created.ID,
		"year":       created.Year,
		"month":      created.Month,
	})

	return salary.NewPayrollResponse(created), nil
}

// CalculateForPeriod implements salary.PayrollService.
func (s *payrollServiceImpl) CalculateForPeriod(ctx context.Context, req salary.CalculatePeriodRequest) (salary.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return salary.BulkResult{}, err
	}

	_, to := periodBounds(req.Year, req.Month)
	employeeIDs, err := s.structureRepo.ListActiveEmployeeIDs(ctx, to)
	if err != nil {
		return salary.BulkResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	result := salary.BulkResult{Failed: map[string]string{}}
	for _, employeeID := range employeeIDs {
		_, err := s.CalculatePayroll(ctx, salary.CalculatePayrollRequest{
			EmployeeID: employeeID,
			Year:       req.Year,
			Month:      req.Month,
		})
		if err != nil {
			result.Failed[employeeID] = err.Error()
			continue
		}
		result.Calculated++
	}
	if len(result.Failed) == 0 {
		result.Failed = nil
	}
	return result, nil
}

// RecalculatePayroll implements salary.PayrollService.
func (s *payrollServiceImpl) RecalculatePayroll(ctx context.Context, payrollID string) (salary.PayrollResponse, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	if !payroll.Status.IsEditable() {
		return salary.PayrollResponse{}, salary.ErrPayrollNotEditable
	}

	if err := s.compute(ctx, &payroll); err != nil {
		return salary.PayrollResponse{}, err
	}

	updated, err := s.payrollRepo.Update(ctx, payroll)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	return salary.NewPayrollResponse(updated), nil
}

// ApprovePayroll implements salary.PayrollService.
func (s *payrollServiceImpl) ApprovePayroll(ctx context.Context, payrollID string) (salary.PayrollResponse, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	if !payroll.Status.CanTransitionTo(salary.PayrollStatusApproved) {
		return salary.PayrollResponse{}, salary.ErrPayrollTransition
	}

	approver, err := actorID(ctx)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	now := s.clk.Now()
	payroll.Status = salary.PayrollStatusApproved
	payroll.ApprovedBy = &approver
	payroll.ApprovedAt = &now

	updated, err := s.payrollRepo.Update(ctx, payroll)
	if err != nil {
		return salary.PayrollResponse{}, err
	}

	s.notifier.Notify(ctx, updated.EmployeeID, notification.EventPayrollApproved, map[string]interface{}{
		"payroll_id": updated.ID,
	})

	return salary.NewPayrollResponse(updated), nil
}

// MarkPaid implements salary.PayrollService.
func (s *payrollServiceImpl) MarkPaid(ctx context.Context, payrollID string) (salary.PayrollResponse, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	if !payroll.Status.CanTransitionTo(salary.PayrollStatusPaid) {
		return salary.PayrollResponse{}, salary.ErrPayrollTransition
	}

	payer, err := actorID(ctx)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	now := s.clk.Now()
	payroll.Status = salary.PayrollStatusPaid
	payroll.PaidBy = &payer
	payroll.PaidAt = &now

	updated, err := s.payrollRepo.Update(ctx, payroll)
	if err != nil {
		return salary.PayrollResponse{}, err
	}

	s.notifier.Notify(ctx, updated.EmployeeID, notification.EventPayrollPaid, map[string]interface{}{
		"payroll_id": updated.ID,
	})

	return salary.NewPayrollResponse(updated), nil
}

// CancelPayroll implements salary.PayrollService.
func (s *payrollServiceImpl) CancelPayroll(ctx context.Context, payrollID string) (salary.PayrollResponse, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	if payroll.Status == salary.PayrollStatusPaid {
		return salary.PayrollResponse{}, salary.ErrPayrollPaid
	}
	if !payroll.Status.CanTransitionTo(salary.PayrollStatusCancelled) {
		return salary.PayrollResponse{}, salary.ErrPayrollTransition
	}

	payroll.Status = salary.PayrollStatusCancelled
	updated, err := s.payrollRepo.Update(ctx, payroll)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	return salary.NewPayrollResponse(updated), nil
}

// GetPayroll implements salary.PayrollService.
func (s *payrollServiceImpl) GetPayroll(ctx context.Context, payrollID string) (salary.PayrollResponse, error) {
	payroll, err := s.payrollRepo.GetByID(ctx, payrollID)
	if err != nil {
		return salary.PayrollResponse{}, err
	}
	return salary.NewPayrollResponse(payroll), nil
}

// ListPayrolls implements salary.PayrollService.
func (s *payrollServiceImpl) ListPayrolls(ctx context.Context, filter salary.PayrollFilter) ([]salary.PayrollResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	payrolls, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}

	responses := make([]salary.PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, salary.NewPayrollResponse(p))
	}
	return responses, total, nil
}

// compute fills every derived field of the payroll from the active structure
// and the period's reconciled attendance. Resolved violations are excused and
// do not incur penalties.
func (s *payrollServiceImpl) compute(ctx context.Context, p *salary.Payroll) error {
	from, to := periodBounds(p.Year, p.Month)

	structure, err := s.structureRepo.GetActiveForDate(ctx, p.EmployeeID, to)
	if err != nil {
		return err
	}

	assignments, err := s.assignmentRepo.ListSettledForPeriod(ctx, p.EmployeeID, from, to)
	if err != nil {
		return fmt.Errorf("failed to list settled assignments: %w", err)
	}
	violations, err := s.violationRepo.ListForPeriod(ctx, p.EmployeeID, from, to)
	if err != nil {
		return fmt.Errorf("failed to list violations for period: %w", err)
	}

	excused := map[string]bool{}
	for _, v := range violations {
		if v.Status == violation.StatusResolved && v.AssignmentID != nil {
			excused[string(v.Type)+":"+*v.AssignmentID] = true
		}
	}

	var plannedHours, actualHours, overtimeHours, weekendHours float64
	var lateCount, earlyLeaveCount, absentDays, leaveDays int
	workedDays := map[string]bool{}

	for _, a := range assignments {
		switch a.Status {
		case shift.AssignmentStatusCompleted:
			plannedHours += a.PlannedHours
			actualHours += a.ActualHours
			overtimeHours += a.OvertimeHours
			if isWeekend(a.Date) {
				weekendHours += a.ActualHours
			}
			workedDays[a.Date.Format("2006-01-02")] = true

			if a.LateMinutes != nil && *a.LateMinutes > 0 &&
				!excused[string(violation.TypeLateArrival)+":"+a.ID] {
				lateCount++
			}
			if a.EarlyLeaveMinutes != nil && *a.EarlyLeaveMinutes > 0 &&
				!excused[string(violation.TypeEarlyDeparture)+":"+a.ID] {
				earlyLeaveCount++
			}
		case shift.AssignmentStatusNoShow:
			plannedHours += a.PlannedHours
			if excused[string(violation.TypeAbsentWithoutLeave)+":"+a.ID] {
				leaveDays++
			} else {
				absentDays++
			}
		}
	}

	hourlyRate := s.hourlyRate(structure)
	overtimeRate := rateOrDefault(structure.OvertimeRate, hourlyRate, defaultOvertimeMultiplier)
	holidayRate := rateOrDefault(structure.HolidayRate, hourlyRate, defaultHolidayMultiplier)
	weekendRate := rateOrDefault(structure.WeekendRate, hourlyRate, defaultWeekendMultiplier)

	p.SalaryStructureID = structure.ID
	p.PlannedHours = decimal.NewFromFloat(plannedHours)
	p.ActualHours = decimal.NewFromFloat(actualHours)
	p.OvertimeHours = decimal.NewFromFloat(overtimeHours)
	p.HolidayHours = decimal.Zero
	p.WeekendHours = decimal.NewFromFloat(weekendHours)
	regularHours := actualHours - overtimeHours - weekendHours
	if regularHours < 0 {
		regularHours = 0
	}
	p.RegularHours = decimal.NewFromFloat(regularHours)

	p.LateCount = lateCount
	p.EarlyLeaveCount = earlyLeaveCount
	p.AbsentDays = absentDays
	p.LeaveDays = leaveDays
	p.TotalWorkingDays = s.rates.WorkingDaysPerMonth
	p.ActualWorkingDays = len(workedDays)

	p.BaseSalary = structure.BaseSalary
	p.RegularPay = s.regularPay(structure, p, hourlyRate)
	p.OvertimePay = overtimeRate.Mul(p.OvertimeHours)
	p.HolidayPay = holidayRate.Mul(p.HolidayHours)
	p.WeekendPay = weekendRate.Mul(p.WeekendHours)

	p.PositionAllowance = structure.PositionAllowance
	p.TransportAllowance = structure.TransportAllowance
	p.MealAllowance = structure.MealAllowance
	p.PhoneAllowance = structure.PhoneAllowance
	p.OtherAllowances = structure.OtherAllowances

	p.SocialInsurance = structure.BaseSalary.Mul(structure.SocialInsuranceRate)
	p.HealthInsurance = structure.BaseSalary.Mul(structure.HealthInsuranceRate)
	p.UnemploymentInsurance = structure.BaseSalary.Mul(structure.UnemploymentInsuranceRate)
	p.OtherDeductions = structure.OtherDeductions

	p.LatePenalty = structure.BaseSalary.Mul(s.rates.LatePenaltyRate).Mul(decimal.NewFromInt(int64(lateCount)))
	p.AbsentPenalty = structure.BaseSalary.Mul(s.rates.AbsentPenaltyRate).Mul(decimal.NewFromInt(int64(absentDays)))

	taxable := s.taxTable.TaxableIncome(structure.GrossSalary(), structure.InsuranceDeduction())
	p.PersonalIncomeTax = s.taxTable.Tax(taxable)

	p.RecalculateTotals()

	now := s.clk.Now()
	p.Status = salary.PayrollStatusCalculated
	p.CalculatedAt = &now
	return nil
}

// regularPay is the base component of the period. Monthly earners are paid
// their base salary prorated by attendance; every other salary type is paid
// by the hour on regular hours.
func (s *payrollServiceImpl) regularPay(structure salary.SalaryStructure, p *salary.Payroll, hourlyRate decimal.Decimal) decimal.Decimal {
	if structure.Type == salary.SalaryTypeMonthly {
		if p.TotalWorkingDays == 0 {
			return decimal.Zero
		}
		days := decimal.NewFromInt(int64(p.ActualWorkingDays))
		total := decimal.NewFromInt(int64(p.TotalWorkingDays))
		return structure.BaseSalary.Mul(days).Div(total)
	}
	return hourlyRate.Mul(p.RegularHours)
}

// hourlyRate is the structure's explicit rate or base salary spread over the
// standard working month.
func (s *payrollServiceImpl) hourlyRate(structure salary.SalaryStructure) decimal.Decimal {
	if structure.HourlyRate != nil && !structure.HourlyRate.IsZero() {
		return *structure.HourlyRate
	}
	hoursPerMonth := int64(s.rates.WorkingDaysPerMonth) * int64(s.rates.WorkingHoursPerDay)
	if hoursPerMonth == 0 {
		return decimal.Zero
	}
	return structure.BaseSalary.Div(decimal.NewFromInt(hoursPerMonth))
}

func rateOrDefault(explicit *decimal.Decimal, hourly, multiplier decimal.Decimal) decimal.Decimal {
	if explicit != nil && !explicit.IsZero() {
		return *explicit
	}
	return hourly.Mul(multiplier)
}

func periodBounds(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return from, to
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
