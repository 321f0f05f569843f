package salary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/schoolhub/shiftops-backend-go/internal/pkg/validator"
)

type CreateStructureRequest struct {
	EmployeeID    string  `json:"employee_id"`
	EffectiveDate string  `json:"effective_date"` // YYYY-MM-DD
	EndDate       *string `json:"end_date,omitempty"`

	BaseSalary   decimal.Decimal  `json:"base_salary"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
	OvertimeRate *decimal.Decimal `json:"overtime_rate,omitempty"`
	HolidayRate  *decimal.Decimal `json:"holiday_rate,omitempty"`
	WeekendRate  *decimal.Decimal `json:"weekend_rate,omitempty"`

	PositionAllowance  decimal.Decimal `json:"position_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	MealAllowance      decimal.Decimal `json:"meal_allowance"`
	PhoneAllowance     decimal.Decimal `json:"phone_allowance"`
	OtherAllowances    decimal.Decimal `json:"other_allowances"`

	SocialInsuranceRate       decimal.Decimal `json:"social_insurance_rate"`
	HealthInsuranceRate       decimal.Decimal `json:"health_insurance_rate"`
	UnemploymentInsuranceRate decimal.Decimal `json:"unemployment_insurance_rate"`
	OtherDeductions           decimal.Decimal `json:"other_deductions"`

	Type string `json:"type"`
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidDate(r.EffectiveDate) {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be YYYY-MM-DD"})
	}
	if r.EndDate != nil && !validator.IsValidDate(*r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must not be negative"})
	}
	for field, amount := range map[string]decimal.Decimal{
		"position_allowance":  r.PositionAllowance,
		"transport_allowance": r.TransportAllowance,
		"meal_allowance":      r.MealAllowance,
		"phone_allowance":     r.PhoneAllowance,
		"other_allowances":    r.OtherAllowances,
		"other_deductions":    r.OtherDeductions,
	} {
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must not be negative"})
		}
	}
	for field, rate := range map[string]decimal.Decimal{
		"social_insurance_rate":       r.SocialInsuranceRate,
		"health_insurance_rate":       r.HealthInsuranceRate,
		"unemployment_insurance_rate": r.UnemploymentInsuranceRate,
	} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be between 0 and 1"})
		}
	}
	if !validator.IsOneOf(r.Type, string(SalaryTypeMonthly), string(SalaryTypeHourly), string(SalaryTypeDaily), string(SalaryTypeContract)) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be monthly, hourly, daily or contract"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StructureResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EffectiveDate   string          `json:"effective_date"`
	EndDate         *string         `json:"end_date,omitempty"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	Type            string          `json:"type"`
	IsActive        bool            `json:"is_active"`
}

func NewStructureResponse(s SalaryStructure) StructureResponse {
	resp := StructureResponse{
		ID:              s.ID,
		EmployeeID:      s.EmployeeID,
		EffectiveDate:   s.EffectiveDate.Format("2006-01-02"),
		BaseSalary:      s.BaseSalary,
		TotalAllowances: s.TotalAllowances(),
		GrossSalary:     s.GrossSalary(),
		Type:            string(s.Type),
		IsActive:        s.IsActive,
	}
	if s.EndDate != nil {
		formatted := s.EndDate.Format("2006-01-02")
		resp.EndDate = &formatted
	}
	return resp
}

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year is out of range"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CalculatePeriodRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (r *CalculatePeriodRequest) Validate() error {
	probe := CalculatePayrollRequest{EmployeeID: "-", Year: r.Year, Month: r.Month}
	return probe.Validate()
}

// BulkResult reports the outcome of a period-wide calculation run; failing
// employees are skipped, not fatal.
type BulkResult struct {
	Calculated int               `json:"calculated"`
	Failed     map[string]string `json:"failed,omitempty"`
}

type PayrollFilter struct {
	EmployeeID *string
	Year       *int
	Month      *int
	Status     *PayrollStatus
	Page       int
	Limit      int
}

type PayrollResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	SalaryStructureID string          `json:"salary_structure_id"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	PlannedHours      decimal.Decimal `json:"planned_hours"`
	ActualHours       decimal.Decimal `json:"actual_hours"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	LateCount         int             `json:"late_count"`
	EarlyLeaveCount   int             `json:"early_leave_count"`
	AbsentDays        int             `json:"absent_days"`
	BaseSalary        decimal.Decimal `json:"base_salary"`
	OvertimePay       decimal.Decimal `json:"overtime_pay"`
	HolidayPay        decimal.Decimal `json:"holiday_pay"`
	WeekendPay        decimal.Decimal `json:"weekend_pay"`
	TotalAllowances   decimal.Decimal `json:"total_allowances"`
	PersonalIncomeTax decimal.Decimal `json:"personal_income_tax"`
	LatePenalty       decimal.Decimal `json:"late_penalty"`
	AbsentPenalty     decimal.Decimal `json:"absent_penalty"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	GrossSalary       decimal.Decimal `json:"gross_salary"`
	NetSalary         decimal.Decimal `json:"net_salary"`
	Status            string          `json:"status"`
	CalculatedAt      *time.Time      `json:"calculated_at,omitempty"`
	ApprovedBy        *string         `json:"approved_by,omitempty"`
	PaidBy            *string         `json:"paid_by,omitempty"`
}

func NewPayrollResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:                p.ID,
		EmployeeID:        p.EmployeeID,
		SalaryStructureID: p.SalaryStructureID,
		Year:              p.Year,
		Month:             p.Month,
		PlannedHours:      p.PlannedHours,
		ActualHours:       p.ActualHours,
		OvertimeHours:     p.OvertimeHours,
		LateCount:         p.LateCount,
		EarlyLeaveCount:   p.EarlyLeaveCount,
		AbsentDays:        p.AbsentDays,
		BaseSalary:        p.BaseSalary,
		OvertimePay:       p.OvertimePay,
		HolidayPay:        p.HolidayPay,
		WeekendPay:        p.WeekendPay,
		TotalAllowances:   p.TotalAllowances,
		PersonalIncomeTax: p.PersonalIncomeTax,
		LatePenalty:       p.LatePenalty,
		AbsentPenalty:     p.AbsentPenalty,
		TotalDeductions:   p.TotalDeductions,
		GrossSalary:       p.GrossSalary,
		NetSalary:         p.NetSalary,
		Status:            string(p.Status),
		CalculatedAt:      p.CalculatedAt,
		ApprovedBy:        p.ApprovedBy,
		PaidBy:            p.PaidBy,
	}
}
