package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalaryType string

const (
	SalaryTypeMonthly  SalaryType = "monthly"
	SalaryTypeHourly   SalaryType = "hourly"
	SalaryTypeDaily    SalaryType = "daily"
	SalaryTypeContract SalaryType = "contract"
)

// SalaryStructure defines how one employee is paid over an effective range.
// At most one active structure per employee covers any given date.
type SalaryStructure struct {
	ID         string
	EmployeeID string
	EffectiveDate time.Time
	EndDate       *time.Time

	BaseSalary   decimal.Decimal
	HourlyRate   *decimal.Decimal
	OvertimeRate *decimal.Decimal
	HolidayRate  *decimal.Decimal
	WeekendRate  *decimal.Decimal

	PositionAllowance  decimal.Decimal
	TransportAllowance decimal.Decimal
	MealAllowance      decimal.Decimal
	PhoneAllowance     decimal.Decimal
	OtherAllowances    decimal.Decimal

	SocialInsuranceRate       decimal.Decimal
	HealthInsuranceRate       decimal.Decimal
	UnemploymentInsuranceRate decimal.Decimal
	OtherDeductions           decimal.Decimal

	Type      SalaryType
	IsActive  bool
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalAllowances sums every allowance component.
func (s SalaryStructure) TotalAllowances() decimal.Decimal {
	return s.PositionAllowance.
		Add(s.TransportAllowance).
		Add(s.MealAllowance).
		Add(s.PhoneAllowance).
		Add(s.OtherAllowances)
}

// TotalInsuranceRate sums the statutory deduction rates.
func (s SalaryStructure) TotalInsuranceRate() decimal.Decimal {
	return s.SocialInsuranceRate.
		Add(s.HealthInsuranceRate).
		Add(s.UnemploymentInsuranceRate)
}

// GrossSalary is base plus allowances.
func (s SalaryStructure) GrossSalary() decimal.Decimal {
	return s.BaseSalary.Add(s.TotalAllowances())
}

// InsuranceDeduction applies the summed rates to the base salary.
func (s SalaryStructure) InsuranceDeduction() decimal.Decimal {
	return s.BaseSalary.Mul(s.TotalInsuranceRate())
}

// CoversDate reports whether the structure is effective on the given date.
func (s SalaryStructure) CoversDate(date time.Time) bool {
	if date.Before(s.EffectiveDate) {
		return false
	}
	if s.EndDate != nil && date.After(*s.EndDate) {
		return false
	}
	return true
}

type PayrollStatus string

const (
	PayrollStatusDraft      PayrollStatus = "draft"
	PayrollStatusCalculated PayrollStatus = "calculated"
	PayrollStatusApproved   PayrollStatus = "approved"
	PayrollStatusPaid       PayrollStatus = "paid"
	PayrollStatusCancelled  PayrollStatus = "cancelled"
)

var payrollTransitions = map[PayrollStatus][]PayrollStatus{
	PayrollStatusDraft:      {PayrollStatusCalculated, PayrollStatusCancelled},
	PayrollStatusCalculated: {PayrollStatusApproved, PayrollStatusDraft, PayrollStatusCancelled},
	PayrollStatusApproved:   {PayrollStatusPaid, PayrollStatusCancelled},
	PayrollStatusPaid:       {},
	PayrollStatusCancelled:  {},
}

func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	for _, allowed := range payrollTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsEditable: recalculation is only allowed before approval.
func (s PayrollStatus) IsEditable() bool {
	return s == PayrollStatusDraft || s == PayrollStatusCalculated
}

// Payroll is one employee's pay for one calendar month, computed from a salary
// structure plus reconciled attendance.
type Payroll struct {
	ID                string
	EmployeeID        string
	SalaryStructureID string
	Year              int
	Month             int

	// Working hours summary
	PlannedHours  decimal.Decimal
	ActualHours   decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	HolidayHours  decimal.Decimal
	WeekendHours  decimal.Decimal

	// Attendance summary
	LateCount        int
	EarlyLeaveCount  int
	AbsentDays       int
	LeaveDays        int
	TotalWorkingDays int
	ActualWorkingDays int

	// Earnings
	BaseSalary  decimal.Decimal
	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	HolidayPay  decimal.Decimal
	WeekendPay  decimal.Decimal

	// Allowances
	PositionAllowance  decimal.Decimal
	TransportAllowance decimal.Decimal
	MealAllowance      decimal.Decimal
	PhoneAllowance     decimal.Decimal
	OtherAllowances    decimal.Decimal

	// Deductions
	SocialInsurance       decimal.Decimal
	HealthInsurance       decimal.Decimal
	UnemploymentInsurance decimal.Decimal
	PersonalIncomeTax     decimal.Decimal
	LatePenalty           decimal.Decimal
	AbsentPenalty         decimal.Decimal
	OtherDeductions       decimal.Decimal

	TotalAllowances decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal

	Status       PayrollStatus
	CalculatedAt *time.Time
	ApprovedBy   *string
	ApprovedAt   *time.Time
	PaidBy       *string
	PaidAt       *time.Time
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecalculateTotals derives the aggregate amounts from the component fields.
// gross = totalEarnings + totalAllowances; net = gross + premium pay - total
// deductions.
func (p *Payroll) RecalculateTotals() {
	p.TotalAllowances = p.PositionAllowance.
		Add(p.TransportAllowance).
		Add(p.MealAllowance).
		Add(p.PhoneAllowance).
		Add(p.OtherAllowances)

	p.TotalEarnings = p.BaseSalary

	p.TotalDeductions = p.SocialInsurance.
		Add(p.HealthInsurance).
		Add(p.UnemploymentInsurance).
		Add(p.PersonalIncomeTax).
		Add(p.LatePenalty).
		Add(p.AbsentPenalty).
		Add(p.OtherDeductions)

	p.GrossSalary = p.TotalEarnings.Add(p.TotalAllowances)
	p.NetSalary = p.GrossSalary.
		Add(p.OvertimePay).
		Add(p.HolidayPay).
		Add(p.WeekendPay).
		Sub(p.TotalDeductions)
}
