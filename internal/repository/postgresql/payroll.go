package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) salary.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	id, employee_id, salary_structure_id, year, month,
	planned_hours, actual_hours, regular_hours, overtime_hours, holiday_hours, weekend_hours,
	late_count, early_leave_count, absent_days, leave_days, total_working_days, actual_working_days,
	base_salary, regular_pay, overtime_pay, holiday_pay, weekend_pay,
	position_allowance, transport_allowance, meal_allowance, phone_allowance, other_allowances,
	social_insurance, health_insurance, unemployment_insurance, personal_income_tax,
	late_penalty, absent_penalty, other_deductions,
	total_allowances, total_earnings, total_deductions, gross_salary, net_salary,
	status, calculated_at, approved_by, approved_at, paid_by, paid_at, version, created_at, updated_at
`

func scanPayroll(row pgx.Row) (salary.Payroll, error) {
	var p salary.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.SalaryStructureID, &p.Year, &p.Month,
		&p.PlannedHours, &p.ActualHours, &p.RegularHours, &p.OvertimeHours, &p.HolidayHours, &p.WeekendHours,
		&p.LateCount, &p.EarlyLeaveCount, &p.AbsentDays, &p.LeaveDays, &p.TotalWorkingDays, &p.ActualWorkingDays,
		&p.BaseSalary, &p.RegularPay, &p.OvertimePay, &p.HolidayPay, &p.WeekendPay,
		&p.PositionAllowance, &p.TransportAllowance, &p.MealAllowance, &p.PhoneAllowance, &p.OtherAllowances,
		&p.SocialInsurance, &p.HealthInsurance, &p.UnemploymentInsurance, &p.PersonalIncomeTax,
		&p.LatePenalty, &p.AbsentPenalty, &p.OtherDeductions,
		&p.TotalAllowances, &p.TotalEarnings, &p.TotalDeductions, &p.GrossSalary, &p.NetSalary,
		&p.Status, &p.CalculatedAt, &p.ApprovedBy, &p.ApprovedAt, &p.PaidBy, &p.PaidAt,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements salary.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, p salary.Payroll) (salary.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, salary_structure_id, year, month,
			planned_hours, actual_hours, regular_hours, overtime_hours, holiday_hours, weekend_hours,
			late_count, early_leave_count, absent_days, leave_days, total_working_days, actual_working_days,
			base_salary, regular_pay, overtime_pay, holiday_pay, weekend_pay,
			position_allowance, transport_allowance, meal_allowance, phone_allowance, other_allowances,
			social_insurance, health_insurance, unemployment_insurance, personal_income_tax,
			late_penalty, absent_penalty, other_deductions,
			total_allowances, total_earnings, total_deductions, gross_salary, net_salary,
			status, calculated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32,
			$33, $34, $35, $36, $37, $38, $39, $40, $41, $42
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.SalaryStructureID, p.Year, p.Month,
		p.PlannedHours, p.ActualHours, p.RegularHours, p.OvertimeHours, p.HolidayHours, p.WeekendHours,
		p.LateCount, p.EarlyLeaveCount, p.AbsentDays, p.LeaveDays, p.TotalWorkingDays, p.ActualWorkingDays,
		p.BaseSalary, p.RegularPay, p.OvertimePay, p.HolidayPay, p.WeekendPay,
		p.PositionAllowance, p.TransportAllowance, p.MealAllowance, p.PhoneAllowance, p.OtherAllowances,
		p.SocialInsurance, p.HealthInsurance, p.UnemploymentInsurance, p.PersonalIncomeTax,
		p.LatePenalty, p.AbsentPenalty, p.OtherDeductions,
		p.TotalAllowances, p.TotalEarnings, p.TotalDeductions, p.GrossSalary, p.NetSalary,
		p.Status, p.CalculatedAt, p.Version,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return salary.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return p, nil
}

// GetByID implements salary.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (salary.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + ` FROM payrolls WHERE id = $1`

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Payroll{}, salary.ErrPayrollNotFound
		}
		return salary.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

// GetByEmployeeAndPeriod implements salary.PayrollRepository. Returns nil when
// no payroll exists for the period.
func (r *payrollRepository) GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (*salary.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll by period: %w", err)
	}
	return &p, nil
}

// Update implements salary.PayrollRepository. The optimistic version guard
// rejects concurrent modifications.
func (r *payrollRepository) Update(ctx context.Context, p salary.Payroll) (salary.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			salary_structure_id = $3,
			planned_hours = $4, actual_hours = $5, regular_hours = $6,
			overtime_hours = $7, holiday_hours = $8, weekend_hours = $9,
			late_count = $10, early_leave_count = $11, absent_days = $12,
			leave_days = $13, total_working_days = $14, actual_working_days = $15,
			base_salary = $16, regular_pay = $17, overtime_pay = $18, holiday_pay = $19, weekend_pay = $20,
			position_allowance = $21, transport_allowance = $22, meal_allowance = $23,
			phone_allowance = $24, other_allowances = $25,
			social_insurance = $26, health_insurance = $27, unemployment_insurance = $28,
			personal_income_tax = $29, late_penalty = $30, absent_penalty = $31, other_deductions = $32,
			total_allowances = $33, total_earnings = $34, total_deductions = $35,
			gross_salary = $36, net_salary = $37,
			status = $38, calculated_at = $39,
			approved_by = $40, approved_at = $41, paid_by = $42, paid_at = $43,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ID, p.Version, p.SalaryStructureID,
		p.PlannedHours, p.ActualHours, p.RegularHours,
		p.OvertimeHours, p.HolidayHours, p.WeekendHours,
		p.LateCount, p.EarlyLeaveCount, p.AbsentDays,
		p.LeaveDays, p.TotalWorkingDays, p.ActualWorkingDays,
		p.BaseSalary, p.RegularPay, p.OvertimePay, p.HolidayPay, p.WeekendPay,
		p.PositionAllowance, p.TransportAllowance, p.MealAllowance,
		p.PhoneAllowance, p.OtherAllowances,
		p.SocialInsurance, p.HealthInsurance, p.UnemploymentInsurance,
		p.PersonalIncomeTax, p.LatePenalty, p.AbsentPenalty, p.OtherDeductions,
		p.TotalAllowances, p.TotalEarnings, p.TotalDeductions,
		p.GrossSalary, p.NetSalary,
		p.Status, p.CalculatedAt,
		p.ApprovedBy, p.ApprovedAt, p.PaidBy, p.PaidAt,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Payroll{}, salary.ErrVersionConflict
		}
		return salary.Payroll{}, fmt.Errorf("failed to update payroll: %w", err)
	}
	return p, nil
}

// List implements salary.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter salary.PayrollFilter) ([]salary.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EmployeeID != nil {
		conditions = append(conditions, "employee_id = "+arg(*filter.EmployeeID))
	}
	if filter.Year != nil {
		conditions = append(conditions, "year = "+arg(*filter.Year))
	}
	if filter.Month != nil {
		conditions = append(conditions, "month = "+arg(*filter.Month))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payrolls` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	query := `SELECT ` + payrollColumns + ` FROM payrolls` + where +
		` ORDER BY year DESC, month DESC, employee_id` +
		` LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg((filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []salary.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	return payrolls, total, rows.Err()
}
