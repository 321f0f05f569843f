package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.StructureRepository {
	return &salaryStructureRepository{db: db}
}

const structureColumns = `
	id, employee_id, effective_date, end_date,
	base_salary, hourly_rate, overtime_rate, holiday_rate, weekend_rate,
	position_allowance, transport_allowance, meal_allowance, phone_allowance, other_allowances,
	social_insurance_rate, health_insurance_rate, unemployment_insurance_rate, other_deductions,
	salary_type, is_active, created_by, created_at, updated_at
`

func scanStructure(row pgx.Row) (salary.SalaryStructure, error) {
	var s salary.SalaryStructure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.EffectiveDate, &s.EndDate,
		&s.BaseSalary, &s.HourlyRate, &s.OvertimeRate, &s.HolidayRate, &s.WeekendRate,
		&s.PositionAllowance, &s.TransportAllowance, &s.MealAllowance, &s.PhoneAllowance, &s.OtherAllowances,
		&s.SocialInsuranceRate, &s.HealthInsuranceRate, &s.UnemploymentInsuranceRate, &s.OtherDeductions,
		&s.Type, &s.IsActive, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements salary.StructureRepository.
func (r *salaryStructureRepository) Create(ctx context.Context, s salary.SalaryStructure) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (
			id, employee_id, effective_date, end_date,
			base_salary, hourly_rate, overtime_rate, holiday_rate, weekend_rate,
			position_allowance, transport_allowance, meal_allowance, phone_allowance, other_allowances,
			social_insurance_rate, health_insurance_rate, unemployment_insurance_rate, other_deductions,
			salary_type, is_active, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.EffectiveDate, s.EndDate,
		s.BaseSalary, s.HourlyRate, s.OvertimeRate, s.HolidayRate, s.WeekendRate,
		s.PositionAllowance, s.TransportAllowance, s.MealAllowance, s.PhoneAllowance, s.OtherAllowances,
		s.SocialInsuranceRate, s.HealthInsuranceRate, s.UnemploymentInsuranceRate, s.OtherDeductions,
		s.Type, s.IsActive, s.CreatedBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return salary.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}
	return s, nil
}

// GetByID implements salary.StructureRepository.
func (r *salaryStructureRepository) GetByID(ctx context.Context, id string) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + ` FROM salary_structures WHERE id = $1`

	s, err := scanStructure(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryStructure{}, salary.ErrStructureNotFound
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}
	return s, nil
}

// GetActiveForDate implements salary.StructureRepository.
func (r *salaryStructureRepository) GetActiveForDate(ctx context.Context, employeeID string, date time.Time) (salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE employee_id = $1
		  AND is_active = TRUE
		  AND effective_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY effective_date DESC
		LIMIT 1
	`

	s, err := scanStructure(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryStructure{}, salary.ErrNoActiveStructure
		}
		return salary.SalaryStructure{}, fmt.Errorf("failed to get active salary structure: %w", err)
	}
	return s, nil
}

// HasOverlap implements salary.StructureRepository. An open-ended range
// overlaps everything from its effective date onward.
func (r *salaryStructureRepository) HasOverlap(ctx context.Context, employeeID string, effectiveDate time.Time, endDate *time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM salary_structures
			WHERE employee_id = $1
			  AND is_active = TRUE
			  AND effective_date <= COALESCE($3, 'infinity'::timestamptz)
			  AND (end_date IS NULL OR end_date >= $2)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, effectiveDate, endDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary structure overlap: %w", err)
	}
	return exists, nil
}

// Deactivate implements salary.StructureRepository.
func (r *salaryStructureRepository) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_structures
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate salary structure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrStructureNotFound
	}
	return nil
}

// ListByEmployee implements salary.StructureRepository.
func (r *salaryStructureRepository) ListByEmployee(ctx context.Context, employeeID string) ([]salary.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE employee_id = $1
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	var structures []salary.SalaryStructure
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}
	return structures, rows.Err()
}

// ListActiveEmployeeIDs implements salary.StructureRepository.
func (r *salaryStructureRepository) ListActiveEmployeeIDs(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM salary_structures
		WHERE is_active = TRUE
		  AND effective_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
