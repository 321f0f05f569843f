package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type violationRepository struct {
	db *database.DB
}

func NewViolationRepository(db *database.DB) violation.ViolationRepository {
	return &violationRepository{db: db}
}

const violationColumns = `
	id, employee_id, assignment_id, date, type, severity,
	expected_time, actual_time, deviation_minutes, status, auto_detected,
	description, resolved_by, resolved_at, resolution_note, resubmission_count,
	created_at, updated_at
`

func scanViolation(row pgx.Row) (violation.AttendanceViolation, error) {
	var v violation.AttendanceViolation
	err := row.Scan(
		&v.ID, &v.EmployeeID, &v.AssignmentID, &v.Date, &v.Type, &v.Severity,
		&v.ExpectedTime, &v.ActualTime, &v.DeviationMinutes, &v.Status, &v.AutoDetected,
		&v.Description, &v.ResolvedBy, &v.ResolvedAt, &v.ResolutionNote, &v.ResubmissionCount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// Create implements violation.ViolationRepository.
func (r *violationRepository) Create(ctx context.Context, v violation.AttendanceViolation) (violation.AttendanceViolation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_violations (
			id, employee_id, assignment_id, date, type, severity,
			expected_time, actual_time, deviation_minutes, status, auto_detected, description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		v.ID, v.EmployeeID, v.AssignmentID, v.Date, v.Type, v.Severity,
		v.ExpectedTime, v.ActualTime, v.DeviationMinutes, v.Status, v.AutoDetected, v.Description,
	).Scan(&v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return violation.AttendanceViolation{}, fmt.Errorf("failed to create attendance violation: %w", err)
	}
	return v, nil
}

// GetByID implements violation.ViolationRepository.
func (r *violationRepository) GetByID(ctx context.Context, id string) (violation.AttendanceViolation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + violationColumns + ` FROM attendance_violations WHERE id = $1`

	v, err := scanViolation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return violation.AttendanceViolation{}, violation.ErrNotFound
		}
		return violation.AttendanceViolation{}, fmt.Errorf("failed to get attendance violation: %w", err)
	}
	return v, nil
}

// Update implements violation.ViolationRepository.
func (r *violationRepository) Update(ctx context.Context, v violation.AttendanceViolation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_violations
		SET status = $2, resolved_by = $3, resolved_at = $4, resolution_note = $5,
			resubmission_count = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, v.ID, v.Status, v.ResolvedBy, v.ResolvedAt, v.ResolutionNote, v.ResubmissionCount)
	if err != nil {
		return fmt.Errorf("failed to update attendance violation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return violation.ErrNotFound
	}
	return nil
}

// List implements violation.ViolationRepository.
func (r *violationRepository) List(ctx context.Context, filter violation.ViolationFilter) ([]violation.AttendanceViolation, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EmployeeID != nil {
		where += " AND employee_id = " + arg(*filter.EmployeeID)
	}
	if filter.Status != nil {
		where += " AND status = " + arg(*filter.Status)
	}
	if filter.Type != nil {
		where += " AND type = " + arg(*filter.Type)
	}
	if filter.DateFrom != nil {
		where += " AND date >= " + arg(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += " AND date <= " + arg(*filter.DateTo)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_violations`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance violations: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + violationColumns + ` FROM attendance_violations` + where +
		fmt.Sprintf(` ORDER BY date DESC, created_at DESC LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance violations: %w", err)
	}
	defer rows.Close()

	var violations []violation.AttendanceViolation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance violation: %w", err)
		}
		violations = append(violations, v)
	}
	return violations, total, rows.Err()
}

// ExistsForAssignment implements violation.ViolationRepository.
func (r *violationRepository) ExistsForAssignment(ctx context.Context, assignmentID string, violationType violation.Type) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance_violations WHERE assignment_id = $1 AND type = $2)`,
		assignmentID, violationType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check violation existence: %w", err)
	}
	return exists, nil
}

// ListOverdue implements violation.ViolationRepository.
func (r *violationRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]violation.AttendanceViolation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + violationColumns + `
		FROM attendance_violations
		WHERE status = 'pending_explanation' AND created_at < $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue violations: %w", err)
	}
	defer rows.Close()

	var violations []violation.AttendanceViolation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance violation: %w", err)
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

// ListForPeriod implements violation.ViolationRepository.
func (r *violationRepository) ListForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]violation.AttendanceViolation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + violationColumns + `
		FROM attendance_violations
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations for period: %w", err)
	}
	defer rows.Close()

	var violations []violation.AttendanceViolation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance violation: %w", err)
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}
