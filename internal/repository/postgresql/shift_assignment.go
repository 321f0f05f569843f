package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `
	id, employee_id, template_id, schedule_id, assigned_by, date,
	planned_start, planned_end, break_start, break_end,
	actual_start, actual_end, planned_hours, actual_hours, overtime_hours,
	status, attendance_status, late_minutes, early_leave_minutes,
	check_in_location, check_out_location, notes,
	swapped_from_employee_id, swap_request_id, version, created_at, updated_at
`

func scanAssignment(row pgx.Row) (shift.ShiftAssignment, error) {
	var a shift.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.TemplateID, &a.ScheduleID, &a.AssignedBy, &a.Date,
		&a.PlannedStart, &a.PlannedEnd, &a.BreakStart, &a.BreakEnd,
		&a.ActualStart, &a.ActualEnd, &a.PlannedHours, &a.ActualHours, &a.OvertimeHours,
		&a.Status, &a.AttendanceStatus, &a.LateMinutes, &a.EarlyLeaveMinutes,
		&a.CheckInLocation, &a.CheckOutLocation, &a.Notes,
		&a.SwappedFromEmployeeID, &a.SwapRequestID, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements shift.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, assignment shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			id, employee_id, template_id, schedule_id, assigned_by, date,
			planned_start, planned_end, break_start, break_end,
			planned_hours, status, attendance_status, notes, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1
		) RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.ID,
		assignment.EmployeeID,
		assignment.TemplateID,
		assignment.ScheduleID,
		assignment.AssignedBy,
		assignment.Date,
		assignment.PlannedStart,
		assignment.PlannedEnd,
		assignment.BreakStart,
		assignment.BreakEnd,
		assignment.PlannedHours,
		assignment.Status,
		assignment.AttendanceStatus,
		assignment.Notes,
	).Scan(&assignment.Version, &assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		return shift.ShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}
	return assignment, nil
}

// GetByID implements shift.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + ` FROM shift_assignments WHERE id = $1`

	a, err := scanAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftAssignment{}, shift.ErrAssignmentNotFound
		}
		return shift.ShiftAssignment{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}
	return a, nil
}

// ListByEmployeeAndDate implements shift.AssignmentRepository. Inside a
// transaction the rows are locked so a concurrent creation for the same
// employee and date serializes behind the conflict check.
func (r *assignmentRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1 AND date = $2 AND status NOT IN ('cancelled')
		ORDER BY planned_start
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for date: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Update implements shift.AssignmentRepository. The optimistic version guard
// makes concurrent state transitions on one assignment lose cleanly.
func (r *assignmentRepository) Update(ctx context.Context, assignment shift.ShiftAssignment) (shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET actual_start = $3, actual_end = $4, actual_hours = $5, overtime_hours = $6,
			status = $7, attendance_status = $8, late_minutes = $9, early_leave_minutes = $10,
			check_in_location = $11, check_out_location = $12, notes = $13,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.ID,
		assignment.Version,
		assignment.ActualStart,
		assignment.ActualEnd,
		assignment.ActualHours,
		assignment.OvertimeHours,
		assignment.Status,
		assignment.AttendanceStatus,
		assignment.LateMinutes,
		assignment.EarlyLeaveMinutes,
		assignment.CheckInLocation,
		assignment.CheckOutLocation,
		assignment.Notes,
	).Scan(&assignment.Version, &assignment.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftAssignment{}, shift.ErrVersionConflict
		}
		return shift.ShiftAssignment{}, fmt.Errorf("failed to update shift assignment: %w", err)
	}
	return assignment, nil
}

// List implements shift.AssignmentRepository.
func (r *assignmentRepository) List(ctx context.Context, filter shift.AssignmentFilter) ([]shift.ShiftAssignment, int64, error) {
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
	if filter.ScheduleID != nil {
		where += " AND schedule_id = " + arg(*filter.ScheduleID)
	}
	if filter.Status != nil {
		where += " AND status = " + arg(*filter.Status)
	}
	if filter.DateFrom != nil {
		where += " AND date >= " + arg(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += " AND date <= " + arg(*filter.DateTo)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_assignments`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shift assignments: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + assignmentColumns + ` FROM shift_assignments` + where +
		fmt.Sprintf(` ORDER BY date DESC, planned_start LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, total, rows.Err()
}

// ListOpenPast implements shift.AssignmentRepository.
func (r *assignmentRepository) ListOpenPast(ctx context.Context, before time.Time) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE status = 'scheduled' AND planned_end < $1
		ORDER BY planned_end
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open past assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ExchangeEmployees implements shift.AssignmentRepository. Both rows are
// updated in one statement so the exchange is atomic even outside an explicit
// transaction.
func (r *assignmentRepository) ExchangeEmployees(ctx context.Context, firstID, secondID, swapRequestID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments AS sa
		SET employee_id = other.employee_id,
			swapped_from_employee_id = sa.employee_id,
			swap_request_id = $3,
			version = sa.version + 1,
			updated_at = NOW()
		FROM shift_assignments AS other
		WHERE sa.id IN ($1, $2)
		  AND other.id IN ($1, $2)
		  AND sa.id <> other.id
	`

	tag, err := q.Exec(ctx, query, firstID, secondID, swapRequestID)
	if err != nil {
		return fmt.Errorf("failed to exchange assignment employees: %w", err)
	}
	if tag.RowsAffected() != 2 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

// ListSettledForPeriod implements shift.AssignmentRepository.
func (r *assignmentRepository) ListSettledForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]shift.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1
		  AND date >= $2 AND date <= $3
		  AND status IN ('completed', 'no_show', 'cancelled')
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
