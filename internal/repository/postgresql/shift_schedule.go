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

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) shift.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `
	id, name, description, start_date, end_date, type, status,
	(SELECT COUNT(*) FROM shift_assignments sa WHERE sa.schedule_id = shift_schedules.id) AS assignment_count,
	published_by, published_at, created_by, created_at, updated_at
`

func scanSchedule(row pgx.Row) (shift.ShiftSchedule, error) {
	var s shift.ShiftSchedule
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.StartDate, &s.EndDate, &s.Type, &s.Status,
		&s.AssignmentCount, &s.PublishedBy, &s.PublishedAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements shift.ScheduleRepository.
func (r *scheduleRepository) Create(ctx context.Context, schedule shift.ShiftSchedule) (shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_schedules (
			id, name, description, start_date, end_date, type, status, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		schedule.ID,
		schedule.Name,
		schedule.Description,
		schedule.StartDate,
		schedule.EndDate,
		schedule.Type,
		schedule.Status,
		schedule.CreatedBy,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return shift.ShiftSchedule{}, fmt.Errorf("failed to create shift schedule: %w", err)
	}
	return schedule, nil
}

// GetByID implements shift.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (shift.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM shift_schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftSchedule{}, shift.ErrScheduleNotFound
		}
		return shift.ShiftSchedule{}, fmt.Errorf("failed to get shift schedule: %w", err)
	}
	return s, nil
}

// UpdateStatus implements shift.ScheduleRepository.
func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, status shift.ScheduleStatus, publishedBy *string, publishedAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_schedules
		SET status = $2,
			published_by = COALESCE($3, published_by),
			published_at = COALESCE($4, published_at),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, publishedBy, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrScheduleNotFound
	}
	return nil
}

// List implements shift.ScheduleRepository.
func (r *scheduleRepository) List(ctx context.Context, status *shift.ScheduleStatus, page, limit int) ([]shift.ShiftSchedule, int64, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	where := ""
	args := []interface{}{}
	if status != nil {
		where = ` WHERE status = $1`
		args = append(args, *status)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_schedules`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shift schedules: %w", err)
	}

	query := `SELECT ` + scheduleColumns + ` FROM shift_schedules` + where +
		fmt.Sprintf(` ORDER BY start_date DESC LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shift schedules: %w", err)
	}
	defer rows.Close()

	var schedules []shift.ShiftSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shift schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, total, rows.Err()
}

// CountAssignments implements shift.ScheduleRepository.
func (r *scheduleRepository) CountAssignments(ctx context.Context, scheduleID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_assignments WHERE schedule_id = $1`, scheduleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count schedule assignments: %w", err)
	}
	return count, nil
}
