package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type templateRepository struct {
	db *database.DB
}

func NewTemplateRepository(db *database.DB) shift.TemplateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `
	id, name, code, start_time, end_time, break_start, break_end, break_minutes,
	overtime_eligible, is_active, created_by, created_at, updated_at
`

func scanTemplate(row pgx.Row) (shift.ShiftTemplate, error) {
	var t shift.ShiftTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.Code, &t.StartTime, &t.EndTime, &t.BreakStart, &t.BreakEnd,
		&t.BreakMinutes, &t.OvertimeEligible, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements shift.TemplateRepository.
func (r *templateRepository) Create(ctx context.Context, template shift.ShiftTemplate) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_templates (
			id, name, code, start_time, end_time, break_start, break_end,
			break_minutes, overtime_eligible, is_active, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		template.ID,
		template.Name,
		template.Code,
		template.StartTime,
		template.EndTime,
		template.BreakStart,
		template.BreakEnd,
		template.BreakMinutes,
		template.OvertimeEligible,
		template.IsActive,
		template.CreatedBy,
	).Scan(&template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return shift.ShiftTemplate{}, fmt.Errorf("failed to create shift template: %w", err)
	}
	return template, nil
}

// GetByID implements shift.TemplateRepository.
func (r *templateRepository) GetByID(ctx context.Context, id string) (shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + templateColumns + ` FROM shift_templates WHERE id = $1`

	t, err := scanTemplate(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftTemplate{}, shift.ErrTemplateNotFound
		}
		return shift.ShiftTemplate{}, fmt.Errorf("failed to get shift template: %w", err)
	}
	return t, nil
}

// GetByCode implements shift.TemplateRepository.
func (r *templateRepository) GetByCode(ctx context.Context, code string) (*shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + templateColumns + ` FROM shift_templates WHERE code = $1`

	t, err := scanTemplate(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift template by code: %w", err)
	}
	return &t, nil
}

// Update implements shift.TemplateRepository.
func (r *templateRepository) Update(ctx context.Context, template shift.ShiftTemplate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_templates
		SET name = $2, overtime_eligible = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, template.ID, template.Name, template.OvertimeEligible, template.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update shift template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrTemplateNotFound
	}
	return nil
}

// Delete implements shift.TemplateRepository.
func (r *templateRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrTemplateNotFound
	}
	return nil
}

// List implements shift.TemplateRepository.
func (r *templateRepository) List(ctx context.Context, activeOnly bool) ([]shift.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + templateColumns + ` FROM shift_templates`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY code`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.ShiftTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CountAssignments implements shift.TemplateRepository.
func (r *templateRepository) CountAssignments(ctx context.Context, templateID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_assignments WHERE template_id = $1`, templateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count template assignments: %w", err)
	}
	return count, nil
}
