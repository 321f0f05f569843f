package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type explanationRepository struct {
	db *database.DB
}

func NewExplanationRepository(db *database.DB) violation.ExplanationRepository {
	return &explanationRepository{db: db}
}

const explanationColumns = `
	id, violation_id, submitted_by, text, status,
	reviewed_by, reviewed_at, review_notes, is_valid, created_at, updated_at
`

func scanExplanation(row pgx.Row) (violation.ViolationExplanation, error) {
	var e violation.ViolationExplanation
	err := row.Scan(
		&e.ID, &e.ViolationID, &e.SubmittedBy, &e.Text, &e.Status,
		&e.ReviewedBy, &e.ReviewedAt, &e.ReviewNotes, &e.IsValid, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements violation.ExplanationRepository.
func (r *explanationRepository) Create(ctx context.Context, e violation.ViolationExplanation) (violation.ViolationExplanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO violation_explanations (
			id, violation_id, submitted_by, text, status
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, e.ID, e.ViolationID, e.SubmittedBy, e.Text, e.Status).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return violation.ViolationExplanation{}, fmt.Errorf("failed to create violation explanation: %w", err)
	}
	return e, nil
}

// GetByID implements violation.ExplanationRepository.
func (r *explanationRepository) GetByID(ctx context.Context, id string) (violation.ViolationExplanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + explanationColumns + ` FROM violation_explanations WHERE id = $1`

	e, err := scanExplanation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return violation.ViolationExplanation{}, violation.ErrExplanationNotFound
		}
		return violation.ViolationExplanation{}, fmt.Errorf("failed to get violation explanation: %w", err)
	}
	return e, nil
}

// GetLatestByViolation implements violation.ExplanationRepository.
func (r *explanationRepository) GetLatestByViolation(ctx context.Context, violationID string) (*violation.ViolationExplanation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + explanationColumns + `
		FROM violation_explanations
		WHERE violation_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	e, err := scanExplanation(q.QueryRow(ctx, query, violationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest explanation: %w", err)
	}
	return &e, nil
}

// Update implements violation.ExplanationRepository.
func (r *explanationRepository) Update(ctx context.Context, e violation.ViolationExplanation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE violation_explanations
		SET text = $2, status = $3, reviewed_by = $4, reviewed_at = $5,
			review_notes = $6, is_valid = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, e.ID, e.Text, e.Status, e.ReviewedBy, e.ReviewedAt, e.ReviewNotes, e.IsValid)
	if err != nil {
		return fmt.Errorf("failed to update violation explanation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return violation.ErrExplanationNotFound
	}
	return nil
}
