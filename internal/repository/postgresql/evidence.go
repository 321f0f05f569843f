package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type evidenceRepository struct {
	db *database.DB
}

func NewEvidenceRepository(db *database.DB) violation.EvidenceRepository {
	return &evidenceRepository{db: db}
}

const evidenceColumns = `
	id, explanation_id, file_name, file_path, file_url, file_size, mime_type,
	file_hash, is_verified, verified_by, uploaded_at
`

func scanEvidence(row pgx.Row) (violation.ExplanationEvidence, error) {
	var ev violation.ExplanationEvidence
	err := row.Scan(
		&ev.ID, &ev.ExplanationID, &ev.FileName, &ev.FilePath, &ev.FileURL, &ev.FileSize,
		&ev.MimeType, &ev.FileHash, &ev.IsVerified, &ev.VerifiedBy, &ev.UploadedAt,
	)
	return ev, err
}

// Create implements violation.EvidenceRepository.
func (r *evidenceRepository) Create(ctx context.Context, ev violation.ExplanationEvidence) (violation.ExplanationEvidence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO explanation_evidence (
			id, explanation_id, file_name, file_path, file_url, file_size,
			mime_type, file_hash, is_verified, verified_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING uploaded_at
	`

	err := q.QueryRow(ctx, query,
		ev.ID, ev.ExplanationID, ev.FileName, ev.FilePath, ev.FileURL, ev.FileSize,
		ev.MimeType, ev.FileHash, ev.IsVerified, ev.VerifiedBy,
	).Scan(&ev.UploadedAt)
	if err != nil {
		return violation.ExplanationEvidence{}, fmt.Errorf("failed to create explanation evidence: %w", err)
	}
	return ev, nil
}

// GetByID implements violation.EvidenceRepository.
func (r *evidenceRepository) GetByID(ctx context.Context, id string) (violation.ExplanationEvidence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + evidenceColumns + ` FROM explanation_evidence WHERE id = $1`

	ev, err := scanEvidence(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return violation.ExplanationEvidence{}, violation.ErrEvidenceNotFound
		}
		return violation.ExplanationEvidence{}, fmt.Errorf("failed to get explanation evidence: %w", err)
	}
	return ev, nil
}

// ListByExplanation implements violation.EvidenceRepository.
func (r *evidenceRepository) ListByExplanation(ctx context.Context, explanationID string) ([]violation.ExplanationEvidence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + evidenceColumns + `
		FROM explanation_evidence
		WHERE explanation_id = $1
		ORDER BY uploaded_at
	`

	rows, err := q.Query(ctx, query, explanationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list explanation evidence: %w", err)
	}
	defer rows.Close()

	var evidence []violation.ExplanationEvidence
	for rows.Next() {
		ev, err := scanEvidence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan explanation evidence: %w", err)
		}
		evidence = append(evidence, ev)
	}
	return evidence, rows.Err()
}

// Delete implements violation.EvidenceRepository.
func (r *evidenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM explanation_evidence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete explanation evidence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return violation.ErrEvidenceNotFound
	}
	return nil
}
