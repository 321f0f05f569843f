package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/swap"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
)

type swapRepository struct {
	db *database.DB
}

func NewSwapRepository(db *database.DB) swap.SwapRepository {
	return &swapRepository{db: db}
}

const swapColumns = `
	id, requester_id, target_employee_id, requester_assignment_id, target_assignment_id,
	status, priority, is_emergency, requester_reason, target_reason, manager_note,
	target_response, target_responded_at, manager_response, approved_by, manager_responded_at,
	expiry_time, version, created_at, updated_at
`

func scanSwap(row pgx.Row) (swap.SwapRequest, error) {
	var r swap.SwapRequest
	err := row.Scan(
		&r.ID, &r.RequesterID, &r.TargetEmployeeID, &r.RequesterAssignmentID, &r.TargetAssignmentID,
		&r.Status, &r.Priority, &r.IsEmergency, &r.RequesterReason, &r.TargetReason, &r.ManagerNote,
		&r.TargetResponse, &r.TargetRespondedAt, &r.ManagerResponse, &r.ApprovedBy, &r.ManagerRespondedAt,
		&r.ExpiryTime, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements swap.SwapRepository.
func (s *swapRepository) Create(ctx context.Context, request swap.SwapRequest) (swap.SwapRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_swap_requests (
			id, requester_id, target_employee_id, requester_assignment_id, target_assignment_id,
			status, priority, is_emergency, requester_reason, expiry_time, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1
		) RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.RequesterID,
		request.TargetEmployeeID,
		request.RequesterAssignmentID,
		request.TargetAssignmentID,
		request.Status,
		request.Priority,
		request.IsEmergency,
		request.RequesterReason,
		request.ExpiryTime,
	).Scan(&request.Version, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return swap.SwapRequest{}, fmt.Errorf("failed to create swap request: %w", err)
	}
	return request, nil
}

// GetByID implements swap.SwapRepository.
func (s *swapRepository) GetByID(ctx context.Context, id string) (swap.SwapRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + swapColumns + ` FROM shift_swap_requests WHERE id = $1`

	r, err := scanSwap(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return swap.SwapRequest{}, swap.ErrNotFound
		}
		return swap.SwapRequest{}, fmt.Errorf("failed to get swap request: %w", err)
	}
	return r, nil
}

// Update implements swap.SwapRepository. Concurrent target/manager responses
// on one request serialize on the version guard; the loser sees
// ErrVersionConflict and no corruption.
func (s *swapRepository) Update(ctx context.Context, request swap.SwapRequest) (swap.SwapRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_swap_requests
		SET status = $3, target_reason = $4, manager_note = $5,
			target_response = $6, target_responded_at = $7,
			manager_response = $8, approved_by = $9, manager_responded_at = $10,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.Version,
		request.Status,
		request.TargetReason,
		request.ManagerNote,
		request.TargetResponse,
		request.TargetRespondedAt,
		request.ManagerResponse,
		request.ApprovedBy,
		request.ManagerRespondedAt,
	).Scan(&request.Version, &request.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return swap.SwapRequest{}, swap.ErrVersionConflict
		}
		return swap.SwapRequest{}, fmt.Errorf("failed to update swap request: %w", err)
	}
	return request, nil
}

// List implements swap.SwapRepository.
func (s *swapRepository) List(ctx context.Context, filter swap.SwapFilter) ([]swap.SwapRequest, int64, error) {
	q := GetQuerier(ctx, s.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.RequesterID != nil {
		where += " AND requester_id = " + arg(*filter.RequesterID)
	}
	if filter.TargetID != nil {
		where += " AND target_employee_id = " + arg(*filter.TargetID)
	}
	if filter.Status != nil {
		where += " AND status = " + arg(*filter.Status)
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_swap_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count swap requests: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + swapColumns + ` FROM shift_swap_requests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list swap requests: %w", err)
	}
	defer rows.Close()

	var requests []swap.SwapRequest
	for rows.Next() {
		r, err := scanSwap(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan swap request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, total, rows.Err()
}

// ListExpirable implements swap.SwapRepository.
func (s *swapRepository) ListExpirable(ctx context.Context, now time.Time) ([]swap.SwapRequest, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + swapColumns + `
		FROM shift_swap_requests
		WHERE expiry_time <= $1
		  AND status IN ('pending_target', 'pending_manager', 'accepted')
		ORDER BY expiry_time
	`

	rows, err := q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expirable swap requests: %w", err)
	}
	defer rows.Close()

	var requests []swap.SwapRequest
	for rows.Next() {
		r, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swap request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
