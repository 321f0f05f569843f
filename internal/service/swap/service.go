package swap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/swap"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/database"
	"github.com/schoolhub/shiftops-backend-go/internal/repository/postgresql"
)

type swapServiceImpl struct {
	db                 *database.DB
	swapRepo           swap.SwapRepository
	assignmentRepo     shift.AssignmentRepository
	notifier           notification.Sink
	clk                clock.Clock
	defaultExpiryHours int
}

func NewSwapService(
	db *database.DB,
	swapRepo swap.SwapRepository,
	assignmentRepo shift.AssignmentRepository,
	notifier notification.Sink,
	clk clock.Clock,
	defaultExpiryHours int,
) swap.SwapService {
	return &swapServiceImpl{
		db:                 db,
		swapRepo:           swapRepo,
		assignmentRepo:     assignmentRepo,
		notifier:           notifier,
		clk:                clk,
		defaultExpiryHours: defaultExpiryHours,
	}
}

// CreateRequest implements swap.SwapService.
func (s *swapServiceImpl) CreateRequest(ctx context.Context, req swap.CreateSwapRequest) (swap.SwapResponse, error) {
	if err := req.Validate(); err != nil {
		return swap.SwapResponse{}, err
	}

	requesterID, err := actorID(ctx)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	if requesterID == req.TargetEmployeeID {
		return swap.SwapResponse{}, swap.ErrSelfSwap
	}

	requesterAssignment, err := s.assignmentRepo.GetByID(ctx, req.RequesterAssignmentID)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	targetAssignment, err := s.assignmentRepo.GetByID(ctx, req.TargetAssignmentID)
	if err != nil {
		return swap.SwapResponse{}, err
	}

	if requesterAssignment.EmployeeID != requesterID || targetAssignment.EmployeeID != req.TargetEmployeeID {
		return swap.SwapResponse{}, swap.ErrAssignmentOwnership
	}
	if requesterAssignment.Status != shift.AssignmentStatusScheduled ||
		targetAssignment.Status != shift.AssignmentStatusScheduled {
		return swap.SwapResponse{}, swap.ErrAssignmentSettled
	}

	if err := s.checkSwapConflicts(ctx, requesterAssignment, targetAssignment); err != nil {
		return swap.SwapResponse{}, err
	}

	priority := swap.PriorityNormal
	if req.Priority != "" {
		priority = swap.Priority(req.Priority)
	}
	expiryHours := req.ExpiryHours
	if expiryHours == 0 {
		expiryHours = s.defaultExpiryHours
	}

	now := s.clk.Now()
	request := swap.SwapRequest{
		ID:                    uuid.New().String(),
		RequesterID:           requesterID,
		TargetEmployeeID:      req.TargetEmployeeID,
		RequesterAssignmentID: req.RequesterAssignmentID,
		TargetAssignmentID:    req.TargetAssignmentID,
		Status:                swap.InitialStatus(req.IsEmergency),
		Priority:              priority,
		IsEmergency:           req.IsEmergency,
		RequesterReason:       req.Reason,
		ExpiryTime:            now.Add(time.Duration(expiryHours) * time.Hour),
		Version:               1,
	}

	created, err := s.swapRepo.Create(ctx, request)
	if err != nil {
		return swap.SwapResponse{}, fmt.Errorf("failed to create swap request: %w", err)
	}

	s.notifier.Notify(ctx, created.TargetEmployeeID, notification.EventSwapRequested, map[string]interface{}{
		"swap_request_id": created.ID,
		"requester_id":    created.RequesterID,
		"is_emergency":    created.IsEmergency,
	})

	return swap.NewSwapResponse(created), nil
}

// GetRequest implements swap.SwapService. Expiry is applied on read so a stale
// request never presents itself as still open between sweeps.
func (s *swapServiceImpl) GetRequest(ctx context.Context, id string) (swap.SwapResponse, error) {
	request, err := s.getCurrent(ctx, id)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	return swap.NewSwapResponse(request), nil
}

// RespondAsTarget implements swap.SwapService.
func (s *swapServiceImpl) RespondAsTarget(ctx context.Context, req swap.TargetResponseRequest) (swap.SwapResponse, error) {
	if err := req.Validate(); err != nil {
		return swap.SwapResponse{}, err
	}

	request, err := s.getCurrent(ctx, req.SwapRequestID)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	if request.Status == swap.StatusExpired {
		return swap.SwapResponse{}, swap.ErrExpired
	}

	callerID, err := actorID(ctx)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	if callerID != request.TargetEmployeeID {
		return swap.SwapResponse{}, swap.ErrNotTarget
	}

	if err := request.RespondTarget(swap.TargetResponse(req.Response), req.Reason, s.clk.Now()); err != nil {
		return swap.SwapResponse{}, err
	}

	updated, err := s.settle(ctx, request)
	if err != nil {
		return swap.SwapResponse{}, err
	}

	s.notifier.Notify(ctx, updated.RequesterID, notification.EventSwapTargetResponse, map[string]interface{}{
		"swap_request_id": updated.ID,
		"response":        req.Response,
	})
	if updated.Status == swap.StatusApproved {
		s.notifyDecided(ctx, updated)
	}

	return swap.NewSwapResponse(updated), nil
}

// RespondAsManager implements swap.SwapService.
func (s *swapServiceImpl) RespondAsManager(ctx context.Context, req swap.ManagerResponseRequest) (swap.SwapResponse, error) {
	if err := req.Validate(); err != nil {
		return swap.SwapResponse{}, err
	}

	request, err := s.getCurrent(ctx, req.SwapRequestID)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	if request.Status == swap.StatusExpired {
		return swap.SwapResponse{}, swap.ErrExpired
	}

	approverID, err := actorID(ctx)
	if err != nil {
		return swap.SwapResponse{}, err
	}

	if err := request.RespondManager(swap.ManagerResponse(req.Response), approverID, req.Note, s.clk.Now()); err != nil {
		return swap.SwapResponse{}, err
	}

	updated, err := s.settle(ctx, request)
	if err != nil {
		return swap.SwapResponse{}, err
	}

	if updated.Status == swap.StatusApproved || updated.Status == swap.StatusDeclined {
		s.notifyDecided(ctx, updated)
	}

	return swap.NewSwapResponse(updated), nil
}

// CancelRequest implements swap.SwapService.
func (s *swapServiceImpl) CancelRequest(ctx context.Context, id string) (swap.SwapResponse, error) {
	request, err := s.getCurrent(ctx, id)
	if err != nil {
		return swap.SwapResponse{}, err
	}

	callerID, err := actorID(ctx)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	if callerID != request.RequesterID {
		return swap.SwapResponse{}, swap.ErrNotRequester
	}

	if err := request.Cancel(); err != nil {
		return swap.SwapResponse{}, err
	}

	updated, err := s.swapRepo.Update(ctx, request)
	if err != nil {
		return swap.SwapResponse{}, err
	}
	return swap.NewSwapResponse(updated), nil
}

// ListRequests implements swap.SwapService.
func (s *swapServiceImpl) ListRequests(ctx context.Context, filter swap.SwapFilter) ([]swap.SwapResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	requests, total, err := s.swapRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list swap requests: %w", err)
	}

	responses := make([]swap.SwapResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, swap.NewSwapResponse(r))
	}
	return responses, total, nil
}

// ExpireStale implements swap.SwapService.
func (s *swapServiceImpl) ExpireStale(ctx context.Context) (int, error) {
	now := s.clk.Now()
	stale, err := s.swapRepo.ListExpirable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable swap requests: %w", err)
	}

	expired := 0
	for _, request := range stale {
		if !request.Expire(now) {
			continue
		}
		if _, err := s.swapRepo.Update(ctx, request); err != nil {
			if errors.Is(err, swap.ErrVersionConflict) {
				continue
			}
			return expired, fmt.Errorf("failed to expire swap request: %w", err)
		}
		expired++

		s.notifier.Notify(ctx, request.RequesterID, notification.EventSwapExpired, map[string]interface{}{
			"swap_request_id": request.ID,
		})
	}
	return expired, nil
}

// getCurrent loads a request and applies on-read expiry. A concurrent sweep
// winning the version race is fine; the re-read sees the expired row.
func (s *swapServiceImpl) getCurrent(ctx context.Context, id string) (swap.SwapRequest, error) {
	request, err := s.swapRepo.GetByID(ctx, id)
	if err != nil {
		return swap.SwapRequest{}, err
	}

	if request.Expire(s.clk.Now()) {
		updated, err := s.swapRepo.Update(ctx, request)
		if err != nil {
			if errors.Is(err, swap.ErrVersionConflict) {
				return s.swapRepo.GetByID(ctx, id)
			}
			return swap.SwapRequest{}, err
		}
		return updated, nil
	}
	return request, nil
}

// settle persists a state transition; when the transition approved the swap,
// the status write and the assignment exchange commit atomically.
func (s *swapServiceImpl) settle(ctx context.Context, request swap.SwapRequest) (swap.SwapRequest, error) {
	if request.Status != swap.StatusApproved {
		return s.swapRepo.Update(ctx, request)
	}

	var updated swap.SwapRequest
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		requesterAssignment, err := s.assignmentRepo.GetByID(txCtx, request.RequesterAssignmentID)
		if err != nil {
			return err
		}
		targetAssignment, err := s.assignmentRepo.GetByID(txCtx, request.TargetAssignmentID)
		if err != nil {
			return err
		}
		if requesterAssignment.Status != shift.AssignmentStatusScheduled ||
			targetAssignment.Status != shift.AssignmentStatusScheduled {
			return swap.ErrAssignmentSettled
		}
		if err := s.checkSwapConflicts(txCtx, requesterAssignment, targetAssignment); err != nil {
			return err
		}

		updated, err = s.swapRepo.Update(txCtx, request)
		if err != nil {
			return err
		}
		return s.assignmentRepo.ExchangeEmployees(txCtx, request.RequesterAssignmentID, request.TargetAssignmentID, request.ID)
	})
	if err != nil {
		return swap.SwapRequest{}, err
	}
	return updated, nil
}

// checkSwapConflicts verifies that neither party would end up with an
// overlapping shift after taking the other's slot.
func (s *swapServiceImpl) checkSwapConflicts(ctx context.Context, requesterAssignment, targetAssignment shift.ShiftAssignment) error {
	if err := s.checkHypothetical(ctx, requesterAssignment.EmployeeID, requesterAssignment.ID, targetAssignment); err != nil {
		return err
	}
	return s.checkHypothetical(ctx, targetAssignment.EmployeeID, targetAssignment.ID, requesterAssignment)
}

// checkHypothetical places incoming on employeeID's day and looks for overlap,
// ignoring the slot that would move away.
func (s *swapServiceImpl) checkHypothetical(ctx context.Context, employeeID, outgoingID string, incoming shift.ShiftAssignment) error {
	existing, err := s.assignmentRepo.ListByEmployeeAndDate(ctx, employeeID, incoming.Date)
	if err != nil {
		return fmt.Errorf("failed to list assignments for conflict check: %w", err)
	}
	for _, other := range existing {
		if other.ID == outgoingID {
			continue
		}
		if incoming.Overlaps(other) {
			return swap.ErrSwapWouldConflict
		}
	}
	return nil
}

func (s *swapServiceImpl) notifyDecided(ctx context.Context, request swap.SwapRequest) {
	payload := map[string]interface{}{
		"swap_request_id": request.ID,
		"status":          string(request.Status),
	}
	s.notifier.Notify(ctx, request.RequesterID, notification.EventSwapDecided, payload)
	s.notifier.Notify(ctx, request.TargetEmployeeID, notification.EventSwapDecided, payload)
}

func actorID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("sub claim is missing or invalid")
	}
	return sub, nil
}
