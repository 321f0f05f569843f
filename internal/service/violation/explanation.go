package violation

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/notification"
	"github.com/schoolhub/shiftops-backend-go/internal/domain/violation"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/clock"
	"github.com/schoolhub/shiftops-backend-go/internal/pkg/storage"
)

type explanationServiceImpl struct {
	violationRepo    violation.ViolationRepository
	explanationRepo  violation.ExplanationRepository
	evidenceRepo     violation.EvidenceRepository
	files            storage.FileStorage
	notifier         notification.Sink
	clk              clock.Clock
	maxResubmissions int
	maxEvidenceBytes int64
}

func NewExplanationService(
	violationRepo violation.ViolationRepository,
	explanationRepo violation.ExplanationRepository,
	evidenceRepo violation.EvidenceRepository,
	files storage.FileStorage,
	notifier notification.Sink,
	clk clock.Clock,
	maxResubmissions int,
	maxEvidenceSizeMB int,
) violation.ExplanationService {
	return &explanationServiceImpl{
		violationRepo:    violationRepo,
		explanationRepo:  explanationRepo,
		evidenceRepo:     evidenceRepo,
		files:            files,
		notifier:         notifier,
		clk:              clk,
		maxResubmissions: maxResubmissions,
		maxEvidenceBytes: int64(maxEvidenceSizeMB) * 1024 * 1024,
	}
}

// SubmitExplanation implements violation.ExplanationService. Every rejected
// review counts against the resubmission limit.
func (s *explanationServiceImpl) SubmitExplanation(ctx context.Context, req violation.SubmitExplanationRequest) (violation.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return violation.ExplanationResponse{}, err
	}

	v, err := s.violationRepo.GetByID(ctx, req.ViolationID)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}
	if !v.CanBeExplained() {
		return violation.ExplanationResponse{}, violation.ErrNotExplainable
	}

	submitter, err := actorID(ctx)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}
	if submitter != v.EmployeeID {
		return violation.ExplanationResponse{}, violation.ErrNotViolationOwner
	}

	// Each rejection bumps ResubmissionCount, so the count tells which
	// resubmission this is. The initial submission sees a count of zero.
	if v.ResubmissionCount > s.maxResubmissions {
		return violation.ExplanationResponse{}, violation.ErrResubmissionLimit
	}

	explanation := violation.ViolationExplanation{
		ID:          uuid.New().String(),
		ViolationID: v.ID,
		SubmittedBy: submitter,
		Text:        req.Text,
		Status:      violation.ExplanationSubmitted,
	}

	created, err := s.explanationRepo.Create(ctx, explanation)
	if err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to create explanation: %w", err)
	}

	v.Status = violation.StatusExplanationSubmitted
	if err := s.violationRepo.Update(ctx, v); err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to update violation status: %w", err)
	}

	return violation.NewExplanationResponse(created), nil
}

// UpdateExplanation implements violation.ExplanationService.
func (s *explanationServiceImpl) UpdateExplanation(ctx context.Context, req violation.UpdateExplanationRequest) (violation.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return violation.ExplanationResponse{}, err
	}

	explanation, err := s.editableExplanation(ctx, req.ExplanationID)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}

	explanation.Text = req.Text
	// An edit answers a request for more info; it goes back into the queue.
	explanation.Status = violation.ExplanationSubmitted

	if err := s.explanationRepo.Update(ctx, explanation); err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to update explanation: %w", err)
	}

	// The violation follows the explanation back into the review queue.
	v, err := s.violationRepo.GetByID(ctx, explanation.ViolationID)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}
	if v.Status.CanTransitionTo(violation.StatusExplanationSubmitted) {
		v.Status = violation.StatusExplanationSubmitted
		if err := s.violationRepo.Update(ctx, v); err != nil {
			return violation.ExplanationResponse{}, fmt.Errorf("failed to update violation status: %w", err)
		}
	}
	return violation.NewExplanationResponse(explanation), nil
}

// AttachEvidence implements violation.ExplanationService.
func (s *explanationServiceImpl) AttachEvidence(ctx context.Context, req violation.AttachEvidenceRequest, file io.Reader) (violation.EvidenceResponse, error) {
	explanation, err := s.editableExplanation(ctx, req.ExplanationID)
	if err != nil {
		return violation.EvidenceResponse{}, err
	}

	if !violation.IsAllowedEvidenceFile(req.FileName) {
		return violation.EvidenceResponse{}, violation.ErrEvidenceFileType
	}
	if req.FileSize > s.maxEvidenceBytes {
		return violation.EvidenceResponse{}, violation.ErrEvidenceTooLarge
	}

	id := uuid.New().String()
	path := filepath.Join("evidence", explanation.ID, id+"_"+filepath.Base(req.FileName))

	stored, err := s.files.Store(ctx, file, path, req.MimeType)
	if err != nil {
		return violation.EvidenceResponse{}, fmt.Errorf("failed to store evidence file: %w", err)
	}

	ev := violation.ExplanationEvidence{
		ID:            id,
		ExplanationID: explanation.ID,
		FileName:      req.FileName,
		FilePath:      stored.Path,
		FileURL:       &stored.URL,
		FileSize:      req.FileSize,
		MimeType:      req.MimeType,
		FileHash:      &stored.Hash,
	}

	created, err := s.evidenceRepo.Create(ctx, ev)
	if err != nil {
		// The row failed; don't leave the orphaned file behind.
		_ = s.files.Delete(ctx, stored.Path)
		return violation.EvidenceResponse{}, fmt.Errorf("failed to create evidence record: %w", err)
	}

	return violation.EvidenceResponse{
		ID:         created.ID,
		FileName:   created.FileName,
		FileURL:    created.FileURL,
		FileSize:   created.FileSize,
		MimeType:   created.MimeType,
		IsVerified: created.IsVerified,
	}, nil
}

// RemoveEvidence implements violation.ExplanationService.
func (s *explanationServiceImpl) RemoveEvidence(ctx context.Context, evidenceID string) error {
	ev, err := s.evidenceRepo.GetByID(ctx, evidenceID)
	if err != nil {
		return err
	}

	if _, err := s.editableExplanation(ctx, ev.ExplanationID); err != nil {
		return err
	}

	if err := s.evidenceRepo.Delete(ctx, evidenceID); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, ev.FilePath); err != nil {
		return fmt.Errorf("failed to delete evidence file: %w", err)
	}
	return nil
}

// ReviewExplanation implements violation.ExplanationService. Approval resolves
// the violation; rejection reopens it for another explanation; a request for
// more info keeps the explanation editable.
func (s *explanationServiceImpl) ReviewExplanation(ctx context.Context, req violation.ReviewExplanationRequest) (violation.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return violation.ExplanationResponse{}, err
	}

	explanation, err := s.explanationRepo.GetByID(ctx, req.ExplanationID)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}
	switch explanation.Status {
	case violation.ExplanationSubmitted, violation.ExplanationUnderReview:
	default:
		return violation.ExplanationResponse{}, violation.ErrExplanationReviewed
	}

	v, err := s.violationRepo.GetByID(ctx, explanation.ViolationID)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}

	reviewer, err := actorID(ctx)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}
	now := s.clk.Now()
	explanation.ReviewedBy = &reviewer
	explanation.ReviewedAt = &now
	explanation.ReviewNotes = req.Notes

	switch violation.ReviewAction(req.Action) {
	case violation.ReviewApprove:
		explanation.Status = violation.ExplanationApproved
		explanation.IsValid = true
		v.Status = violation.StatusResolved
		v.ResolvedBy = &reviewer
		v.ResolvedAt = &now
		v.ResolutionNote = req.Notes
	case violation.ReviewReject:
		explanation.Status = violation.ExplanationRejected
		explanation.IsValid = false
		v.ResubmissionCount++
		v.Status = violation.StatusPendingExplanation
	case violation.ReviewRequestMoreInfo:
		explanation.Status = violation.ExplanationRequiresMoreInfo
		v.Status = violation.StatusUnderReview
	}

	if err := s.explanationRepo.Update(ctx, explanation); err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to update explanation: %w", err)
	}
	if err := s.violationRepo.Update(ctx, v); err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to update violation: %w", err)
	}

	s.notifier.Notify(ctx, explanation.SubmittedBy, notification.EventExplanationReviewed, map[string]interface{}{
		"explanation_id": explanation.ID,
		"violation_id":   v.ID,
		"action":         req.Action,
	})

	return violation.NewExplanationResponse(explanation), nil
}

// GetExplanation implements violation.ExplanationService.
func (s *explanationServiceImpl) GetExplanation(ctx context.Context, id string) (violation.ExplanationResponse, error) {
	explanation, err := s.explanationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ExplanationResponse{}, err
	}

	evidence, err := s.evidenceRepo.ListByExplanation(ctx, id)
	if err != nil {
		return violation.ExplanationResponse{}, fmt.Errorf("failed to list evidence: %w", err)
	}
	explanation.Evidence = evidence

	return violation.NewExplanationResponse(explanation), nil
}

// editableExplanation loads an explanation and verifies the caller may still
// change it.
func (s *explanationServiceImpl) editableExplanation(ctx context.Context, id string) (violation.ViolationExplanation, error) {
	explanation, err := s.explanationRepo.GetByID(ctx, id)
	if err != nil {
		return violation.ViolationExplanation{}, err
	}
	if !explanation.IsEditable() {
		return violation.ViolationExplanation{}, violation.ErrExplanationNotEditable
	}

	caller, err := actorID(ctx)
	if err != nil {
		return violation.ViolationExplanation{}, err
	}
	if caller != explanation.SubmittedBy {
		return violation.ViolationExplanation{}, violation.ErrNotSubmitter
	}
	return explanation, nil
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
