package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/shift"
)

type templateServiceImpl struct {
	templateRepo shift.TemplateRepository
}

func NewTemplateService(templateRepo shift.TemplateRepository) shift.TemplateService {
	return &templateServiceImpl{templateRepo: templateRepo}
}

// CreateTemplate implements shift.TemplateService.
func (s *templateServiceImpl) CreateTemplate(ctx context.Context, req shift.CreateTemplateRequest) (shift.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.TemplateResponse{}, err
	}

	start, _ := time.Parse("15:04", req.StartTime)
	end, _ := time.Parse("15:04", req.EndTime)
	if !start.Before(end) {
		return shift.TemplateResponse{}, shift.ErrTemplateInvalidTime
	}
	if req.BreakStart != nil && req.BreakEnd != nil {
		bs, _ := time.Parse("15:04", *req.BreakStart)
		be, _ := time.Parse("15:04", *req.BreakEnd)
		// The break must lie strictly inside the shift; a break touching
		// either boundary would swallow working time at the edge.
		if !bs.Before(be) || !bs.After(start) || !be.Before(end) {
			return shift.TemplateResponse{}, shift.ErrBreakOutsideShift
		}
	}

	existing, err := s.templateRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return shift.TemplateResponse{}, fmt.Errorf("failed to check template code: %w", err)
	}
	if existing != nil {
		return shift.TemplateResponse{}, shift.ErrTemplateCodeTaken
	}

	createdBy, err := actorID(ctx)
	if err != nil {
		return shift.TemplateResponse{}, err
	}

	template := shift.ShiftTemplate{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Code:             req.Code,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		BreakStart:       req.BreakStart,
		BreakEnd:         req.BreakEnd,
		BreakMinutes:     req.BreakMinutes,
		OvertimeEligible: req.OvertimeEligible,
		IsActive:         true,
		CreatedBy:        &createdBy,
	}

	created, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return shift.TemplateResponse{}, fmt.Errorf("failed to create shift template: %w", err)
	}
	return shift.NewTemplateResponse(created), nil
}

// GetTemplate implements shift.TemplateService.
func (s *templateServiceImpl) GetTemplate(ctx context.Context, id string) (shift.TemplateResponse, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return shift.TemplateResponse{}, err
	}
	return shift.NewTemplateResponse(template), nil
}

// UpdateTemplate implements shift.TemplateService.
func (s *templateServiceImpl) UpdateTemplate(ctx context.Context, req shift.UpdateTemplateRequest) (shift.TemplateResponse, error) {
	template, err := s.templateRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.TemplateResponse{}, err
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.OvertimeEligible != nil {
		template.OvertimeEligible = *req.OvertimeEligible
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return shift.TemplateResponse{}, fmt.Errorf("failed to update shift template: %w", err)
	}
	return shift.NewTemplateResponse(template), nil
}

// DeleteTemplate implements shift.TemplateService.
func (s *templateServiceImpl) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := s.templateRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.templateRepo.CountAssignments(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count template assignments: %w", err)
	}
	if count > 0 {
		return shift.ErrTemplateInUse
	}

	return s.templateRepo.Delete(ctx, id)
}

// ListTemplates implements shift.TemplateService.
func (s *templateServiceImpl) ListTemplates(ctx context.Context, activeOnly bool) ([]shift.TemplateResponse, error) {
	templates, err := s.templateRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}

	responses := make([]shift.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, shift.NewTemplateResponse(t))
	}
	return responses, nil
}
