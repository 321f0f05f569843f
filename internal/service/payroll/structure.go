package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/schoolhub/shiftops-backend-go/internal/domain/salary"
)

type structureServiceImpl struct {
	structureRepo salary.StructureRepository
}

func NewStructureService(structureRepo salary.StructureRepository) salary.StructureService {
	return &structureServiceImpl{structureRepo: structureRepo}
}

// CreateStructure implements salary.StructureService.
func (s *structureServiceImpl) CreateStructure(ctx context.Context, req salary.CreateStructureRequest) (salary.StructureResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}

	effectiveDate, _ := time.Parse("2006-01-02", req.EffectiveDate)
	var endDate *time.Time
	if req.EndDate != nil {
		parsed, _ := time.Parse("2006-01-02", *req.EndDate)
		if effectiveDate.After(parsed) {
			return salary.StructureResponse{}, salary.ErrStructureInvalidRange
		}
		endDate = &parsed
	}

	overlaps, err := s.structureRepo.HasOverlap(ctx, req.EmployeeID, effectiveDate, endDate)
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to check structure overlap: %w", err)
	}
	if overlaps {
		return salary.StructureResponse{}, salary.ErrStructureOverlap
	}

	createdBy, err := actorID(ctx)
	if err != nil {
		return salary.StructureResponse{}, err
	}

	structure := salary.SalaryStructure{
		ID:            uuid.New().String(),
		EmployeeID:    req.EmployeeID,
		EffectiveDate: effectiveDate,
		EndDate:       endDate,

		BaseSalary:   req.BaseSalary,
		HourlyRate:   req.HourlyRate,
		OvertimeRate: req.OvertimeRate,
		HolidayRate:  req.HolidayRate,
		WeekendRate:  req.WeekendRate,

		PositionAllowance:  req.PositionAllowance,
		TransportAllowance: req.TransportAllowance,
		MealAllowance:      req.MealAllowance,
		PhoneAllowance:     req.PhoneAllowance,
		OtherAllowances:    req.OtherAllowances,

		SocialInsuranceRate:       req.SocialInsuranceRate,
		HealthInsuranceRate:       req.HealthInsuranceRate,
		UnemploymentInsuranceRate: req.UnemploymentInsuranceRate,
		OtherDeductions:           req.OtherDeductions,

		Type:      salary.SalaryType(req.Type),
		IsActive:  true,
		CreatedBy: &createdBy,
	}

	created, err := s.structureRepo.Create(ctx, structure)
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to create salary structure: %w", err)
	}
	return salary.NewStructureResponse(created), nil
}

// GetStructure implements salary.StructureService.
func (s *structureServiceImpl) GetStructure(ctx context.Context, id string) (salary.StructureResponse, error) {
	structure, err := s.structureRepo.GetByID(ctx, id)
	if err != nil {
		return salary.StructureResponse{}, err
	}
	return salary.NewStructureResponse(structure), nil
}

// DeactivateStructure implements salary.StructureService.
func (s *structureServiceImpl) DeactivateStructure(ctx context.Context, id string) error {
	return s.structureRepo.Deactivate(ctx, id)
}

// ListStructures implements salary.StructureService.
func (s *structureServiceImpl) ListStructures(ctx context.Context, employeeID string) ([]salary.StructureResponse, error) {
	structures, err := s.structureRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}

	responses := make([]salary.StructureResponse, 0, len(structures))
	for _, structure := range structures {
		responses = append(responses, salary.NewStructureResponse(structure))
	}
	return responses, nil
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
