package salary

import (
	"context"
)

// StructureService manages salary structures.
type StructureService interface {
	CreateStructure(ctx context.Context, req CreateStructureRequest) (StructureResponse, error)
	GetStructure(ctx context.Context, id string) (StructureResponse, error)
	DeactivateStructure(ctx context.Context, id string) error
	ListStructures(ctx context.Context, employeeID string) ([]StructureResponse, error)
}

// PayrollService computes and advances payrolls.
type PayrollService interface {
	CalculatePayroll(ctx context.Context, req CalculatePayrollRequest) (PayrollResponse, error)
	// CalculateForPeriod runs the calculation for every employee with an
	// active structure; individual failures are collected, not fatal.
	CalculateForPeriod(ctx context.Context, req CalculatePeriodRequest) (BulkResult, error)
	RecalculatePayroll(ctx context.Context, payrollID string) (PayrollResponse, error)
	ApprovePayroll(ctx context.Context, payrollID string) (PayrollResponse, error)
	MarkPaid(ctx context.Context, payrollID string) (PayrollResponse, error)
	CancelPayroll(ctx context.Context, payrollID string) (PayrollResponse, error)
	GetPayroll(ctx context.Context, payrollID string) (PayrollResponse, error)
	ListPayrolls(ctx context.Context, filter PayrollFilter) ([]PayrollResponse, int64, error)
}
