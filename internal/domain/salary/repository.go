package salary

import (
	"context"
	"time"
)

// StructureRepository defines data access for salary structures.
type StructureRepository interface {
	Create(ctx context.Context, s SalaryStructure) (SalaryStructure, error)
	GetByID(ctx context.Context, id string) (SalaryStructure, error)
	// GetActiveForDate returns the single active structure covering the date,
	// or ErrNoActiveStructure.
	GetActiveForDate(ctx context.Context, employeeID string, date time.Time) (SalaryStructure, error)
	// HasOverlap checks the at-most-one-active invariant before insert.
	HasOverlap(ctx context.Context, employeeID string, effectiveDate time.Time, endDate *time.Time) (bool, error)
	Deactivate(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryStructure, error)
	ListActiveEmployeeIDs(ctx context.Context, date time.Time) ([]string, error)
}

// PayrollRepository defines data access for payrolls.
type PayrollRepository interface {
	Create(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeeAndPeriod(ctx context.Context, employeeID string, year, month int) (*Payroll, error)
	// Update persists a payroll guarded by the optimistic version.
	Update(ctx context.Context, p Payroll) (Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]Payroll, int64, error)
}
