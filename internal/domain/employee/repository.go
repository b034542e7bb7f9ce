package employee

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CohortFilter selects the employees entering a payroll run: everyone active
// during the period, plus employees who resigned inside it, optionally
// narrowed to one grouping unit or an explicit id list.
type CohortFilter struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	DepartmentID *string
	OutletID     *string
	EmployeeIDs  []string
}

// EmployeeRepository defines data access for employees. All methods include
// companyID to prevent cross-company access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	ListCohort(ctx context.Context, companyID string, filter CohortFilter) ([]Employee, error)

	// UpdateSalaryDefaults writes back carried-forward basic salary and fixed
	// allowance at run finalization.
	UpdateSalaryDefaults(ctx context.Context, id string, companyID string, basic, fixedAllowance decimal.Decimal) error
}
