package compensation

import "context"

type CompensationRepository interface {
	// ListActiveCommissions returns commissions where both the assignment and
	// its type are active, joined with type details.
	ListActiveCommissions(ctx context.Context, companyID string) ([]EmployeeCommission, error)

	// ListActiveAllowances returns allowances where both the assignment and
	// its type are active, joined with the taxable flag.
	ListActiveAllowances(ctx context.Context, companyID string) ([]EmployeeAllowance, error)

	ListSales(ctx context.Context, companyID string, year, month int) ([]SalesRecord, error)
}
