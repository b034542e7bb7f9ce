package advance

import "context"

type AdvanceRepository interface {
	// ListDue returns active advances whose expected deduction month is
	// (year, month) or earlier.
	ListDue(ctx context.Context, companyID string, year, month int) ([]SalaryAdvance, error)
}
