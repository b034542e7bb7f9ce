package report

import "context"

// ReportRepository serves the read-only reporting projections. All queries
// are tenant-scoped and return deterministic rounded values.
type ReportRepository interface {
	RunSummary(ctx context.Context, companyID string, month, year int) (RunSummary, error)
	GroupTotals(ctx context.Context, companyID string, month, year int, grouping string) ([]GroupTotals, error)
	OTSummary(ctx context.Context, companyID string, month, year int) (OTSummary, error)
	EmployeeYTD(ctx context.Context, companyID, employeeID string, year, beforeMonth int) (EmployeeYTD, error)
}
