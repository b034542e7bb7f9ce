package report

import "context"

type ReportService interface {
	RunSummary(ctx context.Context, month, year int) (RunSummary, error)
	GroupTotals(ctx context.Context, month, year int, grouping string) ([]GroupTotals, error)
	OTSummary(ctx context.Context, month, year int) (OTSummary, error)
	EmployeeYTD(ctx context.Context, employeeID string, year, beforeMonth int) (EmployeeYTD, error)
}
