package payroll

import "context"

// PayrollService is the run orchestrator: the only write path into payroll
// state. Tenant identity comes from the request context claims.
type PayrollService interface {
	CreateRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) (ListRunsResponse, error)

	UpdateItem(ctx context.Context, itemID string, overrides ItemOverrides) (ItemResponse, error)
	DeleteItem(ctx context.Context, itemID string) error
	RecalculateItem(ctx context.Context, itemID string) (ItemResponse, error)
	RecalculateAll(ctx context.Context, runID string) (RunResponse, error)
	AddEmployees(ctx context.Context, runID string, req AddEmployeesRequest) (RunResponse, error)

	Approve(ctx context.Context, runID string) (RunResponse, error)
	Finalize(ctx context.Context, runID string) (RunResponse, error)
	DeleteRun(ctx context.Context, runID string) error
	DeleteDraftRuns(ctx context.Context, month, year int) (int64, error)

	GenerateAllDepartments(ctx context.Context, month, year int, notes *string) ([]BatchOutcome, error)
	GenerateAllOutlets(ctx context.Context, month, year int, notes *string) ([]BatchOutcome, error)
}
