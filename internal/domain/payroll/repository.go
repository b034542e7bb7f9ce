package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access for runs and items. Every method is
// tenant-scoped by companyID. Mutations are expected to run inside the
// orchestrator's transaction (see repository/postgresql.WithTransaction).
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	// GetRunForUpdate takes the run row under FOR UPDATE for the lifetime of
	// the surrounding transaction.
	GetRunForUpdate(ctx context.Context, id string, companyID string) (PayrollRun, error)
	GetRunByPeriod(ctx context.Context, companyID string, month, year int, departmentID, outletID *string) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string, filter RunFilter) ([]PayrollRun, int64, error)
	UpdateRunTotals(ctx context.Context, run PayrollRun) error
	SetRunApproved(ctx context.Context, id string, companyID string, approvedBy string, approvedAt time.Time) error
	SetRunFinalized(ctx context.Context, id string, companyID string, finalizedAt time.Time) error
	DeleteRun(ctx context.Context, id string, companyID string) error
	DeleteDraftRuns(ctx context.Context, companyID string, month, year int) (int64, error)

	// TryLockPeriod acquires the transaction-scoped advisory lock guarding
	// run creation for (company, month, year, grouping). Returns false when
	// another creator holds it.
	TryLockPeriod(ctx context.Context, companyID string, month, year int, groupingID *string) (bool, error)

	// Items
	CreateItem(ctx context.Context, item PayItem) (PayItem, error)
	GetItemByID(ctx context.Context, id string, companyID string) (PayItem, error)
	// GetItemForUpdate takes the item row under FOR UPDATE.
	GetItemForUpdate(ctx context.Context, id string, companyID string) (PayItem, error)
	ListItemsByRun(ctx context.Context, runID string, companyID string) ([]PayItem, error)
	UpdateItem(ctx context.Context, item PayItem) error
	DeleteItem(ctx context.Context, id string, companyID string) error

	// PriorMonthItems returns the finalized-or-draft items of the month
	// preceding (year, month), keyed by employee. Feeds carry-forward and
	// variance.
	PriorMonthItems(ctx context.Context, companyID string, year, month int) (map[string]PayItem, error)

	// YTDTotals sums gross, EPF employee and PCB for the employee across
	// items of the given year before the given month.
	YTDTotals(ctx context.Context, companyID, employeeID string, year, beforeMonth int) (YTD, error)

	// RunAttendanceStats returns per-employee read-time aggregates for the
	// run's period: days with a clock-in, worked hours, clocked days with no
	// schedule.
	RunAttendanceStats(ctx context.Context, companyID string, run PayrollRun) (map[string]ItemAttendance, error)
}

// YTD is the year-to-date accumulation snapshot stored on each item.
type YTD struct {
	Gross decimal.Decimal
	EPF   decimal.Decimal
	PCB   decimal.Decimal
}
