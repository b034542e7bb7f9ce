package attendance

import (
	"context"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Aggregator loads raw attendance streams and feeds the pure compute
// functions. One instance serves all companies; every call is tenant-scoped.
type Aggregator struct {
	repo attendance.AttendanceRepository
}

func NewAggregator(repo attendance.AttendanceRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// EmployeeStreams is one employee's raw attendance data for a period, loaded
// once and shared across the metrics.
type EmployeeStreams struct {
	Schedules []attendance.ScheduleEntry
	Clocks    []attendance.ClockRecord
}

func (a *Aggregator) LoadStreams(ctx context.Context, emp employee.Employee, start, end time.Time) (EmployeeStreams, error) {
	schedules, err := a.repo.ListSchedules(ctx, emp.CompanyID, emp.ID, start, end)
	if err != nil {
		return EmployeeStreams{}, err
	}
	clocks, err := a.repo.ListClockRecords(ctx, emp.CompanyID, emp.ID, start, end)
	if err != nil {
		return EmployeeStreams{}, err
	}
	return EmployeeStreams{Schedules: schedules, Clocks: clocks}, nil
}

func (a *Aggregator) PublicHolidays(ctx context.Context, companyID string, start, end time.Time) ([]attendance.PublicHoliday, error) {
	return a.repo.ListPublicHolidays(ctx, companyID, start, end)
}

// PartTimeHours computes the hourly-paid earnings for one part-time
// employee. The effective rate falls back to the company default when the
// employee carries no rate of their own.
func (a *Aggregator) PartTimeHours(ctx context.Context, emp employee.Employee, streams EmployeeStreams, holidays []attendance.PublicHoliday, defaultRate, phMultiplier decimal.Decimal) PartTimeResult {
	rate := emp.HourlyRate
	if rate.IsZero() {
		rate = defaultRate
	}
	return ComputePartTimeHours(streams.Schedules, streams.Clocks, holidays, rate, phMultiplier)
}

// ActiveEmployees reports which of the given employees have any schedule or
// clock activity inside the period.
func (a *Aggregator) ActiveEmployees(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) (map[string]bool, error) {
	if len(employeeIDs) == 0 {
		return map[string]bool{}, nil
	}
	return a.repo.CountScheduledOrClocked(ctx, companyID, employeeIDs, start, end)
}
