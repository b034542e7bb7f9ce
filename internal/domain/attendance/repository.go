package attendance

import (
	"context"
	"time"
)

// AttendanceRepository reads the raw schedule and clock streams for the
// aggregator. Period bounds are inclusive.
type AttendanceRepository interface {
	ListSchedules(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]ScheduleEntry, error)
	ListClockRecords(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]ClockRecord, error)
	ListPublicHolidays(ctx context.Context, companyID string, start, end time.Time) ([]PublicHoliday, error)

	// CountScheduledOrClocked reports which of the given employees have at
	// least one schedule or clock record inside the period. Used to exclude
	// idle employees from outlet-grouped runs.
	CountScheduledOrClocked(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) (map[string]bool, error)
}
