package attendance

import "time"

type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleConfirmed ScheduleStatus = "confirmed"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// ScheduleEntry is one planned shift for one employee on one date.
type ScheduleEntry struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time
	ShiftStart time.Time
	ShiftEnd   time.Time
	Status     ScheduleStatus
}

// Active reports whether the entry counts towards scheduling (cancelled
// shifts do not).
func (s ScheduleEntry) Active() bool {
	return s.Status != ScheduleCancelled
}

type ClockStatus string

const (
	ClockCompleted  ClockStatus = "completed"
	ClockInProgress ClockStatus = "in_progress"
)

// ClockRecord is one day of raw clock-in data. Up to two in/out pairs per
// day; TotalWorkMinutes is the device-side sum when present.
type ClockRecord struct {
	ID         string
	EmployeeID string
	CompanyID  string
	WorkDate   time.Time

	ClockIn1  *time.Time
	ClockOut1 *time.Time
	ClockIn2  *time.Time
	ClockOut2 *time.Time

	TotalWorkMinutes int
	// OTMinutes is the device- or supervisor-recorded overtime; when zero the
	// aggregator derives overtime from worked minutes instead.
	OTMinutes int
	// OTApproved: nil means pending review.
	OTApproved *bool

	Status ClockStatus
}

// HasClockOut reports whether the day counts as attended.
func (c ClockRecord) HasClockOut() bool {
	return c.ClockOut1 != nil || c.ClockOut2 != nil
}

// PublicHoliday is a company-observed holiday. ExtraPay gates holiday
// multipliers for work performed on the day.
type PublicHoliday struct {
	ID        string
	CompanyID string
	Date      time.Time
	Name      string
	ExtraPay  bool
}
