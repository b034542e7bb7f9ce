// Package attendance aggregates raw schedules and clock records into the
// per-employee metrics the payroll policy engine consumes. All compute
// functions here are pure; data access lives in the service wrapper.
package attendance

import (
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var (
	sixty = decimal.NewFromInt(60)
	two   = decimal.NewFromInt(2)
)

// dateKey normalizes a timestamp to its calendar day.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// floorHalfHour floors hours to the nearest half-hour increment.
func floorHalfHour(hours decimal.Decimal) decimal.Decimal {
	return hours.Mul(two).Floor().Div(two)
}

// minutesToHours converts worked minutes to decimal hours.
func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}

// PartTimeResult carries the hourly-paid earnings for one period.
type PartTimeResult struct {
	NormalHours decimal.Decimal
	PHHours     decimal.Decimal
	NormalPay   decimal.Decimal
	PHPay       decimal.Decimal
	GrossSalary decimal.Decimal
}

// ComputePartTimeHours buckets worked minutes into normal and public-holiday
// days. Only days holding both an active schedule and a completed clock
// record count. Each bucket's hours floor to half-hour increments before the
// rate is applied.
func ComputePartTimeHours(
	schedules []attendance.ScheduleEntry,
	clocks []attendance.ClockRecord,
	holidays []attendance.PublicHoliday,
	hourlyRate, phMultiplier decimal.Decimal,
) PartTimeResult {
	scheduled := make(map[string]bool, len(schedules))
	for _, s := range schedules {
		if s.Active() {
			scheduled[dateKey(s.Date)] = true
		}
	}
	phDates := extraPayHolidayDates(holidays)

	var normalMinutes, phMinutes int
	for _, c := range clocks {
		day := dateKey(c.WorkDate)
		if !scheduled[day] || !c.HasClockOut() {
			continue
		}
		if phDates[day] {
			phMinutes += c.TotalWorkMinutes
		} else {
			normalMinutes += c.TotalWorkMinutes
		}
	}

	res := PartTimeResult{
		NormalHours: floorHalfHour(minutesToHours(normalMinutes)),
		PHHours:     floorHalfHour(minutesToHours(phMinutes)),
	}
	res.NormalPay = res.NormalHours.Mul(hourlyRate).Round(2)
	res.PHPay = res.PHHours.Mul(hourlyRate).Mul(phMultiplier).Round(2)
	res.GrossSalary = res.NormalPay.Add(res.PHPay)
	return res
}

func extraPayHolidayDates(holidays []attendance.PublicHoliday) map[string]bool {
	dates := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		if h.ExtraPay {
			dates[dateKey(h.Date)] = true
		}
	}
	return dates
}

// ScheduleAttendance is the schedule-vs-reality summary for one period.
type ScheduleAttendance struct {
	ScheduledDays int
	AttendedDays  int
	PayableDays   int
	AbsentDays    int
	LateDays      int
	ShortHours    decimal.Decimal
}

// ComputeScheduleAttendance compares active schedule entries against clock
// records. A day is attended once it has a clock-out; late means clock_in_1
// strictly after shift start, compared by time of day. Short hours accrue per
// attended day as the gap between expected and worked hours.
func ComputeScheduleAttendance(
	schedules []attendance.ScheduleEntry,
	clocks []attendance.ClockRecord,
	breakMinutes int,
) ScheduleAttendance {
	clocksByDay := make(map[string]attendance.ClockRecord, len(clocks))
	for _, c := range clocks {
		clocksByDay[dateKey(c.WorkDate)] = c
	}

	var out ScheduleAttendance
	out.ShortHours = decimal.Zero
	for _, s := range schedules {
		if !s.Active() {
			continue
		}
		out.ScheduledDays++

		c, ok := clocksByDay[dateKey(s.Date)]
		if !ok || !c.HasClockOut() {
			out.AbsentDays++
			continue
		}
		out.AttendedDays++

		if c.ClockIn1 != nil && timeOfDayAfter(*c.ClockIn1, s.ShiftStart) {
			out.LateDays++
		}

		expected := shiftHours(s, breakMinutes)
		worked := minutesToHours(c.TotalWorkMinutes)
		if worked.GreaterThan(expected) {
			worked = expected
		}
		out.ShortHours = out.ShortHours.Add(expected.Sub(worked))
	}
	out.PayableDays = out.AttendedDays
	out.ShortHours = out.ShortHours.Round(2)
	return out
}

// shiftHours is the expected working span of one schedule entry, net of the
// unpaid break.
func shiftHours(s attendance.ScheduleEntry, breakMinutes int) decimal.Decimal {
	span := s.ShiftEnd.Sub(s.ShiftStart)
	if span < 0 {
		// overnight shift
		span += 24 * time.Hour
	}
	h := decimal.NewFromFloat(span.Minutes() - float64(breakMinutes)).Div(sixty)
	if h.IsNegative() {
		return decimal.Zero
	}
	return h
}

func timeOfDayAfter(a, b time.Time) bool {
	am := a.Hour()*3600 + a.Minute()*60 + a.Second()
	bm := b.Hour()*3600 + b.Minute()*60 + b.Second()
	return am > bm
}

// OTDayClass classifies one day of overtime.
type OTDayClass string

const (
	OTNormal        OTDayClass = "normal"
	OTWeekend       OTDayClass = "weekend"
	OTPublicHoliday OTDayClass = "public_holiday"
	OTPHAfterHours  OTDayClass = "ph_after_hours"
)

// OTDay is the per-day overtime breakdown entry.
type OTDay struct {
	Date     time.Time
	Class    OTDayClass
	RawHours decimal.Decimal
	Hours    decimal.Decimal
	Amount   decimal.Decimal
	Approved *bool
	// Counted is false when approval is required and the record is not yet
	// approved; the day appears in the breakdown but not in the totals.
	Counted bool
}

// OTConfig carries everything overtime valuation needs.
type OTConfig struct {
	HourlyRate       decimal.Decimal
	OTMultiplier     decimal.Decimal
	PHMultiplier     decimal.Decimal
	ThresholdHours   decimal.Decimal
	BreakMinutes     int
	MinOTHours       decimal.Decimal
	RequiresApproval bool
}

// OTResult totals overtime split by day class.
type OTResult struct {
	Days []OTDay

	TotalHours  decimal.Decimal
	TotalAmount decimal.Decimal

	NormalHours  decimal.Decimal
	WeekendHours decimal.Decimal
	PHHours      decimal.Decimal
	PHAfterHours decimal.Decimal
}

// RoundOTHours applies the overtime rounding policy: below the minimum the
// hours vanish, otherwise they floor to the nearest half hour.
func RoundOTHours(raw, minHours decimal.Decimal) decimal.Decimal {
	if raw.LessThan(minHours) {
		return decimal.Zero
	}
	return floorHalfHour(raw)
}

// ComputeOTFromClockIn derives overtime from clock records. Records without
// an active schedule on their date are excluded entirely. A stored ot_minutes
// wins over the derived beyond-threshold figure.
func ComputeOTFromClockIn(
	schedules []attendance.ScheduleEntry,
	clocks []attendance.ClockRecord,
	holidays []attendance.PublicHoliday,
	cfg OTConfig,
) OTResult {
	scheduled := make(map[string]bool, len(schedules))
	for _, s := range schedules {
		if s.Active() {
			scheduled[dateKey(s.Date)] = true
		}
	}
	phDates := extraPayHolidayDates(holidays)

	res := OTResult{
		TotalHours:   decimal.Zero,
		TotalAmount:  decimal.Zero,
		NormalHours:  decimal.Zero,
		WeekendHours: decimal.Zero,
		PHHours:      decimal.Zero,
		PHAfterHours: decimal.Zero,
	}

	for _, c := range clocks {
		day := dateKey(c.WorkDate)
		if !scheduled[day] {
			continue
		}

		var raw decimal.Decimal
		derived := false
		if c.OTMinutes > 0 {
			raw = minutesToHours(c.OTMinutes)
		} else {
			net := c.TotalWorkMinutes - cfg.BreakMinutes
			raw = minutesToHours(net).Sub(cfg.ThresholdHours)
			if raw.IsNegative() {
				raw = decimal.Zero
			}
			derived = true
		}
		if raw.IsZero() {
			continue
		}

		hours := RoundOTHours(raw, cfg.MinOTHours)

		class := classifyOTDay(c.WorkDate, phDates[day], derived)
		multiplier := cfg.OTMultiplier
		if class == OTPublicHoliday || class == OTPHAfterHours {
			multiplier = cfg.PHMultiplier
		}
		amount := hours.Mul(cfg.HourlyRate).Mul(multiplier).Round(2)

		counted := !cfg.RequiresApproval || (c.OTApproved != nil && *c.OTApproved)

		res.Days = append(res.Days, OTDay{
			Date:     c.WorkDate,
			Class:    class,
			RawHours: raw,
			Hours:    hours,
			Amount:   amount,
			Approved: c.OTApproved,
			Counted:  counted,
		})
		if !counted || hours.IsZero() {
			continue
		}

		res.TotalHours = res.TotalHours.Add(hours)
		res.TotalAmount = res.TotalAmount.Add(amount)
		switch class {
		case OTWeekend:
			res.WeekendHours = res.WeekendHours.Add(hours)
		case OTPublicHoliday:
			res.PHHours = res.PHHours.Add(hours)
		case OTPHAfterHours:
			res.PHAfterHours = res.PHAfterHours.Add(hours)
		default:
			res.NormalHours = res.NormalHours.Add(hours)
		}
	}
	return res
}

// classifyOTDay: public-holiday dates take priority over weekends. OT derived
// from beyond-threshold minutes on a PH counts as after-hours PH work.
func classifyOTDay(date time.Time, isPH, derived bool) OTDayClass {
	if isPH {
		if derived {
			return OTPHAfterHours
		}
		return OTPublicHoliday
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return OTWeekend
	}
	return OTNormal
}

// ComputePHDaysWorked counts distinct extra-pay holiday dates carrying a
// clock record.
func ComputePHDaysWorked(clocks []attendance.ClockRecord, holidays []attendance.PublicHoliday) int {
	phDates := extraPayHolidayDates(holidays)
	seen := make(map[string]bool)
	for _, c := range clocks {
		day := dateKey(c.WorkDate)
		if phDates[day] && !seen[day] {
			seen[day] = true
		}
	}
	return len(seen)
}

// ShortDay records one day's shortfall for the non-outlet short-hours path.
type ShortDay struct {
	Date  time.Time
	Short decimal.Decimal
}

// ComputeShortHoursNonOutlet derives short hours from clock records alone,
// with no schedule lookup. Days without a clock-out are skipped.
func ComputeShortHoursNonOutlet(clocks []attendance.ClockRecord, expectedPerDay decimal.Decimal) (decimal.Decimal, []ShortDay) {
	total := decimal.Zero
	var days []ShortDay
	for _, c := range clocks {
		if !c.HasClockOut() {
			continue
		}
		worked := minutesToHours(c.TotalWorkMinutes)
		if worked.GreaterThan(expectedPerDay) {
			worked = expectedPerDay
		}
		short := expectedPerDay.Sub(worked)
		if short.IsPositive() {
			total = total.Add(short)
			days = append(days, ShortDay{Date: c.WorkDate, Short: short.Round(2)})
		}
	}
	return total.Round(2), days
}

// ComputeAbsentDays: working days not covered by attendance, paid leave or
// already-deducted unpaid leave.
func ComputeAbsentDays(workingDays, clockInDays int, paidLeaveDays, unpaidDays decimal.Decimal) decimal.Decimal {
	absent := decimal.NewFromInt(int64(workingDays - clockInDays)).Sub(paidLeaveDays).Sub(unpaidDays)
	if absent.IsNegative() {
		return decimal.Zero
	}
	return absent
}

// CountClockInDays counts distinct attended days.
func CountClockInDays(clocks []attendance.ClockRecord) int {
	seen := make(map[string]bool)
	for _, c := range clocks {
		if c.HasClockOut() {
			seen[dateKey(c.WorkDate)] = true
		}
	}
	return len(seen)
}

// WeekdayOverlap clamps [leaveStart, leaveEnd] to [periodStart, periodEnd]
// and counts the weekdays inside the intersection. Cross-month leave is
// therefore split exactly between adjacent periods.
func WeekdayOverlap(leaveStart, leaveEnd, periodStart, periodEnd time.Time) int {
	start := leaveStart
	if periodStart.After(start) {
		start = periodStart
	}
	end := leaveEnd
	if periodEnd.Before(end) {
		end = periodEnd
	}
	if start.After(end) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
