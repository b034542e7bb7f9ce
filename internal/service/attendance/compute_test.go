package attendance

import (
	"testing"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func tp(t time.Time) *time.Time { return &t }

func scheduleOn(date time.Time) attendance.ScheduleEntry {
	return attendance.ScheduleEntry{
		Date:       date,
		ShiftStart: time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC),
		ShiftEnd:   time.Date(date.Year(), date.Month(), date.Day(), 18, 0, 0, 0, time.UTC),
		Status:     attendance.ScheduleScheduled,
	}
}

func clockedDay(date time.Time, minutes int) attendance.ClockRecord {
	out := date.Add(18 * time.Hour)
	return attendance.ClockRecord{
		WorkDate:         date,
		ClockIn1:         tp(date.Add(9 * time.Hour)),
		ClockOut1:        &out,
		TotalWorkMinutes: minutes,
		Status:           attendance.ClockCompleted,
	}
}

func TestComputePartTimeHours(t *testing.T) {
	t.Parallel()

	// 10 scheduled weekdays at 600 worked minutes each = 100 normal hours,
	// plus one extra-pay holiday at 480 minutes = 8 PH hours.
	var schedules []attendance.ScheduleEntry
	var clocks []attendance.ClockRecord
	for i := 0; i < 10; i++ {
		d := day(2024, time.March, 4+i)
		schedules = append(schedules, scheduleOn(d))
		clocks = append(clocks, clockedDay(d, 600))
	}
	ph := day(2024, time.March, 28)
	schedules = append(schedules, scheduleOn(ph))
	clocks = append(clocks, clockedDay(ph, 480))
	holidays := []attendance.PublicHoliday{{Date: ph, Name: "Test Holiday", ExtraPay: true}}

	res := ComputePartTimeHours(schedules, clocks, holidays,
		decimal.RequireFromString("8.72"), decimal.NewFromInt(2))

	assert.True(t, res.NormalHours.Equal(decimal.NewFromInt(100)), "normal hours = %s", res.NormalHours)
	assert.True(t, res.PHHours.Equal(decimal.NewFromInt(8)), "ph hours = %s", res.PHHours)
	assert.Equal(t, "872", res.NormalPay.String())
	assert.Equal(t, "139.52", res.PHPay.String())
	assert.Equal(t, "1011.52", res.GrossSalary.String())
}

func TestComputePartTimeHoursIgnoresUnscheduledDays(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 5)
	clocks := []attendance.ClockRecord{clockedDay(d, 480)}

	res := ComputePartTimeHours(nil, clocks, nil, decimal.NewFromInt(10), decimal.NewFromInt(2))
	assert.True(t, res.GrossSalary.IsZero())
}

func TestRoundOTHours(t *testing.T) {
	t.Parallel()

	minOT := decimal.NewFromInt(1)
	tests := []struct {
		raw  string
		want string
	}{
		{"0.9", "0"},
		{"0.99", "0"},
		{"1", "1"},
		{"1.25", "1"},
		{"1.5", "1.5"},
		{"1.75", "1.5"},
		{"2.49", "2"},
		{"3", "3"},
	}
	for _, tc := range tests {
		got := RoundOTHours(decimal.RequireFromString(tc.raw), minOT)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "raw %s: got %s want %s", tc.raw, got, tc.want)
	}
}

func TestComputeOTFromClockInBelowMinimum(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 5)
	schedules := []attendance.ScheduleEntry{scheduleOn(d)}
	rec := clockedDay(d, 0)
	rec.OTMinutes = 54 // 0.9h raw

	res := ComputeOTFromClockIn(schedules, []attendance.ClockRecord{rec}, nil, OTConfig{
		HourlyRate:     decimal.RequireFromString("12.50"),
		OTMultiplier:   decimal.RequireFromString("1.5"),
		PHMultiplier:   decimal.NewFromInt(2),
		ThresholdHours: decimal.RequireFromString("7.5"),
		BreakMinutes:   60,
		MinOTHours:     decimal.NewFromInt(1),
	})

	assert.True(t, res.TotalHours.IsZero())
	assert.True(t, res.TotalAmount.IsZero())
}

func TestComputeOTFromClockInFloorsToHalfHour(t *testing.T) {
	t.Parallel()

	// basic 2200 / 22 days / 8 hours = 12.50 hourly
	d := day(2024, time.March, 5) // a Tuesday
	schedules := []attendance.ScheduleEntry{scheduleOn(d)}
	rec := clockedDay(d, 0)
	rec.OTMinutes = 105 // 1.75h raw

	res := ComputeOTFromClockIn(schedules, []attendance.ClockRecord{rec}, nil, OTConfig{
		HourlyRate:     decimal.RequireFromString("12.50"),
		OTMultiplier:   decimal.RequireFromString("1.5"),
		PHMultiplier:   decimal.NewFromInt(2),
		ThresholdHours: decimal.NewFromInt(8),
		BreakMinutes:   60,
		MinOTHours:     decimal.NewFromInt(1),
	})

	require.Len(t, res.Days, 1)
	assert.Equal(t, OTNormal, res.Days[0].Class)
	assert.True(t, res.TotalHours.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "28.13", res.TotalAmount.String())
}

func TestComputeOTFromClockInDerivedFromWorkedMinutes(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 6)
	schedules := []attendance.ScheduleEntry{scheduleOn(d)}
	// 10.5h on the clock, minus 1h break, minus 8h threshold = 1.5h OT.
	rec := clockedDay(d, 630)

	res := ComputeOTFromClockIn(schedules, []attendance.ClockRecord{rec}, nil, OTConfig{
		HourlyRate:     decimal.NewFromInt(10),
		OTMultiplier:   decimal.RequireFromString("1.5"),
		PHMultiplier:   decimal.NewFromInt(2),
		ThresholdHours: decimal.NewFromInt(8),
		BreakMinutes:   60,
		MinOTHours:     decimal.NewFromInt(1),
	})

	assert.True(t, res.TotalHours.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "22.5", res.TotalAmount.String())
}

func TestComputeOTFromClockInApprovalGate(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 5)
	schedules := []attendance.ScheduleEntry{scheduleOn(d)}
	rec := clockedDay(d, 0)
	rec.OTMinutes = 90 // pending approval

	cfg := OTConfig{
		HourlyRate:       decimal.NewFromInt(10),
		OTMultiplier:     decimal.RequireFromString("1.5"),
		PHMultiplier:     decimal.NewFromInt(2),
		ThresholdHours:   decimal.NewFromInt(8),
		BreakMinutes:     60,
		MinOTHours:       decimal.NewFromInt(1),
		RequiresApproval: true,
	}

	res := ComputeOTFromClockIn(schedules, []attendance.ClockRecord{rec}, nil, cfg)
	require.Len(t, res.Days, 1)
	assert.False(t, res.Days[0].Counted)
	assert.True(t, res.TotalHours.IsZero())

	approved := true
	rec.OTApproved = &approved
	res = ComputeOTFromClockIn(schedules, []attendance.ClockRecord{rec}, nil, cfg)
	assert.True(t, res.TotalHours.Equal(decimal.RequireFromString("1.5")))
}

func TestComputeOTFromClockInSkipsUnscheduledRecords(t *testing.T) {
	t.Parallel()

	d := day(2024, time.March, 5)
	rec := clockedDay(d, 0)
	rec.OTMinutes = 120

	res := ComputeOTFromClockIn(nil, []attendance.ClockRecord{rec}, nil, OTConfig{
		HourlyRate:     decimal.NewFromInt(10),
		OTMultiplier:   decimal.RequireFromString("1.5"),
		PHMultiplier:   decimal.NewFromInt(2),
		ThresholdHours: decimal.NewFromInt(8),
		BreakMinutes:   60,
		MinOTHours:     decimal.NewFromInt(1),
	})
	assert.Empty(t, res.Days)
	assert.True(t, res.TotalAmount.IsZero())
}

func TestComputeScheduleAttendance(t *testing.T) {
	t.Parallel()

	d1 := day(2024, time.March, 4)
	d2 := day(2024, time.March, 5)
	d3 := day(2024, time.March, 6)
	schedules := []attendance.ScheduleEntry{scheduleOn(d1), scheduleOn(d2), scheduleOn(d3)}

	// d1: on time, full 8h (shift 9h minus 1h break). d2: 15 minutes late and
	// 2h short. d3: no clock record at all.
	full := clockedDay(d1, 480)
	late := clockedDay(d2, 360)
	late.ClockIn1 = tp(at(2024, time.March, 5, 9, 15))

	out := ComputeScheduleAttendance(schedules, []attendance.ClockRecord{full, late}, 60)

	assert.Equal(t, 3, out.ScheduledDays)
	assert.Equal(t, 2, out.AttendedDays)
	assert.Equal(t, 2, out.PayableDays)
	assert.Equal(t, 1, out.AbsentDays)
	assert.Equal(t, 1, out.LateDays)
	assert.Equal(t, "2", out.ShortHours.String())
}

func TestComputeAbsentDays(t *testing.T) {
	t.Parallel()

	got := ComputeAbsentDays(22, 18, decimal.NewFromInt(2), decimal.NewFromInt(1))
	assert.True(t, got.Equal(decimal.NewFromInt(1)))

	// Never negative.
	got = ComputeAbsentDays(22, 22, decimal.NewFromInt(2), decimal.Zero)
	assert.True(t, got.IsZero())
}

func TestComputeShortHoursNonOutlet(t *testing.T) {
	t.Parallel()

	clocks := []attendance.ClockRecord{
		clockedDay(day(2024, time.March, 4), 480), // full day
		clockedDay(day(2024, time.March, 5), 420), // 1h short
		clockedDay(day(2024, time.March, 6), 390), // 1.5h short
	}
	total, days := ComputeShortHoursNonOutlet(clocks, decimal.NewFromInt(8))

	assert.Equal(t, "2.5", total.String())
	assert.Len(t, days, 2)
}

func TestComputePHDaysWorked(t *testing.T) {
	t.Parallel()

	ph1 := day(2024, time.May, 1)
	ph2 := day(2024, time.May, 22)
	holidays := []attendance.PublicHoliday{
		{Date: ph1, ExtraPay: true},
		{Date: ph2, ExtraPay: true},
		{Date: day(2024, time.May, 23), ExtraPay: false},
	}
	clocks := []attendance.ClockRecord{
		clockedDay(ph1, 480),
		clockedDay(ph2, 480),
		clockedDay(day(2024, time.May, 23), 480),
		clockedDay(day(2024, time.May, 2), 480),
	}

	assert.Equal(t, 2, ComputePHDaysWorked(clocks, holidays))
}

func TestWeekdayOverlapCrossMonthSplit(t *testing.T) {
	t.Parallel()

	// Leave Dec 28 2024 .. Jan 5 2025. The December and January periods must
	// split the weekday count exactly.
	leaveStart := day(2024, time.December, 28)
	leaveEnd := day(2025, time.January, 5)

	dec := WeekdayOverlap(leaveStart, leaveEnd, day(2024, time.December, 1), day(2024, time.December, 31))
	jan := WeekdayOverlap(leaveStart, leaveEnd, day(2025, time.January, 1), day(2025, time.January, 31))
	whole := WeekdayOverlap(leaveStart, leaveEnd, day(2024, time.December, 1), day(2025, time.January, 31))

	// Dec 30, 31 are Mon/Tue; Jan 1, 2, 3 are Wed/Thu/Fri.
	assert.Equal(t, 2, dec)
	assert.Equal(t, 3, jan)
	assert.Equal(t, dec+jan, whole)
}

func TestWeekdayOverlapDisjoint(t *testing.T) {
	t.Parallel()

	got := WeekdayOverlap(
		day(2024, time.February, 1), day(2024, time.February, 5),
		day(2024, time.March, 1), day(2024, time.March, 31),
	)
	assert.Equal(t, 0, got)
}
