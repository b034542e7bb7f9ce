package payroll

import (
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
)

// PeriodInfo is the resolved pay period for one (month, year) under a
// company's period configuration.
type PeriodInfo struct {
	Start       time.Time
	End         time.Time
	PaymentDue  time.Time
	Label       string
	WorkingDays int
}

// ComputePeriod maps (month, year) onto concrete period bounds.
//
// calendar_month covers the first through the last day of the month.
// mid_month runs from start_day of the preceding month through end_day of
// the run month, so a "January" run with start_day 26 covers Dec 26 to Jan 25.
func ComputePeriod(cfg company.PayrollConfig, month, year int) PeriodInfo {
	var start, end time.Time

	switch cfg.Period.Type {
	case company.PeriodMidMonth:
		start = time.Date(year, time.Month(month-1), clampDay(year, month-1, cfg.Period.StartDay), 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.Month(month), clampDay(year, month, cfg.Period.EndDay), 0, 0, 0, 0, time.UTC)
	default:
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, time.Month(month), daysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	}

	payMonth := month + cfg.Period.PaymentMonthOffset
	due := time.Date(year, time.Month(payMonth), clampDay(year, payMonth, cfg.Period.PaymentDay), 0, 0, 0, 0, time.UTC)

	info := PeriodInfo{
		Start:       start,
		End:         end,
		PaymentDue:  due,
		WorkingDays: cfg.Rates.StandardWorkDays,
	}
	if cfg.Period.Type == company.PeriodMidMonth {
		info.Label = fmt.Sprintf("%s - %s", start.Format("2 Jan 2006"), end.Format("2 Jan 2006"))
	} else {
		info.Label = start.Format("January 2006")
	}
	return info
}

// daysInMonth handles out-of-range month values by normalizing through
// time.Date, so month 0 means December of the prior year.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year, month, day int) int {
	if max := daysInMonth(year, month); day > max {
		return max
	}
	if day < 1 {
		return 1
	}
	return day
}
