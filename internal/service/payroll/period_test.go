package payroll

import (
	"testing"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/stretchr/testify/assert"
)

func TestComputePeriodCalendarMonth(t *testing.T) {
	t.Parallel()

	cfg := company.DefaultPayrollConfig()
	p := ComputePeriod(cfg, 1, 2025)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC), p.PaymentDue)
	assert.Equal(t, "January 2025", p.Label)
	assert.Equal(t, 26, p.WorkingDays)
}

func TestComputePeriodCalendarFebruaryLeap(t *testing.T) {
	t.Parallel()

	cfg := company.DefaultPayrollConfig()
	p := ComputePeriod(cfg, 2, 2024)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.End)

	p = ComputePeriod(cfg, 2, 2025)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), p.End)
}

func TestComputePeriodMidMonth(t *testing.T) {
	t.Parallel()

	cfg := company.DefaultPayrollConfig()
	cfg.Period.Type = company.PeriodMidMonth
	cfg.Period.StartDay = 26
	cfg.Period.EndDay = 25

	// A January run spans Dec 26 through Jan 25.
	p := ComputePeriod(cfg, 1, 2025)
	assert.Equal(t, time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, "26 Dec 2024 - 25 Jan 2025", p.Label)
}

func TestComputePeriodPaymentMonthOffset(t *testing.T) {
	t.Parallel()

	cfg := company.DefaultPayrollConfig()
	cfg.Period.PaymentDay = 5
	cfg.Period.PaymentMonthOffset = 1

	p := ComputePeriod(cfg, 12, 2024)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), p.PaymentDue)
}

func TestComputePeriodPaymentDayClamped(t *testing.T) {
	t.Parallel()

	cfg := company.DefaultPayrollConfig()
	cfg.Period.PaymentDay = 31

	p := ComputePeriod(cfg, 2, 2025)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), p.PaymentDue)
}
