package company

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestResolveConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := ResolveConfig(nil, nil)

	assert.True(t, cfg.Features.AutoOTFromClockIn)
	assert.False(t, cfg.Features.SalaryCarryForward)
	assert.True(t, decimal.NewFromInt(5).Equal(cfg.Features.VarianceThreshold))
	assert.Equal(t, 26, cfg.Rates.StandardWorkDays)
	assert.True(t, decimal.RequireFromString("8.72").Equal(cfg.Rates.PartTimeHourlyRate))
	assert.Equal(t, PeriodCalendarMonth, cfg.Period.Type)
	assert.True(t, cfg.Statutory.OnCommission)
	assert.False(t, cfg.Statutory.OnOT)
}

func TestResolveConfig_ExplicitWinsOverLegacy(t *testing.T) {
	t.Parallel()

	legacy := &PayrollConfigPatch{
		Features: &FeaturesPatch{SalaryCarryForward: boolPtr(true)},
		Rates:    &RatesPatch{StandardWorkDays: intPtr(22)},
	}
	explicit := &PayrollConfigPatch{
		Rates: &RatesPatch{StandardWorkDays: intPtr(20)},
	}

	cfg := ResolveConfig(legacy, explicit)

	// Legacy value survives where explicit is silent; explicit wins on
	// conflict.
	assert.True(t, cfg.Features.SalaryCarryForward)
	assert.Equal(t, 20, cfg.Rates.StandardWorkDays)
}

func TestResolveConfig_FromJSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"features": {"indoor_sales_logic": true, "variance_threshold": "10"},
		"rates": {"indoor_sales_basic": "1800", "indoor_sales_commission_rate": "3"},
		"period": {"type": "mid_month", "start_day": 16, "end_day": 15},
		"statutory": {"statutory_on_ot": true}
	}`

	var patch PayrollConfigPatch
	require.NoError(t, json.Unmarshal([]byte(raw), &patch))

	cfg := ResolveConfig(&patch)

	assert.True(t, cfg.Features.IndoorSalesLogic)
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.Features.VarianceThreshold))
	assert.True(t, decimal.NewFromInt(1800).Equal(cfg.Rates.IndoorSalesBasic))
	assert.Equal(t, PeriodMidMonth, cfg.Period.Type)
	assert.Equal(t, 16, cfg.Period.StartDay)
	assert.True(t, cfg.Statutory.OnOT)
	// Untouched keys keep defaults.
	assert.True(t, cfg.Statutory.EPFEnabled)
	assert.Equal(t, 60, cfg.Rates.BreakMinutes)
}
