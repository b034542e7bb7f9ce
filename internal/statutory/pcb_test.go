package statutory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePCB_SingleResident(t *testing.T) {
	t.Parallel()

	res, err := CalculatePCB(PCBInput{
		Month:       1,
		Resident:    true,
		EPFEmployee: d("550"),
		Breakdown:   RemunerationBreakdown{Basic: d("5000"), PCBGross: d("5000")},
	})
	require.NoError(t, err)

	// Annualized chargeable income 46999.96, tax 1319.9976, spread over 12
	// months and floored to 5 sen.
	assert.True(t, d("109.95").Equal(res.Total), "got %s", res.Total)
	assert.True(t, res.AdditionalSTD.IsZero())
	assert.True(t, res.NormalSTD.Equal(res.Total))
}

func TestCalculatePCB_BonusMonth(t *testing.T) {
	t.Parallel()

	res, err := CalculatePCB(PCBInput{
		Month:       1,
		Resident:    true,
		EPFEmployee: d("550"),
		Breakdown: RemunerationBreakdown{
			Basic:    d("5000"),
			Bonus:    d("3000"),
			PCBGross: d("8000"),
		},
	})
	require.NoError(t, err)

	// The bonus is taxed as a one-off on top of the annualized base.
	assert.True(t, d("109.95").Equal(res.NormalSTD), "normal got %s", res.NormalSTD)
	assert.True(t, d("180").Equal(res.AdditionalSTD), "additional got %s", res.AdditionalSTD)
	assert.True(t, res.Total.Equal(res.NormalSTD.Add(res.AdditionalSTD)))
}

func TestCalculatePCB_BelowThresholdIsZero(t *testing.T) {
	t.Parallel()

	res, err := CalculatePCB(PCBInput{
		Month:       1,
		Resident:    true,
		EPFEmployee: d("275"),
		Breakdown:   RemunerationBreakdown{Basic: d("2500"), PCBGross: d("2500")},
	})
	require.NoError(t, err)

	// Chargeable income 17700; the RM400 rebate wipes the tax out.
	assert.True(t, res.Total.IsZero(), "got %s", res.Total)
}

func TestCalculatePCB_DecemberReconciliation(t *testing.T) {
	t.Parallel()

	// Eleven months already deducted at 109.95; December trues the year up
	// to the exact annual tax.
	res, err := CalculatePCB(PCBInput{
		Month:       12,
		Resident:    true,
		EPFEmployee: d("550"),
		YTD: YTDSnapshot{
			Gross: d("55000"),
			EPF:   d("6050"),
			PCB:   d("1209.45"),
		},
		Breakdown: RemunerationBreakdown{Basic: d("5000"), PCBGross: d("5000")},
	})
	require.NoError(t, err)

	assert.True(t, d("110.55").Equal(res.Total), "got %s", res.Total)

	annual := d("1209.45").Add(res.Total)
	assert.True(t, d("1320").Equal(annual), "annual got %s", annual)
}

func TestCalculatePCB_FamilyReliefs(t *testing.T) {
	t.Parallel()

	withFamily, err := CalculatePCB(PCBInput{
		Month:         1,
		Resident:      true,
		Married:       true,
		SpouseWorking: false,
		Children:      2,
		EPFEmployee:   d("550"),
		Breakdown:     RemunerationBreakdown{Basic: d("5000"), PCBGross: d("5000")},
	})
	require.NoError(t, err)

	single, err := CalculatePCB(PCBInput{
		Month:       1,
		Resident:    true,
		EPFEmployee: d("550"),
		Breakdown:   RemunerationBreakdown{Basic: d("5000"), PCBGross: d("5000")},
	})
	require.NoError(t, err)

	assert.True(t, withFamily.Total.LessThan(single.Total),
		"family reliefs should lower the deduction: %s vs %s", withFamily.Total, single.Total)
}

func TestCalculatePCB_NonResidentFlatRate(t *testing.T) {
	t.Parallel()

	res, err := CalculatePCB(PCBInput{
		Month:     3,
		Resident:  false,
		Breakdown: RemunerationBreakdown{Basic: d("3000"), PCBGross: d("3000")},
	})
	require.NoError(t, err)

	assert.True(t, d("900").Equal(res.Total), "got %s", res.Total)
}

func TestCalculatePCB_NeverNegative(t *testing.T) {
	t.Parallel()

	// YTD PCB already exceeds the annual liability; the result clamps at zero
	// rather than refunding.
	res, err := CalculatePCB(PCBInput{
		Month:       12,
		Resident:    true,
		EPFEmployee: d("550"),
		YTD: YTDSnapshot{
			Gross: d("55000"),
			EPF:   d("6050"),
			PCB:   d("5000"),
		},
		Breakdown: RemunerationBreakdown{Basic: d("5000"), PCBGross: d("5000")},
	})
	require.NoError(t, err)
	assert.False(t, res.Total.IsNegative())
	assert.True(t, res.Total.IsZero())
}

func TestCalculatePCB_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CalculatePCB(PCBInput{Month: 0, Resident: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculatePCB(PCBInput{Month: 1, Resident: true, Children: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculatePCB(PCBInput{
		Month:     1,
		Resident:  true,
		Breakdown: RemunerationBreakdown{PCBGross: decimal.NewFromInt(-10)},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
