// Package statutory implements the Malaysian statutory contribution tables:
// EPF (KWSP), SOCSO (PERKESO), EIS and PCB (monthly tax deduction).
//
// Every function here is pure. Inputs are the wage base and employee
// attributes for one month; outputs are contribution amounts that match the
// published government tables. No I/O, no clock reads.
package statutory

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a required attribute is absent or a wage
// base is negative. It is the only error condition in this package.
var ErrInvalidInput = errors.New("statutory: invalid input")

// fiveSen is the rounding unit for PCB amounts.
var fiveSen = decimal.RequireFromString("0.05")

// RemunerationBreakdown carries the composition of the month's wage base.
// Normal remuneration is basic salary plus fixed allowance; additional
// remuneration is commission, overtime and bonus. The same split basis is
// used by EPF and PCB so downstream reporting can emit the two components
// consistently.
type RemunerationBreakdown struct {
	Basic            decimal.Decimal
	Allowance        decimal.Decimal
	TaxableAllowance decimal.Decimal
	Commission       decimal.Decimal
	Bonus            decimal.Decimal
	Overtime         decimal.Decimal
	PCBGross         decimal.Decimal
}

// Normal returns the normal-remuneration portion of the breakdown.
func (b RemunerationBreakdown) Normal() decimal.Decimal {
	return b.Basic.Add(b.Allowance)
}

// Additional returns the additional-remuneration portion of the breakdown.
func (b RemunerationBreakdown) Additional() decimal.Decimal {
	return b.Commission.Add(b.Bonus).Add(b.Overtime)
}

// YTDSnapshot is the year-to-date accumulation consumed by the PCB formula.
type YTDSnapshot struct {
	Gross decimal.Decimal
	EPF   decimal.Decimal
	PCB   decimal.Decimal
}

// roundRinggit rounds to the nearest whole Ringgit, half away from zero.
func roundRinggit(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// roundSen rounds to two decimals, half away from zero.
func roundSen(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// floorFiveSen truncates down to the nearest 5 sen (LHDN rounding for PCB).
func floorFiveSen(d decimal.Decimal) decimal.Decimal {
	return d.Div(fiveSen).Floor().Mul(fiveSen)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
