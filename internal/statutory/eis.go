package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// eisBracket mirrors the SOCSO bracket geometry. EIS contributions are
// symmetric: employee and employer pay the same amount (0.2% class).
type eisBracket struct {
	UpTo   decimal.Decimal
	Amount decimal.Decimal
}

// EIS is not applicable from this age onward.
const eisAgeLimit = 57

var eisRate = decimal.RequireFromString("0.002")

// Published low brackets do not follow the midpoint formula exactly, so they
// are listed verbatim. Brackets from RM200 up are midpoint * 0.2%, which is
// exact in sen for RM100-wide brackets.
var eisSchedule = buildEISSchedule()

func buildEISSchedule() []eisBracket {
	rows := []eisBracket{
		{decimal.NewFromInt(30), decimal.RequireFromString("0.05")},
		{decimal.NewFromInt(50), decimal.RequireFromString("0.10")},
		{decimal.NewFromInt(70), decimal.RequireFromString("0.15")},
		{decimal.NewFromInt(100), decimal.RequireFromString("0.20")},
		{decimal.NewFromInt(140), decimal.RequireFromString("0.25")},
		{decimal.NewFromInt(200), decimal.RequireFromString("0.35")},
	}
	fifty := decimal.NewFromInt(50)
	for upper := int64(300); upper <= 5000; upper += 100 {
		up := decimal.NewFromInt(upper)
		midpoint := up.Sub(fifty)
		rows = append(rows, eisBracket{UpTo: up, Amount: midpoint.Mul(eisRate)})
	}
	return rows
}

// EISResult holds one month's EIS contribution.
type EISResult struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// CalculateEIS looks up the bracket for the given wage. Wages above RM5000
// contribute at the ceiling bracket. Employees aged 57 or older contribute
// nothing on either side.
func CalculateEIS(wage decimal.Decimal, age int) (EISResult, error) {
	if wage.IsNegative() {
		return EISResult{}, fmt.Errorf("%w: negative EIS wage %s", ErrInvalidInput, wage)
	}
	if age <= 0 {
		return EISResult{}, fmt.Errorf("%w: employee age is required for EIS", ErrInvalidInput)
	}
	if age >= eisAgeLimit || wage.IsZero() {
		return EISResult{Employee: decimal.Zero, Employer: decimal.Zero}, nil
	}

	row := eisSchedule[len(eisSchedule)-1]
	for _, b := range eisSchedule {
		if wage.LessThanOrEqual(b.UpTo) {
			row = b
			break
		}
	}

	return EISResult{Employee: row.Amount, Employer: row.Amount}, nil
}
