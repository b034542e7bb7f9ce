package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Annual tax reliefs used by the computerized PCB method.
var (
	reliefIndividual     = decimal.NewFromInt(9000)
	reliefSpouse         = decimal.NewFromInt(4000)
	reliefPerChild       = decimal.NewFromInt(2000)
	reliefDisabledSelf   = decimal.NewFromInt(6000)
	reliefDisabledSpouse = decimal.NewFromInt(5000)

	// EPF employee contributions are deductible up to this amount per year.
	epfReliefCap = decimal.NewFromInt(4000)

	// Rebate applied when chargeable income does not exceed RM35000.
	rebateThreshold = decimal.NewFromInt(35000)
	rebateAmount    = decimal.NewFromInt(400)

	// Monthly deductions below RM10 are not remitted.
	pcbMinimum = decimal.NewFromInt(10)

	nonResidentRate = decimal.RequireFromString("0.30")
)

// taxBand is one band of the resident progressive schedule. Base is the
// cumulative tax at Lower.
type taxBand struct {
	Lower decimal.Decimal
	Rate  decimal.Decimal
	Base  decimal.Decimal
}

func band(lower, rate, base string) taxBand {
	return taxBand{
		Lower: decimal.RequireFromString(lower),
		Rate:  decimal.RequireFromString(rate),
		Base:  decimal.RequireFromString(base),
	}
}

var residentSchedule = []taxBand{
	band("0", "0", "0"),
	band("5000", "0.01", "0"),
	band("20000", "0.03", "150"),
	band("35000", "0.06", "600"),
	band("50000", "0.11", "1500"),
	band("70000", "0.19", "3700"),
	band("100000", "0.25", "9400"),
	band("400000", "0.26", "84400"),
	band("600000", "0.28", "136400"),
	band("2000000", "0.30", "528400"),
}

// PCBInput carries everything the monthly tax deduction formula consumes.
type PCBInput struct {
	// Month is the calendar month being paid, 1 through 12.
	Month int

	Resident       bool
	Married        bool
	SpouseWorking  bool
	Children       int
	Disabled       bool
	DisabledSpouse bool

	// EPFEmployee is the current month's employee EPF contribution.
	EPFEmployee decimal.Decimal

	YTD       YTDSnapshot
	Breakdown RemunerationBreakdown
}

// PCBResult splits the month's deduction into the portion attributable to
// regular remuneration and the portion attributable to additional
// remuneration (commission, bonus, overtime).
type PCBResult struct {
	Total         decimal.Decimal
	NormalSTD     decimal.Decimal
	AdditionalSTD decimal.Decimal
}

// CalculatePCB implements the LHDN computerized method: annualize the
// current month's normal remuneration over the remaining months of the year,
// reconcile against year-to-date tax paid, and tax the month's additional
// remuneration as a one-off on top of the annualized base.
func CalculatePCB(in PCBInput) (PCBResult, error) {
	if in.Month < 1 || in.Month > 12 {
		return PCBResult{}, fmt.Errorf("%w: PCB month %d out of range", ErrInvalidInput, in.Month)
	}
	if in.Children < 0 {
		return PCBResult{}, fmt.Errorf("%w: negative child count", ErrInvalidInput)
	}
	if in.Breakdown.PCBGross.IsNegative() || in.YTD.Gross.IsNegative() {
		return PCBResult{}, fmt.Errorf("%w: negative PCB wage base", ErrInvalidInput)
	}

	additional := in.Breakdown.Additional()
	if additional.GreaterThan(in.Breakdown.PCBGross) {
		additional = in.Breakdown.PCBGross
	}
	normalMonth := in.Breakdown.PCBGross.Sub(additional)

	if !in.Resident {
		// Non-residents are taxed at a flat rate with no reliefs and no
		// annualization.
		total := floorFiveSen(in.Breakdown.PCBGross.Mul(nonResidentRate))
		addl := floorFiveSen(additional.Mul(nonResidentRate))
		return PCBResult{
			Total:         total,
			NormalSTD:     total.Sub(addl),
			AdditionalSTD: addl,
		}, nil
	}

	remaining := decimal.NewFromInt(int64(12 - in.Month))

	// EPF relief: accumulated, current and projected contributions share a
	// single annual cap.
	kAccum := decimal.Min(in.YTD.EPF, epfReliefCap)
	kCurrent := decimal.Min(maxZero(in.EPFEmployee), epfReliefCap.Sub(kAccum))
	kFuture := kCurrent
	if remaining.IsPositive() {
		headroom := epfReliefCap.Sub(kAccum).Sub(kCurrent)
		perMonth := roundSen(headroom.Div(remaining))
		kFuture = decimal.Min(kCurrent, perMonth)
	} else {
		kFuture = decimal.Zero
	}

	reliefs := reliefIndividual
	spouseRelief := in.Married && !in.SpouseWorking
	if spouseRelief {
		reliefs = reliefs.Add(reliefSpouse)
	}
	reliefs = reliefs.Add(reliefPerChild.Mul(decimal.NewFromInt(int64(in.Children))))
	if in.Disabled {
		reliefs = reliefs.Add(reliefDisabledSelf)
	}
	if in.DisabledSpouse && spouseRelief {
		reliefs = reliefs.Add(reliefDisabledSpouse)
	}

	// Chargeable income on normal remuneration: YTD net, this month, and the
	// same figure projected over the remaining months.
	pNormal := in.YTD.Gross.Sub(kAccum).
		Add(normalMonth.Sub(kCurrent)).
		Add(normalMonth.Sub(kFuture).Mul(remaining)).
		Sub(reliefs)
	pTotal := pNormal.Add(additional)

	rebates := 0
	if spouseRelief {
		rebates = 2
	} else {
		rebates = 1
	}

	taxNormal := annualTax(pNormal, rebates)
	taxTotal := annualTax(pTotal, rebates)

	monthsLeft := remaining.Add(decimal.NewFromInt(1))
	normalSTD := floorFiveSen(maxZero(taxNormal.Sub(in.YTD.PCB)).Div(monthsLeft))
	additionalSTD := floorFiveSen(maxZero(taxTotal.Sub(taxNormal)))

	total := normalSTD.Add(additionalSTD)
	if total.LessThan(pcbMinimum) {
		return PCBResult{Total: decimal.Zero, NormalSTD: decimal.Zero, AdditionalSTD: decimal.Zero}, nil
	}

	return PCBResult{Total: total, NormalSTD: normalSTD, AdditionalSTD: additionalSTD}, nil
}

// annualTax applies the resident progressive schedule to chargeable income p
// and subtracts the low-income rebate when it applies.
func annualTax(p decimal.Decimal, rebates int) decimal.Decimal {
	if !p.IsPositive() {
		return decimal.Zero
	}

	b := residentSchedule[0]
	for _, cand := range residentSchedule {
		if p.GreaterThan(cand.Lower) {
			b = cand
			continue
		}
		break
	}

	tax := b.Base.Add(p.Sub(b.Lower).Mul(b.Rate))
	if p.LessThanOrEqual(rebateThreshold) {
		tax = tax.Sub(rebateAmount.Mul(decimal.NewFromInt(int64(rebates))))
	}
	return maxZero(tax)
}
