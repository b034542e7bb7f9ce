package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// socsoBracket is one row of the PERKESO contribution schedule (Jadual A).
// Wages greater than the previous row's upper bound and not exceeding UpTo
// contribute the listed amounts.
type socsoBracket struct {
	UpTo     decimal.Decimal
	Employee decimal.Decimal
	Employer decimal.Decimal
}

func socsoRow(upTo, employee, employer string) socsoBracket {
	return socsoBracket{
		UpTo:     decimal.RequireFromString(upTo),
		Employee: decimal.RequireFromString(employee),
		Employer: decimal.RequireFromString(employer),
	}
}

// First-category schedule: employment injury plus invalidity. Employee 0.5%
// class, employer 1.75% class, as published. Wages above the last bracket
// contribute at the last bracket.
var socsoSchedule = []socsoBracket{
	socsoRow("30", "0.10", "0.40"),
	socsoRow("50", "0.20", "0.70"),
	socsoRow("70", "0.30", "1.10"),
	socsoRow("100", "0.40", "1.50"),
	socsoRow("140", "0.60", "2.10"),
	socsoRow("200", "0.85", "2.95"),
	socsoRow("300", "1.25", "4.35"),
	socsoRow("400", "1.75", "6.15"),
	socsoRow("500", "2.25", "7.85"),
	socsoRow("600", "2.75", "9.65"),
	socsoRow("700", "3.25", "11.35"),
	socsoRow("800", "3.75", "13.15"),
	socsoRow("900", "4.25", "14.85"),
	socsoRow("1000", "4.75", "16.65"),
	socsoRow("1100", "5.25", "18.35"),
	socsoRow("1200", "5.75", "20.15"),
	socsoRow("1300", "6.25", "21.85"),
	socsoRow("1400", "6.75", "23.65"),
	socsoRow("1500", "7.25", "25.35"),
	socsoRow("1600", "7.75", "27.15"),
	socsoRow("1700", "8.25", "28.85"),
	socsoRow("1800", "8.75", "30.65"),
	socsoRow("1900", "9.25", "32.35"),
	socsoRow("2000", "9.75", "34.15"),
	socsoRow("2100", "10.25", "35.85"),
	socsoRow("2200", "10.75", "37.65"),
	socsoRow("2300", "11.25", "39.35"),
	socsoRow("2400", "11.75", "41.15"),
	socsoRow("2500", "12.25", "42.85"),
	socsoRow("2600", "12.75", "44.65"),
	socsoRow("2700", "13.25", "46.35"),
	socsoRow("2800", "13.75", "48.15"),
	socsoRow("2900", "14.25", "49.85"),
	socsoRow("3000", "14.75", "51.65"),
	socsoRow("3100", "15.25", "53.35"),
	socsoRow("3200", "15.75", "55.15"),
	socsoRow("3300", "16.25", "56.85"),
	socsoRow("3400", "16.75", "58.65"),
	socsoRow("3500", "17.25", "60.35"),
	socsoRow("3600", "17.75", "62.15"),
	socsoRow("3700", "18.25", "63.85"),
	socsoRow("3800", "18.75", "65.65"),
	socsoRow("3900", "19.25", "67.35"),
	socsoRow("4000", "19.75", "69.15"),
	socsoRow("4100", "20.25", "70.85"),
	socsoRow("4200", "20.75", "72.65"),
	socsoRow("4300", "21.25", "74.35"),
	socsoRow("4400", "21.75", "76.15"),
	socsoRow("4500", "22.25", "77.85"),
	socsoRow("4600", "22.75", "79.65"),
	socsoRow("4700", "23.25", "81.35"),
	socsoRow("4800", "23.75", "83.15"),
	socsoRow("4900", "24.25", "84.85"),
	socsoRow("5000", "24.75", "86.65"),
}

// SOCSOResult holds one month's SOCSO contribution.
type SOCSOResult struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// CalculateSOCSO looks up the bracket for the given wage. The lookup is
// piecewise-constant and deterministic. For employees aged 60 or older only
// the employer portion applies.
func CalculateSOCSO(wage decimal.Decimal, age int) (SOCSOResult, error) {
	if wage.IsNegative() {
		return SOCSOResult{}, fmt.Errorf("%w: negative SOCSO wage %s", ErrInvalidInput, wage)
	}
	if age <= 0 {
		return SOCSOResult{}, fmt.Errorf("%w: employee age is required for SOCSO", ErrInvalidInput)
	}
	if wage.IsZero() {
		return SOCSOResult{Employee: decimal.Zero, Employer: decimal.Zero}, nil
	}

	row := socsoSchedule[len(socsoSchedule)-1]
	for _, b := range socsoSchedule {
		if wage.LessThanOrEqual(b.UpTo) {
			row = b
			break
		}
	}

	res := SOCSOResult{Employee: row.Employee, Employer: row.Employer}
	if age >= 60 {
		res.Employee = decimal.Zero
	}
	return res, nil
}
