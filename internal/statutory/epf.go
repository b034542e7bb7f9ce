package statutory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EPF wage ceiling. Wages above this amount contribute as if they were at
// the ceiling.
var epfWageCeiling = decimal.NewFromInt(20000)

// Employer rate switches at this wage for employees aged 60 and below.
var epfEmployerRateSwitch = decimal.NewFromInt(5000)

var (
	epfEmployeeRate       = decimal.RequireFromString("0.11")
	epfEmployerRateLow    = decimal.RequireFromString("0.13") // wage <= 5000
	epfEmployerRateHigh   = decimal.RequireFromString("0.12") // wage > 5000
	epfEmployerRateSenior = decimal.RequireFromString("0.04") // age > 60
)

// EPFInput is the wage base and employee attributes for one month of EPF.
type EPFInput struct {
	Wage      decimal.Decimal
	Age       int
	Breakdown RemunerationBreakdown
}

// EPFResult holds the month's contributions, whole-Ringgit rounded, with the
// normal/additional remuneration split required for statutory reporting.
type EPFResult struct {
	Employee decimal.Decimal
	Employer decimal.Decimal

	EmployeeNormal     decimal.Decimal
	EmployeeAdditional decimal.Decimal
	EmployerNormal     decimal.Decimal
	EmployerAdditional decimal.Decimal
}

// CalculateEPF computes the month's EPF contribution for both parties.
//
// Age 60 and below: employee 11%, employer 13% (wage <= RM5000) or 12%.
// Above 60: employee 0%, employer 4%. Amounts round to the nearest Ringgit.
func CalculateEPF(in EPFInput) (EPFResult, error) {
	if in.Wage.IsNegative() {
		return EPFResult{}, fmt.Errorf("%w: negative EPF wage %s", ErrInvalidInput, in.Wage)
	}
	if in.Age <= 0 {
		return EPFResult{}, fmt.Errorf("%w: employee age is required for EPF", ErrInvalidInput)
	}

	wage := in.Wage
	if wage.GreaterThan(epfWageCeiling) {
		wage = epfWageCeiling
	}

	var employeeRate, employerRate decimal.Decimal
	switch {
	case in.Age > 60:
		employeeRate = decimal.Zero
		employerRate = epfEmployerRateSenior
	case wage.GreaterThan(epfEmployerRateSwitch):
		employeeRate = epfEmployeeRate
		employerRate = epfEmployerRateHigh
	default:
		employeeRate = epfEmployeeRate
		employerRate = epfEmployerRateLow
	}

	res := EPFResult{
		Employee: roundRinggit(wage.Mul(employeeRate)),
		Employer: roundRinggit(wage.Mul(employerRate)),
	}

	res.EmployeeNormal, res.EmployeeAdditional = splitByRemuneration(res.Employee, in.Breakdown)
	res.EmployerNormal, res.EmployerAdditional = splitByRemuneration(res.Employer, in.Breakdown)

	return res, nil
}

// splitByRemuneration pro-rates a contribution over the normal and additional
// remuneration portions of the wage base. The normal share is rounded to the
// Ringgit and the additional share takes the remainder so the two always sum
// to the total.
func splitByRemuneration(total decimal.Decimal, b RemunerationBreakdown) (normal, additional decimal.Decimal) {
	base := b.Normal().Add(b.Additional())
	if base.IsZero() || total.IsZero() {
		return total, decimal.Zero
	}
	normal = roundRinggit(total.Mul(b.Normal()).Div(base))
	if normal.GreaterThan(total) {
		normal = total
	}
	return normal, total.Sub(normal)
}
