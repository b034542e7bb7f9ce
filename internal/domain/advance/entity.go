package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeductionMethod string

const (
	DeductFull        DeductionMethod = "full"
	DeductInstallment DeductionMethod = "installment"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
)

// SalaryAdvance is money already paid out to an employee, recovered through
// payroll either in one deduction or by monthly installments.
type SalaryAdvance struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Amount            decimal.Decimal
	RemainingBalance  decimal.Decimal
	InstallmentAmount decimal.Decimal
	DeductionMethod   DeductionMethod
	Status            Status

	// Recovery starts from this month; advances issued mid-month are not
	// deducted until the expected month arrives.
	ExpectedDeductionYear  int
	ExpectedDeductionMonth int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DueAmount returns how much of the advance one payroll run recovers.
func (a SalaryAdvance) DueAmount() decimal.Decimal {
	if a.DeductionMethod == DeductFull {
		return a.RemainingBalance
	}
	if a.InstallmentAmount.GreaterThan(a.RemainingBalance) {
		return a.RemainingBalance
	}
	return a.InstallmentAmount
}

// DueBy reports whether recovery should have started by (year, month).
func (a SalaryAdvance) DueBy(year, month int) bool {
	if a.ExpectedDeductionYear != year {
		return a.ExpectedDeductionYear < year
	}
	return a.ExpectedDeductionMonth <= month
}
