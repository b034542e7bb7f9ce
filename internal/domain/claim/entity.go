package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Claim is an approved expense reimbursement. Once a payroll run finalizes,
// the claim is linked to the pay item that reimbursed it and never enters a
// later run.
type Claim struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	ClaimDate       time.Time
	Description     *string
	Amount          decimal.Decimal
	Status          Status
	LinkedPayItemID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
