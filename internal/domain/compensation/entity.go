// Package compensation groups the flexible recurring earnings attached to an
// employee: commissions, allowances and monthly sales totals.
package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionType struct {
	ID        string
	CompanyID string
	Name      string
	IsActive  bool
}

type EmployeeCommission struct {
	ID               string
	EmployeeID       string
	CompanyID        string
	CommissionTypeID string
	Amount           decimal.Decimal
	IsActive         bool
	CreatedAt        time.Time

	// Joined fields
	TypeName   *string
	TypeActive *bool
}

type AllowanceType struct {
	ID        string
	CompanyID string
	Name      string
	IsTaxable bool
	IsActive  bool
}

type EmployeeAllowance struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	AllowanceTypeID string
	Amount          decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time

	// Joined fields
	TypeName    *string
	TypeTaxable *bool
	TypeActive  *bool
}

// SalesRecord is one employee's sales total for one month, consumed by the
// indoor-sales pay structure.
type SalesRecord struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Month      int
	Year       int
	TotalSales decimal.Decimal
}
