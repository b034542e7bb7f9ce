package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusResigned   Status = "resigned"
	StatusTerminated Status = "terminated"
)

type WorkType string

const (
	WorkFullTime WorkType = "full_time"
	WorkPartTime WorkType = "part_time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ResidencyStatus drives the PCB calculation path.
type ResidencyStatus string

const (
	ResidencyResident    ResidencyStatus = "resident"
	ResidencyNonResident ResidencyStatus = "non_resident"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

// AllowancePCBPolicy controls whether the employee's fixed allowance enters
// the PCB wage base.
type AllowancePCBPolicy string

const (
	AllowancePCBIncluded AllowancePCBPolicy = "included"
	AllowancePCBExcluded AllowancePCBPolicy = "excluded"
)

type Employee struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	OutletID     *string

	Code          string
	Name          string
	ICNumber      *string
	DateOfBirth   *time.Time
	Gender        Gender
	Residency     ResidencyStatus
	MaritalStatus MaritalStatus
	SpouseWorking bool
	ChildCount    int
	Disabled      bool

	JoinDate   time.Time
	Status     Status
	ResignDate *time.Time
	WorkType   WorkType

	BasicSalary    decimal.Decimal
	FixedAllowance decimal.Decimal
	FixedOTAmount  decimal.Decimal
	HourlyRate     decimal.Decimal

	// StructureCode tags the pay structure; "indoor_sales" activates the
	// indoor-sales basic/commission override.
	StructureCode *string

	BankName      *string
	BankAccountNo *string
	EPFNumber     *string
	SOCSONumber   *string
	TaxNumber     *string

	AllowancePCB AllowancePCBPolicy

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	DepartmentName *string
	OutletName     *string
}

// AgeAt returns the employee's age in whole years at the given date, or 0
// when the date of birth is unknown.
func (e Employee) AgeAt(at time.Time) int {
	if e.DateOfBirth == nil {
		return 0
	}
	dob := *e.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// IsPartTime reports whether the employee is paid hourly.
func (e Employee) IsPartTime() bool {
	return e.WorkType == WorkPartTime
}

// ResignedWithin reports whether the employee resigned inside [start, end].
// Such employees stay in the payroll cohort for final settlement.
func (e Employee) ResignedWithin(start, end time.Time) bool {
	if e.ResignDate == nil {
		return false
	}
	d := *e.ResignDate
	return !d.Before(start) && !d.After(end)
}
