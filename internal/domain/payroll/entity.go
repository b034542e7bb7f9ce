package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunStatus string

const (
	RunDraft     RunStatus = "draft"
	RunApproved  RunStatus = "approved"
	RunFinalized RunStatus = "finalized"
)

// CalculationMethod tags how an item's basic pay was derived.
type CalculationMethod string

const (
	MethodBasic      CalculationMethod = "basic"
	MethodCommission CalculationMethod = "commission"
	MethodPartTime   CalculationMethod = "part_time"
)

// ExcludedEmployee records an employee left out of an outlet-grouped run
// because the period held neither a schedule nor a clock-in for them.
type ExcludedEmployee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// PayrollRun is one payroll batch for (company, month, year, grouping).
// At most one exists per tuple. Finalized runs are immutable.
type PayrollRun struct {
	ID           string
	CompanyID    string
	Month        int
	Year         int
	DepartmentID *string
	OutletID     *string

	Status         RunStatus
	PeriodStart    time.Time
	PeriodEnd      time.Time
	PaymentDueDate time.Time
	PeriodLabel    string

	TotalGross        decimal.Decimal
	TotalNet          decimal.Decimal
	TotalDeductions   decimal.Decimal
	TotalEmployerCost decimal.Decimal
	EmployeeCount     int

	ApprovedBy  *string
	ApprovedAt  *time.Time
	FinalizedAt *time.Time

	ExcludedEmployees  []ExcludedEmployee
	HasVarianceWarning bool
	Warnings           []string
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	DepartmentName *string
	OutletName     *string
}

// Editable reports whether items of this run may still change.
func (r PayrollRun) Editable() bool {
	return r.Status != RunFinalized
}

// PayItem is one employee's frozen pay record inside a run. Every monetary
// field is two-decimal except the EPF pair, which is whole-Ringgit per the
// statutory tables.
type PayItem struct {
	ID         string
	RunID      string
	EmployeeID string
	CompanyID  string
	Month      int
	Year       int

	Method CalculationMethod

	// Earnings
	BasicSalary      decimal.Decimal
	Wages            decimal.Decimal // part-time hourly earnings
	FixedAllowance   decimal.Decimal
	FlexAllowance    decimal.Decimal
	TaxableAllowance decimal.Decimal
	Commission       decimal.Decimal
	OTHours          decimal.Decimal
	OTAmount         decimal.Decimal
	PHDaysWorked     int
	PHPay            decimal.Decimal
	ClaimsAmount     decimal.Decimal
	AttendanceBonus  decimal.Decimal
	GrossSalary      decimal.Decimal

	// Attendance-driven deductions (already absorbed into gross)
	UnpaidLeaveDays      decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	AbsentDays           decimal.Decimal
	AbsentDayDeduction   decimal.Decimal
	ShortHours           decimal.Decimal
	ShortHoursDeduction  decimal.Decimal

	// Statutory
	StatutoryBase         decimal.Decimal
	EPFEmployee           decimal.Decimal
	EPFEmployer           decimal.Decimal
	EPFEmployeeNormal     decimal.Decimal
	EPFEmployeeAdditional decimal.Decimal
	SOCSOEmployee         decimal.Decimal
	SOCSOEmployer         decimal.Decimal
	EISEmployee           decimal.Decimal
	EISEmployer           decimal.Decimal
	PCB                   decimal.Decimal
	PCBNormal             decimal.Decimal
	PCBAdditional         decimal.Decimal

	// Other deductions
	AdvanceDeduction decimal.Decimal
	OtherDeductions  decimal.Decimal

	// Totals
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	EmployerCost    decimal.Decimal

	// YTD snapshot consumed by the PCB formula for this item
	YTDGross decimal.Decimal
	YTDEPF   decimal.Decimal
	YTDPCB   decimal.Decimal

	// Variance against the prior month's net pay
	VarianceAmount  decimal.Decimal
	VariancePercent decimal.Decimal

	// Manual fields survive recalculation once set by an override.
	OTManual     bool
	AbsentManual bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string

	// Enrichment computed on read, not persisted.
	Attendance *ItemAttendance
}

// ItemAttendance is the read-time enrichment GetRun attaches to each item.
type ItemAttendance struct {
	DaysWorked     int             `json:"days_worked"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	NoScheduleDays int             `json:"no_schedule_days"`
}
