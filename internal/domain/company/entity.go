package company

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupingType determines how a company partitions its employees for
// payroll runs. Exactly one applies per company.
type GroupingType string

const (
	GroupingDepartment GroupingType = "department"
	GroupingOutlet     GroupingType = "outlet"
)

type Company struct {
	ID             string
	Name           string
	RegistrationNo *string
	GroupingType   GroupingType

	// Config is the payroll configuration resolved at load time: defaults,
	// overlaid by legacy settings, overlaid by the explicit config stored on
	// the company row.
	Config PayrollConfig

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department and Outlet are the two grouping units. A company uses one or
// the other, never both.
type Department struct {
	ID        string
	CompanyID string
	Name      string
}

type Outlet struct {
	ID        string
	CompanyID string
	Name      string
}

// PeriodType selects how the payroll period maps onto the calendar.
type PeriodType string

const (
	PeriodCalendarMonth PeriodType = "calendar_month"
	PeriodMidMonth      PeriodType = "mid_month"
)

// Features are the company-level payroll toggles.
type Features struct {
	AutoOTFromClockIn    bool
	AutoPHPay            bool
	AutoClaimsLinking    bool
	UnpaidLeaveDeduction bool
	SalaryCarryForward   bool
	FlexibleCommissions  bool
	FlexibleAllowances   bool
	IndoorSalesLogic     bool
	YTDPCBCalculation    bool
	RequireApproval      bool
	OTRequiresApproval   bool

	// VarianceThreshold is a percentage; pay items whose net varies from the
	// prior month by more than this raise a warning on the run.
	VarianceThreshold decimal.Decimal
}

// Rates are the company-level payroll rates and divisors.
type Rates struct {
	OTMultiplier              decimal.Decimal
	PHMultiplier              decimal.Decimal
	IndoorSalesBasic          decimal.Decimal
	IndoorSalesCommissionRate decimal.Decimal
	StandardWorkHours         decimal.Decimal
	StandardWorkDays          int
	PartTimeHourlyRate        decimal.Decimal
	PartTimePHMultiplier      decimal.Decimal
	OutstationPerDay          decimal.Decimal
	OutstationMinDistanceKM   decimal.Decimal

	// OTDailyThresholdHours is the worked-hours mark after which overtime
	// accrues when a clock record carries no pre-computed OT minutes.
	OTDailyThresholdHours decimal.Decimal
	// BreakMinutes is subtracted from worked minutes before the threshold
	// comparison.
	BreakMinutes int
	// MinOTHours: raw OT below this rounds to zero, otherwise floors to the
	// nearest half hour.
	MinOTHours decimal.Decimal
}

// Period configures period boundaries and the payment due date.
type Period struct {
	Type               PeriodType
	StartDay           int
	EndDay             int
	PaymentDay         int
	PaymentMonthOffset int
}

// Statutory toggles which deductions are computed and what enters the
// statutory wage base.
type Statutory struct {
	EPFEnabled   bool
	SOCSOEnabled bool
	EISEnabled   bool
	PCBEnabled   bool

	OnOT         bool
	OnPHPay      bool
	OnAllowance  bool
	OnIncentive  bool
	OnCommission bool
}

// PayrollConfig is the fully resolved per-company payroll configuration.
// The core never carries untyped maps; merging happens once at load.
type PayrollConfig struct {
	Features  Features
	Rates     Rates
	Period    Period
	Statutory Statutory
}

// DefaultPayrollConfig returns the baseline configuration every company
// starts from.
func DefaultPayrollConfig() PayrollConfig {
	return PayrollConfig{
		Features: Features{
			AutoOTFromClockIn:    true,
			AutoPHPay:            true,
			AutoClaimsLinking:    true,
			UnpaidLeaveDeduction: true,
			SalaryCarryForward:   false,
			FlexibleCommissions:  true,
			FlexibleAllowances:   true,
			IndoorSalesLogic:     false,
			YTDPCBCalculation:    true,
			RequireApproval:      false,
			OTRequiresApproval:   false,
			VarianceThreshold:    decimal.NewFromInt(5),
		},
		Rates: Rates{
			OTMultiplier:              decimal.RequireFromString("1.5"),
			PHMultiplier:              decimal.NewFromInt(2),
			IndoorSalesBasic:          decimal.Zero,
			IndoorSalesCommissionRate: decimal.Zero,
			StandardWorkHours:         decimal.NewFromInt(8),
			StandardWorkDays:          26,
			PartTimeHourlyRate:        decimal.RequireFromString("8.72"),
			PartTimePHMultiplier:      decimal.NewFromInt(2),
			OutstationPerDay:          decimal.Zero,
			OutstationMinDistanceKM:   decimal.Zero,
			OTDailyThresholdHours:     decimal.NewFromInt(8),
			BreakMinutes:              60,
			MinOTHours:                decimal.NewFromInt(1),
		},
		Period: Period{
			Type:               PeriodCalendarMonth,
			StartDay:           1,
			EndDay:             31,
			PaymentDay:         28,
			PaymentMonthOffset: 0,
		},
		Statutory: Statutory{
			EPFEnabled:   true,
			SOCSOEnabled: true,
			EISEnabled:   true,
			PCBEnabled:   true,
			OnOT:         false,
			OnPHPay:      false,
			OnAllowance:  false,
			OnIncentive:  false,
			OnCommission: true,
		},
	}
}
