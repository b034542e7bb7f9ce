package company

import "github.com/shopspring/decimal"

// PayrollConfigPatch is a sparse overlay stored as JSON on the company row.
// Two patches exist per company: the legacy settings blob and the explicit
// payroll config; both are applied over the defaults, explicit config last.
type PayrollConfigPatch struct {
	Features  *FeaturesPatch  `json:"features,omitempty"`
	Rates     *RatesPatch     `json:"rates,omitempty"`
	Period    *PeriodPatch    `json:"period,omitempty"`
	Statutory *StatutoryPatch `json:"statutory,omitempty"`
}

type FeaturesPatch struct {
	AutoOTFromClockIn    *bool            `json:"auto_ot_from_clockin,omitempty"`
	AutoPHPay            *bool            `json:"auto_ph_pay,omitempty"`
	AutoClaimsLinking    *bool            `json:"auto_claims_linking,omitempty"`
	UnpaidLeaveDeduction *bool            `json:"unpaid_leave_deduction,omitempty"`
	SalaryCarryForward   *bool            `json:"salary_carry_forward,omitempty"`
	FlexibleCommissions  *bool            `json:"flexible_commissions,omitempty"`
	FlexibleAllowances   *bool            `json:"flexible_allowances,omitempty"`
	IndoorSalesLogic     *bool            `json:"indoor_sales_logic,omitempty"`
	YTDPCBCalculation    *bool            `json:"ytd_pcb_calculation,omitempty"`
	RequireApproval      *bool            `json:"require_approval,omitempty"`
	OTRequiresApproval   *bool            `json:"ot_requires_approval,omitempty"`
	VarianceThreshold    *decimal.Decimal `json:"variance_threshold,omitempty"`
}

type RatesPatch struct {
	OTMultiplier              *decimal.Decimal `json:"ot_multiplier,omitempty"`
	PHMultiplier              *decimal.Decimal `json:"ph_multiplier,omitempty"`
	IndoorSalesBasic          *decimal.Decimal `json:"indoor_sales_basic,omitempty"`
	IndoorSalesCommissionRate *decimal.Decimal `json:"indoor_sales_commission_rate,omitempty"`
	StandardWorkHours         *decimal.Decimal `json:"standard_work_hours,omitempty"`
	StandardWorkDays          *int             `json:"standard_work_days,omitempty"`
	PartTimeHourlyRate        *decimal.Decimal `json:"part_time_hourly_rate,omitempty"`
	PartTimePHMultiplier      *decimal.Decimal `json:"part_time_ph_multiplier,omitempty"`
	OutstationPerDay          *decimal.Decimal `json:"outstation_per_day,omitempty"`
	OutstationMinDistanceKM   *decimal.Decimal `json:"outstation_min_distance_km,omitempty"`
	OTDailyThresholdHours     *decimal.Decimal `json:"ot_daily_threshold_hours,omitempty"`
	BreakMinutes              *int             `json:"break_minutes,omitempty"`
	MinOTHours                *decimal.Decimal `json:"min_ot_hours,omitempty"`
}

type PeriodPatch struct {
	Type               *PeriodType `json:"type,omitempty"`
	StartDay           *int        `json:"start_day,omitempty"`
	EndDay             *int        `json:"end_day,omitempty"`
	PaymentDay         *int        `json:"payment_day,omitempty"`
	PaymentMonthOffset *int        `json:"payment_month_offset,omitempty"`
}

type StatutoryPatch struct {
	EPFEnabled   *bool `json:"epf_enabled,omitempty"`
	SOCSOEnabled *bool `json:"socso_enabled,omitempty"`
	EISEnabled   *bool `json:"eis_enabled,omitempty"`
	PCBEnabled   *bool `json:"pcb_enabled,omitempty"`
	OnOT         *bool `json:"statutory_on_ot,omitempty"`
	OnPHPay      *bool `json:"statutory_on_ph_pay,omitempty"`
	OnAllowance  *bool `json:"statutory_on_allowance,omitempty"`
	OnIncentive  *bool `json:"statutory_on_incentive,omitempty"`
	OnCommission *bool `json:"statutory_on_commission,omitempty"`
}

// ResolveConfig merges defaults, the legacy settings patch and the explicit
// config patch, in that order. Later patches win.
func ResolveConfig(patches ...*PayrollConfigPatch) PayrollConfig {
	cfg := DefaultPayrollConfig()
	for _, p := range patches {
		p.apply(&cfg)
	}
	return cfg
}

func (p *PayrollConfigPatch) apply(cfg *PayrollConfig) {
	if p == nil {
		return
	}
	if f := p.Features; f != nil {
		setBool(f.AutoOTFromClockIn, &cfg.Features.AutoOTFromClockIn)
		setBool(f.AutoPHPay, &cfg.Features.AutoPHPay)
		setBool(f.AutoClaimsLinking, &cfg.Features.AutoClaimsLinking)
		setBool(f.UnpaidLeaveDeduction, &cfg.Features.UnpaidLeaveDeduction)
		setBool(f.SalaryCarryForward, &cfg.Features.SalaryCarryForward)
		setBool(f.FlexibleCommissions, &cfg.Features.FlexibleCommissions)
		setBool(f.FlexibleAllowances, &cfg.Features.FlexibleAllowances)
		setBool(f.IndoorSalesLogic, &cfg.Features.IndoorSalesLogic)
		setBool(f.YTDPCBCalculation, &cfg.Features.YTDPCBCalculation)
		setBool(f.RequireApproval, &cfg.Features.RequireApproval)
		setBool(f.OTRequiresApproval, &cfg.Features.OTRequiresApproval)
		setDecimal(f.VarianceThreshold, &cfg.Features.VarianceThreshold)
	}
	if r := p.Rates; r != nil {
		setDecimal(r.OTMultiplier, &cfg.Rates.OTMultiplier)
		setDecimal(r.PHMultiplier, &cfg.Rates.PHMultiplier)
		setDecimal(r.IndoorSalesBasic, &cfg.Rates.IndoorSalesBasic)
		setDecimal(r.IndoorSalesCommissionRate, &cfg.Rates.IndoorSalesCommissionRate)
		setDecimal(r.StandardWorkHours, &cfg.Rates.StandardWorkHours)
		setInt(r.StandardWorkDays, &cfg.Rates.StandardWorkDays)
		setDecimal(r.PartTimeHourlyRate, &cfg.Rates.PartTimeHourlyRate)
		setDecimal(r.PartTimePHMultiplier, &cfg.Rates.PartTimePHMultiplier)
		setDecimal(r.OutstationPerDay, &cfg.Rates.OutstationPerDay)
		setDecimal(r.OutstationMinDistanceKM, &cfg.Rates.OutstationMinDistanceKM)
		setDecimal(r.OTDailyThresholdHours, &cfg.Rates.OTDailyThresholdHours)
		setInt(r.BreakMinutes, &cfg.Rates.BreakMinutes)
		setDecimal(r.MinOTHours, &cfg.Rates.MinOTHours)
	}
	if pd := p.Period; pd != nil {
		if pd.Type != nil {
			cfg.Period.Type = *pd.Type
		}
		setInt(pd.StartDay, &cfg.Period.StartDay)
		setInt(pd.EndDay, &cfg.Period.EndDay)
		setInt(pd.PaymentDay, &cfg.Period.PaymentDay)
		setInt(pd.PaymentMonthOffset, &cfg.Period.PaymentMonthOffset)
	}
	if s := p.Statutory; s != nil {
		setBool(s.EPFEnabled, &cfg.Statutory.EPFEnabled)
		setBool(s.SOCSOEnabled, &cfg.Statutory.SOCSOEnabled)
		setBool(s.EISEnabled, &cfg.Statutory.EISEnabled)
		setBool(s.PCBEnabled, &cfg.Statutory.PCBEnabled)
		setBool(s.OnOT, &cfg.Statutory.OnOT)
		setBool(s.OnPHPay, &cfg.Statutory.OnPHPay)
		setBool(s.OnAllowance, &cfg.Statutory.OnAllowance)
		setBool(s.OnIncentive, &cfg.Statutory.OnIncentive)
		setBool(s.OnCommission, &cfg.Statutory.OnCommission)
	}
}

func setBool(src *bool, dst *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(src *int, dst *int) {
	if src != nil {
		*dst = *src
	}
}

func setDecimal(src *decimal.Decimal, dst *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}
