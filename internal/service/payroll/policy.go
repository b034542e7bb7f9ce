package payroll

import (
	"fmt"
	"time"

	attendancesvc "github.com/gajihub/payroll-backend-go/internal/service/attendance"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

const structureIndoorSales = "indoor_sales"

var hundred = decimal.NewFromInt(100)

// AttendanceMetrics is the aggregated attendance input for one employee,
// produced by the attendance service before the policy engine runs.
type AttendanceMetrics struct {
	PartTime    attendancesvc.PartTimeResult
	Schedule    attendancesvc.ScheduleAttendance
	OT          attendancesvc.OTResult
	PHDays      int
	ShortHours  decimal.Decimal
	ClockInDays int
	HasSchedule bool
}

// ItemInput is everything the policy engine needs to produce one pay item.
type ItemInput struct {
	Employee      employee.Employee
	Config        company.PayrollConfig
	OutletGrouped bool
	Month         int
	Year          int
	WorkingDays   int

	Prior *payroll.PayItem

	Sales               decimal.Decimal
	Commission          decimal.Decimal
	AllowanceTaxable    decimal.Decimal
	AllowanceNonTaxable decimal.Decimal
	UnpaidLeaveDays     decimal.Decimal
	PaidLeaveDays       decimal.Decimal
	ClaimsTotal         decimal.Decimal
	AdvanceDue          decimal.Decimal

	YTD statutory.YTDSnapshot

	Attendance AttendanceMetrics
}

// StatutoryOverrides pins individual statutory lines to caller-supplied
// values. A nil field keeps the table-computed amount.
type StatutoryOverrides struct {
	EPFEmployee   *decimal.Decimal
	SOCSOEmployee *decimal.Decimal
	PCB           *decimal.Decimal
}

// dailyRate is basic over working days; hourlyRate divides that by standard
// work hours.
func dailyRate(basic decimal.Decimal, workingDays int) decimal.Decimal {
	if workingDays <= 0 {
		return decimal.Zero
	}
	return basic.Div(decimal.NewFromInt(int64(workingDays)))
}

func hourlyRate(basic decimal.Decimal, workingDays int, standardHours decimal.Decimal) decimal.Decimal {
	if standardHours.IsZero() {
		return decimal.Zero
	}
	return dailyRate(basic, workingDays).Div(standardHours)
}

// ComputeItem runs the full policy sequence for one employee and returns the
// in-memory pay item plus any soft warnings.
func ComputeItem(in ItemInput) (payroll.PayItem, []string) {
	emp := in.Employee
	cfg := in.Config
	var warnings []string

	item := payroll.PayItem{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Month:      in.Month,
		Year:       in.Year,
		Method:     payroll.MethodBasic,
	}

	// Step 1: basic pay resolution.
	if emp.IsPartTime() {
		item.Method = payroll.MethodPartTime
		item.BasicSalary = decimal.Zero
		item.Wages = in.Attendance.PartTime.NormalPay
		item.FixedAllowance = decimal.Zero
		item.FlexAllowance = decimal.Zero
	} else {
		item.BasicSalary = emp.BasicSalary
		item.FixedAllowance = emp.FixedAllowance
		if cfg.Features.SalaryCarryForward && in.Prior != nil {
			item.BasicSalary = in.Prior.BasicSalary
			item.FixedAllowance = in.Prior.FixedAllowance
		}
		item.Wages = decimal.Zero
	}

	// Step 2: commissions and flexible allowances.
	if !emp.IsPartTime() {
		if cfg.Features.FlexibleCommissions {
			item.Commission = in.Commission
		}
		if cfg.Features.FlexibleAllowances {
			item.FlexAllowance = in.AllowanceTaxable.Add(in.AllowanceNonTaxable)
			item.TaxableAllowance = in.AllowanceTaxable
		}
	}

	// Step 3: indoor sales override.
	if !emp.IsPartTime() && cfg.Features.IndoorSalesLogic &&
		emp.StructureCode != nil && *emp.StructureCode == structureIndoorSales {
		computed := in.Sales.Mul(cfg.Rates.IndoorSalesCommissionRate).Div(hundred).Round(2)
		if computed.GreaterThanOrEqual(cfg.Rates.IndoorSalesBasic) {
			item.BasicSalary = computed
			item.Method = payroll.MethodCommission
		} else {
			item.BasicSalary = cfg.Rates.IndoorSalesBasic
			item.Method = payroll.MethodBasic
		}
		item.Commission = decimal.Zero
	}

	// Step 4: overtime.
	if cfg.Features.AutoOTFromClockIn {
		item.OTHours = in.Attendance.OT.TotalHours
		item.OTAmount = in.Attendance.OT.TotalAmount
	}
	if item.OTAmount.IsZero() && !emp.FixedOTAmount.IsZero() {
		item.OTAmount = emp.FixedOTAmount
	}

	// Step 5: public holiday pay.
	if emp.IsPartTime() {
		item.PHPay = in.Attendance.PartTime.PHPay
		item.PHDaysWorked = in.Attendance.PHDays
	} else if cfg.Features.AutoPHPay && in.Attendance.PHDays > 0 {
		item.PHDaysWorked = in.Attendance.PHDays
		item.PHPay = dailyRate(item.BasicSalary, in.WorkingDays).
			Mul(decimal.NewFromInt(int64(in.Attendance.PHDays))).
			Mul(cfg.Rates.PHMultiplier).Round(2)
	}

	// Step 6: attendance-driven deductions. Part-time carries no basic, so
	// all three stay zero.
	if !emp.IsPartTime() {
		daily := dailyRate(item.BasicSalary, in.WorkingDays)
		hourly := hourlyRate(item.BasicSalary, in.WorkingDays, cfg.Rates.StandardWorkHours)

		if cfg.Features.UnpaidLeaveDeduction {
			item.UnpaidLeaveDays = in.UnpaidLeaveDays
			item.UnpaidLeaveDeduction = daily.Mul(in.UnpaidLeaveDays).Round(2)
		}

		if in.OutletGrouped && in.Attendance.Schedule.ScheduledDays > 0 {
			// Schedule-based pay replaces the simple unpaid calculation.
			sched := in.Attendance.Schedule
			perScheduled := item.BasicSalary.Div(decimal.NewFromInt(int64(sched.ScheduledDays)))
			item.UnpaidLeaveDeduction = item.BasicSalary.
				Sub(perScheduled.Mul(decimal.NewFromInt(int64(sched.PayableDays)))).Round(2)
			item.UnpaidLeaveDays = decimal.NewFromInt(int64(sched.AbsentDays))
			item.AbsentDays = decimal.NewFromInt(int64(sched.AbsentDays))
			item.ShortHours = sched.ShortHours
			item.ShortHoursDeduction = hourly.Mul(sched.ShortHours).Round(2)
		} else {
			if in.OutletGrouped {
				warnings = append(warnings,
					fmt.Sprintf("employee %s: no schedule in period, fell back to clock-derived attendance", emp.Code))
			}
			// Clock-derived absence only applies when the employee has clock
			// data at all; a missing stream degrades to zero absences.
			absent := decimal.Zero
			if in.Attendance.ClockInDays > 0 {
				absent = attendancesvc.ComputeAbsentDays(in.WorkingDays, in.Attendance.ClockInDays, in.PaidLeaveDays, in.UnpaidLeaveDays)
			}
			item.AbsentDays = absent
			item.AbsentDayDeduction = daily.Mul(absent).Round(2)
			item.ShortHours = in.Attendance.ShortHours
			item.ShortHoursDeduction = hourly.Mul(in.Attendance.ShortHours).Round(2)
		}
	}

	// Step 7: stepped attendance bonus for outlet-grouped full-timers.
	if in.OutletGrouped && !emp.IsPartTime() {
		penalty := int64(in.Attendance.Schedule.LateDays) + item.AbsentDays.IntPart()
		item.AttendanceBonus = attendanceBonus(penalty)
	}

	item.ClaimsAmount = in.ClaimsTotal
	item.AdvanceDeduction = in.AdvanceDue

	warnings = append(warnings, FinalizeItem(&item, in, StatutoryOverrides{})...)

	if item.BasicSalary.IsZero() && item.Wages.IsZero() {
		warnings = append(warnings, fmt.Sprintf("employee %s: zero basic salary", emp.Code))
	}
	return item, warnings
}

// attendanceBonus is the stepped bonus over the late-plus-absent penalty
// count: 0 -> 400, 1 -> 300, 2 -> 200, 3 -> 100, 4 or more -> 0.
func attendanceBonus(penalty int64) decimal.Decimal {
	switch {
	case penalty <= 0:
		return decimal.NewFromInt(400)
	case penalty == 1:
		return decimal.NewFromInt(300)
	case penalty == 2:
		return decimal.NewFromInt(200)
	case penalty == 3:
		return decimal.NewFromInt(100)
	default:
		return decimal.Zero
	}
}

// FinalizeItem runs the tail of the policy sequence: gross, statutory base,
// statutory deductions, totals and variance. Manual edits re-enter here with
// their overrides already written onto the item.
func FinalizeItem(item *payroll.PayItem, in ItemInput, so StatutoryOverrides) []string {
	emp := in.Employee
	cfg := in.Config
	var warnings []string

	// Step 8: gross.
	gross := item.BasicSalary.
		Add(item.Wages).
		Add(item.FixedAllowance).
		Add(item.FlexAllowance).
		Add(item.OTAmount).
		Add(item.PHPay).
		Add(item.Commission).
		Add(item.ClaimsAmount).
		Add(item.AttendanceBonus).
		Sub(item.UnpaidLeaveDeduction).
		Sub(item.ShortHoursDeduction).
		Sub(item.AbsentDayDeduction)
	if gross.IsNegative() {
		gross = decimal.Zero
	}
	item.GrossSalary = gross.Round(2)

	// Step 9: statutory base.
	base := item.BasicSalary.Add(item.Wages).
		Sub(item.UnpaidLeaveDeduction).
		Sub(item.ShortHoursDeduction).
		Sub(item.AbsentDayDeduction)
	if base.IsNegative() {
		base = decimal.Zero
	}
	if cfg.Statutory.OnCommission {
		base = base.Add(item.Commission)
	}
	if cfg.Statutory.OnOT {
		base = base.Add(item.OTAmount)
	}
	if cfg.Statutory.OnPHPay {
		base = base.Add(item.PHPay)
	}
	if cfg.Statutory.OnAllowance {
		base = base.Add(item.FixedAllowance).Add(item.FlexAllowance)
	}
	if cfg.Statutory.OnIncentive {
		base = base.Add(item.AttendanceBonus)
	}
	item.StatutoryBase = base.Round(2)

	// Step 10: statutory deductions.
	age := emp.AgeAt(periodEndOf(in))
	breakdown := statutory.RemunerationBreakdown{
		Basic:            item.BasicSalary.Add(item.Wages),
		Allowance:        item.FixedAllowance,
		TaxableAllowance: item.TaxableAllowance,
		Commission:       item.Commission,
		Bonus:            item.AttendanceBonus,
		Overtime:         item.OTAmount,
		PCBGross:         item.GrossSalary,
	}

	item.EPFEmployee = decimal.Zero
	item.EPFEmployer = decimal.Zero
	item.EPFEmployeeNormal = decimal.Zero
	item.EPFEmployeeAdditional = decimal.Zero
	if cfg.Statutory.EPFEnabled {
		epf, err := statutory.CalculateEPF(statutory.EPFInput{Wage: item.StatutoryBase, Age: age, Breakdown: breakdown})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("employee %s: EPF calculation: %v", emp.Code, err))
		} else {
			item.EPFEmployee = epf.Employee
			item.EPFEmployer = epf.Employer
			item.EPFEmployeeNormal = epf.EmployeeNormal
			item.EPFEmployeeAdditional = epf.EmployeeAdditional
		}
	}
	if so.EPFEmployee != nil {
		item.EPFEmployee = *so.EPFEmployee
	}

	item.SOCSOEmployee = decimal.Zero
	item.SOCSOEmployer = decimal.Zero
	if cfg.Statutory.SOCSOEnabled {
		socso, err := statutory.CalculateSOCSO(item.StatutoryBase, age)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("employee %s: SOCSO calculation: %v", emp.Code, err))
		} else {
			item.SOCSOEmployee = socso.Employee
			item.SOCSOEmployer = socso.Employer
		}
	}
	if so.SOCSOEmployee != nil {
		item.SOCSOEmployee = *so.SOCSOEmployee
	}

	item.EISEmployee = decimal.Zero
	item.EISEmployer = decimal.Zero
	if cfg.Statutory.EISEnabled {
		eis, err := statutory.CalculateEIS(item.StatutoryBase, age)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("employee %s: EIS calculation: %v", emp.Code, err))
		} else {
			item.EISEmployee = eis.Employee
			item.EISEmployer = eis.Employer
		}
	}

	item.PCB = decimal.Zero
	item.PCBNormal = decimal.Zero
	item.PCBAdditional = decimal.Zero
	if cfg.Statutory.PCBEnabled {
		ytd := statutory.YTDSnapshot{}
		if cfg.Features.YTDPCBCalculation {
			ytd = in.YTD
		}
		pcbBreakdown := breakdown
		if emp.AllowancePCB == employee.AllowancePCBExcluded {
			pcbBreakdown.Allowance = decimal.Zero
		}
		pcb, err := statutory.CalculatePCB(statutory.PCBInput{
			Month:         in.Month,
			Resident:      emp.Residency == employee.ResidencyResident,
			Married:       emp.MaritalStatus == employee.MaritalMarried,
			SpouseWorking: emp.SpouseWorking,
			Children:      emp.ChildCount,
			Disabled:      emp.Disabled,
			EPFEmployee:   item.EPFEmployee,
			YTD:           ytd,
			Breakdown:     pcbBreakdown,
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("employee %s: PCB calculation: %v", emp.Code, err))
		} else {
			item.PCB = pcb.Total
			item.PCBNormal = pcb.NormalSTD
			item.PCBAdditional = pcb.AdditionalSTD
		}
	}
	if so.PCB != nil {
		item.PCB = *so.PCB
	}

	item.YTDGross = in.YTD.Gross
	item.YTDEPF = in.YTD.EPF
	item.YTDPCB = in.YTD.PCB

	// Step 11: totals. The three attendance deductions were already taken
	// out of gross, so net adds them back to avoid double-counting.
	attendanceDeductions := item.UnpaidLeaveDeduction.
		Add(item.AbsentDayDeduction).
		Add(item.ShortHoursDeduction)
	item.TotalDeductions = attendanceDeductions.
		Add(item.EPFEmployee).
		Add(item.SOCSOEmployee).
		Add(item.EISEmployee).
		Add(item.PCB).
		Add(item.AdvanceDeduction).
		Add(item.OtherDeductions).Round(2)
	item.NetPay = item.GrossSalary.Sub(item.TotalDeductions).Add(attendanceDeductions).Round(2)
	item.EmployerCost = item.GrossSalary.
		Add(item.EPFEmployer).
		Add(item.SOCSOEmployer).
		Add(item.EISEmployer).Round(2)

	// Step 12: variance against the prior month.
	item.VarianceAmount = decimal.Zero
	item.VariancePercent = decimal.Zero
	if in.Prior != nil && in.Prior.NetPay.IsPositive() {
		item.VarianceAmount = item.NetPay.Sub(in.Prior.NetPay).Round(2)
		item.VariancePercent = item.VarianceAmount.Div(in.Prior.NetPay).Mul(hundred).Round(2)
		if item.VariancePercent.Abs().GreaterThan(cfg.Features.VarianceThreshold) {
			warnings = append(warnings, fmt.Sprintf(
				"employee %s: net pay variance %s%% exceeds threshold %s%%",
				emp.Code, item.VariancePercent, cfg.Features.VarianceThreshold))
		}
	}

	return warnings
}

func periodEndOf(in ItemInput) time.Time {
	return ComputePeriod(in.Config, in.Month, in.Year).End
}
