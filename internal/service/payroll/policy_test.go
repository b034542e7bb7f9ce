package payroll

import (
	"strings"
	"testing"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	attendancesvc "github.com/gajihub/payroll-backend-go/internal/service/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func testConfig() company.PayrollConfig {
	cfg := company.DefaultPayrollConfig()
	cfg.Rates.StandardWorkDays = 22
	return cfg
}

func fullTimeEmployee(basic string) employee.Employee {
	dob := time.Date(1994, 6, 15, 0, 0, 0, 0, time.UTC)
	return employee.Employee{
		ID:            "emp-1",
		CompanyID:     "co-1",
		Code:          "E001",
		Name:          "Aina Binti Rahman",
		DateOfBirth:   &dob,
		Gender:        employee.GenderFemale,
		Residency:     employee.ResidencyResident,
		MaritalStatus: employee.MaritalSingle,
		JoinDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.StatusActive,
		WorkType:      employee.WorkFullTime,
		BasicSalary:   d(basic),
		AllowancePCB:  employee.AllowancePCBIncluded,
	}
}

// assertClosure checks the net pay identity: the three attendance deductions
// were already taken out of gross, so net adds them back.
func assertClosure(t *testing.T, item payroll.PayItem) {
	t.Helper()
	attendanceDeductions := item.UnpaidLeaveDeduction.
		Add(item.AbsentDayDeduction).
		Add(item.ShortHoursDeduction)
	want := item.GrossSalary.Sub(item.TotalDeductions).Add(attendanceDeductions)
	assert.True(t, want.Equal(item.NetPay), "net %s != closure %s", item.NetPay, want)
}

func TestComputeItemFullTimeBaseline(t *testing.T) {
	t.Parallel()

	in := ItemInput{
		Employee:    fullTimeEmployee("2000"),
		Config:      testConfig(),
		Month:       1,
		Year:        2025,
		WorkingDays: 22,
	}
	item, _ := ComputeItem(in)

	assert.Equal(t, payroll.MethodBasic, item.Method)
	assert.True(t, d("2000").Equal(item.GrossSalary), "gross %s", item.GrossSalary)
	assert.True(t, d("2000").Equal(item.StatutoryBase), "base %s", item.StatutoryBase)
	assert.True(t, d("220").Equal(item.EPFEmployee), "epf ee %s", item.EPFEmployee)
	assert.True(t, d("260").Equal(item.EPFEmployer), "epf er %s", item.EPFEmployer)
	assert.True(t, d("9.75").Equal(item.SOCSOEmployee), "socso ee %s", item.SOCSOEmployee)
	assert.True(t, d("34.15").Equal(item.SOCSOEmployer), "socso er %s", item.SOCSOEmployer)
	assert.True(t, d("3.90").Equal(item.EISEmployee), "eis ee %s", item.EISEmployee)
	assert.True(t, item.PCB.IsZero(), "pcb %s", item.PCB)
	assert.True(t, d("233.65").Equal(item.TotalDeductions), "deductions %s", item.TotalDeductions)
	assert.True(t, d("1766.35").Equal(item.NetPay), "net %s", item.NetPay)
	assert.True(t, d("2298.05").Equal(item.EmployerCost), "employer cost %s", item.EmployerCost)
	assertClosure(t, item)
}

func TestComputeItemPartTime(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Statutory.EPFEnabled = false
	cfg.Statutory.SOCSOEnabled = false
	cfg.Statutory.EISEnabled = false
	cfg.Statutory.PCBEnabled = false

	emp := fullTimeEmployee("0")
	emp.WorkType = employee.WorkPartTime
	emp.HourlyRate = d("8.72")

	in := ItemInput{
		Employee:    emp,
		Config:      cfg,
		Month:       3,
		Year:        2025,
		WorkingDays: 22,
		Attendance: AttendanceMetrics{
			PartTime: attendancesvc.PartTimeResult{
				NormalHours: d("100"),
				PHHours:     d("8"),
				NormalPay:   d("872.00"),
				PHPay:       d("139.52"),
				GrossSalary: d("1011.52"),
			},
			PHDays: 1,
		},
	}
	item, _ := ComputeItem(in)

	assert.Equal(t, payroll.MethodPartTime, item.Method)
	assert.True(t, item.BasicSalary.IsZero())
	assert.True(t, d("872.00").Equal(item.Wages))
	assert.True(t, d("139.52").Equal(item.PHPay))
	assert.True(t, d("1011.52").Equal(item.GrossSalary), "gross %s", item.GrossSalary)
	assert.True(t, d("1011.52").Equal(item.NetPay), "net %s", item.NetPay)
	assertClosure(t, item)
}

func TestComputeItemIndoorSales(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Features.IndoorSalesLogic = true
	cfg.Rates.IndoorSalesBasic = d("2000")
	cfg.Rates.IndoorSalesCommissionRate = d("10")

	structure := "indoor_sales"
	emp := fullTimeEmployee("1800")
	emp.StructureCode = &structure

	// High sales: commission beats the floor and becomes the basic.
	in := ItemInput{
		Employee:    emp,
		Config:      cfg,
		Month:       1,
		Year:        2025,
		WorkingDays: 22,
		Sales:       d("50000"),
		Commission:  d("150"),
	}
	item, _ := ComputeItem(in)
	assert.Equal(t, payroll.MethodCommission, item.Method)
	assert.True(t, d("5000").Equal(item.BasicSalary), "basic %s", item.BasicSalary)
	assert.True(t, item.Commission.IsZero(), "commission must be zeroed")

	// Low sales: the floor holds.
	in.Sales = d("10000")
	item, _ = ComputeItem(in)
	assert.Equal(t, payroll.MethodBasic, item.Method)
	assert.True(t, d("2000").Equal(item.BasicSalary), "basic %s", item.BasicSalary)
	assertClosure(t, item)
}

func TestComputeItemSalaryCarryForward(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Features.SalaryCarryForward = true

	prior := payroll.PayItem{
		BasicSalary:    d("2500"),
		FixedAllowance: d("300"),
		NetPay:         d("2500"),
	}
	in := ItemInput{
		Employee:    fullTimeEmployee("2000"),
		Config:      cfg,
		Month:       2,
		Year:        2025,
		WorkingDays: 22,
		Prior:       &prior,
	}
	item, _ := ComputeItem(in)

	assert.True(t, d("2500").Equal(item.BasicSalary), "carried basic %s", item.BasicSalary)
	assert.True(t, d("300").Equal(item.FixedAllowance), "carried allowance %s", item.FixedAllowance)
}

func TestComputeItemUnpaidLeaveDeduction(t *testing.T) {
	t.Parallel()

	in := ItemInput{
		Employee:        fullTimeEmployee("2200"),
		Config:          testConfig(),
		Month:           1,
		Year:            2025,
		WorkingDays:     22,
		UnpaidLeaveDays: d("2"),
	}
	item, _ := ComputeItem(in)

	assert.True(t, d("2").Equal(item.UnpaidLeaveDays))
	assert.True(t, d("200").Equal(item.UnpaidLeaveDeduction), "deduction %s", item.UnpaidLeaveDeduction)
	assert.True(t, d("2000").Equal(item.GrossSalary), "gross %s", item.GrossSalary)
	assertClosure(t, item)
}

func TestComputeItemOutletScheduleBasedPay(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Rates.StandardWorkDays = 26
	cfg.Statutory.PCBEnabled = false

	in := ItemInput{
		Employee:      fullTimeEmployee("2600"),
		Config:        cfg,
		OutletGrouped: true,
		Month:         1,
		Year:          2025,
		WorkingDays:   26,
		Attendance: AttendanceMetrics{
			HasSchedule: true,
			Schedule: attendancesvc.ScheduleAttendance{
				ScheduledDays: 26,
				AttendedDays:  24,
				PayableDays:   24,
				AbsentDays:    2,
				LateDays:      0,
				ShortHours:    decimal.Zero,
			},
		},
	}
	item, _ := ComputeItem(in)

	// basic − payable × (basic / scheduled) = 2600 − 24×100 = 200.
	assert.True(t, d("200").Equal(item.UnpaidLeaveDeduction), "unpaid %s", item.UnpaidLeaveDeduction)
	assert.True(t, d("2").Equal(item.AbsentDays))
	// Absent deduction stays zero: the schedule-based figure already covers it.
	assert.True(t, item.AbsentDayDeduction.IsZero())
	// Penalty 2 steps the bonus down to 200.
	assert.True(t, d("200").Equal(item.AttendanceBonus), "bonus %s", item.AttendanceBonus)
	assertClosure(t, item)
}

func TestAttendanceBonusSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		penalty int64
		want    string
	}{
		{0, "400"},
		{1, "300"},
		{2, "200"},
		{3, "100"},
		{4, "0"},
		{9, "0"},
	}
	for _, tc := range tests {
		got := attendanceBonus(tc.penalty)
		assert.True(t, d(tc.want).Equal(got), "penalty %d: got %s", tc.penalty, got)
	}
}

func TestComputeItemVarianceWarning(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Statutory.EPFEnabled = false
	cfg.Statutory.SOCSOEnabled = false
	cfg.Statutory.EISEnabled = false
	cfg.Statutory.PCBEnabled = false

	prior := payroll.PayItem{NetPay: d("1000")}
	in := ItemInput{
		Employee:    fullTimeEmployee("2000"),
		Config:      cfg,
		Month:       2,
		Year:        2025,
		WorkingDays: 22,
		Prior:       &prior,
	}
	item, warnings := ComputeItem(in)

	assert.True(t, d("1000").Equal(item.VarianceAmount), "amount %s", item.VarianceAmount)
	assert.True(t, d("100").Equal(item.VariancePercent), "percent %s", item.VariancePercent)

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "variance") {
			found = true
		}
	}
	assert.True(t, found, "expected a variance warning, got %v", warnings)
}

func TestApplyOverridesReentersAtGross(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Statutory.EPFEnabled = false
	cfg.Statutory.SOCSOEnabled = false
	cfg.Statutory.EISEnabled = false
	cfg.Statutory.PCBEnabled = false

	in := ItemInput{
		Employee:    fullTimeEmployee("2000"),
		Config:      cfg,
		Month:       1,
		Year:        2025,
		WorkingDays: 22,
	}
	item, _ := ComputeItem(in)
	assert.True(t, d("2000").Equal(item.NetPay))

	overrides := payroll.ItemOverrides{
		OTAmount:        dp("100"),
		OtherDeductions: dp("50"),
		PCB:             dp("75"),
	}
	so := applyOverrides(&item, overrides, in)
	FinalizeItem(&item, in, so)

	assert.True(t, item.OTManual)
	assert.True(t, d("2100").Equal(item.GrossSalary), "gross %s", item.GrossSalary)
	assert.True(t, d("75").Equal(item.PCB), "pcb override %s", item.PCB)
	assert.True(t, d("125").Equal(item.TotalDeductions), "deductions %s", item.TotalDeductions)
	assert.True(t, d("1975").Equal(item.NetPay), "net %s", item.NetPay)
	assertClosure(t, item)
}

func TestApplyOverridesCombinedDaysNotWorked(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Statutory.EPFEnabled = false
	cfg.Statutory.SOCSOEnabled = false
	cfg.Statutory.EISEnabled = false
	cfg.Statutory.PCBEnabled = false

	in := ItemInput{
		Employee:    fullTimeEmployee("2200"),
		Config:      cfg,
		Month:       1,
		Year:        2025,
		WorkingDays: 22,
	}
	item, _ := ComputeItem(in)

	so := applyOverrides(&item, payroll.ItemOverrides{CombinedDaysNotWorked: dp("3")}, in)
	FinalizeItem(&item, in, so)

	assert.True(t, item.AbsentManual)
	assert.True(t, d("3").Equal(item.AbsentDays))
	assert.True(t, d("300").Equal(item.AbsentDayDeduction), "deduction %s", item.AbsentDayDeduction)
	assert.True(t, d("1900").Equal(item.GrossSalary), "gross %s", item.GrossSalary)
	assertClosure(t, item)
}

func TestComputeItemZeroBasicWarning(t *testing.T) {
	t.Parallel()

	in := ItemInput{
		Employee:    fullTimeEmployee("0"),
		Config:      testConfig(),
		Month:       1,
		Year:        2025,
		WorkingDays: 22,
	}
	_, warnings := ComputeItem(in)

	found := false
	for _, w := range warnings {
		if strings.Contains(w, "zero basic salary") {
			found = true
		}
	}
	assert.True(t, found, "expected zero basic warning, got %v", warnings)
}
