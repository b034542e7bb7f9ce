package payroll

import (
	"time"

	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	Month        int      `json:"month"`
	Year         int      `json:"year"`
	DepartmentID *string  `json:"department_id,omitempty"`
	OutletID     *string  `json:"outlet_id,omitempty"`
	EmployeeIDs  []string `json:"employee_ids,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.DepartmentID != nil && r.OutletID != nil {
		errs = append(errs, validator.ValidationError{Field: "department_id", Message: "cannot be combined with outlet_id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddEmployeesRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *AddEmployeesRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{Field: "employee_ids", Message: "is required"}}
	}
	return nil
}

type RunFilter struct {
	Month        *int
	Year         *int
	Status       *RunStatus
	DepartmentID *string
	OutletID     *string
	Page         int
	Limit        int
}

// ========== ITEM OVERRIDES ==========

// ItemOverrides carries manual edits to one pay item. A nil field means "not
// supplied"; a present field replaces the computed value even when zero.
type ItemOverrides struct {
	BasicSalary           *decimal.Decimal `json:"basic_salary,omitempty"`
	Wages                 *decimal.Decimal `json:"wages,omitempty"`
	FixedAllowance        *decimal.Decimal `json:"fixed_allowance,omitempty"`
	FlexAllowance         *decimal.Decimal `json:"flex_allowance,omitempty"`
	OTHours               *decimal.Decimal `json:"ot_hours,omitempty"`
	OTAmount              *decimal.Decimal `json:"ot_amount,omitempty"`
	PHPay                 *decimal.Decimal `json:"ph_pay,omitempty"`
	Commission            *decimal.Decimal `json:"commission,omitempty"`
	ClaimsAmount          *decimal.Decimal `json:"claims_amount,omitempty"`
	ShortHoursDeduction   *decimal.Decimal `json:"short_hours_deduction,omitempty"`
	AbsentDayDeduction    *decimal.Decimal `json:"absent_day_deduction,omitempty"`
	CombinedDaysNotWorked *decimal.Decimal `json:"combined_days_not_worked,omitempty"`
	AdvanceDeduction      *decimal.Decimal `json:"advance_deduction,omitempty"`
	OtherDeductions       *decimal.Decimal `json:"other_deductions,omitempty"`

	// Statutory overrides bypass the tables entirely.
	EPFEmployee   *decimal.Decimal `json:"epf_employee,omitempty"`
	SOCSOEmployee *decimal.Decimal `json:"socso_employee,omitempty"`
	PCB           *decimal.Decimal `json:"pcb,omitempty"`
}

// Empty reports whether no override was supplied.
func (o ItemOverrides) Empty() bool {
	return o == (ItemOverrides{})
}

func (o *ItemOverrides) Validate() error {
	var errs validator.ValidationErrors

	if o.Empty() {
		errs = append(errs, validator.ValidationError{Field: "overrides", Message: "at least one field must be supplied"})
		return errs
	}

	nonNegative := map[string]*decimal.Decimal{
		"basic_salary":          o.BasicSalary,
		"wages":                 o.Wages,
		"ot_hours":              o.OTHours,
		"short_hours_deduction": o.ShortHoursDeduction,
		"absent_day_deduction":  o.AbsentDayDeduction,
		"epf_employee":          o.EPFEmployee,
		"socso_employee":        o.SOCSOEmployee,
		"pcb":                   o.PCB,
	}
	for field, v := range nonNegative {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type RunResponse struct {
	ID                 string             `json:"id"`
	Month              int                `json:"month"`
	Year               int                `json:"year"`
	DepartmentID       *string            `json:"department_id,omitempty"`
	DepartmentName     *string            `json:"department_name,omitempty"`
	OutletID           *string            `json:"outlet_id,omitempty"`
	OutletName         *string            `json:"outlet_name,omitempty"`
	Status             string             `json:"status"`
	PeriodStart        string             `json:"period_start"`
	PeriodEnd          string             `json:"period_end"`
	PaymentDueDate     string             `json:"payment_due_date"`
	PeriodLabel        string             `json:"period_label"`
	TotalGross         decimal.Decimal    `json:"total_gross"`
	TotalNet           decimal.Decimal    `json:"total_net"`
	TotalDeductions    decimal.Decimal    `json:"total_deductions"`
	TotalEmployerCost  decimal.Decimal    `json:"total_employer_cost"`
	EmployeeCount      int                `json:"employee_count"`
	ApprovedBy         *string            `json:"approved_by,omitempty"`
	ApprovedAt         *string            `json:"approved_at,omitempty"`
	FinalizedAt        *string            `json:"finalized_at,omitempty"`
	ExcludedEmployees  []ExcludedEmployee `json:"excluded_employees,omitempty"`
	HasVarianceWarning bool               `json:"has_variance_warning"`
	Warnings           []string           `json:"warnings,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
	Items              []ItemResponse     `json:"items,omitempty"`
}

type ItemResponse struct {
	ID           string          `json:"id"`
	RunID        string          `json:"run_id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	EmployeeCode string          `json:"employee_code,omitempty"`
	Method       string          `json:"calculation_method"`

	BasicSalary     decimal.Decimal `json:"basic_salary"`
	Wages           decimal.Decimal `json:"wages"`
	FixedAllowance  decimal.Decimal `json:"fixed_allowance"`
	FlexAllowance   decimal.Decimal `json:"flex_allowance"`
	Commission      decimal.Decimal `json:"commission"`
	OTHours         decimal.Decimal `json:"ot_hours"`
	OTAmount        decimal.Decimal `json:"ot_amount"`
	PHDaysWorked    int             `json:"ph_days_worked"`
	PHPay           decimal.Decimal `json:"ph_pay"`
	ClaimsAmount    decimal.Decimal `json:"claims_amount"`
	AttendanceBonus decimal.Decimal `json:"attendance_bonus"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`

	UnpaidLeaveDays      decimal.Decimal `json:"unpaid_leave_days"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	AbsentDays           decimal.Decimal `json:"absent_days"`
	AbsentDayDeduction   decimal.Decimal `json:"absent_day_deduction"`
	ShortHours           decimal.Decimal `json:"short_hours"`
	ShortHoursDeduction  decimal.Decimal `json:"short_hours_deduction"`

	StatutoryBase decimal.Decimal `json:"statutory_base"`
	EPFEmployee   decimal.Decimal `json:"epf_employee"`
	EPFEmployer   decimal.Decimal `json:"epf_employer"`
	SOCSOEmployee decimal.Decimal `json:"socso_employee"`
	SOCSOEmployer decimal.Decimal `json:"socso_employer"`
	EISEmployee   decimal.Decimal `json:"eis_employee"`
	EISEmployer   decimal.Decimal `json:"eis_employer"`
	PCB           decimal.Decimal `json:"pcb"`

	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	EmployerCost    decimal.Decimal `json:"employer_cost"`

	VarianceAmount  decimal.Decimal `json:"variance_amount"`
	VariancePercent decimal.Decimal `json:"variance_percent"`

	Attendance *ItemAttendance `json:"attendance,omitempty"`
}

type ListRunsResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// BatchOutcome reports one grouping's result from GenerateAllDepartments /
// GenerateAllOutlets.
type BatchOutcome struct {
	GroupingID   string  `json:"grouping_id"`
	GroupingName string  `json:"grouping_name"`
	RunID        *string `json:"run_id,omitempty"`
	Skipped      bool    `json:"skipped"`
	Reason       *string `json:"reason,omitempty"`
}

// ========== MAPPERS ==========

func ToRunResponse(r PayrollRun, items []PayItem) RunResponse {
	resp := RunResponse{
		ID:                 r.ID,
		Month:              r.Month,
		Year:               r.Year,
		DepartmentID:       r.DepartmentID,
		DepartmentName:     r.DepartmentName,
		OutletID:           r.OutletID,
		OutletName:         r.OutletName,
		Status:             string(r.Status),
		PeriodStart:        r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          r.PeriodEnd.Format("2006-01-02"),
		PaymentDueDate:     r.PaymentDueDate.Format("2006-01-02"),
		PeriodLabel:        r.PeriodLabel,
		TotalGross:         r.TotalGross,
		TotalNet:           r.TotalNet,
		TotalDeductions:    r.TotalDeductions,
		TotalEmployerCost:  r.TotalEmployerCost,
		EmployeeCount:      r.EmployeeCount,
		ApprovedBy:         r.ApprovedBy,
		ExcludedEmployees:  r.ExcludedEmployees,
		HasVarianceWarning: r.HasVarianceWarning,
		Warnings:           r.Warnings,
		Notes:              r.Notes,
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if r.FinalizedAt != nil {
		s := r.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &s
	}
	for _, it := range items {
		resp.Items = append(resp.Items, ToItemResponse(it))
	}
	return resp
}

func ToItemResponse(p PayItem) ItemResponse {
	name := ""
	code := ""
	if p.EmployeeName != nil {
		name = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		code = *p.EmployeeCode
	}

	return ItemResponse{
		ID:                   p.ID,
		RunID:                p.RunID,
		EmployeeID:           p.EmployeeID,
		EmployeeName:         name,
		EmployeeCode:         code,
		Method:               string(p.Method),
		BasicSalary:          p.BasicSalary,
		Wages:                p.Wages,
		FixedAllowance:       p.FixedAllowance,
		FlexAllowance:        p.FlexAllowance,
		Commission:           p.Commission,
		OTHours:              p.OTHours,
		OTAmount:             p.OTAmount,
		PHDaysWorked:         p.PHDaysWorked,
		PHPay:                p.PHPay,
		ClaimsAmount:         p.ClaimsAmount,
		AttendanceBonus:      p.AttendanceBonus,
		GrossSalary:          p.GrossSalary,
		UnpaidLeaveDays:      p.UnpaidLeaveDays,
		UnpaidLeaveDeduction: p.UnpaidLeaveDeduction,
		AbsentDays:           p.AbsentDays,
		AbsentDayDeduction:   p.AbsentDayDeduction,
		ShortHours:           p.ShortHours,
		ShortHoursDeduction:  p.ShortHoursDeduction,
		StatutoryBase:        p.StatutoryBase,
		EPFEmployee:          p.EPFEmployee,
		EPFEmployer:          p.EPFEmployer,
		SOCSOEmployee:        p.SOCSOEmployee,
		SOCSOEmployer:        p.SOCSOEmployer,
		EISEmployee:          p.EISEmployee,
		EISEmployer:          p.EISEmployer,
		PCB:                  p.PCB,
		AdvanceDeduction:     p.AdvanceDeduction,
		OtherDeductions:      p.OtherDeductions,
		TotalDeductions:      p.TotalDeductions,
		NetPay:               p.NetPay,
		EmployerCost:         p.EmployerCost,
		VarianceAmount:       p.VarianceAmount,
		VariancePercent:      p.VariancePercent,
		Attendance:           p.Attendance,
	}
}
