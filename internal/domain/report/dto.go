package report

import "github.com/shopspring/decimal"

// RunSummary is the monthly roll-up across all runs of a period.
type RunSummary struct {
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	RunCount          int             `json:"run_count"`
	EmployeeCount     int             `json:"employee_count"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalNet          decimal.Decimal `json:"total_net"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
	TotalEPFEmployee  decimal.Decimal `json:"total_epf_employee"`
	TotalEPFEmployer  decimal.Decimal `json:"total_epf_employer"`
	TotalSOCSO        decimal.Decimal `json:"total_socso"`
	TotalEIS          decimal.Decimal `json:"total_eis"`
	TotalPCB          decimal.Decimal `json:"total_pcb"`
}

// GroupTotals is one grouping unit's slice of a period.
type GroupTotals struct {
	GroupingID    string          `json:"grouping_id"`
	GroupingName  string          `json:"grouping_name"`
	EmployeeCount int             `json:"employee_count"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalNet      decimal.Decimal `json:"total_net"`
	TotalOT       decimal.Decimal `json:"total_ot"`
}

// OTSummary aggregates overtime by approval state with the estimated pay.
type OTSummary struct {
	ApprovedHours decimal.Decimal `json:"approved_hours"`
	ApprovedPay   decimal.Decimal `json:"approved_pay"`
	PendingHours  decimal.Decimal `json:"pending_hours"`
	PendingPay    decimal.Decimal `json:"pending_pay"`
	RejectedHours decimal.Decimal `json:"rejected_hours"`
	EmployeeCount int             `json:"employee_count"`
}

// EmployeeYTD is the year-to-date extraction feeding PCB.
type EmployeeYTD struct {
	EmployeeID string          `json:"employee_id"`
	Year       int             `json:"year"`
	Gross      decimal.Decimal `json:"gross"`
	EPF        decimal.Decimal `json:"epf"`
	PCB        decimal.Decimal `json:"pcb"`
	Months     int             `json:"months"`
}
