package leave

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

type LeaveType struct {
	ID           string
	CompanyID    string
	Name         string
	Code         string
	IsPaid       bool
	DefaultQuota float64
	CarryForward bool
	MaxCarryOver float64
}

// LeaveRequest is an approved-or-pending span of leave. Payroll consumes
// only approved requests and clamps them to the pay period.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Status      RequestStatus
	TotalDays   float64

	// Joined fields
	IsPaid        *bool
	LeaveTypeName *string
}
