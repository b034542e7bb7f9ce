package payroll

import "errors"

var (
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrRunAlreadyExists = errors.New("payroll run already exists for this period")
	ErrRunLocked        = errors.New("another run is being created for this period")
	ErrRunNotDraft      = errors.New("payroll run is not in draft state")
	ErrRunFinalized     = errors.New("payroll run is finalized and cannot be modified")
	ErrRunNotApprovable = errors.New("payroll run cannot be approved in its current state")
	ErrApprovalRequired = errors.New("payroll run must be approved before finalization")
	ErrItemNotFound     = errors.New("pay item not found")
	ErrEmptyCohort      = errors.New("no employees match the payroll period")
	ErrCompanyMismatch  = errors.New("entity belongs to a different company")
)
