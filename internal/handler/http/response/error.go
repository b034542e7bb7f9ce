package response

import (
	"errors"
	"net/http"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrItemNotFound):
		NotFound(w, "Pay item not found")
	case errors.Is(err, payroll.ErrRunAlreadyExists):
		Conflict(w, "A payroll run already exists for this period")
	case errors.Is(err, payroll.ErrRunLocked):
		Conflict(w, "Another run is being created for this period")
	case errors.Is(err, payroll.ErrRunNotDraft):
		Conflict(w, "Payroll run is not in draft state")
	case errors.Is(err, payroll.ErrRunFinalized):
		Conflict(w, "Payroll run is finalized and cannot be modified")
	case errors.Is(err, payroll.ErrRunNotApprovable):
		Conflict(w, "Payroll run cannot be approved in its current state")
	case errors.Is(err, payroll.ErrApprovalRequired):
		PreconditionFailed(w, "Payroll run must be approved before finalization")
	case errors.Is(err, payroll.ErrEmptyCohort):
		BadRequest(w, "No employees match the payroll period", nil)
	case errors.Is(err, payroll.ErrCompanyMismatch):
		Forbidden(w, "Entity belongs to a different company")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, company.ErrOutletNotFound):
		NotFound(w, "Outlet not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNotInScope):
		Forbidden(w, "Employee does not belong to this company")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
