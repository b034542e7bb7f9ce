package response

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestHandleErrorStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"run not found", payroll.ErrRunNotFound, 404},
		{"item not found", payroll.ErrItemNotFound, 404},
		{"company not found", company.ErrCompanyNotFound, 404},
		{"department not found", company.ErrDepartmentNotFound, 404},
		{"employee not found", employee.ErrEmployeeNotFound, 404},
		{"run exists", payroll.ErrRunAlreadyExists, 409},
		{"run locked", payroll.ErrRunLocked, 409},
		{"run not draft", payroll.ErrRunNotDraft, 409},
		{"run finalized", payroll.ErrRunFinalized, 409},
		{"not approvable", payroll.ErrRunNotApprovable, 409},
		{"approval required", payroll.ErrApprovalRequired, 412},
		{"empty cohort", payroll.ErrEmptyCohort, 400},
		{"company mismatch", payroll.ErrCompanyMismatch, 403},
		{"unknown error", errors.New("boom"), 500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			HandleError(w, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestHandleErrorValidation(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	HandleError(w, validator.ValidationErrors{{Field: "month", Message: "must be between 1 and 12"}})
	assert.Equal(t, 422, w.Code)
	assert.Contains(t, w.Body.String(), "month")
}

func TestHandleErrorWrappedSentinel(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	HandleError(w, errors.Join(errors.New("create run"), payroll.ErrRunAlreadyExists))
	assert.Equal(t, 409, w.Code)
}
