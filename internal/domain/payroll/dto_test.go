package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateRunRequestValidate(t *testing.T) {
	t.Parallel()

	dept := "dept-1"
	outlet := "outlet-1"

	valid := CreateRunRequest{Month: 1, Year: 2025}
	assert.NoError(t, valid.Validate())

	badMonth := CreateRunRequest{Month: 13, Year: 2025}
	assert.Error(t, badMonth.Validate())

	badYear := CreateRunRequest{Month: 1, Year: 1999}
	assert.Error(t, badYear.Validate())

	bothGroupings := CreateRunRequest{Month: 1, Year: 2025, DepartmentID: &dept, OutletID: &outlet}
	assert.Error(t, bothGroupings.Validate())

	oneGrouping := CreateRunRequest{Month: 1, Year: 2025, OutletID: &outlet}
	assert.NoError(t, oneGrouping.Validate())
}

func TestItemOverridesValidate(t *testing.T) {
	t.Parallel()

	negative := decimal.NewFromInt(-5)
	positive := decimal.NewFromInt(5)

	// An empty payload is a client mistake, not a no-op.
	var empty ItemOverrides
	assert.True(t, empty.Empty())
	assert.Error(t, empty.Validate())

	ok := ItemOverrides{PCB: &positive, OTHours: &positive}
	assert.False(t, ok.Empty())
	assert.NoError(t, ok.Validate())

	bad := ItemOverrides{PCB: &negative}
	assert.Error(t, bad.Validate())

	// OtherDeductions may be negative: it doubles as a manual adjustment line.
	adjustment := ItemOverrides{OtherDeductions: &negative}
	assert.NoError(t, adjustment.Validate())
}

func TestRunEditable(t *testing.T) {
	t.Parallel()

	assert.True(t, PayrollRun{Status: RunDraft}.Editable())
	assert.True(t, PayrollRun{Status: RunApproved}.Editable())
	assert.False(t, PayrollRun{Status: RunFinalized}.Editable())
}
