package payroll

import (
	"testing"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

func TestManualEditKeepsVariance(t *testing.T) {
	t.Parallel()

	prior := payroll.PayItem{NetPay: d("1500")}
	in := ItemInput{
		Employee:    fullTimeEmployee("2000"),
		Config:      testConfig(),
		Month:       2,
		Year:        2025,
		WorkingDays: 22,
		Prior:       &prior,
	}
	item, _ := ComputeItem(in)
	assert.True(t, d("266.35").Equal(item.VarianceAmount), "variance %s", item.VarianceAmount)
	assert.True(t, d("17.76").Equal(item.VariancePercent), "percent %s", item.VariancePercent)

	// A manual edit re-enters the finalize tail; the prior item rides along
	// so the variance lines survive the edit.
	svc := &PayrollServiceImpl{}
	comp := company.Company{Config: in.Config}
	run := payroll.PayrollRun{Month: in.Month, Year: in.Year}
	rein := svc.finalizeInput(in.Employee, comp, run, item, &prior)
	assert.NotNil(t, rein.Prior)

	so := applyOverrides(&item, payroll.ItemOverrides{OtherDeductions: dp("50")}, rein)
	FinalizeItem(&item, rein, so)

	assert.True(t, d("1716.35").Equal(item.NetPay), "net %s", item.NetPay)
	assert.True(t, d("216.35").Equal(item.VarianceAmount), "variance %s", item.VarianceAmount)
	assert.True(t, d("14.42").Equal(item.VariancePercent), "percent %s", item.VariancePercent)
	assertClosure(t, item)
}

func TestTallyRunAccumulatesWarnings(t *testing.T) {
	t.Parallel()

	run := payroll.PayrollRun{Warnings: []string{"employee E001: zero basic salary"}}
	tallyRun(&run, nil, testConfig(), []string{"employee E002: recalculation failed"})
	assert.Equal(t, []string{
		"employee E001: zero basic salary",
		"employee E002: recalculation failed",
	}, run.Warnings)

	// Repeating the same edit does not stack a duplicate line.
	tallyRun(&run, nil, testConfig(), []string{"employee E002: recalculation failed"})
	assert.Len(t, run.Warnings, 2)
}
