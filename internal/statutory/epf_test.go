package statutory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateEPF_StandardRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wage     string
		age      int
		employee string
		employer string
	}{
		{"basic 2000 age 30", "2000", 30, "220", "260"},
		{"wage at employer switch", "5000", 45, "550", "650"},
		{"wage above employer switch", "6000", 45, "660", "720"},
		{"above 60 employer only", "3000", 61, "0", "120"},
		{"exactly 60 keeps standard rates", "3000", 60, "330", "390"},
		{"rounding to whole ringgit", "2550.40", 30, "281", "332"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := CalculateEPF(EPFInput{Wage: d(tt.wage), Age: tt.age})
			require.NoError(t, err)
			assert.True(t, d(tt.employee).Equal(res.Employee), "employee: want %s got %s", tt.employee, res.Employee)
			assert.True(t, d(tt.employer).Equal(res.Employer), "employer: want %s got %s", tt.employer, res.Employer)
		})
	}
}

func TestCalculateEPF_WageCeiling(t *testing.T) {
	t.Parallel()

	res, err := CalculateEPF(EPFInput{Wage: d("25000"), Age: 30})
	require.NoError(t, err)

	// Capped at 20000: 11% employee, 12% employer.
	assert.True(t, d("2200").Equal(res.Employee))
	assert.True(t, d("2400").Equal(res.Employer))
}

func TestCalculateEPF_RemunerationSplit(t *testing.T) {
	t.Parallel()

	in := EPFInput{
		Wage: d("4000"),
		Age:  30,
		Breakdown: RemunerationBreakdown{
			Basic:      d("3000"),
			Commission: d("1000"),
		},
	}
	res, err := CalculateEPF(in)
	require.NoError(t, err)

	assert.True(t, d("440").Equal(res.Employee))
	assert.True(t, res.EmployeeNormal.Add(res.EmployeeAdditional).Equal(res.Employee))
	assert.True(t, res.EmployerNormal.Add(res.EmployerAdditional).Equal(res.Employer))
	// 3000/4000 of 440, rounded to the Ringgit.
	assert.True(t, d("330").Equal(res.EmployeeNormal))
	assert.True(t, d("110").Equal(res.EmployeeAdditional))
}

func TestCalculateEPF_SplitWithoutBreakdown(t *testing.T) {
	t.Parallel()

	res, err := CalculateEPF(EPFInput{Wage: d("2000"), Age: 30})
	require.NoError(t, err)
	assert.True(t, res.EmployeeNormal.Equal(res.Employee))
	assert.True(t, res.EmployeeAdditional.IsZero())
}

func TestCalculateEPF_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CalculateEPF(EPFInput{Wage: d("-1"), Age: 30})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateEPF(EPFInput{Wage: d("2000"), Age: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
