package statutory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSOCSO_BracketLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wage     string
		employee string
		employer string
	}{
		{"lowest bracket", "25", "0.10", "0.40"},
		{"bracket upper bound inclusive", "2000", "9.75", "34.15"},
		{"just above bracket bound", "2000.01", "10.25", "35.85"},
		{"mid bracket", "2950", "14.75", "51.65"},
		{"ceiling bracket", "5000", "24.75", "86.65"},
		{"above ceiling capped", "12000", "24.75", "86.65"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := CalculateSOCSO(d(tt.wage), 30)
			require.NoError(t, err)
			assert.True(t, d(tt.employee).Equal(res.Employee), "employee: want %s got %s", tt.employee, res.Employee)
			assert.True(t, d(tt.employer).Equal(res.Employer), "employer: want %s got %s", tt.employer, res.Employer)
		})
	}
}

func TestCalculateSOCSO_SeniorEmployerOnly(t *testing.T) {
	t.Parallel()

	res, err := CalculateSOCSO(d("3000"), 60)
	require.NoError(t, err)
	assert.True(t, res.Employee.IsZero())
	assert.True(t, d("51.65").Equal(res.Employer))
}

func TestCalculateSOCSO_ZeroWage(t *testing.T) {
	t.Parallel()

	res, err := CalculateSOCSO(d("0"), 30)
	require.NoError(t, err)
	assert.True(t, res.Employee.IsZero())
	assert.True(t, res.Employer.IsZero())
}

func TestCalculateSOCSO_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CalculateSOCSO(d("-100"), 30)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateSOCSO(d("100"), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateEIS_BracketLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		wage   string
		amount string
	}{
		{"lowest bracket", "20", "0.05"},
		{"low bracket listed verbatim", "180", "0.35"},
		{"generated bracket", "2000", "3.90"},
		{"mid bracket", "2950", "5.90"},
		{"ceiling bracket", "5000", "9.90"},
		{"above ceiling capped", "9000", "9.90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := CalculateEIS(d(tt.wage), 30)
			require.NoError(t, err)
			assert.True(t, d(tt.amount).Equal(res.Employee), "employee: want %s got %s", tt.amount, res.Employee)
			assert.True(t, res.Employee.Equal(res.Employer))
		})
	}
}

func TestCalculateEIS_AgeLimit(t *testing.T) {
	t.Parallel()

	res, err := CalculateEIS(d("3000"), 57)
	require.NoError(t, err)
	assert.True(t, res.Employee.IsZero())
	assert.True(t, res.Employer.IsZero())

	res, err = CalculateEIS(d("3000"), 56)
	require.NoError(t, err)
	assert.False(t, res.Employee.IsZero())
}

func TestCalculateEIS_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CalculateEIS(d("-5"), 30)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
