package statutory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEIS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wage string
		age  int
		want string
	}{
		{"lowest bracket", "25", 30, "0.05"},
		{"bracket upper bound inclusive", "30", 30, "0.05"},
		{"mid bracket", "2000", 30, "3.90"},
		{"ceiling bracket", "5000", 30, "9.90"},
		{"above ceiling uses ceiling bracket", "8000", 30, "9.90"},
		{"zero wage", "0", 30, "0"},
		{"age at limit", "2000", 57, "0"},
		{"over age limit", "2000", 64, "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := CalculateEIS(decimal.RequireFromString(tc.wage), tc.age)
			require.NoError(t, err)
			want := decimal.RequireFromString(tc.want)
			assert.True(t, want.Equal(res.Employee), "employee: got %s want %s", res.Employee, want)
			assert.True(t, want.Equal(res.Employer), "employer: got %s want %s", res.Employer, want)
		})
	}
}

func TestCalculateEISInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CalculateEIS(decimal.RequireFromString("-1"), 30)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CalculateEIS(decimal.NewFromInt(2000), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
