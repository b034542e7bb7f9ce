package payroll

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMissingTable(t *testing.T) {
	t.Parallel()

	undefined := &pgconn.PgError{Code: "42P01", Message: `relation "sales_records" does not exist`}
	assert.True(t, missingTable(undefined))
	assert.True(t, missingTable(fmt.Errorf("failed to list sales: %w", undefined)))

	assert.False(t, missingTable(&pgconn.PgError{Code: "42703"}))
	assert.False(t, missingTable(errors.New("connection refused")))
	assert.False(t, missingTable(nil))
}
