package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/advance"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

func (r *advanceRepositoryImpl) ListDue(ctx context.Context, companyID string, year, month int) ([]advance.SalaryAdvance, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, employee_id, company_id, amount, remaining_balance,
		       COALESCE(installment_amount, 0), deduction_method, status,
		       expected_deduction_year, expected_deduction_month,
		       created_at, updated_at
		FROM salary_advances
		WHERE company_id = $1
		  AND status = 'active'
		  AND remaining_balance > 0
		  AND (expected_deduction_year < $2
		       OR (expected_deduction_year = $2 AND expected_deduction_month <= $3))
		  AND deleted_at IS NULL
		ORDER BY created_at`

	rows, err := q.Query(ctx, sql, companyID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list due salary advances: %w", err)
	}
	defer rows.Close()

	var advances []advance.SalaryAdvance
	for rows.Next() {
		var a advance.SalaryAdvance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Amount, &a.RemainingBalance,
			&a.InstallmentAmount, &a.DeductionMethod, &a.Status,
			&a.ExpectedDeductionYear, &a.ExpectedDeductionMonth,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary advance: %w", err)
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}
