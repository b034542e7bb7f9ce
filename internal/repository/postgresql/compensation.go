package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/compensation"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
)

type compensationRepositoryImpl struct {
	db *database.DB
}

func NewCompensationRepository(db *database.DB) compensation.CompensationRepository {
	return &compensationRepositoryImpl{db: db}
}

func (r *compensationRepositoryImpl) ListActiveCommissions(ctx context.Context, companyID string) ([]compensation.EmployeeCommission, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT ec.id, ec.employee_id, ec.company_id, ec.commission_type_id,
		       ec.amount, ec.is_active, ec.created_at,
		       ct.name, ct.is_active
		FROM employee_commissions ec
		JOIN commission_types ct ON ct.id = ec.commission_type_id
		WHERE ec.company_id = $1
		  AND ec.is_active = true
		  AND ct.is_active = true
		  AND ec.deleted_at IS NULL
		ORDER BY ec.created_at`

	rows, err := q.Query(ctx, sql, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active commissions: %w", err)
	}
	defer rows.Close()

	var commissions []compensation.EmployeeCommission
	for rows.Next() {
		var c compensation.EmployeeCommission
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.CompanyID, &c.CommissionTypeID,
			&c.Amount, &c.IsActive, &c.CreatedAt,
			&c.TypeName, &c.TypeActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee commission: %w", err)
		}
		commissions = append(commissions, c)
	}
	return commissions, rows.Err()
}

func (r *compensationRepositoryImpl) ListActiveAllowances(ctx context.Context, companyID string) ([]compensation.EmployeeAllowance, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT ea.id, ea.employee_id, ea.company_id, ea.allowance_type_id,
		       ea.amount, ea.is_active, ea.created_at,
		       at.name, at.is_taxable, at.is_active
		FROM employee_allowances ea
		JOIN allowance_types at ON at.id = ea.allowance_type_id
		WHERE ea.company_id = $1
		  AND ea.is_active = true
		  AND at.is_active = true
		  AND ea.deleted_at IS NULL
		ORDER BY ea.created_at`

	rows, err := q.Query(ctx, sql, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active allowances: %w", err)
	}
	defer rows.Close()

	var allowances []compensation.EmployeeAllowance
	for rows.Next() {
		var a compensation.EmployeeAllowance
		err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.AllowanceTypeID,
			&a.Amount, &a.IsActive, &a.CreatedAt,
			&a.TypeName, &a.TypeTaxable, &a.TypeActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	return allowances, rows.Err()
}

func (r *compensationRepositoryImpl) ListSales(ctx context.Context, companyID string, year, month int) ([]compensation.SalesRecord, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, employee_id, company_id, month, year, total_sales
		FROM sales_records
		WHERE company_id = $1 AND year = $2 AND month = $3
		  AND deleted_at IS NULL`

	rows, err := q.Query(ctx, sql, companyID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales records: %w", err)
	}
	defer rows.Close()

	var records []compensation.SalesRecord
	for rows.Next() {
		var s compensation.SalesRecord
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.CompanyID, &s.Month, &s.Year, &s.TotalSales); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}
