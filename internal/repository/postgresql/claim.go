package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/claim"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
)

type claimRepositoryImpl struct {
	db *database.DB
}

func NewClaimRepository(db *database.DB) claim.ClaimRepository {
	return &claimRepositoryImpl{db: db}
}

func (r *claimRepositoryImpl) ListApprovedUnlinked(ctx context.Context, companyID string, start, end time.Time) ([]claim.Claim, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, employee_id, company_id, claim_date, description, amount,
		       status, linked_pay_item_id, created_at, updated_at
		FROM claims
		WHERE company_id = $1
		  AND status = 'approved'
		  AND linked_pay_item_id IS NULL
		  AND claim_date >= $2 AND claim_date <= $3
		  AND deleted_at IS NULL
		ORDER BY claim_date`

	rows, err := q.Query(ctx, sql, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved unlinked claims: %w", err)
	}
	defer rows.Close()

	var claims []claim.Claim
	for rows.Next() {
		var c claim.Claim
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.CompanyID, &c.ClaimDate, &c.Description, &c.Amount,
			&c.Status, &c.LinkedPayItemID, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (r *claimRepositoryImpl) LinkToPayItem(ctx context.Context, companyID string, claimIDs []string, payItemID string) error {
	if len(claimIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	sql := `
		UPDATE claims
		SET linked_pay_item_id = $1, updated_at = $2
		WHERE company_id = $3 AND id = ANY($4) AND linked_pay_item_id IS NULL`

	if _, err := q.Exec(ctx, sql, payItemID, time.Now(), companyID, claimIDs); err != nil {
		return fmt.Errorf("failed to link claims to pay item %s: %w", payItemID, err)
	}
	return nil
}
