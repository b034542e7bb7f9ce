package claim

import (
	"context"
	"time"
)

type ClaimRepository interface {
	// ListApprovedUnlinked returns approved claims dated inside [start, end]
	// that no pay item has reimbursed yet.
	ListApprovedUnlinked(ctx context.Context, companyID string, start, end time.Time) ([]Claim, error)

	// LinkToPayItem stamps linked_pay_item_id on the given claims. Only
	// called inside the finalize transaction.
	LinkToPayItem(ctx context.Context, companyID string, claimIDs []string, payItemID string) error
}
