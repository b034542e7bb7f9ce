package leave

import (
	"context"
	"time"
)

// LeaveRepository serves the inputs resolver: approved requests overlapping
// a period, with the paid flag joined from the leave type.
type LeaveRepository interface {
	ListApprovedOverlapping(ctx context.Context, companyID string, start, end time.Time) ([]LeaveRequest, error)
}
