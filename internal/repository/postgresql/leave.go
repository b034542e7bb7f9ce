package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/leave"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func (r *leaveRepositoryImpl) ListApprovedOverlapping(ctx context.Context, companyID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT lr.id, lr.employee_id, lr.company_id, lr.leave_type_id,
		       lr.start_date, lr.end_date, lr.status, lr.total_days,
		       lt.is_paid, lt.name
		FROM leave_requests lr
		JOIN leave_types lt ON lt.id = lr.leave_type_id
		WHERE lr.company_id = $1
		  AND lr.status = 'approved'
		  AND lr.start_date <= $3 AND lr.end_date >= $2
		  AND lr.deleted_at IS NULL
		ORDER BY lr.start_date`

	rows, err := q.Query(ctx, sql, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.CompanyID, &lr.LeaveTypeID,
			&lr.StartDate, &lr.EndDate, &lr.Status, &lr.TotalDays,
			&lr.IsPaid, &lr.LeaveTypeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}
