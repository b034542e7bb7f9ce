package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func (r *attendanceRepositoryImpl) ListSchedules(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.ScheduleEntry, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, employee_id, company_id, schedule_date, shift_start, shift_end, status
		FROM work_schedules
		WHERE company_id = $1 AND employee_id = $2
		  AND schedule_date >= $3 AND schedule_date <= $4
		  AND deleted_at IS NULL
		ORDER BY schedule_date`

	rows, err := q.Query(ctx, sql, companyID, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var entries []attendance.ScheduleEntry
	for rows.Next() {
		var e attendance.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.CompanyID, &e.Date, &e.ShiftStart, &e.ShiftEnd, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *attendanceRepositoryImpl) ListClockRecords(ctx context.Context, companyID, employeeID string, start, end time.Time) ([]attendance.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, employee_id, company_id, work_date,
		       clock_in_1, clock_out_1, clock_in_2, clock_out_2,
		       COALESCE(total_work_minutes, 0), COALESCE(ot_minutes, 0), ot_approved,
		       status
		FROM clock_records
		WHERE company_id = $1 AND employee_id = $2
		  AND work_date >= $3 AND work_date <= $4
		  AND deleted_at IS NULL
		ORDER BY work_date`

	rows, err := q.Query(ctx, sql, companyID, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock records: %w", err)
	}
	defer rows.Close()

	var records []attendance.ClockRecord
	for rows.Next() {
		var c attendance.ClockRecord
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.CompanyID, &c.WorkDate,
			&c.ClockIn1, &c.ClockOut1, &c.ClockIn2, &c.ClockOut2,
			&c.TotalWorkMinutes, &c.OTMinutes, &c.OTApproved,
			&c.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, c)
	}
	return records, rows.Err()
}

func (r *attendanceRepositoryImpl) ListPublicHolidays(ctx context.Context, companyID string, start, end time.Time) ([]attendance.PublicHoliday, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT id, company_id, holiday_date, name, extra_pay
		FROM public_holidays
		WHERE company_id = $1 AND holiday_date >= $2 AND holiday_date <= $3
		  AND deleted_at IS NULL
		ORDER BY holiday_date`

	rows, err := q.Query(ctx, sql, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list public holidays: %w", err)
	}
	defer rows.Close()

	var holidays []attendance.PublicHoliday
	for rows.Next() {
		var h attendance.PublicHoliday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.ExtraPay); err != nil {
			return nil, fmt.Errorf("failed to scan public holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *attendanceRepositoryImpl) CountScheduledOrClocked(ctx context.Context, companyID string, employeeIDs []string, start, end time.Time) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT DISTINCT employee_id FROM (
			SELECT employee_id
			FROM work_schedules
			WHERE company_id = $1 AND employee_id = ANY($2)
			  AND schedule_date >= $3 AND schedule_date <= $4
			  AND status <> 'cancelled' AND deleted_at IS NULL
			UNION ALL
			SELECT employee_id
			FROM clock_records
			WHERE company_id = $1 AND employee_id = ANY($2)
			  AND work_date >= $3 AND work_date <= $4
			  AND deleted_at IS NULL
		) activity`

	rows, err := q.Query(ctx, sql, companyID, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled or clocked employees: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(employeeIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		present[id] = true
	}
	return present, rows.Err()
}
