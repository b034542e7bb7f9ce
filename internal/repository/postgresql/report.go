package postgresql

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/report"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

func minutesToHours(minutes float64) decimal.Decimal {
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) RunSummary(ctx context.Context, companyID string, month, year int) (report.RunSummary, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT COUNT(DISTINCT p.run_id),
		       COUNT(*),
		       COALESCE(SUM(p.gross_salary), 0),
		       COALESCE(SUM(p.net_pay), 0),
		       COALESCE(SUM(p.total_deductions), 0),
		       COALESCE(SUM(p.employer_cost), 0),
		       COALESCE(SUM(p.epf_employee), 0),
		       COALESCE(SUM(p.epf_employer), 0),
		       COALESCE(SUM(p.socso_employee + p.socso_employer), 0),
		       COALESCE(SUM(p.eis_employee + p.eis_employer), 0),
		       COALESCE(SUM(p.pcb), 0)
		FROM pay_items p
		WHERE p.company_id = $1 AND p.month = $2 AND p.year = $3`

	summary := report.RunSummary{Month: month, Year: year}
	err := q.QueryRow(ctx, sql, companyID, month, year).Scan(
		&summary.RunCount,
		&summary.EmployeeCount,
		&summary.TotalGross,
		&summary.TotalNet,
		&summary.TotalDeductions,
		&summary.TotalEmployerCost,
		&summary.TotalEPFEmployee,
		&summary.TotalEPFEmployer,
		&summary.TotalSOCSO,
		&summary.TotalEIS,
		&summary.TotalPCB,
	)
	if err != nil {
		return report.RunSummary{}, fmt.Errorf("failed to build run summary: %w", err)
	}
	return summary, nil
}

func (r *reportRepositoryImpl) GroupTotals(ctx context.Context, companyID string, month, year int, grouping string) ([]report.GroupTotals, error) {
	q := GetQuerier(ctx, r.db)

	// grouping is validated by the service; only two shapes exist.
	var sql string
	if grouping == "outlet" {
		sql = `
			SELECT o.id, o.name, COUNT(p.id),
			       COALESCE(SUM(p.gross_salary), 0),
			       COALESCE(SUM(p.net_pay), 0),
			       COALESCE(SUM(p.ot_amount), 0)
			FROM pay_items p
			JOIN payroll_runs r ON r.id = p.run_id
			JOIN outlets o ON o.id = r.outlet_id
			WHERE p.company_id = $1 AND p.month = $2 AND p.year = $3
			GROUP BY o.id, o.name
			ORDER BY o.name`
	} else {
		sql = `
			SELECT d.id, d.name, COUNT(p.id),
			       COALESCE(SUM(p.gross_salary), 0),
			       COALESCE(SUM(p.net_pay), 0),
			       COALESCE(SUM(p.ot_amount), 0)
			FROM pay_items p
			JOIN payroll_runs r ON r.id = p.run_id
			JOIN departments d ON d.id = r.department_id
			WHERE p.company_id = $1 AND p.month = $2 AND p.year = $3
			GROUP BY d.id, d.name
			ORDER BY d.name`
	}

	rows, err := q.Query(ctx, sql, companyID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to build group totals: %w", err)
	}
	defer rows.Close()

	var totals []report.GroupTotals
	for rows.Next() {
		var g report.GroupTotals
		err := rows.Scan(&g.GroupingID, &g.GroupingName, &g.EmployeeCount, &g.TotalGross, &g.TotalNet, &g.TotalOT)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group totals: %w", err)
		}
		totals = append(totals, g)
	}
	return totals, rows.Err()
}

func (r *reportRepositoryImpl) OTSummary(ctx context.Context, companyID string, month, year int) (report.OTSummary, error) {
	q := GetQuerier(ctx, r.db)

	// Estimated pay values OT minutes at each employee's effective hourly
	// rate times 1.5. Pending means ot_approved is still NULL.
	sql := `
		SELECT
			COALESCE(SUM(CASE WHEN c.ot_approved = true THEN c.ot_minutes ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.ot_approved = true THEN
				c.ot_minutes / 60.0 * (e.basic_salary / 26 / 8) * 1.5 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.ot_approved IS NULL THEN c.ot_minutes ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.ot_approved IS NULL THEN
				c.ot_minutes / 60.0 * (e.basic_salary / 26 / 8) * 1.5 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN c.ot_approved = false THEN c.ot_minutes ELSE 0 END), 0),
			COUNT(DISTINCT CASE WHEN c.ot_minutes > 0 THEN c.employee_id END)
		FROM clock_records c
		JOIN employees e ON e.id = c.employee_id
		WHERE c.company_id = $1
		  AND EXTRACT(MONTH FROM c.work_date) = $2
		  AND EXTRACT(YEAR FROM c.work_date) = $3
		  AND c.deleted_at IS NULL`

	var (
		summary         report.OTSummary
		approvedMinutes float64
		pendingMinutes  float64
		rejectedMinutes float64
	)
	err := q.QueryRow(ctx, sql, companyID, month, year).Scan(
		&approvedMinutes, &summary.ApprovedPay,
		&pendingMinutes, &summary.PendingPay,
		&rejectedMinutes,
		&summary.EmployeeCount,
	)
	if err != nil {
		return report.OTSummary{}, fmt.Errorf("failed to build OT summary: %w", err)
	}

	summary.ApprovedHours = minutesToHours(approvedMinutes)
	summary.PendingHours = minutesToHours(pendingMinutes)
	summary.RejectedHours = minutesToHours(rejectedMinutes)
	summary.ApprovedPay = summary.ApprovedPay.Round(2)
	summary.PendingPay = summary.PendingPay.Round(2)
	return summary, nil
}

func (r *reportRepositoryImpl) EmployeeYTD(ctx context.Context, companyID, employeeID string, year, beforeMonth int) (report.EmployeeYTD, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT COALESCE(SUM(gross_salary), 0),
		       COALESCE(SUM(epf_employee), 0),
		       COALESCE(SUM(pcb), 0),
		       COUNT(*)
		FROM pay_items
		WHERE company_id = $1 AND employee_id = $2 AND year = $3 AND month < $4`

	ytd := report.EmployeeYTD{EmployeeID: employeeID, Year: year}
	err := q.QueryRow(ctx, sql, companyID, employeeID, year, beforeMonth).Scan(
		&ytd.Gross, &ytd.EPF, &ytd.PCB, &ytd.Months,
	)
	if err != nil {
		return report.EmployeeYTD{}, fmt.Errorf("failed to build employee YTD: %w", err)
	}
	return ytd, nil
}
