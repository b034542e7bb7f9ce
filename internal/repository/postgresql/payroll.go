package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// ========== RUNS ==========

const runColumns = `
	r.id, r.company_id, r.month, r.year, r.department_id, r.outlet_id,
	r.status, r.period_start, r.period_end, r.payment_due_date, r.period_label,
	r.total_gross, r.total_net, r.total_deductions, r.total_employer_cost, r.employee_count,
	r.approved_by, r.approved_at, r.finalized_at,
	r.excluded_employees, r.has_variance_warning, r.warnings, r.notes,
	r.created_at, r.updated_at,
	d.name AS department_name, o.name AS outlet_name`

const runJoins = `
	LEFT JOIN departments d ON d.id = r.department_id
	LEFT JOIN outlets o ON o.id = r.outlet_id`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var (
		r           payroll.PayrollRun
		excludedRaw []byte
	)
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Month, &r.Year, &r.DepartmentID, &r.OutletID,
		&r.Status, &r.PeriodStart, &r.PeriodEnd, &r.PaymentDueDate, &r.PeriodLabel,
		&r.TotalGross, &r.TotalNet, &r.TotalDeductions, &r.TotalEmployerCost, &r.EmployeeCount,
		&r.ApprovedBy, &r.ApprovedAt, &r.FinalizedAt,
		&excludedRaw, &r.HasVarianceWarning, &r.Warnings, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt,
		&r.DepartmentName, &r.OutletName,
	)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	if len(excludedRaw) > 0 {
		if err := json.Unmarshal(excludedRaw, &r.ExcludedEmployees); err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("decode excluded employees: %w", err)
		}
	}
	return r, nil
}

func (r *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now

	excludedRaw, err := json.Marshal(run.ExcludedEmployees)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("encode excluded employees: %w", err)
	}

	sql := `
		INSERT INTO payroll_runs (
			id, company_id, month, year, department_id, outlet_id,
			status, period_start, period_end, payment_due_date, period_label,
			total_gross, total_net, total_deductions, total_employer_cost, employee_count,
			excluded_employees, has_variance_warning, warnings, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22
		)`

	_, err = q.Exec(ctx, sql,
		run.ID, run.CompanyID, run.Month, run.Year, run.DepartmentID, run.OutletID,
		run.Status, run.PeriodStart, run.PeriodEnd, run.PaymentDueDate, run.PeriodLabel,
		run.TotalGross, run.TotalNet, run.TotalDeductions, run.TotalEmployerCost, run.EmployeeCount,
		excludedRaw, run.HasVarianceWarning, run.Warnings, run.Notes,
		run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	return r.getRun(ctx, id, companyID, "")
}

func (r *payrollRepositoryImpl) GetRunForUpdate(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	return r.getRun(ctx, id, companyID, " FOR UPDATE OF r")
}

func (r *payrollRepositoryImpl) getRun(ctx context.Context, id string, companyID string, lock string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + runColumns + `
		FROM payroll_runs r` + runJoins + `
		WHERE r.id = $1 AND r.company_id = $2` + lock

	run, err := scanRun(q.QueryRow(ctx, sql, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run %s: %w", id, err)
	}
	return run, nil
}

func (r *payrollRepositoryImpl) GetRunByPeriod(ctx context.Context, companyID string, month, year int, departmentID, outletID *string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + runColumns + `
		FROM payroll_runs r` + runJoins + `
		WHERE r.company_id = $1 AND r.month = $2 AND r.year = $3
		  AND r.department_id IS NOT DISTINCT FROM $4
		  AND r.outlet_id IS NOT DISTINCT FROM $5`

	run, err := scanRun(q.QueryRow(ctx, sql, companyID, month, year, departmentID, outletID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run by period: %w", err)
	}
	return run, nil
}

func (r *payrollRepositoryImpl) ListRuns(ctx context.Context, companyID string, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE r.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != nil {
		where += fmt.Sprintf(" AND r.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		where += fmt.Sprintf(" AND r.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DepartmentID != nil {
		where += fmt.Sprintf(" AND r.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.OutletID != nil {
		where += fmt.Sprintf(" AND r.outlet_id = $%d", argIdx)
		args = append(args, *filter.OutletID)
		argIdx++
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM payroll_runs r" + where
	if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	sql := `SELECT ` + runColumns + ` FROM payroll_runs r` + runJoins + where +
		fmt.Sprintf(" ORDER BY r.year DESC, r.month DESC, r.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (r *payrollRepositoryImpl) UpdateRunTotals(ctx context.Context, run payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	excludedRaw, err := json.Marshal(run.ExcludedEmployees)
	if err != nil {
		return fmt.Errorf("encode excluded employees: %w", err)
	}

	sql := `
		UPDATE payroll_runs
		SET total_gross = $1, total_net = $2, total_deductions = $3,
		    total_employer_cost = $4, employee_count = $5,
		    excluded_employees = $6, has_variance_warning = $7, warnings = $8,
		    updated_at = $9
		WHERE id = $10 AND company_id = $11`

	tag, err := q.Exec(ctx, sql,
		run.TotalGross, run.TotalNet, run.TotalDeductions,
		run.TotalEmployerCost, run.EmployeeCount,
		excludedRaw, run.HasVarianceWarning, run.Warnings,
		time.Now(),
		run.ID, run.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepositoryImpl) SetRunApproved(ctx context.Context, id string, companyID string, approvedBy string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	sql := `
		UPDATE payroll_runs
		SET status = 'approved', approved_by = $1, approved_at = $2, updated_at = $2
		WHERE id = $3 AND company_id = $4`

	tag, err := q.Exec(ctx, sql, approvedBy, approvedAt, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to approve payroll run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepositoryImpl) SetRunFinalized(ctx context.Context, id string, companyID string, finalizedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	sql := `
		UPDATE payroll_runs
		SET status = 'finalized', finalized_at = $1, updated_at = $1
		WHERE id = $2 AND company_id = $3`

	tag, err := q.Exec(ctx, sql, finalizedAt, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to finalize payroll run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepositoryImpl) DeleteRun(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	// Items first; no ON DELETE CASCADE on pay_items.
	if _, err := q.Exec(ctx, `DELETE FROM pay_items WHERE run_id = $1 AND company_id = $2`, id, companyID); err != nil {
		return fmt.Errorf("failed to delete pay items of run %s: %w", id, err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM payroll_runs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepositoryImpl) DeleteDraftRuns(ctx context.Context, companyID string, month, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	itemsSQL := `
		DELETE FROM pay_items
		WHERE company_id = $1 AND run_id IN (
			SELECT id FROM payroll_runs
			WHERE company_id = $1 AND month = $2 AND year = $3 AND status = 'draft'
		)`
	if _, err := q.Exec(ctx, itemsSQL, companyID, month, year); err != nil {
		return 0, fmt.Errorf("failed to delete draft pay items: %w", err)
	}

	tag, err := q.Exec(ctx,
		`DELETE FROM payroll_runs WHERE company_id = $1 AND month = $2 AND year = $3 AND status = 'draft'`,
		companyID, month, year,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete draft payroll runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TryLockPeriod takes a transaction-scoped advisory lock keyed on the run
// tuple. pg_try_advisory_xact_lock returns immediately, so a concurrent
// creator fails fast instead of queueing.
func (r *payrollRepositoryImpl) TryLockPeriod(ctx context.Context, companyID string, month, year int, groupingID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	grouping := ""
	if groupingID != nil {
		grouping = *groupingID
	}
	key := fmt.Sprintf("payroll_run:%s:%d:%d:%s", companyID, year, month, grouping)

	var acquired bool
	if err := q.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock(hashtextextended($1, 0))`, key).Scan(&acquired); err != nil {
		return false, fmt.Errorf("failed to acquire period lock: %w", err)
	}
	return acquired, nil
}

// ========== ITEMS ==========

const itemColumns = `
	p.id, p.run_id, p.employee_id, p.company_id, p.month, p.year,
	p.method,
	p.basic_salary, p.wages, p.fixed_allowance, p.flex_allowance, p.taxable_allowance,
	p.commission, p.ot_hours, p.ot_amount, p.ph_days_worked, p.ph_pay,
	p.claims_amount, p.attendance_bonus, p.gross_salary,
	p.unpaid_leave_days, p.unpaid_leave_deduction, p.absent_days, p.absent_day_deduction,
	p.short_hours, p.short_hours_deduction,
	p.statutory_base, p.epf_employee, p.epf_employer,
	p.epf_employee_normal, p.epf_employee_additional,
	p.socso_employee, p.socso_employer, p.eis_employee, p.eis_employer,
	p.pcb, p.pcb_normal, p.pcb_additional,
	p.advance_deduction, p.other_deductions,
	p.total_deductions, p.net_pay, p.employer_cost,
	p.ytd_gross, p.ytd_epf, p.ytd_pcb,
	p.variance_amount, p.variance_percent,
	p.ot_manual, p.absent_manual,
	p.created_at, p.updated_at,
	e.name AS employee_name, e.code AS employee_code`

const itemJoins = `
	JOIN employees e ON e.id = p.employee_id`

func scanItem(row pgx.Row) (payroll.PayItem, error) {
	var p payroll.PayItem
	err := row.Scan(
		&p.ID, &p.RunID, &p.EmployeeID, &p.CompanyID, &p.Month, &p.Year,
		&p.Method,
		&p.BasicSalary, &p.Wages, &p.FixedAllowance, &p.FlexAllowance, &p.TaxableAllowance,
		&p.Commission, &p.OTHours, &p.OTAmount, &p.PHDaysWorked, &p.PHPay,
		&p.ClaimsAmount, &p.AttendanceBonus, &p.GrossSalary,
		&p.UnpaidLeaveDays, &p.UnpaidLeaveDeduction, &p.AbsentDays, &p.AbsentDayDeduction,
		&p.ShortHours, &p.ShortHoursDeduction,
		&p.StatutoryBase, &p.EPFEmployee, &p.EPFEmployer,
		&p.EPFEmployeeNormal, &p.EPFEmployeeAdditional,
		&p.SOCSOEmployee, &p.SOCSOEmployer, &p.EISEmployee, &p.EISEmployer,
		&p.PCB, &p.PCBNormal, &p.PCBAdditional,
		&p.AdvanceDeduction, &p.OtherDeductions,
		&p.TotalDeductions, &p.NetPay, &p.EmployerCost,
		&p.YTDGross, &p.YTDEPF, &p.YTDPCB,
		&p.VarianceAmount, &p.VariancePercent,
		&p.OTManual, &p.AbsentManual,
		&p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	return p, err
}

func (r *payrollRepositoryImpl) CreateItem(ctx context.Context, item payroll.PayItem) (payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	sql := `
		INSERT INTO pay_items (
			id, run_id, employee_id, company_id, month, year,
			method,
			basic_salary, wages, fixed_allowance, flex_allowance, taxable_allowance,
			commission, ot_hours, ot_amount, ph_days_worked, ph_pay,
			claims_amount, attendance_bonus, gross_salary,
			unpaid_leave_days, unpaid_leave_deduction, absent_days, absent_day_deduction,
			short_hours, short_hours_deduction,
			statutory_base, epf_employee, epf_employer,
			epf_employee_normal, epf_employee_additional,
			socso_employee, socso_employer, eis_employee, eis_employer,
			pcb, pcb_normal, pcb_additional,
			advance_deduction, other_deductions,
			total_deductions, net_pay, employer_cost,
			ytd_gross, ytd_epf, ytd_pcb,
			variance_amount, variance_percent,
			ot_manual, absent_manual,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20,
			$21, $22, $23, $24,
			$25, $26,
			$27, $28, $29,
			$30, $31,
			$32, $33, $34, $35,
			$36, $37, $38,
			$39, $40,
			$41, $42, $43,
			$44, $45, $46,
			$47, $48,
			$49, $50,
			$51, $52
		)`

	_, err := q.Exec(ctx, sql,
		item.ID, item.RunID, item.EmployeeID, item.CompanyID, item.Month, item.Year,
		item.Method,
		item.BasicSalary, item.Wages, item.FixedAllowance, item.FlexAllowance, item.TaxableAllowance,
		item.Commission, item.OTHours, item.OTAmount, item.PHDaysWorked, item.PHPay,
		item.ClaimsAmount, item.AttendanceBonus, item.GrossSalary,
		item.UnpaidLeaveDays, item.UnpaidLeaveDeduction, item.AbsentDays, item.AbsentDayDeduction,
		item.ShortHours, item.ShortHoursDeduction,
		item.StatutoryBase, item.EPFEmployee, item.EPFEmployer,
		item.EPFEmployeeNormal, item.EPFEmployeeAdditional,
		item.SOCSOEmployee, item.SOCSOEmployer, item.EISEmployee, item.EISEmployer,
		item.PCB, item.PCBNormal, item.PCBAdditional,
		item.AdvanceDeduction, item.OtherDeductions,
		item.TotalDeductions, item.NetPay, item.EmployerCost,
		item.YTDGross, item.YTDEPF, item.YTDPCB,
		item.VarianceAmount, item.VariancePercent,
		item.OTManual, item.AbsentManual,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return payroll.PayItem{}, fmt.Errorf("failed to create pay item: %w", err)
	}
	return item, nil
}

func (r *payrollRepositoryImpl) GetItemByID(ctx context.Context, id string, companyID string) (payroll.PayItem, error) {
	return r.getItem(ctx, id, companyID, "")
}

func (r *payrollRepositoryImpl) GetItemForUpdate(ctx context.Context, id string, companyID string) (payroll.PayItem, error) {
	return r.getItem(ctx, id, companyID, " FOR UPDATE OF p")
}

func (r *payrollRepositoryImpl) getItem(ctx context.Context, id string, companyID string, lock string) (payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + itemColumns + `
		FROM pay_items p` + itemJoins + `
		WHERE p.id = $1 AND p.company_id = $2` + lock

	item, err := scanItem(q.QueryRow(ctx, sql, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayItem{}, payroll.ErrItemNotFound
		}
		return payroll.PayItem{}, fmt.Errorf("failed to get pay item %s: %w", id, err)
	}
	return item, nil
}

func (r *payrollRepositoryImpl) ListItemsByRun(ctx context.Context, runID string, companyID string) ([]payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + itemColumns + `
		FROM pay_items p` + itemJoins + `
		WHERE p.run_id = $1 AND p.company_id = $2
		ORDER BY e.code`

	rows, err := q.Query(ctx, sql, runID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay items for run %s: %w", runID, err)
	}
	defer rows.Close()

	var items []payroll.PayItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *payrollRepositoryImpl) UpdateItem(ctx context.Context, item payroll.PayItem) error {
	q := GetQuerier(ctx, r.db)

	sql := `
		UPDATE pay_items SET
			method = $1,
			basic_salary = $2, wages = $3, fixed_allowance = $4, flex_allowance = $5,
			taxable_allowance = $6, commission = $7, ot_hours = $8, ot_amount = $9,
			ph_days_worked = $10, ph_pay = $11, claims_amount = $12, attendance_bonus = $13,
			gross_salary = $14,
			unpaid_leave_days = $15, unpaid_leave_deduction = $16,
			absent_days = $17, absent_day_deduction = $18,
			short_hours = $19, short_hours_deduction = $20,
			statutory_base = $21, epf_employee = $22, epf_employer = $23,
			epf_employee_normal = $24, epf_employee_additional = $25,
			socso_employee = $26, socso_employer = $27, eis_employee = $28, eis_employer = $29,
			pcb = $30, pcb_normal = $31, pcb_additional = $32,
			advance_deduction = $33, other_deductions = $34,
			total_deductions = $35, net_pay = $36, employer_cost = $37,
			ytd_gross = $38, ytd_epf = $39, ytd_pcb = $40,
			variance_amount = $41, variance_percent = $42,
			ot_manual = $43, absent_manual = $44,
			updated_at = $45
		WHERE id = $46 AND company_id = $47`

	tag, err := q.Exec(ctx, sql,
		item.Method,
		item.BasicSalary, item.Wages, item.FixedAllowance, item.FlexAllowance,
		item.TaxableAllowance, item.Commission, item.OTHours, item.OTAmount,
		item.PHDaysWorked, item.PHPay, item.ClaimsAmount, item.AttendanceBonus,
		item.GrossSalary,
		item.UnpaidLeaveDays, item.UnpaidLeaveDeduction,
		item.AbsentDays, item.AbsentDayDeduction,
		item.ShortHours, item.ShortHoursDeduction,
		item.StatutoryBase, item.EPFEmployee, item.EPFEmployer,
		item.EPFEmployeeNormal, item.EPFEmployeeAdditional,
		item.SOCSOEmployee, item.SOCSOEmployer, item.EISEmployee, item.EISEmployer,
		item.PCB, item.PCBNormal, item.PCBAdditional,
		item.AdvanceDeduction, item.OtherDeductions,
		item.TotalDeductions, item.NetPay, item.EmployerCost,
		item.YTDGross, item.YTDEPF, item.YTDPCB,
		item.VarianceAmount, item.VariancePercent,
		item.OTManual, item.AbsentManual,
		time.Now(),
		item.ID, item.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pay item %s: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrItemNotFound
	}
	return nil
}

func (r *payrollRepositoryImpl) DeleteItem(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_items WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete pay item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrItemNotFound
	}
	return nil
}

// ========== AGGREGATES ==========

func (r *payrollRepositoryImpl) PriorMonthItems(ctx context.Context, companyID string, year, month int) (map[string]payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	prevMonth := month - 1
	prevYear := year
	if prevMonth == 0 {
		prevMonth = 12
		prevYear--
	}

	sql := `SELECT ` + itemColumns + `
		FROM pay_items p` + itemJoins + `
		WHERE p.company_id = $1 AND p.year = $2 AND p.month = $3`

	rows, err := q.Query(ctx, sql, companyID, prevYear, prevMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior month items: %w", err)
	}
	defer rows.Close()

	items := make(map[string]payroll.PayItem)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prior month item: %w", err)
		}
		items[item.EmployeeID] = item
	}
	return items, rows.Err()
}

func (r *payrollRepositoryImpl) YTDTotals(ctx context.Context, companyID, employeeID string, year, beforeMonth int) (payroll.YTD, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT COALESCE(SUM(gross_salary), 0),
		       COALESCE(SUM(epf_employee), 0),
		       COALESCE(SUM(pcb), 0)
		FROM pay_items
		WHERE company_id = $1 AND employee_id = $2 AND year = $3 AND month < $4`

	var ytd payroll.YTD
	if err := q.QueryRow(ctx, sql, companyID, employeeID, year, beforeMonth).Scan(&ytd.Gross, &ytd.EPF, &ytd.PCB); err != nil {
		return payroll.YTD{}, fmt.Errorf("failed to sum YTD totals: %w", err)
	}
	return ytd, nil
}

func (r *payrollRepositoryImpl) RunAttendanceStats(ctx context.Context, companyID string, run payroll.PayrollRun) (map[string]payroll.ItemAttendance, error) {
	q := GetQuerier(ctx, r.db)

	sql := `
		SELECT c.employee_id,
		       COUNT(*) FILTER (WHERE c.clock_out_1 IS NOT NULL OR c.clock_out_2 IS NOT NULL),
		       COALESCE(SUM(c.total_work_minutes), 0),
		       COUNT(*) FILTER (
		           WHERE (c.clock_out_1 IS NOT NULL OR c.clock_out_2 IS NOT NULL)
		             AND NOT EXISTS (
		               SELECT 1 FROM work_schedules s
		               WHERE s.employee_id = c.employee_id
		                 AND s.schedule_date = c.work_date
		                 AND s.status <> 'cancelled'
		                 AND s.deleted_at IS NULL
		             )
		       )
		FROM clock_records c
		WHERE c.company_id = $1
		  AND c.work_date >= $2 AND c.work_date <= $3
		  AND c.employee_id IN (SELECT employee_id FROM pay_items WHERE run_id = $4)
		  AND c.deleted_at IS NULL
		GROUP BY c.employee_id`

	rows, err := q.Query(ctx, sql, companyID, run.PeriodStart, run.PeriodEnd, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run attendance stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]payroll.ItemAttendance)
	for rows.Next() {
		var (
			employeeID   string
			daysWorked   int
			totalMinutes int64
			noSchedule   int
		)
		if err := rows.Scan(&employeeID, &daysWorked, &totalMinutes, &noSchedule); err != nil {
			return nil, fmt.Errorf("failed to scan run attendance stats: %w", err)
		}
		stats[employeeID] = payroll.ItemAttendance{
			DaysWorked:     daysWorked,
			TotalHours:     decimal.NewFromInt(totalMinutes).Div(decimal.NewFromInt(60)).Round(2),
			NoScheduleDays: noSchedule,
		}
	}
	return stats, rows.Err()
}
