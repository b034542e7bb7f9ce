package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.department_id, e.outlet_id,
	e.code, e.name, e.ic_number, e.date_of_birth, e.gender,
	e.residency_status, e.marital_status, e.spouse_working, e.child_count, e.disabled,
	e.join_date, e.status, e.resign_date, e.work_type,
	e.basic_salary, e.fixed_allowance, e.fixed_ot_amount, e.hourly_rate,
	e.structure_code,
	e.bank_name, e.bank_account_no, e.epf_number, e.socso_number, e.tax_number,
	e.allowance_pcb_policy,
	e.created_at, e.updated_at,
	d.name AS department_name, o.name AS outlet_name`

const employeeJoins = `
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN outlets o ON o.id = e.outlet_id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.DepartmentID, &e.OutletID,
		&e.Code, &e.Name, &e.ICNumber, &e.DateOfBirth, &e.Gender,
		&e.Residency, &e.MaritalStatus, &e.SpouseWorking, &e.ChildCount, &e.Disabled,
		&e.JoinDate, &e.Status, &e.ResignDate, &e.WorkType,
		&e.BasicSalary, &e.FixedAllowance, &e.FixedOTAmount, &e.HourlyRate,
		&e.StructureCode,
		&e.BankName, &e.BankAccountNo, &e.EPFNumber, &e.SOCSONumber, &e.TaxNumber,
		&e.AllowancePCB,
		&e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.OutletName,
	)
	return e, err
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + employeeColumns + `
		FROM employees e` + employeeJoins + `
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL`

	e, err := scanEmployee(q.QueryRow(ctx, sql, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return e, nil
}

// ListCohort implements employee.EmployeeRepository. Active employees plus
// employees who resigned inside the period; employees who resigned before
// the period start never re-enter a run.
func (r *employeeRepositoryImpl) ListCohort(ctx context.Context, companyID string, filter employee.CohortFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	sql := `SELECT ` + employeeColumns + `
		FROM employees e` + employeeJoins + `
		WHERE e.company_id = $1
		  AND e.deleted_at IS NULL
		  AND e.join_date <= $3
		  AND (
			e.status = 'active'
			OR (e.resign_date IS NOT NULL AND e.resign_date >= $2 AND e.resign_date <= $3)
		  )`

	args := []interface{}{companyID, filter.PeriodStart, filter.PeriodEnd}
	argIdx := 4

	if filter.DepartmentID != nil {
		sql += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.OutletID != nil {
		sql += fmt.Sprintf(" AND e.outlet_id = $%d", argIdx)
		args = append(args, *filter.OutletID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		sql += fmt.Sprintf(" AND e.id = ANY($%d)", argIdx)
		args = append(args, filter.EmployeeIDs)
	}

	sql += " ORDER BY e.code"

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee cohort: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) UpdateSalaryDefaults(ctx context.Context, id string, companyID string, basic, fixedAllowance decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	sql := `
		UPDATE employees
		SET basic_salary = $1, fixed_allowance = $2, updated_at = $3
		WHERE id = $4 AND company_id = $5 AND deleted_at IS NULL`

	tag, err := q.Exec(ctx, sql, basic, fixedAllowance, time.Now(), id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update salary defaults for employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
