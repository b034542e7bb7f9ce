package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// GetByID implements company.CompanyRepository. The payroll config is
// resolved here: defaults, then the legacy settings blob, then the explicit
// payroll_config column.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	sql := `
		SELECT id, name, registration_no, grouping_type, settings, payroll_config,
		       created_at, updated_at
		FROM companies
		WHERE id = $1 AND deleted_at IS NULL`

	var (
		comp        company.Company
		settingsRaw []byte
		configRaw   []byte
	)
	err := q.QueryRow(ctx, sql, id).Scan(
		&comp.ID,
		&comp.Name,
		&comp.RegistrationNo,
		&comp.GroupingType,
		&settingsRaw,
		&configRaw,
		&comp.CreatedAt,
		&comp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company %s: %w", id, err)
	}

	legacy, err := decodeConfigPatch(settingsRaw)
	if err != nil {
		return company.Company{}, fmt.Errorf("company %s settings: %w", id, err)
	}
	explicit, err := decodeConfigPatch(configRaw)
	if err != nil {
		return company.Company{}, fmt.Errorf("company %s payroll_config: %w", id, err)
	}
	comp.Config = company.ResolveConfig(legacy, explicit)

	return comp, nil
}

func decodeConfigPatch(raw []byte) (*company.PayrollConfigPatch, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var patch company.PayrollConfigPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, fmt.Errorf("decode config patch: %w", err)
	}
	return &patch, nil
}

func (c *companyRepositoryImpl) GetDepartmentByID(ctx context.Context, id string, companyID string) (company.Department, error) {
	q := GetQuerier(ctx, c.db)

	sql := `
		SELECT id, company_id, name
		FROM departments
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`

	var dept company.Department
	err := q.QueryRow(ctx, sql, id, companyID).Scan(&dept.ID, &dept.CompanyID, &dept.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Department{}, company.ErrDepartmentNotFound
		}
		return company.Department{}, fmt.Errorf("failed to get department %s: %w", id, err)
	}
	return dept, nil
}

func (c *companyRepositoryImpl) GetOutletByID(ctx context.Context, id string, companyID string) (company.Outlet, error) {
	q := GetQuerier(ctx, c.db)

	sql := `
		SELECT id, company_id, name
		FROM outlets
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`

	var outlet company.Outlet
	err := q.QueryRow(ctx, sql, id, companyID).Scan(&outlet.ID, &outlet.CompanyID, &outlet.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Outlet{}, company.ErrOutletNotFound
		}
		return company.Outlet{}, fmt.Errorf("failed to get outlet %s: %w", id, err)
	}
	return outlet, nil
}

func (c *companyRepositoryImpl) ListDepartments(ctx context.Context, companyID string) ([]company.Department, error) {
	q := GetQuerier(ctx, c.db)

	sql := `
		SELECT id, company_id, name
		FROM departments
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name`

	rows, err := q.Query(ctx, sql, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var depts []company.Department
	for rows.Next() {
		var dept company.Department
		if err := rows.Scan(&dept.ID, &dept.CompanyID, &dept.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		depts = append(depts, dept)
	}
	return depts, rows.Err()
}

func (c *companyRepositoryImpl) ListOutlets(ctx context.Context, companyID string) ([]company.Outlet, error) {
	q := GetQuerier(ctx, c.db)

	sql := `
		SELECT id, company_id, name
		FROM outlets
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name`

	rows, err := q.Query(ctx, sql, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	defer rows.Close()

	var outlets []company.Outlet
	for rows.Next() {
		var outlet company.Outlet
		if err := rows.Scan(&outlet.ID, &outlet.CompanyID, &outlet.Name); err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, outlet)
	}
	return outlets, rows.Err()
}
