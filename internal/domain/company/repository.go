package company

import "context"

// CompanyRepository loads companies with their payroll config already
// resolved. All methods are tenant-scoped by companyID.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)

	GetDepartmentByID(ctx context.Context, id string, companyID string) (Department, error)
	GetOutletByID(ctx context.Context, id string, companyID string) (Outlet, error)
	ListDepartments(ctx context.Context, companyID string) ([]Department, error)
	ListOutlets(ctx context.Context, companyID string) ([]Outlet, error)
}
