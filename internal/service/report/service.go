package report

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/report"
	"github.com/gajihub/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *ReportServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func validatePeriod(month, year int) error {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *ReportServiceImpl) RunSummary(ctx context.Context, month, year int) (report.RunSummary, error) {
	if err := validatePeriod(month, year); err != nil {
		return report.RunSummary{}, err
	}
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.RunSummary{}, err
	}
	return s.reportRepo.RunSummary(ctx, companyID, month, year)
}

func (s *ReportServiceImpl) GroupTotals(ctx context.Context, month, year int, grouping string) ([]report.GroupTotals, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if grouping != string(company.GroupingDepartment) && grouping != string(company.GroupingOutlet) {
		return nil, validator.ValidationErrors{{Field: "grouping", Message: "must be department or outlet"}}
	}
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.GroupTotals(ctx, companyID, month, year, grouping)
}

func (s *ReportServiceImpl) OTSummary(ctx context.Context, month, year int) (report.OTSummary, error) {
	if err := validatePeriod(month, year); err != nil {
		return report.OTSummary{}, err
	}
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.OTSummary{}, err
	}
	return s.reportRepo.OTSummary(ctx, companyID, month, year)
}

func (s *ReportServiceImpl) EmployeeYTD(ctx context.Context, employeeID string, year, beforeMonth int) (report.EmployeeYTD, error) {
	var errs validator.ValidationErrors
	if employeeID == "" {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if beforeMonth < 1 || beforeMonth > 13 {
		errs = append(errs, validator.ValidationError{Field: "before_month", Message: "must be between 1 and 13"})
	}
	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}
	if len(errs) > 0 {
		return report.EmployeeYTD{}, errs
	}
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.EmployeeYTD{}, err
	}
	return s.reportRepo.EmployeeYTD(ctx, companyID, employeeID, year, beforeMonth)
}
