package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/advance"
	"github.com/gajihub/payroll-backend-go/internal/domain/attendance"
	"github.com/gajihub/payroll-backend-go/internal/domain/claim"
	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	attendancesvc "github.com/gajihub/payroll-backend-go/internal/service/attendance"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ResolvedInputs is the per-period snapshot the policy engine consumes.
// Everything is keyed by employee id and materialized before the
// per-employee loop starts.
type ResolvedInputs struct {
	PriorItems map[string]payroll.PayItem

	Sales       map[string]decimal.Decimal
	Commissions map[string]decimal.Decimal

	AllowanceTaxable    map[string]decimal.Decimal
	AllowanceNonTaxable map[string]decimal.Decimal

	UnpaidLeaveDays map[string]decimal.Decimal
	PaidLeaveDays   map[string]decimal.Decimal

	Claims      map[string][]claim.Claim
	ClaimTotals map[string]decimal.Decimal

	Advances      map[string][]advance.SalaryAdvance
	AdvanceTotals map[string]decimal.Decimal

	Holidays []attendance.PublicHoliday

	Warnings []string
}

// missingTable reports whether err is Postgres undefined_table. Tenant
// databases are migrated module by module, so an optional input stream whose
// table has not landed yet reads as empty rather than failing the run.
func missingTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// resolveInputs loads every policy input for (company, period). The
// independent reads run in parallel on the pool; results are fully
// materialized before returning. Optional streams whose backing table is
// absent degrade to empty with a run warning.
func (s *PayrollServiceImpl) resolveInputs(ctx context.Context, companyID string, cfg company.PayrollConfig, month, year int, start, end time.Time) (*ResolvedInputs, error) {
	inputs := &ResolvedInputs{
		PriorItems:          map[string]payroll.PayItem{},
		Sales:               map[string]decimal.Decimal{},
		Commissions:         map[string]decimal.Decimal{},
		AllowanceTaxable:    map[string]decimal.Decimal{},
		AllowanceNonTaxable: map[string]decimal.Decimal{},
		UnpaidLeaveDays:     map[string]decimal.Decimal{},
		PaidLeaveDays:       map[string]decimal.Decimal{},
		Claims:              map[string][]claim.Claim{},
		ClaimTotals:         map[string]decimal.Decimal{},
		Advances:            map[string][]advance.SalaryAdvance{},
		AdvanceTotals:       map[string]decimal.Decimal{},
	}

	var warnMu sync.Mutex
	tolerate := func(err error, stream string) error {
		if !missingTable(err) {
			return err
		}
		warnMu.Lock()
		inputs.Warnings = append(inputs.Warnings, fmt.Sprintf("%s unavailable, treated as empty", stream))
		warnMu.Unlock()
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prior, err := s.payrollRepo.PriorMonthItems(gctx, companyID, year, month)
		if err != nil {
			return err
		}
		inputs.PriorItems = prior
		return nil
	})

	if cfg.Features.IndoorSalesLogic {
		g.Go(func() error {
			records, err := s.compensationRepo.ListSales(gctx, companyID, year, month)
			if err != nil {
				return tolerate(err, "sales records")
			}
			for _, r := range records {
				inputs.Sales[r.EmployeeID] = inputs.Sales[r.EmployeeID].Add(r.TotalSales)
			}
			return nil
		})
	}

	if cfg.Features.FlexibleCommissions {
		g.Go(func() error {
			commissions, err := s.compensationRepo.ListActiveCommissions(gctx, companyID)
			if err != nil {
				return tolerate(err, "commissions")
			}
			for _, c := range commissions {
				inputs.Commissions[c.EmployeeID] = inputs.Commissions[c.EmployeeID].Add(c.Amount)
			}
			return nil
		})
	}

	if cfg.Features.FlexibleAllowances {
		g.Go(func() error {
			allowances, err := s.compensationRepo.ListActiveAllowances(gctx, companyID)
			if err != nil {
				return tolerate(err, "allowances")
			}
			for _, a := range allowances {
				if a.TypeTaxable != nil && *a.TypeTaxable {
					inputs.AllowanceTaxable[a.EmployeeID] = inputs.AllowanceTaxable[a.EmployeeID].Add(a.Amount)
				} else {
					inputs.AllowanceNonTaxable[a.EmployeeID] = inputs.AllowanceNonTaxable[a.EmployeeID].Add(a.Amount)
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		requests, err := s.leaveRepo.ListApprovedOverlapping(gctx, companyID, start, end)
		if err != nil {
			return tolerate(err, "leave requests")
		}
		for _, lr := range requests {
			days := decimal.NewFromInt(int64(attendancesvc.WeekdayOverlap(lr.StartDate, lr.EndDate, start, end)))
			if days.IsZero() {
				continue
			}
			if lr.IsPaid != nil && !*lr.IsPaid {
				inputs.UnpaidLeaveDays[lr.EmployeeID] = inputs.UnpaidLeaveDays[lr.EmployeeID].Add(days)
			} else {
				inputs.PaidLeaveDays[lr.EmployeeID] = inputs.PaidLeaveDays[lr.EmployeeID].Add(days)
			}
		}
		return nil
	})

	if cfg.Features.AutoClaimsLinking {
		g.Go(func() error {
			claims, err := s.claimRepo.ListApprovedUnlinked(gctx, companyID, start, end)
			if err != nil {
				return tolerate(err, "claims")
			}
			for _, c := range claims {
				inputs.Claims[c.EmployeeID] = append(inputs.Claims[c.EmployeeID], c)
				inputs.ClaimTotals[c.EmployeeID] = inputs.ClaimTotals[c.EmployeeID].Add(c.Amount)
			}
			return nil
		})
	}

	g.Go(func() error {
		advances, err := s.advanceRepo.ListDue(gctx, companyID, year, month)
		if err != nil {
			return tolerate(err, "salary advances")
		}
		for _, a := range advances {
			if !a.DueBy(year, month) {
				continue
			}
			inputs.Advances[a.EmployeeID] = append(inputs.Advances[a.EmployeeID], a)
			inputs.AdvanceTotals[a.EmployeeID] = inputs.AdvanceTotals[a.EmployeeID].Add(a.DueAmount())
		}
		return nil
	})

	g.Go(func() error {
		holidays, err := s.attendanceAgg.PublicHolidays(gctx, companyID, start, end)
		if err != nil {
			return tolerate(err, "public holidays")
		}
		inputs.Holidays = holidays
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}
