package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gajihub/payroll-backend-go/internal/domain/advance"
	"github.com/gajihub/payroll-backend-go/internal/domain/claim"
	"github.com/gajihub/payroll-backend-go/internal/domain/company"
	"github.com/gajihub/payroll-backend-go/internal/domain/compensation"
	"github.com/gajihub/payroll-backend-go/internal/domain/employee"
	"github.com/gajihub/payroll-backend-go/internal/domain/leave"
	"github.com/gajihub/payroll-backend-go/internal/domain/payroll"
	"github.com/gajihub/payroll-backend-go/internal/pkg/database"
	"github.com/gajihub/payroll-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/gajihub/payroll-backend-go/internal/service/attendance"
	"github.com/gajihub/payroll-backend-go/internal/statutory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db               *database.DB
	payrollRepo      payroll.PayrollRepository
	employeeRepo     employee.EmployeeRepository
	companyRepo      company.CompanyRepository
	leaveRepo        leave.LeaveRepository
	claimRepo        claim.ClaimRepository
	advanceRepo      advance.AdvanceRepository
	compensationRepo compensation.CompensationRepository
	attendanceAgg    *attendancesvc.Aggregator
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	leaveRepo leave.LeaveRepository,
	claimRepo claim.ClaimRepository,
	advanceRepo advance.AdvanceRepository,
	compensationRepo compensation.CompensationRepository,
	attendanceAgg *attendancesvc.Aggregator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:               db,
		payrollRepo:      payrollRepo,
		employeeRepo:     employeeRepo,
		companyRepo:      companyRepo,
		leaveRepo:        leaveRepo,
		claimRepo:        claimRepo,
		advanceRepo:      advanceRepo,
		compensationRepo: compensationRepo,
		attendanceAgg:    attendanceAgg,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== CREATE ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	cfg := comp.Config

	var groupingID *string
	if req.DepartmentID != nil {
		if _, err := s.companyRepo.GetDepartmentByID(ctx, *req.DepartmentID, companyID); err != nil {
			return payroll.RunResponse{}, err
		}
		groupingID = req.DepartmentID
	}
	if req.OutletID != nil {
		if _, err := s.companyRepo.GetOutletByID(ctx, *req.OutletID, companyID); err != nil {
			return payroll.RunResponse{}, err
		}
		groupingID = req.OutletID
	}
	outletGrouped := comp.GroupingType == company.GroupingOutlet

	period := ComputePeriod(cfg, req.Month, req.Year)

	// Input resolution is read-only and runs on the pool, before the
	// creation transaction opens.
	inputs, err := s.resolveInputs(ctx, companyID, cfg, req.Month, req.Year, period.Start, period.End)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	filter := employee.CohortFilter{
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		EmployeeIDs: req.EmployeeIDs,
	}
	if outletGrouped {
		filter.OutletID = req.OutletID
	} else {
		filter.DepartmentID = req.DepartmentID
	}
	cohort, err := s.employeeRepo.ListCohort(ctx, companyID, filter)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if len(cohort) == 0 {
		return payroll.RunResponse{}, payroll.ErrEmptyCohort
	}

	// Outlet-grouped runs exclude employees with no activity in the period.
	var excluded []payroll.ExcludedEmployee
	if outletGrouped {
		ids := make([]string, len(cohort))
		for i, e := range cohort {
			ids[i] = e.ID
		}
		active, err := s.attendanceAgg.ActiveEmployees(ctx, companyID, ids, period.Start, period.End)
		if err != nil {
			return payroll.RunResponse{}, err
		}
		kept := cohort[:0]
		for _, e := range cohort {
			if active[e.ID] {
				kept = append(kept, e)
			} else {
				excluded = append(excluded, payroll.ExcludedEmployee{ID: e.ID, Name: e.Name, Code: e.Code})
			}
		}
		cohort = kept
		if len(cohort) == 0 {
			return payroll.RunResponse{}, payroll.ErrEmptyCohort
		}
	}

	var created payroll.PayrollRun
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		acquired, err := s.payrollRepo.TryLockPeriod(txCtx, companyID, req.Month, req.Year, groupingID)
		if err != nil {
			return err
		}
		if !acquired {
			return payroll.ErrRunLocked
		}

		_, err = s.payrollRepo.GetRunByPeriod(txCtx, companyID, req.Month, req.Year, req.DepartmentID, req.OutletID)
		if err == nil {
			return payroll.ErrRunAlreadyExists
		}
		if !errors.Is(err, payroll.ErrRunNotFound) {
			return err
		}

		run := payroll.PayrollRun{
			CompanyID:         companyID,
			Month:             req.Month,
			Year:              req.Year,
			DepartmentID:      req.DepartmentID,
			OutletID:          req.OutletID,
			Status:            payroll.RunDraft,
			PeriodStart:       period.Start,
			PeriodEnd:         period.End,
			PaymentDueDate:    period.PaymentDue,
			PeriodLabel:       period.Label,
			ExcludedEmployees: excluded,
			Notes:             req.Notes,
		}
		run, err = s.payrollRepo.CreateRun(txCtx, run)
		if err != nil {
			return err
		}

		var items []payroll.PayItem
		warnings := append([]string(nil), inputs.Warnings...)
		for _, emp := range cohort {
			in, err := s.buildItemInput(txCtx, emp, cfg, outletGrouped, period, req.Month, req.Year, inputs)
			if err != nil {
				return err
			}
			item, itemWarnings := ComputeItem(in)
			item.RunID = run.ID
			item, err = s.payrollRepo.CreateItem(txCtx, item)
			if err != nil {
				return err
			}
			items = append(items, item)
			warnings = append(warnings, itemWarnings...)
		}

		tallyRun(&run, items, cfg, warnings)
		if err := s.payrollRepo.UpdateRunTotals(txCtx, run); err != nil {
			return err
		}
		created = run
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return s.runResponse(ctx, companyID, created.ID)
}

// buildItemInput aggregates one employee's attendance streams and pairs them
// with the resolved period inputs.
func (s *PayrollServiceImpl) buildItemInput(ctx context.Context, emp employee.Employee, cfg company.PayrollConfig, outletGrouped bool, period PeriodInfo, month, year int, inputs *ResolvedInputs) (ItemInput, error) {
	streams, err := s.attendanceAgg.LoadStreams(ctx, emp, period.Start, period.End)
	if err != nil {
		return ItemInput{}, err
	}

	metrics := AttendanceMetrics{
		HasSchedule: len(streams.Schedules) > 0,
		ClockInDays: attendancesvc.CountClockInDays(streams.Clocks),
		PHDays:      attendancesvc.ComputePHDaysWorked(streams.Clocks, inputs.Holidays),
		ShortHours:  decimal.Zero,
	}

	if emp.IsPartTime() {
		metrics.PartTime = s.attendanceAgg.PartTimeHours(ctx, emp, streams, inputs.Holidays,
			cfg.Rates.PartTimeHourlyRate, cfg.Rates.PartTimePHMultiplier)
	}

	if outletGrouped {
		metrics.Schedule = attendancesvc.ComputeScheduleAttendance(streams.Schedules, streams.Clocks, cfg.Rates.BreakMinutes)
	} else if !emp.IsPartTime() {
		metrics.ShortHours, _ = attendancesvc.ComputeShortHoursNonOutlet(streams.Clocks, cfg.Rates.StandardWorkHours)
	}

	if cfg.Features.AutoOTFromClockIn {
		rate := hourlyRate(emp.BasicSalary, period.WorkingDays, cfg.Rates.StandardWorkHours)
		if emp.IsPartTime() {
			rate = emp.HourlyRate
			if rate.IsZero() {
				rate = cfg.Rates.PartTimeHourlyRate
			}
		}
		metrics.OT = attendancesvc.ComputeOTFromClockIn(streams.Schedules, streams.Clocks, inputs.Holidays, attendancesvc.OTConfig{
			HourlyRate:       rate,
			OTMultiplier:     cfg.Rates.OTMultiplier,
			PHMultiplier:     cfg.Rates.PHMultiplier,
			ThresholdHours:   cfg.Rates.OTDailyThresholdHours,
			BreakMinutes:     cfg.Rates.BreakMinutes,
			MinOTHours:       cfg.Rates.MinOTHours,
			RequiresApproval: cfg.Features.OTRequiresApproval,
		})
	}

	in := ItemInput{
		Employee:            emp,
		Config:              cfg,
		OutletGrouped:       outletGrouped,
		Month:               month,
		Year:                year,
		WorkingDays:         period.WorkingDays,
		Sales:               inputs.Sales[emp.ID],
		Commission:          inputs.Commissions[emp.ID],
		AllowanceTaxable:    inputs.AllowanceTaxable[emp.ID],
		AllowanceNonTaxable: inputs.AllowanceNonTaxable[emp.ID],
		UnpaidLeaveDays:     inputs.UnpaidLeaveDays[emp.ID],
		PaidLeaveDays:       inputs.PaidLeaveDays[emp.ID],
		ClaimsTotal:         inputs.ClaimTotals[emp.ID],
		AdvanceDue:          inputs.AdvanceTotals[emp.ID],
		Attendance:          metrics,
	}
	if prior, ok := inputs.PriorItems[emp.ID]; ok {
		p := prior
		in.Prior = &p
	}

	if cfg.Features.YTDPCBCalculation {
		ytd, err := s.payrollRepo.YTDTotals(ctx, emp.CompanyID, emp.ID, year, month)
		if err != nil {
			return ItemInput{}, err
		}
		in.YTD = statutory.YTDSnapshot{Gross: ytd.Gross, EPF: ytd.EPF, PCB: ytd.PCB}
	}
	return in, nil
}

// tallyRun recomputes run totals and warning flags from its items.
func tallyRun(run *payroll.PayrollRun, items []payroll.PayItem, cfg company.PayrollConfig, warnings []string) {
	run.TotalGross = decimal.Zero
	run.TotalNet = decimal.Zero
	run.TotalDeductions = decimal.Zero
	run.TotalEmployerCost = decimal.Zero
	run.HasVarianceWarning = false
	for _, it := range items {
		run.TotalGross = run.TotalGross.Add(it.GrossSalary)
		run.TotalNet = run.TotalNet.Add(it.NetPay)
		run.TotalDeductions = run.TotalDeductions.Add(it.TotalDeductions)
		run.TotalEmployerCost = run.TotalEmployerCost.Add(it.EmployerCost)
		if it.VariancePercent.Abs().GreaterThan(cfg.Features.VarianceThreshold) {
			run.HasVarianceWarning = true
		}
	}
	run.EmployeeCount = len(items)
	run.Warnings = mergeWarnings(run.Warnings, warnings)
}

// mergeWarnings appends new warnings onto the run's accumulated set, skipping
// exact duplicates so repeated edits do not stack the same line. Warnings
// collected at creation survive later item edits and recalculations.
func mergeWarnings(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		seen[w] = struct{}{}
	}
	for _, w := range incoming {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		existing = append(existing, w)
	}
	return existing
}

// ========== READS ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return s.runResponse(ctx, companyID, runID)
}

func (s *PayrollServiceImpl) runResponse(ctx context.Context, companyID, runID string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	items, err := s.payrollRepo.ListItemsByRun(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	stats, err := s.payrollRepo.RunAttendanceStats(ctx, companyID, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	for i := range items {
		if st, ok := stats[items[i].EmployeeID]; ok {
			enriched := st
			items[i].Attendance = &enriched
		}
	}
	return payroll.ToRunResponse(run, items), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListRunsResponse{}, err
	}

	runs, total, err := s.payrollRepo.ListRuns(ctx, companyID, filter)
	if err != nil {
		return payroll.ListRunsResponse{}, err
	}

	resp := payroll.ListRunsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if resp.Page < 1 {
		resp.Page = 1
	}
	if resp.Limit < 1 {
		resp.Limit = 20
	}
	for _, r := range runs {
		resp.Data = append(resp.Data, payroll.ToRunResponse(r, nil))
	}
	return resp, nil
}

// ========== ITEM MUTATIONS ==========

func (s *PayrollServiceImpl) UpdateItem(ctx context.Context, itemID string, overrides payroll.ItemOverrides) (payroll.ItemResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ItemResponse{}, err
	}
	if err := overrides.Validate(); err != nil {
		return payroll.ItemResponse{}, err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.ItemResponse{}, err
	}

	var updated payroll.PayItem
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		item, err := s.payrollRepo.GetItemForUpdate(txCtx, itemID, companyID)
		if err != nil {
			return err
		}
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, item.RunID, companyID)
		if err != nil {
			return err
		}
		if !run.Editable() {
			return payroll.ErrRunFinalized
		}

		emp, err := s.employeeRepo.GetByID(txCtx, item.EmployeeID, companyID)
		if err != nil {
			return err
		}

		// The variance lines compare against last month's net pay, so the
		// prior item rides along on re-entry just as it does on creation.
		priorItems, err := s.payrollRepo.PriorMonthItems(txCtx, companyID, run.Year, run.Month)
		if err != nil {
			return err
		}
		var prior *payroll.PayItem
		if p, ok := priorItems[item.EmployeeID]; ok {
			prior = &p
		}

		in := s.finalizeInput(emp, comp, run, item, prior)
		so := applyOverrides(&item, overrides, in)
		itemWarnings := FinalizeItem(&item, in, so)

		if err := s.payrollRepo.UpdateItem(txCtx, item); err != nil {
			return err
		}
		if err := s.retallyRun(txCtx, &run, comp.Config, itemWarnings); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return payroll.ItemResponse{}, err
	}
	return payroll.ToItemResponse(updated), nil
}

// finalizeInput builds the minimal ItemInput FinalizeItem needs when
// re-entering the policy tail for an existing item: the stored YTD snapshot
// stays authoritative, and the prior-month item keeps the variance lines
// intact across manual edits.
func (s *PayrollServiceImpl) finalizeInput(emp employee.Employee, comp company.Company, run payroll.PayrollRun, item payroll.PayItem, prior *payroll.PayItem) ItemInput {
	return ItemInput{
		Employee:      emp,
		Config:        comp.Config,
		OutletGrouped: comp.GroupingType == company.GroupingOutlet,
		Month:         run.Month,
		Year:          run.Year,
		WorkingDays:   comp.Config.Rates.StandardWorkDays,
		Prior:         prior,
		YTD:           statutory.YTDSnapshot{Gross: item.YTDGross, EPF: item.YTDEPF, PCB: item.YTDPCB},
	}
}

// applyOverrides writes the supplied manual edits onto the item. A present
// field replaces the computed value even when zero.
func applyOverrides(item *payroll.PayItem, o payroll.ItemOverrides, in ItemInput) StatutoryOverrides {
	if o.BasicSalary != nil {
		item.BasicSalary = *o.BasicSalary
	}
	if o.Wages != nil {
		item.Wages = *o.Wages
	}
	if o.FixedAllowance != nil {
		item.FixedAllowance = *o.FixedAllowance
	}
	if o.FlexAllowance != nil {
		item.FlexAllowance = *o.FlexAllowance
	}
	if o.OTHours != nil {
		item.OTHours = *o.OTHours
		item.OTManual = true
		if o.OTAmount == nil {
			rate := hourlyRate(item.BasicSalary, in.WorkingDays, in.Config.Rates.StandardWorkHours)
			item.OTAmount = o.OTHours.Mul(rate).Mul(in.Config.Rates.OTMultiplier).Round(2)
		}
	}
	if o.OTAmount != nil {
		item.OTAmount = *o.OTAmount
		item.OTManual = true
	}
	if o.PHPay != nil {
		item.PHPay = *o.PHPay
	}
	if o.Commission != nil {
		item.Commission = *o.Commission
	}
	if o.ClaimsAmount != nil {
		item.ClaimsAmount = *o.ClaimsAmount
	}
	if o.ShortHoursDeduction != nil {
		item.ShortHoursDeduction = *o.ShortHoursDeduction
	}
	if o.AbsentDayDeduction != nil {
		item.AbsentDayDeduction = *o.AbsentDayDeduction
		item.AbsentManual = true
	}
	if o.CombinedDaysNotWorked != nil {
		item.AbsentDays = *o.CombinedDaysNotWorked
		item.AbsentDayDeduction = dailyRate(item.BasicSalary, in.WorkingDays).Mul(*o.CombinedDaysNotWorked).Round(2)
		item.AbsentManual = true
	}
	if o.AdvanceDeduction != nil {
		item.AdvanceDeduction = *o.AdvanceDeduction
	}
	if o.OtherDeductions != nil {
		item.OtherDeductions = *o.OtherDeductions
	}
	return StatutoryOverrides{
		EPFEmployee:   o.EPFEmployee,
		SOCSOEmployee: o.SOCSOEmployee,
		PCB:           o.PCB,
	}
}

// retallyRun reloads the run's items and persists fresh totals. Runs inside
// the caller's transaction.
func (s *PayrollServiceImpl) retallyRun(ctx context.Context, run *payroll.PayrollRun, cfg company.PayrollConfig, extraWarnings []string) error {
	items, err := s.payrollRepo.ListItemsByRun(ctx, run.ID, run.CompanyID)
	if err != nil {
		return err
	}
	tallyRun(run, items, cfg, extraWarnings)
	return s.payrollRepo.UpdateRunTotals(ctx, *run)
}

func (s *PayrollServiceImpl) DeleteItem(ctx context.Context, itemID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		item, err := s.payrollRepo.GetItemForUpdate(txCtx, itemID, companyID)
		if err != nil {
			return err
		}
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, item.RunID, companyID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunDraft {
			return payroll.ErrRunNotDraft
		}
		if err := s.payrollRepo.DeleteItem(txCtx, itemID, companyID); err != nil {
			return err
		}
		return s.retallyRun(txCtx, &run, comp.Config, nil)
	})
}

func (s *PayrollServiceImpl) RecalculateItem(ctx context.Context, itemID string) (payroll.ItemResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ItemResponse{}, err
	}
	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.ItemResponse{}, err
	}

	var updated payroll.PayItem
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		item, err := s.payrollRepo.GetItemForUpdate(txCtx, itemID, companyID)
		if err != nil {
			return err
		}
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, item.RunID, companyID)
		if err != nil {
			return err
		}
		if !run.Editable() {
			return payroll.ErrRunFinalized
		}

		// Input resolution parallelizes on the pool; a single pgx.Tx must
		// not serve concurrent queries.
		inputs, err := s.resolveInputs(ctx, companyID, comp.Config, run.Month, run.Year, run.PeriodStart, run.PeriodEnd)
		if err != nil {
			return err
		}
		recalced, warnings, err := s.recalcItem(txCtx, comp, run, item, inputs)
		if err != nil {
			return err
		}
		if err := s.payrollRepo.UpdateItem(txCtx, recalced); err != nil {
			return err
		}
		warnings = append(warnings, inputs.Warnings...)
		if err := s.retallyRun(txCtx, &run, comp.Config, warnings); err != nil {
			return err
		}
		updated = recalced
		return nil
	})
	if err != nil {
		return payroll.ItemResponse{}, err
	}
	return payroll.ToItemResponse(updated), nil
}

// recalcItem recomputes one item from current employee attributes, keeping
// manually edited OT and absent figures authoritative.
func (s *PayrollServiceImpl) recalcItem(ctx context.Context, comp company.Company, run payroll.PayrollRun, item payroll.PayItem, inputs *ResolvedInputs) (payroll.PayItem, []string, error) {
	emp, err := s.employeeRepo.GetByID(ctx, item.EmployeeID, run.CompanyID)
	if err != nil {
		return payroll.PayItem{}, nil, err
	}

	period := PeriodInfo{
		Start:       run.PeriodStart,
		End:         run.PeriodEnd,
		PaymentDue:  run.PaymentDueDate,
		Label:       run.PeriodLabel,
		WorkingDays: comp.Config.Rates.StandardWorkDays,
	}
	outletGrouped := comp.GroupingType == company.GroupingOutlet

	in, err := s.buildItemInput(ctx, emp, comp.Config, outletGrouped, period, run.Month, run.Year, inputs)
	if err != nil {
		return payroll.PayItem{}, nil, err
	}

	fresh, warnings := ComputeItem(in)
	fresh.ID = item.ID
	fresh.RunID = item.RunID
	fresh.CreatedAt = item.CreatedAt
	fresh.OtherDeductions = item.OtherDeductions

	if item.OTManual {
		fresh.OTHours = item.OTHours
		fresh.OTAmount = item.OTAmount
		fresh.OTManual = true
	}
	if item.AbsentManual {
		fresh.AbsentDays = item.AbsentDays
		fresh.AbsentDayDeduction = item.AbsentDayDeduction
		fresh.AbsentManual = true
	}
	if item.OTManual || item.AbsentManual || !item.OtherDeductions.IsZero() {
		warnings = append(warnings, FinalizeItem(&fresh, in, StatutoryOverrides{})...)
	}
	return fresh, warnings, nil
}

func (s *PayrollServiceImpl) RecalculateAll(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if !run.Editable() {
			return payroll.ErrRunFinalized
		}

		// Input resolution parallelizes on the pool; a single pgx.Tx must
		// not serve concurrent queries.
		inputs, err := s.resolveInputs(ctx, companyID, comp.Config, run.Month, run.Year, run.PeriodStart, run.PeriodEnd)
		if err != nil {
			return err
		}
		items, err := s.payrollRepo.ListItemsByRun(txCtx, runID, companyID)
		if err != nil {
			return err
		}

		warnings := append([]string(nil), inputs.Warnings...)
		for _, item := range items {
			recalced, itemWarnings, err := s.recalcItem(txCtx, comp, run, item, inputs)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("item %s: recalculation failed: %v", item.ID, err))
				continue
			}
			if err := s.payrollRepo.UpdateItem(txCtx, recalced); err != nil {
				return err
			}
			warnings = append(warnings, itemWarnings...)
		}
		return s.retallyRun(txCtx, &run, comp.Config, warnings)
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return s.runResponse(ctx, companyID, runID)
}

func (s *PayrollServiceImpl) AddEmployees(ctx context.Context, runID string, req payroll.AddEmployeesRequest) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	outletGrouped := comp.GroupingType == company.GroupingOutlet

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunDraft {
			return payroll.ErrRunNotDraft
		}

		existing, err := s.payrollRepo.ListItemsByRun(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, it := range existing {
			present[it.EmployeeID] = true
		}

		// Input resolution parallelizes on the pool; a single pgx.Tx must
		// not serve concurrent queries.
		inputs, err := s.resolveInputs(ctx, companyID, comp.Config, run.Month, run.Year, run.PeriodStart, run.PeriodEnd)
		if err != nil {
			return err
		}
		period := PeriodInfo{
			Start:       run.PeriodStart,
			End:         run.PeriodEnd,
			PaymentDue:  run.PaymentDueDate,
			Label:       run.PeriodLabel,
			WorkingDays: comp.Config.Rates.StandardWorkDays,
		}

		warnings := append([]string(nil), inputs.Warnings...)
		for _, employeeID := range req.EmployeeIDs {
			if present[employeeID] {
				continue
			}
			emp, err := s.employeeRepo.GetByID(txCtx, employeeID, companyID)
			if err != nil {
				return err
			}
			in, err := s.buildItemInput(txCtx, emp, comp.Config, outletGrouped, period, run.Month, run.Year, inputs)
			if err != nil {
				return err
			}
			item, itemWarnings := ComputeItem(in)
			item.RunID = run.ID
			if _, err := s.payrollRepo.CreateItem(txCtx, item); err != nil {
				return err
			}
			warnings = append(warnings, itemWarnings...)
			run.ExcludedEmployees = removeExcluded(run.ExcludedEmployees, employeeID)
		}
		return s.retallyRun(txCtx, &run, comp.Config, warnings)
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return s.runResponse(ctx, companyID, runID)
}

func removeExcluded(list []payroll.ExcludedEmployee, employeeID string) []payroll.ExcludedEmployee {
	out := list[:0]
	for _, e := range list {
		if e.ID != employeeID {
			out = append(out, e)
		}
	}
	return out
}

// ========== LIFECYCLE ==========

func (s *PayrollServiceImpl) Approve(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunDraft {
			return payroll.ErrRunNotApprovable
		}
		return s.payrollRepo.SetRunApproved(txCtx, runID, companyID, userID, time.Now())
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return s.runResponse(ctx, companyID, runID)
}

func (s *PayrollServiceImpl) Finalize(ctx context.Context, runID string) (payroll.RunResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	cfg := comp.Config

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.Status == payroll.RunFinalized {
			return payroll.ErrRunFinalized
		}
		if cfg.Features.RequireApproval && run.Status != payroll.RunApproved {
			return payroll.ErrApprovalRequired
		}

		items, err := s.payrollRepo.ListItemsByRun(txCtx, runID, companyID)
		if err != nil {
			return err
		}

		// Claims reimbursed by this run are linked to their pay item so they
		// never enter a later run.
		var claimsByEmployee map[string][]claim.Claim
		if cfg.Features.AutoClaimsLinking {
			unlinked, err := s.claimRepo.ListApprovedUnlinked(txCtx, companyID, run.PeriodStart, run.PeriodEnd)
			if err != nil {
				return err
			}
			claimsByEmployee = make(map[string][]claim.Claim)
			for _, c := range unlinked {
				claimsByEmployee[c.EmployeeID] = append(claimsByEmployee[c.EmployeeID], c)
			}
		}

		for _, item := range items {
			if cfg.Features.AutoClaimsLinking {
				if claims := claimsByEmployee[item.EmployeeID]; len(claims) > 0 {
					ids := make([]string, len(claims))
					for i, c := range claims {
						ids[i] = c.ID
					}
					if err := s.claimRepo.LinkToPayItem(txCtx, companyID, ids, item.ID); err != nil {
						return err
					}
				}
			}

			// Cement carried-forward salaries back onto the employee record.
			if cfg.Features.SalaryCarryForward && item.Method != payroll.MethodPartTime {
				emp, err := s.employeeRepo.GetByID(txCtx, item.EmployeeID, companyID)
				if err != nil {
					return err
				}
				if !emp.BasicSalary.Equal(item.BasicSalary) || !emp.FixedAllowance.Equal(item.FixedAllowance) {
					if err := s.employeeRepo.UpdateSalaryDefaults(txCtx, emp.ID, companyID, item.BasicSalary, item.FixedAllowance); err != nil {
						return err
					}
				}
			}
		}

		return s.payrollRepo.SetRunFinalized(txCtx, runID, companyID, time.Now())
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return s.runResponse(ctx, companyID, runID)
}

func (s *PayrollServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		run, err := s.payrollRepo.GetRunForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.Status != payroll.RunDraft {
			return payroll.ErrRunNotDraft
		}
		return s.payrollRepo.DeleteRun(txCtx, runID, companyID)
	})
}

func (s *PayrollServiceImpl) DeleteDraftRuns(ctx context.Context, month, year int) (int64, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		deleted, err = s.payrollRepo.DeleteDraftRuns(txCtx, companyID, month, year)
		return err
	})
	return deleted, err
}

// ========== BATCH GENERATION ==========

func (s *PayrollServiceImpl) GenerateAllDepartments(ctx context.Context, month, year int, notes *string) ([]payroll.BatchOutcome, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.companyRepo.ListDepartments(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var outcomes []payroll.BatchOutcome
	for _, dept := range departments {
		deptID := dept.ID
		outcome := s.generateForGrouping(ctx, payroll.CreateRunRequest{
			Month:        month,
			Year:         year,
			DepartmentID: &deptID,
			Notes:        notes,
		}, dept.ID, dept.Name)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *PayrollServiceImpl) GenerateAllOutlets(ctx context.Context, month, year int, notes *string) ([]payroll.BatchOutcome, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	outlets, err := s.companyRepo.ListOutlets(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var outcomes []payroll.BatchOutcome
	for _, outlet := range outlets {
		outletID := outlet.ID
		outcome := s.generateForGrouping(ctx, payroll.CreateRunRequest{
			Month:    month,
			Year:     year,
			OutletID: &outletID,
			Notes:    notes,
		}, outlet.ID, outlet.Name)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// generateForGrouping wraps one CreateRun in batch semantics: conflicts and
// empty cohorts skip the grouping instead of failing the batch.
func (s *PayrollServiceImpl) generateForGrouping(ctx context.Context, req payroll.CreateRunRequest, groupingID, groupingName string) payroll.BatchOutcome {
	outcome := payroll.BatchOutcome{GroupingID: groupingID, GroupingName: groupingName}

	resp, err := s.CreateRun(ctx, req)
	if err != nil {
		reason := err.Error()
		outcome.Skipped = true
		outcome.Reason = &reason
		return outcome
	}
	runID := resp.ID
	outcome.RunID = &runID
	return outcome
}
