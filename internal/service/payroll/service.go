package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/talenthub/hrm-backend-go/internal/domain/attendance"
	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/payroll"
	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
	"github.com/talenthub/hrm-backend-go/internal/pkg/validator"
)

// Monthly divisor for deriving the hourly wage from a monthly salary
// (statutory 173-hour month).
var monthlyHoursDivisor = decimal.NewFromInt(173)

const (
	skipReasonExists      = "already exists"
	skipReasonJoinedAfter = "joined after period"
	skipReasonNoSalary    = "no basic salary"
)

type PayrollServiceImpl struct {
	settingsRepo   settings.SettingsRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	payrollRepo    payroll.PayrollRepository

	// Worker pool bound for per-employee generation; must stay below
	// the database pool size.
	workers int

	now func() time.Time
}

func NewPayrollService(
	settingsRepo settings.SettingsRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	payrollRepo payroll.PayrollRepository,
	workers int,
) payroll.PayrollService {
	if workers < 1 {
		workers = 1
	}
	return &PayrollServiceImpl{
		settingsRepo:   settingsRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		payrollRepo:    payrollRepo,
		workers:        workers,
		now:            time.Now,
	}
}

// GenerateForPeriod computes one payroll record per eligible employee
// for the target month, skipping employees that already have a row or
// joined after the period. Per-employee processing is independent and
// runs on a bounded worker pool; the storage uniqueness constraint on
// (employee, month, year) makes concurrent generation calls safe.
func (s *PayrollServiceImpl) GenerateForPeriod(ctx context.Context, req payroll.GenerateRequest) (payroll.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerationResult{}, err
	}

	now := s.now()
	if req.PeriodYear > now.Year() ||
		(req.PeriodYear == now.Year() && req.PeriodMonth > int(now.Month())) {
		return payroll.GenerationResult{}, payroll.ErrFuturePeriod
	}

	org, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to load settings: %w", err)
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	// Admins and employees without a recorded joining date are never
	// eligible.
	eligible := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.Role == employee.RoleAdmin || emp.JoiningDate == nil {
			continue
		}
		eligible = append(eligible, emp)
	}
	if len(eligible) == 0 {
		return payroll.GenerationResult{
			Created: []payroll.RecordResponse{},
			Skipped: []payroll.SkippedEmployee{},
			Message: "no eligible employees",
		}, nil
	}

	// One attendance query for the whole period, grouped by employee.
	attendanceRows, err := s.attendanceRepo.FindByPeriod(ctx, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.GenerationResult{}, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	attendanceByEmployee := make(map[string][]attendance.Record)
	for _, row := range attendanceRows {
		attendanceByEmployee[row.EmployeeID] = append(attendanceByEmployee[row.EmployeeID], row)
	}

	var (
		resultMu sync.Mutex
		created  []payroll.RecordResponse
		skipped  []payroll.SkippedEmployee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, emp := range eligible {
		emp := emp
		g.Go(func() error {
			rec, skipReason, err := s.generateForEmployee(gctx, emp, org, attendanceByEmployee[emp.ID], req.PeriodMonth, req.PeriodYear)
			if err != nil {
				return err
			}

			resultMu.Lock()
			defer resultMu.Unlock()
			if skipReason != "" {
				skipped = append(skipped, payroll.SkippedEmployee{EmployeeID: emp.ID, Reason: skipReason})
				return nil
			}
			created = append(created, mapToRecordResponse(rec))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payroll.GenerationResult{}, err
	}

	message := fmt.Sprintf("generated %d payroll records", len(created))
	if len(created) == 0 {
		message = "nothing new generated"
	}
	if created == nil {
		created = []payroll.RecordResponse{}
	}
	if skipped == nil {
		skipped = []payroll.SkippedEmployee{}
	}

	return payroll.GenerationResult{Created: created, Skipped: skipped, Message: message}, nil
}

// generateForEmployee runs steps (existence check → compute → persist)
// for a single employee. The insert is the atomic existence check: a
// uniqueness violation from a concurrent run converts to a skip.
func (s *PayrollServiceImpl) generateForEmployee(
	ctx context.Context,
	emp employee.Employee,
	org settings.Settings,
	rows []attendance.Record,
	month, year int,
) (payroll.Record, string, error) {
	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	joining := *emp.JoiningDate

	if !joining.Before(firstOfNextMonth) {
		return payroll.Record{}, skipReasonJoinedAfter, nil
	}
	if emp.BasicSalary.IsZero() {
		return payroll.Record{}, skipReasonNoSalary, nil
	}

	_, err := s.payrollRepo.GetByEmployeePeriod(ctx, emp.ID, month, year)
	if err == nil {
		return payroll.Record{}, skipReasonExists, nil
	}
	if !errors.Is(err, payroll.ErrRecordNotFound) {
		return payroll.Record{}, "", fmt.Errorf("failed to check existing payroll record: %w", err)
	}

	rec := buildRecord(emp, org, rows, month, year)

	createdRec, err := s.payrollRepo.Create(ctx, rec)
	if err != nil {
		if errors.Is(err, payroll.ErrRecordAlreadyExists) {
			// Lost the race against a concurrent generation call.
			return payroll.Record{}, skipReasonExists, nil
		}
		return payroll.Record{}, "", fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
	}

	return createdRec, "", nil
}

// buildRecord is the pure computation: pro-rated basic salary,
// overtime from attendance, tax from settings, default line items.
func buildRecord(
	emp employee.Employee,
	org settings.Settings,
	rows []attendance.Record,
	month, year int,
) payroll.Record {
	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstOfMonth.AddDate(0, 1, -1).Day()
	joining := *emp.JoiningDate

	basicSalary := emp.BasicSalary
	var remarks *string
	if joining.After(firstOfMonth) && joining.Before(firstOfMonth.AddDate(0, 1, 0)) {
		daysWorked := daysInMonth - joining.Day() + 1
		basicSalary = emp.BasicSalary.
			Mul(decimal.NewFromInt(int64(daysWorked))).
			Div(decimal.NewFromInt(int64(daysInMonth))).
			Round(2)
		note := fmt.Sprintf("Salary pro-rated from joining date %s (%d/%d days)",
			joining.Format("2006-01-02"), daysWorked, daysInMonth)
		remarks = &note
	}

	overtimeHours := decimal.Zero
	for _, row := range rows {
		if row.Status == attendance.StatusPresent {
			overtimeHours = overtimeHours.Add(row.OvertimeHours)
		}
	}
	overtimeRate := emp.BasicSalary.Div(monthlyHoursDivisor).Mul(org.OvertimeMultiplier).Round(2)
	overtimeAmount := overtimeHours.Mul(overtimeRate).Round(2)

	taxAmount := basicSalary.Mul(org.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)

	// Housing/transport allowances and insurance default to zero and
	// zero-amount line items are omitted, so a fresh record carries
	// only the derived tax deduction.
	var allowances []payroll.LineItem
	var deductions []payroll.LineItem
	if taxAmount.IsPositive() {
		deductions = append(deductions, payroll.LineItem{
			Type:        "tax",
			Amount:      taxAmount,
			Description: fmt.Sprintf("Income tax %s%%", org.TaxRatePercent.String()),
		})
	}

	rec := payroll.Record{
		ID:             uuid.Must(uuid.NewV7()).String(),
		EmployeeID:     emp.ID,
		PeriodMonth:    month,
		PeriodYear:     year,
		BasicSalary:    basicSalary,
		OvertimeHours:  overtimeHours,
		OvertimeRate:   overtimeRate,
		OvertimeAmount: overtimeAmount,
		Allowances:     allowances,
		Deductions:     deductions,
		TaxAmount:      taxAmount,
		Status:         payroll.StatusDraft,
		Remarks:        remarks,
	}
	rec.NetSalary = basicSalary.
		Add(rec.TotalAllowances()).
		Add(overtimeAmount).
		Sub(rec.TotalDeductions())

	return rec
}

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return mapToRecordResponse(rec), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.Filter) (payroll.ListRecordsResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PeriodMonth != nil && (*filter.PeriodMonth < 1 || *filter.PeriodMonth > 12) {
		return payroll.ListRecordsResponse{}, payroll.ErrInvalidPeriod
	}
	if filter.PeriodYear != nil && (*filter.PeriodYear < 2000 || *filter.PeriodYear > 2100) {
		return payroll.ListRecordsResponse{}, payroll.ErrInvalidPeriod
	}

	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListRecordsResponse{}, err
	}

	data := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, mapToRecordResponse(r))
	}

	return payroll.ListRecordsResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateRecord applies only the fields present in the patch. A record
// whose status is paid is immutable: the call returns the record
// unchanged with a message rather than an error, since that is an
// expected steady state, not a fault.
func (s *PayrollServiceImpl) UpdateRecord(ctx context.Context, req payroll.UpdateRecordRequest) (payroll.UpdateRecordResponse, error) {
	rec, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.UpdateRecordResponse{}, err
	}

	if rec.Status == payroll.StatusPaid {
		return payroll.UpdateRecordResponse{
			Record:  mapToRecordResponse(rec),
			Message: "payroll record already paid; no changes applied",
		}, nil
	}

	recomputeNet := false

	if req.Status != nil {
		status := payroll.Status(*req.Status)
		if !status.Valid() {
			return payroll.UpdateRecordResponse{}, validator.ValidationErrors{
				{Field: "status", Message: "must be draft, processed or paid"},
			}
		}
		rec.Status = status
		if status == payroll.StatusPaid {
			paymentDate := s.now()
			if req.PaymentDate != nil {
				if parsed, ok := validator.IsValidDate(*req.PaymentDate); ok {
					paymentDate = parsed
				}
			}
			rec.PaymentDate = &paymentDate
			if req.PaymentMethod != nil {
				rec.PaymentMethod = req.PaymentMethod
			}
		}
	}
	if req.Remarks != nil {
		rec.Remarks = req.Remarks
	}
	if req.BasicSalary != nil {
		basic, err := decimal.NewFromString(*req.BasicSalary)
		if err != nil {
			return payroll.UpdateRecordResponse{}, validator.ValidationErrors{
				{Field: "basic_salary", Message: "must be a decimal number"},
			}
		}
		rec.BasicSalary = basic
		recomputeNet = true
	}
	if req.Allowances != nil {
		items, err := parseLineItems(*req.Allowances, "allowances")
		if err != nil {
			return payroll.UpdateRecordResponse{}, err
		}
		rec.Allowances = items
		recomputeNet = true
	}
	if req.Deductions != nil {
		items, err := parseLineItems(*req.Deductions, "deductions")
		if err != nil {
			return payroll.UpdateRecordResponse{}, err
		}
		rec.Deductions = items
		recomputeNet = true
	}
	if req.NetSalary != nil {
		net, err := decimal.NewFromString(*req.NetSalary)
		if err != nil {
			return payroll.UpdateRecordResponse{}, validator.ValidationErrors{
				{Field: "net_salary", Message: "must be a decimal number"},
			}
		}
		rec.NetSalary = net
		recomputeNet = false
	} else if recomputeNet {
		rec.NetSalary = rec.BasicSalary.
			Add(rec.TotalAllowances()).
			Add(rec.OvertimeAmount).
			Sub(rec.TotalDeductions())
	}

	updated, err := s.payrollRepo.Update(ctx, rec)
	if err != nil {
		return payroll.UpdateRecordResponse{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return payroll.UpdateRecordResponse{Record: mapToRecordResponse(updated)}, nil
}

// DeleteRecord is permitted only while the record is still a draft.
func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	rec, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != payroll.StatusDraft {
		return payroll.ErrCannotDeleteNonDraft
	}

	return s.payrollRepo.Delete(ctx, id)
}

func (s *PayrollServiceImpl) MonthlyTotals(ctx context.Context, limit int) ([]payroll.MonthlyTotal, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.payrollRepo.MonthlyTotals(ctx, limit)
}

func (s *PayrollServiceImpl) CurrentMonthTotals(ctx context.Context) (payroll.CompanyTotals, error) {
	return s.payrollRepo.CurrentMonthTotals(ctx, s.now())
}

func (s *PayrollServiceImpl) EmployeeHistory(ctx context.Context, employeeID string) ([]payroll.RecordResponse, error) {
	records, err := s.payrollRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result, nil
}

// parseLineItems converts the patch entries, dropping zero amounts.
func parseLineItems(inputs []payroll.LineItemInput, field string) ([]payroll.LineItem, error) {
	var items []payroll.LineItem
	for _, in := range inputs {
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return nil, validator.ValidationErrors{
				{Field: field, Message: fmt.Sprintf("amount for %q must be a decimal number", in.Type)},
			}
		}
		if amount.IsZero() {
			continue
		}
		items = append(items, payroll.LineItem{
			Type:        in.Type,
			Amount:      amount,
			Description: in.Description,
		})
	}
	return items, nil
}

func mapToRecordResponse(r payroll.Record) payroll.RecordResponse {
	var paymentDateStr *string
	if r.PaymentDate != nil {
		str := r.PaymentDate.Format("2006-01-02")
		paymentDateStr = &str
	}

	allowances := r.Allowances
	if allowances == nil {
		allowances = []payroll.LineItem{}
	}
	deductions := r.Deductions
	if deductions == nil {
		deductions = []payroll.LineItem{}
	}

	return payroll.RecordResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		PeriodMonth:    r.PeriodMonth,
		PeriodYear:     r.PeriodYear,
		BasicSalary:    r.BasicSalary.String(),
		OvertimeHours:  r.OvertimeHours.String(),
		OvertimeRate:   r.OvertimeRate.String(),
		OvertimeAmount: r.OvertimeAmount.String(),
		Allowances:     allowances,
		Deductions:     deductions,
		TaxAmount:      r.TaxAmount.String(),
		NetSalary:      r.NetSalary.String(),
		Status:         string(r.Status),
		PaymentDate:    paymentDateStr,
		PaymentMethod:  r.PaymentMethod,
		Remarks:        r.Remarks,
		CreatedAt:      r.CreatedAt,
	}
}
