package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talenthub/hrm-backend-go/internal/domain/attendance"
	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/payroll"
	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
)

type fakeSettingsRepo struct {
	current *settings.Settings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	if f.current == nil {
		return settings.Settings{}, settings.ErrSettingsNotConfigured
	}
	return *f.current, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	if f.current != nil {
		return settings.Settings{}, settings.ErrSettingsAlreadyExists
	}
	f.current = &s
	return s, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	if f.current == nil {
		return settings.Settings{}, settings.ErrSettingsNotConfigured
	}
	f.current = &s
	return s, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var active []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) FindByPeriod(ctx context.Context, month, year int) ([]attendance.Record, error) {
	var result []attendance.Record
	for _, r := range f.records {
		if int(r.Date.Month()) == month && r.Date.Year() == year {
			result = append(result, r)
		}
	}
	return result, nil
}

// fakePayrollRepo mirrors the storage uniqueness constraint on
// (employee, month, year) so the concurrency tests exercise the same
// race the database would arbitrate.
type fakePayrollRepo struct {
	mu      sync.Mutex
	records map[string]payroll.Record
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{records: make(map[string]payroll.Record)}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s:%d:%d", employeeID, month, year)
}

func (f *fakePayrollRepo) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID &&
			existing.PeriodMonth == record.PeriodMonth &&
			existing.PeriodYear == record.PeriodYear {
			return payroll.Record{}, payroll.ErrRecordAlreadyExists
		}
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakePayrollRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.PeriodMonth == month && rec.PeriodYear == year {
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.Filter) ([]payroll.Record, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Record
	for _, rec := range f.records {
		if filter.PeriodMonth != nil && rec.PeriodMonth != *filter.PeriodMonth {
			continue
		}
		if filter.PeriodYear != nil && rec.PeriodYear != *filter.PeriodYear {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, rec)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakePayrollRepo) Update(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	record.UpdatedAt = time.Now()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return payroll.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakePayrollRepo) MonthlyTotals(ctx context.Context, limit int) ([]payroll.MonthlyTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	totals := make(map[string]*payroll.MonthlyTotal)
	for _, rec := range f.records {
		key := periodKey("", rec.PeriodMonth, rec.PeriodYear)
		t, ok := totals[key]
		if !ok {
			t = &payroll.MonthlyTotal{Month: rec.PeriodMonth, Year: rec.PeriodYear}
			totals[key] = t
		}
		t.TotalPayout = t.TotalPayout.Add(rec.NetSalary)
		t.Count++
	}

	var result []payroll.MonthlyTotal
	for _, t := range totals {
		if t.Count > 0 {
			t.AvgSalary = t.TotalPayout.Div(decimal.NewFromInt(t.Count)).Round(2)
		}
		result = append(result, *t)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (f *fakePayrollRepo) CurrentMonthTotals(ctx context.Context, now time.Time) (payroll.CompanyTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	totals := payroll.CompanyTotals{}
	seen := make(map[string]bool)
	for _, rec := range f.records {
		if rec.CreatedAt.Year() != now.Year() || rec.CreatedAt.Month() != now.Month() {
			continue
		}
		totals.TotalPayroll = totals.TotalPayroll.
			Add(rec.BasicSalary).
			Add(rec.TotalAllowances()).
			Add(rec.OvertimeAmount).
			Sub(rec.TotalDeductions())
		totals.TotalDeductions = totals.TotalDeductions.Add(rec.TotalDeductions())
		if !seen[rec.EmployeeID] {
			seen[rec.EmployeeID] = true
			totals.EmployeeCount++
		}
	}
	return totals, nil
}

func (f *fakePayrollRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func testOrgSettings() *fakeSettingsRepo {
	return &fakeSettingsRepo{current: &settings.Settings{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		AnnualLeaveQuota:   12,
		SickLeaveQuota:     10,
		TaxRatePercent:     decimal.NewFromInt(10),
		OvertimeMultiplier: decimal.NewFromFloat(1.5),
		PayDay:             25,
		Cycle:              settings.CycleMonthly,
	}}
}

func testEmployee(id, name string, joined time.Time, salary int64) employee.Employee {
	joining := joined
	return employee.Employee{
		ID:          id,
		FullName:    name,
		Email:       name + "@example.com",
		Role:        employee.RoleEmployee,
		JoiningDate: &joining,
		BasicSalary: decimal.NewFromInt(salary),
		IsActive:    true,
	}
}
