package leave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/leave"
	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
)

// In-memory repository fakes. All of them are safe for concurrent use
// so the admission tests can hammer the service from many goroutines.

type fakeSettingsRepo struct {
	mu      sync.Mutex
	current *settings.Settings
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return settings.Settings{}, settings.ErrSettingsNotConfigured
	}
	return *f.current, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current != nil {
		return settings.Settings{}, settings.ErrSettingsAlreadyExists
	}
	f.current = &s
	return s, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return settings.Settings{}, settings.ErrSettingsNotConfigured
	}
	f.current = &s
	return s, nil
}

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]leave.Balance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]leave.Balance)}
}

func balanceKey(employeeID string, year int) string {
	return fmt.Sprintf("%s:%d", employeeID, year)
}

func (f *fakeBalanceRepo) GetOrCreate(ctx context.Context, seed leave.Balance) (leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := balanceKey(seed.EmployeeID, seed.Year)
	if existing, ok := f.balances[key]; ok {
		return existing, nil
	}
	f.balances[key] = seed
	return seed, nil
}

func (f *fakeBalanceRepo) Get(ctx context.Context, employeeID string, year int) (leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey(employeeID, year)]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (f *fakeBalanceRepo) Reset(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := balanceKey(b.EmployeeID, b.Year)
	if _, ok := f.balances[key]; !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	f.balances[key] = b
	return b, nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(ids ...string) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, id := range ids {
		f.employees[id] = employee.Employee{ID: id, IsActive: true}
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]leave.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) ListByEmployeeYear(ctx context.Context, employeeID string, year int, statuses []leave.RequestStatus) ([]leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[leave.RequestStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	var result []leave.Request
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.StartDate.Year() == year && wanted[req.Status] {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []leave.Request
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.Year != nil && req.StartDate.Year() != *filter.Year {
			continue
		}
		result = append(result, req)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.requests[req.ID]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	existing.Type = req.Type
	existing.StartDate = req.StartDate
	existing.EndDate = req.EndDate
	existing.Duration = req.Duration
	existing.Reason = req.Reason
	existing.UpdatedAt = time.Now()
	f.requests[req.ID] = existing
	return existing, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus, actionBy string, actionAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	req.Status = status
	req.ActionBy = &actionBy
	req.ActionAt = &actionAt
	f.requests[id] = req
	return nil
}

func (f *fakeRequestRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[id]; !ok {
		return leave.ErrRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// seedRequest inserts a request directly, bypassing admission.
func (f *fakeRequestRepo) seedRequest(employeeID string, leaveType leave.Type, start, end time.Time, duration int, status leave.RequestStatus) leave.Request {
	req := leave.Request{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: employeeID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Duration:   duration,
		Reason:     "seeded",
		Status:     status,
		CreatedAt:  time.Now(),
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = req
	return req
}

// runWithoutTx stands in for the transaction runner; the fakes have no
// transactions to begin.
func runWithoutTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testSettings() *fakeSettingsRepo {
	return &fakeSettingsRepo{current: &settings.Settings{
		ID:                  uuid.Must(uuid.NewV7()).String(),
		AnnualLeaveQuota:    12,
		SickLeaveQuota:      10,
		PersonalLeaveQuota:  5,
		MaternityLeaveQuota: 90,
		PaternityLeaveQuota: 14,
		UnpaidLeaveQuota:    30,
		CarryForwardLimit:   5,
		PayDay:              25,
		Cycle:               settings.CycleMonthly,
	}}
}
