package leave

import (
	"context"
	"time"
)

// BalanceRepository - interface for leave_balances rows
type BalanceRepository interface {
	// GetOrCreate fetches the (employee, year) row, inserting seed if
	// absent. The insert must be idempotent under concurrent callers.
	GetOrCreate(ctx context.Context, seed Balance) (Balance, error)
	Get(ctx context.Context, employeeID string, year int) (Balance, error)
	// Reset overwrites the stored pools and carry-forward.
	Reset(ctx context.Context, b Balance) (Balance, error)
}

// RequestRepository - interface for leave_requests rows
type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// ListByEmployeeYear returns the employee's requests whose start
	// date falls in the calendar year, restricted to statuses.
	ListByEmployeeYear(ctx context.Context, employeeID string, year int, statuses []RequestStatus) ([]Request, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
	Update(ctx context.Context, req Request) (Request, error)
	UpdateStatus(ctx context.Context, id string, status RequestStatus, actionBy string, actionAt time.Time) error
	Delete(ctx context.Context, id string) error
}
