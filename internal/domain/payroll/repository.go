package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for payroll records. The
// storage layer enforces the (employee, month, year) uniqueness
// constraint; Create surfaces a violation as ErrRecordAlreadyExists so
// the generator can convert it into a skip.
type PayrollRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Record, error)
	List(ctx context.Context, filter Filter) ([]Record, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	Update(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, id string) error

	// Aggregations
	MonthlyTotals(ctx context.Context, limit int) ([]MonthlyTotal, error)
	CurrentMonthTotals(ctx context.Context, now time.Time) (CompanyTotals, error)
}
