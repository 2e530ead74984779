package attendance

import "context"

// AttendanceRepository - read-only view of attendance rows
type AttendanceRepository interface {
	// FindByPeriod returns every attendance row in the given calendar
	// month, across all employees. The payroll generator groups the
	// result by employee to avoid one query per employee.
	FindByPeriod(ctx context.Context, month, year int) ([]Record, error)
}
