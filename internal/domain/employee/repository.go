package employee

import "context"

// EmployeeRepository - read-only view of the employee directory
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns every active employee, admins included; the
	// payroll generator applies its own eligibility rules.
	ListActive(ctx context.Context) ([]Employee, error)
}
