package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Employee entity, the slice of the directory the core needs
type Employee struct {
	ID          string
	FullName    string
	Email       string
	Role        Role
	JoiningDate *time.Time
	BasicSalary decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
