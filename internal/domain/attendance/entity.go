package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

// Record entity
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Status        Status
	OvertimeHours decimal.Decimal
	CreatedAt     time.Time
}
