package leave

import (
	"errors"
	"fmt"
)

var (
	ErrBalanceNotFound         = errors.New("leave balance not found")
	ErrRequestNotFound         = errors.New("leave request not found")
	ErrUnknownLeaveType        = errors.New("unknown leave type")
	ErrInvalidDateRange        = errors.New("invalid leave date range")
	ErrRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidStatus           = errors.New("invalid leave request status")
	ErrNotRequestOwner         = errors.New("leave request belongs to another employee")
)

// InsufficientBalanceError carries the numbers the caller needs to
// render a precise message ("Available: R days (P pending),
// Requested: D days").
type InsufficientBalanceError struct {
	Type      Type
	Remaining int
	Pending   int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s leave balance: available %d days (%d pending), requested %d days",
		e.Type, e.Remaining, e.Pending, e.Requested)
}
