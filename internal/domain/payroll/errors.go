package payroll

import "errors"

var (
	ErrRecordNotFound       = errors.New("payroll record not found")
	ErrRecordAlreadyExists  = errors.New("payroll record already exists for this period")
	ErrFuturePeriod         = errors.New("cannot generate payroll for a future period")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrCannotDeleteNonDraft = errors.New("only draft payroll records can be deleted")
)
