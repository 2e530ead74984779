package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusProcessed, StatusPaid:
		return true
	}
	return false
}

// LineItem is one allowance or deduction entry. Zero-amount entries
// are never persisted.
type LineItem struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// Record - generated payroll result, unique per (employee, month, year)
type Record struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	// Pro-rated when the employee joined mid-month
	BasicSalary    decimal.Decimal
	OvertimeHours  decimal.Decimal
	OvertimeRate   decimal.Decimal
	OvertimeAmount decimal.Decimal

	Allowances []LineItem
	Deductions []LineItem

	TaxAmount decimal.Decimal
	NetSalary decimal.Decimal

	Status        Status
	PaymentDate   *time.Time
	PaymentMethod *string
	Remarks       *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined field (for responses)
	EmployeeName *string
}

// TotalAllowances sums the allowance line items.
func (r Record) TotalAllowances() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Allowances {
		total = total.Add(a.Amount)
	}
	return total
}

// TotalDeductions sums the deduction line items, tax included.
func (r Record) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range r.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}
