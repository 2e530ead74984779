package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/talenthub/hrm-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.PeriodMonth) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SkippedEmployee explains why no row was created for an employee.
type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// GenerationResult distinguishes "no eligible employees" from
// "nothing new generated" via Message; neither is an error.
type GenerationResult struct {
	Created []RecordResponse  `json:"created"`
	Skipped []SkippedEmployee `json:"skipped"`
	Message string            `json:"message"`
}

type LineItemInput struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// UpdateRecordRequest carries only the fields present in the patch.
type UpdateRecordRequest struct {
	ID            string           `json:"-"`
	Status        *string          `json:"status,omitempty"`
	PaymentDate   *string          `json:"payment_date,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`
	BasicSalary   *string          `json:"basic_salary,omitempty"`
	Allowances    *[]LineItemInput `json:"allowances,omitempty"`
	Deductions    *[]LineItemInput `json:"deductions,omitempty"`
	NetSalary     *string          `json:"net_salary,omitempty"`
}

type RecordResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	PeriodMonth    int        `json:"period_month"`
	PeriodYear     int        `json:"period_year"`
	BasicSalary    string     `json:"basic_salary"`
	OvertimeHours  string     `json:"overtime_hours"`
	OvertimeRate   string     `json:"overtime_rate"`
	OvertimeAmount string     `json:"overtime_amount"`
	Allowances     []LineItem `json:"allowances"`
	Deductions     []LineItem `json:"deductions"`
	TaxAmount      string     `json:"tax_amount"`
	NetSalary      string     `json:"net_salary"`
	Status         string     `json:"status"`
	PaymentDate    *string    `json:"payment_date,omitempty"`
	PaymentMethod  *string    `json:"payment_method,omitempty"`
	Remarks        *string    `json:"remarks,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UpdateRecordResponse wraps the record with a message for soft
// no-op outcomes (already paid).
type UpdateRecordResponse struct {
	Record  RecordResponse `json:"record"`
	Message string         `json:"message,omitempty"`
}

type Filter struct {
	PeriodMonth *int
	PeriodYear  *int
	Status      *Status
	EmployeeID  *string
	Page        int
	Limit       int
}

type ListRecordsResponse struct {
	Data       []RecordResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// MonthlyTotal is one aggregated period.
type MonthlyTotal struct {
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Count       int64           `json:"count"`
	AvgSalary   decimal.Decimal `json:"avg_salary"`
}

// CompanyTotals covers payroll rows created in the current calendar
// month.
type CompanyTotals struct {
	TotalPayroll    decimal.Decimal `json:"total_payroll"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	EmployeeCount   int64           `json:"employee_count"`
}
