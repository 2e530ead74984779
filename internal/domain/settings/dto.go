package settings

import (
	"github.com/shopspring/decimal"

	"github.com/talenthub/hrm-backend-go/internal/pkg/validator"
)

type CreateSettingsRequest struct {
	AnnualLeaveQuota    int    `json:"annual_leave_quota"`
	SickLeaveQuota      int    `json:"sick_leave_quota"`
	PersonalLeaveQuota  int    `json:"personal_leave_quota"`
	MaternityLeaveQuota int    `json:"maternity_leave_quota"`
	PaternityLeaveQuota int    `json:"paternity_leave_quota"`
	UnpaidLeaveQuota    int    `json:"unpaid_leave_quota"`
	CarryForwardLimit   int    `json:"carry_forward_limit"`
	TaxRatePercent      string `json:"tax_rate_percent"`
	OvertimeMultiplier  string `json:"overtime_multiplier"`
	PayDay              int    `json:"pay_day"`
	Cycle               string `json:"cycle"`
}

func (r CreateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, quota := range map[string]int{
		"annual_leave_quota":    r.AnnualLeaveQuota,
		"sick_leave_quota":      r.SickLeaveQuota,
		"personal_leave_quota":  r.PersonalLeaveQuota,
		"maternity_leave_quota": r.MaternityLeaveQuota,
		"paternity_leave_quota": r.PaternityLeaveQuota,
		"unpaid_leave_quota":    r.UnpaidLeaveQuota,
		"carry_forward_limit":   r.CarryForwardLimit,
	} {
		if quota < 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must not be negative"})
		}
	}

	if rate, err := decimal.NewFromString(r.TaxRatePercent); err != nil {
		errs = append(errs, validator.ValidationError{Field: "tax_rate_percent", Message: "must be a decimal number"})
	} else if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "tax_rate_percent", Message: "must be between 0 and 100"})
	}

	if mult, err := decimal.NewFromString(r.OvertimeMultiplier); err != nil {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be a decimal number"})
	} else if mult.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must not be negative"})
	}

	if r.PayDay < 1 || r.PayDay > 28 {
		errs = append(errs, validator.ValidationError{Field: "pay_day", Message: "must be between 1 and 28"})
	}

	if !PayrollCycle(r.Cycle).Valid() {
		errs = append(errs, validator.ValidationError{Field: "cycle", Message: "must be weekly, biweekly or monthly"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSettingsRequest carries only the fields present in the patch.
type UpdateSettingsRequest struct {
	AnnualLeaveQuota    *int    `json:"annual_leave_quota,omitempty"`
	SickLeaveQuota      *int    `json:"sick_leave_quota,omitempty"`
	PersonalLeaveQuota  *int    `json:"personal_leave_quota,omitempty"`
	MaternityLeaveQuota *int    `json:"maternity_leave_quota,omitempty"`
	PaternityLeaveQuota *int    `json:"paternity_leave_quota,omitempty"`
	UnpaidLeaveQuota    *int    `json:"unpaid_leave_quota,omitempty"`
	CarryForwardLimit   *int    `json:"carry_forward_limit,omitempty"`
	TaxRatePercent      *string `json:"tax_rate_percent,omitempty"`
	OvertimeMultiplier  *string `json:"overtime_multiplier,omitempty"`
	PayDay              *int    `json:"pay_day,omitempty"`
	Cycle               *string `json:"cycle,omitempty"`
}

type SettingsResponse struct {
	ID                  string `json:"id"`
	AnnualLeaveQuota    int    `json:"annual_leave_quota"`
	SickLeaveQuota      int    `json:"sick_leave_quota"`
	PersonalLeaveQuota  int    `json:"personal_leave_quota"`
	MaternityLeaveQuota int    `json:"maternity_leave_quota"`
	PaternityLeaveQuota int    `json:"paternity_leave_quota"`
	UnpaidLeaveQuota    int    `json:"unpaid_leave_quota"`
	CarryForwardLimit   int    `json:"carry_forward_limit"`
	TaxRatePercent      string `json:"tax_rate_percent"`
	OvertimeMultiplier  string `json:"overtime_multiplier"`
	PayDay              int    `json:"pay_day"`
	Cycle               string `json:"cycle"`
}
