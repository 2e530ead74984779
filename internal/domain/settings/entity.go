package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollCycle enum
type PayrollCycle string

const (
	CycleWeekly   PayrollCycle = "weekly"
	CycleBiweekly PayrollCycle = "biweekly"
	CycleMonthly  PayrollCycle = "monthly"
)

func (c PayrollCycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleBiweekly, CycleMonthly:
		return true
	}
	return false
}

// Settings is the organization-wide policy record. Exactly one row
// exists; every computation in the leave and payroll services reads it.
type Settings struct {
	ID string

	// Leave quotas, annual day pools per type
	AnnualLeaveQuota    int
	SickLeaveQuota      int
	PersonalLeaveQuota  int
	MaternityLeaveQuota int
	PaternityLeaveQuota int
	UnpaidLeaveQuota    int

	// Max days transferable across a year boundary
	CarryForwardLimit int

	// Payroll policy
	TaxRatePercent     decimal.Decimal
	OvertimeMultiplier decimal.Decimal
	PayDay             int
	Cycle              PayrollCycle

	CreatedAt time.Time
	UpdatedAt time.Time
}
