package leave

import (
	"time"

	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
)

// Type is the closed enumeration of leave types. Anything outside
// these six values is rejected at the boundary.
type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypePersonal  Type = "personal"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeUnpaid    Type = "unpaid"
)

// QuotaSource tells where a type's annual quota comes from.
type QuotaSource string

const (
	// QuotaStored - frozen on the employee's Balance row when it is
	// seeded. Only these pools participate in carry-forward and reset.
	QuotaStored QuotaSource = "stored"
	// QuotaFromSettings - read live from the current Settings row on
	// every snapshot.
	QuotaFromSettings QuotaSource = "settings"
)

// typeSpec carries each type's quota-resolution rule as data.
type typeSpec struct {
	Source        QuotaSource
	SettingsQuota func(settings.Settings) int
}

var typeSpecs = map[Type]typeSpec{
	TypeAnnual:    {Source: QuotaStored, SettingsQuota: func(s settings.Settings) int { return s.AnnualLeaveQuota }},
	TypeSick:      {Source: QuotaStored, SettingsQuota: func(s settings.Settings) int { return s.SickLeaveQuota }},
	TypePersonal:  {Source: QuotaFromSettings, SettingsQuota: func(s settings.Settings) int { return s.PersonalLeaveQuota }},
	TypeMaternity: {Source: QuotaFromSettings, SettingsQuota: func(s settings.Settings) int { return s.MaternityLeaveQuota }},
	TypePaternity: {Source: QuotaFromSettings, SettingsQuota: func(s settings.Settings) int { return s.PaternityLeaveQuota }},
	TypeUnpaid:    {Source: QuotaFromSettings, SettingsQuota: func(s settings.Settings) int { return s.UnpaidLeaveQuota }},
}

// Types lists the six leave types in snapshot order.
func Types() []Type {
	return []Type{TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypePaternity, TypeUnpaid}
}

// ParseType validates a raw leave type string.
func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := typeSpecs[t]; !ok {
		return "", ErrUnknownLeaveType
	}
	return t, nil
}

// Source returns the type's quota-resolution rule.
func (t Type) Source() QuotaSource {
	return typeSpecs[t].Source
}

// SettingsQuota resolves the type's annual quota from org settings.
func (t Type) SettingsQuota(s settings.Settings) int {
	return typeSpecs[t].SettingsQuota(s)
}

// Balance - one row per employee per calendar year. Annual and sick
// pools are seeded from Settings at creation time and stay frozen
// until an explicit reset; the other four types read Settings live.
type Balance struct {
	ID         string
	EmployeeID string
	Year       int

	AnnualQuota  int
	SickQuota    int
	CarryForward int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Quota returns the stored pool for a stored-quota type, including
// carry-forward for annual leave.
func (b Balance) Quota(t Type) int {
	switch t {
	case TypeAnnual:
		return b.AnnualQuota + b.CarryForward
	case TypeSick:
		return b.SickQuota
	}
	return 0
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// TerminalStatuses a pending request may transition into.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// Request entity
type Request struct {
	ID         string
	EmployeeID string
	Type       Type

	StartDate time.Time
	EndDate   time.Time
	// Duration is business days, always recomputed from the range,
	// never trusted from input.
	Duration int

	Reason string
	Status RequestStatus

	ActionBy *string
	ActionAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined field (for responses)
	EmployeeName *string
}
