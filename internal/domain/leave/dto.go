package leave

import (
	"time"

	"github.com/talenthub/hrm-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequestRequest - owner edit, allowed only while pending.
// Dates and type absent from the patch are left untouched; duration is
// recomputed whenever the range changes.
type UpdateRequestRequest struct {
	ID         string  `json:"-"`
	EmployeeID string  `json:"-"`
	LeaveType  *string `json:"leave_type,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

type SetStatusRequest struct {
	ID      string `json:"-"`
	ActorID string `json:"-"`
	Status  string `json:"status"`
}

// TypeBalance is one entry of the per-type balance snapshot.
// Remaining is reported as-is, never clamped, so corrupted data stays
// visible.
type TypeBalance struct {
	Type      Type        `json:"leave_type"`
	Source    QuotaSource `json:"quota_source"`
	Total     int         `json:"total"`
	Used      int         `json:"used"`
	Pending   int         `json:"pending"`
	Remaining int         `json:"remaining"`
}

type BalanceSnapshotResponse struct {
	EmployeeID string        `json:"employee_id"`
	Year       int           `json:"year"`
	Balances   []TypeBalance `json:"balances"`
}

type RequestResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	LeaveType    string     `json:"leave_type"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Duration     int        `json:"duration"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ActionBy     *string    `json:"action_by,omitempty"`
	ActionAt     *time.Time `json:"action_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
	Year       *int
	Page       int
	Limit      int
}

type ListRequestsResponse struct {
	Data       []RequestResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
