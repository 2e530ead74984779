package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/talenthub/hrm-backend-go/internal/domain/auth"
	"github.com/talenthub/hrm-backend-go/internal/domain/employee"
	"github.com/talenthub/hrm-backend-go/internal/domain/leave"
	"github.com/talenthub/hrm-backend-go/internal/domain/payroll"
	"github.com/talenthub/hrm-backend-go/internal/domain/settings"
	"github.com/talenthub/hrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Insufficient balance carries the exact numbers for the message
	var balanceErr *leave.InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		BadRequest(w, "Insufficient leave balance", map[string]string{
			"detail": fmt.Sprintf("Available: %d days (%d pending), Requested: %d days",
				balanceErr.Remaining, balanceErr.Pending, balanceErr.Requested),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingsNotConfigured):
		Conflict(w, "Organization settings not configured")
	case errors.Is(err, settings.ErrSettingsAlreadyExists):
		Conflict(w, "Organization settings already exist")
	case errors.Is(err, settings.ErrInvalidCycle):
		BadRequest(w, "Invalid payroll cycle", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrUnknownLeaveType):
		BadRequest(w, "Unknown leave type", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date and the range must contain at least one business day", nil)
	case errors.Is(err, leave.ErrRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidStatus):
		BadRequest(w, "Status must be approved or rejected", nil)
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrFuturePeriod):
		BadRequest(w, "Cannot generate payroll for a future period", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrCannotDeleteNonDraft):
		Conflict(w, "Only draft payroll records can be deleted")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
