package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrMissingIdentity):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInvalidRole):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrOwnerAccessRequired):
		Forbidden(w, "Owner access required")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Workplace domain errors
	case errors.Is(err, workplace.ErrWorkplaceIDRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, workplace.ErrWorkplaceNotFound):
		NotFound(w, "Workplace not found")
	case errors.Is(err, workplace.ErrNotWorkplaceOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, workplace.ErrNotWorkplaceMember):
		Forbidden(w, err.Error())

	// Payroll engine errors
	case errors.Is(err, payroll.ErrInvalidArgument):
		BadRequest(w, err.Error(), nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrScheduleConflict):
		Conflict(w, err.Error())
	case errors.Is(err, shift.ErrWorkerIDRequired),
		errors.Is(err, shift.ErrInvalidTimeFormat),
		errors.Is(err, shift.ErrInvalidDateFormat),
		errors.Is(err, shift.ErrInvalidRequestData):
		BadRequest(w, err.Error(), nil)

	// Salary domain errors
	case errors.Is(err, salary.ErrPolicyNotFound):
		NotFound(w, "Salary policy not found")
	case errors.Is(err, salary.ErrPolicyExists):
		Conflict(w, err.Error())

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidNotificationType),
		errors.Is(err, notification.ErrRecipientRequired),
		errors.Is(err, notification.ErrTitleRequired):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
