package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/satshine/satshine-backend/internal/domain/approval"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Approval gate blocks carry the offending travel request IDs
	var blocked *attendance.BlockedError
	if errors.As(err, &blocked) {
		switch {
		case errors.Is(err, approval.ErrTravelApprovalPending):
			ConflictWithCode(w, "TRAVEL_APPROVAL_PENDING", err.Error(), blocked.TravelRequestIDs)
		case errors.Is(err, approval.ErrTravelDataIntegrity):
			ConflictWithCode(w, "DATA_INTEGRITY_ERROR", err.Error(), blocked.TravelRequestIDs)
		case errors.Is(err, approval.ErrAwaitingConfirmation):
			ConflictWithCode(w, "AWAITING_CONFIRMATION", err.Error(), nil)
		default:
			Conflict(w, err.Error())
		}
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrGoogleEmailNotFound):
		Forbidden(w, err.Error())

	// Approval ordering errors outside a gate decision
	case errors.Is(err, approval.ErrTravelApprovalPending):
		ConflictWithCode(w, "TRAVEL_APPROVAL_PENDING", err.Error(), nil)
	case errors.Is(err, approval.ErrTravelDataIntegrity):
		ConflictWithCode(w, "DATA_INTEGRITY_ERROR", err.Error(), nil)
	case errors.Is(err, approval.ErrAwaitingConfirmation):
		ConflictWithCode(w, "AWAITING_CONFIRMATION", err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyMarked),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrLocationRequired),
		errors.Is(err, attendance.ErrOutsideAllowedRadius),
		errors.Is(err, attendance.ErrNotMarkedToday),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrFutureDate):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, attendance.ErrNotSupervisor),
		errors.Is(err, attendance.ErrAdminRequired),
		errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Travel domain errors
	case errors.Is(err, travel.ErrTravelRequestNotFound):
		NotFound(w, "Travel request not found")
	case errors.Is(err, travel.ErrTravelAlreadyDecided),
		errors.Is(err, travel.ErrOverlappingTravel):
		Conflict(w, err.Error())
	case errors.Is(err, travel.ErrNoApproverForRegion),
		errors.Is(err, travel.ErrInvalidDateRange):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, travel.ErrNotAssignedApprover),
		errors.Is(err, travel.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrApproverRegionNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeCodeExists),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrInvalidEmployeeCode),
		errors.Is(err, employee.ErrInvalidDesignation),
		errors.Is(err, employee.ErrInvalidPhoneNumber),
		errors.Is(err, employee.ErrSupervisorNotDC),
		errors.Is(err, employee.ErrApproverNotAssociate),
		errors.Is(err, employee.ErrCannotDeactivateSelf):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrAdminRequired):
		Forbidden(w, "Admin access required")

	// Notification and audit errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, audit.ErrEntryNotFound):
		NotFound(w, "Audit entry not found")
	case errors.Is(err, audit.ErrImmutable):
		Conflict(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
