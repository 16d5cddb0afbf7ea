package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrEmailExists             = errors.New("email already registered")
	ErrInvalidEmployeeCode     = errors.New("invalid employee code format")
	ErrInvalidDesignation      = errors.New("invalid designation")
	ErrInvalidPhoneNumber      = errors.New("phone number must be a valid 10 digit mobile number")
	ErrSupervisorNotDC         = errors.New("supervisor must be an active DC")
	ErrApproverNotAssociate    = errors.New("approver must be an active Associate")
	ErrApproverRegionNotFound  = errors.New("no approver assigned for this DCCB")
	ErrEmployeeInactive        = errors.New("employee is inactive")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own employee record")
	ErrAdminRequired           = errors.New("admin access required")
)
