package attendance

import "errors"

// Attendance domain errors
var (
	// Marking errors
	ErrAlreadyMarked        = errors.New("attendance has already been marked for this date")
	ErrLocationRequired     = errors.New("GPS location is required when marking present or half day")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrNotMarkedToday       = errors.New("you have not marked attendance today")
	ErrAlreadyCheckedOut    = errors.New("you have already checked out")
	ErrNotCheckedIn         = errors.New("cannot check out of a day marked absent")
	ErrFutureDate           = errors.New("cannot confirm attendance for a future date")

	// Approval errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNotSupervisor      = errors.New("only the employee's supervisor or an admin can confirm this attendance")
	ErrAdminRequired      = errors.New("only an admin can approve attendance")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)

// BlockedError is returned when the approval gate refuses a transition.
// It unwraps to the gate's sentinel.
type BlockedError struct {
	Err              error
	TravelRequestIDs []string
}

func (e *BlockedError) Error() string {
	return e.Err.Error()
}

func (e *BlockedError) Unwrap() error {
	return e.Err
}
