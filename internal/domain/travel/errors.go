package travel

import "errors"

var (
	ErrTravelRequestNotFound = errors.New("travel request not found")
	ErrTravelAlreadyDecided  = errors.New("travel request has already been decided")
	ErrOverlappingTravel     = errors.New("travel request overlaps an existing request for the same dates")
	ErrNoApproverForRegion   = errors.New("no Associate is assigned to your DCCB")
	ErrNotAssignedApprover   = errors.New("only the assigned Associate or an admin can decide this travel request")
	ErrInvalidDateRange      = errors.New("end_date must not be before start_date")
	ErrUnauthorized          = errors.New("unauthorized to access this travel request")
)
