package travel

import (
	"context"
	"time"
)

// TravelRepository defines data access methods for travel requests.
type TravelRepository interface {
	Create(ctx context.Context, req TravelRequest) (TravelRequest, error)

	GetByID(ctx context.Context, id string) (TravelRequest, error)

	// UpdateDecision moves a pending request to a terminal status.
	// Returns ErrTravelAlreadyDecided when the row is no longer pending.
	UpdateDecision(ctx context.Context, req TravelRequest) error

	// ListOverlapping returns every request of the employee whose range shares a day with [from, to].
	ListOverlapping(ctx context.Context, employeeID string, from time.Time, to time.Time) ([]TravelRequest, error)

	List(ctx context.Context, filter TravelFilter) ([]TravelRequest, int64, error)

	// ListOverlapConflicts reports employee/dates covered by more than one request.
	ListOverlapConflicts(ctx context.Context) ([]OverlapConflict, error)
}
