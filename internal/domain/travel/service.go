package travel

import (
	"context"
)

// TravelService defines business logic for travel requests
type TravelService interface {
	// CreateTravelRequest files a request for the authenticated employee and assigns the DCCB approver
	CreateTravelRequest(ctx context.Context, req CreateTravelRequest) (TravelRequestResponse, error)

	// DecideTravelRequest approves or rejects a pending request (assigned Associate or admin)
	DecideTravelRequest(ctx context.Context, req DecideTravelRequest) (TravelRequestResponse, error)

	GetTravelRequest(ctx context.Context, id string) (TravelRequestResponse, error)

	// ListMyTravelRequests lists requests filed by the authenticated employee
	ListMyTravelRequests(ctx context.Context, filter TravelFilter) (ListTravelResponse, error)

	// ListAssignedTravelRequests lists requests the authenticated Associate must decide (all for admins)
	ListAssignedTravelRequests(ctx context.Context, filter TravelFilter) (ListTravelResponse, error)
}
