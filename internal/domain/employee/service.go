package employee

import (
	"context"
)

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// Update re-applies the supervisor bypass to existing attendance when the designation changes
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error

	UpsertApproverRegion(ctx context.Context, req UpsertApproverRegionRequest) (ApproverRegionResponse, error)
	ListApproverRegions(ctx context.Context) ([]ApproverRegionResponse, error)
}
