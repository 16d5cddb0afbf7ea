package employee

import (
	"context"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	Update(ctx context.Context, employee Employee) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Deactivate(ctx context.Context, id string) error
}

type ApproverRegionRepository interface {
	Upsert(ctx context.Context, region ApproverRegion) error
	GetByDCCB(ctx context.Context, dccb string) (ApproverRegion, error)
	List(ctx context.Context) ([]ApproverRegion, error)
}
