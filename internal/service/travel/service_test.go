package travel

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memory struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	regions   map[string]employee.ApproverRegion
	requests  map[string]travel.TravelRequest
	audit     []audit.Entry
	queued    []notification.CreateNotificationRequest
}

func newMemory() *memory {
	return &memory{
		employees: make(map[string]employee.Employee),
		regions:   make(map[string]employee.ApproverRegion),
		requests:  make(map[string]travel.TravelRequest),
	}
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type employeeRepo struct {
	employee.EmployeeRepository
	m *memory
}

func (r employeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type regionRepo struct {
	employee.ApproverRegionRepository
	m *memory
}

func (r regionRepo) GetByDCCB(_ context.Context, dccb string) (employee.ApproverRegion, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	region, ok := r.m.regions[dccb]
	if !ok {
		return employee.ApproverRegion{}, employee.ErrApproverRegionNotFound
	}
	return region, nil
}

type travelRepo struct {
	m *memory
}

func (r travelRepo) Create(_ context.Context, tr travel.TravelRequest) (travel.TravelRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	tr.CreatedAt = time.Now()
	tr.UpdatedAt = tr.CreatedAt
	r.m.requests[tr.ID] = tr
	return tr, nil
}

func (r travelRepo) GetByID(_ context.Context, id string) (travel.TravelRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	tr, ok := r.m.requests[id]
	if !ok {
		return travel.TravelRequest{}, travel.ErrTravelRequestNotFound
	}
	return tr, nil
}

func (r travelRepo) UpdateDecision(_ context.Context, tr travel.TravelRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.requests[tr.ID]
	if !ok {
		return travel.ErrTravelRequestNotFound
	}
	if current.Status != travel.StatusPending {
		return travel.ErrTravelAlreadyDecided
	}
	r.m.requests[tr.ID] = tr
	return nil
}

func (r travelRepo) ListOverlapping(_ context.Context, employeeID string, from, to time.Time) ([]travel.TravelRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []travel.TravelRequest
	for _, tr := range r.m.requests {
		if tr.EmployeeID == employeeID && tr.Overlaps(from, to) {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (r travelRepo) List(_ context.Context, f travel.TravelFilter) ([]travel.TravelRequest, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []travel.TravelRequest
	for _, tr := range r.m.requests {
		if f.EmployeeID != nil && tr.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.ApproverID != nil && tr.ApproverID != *f.ApproverID {
			continue
		}
		out = append(out, tr)
	}
	return out, int64(len(out)), nil
}

func (r travelRepo) ListOverlapConflicts(context.Context) ([]travel.OverlapConflict, error) {
	return nil, nil
}

type auditRepo struct {
	audit.Repository
	m *memory
}

func (r auditRepo) Create(_ context.Context, e audit.Entry) (audit.Entry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.audit = append(r.m.audit, e)
	return e, nil
}

type notifier struct {
	notification.Service
	m *memory
}

func (n notifier) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	n.m.mu.Lock()
	defer n.m.mu.Unlock()
	n.m.queued = append(n.m.queued, req)
	return nil
}

type fixture struct {
	m   *memory
	svc travel.TravelService

	admin, associate, otherAssociate, mt employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := newMemory()
	f := &fixture{m: m}

	add := func(code string, d employee.Designation, dccb string) employee.Employee {
		e := employee.Employee{
			ID: uuid.Must(uuid.NewV7()).String(), EmployeeCode: code, FullName: code, Designation: d, DCCB: dccb,
			PreferredLanguage: "en", IsActive: true,
		}
		m.employees[e.ID] = e
		return e
	}
	f.admin = add("ADM001", employee.DesignationAdmin, "PUNE")
	f.associate = add("AS001", employee.DesignationAssociate, "PUNE")
	f.otherAssociate = add("AS002", employee.DesignationAssociate, "NASHIK")
	f.mt = add("MT001", employee.DesignationMT, "PUNE")
	m.regions["PUNE"] = employee.ApproverRegion{DCCB: "PUNE", ApproverID: f.associate.ID}

	f.svc = NewTravelService(passthroughTx{}, travelRepo{m: m}, employeeRepo{m: m}, regionRepo{m: m}, auditRepo{m: m}, notifier{m: m}, time.UTC)
	return f
}

func as(e employee.Employee) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{EmployeeID: e.ID, EmployeeCode: e.EmployeeCode, Designation: e.Designation})
}

func createReq(start, end string) travel.CreateTravelRequest {
	return travel.CreateTravelRequest{StartDate: start, EndDate: end, Destination: "Satara", Purpose: "Farmer meeting"}
}

func TestCreateTravelRequest_AssignsRegionApprover(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-12"))
	require.NoError(t, err)

	assert.Equal(t, travel.StatusPending, resp.Status)
	assert.Equal(t, f.associate.ID, resp.ApproverID)
	assert.Equal(t, "2026-03-10", resp.StartDate)

	require.Len(t, f.m.audit, 1)
	assert.Equal(t, audit.ActionTravelCreate, f.m.audit[0].Action)

	require.Len(t, f.m.queued, 1)
	assert.Equal(t, f.associate.ID, f.m.queued[0].RecipientID)
	assert.Equal(t, notification.TypeTravelRequested, f.m.queued[0].Type)
}

func TestCreateTravelRequest_NoApproverForRegion(t *testing.T) {
	f := newFixture(t)
	f.mt.DCCB = "SOLAPUR"
	f.m.employees[f.mt.ID] = f.mt

	_, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-10"))
	assert.ErrorIs(t, err, travel.ErrNoApproverForRegion)
}

func TestCreateTravelRequest_InactiveApprover(t *testing.T) {
	f := newFixture(t)
	f.associate.IsActive = false
	f.m.employees[f.associate.ID] = f.associate

	_, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-10"))
	assert.ErrorIs(t, err, travel.ErrNoApproverForRegion)
}

func TestCreateTravelRequest_RefusesOverlap(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-12"))
	require.NoError(t, err)

	_, err = f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-12", "2026-03-14"))
	assert.ErrorIs(t, err, travel.ErrOverlappingTravel)

	// Rejected requests still occupy their dates.
	_, err = f.svc.DecideTravelRequest(as(f.associate), travel.DecideTravelRequest{
		ID: first.ID, Decision: travel.DecisionReject, Remarks: ptr("not needed"),
	})
	require.NoError(t, err)
	_, err = f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-11", "2026-03-11"))
	assert.ErrorIs(t, err, travel.ErrOverlappingTravel)

	_, err = f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-13", "2026-03-14"))
	assert.NoError(t, err)
}

func TestCreateTravelRequest_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-12", "2026-03-10"))
	assert.Error(t, err)

	_, err = f.svc.CreateTravelRequest(as(f.mt), travel.CreateTravelRequest{StartDate: "2026-03-10", EndDate: "2026-03-10"})
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }

func TestDecideTravelRequest(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-10"))
	require.NoError(t, err)

	_, err = f.svc.DecideTravelRequest(as(f.otherAssociate), travel.DecideTravelRequest{ID: created.ID, Decision: travel.DecisionApprove})
	assert.ErrorIs(t, err, travel.ErrNotAssignedApprover)

	_, err = f.svc.DecideTravelRequest(as(f.associate), travel.DecideTravelRequest{ID: created.ID, Decision: travel.DecisionReject})
	assert.Error(t, err, "remarks are required when rejecting")

	resp, err := f.svc.DecideTravelRequest(as(f.associate), travel.DecideTravelRequest{ID: created.ID, Decision: travel.DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, travel.StatusApproved, resp.Status)
	require.NotNil(t, resp.DecidedBy)
	assert.Equal(t, f.associate.ID, *resp.DecidedBy)

	_, err = f.svc.DecideTravelRequest(as(f.admin), travel.DecideTravelRequest{ID: created.ID, Decision: travel.DecisionReject, Remarks: ptr("late")})
	assert.ErrorIs(t, err, travel.ErrTravelAlreadyDecided)

	last := f.m.queued[len(f.m.queued)-1]
	assert.Equal(t, f.mt.ID, last.RecipientID)
	assert.Equal(t, notification.TypeTravelApproved, last.Type)

	decides := slices.DeleteFunc(slices.Clone(f.m.audit), func(e audit.Entry) bool { return e.Action != audit.ActionTravelDecide })
	assert.Len(t, decides, 1)
}

func TestDecideTravelRequest_AdminMayDecideAnyRequest(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-04-01", "2026-04-02"))
	require.NoError(t, err)

	resp, err := f.svc.DecideTravelRequest(as(f.admin), travel.DecideTravelRequest{
		ID: created.ID, Decision: travel.DecisionReject, Remarks: ptr("budget"),
	})
	require.NoError(t, err)
	assert.Equal(t, travel.StatusRejected, resp.Status)
	assert.Equal(t, notification.TypeTravelRejected, f.m.queued[len(f.m.queued)-1].Type)
}

func TestGetAndListTravelRequests(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateTravelRequest(as(f.mt), createReq("2026-03-10", "2026-03-10"))
	require.NoError(t, err)

	for _, viewer := range []employee.Employee{f.mt, f.associate, f.admin} {
		_, err := f.svc.GetTravelRequest(as(viewer), created.ID)
		assert.NoError(t, err, viewer.EmployeeCode)
	}
	_, err = f.svc.GetTravelRequest(as(f.otherAssociate), created.ID)
	assert.ErrorIs(t, err, travel.ErrUnauthorized)

	mine, err := f.svc.ListMyTravelRequests(as(f.mt), travel.TravelFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	assigned, err := f.svc.ListAssignedTravelRequests(as(f.otherAssociate), travel.TravelFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), assigned.TotalCount)
	assert.Equal(t, "0 of 0", assigned.Showing)

	all, err := f.svc.ListAssignedTravelRequests(as(f.admin), travel.TravelFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.TotalCount)
}
