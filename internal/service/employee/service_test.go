package employee

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memory struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	regions   map[string]employee.ApproverRegion
	records   map[string]attendance.Attendance
	audit     []audit.Entry
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type employeeRepo struct {
	m *memory
}

func (r employeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	r.m.employees[e.ID] = e
	return e, nil
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

func (r employeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepo) GetByEmail(context.Context, string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepo) Update(_ context.Context, e employee.Employee) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.employees[e.ID] = e
	return nil
}

func (r employeeRepo) List(_ context.Context, f employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []employee.Employee
	for _, e := range r.m.employees {
		if f.SupervisorID != nil && (e.SupervisorID == nil || *e.SupervisorID != *f.SupervisorID) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r employeeRepo) Deactivate(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e := r.m.employees[id]
	e.IsActive = false
	r.m.employees[id] = e
	return nil
}

type regionRepo struct {
	m *memory
}

func (r regionRepo) Upsert(_ context.Context, region employee.ApproverRegion) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	region.UpdatedAt = time.Now()
	r.m.regions[region.DCCB] = region
	return nil
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

func (r regionRepo) List(context.Context) ([]employee.ApproverRegion, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []employee.ApproverRegion
	for _, region := range r.m.regions {
		out = append(out, region)
	}
	return out, nil
}

type attendanceRepo struct {
	attendance.AttendanceRepository
	m *memory
}

func (r attendanceRepo) PresetSupervisorConfirmation(_ context.Context, employeeID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var ids []string
	for id, a := range r.m.records {
		if a.EmployeeID == employeeID && !a.ConfirmedBySupervisor {
			a.ConfirmedBySupervisor = true
			r.m.records[id] = a
			ids = append(ids, id)
		}
	}
	return ids, nil
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

type fixture struct {
	m   *memory
	svc employee.EmployeeService

	admin, dc, associate, mt employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := &memory{
		employees: make(map[string]employee.Employee),
		regions:   make(map[string]employee.ApproverRegion),
		records:   make(map[string]attendance.Attendance),
	}
	f := &fixture{m: m}

	add := func(code string, d employee.Designation, supervisor *string) employee.Employee {
		e := employee.Employee{ID: uuid.Must(uuid.NewV7()).String(), EmployeeCode: code, FullName: code, Designation: d, DCCB: "PUNE", SupervisorID: supervisor, IsActive: true}
		m.employees[e.ID] = e
		return e
	}
	f.admin = add("ADM001", employee.DesignationAdmin, nil)
	f.dc = add("DC001", employee.DesignationDC, nil)
	f.associate = add("AS001", employee.DesignationAssociate, nil)
	f.mt = add("MT001", employee.DesignationMT, &f.dc.ID)

	f.svc = NewEmployeeService(passthroughTx{}, employeeRepo{m: m}, regionRepo{m: m}, attendanceRepo{m: m}, auditRepo{m: m})
	return f
}

func as(e employee.Employee) context.Context {
	return auth.WithActor(context.Background(), auth.Actor{EmployeeID: e.ID, EmployeeCode: e.EmployeeCode, Designation: e.Designation})
}

func ptr[T any](v T) *T { return &v }

func TestCreate_HashesPasswordAndReportsPipeline(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(as(f.admin), employee.CreateEmployeeRequest{
		EmployeeCode: "mt002",
		FullName:     "Ravi Kumar",
		Password:     "s3cret-pass",
		Designation:  employee.DesignationMT,
		DCCB:         "pune",
		SupervisorID: &f.dc.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "MT002", resp.EmployeeCode)
	assert.Equal(t, "PUNE", resp.DCCB)
	assert.Equal(t, "two_stage", resp.Pipeline)
	assert.Equal(t, "en", resp.PreferredLanguage)
	require.NotNil(t, resp.SupervisorName)
	assert.Equal(t, "DC001", *resp.SupervisorName)

	stored := f.m.employees[resp.ID]
	require.NotNil(t, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("s3cret-pass")))
}

func TestCreate_Rules(t *testing.T) {
	f := newFixture(t)
	base := employee.CreateEmployeeRequest{
		EmployeeCode: "SUP010", FullName: "Sam", Password: "password1", Designation: employee.DesignationSupport, DCCB: "PUNE",
	}

	_, err := f.svc.Create(as(f.dc), base)
	assert.ErrorIs(t, err, employee.ErrAdminRequired)

	withSup := base
	withSup.SupervisorID = &f.associate.ID
	_, err = f.svc.Create(as(f.admin), withSup)
	assert.ErrorIs(t, err, employee.ErrSupervisorNotDC)

	_, err = f.svc.Create(as(f.admin), base)
	require.NoError(t, err)
	_, err = f.svc.Create(as(f.admin), base)
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	invalid := base
	invalid.Designation = "Intern"
	_, err = f.svc.Create(as(f.admin), invalid)
	assert.Error(t, err)
}

func TestUpdate_DesignationChangePresetsConfirmation(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		id := uuid.Must(uuid.NewV7()).String()
		f.m.records[id] = attendance.Attendance{ID: id, EmployeeID: f.mt.ID, Status: attendance.StatusPresent}
	}

	resp, err := f.svc.Update(as(f.admin), employee.UpdateEmployeeRequest{
		ID:          f.mt.ID,
		Designation: ptr(employee.DesignationDC),
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", resp.Pipeline)

	for _, rec := range f.m.records {
		assert.True(t, rec.ConfirmedBySupervisor)
	}

	require.Len(t, f.m.audit, 2)
	assert.Equal(t, audit.ActionDesignationChange, f.m.audit[0].Action)
	assert.Equal(t, "MT", f.m.audit[0].Details["from"])
	assert.Equal(t, audit.ActionBypassRepair, f.m.audit[1].Action)
	assert.Equal(t, 3, f.m.audit[1].Details["count"])

	// Running it again changes nothing.
	_, err = f.svc.Update(as(f.admin), employee.UpdateEmployeeRequest{ID: f.mt.ID, Designation: ptr(employee.DesignationDC)})
	require.NoError(t, err)
	assert.Len(t, f.m.audit, 2)
}

func TestUpdate_IntoTwoStageLeavesRecordsAlone(t *testing.T) {
	f := newFixture(t)
	id := uuid.Must(uuid.NewV7()).String()
	f.m.records[id] = attendance.Attendance{ID: id, EmployeeID: f.associate.ID, ConfirmedBySupervisor: true}

	_, err := f.svc.Update(as(f.admin), employee.UpdateEmployeeRequest{
		ID:           f.associate.ID,
		Designation:  ptr(employee.DesignationSupport),
		SupervisorID: &f.dc.ID,
	})
	require.NoError(t, err)
	assert.True(t, f.m.records[id].ConfirmedBySupervisor)
	require.Len(t, f.m.audit, 1)
	assert.Equal(t, audit.ActionDesignationChange, f.m.audit[0].Action)
}

func TestUpdate_ClearsSupervisor(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Update(as(f.admin), employee.UpdateEmployeeRequest{ID: f.mt.ID, SupervisorID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, resp.SupervisorID)
	assert.Empty(t, f.m.audit)
}

func TestDeactivate(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.Deactivate(as(f.admin), f.admin.ID), employee.ErrCannotDeactivateSelf)
	assert.ErrorIs(t, f.svc.Deactivate(as(f.dc), f.mt.ID), employee.ErrAdminRequired)

	require.NoError(t, f.svc.Deactivate(as(f.admin), f.mt.ID))
	assert.False(t, f.m.employees[f.mt.ID].IsActive)
	assert.ErrorIs(t, f.svc.Deactivate(as(f.admin), f.mt.ID), employee.ErrEmployeeAlreadyInactive)

	require.Len(t, f.m.audit, 1)
	assert.Equal(t, audit.ActionEmployeeDeactivate, f.m.audit[0].Action)
}

func TestGetAndList_Visibility(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(as(f.dc), f.mt.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(as(f.mt), f.mt.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(as(f.associate), f.mt.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	team, err := f.svc.List(as(f.dc), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), team.TotalCount)

	all, err := f.svc.List(as(f.admin), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalCount)
}

func TestUpsertApproverRegion(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpsertApproverRegion(as(f.admin), employee.UpsertApproverRegionRequest{DCCB: "pune", ApproverID: f.dc.ID})
	assert.ErrorIs(t, err, employee.ErrApproverNotAssociate)

	resp, err := f.svc.UpsertApproverRegion(as(f.admin), employee.UpsertApproverRegionRequest{DCCB: "pune", ApproverID: f.associate.ID})
	require.NoError(t, err)
	assert.Equal(t, "PUNE", resp.DCCB)
	assert.Equal(t, f.associate.ID, resp.ApproverID)

	regions, err := f.svc.ListApproverRegions(as(f.admin))
	require.NoError(t, err)
	assert.Len(t, regions, 1)
}
