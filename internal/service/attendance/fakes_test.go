package attendance

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/domain/travel"
)

// store backs every fake repository so fakeTx can roll all of them back together.
type store struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	records   map[string]attendance.Attendance
	travel    map[string]travel.TravelRequest
	audit     []audit.Entry

	// failUpdate makes Update fail for the given record ID.
	failUpdate map[string]error

	// beforeCheckOut runs after CheckOut has read today's row and before it
	// writes. It is called without mu held.
	beforeCheckOut func()
}

type snapshot struct {
	records map[string]attendance.Attendance
	travel  map[string]travel.TravelRequest
	audit   []audit.Entry
}

func newStore() *store {
	return &store{
		employees:  make(map[string]employee.Employee),
		records:    make(map[string]attendance.Attendance),
		travel:     make(map[string]travel.TravelRequest),
		failUpdate: make(map[string]error),
	}
}

func (s *store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		records: maps.Clone(s.records),
		travel:  maps.Clone(s.travel),
		audit:   slices.Clone(s.audit),
	}
}

func (s *store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.records
	s.travel = snap.travel
	s.audit = snap.audit
}

func (s *store) addEmployee(e employee.Employee) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.IsActive = true
	if e.PreferredLanguage == "" {
		e.PreferredLanguage = "en"
	}
	s.employees[e.ID] = e
	return e
}

func (s *store) addRecord(a attendance.Attendance) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[a.ID] = a
	return a
}

func (s *store) record(id string) attendance.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id]
}

func (s *store) addTravel(tr travel.TravelRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.travel[tr.ID] = tr
}

func (s *store) setTravelStatus(id string, status travel.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := s.travel[id]
	tr.Status = status
	s.travel[id] = tr
}

func (s *store) auditEntries() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.audit)
}

func (s *store) auditByAction(action audit.Action) []audit.Entry {
	var out []audit.Entry
	for _, e := range s.auditEntries() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeTx struct {
	st *store
}

func (f fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := f.st.snapshot()
	if err := fn(ctx); err != nil {
		f.st.restore(snap)
		return err
	}
	return nil
}

type fakeAttendanceRepo struct {
	st *store
}

func (r fakeAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.records {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.st.records[a.ID] = a
	return a, nil
}

func (r fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r fakeAttendanceRepo) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.GetByID(ctx, id)
}

func (r fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, a := range r.st.records {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r fakeAttendanceRepo) Update(_ context.Context, a attendance.Attendance) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.failUpdate[a.ID]; err != nil {
		return err
	}
	if _, ok := r.st.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = time.Now()
	r.st.records[a.ID] = a
	return nil
}

func (r fakeAttendanceRepo) RecordCheckOut(_ context.Context, id string, at time.Time, latitude, longitude *float64) (attendance.Attendance, error) {
	if r.st.beforeCheckOut != nil {
		r.st.beforeCheckOut()
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.records[id]
	if !ok || a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	a.CheckOut = &at
	a.CheckOutLatitude = latitude
	a.CheckOutLongitude = longitude
	a.UpdatedAt = time.Now()
	r.st.records[id] = a
	return a, nil
}

func (r fakeAttendanceRepo) List(_ context.Context, f attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.st.records {
		if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
			continue
		}
		if f.SupervisorID != nil {
			owner := r.st.employees[a.EmployeeID]
			if owner.SupervisorID == nil || *owner.SupervisorID != *f.SupervisorID {
				continue
			}
		}
		if f.Confirmed != nil && a.ConfirmedBySupervisor != *f.Confirmed {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b attendance.Attendance) int { return a.Date.Compare(b.Date) })
	return out, int64(len(out)), nil
}

func (r fakeAttendanceRepo) ListForExport(_ context.Context, req attendance.ExportRequest) ([]attendance.ExportRow, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []attendance.ExportRow
	for _, a := range r.st.records {
		e := r.st.employees[a.EmployeeID]
		out = append(out, attendance.ExportRow{
			Date:                  a.Date,
			EmployeeCode:          e.EmployeeCode,
			EmployeeName:          e.FullName,
			Designation:           string(e.Designation),
			DCCB:                  e.DCCB,
			Status:                a.Status,
			CheckIn:               a.CheckIn,
			CheckOut:              a.CheckOut,
			DistanceMeters:        a.DistanceMeters,
			ConfirmedBySupervisor: a.ConfirmedBySupervisor,
			ApprovedByAdmin:       a.ApprovedByAdmin,
		})
	}
	slices.SortFunc(out, func(a, b attendance.ExportRow) int { return a.Date.Compare(b.Date) })
	return out, nil
}

func (r fakeAttendanceRepo) PresetSupervisorConfirmation(_ context.Context, employeeID string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var ids []string
	for id, a := range r.st.records {
		if a.EmployeeID == employeeID && !a.ConfirmedBySupervisor {
			a.ConfirmedBySupervisor = true
			r.st.records[id] = a
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r fakeAttendanceRepo) ListBypassViolations(_ context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	st *store
}

func (r fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e, ok := r.st.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeTravelRepo struct {
	travel.TravelRepository
	st *store
}

func (r fakeTravelRepo) ListOverlapping(_ context.Context, employeeID string, from, to time.Time) ([]travel.TravelRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []travel.TravelRequest
	for _, tr := range r.st.travel {
		if tr.EmployeeID == employeeID && tr.Overlaps(from, to) {
			out = append(out, tr)
		}
	}
	slices.SortFunc(out, func(a, b travel.TravelRequest) int { return a.StartDate.Compare(b.StartDate) })
	return out, nil
}

type fakeAuditRepo struct {
	audit.Repository
	st *store
}

func (r fakeAuditRepo) Create(_ context.Context, e audit.Entry) (audit.Entry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	e.CreatedAt = time.Now()
	r.st.audit = append(r.st.audit, e)
	return e, nil
}

type fakeNotifier struct {
	notification.Service
	mu     sync.Mutex
	queued []notification.CreateNotificationRequest
	err    error
}

func (n *fakeNotifier) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.queued = append(n.queued, req)
	return nil
}

func (n *fakeNotifier) sent() []notification.CreateNotificationRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.queued)
}
