package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record. Returns ErrAlreadyMarked when the
	// (employee, date) pair already exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID joined with owner details
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByIDForUpdate locks the row for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no record for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update persists status, check-in/out and approval fields
	Update(ctx context.Context, attendance Attendance) error

	// RecordCheckOut sets only the check-out columns of record id and returns
	// the row as stored. Returns ErrAlreadyCheckedOut when check-out is already set.
	RecordCheckOut(ctx context.Context, id string, at time.Time, latitude, longitude *float64) (Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListForExport returns flattened rows for the inclusive date range
	ListForExport(ctx context.Context, req ExportRequest) ([]ExportRow, error)

	// PresetSupervisorConfirmation sets confirmed_by_supervisor on every record of
	// employeeID that lacks it and returns the affected record IDs.
	PresetSupervisorConfirmation(ctx context.Context, employeeID string) ([]string, error)

	// ListBypassViolations returns records whose owner skips supervisor
	// confirmation but whose flag is still false.
	ListBypassViolations(ctx context.Context) ([]Attendance, error)
}
