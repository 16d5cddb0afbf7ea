package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.status, a.check_in, a.check_out,
	a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
	a.distance_meters, a.remarks,
	a.confirmed_by_supervisor, a.confirmed_by, a.confirmed_at,
	a.approved_by_admin, a.approved_by, a.approved_at,
	a.created_at, a.updated_at,
	e.full_name, e.employee_code, e.designation, e.dccb`

const attendanceFrom = `
	FROM attendance_records a
	JOIN employees e ON e.id = a.employee_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.CheckIn, &att.CheckOut,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.DistanceMeters, &att.Remarks,
		&att.ConfirmedBySupervisor, &att.ConfirmedBy, &att.ConfirmedAt,
		&att.ApprovedByAdmin, &att.ApprovedBy, &att.ApprovedAt,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeCode, &att.EmployeeDesignation, &att.EmployeeDCCB,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, status, check_in,
			check_in_latitude, check_in_longitude, distance_meters, remarks,
			confirmed_by_supervisor, confirmed_by, confirmed_at,
			approved_by_admin, approved_by, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING confirmed_by_supervisor, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.Date, att.Status, att.CheckIn,
		att.CheckInLatitude, att.CheckInLongitude, att.DistanceMeters, att.Remarks,
		att.ConfirmedBySupervisor, att.ConfirmedBy, att.ConfirmedAt,
		att.ApprovedByAdmin, att.ApprovedBy, att.ApprovedAt,
	).Scan(&att.ConfirmedBySupervisor, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return a.getByID(ctx, id, false)
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return a.getByID(ctx, id, true)
}

func (a *attendanceRepository) getByID(ctx context.Context, id string, lock bool) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + " WHERE a.id = $1"
	if lock {
		query += " FOR UPDATE OF a"
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + " WHERE a.employee_id = $1 AND a.date = $2"

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			status = $2, check_in = $3, check_in_latitude = $4, check_in_longitude = $5,
			check_out = $6, check_out_latitude = $7, check_out_longitude = $8,
			distance_meters = $9, remarks = $10,
			confirmed_by_supervisor = $11, confirmed_by = $12, confirmed_at = $13,
			approved_by_admin = $14, approved_by = $15, approved_at = $16,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.Status, att.CheckIn, att.CheckInLatitude, att.CheckInLongitude,
		att.CheckOut, att.CheckOutLatitude, att.CheckOutLongitude,
		att.DistanceMeters, att.Remarks,
		att.ConfirmedBySupervisor, att.ConfirmedBy, att.ConfirmedAt,
		att.ApprovedByAdmin, att.ApprovedBy, att.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, id string, at time.Time, latitude, longitude *float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		WITH a AS (
			UPDATE attendance_records SET
				check_out = $2, check_out_latitude = $3, check_out_longitude = $4,
				updated_at = NOW()
			WHERE id = $1 AND check_out IS NULL
			RETURNING *
		)
		SELECT ` + attendanceColumns + `
		FROM a
		JOIN employees e ON e.id = a.employee_id`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, at, latitude, longitude))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out: %w", err)
	}
	return att, nil
}

func attendanceWhere(filter attendance.AttendanceFilter) (string, []interface{}) {
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		baseWhere += fmt.Sprintf(clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add(" AND a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.SupervisorID != nil && *filter.SupervisorID != "" {
		add(" AND e.supervisor_id = $%d", *filter.SupervisorID)
	}
	if filter.DCCB != nil && *filter.DCCB != "" {
		add(" AND e.dccb = $%d", strings.ToUpper(*filter.DCCB))
	}
	if filter.Date != nil && *filter.Date != "" {
		add(" AND a.date = $%d::date", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add(" AND a.date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add(" AND a.date <= $%d::date", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		add(" AND a.status = $%d", *filter.Status)
	}
	if filter.Confirmed != nil {
		add(" AND a.confirmed_by_supervisor = $%d", *filter.Confirmed)
	}
	if filter.Approved != nil {
		add(" AND a.approved_by_admin = $%d", *filter.Approved)
	}

	return baseWhere, args
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere, args := attendanceWhere(filter)

	var total int64
	countQuery := "SELECT COUNT(*)" + attendanceFrom + " WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "employee_name":
		orderByField = "e.full_name"
	case "status":
		orderByField = "a.status"
	case "created_at":
		orderByField = "a.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	argIdx := len(args) + 1
	args = append(args, limit, (page-1)*limit)

	selectQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s, e.employee_code ASC LIMIT $%d OFFSET $%d",
		attendanceColumns, attendanceFrom, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// ListForExport implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForExport(ctx context.Context, req attendance.ExportRequest) ([]attendance.ExportRow, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT a.date, e.employee_code, e.full_name, e.designation, e.dccb, a.status,
			a.check_in, a.check_out, a.distance_meters,
			a.confirmed_by_supervisor, a.approved_by_admin
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1::date AND $2::date
	`
	args := []interface{}{req.StartDate, req.EndDate}
	if req.DCCB != nil && *req.DCCB != "" {
		args = append(args, strings.ToUpper(*req.DCCB))
		query += fmt.Sprintf(" AND e.dccb = $%d", len(args))
	}
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		args = append(args, *req.EmployeeID)
		query += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	query += " ORDER BY a.date ASC, e.employee_code ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance export: %w", err)
	}
	defer rows.Close()

	var result []attendance.ExportRow
	for rows.Next() {
		var r attendance.ExportRow
		if err := rows.Scan(
			&r.Date, &r.EmployeeCode, &r.EmployeeName, &r.Designation, &r.DCCB, &r.Status,
			&r.CheckIn, &r.CheckOut, &r.DistanceMeters,
			&r.ConfirmedBySupervisor, &r.ApprovedByAdmin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance export row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// PresetSupervisorConfirmation implements attendance.AttendanceRepository.
func (a *attendanceRepository) PresetSupervisorConfirmation(ctx context.Context, employeeID string) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		UPDATE attendance_records
		SET confirmed_by_supervisor = TRUE, updated_at = NOW()
		WHERE employee_id = $1 AND NOT confirmed_by_supervisor
		RETURNING id
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to preset supervisor confirmation: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan attendance id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListBypassViolations implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListBypassViolations(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + attendanceFrom + `
		WHERE e.designation IN ('Associate', 'DC', 'Admin')
		  AND NOT a.confirmed_by_supervisor
		ORDER BY a.date ASC, e.employee_code ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bypass violations: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
