package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.employee_code, e.full_name, e.email, e.phone_number, e.password_hash,
	e.designation, e.dccb, e.supervisor_id, e.base_latitude, e.base_longitude,
	e.preferred_language, e.is_active, e.created_at, e.updated_at,
	s.full_name AS supervisor_name`

const employeeFrom = `
	FROM employees e
	LEFT JOIN employees s ON s.id = e.supervisor_id`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.PhoneNumber, &emp.PasswordHash,
		&emp.Designation, &emp.DCCB, &emp.SupervisorID, &emp.BaseLatitude, &emp.BaseLongitude,
		&emp.PreferredLanguage, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
		&emp.SupervisorName,
	)
	return emp, err
}

func mapEmployeeWriteError(err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case "employees_email_key":
			return employee.ErrEmailExists
		default:
			return employee.ErrEmployeeCodeExists
		}
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			id, employee_code, full_name, email, phone_number, password_hash,
			designation, dccb, supervisor_id, base_latitude, base_longitude,
			preferred_language, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID, emp.EmployeeCode, emp.FullName, emp.Email, emp.PhoneNumber, emp.PasswordHash,
		emp.Designation, emp.DCCB, emp.SupervisorID, emp.BaseLatitude, emp.BaseLongitude,
		emp.PreferredLanguage, emp.IsActive,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != err {
			return employee.Employee{}, mapped
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+employeeFrom+" WHERE e.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+employeeFrom+" WHERE e.employee_code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+employeeFrom+" WHERE LOWER(e.email) = LOWER($1)", email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			full_name = $2, email = $3, phone_number = $4, password_hash = $5,
			designation = $6, dccb = $7, supervisor_id = $8,
			base_latitude = $9, base_longitude = $10, preferred_language = $11,
			is_active = $12, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		emp.ID, emp.FullName, emp.Email, emp.PhoneNumber, emp.PasswordHash,
		emp.Designation, emp.DCCB, emp.SupervisorID,
		emp.BaseLatitude, emp.BaseLongitude, emp.PreferredLanguage,
		emp.IsActive,
	)
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.Designation != nil && *filter.Designation != "" {
		baseWhere += fmt.Sprintf(" AND e.designation = $%d", argIdx)
		args = append(args, *filter.Designation)
		argIdx++
	}
	if filter.DCCB != nil && *filter.DCCB != "" {
		baseWhere += fmt.Sprintf(" AND e.dccb = $%d", argIdx)
		args = append(args, strings.ToUpper(*filter.DCCB))
		argIdx++
	}
	if filter.SupervisorID != nil && *filter.SupervisorID != "" {
		baseWhere += fmt.Sprintf(" AND e.supervisor_id = $%d", argIdx)
		args = append(args, *filter.SupervisorID)
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND e.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	orderByField := "e.employee_code"
	switch filter.SortBy {
	case "full_name":
		orderByField = "e.full_name"
	case "created_at":
		orderByField = "e.created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		employeeColumns, employeeFrom, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

// Deactivate implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeAlreadyInactive
	}
	return nil
}

type approverRegionRepositoryImpl struct {
	db *database.DB
}

func NewApproverRegionRepository(db *database.DB) employee.ApproverRegionRepository {
	return &approverRegionRepositoryImpl{db: db}
}

// Upsert implements employee.ApproverRegionRepository.
func (r *approverRegionRepositoryImpl) Upsert(ctx context.Context, region employee.ApproverRegion) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approver_regions (dccb, approver_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (dccb) DO UPDATE SET approver_id = EXCLUDED.approver_id, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, region.DCCB, region.ApproverID); err != nil {
		return fmt.Errorf("failed to upsert approver region: %w", err)
	}
	return nil
}

// GetByDCCB implements employee.ApproverRegionRepository.
func (r *approverRegionRepositoryImpl) GetByDCCB(ctx context.Context, dccb string) (employee.ApproverRegion, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ar.dccb, ar.approver_id, ar.updated_at, e.full_name
		FROM approver_regions ar
		JOIN employees e ON e.id = ar.approver_id
		WHERE ar.dccb = $1
	`

	var region employee.ApproverRegion
	err := q.QueryRow(ctx, query, dccb).Scan(&region.DCCB, &region.ApproverID, &region.UpdatedAt, &region.ApproverName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ApproverRegion{}, employee.ErrApproverRegionNotFound
		}
		return employee.ApproverRegion{}, fmt.Errorf("failed to get approver region: %w", err)
	}
	return region, nil
}

// List implements employee.ApproverRegionRepository.
func (r *approverRegionRepositoryImpl) List(ctx context.Context) ([]employee.ApproverRegion, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT ar.dccb, ar.approver_id, ar.updated_at, e.full_name
		FROM approver_regions ar
		JOIN employees e ON e.id = ar.approver_id
		ORDER BY ar.dccb
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list approver regions: %w", err)
	}
	defer rows.Close()

	var regions []employee.ApproverRegion
	for rows.Next() {
		var region employee.ApproverRegion
		if err := rows.Scan(&region.DCCB, &region.ApproverID, &region.UpdatedAt, &region.ApproverName); err != nil {
			return nil, fmt.Errorf("failed to scan approver region: %w", err)
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}
