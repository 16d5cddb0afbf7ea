package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

type travelRepository struct {
	db *database.DB
}

func NewTravelRepository(db *database.DB) travel.TravelRepository {
	return &travelRepository{db: db}
}

const travelColumns = `
	t.id, t.employee_id, t.approver_id, t.start_date, t.end_date, t.destination, t.purpose,
	t.status, t.decided_by, t.decided_at, t.decision_remarks, t.created_at, t.updated_at,
	e.full_name, e.employee_code, ap.full_name`

const travelFrom = `
	FROM travel_requests t
	JOIN employees e ON e.id = t.employee_id
	LEFT JOIN employees ap ON ap.id = t.approver_id`

func scanTravel(row pgx.Row) (travel.TravelRequest, error) {
	var tr travel.TravelRequest
	err := row.Scan(
		&tr.ID, &tr.EmployeeID, &tr.ApproverID, &tr.StartDate, &tr.EndDate, &tr.Destination, &tr.Purpose,
		&tr.Status, &tr.DecidedBy, &tr.DecidedAt, &tr.DecisionRemarks, &tr.CreatedAt, &tr.UpdatedAt,
		&tr.EmployeeName, &tr.EmployeeCode, &tr.ApproverName,
	)
	return tr, err
}

// Create implements travel.TravelRepository.
func (r *travelRepository) Create(ctx context.Context, tr travel.TravelRequest) (travel.TravelRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO travel_requests (id, employee_id, approver_id, start_date, end_date, destination, purpose, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		tr.ID, tr.EmployeeID, tr.ApproverID, tr.StartDate, tr.EndDate, tr.Destination, tr.Purpose, tr.Status,
	).Scan(&tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		return travel.TravelRequest{}, fmt.Errorf("failed to create travel request: %w", err)
	}
	return tr, nil
}

// GetByID implements travel.TravelRepository.
func (r *travelRepository) GetByID(ctx context.Context, id string) (travel.TravelRequest, error) {
	q := GetQuerier(ctx, r.db)

	tr, err := scanTravel(q.QueryRow(ctx, "SELECT "+travelColumns+travelFrom+" WHERE t.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return travel.TravelRequest{}, travel.ErrTravelRequestNotFound
		}
		return travel.TravelRequest{}, fmt.Errorf("failed to get travel request: %w", err)
	}
	return tr, nil
}

// UpdateDecision implements travel.TravelRepository.
func (r *travelRepository) UpdateDecision(ctx context.Context, tr travel.TravelRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE travel_requests
		SET status = $2, decided_by = $3, decided_at = $4, decision_remarks = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := q.Exec(ctx, query, tr.ID, tr.Status, tr.DecidedBy, tr.DecidedAt, tr.DecisionRemarks)
	if err != nil {
		return fmt.Errorf("failed to update travel decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, tr.ID); err != nil {
			return err
		}
		return travel.ErrTravelAlreadyDecided
	}
	return nil
}

// ListOverlapping implements travel.TravelRepository.
func (r *travelRepository) ListOverlapping(ctx context.Context, employeeID string, from time.Time, to time.Time) ([]travel.TravelRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + travelColumns + travelFrom + `
		WHERE t.employee_id = $1 AND t.start_date <= $3 AND t.end_date >= $2
		ORDER BY t.start_date, t.created_at`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping travel requests: %w", err)
	}
	defer rows.Close()

	var result []travel.TravelRequest
	for rows.Next() {
		tr, err := scanTravel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel request: %w", err)
		}
		result = append(result, tr)
	}
	return result, rows.Err()
}

// List implements travel.TravelRepository.
func (r *travelRepository) List(ctx context.Context, filter travel.TravelFilter) ([]travel.TravelRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		baseWhere += fmt.Sprintf(clause, len(args))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add(" AND t.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.ApproverID != nil && *filter.ApproverID != "" {
		add(" AND t.approver_id = $%d", *filter.ApproverID)
	}
	if filter.Status != nil && *filter.Status != "" {
		add(" AND t.status = $%d", *filter.Status)
	}
	// Range filters select requests overlapping the window.
	if filter.StartDate != nil && *filter.StartDate != "" {
		add(" AND t.end_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add(" AND t.start_date <= $%d::date", *filter.EndDate)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+travelFrom+" WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count travel requests: %w", err)
	}

	orderByField := "t.start_date"
	switch filter.SortBy {
	case "created_at":
		orderByField = "t.created_at"
	case "status":
		orderByField = "t.status"
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

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		travelColumns, travelFrom, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query travel requests: %w", err)
	}
	defer rows.Close()

	var result []travel.TravelRequest
	for rows.Next() {
		tr, err := scanTravel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan travel request: %w", err)
		}
		result = append(result, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListOverlapConflicts implements travel.TravelRepository.
func (r *travelRepository) ListOverlapConflicts(ctx context.Context) ([]travel.OverlapConflict, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.employee_id, e.employee_code, d::date AS day,
			ARRAY_AGG(t.id::text ORDER BY t.created_at) AS ids
		FROM travel_requests t
		JOIN employees e ON e.id = t.employee_id
		CROSS JOIN LATERAL generate_series(t.start_date, t.end_date, INTERVAL '1 day') AS d
		GROUP BY t.employee_id, e.employee_code, d::date
		HAVING COUNT(*) > 1
		ORDER BY e.employee_code, day
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel overlap conflicts: %w", err)
	}
	defer rows.Close()

	var result []travel.OverlapConflict
	for rows.Next() {
		var c travel.OverlapConflict
		if err := rows.Scan(&c.EmployeeID, &c.EmployeeCode, &c.Date, &c.TravelRequestIDs); err != nil {
			return nil, fmt.Errorf("failed to scan overlap conflict: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
