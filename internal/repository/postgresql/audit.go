package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

const auditColumns = `
	l.id, l.action, l.actor_id, l.attendance_id, l.travel_request_id, l.employee_id,
	l.reason, l.details, l.created_at, ac.full_name`

const auditFrom = `
	FROM audit_logs l
	LEFT JOIN employees ac ON ac.id = l.actor_id`

func scanAudit(row pgx.Row) (audit.Entry, error) {
	var entry audit.Entry
	var details []byte
	err := row.Scan(
		&entry.ID, &entry.Action, &entry.ActorID, &entry.AttendanceID, &entry.TravelRequestID, &entry.EmployeeID,
		&entry.Reason, &details, &entry.CreatedAt, &entry.ActorName,
	)
	if err != nil {
		return audit.Entry{}, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &entry.Details); err != nil {
			return audit.Entry{}, fmt.Errorf("failed to unmarshal audit details: %w", err)
		}
	}
	return entry, nil
}

// Create implements audit.Repository.
func (r *auditRepository) Create(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var details []byte
	if len(entry.Details) > 0 {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return audit.Entry{}, fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, action, actor_id, attendance_id, travel_request_id, employee_id, reason, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		entry.ID, entry.Action, entry.ActorID, entry.AttendanceID, entry.TravelRequestID, entry.EmployeeID,
		entry.Reason, details,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to create audit entry: %w", err)
	}
	return entry, nil
}

// List implements audit.Repository.
func (r *auditRepository) List(ctx context.Context, filter audit.AuditFilter) ([]audit.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		baseWhere += fmt.Sprintf(clause, len(args))
	}

	if filter.Action != nil && *filter.Action != "" {
		add(" AND l.action = $%d", *filter.Action)
	}
	if filter.ActorID != nil && *filter.ActorID != "" {
		add(" AND l.actor_id = $%d", *filter.ActorID)
	}
	if filter.AttendanceID != nil && *filter.AttendanceID != "" {
		add(" AND l.attendance_id = $%d", *filter.AttendanceID)
	}
	if filter.TravelRequestID != nil && *filter.TravelRequestID != "" {
		add(" AND l.travel_request_id = $%d", *filter.TravelRequestID)
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add(" AND l.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		add(" AND l.created_at >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		add(" AND l.created_at < $%d::date + INTERVAL '1 day'", *filter.EndDate)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs l WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 50
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	argIdx := len(args) + 1
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY l.created_at %s, l.id %s LIMIT $%d OFFSET $%d",
		auditColumns, auditFrom, baseWhere, sortOrder, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		entry, err := scanAudit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAfter implements audit.Repository.
func (r *auditRepository) ListAfter(ctx context.Context, after time.Time, afterID string, limit int) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var (
		rows pgx.Rows
		err  error
	)
	if afterID == "" {
		rows, err = q.Query(ctx, "SELECT "+auditColumns+auditFrom+
			" ORDER BY l.created_at ASC, l.id ASC LIMIT $1", limit)
	} else {
		rows, err = q.Query(ctx, "SELECT "+auditColumns+auditFrom+
			" WHERE (l.created_at, l.id) > ($1, $2::uuid) ORDER BY l.created_at ASC, l.id ASC LIMIT $3",
			after, afterID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries after cursor: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		entry, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
