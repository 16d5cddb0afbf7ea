package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
)

const archiveBatchSize = 500

type AuditServiceImpl struct {
	repo    audit.Repository
	archive audit.Archive
}

// NewAuditService builds the audit reader. archive may be nil when no
// secondary store is configured; ArchivePending is then a no-op.
func NewAuditService(repo audit.Repository, archive audit.Archive) *AuditServiceImpl {
	return &AuditServiceImpl{repo: repo, archive: archive}
}

var _ audit.Service = (*AuditServiceImpl)(nil)

// List implements audit.Service. Admin only.
func (s *AuditServiceImpl) List(ctx context.Context, filter audit.AuditFilter) (audit.ListAuditResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return audit.ListAuditResponse{}, err
	}
	if !actor.IsAdmin() {
		return audit.ListAuditResponse{}, employee.ErrAdminRequired
	}
	if err := filter.Validate(); err != nil {
		return audit.ListAuditResponse{}, err
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return audit.ListAuditResponse{}, fmt.Errorf("failed to list audit entries: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	resp := audit.ListAuditResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Entries:    make([]audit.AuditResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toResponse(e))
	}
	return resp, nil
}

// ArchivePending implements audit.Service. It resumes from the archive's own
// cursor so an interrupted run picks up where it stopped.
func (s *AuditServiceImpl) ArchivePending(ctx context.Context) (int, error) {
	if s.archive == nil {
		return 0, nil
	}

	after, afterID, err := s.archive.Cursor(ctx)
	if err != nil {
		return 0, err
	}

	copied := 0
	for {
		batch, err := s.repo.ListAfter(ctx, after, afterID, archiveBatchSize)
		if err != nil {
			return copied, err
		}
		if len(batch) == 0 {
			return copied, nil
		}
		if err := s.archive.Store(ctx, batch); err != nil {
			return copied, err
		}
		copied += len(batch)

		last := batch[len(batch)-1]
		after, afterID = last.CreatedAt, last.ID
		slog.Debug("archived audit batch", "size", len(batch), "cursor", afterID)

		if len(batch) < archiveBatchSize {
			return copied, nil
		}
		if err := ctx.Err(); err != nil {
			return copied, err
		}
	}
}

func toResponse(e audit.Entry) audit.AuditResponse {
	return audit.AuditResponse{
		ID:              e.ID,
		Action:          e.Action,
		ActorID:         e.ActorID,
		ActorName:       e.ActorName,
		AttendanceID:    e.AttendanceID,
		TravelRequestID: e.TravelRequestID,
		EmployeeID:      e.EmployeeID,
		Reason:          e.Reason,
		Details:         e.Details,
		CreatedAt:       e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
