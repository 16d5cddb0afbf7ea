package audit

import (
	"context"
	"time"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, filter AuditFilter) ([]Entry, int64, error)

	// ListAfter returns up to limit entries created strictly after the cursor, oldest first
	ListAfter(ctx context.Context, after time.Time, afterID string, limit int) ([]Entry, error)
}

// Archive is a secondary store that receives copies of audit entries.
type Archive interface {
	Store(ctx context.Context, entries []Entry) error
	// Cursor returns the position of the newest archived entry, zero values when empty
	Cursor(ctx context.Context) (time.Time, string, error)
}
