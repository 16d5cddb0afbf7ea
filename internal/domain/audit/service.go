package audit

import (
	"context"
)

type Service interface {
	List(ctx context.Context, filter AuditFilter) (ListAuditResponse, error)

	// ArchivePending copies entries not yet archived and returns how many were copied
	ArchivePending(ctx context.Context) (int, error)
}
