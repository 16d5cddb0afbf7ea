package http

import (
	"context"
	"net/http"

	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/handler/http/response"
)

// OverlapReporter lists travel overlaps that block approvals.
type OverlapReporter interface {
	TravelOverlapReport(ctx context.Context) ([]travel.OverlapConflict, error)
}

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	TravelOverlaps(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.Service
	overlaps     OverlapReporter
}

func NewAuditHandler(auditService audit.Service, overlaps OverlapReporter) AuditHandler {
	return &auditHandlerImpl{auditService: auditService, overlaps: overlaps}
}

// List implements AuditHandler.
func (h *auditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := audit.AuditFilter{
		Action:          optionalQuery(r, "action"),
		ActorID:         optionalQuery(r, "actor_id"),
		AttendanceID:    optionalQuery(r, "attendance_id"),
		TravelRequestID: optionalQuery(r, "travel_request_id"),
		EmployeeID:      optionalQuery(r, "employee_id"),
		StartDate:       optionalQuery(r, "start_date"),
		EndDate:         optionalQuery(r, "end_date"),
		Page:            intQuery(r, "page", 1),
		Limit:           intQuery(r, "limit", 50),
		SortOrder:       r.URL.Query().Get("sort_order"),
	}

	result, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TravelOverlaps implements AuditHandler.
func (h *auditHandlerImpl) TravelOverlaps(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.overlaps.TravelOverlapReport(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]travel.OverlapConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, travel.OverlapConflictResponse{
			EmployeeID:       c.EmployeeID,
			EmployeeCode:     c.EmployeeCode,
			Date:             c.Date.Format("2006-01-02"),
			TravelRequestIDs: c.TravelRequestIDs,
		})
	}
	response.Success(w, out)
}
