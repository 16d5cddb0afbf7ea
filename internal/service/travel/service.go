package travel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/database"
	"github.com/satshine/satshine-backend/internal/pkg/i18n"
)

type TravelServiceImpl struct {
	tx           database.Transactor
	travelRepo   travel.TravelRepository
	employeeRepo employee.EmployeeRepository
	regionRepo   employee.ApproverRegionRepository
	auditRepo    audit.Repository
	notifier     notification.Service
	location     *time.Location
	now          func() time.Time
}

func NewTravelService(
	tx database.Transactor,
	travelRepo travel.TravelRepository,
	employeeRepo employee.EmployeeRepository,
	regionRepo employee.ApproverRegionRepository,
	auditRepo audit.Repository,
	notifier notification.Service,
	location *time.Location,
) travel.TravelService {
	if location == nil {
		location = time.UTC
	}
	return &TravelServiceImpl{
		tx:           tx,
		travelRepo:   travelRepo,
		employeeRepo: employeeRepo,
		regionRepo:   regionRepo,
		auditRepo:    auditRepo,
		notifier:     notifier,
		location:     location,
		now:          time.Now,
	}
}

// CreateTravelRequest implements travel.TravelService.
func (s *TravelServiceImpl) CreateTravelRequest(ctx context.Context, req travel.CreateTravelRequest) (travel.TravelRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return travel.TravelRequestResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	requester, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}
	if !requester.IsActive {
		return travel.TravelRequestResponse{}, employee.ErrEmployeeInactive
	}

	approver, err := s.approverFor(ctx, requester.DCCB)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return travel.TravelRequestResponse{}, fmt.Errorf("failed to generate travel request ID: %w", err)
	}

	tr := travel.TravelRequest{
		ID:          id.String(),
		EmployeeID:  requester.ID,
		ApproverID:  approver.ID,
		StartDate:   req.Start,
		EndDate:     req.End,
		Destination: req.Destination,
		Purpose:     req.Purpose,
		Status:      travel.StatusPending,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Any overlap, whatever its status, would make the covered days undecidable.
		existing, err := s.travelRepo.ListOverlapping(ctx, requester.ID, tr.StartDate, tr.EndDate)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return travel.ErrOverlappingTravel
		}

		tr, err = s.travelRepo.Create(ctx, tr)
		if err != nil {
			return err
		}

		return s.record(ctx, audit.Entry{
			Action:          audit.ActionTravelCreate,
			ActorID:         &actor.EmployeeID,
			TravelRequestID: &tr.ID,
			EmployeeID:      &requester.ID,
			Details: map[string]interface{}{
				"start_date":  tr.StartDate.Format("2006-01-02"),
				"end_date":    tr.EndDate.Format("2006-01-02"),
				"destination": tr.Destination,
				"approver_id": approver.ID,
			},
		})
	})
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	tr.EmployeeName = &requester.FullName
	tr.EmployeeCode = &requester.EmployeeCode
	tr.ApproverName = &approver.FullName

	s.notify(ctx, actor, approver, notification.TypeTravelRequested, tr, map[string]any{
		"Employee": requester.FullName,
	})

	return s.toResponse(tr), nil
}

// approverFor resolves the active Associate assigned to dccb.
func (s *TravelServiceImpl) approverFor(ctx context.Context, dccb string) (employee.Employee, error) {
	region, err := s.regionRepo.GetByDCCB(ctx, dccb)
	if err != nil {
		if errors.Is(err, employee.ErrApproverRegionNotFound) {
			return employee.Employee{}, travel.ErrNoApproverForRegion
		}
		return employee.Employee{}, err
	}

	approver, err := s.employeeRepo.GetByID(ctx, region.ApproverID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, travel.ErrNoApproverForRegion
		}
		return employee.Employee{}, err
	}
	if !approver.IsActive || approver.Designation != employee.DesignationAssociate {
		return employee.Employee{}, travel.ErrNoApproverForRegion
	}
	return approver, nil
}

// DecideTravelRequest implements travel.TravelService.
func (s *TravelServiceImpl) DecideTravelRequest(ctx context.Context, req travel.DecideTravelRequest) (travel.TravelRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return travel.TravelRequestResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	var tr travel.TravelRequest
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tr, err = s.travelRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && tr.ApproverID != actor.EmployeeID {
			return travel.ErrNotAssignedApprover
		}
		if tr.Status.IsDecided() {
			return travel.ErrTravelAlreadyDecided
		}

		now := s.now().UTC()
		tr.Status = req.Decision.TargetStatus()
		tr.DecidedBy = &actor.EmployeeID
		tr.DecidedAt = &now
		tr.DecisionRemarks = req.Remarks

		if err := s.travelRepo.UpdateDecision(ctx, tr); err != nil {
			return err
		}

		return s.record(ctx, audit.Entry{
			Action:          audit.ActionTravelDecide,
			ActorID:         &actor.EmployeeID,
			TravelRequestID: &tr.ID,
			EmployeeID:      &tr.EmployeeID,
			Reason:          req.Remarks,
			Details: map[string]interface{}{
				"status": string(tr.Status),
			},
		})
	})
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	requester, err := s.employeeRepo.GetByID(ctx, tr.EmployeeID)
	if err != nil {
		slog.Warn("travel decided but requester lookup failed", "travel_request_id", tr.ID, "error", err)
	} else {
		typ := notification.TypeTravelApproved
		if tr.Status == travel.StatusRejected {
			typ = notification.TypeTravelRejected
		}
		remarks := ""
		if tr.DecisionRemarks != nil {
			remarks = *tr.DecisionRemarks
		}
		s.notify(ctx, actor, requester, typ, tr, map[string]any{"Remarks": remarks})
	}

	return s.toResponse(tr), nil
}

// GetTravelRequest implements travel.TravelService.
func (s *TravelServiceImpl) GetTravelRequest(ctx context.Context, id string) (travel.TravelRequestResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}

	tr, err := s.travelRepo.GetByID(ctx, id)
	if err != nil {
		return travel.TravelRequestResponse{}, err
	}
	if !actor.IsAdmin() && tr.EmployeeID != actor.EmployeeID && tr.ApproverID != actor.EmployeeID {
		return travel.TravelRequestResponse{}, travel.ErrUnauthorized
	}

	return s.toResponse(tr), nil
}

// ListMyTravelRequests implements travel.TravelService.
func (s *TravelServiceImpl) ListMyTravelRequests(ctx context.Context, filter travel.TravelFilter) (travel.ListTravelResponse, error) {
	if err := filter.Validate(); err != nil {
		return travel.ListTravelResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return travel.ListTravelResponse{}, err
	}
	filter.EmployeeID = &actor.EmployeeID
	filter.ApproverID = nil

	return s.list(ctx, filter)
}

// ListAssignedTravelRequests implements travel.TravelService.
func (s *TravelServiceImpl) ListAssignedTravelRequests(ctx context.Context, filter travel.TravelFilter) (travel.ListTravelResponse, error) {
	if err := filter.Validate(); err != nil {
		return travel.ListTravelResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return travel.ListTravelResponse{}, err
	}
	if !actor.IsAdmin() {
		filter.ApproverID = &actor.EmployeeID
	}

	return s.list(ctx, filter)
}

func (s *TravelServiceImpl) list(ctx context.Context, filter travel.TravelFilter) (travel.ListTravelResponse, error) {
	requests, total, err := s.travelRepo.List(ctx, filter)
	if err != nil {
		return travel.ListTravelResponse{}, fmt.Errorf("failed to list travel requests: %w", err)
	}

	responses := make([]travel.TravelRequestResponse, 0, len(requests))
	for _, tr := range requests {
		responses = append(responses, s.toResponse(tr))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return travel.ListTravelResponse{
		TotalCount:     total,
		Page:           filter.Page,
		Limit:          filter.Limit,
		TotalPages:     totalPages,
		Showing:        showing,
		TravelRequests: responses,
	}, nil
}

func (s *TravelServiceImpl) record(ctx context.Context, entry audit.Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit ID: %w", err)
	}
	entry.ID = id.String()
	_, err = s.auditRepo.Create(ctx, entry)
	return err
}

func (s *TravelServiceImpl) notify(ctx context.Context, actor auth.Actor, recipient employee.Employee, typ notification.NotificationType, tr travel.TravelRequest, extra map[string]any) {
	if s.notifier == nil {
		return
	}

	data := map[string]any{
		"Destination": tr.Destination,
		"StartDate":   tr.StartDate.Format("02 Jan 2006"),
		"EndDate":     tr.EndDate.Format("02 Jan 2006"),
	}
	for k, v := range extra {
		data[k] = v
	}

	lctx := i18n.WithLocale(ctx, recipient.PreferredLanguage)
	req := notification.CreateNotificationRequest{
		RecipientID: recipient.ID,
		SenderID:    &actor.EmployeeID,
		Type:        typ,
		Title:       i18n.T(lctx, "notification."+string(typ)+".title", data),
		Message:     i18n.T(lctx, "notification."+string(typ)+".message", data),
		Data: map[string]interface{}{
			"travel_request_id": tr.ID,
			"status":            string(tr.Status),
		},
	}

	if err := s.notifier.QueueNotification(context.WithoutCancel(ctx), req); err != nil {
		slog.Warn("failed to queue travel notification",
			"travel_request_id", tr.ID, "type", typ, "error", err)
	}
}

func (s *TravelServiceImpl) toResponse(tr travel.TravelRequest) travel.TravelRequestResponse {
	var decidedAt *string
	if tr.DecidedAt != nil {
		v := tr.DecidedAt.In(s.location).Format("2006-01-02 15:04:05")
		decidedAt = &v
	}

	return travel.TravelRequestResponse{
		ID:              tr.ID,
		EmployeeID:      tr.EmployeeID,
		EmployeeName:    tr.EmployeeName,
		EmployeeCode:    tr.EmployeeCode,
		ApproverID:      tr.ApproverID,
		ApproverName:    tr.ApproverName,
		StartDate:       tr.StartDate.Format("2006-01-02"),
		EndDate:         tr.EndDate.Format("2006-01-02"),
		Destination:     tr.Destination,
		Purpose:         tr.Purpose,
		Status:          tr.Status,
		DecidedBy:       tr.DecidedBy,
		DecidedAt:       decidedAt,
		DecisionRemarks: tr.DecisionRemarks,
		CreatedAt:       tr.CreatedAt.In(s.location).Format("2006-01-02 15:04:05"),
		UpdatedAt:       tr.UpdatedAt.In(s.location).Format("2006-01-02 15:04:05"),
	}
}
