package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/approval"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/database"
	"github.com/satshine/satshine-backend/internal/pkg/i18n"
	"github.com/satshine/satshine-backend/internal/pkg/utils"
)

// Config holds attendance service configuration
type Config struct {
	Location          *time.Location // local day boundary, default UTC
	MaxDistanceMeters float64        // 0 disables the radius check
}

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	travelRepo     travel.TravelRepository
	auditRepo      audit.Repository
	notifier       notification.Service
	config         Config
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	travelRepo travel.TravelRepository,
	auditRepo audit.Repository,
	notifier notification.Service,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		travelRepo:     travelRepo,
		auditRepo:      auditRepo,
		notifier:       notifier,
		config:         cfg,
		now:            time.Now,
	}
}

// clock returns the current instant in UTC and today's local date stored as UTC midnight.
func (s *AttendanceServiceImpl) clock() (time.Time, time.Time) {
	now := s.now()
	local := now.In(s.config.Location)
	return now.UTC(), time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	owner, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !owner.IsActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	now, today := s.clock()

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, owner.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil && existing.Status != attendance.StatusUnmarked {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyMarked
	}

	rec := attendance.Attendance{EmployeeID: owner.ID, Date: today}
	if existing != nil {
		rec = *existing
		rec.ResetApprovals()
	}
	rec.Status = req.Status
	rec.Remarks = req.Remarks

	if req.Status.OnDuty() {
		if req.Latitude == nil || req.Longitude == nil {
			return attendance.AttendanceResponse{}, attendance.ErrLocationRequired
		}
		rec.CheckIn = &now
		rec.CheckInLatitude = req.Latitude
		rec.CheckInLongitude = req.Longitude

		if owner.HasBaseLocation() {
			distance := utils.CalculateHaversineDistance(
				*req.Latitude, *req.Longitude,
				*owner.BaseLatitude, *owner.BaseLongitude,
			)
			if s.config.MaxDistanceMeters > 0 && distance > s.config.MaxDistanceMeters {
				return attendance.AttendanceResponse{}, fmt.Errorf("%w: %s from base location",
					attendance.ErrOutsideAllowedRadius, utils.FormatDistance(distance))
			}
			rec.DistanceMeters = &distance
		}
	}

	if err := s.save(ctx, &rec, owner, existing == nil); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(rec), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	owner, err := s.employeeRepo.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, today := s.clock()

	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, owner.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if rec == nil || rec.Status == attendance.StatusUnmarked {
		return attendance.AttendanceResponse{}, attendance.ErrNotMarkedToday
	}
	if !rec.Status.OnDuty() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	// Approval columns are left to the approvers; only check-out is written.
	updated, err := s.attendanceRepo.RecordCheckOut(ctx, rec.ID, now, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	withOwner(&updated, owner)

	return s.toResponse(updated), nil
}

// ConfirmAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ConfirmAttendance(ctx context.Context, id string) (attendance.TransitionResponse, error) {
	return s.transition(ctx, id, approval.StageSupervisorConfirm)
}

// ApproveAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveAttendance(ctx context.Context, id string) (attendance.TransitionResponse, error) {
	return s.transition(ctx, id, approval.StageAdminApprove)
}

// transition runs one approval stage on a single record. A blocked attempt
// commits its audit entry and then fails with *attendance.BlockedError.
func (s *AttendanceServiceImpl) transition(ctx context.Context, id string, stage approval.Stage) (attendance.TransitionResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.TransitionResponse{}, err
	}
	if stage == approval.StageAdminApprove && !actor.IsAdmin() {
		return attendance.TransitionResponse{}, attendance.ErrAdminRequired
	}

	var (
		rec      attendance.Attendance
		owner    employee.Employee
		decision approval.Decision
	)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.attendanceRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		owner, err = s.employeeRepo.GetByID(ctx, rec.EmployeeID)
		if err != nil {
			return err
		}
		if err := authorize(stage, actor, owner); err != nil {
			return err
		}

		decision, err = s.apply(ctx, stage, actor, &rec, owner)
		return err
	})
	if err != nil {
		return attendance.TransitionResponse{}, err
	}

	if decision.Blocked() {
		return attendance.TransitionResponse{}, &attendance.BlockedError{
			Err:              decision.Err,
			TravelRequestIDs: decision.TravelRequestIDs,
		}
	}
	if decision.Permitted() {
		s.notify(ctx, actor, owner, rec, notificationTypeFor(stage))
	}

	return attendance.TransitionResponse{
		Attendance:          s.toResponse(rec),
		AlreadyTransitioned: decision.Outcome == approval.OutcomeAlreadyDone,
	}, nil
}

// apply evaluates the gate for rec and performs the resulting writes inside
// the caller's transaction. rec is updated in place on success.
func (s *AttendanceServiceImpl) apply(ctx context.Context, stage approval.Stage, actor auth.Actor, rec *attendance.Attendance, owner employee.Employee) (approval.Decision, error) {
	var overlapping []travel.TravelRequest
	if rec.Status.OnDuty() && approval.TravelGated(stage, owner.Designation) {
		var err error
		overlapping, err = s.travelRepo.ListOverlapping(ctx, rec.EmployeeID, rec.Date, rec.Date)
		if err != nil {
			return approval.Decision{}, err
		}
	}

	decision := approval.Evaluate(stage, rec.Subject(owner.Designation), overlapping)

	switch decision.Outcome {
	case approval.OutcomeAlreadyDone:
		// Older rows may predate the bypass trigger.
		if approval.BypassesSupervisor(owner.Designation) && !rec.ConfirmedBySupervisor {
			if err := s.save(ctx, rec, owner, false); err != nil {
				return approval.Decision{}, err
			}
		}
		withOwner(rec, owner)

	case approval.OutcomeBlocked:
		if errors.Is(decision.Err, approval.ErrAwaitingConfirmation) {
			return decision, nil
		}
		if err := s.auditBlock(ctx, stage, actor, *rec, decision); err != nil {
			return approval.Decision{}, err
		}

	case approval.OutcomePermitted:
		now, _ := s.clock()
		rec.Apply(stage, actor.EmployeeID, now)
		if err := s.save(ctx, rec, owner, false); err != nil {
			return approval.Decision{}, err
		}
		action := audit.ActionSupervisorConfirm
		if stage == approval.StageAdminApprove {
			action = audit.ActionAdminApprove
		}
		if err := s.record(ctx, audit.Entry{
			Action:       action,
			ActorID:      &actor.EmployeeID,
			AttendanceID: &rec.ID,
			EmployeeID:   &rec.EmployeeID,
			Details: map[string]interface{}{
				"date":   rec.Date.Format("2006-01-02"),
				"status": string(rec.Status),
			},
		}); err != nil {
			return approval.Decision{}, err
		}
	}

	return decision, nil
}

// ConfirmAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ConfirmAbsent(ctx context.Context, req attendance.ConfirmAbsentRequest) (attendance.TransitionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TransitionResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.TransitionResponse{}, err
	}

	now, today := s.clock()
	if req.ParsedDate.After(today) {
		return attendance.TransitionResponse{}, attendance.ErrFutureDate
	}

	owner, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.TransitionResponse{}, err
	}
	if err := authorize(approval.StageSupervisorConfirm, actor, owner); err != nil {
		return attendance.TransitionResponse{}, err
	}

	var rec attendance.Attendance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, owner.ID, req.ParsedDate)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status != attendance.StatusUnmarked {
			return attendance.ErrAlreadyMarked
		}

		rec = attendance.Attendance{EmployeeID: owner.ID, Date: req.ParsedDate}
		if existing != nil {
			rec = *existing
			rec.ResetApprovals()
		}
		rec.Status = attendance.StatusAbsent
		if req.Remarks != nil {
			rec.Remarks = req.Remarks
		}
		rec.Apply(approval.StageSupervisorConfirm, actor.EmployeeID, now)

		if err := s.save(ctx, &rec, owner, existing == nil); err != nil {
			return err
		}

		return s.record(ctx, audit.Entry{
			Action:       audit.ActionMarkAbsent,
			ActorID:      &actor.EmployeeID,
			AttendanceID: &rec.ID,
			EmployeeID:   &owner.ID,
			Reason:       req.Remarks,
			Details: map[string]interface{}{
				"date":     rec.Date.Format("2006-01-02"),
				"upgraded": existing != nil,
			},
		})
	})
	if err != nil {
		return attendance.TransitionResponse{}, err
	}

	s.notify(ctx, actor, owner, rec, notification.TypeAttendanceAbsent)

	return attendance.TransitionResponse{Attendance: s.toResponse(rec)}, nil
}

// save is the single write path for attendance rows.
func (s *AttendanceServiceImpl) save(ctx context.Context, rec *attendance.Attendance, owner employee.Employee, isNew bool) error {
	rec.EnforceBypass(owner.Designation)

	if isNew {
		if rec.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate attendance ID: %w", err)
			}
			rec.ID = id.String()
		}
		created, err := s.attendanceRepo.Create(ctx, *rec)
		if err != nil {
			return err
		}
		*rec = created
	} else if err := s.attendanceRepo.Update(ctx, *rec); err != nil {
		return err
	}

	withOwner(rec, owner)
	return nil
}

func (s *AttendanceServiceImpl) auditBlock(ctx context.Context, stage approval.Stage, actor auth.Actor, rec attendance.Attendance, decision approval.Decision) error {
	action := audit.ActionConfirmBlocked
	if stage == approval.StageAdminApprove {
		action = audit.ActionApproveBlocked
	}
	reason := decision.Reason()

	entry := audit.Entry{
		Action:       action,
		ActorID:      &actor.EmployeeID,
		AttendanceID: &rec.ID,
		EmployeeID:   &rec.EmployeeID,
		Reason:       &reason,
		Details: map[string]interface{}{
			"date":               rec.Date.Format("2006-01-02"),
			"stage":              string(stage),
			"travel_request_ids": decision.TravelRequestIDs,
		},
	}
	if len(decision.TravelRequestIDs) == 1 {
		entry.TravelRequestID = &decision.TravelRequestIDs[0]
	}

	return s.record(ctx, entry)
}

func (s *AttendanceServiceImpl) record(ctx context.Context, entry audit.Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit ID: %w", err)
	}
	entry.ID = id.String()
	if _, err := s.auditRepo.Create(ctx, entry); err != nil {
		return err
	}
	return nil
}

// notify queues a message to the record owner. Failures are logged only.
func (s *AttendanceServiceImpl) notify(ctx context.Context, actor auth.Actor, owner employee.Employee, rec attendance.Attendance, typ notification.NotificationType) {
	if s.notifier == nil {
		return
	}

	lctx := i18n.WithLocale(ctx, owner.PreferredLanguage)
	data := map[string]any{
		"Date":  rec.Date.Format("02 Jan 2006"),
		"Actor": actor.EmployeeCode,
	}

	req := notification.CreateNotificationRequest{
		RecipientID: owner.ID,
		SenderID:    &actor.EmployeeID,
		Type:        typ,
		Title:       i18n.T(lctx, "notification."+string(typ)+".title", data),
		Message:     i18n.T(lctx, "notification."+string(typ)+".message", data),
		Data: map[string]interface{}{
			"attendance_id": rec.ID,
			"date":          rec.Date.Format("2006-01-02"),
		},
	}

	if err := s.notifier.QueueNotification(context.WithoutCancel(ctx), req); err != nil {
		slog.Warn("failed to queue attendance notification",
			"attendance_id", rec.ID, "type", typ, "error", err)
	}
}

func notificationTypeFor(stage approval.Stage) notification.NotificationType {
	if stage == approval.StageAdminApprove {
		return notification.TypeAttendanceApproved
	}
	return notification.TypeAttendanceConfirmed
}

// authorize checks the actor may act on owner's records at stage.
func authorize(stage approval.Stage, actor auth.Actor, owner employee.Employee) error {
	if actor.IsAdmin() {
		return nil
	}
	switch stage {
	case approval.StageSupervisorConfirm:
		if owner.SupervisorID != nil && *owner.SupervisorID == actor.EmployeeID {
			return nil
		}
		return attendance.ErrNotSupervisor
	default:
		return attendance.ErrAdminRequired
	}
}

func withOwner(rec *attendance.Attendance, owner employee.Employee) {
	if rec.EmployeeName == nil {
		rec.EmployeeName = &owner.FullName
		rec.EmployeeCode = &owner.EmployeeCode
		rec.EmployeeDCCB = &owner.DCCB
	}
	d := owner.Designation
	rec.EmployeeDesignation = &d
}

func paginate(total int64, page, limit int) (int, string) {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}
	return totalPages, showing
}
