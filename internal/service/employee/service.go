package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/approval"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	regionRepo     employee.ApproverRegionRepository
	attendanceRepo attendance.AttendanceRepository
	auditRepo      audit.Repository
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	regionRepo employee.ApproverRegionRepository,
	attendanceRepo attendance.AttendanceRepository,
	auditRepo audit.Repository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		regionRepo:     regionRepo,
		attendanceRepo: attendanceRepo,
		auditRepo:      auditRepo,
	}
}

func requireAdmin(ctx context.Context) (auth.Actor, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return auth.Actor{}, err
	}
	if !actor.IsAdmin() {
		return auth.Actor{}, employee.ErrAdminRequired
	}
	return actor, nil
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:                emp.ID,
		EmployeeCode:      emp.EmployeeCode,
		FullName:          emp.FullName,
		Email:             emp.Email,
		PhoneNumber:       emp.PhoneNumber,
		Designation:       emp.Designation,
		Pipeline:          string(approval.PipelineFor(emp.Designation)),
		DCCB:              emp.DCCB,
		SupervisorID:      emp.SupervisorID,
		SupervisorName:    emp.SupervisorName,
		BaseLatitude:      emp.BaseLatitude,
		BaseLongitude:     emp.BaseLongitude,
		PreferredLanguage: emp.PreferredLanguage,
		IsActive:          emp.IsActive,
		CreatedAt:         emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// checkSupervisor verifies supervisorID names an active DC other than the employee.
func (s *EmployeeServiceImpl) checkSupervisor(ctx context.Context, supervisorID, employeeID string) (employee.Employee, error) {
	if supervisorID == employeeID {
		return employee.Employee{}, employee.ErrSupervisorNotDC
	}
	sup, err := s.employeeRepo.GetByID(ctx, supervisorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrSupervisorNotDC
		}
		return employee.Employee{}, err
	}
	if !sup.IsActive || sup.Designation != employee.DesignationDC {
		return employee.Employee{}, employee.ErrSupervisorNotDC
	}
	return sup, nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if _, err := requireAdmin(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee ID: %w", err)
	}

	var supervisorName *string
	if req.SupervisorID != nil {
		sup, err := s.checkSupervisor(ctx, *req.SupervisorID, id.String())
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		supervisorName = &sup.FullName
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	emp, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:                id.String(),
		EmployeeCode:      req.EmployeeCode,
		FullName:          req.FullName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		PasswordHash:      &hashed,
		Designation:       req.Designation,
		DCCB:              req.DCCB,
		SupervisorID:      req.SupervisorID,
		BaseLatitude:      req.BaseLatitude,
		BaseLongitude:     req.BaseLongitude,
		PreferredLanguage: req.PreferredLanguage,
		IsActive:          true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	emp.SupervisorName = supervisorName

	slog.Info("employee created", "employee_id", emp.ID, "employee_code", emp.EmployeeCode, "designation", emp.Designation)

	return mapEmployeeToResponse(emp), nil
}

// Get implements employee.EmployeeService.
// Admins see everyone, a DC sees their team, everyone sees themselves.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !actor.IsAdmin() && emp.ID != actor.EmployeeID &&
		(emp.SupervisorID == nil || *emp.SupervisorID != actor.EmployeeID) {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	return mapEmployeeToResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if !actor.IsAdmin() {
		filter.SupervisorID = &actor.EmployeeID
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// Update implements employee.EmployeeService.
// A designation change into the direct pipeline presets supervisor
// confirmation on every existing record in the same transaction.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	actor, err := requireAdmin(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var emp employee.Employee
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		emp, err = s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		previous := emp.Designation

		if req.FullName != nil {
			emp.FullName = *req.FullName
		}
		if req.Email != nil {
			emp.Email = req.Email
		}
		if req.PhoneNumber != nil {
			emp.PhoneNumber = req.PhoneNumber
		}
		if req.Designation != nil {
			emp.Designation = *req.Designation
		}
		if req.DCCB != nil {
			emp.DCCB = *req.DCCB
		}
		if req.BaseLatitude != nil {
			emp.BaseLatitude = req.BaseLatitude
			emp.BaseLongitude = req.BaseLongitude
		}
		if req.PreferredLanguage != nil {
			emp.PreferredLanguage = *req.PreferredLanguage
		}
		if req.SupervisorID != nil {
			if *req.SupervisorID == "" {
				emp.SupervisorID = nil
				emp.SupervisorName = nil
			} else {
				sup, err := s.checkSupervisor(ctx, *req.SupervisorID, emp.ID)
				if err != nil {
					return err
				}
				emp.SupervisorID = req.SupervisorID
				emp.SupervisorName = &sup.FullName
			}
		}

		if err := s.employeeRepo.Update(ctx, emp); err != nil {
			return err
		}

		if emp.Designation == previous {
			return nil
		}

		if err := s.record(ctx, audit.Entry{
			Action:     audit.ActionDesignationChange,
			ActorID:    &actor.EmployeeID,
			EmployeeID: &emp.ID,
			Details: map[string]interface{}{
				"from": string(previous),
				"to":   string(emp.Designation),
			},
		}); err != nil {
			return err
		}

		if !approval.BypassesSupervisor(emp.Designation) {
			return nil
		}
		ids, err := s.attendanceRepo.PresetSupervisorConfirmation(ctx, emp.ID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return s.record(ctx, audit.Entry{
			Action:     audit.ActionBypassRepair,
			ActorID:    &actor.EmployeeID,
			EmployeeID: &emp.ID,
			Details: map[string]interface{}{
				"attendance_ids": ids,
				"count":          len(ids),
				"trigger":        "designation_change",
			},
		})
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeToResponse(emp), nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if actor.EmployeeID == id {
		return employee.ErrCannotDeactivateSelf
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeAlreadyInactive
		}
		if err := s.employeeRepo.Deactivate(ctx, id); err != nil {
			return err
		}
		return s.record(ctx, audit.Entry{
			Action:     audit.ActionEmployeeDeactivate,
			ActorID:    &actor.EmployeeID,
			EmployeeID: &emp.ID,
			Details:    map[string]interface{}{"employee_code": emp.EmployeeCode},
		})
	})
}

// UpsertApproverRegion implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpsertApproverRegion(ctx context.Context, req employee.UpsertApproverRegionRequest) (employee.ApproverRegionResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.ApproverRegionResponse{}, err
	}
	if _, err := requireAdmin(ctx); err != nil {
		return employee.ApproverRegionResponse{}, err
	}

	approver, err := s.employeeRepo.GetByID(ctx, req.ApproverID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ApproverRegionResponse{}, employee.ErrApproverNotAssociate
		}
		return employee.ApproverRegionResponse{}, err
	}
	if !approver.IsActive || approver.Designation != employee.DesignationAssociate {
		return employee.ApproverRegionResponse{}, employee.ErrApproverNotAssociate
	}

	region := employee.ApproverRegion{DCCB: req.DCCB, ApproverID: approver.ID}
	if err := s.regionRepo.Upsert(ctx, region); err != nil {
		return employee.ApproverRegionResponse{}, err
	}

	saved, err := s.regionRepo.GetByDCCB(ctx, req.DCCB)
	if err != nil {
		return employee.ApproverRegionResponse{}, err
	}
	return mapRegionToResponse(saved), nil
}

// ListApproverRegions implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListApproverRegions(ctx context.Context) ([]employee.ApproverRegionResponse, error) {
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approver regions: %w", err)
	}

	responses := make([]employee.ApproverRegionResponse, 0, len(regions))
	for _, r := range regions {
		responses = append(responses, mapRegionToResponse(r))
	}
	return responses, nil
}

func mapRegionToResponse(r employee.ApproverRegion) employee.ApproverRegionResponse {
	return employee.ApproverRegionResponse{
		DCCB:         r.DCCB,
		ApproverID:   r.ApproverID,
		ApproverName: r.ApproverName,
		UpdatedAt:    r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (s *EmployeeServiceImpl) record(ctx context.Context, entry audit.Entry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit ID: %w", err)
	}
	entry.ID = id.String()
	_, err = s.auditRepo.Create(ctx, entry)
	return err
}
