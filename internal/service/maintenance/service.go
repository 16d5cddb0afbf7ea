package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/audit"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/pkg/database"
)

// BypassRepair lists the records of one employee that were missing the
// supervisor bypass flag.
type BypassRepair struct {
	EmployeeID    string   `json:"employee_id"`
	EmployeeCode  string   `json:"employee_code"`
	AttendanceIDs []string `json:"attendance_ids"`
}

type BypassRepairReport struct {
	DryRun    bool           `json:"dry_run"`
	Employees []BypassRepair `json:"employees"`
	Records   int            `json:"records"`
}

// Service runs the idempotent data repairs. All repairs are safe to re-run.
type Service struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	travelRepo     travel.TravelRepository
	auditRepo      audit.Repository
}

func NewService(tx database.Transactor, attendanceRepo attendance.AttendanceRepository, travelRepo travel.TravelRepository, auditRepo audit.Repository) *Service {
	return &Service{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		travelRepo:     travelRepo,
		auditRepo:      auditRepo,
	}
}

// RepairBypassFlags sets confirmed_by_supervisor on every record whose owner
// skips supervisor confirmation. With dryRun nothing is written.
func (s *Service) RepairBypassFlags(ctx context.Context, dryRun bool) (BypassRepairReport, error) {
	return s.repairBypass(ctx, dryRun, "repair")
}

// SweepBypassFlags is the scheduled form of RepairBypassFlags.
func (s *Service) SweepBypassFlags(ctx context.Context) (int, error) {
	report, err := s.repairBypass(ctx, false, "sweep")
	return report.Records, err
}

func (s *Service) repairBypass(ctx context.Context, dryRun bool, trigger string) (BypassRepairReport, error) {
	report := BypassRepairReport{DryRun: dryRun}

	var actorID *string
	if actor, err := auth.ActorFromContext(ctx); err == nil {
		actorID = &actor.EmployeeID
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		violations, err := s.attendanceRepo.ListBypassViolations(ctx)
		if err != nil {
			return err
		}
		report.Employees = groupByEmployee(violations)

		if dryRun {
			for _, r := range report.Employees {
				report.Records += len(r.AttendanceIDs)
			}
			return nil
		}

		for i, r := range report.Employees {
			ids, err := s.attendanceRepo.PresetSupervisorConfirmation(ctx, r.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to repair records of %s: %w", r.EmployeeCode, err)
			}
			sort.Strings(ids)
			report.Employees[i].AttendanceIDs = ids
			report.Records += len(ids)
			if len(ids) == 0 {
				continue
			}

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate audit ID: %w", err)
			}
			employeeID := r.EmployeeID
			if _, err := s.auditRepo.Create(ctx, audit.Entry{
				ID:         id.String(),
				Action:     audit.ActionBypassRepair,
				ActorID:    actorID,
				EmployeeID: &employeeID,
				Details: map[string]interface{}{
					"attendance_ids": ids,
					"count":          len(ids),
					"trigger":        trigger,
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return BypassRepairReport{}, err
	}

	if report.Records > 0 {
		slog.Info("bypass flag repair", "trigger", trigger, "dry_run", dryRun, "employees", len(report.Employees), "records", report.Records)
	}
	return report, nil
}

func groupByEmployee(records []attendance.Attendance) []BypassRepair {
	index := make(map[string]int)
	var out []BypassRepair
	for _, rec := range records {
		i, ok := index[rec.EmployeeID]
		if !ok {
			code := rec.EmployeeID
			if rec.EmployeeCode != nil {
				code = *rec.EmployeeCode
			}
			index[rec.EmployeeID] = len(out)
			out = append(out, BypassRepair{EmployeeID: rec.EmployeeID, EmployeeCode: code})
			i = len(out) - 1
		}
		out[i].AttendanceIDs = append(out[i].AttendanceIDs, rec.ID)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EmployeeCode < out[b].EmployeeCode })
	return out
}

// TravelOverlapReport lists employee/dates covered by more than one travel
// request. Read-only; those records block approval until an administrator
// resolves them.
func (s *Service) TravelOverlapReport(ctx context.Context) ([]travel.OverlapConflict, error) {
	conflicts, err := s.travelRepo.ListOverlapConflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel overlaps: %w", err)
	}
	return conflicts, nil
}
