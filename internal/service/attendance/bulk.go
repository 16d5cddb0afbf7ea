package attendance

import (
	"context"
	"errors"
	"slices"

	"github.com/satshine/satshine-backend/internal/domain/approval"
	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
)

type approvedRecord struct {
	rec   attendance.Attendance
	owner employee.Employee
}

// BulkApprove implements attendance.AttendanceService.
// Rows are locked in ID order; results follow the request order.
func (s *AttendanceServiceImpl) BulkApprove(ctx context.Context, req attendance.BulkApproveRequest) (attendance.BulkApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkApproveResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.BulkApproveResponse{}, err
	}
	if !actor.IsAdmin() {
		return attendance.BulkApproveResponse{}, attendance.ErrAdminRequired
	}

	ordered := slices.Clone(req.AttendanceIDs)
	slices.Sort(ordered)

	var (
		items    map[string]attendance.BulkApproveItem
		approved []approvedRecord
	)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		items = make(map[string]attendance.BulkApproveItem, len(ordered))
		approved = approved[:0]
		owners := make(map[string]employee.Employee)

		for _, id := range ordered {
			item := attendance.BulkApproveItem{AttendanceID: id}

			rec, err := s.attendanceRepo.GetByIDForUpdate(ctx, id)
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				item.Result = attendance.BulkResultNotFound
				items[id] = item
				continue
			}
			if err != nil {
				return err
			}

			owner, ok := owners[rec.EmployeeID]
			if !ok {
				owner, err = s.employeeRepo.GetByID(ctx, rec.EmployeeID)
				if err != nil {
					return err
				}
				owners[rec.EmployeeID] = owner
			}

			decision, err := s.apply(ctx, approval.StageAdminApprove, actor, &rec, owner)
			if err != nil {
				return err
			}

			switch decision.Outcome {
			case approval.OutcomeAlreadyDone:
				item.Result = attendance.BulkResultAlreadyApproved
			case approval.OutcomeBlocked:
				item.Result = attendance.BulkResultBlocked
				item.Reason = decision.Reason()
				item.TravelRequestIDs = decision.TravelRequestIDs
			case approval.OutcomePermitted:
				item.Result = attendance.BulkResultApproved
				approved = append(approved, approvedRecord{rec: rec, owner: owner})
			}
			items[id] = item
		}
		return nil
	})
	if err != nil {
		return attendance.BulkApproveResponse{}, err
	}

	resp := attendance.BulkApproveResponse{
		Results: make([]attendance.BulkApproveItem, 0, len(req.AttendanceIDs)),
	}
	for _, id := range req.AttendanceIDs {
		item := items[id]
		switch item.Result {
		case attendance.BulkResultApproved:
			resp.Approved++
		case attendance.BulkResultAlreadyApproved:
			resp.AlreadyApproved++
		case attendance.BulkResultBlocked:
			resp.Blocked++
		case attendance.BulkResultNotFound:
			resp.NotFound++
		}
		resp.Results = append(resp.Results, item)
	}

	for _, a := range approved {
		s.notify(ctx, actor, a.owner, a.rec, notificationTypeFor(approval.StageAdminApprove))
	}

	return resp, nil
}
