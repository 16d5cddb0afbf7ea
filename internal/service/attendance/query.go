package attendance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/pkg/export"
	"github.com/satshine/satshine-backend/internal/pkg/utils"
)

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !actor.IsAdmin() && rec.EmployeeID != actor.EmployeeID {
		owner, err := s.employeeRepo.GetByID(ctx, rec.EmployeeID)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if owner.SupervisorID == nil || *owner.SupervisorID != actor.EmployeeID {
			return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
		}
	}

	return s.toResponse(rec), nil
}

// ListAttendance implements attendance.AttendanceService.
// Non-admin callers only see their own team.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.IsAdmin() {
		filter.SupervisorID = &actor.EmployeeID
	}

	return s.list(ctx, filter)
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, my attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter := my.ToFilter(actor.EmployeeID)
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter)
}

// PendingConfirmations implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PendingConfirmations(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	confirmed := false
	filter.Confirmed = &confirmed
	if !actor.IsAdmin() {
		filter.SupervisorID = &actor.EmployeeID
	}

	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, s.toResponse(rec))
	}

	totalPages, showing := paginate(total, filter.Page, filter.Limit)

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

var exportHeaders = []string{
	"Date", "Employee Code", "Employee Name", "Designation", "DCCB", "Status",
	"Check In", "Check Out", "Distance", "Confirmed", "Approved",
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, req attendance.ExportRequest) (attendance.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return attendance.ExportFile{}, err
	}

	rows, err := s.attendanceRepo.ListForExport(ctx, req)
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to load attendance for export: %w", err)
	}

	table := export.Table{
		Title:   "Attendance",
		Headers: exportHeaders,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		distance := ""
		if r.DistanceMeters != nil {
			distance = utils.FormatDistance(*r.DistanceMeters)
		}
		table.Rows = append(table.Rows, []string{
			r.Date.Format("2006-01-02"),
			r.EmployeeCode,
			r.EmployeeName,
			r.Designation,
			r.DCCB,
			string(r.Status),
			s.clockTime(r.CheckIn),
			s.clockTime(r.CheckOut),
			distance,
			strconv.FormatBool(r.ConfirmedBySupervisor),
			strconv.FormatBool(r.ApprovedByAdmin),
		})
	}

	file := attendance.ExportFile{
		Filename: fmt.Sprintf("attendance_%s_%s.%s", req.StartDate, req.EndDate, req.Format),
	}
	switch req.Format {
	case attendance.ExportFormatXLSX:
		file.ContentType = export.ContentTypeXLSX
		file.Content, err = export.XLSX(table)
	default:
		file.ContentType = export.ContentTypeCSV
		file.Content, err = export.CSV(table)
	}
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to render attendance export: %w", err)
	}

	return file, nil
}

func (s *AttendanceServiceImpl) clockTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.config.Location).Format("15:04")
}

func (s *AttendanceServiceImpl) timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.config.Location).Format("2006-01-02 15:04:05")
	return &formatted
}

func (s *AttendanceServiceImpl) toResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	var designation *string
	if rec.EmployeeDesignation != nil {
		d := string(*rec.EmployeeDesignation)
		designation = &d
	}

	var distance *string
	if rec.DistanceMeters != nil {
		d := utils.FormatDistance(*rec.DistanceMeters)
		distance = &d
	}

	return attendance.AttendanceResponse{
		ID:                    rec.ID,
		EmployeeID:            rec.EmployeeID,
		EmployeeName:          rec.EmployeeName,
		EmployeeCode:          rec.EmployeeCode,
		Designation:           designation,
		Date:                  rec.Date.Format("2006-01-02"),
		Status:                rec.Status,
		CheckIn:               s.timestamp(rec.CheckIn),
		CheckOut:              s.timestamp(rec.CheckOut),
		CheckInLatitude:       rec.CheckInLatitude,
		CheckInLongitude:      rec.CheckInLongitude,
		CheckOutLatitude:      rec.CheckOutLatitude,
		CheckOutLongitude:     rec.CheckOutLongitude,
		Distance:              distance,
		Remarks:               rec.Remarks,
		ConfirmedBySupervisor: rec.ConfirmedBySupervisor,
		ConfirmedBy:           rec.ConfirmedBy,
		ConfirmedAt:           s.timestamp(rec.ConfirmedAt),
		ApprovedByAdmin:       rec.ApprovedByAdmin,
		ApprovedBy:            rec.ApprovedBy,
		ApprovedAt:            s.timestamp(rec.ApprovedAt),
		CreatedAt:             rec.CreatedAt.In(s.config.Location).Format("2006-01-02 15:04:05"),
		UpdatedAt:             rec.UpdatedAt.In(s.config.Location).Format("2006-01-02 15:04:05"),
	}
}
