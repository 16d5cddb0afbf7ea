package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// MarkAttendance records today's status for the authenticated employee
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// CheckOut records the check-out time and location on today's record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// ConfirmAttendance applies supervisor confirmation, subject to the travel gate
	ConfirmAttendance(ctx context.Context, id string) (TransitionResponse, error)

	// ConfirmAbsent marks an unmarked day absent and confirms it in one step
	ConfirmAbsent(ctx context.Context, req ConfirmAbsentRequest) (TransitionResponse, error)

	// ApproveAttendance applies admin approval, subject to the travel gate
	ApproveAttendance(ctx context.Context, id string) (TransitionResponse, error)

	// BulkApprove approves many records in one transaction and reports each outcome
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkApproveResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// PendingConfirmations lists the acting DC's team records awaiting confirmation
	PendingConfirmations(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Export renders attendance for a date range as CSV or XLSX
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
