package attendance

import (
	"time"

	"github.com/satshine/satshine-backend/internal/domain/approval"
	"github.com/satshine/satshine-backend/internal/domain/employee"
)

type Status string

const (
	StatusPresent  Status = "present"
	StatusHalfDay  Status = "half_day"
	StatusAbsent   Status = "absent"
	StatusUnmarked Status = "unmarked"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusHalfDay, StatusAbsent, StatusUnmarked:
		return true
	}
	return false
}

// OnDuty reports whether the status can depend on a travel request.
func (s Status) OnDuty() bool {
	return s == StatusPresent || s == StatusHalfDay
}

type Attendance struct {
	ID                    string
	EmployeeID            string
	Date                  time.Time
	Status                Status
	CheckIn               *time.Time
	CheckOut              *time.Time
	CheckInLatitude       *float64
	CheckInLongitude      *float64
	CheckOutLatitude      *float64
	CheckOutLongitude     *float64
	DistanceMeters        *float64
	Remarks               *string
	ConfirmedBySupervisor bool
	ConfirmedBy           *string
	ConfirmedAt           *time.Time
	ApprovedByAdmin       bool
	ApprovedBy            *string
	ApprovedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// DTO
	EmployeeName        *string
	EmployeeCode        *string
	EmployeeDesignation *employee.Designation
	EmployeeDCCB        *string
}

// EnforceBypass presets supervisor confirmation for designations that skip it.
// Every service write of a whole row goes through this. Check-out writes only
// its own columns and relies on the bypass trigger.
func (a *Attendance) EnforceBypass(d employee.Designation) {
	if approval.BypassesSupervisor(d) {
		a.ConfirmedBySupervisor = true
	}
}

// ResetApprovals clears both approval stages. A record whose status changes
// has to pass the gate again.
func (a *Attendance) ResetApprovals() {
	a.ConfirmedBySupervisor = false
	a.ConfirmedBy = nil
	a.ConfirmedAt = nil
	a.ApprovedByAdmin = false
	a.ApprovedBy = nil
	a.ApprovedAt = nil
}

// Subject projects the record onto what the approval gate reads.
func (a Attendance) Subject(d employee.Designation) approval.Subject {
	return approval.Subject{
		Designation:           d,
		OnDuty:                a.Status.OnDuty(),
		ConfirmedBySupervisor: a.ConfirmedBySupervisor || approval.BypassesSupervisor(d),
		ApprovedByAdmin:       a.ApprovedByAdmin,
	}
}

// Apply records a permitted transition at stage by approverID.
func (a *Attendance) Apply(stage approval.Stage, approverID string, at time.Time) {
	switch stage {
	case approval.StageSupervisorConfirm:
		a.ConfirmedBySupervisor = true
		a.ConfirmedBy = &approverID
		a.ConfirmedAt = &at
	case approval.StageAdminApprove:
		a.ApprovedByAdmin = true
		a.ApprovedBy = &approverID
		a.ApprovedAt = &at
	}
}
