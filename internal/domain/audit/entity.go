package audit

import (
	"time"
)

type Action string

const (
	ActionSupervisorConfirm  Action = "supervisor_confirm"
	ActionAdminApprove       Action = "admin_approve"
	ActionConfirmBlocked     Action = "confirm_blocked"
	ActionApproveBlocked     Action = "approve_blocked"
	ActionMarkAbsent         Action = "mark_absent"
	ActionTravelCreate       Action = "travel_create"
	ActionTravelDecide       Action = "travel_decide"
	ActionBypassRepair       Action = "bypass_repair"
	ActionEmployeeDeactivate Action = "employee_deactivate"
	ActionDesignationChange  Action = "designation_change"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionSupervisorConfirm, ActionAdminApprove, ActionConfirmBlocked, ActionApproveBlocked,
		ActionMarkAbsent, ActionTravelCreate, ActionTravelDecide, ActionBypassRepair,
		ActionEmployeeDeactivate, ActionDesignationChange:
		return true
	}
	return false
}

// Entry is immutable once written.
type Entry struct {
	ID              string
	Action          Action
	ActorID         *string
	AttendanceID    *string
	TravelRequestID *string
	EmployeeID      *string
	Reason          *string
	Details         map[string]interface{}
	CreatedAt       time.Time

	// DTO
	ActorName *string
}
