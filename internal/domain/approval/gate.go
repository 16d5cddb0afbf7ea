package approval

import (
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/domain/travel"
)

// Stage is a transition an approver can request on an attendance record.
type Stage string

const (
	StageSupervisorConfirm Stage = "supervisor_confirm"
	StageAdminApprove      Stage = "admin_approve"
)

func (s Stage) IsValid() bool {
	return s == StageSupervisorConfirm || s == StageAdminApprove
}

type Outcome string

const (
	OutcomePermitted   Outcome = "permitted"
	OutcomeAlreadyDone Outcome = "already_done"
	OutcomeBlocked     Outcome = "blocked"
)

// Subject is the slice of an attendance record the gate reads.
type Subject struct {
	Designation employee.Designation
	// OnDuty is true when the record is marked present or half-day.
	OnDuty                bool
	ConfirmedBySupervisor bool
	ApprovedByAdmin       bool
}

type Decision struct {
	Outcome Outcome
	// Err is set only when Outcome is OutcomeBlocked.
	Err error
	// TravelRequestIDs lists the overlapping requests that caused a block.
	TravelRequestIDs []string
}

func (d Decision) Permitted() bool {
	return d.Outcome == OutcomePermitted
}

func (d Decision) Blocked() bool {
	return d.Outcome == OutcomeBlocked
}

// Reason is the human readable block reason, empty unless blocked.
func (d Decision) Reason() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}

// Evaluate decides whether stage may be applied to the record described by s,
// given every travel request of the owner that covers the record's date.
// It performs no I/O.
func Evaluate(stage Stage, s Subject, overlapping []travel.TravelRequest) Decision {
	switch stage {
	case StageSupervisorConfirm:
		if s.ConfirmedBySupervisor || BypassesSupervisor(s.Designation) {
			return Decision{Outcome: OutcomeAlreadyDone}
		}
	case StageAdminApprove:
		if s.ApprovedByAdmin {
			return Decision{Outcome: OutcomeAlreadyDone}
		}
		if PipelineFor(s.Designation) == PipelineTwoStage && !s.ConfirmedBySupervisor {
			return blocked(ErrAwaitingConfirmation, nil)
		}
	default:
		return blocked(ErrUnknownStage, nil)
	}

	// Absent and unmarked days never depend on travel.
	if !s.OnDuty {
		return Decision{Outcome: OutcomePermitted}
	}
	if !TravelGated(stage, s.Designation) {
		return Decision{Outcome: OutcomePermitted}
	}

	switch len(overlapping) {
	case 0:
		return Decision{Outcome: OutcomePermitted}
	case 1:
		if overlapping[0].Status == travel.StatusPending {
			return blocked(ErrTravelApprovalPending, overlapping)
		}
		return Decision{Outcome: OutcomePermitted}
	default:
		return blocked(ErrTravelDataIntegrity, overlapping)
	}
}

func blocked(err error, overlapping []travel.TravelRequest) Decision {
	d := Decision{Outcome: OutcomeBlocked, Err: err}
	for _, tr := range overlapping {
		d.TravelRequestIDs = append(d.TravelRequestIDs, tr.ID)
	}
	return d
}
