package approval

import (
	"github.com/satshine/satshine-backend/internal/domain/employee"
)

// Pipeline is the approval path an attendance record follows.
type Pipeline string

const (
	// PipelineDirect goes straight to admin approval; supervisor confirmation is preset.
	PipelineDirect Pipeline = "direct"
	// PipelineTwoStage requires supervisor confirmation before admin approval.
	PipelineTwoStage Pipeline = "two_stage"
)

// PipelineFor returns the pipeline for a designation. Unknown designations
// take the stricter two-stage path.
func PipelineFor(d employee.Designation) Pipeline {
	switch d {
	case employee.DesignationAssociate, employee.DesignationDC, employee.DesignationAdmin:
		return PipelineDirect
	default:
		return PipelineTwoStage
	}
}

// BypassesSupervisor reports whether records owned by d must always carry
// confirmed_by_supervisor = true.
func BypassesSupervisor(d employee.Designation) bool {
	return PipelineFor(d) == PipelineDirect
}

// TravelGated reports whether a transition at stage depends on the travel
// request covering the record's date. MT and Support are gated at both
// stages, DC only at admin approval.
func TravelGated(stage Stage, d employee.Designation) bool {
	switch d {
	case employee.DesignationMT, employee.DesignationSupport:
		return true
	case employee.DesignationDC:
		return stage == StageAdminApprove
	case employee.DesignationAssociate, employee.DesignationAdmin:
		return false
	default:
		return true
	}
}
