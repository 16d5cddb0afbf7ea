package approval

import (
	"testing"

	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
)

func TestPipelineFor(t *testing.T) {
	cases := map[employee.Designation]Pipeline{
		employee.DesignationMT:         PipelineTwoStage,
		employee.DesignationSupport:    PipelineTwoStage,
		employee.DesignationDC:         PipelineDirect,
		employee.DesignationAssociate:  PipelineDirect,
		employee.DesignationAdmin:      PipelineDirect,
		employee.Designation("Intern"): PipelineTwoStage,
	}
	for d, want := range cases {
		assert.Equal(t, want, PipelineFor(d), "designation %s", d)
	}
}

func TestBypassesSupervisor(t *testing.T) {
	assert.True(t, BypassesSupervisor(employee.DesignationDC))
	assert.True(t, BypassesSupervisor(employee.DesignationAssociate))
	assert.False(t, BypassesSupervisor(employee.DesignationMT))
	assert.False(t, BypassesSupervisor(employee.DesignationSupport))
}

func TestTravelGated(t *testing.T) {
	assert.True(t, TravelGated(StageSupervisorConfirm, employee.DesignationMT))
	assert.True(t, TravelGated(StageAdminApprove, employee.DesignationSupport))
	assert.False(t, TravelGated(StageSupervisorConfirm, employee.DesignationDC))
	assert.True(t, TravelGated(StageAdminApprove, employee.DesignationDC))
	assert.False(t, TravelGated(StageAdminApprove, employee.DesignationAssociate))
	assert.False(t, TravelGated(StageAdminApprove, employee.DesignationAdmin))
}
