package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeLookup map[string]employee.Employee

func (l codeLookup) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	emp, ok := l[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type regionWriter struct {
	calls []employee.UpsertApproverRegionRequest
	admin bool
}

func (w *regionWriter) UpsertApproverRegion(ctx context.Context, req employee.UpsertApproverRegionRequest) (employee.ApproverRegionResponse, error) {
	actor, err := auth.ActorFromContext(ctx)
	w.admin = err == nil && actor.IsAdmin()
	w.calls = append(w.calls, req)
	return employee.ApproverRegionResponse{}, nil
}

func TestParseApproverSeed(t *testing.T) {
	seed, err := ParseApproverSeed(strings.NewReader(`
regions:
  - dccb: knr
    approver: AS-0001
  - dccb: WGL
    approver: " AS-0002 "
`))
	require.NoError(t, err)
	assert.Equal(t, []ApproverSeedEntry{
		{DCCB: "KNR", Approver: "AS-0001"},
		{DCCB: "WGL", Approver: "AS-0002"},
	}, seed.Regions)
}

func TestParseApproverSeed_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty"},
		{"unknown field", "regions:\n  - dccb: KNR\n    approver: AS-0001\n    region: x\n", "decode"},
		{"missing approver", "regions:\n  - dccb: KNR\n", "required"},
		{"duplicate", "regions:\n  - dccb: KNR\n    approver: A\n  - dccb: knr\n    approver: B\n", "duplicate dccb KNR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseApproverSeed(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyApproverSeed(t *testing.T) {
	lookup := codeLookup{
		"AS-0001": {ID: "emp-1", EmployeeCode: "AS-0001"},
		"AS-0002": {ID: "emp-2", EmployeeCode: "AS-0002"},
	}
	writer := &regionWriter{}
	seed := ApproverSeed{Regions: []ApproverSeedEntry{
		{DCCB: "KNR", Approver: "AS-0001"},
		{DCCB: "WGL", Approver: "AS-0002"},
	}}

	results, err := ApplyApproverSeed(asOperator(context.Background()), lookup, writer, seed)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "emp-2", results[1].ApproverID)
	assert.Equal(t, []employee.UpsertApproverRegionRequest{
		{DCCB: "KNR", ApproverID: "emp-1"},
		{DCCB: "WGL", ApproverID: "emp-2"},
	}, writer.calls)
	assert.True(t, writer.admin)
}

func TestApplyApproverSeed_StopsAtUnknownApprover(t *testing.T) {
	lookup := codeLookup{"AS-0001": {ID: "emp-1"}}
	writer := &regionWriter{}
	seed := ApproverSeed{Regions: []ApproverSeedEntry{
		{DCCB: "KNR", Approver: "AS-0001"},
		{DCCB: "WGL", Approver: "AS-9999"},
		{DCCB: "HYD", Approver: "AS-0001"},
	}}

	results, err := ApplyApproverSeed(context.Background(), lookup, writer, seed)
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Len(t, results, 1)
	assert.Len(t, writer.calls, 1)
}
