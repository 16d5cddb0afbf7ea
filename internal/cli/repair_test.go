package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/satshine/satshine-backend/internal/domain/attendance"
	"github.com/satshine/satshine-backend/internal/domain/travel"
	"github.com/satshine/satshine-backend/internal/service/maintenance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepairer struct {
	report maintenance.BypassRepairReport
	dryRun bool
}

func (f *fakeRepairer) RepairBypassFlags(_ context.Context, dryRun bool) (maintenance.BypassRepairReport, error) {
	f.dryRun = dryRun
	r := f.report
	r.DryRun = dryRun
	return r, nil
}

type fakeReporter []travel.OverlapConflict

func (f fakeReporter) TravelOverlapReport(context.Context) ([]travel.OverlapConflict, error) {
	return f, nil
}

func sampleReport() maintenance.BypassRepairReport {
	return maintenance.BypassRepairReport{
		Employees: []maintenance.BypassRepair{
			{EmployeeID: "e1", EmployeeCode: "DC-0001", AttendanceIDs: []string{"a1", "a2"}},
		},
		Records: 2,
	}
}

func TestRunRepairBypass_Text(t *testing.T) {
	repairer := &fakeRepairer{report: sampleReport()}
	var out bytes.Buffer

	err := runRepairBypass(context.Background(), &out, &RootOptions{Format: "text"}, repairer, true)
	require.NoError(t, err)

	assert.True(t, repairer.dryRun)
	assert.Contains(t, out.String(), "DC-0001: 2 record(s)")
	assert.Contains(t, out.String(), "would repair 2 record(s) for 1 employee(s)")
}

func TestRunRepairBypass_JSON(t *testing.T) {
	repairer := &fakeRepairer{report: sampleReport()}
	var out bytes.Buffer

	err := runRepairBypass(context.Background(), &out, &RootOptions{Format: "json"}, repairer, false)
	require.NoError(t, err)

	var got maintenance.BypassRepairReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.DryRun)
	assert.Equal(t, 2, got.Records)
	assert.Equal(t, []string{"a1", "a2"}, got.Employees[0].AttendanceIDs)
}

func TestRunOverlapReport(t *testing.T) {
	reporter := fakeReporter{{
		EmployeeID:       "e1",
		EmployeeCode:     "MT-0101",
		Date:             time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TravelRequestIDs: []string{"t1", "t2"},
	}}

	var text bytes.Buffer
	require.NoError(t, runOverlapReport(context.Background(), &text, &RootOptions{Format: "text"}, reporter))
	assert.Equal(t, "MT-0101 2026-03-10: [t1 t2]\n", text.String())

	var js bytes.Buffer
	require.NoError(t, runOverlapReport(context.Background(), &js, &RootOptions{Format: "json"}, reporter))
	var rows []travel.OverlapConflictResponse
	require.NoError(t, json.Unmarshal(js.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-03-10", rows[0].Date)
}

func TestRunOverlapReport_EmptyJSONIsArray(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runOverlapReport(context.Background(), &out, &RootOptions{Format: "json"}, fakeReporter(nil)))
	assert.JSONEq(t, "[]", out.String())
}

type fakeExporter struct {
	file attendance.ExportFile
	err  error
}

func (f fakeExporter) Export(context.Context, attendance.ExportRequest) (attendance.ExportFile, error) {
	return f.file, f.err
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.csv")
	exporter := fakeExporter{file: attendance.ExportFile{Filename: "attendance.csv", Content: []byte("date\n")}}

	path, err := runExport(context.Background(), exporter, attendance.ExportRequest{}, target)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "date\n", string(data))
}

func TestRunExport_ServiceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := runExport(context.Background(), fakeExporter{err: boom}, attendance.ExportRequest{}, filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorIs(t, err, boom)
}
