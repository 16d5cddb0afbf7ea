package export

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Title:   "Attendance",
		Headers: []string{"date", "employee_code", "employee_name", "status", "remarks"},
		Rows: [][]string{
			{"2026-03-02", "SAT-0142", "Ravi Kumar", "present", ""},
			{"2026-03-02", "SAT-0177", "Meena, R.", "half_day", "left early \"clinic\""},
			{"2026-03-03", "SAT-0142", "Ravi Kumar", "absent", ""},
		},
	}
}

func TestCSV_Golden(t *testing.T) {
	out, err := CSV(sampleTable())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "attendance_csv", out)
}

func TestCSV_RejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only-one"})

	_, err := CSV(table)
	assert.Error(t, err)
}

func TestXLSX_RoundTrip(t *testing.T) {
	out, err := XLSX(sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance"}, f.GetSheetList())

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, sampleTable().Headers, rows[0])
	assert.Equal(t, "Meena, R.", rows[2][2])
}

func TestXLSX_RequiresHeaders(t *testing.T) {
	_, err := XLSX(Table{})
	assert.Error(t, err)
}
