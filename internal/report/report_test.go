package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

func sampleRows() []Row {
	return []Row{
		{
			StateFIPS: "36", State: "New York", Region: "New York",
			Stats: zonal.Stats{Min: 1, Max: 63, Mean: 41.5, StdDev: 12.25, Count: 1600},
		},
		{
			StateFIPS: "36", State: "New York", Region: "Hamilton",
			Err: "zonal: degenerate pixel window",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"state_fips", "state", "region", "min", "max", "mean", "stddev", "count", "error"}, records[0])
	assert.Equal(t, []string{"36", "New York", "New York", "1", "63", "41.5", "12.25", "1600", ""}, records[1])

	// Failed regions carry the error message and no numbers.
	assert.Equal(t, "Hamilton", records[2][2])
	assert.Empty(t, records[2][3])
	assert.Equal(t, "zonal: degenerate pixel window", records[2][8])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.xlsx")
	require.NoError(t, WriteXLSX(path, sampleRows()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Statistics", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "state_fips", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "New York", sheet.Rows[1].Cells[2].String())

	mean, err := sheet.Rows[1].Cells[5].Float()
	require.NoError(t, err)
	assert.InDelta(t, 41.5, mean, 1e-9)

	assert.Equal(t, "1600", sheet.Rows[1].Cells[7].String())
	assert.Equal(t, "zonal: degenerate pixel window", sheet.Rows[2].Cells[8].String())
}
