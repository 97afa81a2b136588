package zonal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

// testDataset writes a 10x10 ASCII grid over lon/lat (0,0)-(10,10), value
// 7 everywhere except a NoData stripe on the top row.
func testDataset(t *testing.T) raster.Dataset {
	t.Helper()

	content := "ncols 10\nnrows 10\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -9999\n"
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			v := "7"
			if r == 0 {
				v = "-9999"
			}
			if c > 0 {
				content += " "
			}
			content += v
		}
		content += "\n"
	}

	path := filepath.Join(t.TempDir(), "lights.asc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := raster.OpenASCIIGrid(path, raster.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func regionPolygon(t *testing.T, flat ...float64) *geom.MultiPolygon {
	t.Helper()
	p := geom.NewPolygon(geom.XY)
	require.NoError(t, p.Push(geom.NewLinearRingFlat(geom.XY, flat)))
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(p))
	return mp
}

func TestWindowAndMask(t *testing.T) {
	ds := testDataset(t)
	// Geographic square (2,2)-(6,6) is pixel rows 4..7, cols 2..5 on this
	// north-up grid.
	region := regionPolygon(t, 2, 2, 6, 2, 6, 6, 2, 6, 2, 2)

	w, mask, err := WindowAndMask(region, ds)
	require.NoError(t, err)

	assert.Equal(t, w.Rows(), mask.Rows)
	assert.Equal(t, w.Cols(), mask.Cols)
	assert.GreaterOrEqual(t, w.Cols(), 4)
	assert.GreaterOrEqual(t, w.Rows(), 4)

	var inside int
	for _, v := range mask.Data {
		if v == Inside {
			inside++
		}
	}
	assert.Equal(t, 16, inside)
}

func TestRegionStatistics_UniformRegion(t *testing.T) {
	ds := testDataset(t)
	region := regionPolygon(t, 2, 2, 6, 2, 6, 6, 2, 6, 2, 2)

	st, err := RegionStatistics(region, ds)
	require.NoError(t, err)

	assert.Equal(t, 16, st.Count)
	assert.Equal(t, 7.0, st.Min)
	assert.Equal(t, 7.0, st.Max)
	assert.Equal(t, 7.0, st.Mean)
	assert.Equal(t, 0.0, st.StdDev)
}

func TestRegionStatistics_NoDataExcluded(t *testing.T) {
	ds := testDataset(t)
	// Top geographic rows map to the NoData stripe at pixel row 0.
	region := regionPolygon(t, 2, 8, 6, 8, 6, 10, 2, 10, 2, 8)

	st, err := RegionStatistics(region, ds)
	require.NoError(t, err)

	// 4x2 window, top pixel row is NoData.
	assert.Equal(t, 4, st.Count)
	assert.Equal(t, 7.0, st.Mean)
}

func TestRegionStatistics_OutsideRaster(t *testing.T) {
	ds := testDataset(t)
	region := regionPolygon(t, 100, 100, 104, 100, 104, 104, 100, 104, 100, 100)

	_, err := RegionStatistics(region, ds)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateWindow)
}
