package boundary

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartsToMultiPolygon(t *testing.T) {
	// Two parts: an outer square and a detached island.
	poly := &shp.Polygon{
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0},
			{X: 10, Y: 10}, {X: 12, Y: 10}, {X: 12, Y: 12}, {X: 10, Y: 12}, {X: 10, Y: 10},
		},
	}

	mp := partsToMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, 2, mp.NumPolygons())
	assert.Equal(t, 4326, mp.SRID())

	b := mp.Bounds()
	assert.Equal(t, 0.0, b.Min(0))
	assert.Equal(t, 12.0, b.Max(0))
	assert.Equal(t, 12.0, b.Max(1))
}

func TestPartsToMultiPolygon_SinglePart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: -74.03, Y: 40.68}, {X: -73.90, Y: 40.68},
			{X: -73.90, Y: 40.88}, {X: -74.03, Y: 40.88},
			{X: -74.03, Y: 40.68},
		},
	}

	mp := partsToMultiPolygon(poly)
	require.NotNil(t, mp)
	require.Equal(t, 1, mp.NumPolygons())
	assert.Equal(t, 1, mp.Polygon(0).NumLinearRings())
}

func TestPartsToMultiPolygon_NoParts(t *testing.T) {
	assert.Nil(t, partsToMultiPolygon(&shp.Polygon{}))
}

func TestLoadShapefile_MissingFile(t *testing.T) {
	_, err := LoadShapefile(filepath.Join(t.TempDir(), "absent.shp"))
	require.Error(t, err)
}
