package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffine_Apply(t *testing.T) {
	// DMSP-style global grid.
	a := Affine{-180, 0.004, 0, 75, 0, -0.004}

	x, y := a.Apply(0, 0)
	assert.Equal(t, -180.0, x)
	assert.Equal(t, 75.0, y)

	x, y = a.Apply(90000, 37500)
	assert.InDelta(t, 180, x, 1e-9)
	assert.InDelta(t, -75, y, 1e-9)
}

func TestAffine_InvertRoundTrip(t *testing.T) {
	a := Affine{-180, 0.004, 0, 75, 0, -0.004}
	inv, err := a.Invert()
	require.NoError(t, err)

	for _, px := range [][2]float64{{0, 0}, {26492.5, 8530.25}, {90000, 37500}} {
		x, y := a.Apply(px[0], px[1])
		col, row := inv.Apply(x, y)
		assert.InDelta(t, px[0], col, 1e-6)
		assert.InDelta(t, px[1], row, 1e-6)
	}
}

func TestAffine_InvertRotated(t *testing.T) {
	a := Affine{10, 2, 0.5, 20, -0.25, -3}
	inv, err := a.Invert()
	require.NoError(t, err)

	x, y := a.Apply(7, 11)
	col, row := inv.Apply(x, y)
	assert.InDelta(t, 7, col, 1e-9)
	assert.InDelta(t, 11, row, 1e-9)
}

func TestAffine_InvertSingular(t *testing.T) {
	_, err := Affine{0, 0, 0, 0, 0, 0}.Invert()
	require.Error(t, err)

	_, err = Affine{5, 1, 2, 9, 2, 4}.Invert() // rows are linearly dependent
	require.Error(t, err)
}

func TestAffine_Accessors(t *testing.T) {
	a := Affine{-180, 0.004, 0, 75, 0, -0.004}
	x, y := a.Origin()
	assert.Equal(t, -180.0, x)
	assert.Equal(t, 75.0, y)
	assert.Equal(t, 0.004, a.PixelWidth())
	assert.Equal(t, -0.004, a.PixelHeight())
	assert.True(t, a.AxisAligned())
	assert.False(t, Affine{0, 1, 0.1, 0, 0, 1}.AxisAligned())
}
