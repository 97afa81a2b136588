// Package zonal computes summary statistics for the raster pixels enclosed
// by a vector polygon: it resolves a geographic bounding box to a pixel
// window, rasterizes the polygon into a mask over that window, and
// aggregates the masked samples.
package zonal

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

// ErrDegenerateWindow is returned when a bounding box resolves to a pixel
// window with zero area, e.g. a polygon entirely outside the raster extent.
var ErrDegenerateWindow = eris.New("zonal: degenerate pixel window")

// WindowFromBounds resolves a geographic bounding box to the integer pixel
// window covering it on a raster of the given transform and dimensions.
//
// All four box corners are pushed through the inverse transform and the
// window is rounded outward (floor of the minimum, floor+1 of the maximum)
// so fractional pixel offsets never shrink the covered geography. Top/bottom
// and left/right are assigned by comparing computed values rather than
// assuming an axis orientation: north-up rasters have a negative row scale,
// so the row computed from latMin is the larger one. The result is clipped
// to the raster; ErrDegenerateWindow is returned if nothing remains.
func WindowFromBounds(xMin, yMin, xMax, yMax float64, tr raster.Affine, width, height int) (raster.Window, error) {
	inv, err := tr.Invert()
	if err != nil {
		return raster.Window{}, err
	}

	colMin, colMax := math.Inf(1), math.Inf(-1)
	rowMin, rowMax := math.Inf(1), math.Inf(-1)
	for _, corner := range [4][2]float64{
		{xMin, yMin}, {xMin, yMax}, {xMax, yMin}, {xMax, yMax},
	} {
		col, row := inv.Apply(corner[0], corner[1])
		colMin = math.Min(colMin, col)
		colMax = math.Max(colMax, col)
		rowMin = math.Min(rowMin, row)
		rowMax = math.Max(rowMax, row)
	}

	w := raster.Window{
		Col0: int(math.Floor(colMin)),
		Col1: int(math.Floor(colMax)) + 1,
		Row0: int(math.Floor(rowMin)),
		Row1: int(math.Floor(rowMax)) + 1,
	}

	// Clip to raster bounds.
	w.Col0 = max(w.Col0, 0)
	w.Row0 = max(w.Row0, 0)
	w.Col1 = min(w.Col1, width)
	w.Row1 = min(w.Row1, height)

	if w.Empty() {
		return raster.Window{}, eris.Wrapf(ErrDegenerateWindow,
			"bounds (%g,%g)-(%g,%g) on %dx%d raster", xMin, yMin, xMax, yMax, width, height)
	}
	return w, nil
}

// LocalTransform derives the transform of the windowed sub-raster. Scale and
// rotation are copied from src unchanged; only the translation is
// re-anchored, to the window's own top-left corner.
func LocalTransform(src raster.Affine, w raster.Window) raster.Affine {
	x0, y0 := src.Apply(float64(w.Col0), float64(w.Row0))
	return raster.Affine{x0, src[1], src[2], y0, src[4], src[5]}
}
