// Package raster provides read-only access to geocoded raster grids: an
// affine pixel-to-geographic transform, windowed reads, and loaders for
// ESRI ASCII grids and TIFF images with world-file sidecars.
package raster

import (
	"math"

	"github.com/rotisserie/eris"
)

// Affine is a six-coefficient geotransform in GDAL coefficient order:
//
//	x = t[0] + col*t[1] + row*t[2]
//	y = t[3] + col*t[4] + row*t[5]
//
// t[0], t[3] are the geographic coordinates of the top-left corner of the
// top-left pixel. For axis-aligned, non-rotated imagery t[2] = t[4] = 0,
// and north-up imagery has t[5] < 0.
type Affine [6]float64

// Apply maps fractional pixel coordinates to geographic coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return x, y
}

// Invert returns the inverse transform, mapping geographic coordinates back
// to fractional pixel coordinates. Returns an error for singular transforms
// (zero pixel area).
func (a Affine) Invert() (Affine, error) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 || math.IsNaN(det) {
		return Affine{}, eris.New("raster: affine transform is not invertible")
	}

	inv := Affine{
		0, a[5] / det, -a[2] / det,
		0, -a[4] / det, a[1] / det,
	}
	// Translation terms so that inv.Apply(x, y) yields (col, row).
	inv[0] = -(a[0]*inv[1] + a[3]*inv[2])
	inv[3] = -(a[0]*inv[4] + a[3]*inv[5])
	return inv, nil
}

// Origin returns the geographic coordinates of the raster's top-left corner.
func (a Affine) Origin() (x, y float64) { return a[0], a[3] }

// PixelWidth returns the column-direction scale coefficient.
func (a Affine) PixelWidth() float64 { return a[1] }

// PixelHeight returns the row-direction scale coefficient. Negative for
// north-up imagery.
func (a Affine) PixelHeight() float64 { return a[5] }

// AxisAligned reports whether the transform has no rotation terms.
func (a Affine) AxisAligned() bool { return a[2] == 0 && a[4] == 0 }
