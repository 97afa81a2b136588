package zonal

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

// Mask polarity convention: RasterizeMask writes Inside into covered cells
// and Background everywhere else. MaskedStats treats non-zero mask cells as
// included, so the default Inside=1/Background=0 feeds straight through;
// callers wanting the inverted polarity must also invert their inclusion
// arithmetic.
const (
	Inside     = 1.0
	Background = 0.0
)

// Shape pairs a polygonal geometry with the value to burn into covered
// cells. Shapes are painted in order, so later shapes win on overlap.
type Shape struct {
	Geometry geom.T
	Value    float64
}

// RasterizeMask burns the shapes into a rows x cols grid whose pixel space
// is defined by the local affine transform. A cell is covered when its
// centroid falls inside the geometry (even-odd rule, so interior rings make
// holes). Cells covered by no shape hold background.
func RasterizeMask(shapes []Shape, rows, cols int, local raster.Affine, background float64) (*raster.Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, eris.Errorf("zonal: rasterize into degenerate shape %dx%d", rows, cols)
	}

	inv, err := local.Invert()
	if err != nil {
		return nil, err
	}

	grid := raster.NewGrid(rows, cols)
	if background != 0 {
		for i := range grid.Data {
			grid.Data[i] = background
		}
	}

	for _, s := range shapes {
		polys, err := polygonsOf(s.Geometry)
		if err != nil {
			return nil, err
		}
		for _, p := range polys {
			fillPolygon(grid, p, inv, s.Value)
		}
	}
	return grid, nil
}

// polygonsOf flattens a geometry into its component polygons.
func polygonsOf(g geom.T) ([]*geom.Polygon, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}, nil
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys, nil
	default:
		return nil, eris.Errorf("zonal: cannot rasterize geometry type %T", g)
	}
}

// fillPolygon scanline-fills one polygon. All rings participate in a single
// even-odd crossing count per row, which carves interior rings out as holes.
func fillPolygon(grid *raster.Grid, p *geom.Polygon, inv raster.Affine, value float64) {
	rings := make([][]float64, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := p.LinearRing(i)
		flat := ring.FlatCoords()
		stride := ring.Stride()
		px := make([]float64, 0, 2*len(flat)/stride)
		for j := 0; j+1 < len(flat); j += stride {
			col, row := inv.Apply(flat[j], flat[j+1])
			px = append(px, col, row)
		}
		if len(px) >= 6 {
			rings = append(rings, px)
		}
	}
	if len(rings) == 0 {
		return
	}

	var xs []float64
	for r := 0; r < grid.Rows; r++ {
		y := float64(r) + 0.5
		xs = xs[:0]
		for _, ring := range rings {
			xs = appendCrossings(xs, ring, y)
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			// Cell centroids at c+0.5 strictly between the crossing pair.
			c0 := int(math.Ceil(xs[i] - 0.5))
			c1 := int(math.Ceil(xs[i+1]-0.5)) - 1
			c0 = max(c0, 0)
			c1 = min(c1, grid.Cols-1)
			for c := c0; c <= c1; c++ {
				grid.Set(r, c, value)
			}
		}
	}
}

// appendCrossings adds the x coordinates where the ring crosses the
// horizontal line at y. The half-open endpoint test keeps vertices from
// counting twice.
func appendCrossings(xs []float64, ring []float64, y float64) []float64 {
	n := len(ring) / 2
	for i := 0; i < n; i++ {
		x1, y1 := ring[2*i], ring[2*i+1]
		x2, y2 := ring[(2*i+2)%len(ring)], ring[(2*i+3)%len(ring)]
		if (y1 > y) == (y2 > y) {
			continue
		}
		xs = append(xs, x1+(y-y1)*(x2-x1)/(y2-y1))
	}
	return xs
}
