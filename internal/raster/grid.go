package raster

import "fmt"

// Grid is a dense row-major block of float64 samples, optionally carrying a
// NoData sentinel. It is the in-memory form of both full rasters and
// windowed reads.
type Grid struct {
	Rows, Cols int
	Data       []float64

	NoData    float64
	HasNoData bool
}

// NewGrid allocates a zeroed grid of the given shape.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the sample at (row, col). Panics if out of bounds, matching
// slice indexing semantics.
func (g *Grid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

// Set stores a sample at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

// IsNoData reports whether v equals the grid's NoData sentinel.
func (g *Grid) IsNoData(v float64) bool {
	return g.HasNoData && v == g.NoData
}

// SameShape reports whether two grids have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

// Window is a half-open pixel rectangle into a raster:
// rows [Row0, Row1), columns [Col0, Col1).
type Window struct {
	Row0, Row1 int
	Col0, Col1 int
}

// Rows returns the window height in pixels.
func (w Window) Rows() int { return w.Row1 - w.Row0 }

// Cols returns the window width in pixels.
func (w Window) Cols() int { return w.Col1 - w.Col0 }

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool { return w.Row0 >= w.Row1 || w.Col0 >= w.Col1 }

func (w Window) String() string {
	return fmt.Sprintf("rows [%d,%d) cols [%d,%d)", w.Row0, w.Row1, w.Col0, w.Col1)
}
