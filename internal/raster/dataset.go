package raster

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Dataset is a read-only geocoded raster. Implementations load samples into
// memory at open time; Close releases them and is safe to call on every exit
// path.
type Dataset interface {
	// Width and Height are the full raster dimensions in pixels.
	Width() int
	Height() int

	// Transform maps (col, row) to geographic coordinates.
	Transform() Affine

	// ReadWindow copies the samples covered by w into a new Grid.
	// The window must lie within the raster bounds.
	ReadWindow(w Window) (*Grid, error)

	Close() error
}

// Options adjusts how a dataset is opened.
type Options struct {
	// NoData marks a sample value to exclude from statistics. Only honored
	// when SetNoData is true; formats with an intrinsic NoData header
	// (ESRI ASCII) use their own value unless overridden here.
	NoData    float64
	SetNoData bool
}

// Open loads a raster file, picking the format from the file extension:
// .asc/.grd for ESRI ASCII grids, .tif/.tiff for TIFF with a world-file
// sidecar.
func Open(path string, opts Options) (Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc", ".grd":
		return OpenASCIIGrid(path, opts)
	case ".tif", ".tiff":
		return OpenTIFF(path, opts)
	default:
		return nil, eris.Errorf("raster: unsupported raster format %q", filepath.Ext(path))
	}
}

// gridDataset is the shared in-memory Dataset implementation behind both
// file formats.
type gridDataset struct {
	grid      *Grid
	transform Affine
	closed    bool
}

func (d *gridDataset) Width() int        { return d.grid.Cols }
func (d *gridDataset) Height() int       { return d.grid.Rows }
func (d *gridDataset) Transform() Affine { return d.transform }

func (d *gridDataset) ReadWindow(w Window) (*Grid, error) {
	if d.closed {
		return nil, eris.New("raster: read from closed dataset")
	}
	if w.Empty() {
		return nil, eris.Errorf("raster: empty window %s", w)
	}
	if w.Row0 < 0 || w.Col0 < 0 || w.Row1 > d.grid.Rows || w.Col1 > d.grid.Cols {
		return nil, eris.Errorf("raster: window %s outside raster %dx%d",
			w, d.grid.Cols, d.grid.Rows)
	}

	out := NewGrid(w.Rows(), w.Cols())
	out.NoData = d.grid.NoData
	out.HasNoData = d.grid.HasNoData
	for r := w.Row0; r < w.Row1; r++ {
		src := d.grid.Data[r*d.grid.Cols+w.Col0 : r*d.grid.Cols+w.Col1]
		copy(out.Data[(r-w.Row0)*out.Cols:], src)
	}
	return out, nil
}

func (d *gridDataset) Close() error {
	d.closed = true
	d.grid = nil
	return nil
}
