package raster

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

// writeTestTIFF encodes a 4x3 gray image whose value at (col, row) is
// 10*row+col, plus a world file anchored at (100, 41.5) with 0.5-degree
// cells.
func writeTestTIFF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.tif")

	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			img.Pix[r*img.Stride+c] = uint8(10*r + c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, img, nil))
	require.NoError(t, f.Close())

	// Center of the top-left pixel: corner (100, 41.5) plus half a cell.
	world := "0.5\n0.0\n0.0\n-0.5\n100.25\n41.25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lights.tfw"), []byte(world), 0o644))
	return path
}

func TestOpenTIFF(t *testing.T) {
	ds, err := OpenTIFF(writeTestTIFF(t), Options{})
	require.NoError(t, err)
	defer ds.Close()

	assert.Equal(t, 4, ds.Width())
	assert.Equal(t, 3, ds.Height())

	tr := ds.Transform()
	x, y := tr.Origin()
	assert.InDelta(t, 100.0, x, 1e-9)
	assert.InDelta(t, 41.5, y, 1e-9)

	g, err := ds.ReadWindow(Window{Row0: 0, Row1: 3, Col0: 0, Col1: 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.At(0, 0))
	assert.Equal(t, 3.0, g.At(0, 3))
	assert.Equal(t, 21.0, g.At(2, 1))
}

func TestOpenTIFF_Window(t *testing.T) {
	ds, err := OpenTIFF(writeTestTIFF(t), Options{})
	require.NoError(t, err)
	defer ds.Close()

	g, err := ds.ReadWindow(Window{Row0: 1, Row1: 3, Col0: 2, Col1: 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 13, 22, 23}, g.Data)
}

func TestOpenTIFF_NoDataOption(t *testing.T) {
	ds, err := OpenTIFF(writeTestTIFF(t), Options{NoData: 0, SetNoData: true})
	require.NoError(t, err)
	defer ds.Close()

	g, err := ds.ReadWindow(Window{Row0: 0, Row1: 1, Col0: 0, Col1: 1})
	require.NoError(t, err)
	assert.True(t, g.IsNoData(g.At(0, 0)))
}

func TestOpenTIFF_MissingWorldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.tif")

	img := image.NewGray(image.Rect(0, 0, 2, 2))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, img, nil))
	require.NoError(t, f.Close())

	_, err = OpenTIFF(path, Options{})
	require.Error(t, err)
}

func TestOpenTIFF_NotATIFF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.tif")
	require.NoError(t, os.WriteFile(path, []byte("not a tiff"), 0o644))
	world := "1\n0\n0\n-1\n0.5\n-0.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lights.tfw"), []byte(world), 0o644))

	_, err := OpenTIFF(path, Options{})
	require.Error(t, err)
}
