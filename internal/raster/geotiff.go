package raster

import (
	"image"
	"image/color"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/image/tiff"
)

// OpenTIFF reads a single-band TIFF raster. The affine transform comes from
// a world-file sidecar (.tfw/.wld); multi-band images are reduced to their
// gray value. NoData must be supplied through Options since baseline TIFF
// carries none.
func OpenTIFF(path string, opts Options) (Dataset, error) {
	transform, err := ReadWorldFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open tiff %s", path)
	}
	defer func() { _ = f.Close() }()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: decode tiff %s", path)
	}

	b := img.Bounds()
	grid := NewGrid(b.Dy(), b.Dx())
	if opts.SetNoData {
		grid.NoData = opts.NoData
		grid.HasNoData = true
	}

	switch im := img.(type) {
	case *image.Gray:
		for r := 0; r < grid.Rows; r++ {
			row := im.Pix[r*im.Stride : r*im.Stride+grid.Cols]
			for c, v := range row {
				grid.Data[r*grid.Cols+c] = float64(v)
			}
		}
	case *image.Gray16:
		for r := 0; r < grid.Rows; r++ {
			for c := 0; c < grid.Cols; c++ {
				o := r*im.Stride + c*2
				grid.Data[r*grid.Cols+c] = float64(uint16(im.Pix[o])<<8 | uint16(im.Pix[o+1]))
			}
		}
	default:
		for r := 0; r < grid.Rows; r++ {
			for c := 0; c < grid.Cols; c++ {
				gray := color.Gray16Model.Convert(img.At(b.Min.X+c, b.Min.Y+r)).(color.Gray16)
				grid.Data[r*grid.Cols+c] = float64(gray.Y)
			}
		}
	}

	return &gridDataset{grid: grid, transform: transform}, nil
}
