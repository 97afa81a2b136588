package raster

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadWorldFile locates and parses the world-file sidecar for an image.
// For image.tif it tries image.tfw, image.wld, then image.tifw.
//
// A world file holds six lines (A, D, B, E, C, F) defining
// x = A*col + B*row + C, y = D*col + E*row + F, where (C, F) is the center
// of the top-left pixel. The returned Affine is re-anchored to the pixel's
// top-left corner, per the geotransform convention.
func ReadWorldFile(imagePath string) (Affine, error) {
	base := strings.TrimSuffix(imagePath, "."+extOf(imagePath))
	candidates := []string{
		base + ".tfw",
		base + ".wld",
		imagePath + "w",
	}

	var data []byte
	var err error
	for _, p := range candidates {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return Affine{}, eris.Errorf("raster: no world file found for %s", imagePath)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 6 {
		return Affine{}, eris.Errorf("raster: world file has %d values, want 6", len(fields))
	}

	var c [6]float64
	for i := 0; i < 6; i++ {
		c[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Affine{}, eris.Wrapf(err, "raster: parse world file value %d", i+1)
		}
	}
	a, d, b, e, cx, fy := c[0], c[1], c[2], c[3], c[4], c[5]

	return Affine{
		cx - 0.5*a - 0.5*b, a, b,
		fy - 0.5*d - 0.5*e, d, e,
	}, nil
}

func extOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return ""
}
