package raster

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// OpenASCIIGrid reads an ESRI ASCII grid (.asc). The header carries
// ncols/nrows, the lower-left corner (or cell center), the square cell size,
// and an optional NODATA_value; rows follow top-down.
func OpenASCIIGrid(path string, opts Options) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: open ascii grid %s", path)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{}
	var firstDataLine string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])
		if len(fields) == 2 && isHeaderKey(key) {
			v, parseErr := strconv.ParseFloat(fields[1], 64)
			if parseErr != nil {
				return nil, eris.Wrapf(parseErr, "raster: parse header %s", key)
			}
			header[key] = v
			continue
		}
		firstDataLine = line
		break
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "raster: read ascii grid %s", path)
	}

	ncols, ok := header["ncols"]
	if !ok {
		return nil, eris.New("raster: ascii grid missing ncols")
	}
	nrows, ok := header["nrows"]
	if !ok {
		return nil, eris.New("raster: ascii grid missing nrows")
	}
	cell, ok := header["cellsize"]
	if !ok || cell <= 0 {
		return nil, eris.New("raster: ascii grid missing or invalid cellsize")
	}

	cols, rows := int(ncols), int(nrows)
	if cols <= 0 || rows <= 0 {
		return nil, eris.Errorf("raster: ascii grid has degenerate shape %dx%d", cols, rows)
	}

	// Corner vs. center origin keys. The transform anchors at the top-left
	// corner of the top-left pixel.
	xll, hasXC := header["xllcorner"]
	if !hasXC {
		xc, hasCenter := header["xllcenter"]
		if !hasCenter {
			return nil, eris.New("raster: ascii grid missing xllcorner/xllcenter")
		}
		xll = xc - cell/2
	}
	yll, hasYC := header["yllcorner"]
	if !hasYC {
		yc, hasCenter := header["yllcenter"]
		if !hasCenter {
			return nil, eris.New("raster: ascii grid missing yllcorner/yllcenter")
		}
		yll = yc - cell/2
	}

	grid := NewGrid(rows, cols)
	if nd, hasND := header["nodata_value"]; hasND {
		grid.NoData = nd
		grid.HasNoData = true
	}
	if opts.SetNoData {
		grid.NoData = opts.NoData
		grid.HasNoData = true
	}

	i := 0
	fill := func(line string) error {
		for _, tok := range strings.Fields(line) {
			if i >= len(grid.Data) {
				return eris.Errorf("raster: ascii grid has more than %d samples", len(grid.Data))
			}
			v, parseErr := strconv.ParseFloat(tok, 64)
			if parseErr != nil {
				return eris.Wrapf(parseErr, "raster: parse sample %d", i)
			}
			grid.Data[i] = v
			i++
		}
		return nil
	}

	if firstDataLine != "" {
		if err := fill(firstDataLine); err != nil {
			return nil, err
		}
	}
	for sc.Scan() {
		if err := fill(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "raster: read ascii grid %s", path)
	}
	if i != len(grid.Data) {
		return nil, eris.Errorf("raster: ascii grid has %d samples, want %d", i, len(grid.Data))
	}

	return &gridDataset{
		grid: grid,
		transform: Affine{
			xll, cell, 0,
			yll + float64(rows)*cell, 0, -cell,
		},
	}, nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter",
		"cellsize", "nodata_value":
		return true
	}
	return false
}
