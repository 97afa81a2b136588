package zonal

import (
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

// WindowAndMask resolves the pixel window covering the geometry's bounding
// box and rasterizes the geometry into a mask over that window
// (Inside/Background polarity).
func WindowAndMask(g geom.T, ds raster.Dataset) (raster.Window, *raster.Grid, error) {
	b := g.Bounds()
	w, err := WindowFromBounds(b.Min(0), b.Min(1), b.Max(0), b.Max(1),
		ds.Transform(), ds.Width(), ds.Height())
	if err != nil {
		return raster.Window{}, nil, err
	}

	local := LocalTransform(ds.Transform(), w)
	mask, err := RasterizeMask([]Shape{{Geometry: g, Value: Inside}},
		w.Rows(), w.Cols(), local, Background)
	if err != nil {
		return raster.Window{}, nil, err
	}
	return w, mask, nil
}

// RegionStatistics is the whole pipeline for one region: window resolution,
// mask rasterization, windowed read, masked aggregation.
func RegionStatistics(g geom.T, ds raster.Dataset) (Stats, error) {
	w, mask, err := WindowAndMask(g, ds)
	if err != nil {
		return Stats{}, err
	}

	samples, err := ds.ReadWindow(w)
	if err != nil {
		return Stats{}, eris.Wrap(err, "zonal: read window")
	}

	return MaskedStats(samples, mask)
}
