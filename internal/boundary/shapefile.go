package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// TIGER/Line attribute names for county shapefiles.
const (
	shpFieldName  = "NAME"
	shpFieldState = "STATEFP"
)

// LoadShapefile reads county boundaries from a TIGER-style shapefile.
// Records with missing attributes or non-polygon shapes are skipped with a
// warning; shapefiles mix feature quality too often to fail the whole file.
func LoadShapefile(path string) (*Set, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map. DBF field names are NUL-padded.
	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		fieldIdx[strings.ToUpper(strings.TrimRight(f.String(), "\x00"))] = i
	}
	nameIdx, ok := fieldIdx[shpFieldName]
	if !ok {
		return nil, eris.Errorf("boundary: shapefile missing %s field", shpFieldName)
	}
	stateIdx, ok := fieldIdx[shpFieldState]
	if !ok {
		return nil, eris.Errorf("boundary: shapefile missing %s field", shpFieldState)
	}

	log := zap.L().With(zap.String("component", "boundary.shapefile"))
	set := newSet(64)
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		state := strings.TrimSpace(strings.TrimRight(reader.Attribute(stateIdx), "\x00"))
		if name == "" || state == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly.NumParts == 0 || len(poly.Points) == 0 {
			skipped++
			continue
		}

		mp := partsToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		set.add(&Region{Name: name, StateFIPS: state, Geometry: mp})
	}

	if skipped > 0 {
		log.Warn("skipped shapefile records", zap.Int("skipped", skipped))
	}
	if set.Len() == 0 {
		return nil, eris.Errorf("boundary: shapefile %s yielded no usable regions", path)
	}

	log.Debug("shapefile loaded", zap.String("path", path), zap.Int("regions", set.Len()))
	return set, nil
}

// partsToMultiPolygon converts shapefile parts to a MultiPolygon. Each part
// becomes its own single-ring polygon; hole rings are left as separate
// polygons, which is sufficient for bounding-box and scanline consumers.
func partsToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
