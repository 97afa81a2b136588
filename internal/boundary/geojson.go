package boundary

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// Census-style property keys carried by county boundary files.
const (
	propName  = "NAME"
	propState = "STATE"
)

// LoadGeoJSON reads a GeoJSON FeatureCollection of county boundaries.
// Every feature must carry NAME and STATE properties and polygonal
// geometry; malformed features fail the load rather than deferring to a
// lookup-time error.
func LoadGeoJSON(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: parse geojson %s", path)
	}

	set := newSet(len(fc.Features))
	for i, feat := range fc.Features {
		name, err := stringProperty(feat.Properties, propName, i)
		if err != nil {
			return nil, err
		}
		state, err := stringProperty(feat.Properties, propState, i)
		if err != nil {
			return nil, err
		}
		if feat.Geometry == nil {
			return nil, eris.Errorf("boundary: feature %d (%s) has no geometry", i, name)
		}
		mp, err := asMultiPolygon(feat.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: feature %d (%s)", i, name)
		}

		set.add(&Region{Name: name, StateFIPS: state, Geometry: mp})
	}

	zap.L().Debug("boundary: geojson loaded",
		zap.String("path", path),
		zap.Int("regions", set.Len()),
	)
	return set, nil
}

func stringProperty(props map[string]interface{}, key string, featureIdx int) (string, error) {
	v, ok := props[key]
	if !ok {
		return "", eris.Errorf("boundary: feature %d missing %s property", featureIdx, key)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", eris.Errorf("boundary: feature %d has non-string or empty %s", featureIdx, key)
	}
	return strings.TrimSpace(s), nil
}
