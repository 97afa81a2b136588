// Package boundary loads vector region boundaries (GeoJSON or shapefile)
// into strongly typed records and resolves region lookups. County names
// collide across states, so regions are keyed by state code plus name.
package boundary

import (
	"strings"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
)

// ErrRegionNotFound is returned when a lookup key matches no loaded region.
var ErrRegionNotFound = eris.New("boundary: region not found")

// Region is one named boundary polygon, immutable once loaded.
type Region struct {
	Name      string
	StateFIPS string
	Geometry  *geom.MultiPolygon
}

// Key identifies a region within a boundary set.
type Key struct {
	StateFIPS string
	Name      string
}

func keyOf(stateFIPS, name string) Key {
	return Key{
		StateFIPS: strings.TrimSpace(stateFIPS),
		Name:      strings.ToUpper(strings.TrimSpace(name)),
	}
}

// Set is an immutable collection of regions in load order.
type Set struct {
	byKey map[Key]*Region
	order []*Region
}

func newSet(capacity int) *Set {
	return &Set{byKey: make(map[Key]*Region, capacity)}
}

func (s *Set) add(r *Region) {
	k := keyOf(r.StateFIPS, r.Name)
	if _, dup := s.byKey[k]; !dup {
		s.order = append(s.order, r)
	}
	s.byKey[k] = r
}

// Lookup finds a region by state FIPS code and name. Name matching is
// case-insensitive.
func (s *Set) Lookup(stateFIPS, name string) (*Region, error) {
	r, ok := s.byKey[keyOf(stateFIPS, name)]
	if !ok {
		return nil, eris.Wrapf(ErrRegionNotFound, "state %s, name %q", stateFIPS, name)
	}
	return r, nil
}

// All returns the regions in load order. Callers must not mutate them.
func (s *Set) All() []*Region { return s.order }

// Len returns the number of distinct regions.
func (s *Set) Len() int { return len(s.order) }

// asMultiPolygon normalizes polygonal geometry; anything else is malformed
// input for a boundary file.
func asMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch t := g.(type) {
	case *geom.MultiPolygon:
		return t, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(t.Layout())
		if err := mp.Push(t); err != nil {
			return nil, eris.Wrap(err, "boundary: wrap polygon")
		}
		return mp, nil
	default:
		return nil, eris.Errorf("boundary: unsupported geometry type %T", g)
	}
}
