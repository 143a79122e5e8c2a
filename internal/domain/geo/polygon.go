package geo

import (
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Polygon
// ─────────────────────────────────────────────────────────────────────────────

// Polygon is a closed boundary ring.  The ring is ordered, has at least four
// vertices, and the first vertex equals the last.  Rings must be simple
// (non-self-intersecting); that invariant is checked once at construction
// time, never per query.
type Polygon struct {
	ring []Point
}

// NewPolygon constructs a validated Polygon from a vertex ring.
func NewPolygon(ring []Point) (*Polygon, error) {
	if len(ring) < 4 {
		return nil, errors.New(errors.ErrCodeGeoInvalidPolygon,
			"boundary ring needs at least 4 vertices, got %d", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first.Lon != last.Lon || first.Lat != last.Lat {
		return nil, errors.New(errors.ErrCodeGeoInvalidPolygon,
			"boundary ring must be closed (first vertex must equal last)")
	}
	for i, v := range ring {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeGeoInvalidPolygon,
				"boundary ring vertex %d is invalid", i)
		}
	}
	if selfIntersects(ring) {
		return nil, errors.New(errors.ErrCodeGeoInvalidPolygon,
			"boundary ring is self-intersecting")
	}

	cloned := make([]Point, len(ring))
	copy(cloned, ring)
	return &Polygon{ring: cloned}, nil
}

// Ring returns a copy of the vertex ring.
func (p *Polygon) Ring() []Point {
	out := make([]Point, len(p.ring))
	copy(out, p.ring)
	return out
}

// Contains reports whether pt lies inside the polygon, using an even-odd
// ray-casting test.  Points exactly on an edge may fall on either side; the
// resolver treats such points like any other geofence result.
func (p *Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p.ring) - 1 // last vertex duplicates the first
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := p.ring[i], p.ring[j]
		if (vi.Lat > pt.Lat) != (vj.Lat > pt.Lat) {
			x := (vj.Lon-vi.Lon)*(pt.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if pt.Lon < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// BoundingBox returns the min/max corners of the ring, used as a cheap
// prefilter before the exact containment test.
func (p *Polygon) BoundingBox() (min Point, max Point) {
	min, max = p.ring[0], p.ring[0]
	for _, v := range p.ring[1:] {
		if v.Lon < min.Lon {
			min.Lon = v.Lon
		}
		if v.Lat < min.Lat {
			min.Lat = v.Lat
		}
		if v.Lon > max.Lon {
			max.Lon = v.Lon
		}
		if v.Lat > max.Lat {
			max.Lat = v.Lat
		}
	}
	return min, max
}

// selfIntersects checks every pair of non-adjacent edges for crossing.
// Quadratic, acceptable because rings are validated once at ingestion.
func selfIntersects(ring []Point) bool {
	n := len(ring) - 1
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			// Skip adjacent edges, including the wrap-around pair.
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a, b, c, d Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(o, a, b Point) float64 {
	return (a.Lon-o.Lon)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lon-o.Lon)
}
