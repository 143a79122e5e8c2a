// Package geo provides the geographic domain model for complaint triage:
// points, boundary polygons, administrative units, and the in-memory index
// used for geofence and nearest-center queries.
package geo

import (
	"fmt"
	"math"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distance.
const EarthRadiusMeters = 6371000.0

// ─────────────────────────────────────────────────────────────────────────────
// Point
// ─────────────────────────────────────────────────────────────────────────────

// Point is a WGS84 coordinate pair.  Longitude first, matching the stored
// boundary ring vertex order.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NewPoint constructs a validated Point.
func NewPoint(lon, lat float64) (Point, error) {
	p := Point{Lon: lon, Lat: lat}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) {
		return errors.New(errors.ErrCodeGeoInvalidPoint, "coordinates must be numeric")
	}
	if p.Lon < -180 || p.Lon > 180 {
		return errors.New(errors.ErrCodeGeoInvalidPoint, "longitude %g is out of range [-180, 180]", p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return errors.New(errors.ErrCodeGeoInvalidPoint, "latitude %g is out of range [-90, 90]", p.Lat)
	}
	return nil
}

// String formats the point as "lon,lat".
func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.Lon, p.Lat)
}

// DistanceTo returns the great-circle distance in meters to other, computed
// with the Haversine formula.
func (p Point) DistanceTo(other Point) float64 {
	return HaversineDistance(p, other)
}

// HaversineDistance returns the great-circle distance in meters between two
// points.
func HaversineDistance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}
