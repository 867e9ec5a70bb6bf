// Package geo holds coordinate validation, great-circle distance and
// radius ranking used by clinic and user proximity search.
package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Validate rejects latitudes outside [-90, 90] and longitudes outside [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinates, p.Lat, p.Lng)
	}
	return nil
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoundKm rounds a distance to one decimal place.
func RoundKm(d float64) float64 {
	return math.Round(d*10) / 10
}

// Ranked pairs a candidate with its rounded distance from the search origin.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// WithinRadius keeps candidates whose distance from origin is <= radiusKm,
// sorted nearest first. locate reports a candidate's position, or false when
// it has none; those candidates are skipped. The comparison uses the exact
// distance; the attached distance is rounded to one decimal.
func WithinRadius[T any](origin Point, radiusKm float64, candidates []T, locate func(T) (Point, bool)) []Ranked[T] {
	type scored struct {
		item T
		d    float64
	}
	hits := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		p, ok := locate(c)
		if !ok {
			continue
		}
		d := Haversine(origin, p)
		if d <= radiusKm {
			hits = append(hits, scored{item: c, d: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].d < hits[j].d })

	out := make([]Ranked[T], len(hits))
	for i, h := range hits {
		out[i] = Ranked[T]{Item: h.item, DistanceKm: RoundKm(h.d)}
	}
	return out
}
