// Package geo implements the geospatial helpers used by the spawn generator:
// disk sampling around an anchor, great-circle distance and the point codec.
package geo

import (
	"errors"
	"math"

	"github.com/udisondev/geospawn/internal/model"
)

// KmPerDegree approximates the length of one degree of latitude.
const KmPerDegree = 111.0

// minCosLat bounds the longitude correction; anything smaller is treated as a pole.
const minCosLat = 1e-6

// ErrDegenerateLatitude is returned when the anchor is too close to a pole
// for the longitude correction to stay finite.
var ErrDegenerateLatitude = errors.New("anchor latitude too close to a pole")

// Source supplies uniform floats in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// SampleNearby draws a point uniformly distributed over the disk of radiusKm
// around anchor.
//
// The offset magnitude is radius*sqrt(u), which gives uniform density per unit
// area rather than per unit radius. The longitude component is stretched by
// 1/cos(lat) to compensate for meridian convergence.
func SampleNearby(src Source, anchor model.Coordinate, radiusKm float64) (model.Coordinate, error) {
	cosLat := math.Cos(anchor.Lat * math.Pi / 180)
	if math.Abs(cosLat) < minCosLat {
		return model.Coordinate{}, ErrDegenerateLatitude
	}

	radiusDeg := radiusKm / KmPerDegree
	u, v := src.Float64(), src.Float64()
	w := radiusDeg * math.Sqrt(u)
	t := 2 * math.Pi * v

	dLat := w * math.Sin(t)
	dLon := w * math.Cos(t) / cosLat

	out := anchor.WithOffset(dLat, dLon)
	if math.IsNaN(out.Lat) || math.IsInf(out.Lat, 0) || math.IsNaN(out.Lon) || math.IsInf(out.Lon, 0) {
		return model.Coordinate{}, ErrDegenerateLatitude
	}
	out.Lon = NormalizeLon(out.Lon)
	return out, nil
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lon float64) float64 {
	if lon >= -180 && lon < 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
