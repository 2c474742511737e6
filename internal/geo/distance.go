package geo

import (
	"math"

	"github.com/udisondev/geospawn/internal/model"
)

// EarthRadiusKm is the mean Earth radius.
const EarthRadiusKm = 6371.0088

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoundingBox returns the lat/lon box that fully contains the circle of
// radiusKm around c. Used to pre-filter rows before an exact distance check.
func BoundingBox(c model.Coordinate, radiusKm float64) (minLat, minLon, maxLat, maxLon float64) {
	dLat := radiusKm / KmPerDegree
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > minCosLat {
		dLon = math.Min(180, dLat/cosLat)
	}
	// Небольшой запас на погрешность приближения.
	pad := 1.01
	return c.Lat - dLat*pad, c.Lon - dLon*pad, c.Lat + dLat*pad, c.Lon + dLon*pad
}
