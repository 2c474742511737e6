package model

import "fmt"

// Coordinate представляет точку WGS84 в градусах.
// Value type, передаётся по значению (immutable).
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// NewCoordinate создаёт Coordinate с указанными широтой и долготой.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// WithOffset возвращает новую Coordinate, смещённую на dLat/dLon градусов (immutable pattern).
func (c Coordinate) WithOffset(dLat, dLon float64) Coordinate {
	c.Lat += dLat
	c.Lon += dLon
	return c
}

// String formats the coordinate as "lat,lon" for logs.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
