package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/udisondev/geospawn/internal/model"
)

// ErrMalformedPoint is returned when a location value cannot be decoded.
var ErrMalformedPoint = errors.New("malformed point")

// FormatPoint returns the canonical WKT form "POINT(lon lat)" used on write.
func FormatPoint(c model.Coordinate) string {
	return "POINT(" +
		strconv.FormatFloat(c.Lon, 'f', -1, 64) + " " +
		strconv.FormatFloat(c.Lat, 'f', -1, 64) + ")"
}

// ParsePoint decodes a location in any of the forms the store hands back:
//
//   - WKT text "POINT(lon lat)", optionally prefixed with "SRID=4326;"
//   - GeoJSON text or []byte {"type":"Point","coordinates":[lon,lat]}
//   - a decoded map with "coordinates", or with "lat"/"lon" keys
//   - a [lon, lat] pair
//   - model.Coordinate
func ParsePoint(v any) (model.Coordinate, error) {
	var (
		c   model.Coordinate
		err error
	)
	switch val := v.(type) {
	case nil:
		return c, fmt.Errorf("%w: empty value", ErrMalformedPoint)
	case model.Coordinate:
		c = val
	case *model.Coordinate:
		if val == nil {
			return c, fmt.Errorf("%w: nil coordinate", ErrMalformedPoint)
		}
		c = *val
	case string:
		c, err = parsePointText(val)
	case []byte:
		c, err = parsePointText(string(val))
	case map[string]any:
		c, err = parsePointMap(val)
	case []float64:
		c, err = parsePair(val)
	case []any:
		c, err = parseAnyPair(val)
	default:
		return c, fmt.Errorf("%w: unsupported type %T", ErrMalformedPoint, v)
	}
	if err != nil {
		return model.Coordinate{}, err
	}
	if err := validate(c); err != nil {
		return model.Coordinate{}, err
	}
	return c, nil
}

func parsePointText(s string) (model.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Coordinate{}, fmt.Errorf("%w: empty string", ErrMalformedPoint)
	}
	if strings.HasPrefix(s, "{") {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return model.Coordinate{}, fmt.Errorf("%w: decoding geojson: %v", ErrMalformedPoint, err)
		}
		return parsePointMap(m)
	}
	return parseWKT(s)
}

func parseWKT(s string) (model.Coordinate, error) {
	if i := strings.IndexByte(s, ';'); i >= 0 && strings.HasPrefix(strings.ToUpper(s), "SRID=") {
		s = s[i+1:]
	}
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "POINT") {
		return model.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedPoint, s)
	}
	body := strings.TrimSpace(s[len("POINT"):])
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return model.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedPoint, s)
	}
	fields := strings.Fields(body[1 : len(body)-1])
	if len(fields) < 2 {
		return model.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedPoint, s)
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: longitude %q", ErrMalformedPoint, fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: latitude %q", ErrMalformedPoint, fields[1])
	}
	return model.NewCoordinate(lat, lon), nil
}

func parsePointMap(m map[string]any) (model.Coordinate, error) {
	if coords, ok := m["coordinates"]; ok {
		return ParsePoint(coords)
	}
	lat, okLat := number(m["lat"])
	lon, okLon := number(m["lon"])
	if !okLon {
		lon, okLon = number(m["lng"])
	}
	if !okLat || !okLon {
		return model.Coordinate{}, fmt.Errorf("%w: missing coordinates", ErrMalformedPoint)
	}
	return model.NewCoordinate(lat, lon), nil
}

func parsePair(p []float64) (model.Coordinate, error) {
	if len(p) < 2 {
		return model.Coordinate{}, fmt.Errorf("%w: pair needs 2 values, got %d", ErrMalformedPoint, len(p))
	}
	return model.NewCoordinate(p[1], p[0]), nil
}

func parseAnyPair(p []any) (model.Coordinate, error) {
	if len(p) < 2 {
		return model.Coordinate{}, fmt.Errorf("%w: pair needs 2 values, got %d", ErrMalformedPoint, len(p))
	}
	lon, okLon := number(p[0])
	lat, okLat := number(p[1])
	if !okLon || !okLat {
		return model.Coordinate{}, fmt.Errorf("%w: non-numeric pair", ErrMalformedPoint)
	}
	return model.NewCoordinate(lat, lon), nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func validate(c model.Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("%w: non-finite value", ErrMalformedPoint)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: out of range %v", ErrMalformedPoint, c)
	}
	return nil
}
