// Package params parses discovery query parameters with the tolerant
// defaulting rules of the read surface: malformed input never fails a
// request, it degrades to a documented default.
package params

import (
	"strconv"
	"strings"

	"github.com/mercadoperto/mercadoperto-backend/pkg/geo"
)

// PositiveInt parses raw as a positive integer. Malformed or non-positive
// values fall back to def.
func PositiveInt(raw string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return def
	}
	return value
}

// PositiveFloat parses raw as a positive finite float. Malformed or
// non-positive values fall back to def.
func PositiveFloat(raw string, def float64) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value <= 0 {
		return def
	}
	return value
}

// TriState interprets an optional boolean filter. Absent input or anything
// other than a case-insensitive "true"/"false" means "no constraint".
func TriState(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

// Origin parses an optional search origin. Both coordinates must be present
// and finite; anything else reads as "no origin supplied" rather than an
// error or a default coordinate.
func Origin(latRaw, lngRaw string) *geo.Point {
	latRaw = strings.TrimSpace(latRaw)
	lngRaw = strings.TrimSpace(lngRaw)
	if latRaw == "" || lngRaw == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil
	}

	point := geo.Point{Lat: lat, Lng: lng}
	if !point.Valid() {
		return nil
	}
	return &point
}

// Text trims an optional free-text filter; empty means absent.
func Text(raw string) string {
	return strings.TrimSpace(raw)
}
