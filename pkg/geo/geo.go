package geo

import "math"

// EarthRadiusKm is the mean sphere radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLng = 111.320
	// cosine floor keeps the longitude delta finite at the poles
	minCosLat = 1e-6
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite numbers.
func (p Point) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// BoundingBox is a rectangular over-approximation of a radius circle.
// It is only a pre-filter: membership in the box never implies membership
// in the circle, so callers must confirm with DistanceKm.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// DistanceKm computes the great-circle distance between two points using the
// haversine formula. Callers must validate coordinates first; this function
// assumes finite inputs.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// BoxAround derives the bounding box for a radius around a center point.
// The longitude delta widens with latitude; the cosine term is floored so
// the division stays defined at the poles.
func BoxAround(center Point, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerDegreeLat

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lngDelta := radiusKm / (kmPerDegreeLng * cosLat)

	return BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}
