package matching

import "math"

// EarthRadiusKm is the Earth's radius in kilometers.
const EarthRadiusKm = 6371.0

// Haversine calculates the great-circle distance between two points in
// kilometers using the Haversine formula (accounts for Earth's curvature).
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox is a rough lat/lon box used for initial candidate filtering
// in SQL before applying Haversine for accuracy.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NewBoundingBox returns a bounding box around a center point with the
// given radius. This is an approximation used for query optimization;
// exact distances are always re-checked with Haversine.
func NewBoundingBox(lat, lon, radiusKm float64) BoundingBox {
	// At the equator 1 degree of latitude is about 111 km; longitude
	// degrees shrink with latitude.
	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Cos(lat*math.Pi/180))

	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}
