package geospatial

import (
	"math"

	"casemap/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(p1, p2 domain.GeoPoint) float64 {
	dLat := toRad(p2.Lat - p1.Lat)
	dLon := toRad(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(p1.Lat))*math.Cos(toRad(p2.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns bounds around a point with the given radius in meters.
func BoundingBox(center domain.GeoPoint, radiusMeters float64) domain.Bounds {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(center.Lat)))

	return domain.Bounds{
		SouthWest: domain.GeoPoint{Lat: center.Lat - latDelta, Lon: center.Lon - lonDelta},
		NorthEast: domain.GeoPoint{Lat: center.Lat + latDelta, Lon: center.Lon + lonDelta},
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
