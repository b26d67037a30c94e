package geospatial

import (
	"math"

	"casemap/internal/core/domain"
)

// Bearing calculates the initial great-circle bearing in degrees from
// one point toward another, normalised into [0, 360) with 0 = north,
// clockwise. Identical points yield 0 (the degenerate atan2(0,0) case,
// not special-cased).
func Bearing(from, to domain.GeoPoint) float64 {
	phi1 := toRad(from.Lat)
	phi2 := toRad(to.Lat)
	dLon := toRad(to.Lon - from.Lon)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) -
		math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	deg := toDeg(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Midpoint returns the arithmetic mean of latitudes and longitudes.
// This is a planar approximation rather than the geodesic midpoint:
// fine at typical map zoom scales, increasingly wrong near the
// antimeridian or the poles, where the mean longitude can land on the
// far side of the globe.
func Midpoint(p1, p2 domain.GeoPoint) domain.GeoPoint {
	return domain.GeoPoint{
		Lat: (p1.Lat + p2.Lat) / 2,
		Lon: (p1.Lon + p2.Lon) / 2,
	}
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
