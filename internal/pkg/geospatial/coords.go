package geospatial

import (
	"fmt"
	"math"

	"casemap/internal/core/domain"
)

// ValidateCoords checks that latitude and longitude are finite and
// within WGS 84 range.
func ValidateCoords(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: %f (must be between -90 and 90)", lat)
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude: %f (must be between -180 and 180)", lon)
	}
	return nil
}

// ParseBounds converts raw bounds input, a pair of [lat, lon] pairs
// (south-west then north-east corner), into domain.Bounds. Wrong
// arity, non-numeric or NaN values are rejected.
func ParseBounds(corners [][]float64) (domain.Bounds, error) {
	if len(corners) != 2 {
		return domain.Bounds{}, fmt.Errorf("bounds must be two corners, got %d", len(corners))
	}
	pts := make([]domain.GeoPoint, 2)
	for i, c := range corners {
		if len(c) != 2 {
			return domain.Bounds{}, fmt.Errorf("corner %d must be [lat, lon], got %d values", i, len(c))
		}
		if !isFinite(c[0]) || !isFinite(c[1]) {
			return domain.Bounds{}, fmt.Errorf("corner %d has non-finite coordinates", i)
		}
		pts[i] = domain.GeoPoint{Lat: c[0], Lon: c[1]}
	}
	return domain.Bounds{SouthWest: pts[0], NorthEast: pts[1]}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
