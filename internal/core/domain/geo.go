package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	SouthWest GeoPoint `json:"south_west"`
	NorthEast GeoPoint `json:"north_east"`
}

// IsDegenerate reports whether the bounds collapse to a single point.
func (b Bounds) IsDegenerate() bool {
	return b.SouthWest == b.NorthEast
}

// Center returns the planar center of the bounds.
func (b Bounds) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lon: (b.SouthWest.Lon + b.NorthEast.Lon) / 2,
	}
}
