package domain

import "time"

// MarkerType classifies an investigation marker and selects its icon.
type MarkerType string

const (
	TypeCrimeScene MarkerType = "crime-scene"
	TypeEvidence   MarkerType = "evidence"
	TypeWitness    MarkerType = "witness"
	TypeSuspect    MarkerType = "suspect"
)

// ParseMarkerType maps a raw type string to a known MarkerType.
// Unknown values fall back to crime-scene.
func ParseMarkerType(s string) MarkerType {
	switch MarkerType(s) {
	case TypeCrimeScene, TypeEvidence, TypeWitness, TypeSuspect:
		return MarkerType(s)
	default:
		return TypeCrimeScene
	}
}

// InvestigationRecord is a marker annotated with case metadata.
type InvestigationRecord struct {
	Layer       LayerID    `json:"layer"`
	Location    GeoPoint   `json:"location"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        MarkerType `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
}
