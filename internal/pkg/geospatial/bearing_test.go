package geospatial

import (
	"math"
	"testing"

	"casemap/internal/core/domain"
)

func TestBearingCardinalDirections(t *testing.T) {
	origin := domain.GeoPoint{Lat: 0, Lon: 0}

	// Due east along the equator
	b := Bearing(origin, domain.GeoPoint{Lat: 0, Lon: 1})
	if math.Abs(b-90) > 0.01 {
		t.Errorf("bearing due east should be ~90, got %f", b)
	}

	// Due north along a meridian
	b = Bearing(origin, domain.GeoPoint{Lat: 1, Lon: 0})
	if math.Abs(b) > 0.01 {
		t.Errorf("bearing due north should be ~0, got %f", b)
	}

	// Due south
	b = Bearing(domain.GeoPoint{Lat: 38, Lon: -122}, domain.GeoPoint{Lat: 37, Lon: -122})
	if b < 175 || b > 185 {
		t.Errorf("bearing due south should be ~180, got %f", b)
	}

	// Due west
	b = Bearing(domain.GeoPoint{Lat: 37, Lon: -121}, domain.GeoPoint{Lat: 37, Lon: -122})
	if b < 265 || b > 275 {
		t.Errorf("bearing due west should be ~270, got %f", b)
	}
}

func TestBearingIdenticalPoints(t *testing.T) {
	for _, p := range []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 43.263, Lon: -2.935},
		{Lat: -33.86, Lon: 151.21},
	} {
		if b := Bearing(p, p); b != 0 {
			t.Errorf("Bearing(%v, %v) = %f, want 0", p, p, b)
		}
	}
}

func TestBearingRange(t *testing.T) {
	points := []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 89, Lon: 179},
		{Lat: -89, Lon: -179},
		{Lat: 43.263, Lon: -2.935},
		{Lat: 12.5, Lon: 77.6},
	}
	for _, from := range points {
		for _, to := range points {
			b := Bearing(from, to)
			if b < 0 || b >= 360 {
				t.Errorf("Bearing(%v, %v) = %f, out of [0, 360)", from, to, b)
			}
		}
	}
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(domain.GeoPoint{Lat: 0, Lon: 0}, domain.GeoPoint{Lat: 10, Lon: 10})
	if mid.Lat != 5 || mid.Lon != 5 {
		t.Errorf("expected (5, 5), got (%f, %f)", mid.Lat, mid.Lon)
	}

	// The mean is symmetric
	a := domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	b := domain.GeoPoint{Lat: 43.271, Lon: -2.944}
	if Midpoint(a, b) != Midpoint(b, a) {
		t.Error("midpoint should not depend on argument order")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Bilbao Abando to Moyua is roughly 350m
	d := Haversine(
		domain.GeoPoint{Lat: 43.2609, Lon: -2.9270},
		domain.GeoPoint{Lat: 43.2630, Lon: -2.9350},
	)
	if d < 500 || d > 900 {
		t.Errorf("unexpected distance: %f m", d)
	}

	if d := Haversine(domain.GeoPoint{Lat: 1, Lon: 1}, domain.GeoPoint{Lat: 1, Lon: 1}); d != 0 {
		t.Errorf("distance to self should be 0, got %f", d)
	}
}

func TestBoundingBoxEnclosesRadius(t *testing.T) {
	center := domain.GeoPoint{Lat: 43.263, Lon: -2.935}
	b := BoundingBox(center, 500)

	if b.SouthWest.Lat >= center.Lat || b.NorthEast.Lat <= center.Lat ||
		b.SouthWest.Lon >= center.Lon || b.NorthEast.Lon <= center.Lon {
		t.Fatalf("box should enclose the center: %+v", b)
	}

	// Corner-to-center distance along each axis stays near the radius
	ns := Haversine(domain.GeoPoint{Lat: b.SouthWest.Lat, Lon: center.Lon}, center)
	if math.Abs(ns-500) > 25 {
		t.Errorf("north-south half-span should be ~500m, got %f", ns)
	}
	ew := Haversine(domain.GeoPoint{Lat: center.Lat, Lon: b.SouthWest.Lon}, center)
	if math.Abs(ew-500) > 25 {
		t.Errorf("east-west half-span should be ~500m, got %f", ew)
	}
}
