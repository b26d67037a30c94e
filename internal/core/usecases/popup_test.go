package usecases_test

import (
	"testing"

	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/usecases"
)

func TestRenderPopupSubstitution(t *testing.T) {
	props := geojson.Properties{
		"name":  "Abando",
		"lines": float64(3),
	}
	got := usecases.RenderPopup("Station {name} serves {lines} lines", props)
	want := "Station Abando serves 3 lines"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPopupLeavesUnresolvedPlaceholders(t *testing.T) {
	props := geojson.Properties{"name": "Abando"}
	got := usecases.RenderPopup("{name} ({operator})", props)
	if got != "Abando ({operator})" {
		t.Errorf("missing property must stay verbatim, got %q", got)
	}
}

func TestRenderPopupNumericFormatting(t *testing.T) {
	props := geojson.Properties{"count": float64(7), "ratio": 0.25}
	if got := usecases.RenderPopup("{count}", props); got != "7" {
		t.Errorf("integers should not carry decimals, got %q", got)
	}
	if got := usecases.RenderPopup("{ratio}", props); got != "0.25" {
		t.Errorf("got %q", got)
	}
}

func TestPropertiesPopupListsAllSorted(t *testing.T) {
	props := geojson.Properties{
		"type": "evidence",
		"name": "Broken window",
	}
	got := usecases.PropertiesPopup(props)
	want := "name: Broken window\ntype: evidence"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPropertiesPopupEmpty(t *testing.T) {
	if got := usecases.PropertiesPopup(geojson.Properties{}); got != "" {
		t.Errorf("expected empty popup, got %q", got)
	}
}
