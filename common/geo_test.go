package common

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337, "NW"},
		{338, "N"},
		{359, "N"},
		{360, "N"},
	}
	for _, c := range cases {
		if got := CompassDirection(c.bearing); got != c.want {
			t.Errorf("CompassDirection(%.0f) = %q, want %q", c.bearing, got, c.want)
		}
	}
}

func TestWalkMinutes(t *testing.T) {
	if got := WalkMinutes(83); got != 1 {
		t.Errorf("83m should be 1 minute, got %d", got)
	}
	if got := WalkMinutes(830); got != 10 {
		t.Errorf("830m should be 10 minutes, got %d", got)
	}
	if got := WalkMinutes(0); got != 0 {
		t.Errorf("0m should be 0 minutes, got %d", got)
	}
}

func TestDistanceBearing(t *testing.T) {
	// Plateau cathedral to the civilizations museum, Abidjan.
	a := orb.Point{-4.0083, 5.3364}
	b := orb.Point{-4.0267, 5.3257}

	d := Distance(a, b)
	if d < 2000 || d > 2700 {
		t.Errorf("distance out of expected range: %.0f", d)
	}

	bearing := Bearing(a, b)
	if bearing < 0 || bearing >= 360 {
		t.Errorf("bearing not normalized: %.1f", bearing)
	}
	// South-west of the cathedral.
	if dir := CompassDirection(bearing); dir != "SW" && dir != "W" && dir != "S" {
		t.Errorf("unexpected direction %q (bearing %.1f)", dir, bearing)
	}
}

func TestDestinationPoint(t *testing.T) {
	origin := orb.Point{-4.0083, 5.3364}
	dest := DestinationPoint(origin, 1000, 90)

	d := Distance(origin, dest)
	if math.Abs(d-1000) > 10 {
		t.Errorf("destination distance %.1f, want ~1000", d)
	}
	if dest.Lon() <= origin.Lon() {
		t.Errorf("eastward projection went west: %v -> %v", origin, dest)
	}
	if math.Abs(dest.Lat()-origin.Lat()) > 0.001 {
		t.Errorf("eastward projection changed latitude too much: %v -> %v", origin, dest)
	}
}

func TestNormalizeBearing(t *testing.T) {
	if got := NormalizeBearing(-90); got != 270 {
		t.Errorf("NormalizeBearing(-90) = %.1f, want 270", got)
	}
	if got := NormalizeBearing(725); got != 5 {
		t.Errorf("NormalizeBearing(725) = %.1f, want 5", got)
	}
}

func TestPathLength(t *testing.T) {
	a := orb.Point{-4.0083, 5.3364}
	b := DestinationPoint(a, 500, 0)
	c := DestinationPoint(b, 500, 90)
	total := PathLength([]orb.Point{a, b, c})
	if math.Abs(total-1000) > 15 {
		t.Errorf("path length %.1f, want ~1000", total)
	}
	if PathLength([]orb.Point{a}) != 0 {
		t.Error("single-point path should have zero length")
	}
}
