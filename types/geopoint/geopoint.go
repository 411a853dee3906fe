package geopoint

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Geopoint is a device fix: where a visitor is or was, and how sure we are.
// It is an immutable value type; the analytics core never mutates one.
// Accuracy models GPS uncertainty in meters and gates trigger decisions.
type Geopoint struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Accuracy float64   `json:"accuracy,omitempty"`
	Time     time.Time `json:"time,omitempty"`
}

// New creates a Geopoint without accuracy or time.
// Mostly a test and fixture convenience.
func New(lat, lng float64) Geopoint {
	return Geopoint{Lat: lat, Lng: lng}
}

// Point returns the orb representation (x,y::lng,lat).
func (g Geopoint) Point() orb.Point {
	return orb.Point{g.Lng, g.Lat}
}

// FromPoint converts an orb.Point (x,y::lng,lat) back to a Geopoint.
func FromPoint(pt orb.Point) Geopoint {
	return Geopoint{Lat: pt.Lat(), Lng: pt.Lon()}
}

func (g Geopoint) IsZero() bool {
	return g == Geopoint{}
}

// Validate checks the point for basic validity.
// It returns the first error it encounters.
func (g Geopoint) Validate() error {
	if g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("invalid coordinate: lat=%.14f", g.Lat)
	}
	if g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("invalid coordinate: lng=%.14f", g.Lng)
	}
	if g.Accuracy < 0 {
		return fmt.Errorf("negative accuracy: %.2f", g.Accuracy)
	}
	return nil
}

func (g Geopoint) IsValid() bool {
	return g.Validate() == nil
}

func (g Geopoint) String() string {
	return fmt.Sprintf("[%.5f,%.5f]+/-%.0fm", g.Lat, g.Lng, g.Accuracy)
}
