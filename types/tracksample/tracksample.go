package tracksample

import (
	"fmt"
	"time"

	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/movement"
)

// Sample is one tracked fix in a session's journey.
// Samples are ordered by time within a session and append-only;
// the core appends enriched samples, it never rewrites history.
type Sample struct {
	geopoint.Geopoint

	Altitude float64 `json:"altitude,omitempty"` // meters
	Speed    float64 `json:"speed,omitempty"`    // m/s, reported by the device
	Heading  float64 `json:"heading,omitempty"`  // degrees [0,360)

	// Derived relative to the prior sample in the same session.
	// Zero for the first sample of a session.
	DistanceFromPrevious float64       `json:"distanceFromPrevious,omitempty"` // meters
	TimeFromPrevious     time.Duration `json:"timeFromPrevious,omitempty"`

	// Pattern is the movement classification at the time of this sample.
	Pattern movement.Pattern `json:"pattern,omitempty"`
}

type SinkerFn func(s Sample)
type TransformerFn func(s Sample) Sample

// Validate checks the sample for basic validity.
func (s *Sample) Validate() error {
	if err := s.Geopoint.Validate(); err != nil {
		return err
	}
	if s.Time.IsZero() {
		return fmt.Errorf("zero time")
	}
	if s.Heading < 0 || s.Heading > 360 {
		return fmt.Errorf("invalid heading: %.2f", s.Heading)
	}
	return nil
}

func (s *Sample) IsValid() bool { return s.Validate() == nil }

// CalculatedSpeed is distance over elapsed time against the previous
// sample, m/s. Falls back to the reported speed when there is no delta.
func (s *Sample) CalculatedSpeed() float64 {
	if s.TimeFromPrevious <= 0 {
		return s.Speed
	}
	return s.DistanceFromPrevious / s.TimeFromPrevious.Seconds()
}

// SpeedKmh is CalculatedSpeed after unit conversion.
func (s *Sample) SpeedKmh() float64 {
	return s.CalculatedSpeed() * 3.6
}

// SlicesSortFunc orders samples chronologically, then by accuracy
// (better fixes first) in case of equivalence.
func SlicesSortFunc(a, b Sample) int {
	if a.Time.Before(b.Time) {
		return -1
	}
	if a.Time.After(b.Time) {
		return 1
	}
	if a.Accuracy < b.Accuracy {
		return -1
	}
	if a.Accuracy > b.Accuracy {
		return 1
	}
	return 0
}

// ContinuousTimeOffset returns the time offset between two samples with
// caveats: negative (out-of-order) offsets reset to 0, and offsets longer
// than an hour reset to 1 second. Signal loss between days of tracking
// should not produce day-long deltas.
func ContinuousTimeOffset(prev, next Sample) time.Duration {
	offset := next.Time.Sub(prev.Time)
	if offset > time.Hour {
		offset = time.Second
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (s *Sample) String() string {
	return fmt.Sprintf("%s %s %.2fm/s", s.Time.Format(time.RFC3339), s.Geopoint.String(), s.Speed)
}
