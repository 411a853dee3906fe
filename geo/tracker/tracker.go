/*
Package tracker maintains per-session journey state.

A Tracker owns the recent-sample window for one visitor session. Each raw
fix is smoothed through a Kalman filter, enriched with deltas against the
previous fix, and classified into a movement pattern. Long silences reset
the window; a visitor returning after lunch starts a fresh journey, not a
teleport.
*/
package tracker

import (
	"math"
	"sync"
	"time"

	rkalman "github.com/regnull/kalman"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/geo/motion"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/movement"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// Tracker is safe for concurrent use; a session's samples are appended
// in arrival order, one at a time, so concurrent posts for one session
// cannot interleave the delta chain.
type Tracker struct {
	Config *params.TrackerConfig
	Motion *params.MotionConfig

	mu     sync.Mutex
	window *common.RingBuffer[tracksample.Sample]
	filter *rkalman.GeoFilter
	last   tracksample.Sample
	empty  bool
}

func New(config *params.TrackerConfig) *Tracker {
	if config == nil {
		config = params.DefaultTrackerConfig
	}
	return &Tracker{
		Config: config,
		Motion: params.DefaultMotionConfig,
		window: common.NewRingBuffer[tracksample.Sample](config.WindowSize),
		empty:  true,
	}
}

func (t *Tracker) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.empty
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window.Len()
}

// Samples returns the current window, oldest first.
func (t *Tracker) Samples() []tracksample.Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window.Get()
}

// Last returns the most recent enriched sample.
// Zero value while the tracker is empty.
func (t *Tracker) Last() tracksample.Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastLocked()
}

func (t *Tracker) lastLocked() tracksample.Sample {
	if t.empty {
		return tracksample.Sample{}
	}
	return t.last
}

// Reset drops all state. The next sample starts a fresh journey.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *Tracker) resetLocked() {
	t.window = common.NewRingBuffer[tracksample.Sample](t.Config.WindowSize)
	t.filter = nil
	t.last = tracksample.Sample{}
	t.empty = true
}

// Add ingests one raw sample and returns it enriched: smoothed position,
// deltas against the previous sample, and movement classification.
//
// A gap longer than ResetInterval (or an out-of-order fix) resets the
// tracker first, so the returned sample opens a new journey.
//
// Add serializes concurrent callers: the delta chain depends on "the
// previous sample" being the previous Add, not a racing one.
func (t *Tracker) Add(s tracksample.Sample) (tracksample.Sample, error) {
	if err := s.Validate(); err != nil {
		return tracksample.Sample{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.empty {
		gap := s.Time.Sub(t.last.Time)
		if gap < 0 || gap > t.Config.ResetInterval {
			t.resetLocked()
		}
	}

	if t.empty {
		return t.first(s)
	}

	offset := tracksample.ContinuousTimeOffset(t.last, s)
	if err := t.observe(offset.Seconds(), s); err != nil {
		return tracksample.Sample{}, err
	}
	if est := t.filter.Estimate(); est != nil {
		s.Lat, s.Lng = est.Lat, est.Lng
	}

	s.DistanceFromPrevious = common.Distance(t.last.Point(), s.Point())
	s.TimeFromPrevious = offset

	// Classify before the window insert so the stored copy carries the
	// pattern the caller saw.
	s.Pattern = motion.Classify(append(t.window.Get(), s), t.Motion)
	t.window.Add(s)
	t.last = s
	return s, nil
}

func (t *Tracker) first(s tracksample.Sample) (tracksample.Sample, error) {
	filter, err := newRKalmanFilter(s.Lat, math.Max(1, s.Speed), 1)
	if err != nil {
		return tracksample.Sample{}, err
	}
	t.filter = filter
	if err := t.observe(1, s); err != nil {
		return tracksample.Sample{}, err
	}

	s.DistanceFromPrevious = 0
	s.TimeFromPrevious = 0
	s.Pattern = movement.PatternStarting
	t.window.Add(s)
	t.last = s
	t.empty = false
	return s, nil
}

func (t *Tracker) observe(seconds float64, s tracksample.Sample) error {
	if seconds <= 0 {
		seconds = 1
	}
	return t.filter.Observe(seconds, &rkalman.GeoObserved{
		Lat:                s.Lat,
		Lng:                s.Lng,
		Altitude:           s.Altitude,
		Speed:              math.Max(0, s.Speed),
		SpeedAccuracy:      0.2,
		Direction:          s.Heading,
		DirectionAccuracy:  0,
		HorizontalAccuracy: math.Max(1, s.Accuracy),
		VerticalAccuracy:   2.0,
	})
}

// SinceLast reports the age of the newest sample at now.
func (t *Tracker) SinceLast(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.empty {
		return 0
	}
	return now.Sub(t.last.Time)
}

// LastKnown is the newest smoothed fix as a bare geopoint.
func (t *Tracker) LastKnown() geopoint.Geopoint {
	return t.Last().Geopoint
}
