package params

import "time"

// NearbyConfig tunes proximity-search enrichment.
type NearbyConfig struct {
	// AccuracyHighMax and AccuracyMediumMax bound the accuracy bands, meters.
	// The band derives from the mean of the origin fix accuracy and the
	// POI's recorded GPS accuracy; it tells the caller how much to trust
	// the returned distance.
	AccuracyHighMax   float64
	AccuracyMediumMax float64

	// DefaultLimit caps results when the caller doesn't say.
	DefaultLimit int
}

var DefaultNearbyConfig = &NearbyConfig{
	AccuracyHighMax:   10,
	AccuracyMediumMax: 30,
	DefaultLimit:      20,
}

// TriggerConfig tunes audio-guide trigger classification.
type TriggerConfig struct {
	// CloseFactor scales the trigger distance for the "close" band.
	CloseFactor float64

	// SearchRadius bounds the anchor candidate query, meters. It must
	// exceed the largest trigger distance in the catalog plus worst-case
	// GPS accuracy.
	SearchRadius float64
}

var DefaultTriggerConfig = &TriggerConfig{
	CloseFactor:  0.8,
	SearchRadius: 1000,
}

// GeofenceConfig tunes geofence event semantics.
type GeofenceConfig struct {
	// LooseExit restores the legacy behavior: an exit event fires whenever
	// the current distance exceeds the radius, with no memory of prior
	// membership. The default is strict transition semantics, which only
	// emits exit when the session was previously inside.
	LooseExit bool

	// SearchRadius bounds the fence candidate query, meters.
	SearchRadius float64
}

var DefaultGeofenceConfig = &GeofenceConfig{
	LooseExit:    false,
	SearchRadius: 1000,
}

// MotionConfig tunes movement-pattern classification.
type MotionConfig struct {
	// Window is how many trailing samples inform a classification.
	Window int

	StationaryMaxSpeed float64 // m/s
	WalkingMaxSpeed    float64 // m/s
	CyclingMaxSpeed    float64 // m/s

	// BearingStddevThreshold separates exploring from directed movement,
	// degrees. High bearing variance means low direction stability.
	BearingStddevThreshold float64
}

var DefaultMotionConfig = &MotionConfig{
	Window:                 3,
	StationaryMaxSpeed:     0.5,
	WalkingMaxSpeed:        2,
	CyclingMaxSpeed:        15,
	BearingStddevThreshold: 60,
}

// TrackerConfig tunes the per-session journey tracker.
type TrackerConfig struct {
	// NearbyRadius is the tight radius used to find POIs the visitor is
	// standing at, meters.
	NearbyRadius float64

	// RecommendationLimit caps location-based recommendations per sample.
	RecommendationLimit int

	// ResetInterval resets tracker state after a long gap; a visitor
	// returning the next day starts a fresh movement window.
	ResetInterval time.Duration

	// WindowSize bounds the in-memory recent-sample ring.
	WindowSize int
}

var DefaultTrackerConfig = &TrackerConfig{
	NearbyRadius:        50,
	RecommendationLimit: 3,
	ResetInterval:       30 * time.Minute,
	WindowSize:          10,
}

// RouteConfig tunes the route optimizer.
// The scoring weights are tunable constants, not inherent truths;
// alternate weighting strategies should be testable without code changes.
type RouteConfig struct {
	WeightDistance   float64
	WeightPopularity float64
	WeightTimeOfDay  float64

	// WalkPace converts leg distance to walk time, meters per minute.
	WalkPace float64

	// MaxCandidates bounds the O(n^2) distance matrix and greedy selection.
	// Tens, not thousands.
	MaxCandidates int

	// CacheSize bounds the optimized-route memo cache.
	CacheSize int

	// SearchRadius bounds the candidate query around the start point,
	// meters, when the constraints don't cap total distance.
	SearchRadius float64
}

var DefaultRouteConfig = &RouteConfig{
	WeightDistance:   0.4,
	WeightPopularity: 0.4,
	WeightTimeOfDay:  0.2,
	WalkPace:         83,
	MaxCandidates:    50,
	CacheSize:        512,
	SearchRadius:     5000,
}

// PredictorConfig tunes short-horizon movement prediction.
type PredictorConfig struct {
	// MinSamples is the data floor; below it the predictor returns an
	// explicit low-confidence empty result rather than guessing.
	MinSamples int

	// Horizons are the fixed forecast windows.
	Horizons []time.Duration

	// AccuracyCeiling normalizes fix quality, meters. Average reported
	// accuracy at or beyond the ceiling scores zero.
	AccuracyCeiling float64

	// RecencyWindow decays prediction confidence as the last sample ages.
	RecencyWindow time.Duration

	// FloorConfidence is reported when there is not enough data.
	FloorConfidence float64
}

func DefaultPredictorConfig() *PredictorConfig {
	return &PredictorConfig{
		MinSamples: 3,
		Horizons: []time.Duration{
			30 * time.Second,
			60 * time.Second,
			120 * time.Second,
			300 * time.Second,
		},
		AccuracyCeiling: 50,
		RecencyWindow:   10 * time.Minute,
		FloorConfidence: 0.05,
	}
}
