/*
Package motion classifies movement patterns from trailing samples.

Classification never trusts a single fix: it averages calculated speeds
over the last few samples and measures direction stability as the spread
of bearing changes between consecutive fixes.
*/
package motion

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/movement"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// Classify buckets the trailing samples into a movement pattern.
// A session with no usable deltas is "starting", not an error.
func Classify(samples []tracksample.Sample, config *params.MotionConfig) movement.Pattern {
	if config == nil {
		config = params.DefaultMotionConfig
	}
	if len(samples) < 2 {
		return movement.PatternStarting
	}

	// Speed averages over the short trailing window; direction stability
	// wants all the history the caller has.
	trailing := samples
	if len(trailing) > config.Window {
		trailing = trailing[len(trailing)-config.Window:]
	}
	avgSpeed := AverageSpeed(trailing)
	switch {
	case avgSpeed < config.StationaryMaxSpeed:
		return movement.PatternStationary
	case avgSpeed < config.WalkingMaxSpeed:
		return movement.PatternWalking
	case avgSpeed < config.CyclingMaxSpeed:
		return movement.PatternCycling
	}

	// Faster than a cyclist. Unstable direction means wandering transit
	// (a tour bus weaving the old town); stable direction means headed
	// somewhere.
	if BearingDeltaStddev(samples) > config.BearingStddevThreshold {
		return movement.PatternExploring
	}
	return movement.PatternDirected
}

// AverageSpeed is the mean calculated speed over the samples, m/s.
func AverageSpeed(samples []tracksample.Sample) float64 {
	speeds := make([]float64, 0, len(samples))
	for i := range samples {
		if i == 0 && samples[i].TimeFromPrevious <= 0 {
			continue
		}
		speeds = append(speeds, samples[i].CalculatedSpeed())
	}
	mean, err := stats.Mean(stats.Float64Data(speeds))
	if err != nil {
		return 0
	}
	return mean
}

// Bearings returns the consecutive-pair bearings along the samples,
// degrees [0,360).
func Bearings(samples []tracksample.Sample) []float64 {
	out := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		out = append(out, common.Bearing(samples[i-1].Point(), samples[i].Point()))
	}
	return out
}

// BearingDeltaStddev measures direction stability as the standard
// deviation of bearing changes, degrees. Changes are mapped to
// [-180,180] so that 350° -> 10° counts as a 20° wobble, not a 340° one.
func BearingDeltaStddev(samples []tracksample.Sample) float64 {
	bearings := Bearings(samples)
	if len(bearings) < 2 {
		return 0
	}
	deltas := make([]float64, 0, len(bearings)-1)
	for i := 1; i < len(bearings); i++ {
		d := bearings[i] - bearings[i-1]
		if d > 180 {
			d -= 360
		} else if d < -180 {
			d += 360
		}
		deltas = append(deltas, d)
	}
	sd, err := stats.StandardDeviation(stats.Float64Data(deltas))
	if err != nil {
		return 0
	}
	return sd
}

// MeanBearing is the circular mean of the consecutive-pair bearings,
// degrees [0,360). Naive averaging of 350° and 10° would say south.
func MeanBearing(samples []tracksample.Sample) float64 {
	bearings := Bearings(samples)
	if len(bearings) == 0 {
		return 0
	}
	sinSum, cosSum := 0.0, 0.0
	for _, b := range bearings {
		rad := b * math.Pi / 180
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
	}
	return common.NormalizeBearing(math.Atan2(sinSum, cosSum) * 180 / math.Pi)
}
