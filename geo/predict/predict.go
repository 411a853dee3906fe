/*
Package predict projects a visitor's near-future positions.

Prediction is dead reckoning from the recent window: average speed along
the circular-mean bearing, projected over fixed horizons. Confidence is
honest about data quality; fewer than MinSamples yields an explicit
floor-confidence empty result instead of a guess.
*/
package predict

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/geo/motion"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/movement"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// PredictedPoint is one projected position at a forecast horizon.
type PredictedPoint struct {
	Location   geopoint.Geopoint `json:"location"`
	Time       time.Time         `json:"time"`
	Horizon    time.Duration     `json:"horizon"`
	Confidence float64           `json:"confidence"` // [0,1]
}

type Prediction struct {
	Path []PredictedPoint `json:"path"`

	AverageSpeed       float64          `json:"averageSpeed"`       // m/s
	AverageDirection   float64          `json:"averageDirection"`   // degrees [0,360)
	DirectionStability float64          `json:"directionStability"` // [0,1]
	OverallConfidence  float64          `json:"overallConfidence"`  // [0,1]
	Pattern            movement.Pattern `json:"pattern"`
}

// Overrides lets a caller pin the projection inputs when the client
// knows better than the sample trend (a device-reported velocity, say).
// Nil fields fall back to the derived values.
type Overrides struct {
	Velocity *float64 // m/s
	Heading  *float64 // degrees [0,360)
}

// Predict projects the session's position at each configured horizon.
// now anchors recency decay; pass time.Now() outside tests.
func Predict(samples []tracksample.Sample, now time.Time, overrides Overrides, config *params.PredictorConfig) Prediction {
	if config == nil {
		config = params.DefaultPredictorConfig()
	}
	if len(samples) < config.MinSamples {
		return Prediction{
			Path:              []PredictedPoint{},
			OverallConfidence: config.FloorConfidence,
			Pattern:           movement.PatternUnknown,
		}
	}

	speed := motion.AverageSpeed(samples)
	if overrides.Velocity != nil {
		speed = math.Max(0, *overrides.Velocity)
	}
	direction := motion.MeanBearing(samples)
	if overrides.Heading != nil {
		direction = math.Mod(math.Mod(*overrides.Heading, 360)+360, 360)
	}
	stability := common.Clamp01(1 - motion.BearingDeltaStddev(samples)/180)
	overall := overallConfidence(samples, now, config)

	last := samples[len(samples)-1]
	longest := longestHorizon(config.Horizons)

	path := make([]PredictedPoint, 0, len(config.Horizons))
	for _, h := range config.Horizons {
		dest := common.DestinationPoint(last.Point(), speed*h.Seconds(), direction)
		path = append(path, PredictedPoint{
			Location:   geopoint.FromPoint(dest),
			Time:       last.Time.Add(h),
			Horizon:    h,
			Confidence: horizonConfidence(overall, h, longest, config),
		})
	}

	return Prediction{
		Path:               path,
		AverageSpeed:       common.DecimalToFixed(speed, 2),
		AverageDirection:   common.DecimalToFixed(direction, 1),
		DirectionStability: common.DecimalToFixed(stability, 3),
		OverallConfidence:  common.DecimalToFixed(overall, 3),
		Pattern:            movement.InferFromSpeed(speed),
	}
}

// overallConfidence blends three signals, equally weighted:
// speed consistency (inverse coefficient of variation), fix quality
// (mean accuracy against the ceiling), and recency of the last sample.
func overallConfidence(samples []tracksample.Sample, now time.Time, config *params.PredictorConfig) float64 {
	speeds := make([]float64, 0, len(samples))
	accuracies := make([]float64, 0, len(samples))
	for i := range samples {
		speeds = append(speeds, samples[i].CalculatedSpeed())
		accuracies = append(accuracies, samples[i].Accuracy)
	}

	consistency := 1.0
	if mean, err := stats.Mean(stats.Float64Data(speeds)); err == nil && mean > 0 {
		if sd, err := stats.StandardDeviation(stats.Float64Data(speeds)); err == nil {
			consistency = common.Clamp01(1 - sd/mean)
		}
	}

	quality := 0.0
	if meanAcc, err := stats.Mean(stats.Float64Data(accuracies)); err == nil {
		quality = common.Clamp01(1 - meanAcc/config.AccuracyCeiling)
	}

	age := now.Sub(samples[len(samples)-1].Time)
	recency := common.Clamp01(1 - age.Seconds()/config.RecencyWindow.Seconds())

	return (consistency + quality + recency) / 3
}

// horizonConfidence decays linearly to zero at the longest configured
// horizon; FloorConfidence keeps the value above hard zero.
func horizonConfidence(overall float64, h, longest time.Duration, config *params.PredictorConfig) float64 {
	factor := 1.0
	if longest > 0 {
		factor = 1 - float64(h)/float64(longest)
	}
	return common.DecimalToFixed(math.Max(config.FloorConfidence, overall*factor), 3)
}

func longestHorizon(horizons []time.Duration) time.Duration {
	longest := time.Duration(0)
	for _, h := range horizons {
		if h > longest {
			longest = h
		}
	}
	return longest
}
