/*
Package trigger decides which audio guides should fire for a fix.

A guide is not offered to a user whose own fix is too imprecise to trust,
even if the midpoint distance looks close: both the distance leg and the
accuracy leg of the predicate must hold.
*/
package trigger

import (
	"math"
	"slices"
	"strings"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

type Type string

const (
	TypeOptimal     Type = "optimal"
	TypeClose       Type = "close"
	TypeApproaching Type = "approaching"
)

type Detection struct {
	Anchor      poi.AudioGuideAnchor `json:"anchor"`
	Distance    float64              `json:"distance"` // meters
	TriggerType Type                 `json:"triggerType"`
	Confidence  float64              `json:"confidence"` // [0,1]
}

// Detect returns the guides that fire for the given fix, ascending by
// distance (ties broken by guide ID for a stable order).
//
// Predicate: distance <= triggerDistance + originAccuracy AND
// originAccuracy <= anchor accuracy threshold.
//
// Confidence blends proximity confidence and fix-quality confidence:
//
//	(max(0, 1-distance/triggerDistance) + max(0, 1-accuracy/accuracyThreshold)) / 2
func Detect(origin geopoint.Geopoint, originAccuracy float64, candidates []poi.AudioGuideAnchor, config *params.TriggerConfig) []Detection {
	if config == nil {
		config = params.DefaultTriggerConfig
	}

	out := []Detection{}
	for _, anchor := range candidates {
		if anchor.TriggerDistance <= 0 {
			continue
		}
		distance := common.Distance(origin.Point(), anchor.Location.Point())
		if distance > anchor.TriggerDistance+originAccuracy {
			continue
		}
		if anchor.AccuracyThreshold > 0 && originAccuracy > anchor.AccuracyThreshold {
			continue
		}
		out = append(out, Detection{
			Anchor:      anchor,
			Distance:    distance,
			TriggerType: classify(distance, anchor, config),
			Confidence:  confidence(distance, originAccuracy, anchor),
		})
	}

	slices.SortStableFunc(out, func(a, b Detection) int {
		if a.Distance < b.Distance {
			return -1
		} else if a.Distance > b.Distance {
			return 1
		}
		return strings.Compare(a.Anchor.GuideID, b.Anchor.GuideID)
	})
	return out
}

func classify(distance float64, anchor poi.AudioGuideAnchor, config *params.TriggerConfig) Type {
	if distance <= anchor.OptimalListeningRadius {
		return TypeOptimal
	}
	if distance <= config.CloseFactor*anchor.TriggerDistance {
		return TypeClose
	}
	return TypeApproaching
}

func confidence(distance, accuracy float64, anchor poi.AudioGuideAnchor) float64 {
	proximity := math.Max(0, 1-distance/anchor.TriggerDistance)
	quality := 1.0
	if anchor.AccuracyThreshold > 0 {
		quality = math.Max(0, 1-accuracy/anchor.AccuracyThreshold)
	}
	return (proximity + quality) / 2
}
