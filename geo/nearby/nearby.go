/*
Package nearby enriches points of interest around a visitor's fix.

Enrichment is a pure read: distance, bearing, compass direction, an
estimated walk time, an accuracy band, and geofence containment. Callers
log search events themselves.
*/
package nearby

import (
	"slices"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

type SortKey string

const (
	SortByDistance   SortKey = "distance"
	SortByPopularity SortKey = "popularity"
	SortByRating     SortKey = "rating"
)

type AccuracyBand string

const (
	AccuracyBandHigh   AccuracyBand = "high"
	AccuracyBandMedium AccuracyBand = "medium"
	AccuracyBandLow    AccuracyBand = "low"
)

type Filters struct {
	Category string  `json:"category,omitempty"`
	SortBy   SortKey `json:"sortBy,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}

// POI is a point of interest enriched relative to a search origin.
type POI struct {
	poi.POI

	Distance          float64      `json:"distance"` // meters
	Bearing           float64      `json:"bearing"`  // degrees [0,360)
	CompassDirection  string       `json:"compassDirection"`
	EstimatedWalkTime int          `json:"estimatedWalkTime"` // minutes
	AccuracyBand      AccuracyBand `json:"accuracyBand"`
	WithinGeofence    bool         `json:"withinGeofence"`
}

// Enrich annotates one POI relative to the origin fix.
func Enrich(origin geopoint.Geopoint, p poi.POI, config *params.NearbyConfig) POI {
	if config == nil {
		config = params.DefaultNearbyConfig
	}
	distance := common.Distance(origin.Point(), p.Location.Point())
	bearing := common.Bearing(origin.Point(), p.Location.Point())
	return POI{
		POI:               p,
		Distance:          distance,
		Bearing:           bearing,
		CompassDirection:  common.CompassDirection(bearing),
		EstimatedWalkTime: common.WalkMinutes(distance),
		AccuracyBand:      bandFor(origin.Accuracy, p.GPSAccuracy, config),
		WithinGeofence:    p.Geofence.Radius > 0 && distance <= p.Geofence.Radius,
	}
}

// bandFor derives the trust band from the mean of the origin fix accuracy
// and the POI's recorded GPS accuracy.
func bandFor(originAccuracy, poiAccuracy float64, config *params.NearbyConfig) AccuracyBand {
	mean := (originAccuracy + poiAccuracy) / 2
	switch {
	case mean <= config.AccuracyHighMax:
		return AccuracyBandHigh
	case mean <= config.AccuracyMediumMax:
		return AccuracyBandMedium
	}
	return AccuracyBandLow
}

// Find enriches, filters, sorts, and caps candidates.
// Sorting is stable: ascending for distance, descending for popularity
// and rating. Candidates beyond radiusMeters are dropped.
func Find(origin geopoint.Geopoint, radiusMeters float64, candidates []poi.POI, filters Filters, config *params.NearbyConfig) []POI {
	if config == nil {
		config = params.DefaultNearbyConfig
	}

	out := make([]POI, 0, len(candidates))
	for _, p := range candidates {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		enriched := Enrich(origin, p, config)
		if enriched.Distance > radiusMeters {
			continue
		}
		out = append(out, enriched)
	}

	slices.SortStableFunc(out, sortFunc(filters.SortBy))

	limit := filters.Limit
	if limit <= 0 {
		limit = config.DefaultLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortFunc(key SortKey) func(a, b POI) int {
	switch key {
	case SortByPopularity:
		return func(a, b POI) int { return cmpDesc(a.Popularity, b.Popularity) }
	case SortByRating:
		return func(a, b POI) int { return cmpDesc(a.Rating, b.Rating) }
	}
	return func(a, b POI) int { return cmpAsc(a.Distance, b.Distance) }
}

func cmpAsc(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func cmpDesc(a, b float64) int { return cmpAsc(b, a) }
