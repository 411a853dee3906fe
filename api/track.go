package api

import (
	"context"
	"fmt"

	"github.com/ambyltd/guide-sub000/events"
	"github.com/ambyltd/guide-sub000/geo/fence"
	"github.com/ambyltd/guide-sub000/geo/nearby"
	"github.com/ambyltd/guide-sub000/geo/trigger"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// TrackResult is everything one tracked fix produces: the enriched
// sample, geofence transitions, audio-guide detections, and nearby
// recommendations.
type TrackResult struct {
	Sample          tracksample.Sample  `json:"sample"`
	SpeedKmh        float64             `json:"speedKmh"`
	FenceEvents     []fence.Event       `json:"fenceEvents"`
	Triggers        []trigger.Detection `json:"triggers"`
	Recommendations []Recommendation    `json:"recommendations"`
}

// Recommendation is a nearby POI graded for the visitor's attention.
// Featured catalog entries are surfaced as high priority.
type Recommendation struct {
	nearby.POI
	Priority string `json:"priority"`
}

const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// TrackSample ingests one raw fix for a session.
//
// The pipeline: smooth and enrich through the session tracker, persist
// to the append-only log, evaluate geofences against persisted
// membership, detect audio-guide triggers, and recommend POIs the
// visitor is standing at. Publish-to-feed happens last, after the write
// succeeds; subscribers never see a sample that wasn't stored.
func (g *Guide) TrackSample(ctx context.Context, sessionID string, raw tracksample.Sample) (TrackResult, error) {
	if sessionID == "" {
		return TrackResult{}, fmt.Errorf("empty session id")
	}
	if err := ctx.Err(); err != nil {
		return TrackResult{}, err
	}

	t := g.trackerFor(sessionID)
	enriched, err := t.Add(raw)
	if err != nil {
		return TrackResult{}, err
	}

	session := g.Sessions.Session(sessionID)
	if err := session.AppendSample(enriched); err != nil {
		return TrackResult{}, err
	}

	result := TrackResult{Sample: enriched, SpeedKmh: enriched.SpeedKmh()}

	fences, err := g.evaluateFences(session, enriched)
	if err != nil {
		return result, err
	}
	result.FenceEvents = fences

	detections, err := g.Triggers(sessionID, enriched.Geopoint)
	if err != nil {
		return result, err
	}
	result.Triggers = detections

	recs, err := g.recommend(enriched)
	if err != nil {
		return result, err
	}
	result.Recommendations = recs

	events.StoredSampleFeed.Send(events.SessionSample{SessionID: sessionID, Sample: enriched})
	for _, ev := range fences {
		events.GeofenceFeed.Send(events.SessionFenceEvent{SessionID: sessionID, Event: ev})
	}
	return result, nil
}

func (g *Guide) evaluateFences(session fence.MembershipStore, s tracksample.Sample) ([]fence.Event, error) {
	candidates, err := g.POIs.FindNear(s.Geopoint, g.Config.Geofence.SearchRadius)
	if err != nil {
		return nil, err
	}
	ev := fence.NewEvaluator(g.Config.Geofence, session)
	return ev.Evaluate(s.Geopoint, s.CalculatedSpeed(), candidates)
}

// recommend returns the few POIs the visitor is effectively at,
// nearest first, featured entries marked high priority.
func (g *Guide) recommend(s tracksample.Sample) ([]Recommendation, error) {
	cfg := g.Config.Tracker
	candidates, err := g.POIs.FindNear(s.Geopoint, cfg.NearbyRadius)
	if err != nil {
		return nil, err
	}
	found := nearby.Find(s.Geopoint, cfg.NearbyRadius, candidates,
		nearby.Filters{Limit: cfg.RecommendationLimit}, g.Config.Nearby)

	recs := make([]Recommendation, 0, len(found))
	for _, p := range found {
		priority := PriorityNormal
		if p.Featured {
			priority = PriorityHigh
		}
		recs = append(recs, Recommendation{POI: p, Priority: priority})
	}
	return recs, nil
}
