// Package events carries the daemon's pub/sub feeds. Subscribers (the
// live socket, the metrics exporter) attach without the tracking path
// knowing about them.
package events

import (
	"github.com/ethereum/go-ethereum/event"

	"github.com/ambyltd/guide-sub000/geo/fence"
	"github.com/ambyltd/guide-sub000/geo/trigger"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

type SessionSample struct {
	SessionID string             `json:"sessionId"`
	Sample    tracksample.Sample `json:"sample"`
}

type SessionFenceEvent struct {
	SessionID string      `json:"sessionId"`
	Event     fence.Event `json:"event"`
}

type SessionTrigger struct {
	SessionID string            `json:"sessionId"`
	Detection trigger.Detection `json:"detection"`
}

// StoredSampleFeed is emitted for every sample that is successfully
// enriched and persisted. Subscribers see samples after smoothing and
// classification, not the raw device fixes.
var StoredSampleFeed = event.FeedOf[SessionSample]{}

// GeofenceFeed is emitted once per entry/exit transition.
var GeofenceFeed = event.FeedOf[SessionFenceEvent]{}

// TriggerFeed is emitted for every audio-guide detection returned to a
// client, including re-detections on subsequent fixes.
var TriggerFeed = event.FeedOf[SessionTrigger]{}
