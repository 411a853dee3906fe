package api

import (
	"github.com/ambyltd/guide-sub000/events"
	"github.com/ambyltd/guide-sub000/geo/trigger"
	"github.com/ambyltd/guide-sub000/types/geopoint"
)

// Triggers detects which audio guides should fire for the fix.
// sessionID may be empty for anonymous detection; it only feeds the
// event stream.
func (g *Guide) Triggers(sessionID string, origin geopoint.Geopoint) ([]trigger.Detection, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	candidates, err := g.POIs.AnchorsNear(origin, g.Config.Trigger.SearchRadius)
	if err != nil {
		return nil, err
	}
	detections := trigger.Detect(origin, origin.Accuracy, candidates, g.Config.Trigger)

	for _, d := range detections {
		events.TriggerFeed.Send(events.SessionTrigger{SessionID: sessionID, Detection: d})
	}
	return detections, nil
}
