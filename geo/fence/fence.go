/*
Package fence evaluates attraction geofences against a visitor's fix.

The evaluator is transition-correct by default: it remembers whether a
session was previously inside each fence, and an exit only fires when the
previous state was "inside". The legacy behavior (an exit event every tick
the fix is outside the radius, conflating "never was inside" with "just
left") is available via GeofenceConfig.LooseExit.
*/
package fence

import (
	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

type EventType string

const (
	EventEntry EventType = "entry"
	EventExit  EventType = "exit"
)

type Event struct {
	Type     EventType `json:"type"`
	POIID    string    `json:"poiId"`
	Distance float64   `json:"distance"` // meters
	Velocity float64   `json:"velocity"` // m/s at evaluation time
}

// MembershipStore records whether a session was last seen inside a fence.
// Implementations must be scoped to a single session.
type MembershipStore interface {
	IsInside(poiID string) bool
	SetInside(poiID string, inside bool) error
}

// MapMembership is the in-memory MembershipStore.
type MapMembership map[string]bool

func (m MapMembership) IsInside(poiID string) bool { return m[poiID] }
func (m MapMembership) SetInside(poiID string, inside bool) error {
	m[poiID] = inside
	return nil
}

type Evaluator struct {
	Config  *params.GeofenceConfig
	Members MembershipStore
}

func NewEvaluator(config *params.GeofenceConfig, members MembershipStore) *Evaluator {
	if config == nil {
		config = params.DefaultGeofenceConfig
	}
	if members == nil {
		members = MapMembership{}
	}
	return &Evaluator{Config: config, Members: members}
}

// Evaluate emits entry/exit events for the candidates. A single POI never
// fires both in one evaluation: a distance cannot be both inside and
// outside the radius.
//
// Fixes sloppier than a fence's accuracy threshold are not judged at all;
// a 90m-uncertain fix says nothing about a 50m fence.
func (e *Evaluator) Evaluate(origin geopoint.Geopoint, velocity float64, candidates []poi.POI) ([]Event, error) {
	events := []Event{}
	for _, p := range candidates {
		gf := p.Geofence
		if gf.Radius <= 0 {
			continue
		}
		if gf.AccuracyThreshold > 0 && origin.Accuracy > gf.AccuracyThreshold {
			continue
		}

		distance := common.Distance(origin.Point(), p.Location.Point())
		inside := distance <= gf.Radius

		if e.Config.LooseExit {
			// Legacy semantics: judge only the current distance.
			if inside && gf.EntryTrigger {
				events = append(events, Event{EventEntry, p.ID, distance, velocity})
			} else if !inside && gf.ExitTrigger {
				events = append(events, Event{EventExit, p.ID, distance, velocity})
			}
			continue
		}

		wasInside := e.Members.IsInside(p.ID)
		if inside == wasInside {
			continue
		}
		// Membership flips regardless of which triggers are enabled,
		// so enabling a trigger later starts from the true state.
		if err := e.Members.SetInside(p.ID, inside); err != nil {
			return events, err
		}
		if inside && gf.EntryTrigger {
			events = append(events, Event{EventEntry, p.ID, distance, velocity})
		} else if !inside && gf.ExitTrigger {
			events = append(events, Event{EventExit, p.ID, distance, velocity})
		}
	}
	return events, nil
}
