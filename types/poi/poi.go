package poi

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ambyltd/guide-sub000/types/geopoint"
)

// POI is an attraction-like entity with a fixed location.
// Popularity, crowd level, and rating are opaque numeric attributes supplied
// by the data layer (ML feature scores, review aggregates); the analytics
// core only consumes them as weighted-sum inputs and never computes them.
type POI struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Location geopoint.Geopoint  `json:"location"`

	// GPSAccuracy is the recorded accuracy of the POI's surveyed fix, meters.
	GPSAccuracy float64 `json:"gpsAccuracy,omitempty"`

	Popularity float64 `json:"popularity,omitempty"` // [0,1]
	CrowdLevel CrowdLevel `json:"crowdLevel,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	Featured   bool    `json:"featured,omitempty"`

	// VisitDuration is the optimal visit duration.
	VisitDuration time.Duration `json:"visitDuration,omitempty"`

	Geofence Geofence `json:"geofence"`
}

// Geofence is a circular boundary around a POI used to trigger
// location-based events.
type Geofence struct {
	Radius            float64       `json:"radius"` // meters
	EntryTrigger      bool          `json:"entryTrigger"`
	ExitTrigger       bool          `json:"exitTrigger"`
	DwellTimeTrigger  time.Duration `json:"dwellTimeTrigger,omitempty"`
	AccuracyThreshold float64       `json:"accuracyThreshold,omitempty"` // meters
}

// AudioGuideAnchor is the GPS anchor of a playable audio guide.
type AudioGuideAnchor struct {
	GuideID  string            `json:"guideId"`
	POIID    string            `json:"poiId,omitempty"`
	Location geopoint.Geopoint `json:"location"`

	// Accuracy is the recorded accuracy of the anchor's surveyed fix, meters.
	Accuracy float64 `json:"accuracy,omitempty"`

	// OptimalListeningRadius is where playback sounds "right", meters.
	OptimalListeningRadius float64 `json:"optimalListeningRadius"`

	// TriggerDistance is the radius within which the guide is reachable
	// and may be offered to the user, meters.
	TriggerDistance float64 `json:"triggerDistance"`

	// AccuracyThreshold caps how sloppy the user's own fix may be
	// before the guide is withheld, meters.
	AccuracyThreshold float64 `json:"accuracyThreshold"`

	AutoPlay bool `json:"autoPlay,omitempty"`

	// AudioS3 optionally locates the playable asset, "bucket/key".
	AudioS3 string `json:"audioS3,omitempty"`
}

func (p *POI) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("empty poi id")
	}
	if err := p.Location.Validate(); err != nil {
		return fmt.Errorf("poi %s: %w", p.ID, err)
	}
	if p.Geofence.Radius < 0 {
		return fmt.Errorf("poi %s: negative geofence radius", p.ID)
	}
	return nil
}

func (a *AudioGuideAnchor) Validate() error {
	if a.GuideID == "" {
		return fmt.Errorf("empty guide id")
	}
	if err := a.Location.Validate(); err != nil {
		return fmt.Errorf("anchor %s: %w", a.GuideID, err)
	}
	if a.TriggerDistance <= 0 {
		return fmt.Errorf("anchor %s: non-positive trigger distance", a.GuideID)
	}
	return nil
}

// CrowdLevel buckets how crowded a POI currently is.
// Supplied by the data layer; -1 when unreported.
type CrowdLevel int

const (
	CrowdLevelLow CrowdLevel = iota
	CrowdLevelModerate
	CrowdLevelHigh
	CrowdLevelUnknown CrowdLevel = -1
)

var (
	crowdLow      = regexp.MustCompile(`(?i)^low|quiet|empty`)
	crowdModerate = regexp.MustCompile(`(?i)^mod|medium|normal`)
	crowdHigh     = regexp.MustCompile(`(?i)^high|busy|crowded|packed`)
)

func (c CrowdLevel) String() string {
	switch c {
	case CrowdLevelLow:
		return "low"
	case CrowdLevelModerate:
		return "moderate"
	case CrowdLevelHigh:
		return "high"
	}
	return "unknown"
}

func (c CrowdLevel) IsKnown() bool { return c != CrowdLevelUnknown }

func CrowdLevelFromString(str string) CrowdLevel {
	switch {
	case crowdLow.MatchString(str):
		return CrowdLevelLow
	case crowdModerate.MatchString(str):
		return CrowdLevelModerate
	case crowdHigh.MatchString(str):
		return CrowdLevelHigh
	}
	return CrowdLevelUnknown
}

// MarshalJSON encodes the level as its string name.
func (c CrowdLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *CrowdLevel) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*c = CrowdLevelFromString(s)
	return nil
}
