package movement

import (
	"regexp"

	"github.com/ambyltd/guide-sub000/common"
)

// Pattern classifies how a visitor is currently moving through the city.
// It is derived from the last few samples' average speed and bearing
// variance, never from a single fix.
type Pattern int

const (
	PatternStarting Pattern = iota // session has no history yet
	PatternStationary
	PatternWalking
	PatternCycling
	PatternExploring // moving, direction unstable; wandering
	PatternDirected  // moving, direction stable; headed somewhere
	PatternUnknown Pattern = -1
)

var (
	patternStarting   = regexp.MustCompile(`(?i)start`)
	patternStationary = regexp.MustCompile(`(?i)stationary|still|idle`)
	patternWalking    = regexp.MustCompile(`(?i)walk`)
	patternCycling    = regexp.MustCompile(`(?i)cycle|bike|biking`)
	patternExploring  = regexp.MustCompile(`(?i)explor|wander`)
	patternDirected   = regexp.MustCompile(`(?i)direct|commut`)
)

// IsMoving returns whether the pattern describes a visitor in motion.
func (p Pattern) IsMoving() bool {
	return p >= PatternWalking && p <= PatternDirected
}

func (p Pattern) IsKnown() bool { return p != PatternUnknown }

// String implements the Stringer interface.
func (p Pattern) String() string {
	switch p {
	case PatternStarting:
		return "starting"
	case PatternStationary:
		return "stationary"
	case PatternWalking:
		return "walking"
	case PatternCycling:
		return "cycling"
	case PatternExploring:
		return "exploring"
	case PatternDirected:
		return "directed"
	}
	return "unknown"
}

func FromString(str string) Pattern {
	switch {
	case patternStarting.MatchString(str):
		return PatternStarting
	case patternStationary.MatchString(str):
		return PatternStationary
	case patternWalking.MatchString(str):
		return PatternWalking
	case patternCycling.MatchString(str):
		return PatternCycling
	case patternExploring.MatchString(str):
		return PatternExploring
	case patternDirected.MatchString(str):
		return PatternDirected
	}
	return PatternUnknown
}

// MarshalJSON encodes the pattern as its string name.
func (p Pattern) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	*p = FromString(s)
	return nil
}

// InferFromSpeed buckets a speed (m/s) into a movement pattern using
// speed thresholds alone. Direction stability must be judged separately;
// anything faster than cycling is treated as directed transit.
func InferFromSpeed(speed float64) Pattern {
	if speed < common.SpeedOfStationaryMax {
		return PatternStationary
	}
	if speed < common.SpeedOfWalkingFastMax {
		return PatternWalking
	}
	if speed < common.SpeedOfCyclingFastMax {
		return PatternCycling
	}
	return PatternDirected
}
