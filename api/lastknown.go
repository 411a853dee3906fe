package api

import (
	"fmt"

	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// LastKnown returns the session's most recent persisted sample.
func (g *Guide) LastKnown(sessionID string) (tracksample.Sample, error) {
	s, found, err := g.Sessions.Session(sessionID).LastKnown()
	if err != nil {
		return tracksample.Sample{}, err
	}
	if !found {
		return tracksample.Sample{}, fmt.Errorf("no samples for session %q", sessionID)
	}
	return s, nil
}
