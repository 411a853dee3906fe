package api

import (
	"github.com/ambyltd/guide-sub000/geo/predict"
)

// PredictMovement projects the session's near-future positions from its
// recent persisted samples. The in-memory tracker window is preferred
// when live; otherwise the session log backfills, so a daemon restart
// doesn't blank predictions. Overrides pin the projection speed and
// heading when the client supplies its own.
func (g *Guide) PredictMovement(sessionID string, overrides predict.Overrides) (predict.Prediction, error) {
	t := g.trackers.Get(sessionID)
	if t != nil && !t.Value().IsEmpty() {
		return predict.Predict(t.Value().Samples(), g.now(), overrides, g.Config.Predictor), nil
	}

	samples, err := g.Sessions.Session(sessionID).Samples(g.Config.Tracker.WindowSize)
	if err != nil {
		return predict.Prediction{}, err
	}
	return predict.Predict(samples, g.now(), overrides, g.Config.Predictor), nil
}
