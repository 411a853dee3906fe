package webd

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gorilla/mux"

	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// handleTrack is where tracked fixes get posted and persisted.
// The body is either a single sample object or an array of samples;
// batches are sorted by time and fed through the tracker in order. The
// response is the result of the last sample, which is what a live
// client acts on.
func (s *WebDaemon) handleTrack(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]

	if r.Body == nil {
		s.logger.Error("No request body", "method", r.Method, "url", r.URL)
		http.Error(w, "Please send a request body", http.StatusBadRequest)
		return
	}

	samples, err := decodeSamplesShotgun(r)
	if err != nil || len(samples) == 0 {
		s.logger.Error("Failed to decode", "error", err)
		http.Error(w, "Failed to decode", http.StatusUnprocessableEntity)
		return
	}

	slices.SortStableFunc(samples, tracksample.SlicesSortFunc)

	ctx := r.Context()
	for i, sample := range samples {
		result, err := s.Guide.TrackSample(ctx, session, sample)
		if err != nil {
			s.logger.Error("Failed to track sample", "error", err, "session", session)
			http.Error(w, "Failed to track sample", http.StatusInternalServerError)
			return
		}
		if i == len(samples)-1 {
			if err := json.NewEncoder(w).Encode(result); err != nil {
				s.logger.Warn("Failed to write response", "error", err)
			}
		}
	}
}

// decodeSamplesShotgun accepts a single sample or an array of samples.
func decodeSamplesShotgun(r *http.Request) ([]tracksample.Sample, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	trimmed := raw
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var samples []tracksample.Sample
		if err := json.Unmarshal(raw, &samples); err != nil {
			return nil, err
		}
		return samples, nil
	}
	var sample tracksample.Sample
	if err := json.Unmarshal(raw, &sample); err != nil {
		return nil, err
	}
	return []tracksample.Sample{sample}, nil
}
