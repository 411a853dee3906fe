package webd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ambyltd/guide-sub000/geo/nearby"
	"github.com/ambyltd/guide-sub000/geo/predict"
	"github.com/ambyltd/guide-sub000/geo/route"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	POIs      int                     `json:"pois"`
	Anchors   int                     `json:"anchors"`
	Sessions  int                     `json:"sessions"`
	WSOpen    bool                    `json:"ws_open"`
	WSConns   int                     `json:"ws_conns"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	pois, anchors, err := s.Guide.POIs.Counts()
	if err != nil {
		s.logger.Error("Failed to count catalog", "error", err)
		http.Error(w, "Failed to count catalog", http.StatusInternalServerError)
		return
	}
	sessions, err := s.Guide.Sessions.SessionCount()
	if err != nil {
		s.logger.Error("Failed to count sessions", "error", err)
		http.Error(w, "Failed to count sessions", http.StatusInternalServerError)
		return
	}
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Config:    s.Config,
		POIs:      pois,
		Anchors:   anchors,
		Sessions:  sessions,
		WSOpen:    !s.melodyInstance.IsClosed(),
		WSConns:   s.melodyInstance.Len(),
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal status", "error", err)
		http.Error(w, "Failed to marshal status", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(j)
}

// originForRequest parses lat/lng/accuracy query params into a fix.
func originForRequest(r *http.Request) (geopoint.Geopoint, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return geopoint.Geopoint{}, fmt.Errorf("bad or missing lat")
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return geopoint.Geopoint{}, fmt.Errorf("bad or missing lng")
	}
	origin := geopoint.Geopoint{Lat: lat, Lng: lng, Time: time.Now()}
	if v := q.Get("accuracy"); v != "" {
		acc, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return geopoint.Geopoint{}, fmt.Errorf("bad accuracy")
		}
		origin.Accuracy = acc
	}
	if err := origin.Validate(); err != nil {
		return geopoint.Geopoint{}, err
	}
	return origin, nil
}

func (s *WebDaemon) handleNearby(w http.ResponseWriter, r *http.Request) {
	origin, err := originForRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	radius := params.RadiusMax / 10
	if v := q.Get("radius"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "bad radius", http.StatusBadRequest)
			return
		}
	}
	if radius < params.RadiusMin || radius > params.RadiusMax {
		http.Error(w, fmt.Sprintf("radius out of bounds [%.0f,%.0f]", params.RadiusMin, params.RadiusMax),
			http.StatusBadRequest)
		return
	}

	filters := nearby.Filters{
		Category: q.Get("category"),
		SortBy:   nearby.SortKey(q.Get("sortBy")),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 || limit > params.LimitMax {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		filters.Limit = limit
	}

	found, err := s.Guide.Nearby(origin, radius, filters)
	if err != nil {
		s.logger.Error("Nearby search failed", "error", err)
		http.Error(w, "Nearby search failed", http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(found); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) handleTriggers(w http.ResponseWriter, r *http.Request) {
	origin, err := originForRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	detections, err := s.Guide.Triggers(r.URL.Query().Get("session"), origin)
	if err != nil {
		s.logger.Error("Trigger detection failed", "error", err)
		http.Error(w, "Trigger detection failed", http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(detections); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

type routeRequest struct {
	Start        geopoint.Geopoint `json:"start"`
	CandidateIDs []string          `json:"candidateIds,omitempty"`
	Constraints  route.Constraints `json:"constraints"`
}

func (s *WebDaemon) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode", http.StatusUnprocessableEntity)
		return
	}
	if err := req.Start.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	optimized, err := s.Guide.OptimizeRoute(r.Context(), req.Start, req.CandidateIDs, req.Constraints)
	if err != nil {
		s.logger.Error("Route optimization failed", "error", err)
		http.Error(w, "Route optimization failed", http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(optimized); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) handlePredict(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]

	// Optional velocity/heading pins from the client, overriding the
	// trend derived from samples.
	var overrides predict.Overrides
	q := r.URL.Query()
	if v := q.Get("velocity"); v != "" {
		velocity, err := strconv.ParseFloat(v, 64)
		if err != nil || velocity < 0 {
			http.Error(w, "bad velocity", http.StatusBadRequest)
			return
		}
		overrides.Velocity = &velocity
	}
	if v := q.Get("heading"); v != "" {
		heading, err := strconv.ParseFloat(v, 64)
		if err != nil || heading < 0 || heading > 360 {
			http.Error(w, "bad heading", http.StatusBadRequest)
			return
		}
		overrides.Heading = &heading
	}

	prediction, err := s.Guide.PredictMovement(session, overrides)
	if err != nil {
		s.logger.Error("Prediction failed", "error", err, "session", session)
		http.Error(w, "Prediction failed", http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(prediction); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) handleLastKnown(w http.ResponseWriter, r *http.Request) {
	session := mux.Vars(r)["session"]
	last, err := s.Guide.LastKnown(session)
	if err != nil {
		http.Error(w, "No samples found", http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(last); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *WebDaemon) handleAudio(w http.ResponseWriter, r *http.Request) {
	guideID := mux.Vars(r)["guide"]
	url, err := s.Guide.ResolveAudio(guideID)
	if err != nil {
		s.logger.Warn("Failed to resolve audio", "error", err, "guide", guideID)
		http.Error(w, "No audio found", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
