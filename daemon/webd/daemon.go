/*
Package webd is the guide's HTTP daemon: the JSON API the mobile client
talks to, plus a websocket that mirrors live tracking activity.
*/
package webd

import (
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/olahol/melody"

	"github.com/ambyltd/guide-sub000/api"
	"github.com/ambyltd/guide-sub000/params"
)

type WebDaemon struct {
	Config *params.WebDaemonConfig
	Guide  *api.Guide

	started        time.Time
	logger         *slog.Logger
	melodyInstance *melody.Melody
}

func NewWebDaemon(config *params.WebDaemonConfig, guide *api.Guide) *WebDaemon {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	return &WebDaemon{
		Config: config,
		Guide:  guide,
		logger: slog.With("d", "web"),
	}
}

// Run starts the HTTP server and waits for it, returning any server
// error.
func (s *WebDaemon) Run() error {
	s.started = time.Now()
	router := s.NewRouter()

	listener, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	log.Printf("Starting web daemon on %s", s.Config.Address)
	return http.Serve(listener, router)
}

func (s *WebDaemon) NewRouter() *mux.Router {
	s.initMelody()

	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiRoutes.Path("/sotour").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.melodyInstance.HandleRequest(w, r)
	})

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/nearby").HandlerFunc(s.handleNearby).Methods(http.MethodGet)
	apiJSONRoutes.Path("/triggers").HandlerFunc(s.handleTriggers).Methods(http.MethodGet)
	apiJSONRoutes.Path("/predict/{session}").HandlerFunc(s.handlePredict).Methods(http.MethodGet)
	apiJSONRoutes.Path("/last/{session}").HandlerFunc(s.handleLastKnown).Methods(http.MethodGet)
	apiJSONRoutes.Path("/route").HandlerFunc(s.handleRoute).Methods(http.MethodPost)

	// Audio redirects to a presigned URL; not JSON.
	apiRoutes.Path("/audio/{guide}").HandlerFunc(s.handleAudio).Methods(http.MethodGet)

	authenticatedAPIRoutes := apiJSONRoutes.NewRoute().Subrouter()
	authenticatedAPIRoutes.Use(tokenAuthenticationMiddleware)

	authenticatedAPIRoutes.Path("/track/{session}").HandlerFunc(s.handleTrack).Methods(http.MethodPost)
	authenticatedAPIRoutes.Path("/track/{session}/").HandlerFunc(s.handleTrack).Methods(http.MethodPost)

	return router
}
