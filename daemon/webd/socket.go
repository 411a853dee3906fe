package webd

import (
	"encoding/json"
	"log"
	"log/slog"

	"github.com/olahol/melody"

	"github.com/ambyltd/guide-sub000/events"
)

type websocketAction string

const (
	websocketActionSample   websocketAction = "sample"
	websocketActionGeofence websocketAction = "geofence"
	websocketActionTrigger  websocketAction = "trigger"
)

type broadcast struct {
	Action  websocketAction `json:"action"`
	Payload any             `json:"payload"`
}

// initMelody sets up the websocket handler.
// Every stored sample, geofence transition, and trigger detection is
// broadcast to all connected clients as it happens. This is the live
// mirror, not the stored truth; clients wanting history read the API.
func (s *WebDaemon) initMelody() {
	s.melodyInstance = melody.New()

	s.melodyInstance.HandleConnect(func(sess *melody.Session) {
		log.Println("[websocket] connected", sess.Request.RemoteAddr)
	})

	// Right now don't care about incoming messages from clients. Log and drop.
	s.melodyInstance.HandleMessage(loggingHandler)

	s.melodyInstance.HandleDisconnect(func(sess *melody.Session) {
		log.Println("[websocket] disconnected", sess.Request.RemoteAddr)
	})

	s.melodyInstance.HandleError(func(sess *melody.Session, e error) {
		log.Println("[websocket] error", e, sess.Request.RemoteAddr)
	})

	samples := make(chan events.SessionSample, 16)
	fences := make(chan events.SessionFenceEvent, 16)
	triggers := make(chan events.SessionTrigger, 16)
	sampleSub := events.StoredSampleFeed.Subscribe(samples)
	fenceSub := events.GeofenceFeed.Subscribe(fences)
	triggerSub := events.TriggerFeed.Subscribe(triggers)

	go func() {
		for {
			select {
			case v := <-samples:
				s.broadcastEvent(websocketActionSample, v)
			case v := <-fences:
				s.broadcastEvent(websocketActionGeofence, v)
			case v := <-triggers:
				s.broadcastEvent(websocketActionTrigger, v)
			case err := <-sampleSub.Err():
				slog.Error("Failed to subscribe to StoredSampleFeed", "error", err)
				return
			case err := <-fenceSub.Err():
				slog.Error("Failed to subscribe to GeofenceFeed", "error", err)
				return
			case err := <-triggerSub.Err():
				slog.Error("Failed to subscribe to TriggerFeed", "error", err)
				return
			}
		}
	}()
}

func (s *WebDaemon) broadcastEvent(action websocketAction, payload any) {
	b, err := json.Marshal(broadcast{Action: action, Payload: payload})
	if err != nil {
		slog.Error("Failed to marshal websocket event", "error", err)
		return
	}
	if err := s.melodyInstance.Broadcast(b); err != nil {
		slog.Warn("Failed to broadcast websocket event", "error", err)
	}
}

// on request
func loggingHandler(s *melody.Session, msg []byte) {
	log.Println("[websocket] message", string(msg))
}
