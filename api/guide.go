/*
Package api implements the guide's core operations: proximity search,
audio-guide trigger detection, journey tracking, route optimization, and
movement prediction.

A Guide does not own an HTTP surface; daemon/webd maps requests onto it.
Per-session trackers are held in a TTL cache sized by the tracker reset
interval, so an expired entry and a reset tracker mean the same thing.
*/
package api

import (
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/ambyltd/guide-sub000/geo/tracker"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/poidb"
	"github.com/ambyltd/guide-sub000/state"
)

type Guide struct {
	POIs     *poidb.Store
	Sessions *state.Sessions
	Config   *params.GuideConfig

	// Clock is stubbed by tests; everything else should leave it nil
	// and get time.Now.
	Clock func() time.Time

	logger   *slog.Logger
	trackers *ttlcache.Cache[string, *tracker.Tracker]
	routes   *routeCache
}

func NewGuide(pois *poidb.Store, sessions *state.Sessions, config *params.GuideConfig) *Guide {
	config = config.WithDefaults()
	trackers := ttlcache.New[string, *tracker.Tracker](
		ttlcache.WithTTL[string, *tracker.Tracker](config.Tracker.ResetInterval))
	go trackers.Start()
	return &Guide{
		POIs:     pois,
		Sessions: sessions,
		Config:   config,
		logger:   slog.With("api", "guide"),
		trackers: trackers,
		routes:   newRouteCache(config.Route.CacheSize),
	}
}

func (g *Guide) Close() {
	g.trackers.Stop()
}

func (g *Guide) now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

// trackerFor returns the session's tracker, creating one on first use.
// The TTL refreshes on every touch; trackers only expire idle.
func (g *Guide) trackerFor(sessionID string) *tracker.Tracker {
	if item := g.trackers.Get(sessionID); item != nil {
		return item.Value()
	}
	t := tracker.New(g.Config.Tracker)
	t.Motion = g.Config.Motion
	g.trackers.Set(sessionID, t, ttlcache.DefaultTTL)
	return t
}
