package api

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/geo/fence"
	"github.com/ambyltd/guide-sub000/geo/nearby"
	"github.com/ambyltd/guide-sub000/geo/predict"
	"github.com/ambyltd/guide-sub000/geo/route"
	"github.com/ambyltd/guide-sub000/geo/trigger"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/poidb"
	"github.com/ambyltd/guide-sub000/state"
	"github.com/ambyltd/guide-sub000/testing/testdata"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

func newTestStores(t *testing.T) (*poidb.Store, *state.Sessions) {
	t.Helper()
	pois, err := poidb.Open(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sessions.Close()
		pois.Close()
	})
	return pois, sessions
}

func newTestGuide(t *testing.T) *Guide {
	t.Helper()
	pois, sessions := newTestStores(t)
	for _, p := range testdata.Catalog() {
		if err := pois.UpsertPOI(p); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range testdata.Anchors() {
		if err := pois.UpsertAnchor(a); err != nil {
			t.Fatal(err)
		}
	}
	g := NewGuide(pois, sessions, nil)
	t.Cleanup(g.Close)
	return g
}

func TestGuide_TrackSampleAtAttraction(t *testing.T) {
	g := newTestGuide(t)

	// Standing at the cathedral with a good fix: fence entry, audio
	// trigger, and a recommendation, all from one sample.
	at := testdata.Still(testdata.CathedralePlateau, 1, 10, 5*time.Second)[0]
	result, err := g.TrackSample(context.Background(), "tourist-1", at)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.FenceEvents) != 1 {
		t.Fatalf("expected one fence event, got %v", result.FenceEvents)
	}
	if ev := result.FenceEvents[0]; ev.Type != fence.EventEntry || ev.POIID != "poi-cathedrale" {
		t.Errorf("unexpected fence event: %+v", ev)
	}

	if len(result.Triggers) != 1 {
		t.Fatalf("expected one trigger, got %v", result.Triggers)
	}
	if d := result.Triggers[0]; d.Anchor.GuideID != "guide-cathedrale-fr" || d.TriggerType != trigger.TypeOptimal {
		t.Errorf("unexpected trigger: %+v", d)
	}

	found := false
	for _, r := range result.Recommendations {
		if r.ID == "poi-cathedrale" {
			found = true
			// The cathedral is a featured attraction.
			if r.Priority != PriorityHigh {
				t.Errorf("featured POI priority %q, want %q", r.Priority, PriorityHigh)
			}
		}
	}
	if !found {
		t.Errorf("cathedral missing from recommendations: %v", result.Recommendations)
	}

	if result.SpeedKmh != result.Sample.SpeedKmh() {
		t.Errorf("speedKmh %.2f disagrees with the sample's %.2f",
			result.SpeedKmh, result.Sample.SpeedKmh())
	}

	// The sample was persisted.
	last, err := g.LastKnown("tourist-1")
	if err != nil {
		t.Fatal(err)
	}
	if !last.Time.Equal(at.Time) {
		t.Errorf("persisted last-known mismatch: %s vs %s", last.Time, at.Time)
	}
}

func TestGuide_TrackSampleFenceTransitions(t *testing.T) {
	g := newTestGuide(t)
	ctx := context.Background()

	inside := testdata.Still(testdata.CathedralePlateau, 2, 10, 30*time.Second)
	r1, err := g.TrackSample(ctx, "tourist-1", inside[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(r1.FenceEvents) != 1 || r1.FenceEvents[0].Type != fence.EventEntry {
		t.Fatalf("first fix should enter, got %v", r1.FenceEvents)
	}

	// Still inside: no repeat entry.
	r2, err := g.TrackSample(ctx, "tourist-1", inside[1])
	if err != nil {
		t.Fatal(err)
	}
	if len(r2.FenceEvents) != 0 {
		t.Errorf("staying inside should be silent, got %v", r2.FenceEvents)
	}

	// 300m east: outside the 120m fence, still in candidate range.
	out := common.DestinationPoint(testdata.CathedralePlateau.Point(), 300, 90)
	exit := tracksample.Sample{Geopoint: geopoint.Geopoint{
		Lat: out.Lat(), Lng: out.Lon(), Accuracy: 10,
		Time: inside[1].Time.Add(30 * time.Second),
	}}
	r3, err := g.TrackSample(ctx, "tourist-1", exit)
	if err != nil {
		t.Fatal(err)
	}
	if len(r3.FenceEvents) != 1 || r3.FenceEvents[0].Type != fence.EventExit {
		t.Fatalf("leaving should exit once, got %v", r3.FenceEvents)
	}
}

func TestGuide_TrackSampleRejectsEmptySession(t *testing.T) {
	g := newTestGuide(t)
	at := testdata.Still(testdata.CathedralePlateau, 1, 10, time.Second)[0]
	if _, err := g.TrackSample(context.Background(), "", at); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestGuide_NearbyClampsRadius(t *testing.T) {
	g := newTestGuide(t)

	// A radius far beyond the service bound still answers, clamped.
	got, err := g.Nearby(testdata.CathedralePlateau, params.RadiusMax*100, nearby.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p.Distance > params.RadiusMax {
			t.Errorf("POI %s at %.0fm beyond the max radius", p.ID, p.Distance)
		}
	}

	// A zero radius becomes the minimum, not an empty search circle.
	got, err = g.Nearby(testdata.CathedralePlateau, 0, nearby.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("minimum radius should still find the cathedral, got %v", got)
	}
}

func TestGuide_OptimizeRouteMemoized(t *testing.T) {
	g := newTestGuide(t)
	ctx := context.Background()
	constraints := route.Constraints{MaxDistance: 6000}

	first, err := g.OptimizeRoute(ctx, testdata.CathedralePlateau, nil, constraints)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Stops) == 0 {
		t.Fatal("expected a non-empty route")
	}
	if g.routes.lru.Len() != 1 {
		t.Errorf("route not memoized, cache len %d", g.routes.lru.Len())
	}

	second, err := g.OptimizeRoute(ctx, testdata.CathedralePlateau, nil, constraints)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("memoized route differs from the first answer")
	}

	// A different start point is a different plan.
	if _, err := g.OptimizeRoute(ctx, testdata.MarcheCocody, nil, constraints); err != nil {
		t.Fatal(err)
	}
	if g.routes.lru.Len() != 2 {
		t.Errorf("distinct request should add a cache entry, len %d", g.routes.lru.Len())
	}
}

func TestGuide_OptimizeRouteCandidateIDs(t *testing.T) {
	g := newTestGuide(t)
	ctx := context.Background()

	// An explicit candidate list pins the route to those POIs.
	r, err := g.OptimizeRoute(ctx, testdata.CathedralePlateau,
		[]string{"poi-musee", "poi-marche"}, route.Constraints{})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Stops) != 2 {
		t.Fatalf("expected the two named candidates, got %d stops", len(r.Stops))
	}
	for _, s := range r.Stops {
		if s.POI.ID != "poi-musee" && s.POI.ID != "poi-marche" {
			t.Errorf("unrequested POI %s in route", s.POI.ID)
		}
	}

	// Unknown ids are skipped, not errors.
	r, err = g.OptimizeRoute(ctx, testdata.CathedralePlateau,
		[]string{"poi-musee", "poi-ghost"}, route.Constraints{})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Stops) != 1 || r.Stops[0].POI.ID != "poi-musee" {
		t.Errorf("unknown id should be dropped, got %v", r.Stops)
	}

	// A pinned candidate set is its own cache entry.
	if _, err := g.OptimizeRoute(ctx, testdata.CathedralePlateau, nil, route.Constraints{}); err != nil {
		t.Fatal(err)
	}
	if g.routes.lru.Len() != 3 {
		t.Errorf("expected 3 distinct cache entries, len %d", g.routes.lru.Len())
	}
}

func TestGuide_PredictMovementBackfills(t *testing.T) {
	g := newTestGuide(t)

	// Samples persisted by an earlier daemon run: no live tracker.
	walk := testdata.Walk(testdata.CathedralePlateau, 6, 7, 10, 5*time.Second)
	session := g.Sessions.Session("tourist-1")
	for _, s := range walk {
		if err := session.AppendSample(s); err != nil {
			t.Fatal(err)
		}
	}
	g.Clock = func() time.Time { return walk[len(walk)-1].Time }

	p, err := g.PredictMovement("tourist-1", predict.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Path) == 0 {
		t.Fatal("persisted samples should back a prediction")
	}
	if p.AverageSpeed <= 0 {
		t.Errorf("expected positive average speed, got %.2f", p.AverageSpeed)
	}

	// A client-supplied velocity pins the projection speed.
	velocity := 2.5
	pinned, err := g.PredictMovement("tourist-1", predict.Overrides{Velocity: &velocity})
	if err != nil {
		t.Fatal(err)
	}
	if pinned.AverageSpeed != 2.5 {
		t.Errorf("pinned velocity not honored: %.2f", pinned.AverageSpeed)
	}
}

func TestGuide_LastKnownMissing(t *testing.T) {
	g := newTestGuide(t)
	if _, err := g.LastKnown("tourist-ghost"); err == nil {
		t.Fatal("expected error for session with no samples")
	}
}

func TestGuide_TriggersAccuracyGate(t *testing.T) {
	g := newTestGuide(t)
	origin := testdata.CathedralePlateau
	origin.Accuracy = 90 // sloppier than every anchor threshold

	detections, err := g.Triggers("", origin)
	if err != nil {
		t.Fatal(err)
	}
	if len(detections) != 0 {
		t.Errorf("imprecise fix should trigger nothing, got %v", detections)
	}
}
