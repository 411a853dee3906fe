package webd

import (
	"testing"

	"github.com/ambyltd/guide-sub000/api"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/poidb"
	"github.com/ambyltd/guide-sub000/state"
	"github.com/ambyltd/guide-sub000/testing/testdata"
)

// newTestWebDaemon creates a WebDaemon over temp-dir stores seeded with
// the fixture catalog.
func newTestWebDaemon(t *testing.T) *WebDaemon {
	t.Helper()
	pois, err := poidb.Open(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
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
	guide := api.NewGuide(pois, sessions, nil)
	d := NewWebDaemon(params.DefaultTestWebDaemonConfig(), guide)
	t.Cleanup(func() {
		guide.Close()
		sessions.Close()
		pois.Close()
	})
	return d
}
