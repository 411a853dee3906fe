package nearby

import (
	"testing"

	"github.com/ambyltd/guide-sub000/testing/testdata"
	"github.com/ambyltd/guide-sub000/types/geopoint"
)

func TestFind_Abidjan(t *testing.T) {
	origin := testdata.CathedralePlateau
	origin.Accuracy = 10

	found := Find(origin, 5000, testdata.Catalog(), Filters{}, nil)
	if len(found) == 0 {
		t.Fatal("no POIs found")
	}

	// Default sort is ascending distance; the cathedral itself is first.
	if found[0].ID != "poi-cathedrale" {
		t.Errorf("closest POI should be the cathedral, got %s", found[0].ID)
	}
	if found[0].Distance > 1 {
		t.Errorf("self-distance should be ~0, got %.1f", found[0].Distance)
	}
	for i := 1; i < len(found); i++ {
		if found[i].Distance < found[i-1].Distance {
			t.Errorf("results not sorted by distance: %f < %f", found[i].Distance, found[i-1].Distance)
		}
	}

	// The museum is a walkable couple of kilometers south-west.
	var musee *POI
	for i := range found {
		if found[i].ID == "poi-musee" {
			musee = &found[i]
		}
	}
	if musee == nil {
		t.Fatal("museum not in results")
	}
	if musee.Distance < 2000 || musee.Distance > 2700 {
		t.Errorf("museum distance out of range: %.0f", musee.Distance)
	}
	if musee.CompassDirection != "SW" && musee.CompassDirection != "W" {
		t.Errorf("museum direction unexpected: %s", musee.CompassDirection)
	}
	wantWalk := int(musee.Distance / 83)
	if musee.EstimatedWalkTime < wantWalk-1 || musee.EstimatedWalkTime > wantWalk+1 {
		t.Errorf("walk time %d inconsistent with distance %.0f", musee.EstimatedWalkTime, musee.Distance)
	}
	if musee.WithinGeofence {
		t.Error("museum geofence should not contain the cathedral")
	}
}

func TestFind_RadiusDropsFarPOIs(t *testing.T) {
	origin := testdata.CathedralePlateau
	found := Find(origin, 1000, testdata.Catalog(), Filters{}, nil)
	for _, p := range found {
		if p.Distance > 1000 {
			t.Errorf("POI %s beyond radius: %.0f", p.ID, p.Distance)
		}
	}
}

func TestFind_CategoryFilterAndLimit(t *testing.T) {
	origin := testdata.CathedralePlateau
	found := Find(origin, 50000, testdata.Catalog(), Filters{Category: "museum"}, nil)
	if len(found) != 1 || found[0].ID != "poi-musee" {
		t.Fatalf("expected only the museum, got %v", found)
	}

	limited := Find(origin, 50000, testdata.Catalog(), Filters{Limit: 2}, nil)
	if len(limited) != 2 {
		t.Errorf("limit not applied: got %d", len(limited))
	}
}

func TestFind_SortByPopularity(t *testing.T) {
	origin := testdata.CathedralePlateau
	found := Find(origin, 50000, testdata.Catalog(), Filters{SortBy: SortByPopularity}, nil)
	for i := 1; i < len(found); i++ {
		if found[i].Popularity > found[i-1].Popularity {
			t.Errorf("results not sorted by popularity desc")
		}
	}
}

func TestEnrich_AccuracyBands(t *testing.T) {
	p := testdata.Catalog()[0] // GPSAccuracy 8

	high := Enrich(geopoint.Geopoint{Lat: 5.3364, Lng: -4.0083, Accuracy: 5}, p, nil)
	if high.AccuracyBand != AccuracyBandHigh {
		t.Errorf("mean 6.5m should band high, got %s", high.AccuracyBand)
	}

	medium := Enrich(geopoint.Geopoint{Lat: 5.3364, Lng: -4.0083, Accuracy: 30}, p, nil)
	if medium.AccuracyBand != AccuracyBandMedium {
		t.Errorf("mean 19m should band medium, got %s", medium.AccuracyBand)
	}

	low := Enrich(geopoint.Geopoint{Lat: 5.3364, Lng: -4.0083, Accuracy: 80}, p, nil)
	if low.AccuracyBand != AccuracyBandLow {
		t.Errorf("mean 44m should band low, got %s", low.AccuracyBand)
	}
}
