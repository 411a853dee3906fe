// Package testdata holds shared fixtures: a small attraction catalog
// around the Plateau district of Abidjan and journey builders that
// synthesize plausible GPS sample runs.
package testdata

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(basepath, rel)
}

// CathedralePlateau and friends are real Abidjan locations; distances
// between them are in realistic walking range of each other.
var (
	CathedralePlateau = geopoint.New(5.3364, -4.0083)
	MuseeCivilisation = geopoint.New(5.3257, -4.0267)
	ParcBanco         = geopoint.New(5.3811, -4.0503)
	MarcheCocody      = geopoint.New(5.3476, -3.9896)
)

// Catalog returns a small, valid POI catalog.
func Catalog() []poi.POI {
	return []poi.POI{
		{
			ID:            "poi-cathedrale",
			Name:          "Cathédrale Saint-Paul",
			Category:      "monument",
			Location:      CathedralePlateau,
			GPSAccuracy:   8,
			Popularity:    0.9,
			Rating:        4.6,
			CrowdLevel:    poi.CrowdLevelModerate,
			Featured:      true,
			VisitDuration: 45 * time.Minute,
			Geofence: poi.Geofence{
				Radius:            120,
				EntryTrigger:      true,
				ExitTrigger:       true,
				AccuracyThreshold: 50,
			},
		},
		{
			ID:            "poi-musee",
			Name:          "Musée des Civilisations",
			Category:      "museum",
			Location:      MuseeCivilisation,
			GPSAccuracy:   10,
			Popularity:    0.7,
			Rating:        4.2,
			CrowdLevel:    poi.CrowdLevelLow,
			VisitDuration: 60 * time.Minute,
			Geofence: poi.Geofence{
				Radius:            80,
				EntryTrigger:      true,
				AccuracyThreshold: 40,
			},
		},
		{
			ID:            "poi-banco",
			Name:          "Parc National du Banco",
			Category:      "park",
			Location:      ParcBanco,
			GPSAccuracy:   20,
			Popularity:    0.5,
			Rating:        4.4,
			CrowdLevel:    poi.CrowdLevelLow,
			VisitDuration: 90 * time.Minute,
		},
		{
			ID:            "poi-marche",
			Name:          "Marché de Cocody",
			Category:      "market",
			Location:      MarcheCocody,
			GPSAccuracy:   15,
			Popularity:    0.8,
			Rating:        3.9,
			CrowdLevel:    poi.CrowdLevelHigh,
			VisitDuration: 30 * time.Minute,
		},
	}
}

// Anchors returns audio-guide anchors for the catalog.
func Anchors() []poi.AudioGuideAnchor {
	return []poi.AudioGuideAnchor{
		{
			GuideID:                "guide-cathedrale-fr",
			POIID:                  "poi-cathedrale",
			Location:               CathedralePlateau,
			Accuracy:               5,
			OptimalListeningRadius: 20,
			TriggerDistance:        60,
			AccuracyThreshold:      30,
			AutoPlay:               true,
			AudioS3:                "guided-audio/cathedrale-fr.mp3",
		},
		{
			GuideID:                "guide-musee-fr",
			POIID:                  "poi-musee",
			Location:               MuseeCivilisation,
			Accuracy:               8,
			OptimalListeningRadius: 15,
			TriggerDistance:        50,
			AccuracyThreshold:      25,
			AudioS3:                "guided-audio/musee-fr.mp3",
		},
	}
}

// Walk synthesizes a sample run: n fixes stepping north-east from start
// at stepMeters apart and interval apart in time, with the given
// reported accuracy.
func Walk(start geopoint.Geopoint, n int, stepMeters, accuracy float64, interval time.Duration) []tracksample.Sample {
	// ~1e-5 degrees per meter of latitude near the equator.
	const degPerMeter = 1.0 / 111320.0
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]tracksample.Sample, 0, n)
	for i := 0; i < n; i++ {
		offset := float64(i) * stepMeters * degPerMeter
		s := tracksample.Sample{
			Geopoint: geopoint.Geopoint{
				Lat:      start.Lat + offset,
				Lng:      start.Lng + offset,
				Accuracy: accuracy,
				Time:     t0.Add(time.Duration(i) * interval),
			},
			Speed: stepMeters / interval.Seconds(),
		}
		if i > 0 {
			s.TimeFromPrevious = interval
			s.DistanceFromPrevious = stepMeters * 1.41 // diagonal step
		}
		out = append(out, s)
	}
	return out
}

// Still synthesizes n fixes at the same spot, jitter-free.
func Still(at geopoint.Geopoint, n int, accuracy float64, interval time.Duration) []tracksample.Sample {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]tracksample.Sample, 0, n)
	for i := 0; i < n; i++ {
		s := tracksample.Sample{
			Geopoint: geopoint.Geopoint{
				Lat:      at.Lat,
				Lng:      at.Lng,
				Accuracy: accuracy,
				Time:     t0.Add(time.Duration(i) * interval),
			},
		}
		if i > 0 {
			s.TimeFromPrevious = interval
		}
		out = append(out, s)
	}
	return out
}
