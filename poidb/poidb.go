/*
Package poidb stores the attraction catalog.

One bbolt file holds points of interest, their audio-guide anchors, and
an S2 cell index over both. Spatial queries cover the search circle with
S2 cells and range-scan the index, then re-check exact distances; the
covering over-fetches a little and never misses.

Opening a writable DB blocks other writers and readers with a file lock,
so the daemon owns the store and the import command runs against its own
handle.
*/
package poidb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

const poiDBName = "pois.db"

var (
	poisBucket        = []byte("pois")
	anchorsBucket     = []byte("anchors")
	poiCellsBucket    = []byte("poi_cells")
	anchorCellsBucket = []byte("anchor_cells")
)

type Store struct {
	DB      *bbolt.DB
	Waiting sync.WaitGroup

	queries *queryCache
}

// Open opens (creating if necessary) the catalog under dir.
func Open(dir string, readOnly bool) (*Store, error) {
	db, err := bbolt.Open(filepath.Join(dir, poiDBName), 0600, &bbolt.Options{
		ReadOnly: readOnly,
	})
	if err != nil {
		return nil, err
	}
	if !readOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			for _, b := range [][]byte{poisBucket, anchorsBucket, poiCellsBucket, anchorCellsBucket} {
				if _, err := tx.CreateBucketIfNotExists(b); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{DB: db, queries: newQueryCache()}, nil
}

func (s *Store) Close() error {
	s.Waiting.Wait()
	return s.DB.Close()
}

// UpsertPOI writes the POI and its spatial index entry.
func (s *Store) UpsertPOI(p poi.POI) error {
	if err := p.Validate(); err != nil {
		return err
	}
	value, err := json.Marshal(p)
	if err != nil {
		return err
	}
	err = s.DB.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(poisBucket).Put([]byte(p.ID), value); err != nil {
			return err
		}
		key := cellKey(leafCellID(p.Location.Point()), p.ID)
		return tx.Bucket(poiCellsBucket).Put(key, []byte(p.ID))
	})
	if err != nil {
		return err
	}
	s.queries.Purge()
	return nil
}

// UpsertAnchor writes the audio-guide anchor and its spatial index entry.
func (s *Store) UpsertAnchor(a poi.AudioGuideAnchor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	value, err := json.Marshal(a)
	if err != nil {
		return err
	}
	err = s.DB.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(anchorsBucket).Put([]byte(a.GuideID), value); err != nil {
			return err
		}
		key := cellKey(leafCellID(a.Location.Point()), a.GuideID)
		return tx.Bucket(anchorCellsBucket).Put(key, []byte(a.GuideID))
	})
	if err != nil {
		return err
	}
	s.queries.Purge()
	return nil
}

// GetPOI fetches one POI by id; (zero, false, nil) when absent.
func (s *Store) GetPOI(id string) (poi.POI, bool, error) {
	var p poi.POI
	found := false
	err := s.DB.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(poisBucket).Get([]byte(id))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &p)
	})
	return p, found, err
}

// GetAnchor fetches one audio-guide anchor by guide id.
func (s *Store) GetAnchor(guideID string) (poi.AudioGuideAnchor, bool, error) {
	var a poi.AudioGuideAnchor
	found := false
	err := s.DB.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(anchorsBucket).Get([]byte(guideID))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &a)
	})
	return a, found, err
}

// GetPOIsByIDs fetches the named POIs in one read transaction.
// Unknown ids are skipped; order follows the input.
func (s *Store) GetPOIsByIDs(ids []string) ([]poi.POI, error) {
	out := make([]poi.POI, 0, len(ids))
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(poisBucket)
		for _, id := range ids {
			raw := b.Get([]byte(id))
			if raw == nil {
				continue
			}
			var p poi.POI
			if err := json.Unmarshal(raw, &p); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindNear returns all POIs within radiusMeters of the origin,
// unsorted. Results are memoized until the next upsert.
func (s *Store) FindNear(origin geopoint.Geopoint, radiusMeters float64) ([]poi.POI, error) {
	if hit, ok := cachedQuery[[]poi.POI](s.queries, "poi", origin, radiusMeters); ok {
		return hit, nil
	}

	out := []poi.POI{}
	err := s.scanNear(poiCellsBucket, origin, radiusMeters, func(tx *bbolt.Tx, id []byte) error {
		raw := tx.Bucket(poisBucket).Get(id)
		if raw == nil {
			return fmt.Errorf("dangling poi index entry: %s", id)
		}
		var p poi.POI
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		if common.Distance(origin.Point(), p.Location.Point()) <= radiusMeters {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	storeQuery(s.queries, "poi", origin, radiusMeters, out)
	return out, nil
}

// AnchorsNear returns all audio-guide anchors whose trigger circle could
// plausibly contain the origin: anchor distance within radiusMeters.
func (s *Store) AnchorsNear(origin geopoint.Geopoint, radiusMeters float64) ([]poi.AudioGuideAnchor, error) {
	if hit, ok := cachedQuery[[]poi.AudioGuideAnchor](s.queries, "anchor", origin, radiusMeters); ok {
		return hit, nil
	}

	out := []poi.AudioGuideAnchor{}
	err := s.scanNear(anchorCellsBucket, origin, radiusMeters, func(tx *bbolt.Tx, id []byte) error {
		raw := tx.Bucket(anchorsBucket).Get(id)
		if raw == nil {
			return fmt.Errorf("dangling anchor index entry: %s", id)
		}
		var a poi.AudioGuideAnchor
		if err := json.Unmarshal(raw, &a); err != nil {
			return err
		}
		if common.Distance(origin.Point(), a.Location.Point()) <= radiusMeters {
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	storeQuery(s.queries, "anchor", origin, radiusMeters, out)
	return out, nil
}

// scanNear range-scans the covering cells of the search circle in one
// read transaction, calling fn once per candidate index hit.
func (s *Store) scanNear(indexBucket []byte, origin geopoint.Geopoint, radiusMeters float64, fn func(tx *bbolt.Tx, id []byte) error) error {
	covering := coverRadius(origin.Point(), radiusMeters)
	return s.DB.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(indexBucket).Cursor()
		for _, cell := range covering {
			min, max := cellRange(cell)
			for k, v := c.Seek(min); k != nil && bytes.Compare(k[:8], max) <= 0; k, v = c.Next() {
				if err := fn(tx, v); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Counts reports catalog sizes, for the status endpoint.
func (s *Store) Counts() (pois, anchors int, err error) {
	err = s.DB.View(func(tx *bbolt.Tx) error {
		pois = tx.Bucket(poisBucket).Stats().KeyN
		anchors = tx.Bucket(anchorsBucket).Stats().KeyN
		return nil
	})
	return pois, anchors, err
}
