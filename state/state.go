/*
Package state persists per-session journey state.

One bbolt file holds every session as a nested bucket: an append-only
sample log keyed by sequence number, geofence membership flags, and a
small KV area for the last-known fix. Samples are never rewritten; the
log is the session's history.
*/
package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.etcd.io/bbolt"

	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/tracksample"
)

const sessionDBName = "sessions.db"

var (
	samplesBucket = []byte("samples")
	fencesBucket  = []byte("fences")
	kvBucket      = []byte("kv")

	lastKey = []byte("last")
)

type Sessions struct {
	DB      *bbolt.DB
	Waiting sync.WaitGroup

	// lastKnown short-circuits the hot "where was session X" read.
	lastKnown *ttlcache.Cache[string, tracksample.Sample]
}

// Open opens (creating if necessary) the session store under dir.
// Opening a writable DB blocks all other writers and readers with
// essentially a file lock.
func Open(dir string) (*Sessions, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(dir, sessionDBName), 0600, nil)
	if err != nil {
		return nil, err
	}
	cache := ttlcache.New[string, tracksample.Sample](
		ttlcache.WithTTL[string, tracksample.Sample](params.CacheLastKnownTTL))
	go cache.Start()
	return &Sessions{DB: db, lastKnown: cache}, nil
}

func (s *Sessions) Close() error {
	s.Waiting.Wait()
	s.lastKnown.Stop()
	return s.DB.Close()
}

// Session returns a handle scoped to one session id. Cheap; no IO.
func (s *Sessions) Session(id string) *Session {
	return &Session{ID: id, parent: s}
}

// SessionCount reports how many sessions have state, for the status
// endpoint.
func (s *Sessions) SessionCount() (int, error) {
	n := 0
	err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			n++
			return nil
		})
	})
	return n, err
}

// Session is the canonical accessor for one session's persisted state.
type Session struct {
	ID     string
	parent *Sessions
}

func (s *Session) buckets(tx *bbolt.Tx) (samples, fences, kv *bbolt.Bucket, err error) {
	root, err := tx.CreateBucketIfNotExists([]byte(s.ID))
	if err != nil {
		return nil, nil, nil, err
	}
	if samples, err = root.CreateBucketIfNotExists(samplesBucket); err != nil {
		return nil, nil, nil, err
	}
	if fences, err = root.CreateBucketIfNotExists(fencesBucket); err != nil {
		return nil, nil, nil, err
	}
	if kv, err = root.CreateBucketIfNotExists(kvBucket); err != nil {
		return nil, nil, nil, err
	}
	return samples, fences, kv, nil
}

// AppendSample appends one enriched sample to the session log and
// refreshes the last-known fix.
func (s *Session) AppendSample(sample tracksample.Sample) error {
	value, err := json.Marshal(sample)
	if err != nil {
		return err
	}
	err = s.parent.DB.Update(func(tx *bbolt.Tx) error {
		samples, _, kv, err := s.buckets(tx)
		if err != nil {
			return err
		}
		seq, err := samples.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		if err := samples.Put(key, value); err != nil {
			return err
		}
		return kv.Put(lastKey, value)
	})
	if err != nil {
		return err
	}
	s.parent.lastKnown.Set(s.ID, sample, ttlcache.DefaultTTL)
	return nil
}

// Samples returns the newest limit samples, oldest first.
// limit <= 0 means all of them.
func (s *Session) Samples(limit int) ([]tracksample.Sample, error) {
	out := []tracksample.Sample{}
	err := s.parent.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(s.ID))
		if root == nil {
			return nil
		}
		samples := root.Bucket(samplesBucket)
		if samples == nil {
			return nil
		}
		c := samples.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var sample tracksample.Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				return err
			}
			out = append(out, sample)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Reverse the newest-first scan.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// SampleCount is the length of the session log.
func (s *Session) SampleCount() (int, error) {
	n := 0
	err := s.parent.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(s.ID))
		if root == nil {
			return nil
		}
		if samples := root.Bucket(samplesBucket); samples != nil {
			n = samples.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// LastKnown returns the most recent sample, preferring the TTL cache
// over a DB read.
func (s *Session) LastKnown() (tracksample.Sample, bool, error) {
	if item := s.parent.lastKnown.Get(s.ID); item != nil {
		return item.Value(), true, nil
	}
	var sample tracksample.Sample
	found := false
	err := s.parent.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(s.ID))
		if root == nil {
			return nil
		}
		kv := root.Bucket(kvBucket)
		if kv == nil {
			return nil
		}
		raw := kv.Get(lastKey)
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &sample)
	})
	if err != nil {
		return tracksample.Sample{}, false, err
	}
	if found {
		s.parent.lastKnown.Set(s.ID, sample, ttlcache.DefaultTTL)
	}
	return sample, found, nil
}

// IsInside reports persisted geofence membership.
// Read errors degrade to "outside"; an entry event after a hiccup beats
// a lost one.
func (s *Session) IsInside(poiID string) bool {
	inside := false
	err := s.parent.DB.View(func(tx *bbolt.Tx) error {
		root := tx.Bucket([]byte(s.ID))
		if root == nil {
			return nil
		}
		fences := root.Bucket(fencesBucket)
		if fences == nil {
			return nil
		}
		inside = len(fences.Get([]byte(poiID))) > 0
		return nil
	})
	if err != nil {
		slog.Error("Failed to read fence membership", "session", s.ID, "poi", poiID, "error", err)
		return false
	}
	return inside
}

// SetInside persists geofence membership.
func (s *Session) SetInside(poiID string, inside bool) error {
	return s.parent.DB.Update(func(tx *bbolt.Tx) error {
		_, fences, _, err := s.buckets(tx)
		if err != nil {
			return err
		}
		if !inside {
			return fences.Delete([]byte(poiID))
		}
		return fences.Put([]byte(poiID), []byte{1})
	})
}

// Duration reports first-to-last sample wall time for the session.
func (s *Session) Duration() (time.Duration, error) {
	samples, err := s.Samples(0)
	if err != nil {
		return 0, err
	}
	if len(samples) < 2 {
		return 0, nil
	}
	d := samples[len(samples)-1].Time.Sub(samples[0].Time)
	if d < 0 {
		return 0, fmt.Errorf("sample log out of order")
	}
	return d, nil
}
