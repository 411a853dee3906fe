package poidb

import (
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/ambyltd/guide-sub000/types/geopoint"
)

const queryCacheSize = 1024

// queryCache memoizes spatial query results between catalog writes.
// The catalog changes rarely (imports) and is read on every tracked fix,
// so blunt whole-cache purging on upsert is the right trade.
type queryCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newQueryCache() *queryCache {
	return &queryCache{lru: lru.New(queryCacheSize)}
}

func (c *queryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}

func queryKey(kind string, origin geopoint.Geopoint, radiusMeters float64) (string, error) {
	hash, err := hashstructure.Hash(struct {
		Kind   string
		Lat    float64
		Lng    float64
		Radius float64
	}{kind, origin.Lat, origin.Lng, radiusMeters}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", hash), nil
}

func cachedQuery[T any](c *queryCache, kind string, origin geopoint.Geopoint, radiusMeters float64) (T, bool) {
	var zero T
	key, err := queryKey(kind, origin, radiusMeters)
	if err != nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(lru.Key(key))
	if !ok {
		return zero, false
	}
	hit, ok := v.(T)
	return hit, ok
}

func storeQuery[T any](c *queryCache, kind string, origin geopoint.Geopoint, radiusMeters float64, value T) {
	key, err := queryKey(kind, origin, radiusMeters)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(lru.Key(key), value)
}
