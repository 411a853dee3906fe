package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/stream"
	"github.com/ambyltd/guide-sub000/types/poi"
)

// ImportRecord is one line of a catalog import: a POI and its audio
// guide anchors, if any.
type ImportRecord struct {
	POI     poi.POI                `json:"poi"`
	Anchors []poi.AudioGuideAnchor `json:"anchors,omitempty"`
}

// ImportCatalog streams newline-delimited records into the POI store.
// Invalid records are dropped and counted, duplicates are skipped via
// an LRU of record hashes, and throughput is logged once a minute.
func (g *Guide) ImportCatalog(ctx context.Context, in io.Reader) (imported, skipped int, err error) {
	// invalid is written only by the filter goroutine; the pipeline's
	// channel closes order those writes before Sink returns.
	invalid := 0
	records := stream.NDJSON[ImportRecord](ctx, in)
	valid := stream.Filter(ctx, func(r ImportRecord) bool {
		if err := r.POI.Validate(); err != nil {
			invalid++
			g.logger.Warn("Skipping invalid POI", "id", r.POI.ID, "error", err)
			return false
		}
		return true
	}, records)
	deduped := stream.Filter(ctx, newDedupePassLRUFunc[ImportRecord](), valid)
	metered := stream.Metered(ctx, "Imported POIs", time.Minute,
		func(r ImportRecord) time.Time { return time.Now() },
		func(r ImportRecord) int { return len(r.POI.ID) + len(r.POI.Name) },
		deduped)

	var storeErr error
	stream.Sink(ctx, func(r ImportRecord) {
		if storeErr != nil {
			skipped++
			return
		}
		if err := g.POIs.UpsertPOI(r.POI); err != nil {
			storeErr = fmt.Errorf("upsert poi %q: %w", r.POI.ID, err)
			return
		}
		for _, a := range r.Anchors {
			if a.POIID == "" {
				a.POIID = r.POI.ID
			}
			if err := g.POIs.UpsertAnchor(a); err != nil {
				storeErr = fmt.Errorf("upsert anchor %q: %w", a.GuideID, err)
				return
			}
		}
		imported++
	}, metered)

	skipped += invalid
	if storeErr != nil {
		return imported, skipped, storeErr
	}
	return imported, skipped, ctx.Err()
}

// newDedupePassLRUFunc returns true if the record is not a duplicate
// using a Least Recently Used (LRU) cache.
func newDedupePassLRUFunc[T any]() func(T) bool {
	dedupeCache := lru.New(params.DedupeCacheSize)
	return func(element T) bool {
		hash, err := hashstructure.Hash(element, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		if _, ok := dedupeCache.Get(key); ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
