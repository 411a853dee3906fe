package params

import (
	"os"
	"path/filepath"
	"time"
)

var DefaultDatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./guided"
	}
	return filepath.Join(home, ".guided")
}()

func DefaultSessionDataDir(root string) string {
	return filepath.Join(root, "sessions")
}

// Validation bounds enforced at the HTTP boundary. The analytics core
// assumes validated inputs and keeps only defensive clamps.
const (
	RadiusMin = 100.0   // meters
	RadiusMax = 50000.0 // meters
	LimitMax  = 100
)

const CacheLastKnownTTL = 24 * time.Hour

// DedupeCacheSize bounds the ingest dedupe LRU.
const DedupeCacheSize = 10_000
