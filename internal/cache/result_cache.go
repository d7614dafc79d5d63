// Package cache provides an LRU cache of search results keyed by the query
// parameters and the catalog snapshot generation.
//
// A pass search over the full catalog is expensive, while queries from the
// same observer for the same window repeat often. Entries are invalidated
// implicitly: a catalog refresh bumps the snapshot generation, so stale
// results simply stop being looked up and age out of the LRU.
package cache

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/metrics"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

const defaultSize = 128

// ResultCache caches accepted pass lists per canonical query. Safe for
// concurrent use.
type ResultCache struct {
	lru    *lru.Cache[string, []visibility.Pass]
	logger *slog.Logger
}

// New creates a ResultCache holding up to size entries. A non-positive
// size falls back to the default.
func New(size int, logger *slog.Logger) (*ResultCache, error) {
	if size <= 0 {
		size = defaultSize
	}
	l, err := lru.New[string, []visibility.Pass](size)
	if err != nil {
		return nil, fmt.Errorf("result cache: %w", err)
	}
	logger.Info("result cache initialized", "size", size)
	return &ResultCache{lru: l, logger: logger}, nil
}

// Key canonicalizes a query and snapshot generation into a cache key.
// Two queries with the same parameters against the same snapshot always
// produce the same key.
func Key(q visibility.Query, generation uint64) string {
	return fmt.Sprintf("g%d|%.6f,%.6f,%.1f|%d|%s|t%.2f|p%.2f|h%.1f-%.1f|d%s|s%t",
		generation,
		q.Observer.LatitudeDeg, q.Observer.LongitudeDeg, q.Observer.AltitudeM,
		q.Start.UTC().Unix(), q.Window,
		q.AltitudeThresholdDeg, q.MinPeakElevationDeg,
		q.MinHeightKm, q.MaxHeightKm,
		q.MinDuration, q.IncludeStarlink,
	)
}

// Get returns the cached passes for a key, if present.
func (c *ResultCache) Get(key string) ([]visibility.Pass, bool) {
	passes, ok := c.lru.Get(key)
	if ok {
		metrics.CacheHit()
	} else {
		metrics.CacheMiss()
	}
	return passes, ok
}

// Put stores passes under a key, evicting the least recently used entry
// when full.
func (c *ResultCache) Put(key string, passes []visibility.Pass) {
	c.lru.Add(key, passes)
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// Purge drops every entry. Used after an explicit catalog reload so old
// generations do not linger.
func (c *ResultCache) Purge() {
	n := c.lru.Len()
	c.lru.Purge()
	c.logger.Info("result cache purged", "entries_dropped", n)
}
