package tle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrCatalogUnavailable means no element sets could be obtained from the
// network or the local cache. It is distinct from a catalog that loaded but
// matched nothing.
var ErrCatalogUnavailable = errors.New("element catalog unavailable")

// Freshness classifies the catalog data backing a snapshot after a refresh.
type Freshness int

const (
	// Fresh means the snapshot came from a successful fetch.
	Fresh Freshness = iota
	// Stale means fetching failed and an older local copy is in use.
	Stale
	// Unavailable means no data exists at all; no snapshot was installed.
	Unavailable
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unavailable"
	}
}

// RefreshResult reports the outcome of a catalog load or refresh without
// errors crossing the package boundary for the fallback path.
type RefreshResult struct {
	Freshness Freshness
	Count     int       // element sets in the installed snapshot
	FetchedAt time.Time // when the installed data was originally fetched
	Err       error     // underlying fetch error when Freshness != Fresh
}

// Manager orchestrates catalog loading: network fetch, disk cache, and the
// atomic snapshot swap. All methods are safe for concurrent use.
type Manager struct {
	store   *Store
	fetcher *Fetcher
	cache   *Cache
	maxAge  time.Duration
	logger  *slog.Logger
}

// NewManager wires a Manager. maxAge is the staleness window beyond which a
// disk copy triggers a refetch (the reference behavior uses 24h).
func NewManager(store *Store, fetcher *Fetcher, cache *Cache, maxAge time.Duration, logger *slog.Logger) *Manager {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &Manager{
		store:   store,
		fetcher: fetcher,
		cache:   cache,
		maxAge:  maxAge,
		logger:  logger,
	}
}

// Store returns the snapshot store this manager feeds.
func (m *Manager) Store() *Store {
	return m.store
}

// Load initializes the catalog at startup: a disk copy younger than the
// staleness window is used as-is; otherwise a refresh is attempted, falling
// back to whatever disk copy exists.
func (m *Manager) Load(ctx context.Context) RefreshResult {
	m.store.Lock()
	defer m.store.Unlock()

	data, ts, err := m.cache.LoadLatest()
	if err == nil && time.Since(ts) <= m.maxAge {
		if res, ok := m.install(data, ts, "cache", false); ok {
			m.logger.Info("using cached TLE data", "count", res.Count, "cached_at", ts.Format(time.RFC3339))
			return res
		}
	}

	return m.refreshLocked(ctx)
}

// Refresh forces a fetch, swapping in a new snapshot on success and falling
// back to the newest disk copy (marked stale) on failure.
func (m *Manager) Refresh(ctx context.Context) RefreshResult {
	m.store.Lock()
	defer m.store.Unlock()
	return m.refreshLocked(ctx)
}

func (m *Manager) refreshLocked(ctx context.Context) RefreshResult {
	data, fetchErr := m.fetcher.Fetch(ctx)
	if fetchErr == nil {
		now := time.Now().UTC()
		if err := m.cache.Write(data, now); err != nil {
			m.logger.Warn("failed to write TLE cache", "error", err)
		}
		if res, ok := m.install(data, now, "network", false); ok {
			m.logger.Info("TLE catalog refreshed", "count", res.Count)
			return res
		}
		fetchErr = fmt.Errorf("fetched TLE data contained no parsable element sets")
	}

	m.logger.Warn("TLE fetch failed, falling back to local copy", "error", fetchErr)

	data, ts, cacheErr := m.cache.LoadLatest()
	if cacheErr == nil {
		if res, ok := m.install(data, ts, "cache", true); ok {
			res.Err = fetchErr
			m.logger.Warn("using stale TLE data", "count", res.Count, "cached_at", ts.Format(time.RFC3339))
			return res
		}
	}

	return RefreshResult{
		Freshness: Unavailable,
		Err:       fmt.Errorf("%w: %w", ErrCatalogUnavailable, fetchErr),
	}
}

// install parses raw TLE text and swaps in a snapshot. Returns ok=false when
// nothing parsable was found, leaving any existing snapshot in place.
func (m *Manager) install(data []byte, fetchedAt time.Time, source string, stale bool) (RefreshResult, bool) {
	sets, err := Parse(bytes.NewReader(data), m.logger)
	if err != nil || len(sets) == 0 {
		if err != nil {
			m.logger.Warn("failed to parse TLE data", "source", source, "error", err)
		}
		return RefreshResult{}, false
	}

	m.store.Swap(NewSnapshot(source, fetchedAt, stale, sets))

	freshness := Fresh
	if stale {
		freshness = Stale
	}
	return RefreshResult{
		Freshness: freshness,
		Count:     len(sets),
		FetchedAt: fetchedAt,
	}, true
}
