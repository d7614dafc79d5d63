package visibility

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/metrics"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/propagation"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// Propagator is the orbit-propagation contract the engine consumes. The
// production implementation is propagation.SGP4Propagator; tests substitute
// scripted doubles.
type Propagator interface {
	HeightKm(t time.Time) (float64, error)
	State(obs transform.ObserverPosition, t time.Time) (propagation.State, error)
	CrossingEvents(obs transform.ObserverPosition, start, end time.Time, thresholdDeg float64) ([]propagation.CrossingEvent, error)
}

// Factory builds a Propagator for one element set.
type Factory func(tle.ElementSet) (Propagator, error)

// Config holds engine tunables.
type Config struct {
	// SunlitStep is the boundary-scan granularity of the sunlit refiner.
	SunlitStep time.Duration
	// TrackStep is the sampling cadence of SampleTrack.
	TrackStep time.Duration
	// Workers bounds the parallel catalog scan.
	Workers int
	// ExclusionPattern is matched (case-insensitively) against satellite
	// names when the query excludes the large constellation.
	ExclusionPattern string
	// StrictSunlitWindow requires the satellite to be lit at every refiner
	// step of the reported window, instead of only at the peak instant.
	StrictSunlitWindow bool
}

func (c Config) withDefaults() Config {
	if c.SunlitStep <= 0 {
		c.SunlitStep = 10 * time.Second
	}
	if c.TrackStep <= 0 {
		c.TrackStep = 10 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ExclusionPattern == "" {
		c.ExclusionPattern = "STARLINK"
	}
	// nameExcluded compares uppercased names, so the pattern must be
	// uppercase regardless of how the operator spelled it.
	c.ExclusionPattern = strings.ToUpper(c.ExclusionPattern)
	return c
}

// Engine runs visible-pass searches against the current catalog snapshot.
type Engine struct {
	store   *tle.Store
	factory Factory
	cfg     Config
	logger  *slog.Logger
}

// NewEngine creates an engine backed by the SGP4 propagator.
func NewEngine(store *tle.Store, cfg Config, logger *slog.Logger) *Engine {
	return NewEngineWithFactory(store, cfg, logger, func(e tle.ElementSet) (Propagator, error) {
		return propagation.New(e)
	})
}

// NewEngineWithFactory creates an engine with a custom propagator factory.
func NewEngineWithFactory(store *tle.Store, cfg Config, logger *slog.Logger, factory Factory) *Engine {
	return &Engine{
		store:   store,
		factory: factory,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// Snapshot returns the catalog snapshot the next search would use, or nil.
func (e *Engine) Snapshot() *tle.Snapshot {
	return e.store.Get()
}

// FindVisiblePasses runs one search against the current catalog snapshot.
func (e *Engine) FindVisiblePasses(ctx context.Context, q Query) ([]Pass, error) {
	return e.SearchSnapshot(ctx, e.store.Get(), q)
}

// SearchSnapshot runs one search against the given snapshot: scan it, find
// horizon crossings per object, refine sunlit windows, filter, and return
// the accepted passes sorted ascending by rise time. Callers that key
// results by snapshot generation pass the snapshot they read, so a catalog
// reload during the search cannot desync results from their key.
//
// The scan fans out across a bounded worker set; each object is independent
// and per-object ordering is restored by the final sort, so the result is
// deterministic for a fixed snapshot. A propagation failure skips only the
// offending object.
func (e *Engine) SearchSnapshot(ctx context.Context, snap *tle.Snapshot, q Query) ([]Pass, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if snap == nil || len(snap.Satellites) == 0 {
		return nil, tle.ErrCatalogUnavailable
	}

	obs := transform.NewObserverPosition(q.Observer.LatitudeDeg, q.Observer.LongitudeDeg, q.Observer.AltitudeM)
	started := time.Now()

	results := make([][]Pass, len(snap.Satellites))
	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	var scanned, excluded, failed int
	var countMu sync.Mutex

	for i, elem := range snap.Satellites {
		// Constellation exclusion is a cheap name check and happens before
		// any propagator work for the object.
		if !q.IncludeStarlink && e.nameExcluded(elem.Name) {
			excluded++
			continue
		}
		scanned++

		wg.Add(1)
		go func(idx int, elem tle.ElementSet) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			passes, err := e.findObjectPasses(ctx, obs, q, elem)
			if err != nil {
				e.logger.Warn("object skipped",
					"name", elem.Name,
					"norad_id", elem.NORADID,
					"error", err,
				)
				countMu.Lock()
				failed++
				countMu.Unlock()
				return
			}
			results[idx] = passes
		}(i, elem)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Pass
	for _, r := range results {
		out = append(out, r...)
	}
	rankPasses(out)

	elapsed := time.Since(started)
	metrics.ObserveSearch(elapsed, scanned, excluded, failed, len(out))
	e.logger.Info("search complete",
		"scanned", scanned,
		"excluded", excluded,
		"failed", failed,
		"passes", len(out),
		"duration_ms", elapsed.Milliseconds(),
	)

	return out, nil
}

func (e *Engine) nameExcluded(name string) bool {
	return strings.Contains(strings.ToUpper(name), e.cfg.ExclusionPattern)
}

// findObjectPasses evaluates a single satellite against the query.
func (e *Engine) findObjectPasses(ctx context.Context, obs transform.ObserverPosition, q Query, elem tle.ElementSet) ([]Pass, error) {
	prop, err := e.factory(elem)
	if err != nil {
		return nil, fmt.Errorf("propagator init: %w", err)
	}

	// Height pre-filter: outside the orbital band at the query start means
	// no crossing-event request at all.
	height, err := prop.HeightKm(q.Start)
	if err != nil {
		return nil, fmt.Errorf("height check: %w", err)
	}
	if height < q.MinHeightKm || height > q.MaxHeightKm {
		return nil, nil
	}

	events, err := prop.CrossingEvents(obs, q.Start, q.End(), q.AltitudeThresholdDeg)
	if err != nil {
		return nil, fmt.Errorf("crossing events: %w", err)
	}

	var passes []Pass
	for _, tr := range segmentTriples(events) {
		if ctx.Err() != nil {
			break
		}
		p, ok, err := e.evaluateTriple(prop, obs, q, elem, tr)
		if err != nil {
			return nil, err
		}
		if ok {
			passes = append(passes, p)
		}
	}
	return passes, nil
}
