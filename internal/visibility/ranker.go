package visibility

import (
	"fmt"
	"sort"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// Pass is one accepted visible pass. Immutable once returned; ordering in
// the result slice is the only identifier.
type Pass struct {
	Name             string           `json:"name"`
	NORADID          int              `json:"norad_id"`
	Rise             time.Time        `json:"rise"`
	Peak             time.Time        `json:"peak"`
	Set              time.Time        `json:"set"`
	StartDirection   CompassDirection `json:"start_direction"`
	EndDirection     CompassDirection `json:"end_direction"`
	PeakElevationDeg float64          `json:"peak_elevation_deg"`
	Duration         time.Duration    `json:"duration"`
	SunlitStart      time.Time        `json:"sunlit_start"`
	SunlitEnd        time.Time        `json:"sunlit_end"`
}

// rankPasses orders passes ascending by rise instant. Stable: equal rise
// times preserve catalog scan order.
func rankPasses(passes []Pass) {
	sort.SliceStable(passes, func(i, j int) bool {
		return passes[i].Rise.Before(passes[j].Rise)
	})
}

// evaluateTriple applies the filter chain to one rise/peak/set triple:
// gross duration, peak elevation, sunlit window refinement, refined
// duration, and the final peak-instant illumination gate.
func (e *Engine) evaluateTriple(prop Propagator, obs transform.ObserverPosition, q Query, elem tle.ElementSet, tr triple) (Pass, bool, error) {
	if tr.set.Time.Sub(tr.rise.Time) < q.MinDuration {
		return Pass{}, false, nil
	}

	peakState, err := prop.State(obs, tr.peak.Time)
	if err != nil {
		return Pass{}, false, fmt.Errorf("state at peak: %w", err)
	}
	if peakState.ElevationDeg < q.MinPeakElevationDeg {
		return Pass{}, false, nil
	}

	riseState, err := prop.State(obs, tr.rise.Time)
	if err != nil {
		return Pass{}, false, fmt.Errorf("state at rise: %w", err)
	}
	setState, err := prop.State(obs, tr.set.Time)
	if err != nil {
		return Pass{}, false, fmt.Errorf("state at set: %w", err)
	}

	window, ok, err := refineSunlitWindow(prop, obs, tr.rise.Time, tr.set.Time, e.cfg.SunlitStep)
	if err != nil {
		return Pass{}, false, fmt.Errorf("sunlit refinement: %w", err)
	}
	if !ok {
		return Pass{}, false, nil
	}
	if window.duration() < q.MinDuration {
		return Pass{}, false, nil
	}

	if e.cfg.StrictSunlitWindow {
		lit, err := sunlitThroughout(prop, obs, window, e.cfg.SunlitStep)
		if err != nil {
			return Pass{}, false, fmt.Errorf("sunlit window check: %w", err)
		}
		if !lit {
			return Pass{}, false, nil
		}
	} else if !peakState.Sunlit {
		// The reference acceptance gate: illuminated at the peak instant,
		// regardless of how the refined window came out.
		return Pass{}, false, nil
	}

	return Pass{
		Name:             elem.Name,
		NORADID:          elem.NORADID,
		Rise:             tr.rise.Time,
		Peak:             tr.peak.Time,
		Set:              tr.set.Time,
		StartDirection:   AzimuthToDirection(riseState.AzimuthDeg),
		EndDirection:     AzimuthToDirection(setState.AzimuthDeg),
		PeakElevationDeg: peakState.ElevationDeg,
		Duration:         window.duration(),
		SunlitStart:      window.start,
		SunlitEnd:        window.end,
	}, true, nil
}
