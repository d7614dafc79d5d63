package visibility

import (
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// sunlitWindow is the refined portion of a pass during which the satellite
// is continuously illuminated.
type sunlitWindow struct {
	start time.Time
	end   time.Time
}

// refineSunlitWindow narrows [rise, set] to the sub-interval where the
// satellite is sunlit, scanning forward from rise and backward from set in
// fixed steps while the predicate is false.
//
// Assumption: at most one lit/shadow transition per scan direction within a
// single pass. The propagator does not guarantee this, but over the few
// minutes of a LEO pass the shadow boundary is crossed at most once each
// way; the assumption matches the reference behavior.
//
// Returns ok=false when no sunlit portion exists within the pass.
func refineSunlitWindow(prop Propagator, obs transform.ObserverPosition, rise, set time.Time, step time.Duration) (sunlitWindow, bool, error) {
	start := rise
	for start.Before(set) {
		st, err := prop.State(obs, start)
		if err != nil {
			return sunlitWindow{}, false, err
		}
		if st.Sunlit {
			break
		}
		start = start.Add(step)
	}
	if !start.Before(set) {
		return sunlitWindow{}, false, nil
	}

	end := set
	for end.After(rise) {
		st, err := prop.State(obs, end)
		if err != nil {
			return sunlitWindow{}, false, err
		}
		if st.Sunlit {
			break
		}
		end = end.Add(-step)
	}
	if !end.After(rise) {
		return sunlitWindow{}, false, nil
	}

	return sunlitWindow{start: start, end: end}, true, nil
}

// duration returns the refined sunlit duration.
func (w sunlitWindow) duration() time.Duration {
	return w.end.Sub(w.start)
}

// sunlitThroughout verifies the predicate at every step across the window.
// Used only by the strict whole-window policy.
func sunlitThroughout(prop Propagator, obs transform.ObserverPosition, w sunlitWindow, step time.Duration) (bool, error) {
	for t := w.start; !t.After(w.end); t = t.Add(step) {
		st, err := prop.State(obs, t)
		if err != nil {
			return false, err
		}
		if !st.Sunlit {
			return false, nil
		}
	}
	return true, nil
}
