package propagation

import (
	"fmt"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// EventKind labels a horizon-crossing event.
type EventKind int

const (
	// Rise is the instant the satellite climbs above the altitude threshold.
	Rise EventKind = iota
	// Peak is the instant of maximum elevation within one pass.
	Peak
	// Set is the instant the satellite drops below the altitude threshold.
	Set
)

func (k EventKind) String() string {
	switch k {
	case Rise:
		return "rise"
	case Peak:
		return "peak"
	case Set:
		return "set"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// CrossingEvent is one altitude-threshold event in chronological order.
// A full pass contributes the triple Rise, Peak, Set; a window that opens
// or closes mid-pass yields a partial leading or trailing sequence.
type CrossingEvent struct {
	Time time.Time
	Kind EventKind
}

const (
	coarseStep = 30 * time.Second
	peakStep   = 10 * time.Second
	// refineTol is the bisection stopping width for rise/set instants.
	refineTol = 500 * time.Millisecond
)

// CrossingEvents enumerates threshold-crossing events for the observer over
// [start, end]. The coarse scan runs at 30 s; rise and set instants are then
// narrowed by bisection, and each pass's peak is located with a two-stage
// maximum search. Passes shorter than the coarse step can be missed, which
// matches the resolution of the reference ephemeris search.
func (p *SGP4Propagator) CrossingEvents(obs transform.ObserverPosition, start, end time.Time, thresholdDeg float64) ([]CrossingEvent, error) {
	if !end.After(start) {
		return nil, nil
	}

	var events []CrossingEvent

	prevT := start
	prevEl, err := p.elevationAt(obs, start)
	if err != nil {
		return nil, err
	}

	up := prevEl >= thresholdDeg
	// Left bound of the current above-threshold interval. When the window
	// opens mid-pass this is the window start itself.
	intervalLo := start
	windowOpenedUp := up

	t := start
	for t.Before(end) {
		t = t.Add(coarseStep)
		if t.After(end) {
			t = end
		}

		el, err := p.elevationAt(obs, t)
		if err != nil {
			return nil, err
		}

		switch {
		case !up && el >= thresholdDeg:
			rise := p.refineCrossing(obs, prevT, t, thresholdDeg, true)
			events = append(events, CrossingEvent{Time: rise, Kind: Rise})
			intervalLo = rise
			windowOpenedUp = false
			up = true

		case up && el < thresholdDeg:
			set := p.refineCrossing(obs, prevT, t, thresholdDeg, false)
			if peak, ok := p.findPeak(obs, intervalLo, set, windowOpenedUp, false); ok {
				events = append(events, CrossingEvent{Time: peak, Kind: Peak})
			}
			events = append(events, CrossingEvent{Time: set, Kind: Set})
			up = false
		}

		prevT = t
	}

	// Window closed while the satellite was still up: trailing partial.
	if up {
		if peak, ok := p.findPeak(obs, intervalLo, end, windowOpenedUp, true); ok {
			events = append(events, CrossingEvent{Time: peak, Kind: Peak})
		}
	}

	return events, nil
}

// refineCrossing narrows a threshold crossing bracketed by [lo, hi] via
// bisection. rising selects the crossing direction.
func (p *SGP4Propagator) refineCrossing(obs transform.ObserverPosition, lo, hi time.Time, thresholdDeg float64, rising bool) time.Time {
	for i := 0; i < 40 && hi.Sub(lo) > refineTol; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)
		el, err := p.elevationAt(obs, mid)
		if err != nil {
			// Propagation hiccup inside the bracket: settle for the midpoint.
			return mid
		}

		above := el >= thresholdDeg
		if above == rising {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo.Add(hi.Sub(lo) / 2)
}

// findPeak locates the maximum-elevation instant in [lo, hi] with a coarse
// scan followed by a fine scan around the coarse maximum. For partial
// passes (openLo / openHi mark window-truncated bounds) a maximum sitting
// on the truncated edge is not a culmination and is not reported.
func (p *SGP4Propagator) findPeak(obs transform.ObserverPosition, lo, hi time.Time, openLo, openHi bool) (time.Time, bool) {
	if !hi.After(lo) {
		return time.Time{}, false
	}

	best := lo
	bestEl := -90.0
	for t := lo; !t.After(hi); t = t.Add(peakStep) {
		el, err := p.elevationAt(obs, t)
		if err != nil {
			continue
		}
		if el > bestEl {
			bestEl = el
			best = t
		}
	}

	fineLo := best.Add(-peakStep)
	if fineLo.Before(lo) {
		fineLo = lo
	}
	fineHi := best.Add(peakStep)
	if fineHi.After(hi) {
		fineHi = hi
	}
	for t := fineLo; !t.After(fineHi); t = t.Add(time.Second) {
		el, err := p.elevationAt(obs, t)
		if err != nil {
			continue
		}
		if el > bestEl {
			bestEl = el
			best = t
		}
	}

	// A max pinned to a window-truncated edge means the elevation was still
	// monotonic there, not a culmination.
	if openLo && best.Sub(lo) < peakStep {
		return time.Time{}, false
	}
	if openHi && hi.Sub(best) < peakStep {
		return time.Time{}, false
	}
	return best, true
}
