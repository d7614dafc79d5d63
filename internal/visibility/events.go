package visibility

import "github.com/SpMakris/VisibleSatelliteFinder/internal/propagation"

// triple is one complete rise/peak/set sequence extracted from the
// propagator's event stream.
type triple struct {
	rise propagation.CrossingEvent
	peak propagation.CrossingEvent
	set  propagation.CrossingEvent
}

// segmentTriples walks the chronological crossing-event sequence and
// extracts complete rise/peak/set triples. Leading events before the first
// Rise (a window that opened mid-pass) are discarded, as is any trailing
// incomplete sequence. Bounds are always checked against the slice length
// itself.
func segmentTriples(events []propagation.CrossingEvent) []triple {
	var triples []triple

	i := 0
	for i < len(events) {
		// Advance to the next Rise, discarding partial segments.
		for i < len(events) && events[i].Kind != propagation.Rise {
			i++
		}
		if i+2 >= len(events) {
			// Fewer than three events remain: trailing partial.
			break
		}

		rise, peak, set := events[i], events[i+1], events[i+2]
		if peak.Kind != propagation.Peak || set.Kind != propagation.Set {
			// Malformed cycle; resync from the event after this Rise.
			i++
			continue
		}

		triples = append(triples, triple{rise: rise, peak: peak, set: set})
		i += 3
	}

	return triples
}
