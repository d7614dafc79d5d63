// Package tle implements the element catalog: parsing, fetching, on-disk
// caching, and an atomically swapped in-memory snapshot of two-line element
// sets. The search engine only ever reads one consistent snapshot.
package tle

import "time"

// ElementSet is a single satellite's two-line element set.
type ElementSet struct {
	NORADID int
	Name    string
	Epoch   time.Time
	Line1   string
	Line2   string
}

// EpochRange is the minimum and maximum element epochs in a snapshot.
type EpochRange struct {
	Min time.Time
	Max time.Time
}

// Snapshot is a complete, immutable catalog of element sets from one load.
// Generation increases monotonically with every swap so downstream caches
// can tell snapshots apart.
type Snapshot struct {
	Source     string
	FetchedAt  time.Time
	Stale      bool
	Generation uint64
	EpochRange EpochRange
	Satellites []ElementSet

	byName map[string]*ElementSet
}

// NewSnapshot builds a snapshot from parsed element sets, computing the
// epoch range and the name index. Generation is assigned by the Store on swap.
func NewSnapshot(source string, fetchedAt time.Time, stale bool, sats []ElementSet) *Snapshot {
	s := &Snapshot{
		Source:     source,
		FetchedAt:  fetchedAt,
		Stale:      stale,
		Satellites: sats,
		byName:     make(map[string]*ElementSet, len(sats)),
	}
	for i := range sats {
		e := &sats[i]
		if s.EpochRange.Min.IsZero() || e.Epoch.Before(s.EpochRange.Min) {
			s.EpochRange.Min = e.Epoch
		}
		if e.Epoch.After(s.EpochRange.Max) {
			s.EpochRange.Max = e.Epoch
		}
		// First entry wins on duplicate names, matching catalog file order.
		if _, ok := s.byName[e.Name]; !ok {
			s.byName[e.Name] = e
		}
	}
	return s
}

// ElementLines returns the raw TLE lines for a satellite by display name.
func (s *Snapshot) ElementLines(name string) (line1, line2 string, ok bool) {
	e, ok := s.byName[name]
	if !ok {
		return "", "", false
	}
	return e.Line1, e.Line2, true
}

// Lookup returns the element set for a satellite by display name.
func (s *Snapshot) Lookup(name string) (ElementSet, bool) {
	e, ok := s.byName[name]
	if !ok {
		return ElementSet{}, false
	}
	return *e, true
}
