package tle

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store provides thread-safe access to the current catalog snapshot.
// Snapshots are replaced wholesale; a search in progress keeps reading the
// snapshot it started with.
type Store struct {
	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64
	mu         sync.Mutex // serializes refresh operations
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current snapshot, or nil if none has been loaded.
func (s *Store) Get() *Snapshot {
	return s.snapshot.Load()
}

// Swap atomically replaces the current snapshot, stamping it with the next
// generation number.
func (s *Store) Swap(snap *Snapshot) {
	snap.Generation = s.generation.Add(1)
	s.snapshot.Store(snap)
}

// AgeSeconds returns the age of the current snapshot in seconds, or -1 if
// no snapshot is loaded.
func (s *Store) AgeSeconds() float64 {
	snap := s.snapshot.Load()
	if snap == nil {
		return -1
	}
	return time.Since(snap.FetchedAt).Seconds()
}

// Lock acquires the refresh mutex so concurrent reload requests do not
// race each other to the network.
func (s *Store) Lock() {
	s.mu.Lock()
}

// Unlock releases the refresh mutex.
func (s *Store) Unlock() {
	s.mu.Unlock()
}
