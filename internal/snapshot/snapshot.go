// internal/snapshot/snapshot.go

// Package snapshot holds the most recently decoded register values. The
// store publishes by replacing an immutable map behind an atomic pointer:
// readers never observe a half-updated snapshot and never block writers.
package snapshot

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/openhru/brinkd/internal/codec"
)

// Reading is one decoded register value with its provenance.
type Reading struct {
	Value codec.Value
	At    time.Time
	// Stale marks values whose last poll attempt failed. The previous
	// value is kept so consumers degrade gracefully instead of losing
	// the field.
	Stale bool
}

// Store is the published snapshot. One writer path (token-guarded poll and
// command code), many lock-free readers.
type Store struct {
	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[map[string]Reading]
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	empty := make(map[string]Reading)
	s.cur.Store(&empty)
	return s
}

// Current returns the last published snapshot. Non-blocking. Callers must
// treat the map as read-only.
func (s *Store) Current() map[string]Reading {
	return *s.cur.Load()
}

// Apply merges fresh values, clearing staleness on each. The untouched
// remainder of the snapshot carries over unchanged.
func (s *Store) Apply(at time.Time, values map[string]codec.Value) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	for k, v := range values {
		next[k] = Reading{Value: v, At: at}
	}
	s.cur.Store(&next)
}

// MarkStale flags keys whose read failed, keeping their previous value and
// timestamp. Keys never read before are skipped; there is nothing to keep.
func (s *Store) MarkStale(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.clone()
	changed := false
	for _, k := range keys {
		if r, ok := next[k]; ok && !r.Stale {
			r.Stale = true
			next[k] = r
			changed = true
		}
	}
	if changed {
		s.cur.Store(&next)
	}
}

func (s *Store) clone() map[string]Reading {
	cur := *s.cur.Load()
	next := make(map[string]Reading, len(cur)+4)
	for k, v := range cur {
		next[k] = v
	}
	return next
}
