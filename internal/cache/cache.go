package cache

import "sync/atomic"

// Snapshot is a lock-free, read-optimized container for an immutable value.
// The preview engine swaps whole account snapshots through it so matchers
// never see a half-built collection.
type Snapshot[T any] struct{ v atomic.Value }

// Load returns the stored value, or the zero value if nothing was stored yet.
func (s *Snapshot[T]) Load() T {
	v := s.v.Load()
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Store atomically swaps in the new value.
func (s *Snapshot[T]) Store(v T) {
	s.v.Store(v)
}
