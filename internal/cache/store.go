package cache

import "sync"

// Store holds the current snapshot behind a read-write lock. Read never
// blocks on a refresh; Replace swaps the whole snapshot at once, so a
// concurrent reader observes either the previous snapshot or the new
// one, never a mix.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates an empty store. Read returns nil until the first
// Replace.
func NewStore() *Store {
	return &Store{}
}

// Read returns the latest published snapshot, or nil before the first
// successful refresh.
func (s *Store) Read() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace publishes a new snapshot, visible to all subsequent reads.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}
