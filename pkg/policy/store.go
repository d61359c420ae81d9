package policy

import "sync/atomic"

// Store holds the currently published Policy for hot reload. Readers
// always observe one consistent snapshot: a reload builds a whole new
// Policy and publishes it atomically, never mutating the old one.
type Store struct {
	current atomic.Pointer[Policy]
}

// NewStore creates a store publishing an initial policy
func NewStore(p *Policy) *Store {
	s := &Store{}
	s.current.Store(p)
	return s
}

// Load returns the currently published policy
func (s *Store) Load() *Policy {
	return s.current.Load()
}

// Swap publishes a new policy and returns the previous one
func (s *Store) Swap(p *Policy) *Policy {
	return s.current.Swap(p)
}
