// Package session keeps per-browser workspaces in memory. Nothing is
// persisted; a workspace lives until it has been idle for the TTL.
package session

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	lastSeen time.Time
}

// Store maps session ids to workspaces created on first use.
type Store[V any] struct {
	sessions map[string]*entry[V]
	mu       sync.Mutex
	ttl      time.Duration
	factory  func(id string) V
	now      func() time.Time
}

// NewStore creates a store. factory builds the workspace for a new id.
func NewStore[V any](ttl time.Duration, factory func(id string) V) *Store[V] {
	return &Store[V]{
		sessions: make(map[string]*entry[V]),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Get returns the workspace for id, creating it when missing or expired.
// Expired workspaces of other ids are dropped on the way.
func (s *Store[V]) Get(id string) V {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	e, ok := s.sessions[id]
	if !ok {
		e = &entry[V]{value: s.factory(id)}
		s.sessions[id] = e
	}
	e.lastSeen = now
	return e.value
}

// Lookup returns the workspace for id without creating one.
func (s *Store[V]) Lookup(id string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e, s.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Delete drops a workspace.
func (s *Store[V]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live workspaces.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.sessions)
}

func (s *Store[V]) expired(e *entry[V], now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store[V]) sweepLocked(now time.Time) {
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
		}
	}
}
