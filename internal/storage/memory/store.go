// Package memory is the in-memory implementation of the session store, used
// when no durable storage is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/storage"
)

// Store is an in-memory implementation of SessionStore.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]session.Snapshot
}

var _ storage.SessionStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{snapshots: make(map[string]session.Snapshot)}
}

func (s *Store) Save(_ context.Context, snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Key] = snap
	return nil
}

func (s *Store) Load(_ context.Context, key string) (session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[key]
	if !ok {
		return session.Snapshot{}, storage.ErrNotFound
	}
	return snap, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}

func (s *Store) Close() error { return nil }
