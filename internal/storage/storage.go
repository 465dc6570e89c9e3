// Package storage defines the durable session store. Sessions live in
// process memory for the life of a conversation; the store receives one
// snapshot flush when a session ends.
package storage

import (
	"context"
	"errors"

	"github.com/srivatsj/interview-agent-sub000/internal/session"
)

// ErrNotFound is returned by Load for an unknown session key.
var ErrNotFound = errors.New("session not found")

// SessionStore persists session snapshots keyed by session key.
type SessionStore interface {
	// Save upserts a snapshot.
	Save(ctx context.Context, snap session.Snapshot) error

	// Load returns the snapshot for a key, or ErrNotFound.
	Load(ctx context.Context, key string) (session.Snapshot, error)

	// Delete removes a stored snapshot. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}
