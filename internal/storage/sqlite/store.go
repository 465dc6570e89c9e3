// Package sqlite is the SQLite implementation of the session store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/storage"
)

// Store is a SQLite implementation of SessionStore.
type Store struct {
	db *sql.DB
}

var _ storage.SessionStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			key TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			company TEXT,
			interview_type TEXT,
			snapshot TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_state ON sessions(state)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) Save(ctx context.Context, snap session.Snapshot) error {
	blob, err := session.MarshalSnapshot(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var company, interviewType string
	if snap.Routing != nil {
		company = snap.Routing.Company
		interviewType = snap.Routing.InterviewType
	}

	query := `INSERT INTO sessions (key, state, company, interview_type, snapshot, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET
	              state = excluded.state,
	              company = excluded.company,
	              interview_type = excluded.interview_type,
	              snapshot = excluded.snapshot,
	              updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		snap.Key, string(snap.State), company, interviewType, string(blob), snap.CreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (session.Snapshot, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, storage.ErrNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session.UnmarshalSnapshot([]byte(blob))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
