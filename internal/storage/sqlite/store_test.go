package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot(key string) session.Snapshot {
	now := time.Now().UTC().Truncate(time.Second)
	return session.Snapshot{
		Key:     key,
		State:   session.StateDone,
		Routing: &session.RoutingDecision{Company: "google", InterviewType: "system_design", Confidence: 0.9},
		Profile: &session.CandidateProfile{Name: "Alice", YearsExperience: 3, Domain: "payments", Projects: "ledger"},
		Transcript: []evaluate.Message{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "welcome"},
		},
		PhaseIndex:      3,
		PhasesComplete:  true,
		ClosingComplete: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestStore_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot("s1")
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != session.StateDone {
		t.Errorf("State = %s, want done", got.State)
	}
	if got.Routing == nil || got.Routing.Company != "google" {
		t.Errorf("Routing = %+v", got.Routing)
	}
	if len(got.Transcript) != 2 || got.Transcript[1].Role != "assistant" {
		t.Errorf("Transcript = %+v", got.Transcript)
	}
	if !got.ClosingComplete {
		t.Error("ClosingComplete lost in round trip")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot("s1")
	snap.State = session.StateClosing
	snap.ClosingComplete = false
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	snap.State = session.StateDone
	snap.ClosingComplete = true
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != session.StateDone || !got.ClosingComplete {
		t.Errorf("got %s/%v, want done/true", got.State, got.ClosingComplete)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load(missing) = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSnapshot("s1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Errorf("Delete(absent) = %v", err)
	}
}
