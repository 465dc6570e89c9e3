package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gopkg.in/dnaeon/go-vcr.v2/recorder"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
)

func newPeer(t *testing.T, company string) *httptest.Server {
	t.Helper()
	catalogs, err := catalog.NewSet(nil)
	if err != nil {
		t.Fatal(err)
	}
	handler := skill.NewHandler(company, catalogs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.Handle("/skills", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_AgainstPeer(t *testing.T) {
	srv := newPeer(t, "google")
	client := NewClient(srv.URL)
	ctx := context.Background()

	candidate := session.CandidateProfile{Name: "Alice", YearsExperience: 3, Domain: "payments", Projects: "ledger"}
	start, err := client.StartInterview(ctx, "system_design", candidate)
	if err != nil {
		t.Fatal(err)
	}
	if start.InterviewType != "system_design" {
		t.Errorf("InterviewType = %q", start.InterviewType)
	}

	phases, err := client.GetPhases(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(phases) != 3 || phases[2].ID != "deep_dive" {
		t.Errorf("phases = %+v", phases)
	}

	phaseCtx, err := client.GetContext(ctx, "requirements")
	if err != nil {
		t.Fatal(err)
	}
	if phaseCtx == "" {
		t.Error("empty phase context")
	}

	q, err := client.GetQuestion(ctx, candidate)
	if err != nil {
		t.Fatal(err)
	}
	if q == "" {
		t.Error("empty question")
	}

	result, err := client.EvaluatePhase(ctx, "requirements", []evaluate.Message{
		{Role: "user", Content: "10k qps, scale to millions of users, low latency, high availability"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Decision != evaluate.DecisionNextPhase {
		t.Errorf("Decision = %s, want next_phase", result.Decision)
	}

	closing, err := client.MarkClosingComplete(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !closing.ClosingComplete {
		t.Error("ClosingComplete = false")
	}
}

func TestClient_PeerErrorEnvelope(t *testing.T) {
	srv := newPeer(t, "google")
	client := NewClient(srv.URL)

	// get_phases before start_interview: a protocol error, not unavailability.
	_, err := client.GetPhases(context.Background())
	var serr *skill.Error
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *skill.Error", err)
	}
	if serr.Code != skill.CodeNoSession {
		t.Errorf("code = %s, want no_session", serr.Code)
	}
	if errors.Is(err, provider.ErrUnavailable) {
		t.Error("protocol error must not look like unavailability")
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := newPeer(t, "google")
	srv.Close()
	client := NewClient(srv.URL)

	_, err := client.GetPhases(context.Background())
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestClient_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()
	client := NewClient(srv.URL)

	_, err := client.GetPhases(context.Background())
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestClient_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()
	client := NewClient(srv.URL)

	_, err := client.GetPhases(context.Background())
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

// TestClient_VCRReplay records one skill exchange against a live peer, then
// replays it from the cassette with the peer shut down.
func TestClient_VCRReplay(t *testing.T) {
	srv := newPeer(t, "meta")
	cassette := filepath.Join(t.TempDir(), "skills")
	ctx := context.Background()

	rec, err := recorder.NewAsMode(cassette, recorder.ModeRecording, nil)
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: rec}))
	live, err := client.StartInterview(ctx, "behavioral", session.CandidateProfile{Name: "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Stop(); err != nil {
		t.Fatal(err)
	}

	srv.Close()

	replay, err := recorder.NewAsMode(cassette, recorder.ModeReplaying, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer replay.Stop()
	client = NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: replay}))
	replayed, err := client.StartInterview(ctx, "behavioral", session.CandidateProfile{Name: "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	if replayed != live {
		t.Errorf("replayed = %+v, live = %+v", replayed, live)
	}
}
