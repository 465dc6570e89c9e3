// Package orchestrator drives the interview turn loop: it branches on the
// session state, consults the conversational collaborator where the flow is
// open-ended (routing, intro, closing), and applies the deterministic
// phase-progression rules during the design discussion.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/config"
	"github.com/srivatsj/interview-agent-sub000/internal/llm"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/storage"
)

// DeltaKind labels one state mutation applied during a turn.
type DeltaKind string

const (
	DeltaRoutingSet      DeltaKind = "routing_set"
	DeltaProfileSet      DeltaKind = "profile_set"
	DeltaTurnIncremented DeltaKind = "turn_incremented"
	DeltaPhaseAdvanced   DeltaKind = "phase_advanced"
	DeltaPhasesComplete  DeltaKind = "phases_complete"
	DeltaClosingComplete DeltaKind = "closing_complete"
)

// StateDelta records one mutation, in the order it was applied.
type StateDelta struct {
	Kind   DeltaKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

// TurnResult is the outcome of one turn: the ordered state mutations plus
// the agent's textual response.
type TurnResult struct {
	Deltas []StateDelta `json:"deltas,omitempty"`
	Reply  string       `json:"reply"`
}

// activeProvider is the backend bound to a session at design entry, with the
// phase list fetched once at binding time.
type activeProvider struct {
	provider provider.InterviewProvider
	phases   []catalog.Phase
	maxTurns int
}

// Orchestrator owns the turn loop for all sessions of this process.
type Orchestrator struct {
	catalogs  *catalog.Set
	providers *provider.Registry
	collab    llm.Collaborator
	store     storage.SessionStore // nil when persistence is disabled
	logger    *slog.Logger
	tracer    trace.Tracer

	mu     sync.Mutex
	active map[string]*activeProvider
}

// New creates an orchestrator. store may be nil.
func New(catalogs *catalog.Set, providers *provider.Registry, collab llm.Collaborator, store storage.SessionStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		catalogs:  catalogs,
		providers: providers,
		collab:    collab,
		store:     store,
		logger:    logger,
		tracer:    otel.Tracer("orchestrator"),
		active:    make(map[string]*activeProvider),
	}
}

func (o *Orchestrator) getActive(key string) (*activeProvider, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ap, ok := o.active[key]
	return ap, ok
}

func (o *Orchestrator) setActive(key string, ap *activeProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active[key] = ap
}

func (o *Orchestrator) dropActive(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, key)
}

// maxTurnsFor returns the per-phase turn ceiling for a session's track.
func (o *Orchestrator) maxTurnsFor(sess *session.Session) int {
	if sess.Routing != nil {
		if cat, ok := o.catalogs.Lookup(sess.Routing.Company, sess.Routing.InterviewType); ok {
			return cat.MaxTurns
		}
	}
	return config.DefaultMaxTurns
}

// flush persists the finished session, at most once, as a side effect.
// Persistence failures are logged and never fail the turn.
func (o *Orchestrator) flush(ctx context.Context, sess *session.Session) {
	o.dropActive(sess.Key)
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, sess.Snapshot()); err != nil {
		o.logger.Error("flush session",
			slog.String("session", sess.Key),
			slog.String("error", err.Error()),
		)
		return
	}
	o.logger.Info("session persisted", slog.String("session", sess.Key))
}

func (o *Orchestrator) startSpan(ctx context.Context, sess *session.Session) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "orchestrator.turn",
		trace.WithAttributes(
			attribute.String("session.key", sess.Key),
			attribute.String("session.state", string(sess.State)),
			attribute.Int("session.phase_index", sess.PhaseIndex),
		),
	)
}
