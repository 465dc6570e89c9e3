package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
)

// HandleTurn processes one user message for a session and returns the state
// mutations plus the agent's reply. The caller owns the session and calls
// strictly turn-by-turn; no two turns are ever in flight for one session.
//
// User input errors come back in-band as reply text with no state change.
// Collaborator and provider failures return an error; the user message is
// not recorded, so the same turn can be retried.
func (o *Orchestrator) HandleTurn(ctx context.Context, sess *session.Session, userMessage string) (*TurnResult, error) {
	ctx, span := o.startSpan(ctx, sess)
	defer span.End()

	if sess.Done() {
		sess.Append("user", userMessage)
		sess.Append("assistant", doneNotice)
		return &TurnResult{Reply: doneNotice}, nil
	}

	sess.Append("user", userMessage)

	var (
		res *TurnResult
		err error
	)
	switch sess.State {
	case session.StateRouting:
		res, err = o.routingTurn(ctx, sess)
	case session.StateIntro:
		res, err = o.introTurn(ctx, sess)
	case session.StateDesign:
		res, err = o.designTurn(ctx, sess)
	case session.StateClosing:
		res, err = o.closingTurn(ctx, sess)
	default:
		err = fmt.Errorf("session %s in unknown state %q", sess.Key, sess.State)
	}
	if err != nil {
		// Leave the session at its last good state for a retry.
		sess.Transcript = sess.Transcript[:len(sess.Transcript)-1]
		return nil, err
	}

	if res.Reply != "" {
		sess.Append("assistant", res.Reply)
	}
	return res, nil
}

func (o *Orchestrator) routingTurn(ctx context.Context, sess *session.Session) (*TurnResult, error) {
	combos := o.catalogs.Combinations()
	instruction := fmt.Sprintf(routingInstruction, strings.Join(combos, ", "))

	reply, err := o.collab.Respond(ctx, instruction, sess.Transcript, routingTools(combos))
	if err != nil {
		return nil, fmt.Errorf("collaborator: %w", err)
	}

	if reply.ToolCall == nil || reply.ToolCall.Name != "set_routing" {
		return &TurnResult{Reply: reply.Text}, nil
	}

	var dec session.RoutingDecision
	if err := json.Unmarshal(reply.ToolCall.Args, &dec); err != nil {
		return &TurnResult{Reply: "I didn't catch that. Which company style and interview type would you like to practice?"}, nil
	}

	if err := sess.SetRouting(dec, o.catalogs); err != nil {
		if errors.Is(err, session.ErrUnsupportedType) {
			return &TurnResult{Reply: err.Error()}, nil
		}
		return nil, err
	}

	o.logger.Info("routing decided",
		slog.String("session", sess.Key),
		slog.String("company", dec.Company),
		slog.String("interview_type", dec.InterviewType),
	)

	return &TurnResult{
		Deltas: []StateDelta{{Kind: DeltaRoutingSet, Detail: dec.Company + "/" + dec.InterviewType}},
		Reply:  fmt.Sprintf(introGreeting, dec.Company, strings.ReplaceAll(dec.InterviewType, "_", " ")),
	}, nil
}

func (o *Orchestrator) introTurn(ctx context.Context, sess *session.Session) (*TurnResult, error) {
	reply, err := o.collab.Respond(ctx, introInstruction, sess.Transcript, introTools())
	if err != nil {
		return nil, fmt.Errorf("collaborator: %w", err)
	}

	if reply.ToolCall == nil || reply.ToolCall.Name != "set_profile" {
		return &TurnResult{Reply: reply.Text}, nil
	}

	var p session.CandidateProfile
	if err := json.Unmarshal(reply.ToolCall.Args, &p); err != nil {
		return &TurnResult{Reply: "I couldn't read your details. Please share your name, years of experience, domain, and a project."}, nil
	}

	if err := sess.SetProfile(p); err != nil {
		if errors.Is(err, session.ErrProfileIncomplete) {
			return &TurnResult{Reply: err.Error()}, nil
		}
		return nil, err
	}

	deltas := []StateDelta{{Kind: DeltaProfileSet, Detail: p.Name}}

	// The intro->design transition notice is coalesced with the first
	// phase's opening output.
	ap, err := o.bindProvider(ctx, sess)
	if err != nil {
		return nil, err
	}
	opening, openDeltas, err := o.beginPhase(ctx, sess, ap)
	if err != nil {
		return nil, err
	}

	return &TurnResult{Deltas: append(deltas, openDeltas...), Reply: opening}, nil
}

func (o *Orchestrator) designTurn(ctx context.Context, sess *session.Session) (*TurnResult, error) {
	ap, ok := o.getActive(sess.Key)
	if !ok {
		// Session restored from storage or predates a restart; rebind.
		var err error
		ap, err = o.bindProvider(ctx, sess)
		if err != nil {
			return nil, err
		}
	}

	if sess.PhaseTurnCount == 0 {
		opening, deltas, err := o.beginPhase(ctx, sess, ap)
		if err != nil {
			return nil, err
		}
		return &TurnResult{Deltas: deltas, Reply: opening}, nil
	}

	phase := ap.phases[sess.PhaseIndex]
	result, err := ap.provider.EvaluatePhase(ctx, phase.ID, sess.Transcript)
	if err != nil {
		return nil, fmt.Errorf("evaluate phase %s: %w", phase.ID, err)
	}

	forced := sess.PhaseTurnCount+1 >= ap.maxTurns
	if result.Decision != evaluate.DecisionNextPhase && !forced {
		sess.IncrementTurn()
		return &TurnResult{
			Deltas: []StateDelta{{Kind: DeltaTurnIncremented, Detail: phase.ID}},
			Reply:  result.FollowupQuestions,
		}, nil
	}

	detail := phase.ID
	if forced && result.Decision != evaluate.DecisionNextPhase {
		detail += " (turn ceiling reached)"
		o.logger.Info("phase advanced by turn ceiling",
			slog.String("session", sess.Key),
			slog.String("phase", phase.ID),
			slog.Int("max_turns", ap.maxTurns),
		)
	}

	if err := sess.AdvancePhase(len(ap.phases)); err != nil {
		return nil, err
	}
	deltas := []StateDelta{{Kind: DeltaPhaseAdvanced, Detail: detail}}

	if sess.State == session.StateClosing {
		deltas = append(deltas, StateDelta{Kind: DeltaPhasesComplete})
		return &TurnResult{Deltas: deltas, Reply: closingOpener}, nil
	}

	// Phase-transition notice coalesced with the next phase's opening.
	opening, openDeltas, err := o.beginPhase(ctx, sess, ap)
	if err != nil {
		return nil, err
	}
	reply := opening
	if result.Message != "" {
		reply = result.Message + "\n\n" + opening
	}
	return &TurnResult{Deltas: append(deltas, openDeltas...), Reply: reply}, nil
}

func (o *Orchestrator) closingTurn(ctx context.Context, sess *session.Session) (*TurnResult, error) {
	reply, err := o.collab.Respond(ctx, closingInstruction, sess.Transcript, closingTools())
	if err != nil {
		return nil, fmt.Errorf("collaborator: %w", err)
	}

	if reply.ToolCall == nil || reply.ToolCall.Name != "mark_closing_complete" {
		return &TurnResult{Reply: reply.Text}, nil
	}

	if err := sess.MarkClosingComplete(); err != nil {
		return nil, err
	}
	o.flush(ctx, sess)

	return &TurnResult{
		Deltas: []StateDelta{{Kind: DeltaClosingComplete}},
		Reply:  "Thanks for practicing with us today. Good luck with the real thing!",
	}, nil
}

// bindProvider selects the backend for a session's design phase: remote when
// an agent is configured for the routing pair, local otherwise. A remote
// backend that fails its very first call falls back to local, once, here at
// the selection point; after binding there is no mid-session failover.
func (o *Orchestrator) bindProvider(ctx context.Context, sess *session.Session) (*activeProvider, error) {
	r := sess.Routing
	if r == nil || sess.Profile == nil {
		return nil, fmt.Errorf("session %s entered design without routing or profile", sess.Key)
	}

	prov, err := o.providers.ForSession(r.Company, r.InterviewType)
	if err != nil {
		return nil, err
	}

	_, err = prov.StartInterview(ctx, r.InterviewType, *sess.Profile)
	if err != nil && errors.Is(err, provider.ErrUnavailable) {
		o.logger.Warn("remote interview agent unavailable, falling back to local",
			slog.String("session", sess.Key),
			slog.String("company", r.Company),
			slog.String("error", err.Error()),
		)
		prov, err = o.providers.Local(r.Company, r.InterviewType)
		if err != nil {
			return nil, err
		}
		_, err = prov.StartInterview(ctx, r.InterviewType, *sess.Profile)
	}
	if err != nil {
		return nil, fmt.Errorf("start interview: %w", err)
	}

	phases, err := prov.GetPhases(ctx)
	if err != nil {
		return nil, fmt.Errorf("get phases: %w", err)
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("provider for %s/%s returned no phases", r.Company, r.InterviewType)
	}

	ap := &activeProvider{provider: prov, phases: phases, maxTurns: o.maxTurnsFor(sess)}
	o.setActive(sess.Key, ap)
	return ap, nil
}

// beginPhase emits a phase's opening output (its guidance, plus the tiered
// opening question when the design discussion is just starting) and counts
// the phase's first turn. No evaluation happens on this turn.
func (o *Orchestrator) beginPhase(ctx context.Context, sess *session.Session, ap *activeProvider) (string, []StateDelta, error) {
	phase := ap.phases[sess.PhaseIndex]

	guidance, err := ap.provider.GetContext(ctx, phase.ID)
	if err != nil {
		return "", nil, fmt.Errorf("get context for %s: %w", phase.ID, err)
	}

	var b strings.Builder
	if sess.PhaseIndex == 0 {
		q, err := ap.provider.GetQuestion(ctx, *sess.Profile)
		if err != nil {
			return "", nil, fmt.Errorf("get question: %w", err)
		}
		b.WriteString(q)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Let's focus on %s.", phase.Name)
	if guidance != "" {
		b.WriteString(" ")
		b.WriteString(guidance)
	}

	sess.IncrementTurn()
	return b.String(), []StateDelta{{Kind: DeltaTurnIncremented, Detail: phase.ID}}, nil
}
