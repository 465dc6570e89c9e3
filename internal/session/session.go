// Package session implements the per-conversation interview state machine.
//
// A session walks monotonically through routing -> intro -> design ->
// closing -> done. The design state carries a sub-state: an index into the
// active phase catalog plus a per-phase turn counter. All mutation goes
// through methods that enforce the transition table; a rejected mutation
// leaves the session untouched.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

// State is the top-level interview phase.
type State string

const (
	StateRouting State = "routing"
	StateIntro   State = "intro"
	StateDesign  State = "design"
	StateClosing State = "closing"
	StateDone    State = "done"
)

// validTransitions defines the legal state transitions. The sequence is
// strictly forward; the orchestrator never produces a backward move, and the
// table makes one a contract error rather than a silent corruption.
var validTransitions = map[State]map[State]bool{
	StateRouting: {StateIntro: true},
	StateIntro:   {StateDesign: true},
	StateDesign:  {StateClosing: true},
	StateClosing: {StateDone: true},
}

// IsValidTransition checks if a state transition is legal.
func IsValidTransition(from, to State) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

var (
	// ErrInvalidTransition is returned for a state change the transition
	// table does not allow. It indicates a programming error, not bad input.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnsupportedType is returned when a routing decision names a
	// (company, interview_type) combination with no catalog.
	ErrUnsupportedType = errors.New("unsupported interview type")

	// ErrProfileIncomplete is returned when the candidate profile is missing
	// a required field or fails a range check.
	ErrProfileIncomplete = errors.New("candidate profile incomplete")

	// ErrDone is returned for mutations attempted on a finished session.
	ErrDone = errors.New("interview already complete")
)

// RoutingDecision is the resolved (company, interview_type) pair that selects
// the catalog and provider for the rest of the session.
type RoutingDecision struct {
	Company       string  `json:"company"`
	InterviewType string  `json:"interview_type"`
	Confidence    float64 `json:"confidence"`
}

// CandidateProfile is collected once during the intro phase and immutable
// afterward.
type CandidateProfile struct {
	Name            string `json:"name"`
	YearsExperience int    `json:"years_experience"`
	Domain          string `json:"domain"`
	Projects        string `json:"projects"`
}

// Validate checks the four required fields and the experience range.
func (p CandidateProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrProfileIncomplete)
	}
	if p.YearsExperience < 0 {
		return fmt.Errorf("%w: years_experience must be >= 0", ErrProfileIncomplete)
	}
	if p.Domain == "" {
		return fmt.Errorf("%w: domain is required", ErrProfileIncomplete)
	}
	if p.Projects == "" {
		return fmt.Errorf("%w: projects is required", ErrProfileIncomplete)
	}
	return nil
}

// Session is the mutable per-conversation aggregate. It is owned by the
// process that created it and is never mutated concurrently; the manager
// serializes access per key.
type Session struct {
	Key string

	Routing *RoutingDecision
	Profile *CandidateProfile

	State          State
	PhaseIndex     int
	PhaseTurnCount int

	Transcript []evaluate.Message

	PhaseComplete   bool
	PhasesComplete  bool
	ClosingComplete bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a session in the routing state.
func New(key string) *Session {
	now := time.Now()
	return &Session{
		Key:       key,
		State:     StateRouting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) transition(to State) error {
	if !IsValidTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// SetRouting validates the combination against the catalog whitelist and, on
// success, records the decision and advances routing -> intro. On rejection
// the session is unchanged.
func (s *Session) SetRouting(dec RoutingDecision, catalogs *catalog.Set) error {
	if s.State != StateRouting {
		return fmt.Errorf("%w: routing already decided in state %s", ErrInvalidTransition, s.State)
	}
	if err := catalogs.Validate(dec.Company, dec.InterviewType); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	s.Routing = &dec
	return s.transition(StateIntro)
}

// SetProfile records the candidate profile and advances intro -> design. On
// validation failure the session is unchanged.
func (s *Session) SetProfile(p CandidateProfile) error {
	if s.State != StateIntro {
		return fmt.Errorf("%w: profile collection happens in intro, not %s", ErrInvalidTransition, s.State)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.Profile = &p
	return s.transition(StateDesign)
}

// IncrementTurn bumps the per-phase turn counter.
func (s *Session) IncrementTurn() {
	s.PhaseTurnCount++
	s.UpdatedAt = time.Now()
}

// AdvancePhase moves to the next design phase, resetting the turn counter.
// When the index passes the end of the catalog the session enters closing and
// PhasesComplete is set.
func (s *Session) AdvancePhase(totalPhases int) error {
	if s.State != StateDesign {
		return fmt.Errorf("%w: cannot advance phase in state %s", ErrInvalidTransition, s.State)
	}
	s.PhaseIndex++
	s.PhaseTurnCount = 0
	s.PhaseComplete = false
	s.UpdatedAt = time.Now()
	if s.PhaseIndex >= totalPhases {
		s.PhasesComplete = true
		return s.transition(StateClosing)
	}
	return nil
}

// MarkClosingComplete records the explicit closing signal and advances
// closing -> done. Completion is never inferred from turn count.
func (s *Session) MarkClosingComplete() error {
	if s.State == StateDone {
		return ErrDone
	}
	if s.State != StateClosing {
		return fmt.Errorf("%w: closing signal in state %s", ErrInvalidTransition, s.State)
	}
	s.ClosingComplete = true
	return s.transition(StateDone)
}

// Append adds one message to the transcript. Appends are the only transcript
// mutation; order is chronological.
func (s *Session) Append(role, content string) {
	s.Transcript = append(s.Transcript, evaluate.Message{Role: role, Content: content})
	s.UpdatedAt = time.Now()
}

// Done reports whether the session reached the terminal state.
func (s *Session) Done() bool { return s.State == StateDone }
