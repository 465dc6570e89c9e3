package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

// Snapshot is the JSON-serializable form of a session, used by the durable
// store for the at-most-once flush at session end.
type Snapshot struct {
	Key             string             `json:"key"`
	Routing         *RoutingDecision   `json:"routing,omitempty"`
	Profile         *CandidateProfile  `json:"profile,omitempty"`
	State           State              `json:"state"`
	PhaseIndex      int                `json:"phase_index"`
	PhaseTurnCount  int                `json:"phase_turn_count"`
	Transcript      []evaluate.Message `json:"transcript"`
	PhaseComplete   bool               `json:"phase_complete"`
	PhasesComplete  bool               `json:"phases_complete"`
	ClosingComplete bool               `json:"closing_complete"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Key:             s.Key,
		Routing:         s.Routing,
		Profile:         s.Profile,
		State:           s.State,
		PhaseIndex:      s.PhaseIndex,
		PhaseTurnCount:  s.PhaseTurnCount,
		Transcript:      append([]evaluate.Message(nil), s.Transcript...),
		PhaseComplete:   s.PhaseComplete,
		PhasesComplete:  s.PhasesComplete,
		ClosingComplete: s.ClosingComplete,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// Restore rebuilds a session from a snapshot.
func Restore(snap Snapshot) (*Session, error) {
	switch snap.State {
	case StateRouting, StateIntro, StateDesign, StateClosing, StateDone:
	default:
		return nil, fmt.Errorf("unknown session state %q", snap.State)
	}
	return &Session{
		Key:             snap.Key,
		Routing:         snap.Routing,
		Profile:         snap.Profile,
		State:           snap.State,
		PhaseIndex:      snap.PhaseIndex,
		PhaseTurnCount:  snap.PhaseTurnCount,
		Transcript:      append([]evaluate.Message(nil), snap.Transcript...),
		PhaseComplete:   snap.PhaseComplete,
		PhasesComplete:  snap.PhasesComplete,
		ClosingComplete: snap.ClosingComplete,
		CreatedAt:       snap.CreatedAt,
		UpdatedAt:       snap.UpdatedAt,
	}, nil
}

// MarshalSnapshot encodes a snapshot for storage.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// UnmarshalSnapshot decodes a stored snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	return snap, nil
}
