// Package provider defines the interview-skill interface with two
// interchangeable backends: an in-process implementation over the local
// catalog and evaluator, and an HTTP implementation proxying to a peer agent
// process. Callers are written once against InterviewProvider; the concrete
// backend is chosen by the registry when a session enters the design phase
// and is immutable for the rest of that session.
package provider

import (
	"context"
	"errors"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
)

// ErrUnavailable wraps transport-level failures of the remote backend:
// connection errors and non-2xx HTTP responses. A peer that answered with a
// protocol error envelope surfaces as *skill.Error instead.
var ErrUnavailable = errors.New("interview service unavailable")

// InterviewProvider is the uniform skill interface of both backends.
type InterviewProvider interface {
	// StartInterview initializes the peer for an interview of the given type.
	StartInterview(ctx context.Context, interviewType string, candidate session.CandidateProfile) (skill.StartResult, error)

	// GetQuestion returns the opening question for the candidate.
	GetQuestion(ctx context.Context, candidate session.CandidateProfile) (string, error)

	// GetPhases returns the ordered phase list of the active catalog.
	GetPhases(ctx context.Context) ([]catalog.Phase, error)

	// GetContext returns the discussion guidance for a phase.
	GetContext(ctx context.Context, phaseID string) (string, error)

	// EvaluatePhase runs the keyword-coverage evaluation for a phase against
	// the accumulated transcript.
	EvaluatePhase(ctx context.Context, phaseID string, transcript []evaluate.Message) (evaluate.Result, error)
}
