// Package local implements the interview-skill interface in-process over the
// catalog and evaluator. It is always available and has no failure mode
// beyond programming errors.
package local

import (
	"context"
	"fmt"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/question"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
)

// Register wires the local backend into the provider factory registry.
// Called from cmd at startup.
func Register() {
	if provider.IsRegistered("local") {
		return
	}
	provider.RegisterFactory(provider.Factory{
		Type:        "local",
		Description: "in-process interview provider over the local phase catalog",
		Create: func(cfg provider.Config) (provider.InterviewProvider, error) {
			return New(cfg.Catalog), nil
		},
		ValidateConfig: func(cfg provider.Config) error {
			if cfg.Catalog == nil {
				return fmt.Errorf("local provider requires a catalog")
			}
			return nil
		},
	})
}

// Provider serves one catalog in-process.
type Provider struct {
	cat *catalog.Catalog
}

var _ provider.InterviewProvider = (*Provider)(nil)

// New creates a local provider over a catalog.
func New(cat *catalog.Catalog) *Provider {
	return &Provider{cat: cat}
}

func (p *Provider) StartInterview(_ context.Context, interviewType string, candidate session.CandidateProfile) (skill.StartResult, error) {
	if interviewType != p.cat.InterviewType {
		return skill.StartResult{}, skill.Errorf(skill.CodeUnsupportedInterviewType,
			"this interviewer runs %q interviews, not %q", p.cat.InterviewType, interviewType)
	}
	return skill.StartResult{
		InterviewType: interviewType,
		CandidateInfo: candidate,
		Message:       "Interview started. Ask for the phase list to begin.",
	}, nil
}

func (p *Provider) GetQuestion(_ context.Context, candidate session.CandidateProfile) (string, error) {
	return question.Select(candidate.YearsExperience, candidate.Domain), nil
}

func (p *Provider) GetPhases(_ context.Context) ([]catalog.Phase, error) {
	return p.cat.Phases(), nil
}

func (p *Provider) GetContext(_ context.Context, phaseID string) (string, error) {
	if phaseID == "" {
		return "", skill.Errorf(skill.CodeMissingPhaseID, "phase_id is required")
	}
	if !p.cat.Has(phaseID) {
		return "", skill.Errorf(skill.CodeMissingPhaseID, "unknown phase_id %q", phaseID)
	}
	return p.cat.Context(phaseID), nil
}

func (p *Provider) EvaluatePhase(_ context.Context, phaseID string, transcript []evaluate.Message) (evaluate.Result, error) {
	if phaseID == "" {
		return evaluate.Result{}, skill.Errorf(skill.CodeMissingPhaseID, "phase_id is required")
	}
	if !p.cat.Has(phaseID) {
		return evaluate.Result{}, skill.Errorf(skill.CodeMissingPhaseID, "unknown phase_id %q", phaseID)
	}
	return evaluate.Evaluate(p.cat.Keywords(phaseID), transcript, p.cat.CoverageSource), nil
}
