package provider

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/config"
)

type trackKey struct {
	company       string
	interviewType string
}

// Registry selects the backend for a session. Remote agents are resolved
// from static configuration once at construction; a (company, interview_type)
// pair with a configured agent gets the remote backend, everything else the
// local one. The choice is made once per session, when the design phase
// begins.
type Registry struct {
	catalogs   *catalog.Set
	agents     map[trackKey]config.AgentConfig
	httpClient *http.Client
}

// NewRegistry builds a registry from the catalog set and agent config.
func NewRegistry(catalogs *catalog.Set, agents []config.AgentConfig, httpClient *http.Client) *Registry {
	m := make(map[trackKey]config.AgentConfig, len(agents))
	for _, a := range agents {
		m[trackKey{norm(a.Company), norm(a.InterviewType)}] = a
	}
	return &Registry{catalogs: catalogs, agents: m, httpClient: httpClient}
}

// ForSession returns the backend governing a session's design phase.
func (r *Registry) ForSession(company, interviewType string) (InterviewProvider, error) {
	cat, ok := r.catalogs.Lookup(company, interviewType)
	if !ok {
		return nil, fmt.Errorf("no catalog for %s/%s", company, interviewType)
	}

	if agent, ok := r.agents[trackKey{norm(company), norm(interviewType)}]; ok {
		return CreateFromFactory(Config{
			Type:       "remote",
			BaseURL:    agent.BaseURL,
			HTTPClient: r.httpClient,
		})
	}

	return CreateFromFactory(Config{Type: "local", Catalog: cat})
}

// Local returns the in-process backend for a pair, used as the fallback when
// a freshly selected remote backend fails its first call.
func (r *Registry) Local(company, interviewType string) (InterviewProvider, error) {
	cat, ok := r.catalogs.Lookup(company, interviewType)
	if !ok {
		return nil, fmt.Errorf("no catalog for %s/%s", company, interviewType)
	}
	return CreateFromFactory(Config{Type: "local", Catalog: cat})
}

// IsRemote reports whether a pair is configured with a remote agent.
func (r *Registry) IsRemote(company, interviewType string) bool {
	_, ok := r.agents[trackKey{norm(company), norm(interviewType)}]
	return ok
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
