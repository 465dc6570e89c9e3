package provider

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/config"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
)

// stubProvider records which backend type built it.
type stubProvider struct {
	backendType string
}

func (s *stubProvider) StartInterview(context.Context, string, session.CandidateProfile) (skill.StartResult, error) {
	return skill.StartResult{}, nil
}
func (s *stubProvider) GetQuestion(context.Context, session.CandidateProfile) (string, error) {
	return "", nil
}
func (s *stubProvider) GetPhases(context.Context) ([]catalog.Phase, error) { return nil, nil }
func (s *stubProvider) GetContext(context.Context, string) (string, error) { return "", nil }
func (s *stubProvider) EvaluatePhase(context.Context, string, []evaluate.Message) (evaluate.Result, error) {
	return evaluate.Result{}, nil
}

func registerStubs(t *testing.T) {
	t.Helper()
	ClearFactories()
	t.Cleanup(ClearFactories)

	for _, typ := range []string{"local", "remote"} {
		typ := typ
		RegisterFactory(Factory{
			Type:        typ,
			Description: "test stub",
			Create: func(cfg Config) (InterviewProvider, error) {
				return &stubProvider{backendType: typ}, nil
			},
			ValidateConfig: func(cfg Config) error {
				if typ == "remote" && cfg.BaseURL == "" {
					return fmt.Errorf("base_url required")
				}
				return nil
			},
		})
	}
}

func TestRegisterFactory(t *testing.T) {
	registerStubs(t)

	if got, want := ListTypes(), []string{"local", "remote"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListTypes() = %v, want %v", got, want)
	}
	if !IsRegistered("local") || IsRegistered("carrier-pigeon") {
		t.Error("IsRegistered misreported")
	}

	t.Run("duplicate panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("duplicate registration did not panic")
			}
		}()
		RegisterFactory(Factory{Type: "local", Create: func(Config) (InterviewProvider, error) { return nil, nil }})
	})

	t.Run("missing create panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("registration without Create did not panic")
			}
		}()
		RegisterFactory(Factory{Type: "incomplete"})
	})
}

func TestCreateFromFactory(t *testing.T) {
	registerStubs(t)

	t.Run("unknown type", func(t *testing.T) {
		_, err := CreateFromFactory(Config{Type: "carrier-pigeon"})
		if err == nil || !strings.Contains(err.Error(), "unknown provider type") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := CreateFromFactory(Config{Type: "remote"})
		if err == nil || !strings.Contains(err.Error(), "base_url required") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		p, err := CreateFromFactory(Config{Type: "remote", BaseURL: "http://peer:8081"})
		if err != nil {
			t.Fatal(err)
		}
		if p.(*stubProvider).backendType != "remote" {
			t.Errorf("built by %q factory", p.(*stubProvider).backendType)
		}
	})
}

func TestRegistry_BackendSelection(t *testing.T) {
	registerStubs(t)

	catalogs, err := catalog.NewSet(nil)
	if err != nil {
		t.Fatal(err)
	}
	agents := []config.AgentConfig{
		{Company: " Meta ", InterviewType: "Behavioral", BaseURL: "http://peer:8081"},
	}
	reg := NewRegistry(catalogs, agents, nil)

	tests := []struct {
		company, interviewType string
		wantBackend            string
	}{
		{"google", "system_design", "local"},
		{"meta", "system_design", "local"},
		{"meta", "behavioral", "remote"},
		{"META", "behavioral", "remote"},
	}
	for _, tt := range tests {
		p, err := reg.ForSession(tt.company, tt.interviewType)
		if err != nil {
			t.Fatalf("ForSession(%s, %s) = %v", tt.company, tt.interviewType, err)
		}
		if got := p.(*stubProvider).backendType; got != tt.wantBackend {
			t.Errorf("ForSession(%s, %s) built %q, want %q", tt.company, tt.interviewType, got, tt.wantBackend)
		}
		if got := reg.IsRemote(tt.company, tt.interviewType); got != (tt.wantBackend == "remote") {
			t.Errorf("IsRemote(%s, %s) = %v", tt.company, tt.interviewType, got)
		}
	}

	if _, err := reg.ForSession("netflix", "system_design"); err == nil {
		t.Error("ForSession with no catalog = nil, want error")
	}

	t.Run("local fallback ignores agent config", func(t *testing.T) {
		p, err := reg.Local("meta", "behavioral")
		if err != nil {
			t.Fatal(err)
		}
		if got := p.(*stubProvider).backendType; got != "local" {
			t.Errorf("Local built %q, want local", got)
		}
	})
}
