// Package remote implements the interview-skill interface over HTTP against
// a peer agent process serving the skill protocol. Calls are not retried; a
// transport failure surfaces immediately so the caller can fall back to the
// local backend at its session-creation decision point.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
	"github.com/srivatsj/interview-agent-sub000/internal/skill"
)

// Register wires the remote backend into the provider factory registry.
// Called from cmd at startup.
func Register() {
	if provider.IsRegistered("remote") {
		return
	}
	provider.RegisterFactory(provider.Factory{
		Type:        "remote",
		Description: "HTTP interview provider proxying to a peer agent process",
		Create: func(cfg provider.Config) (provider.InterviewProvider, error) {
			opts := []ClientOption{}
			if cfg.HTTPClient != nil {
				opts = append(opts, WithHTTPClient(cfg.HTTPClient))
			}
			return NewClient(cfg.BaseURL, opts...), nil
		},
		ValidateConfig: func(cfg provider.Config) error {
			if cfg.BaseURL == "" {
				return fmt.Errorf("remote provider requires a base_url")
			}
			return nil
		},
	})
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (connection pool, tracing
// transport, VCR recorder).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks the skill protocol to one peer agent.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ provider.InterviewProvider = (*Client)(nil)

// NewClient creates a remote provider for the peer at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call posts one skill request and decodes the result into out. A peer error
// envelope comes back as *skill.Error; transport failures wrap
// provider.ErrUnavailable.
func (c *Client) call(ctx context.Context, skillName string, args, out any) error {
	var rawArgs json.RawMessage
	if args != nil {
		encoded, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("marshal %s args: %w", skillName, err)
		}
		rawArgs = encoded
	}

	body, err := json.Marshal(skill.Request{Skill: skillName, Args: rawArgs})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", skillName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/skills", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", skillName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", provider.ErrUnavailable, skillName, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %v", provider.ErrUnavailable, skillName, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: peer returned status %d: %s",
			provider.ErrUnavailable, skillName, httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var envelope skill.Response
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("%w: %s: decode envelope: %v", provider.ErrUnavailable, skillName, err)
	}

	if envelope.Status == "error" {
		if envelope.Err != nil {
			return envelope.Err
		}
		return skill.Errorf(skill.CodeExecutionError, "peer reported an error with no detail")
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%w: %s: decode result: %v", provider.ErrUnavailable, skillName, err)
		}
	}
	return nil
}

func (c *Client) StartInterview(ctx context.Context, interviewType string, candidate session.CandidateProfile) (skill.StartResult, error) {
	var result skill.StartResult
	err := c.call(ctx, skill.StartInterview, skill.StartArgs{
		InterviewType: interviewType,
		CandidateInfo: candidate,
	}, &result)
	return result, err
}

func (c *Client) GetQuestion(ctx context.Context, _ session.CandidateProfile) (string, error) {
	var result skill.QuestionResult
	if err := c.call(ctx, skill.GetQuestion, nil, &result); err != nil {
		return "", err
	}
	return result.Question, nil
}

func (c *Client) GetPhases(ctx context.Context) ([]catalog.Phase, error) {
	var result skill.PhasesResult
	if err := c.call(ctx, skill.GetPhases, nil, &result); err != nil {
		return nil, err
	}
	return result.Phases, nil
}

func (c *Client) GetContext(ctx context.Context, phaseID string) (string, error) {
	var result skill.ContextResult
	if err := c.call(ctx, skill.GetContext, skill.ContextArgs{PhaseID: phaseID}, &result); err != nil {
		return "", err
	}
	return result.Context, nil
}

func (c *Client) EvaluatePhase(ctx context.Context, phaseID string, transcript []evaluate.Message) (evaluate.Result, error) {
	history, err := json.Marshal(transcript)
	if err != nil {
		return evaluate.Result{}, fmt.Errorf("marshal transcript: %w", err)
	}
	var result skill.EvaluateResult
	if err := c.call(ctx, skill.EvaluatePhase, skill.EvaluateArgs{
		PhaseID:             phaseID,
		ConversationHistory: history,
	}, &result); err != nil {
		return evaluate.Result{}, err
	}
	return result.Evaluation, nil
}

// MarkClosingComplete forwards the explicit closing signal to the peer.
func (c *Client) MarkClosingComplete(ctx context.Context) (skill.ClosingResult, error) {
	var result skill.ClosingResult
	err := c.call(ctx, skill.MarkClosingComplete, nil, &result)
	return result, err
}
