package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/tokens"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (any OpenAI-compatible endpoint).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxContextTokens caps the transcript token budget per request.
func WithMaxContextTokens(n int) ClientOption {
	return func(c *Client) {
		c.maxContextTokens = n
	}
}

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	apiKey           string
	baseURL          string
	model            string
	maxContextTokens int
	httpClient       *http.Client
	counter          *tokens.Registry
}

var _ Collaborator = (*Client)(nil)

// NewClient creates a collaborator client for the given model.
func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      model,
		httpClient: http.DefaultClient,
		counter:    tokens.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatToolSpec `json:"function"`
}

type chatToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Respond sends the instruction as the system message and the trimmed
// transcript as the conversation, returning text or the first tool call.
func (c *Client) Respond(ctx context.Context, instruction string, transcript []evaluate.Message, tls []Tool) (Reply, error) {
	trimmed := c.trim(transcript)

	msgs := make([]chatMessage, 0, len(trimmed)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: instruction})
	for _, m := range trimmed {
		role := m.Role
		if role != "user" {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: m.Content})
	}

	req := chatRequest{Model: c.model, Messages: msgs}
	for _, t := range tls {
		req.Tools = append(req.Tools, chatTool{
			Type:     "function",
			Function: chatToolSpec{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Reply{}, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Reply{}, fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Reply{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Reply{}, fmt.Errorf("chat response contained no choices")
	}

	msg := parsed.Choices[0].Message
	reply := Reply{Text: msg.Content}
	if len(msg.ToolCalls) > 0 {
		tc := msg.ToolCalls[0]
		reply.ToolCall = &ToolCall{Name: tc.Function.Name, Args: json.RawMessage(tc.Function.Arguments)}
	}
	return reply, nil
}

// trim drops the oldest messages until the transcript fits the token budget.
// The most recent messages carry the conversation, so trimming is front-first.
func (c *Client) trim(transcript []evaluate.Message) []evaluate.Message {
	if c.maxContextTokens <= 0 {
		return transcript
	}
	for start := 0; start < len(transcript); start++ {
		n, err := c.counter.CountMessages(c.model, transcript[start:])
		if err != nil || n <= c.maxContextTokens {
			return transcript[start:]
		}
	}
	return nil
}
