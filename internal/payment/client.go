package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to a remote payment peer over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*Client)(nil)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a payment client for the peer at baseURL.
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

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payment peer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode payment response: %w", err)
	}
	return nil
}

func (c *Client) GetCart(ctx context.Context, interviewType string) (*CartMandate, error) {
	var cart CartMandate
	err := c.post(ctx, "/v1/carts", map[string]string{"interview_type": interviewType}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) Charge(ctx context.Context, mandate *CartMandate) (*Receipt, error) {
	var receipt Receipt
	if err := c.post(ctx, "/v1/charges", mandate, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
