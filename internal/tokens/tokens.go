// Package tokens counts transcript tokens so the LLM collaborator can trim
// conversation context to its window.
package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

// Counter counts tokens for a model's encoding.
type Counter interface {
	// SupportsModel reports whether this counter handles the model.
	SupportsModel(model string) bool

	// CountMessages returns the token count of a message list, including a
	// small per-message framing overhead.
	CountMessages(model string, msgs []evaluate.Message) (int, error)
}

// Registry picks the counter for a model, falling back to a heuristic
// estimator for unknown models.
type Registry struct {
	counters []Counter
	fallback Counter
}

// NewRegistry creates a registry with the tiktoken counter registered and
// the estimator as fallback.
func NewRegistry() *Registry {
	return &Registry{
		counters: []Counter{NewTiktokenCounter()},
		fallback: NewEstimator(),
	}
}

// Register adds a counter, checked before the fallback.
func (r *Registry) Register(c Counter) {
	r.counters = append(r.counters, c)
}

// CountMessages counts tokens using the first counter that supports the
// model, or the fallback estimator.
func (r *Registry) CountMessages(model string, msgs []evaluate.Message) (int, error) {
	for _, c := range r.counters {
		if c.SupportsModel(model) {
			n, err := c.CountMessages(model, msgs)
			if err == nil {
				return n, nil
			}
			// A counter that claims the model but fails falls through to the
			// estimator rather than aborting the turn.
			break
		}
	}
	return r.fallback.CountMessages(model, msgs)
}

// perMessageOverhead approximates the chat framing tokens each message costs.
const perMessageOverhead = 4

// TiktokenCounter counts tokens with tiktoken encodings for OpenAI-family
// models.
type TiktokenCounter struct {
	mu    sync.Mutex
	cache map[string]tokenizer.Codec
}

// NewTiktokenCounter creates a tiktoken-backed counter.
func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{cache: make(map[string]tokenizer.Codec)}
}

// SupportsModel matches the OpenAI model families tiktoken ships encodings for.
func (c *TiktokenCounter) SupportsModel(model string) bool {
	model = strings.ToLower(model)
	for _, prefix := range []string{"gpt-", "o1", "o3", "o4", "text-embedding"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func (c *TiktokenCounter) codec(model string) (tokenizer.Codec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if codec, ok := c.cache[model]; ok {
		return codec, nil
	}

	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		// Unknown model variants fall back to the current base encoding.
		codec, err = tokenizer.Get(tokenizer.O200kBase)
		if err != nil {
			return nil, fmt.Errorf("get tokenizer encoding: %w", err)
		}
	}

	c.cache[model] = codec
	return codec, nil
}

func (c *TiktokenCounter) CountMessages(model string, msgs []evaluate.Message) (int, error) {
	codec, err := c.codec(model)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, m := range msgs {
		ids, _, err := codec.Encode(m.Content)
		if err != nil {
			return 0, fmt.Errorf("count tokens: %w", err)
		}
		total += len(ids) + perMessageOverhead
	}
	return total, nil
}

// Estimator approximates token counts at four characters per token. Used for
// models with no registered encoding.
type Estimator struct{}

// NewEstimator creates a heuristic estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// SupportsModel always returns true; the estimator is the universal fallback.
func (e *Estimator) SupportsModel(string) bool { return true }

func (e *Estimator) CountMessages(_ string, msgs []evaluate.Message) (int, error) {
	total := 0
	for _, m := range msgs {
		total += len(m.Content)/4 + perMessageOverhead
	}
	return total, nil
}
