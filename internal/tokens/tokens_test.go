package tokens

import (
	"testing"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

func TestEstimator(t *testing.T) {
	e := NewEstimator()

	if !e.SupportsModel("anything-at-all") {
		t.Error("estimator must support every model")
	}

	tests := []struct {
		name string
		msgs []evaluate.Message
		want int
	}{
		{"empty", nil, 0},
		{"one empty message", []evaluate.Message{{Role: "user"}}, perMessageOverhead},
		{"eight chars", []evaluate.Message{{Role: "user", Content: "12345678"}}, 2 + perMessageOverhead},
		{
			"two messages",
			[]evaluate.Message{
				{Role: "user", Content: "12345678"},
				{Role: "assistant", Content: "1234"},
			},
			3 + 2*perMessageOverhead,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.CountMessages("any", tt.msgs)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("CountMessages = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTiktokenCounter_SupportsModel(t *testing.T) {
	c := NewTiktokenCounter()

	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-4o-mini", true},
		{"GPT-4", true},
		{"o1-preview", true},
		{"claude-3", false},
		{"llama-3", false},
	}
	for _, tt := range tests {
		if got := c.SupportsModel(tt.model); got != tt.want {
			t.Errorf("SupportsModel(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestTiktokenCounter_CountMessages(t *testing.T) {
	c := NewTiktokenCounter()
	msgs := []evaluate.Message{{Role: "user", Content: "Design a URL shortener that scales."}}

	got, err := c.CountMessages("gpt-4o-mini", msgs)
	if err != nil {
		t.Fatal(err)
	}
	if got <= perMessageOverhead {
		t.Errorf("CountMessages = %d, want content tokens above the framing overhead", got)
	}

	// Unknown variants of a supported family use the base encoding.
	if _, err := c.CountMessages("gpt-99-turbo", msgs); err != nil {
		t.Errorf("CountMessages(unknown variant) = %v", err)
	}
}

func TestRegistry_FallsBackToEstimator(t *testing.T) {
	r := NewRegistry()
	msgs := []evaluate.Message{{Role: "user", Content: "hello there"}}

	n, err := r.CountMessages("claude-3", msgs)
	if err != nil {
		t.Fatal(err)
	}
	want := len("hello there")/4 + perMessageOverhead
	if n != want {
		t.Errorf("CountMessages = %d, want estimator value %d", n, want)
	}

	if _, err := r.CountMessages("gpt-4o-mini", msgs); err != nil {
		t.Errorf("CountMessages(gpt-4o-mini) = %v", err)
	}
}
