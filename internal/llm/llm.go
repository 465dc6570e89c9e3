// Package llm models the conversational collaborator: given an instruction
// and conversation context it returns natural-language text or a structured
// tool invocation. The orchestrator treats it as opaque; the only
// implementation detail that leaks is the context window, which is enforced
// here by trimming the oldest transcript messages.
package llm

import (
	"context"
	"encoding/json"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

// Tool describes a structured action the collaborator may invoke instead of
// answering in prose.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is a structured invocation returned by the collaborator.
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Reply is one collaborator response: text, an optional tool call, or both.
type Reply struct {
	Text     string
	ToolCall *ToolCall
}

// Collaborator produces a conversational reply for the current turn.
type Collaborator interface {
	Respond(ctx context.Context, instruction string, transcript []evaluate.Message, tools []Tool) (Reply, error)
}
