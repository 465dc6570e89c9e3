package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

// Scripted is a deterministic collaborator for tests and offline runs. It
// extracts routing and profile fields from the latest user message with
// simple pattern matching and invokes the matching tool when one is offered;
// otherwise it echoes a canned conversational line.
type Scripted struct{}

var _ Collaborator = (*Scripted)(nil)

// NewScripted creates a scripted collaborator.
func NewScripted() *Scripted {
	return &Scripted{}
}

var yearsPattern = regexp.MustCompile(`(\d+)\s*(?:\+\s*)?years?`)

func (s *Scripted) Respond(_ context.Context, instruction string, transcript []evaluate.Message, tools []Tool) (Reply, error) {
	last := ""
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == "user" {
			last = transcript[i].Content
			break
		}
	}

	for _, t := range tools {
		switch t.Name {
		case "set_routing":
			if call, ok := scriptRouting(last); ok {
				return Reply{ToolCall: call}, nil
			}
		case "set_profile":
			if call, ok := scriptProfile(last); ok {
				return Reply{ToolCall: call}, nil
			}
		case "mark_closing_complete":
			lower := strings.ToLower(last)
			if strings.Contains(lower, "no") || strings.Contains(lower, "thank") || strings.Contains(lower, "done") {
				return Reply{ToolCall: &ToolCall{Name: "mark_closing_complete", Args: json.RawMessage(`{}`)}}, nil
			}
		}
	}

	if strings.Contains(instruction, "closing") {
		return Reply{Text: "Do you have any questions for me before we wrap up?"}, nil
	}
	return Reply{Text: "Understood. Tell me more."}, nil
}

func scriptRouting(text string) (*ToolCall, bool) {
	lower := strings.ToLower(text)

	company := ""
	for _, c := range []string{"google", "meta"} {
		if strings.Contains(lower, c) {
			company = c
			break
		}
	}
	if company == "" {
		return nil, false
	}

	interviewType := "system_design"
	if strings.Contains(lower, "behavioral") {
		interviewType = "behavioral"
	}

	args, _ := json.Marshal(map[string]any{
		"company":        company,
		"interview_type": interviewType,
		"confidence":     0.9,
	})
	return &ToolCall{Name: "set_routing", Args: args}, true
}

func scriptProfile(text string) (*ToolCall, bool) {
	// Expected shape: "name, N years, domain, projects" in any prose order;
	// only the comma-separated four-field form is recognized.
	parts := strings.Split(text, ",")
	if len(parts) < 4 {
		return nil, false
	}

	m := yearsPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil, false
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}

	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.TrimSpace(p))
	}

	name := fields[0]
	idx := -1
	for i, f := range fields {
		if i > 0 && yearsPattern.MatchString(strings.ToLower(f)) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	rest := append(append([]string(nil), fields[1:idx]...), fields[idx+1:]...)
	if len(rest) < 2 {
		return nil, false
	}
	domain := rest[0]
	projects := strings.Join(rest[1:], ", ")

	args, mErr := json.Marshal(map[string]any{
		"name":             name,
		"years_experience": years,
		"domain":           domain,
		"projects":         projects,
	})
	if mErr != nil {
		return nil, false
	}
	return &ToolCall{Name: "set_profile", Args: args}, true
}
