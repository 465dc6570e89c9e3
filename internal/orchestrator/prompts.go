package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/llm"
)

const routingInstruction = `You are the front desk of a mock-interview practice service.
Find out which company style and interview type the candidate wants to practice.
When both are clear, invoke the set_routing tool. Valid combinations: %s.
If the request is ambiguous, ask one short clarifying question instead.`

const introInstruction = `You are a mock interviewer greeting a candidate.
Collect four things: name, years of experience, primary domain, and a notable project.
When you have all four, invoke the set_profile tool.
Otherwise ask only for the missing pieces, briefly.`

const closingInstruction = `The design discussion is over; you are in the closing phase of the
interview. Answer any remaining candidate questions briefly. When the candidate has no
further questions, invoke the mark_closing_complete tool.`

const (
	introGreeting = "You're set up for a %s %s interview. Before we begin, tell me a bit about " +
		"yourself: your name, years of experience, your primary domain, and a project you're proud of."
	closingOpener = "That wraps up the design discussion. Do you have any questions for me " +
		"about the role or the process?"
	doneNotice = "This interview is complete. Start a new session to practice again."
)

var routingToolParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"company": {"type": "string"},
		"interview_type": {"type": "string"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	},
	"required": ["company", "interview_type"]
}`)

var profileToolParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"years_experience": {"type": "integer", "minimum": 0},
		"domain": {"type": "string"},
		"projects": {"type": "string"}
	},
	"required": ["name", "years_experience", "domain", "projects"]
}`)

var closingToolParams = json.RawMessage(`{"type": "object", "properties": {}}`)

func routingTools(combinations []string) []llm.Tool {
	return []llm.Tool{{
		Name: "set_routing",
		Description: fmt.Sprintf("Record the candidate's company style and interview type. Valid: %s.",
			strings.Join(combinations, ", ")),
		Parameters: routingToolParams,
	}}
}

func introTools() []llm.Tool {
	return []llm.Tool{{
		Name:        "set_profile",
		Description: "Record the candidate's name, years of experience, domain, and projects.",
		Parameters:  profileToolParams,
	}}
}

func closingTools() []llm.Tool {
	return []llm.Tool{{
		Name:        "mark_closing_complete",
		Description: "Signal that the candidate has no further questions and the interview can end.",
		Parameters:  closingToolParams,
	}}
}
