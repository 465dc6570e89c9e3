// Package skill defines the wire protocol shared by the in-process and
// HTTP-based interview providers: skill names, argument/result shapes, and
// the {status, skill, result} / {status, error} envelope.
//
// Envelope encoding goes through encoding/json, which emits struct fields in
// declared order and map keys sorted, so identical logical responses are
// byte-identical across processes.
package skill

import (
	"encoding/json"
	"fmt"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
)

// Skill names. Evaluate is accepted as an alias of EvaluatePhase.
const (
	GetSupportedInterviewTypes = "get_supported_interview_types"
	StartInterview             = "start_interview"
	GetPhases                  = "get_phases"
	GetContext                 = "get_context"
	GetQuestion                = "get_question"
	EvaluatePhase              = "evaluate_phase"
	Evaluate                   = "evaluate"
	MarkClosingComplete        = "mark_closing_complete"
)

// Error codes of the protocol's user-input and contract error taxonomy.
const (
	CodeUnsupportedInterviewType = "unsupported_interview_type"
	CodeNoSession                = "no_session"
	CodeMissingPhaseID           = "missing_phase_id"
	CodeInvalidHistory           = "invalid_history"
	CodeUnknownSkill             = "unknown_skill"
	CodeMissingArgument          = "missing_argument"
	CodeExecutionError           = "execution_error"
)

// Error is a protocol-level error with a stable code. It reports a user
// input or contract problem; the peer's session state is unchanged and the
// same call can be retried with corrected input.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds a protocol error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Request is one skill invocation.
type Request struct {
	Skill string          `json:"skill"`
	Args  json.RawMessage `json:"args,omitempty"`
}

// Response is the envelope wrapping every skill result.
type Response struct {
	Status string          `json:"status"`
	Skill  string          `json:"skill,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Err    *Error          `json:"error,omitempty"`
}

// OK wraps a result in a success envelope.
func OK(skillName string, result any) (Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Response{}, fmt.Errorf("marshal %s result: %w", skillName, err)
	}
	return Response{Status: "ok", Skill: skillName, Result: raw}, nil
}

// Fail wraps a protocol error in an error envelope.
func Fail(err *Error) Response {
	return Response{Status: "error", Err: err}
}

// TypesResult answers get_supported_interview_types.
type TypesResult struct {
	InterviewTypes []string `json:"interview_types"`
}

// StartArgs carries start_interview arguments.
type StartArgs struct {
	InterviewType string                   `json:"interview_type"`
	CandidateInfo session.CandidateProfile `json:"candidate_info"`
}

// StartResult acknowledges start_interview.
type StartResult struct {
	InterviewType string                   `json:"interview_type"`
	CandidateInfo session.CandidateProfile `json:"candidate_info"`
	Message       string                   `json:"message"`
}

// PhasesResult answers get_phases.
type PhasesResult struct {
	Phases []catalog.Phase `json:"phases"`
}

// ContextArgs carries get_context arguments.
type ContextArgs struct {
	PhaseID string `json:"phase_id"`
}

// ContextResult answers get_context.
type ContextResult struct {
	PhaseID string `json:"phase_id"`
	Context string `json:"context"`
}

// QuestionResult answers get_question.
type QuestionResult struct {
	Question string `json:"question"`
}

// EvaluateArgs carries evaluate_phase arguments. ConversationHistory is kept
// as raw JSON so a non-list payload can be rejected with invalid_history
// rather than a generic decode failure.
type EvaluateArgs struct {
	PhaseID             string          `json:"phase_id"`
	ConversationHistory json.RawMessage `json:"conversation_history"`
}

// History decodes the conversation history, distinguishing a malformed shape
// from an empty one.
func (a EvaluateArgs) History() ([]evaluate.Message, *Error) {
	if len(a.ConversationHistory) == 0 {
		return nil, nil
	}
	var msgs []evaluate.Message
	if err := json.Unmarshal(a.ConversationHistory, &msgs); err != nil {
		return nil, Errorf(CodeInvalidHistory, "conversation_history must be a list of {role, content} objects")
	}
	return msgs, nil
}

// EvaluateResult answers evaluate_phase.
type EvaluateResult struct {
	PhaseID    string          `json:"phase_id"`
	Evaluation evaluate.Result `json:"evaluation"`
}

// ClosingResult answers mark_closing_complete.
type ClosingResult struct {
	ClosingComplete bool   `json:"closing_complete"`
	Message         string `json:"message"`
}
