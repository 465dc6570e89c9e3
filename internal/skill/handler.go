package skill

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
	"github.com/srivatsj/interview-agent-sub000/internal/question"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
)

// Handler serves the skill protocol over HTTP for one peer agent process.
// An agentd instance represents a single company's interviewer; the active
// interview (catalog + candidate) is established by start_interview and
// required by the phase skills, which return no_session before that.
type Handler struct {
	company  string
	catalogs *catalog.Set
	logger   *slog.Logger

	mu      sync.Mutex
	active  *catalog.Catalog
	profile *session.CandidateProfile
}

// NewHandler creates a skill handler serving the given company's catalogs.
func NewHandler(company string, catalogs *catalog.Set, logger *slog.Logger) *Handler {
	return &Handler{company: company, catalogs: catalogs, logger: logger}
}

// ServeHTTP handles POST /skills. Protocol-level errors (bad skill name,
// bad arguments) come back as error envelopes with HTTP 200; only a
// malformed request body is an HTTP-level failure.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp := h.Dispatch(req)
	if resp.Err != nil {
		h.logger.Info("skill error",
			slog.String("skill", req.Skill),
			slog.String("code", resp.Err.Code),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode skill response", slog.String("error", err.Error()))
	}
}

// Dispatch routes one request to its skill implementation.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Skill {
	case GetSupportedInterviewTypes:
		return h.handleTypes()
	case StartInterview:
		return h.handleStart(req.Args)
	case GetPhases:
		return h.handlePhases()
	case GetContext:
		return h.handleContext(req.Args)
	case GetQuestion:
		return h.handleQuestion()
	case EvaluatePhase, Evaluate:
		return h.handleEvaluate(req.Args)
	case MarkClosingComplete:
		return h.handleClosing()
	default:
		return Fail(Errorf(CodeUnknownSkill, "unknown skill %q", req.Skill))
	}
}

func (h *Handler) handleTypes() Response {
	resp, err := OK(GetSupportedInterviewTypes, TypesResult{
		InterviewTypes: h.catalogs.SupportedTypes(h.company),
	})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) handleStart(args json.RawMessage) Response {
	var a StartArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return Fail(Errorf(CodeMissingArgument, "invalid start_interview arguments"))
		}
	}
	if a.InterviewType == "" {
		return Fail(Errorf(CodeMissingArgument, "interview_type is required"))
	}

	cat, ok := h.catalogs.Lookup(h.company, a.InterviewType)
	if !ok {
		return Fail(Errorf(CodeUnsupportedInterviewType,
			"%s does not offer %q interviews (supported: %v)",
			h.company, a.InterviewType, h.catalogs.SupportedTypes(h.company)))
	}

	h.mu.Lock()
	h.active = cat
	h.profile = &a.CandidateInfo
	h.mu.Unlock()

	resp, err := OK(StartInterview, StartResult{
		InterviewType: a.InterviewType,
		CandidateInfo: a.CandidateInfo,
		Message:       "Interview started. Ask for the phase list to begin.",
	})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) activeCatalog() (*catalog.Catalog, *Error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return nil, Errorf(CodeNoSession, "no interview started; call start_interview first")
	}
	return h.active, nil
}

func (h *Handler) handlePhases() Response {
	cat, serr := h.activeCatalog()
	if serr != nil {
		return Fail(serr)
	}
	resp, err := OK(GetPhases, PhasesResult{Phases: cat.Phases()})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) handleContext(args json.RawMessage) Response {
	cat, serr := h.activeCatalog()
	if serr != nil {
		return Fail(serr)
	}
	var a ContextArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return Fail(Errorf(CodeMissingArgument, "invalid get_context arguments"))
		}
	}
	if a.PhaseID == "" {
		return Fail(Errorf(CodeMissingPhaseID, "phase_id is required"))
	}
	if !cat.Has(a.PhaseID) {
		return Fail(Errorf(CodeMissingPhaseID, "unknown phase_id %q", a.PhaseID))
	}
	resp, err := OK(GetContext, ContextResult{PhaseID: a.PhaseID, Context: cat.Context(a.PhaseID)})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) handleQuestion() Response {
	if _, serr := h.activeCatalog(); serr != nil {
		return Fail(serr)
	}
	h.mu.Lock()
	profile := h.profile
	h.mu.Unlock()

	years, domain := 0, ""
	if profile != nil {
		years, domain = profile.YearsExperience, profile.Domain
	}
	resp, err := OK(GetQuestion, QuestionResult{Question: question.Select(years, domain)})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) handleEvaluate(args json.RawMessage) Response {
	cat, serr := h.activeCatalog()
	if serr != nil {
		return Fail(serr)
	}
	var a EvaluateArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return Fail(Errorf(CodeMissingArgument, "invalid evaluate arguments"))
		}
	}
	if a.PhaseID == "" {
		return Fail(Errorf(CodeMissingPhaseID, "phase_id is required"))
	}
	if !cat.Has(a.PhaseID) {
		return Fail(Errorf(CodeMissingPhaseID, "unknown phase_id %q", a.PhaseID))
	}
	history, herr := a.History()
	if herr != nil {
		return Fail(herr)
	}

	result := evaluate.Evaluate(cat.Keywords(a.PhaseID), history, cat.CoverageSource)
	resp, err := OK(EvaluatePhase, EvaluateResult{PhaseID: a.PhaseID, Evaluation: result})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}

func (h *Handler) handleClosing() Response {
	if _, serr := h.activeCatalog(); serr != nil {
		return Fail(serr)
	}
	h.mu.Lock()
	h.active = nil
	h.profile = nil
	h.mu.Unlock()

	resp, err := OK(MarkClosingComplete, ClosingResult{
		ClosingComplete: true,
		Message:         "Thanks for interviewing with us. You'll hear back about next steps soon.",
	})
	if err != nil {
		return Fail(Errorf(CodeExecutionError, "%v", err))
	}
	return resp
}
