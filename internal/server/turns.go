package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/srivatsj/interview-agent-sub000/internal/orchestrator"
	"github.com/srivatsj/interview-agent-sub000/internal/provider"
	"github.com/srivatsj/interview-agent-sub000/internal/session"
)

// TurnRequest is one conversation turn from the transport. An empty
// SessionID starts a new session.
type TurnRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// TurnResponse carries the agent reply and the session's observable state.
type TurnResponse struct {
	SessionID  string                    `json:"session_id"`
	Reply      string                    `json:"reply"`
	State      string                    `json:"state"`
	PhaseIndex int                       `json:"phase_index"`
	Deltas     []orchestrator.StateDelta `json:"deltas,omitempty"`
}

// TurnHandler serves POST /v1/turns for the orchestrator daemon.
type TurnHandler struct {
	sessions *session.Manager
	orch     *orchestrator.Orchestrator
	logger   *slog.Logger
}

// NewTurnHandler creates the turn endpoint handler.
func NewTurnHandler(sessions *session.Manager, orch *orchestrator.Orchestrator, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{sessions: sessions, orch: orch, logger: logger}
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	key := req.SessionID
	if key == "" {
		key = uuid.New().String()
	}
	sess, existed := h.sessions.Get(key)
	if !existed {
		h.logger.Info("session created", slog.String("session", key))
	}
	AddLogField(r.Context(), "session", key)

	result, err := h.orch.HandleTurn(r.Context(), sess, req.Message)
	if err != nil {
		AddError(r.Context(), err)
		if errors.Is(err, provider.ErrUnavailable) {
			http.Error(w, "the interview service is temporarily unavailable, please try again later", http.StatusBadGateway)
			return
		}
		http.Error(w, "something went wrong handling that turn", http.StatusInternalServerError)
		return
	}

	resp := TurnResponse{
		SessionID:  key,
		Reply:      result.Reply,
		State:      string(sess.State),
		PhaseIndex: sess.PhaseIndex,
		Deltas:     result.Deltas,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("encode turn response", slog.String("error", err.Error()))
	}
}
