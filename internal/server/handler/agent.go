package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prophetlabs/signal2store/internal/domain"
	"github.com/prophetlabs/signal2store/internal/service"
)

// AgentService defines the methods the agent handler requires.
type AgentService interface {
	Copy(ctx context.Context, in service.CopyInput) service.AgentResult
	Plan(ctx context.Context, signalID string) (service.AgentResult, error)
}

// AgentHandler serves the merchandising agent endpoint.
type AgentHandler struct {
	agent  AgentService
	logger *slog.Logger
}

// NewAgentHandler creates an AgentHandler with the given service and logger.
func NewAgentHandler(agent AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{
		agent:  agent,
		logger: logger,
	}
}

// agentRequest is the agent endpoint's body. The dashboard sends the market
// context it already holds; signalId is a server-side alternative that
// resolves the signal from the current batch instead.
type agentRequest struct {
	Market              *domain.Market              `json:"market"`
	RecommendedProducts []domain.RecommendedProduct `json:"recommendedProducts"`
	PrefsTopKeywords    []string                    `json:"prefsTopKeywords"`
	SignalID            string                      `json:"signalId"`
}

// Plan generates ad copy for a market context, or a full merchandising plan
// when the request names a signal. Signals are derived state, so an ID from
// a stale batch returns 404.
// POST /api/agent
func (h *AgentHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAgentError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SignalID != "" {
		result, err := h.agent.Plan(r.Context(), req.SignalID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeAgentError(w, http.StatusNotFound, "signal not found")
				return
			}
			h.logger.ErrorContext(r.Context(), "handler: agent plan failed",
				slog.String("signal_id", req.SignalID),
				slog.String("error", err.Error()),
			)
			writeAgentError(w, http.StatusInternalServerError, "failed to build plan")
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if req.Market == nil || req.Market.Question == "" {
		writeAgentError(w, http.StatusBadRequest, "missing market or signalId")
		return
	}

	result := h.agent.Copy(r.Context(), service.CopyInput{
		Market:              *req.Market,
		RecommendedProducts: req.RecommendedProducts,
		TopKeywords:         req.PrefsTopKeywords,
	})
	writeJSON(w, http.StatusOK, result)
}

func writeAgentError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
