package assistantapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"pepuhub/internal/api/respond"
	"pepuhub/internal/assistant"
	"pepuhub/internal/metrics"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

const apologyResponse = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."

// Handler exposes the analytics assistant over HTTP
type Handler struct {
	assistant *assistant.Service
	tracker   errors.Tracker
	log       *logger.Logger
}

// New creates an assistant API handler
func New(svc *assistant.Service, tracker errors.Tracker) *Handler {
	return &Handler{
		assistant: svc,
		tracker:   tracker,
		log:       logger.Get().With("component", "assistant_api"),
	}
}

type chatRequest struct {
	Message        string               `json:"message"`
	SelectedTokens []assistant.TokenRef `json:"selectedTokens,omitempty"`
	WalletTokens   []assistant.TokenRef `json:"walletTokens,omitempty"`
}

type chatResponse struct {
	Response    string                   `json:"response"`
	TokensFound int                      `json:"tokensFound"`
	Tokens      []assistant.TokenSummary `json:"tokens,omitempty"`
}

// HandleChat processes a chat message and returns the composed analysis.
// Any internal failure still produces a usable response body so the
// frontend always has something to render.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic in chat handler: %v", rec)
			h.log.Errorw("Chat handler panicked", "error", err)
			h.tracker.CaptureError(r.Context(), err, map[string]string{"handler": "chat"})
			metrics.ChatRequests.WithLabelValues("panic").Inc()
			respond.JSON(w, http.StatusInternalServerError, map[string]string{
				"error":    "internal server error",
				"response": apologyResponse,
			})
		}
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		metrics.ChatRequests.WithLabelValues("bad_request").Inc()
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	result, err := h.assistant.Chat(r.Context(), assistant.ChatRequest{
		Message:        req.Message,
		SelectedTokens: req.SelectedTokens,
		WalletTokens:   req.WalletTokens,
	})
	if err != nil {
		h.log.Errorw("Chat processing failed", "error", err)
		h.tracker.CaptureError(r.Context(), err, map[string]string{"handler": "chat"})
		metrics.ChatRequests.WithLabelValues("error").Inc()
		respond.JSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "internal server error",
			"response": apologyResponse,
		})
		return
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	respond.JSON(w, http.StatusOK, chatResponse{
		Response:    result.Response,
		TokensFound: len(result.Tokens),
		Tokens:      result.Tokens,
	})
}

// HandleRefreshKnownTokens forces a reload of the known-token table
func (h *Handler) HandleRefreshKnownTokens(w http.ResponseWriter, r *http.Request) {
	count := h.assistant.RefreshKnownTokens()
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message":    "known tokens reloaded",
		"tokenCount": count,
	})
}
