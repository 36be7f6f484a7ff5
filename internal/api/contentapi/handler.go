package contentapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"pepuhub/internal/api/respond"
	"pepuhub/internal/domain/content"
	contentsvc "pepuhub/internal/services/content"
	"pepuhub/internal/services/votes"
	"pepuhub/pkg/errors"
	"pepuhub/pkg/logger"
)

const defaultSnapshotLimit = 30

// Handler exposes dashboard content and voting over HTTP
type Handler struct {
	content *contentsvc.Service
	votes   *votes.Service
	log     *logger.Logger
}

// New creates a content API handler
func New(contentSvc *contentsvc.Service, voteSvc *votes.Service) *Handler {
	return &Handler{
		content: contentSvc,
		votes:   voteSvc,
		log:     logger.Get().With("component", "content_api"),
	}
}

// HandleListPartners returns all partners
func (h *Handler) HandleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.content.ListPartners(r.Context())
	if err != nil {
		h.log.Errorw("List partners failed", "error", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"partners": partners})
}

// HandleListTokens returns listed tokens, active only unless ?all=true
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	tokens, err := h.content.ListTokens(r.Context(), activeOnly)
	if err != nil {
		h.log.Errorw("List tokens failed", "error", err)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"tokens": tokens})
}

// HandleGetToken returns a single listed token
func (h *Handler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	token, err := h.content.GetToken(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, token)
}

type voteRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// HandleVote casts a wallet's vote for a listed token
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.votes.Cast(r.Context(), id, req.WalletAddress); err != nil {
		h.log.Warnw("Vote rejected", "token_id", id, "error", err)
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "vote recorded"})
}

// HandleCountVotes returns the vote count for a token
func (h *Handler) HandleCountVotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	count, err := h.votes.Count(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"tokenId": id, "votes": count})
}

// HandleLatestSnapshot returns the most recent treasury snapshot
func (h *Handler) HandleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.content.LatestSnapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, snap)
}

// HandleListSnapshots returns recent snapshots without entries
func (h *Handler) HandleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	snaps, err := h.content.ListSnapshots(r.Context(), limit)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"snapshots": snaps})
}

// HandleCreatePartner stores a new partner (admin)
func (h *Handler) HandleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var p content.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.content.CreatePartner(r.Context(), &p); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

// HandleUpdatePartner modifies a partner (admin)
func (h *Handler) HandleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	var p content.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p.ID = id
	if err := h.content.UpdatePartner(r.Context(), &p); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleDeletePartner removes a partner (admin)
func (h *Handler) HandleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.content.DeletePartner(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "partner deleted"})
}

// HandleCreateToken lists a new token (admin)
func (h *Handler) HandleCreateToken(w http.ResponseWriter, r *http.Request) {
	var t content.ListedToken
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.content.CreateToken(r.Context(), &t); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

// HandleUpdateToken modifies a listed token (admin)
func (h *Handler) HandleUpdateToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	var t content.ListedToken
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	t.ID = id
	if err := h.content.UpdateToken(r.Context(), &t); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

// HandleDeleteToken removes a listed token (admin)
func (h *Handler) HandleDeleteToken(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.content.DeleteToken(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "token deleted"})
}

// HandleCreateSnapshot stores a treasury snapshot (admin)
func (h *Handler) HandleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap content.TreasurySnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.content.CreateSnapshot(r.Context(), &snap); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, snap)
}

// HandleDeleteSnapshot removes a snapshot (admin)
func (h *Handler) HandleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.content.DeleteSnapshot(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "snapshot deleted"})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrInvalidInput, "invalid id")
	}
	return id, nil
}
