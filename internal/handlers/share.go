package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/services"
)

type ShareHandler struct {
	shares *services.ShareService
}

func NewShareHandler(shares *services.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

// Create mints a share token for one of the caller's quotes. The body is
// optional; without one the share never expires.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	quoteID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}

	var in struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if r.ContentLength != 0 {
		if !httpx.DecodeJSON(w, r, &in) {
			return
		}
		if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed",
				map[string]string{"expires_at": "must_be_in_future"})
			return
		}
	}

	share, err := h.shares.Create(r.Context(), uid, quoteID, in.ExpiresAt)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, share)
}

func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	quoteID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	shares, err := h.shares.List(r.Context(), uid, quoteID)
	if err != nil {
		if errors.Is(err, services.ErrQuoteNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, shares)
}

// Deactivate turns a share off permanently. Foreign and unknown share ids
// are answered identically.
func (h *ShareHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	shareID := r.PathValue("share_id")
	if shareID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.shares.Deactivate(r.Context(), uid, shareID); err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "share_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deactivated": shareID})
}
