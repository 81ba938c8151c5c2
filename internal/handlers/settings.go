package handlers

import (
	"net/http"
	"strings"

	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/services"
	"github.com/cwhuang/quote-app/validation"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// dataImage accepts an empty value or an inline data URI. External URLs
// are rejected up front; the renderer would only swap them for
// placeholders later, which reads as silent data loss to the user.
func dataImage(field, value string, v validation.Violations) {
	if value != "" && !strings.HasPrefix(value, "data:image/") {
		v[field] = "must_be_image_data_uri"
	}
}

func (h *SettingsHandler) GetBranding(w http.ResponseWriter, r *http.Request) {
	branding, err := h.settings.Branding(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, branding)
}

func (h *SettingsHandler) PutBranding(w http.ResponseWriter, r *http.Request) {
	var in services.CompanyBranding
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	v := validation.Violations{}
	dataImage("logo_image", in.LogoImage, v)
	dataImage("stamp_image", in.StampImage, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.settings.SetBranding(r.Context(), in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *SettingsHandler) GetBankDisplay(w http.ResponseWriter, r *http.Request) {
	display, err := h.settings.BankDisplay(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, display)
}

func (h *SettingsHandler) PutBankDisplay(w http.ResponseWriter, r *http.Request) {
	var in services.BankDisplay
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	v := validation.Violations{}
	dataImage("image", in.Image, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.settings.SetBankDisplay(r.Context(), in); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}
