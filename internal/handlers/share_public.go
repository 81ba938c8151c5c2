package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cwhuang/quote-app/document"
	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/i18n"
	"github.com/cwhuang/quote-app/internal/export"
	"github.com/cwhuang/quote-app/internal/middleware"
	"github.com/cwhuang/quote-app/internal/services"
)

// PublicShareHandler serves shared quotes to anonymous visitors. There is
// no session on these routes; the token is the only credential, and every
// failure mode answers with the same generic page.
type PublicShareHandler struct {
	shares   *services.ShareService
	settings *services.SettingsService
	export   *export.Service
}

func NewPublicShareHandler(shares *services.ShareService, settings *services.SettingsService, export *export.Service) *PublicShareHandler {
	return &PublicShareHandler{shares: shares, settings: settings, export: export}
}

func writeShareNotFound(w http.ResponseWriter, lang string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=%q><body><p>%s</p></body></html>\n",
		lang, i18n.T(lang, "share.not_found"))
}

func (h *PublicShareHandler) resolve(w http.ResponseWriter, r *http.Request) (document.Document, bool) {
	lang := middleware.Lang(r.Context())
	token := r.PathValue("token")

	agg, err := h.shares.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrShareNotFound) {
			writeShareNotFound(w, lang)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		}
		return document.Document{}, false
	}
	branding, err := h.settings.Branding(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return document.Document{}, false
	}
	display, err := h.settings.BankDisplay(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return document.Document{}, false
	}

	opts := document.Options{Lang: lang, ReadOnly: true}
	return document.Build(agg, branding, display, opts), true
}

// View renders the shared quote read-only: same document, no edit
// affordances.
func (h *PublicShareHandler) View(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.resolve(w, r)
	if !ok {
		return
	}
	html, err := document.RenderHTML(doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(html); err != nil {
		_ = err
	}
}

// PDF downloads the shared quote as a PDF.
func (h *PublicShareHandler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.resolve(w, r)
	if !ok {
		return
	}
	filename, data, err := h.export.QuotePDF(r.Context(), &doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	setAttachment(w, filename, "quote_"+doc.Meta.Number.Value+".pdf")
	w.Header().Set("Content-Type", "application/pdf")
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}
