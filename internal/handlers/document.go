package handlers

import (
	"net/http"

	"github.com/cwhuang/quote-app/document"
	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/i18n"
	"github.com/cwhuang/quote-app/internal/export"
	"github.com/cwhuang/quote-app/internal/middleware"
	"github.com/cwhuang/quote-app/internal/services"
	"github.com/cwhuang/quote-app/pdf"
)

// DocumentHandler serves the rendered quote document and its export
// downloads. It assembles the aggregate, branding and bank display into a
// Document and hands it to the renderer or the export service.
type DocumentHandler struct {
	quotes   *services.QuoteService
	settings *services.SettingsService
	export   *export.Service
}

func NewDocumentHandler(quotes *services.QuoteService, settings *services.SettingsService, export *export.Service) *DocumentHandler {
	return &DocumentHandler{quotes: quotes, settings: settings, export: export}
}

func (h *DocumentHandler) buildDocument(w http.ResponseWriter, r *http.Request, readOnly bool) (document.Document, bool) {
	uid, ok := currentUser(w, r)
	if !ok {
		return document.Document{}, false
	}
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return document.Document{}, false
	}

	agg, err := h.quotes.GetAggregate(r.Context(), uid, id)
	if err != nil {
		writeQuoteError(w, err)
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

	opts := document.Options{Lang: middleware.Lang(r.Context()), ReadOnly: readOnly}
	return document.Build(agg, branding, display, opts), true
}

// Document serves the editable on-screen rendering.
func (h *DocumentHandler) Document(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.buildDocument(w, r, false)
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

// ExportHTML downloads the document as one self-contained HTML file.
func (h *DocumentHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.buildDocument(w, r, false)
	if !ok {
		return
	}
	filename, data, err := h.export.QuoteHTML(&doc)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	setAttachment(w, filename, "quote_"+doc.Meta.Number.Value+".html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}

// ExportPDF downloads the document as a PDF.
func (h *DocumentHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.buildDocument(w, r, false)
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

// ExportList downloads the filtered quote list as a PDF table. Filters
// mirror the list screen: status plus an inclusive quote-date range.
func (h *DocumentHandler) ExportList(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	quotes, err := h.quotes.ListForExport(r.Context(), uid, q.Get("status"), q.Get("from"), q.Get("to"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	lang := middleware.Lang(r.Context())
	rows := make([]pdf.ListRow, 0, len(quotes))
	for _, quote := range quotes {
		customer := i18n.T(lang, "document.unknown_customer")
		if quote.Customer != nil {
			customer = quote.Customer.CompanyName
		}
		rows = append(rows, pdf.ListRow{
			Number:   quote.Number,
			Customer: customer,
			Contact:  quote.ContactPerson,
			Date:     quote.QuoteDate.Format("2006-01-02"),
			Total:    quote.Total,
			Status:   i18n.T(lang, quote.Status.LabelCode()),
		})
	}

	filename, data, err := h.export.QuoteList(lang, rows)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	setAttachment(w, filename, "quote_list.pdf")
	w.Header().Set("Content-Type", "application/pdf")
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}
