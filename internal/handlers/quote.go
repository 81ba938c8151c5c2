package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/services"
)

type QuoteHandler struct {
	quotes *services.QuoteService
}

func NewQuoteHandler(quotes *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// writeQuoteError maps service errors onto the wire. Validation carries
// its field map; anything unexpected is a bare 500.
func writeQuoteError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
	case errors.Is(err, services.ErrQuoteNotFound):
		httpx.JSONError(w, http.StatusNotFound, "quote_not_found", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
	}
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)
	opts := services.ListOptions{
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	quotes, total, err := h.quotes.List(r.Context(), uid, opts)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page{Data: quotes, Page: page, Limit: limit, Total: total})
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var in services.QuoteInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	quote, err := h.quotes.Create(r.Context(), uid, in)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quote)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	quote, err := h.quotes.Get(r.Context(), uid, id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.QuoteInput
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	quote, err := h.quotes.Update(r.Context(), uid, id, in)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.quotes.Delete(r.Context(), uid, id); err != nil {
		writeQuoteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// aggregateResponse flattens Resolved relations to nullable fields for
// the client: null means the referenced row no longer exists.
type aggregateResponse struct {
	Quote    models.Quote       `json:"quote"`
	Customer *models.Customer   `json:"customer"`
	Staff    *models.Staff      `json:"staff"`
	Bank     *models.Bank       `json:"bank"`
	Items    []models.QuoteItem `json:"items"`
}

func ref[T any](r services.Resolved[T]) *T {
	if !r.OK {
		return nil
	}
	return &r.Value
}

func (h *QuoteHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	agg, err := h.quotes.GetAggregate(r.Context(), uid, id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, aggregateResponse{
		Quote:    agg.Quote,
		Customer: ref(agg.Customer),
		Staff:    ref(agg.Staff),
		Bank:     ref(agg.Bank),
		Items:    agg.Items,
	})
}

// Preview recomputes totals for an unsaved item list. Pure computation;
// invalid rows are not rejected here, the form validates on save.
func (h *QuoteHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items   []services.QuoteItemInput `json:"items"`
		TaxRate *float64                  `json:"tax_rate"`
	}
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	httpx.JSON(w, http.StatusOK, services.Preview(in.Items, in.TaxRate))
}

func (h *QuoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.quotes.Stats(r.Context(), uid)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
