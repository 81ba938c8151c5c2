package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/internal/middleware"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/services"
)

func newPublicShareHandler(conn *gorm.DB) *PublicShareHandler {
	quotes := services.NewQuoteService(conn)
	return NewPublicShareHandler(services.NewShareService(conn, quotes), services.NewSettingsService(conn), fixedExport())
}

func publicView(h *PublicShareHandler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/share/"+token, nil)
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()
	h.View(w, req)
	return w
}

func TestPublicShareView(t *testing.T) {
	conn := setupTestDB(t)
	h := newPublicShareHandler(conn)
	user := seedUser(t, conn, "share-view@example.com")
	quote := createQuote(t, conn, user)

	share, err := services.NewShareService(conn, services.NewQuoteService(conn)).
		Create(context.Background(), user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	w := publicView(h, share.ShareID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := w.Body.String()
	for _, want := range []string{quote.Number, "德誼數位", "伺服器維護"} {
		if !strings.Contains(body, want) {
			t.Fatalf("shared view missing %q", want)
		}
	}
	if strings.Contains(body, `class="toolbar`) || strings.Contains(body, `class="upload-hint`) {
		t.Fatalf("shared view must not carry edit chrome")
	}
}

func TestPublicShareFailuresIndistinguishable(t *testing.T) {
	conn := setupTestDB(t)
	h := newPublicShareHandler(conn)
	user := seedUser(t, conn, "share-fail@example.com")
	quote := createQuote(t, conn, user)
	shares := services.NewShareService(conn, services.NewQuoteService(conn))

	past := time.Now().Add(-time.Hour)
	expired, err := shares.Create(context.Background(), user.ID, quote.ID, &past)
	if err != nil {
		t.Fatalf("create expired share: %v", err)
	}
	deactivated, err := shares.Create(context.Background(), user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}
	if err := shares.Deactivate(context.Background(), user.ID, deactivated.ShareID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tokens := map[string]string{
		"unknown":     "no-such-token",
		"expired":     expired.ShareID,
		"deactivated": deactivated.ShareID,
	}
	bodies := make(map[string]string, len(tokens))
	for name, token := range tokens {
		w := publicView(h, token)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 got %d", name, w.Code)
		}
		if !strings.Contains(w.Body.String(), "連結無效或已過期") {
			t.Fatalf("%s: missing generic message, body=%s", name, w.Body.String())
		}
		bodies[name] = w.Body.String()
	}
	if bodies["expired"] != bodies["unknown"] || bodies["deactivated"] != bodies["unknown"] {
		t.Fatalf("failure pages differ; the cause must not leak")
	}
}

func TestPublicShareNotFoundLanguage(t *testing.T) {
	conn := setupTestDB(t)
	h := newPublicShareHandler(conn)

	wrapped := middleware.Language()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.SetPathValue("token", "nope")
		h.View(w, r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/share/nope?lang=en", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "This link is invalid or has expired") {
		t.Fatalf("expected english message, body=%s", w.Body.String())
	}
}

func TestPublicSharePDF(t *testing.T) {
	conn := setupTestDB(t)
	h := newPublicShareHandler(conn)
	user := seedUser(t, conn, "share-pdf@example.com")
	quote := createQuote(t, conn, user)

	share, err := services.NewShareService(conn, services.NewQuoteService(conn)).
		Create(context.Background(), user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/share/"+share.ShareID+"/pdf", nil)
	req.SetPathValue("token", share.ShareID)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Fatalf("body is not a pdf")
	}

	var stored models.QuoteShare
	if err := conn.First(&stored, "share_id = ?", share.ShareID).Error; err != nil {
		t.Fatalf("reload share: %v", err)
	}
	if !stored.IsActive {
		t.Fatalf("resolving must not mutate the share")
	}
}
