package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwhuang/quote-app/internal/services"
)

const settingsTinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestBrandingRoundtrip(t *testing.T) {
	conn := setupTestDB(t)
	h := NewSettingsHandler(services.NewSettingsService(conn))
	user := seedUser(t, conn, "brand@example.com")

	// unset: zero-valued, not an error
	w := httptest.NewRecorder()
	h.GetBranding(w, authedRequest(user, http.MethodGet, "/api/settings/branding", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("get empty: expected 200 got %d", w.Code)
	}

	body := `{"name":"雲翔科技有限公司","address":"台北市信義區","tax_id":"12345678","logo_image":"` + settingsTinyPNG + `"}`
	w = httptest.NewRecorder()
	h.PutBranding(w, authedRequest(user, http.MethodPut, "/api/settings/branding", body))
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.GetBranding(w, authedRequest(user, http.MethodGet, "/api/settings/branding", ""))
	var branding services.CompanyBranding
	if err := json.Unmarshal(w.Body.Bytes(), &branding); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if branding.Name != "雲翔科技有限公司" || branding.LogoImage != settingsTinyPNG {
		t.Fatalf("roundtrip lost data: %+v", branding)
	}

	// last writer wins
	w = httptest.NewRecorder()
	h.PutBranding(w, authedRequest(user, http.MethodPut, "/api/settings/branding", `{"name":"改名後"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("second put: expected 200 got %d", w.Code)
	}
	w = httptest.NewRecorder()
	h.GetBranding(w, authedRequest(user, http.MethodGet, "/api/settings/branding", ""))
	if err := json.Unmarshal(w.Body.Bytes(), &branding); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if branding.Name != "改名後" || branding.LogoImage != "" {
		t.Fatalf("write must replace wholesale: %+v", branding)
	}
}

func TestBrandingRejectsExternalImage(t *testing.T) {
	conn := setupTestDB(t)
	h := NewSettingsHandler(services.NewSettingsService(conn))
	user := seedUser(t, conn, "extimg@example.com")

	w := httptest.NewRecorder()
	h.PutBranding(w, authedRequest(user, http.MethodPut, "/api/settings/branding",
		`{"name":"x","logo_image":"https://cdn.example.com/logo.png"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["logo_image"] != "must_be_image_data_uri" {
		t.Fatalf("unexpected violations: %v", resp.Details)
	}
}

func TestBankDisplayRoundtrip(t *testing.T) {
	conn := setupTestDB(t)
	h := NewSettingsHandler(services.NewSettingsService(conn))
	user := seedUser(t, conn, "bankdisp@example.com")

	w := httptest.NewRecorder()
	h.PutBankDisplay(w, authedRequest(user, http.MethodPut, "/api/settings/bank-display",
		`{"image":"`+settingsTinyPNG+`","show_swift":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("put: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	h.GetBankDisplay(w, authedRequest(user, http.MethodGet, "/api/settings/bank-display", ""))
	var display services.BankDisplay
	if err := json.Unmarshal(w.Body.Bytes(), &display); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !display.ShowSwift || display.Image != settingsTinyPNG {
		t.Fatalf("roundtrip lost data: %+v", display)
	}
}
