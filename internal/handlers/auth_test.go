package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRegisterLoginMe(t *testing.T) {
	conn := setupTestDB(t)
	h := NewAuthHandler(conn)

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"email":"USER@Example.com","password":"secret123","name":"王小明"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Register(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatalf("register should set a session cookie")
	}
	var created struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Email != "user@example.com" {
		t.Fatalf("email should be lowercased, got %q", created.Email)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("password must never appear in responses: %s", w.Body.String())
	}

	// wrong password
	req = httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"user@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.Login(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401 got %d", w.Code)
	}

	// correct password
	req = httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"user@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	h.Login(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	user := seedUser(t, conn, "other@example.com")
	w = httptest.NewRecorder()
	h.Me(w, authedRequest(user, http.MethodGet, "/api/me", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "other@example.com") {
		t.Fatalf("me should return the user, got: %s", w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	conn := setupTestDB(t)
	h := NewAuthHandler(conn)

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Register(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" {
		t.Fatalf("expected validation_failed got %q", resp.Error)
	}
	if resp.Details["email"] != "invalid_email" || resp.Details["password"] != "too_short" {
		t.Fatalf("unexpected violations: %v", resp.Details)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	conn := setupTestDB(t)
	h := NewAuthHandler(conn)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/register",
			strings.NewReader(`{"email":"dup@example.com","password":"secret123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.Register(w, req)
		if w.Code != want {
			t.Fatalf("attempt %d: expected %d got %d body=%s", i, want, w.Code, w.Body.String())
		}
	}
}

func TestMeClearsStaleSession(t *testing.T) {
	conn := setupTestDB(t)
	h := NewAuthHandler(conn)

	user := seedUser(t, conn, "gone@example.com")
	if err := conn.Delete(&user).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	w := httptest.NewRecorder()
	h.Me(w, authedRequest(user, http.MethodGet, "/api/me", ""))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}
