package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{http.StatusOK, zapcore.InfoLevel, "Request"},
		{http.StatusNotFound, zapcore.WarnLevel, "Client error"},
		{http.StatusInternalServerError, zapcore.ErrorLevel, "Server error"},
	}
	for _, tt := range tests {
		core, logs := observer.New(zap.InfoLevel)
		handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/quotes?page=2", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("status %d: logged %d entries, want 1", tt.status, len(entries))
		}
		entry := entries[0]
		if entry.Message != tt.wantMsg {
			t.Errorf("status %d: message = %q, want %q", tt.status, entry.Message, tt.wantMsg)
		}
		if entry.Level != tt.wantLevel {
			t.Errorf("status %d: level = %v, want %v", tt.status, entry.Level, tt.wantLevel)
		}
		fields := entry.ContextMap()
		if got := fields["status"]; got != int64(tt.status) {
			t.Errorf("status field = %v, want %d", got, tt.status)
		}
		if got := fields["path"]; got != "/api/quotes" {
			t.Errorf("path field = %v", got)
		}
		if got := fields["query"]; got != "page=2" {
			t.Errorf("query field = %v", got)
		}
	}
}

func TestLoggerDefaultsTo200(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // implicit 200
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("status field = %v, want 200", got)
	}
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := Recover(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "internal_error") {
		t.Errorf("body = %q, want internal_error", body)
	}
	if len(logs.All()) != 1 || logs.All()[0].Message != "Panic recovered" {
		t.Errorf("panic was not logged: %+v", logs.All())
	}
}

func TestLanguage(t *testing.T) {
	var got string
	handler := Language()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = Lang(r.Context())
	}))

	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{"query wins", "/share/x?lang=en", "zh-TW", "en"},
		{"header fallback", "/share/x", "en-US,en;q=0.9", "en"},
		{"default", "/share/x", "", "zh-TW"},
		{"unknown header", "/share/x", "fr-FR", "zh-TW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("Lang = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"outer", "inner", "handler"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
