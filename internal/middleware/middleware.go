// Package middleware carries the cross-cutting HTTP wrappers: request
// logging, panic recovery and language negotiation.
package middleware

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/httpx"
	"github.com/cwhuang/quote-app/i18n"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first listed runs outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request. Server errors log at error level,
// client errors at warn, everything else at info.
func Logger(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			fields := []zap.Field{
				zap.Int("status", sw.status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("ip", clientIP(r)),
				zap.String("user-agent", r.UserAgent()),
				zap.Duration("latency", time.Since(start)),
			}
			if userID, ok := auth.UserIDFromContext(r.Context()); ok {
				fields = append(fields, zap.Uint("user_id", userID))
			}

			switch {
			case sw.status >= 500:
				logger.Error("Server error", fields...)
			case sw.status >= 400:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request", fields...)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Recover converts panics into a JSON 500 and logs the stack.
func Recover(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)
					httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type langKey struct{}

// Language resolves the response language for the request: an explicit
// lang query parameter wins, then the Accept-Language header, then the
// default.
func Language() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := r.URL.Query().Get("lang")
			if lang == "" {
				lang = r.Header.Get("Accept-Language")
			}
			ctx := context.WithValue(r.Context(), langKey{}, i18n.DetectLanguage(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the negotiated language for the request context.
func Lang(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok {
		return lang
	}
	return i18n.DefaultLang
}
