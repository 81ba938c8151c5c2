// Package handlers wires the HTTP surface to services and the store.
// Handlers stay thin: decode, validate, call, encode. Anything with
// domain rules lives in internal/services.
package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/httpx"
)

// pathID parses the {id} path segment. Zero and garbage both come back
// false; callers answer 400 without distinguishing.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// currentUser pulls the authenticated user id. The auth middleware has
// already rejected anonymous requests on /api routes; a missing id here
// means a wiring mistake, answered as 401 rather than a panic.
func currentUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == 0 {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return 0, false
	}
	return uid, true
}

// pageParams reads page/limit from the query string. Defaults mirror the
// quote list: page 1, limit 50, capped at 200.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 50
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return page, limit
}

// likePattern escapes LIKE wildcards in user search input and wraps it
// for a contains match. Stripping is not an option: names are CJK text.
func likePattern(q string) string {
	q = strings.ReplaceAll(q, `\`, `\\`)
	q = strings.ReplaceAll(q, "%", `\%`)
	q = strings.ReplaceAll(q, "_", `\_`)
	return "%" + q + "%"
}

// setAttachment sets Content-Disposition for a download. Filenames carry
// CJK document-type labels, so the RFC 5987 encoded form is required; the
// plain filename stays as an ASCII fallback for old clients.
func setAttachment(w http.ResponseWriter, filename, fallback string) {
	w.Header().Set("Content-Disposition",
		"attachment; filename=\""+fallback+"\"; filename*=UTF-8''"+url.PathEscape(filename))
}
