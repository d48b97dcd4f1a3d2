package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Auth returns middleware that gates the API surface behind a static key,
// accepted either as a Bearer token or in the X-API-Key header. Only paths
// under /api/ are protected: the storefront proxy and the event feed stay
// public, and /api/health is exempt so load balancers can probe without
// credentials. An empty apiKey disables the gate entirely.
func Auth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		want := []byte(apiKey)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guardedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			got := requestKey(r)
			if got == "" {
				unauthorized(w, "missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				unauthorized(w, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func guardedPath(path string) bool {
	if path == "/api/health" {
		return false
	}
	return strings.HasPrefix(path, "/api/")
}

// requestKey pulls the presented key from the Authorization header (Bearer
// scheme) first, then X-API-Key.
func requestKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
