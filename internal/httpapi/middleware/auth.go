package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKey reads the caller's key from "Authorization: Bearer <key>" or
// "X-API-Key".
func APIKey(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

func keyAllowed(given string, set []string) bool {
	if given == "" {
		return false
	}
	for _, k := range set {
		if subtle.ConstantTimeCompare([]byte(k), []byte(given)) == 1 {
			return true
		}
	}
	return false
}

// RequireKey only lets through requests presenting one of keys. With no
// keys configured every request is allowed (local dev).
func RequireKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := APIKey(r)
			if keyAllowed(key, keys) {
				next.ServeHTTP(w, r)
				return
			}
			status, body := http.StatusUnauthorized, `{"error":"unauthorized"}`
			if key != "" {
				status, body = http.StatusForbidden, `{"error":"forbidden"}`
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
	}
}
