package metrics

import (
	"net/http"
	"slices"
	"strings"
)

// SecurityConfig controls the headers set on the metrics endpoint.
type SecurityConfig struct {
	// AllowedOrigins lists the origins that may read /metrics from a
	// browser. "*" allows any origin; an empty list disables CORS.
	AllowedOrigins []string
}

// DefaultSecurityConfig allows no cross-origin reads.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{}
}

// SecurityMiddleware sets security response headers and answers CORS
// preflight requests before calling next.
func SecurityMiddleware(cfg SecurityConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")

		if origin := r.Header.Get("Origin"); origin != "" {
			switch {
			case slices.Contains(cfg.AllowedOrigins, "*"):
				h.Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(cfg.AllowedOrigins, origin):
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			if h.Get("Access-Control-Allow-Origin") != "" {
				h.Set("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, ", "))
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
