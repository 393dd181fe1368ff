package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"spine/internal/shared/logger"
)

// RateLimit rejects requests once the shared token bucket is empty.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				l := logger.FromContext(r.Context())
				l.Warn().Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
