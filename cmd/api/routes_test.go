package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"spine/internal/shared/config"
)

func testConfig() *config.Config {
	return &config.Config{
		RateLimit: config.RateLimitConfig{Enabled: false, Every: time.Second, Burst: 1},
	}
}

func TestSetupRoutes_Health(t *testing.T) {
	handler := SetupRoutes(&Dependencies{}, testConfig(), zerolog.Nop())

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestSetupRoutes_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	handler := SetupRoutes(&Dependencies{}, cfg, zerolog.Nop())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	if first.Code != http.StatusOK {
		t.Errorf("first status = %d, want 200", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", second.Code)
	}
}

func TestSetupRoutes_HSTSWhenTLS(t *testing.T) {
	cfg := testConfig()
	cfg.TLS.Enabled = true
	handler := SetupRoutes(&Dependencies{}, cfg, zerolog.Nop())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS header not set with TLS enabled")
	}
}
