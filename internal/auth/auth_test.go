package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIsExempt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", true},
		{"/readyz", true},
		{"/metrics", true},
		{"/api/v1/tle/ISS%20(ZARYA)", true},
		{"/api/v1/tle/reload", false},
		{"/api/v1/passes", false},
		{"/api/v1/passes/track", false},
		{"/", false},
	}
	for _, tt := range tests {
		if got := isExempt(tt.path); got != tt.want {
			t.Errorf("isExempt(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMiddlewareDisabled(t *testing.T) {
	h := Middleware(Config{Enabled: false})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/passes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("disabled auth should pass through, got %d", rec.Code)
	}
}

func TestMiddlewareEnabled(t *testing.T) {
	h := Middleware(Config{Enabled: true, Token: "secret"})(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/api/v1/passes", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/passes", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "/api/v1/passes", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/api/v1/passes", "Bearer secret", http.StatusOK},
		{"exempt path without token", "/healthz", "", http.StatusOK},
		{"tle lookup without token", "/api/v1/tle/HST", "", http.StatusOK},
		{"reload without token", "/api/v1/tle/reload", "", http.StatusUnauthorized},
		{"reload with token", "/api/v1/tle/reload", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
