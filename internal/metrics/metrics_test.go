package metrics

import "testing"

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Known exact routes.
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/api/v1/passes", "/api/v1/passes"},
		{"/api/v1/passes/track", "/api/v1/passes/track"},
		{"/api/v1/tle/reload", "/api/v1/tle/reload"},

		// Per-satellite TLE lookups collapse to one label.
		{"/api/v1/tle/ISS%20(ZARYA)", "/api/v1/tle/{name}"},
		{"/api/v1/tle/HST", "/api/v1/tle/{name}"},
		{"/api/v1/tle/TIANGONG", "/api/v1/tle/{name}"},

		// Unknown/bot paths collapse to "other".
		{"/", "other"},
		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/something", "other"},
		{"/favicon.ico", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := normalizeRoute(tt.path)
			if got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestMetricsCardinality verifies that many distinct satellite names
// produce exactly 1 distinct path label.
func TestMetricsCardinality(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		label := normalizeRoute("/api/v1/tle/SAT-" + string(rune('0'+i%10)) + string(rune('0'+i/10)))
		seen[label] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected 1 unique label for per-satellite paths, got %d: %v", len(seen), seen)
	}
}
