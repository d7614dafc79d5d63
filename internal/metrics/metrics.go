package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satfinder_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satfinder_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	searchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "satfinder_search_duration_seconds",
			Help:    "Visible-pass search duration in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	objectsScannedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_objects_scanned_total",
			Help: "Catalog objects evaluated across all searches.",
		},
	)

	objectsExcludedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_objects_excluded_total",
			Help: "Catalog objects skipped by the constellation exclusion filter.",
		},
	)

	objectsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_objects_failed_total",
			Help: "Catalog objects skipped due to propagation failures.",
		},
	)

	passesFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_passes_found_total",
			Help: "Accepted visible passes across all searches.",
		},
	)

	catalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "satfinder_catalog_size",
			Help: "Element sets in the current catalog snapshot.",
		},
	)

	catalogAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "satfinder_catalog_age_seconds",
			Help: "Age of the current catalog snapshot in seconds.",
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_result_cache_hits_total",
			Help: "Search-result cache hits.",
		},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "satfinder_result_cache_misses_total",
			Help: "Search-result cache misses.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(searchDurationSeconds)
	prometheus.MustRegister(objectsScannedTotal)
	prometheus.MustRegister(objectsExcludedTotal)
	prometheus.MustRegister(objectsFailedTotal)
	prometheus.MustRegister(passesFoundTotal)
	prometheus.MustRegister(catalogSize)
	prometheus.MustRegister(catalogAgeSeconds)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
}

// ObserveSearch records the outcome of one visible-pass search.
func ObserveSearch(d time.Duration, scanned, excluded, failed, passes int) {
	searchDurationSeconds.Observe(d.Seconds())
	objectsScannedTotal.Add(float64(scanned))
	objectsExcludedTotal.Add(float64(excluded))
	objectsFailedTotal.Add(float64(failed))
	passesFoundTotal.Add(float64(passes))
}

// SetCatalog updates the catalog snapshot gauges.
func SetCatalog(size int, ageSeconds float64) {
	catalogSize.Set(float64(size))
	catalogAgeSeconds.Set(ageSeconds)
}

// CacheHit records a search-result cache hit.
func CacheHit() { cacheHitsTotal.Inc() }

// CacheMiss records a search-result cache miss.
func CacheMiss() { cacheMissesTotal.Inc() }

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

var knownRoutes = map[string]bool{
	"/healthz":             true,
	"/readyz":              true,
	"/metrics":             true,
	"/api/v1/passes":       true,
	"/api/v1/passes/track": true,
	"/api/v1/tle/reload":   true,
}

// normalizeRoute collapses request paths into a bounded label set so
// crawler noise and per-satellite lookups cannot explode cardinality.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, "/api/v1/tle/") {
		return "/api/v1/tle/{name}"
	}
	return "other"
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
