// Package api exposes the pass-finding engine over HTTP.
package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/auth"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/cache"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/config"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/health"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/metrics"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	engine     *visibility.Engine
	manager    *tle.Manager
	results    *cache.ResultCache
	search     config.SearchConfig
	observer   config.ObserverConfig
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, engine *visibility.Engine, manager *tle.Manager, results *cache.ResultCache, cfg config.Config, logger *slog.Logger) *Server {
	s := &Server{
		engine:   engine,
		manager:  manager,
		results:  results,
		search:   cfg.Search,
		observer: cfg.Observer,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /readyz", health.Readyz(manager.Store()))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/v1/passes", s.handlePasses)
	mux.HandleFunc("GET /api/v1/passes/track", s.handleTrack)
	mux.HandleFunc("GET /api/v1/tle/{name}", s.handleTLELookup)
	mux.HandleFunc("POST /api/v1/tle/reload", s.handleReload)

	// Middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(auth.Config{Enabled: cfg.Auth.Enabled, Token: cfg.Auth.Token})(handler)
	handler = loggingMiddleware(logger, cfg.HTTP.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second, // full-catalog searches take a while
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control
// (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the full middleware-wrapped handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

// clientIP resolves the address logged for a request. With trustProxy set
// the forwarding headers win, leftmost X-Forwarded-For entry first; without
// it they are attacker-controlled and ignored.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", clientIP(r, trustProxy),
			)
		})
	}
}
