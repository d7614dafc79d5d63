package health

import (
	"net/http"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
)

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz reports readiness: a catalog snapshot must be loaded before the
// service can answer searches. A stale snapshot still counts as ready.
func Readyz(store *tle.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		snap := store.Get()
		if snap == nil || len(snap.Satellites) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("catalog not loaded\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready\n"))
	}
}
