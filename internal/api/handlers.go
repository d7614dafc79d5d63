package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/cache"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

// passesRequest is the POST /api/v1/passes body. Optional fields fall back
// to the configured search defaults.
type passesRequest struct {
	Observer *struct {
		LatitudeDeg  float64 `json:"latitude_deg"`
		LongitudeDeg float64 `json:"longitude_deg"`
		AltitudeM    float64 `json:"altitude_m"`
	} `json:"observer"`
	Start                *time.Time `json:"start"`
	WindowMinutes        *float64   `json:"window_minutes"`
	AltitudeThresholdDeg *float64   `json:"altitude_threshold_deg"`
	MinPeakElevationDeg  *float64   `json:"min_peak_elevation_deg"`
	MinHeightKm          *float64   `json:"min_height_km"`
	MaxHeightKm          *float64   `json:"max_height_km"`
	MinDurationSeconds   *float64   `json:"min_duration_seconds"`
	IncludeStarlink      bool       `json:"include_starlink"`
}

type passesResponse struct {
	Passes  []passJSON  `json:"passes"`
	Count   int         `json:"count"`
	Catalog catalogJSON `json:"catalog"`
}

// passJSON flattens visibility.Pass for the wire: durations in seconds,
// times in RFC 3339.
type passJSON struct {
	Name             string    `json:"name"`
	NORADID          int       `json:"norad_id"`
	Rise             time.Time `json:"rise"`
	Peak             time.Time `json:"peak"`
	Set              time.Time `json:"set"`
	StartDirection   string    `json:"start_direction"`
	EndDirection     string    `json:"end_direction"`
	PeakElevationDeg float64   `json:"peak_elevation_deg"`
	DurationSeconds  float64   `json:"duration_seconds"`
	SunlitStart      time.Time `json:"sunlit_start"`
	SunlitEnd        time.Time `json:"sunlit_end"`
}

type catalogJSON struct {
	Source     string    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
	Stale      bool      `json:"stale"`
	Generation uint64    `json:"generation"`
	Size       int       `json:"size"`
}

func toPassJSON(p visibility.Pass) passJSON {
	return passJSON{
		Name:             p.Name,
		NORADID:          p.NORADID,
		Rise:             p.Rise,
		Peak:             p.Peak,
		Set:              p.Set,
		StartDirection:   string(p.StartDirection),
		EndDirection:     string(p.EndDirection),
		PeakElevationDeg: p.PeakElevationDeg,
		DurationSeconds:  p.Duration.Seconds(),
		SunlitStart:      p.SunlitStart,
		SunlitEnd:        p.SunlitEnd,
	}
}

func (s *Server) buildQuery(req passesRequest) visibility.Query {
	q := visibility.Query{
		Observer: visibility.Observer{
			LatitudeDeg:  s.observer.LatitudeDeg,
			LongitudeDeg: s.observer.LongitudeDeg,
			AltitudeM:    s.observer.AltitudeM,
		},
		Start:                time.Now().UTC(),
		Window:               s.search.Window,
		AltitudeThresholdDeg: s.search.AltitudeThresholdDeg,
		MinPeakElevationDeg:  s.search.MinPeakElevationDeg,
		MinHeightKm:          s.search.MinHeightKm,
		MaxHeightKm:          s.search.MaxHeightKm,
		MinDuration:          s.search.MinDuration,
		IncludeStarlink:      req.IncludeStarlink,
	}
	if req.Observer != nil {
		q.Observer = visibility.Observer{
			LatitudeDeg:  req.Observer.LatitudeDeg,
			LongitudeDeg: req.Observer.LongitudeDeg,
			AltitudeM:    req.Observer.AltitudeM,
		}
	}
	if req.Start != nil {
		q.Start = req.Start.UTC()
	}
	if req.WindowMinutes != nil {
		q.Window = time.Duration(*req.WindowMinutes * float64(time.Minute))
	}
	if req.AltitudeThresholdDeg != nil {
		q.AltitudeThresholdDeg = *req.AltitudeThresholdDeg
	}
	if req.MinPeakElevationDeg != nil {
		q.MinPeakElevationDeg = *req.MinPeakElevationDeg
	}
	if req.MinHeightKm != nil {
		q.MinHeightKm = *req.MinHeightKm
	}
	if req.MaxHeightKm != nil {
		q.MaxHeightKm = *req.MaxHeightKm
	}
	if req.MinDurationSeconds != nil {
		q.MinDuration = time.Duration(*req.MinDurationSeconds * float64(time.Second))
	}
	return q
}

func (s *Server) handlePasses(w http.ResponseWriter, r *http.Request) {
	var req passesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	q := s.buildQuery(req)

	snap := s.engine.Snapshot()
	if snap == nil || len(snap.Satellites) == 0 {
		writeError(w, http.StatusServiceUnavailable, tle.ErrCatalogUnavailable.Error())
		return
	}

	// Search the snapshot the key was derived from; a catalog reload mid-
	// request must not cache newer results under the older generation.
	key := cache.Key(q, snap.Generation)
	passes, ok := s.results.Get(key)
	if !ok {
		var err error
		passes, err = s.engine.SearchSnapshot(r.Context(), snap, q)
		if err != nil {
			writeSearchError(w, err)
			return
		}
		s.results.Put(key, passes)
	}

	out := make([]passJSON, 0, len(passes))
	for _, p := range passes {
		out = append(out, toPassJSON(p))
	}
	writeJSON(w, http.StatusOK, passesResponse{
		Passes: out,
		Count:  len(out),
		Catalog: catalogJSON{
			Source:     snap.Source,
			FetchedAt:  snap.FetchedAt,
			Stale:      snap.Stale,
			Generation: snap.Generation,
			Size:       len(snap.Satellites),
		},
	})
}

type trackResponse struct {
	Name   string                  `json:"name"`
	Points []visibility.TrackPoint `json:"points"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	name := qs.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	start, err := time.Parse(time.RFC3339, qs.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid start: %v", err))
		return
	}
	end, err := time.Parse(time.RFC3339, qs.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end: %v", err))
		return
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end must be after start")
		return
	}

	snap := s.engine.Snapshot()
	if snap == nil || len(snap.Satellites) == 0 {
		writeError(w, http.StatusServiceUnavailable, tle.ErrCatalogUnavailable.Error())
		return
	}
	elem, ok := snap.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown satellite %q", name))
		return
	}

	obs := visibility.Observer{
		LatitudeDeg:  s.observer.LatitudeDeg,
		LongitudeDeg: s.observer.LongitudeDeg,
		AltitudeM:    s.observer.AltitudeM,
	}
	seq, err := s.engine.SampleTrack(elem, obs, start.UTC(), end.UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	points := make([]visibility.TrackPoint, 0, 64)
	for p := range seq {
		points = append(points, p)
	}
	writeJSON(w, http.StatusOK, trackResponse{Name: name, Points: points})
}

func (s *Server) handleTLELookup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	snap := s.engine.Snapshot()
	if snap == nil || len(snap.Satellites) == 0 {
		writeError(w, http.StatusServiceUnavailable, tle.ErrCatalogUnavailable.Error())
		return
	}
	line1, line2, ok := snap.ElementLines(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown satellite %q", name))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n%s\n%s\n", name, line1, line2)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	res := s.manager.Refresh(r.Context())
	switch res.Freshness {
	case tle.Fresh, tle.Stale:
		// New generation: cached results for the old snapshot are dead.
		s.results.Purge()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     res.Freshness.String(),
			"count":      res.Count,
			"fetched_at": res.FetchedAt,
		})
	default:
		writeError(w, http.StatusServiceUnavailable, res.Err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeSearchError(w http.ResponseWriter, err error) {
	var verr *visibility.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, tle.ErrCatalogUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
