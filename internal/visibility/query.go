// Package visibility implements the pass-finding engine: it turns
// horizon-crossing events from the propagator into validated, ranked,
// observer-visible passes.
package visibility

import (
	"fmt"
	"time"
)

// Observer is a ground observer's geodetic location. Altitude defaults to
// sea level when not supplied.
type Observer struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
}

// Query holds the parameters of one visible-pass search.
type Query struct {
	Observer Observer
	Start    time.Time // UTC
	Window   time.Duration

	// AltitudeThresholdDeg defines the horizon crossing; distinct from the
	// peak filter below. The reference UI used 10°.
	AltitudeThresholdDeg float64
	// MinPeakElevationDeg rejects passes that culminate too low.
	MinPeakElevationDeg float64

	// Height band in km at the query start instant, a coarse orbital-regime
	// filter.
	MinHeightKm float64
	MaxHeightKm float64

	// MinDuration rejects passes (and refined sunlit windows) shorter than
	// this.
	MinDuration time.Duration

	// IncludeStarlink includes satellites matching the large-constellation
	// exclusion pattern; they are filtered out by default.
	IncludeStarlink bool
}

// ValidationError reports a query parameter that violates an invariant.
// It is raised before any propagator call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s %s", e.Field, e.Reason)
}

// Validate checks the query invariants.
func (q *Query) Validate() error {
	if q.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "must be set"}
	}
	if q.Window < 0 {
		return &ValidationError{Field: "window", Reason: "must be non-negative"}
	}
	if q.Observer.LatitudeDeg < -90 || q.Observer.LatitudeDeg > 90 {
		return &ValidationError{Field: "observer.latitude", Reason: "must be within [-90, 90]"}
	}
	if q.Observer.LongitudeDeg < -180 || q.Observer.LongitudeDeg > 180 {
		return &ValidationError{Field: "observer.longitude", Reason: "must be within [-180, 180]"}
	}
	if q.MinHeightKm < 0 || q.MaxHeightKm < 0 {
		return &ValidationError{Field: "height range", Reason: "must be non-negative"}
	}
	if q.MinHeightKm > q.MaxHeightKm {
		return &ValidationError{Field: "height range", Reason: "min must not exceed max"}
	}
	if q.MinDuration < 0 {
		return &ValidationError{Field: "min duration", Reason: "must be non-negative"}
	}
	if q.MinPeakElevationDeg < 0 || q.MinPeakElevationDeg > 90 {
		return &ValidationError{Field: "min peak elevation", Reason: "must be within [0, 90]"}
	}
	return nil
}

// End returns the closing instant of the search window.
func (q *Query) End() time.Time {
	return q.Start.Add(q.Window)
}
