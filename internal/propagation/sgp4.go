// Package propagation wraps the SGP4 orbital model and exposes the three
// operations the visibility engine consumes: geocentric height at an
// instant, topocentric state (azimuth/elevation/range plus sunlit flag),
// and horizon-crossing event enumeration over a window.
package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// SGP4 library choice: github.com/joshuaferrara/go-satellite
//
// Selected for: most community adoption, pure Go (no CGO), battle-tested
// since 2016, explicit TEME output.
//
// Note: Propagate() takes Satellite by value so SGP4 error codes are not
// visible to the caller. We detect propagation failures by checking output
// for NaN/Inf and unreasonable position magnitudes.

// PropagationError reports that the SGP4 model produced unusable output
// for one satellite at one instant. Callers scanning a catalog treat it as
// fatal to the object, not to the search.
type PropagationError struct {
	NORADID int
	Time    time.Time
	Reason  string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("sgp4 propagation failed for NORAD %d at %s: %s", e.NORADID, e.Time.Format(time.RFC3339), e.Reason)
}

// State is the topocentric state of a satellite as seen by an observer.
type State struct {
	AzimuthDeg   float64
	ElevationDeg float64
	RangeKm      float64
	Sunlit       bool
}

// SGP4Propagator propagates a single satellite's element set.
type SGP4Propagator struct {
	sat     satellite.Satellite
	name    string
	noradID int
}

// New creates an SGP4 propagator from an element set. Returns an error if
// the TLE cannot be parsed or the SGP4 model fails to initialize.
//
// Pre-validates TLE format before passing to the library, because
// go-satellite calls log.Fatal on malformed input (which would kill the
// process).
func New(e tle.ElementSet) (*SGP4Propagator, error) {
	if err := validateTLELines(e.Line1, e.Line2); err != nil {
		return nil, fmt.Errorf("invalid TLE for %q (NORAD %d): %w", e.Name, e.NORADID, err)
	}

	sat := satellite.TLEToSat(e.Line1, e.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for %q (NORAD %d): code=%d %s", e.Name, e.NORADID, sat.Error, sat.ErrorStr)
	}
	return &SGP4Propagator{sat: sat, name: e.Name, noradID: e.NORADID}, nil
}

// Name returns the satellite's display name.
func (p *SGP4Propagator) Name() string { return p.name }

// NORADID returns the satellite's catalog number.
func (p *SGP4Propagator) NORADID() int { return p.noradID }

func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got %q", line2[0])
	}
	return nil
}

// positionTEME computes the satellite position at t in the TEME frame.
func (p *SGP4Propagator) positionTEME(t time.Time) (transform.PositionTEME, error) {
	t = t.UTC()
	pos, vel := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return transform.PositionTEME{}, &PropagationError{NORADID: p.noradID, Time: t, Reason: "output is NaN/Inf"}
	}

	// Position magnitude should be between just under LEO and past GEO.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return transform.PositionTEME{}, &PropagationError{NORADID: p.noradID, Time: t, Reason: fmt.Sprintf("unreasonable position magnitude %.1f km", mag)}
	}

	return transform.PositionTEME{
		X: pos.X, Y: pos.Y, Z: pos.Z,
		VX: vel.X, VY: vel.Y, VZ: vel.Z,
	}, nil
}

// HeightKm returns the satellite's geodetic height above the WGS-84
// ellipsoid in kilometers at time t.
func (p *SGP4Propagator) HeightKm(t time.Time) (float64, error) {
	teme, err := p.positionTEME(t)
	if err != nil {
		return 0, err
	}
	ecef := transform.TEMEToECEF(teme, t)
	return transform.ECEFToGeodetic(ecef.X, ecef.Y, ecef.Z).HeightKm(), nil
}

// State computes the observer-relative state of the satellite at time t,
// including whether it is illuminated by the sun.
func (p *SGP4Propagator) State(obs transform.ObserverPosition, t time.Time) (State, error) {
	teme, err := p.positionTEME(t)
	if err != nil {
		return State{}, err
	}
	ecef := transform.TEMEToECEF(teme, t)
	la := transform.ECEFToLookAngles(obs, ecef.X, ecef.Y, ecef.Z)

	return State{
		AzimuthDeg:   la.AzimuthDeg,
		ElevationDeg: la.ElevationDeg,
		RangeKm:      la.RangeKm,
		Sunlit:       transform.Sunlit(teme, t),
	}, nil
}

// elevationAt is State without the sunlit computation, for the hot path of
// crossing-event search.
func (p *SGP4Propagator) elevationAt(obs transform.ObserverPosition, t time.Time) (float64, error) {
	teme, err := p.positionTEME(t)
	if err != nil {
		return 0, err
	}
	ecef := transform.TEMEToECEF(teme, t)
	la := transform.ECEFToLookAngles(obs, ecef.X, ecef.Y, ecef.Z)
	return la.ElevationDeg, nil
}
