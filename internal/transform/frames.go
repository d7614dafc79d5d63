// Package transform provides the coordinate-frame and astronomy math behind
// pass prediction.
//
// SGP4 outputs satellite positions in TEME (True Equator Mean Equinox); the
// observer lives in ECEF. The TEME→ECEF rotation here is the simplified
// Vallado form using GMST only (TEME → PEF ≈ ECEF), which ignores polar
// motion and the equation of the equinoxes — at most ~50 m of error, far
// below what horizon-crossing prediction can resolve.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3.
package transform

import (
	"math"
	"time"
)

// PositionTEME is a satellite position and velocity in the TEME frame (km, km/s).
type PositionTEME struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// PositionECEF is a satellite position and velocity in the ECEF frame (meters, m/s).
type PositionECEF struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// TEMEToECEF rotates a TEME state into ECEF at the given UTC time.
func TEMEToECEF(teme PositionTEME, t time.Time) PositionECEF {
	return TEMEToECEFWithGMST(teme, GMST(t))
}

// TEMEToECEFWithGMST rotates TEME to ECEF using a precomputed GMST angle
// (radians). Callers propagating many satellites to the same instant compute
// GMST once and reuse it.
//
//	r_ECEF = R3(θ) * r_TEME
//	v_ECEF = R3(θ) * v_TEME - ω × r_ECEF
func TEMEToECEFWithGMST(teme PositionTEME, gmst float64) PositionECEF {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	x := teme.X*cosG + teme.Y*sinG
	y := -teme.X*sinG + teme.Y*cosG
	z := teme.Z

	vx := teme.VX*cosG + teme.VY*sinG + OmegaEarth*y
	vy := -teme.VX*sinG + teme.VY*cosG - OmegaEarth*x
	vz := teme.VZ

	// km → meters.
	return PositionECEF{
		X: x * 1000.0, Y: y * 1000.0, Z: z * 1000.0,
		VX: vx * 1000.0, VY: vy * 1000.0, VZ: vz * 1000.0,
	}
}

// ValidateECEF reports whether an ECEF position is physically plausible for
// an Earth-orbiting object: finite, and with a magnitude between just under
// Earth's radius and well beyond GEO.
func ValidateECEF(pos PositionECEF) bool {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return false
	}
	if math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return false
	}

	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)

	const minRadius = 6200.0 * 1000.0  // below LEO perigee
	const maxRadius = 50000.0 * 1000.0 // beyond GEO
	return mag >= minRadius && mag <= maxRadius
}
