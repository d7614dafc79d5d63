package transform

import (
	"math"
	"time"
)

const (
	earthRadiusKm = 6378.137
	solarRadiusKm = 696000.0
	auKm          = 1.49597870691e8

	twoPi   = 2 * math.Pi
	deg2Rad = math.Pi / 180.0
)

// SunVector is the geocentric position of the Sun in the inertial frame of
// date (km). At the precision of a low-accuracy solar ephemeris the frame is
// interchangeable with TEME for shadow geometry.
type SunVector struct {
	X, Y, Z float64
}

// SunPosition computes a low-precision geocentric solar position for the
// given UTC time, following the classic PREDICT formulation (mean anomaly +
// equation of center, mean obliquity). Angular accuracy is on the order of
// arcminutes, which is orders of magnitude tighter than an eclipse boundary
// needs.
func SunPosition(t time.Time) SunVector {
	mjd := JulianDate(t.UTC()) - 2415020.0
	year := 1900 + mjd/365.25
	solTime := (mjd + deltaET(year)/86400.0) / 36525.0

	m := deg2Rad * norm360(358.47583+norm360(35999.04975*solTime)-
		(0.000150+0.0000033*solTime)*solTime*solTime)
	l := deg2Rad * norm360(279.69668+norm360(36000.76892*solTime)+
		0.0003025*solTime*solTime)
	e := 0.01675104 - (0.0000418+0.000000126*solTime)*solTime
	c := deg2Rad * ((1.919460-(0.004789+0.000014*solTime)*solTime)*math.Sin(m) +
		(0.020094-0.000100*solTime)*math.Sin(2*m) +
		0.000293*math.Sin(3*m))
	o := deg2Rad * norm360(259.18-1934.142*solTime)
	lsa := math.Mod(l+c-deg2Rad*(0.00569-0.00479*math.Sin(o)), twoPi)
	nu := math.Mod(m+c, twoPi)
	r := 1.0000002 * (1.0 - e*e) / (1.0 + e*math.Cos(nu))
	eps := deg2Rad * (23.452294 -
		(0.0130125+(0.00000164-0.000000503*solTime)*solTime)*solTime +
		0.00256*math.Cos(o))
	r = auKm * r

	return SunVector{
		X: r * math.Cos(lsa),
		Y: r * math.Sin(lsa) * math.Cos(eps),
		Z: r * math.Sin(lsa) * math.Sin(eps),
	}
}

// Sunlit reports whether a satellite at the given TEME position (km) is
// illuminated by the Sun at time t, i.e. not inside Earth's shadow cone.
//
// Cone geometry: compare the angular radius of Earth and of the Sun as seen
// from the satellite with the angular separation between the anti-nadir and
// sun directions. Penumbra counts as sunlit only when the eclipse depth is
// negative, matching the usual "visibly illuminated" definition.
func Sunlit(sat PositionTEME, t time.Time) bool {
	sun := SunPosition(t)

	satMag := math.Sqrt(sat.X*sat.X + sat.Y*sat.Y + sat.Z*sat.Z)
	if satMag == 0 {
		return false
	}

	sdEarth := math.Asin(earthRadiusKm / satMag)

	rhoX := sun.X - sat.X
	rhoY := sun.Y - sat.Y
	rhoZ := sun.Z - sat.Z
	rhoMag := math.Sqrt(rhoX*rhoX + rhoY*rhoY + rhoZ*rhoZ)
	sdSun := math.Asin(solarRadiusKm / rhoMag)

	// Angle between the sun direction and the direction from the satellite
	// toward Earth's center.
	delta := vectorAngle(sun.X, sun.Y, sun.Z, -sat.X, -sat.Y, -sat.Z)
	depth := sdEarth - sdSun - delta

	if sdEarth < sdSun {
		return true
	}
	return depth < 0
}

// deltaET approximates ET - UT in seconds for a fractional year, using the
// empirical fit carried by PREDICT. Good to a few seconds over the satellite
// era, which is irrelevant at the sun's 1°/day apparent motion.
func deltaET(year float64) float64 {
	return 26.465 + 0.747622*(year-1950) +
		1.886913*math.Sin(twoPi*(year-1975)/33)
}

// norm360 reduces an angle in degrees to [0, 360).
func norm360(deg float64) float64 {
	d := math.Mod(deg, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// vectorAngle returns the angle in radians between two 3-vectors.
func vectorAngle(ax, ay, az, bx, by, bz float64) float64 {
	dot := ax*bx + ay*by + az*bz
	magA := math.Sqrt(ax*ax + ay*ay + az*az)
	magB := math.Sqrt(bx*bx + by*by + bz*bz)
	if magA == 0 || magB == 0 {
		return 0
	}
	cos := dot / (magA * magB)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
