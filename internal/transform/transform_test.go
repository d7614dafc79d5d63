package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if diff := math.Abs(got - tt.expected); diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// GMST and the TEME→ECEF rotation are validated against go-satellite, which
// implements the same IAU-82 / GMST-only model.
func TestGMSTAgainstLibrary(t *testing.T) {
	times := []time.Time{
		time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
		time.Date(2026, 8, 31, 4, 1, 0, 0, time.UTC),
	}

	for _, tm := range times {
		our := GMST(tm)
		ref := satellite.GSTimeFromDate(
			tm.Year(), int(tm.Month()), tm.Day(),
			tm.Hour(), tm.Minute(), tm.Second(),
		)
		// 1e-8 rad ≈ 0.06 arcsec.
		if diff := math.Abs(our - ref); diff > 1e-8 {
			t.Errorf("GMST(%v) = %.12f rad, go-satellite = %.12f rad (diff=%.2e)", tm, our, ref, diff)
		}
	}
}

func TestTEMEToECEFAgainstLibrary(t *testing.T) {
	tests := []struct {
		name string
		teme PositionTEME
		time time.Time
	}{
		{
			name: "Vallado example 3-15",
			teme: PositionTEME{
				X: 5094.18016, Y: 6127.64465, Z: 6380.34453,
				VX: -4.746131487, VY: 0.786598499, VZ: 5.531931288,
			},
			time: time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC),
		},
		{
			name: "LEO equatorial",
			teme: PositionTEME{X: 6778.0, VY: 7.5},
			time: time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "LEO polar",
			teme: PositionTEME{Z: 6978.0, VX: 7.4},
			time: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gmst := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)

			ours := TEMEToECEFWithGMST(tt.teme, gmst)
			ref := satellite.ECIToECEF(
				satellite.Vector3{X: tt.teme.X, Y: tt.teme.Y, Z: tt.teme.Z},
				gmst,
			)

			// Ours is meters, reference is km; agree to 1 m.
			if math.Abs(ours.X-ref.X*1000.0) > 1.0 ||
				math.Abs(ours.Y-ref.Y*1000.0) > 1.0 ||
				math.Abs(ours.Z-ref.Z*1000.0) > 1.0 {
				t.Errorf("position mismatch:\n  ours: [%.3f, %.3f, %.3f] m\n  ref:  [%.3f, %.3f, %.3f] m",
					ours.X, ours.Y, ours.Z, ref.X*1000, ref.Y*1000, ref.Z*1000)
			}

			if !ValidateECEF(ours) {
				t.Errorf("ECEF position failed validation: [%.1f, %.1f, %.1f] m", ours.X, ours.Y, ours.Z)
			}
		})
	}
}

func TestTEMEToECEFVelocityEarthRotation(t *testing.T) {
	// Prograde equatorial satellite with GMST = 0: frames are aligned, so the
	// only velocity change is the Earth-rotation term.
	teme := PositionTEME{X: 6778.0, VY: 7.5}
	ecef := TEMEToECEFWithGMST(teme, 0)

	if math.Abs(ecef.X-6778000.0) > 0.1 {
		t.Errorf("X position: got %.1f, want 6778000.0", ecef.X)
	}

	expectedVY := (7.5 - OmegaEarth*6778.0) * 1000.0
	if math.Abs(ecef.VY-expectedVY) > 0.1 {
		t.Errorf("VY: got %.1f m/s, want %.1f m/s", ecef.VY, expectedVY)
	}
}

func TestValidateECEF(t *testing.T) {
	tests := []struct {
		name  string
		pos   PositionECEF
		valid bool
	}{
		{"LEO", PositionECEF{X: 6778000}, true},
		{"GEO", PositionECEF{X: 42164000}, true},
		{"too low", PositionECEF{X: 5000000}, false},
		{"too high", PositionECEF{X: 60000000}, false},
		{"NaN", PositionECEF{X: math.NaN()}, false},
		{"Inf", PositionECEF{X: math.Inf(1)}, false},
		{"zero", PositionECEF{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateECEF(tt.pos); got != tt.valid {
				t.Errorf("ValidateECEF(%v) = %v, want %v", tt.pos, got, tt.valid)
			}
		})
	}
}

func TestNewObserverPositionECEF(t *testing.T) {
	// Sea-level equatorial observer: magnitude equals the WGS-84 equatorial radius.
	obs := NewObserverPosition(0, 0, 0)
	mag := math.Sqrt(obs.ECEFx*obs.ECEFx + obs.ECEFy*obs.ECEFy + obs.ECEFz*obs.ECEFz)
	if math.Abs(mag-6378137.0) > 1.0 {
		t.Errorf("equatorial observer ECEF magnitude = %.1f m, want ~6378137 m", mag)
	}

	// North pole: polar radius.
	pole := NewObserverPosition(90, 0, 0)
	magP := math.Sqrt(pole.ECEFx*pole.ECEFx + pole.ECEFy*pole.ECEFy + pole.ECEFz*pole.ECEFz)
	if math.Abs(magP-6356752.3) > 1.0 {
		t.Errorf("polar observer ECEF magnitude = %.1f m, want ~6356752 m", magP)
	}

	// Raising the observer 100 m raises the magnitude by 100 m.
	high := NewObserverPosition(0, 0, 100)
	magH := math.Sqrt(high.ECEFx*high.ECEFx + high.ECEFy*high.ECEFy + high.ECEFz*high.ECEFz)
	if math.Abs((magH-mag)-100.0) > 0.01 {
		t.Errorf("altitude difference = %.3f m, want 100 m", magH-mag)
	}
}

func TestECEFToGeodeticRoundTrip(t *testing.T) {
	tests := []struct {
		lat, lon, alt float64
	}{
		{0, 0, 0},
		{38.045887, 23.864028, 150},
		{-33.9, 151.2, 20},
		{40.7128, -74.006, 550000}, // LEO altitude above NYC
	}

	for _, tt := range tests {
		p := NewObserverPosition(tt.lat, tt.lon, tt.alt)
		g := ECEFToGeodetic(p.ECEFx, p.ECEFy, p.ECEFz)

		if math.Abs(g.LatDeg-tt.lat) > 1e-6 {
			t.Errorf("lat round trip: got %.8f, want %.8f", g.LatDeg, tt.lat)
		}
		if math.Abs(g.LonDeg-tt.lon) > 1e-6 {
			t.Errorf("lon round trip: got %.8f, want %.8f", g.LonDeg, tt.lon)
		}
		if math.Abs(g.AltM-tt.alt) > 0.01 {
			t.Errorf("alt round trip: got %.3f, want %.3f", g.AltM, tt.alt)
		}
		if math.Abs(g.HeightKm()-tt.alt/1000.0) > 1e-6 {
			t.Errorf("HeightKm = %.6f, want %.6f", g.HeightKm(), tt.alt/1000.0)
		}
	}
}

func TestECEFToLookAnglesOverhead(t *testing.T) {
	obs := NewObserverPosition(0, 0, 0)

	// 400 km straight up from the equator/prime meridian.
	la := ECEFToLookAngles(obs, obs.ECEFx+400000.0, obs.ECEFy, obs.ECEFz)

	if math.Abs(la.ElevationDeg-90.0) > 0.1 {
		t.Errorf("overhead elevation = %.2f deg, want ~90", la.ElevationDeg)
	}
	if math.Abs(la.RangeKm-400.0) > 1.0 {
		t.Errorf("overhead range = %.2f km, want ~400", la.RangeKm)
	}
}

func TestECEFToLookAnglesAzimuthQuadrants(t *testing.T) {
	obs := NewObserverPosition(0, 0, 0)

	north := NewObserverPosition(10, 0, 400000)
	laN := ECEFToLookAngles(obs, north.ECEFx, north.ECEFy, north.ECEFz)
	if laN.AzimuthDeg > 30 && laN.AzimuthDeg < 330 {
		t.Errorf("northward azimuth = %.2f deg, want near 0/360", laN.AzimuthDeg)
	}

	east := NewObserverPosition(0, 10, 400000)
	laE := ECEFToLookAngles(obs, east.ECEFx, east.ECEFy, east.ECEFz)
	if math.Abs(laE.AzimuthDeg-90.0) > 30 {
		t.Errorf("eastward azimuth = %.2f deg, want near 90", laE.AzimuthDeg)
	}

	south := NewObserverPosition(-10, 0, 400000)
	laS := ECEFToLookAngles(obs, south.ECEFx, south.ECEFy, south.ECEFz)
	if math.Abs(laS.AzimuthDeg-180.0) > 30 {
		t.Errorf("southward azimuth = %.2f deg, want near 180", laS.AzimuthDeg)
	}
}
