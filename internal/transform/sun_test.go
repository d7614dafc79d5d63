package transform

import (
	"math"
	"testing"
	"time"
)

func sunMag(s SunVector) float64 {
	return math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
}

func TestSunPositionDistance(t *testing.T) {
	// Earth-Sun distance stays within ~1.7% of 1 AU over the year.
	for month := time.January; month <= time.December; month++ {
		tm := time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
		r := sunMag(SunPosition(tm))
		if r < 0.97*auKm || r > 1.03*auKm {
			t.Errorf("%v: sun distance %.0f km outside [0.97, 1.03] AU", tm, r)
		}
	}
}

func TestSunPositionDeclination(t *testing.T) {
	// Near the March equinox the declination is ~0; near the June solstice
	// it is ~+23.44°.
	equinox := SunPosition(time.Date(2026, 3, 20, 14, 0, 0, 0, time.UTC))
	if dec := math.Asin(equinox.Z / sunMag(equinox)); math.Abs(dec) > 0.02 {
		t.Errorf("equinox declination = %.4f rad, want ~0", dec)
	}

	solstice := SunPosition(time.Date(2026, 6, 21, 9, 0, 0, 0, time.UTC))
	dec := math.Asin(solstice.Z / sunMag(solstice))
	want := 23.44 * deg2Rad
	if math.Abs(dec-want) > 0.01 {
		t.Errorf("solstice declination = %.4f rad, want %.4f", dec, want)
	}
}

func TestSunlitShadowCone(t *testing.T) {
	tm := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	sun := SunPosition(tm)
	r := sunMag(sun)
	ux, uy, uz := sun.X/r, sun.Y/r, sun.Z/r

	// Sun-side LEO satellite: illuminated.
	dayside := PositionTEME{X: ux * 7000, Y: uy * 7000, Z: uz * 7000}
	if !Sunlit(dayside, tm) {
		t.Error("sun-side satellite should be sunlit")
	}

	// LEO satellite on the anti-solar axis sits squarely in the umbra.
	umbra := PositionTEME{X: -ux * 7000, Y: -uy * 7000, Z: -uz * 7000}
	if Sunlit(umbra, tm) {
		t.Error("anti-solar LEO satellite should be eclipsed")
	}

	// Same axis out past GEO: Earth's disc still covers the Sun.
	deep := PositionTEME{X: -ux * 45000, Y: -uy * 45000, Z: -uz * 45000}
	if Sunlit(deep, tm) {
		t.Error("anti-solar satellite at 45000 km should still be eclipsed")
	}

	// Perpendicular to the sun line the satellite is well clear of the cone.
	// Build a vector orthogonal to u.
	px, py, pz := -uy, ux, 0.0
	pm := math.Sqrt(px*px + py*py + pz*pz)
	side := PositionTEME{X: px / pm * 7000, Y: py / pm * 7000, Z: pz / pm * 7000}
	if !Sunlit(side, tm) {
		t.Error("satellite perpendicular to the sun line should be sunlit")
	}
}
