package propagation

import (
	"testing"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// Real ISS TLE (epoch Feb 2025, valid for testing pass geometry).
var issElements = tle.ElementSet{
	NORADID: 25544,
	Name:    "ISS (ZARYA)",
	Line1:   "1 25544U 98067A   25045.18032407  .00016717  00000+0  30099-3 0  9993",
	Line2:   "2 25544  51.6412 193.5765 0003457 126.2851 233.8519 15.49874301495058",
	Epoch:   time.Date(2025, 2, 14, 4, 19, 40, 0, time.UTC),
}

var nycObserver = transform.NewObserverPosition(40.7128, -74.006, 10)

func TestNewRejectsMalformedTLE(t *testing.T) {
	bad := issElements
	bad.Line1 = "1 25544U"
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for truncated line1")
	}

	swapped := issElements
	swapped.Line1, swapped.Line2 = swapped.Line2, swapped.Line1
	if _, err := New(swapped); err == nil {
		t.Fatal("expected error for swapped lines")
	}
}

func TestHeightKmLEO(t *testing.T) {
	prop, err := New(issElements)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h, err := prop.HeightKm(time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("HeightKm: %v", err)
	}
	// ISS flies at roughly 400-430 km.
	if h < 350 || h > 500 {
		t.Errorf("ISS height = %.1f km, want 350-500", h)
	}
}

func TestStateRanges(t *testing.T) {
	prop, err := New(issElements)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for hour := 0; hour < 24; hour += 3 {
		st, err := prop.State(nycObserver, time.Date(2025, 2, 14, hour, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("State at hour %d: %v", hour, err)
		}
		if st.AzimuthDeg < 0 || st.AzimuthDeg >= 360 {
			t.Errorf("hour %d: azimuth %.2f out of range", hour, st.AzimuthDeg)
		}
		if st.ElevationDeg < -90 || st.ElevationDeg > 90 {
			t.Errorf("hour %d: elevation %.2f out of range", hour, st.ElevationDeg)
		}
		if st.RangeKm <= 0 {
			t.Errorf("hour %d: range %.2f not positive", hour, st.RangeKm)
		}
	}
}

func TestCrossingEventsISSOverNYC(t *testing.T) {
	prop, err := New(issElements)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	events, err := prop.CrossingEvents(nycObserver, start, end, 10.0)
	if err != nil {
		t.Fatalf("CrossingEvents: %v", err)
	}

	// The ISS passes over NYC several times a day above 10°.
	if len(events) < 3 {
		t.Fatalf("expected at least one full pass worth of events, got %d", len(events))
	}

	// Chronological order.
	for i := 1; i < len(events); i++ {
		if events[i].Time.Before(events[i-1].Time) {
			t.Errorf("event %d (%v) precedes event %d (%v)", i, events[i].Time, i-1, events[i-1].Time)
		}
	}

	// Find the first rise and verify the triple after it.
	first := 0
	for first < len(events) && events[first].Kind != Rise {
		first++
	}
	if first+2 >= len(events) {
		t.Fatalf("no complete rise/peak/set triple in %d events", len(events))
	}

	rise, peak, set := events[first], events[first+1], events[first+2]
	if rise.Kind != Rise || peak.Kind != Peak || set.Kind != Set {
		t.Fatalf("triple kinds = %v/%v/%v, want rise/peak/set", rise.Kind, peak.Kind, set.Kind)
	}
	if !rise.Time.Before(peak.Time) || !peak.Time.Before(set.Time) {
		t.Fatalf("triple times out of order: %v %v %v", rise.Time, peak.Time, set.Time)
	}

	// Elevation at the threshold crossings sits near the threshold; the peak
	// is above it.
	elRise, _ := prop.elevationAt(nycObserver, rise.Time)
	if elRise < 9.0 || elRise > 11.0 {
		t.Errorf("elevation at rise = %.2f, want ~10", elRise)
	}
	elPeak, _ := prop.elevationAt(nycObserver, peak.Time)
	if elPeak < 10.0 {
		t.Errorf("elevation at peak = %.2f, want above threshold", elPeak)
	}
}

func TestCrossingEventsEmptyWindow(t *testing.T) {
	prop, err := New(issElements)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	events, err := prop.CrossingEvents(nycObserver, start, start, 10.0)
	if err != nil {
		t.Fatalf("CrossingEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("zero-length window produced %d events", len(events))
	}
}
