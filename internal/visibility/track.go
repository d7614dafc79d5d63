package visibility

import (
	"iter"
	"time"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/transform"
)

// TrackPoint is one sample of a satellite's apparent position.
type TrackPoint struct {
	Time         time.Time `json:"time"`
	AzimuthDeg   float64   `json:"azimuth_deg"`
	ElevationDeg float64   `json:"elevation_deg"`
}

// SampleTrack returns a lazy sequence of look-angle samples at the
// configured cadence over [start, end). The sequence is restartable:
// ranging over it again replays the same samples. Samples where
// propagation fails are dropped rather than aborting the sweep.
func (e *Engine) SampleTrack(elem tle.ElementSet, observer Observer, start, end time.Time) (iter.Seq[TrackPoint], error) {
	prop, err := e.factory(elem)
	if err != nil {
		return nil, err
	}
	obs := transform.NewObserverPosition(observer.LatitudeDeg, observer.LongitudeDeg, observer.AltitudeM)
	step := e.cfg.TrackStep

	return func(yield func(TrackPoint) bool) {
		for t := start; t.Before(end); t = t.Add(step) {
			st, err := prop.State(obs, t)
			if err != nil {
				continue
			}
			if !yield(TrackPoint{Time: t, AzimuthDeg: st.AzimuthDeg, ElevationDeg: st.ElevationDeg}) {
				return
			}
		}
	}, nil
}
