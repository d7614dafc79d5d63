package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/visibility"
)

func newTrackCmd() *cobra.Command {
	var (
		startStr   string
		duration   time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "track <satellite name>",
		Short: "Print az/el samples for a satellite over an interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			manager, store := newCatalog(cfg, logger)
			if res := manager.Load(ctx); res.Freshness == tle.Unavailable {
				return fmt.Errorf("catalog load failed: %w", res.Err)
			}

			snap := store.Get()
			elem, ok := snap.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown satellite %q", args[0])
			}

			start := time.Now().UTC()
			if startStr != "" {
				start, err = time.Parse(time.RFC3339, startStr)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				start = start.UTC()
			}

			engine := newEngine(cfg, store, logger)
			obs := visibility.Observer{
				LatitudeDeg:  cfg.Observer.LatitudeDeg,
				LongitudeDeg: cfg.Observer.LongitudeDeg,
				AltitudeM:    cfg.Observer.AltitudeM,
			}
			seq, err := engine.SampleTrack(elem, obs, start, start.Add(duration))
			if err != nil {
				return err
			}

			if jsonOutput {
				var points []visibility.TrackPoint
				for p := range seq {
					points = append(points, p)
				}
				return json.NewEncoder(os.Stdout).Encode(points)
			}

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME (UTC)\tAZIMUTH\tELEVATION")
			for p := range seq {
				fmt.Fprintf(w, "%s\t%.1f°\t%.1f°\n", p.Time.Format("15:04:05"), p.AzimuthDeg, p.ElevationDeg)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "sample start (RFC 3339, default now)")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Minute, "sampling interval length")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output as JSON")

	return cmd
}
