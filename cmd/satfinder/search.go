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

type searchFlags struct {
	lat, lon, altM  float64
	start           string
	window          time.Duration
	thresholdDeg    float64
	minPeakDeg      float64
	minHeightKm     float64
	maxHeightKm     float64
	minDuration     time.Duration
	includeStarlink bool
	jsonOutput      bool
}

func newSearchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find visible passes over a time window and print them",
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

			q := visibility.Query{
				Observer: visibility.Observer{
					LatitudeDeg:  cfg.Observer.LatitudeDeg,
					LongitudeDeg: cfg.Observer.LongitudeDeg,
					AltitudeM:    cfg.Observer.AltitudeM,
				},
				Start:                time.Now().UTC(),
				Window:               f.window,
				AltitudeThresholdDeg: f.thresholdDeg,
				MinPeakElevationDeg:  f.minPeakDeg,
				MinHeightKm:          f.minHeightKm,
				MaxHeightKm:          f.maxHeightKm,
				MinDuration:          f.minDuration,
				IncludeStarlink:      f.includeStarlink,
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				q.Observer = visibility.Observer{LatitudeDeg: f.lat, LongitudeDeg: f.lon, AltitudeM: f.altM}
			}
			if f.start != "" {
				start, err := time.Parse(time.RFC3339, f.start)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				q.Start = start.UTC()
			}

			engine := newEngine(cfg, store, logger)
			passes, err := engine.FindVisiblePasses(ctx, q)
			if err != nil {
				return err
			}

			if f.jsonOutput {
				return json.NewEncoder(os.Stdout).Encode(passes)
			}
			printPassTable(passes)
			return nil
		},
	}

	cmd.Flags().Float64Var(&f.lat, "lat", 0, "observer latitude in degrees")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "observer longitude in degrees")
	cmd.Flags().Float64Var(&f.altM, "alt", 0, "observer altitude in meters")
	cmd.Flags().StringVar(&f.start, "start", "", "search start (RFC 3339, default now)")
	cmd.Flags().DurationVar(&f.window, "window", time.Hour, "search window length")
	cmd.Flags().Float64Var(&f.thresholdDeg, "threshold", 10, "horizon crossing threshold in degrees")
	cmd.Flags().Float64Var(&f.minPeakDeg, "min-peak", 30, "minimum peak elevation in degrees")
	cmd.Flags().Float64Var(&f.minHeightKm, "min-height", 200, "minimum orbital height in km")
	cmd.Flags().Float64Var(&f.maxHeightKm, "max-height", 2000, "maximum orbital height in km")
	cmd.Flags().DurationVar(&f.minDuration, "min-duration", 30*time.Second, "minimum pass duration")
	cmd.Flags().BoolVar(&f.includeStarlink, "include-starlink", false, "include Starlink satellites")
	cmd.Flags().BoolVarP(&f.jsonOutput, "json", "j", false, "output as JSON")

	return cmd
}

func printPassTable(passes []visibility.Pass) {
	if len(passes) == 0 {
		fmt.Println("no visible passes found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSATELLITE\tRISE (UTC)\tFROM\tPEAK (UTC)\tPEAK EL\tSET (UTC)\tTO\tVISIBLE\tSUNLIT")
	for i, p := range passes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.0f°\t%s\t%s\t%s\t%s-%s\n",
			i+1,
			p.Name,
			p.Rise.Format("15:04:05"),
			p.StartDirection,
			p.Peak.Format("15:04:05"),
			p.PeakElevationDeg,
			p.Set.Format("15:04:05"),
			p.EndDirection,
			p.Duration.Round(time.Second),
			p.SunlitStart.Format("15:04:05"),
			p.SunlitEnd.Format("15:04:05"),
		)
	}
	w.Flush()
	fmt.Printf("\n%d pass(es)\n", len(passes))
}
