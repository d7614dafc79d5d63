package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/tle"
)

func newTLECmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tle",
		Short: "Inspect the element catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh",
		Short: "Force a catalog fetch and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			manager, _ := newCatalog(cfg, logger)
			res := manager.Refresh(context.Background())
			if res.Freshness == tle.Unavailable {
				return fmt.Errorf("refresh failed: %w", res.Err)
			}
			fmt.Printf("%s: %d element sets (fetched %s)\n",
				res.Freshness, res.Count, res.FetchedAt.Format("2006-01-02 15:04:05 UTC"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <satellite name>",
		Short: "Print the raw TLE lines for a satellite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			manager, store := newCatalog(cfg, logger)
			if res := manager.Load(context.Background()); res.Freshness == tle.Unavailable {
				return fmt.Errorf("catalog load failed: %w", res.Err)
			}

			line1, line2, ok := store.Get().ElementLines(args[0])
			if !ok {
				return fmt.Errorf("unknown satellite %q", args[0])
			}
			fmt.Printf("%s\n%s\n%s\n", args[0], line1, line2)
			return nil
		},
	})

	return cmd
}
