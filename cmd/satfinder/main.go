// Command satfinder finds visually observable satellite passes for a
// ground observer. It runs either as a one-shot CLI search or as an HTTP
// service.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SpMakris/VisibleSatelliteFinder/internal/config"
	"github.com/SpMakris/VisibleSatelliteFinder/internal/logging"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "satfinder",
		Short: "Find visually observable satellite passes",
		Long: `Satfinder propagates the public satellite catalog over a time window
and reports the passes an observer on the ground could actually see:
above the horizon, high enough to matter, and sunlit against a dark sky.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "satfinder.yaml", "path to the YAML config file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newTLECmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("satfinder %s (%s, %s)\n", version, commit, buildDate)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the process logger.
func setup() (config.Config, *slog.Logger, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, cleanup, nil
}
