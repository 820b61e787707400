package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cjeanneret/coverplan/internal/config"
	"github.com/cjeanneret/coverplan/internal/debug"
)

var (
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coverplan",
		Short: "coverplan - security camera coverage planner",
		Long: `coverplan draws what security cameras see on a floor plan: the
wedge of floor each camera covers, clipped by walls, with its dead zone
and DORI bands, plus a side view of the mounting.

Run "coverplan serve" for the browser editor, or use the dori, diagram
and coverage commands for one-off calculations.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", filepath.Join("configs", "default.yaml"), "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override logging level (off, info, live, verbose, trace or 0-4)")

	rootCmd.AddCommand(newServeCmd(), newDoriCmd(), newDiagramCmd(), newCoverageCmd())
	return rootCmd
}

// loadConfig reads the config file. The default path may be missing, in
// which case the built-in defaults apply; an explicit one may not.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd.Flags().Changed("config")
	if _, err := os.Stat(flagConfig); errors.Is(err, fs.ErrNotExist) && !explicit {
		return applyLogLevel(config.Default())
	}
	if err := config.ValidateConfigPath(flagConfig); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return applyLogLevel(cfg)
}

func applyLogLevel(cfg *config.Config) (*config.Config, error) {
	if flagLogLevel == "" {
		return cfg, nil
	}
	if _, err := debug.ParseLevel(flagLogLevel); err != nil {
		return nil, err
	}
	cfg.Logging.Level = flagLogLevel
	return cfg, nil
}
