package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/gomesh/internal/app"
	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/logger"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	debug      bool
	logFile    string
	strict     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gomesh",
	Short: "A CLI tool for inspecting, converting and rendering STL and OBJ meshes",
	Long: `gomesh loads STL (ASCII and binary) and Wavefront OBJ meshes into a
normalized triangle soup. It reports mesh statistics, converts between STL
encodings and renders PNG snapshots with the same camera the viewers use.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a gomesh.yaml config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Reject ASCII STL files with an incomplete last triangle")
}

// setup loads the configuration, applies flag overrides and starts logging
func setup(cmd *cobra.Command, args []string) error {
	c, path, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, c)

	if err := logger.Init(c.Logging.Level, c.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if path != "" {
		logger.Debug("loaded config", zap.String("path", path))
	}

	cfg = c
	return nil
}

// applyFlags overrides file settings with the persistent flags that were set
func applyFlags(cmd *cobra.Command, c *config.Config) {
	if debug {
		c.Logging.Level = "debug"
	}
	if logFile != "" {
		c.Logging.LogFile = logFile
	}
	if cmd.Flags().Changed("strict") {
		c.Loader.Strict = strict
	}
}

// readMesh fetches a single mesh file the way the viewer would and returns
// the raw bytes together with the decoded soup
func readMesh(ctx context.Context, location string) ([]byte, *mesh.Soup, error) {
	kind := app.KindFromPath(location)
	if kind == app.KindUnknown {
		return nil, nil, fmt.Errorf("%w: %s", mesh.ErrUnsupportedExtension, location)
	}

	data, err := app.NewFetcher(cfg.Loader).Fetch(ctx, location, app.ModeFor(kind))
	if err != nil {
		return nil, nil, err
	}

	soup, err := app.Decode(kind, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", location, err)
	}
	if cfg.Loader.Strict {
		if err := soup.Validate(); err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", location, err)
		}
	}
	return data, soup, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
