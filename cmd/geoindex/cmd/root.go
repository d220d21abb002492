// Package cmd provides the CLI commands for geoindex.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GrainArc/GeoIndex"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root command for the geoindex CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "geoindex",
		Short: "Compute vegetation indices from multi-band GeoTIFF imagery",
		Long: `geoindex reads the red and near-infrared bands of a georeferenced
raster, computes NDVI and writes a single-band Float32 GeoTIFF that keeps
the source grid and coordinate reference system.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json")

	cmd.AddCommand(newNDVICmd(opts))
	cmd.AddCommand(newMockCmd(opts))
	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) (GeoIndex.Config, *slog.Logger, error) {
	cfg, err := GeoIndex.LoadConfig(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, GeoIndex.NewLogger(cfg.Log, cmd.ErrOrStderr()), nil
}
