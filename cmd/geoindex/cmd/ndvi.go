package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrainArc/GeoIndex"
)

func newNDVICmd(root *rootOptions) *cobra.Command {
	var (
		input       string
		output      string
		red         int
		nir         int
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "ndvi",
		Short: "Compute NDVI from a multi-band raster",
		Example: `  geoindex ndvi --input scene.tif --output ndvi.tif
  geoindex ndvi --input scene.tif --output ndvi.tif --red 4 --nir 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("red") {
				cfg.RedBand = red
			}
			if cmd.Flags().Changed("nir") {
				cfg.NIRBand = nir
			}
			if cmd.Flags().Changed("catalog") {
				cfg.Catalog.Path = catalogPath
			}

			opts := []GeoIndex.RunnerOption{GeoIndex.WithLogger(logger)}
			if cfg.Catalog.Path != "" {
				catalog, err := GeoIndex.OpenCatalog(cfg.Catalog.Path)
				if err != nil {
					return err
				}
				defer catalog.Close()
				opts = append(opts, GeoIndex.WithCatalog(catalog))
			}

			report, err := GeoIndex.NewIndexRunner(opts...).Run(GeoIndex.IndexRequest{
				InputPath:  input,
				OutputPath: output,
				RedBand:    cfg.RedBand,
				NIRBand:    cfg.NIRBand,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NDVI written to %s\n", report.OutputPath)
			fmt.Fprintf(out, "  task:   %s\n", report.TaskID)
			fmt.Fprintf(out, "  bands:  red=%d nir=%d\n", report.RedBand, report.NIRBand)
			fmt.Fprintf(out, "  size:   %dx%d\n", report.Metadata.Width, report.Metadata.Height)
			fmt.Fprintf(out, "  range:  %.4f .. %.4f (mean %.4f)\n", report.Stats.Min, report.Stats.Max, report.Stats.Mean)
			_, err = fmt.Fprintf(out, "  time:   %s\n", report.Duration)
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input multi-band raster")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output GeoTIFF path")
	cmd.Flags().IntVar(&red, "red", 1, "Red band number (1-based)")
	cmd.Flags().IntVar(&nir, "nir", 2, "Near-infrared band number (1-based)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "SQLite run catalog path")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
