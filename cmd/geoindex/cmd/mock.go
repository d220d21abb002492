package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrainArc/GeoIndex"
)

func newMockCmd(root *rootOptions) *cobra.Command {
	var (
		output string
		flags  GeoIndex.MockOptions
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Write a synthetic multi-band GeoTIFF for testing",
		Long: `Write a UInt16 GeoTIFF in EPSG:4326 filled with random reflectance and a
circular vegetated patch in the centre (use red=1, nir=2).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			opts := cfg.Mock
			if cmd.Flags().Changed("bands") {
				opts.Bands = flags.Bands
			}
			if cmd.Flags().Changed("width") {
				opts.Width = flags.Width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = flags.Height
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = flags.Seed
			}

			if err := GeoIndex.GenerateMockGeoTiff(output, opts); err != nil {
				return err
			}
			logger.Debug("mock raster written", "path", output,
				"bands", opts.Bands, "width", opts.Width, "height", opts.Height)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Mock raster written to %s\n", output)
			return err
		},
	}

	d := GeoIndex.DefaultMockOptions()
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output GeoTIFF path")
	cmd.Flags().IntVar(&flags.Bands, "bands", d.Bands, "Number of bands")
	cmd.Flags().IntVar(&flags.Width, "width", d.Width, "Width in pixels")
	cmd.Flags().IntVar(&flags.Height, "height", d.Height, "Height in pixels")
	cmd.Flags().Int64Var(&flags.Seed, "seed", 0, "Random seed (0 = time based)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
