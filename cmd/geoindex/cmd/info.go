package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/GrainArc/GeoIndex"
)

// rasterInfo is the JSON shape printed by the info command.
type rasterInfo struct {
	Path      string          `json:"path"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Bands     int             `json:"bands"`
	PixelType string          `json:"pixel_type"`
	CRS       string          `json:"crs"`
	Transform [6]float64      `json:"transform"`
	NoData    *float64        `json:"nodata,omitempty"`
	Footprint json.RawMessage `json:"footprint"`
}

func newInfoCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <raster>",
		Short: "Print raster metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := root.load(cmd); err != nil {
				return err
			}
			ds, err := GeoIndex.OpenRasterDataset(args[0])
			if err != nil {
				return err
			}
			defer ds.Close()

			meta := ds.Metadata()
			footprint, err := GeoIndex.FootprintGeoJSON(meta)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rasterInfo{
				Path:      args[0],
				Width:     meta.Width,
				Height:    meta.Height,
				Bands:     meta.BandCount,
				PixelType: meta.PixelType.String(),
				CRS:       meta.CRS,
				Transform: [6]float64(meta.Transform),
				NoData:    meta.NoData,
				Footprint: footprint,
			})
		},
	}
}
