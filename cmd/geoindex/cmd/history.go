package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GrainArc/GeoIndex"
)

var statusNames = map[int]string{
	GeoIndex.RecordRunning: "running",
	GeoIndex.RecordDone:    "done",
	GeoIndex.RecordFailed:  "failed",
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		catalogPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent index runs from the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := root.load(cmd)
			if err != nil {
				return err
			}
			if catalogPath == "" {
				catalogPath = cfg.Catalog.Path
			}
			if catalogPath == "" {
				return fmt.Errorf("no catalog configured: pass --catalog or set catalog.path")
			}

			catalog, err := GeoIndex.OpenCatalog(catalogPath)
			if err != nil {
				return err
			}
			defer catalog.Close()

			records, err := catalog.List(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tSTATUS\tINPUT\tOUTPUT\tBANDS\tMEAN\tERROR")
			for _, r := range records {
				mean := "-"
				if r.Status == GeoIndex.RecordDone {
					mean = fmt.Sprintf("%.4f", r.Mean)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
					r.TaskID, statusNames[r.Status], r.SourcePath, r.OutputPath,
					r.RedBand, r.NIRBand, mean, r.ErrorKind)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "SQLite run catalog path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 = all)")

	return cmd
}
