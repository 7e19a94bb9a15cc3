package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPeriodsCmd() *cobra.Command {
	var warm bool
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the boundary periods and their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if warm {
				if err := a.features.Warm(cmd.Context(), a.catalogue.URLs()); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tYEARS\tAPPROXIMATE\tCACHED\tSOURCE")
			for _, p := range a.catalogue.Periods() {
				fmt.Fprintf(w, "%s\t%d-%d\t%t\t%t\t%s\n",
					p.ID, p.StartYear, p.EndYear, p.ApproximateBorders, a.features.Cached(p.GeoJSONPath), p.GeoJSONPath)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&warm, "warm", false, "fetch every boundary source first")
	return cmd
}
