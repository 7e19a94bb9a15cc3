package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irlens/atlas/internal/render"
)

func newExportCmd() *cobra.Command {
	var (
		pointID string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export <event-id>",
		Short: "Write the resolved view of an event as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ev, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view, err := a.resolver.Resolve(cmd.Context(), ev, pointID)
			if err != nil {
				return err
			}
			data, err := render.Marshal(view)
			if err != nil {
				return fmt.Errorf("encoding geojson: %w", err)
			}

			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.logger.InfoContext(cmd.Context(), "exported view", "event", ev.ID, "path", out, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&pointID, "point", "p", "", "active timeline point id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
