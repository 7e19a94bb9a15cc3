package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/irlens/atlas/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	var (
		pointID string
		walk    bool
		theory  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <event-id>",
		Short: "Resolve an event and print a summary of the map state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ev, err := a.store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			a.session.SetLens(theory)
			view, err := a.session.Select(ctx, ev)
			if err != nil {
				return err
			}
			if pointID != "" {
				if view, err = a.session.SetActivePoint(ctx, pointID); err != nil {
					return err
				}
			}
			printView(out, view)

			if !walk {
				return nil
			}
			return walkTimeline(ctx, a, out)
		},
	}

	cmd.Flags().StringVarP(&pointID, "point", "p", "", "active timeline point id")
	cmd.Flags().BoolVar(&walk, "walk", false, "step through the following timeline points")
	cmd.Flags().StringVar(&theory, "theory", "", "only walk points relevant to this theory (default: the event's own lens)")
	return cmd
}

func walkTimeline(ctx context.Context, a *app, out io.Writer) error {
	for {
		view, moved, err := a.session.Next(ctx)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
		fmt.Fprintln(out)
		printView(out, view)
	}
}

func printView(out io.Writer, v *resolve.View) {
	point := v.PointID
	if point == "" {
		point = "(none)"
	}
	fmt.Fprintf(out, "event:       %s\n", v.EventID)
	fmt.Fprintf(out, "point:       %s\n", point)
	approx := ""
	if v.Period.ApproximateBorders {
		approx = " (approximate borders)"
	}
	fmt.Fprintf(out, "period:      %s%s\n", v.Period.ID, approx)
	fmt.Fprintf(out, "highlighted: %d\n", len(v.Result.Highlighted))
	for _, h := range v.Result.Highlighted {
		fmt.Fprintf(out, "  %s %s\n", h.Name, h.Color)
	}
	fmt.Fprintf(out, "markers:     %d\n", len(v.Result.Markers))
	fmt.Fprintf(out, "connections: %d\n", len(v.Result.Connections))
	fmt.Fprintf(out, "shapes:      %d\n", len(v.Result.Shapes))
	if len(v.Result.Unresolved) > 0 {
		fmt.Fprintf(out, "unresolved:  %v\n", v.Result.Unresolved)
	}
	if v.Camera != nil {
		fmt.Fprintf(out, "camera:      %.4f,%.4f zoom %.2f\n", v.Camera.Center.Lng(), v.Camera.Center.Lat(), v.Camera.Zoom)
	}
}
