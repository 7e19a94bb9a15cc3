package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/irlens/atlas/internal/storage"
	"github.com/irlens/atlas/pkg/core"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage stored events",
	}
	cmd.AddCommand(newEventsListCmd(), newEventsGetCmd(), newEventsImportCmd(), newEventsDeleteCmd(), newEventsDumpCmd())
	return cmd
}

func newEventsListCmd() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally only the variants of one base event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			var (
				events []*core.Event
				err    error
			)
			if base != "" {
				events, err = a.store.ListByPrefix(cmd.Context(), base)
			} else {
				events, err = a.store.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTHEORY\tYEARS\tPOINTS\tTITLE")
			for _, ev := range events {
				theory := ev.Theory()
				if theory == "" {
					theory = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d-%d\t%d\t%s\n",
					ev.ID, theory, ev.Period.StartYear, ev.Period.EndYear, len(ev.TimelinePoints), ev.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "only list this base event and its theory variants")
	return cmd
}

func newEventsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <event-id>",
		Short: "Print a stored event as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := appFrom(cmd).store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := sonic.ConfigStd.MarshalIndent(ev, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newEventsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import events from JSON files holding one event or an array of events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				events, err := decodeEvents(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, ev := range events {
					if err := a.store.Put(cmd.Context(), ev); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", ev.ID)
				}
			}
			return nil
		},
	}
}

func newEventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>...",
		Short: "Delete stored events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			for _, id := range args {
				if err := a.store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}
}

func newEventsDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "Copy the sqlite event store into a standalone database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dumper, ok := appFrom(cmd).store.(storage.Dumper)
			if !ok {
				return errors.New("the configured event store cannot be dumped, use --storage sqlite")
			}
			if err := dumper.Dump(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "dumped to %s\n", args[0])
			return err
		},
	}
}

// decodeEvents accepts a single event object or an array of them.
func decodeEvents(data []byte) ([]*core.Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []*core.Event
		if err := sonic.ConfigStd.Unmarshal(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var ev core.Event
	if err := sonic.ConfigStd.Unmarshal(trimmed, &ev); err != nil {
		return nil, err
	}
	return []*core.Event{&ev}, nil
}
