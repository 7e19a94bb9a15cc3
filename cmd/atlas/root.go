package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/internal/logging"
)

type appKey struct{}

func newRootCmd() *cobra.Command {
	var (
		configDir string
		envFile   string
		opts      appOptions
	)

	root := &cobra.Command{
		Use:   "atlas",
		Short: "Resolve historical events into map geometry",
		Long: `atlas turns stored historical events into map overlays: highlighted
countries, markers, connections and shapes for a chosen timeline point.

Examples:
  atlas events import cuban-missile-crisis.json
  atlas resolve cuban-missile-crisis --point p3
  atlas export cuban-missile-crisis-realism --out crisis.geojson
  atlas periods`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
			if err := config.Load(configDir); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return err
				}
			}

			opts.stderr = cmd.ErrOrStderr()
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			cmd.SetContext(context.WithValue(ctx, appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a, ok := cmd.Context().Value(appKey{}).(*app); ok {
				a.close()
			}
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing "+config.ConfigFileName)
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logLevel (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.storageType, "storage", "", "override storage.type (memory, sqlite, postgres)")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "no console logging")

	root.AddCommand(
		newResolveCmd(),
		newEventsCmd(),
		newPeriodsCmd(),
		newExportCmd(),
	)
	return root
}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}
