package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/irlens/atlas/internal/cache"
	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/internal/influx"
	"github.com/irlens/atlas/internal/logging"
	"github.com/irlens/atlas/internal/period"
	"github.com/irlens/atlas/internal/resolve"
	"github.com/irlens/atlas/internal/storage"
	"github.com/irlens/atlas/internal/viewer"
)

const appName = "atlas"

// app holds the collaborators shared by all commands.
type app struct {
	logs     *logging.SlogManager
	logFile  *os.File
	logger   *slog.Logger
	dbLogger zerolog.Logger

	store     storage.Backend
	catalogue *period.Catalogue
	features  *cache.FeatureCache
	centroids *cache.CentroidCache
	redis     *redis.Client
	metrics   *influx.Manager
	resolver  *resolve.Resolver
	session   *viewer.Session
}

type appOptions struct {
	logLevel    string
	storageType string
	quiet       bool
	stderr      io.Writer
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{logs: logging.NewSlogManager()}

	level := config.GetString("logLevel")
	if opts.logLevel != "" {
		level = opts.logLevel
	}

	if dir := config.GetString("logsDir"); dir != "" {
		f, err := logging.OpenLogFile(dir, appName, time.Now())
		if err != nil {
			fmt.Fprintf(opts.stderr, "file logging disabled: %v\n", err)
		} else {
			a.logFile = f
		}
	}

	logOpts := logging.Options{
		Level:   level,
		Console: opts.stderr,
		Quiet:   opts.quiet,
		Context: func() []slog.Attr {
			if a.session == nil {
				return nil
			}
			return a.session.LogAttrs()
		},
	}
	if a.logFile != nil {
		logOpts.File = a.logFile
	}
	if gl := config.GetGraylogConfig(); gl.Enabled {
		logOpts.GraylogAddress = gl.Address
	}
	// a Graylog failure is already logged and console output still works
	_ = a.logs.Setup(logOpts)
	a.logger = a.logs.Logger()

	var dbOut io.Writer
	if a.logFile != nil {
		dbOut = a.logFile
	}
	a.dbLogger = logging.NewZerolog(dbOut, level)

	storageCfg := config.GetStorageConfig()
	if opts.storageType != "" {
		storageCfg.Type = opts.storageType
	}
	store, err := storage.NewBackend(storageCfg, storage.Deps{
		DB:       config.GetDBConfig(),
		Logger:   a.logger.With("component", "storage"),
		DBLogger: a.dbLogger,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating event store: %w", err)
	}
	if err := store.Init(); err != nil {
		a.close()
		return nil, fmt.Errorf("initializing event store: %w", err)
	}
	a.store = store

	a.catalogue = period.Default().WithGeoJSONPaths(config.GetPeriodOverrides())

	cacheCfg := config.GetCacheConfig()
	cacheOpts := []cache.Option{
		cache.WithLogger(a.logger.With("component", "cache")),
		cache.WithTimeout(cacheCfg.Timeout),
	}
	if cacheCfg.Redis.Enabled {
		payloads, client := cache.DialRedisPayloadStore(cache.RedisOptions{
			Addr:     cacheCfg.Redis.Addr,
			Password: cacheCfg.Redis.Password,
			DB:       cacheCfg.Redis.DB,
			Prefix:   cacheCfg.Redis.Prefix,
		})
		a.redis = client
		cacheOpts = append(cacheOpts, cache.WithPayloadStore(payloads))
	}
	a.features, err = cache.New(cacheOpts...)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating boundary cache: %w", err)
	}
	a.centroids = cache.NewCentroidCache()

	resolveOpts := []resolve.Option{
		resolve.WithCentroids(a.centroids),
		resolve.WithLogger(a.logger.With("component", "resolve")),
	}
	rc := config.GetResolveConfig()
	if rc.Simplify > 0 {
		resolveOpts = append(resolveOpts, resolve.WithSimplify(rc.Simplify))
	}
	if rc.MaxZoom > 0 {
		resolveOpts = append(resolveOpts, resolve.WithFrameOptions(geo.FrameOptions{
			MinZoom:     rc.MinZoom,
			MaxZoom:     rc.MaxZoom,
			DefaultZoom: rc.DefaultZoom,
			Padding:     rc.Padding,
		}))
	}

	a.metrics = influx.NewManager(config.GetInfluxConfig(), a.dbLogger.With().Str("component", "influx").Logger(),
		filepath.Join(config.GetString("logsDir"), "atlas_metrics.lp.gz"))
	switch err := a.metrics.Connect(ctx); {
	case err == nil:
		resolveOpts = append(resolveOpts, resolve.WithRecorder(a.metrics))
	case errors.Is(err, influx.ErrDisabled):
		a.metrics = nil
	default:
		a.logger.Warn("metrics disabled", "error", err)
		a.metrics = nil
	}

	a.resolver = resolve.New(a.catalogue, a.features, resolveOpts...)
	a.session = viewer.NewSession(a.resolver, a.logger.With("component", "viewer"))

	if cacheCfg.Warm {
		if err := a.features.Warm(ctx, a.catalogue.URLs()); err != nil {
			a.logger.Warn("boundary warm-up incomplete", "error", err)
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.session != nil {
		a.session.Clear()
	}
	if a.centroids != nil && a.logger != nil {
		a.logger.Debug("centroid cache", "entries", a.centroids.Len())
	}
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.metrics != nil {
		errs = append(errs, a.metrics.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.logs.Close())
	if err := errors.Join(errs...); err != nil && a.logger != nil {
		a.logger.Warn("shutdown", "error", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
