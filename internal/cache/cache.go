// Package cache fetches and memoizes boundary feature collections and derived centroids.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/irlens/atlas/internal/geo"
)

// Option configures a FeatureCache.
type Option func(*FeatureCache)

// WithFetcher replaces the default network/disk fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *FeatureCache) {
		c.fetcher = f
	}
}

// WithPayloadStore adds a second-level payload cache consulted before fetching.
func WithPayloadStore(s PayloadStore) Option {
	return func(c *FeatureCache) {
		c.store = s
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *FeatureCache) {
		c.logger = l
	}
}

// WithTimeout bounds each shared fetch. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *FeatureCache) {
		c.timeout = d
	}
}

// FeatureCache holds parsed boundary collections by source URL for the process lifetime.
// Concurrent callers for the same URL share one in-flight fetch. Failures are not cached.
type FeatureCache struct {
	fetcher Fetcher
	store   PayloadStore
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.RWMutex
	entries map[string]*geo.FeatureCollection
	group   singleflight.Group

	fetches metric.Int64Counter
	hits    metric.Int64Counter
	errs    metric.Int64Counter
}

// New creates a FeatureCache. Uses the global OTel meter for metrics (no-op if not configured).
func New(opts ...Option) (*FeatureCache, error) {
	c := &FeatureCache{
		entries: make(map[string]*geo.FeatureCollection),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = NewSourceFetcher(0)
	}

	m := meter()
	var err error

	c.fetches, err = m.Int64Counter(
		"atlas.cache.fetches",
		metric.WithDescription("Boundary payloads read from their source"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch counter: %w", err)
	}

	c.hits, err = m.Int64Counter(
		"atlas.cache.hits",
		metric.WithDescription("Feature collections served from memory"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hit counter: %w", err)
	}

	c.errs, err = m.Int64Counter(
		"atlas.cache.errors",
		metric.WithDescription("Failed boundary fetches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error counter: %w", err)
	}

	return c, nil
}

// Fetch returns the feature collection at src, reading it at most once per process.
// Errors are *FetchError unless ctx ends first.
func (c *FeatureCache) Fetch(ctx context.Context, src string) (*geo.FeatureCollection, error) {
	srcAttr := metric.WithAttributes(attribute.String("source", src))

	if fc, ok := c.lookup(src); ok {
		c.hits.Add(ctx, 1, srcAttr)
		return fc, nil
	}

	ch := c.group.DoChan(src, func() (any, error) {
		// a flight that finished between lookup and DoChan has already stored the result
		if fc, ok := c.lookup(src); ok {
			return fc, nil
		}

		fctx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, c.timeout)
			defer cancel()
		}

		fc, err := c.load(fctx, src)
		if err != nil {
			c.errs.Add(fctx, 1, srcAttr)
			c.logger.Warn("boundary fetch failed", "source", src, "error", err)
			return nil, err
		}

		c.mu.Lock()
		c.entries[src] = fc
		c.mu.Unlock()
		return fc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*geo.FeatureCollection), nil
	}
}

// Cached reports whether src is held in memory.
func (c *FeatureCache) Cached(src string) bool {
	_, ok := c.lookup(src)
	return ok
}

// Warm fetches all sources concurrently and returns the first error.
func (c *FeatureCache) Warm(ctx context.Context, sources []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			_, err := c.Fetch(gctx, src)
			return err
		})
	}
	return g.Wait()
}

// Reset drops every in-memory entry. The payload store is left untouched.
func (c *FeatureCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*geo.FeatureCollection)
}

func (c *FeatureCache) lookup(src string) (*geo.FeatureCollection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fc, ok := c.entries[src]
	return fc, ok
}

func (c *FeatureCache) load(ctx context.Context, src string) (*geo.FeatureCollection, error) {
	if c.store != nil {
		data, ok, err := c.store.Get(ctx, src)
		switch {
		case err != nil:
			c.logger.Warn("payload store read failed", "source", src, "error", err)
		case ok:
			fc, perr := geo.ParseFeatureCollection(data)
			if perr == nil {
				c.logger.Debug("boundary payload served from store", "source", src)
				return fc, nil
			}
			c.logger.Warn("discarding unparsable stored payload", "source", src, "error", perr)
		}
	}

	c.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("source", src)))
	data, err := c.fetcher.Fetch(ctx, src)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{URL: src, Err: err}
	}

	fc, err := geo.ParseFeatureCollection(data)
	if err != nil {
		return nil, &FetchError{URL: src, Err: err}
	}

	if c.store != nil {
		if err := c.store.Set(ctx, src, data); err != nil {
			c.logger.Warn("payload store write failed", "source", src, "error", err)
		}
	}

	c.logger.Debug("boundary payload fetched", "source", src, "features", len(fc.Features))
	return fc, nil
}
