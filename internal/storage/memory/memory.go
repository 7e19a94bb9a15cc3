// Package memory is the local event store: a map guarded by a mutex, optionally
// persisted to a JSON snapshot file.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/pkg/core"
)

// Backend keeps events as encoded JSON so callers never share memory with the store.
type Backend struct {
	cfg    config.MemoryConfig
	logger *slog.Logger

	mu     sync.RWMutex
	events map[string][]byte
	// last snapshot bytes this process wrote or read, used to ignore our own writes
	lastSnapshot []byte

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a new memory backend
func New(cfg config.MemoryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		cfg:    cfg,
		logger: logger,
		events: make(map[string][]byte),
	}
}

// Init loads the snapshot file, if configured, and starts the watcher.
func (b *Backend) Init() error {
	if b.cfg.Path == "" {
		return nil
	}
	if err := b.reload(); err != nil {
		return err
	}
	if b.cfg.Watch {
		return b.startWatcher()
	}
	return nil
}

// Close stops the watcher.
func (b *Backend) Close() error {
	if b.watcher == nil {
		return nil
	}
	close(b.done)
	err := b.watcher.Close()
	b.wg.Wait()
	b.watcher = nil
	return err
}

func (b *Backend) Get(_ context.Context, id string) (*core.Event, error) {
	b.mu.RLock()
	data, ok := b.events[id]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrEventNotFound, id)
	}
	return decode(data)
}

func (b *Backend) List(context.Context) ([]*core.Event, error) {
	return b.filter(func(string) bool { return true })
}

func (b *Backend) ListByPrefix(_ context.Context, baseID string) ([]*core.Event, error) {
	return b.filter(func(id string) bool { return core.IsVariantOf(id, baseID) })
}

func (b *Backend) filter(keep func(id string) bool) ([]*core.Event, error) {
	b.mu.RLock()
	ids := make([]string, 0, len(b.events))
	for id := range b.events {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]*core.Event, 0, len(ids))
	for _, id := range ids {
		ev, err := decode(b.events[id])
		if err != nil {
			b.mu.RUnlock()
			return nil, err
		}
		out = append(out, ev)
	}
	b.mu.RUnlock()
	return out, nil
}

func (b *Backend) Put(_ context.Context, ev *core.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	data, err := sonic.ConfigStd.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", ev.ID, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[ev.ID] = data
	return b.persistLocked()
}

func (b *Backend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.events[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrEventNotFound, id)
	}
	delete(b.events, id)
	return b.persistLocked()
}

// Len returns the number of stored events.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events)
}

func decode(data []byte) (*core.Event, error) {
	var ev core.Event
	if err := sonic.ConfigStd.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding stored event: %w", err)
	}
	return &ev, nil
}
