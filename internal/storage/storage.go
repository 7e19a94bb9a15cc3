// Package storage persists events for the resolution pipeline.
package storage

import (
	"context"

	"github.com/irlens/atlas/pkg/core"
)

// ErrNotFound is returned by Get and Delete for unknown ids.
var ErrNotFound = core.ErrEventNotFound

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	Get(ctx context.Context, id string) (*core.Event, error)
	List(ctx context.Context) ([]*core.Event, error)
	// ListByPrefix returns the base event and all of its theory variants.
	ListByPrefix(ctx context.Context, baseID string) ([]*core.Event, error)
	// Put inserts or replaces an event, assigning an id when it has none.
	Put(ctx context.Context, ev *core.Event) error
	Delete(ctx context.Context, id string) error
}

// Dumper is implemented by backends that can copy their contents into a standalone file.
type Dumper interface {
	Dump(path string) error
}
