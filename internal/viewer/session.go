// Package viewer holds the active event and timeline point of a map view and keeps
// superseded computations from overwriting newer state.
package viewer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/irlens/atlas/internal/resolve"
	"github.com/irlens/atlas/internal/timeline"
	"github.com/irlens/atlas/pkg/core"
)

// ErrSuperseded is returned by a computation whose selection was replaced while it ran.
var ErrSuperseded = errors.New("selection superseded by a newer one")

// ErrNoSelection is returned when navigating without an active event.
var ErrNoSelection = errors.New("no event selected")

// Resolver computes the view of an event at a timeline point.
type Resolver interface {
	Resolve(ctx context.Context, ev *core.Event, activePointID string) (*resolve.View, error)
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Generation uint64
	EventID    string
	PointID    string
	View       *resolve.View
	Err        error
}

// Session is the single source of truth for what the map shows. Every selection bumps a
// generation and cancels the computation of the previous one; results are only stored
// when their generation is still current.
type Session struct {
	resolver Resolver
	logger   *slog.Logger

	mu         sync.RWMutex
	generation uint64
	cancel     context.CancelFunc
	event      *core.Event
	pointID    string
	lens       string
	view       *resolve.View
	err        error
}

func NewSession(resolver Resolver, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{resolver: resolver, logger: logger}
}

// Select makes ev the active event with no active timeline point and resolves it.
func (s *Session) Select(ctx context.Context, ev *core.Event) (*resolve.View, error) {
	return s.run(ctx, ev, "")
}

// SetActivePoint changes the active timeline point of the current event.
func (s *Session) SetActivePoint(ctx context.Context, pointID string) (*resolve.View, error) {
	s.mu.RLock()
	ev := s.event
	s.mu.RUnlock()
	if ev == nil {
		return nil, ErrNoSelection
	}
	return s.run(ctx, ev, pointID)
}

// SetLens restricts Next and Previous to the points relevant to theory. An empty theory
// follows the lens encoded in the selected event's id.
func (s *Session) SetLens(theory string) {
	s.mu.Lock()
	s.lens = theory
	s.mu.Unlock()
}

// Next moves to the following timeline point. It returns false at the end of the timeline.
func (s *Session) Next(ctx context.Context) (*resolve.View, bool, error) {
	return s.step(ctx, timeline.Next)
}

// Previous moves to the preceding timeline point. It returns false at the start.
func (s *Session) Previous(ctx context.Context) (*resolve.View, bool, error) {
	return s.step(ctx, timeline.Previous)
}

func (s *Session) step(ctx context.Context, move func(*core.Event, string, string) (string, bool)) (*resolve.View, bool, error) {
	s.mu.RLock()
	ev, current, lens := s.event, s.pointID, s.lens
	s.mu.RUnlock()
	if ev == nil {
		return nil, false, ErrNoSelection
	}
	if lens == "" {
		lens = ev.Theory()
	}
	id, ok := move(ev, lens, current)
	if !ok {
		return nil, false, nil
	}
	view, err := s.run(ctx, ev, id)
	return view, true, err
}

// Clear drops the selection and cancels any running computation.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.event, s.pointID, s.view, s.err = nil, "", nil, nil
}

func (s *Session) run(ctx context.Context, ev *core.Event, pointID string) (*resolve.View, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.event, s.pointID = ev, pointID
	s.mu.Unlock()

	view, err := s.resolver.Resolve(runCtx, ev, pointID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.DebugContext(ctx, "discarding superseded view", "event", ev.ID, "point", pointID, "generation", gen)
		return nil, ErrSuperseded
	}
	cancel()
	s.cancel = nil
	s.view, s.err = view, err
	return view, err
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Generation: s.generation,
		PointID:    s.pointID,
		View:       s.view,
		Err:        s.err,
	}
	if s.event != nil {
		snap.EventID = s.event.ID
	}
	return snap
}

// LogAttrs reports the active selection, for use as a logging context provider.
func (s *Session) LogAttrs() []slog.Attr {
	snap := s.Snapshot()
	if snap.EventID == "" {
		return nil
	}
	attrs := []slog.Attr{slog.String("event", snap.EventID)}
	if snap.PointID != "" {
		attrs = append(attrs, slog.String("point", snap.PointID))
	}
	return attrs
}
