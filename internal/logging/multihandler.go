package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans out log records to the console, file and Graylog sinks.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler creates a handler that writes to every non-nil sink.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	m := &MultiHandler{}
	for _, h := range sinks {
		if h != nil {
			m.sinks = append(m.sinks, h)
		}
	}
	return m
}

// Enabled reports whether at least one sink accepts level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.sinks {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle sends the record to every enabled sink. A failing sink does not stop
// the others; the failures are joined.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.sinks {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(m.sinks))
	for i, h := range m.sinks {
		sinks[i] = fn(h)
	}
	return &MultiHandler{sinks: sinks}
}
