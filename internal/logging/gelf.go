package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// MessageWriter is the part of *gelf.Writer used by GELFHandler.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// GELFHandler sends records to Graylog as GELF messages. Attributes become
// "_"-prefixed additional fields, groups are joined with dots.
type GELFHandler struct {
	w      MessageWriter
	level  slog.Leveler
	host   string
	attrs  []slog.Attr
	groups []string
}

// NewGELFHandler creates a GELF handler writing to w.
func NewGELFHandler(w MessageWriter, level slog.Leveler) *GELFHandler {
	host, err := os.Hostname()
	if err != nil {
		host = "atlas"
	}
	return &GELFHandler{w: w, level: level, host: host}
}

func (h *GELFHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *GELFHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]any, len(h.attrs)+r.NumAttrs())
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		addExtra(extra, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addExtra(extra, prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return h.w.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    syslogLevel(r.Level),
		Facility: "atlas",
		Extra:    extra,
	})
}

func (h *GELFHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefix := strings.Join(h.groups, ".")
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *GELFHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func addExtra(extra map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addExtra(extra, key, ga)
		}
		return
	}
	switch a.Value.Kind() {
	case slog.KindString:
		extra["_"+key] = a.Value.String()
	case slog.KindInt64:
		extra["_"+key] = a.Value.Int64()
	case slog.KindUint64:
		extra["_"+key] = a.Value.Uint64()
	case slog.KindFloat64:
		extra["_"+key] = a.Value.Float64()
	case slog.KindBool:
		extra["_"+key] = a.Value.Bool()
	default:
		extra["_"+key] = fmt.Sprint(a.Value.Any())
	}
}

// syslogLevel maps slog levels onto the syslog severities GELF expects.
func syslogLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return gelf.LOG_ERR
	case l >= slog.LevelWarn:
		return gelf.LOG_WARNING
	case l >= slog.LevelInfo:
		return gelf.LOG_INFO
	default:
		return gelf.LOG_DEBUG
	}
}
