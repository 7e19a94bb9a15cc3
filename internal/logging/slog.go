package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Options configures SlogManager.Setup.
type Options struct {
	Level string
	// Console defaults to stdout. Set Quiet to drop console output entirely.
	Console io.Writer
	Quiet   bool
	File    io.Writer
	// GraylogAddress enables the GELF sink when non-empty, e.g. "localhost:12201".
	GraylogAddress string
	// Context adds dynamic attributes to every record.
	Context ContextProvider
}

// SlogManager manages slog-based logging with optional Graylog output.
type SlogManager struct {
	logger *slog.Logger
	gelf   *gelf.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. A Graylog failure leaves console and file
// logging in place and is returned.
func (m *SlogManager) Setup(opts Options) error {
	lvl := ParseLevel(opts.Level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if !opts.Quiet {
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		handlers = append(handlers, slog.NewTextHandler(console, handlerOpts))
	}
	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, handlerOpts))
	}

	var gelfErr error
	if opts.GraylogAddress != "" {
		w, err := gelf.NewWriter(opts.GraylogAddress)
		if err != nil {
			gelfErr = err
		} else {
			m.gelf = w
			handlers = append(handlers, NewGELFHandler(w, lvl))
		}
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if opts.Context != nil {
		h = NewContextHandler(h, opts.Context)
	}
	m.logger = slog.New(h)
	m.logger.Debug("Logging initialized", "level", lvl.String())
	if gelfErr != nil {
		m.logger.Warn("Graylog disabled", "address", opts.GraylogAddress, "error", gelfErr)
	}
	return gelfErr
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.logger
}

// Close releases the Graylog connection.
func (m *SlogManager) Close() error {
	if m.gelf == nil {
		return nil
	}
	err := m.gelf.Close()
	m.gelf = nil
	return err
}
