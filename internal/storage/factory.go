package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/internal/database"
	"github.com/irlens/atlas/internal/storage/gormstore"
	"github.com/irlens/atlas/internal/storage/memory"
)

var (
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*gormstore.Backend)(nil)
)

// Deps carries what the backends log with and connect to.
type Deps struct {
	DB       config.DBConfig
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// NewBackend creates a storage backend based on configuration. An unreachable
// postgres falls back to the local memory store. The returned backend is not
// initialized yet.
func NewBackend(cfg config.StorageConfig, deps Deps) (Backend, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Type {
	case "postgres":
		m := database.NewManager(deps.DBLogger)
		if err := m.ConnectPostgres(deps.DB); err != nil {
			deps.DBLogger.Error().Err(err).Msg("Failed to connect to Postgres DB, using local store")
			return memory.New(cfg.Memory, deps.Logger), nil
		}
		return gormstore.New(m), nil
	case "sqlite":
		m := database.NewManager(deps.DBLogger)
		if err := m.ConnectSQLite(cfg.SQLite.Path); err != nil {
			return nil, err
		}
		return gormstore.New(m), nil
	case "memory", "":
		return memory.New(cfg.Memory, deps.Logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
