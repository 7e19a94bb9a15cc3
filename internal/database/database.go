package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/irlens/atlas/internal/config"
	"github.com/irlens/atlas/internal/model"
)

// SchemaVersion is written to atlas_infos on first setup.
const SchemaVersion = 1

const memoryDSN = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB       *gorm.DB
	SqlDB    *sql.DB
	IsValid  bool
	IsSQLite bool
	Logger   zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// ConnectPostgres opens and pings the hosted database.
func (m *Manager) ConnectPostgres(cfg config.DBConfig) error {
	db, err := OpenPostgres(cfg)
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	return m.use(db, false)
}

// ConnectSQLite opens a SQLite database. An empty path is an in-memory database.
func (m *Manager) ConnectSQLite(path string) error {
	db, err := OpenSQLite(path)
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	if path == "" {
		m.Logger.Info().Msg("Using SQLite DB in memory")
	} else {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	}
	return m.use(db, true)
}

func (m *Manager) use(db *gorm.DB, isSQLite bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	if !isSQLite {
		sqlDB.SetMaxOpenConns(10)
		m.Logger.Info().Msg("Connected to database")
	}
	m.DB, m.SqlDB, m.IsSQLite, m.IsValid = db, sqlDB, isSQLite, true
	return nil
}

// Setup migrates tables and records the schema version if missing.
func (m *Manager) Setup() error {
	if m.DB == nil {
		return errors.New("database not connected")
	}

	m.Logger.Info().Msg("Migrating schema")
	if err := m.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var count int64
	if err := m.DB.Model(&model.AtlasInfo{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to read atlas_infos: %w", err)
	}
	if count == 0 {
		if err := m.DB.Create(&model.AtlasInfo{SchemaVersion: SchemaVersion}).Error; err != nil {
			m.IsValid = false
			return fmt.Errorf("failed to create atlas_infos entry: %w", err)
		}
	}

	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// Close releases the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	m.IsValid = false
	return m.SqlDB.Close()
}

// DumpToDisk vacuums the SQLite database into a file, replacing it.
func (m *Manager) DumpToDisk(path string) error {
	if !m.IsSQLite {
		return errors.New("dump is only supported for sqlite")
	}
	start := time.Now()
	if err := DumpSQLiteToDisk(m.DB, path); err != nil {
		return err
	}
	m.Logger.Debug().Dur("duration", time.Since(start)).Str("path", path).Msg("Dumped DB to disk")
	return nil
}

// PostgresDSN builds the connection string for cfg.
func PostgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// OpenPostgres returns a connection to the Postgres database.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// OpenSQLite returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA cache_size = -16000;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// DumpSQLiteToDisk vacuums a SQLite database to a disk file.
func DumpSQLiteToDisk(db *gorm.DB, path string) error {
	if path == "" {
		return errors.New("sqlite file path not set")
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}
	if err := db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return fmt.Errorf("error dumping DB to disk: %w", err)
	}
	return nil
}
