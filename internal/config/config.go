package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is looked up in the directory passed to Load.
const ConfigFileName = "atlas.cfg.json"

// MemoryConfig holds the local event store settings.
type MemoryConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	Compress bool   `json:"compress" mapstructure:"compress"`
	Watch    bool   `json:"watch" mapstructure:"watch"`
}

// SQLiteConfig holds the sqlite event store settings. An empty path is an in-memory db.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the event store.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig holds the hosted Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// RedisConfig configures the shared boundary payload cache.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// CacheConfig configures boundary fetching.
type CacheConfig struct {
	Timeout time.Duration
	Warm    bool
	Redis   RedisConfig
}

// ResolveConfig tunes the resolution pipeline.
type ResolveConfig struct {
	Simplify    float64
	MinZoom     float64
	MaxZoom     float64
	DefaultZoom float64
	Padding     float64
}

// InfluxConfig configures the optional metrics sink.
type InfluxConfig struct {
	Enabled  bool
	Protocol string
	Host     string
	Port     string
	Token    string
	Org      string
	Bucket   string
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig configures the GELF log sink.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Environment variables
// prefixed with ATLAS_ override file values (ATLAS_STORAGE_TYPE for storage.type).
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./atlaslogs")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.path", "./atlas-events.json")
	viper.SetDefault("storage.memory.compress", false)
	viper.SetDefault("storage.memory.watch", false)
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "atlas")

	viper.SetDefault("cache.timeout", "30s")
	viper.SetDefault("cache.warm", false)
	viper.SetDefault("cache.redis.enabled", false)
	viper.SetDefault("cache.redis.addr", "localhost:6379")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.redis.prefix", "atlas:geo:")

	viper.SetDefault("resolve.simplify", 0.5)
	viper.SetDefault("resolve.minZoom", 1)
	viper.SetDefault("resolve.maxZoom", 8)
	viper.SetDefault("resolve.defaultZoom", 4)
	viper.SetDefault("resolve.padding", 1.5)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "atlas")
	viper.SetDefault("influx.bucket", "atlas_metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetEnvPrefix("ATLAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetStorageConfig returns the event store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			Path:     viper.GetString("storage.memory.path"),
			Compress: viper.GetBool("storage.memory.compress"),
			Watch:    viper.GetBool("storage.memory.watch"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetDBConfig returns the Postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetCacheConfig returns the boundary cache settings.
func GetCacheConfig() CacheConfig {
	return CacheConfig{
		Timeout: viper.GetDuration("cache.timeout"),
		Warm:    viper.GetBool("cache.warm"),
		Redis: RedisConfig{
			Enabled:  viper.GetBool("cache.redis.enabled"),
			Addr:     viper.GetString("cache.redis.addr"),
			Password: viper.GetString("cache.redis.password"),
			DB:       viper.GetInt("cache.redis.db"),
			Prefix:   viper.GetString("cache.redis.prefix"),
		},
	}
}

// GetResolveConfig returns the pipeline settings.
func GetResolveConfig() ResolveConfig {
	return ResolveConfig{
		Simplify:    viper.GetFloat64("resolve.simplify"),
		MinZoom:     viper.GetFloat64("resolve.minZoom"),
		MaxZoom:     viper.GetFloat64("resolve.maxZoom"),
		DefaultZoom: viper.GetFloat64("resolve.defaultZoom"),
		Padding:     viper.GetFloat64("resolve.padding"),
	}
}

// GetInfluxConfig returns the metrics sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetPeriodOverrides returns the boundary file configured per period id under
// periods.<id>.geojson.
func GetPeriodOverrides() map[string]string {
	out := make(map[string]string)
	for id := range viper.GetStringMap("periods") {
		if path := viper.GetString("periods." + id + ".geojson"); path != "" {
			out[id] = path
		}
	}
	return out
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
