// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultRequestTimeout            = 5 * time.Second
	defaultDatabasePath              = "./data/trackflix.db"
	defaultMigrationsPath            = "file://./migrations"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultUnwatchedPerPage          = 20
	defaultWatchedPerPage            = 24
	defaultFoldersPerPage            = 12
	defaultWatchedSort               = string(watchlist.SortWatchedAtDesc)
	defaultDuplicateMaxDistance      = 0
	defaultViewCacheTTL              = 5 * time.Minute
	defaultSelectionTTL              = 30 * time.Minute
	defaultMetricsEnabled            = true
	envPrefix                        = "TRACKFLIX"

	maxPerPage = 500
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Watchlist WatchlistConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	MigrationsPath    string
	ConnectionTimeout time.Duration
	LogQueries        bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// WatchlistConfig holds list paging and cache configuration
type WatchlistConfig struct {
	UnwatchedPerPage     int
	WatchedPerPage       int
	FoldersPerPage       int
	DefaultWatchedSort   string
	DuplicateMaxDistance int
	ViewCacheTTL         time.Duration
	SelectionTTL         time.Duration
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	cfg, _, err := LoadFrom("")
	return cfg, err
}

// LoadFrom is Load reading the given config file instead of searching the
// default paths. An empty path searches. The returned viper instance can be
// passed to Watch.
func LoadFrom(path string) (*Config, *viper.Viper, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/trackflix")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, nil, fmt.Errorf("error reading config: %w", err)
		}
		// no config file: defaults and env vars only
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Watch re-reads the config file whenever it is written and hands the new
// configuration to onChange. Invalid edits are logged and ignored. Watch does
// nothing when no config file was loaded.
func Watch(v *viper.Viper, onChange func(*Config)) bool {
	if v == nil || v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			logger.Log.Warn().
				Err(err).
				Str("file", e.Name).
				Msg("Ignoring invalid config change")
			return
		}
		logger.Log.Info().
			Str("file", e.Name).
			Msg("Configuration reloaded")
		onChange(cfg)
	})
	v.WatchConfig()
	return true
}

// ApplyLogging applies the reloadable logging settings
func ApplyLogging(cfg *Config) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to apply log level")
	}
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.requesttimeout", defaultRequestTimeout)
	v.SetDefault("server.corsorigins", []string{"*"})

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.logqueries", false)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	// Watchlist defaults
	v.SetDefault("watchlist.unwatchedperpage", defaultUnwatchedPerPage)
	v.SetDefault("watchlist.watchedperpage", defaultWatchedPerPage)
	v.SetDefault("watchlist.foldersperpage", defaultFoldersPerPage)
	v.SetDefault("watchlist.defaultwatchedsort", defaultWatchedSort)
	v.SetDefault("watchlist.duplicatemaxdistance", defaultDuplicateMaxDistance)
	v.SetDefault("watchlist.viewcachettl", defaultViewCacheTTL)
	v.SetDefault("watchlist.selectionttl", defaultSelectionTTL)

	// Metrics defaults
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %v (must be > 0)", c.Server.RequestTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}
	if c.Database.Path == "" {
		return errors.New("database path cannot be empty")
	}

	if !logger.IsValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(logger.Levels, ", "))
	}

	return c.Watchlist.Validate()
}

// Validate checks paging, sort and cache settings
func (w *WatchlistConfig) Validate() error {
	for name, perPage := range map[string]int{
		"unwatched": w.UnwatchedPerPage,
		"watched":   w.WatchedPerPage,
		"folders":   w.FoldersPerPage,
	} {
		if perPage < 1 || perPage > maxPerPage {
			return fmt.Errorf("invalid %s page size: %d (must be between 1 and %d)", name, perPage, maxPerPage)
		}
	}
	if _, err := watchlist.ParseWatchedSort(w.DefaultWatchedSort); err != nil {
		return fmt.Errorf("invalid default watched sort: %w", err)
	}
	if w.DuplicateMaxDistance < 0 {
		return fmt.Errorf("invalid duplicate max distance: %d (must be >= 0)", w.DuplicateMaxDistance)
	}
	if w.ViewCacheTTL <= 0 || w.SelectionTTL <= 0 {
		return errors.New("cache TTLs must be > 0")
	}
	return nil
}

// Address returns the host:port the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
