// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/popcorn.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultScheduleFrequency         = "weekly"
	defaultScheduleCheckInterval     = time.Hour
	defaultRegenerateOnStart         = true
	defaultSeedDefaultChannels       = true
	defaultCatalogSyncOnStart        = true
	defaultEnrichmentBaseURL         = "https://api.themoviedb.org/3"
	defaultEnrichmentTimeout         = 10 * time.Second
	defaultEnrichmentRPS             = 4.0
	defaultEnrichmentBurst           = 4
	defaultEnrichmentCacheSize       = 1000
	defaultEnrichmentFailures        = 5
	defaultEnrichmentResetTimeout    = 60 * time.Second
	defaultLiveTVDeviceID            = "504F5043"
	defaultLiveTVFriendlyName        = "Popcorn"
	defaultLiveTVTunerCount          = 4
	defaultPosterCacheSize           = 300
	envPrefix                        = "POPCORN"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Schedule   ScheduleConfig
	Catalog    CatalogConfig
	Enrichment EnrichmentConfig
	LiveTV     LiveTVConfig
	Cache      CacheConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// ScheduleConfig controls regeneration cadence
type ScheduleConfig struct {
	// Frequency seeds the regeneration state the first time it is created
	Frequency           string
	CheckInterval       time.Duration
	RegenerateOnStart   bool
	SeedDefaultChannels bool
}

// CatalogConfig points at the library used to populate the catalog.
// Path (a YAML/JSON export) takes precedence over Directory (a folder of
// movie files, one subfolder per genre).
type CatalogConfig struct {
	Path        string
	Directory   string
	SyncOnStart bool
}

// EnrichmentConfig configures the optional external metadata client.
// An empty APIKey disables enrichment.
type EnrichmentConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	CacheSize         int
	FailureThreshold  int
	ResetTimeout      time.Duration
}

// Enabled reports whether enrichment lookups should be made
func (e EnrichmentConfig) Enabled() bool {
	return strings.TrimSpace(e.APIKey) != ""
}

// LiveTVConfig configures the tuner emulation exports
type LiveTVConfig struct {
	// BaseURL is the externally reachable address; derived from the request when empty
	BaseURL      string
	DeviceID     string
	FriendlyName string
	TunerCount   int
}

// CacheConfig holds in-memory cache sizes
type CacheConfig struct {
	PosterSize int
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/popcorn")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Schedule.Frequency = strings.ToLower(cfg.Schedule.Frequency)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("schedule.frequency", defaultScheduleFrequency)
	v.SetDefault("schedule.checkinterval", defaultScheduleCheckInterval)
	v.SetDefault("schedule.regenerateonstart", defaultRegenerateOnStart)
	v.SetDefault("schedule.seeddefaultchannels", defaultSeedDefaultChannels)

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.directory", "")
	v.SetDefault("catalog.synconstart", defaultCatalogSyncOnStart)

	v.SetDefault("enrichment.apikey", "")
	v.SetDefault("enrichment.baseurl", defaultEnrichmentBaseURL)
	v.SetDefault("enrichment.timeout", defaultEnrichmentTimeout)
	v.SetDefault("enrichment.requestspersecond", defaultEnrichmentRPS)
	v.SetDefault("enrichment.burst", defaultEnrichmentBurst)
	v.SetDefault("enrichment.cachesize", defaultEnrichmentCacheSize)
	v.SetDefault("enrichment.failurethreshold", defaultEnrichmentFailures)
	v.SetDefault("enrichment.resettimeout", defaultEnrichmentResetTimeout)

	v.SetDefault("livetv.baseurl", "")
	v.SetDefault("livetv.deviceid", defaultLiveTVDeviceID)
	v.SetDefault("livetv.friendlyname", defaultLiveTVFriendlyName)
	v.SetDefault("livetv.tunercount", defaultLiveTVTunerCount)

	v.SetDefault("cache.postersize", defaultPosterCacheSize)
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
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	validFrequencies := []string{"daily", "weekly", "monthly"}
	if !contains(validFrequencies, c.Schedule.Frequency) {
		return fmt.Errorf("invalid schedule frequency: %s (must be one of: %s)", c.Schedule.Frequency, strings.Join(validFrequencies, ", "))
	}
	if c.Schedule.CheckInterval < time.Minute {
		return fmt.Errorf("invalid schedule check interval: %v (must be >= 1m)", c.Schedule.CheckInterval)
	}

	if c.Enrichment.Enabled() {
		if c.Enrichment.BaseURL == "" {
			return errors.New("enrichment base URL is required when an API key is set")
		}
		if c.Enrichment.Timeout <= 0 {
			return fmt.Errorf("invalid enrichment timeout: %v (must be > 0)", c.Enrichment.Timeout)
		}
		if c.Enrichment.RequestsPerSecond <= 0 || c.Enrichment.Burst < 1 {
			return fmt.Errorf("invalid enrichment rate limit: %v rps, burst %d", c.Enrichment.RequestsPerSecond, c.Enrichment.Burst)
		}
		if c.Enrichment.FailureThreshold < 1 || c.Enrichment.ResetTimeout <= 0 {
			return fmt.Errorf("invalid enrichment circuit breaker: threshold %d, reset %v", c.Enrichment.FailureThreshold, c.Enrichment.ResetTimeout)
		}
	}
	if c.Enrichment.CacheSize < 1 {
		return fmt.Errorf("invalid enrichment cache size: %d (must be > 0)", c.Enrichment.CacheSize)
	}

	if c.LiveTV.TunerCount < 1 {
		return fmt.Errorf("invalid tuner count: %d (must be > 0)", c.LiveTV.TunerCount)
	}
	if c.Cache.PosterSize < 1 {
		return fmt.Errorf("invalid poster cache size: %d (must be > 0)", c.Cache.PosterSize)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
