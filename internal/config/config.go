package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/rankwise/pkg/database"
	"github.com/JaimeStill/rankwise/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRankwiseEnv             = "RANKWISE_ENV"
	EnvRankwiseShutdownTimeout = "RANKWISE_SHUTDOWN_TIMEOUT"
	EnvRankwiseVersion         = "RANKWISE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "RANKWISE_DB_HOST",
	Port:            "RANKWISE_DB_PORT",
	Name:            "RANKWISE_DB_NAME",
	User:            "RANKWISE_DB_USER",
	Password:        "RANKWISE_DB_PASSWORD",
	SSLMode:         "RANKWISE_DB_SSL_MODE",
	ApplicationName: "RANKWISE_DB_APPLICATION_NAME",
	MaxOpenConns:    "RANKWISE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "RANKWISE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "RANKWISE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "RANKWISE_DB_CONN_TIMEOUT",
	StartupRetries:  "RANKWISE_DB_STARTUP_RETRIES",
}

var storageEnv = &storage.Env{
	ContainerName:    "RANKWISE_STORAGE_CONTAINER_NAME",
	ConnectionString: "RANKWISE_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the rankwise service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Ingestion       IngestionConfig   `toml:"ingestion"`
	Eligibility     EligibilityConfig `toml:"eligibility"`
	Logging         LoggingConfig     `toml:"logging"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the RANKWISE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRankwiseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Ingestion.Merge(&overlay.Ingestion)
	c.Eligibility.Merge(&overlay.Eligibility)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Ingestion.Finalize(); err != nil {
		return fmt.Errorf("ingestion: %w", err)
	}
	if err := c.Eligibility.Finalize(); err != nil {
		return fmt.Errorf("eligibility: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRankwiseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRankwiseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRankwiseEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
