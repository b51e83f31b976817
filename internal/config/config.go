package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/clauseflow/clauseflow/internal/extractor"
	"github.com/clauseflow/clauseflow/pkg/database"
	"github.com/clauseflow/clauseflow/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvClauseflowEnv             = "CLAUSEFLOW_ENV"
	EnvClauseflowShutdownTimeout = "CLAUSEFLOW_SHUTDOWN_TIMEOUT"
	EnvClauseflowVersion         = "CLAUSEFLOW_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CLAUSEFLOW_DB_HOST",
	Port:            "CLAUSEFLOW_DB_PORT",
	Name:            "CLAUSEFLOW_DB_NAME",
	User:            "CLAUSEFLOW_DB_USER",
	Password:        "CLAUSEFLOW_DB_PASSWORD",
	SSLMode:         "CLAUSEFLOW_DB_SSL_MODE",
	MaxOpenConns:    "CLAUSEFLOW_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CLAUSEFLOW_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CLAUSEFLOW_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CLAUSEFLOW_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CLAUSEFLOW_STORAGE_CONTAINER_NAME",
	ConnectionString: "CLAUSEFLOW_STORAGE_CONNECTION_STRING",
}

var extractorEnv = &extractor.Env{
	BaseURL: "CLAUSEFLOW_EXTRACTOR_BASE_URL",
	APIKey:  "CLAUSEFLOW_EXTRACTOR_API_KEY",
	Model:   "CLAUSEFLOW_EXTRACTOR_MODEL",
}

// Config is the root configuration for the ClauseFlow service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	Extractor       extractor.Config `toml:"extractor"`
	API             APIConfig        `toml:"api"`
	Review          ReviewConfig     `toml:"review"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CLAUSEFLOW_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvClauseflowEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
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
	c.Extractor.Merge(&overlay.Extractor)
	c.API.Merge(&overlay.API)
	c.Review.Merge(&overlay.Review)
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
	if err := c.Extractor.Finalize(extractorEnv); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Review.Finalize(); err != nil {
		return fmt.Errorf("review: %w", err)
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
	if v := os.Getenv(EnvClauseflowShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvClauseflowVersion); v != "" {
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
	if env := os.Getenv(EnvClauseflowEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
