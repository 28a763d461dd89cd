package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"gopkg.in/yaml.v3"

	"github.com/mwhitfield/bursar/internal/backend"
	"github.com/mwhitfield/bursar/pkg/database"
	"github.com/mwhitfield/bursar/pkg/storage"
)

const (
	BaseConfigFile       = "config.yaml"
	OverlayConfigPattern = "config.%s.yaml"

	EnvBursarEnv             = "BURSAR_ENV"
	EnvBursarShutdownTimeout = "BURSAR_SHUTDOWN_TIMEOUT"
	EnvBursarVersion         = "BURSAR_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "BURSAR_DB_HOST",
	Port:            "BURSAR_DB_PORT",
	Name:            "BURSAR_DB_NAME",
	User:            "BURSAR_DB_USER",
	Password:        "BURSAR_DB_PASSWORD",
	SSLMode:         "BURSAR_DB_SSL_MODE",
	MaxOpenConns:    "BURSAR_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "BURSAR_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "BURSAR_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "BURSAR_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "BURSAR_STORAGE_CONTAINER_NAME",
	ConnectionString: "BURSAR_STORAGE_CONNECTION_STRING",
}

var backendEnv = &backend.Env{
	BaseURL:  "BURSAR_BACKEND_BASE_URL",
	Username: "BURSAR_BACKEND_USERNAME",
	Password: "BURSAR_BACKEND_PASSWORD",
	Timeout:  "BURSAR_BACKEND_TIMEOUT",
}

// Config is the root configuration for the bursar CLI. Database and storage
// sections are optional: leaving them unconfigured runs reviews without the
// audit record and PDF archive.
type Config struct {
	Agent           AgentConfig     `yaml:"agent"`
	Backend         backend.Config  `yaml:"backend"`
	Database        database.Config `yaml:"database"`
	Storage         storage.Config  `yaml:"storage"`
	Review          ReviewConfig    `yaml:"review"`
	ShutdownTimeout string          `yaml:"shutdown_timeout"`
	Version         string          `yaml:"version"`

	agent gaconfig.AgentConfig
}

// Env returns the BURSAR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvBursarEnv); env != "" {
		return env
	}
	return "local"
}

// AgentConfig returns the finalized go-agents configuration.
func (c *Config) AgentConfig() gaconfig.AgentConfig {
	return c.agent
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the config at path, applies any environment overlay, and
// finalizes all values. An empty path falls back to config.yaml when that
// exists; otherwise defaults and environment variables provide all
// configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	switch {
	case path != "":
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(BaseConfigFile); err == nil {
			loaded, err := load(BaseConfigFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if overlay := overlayPath(); overlay != "" {
		loaded, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(loaded)
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
	c.Agent.Merge(&overlay.Agent)
	c.Backend.Merge(&overlay.Backend)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Review.Merge(&overlay.Review)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	agent, err := c.Agent.Finalize()
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	c.agent = agent

	if err := c.Backend.Finalize(backendEnv); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
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
	if v := os.Getenv(EnvBursarShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvBursarVersion); v != "" {
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
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvBursarEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
