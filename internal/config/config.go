// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackielii/viewroutes/internal/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the default configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvServiceEnv specifies the environment name for configuration overlays.
	EnvServiceEnv = "COUNTRIES_ENV"

	// EnvBaseURL sets the path prefix all views are served under.
	EnvBaseURL = "BASE_URL"

	// EnvShutdownTimeout overrides the shutdown timeout.
	EnvShutdownTimeout = "COUNTRIES_SHUTDOWN_TIMEOUT"
)

var loggingEnv = &logging.Env{
	Level:  "COUNTRIES_LOG_LEVEL",
	Format: "COUNTRIES_LOG_FORMAT",
}

// Config represents the root application configuration.
type Config struct {
	BasePath        string          `toml:"base_path"`
	Server          ServerConfig    `toml:"server"`
	Logging         logging.Config  `toml:"logging"`
	Countries       CountriesConfig `toml:"countries"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the configuration file at path and applies any environment-specific
// overlay next to it. A missing file yields an empty configuration, so the
// application runs on defaults and environment variables alone.
func Load(path string) (*Config, error) {
	if path == "" {
		path = BaseConfigFile
	}
	cfg, err := load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Countries.Finalize(); err != nil {
		return fmt.Errorf("countries: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	c.Server.Merge(&overlay.Server)
	c.Logging.Merge(&overlay.Logging)
	c.Countries.Merge(&overlay.Countries)
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "15s"
	}
}

func (c *Config) loadEnv() {
	if v, ok := os.LookupEnv(EnvBaseURL); ok {
		c.BasePath = v
	}
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	bp, err := NormalizeBasePath(c.BasePath)
	if err != nil {
		return err
	}
	c.BasePath = bp
	return nil
}

// NormalizeBasePath returns p with a leading slash and no trailing slash. The
// root ("", "/") normalizes to "".
func NormalizeBasePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if strings.ContainsAny(p, "{}?#: ") {
		return "", fmt.Errorf("invalid base_path %q", p)
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return "", nil
	}
	return "/" + p, nil
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

func overlayPath(base string) string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		p := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
