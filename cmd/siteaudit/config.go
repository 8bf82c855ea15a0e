package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the configuration and data directories.
const AppName = "siteaudit"

// Environment variables read by the CLI.
const (
	EnvDB     = "SITEAUDIT_DB"
	EnvConfig = "SITEAUDIT_CONFIG"
	EnvToken  = "SITEAUDIT_TOKEN"
	EnvAddr   = "SITEAUDIT_ADDR"
)

// Config holds the settings loaded from the configuration file.
// Command-line flags and environment variables override it.
type Config struct {
	PageLimit   int               `yaml:"page_limit"`
	Concurrency int               `yaml:"concurrency"`
	RateLimit   float64           `yaml:"rate_limit"`
	RateBurst   int               `yaml:"rate_burst"`
	Timeout     time.Duration     `yaml:"timeout"`
	UserAgent   string            `yaml:"user_agent"`
	Headers     map[string]string `yaml:"headers"`
	Blacklist   []string          `yaml:"blacklist"`
	Retries     int               `yaml:"retries"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds the settings of the serve command.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	Token             string  `yaml:"token"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		PageLimit:   100,
		Concurrency: 1,
		RateBurst:   1,
		Timeout:     10 * time.Second,
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerSecond: 2,
			Burst:             5,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvToken); v != "" {
		c.Server.Token = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// configPath resolves the configuration file: the flag, then the
// environment, then the XDG config directory.
func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvConfig); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// dbPath resolves the database file the same way as configPath, creating
// the XDG data directory when it is used.
func dbPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvDB); v != "" {
		return v
	}
	path, err := xdg.DataFile(filepath.Join(AppName, "siteaudit.db"))
	if err != nil {
		return "siteaudit.db"
	}
	return path
}
