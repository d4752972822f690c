// Package config provides configuration management for elkbridge.
//
// Configuration covers the adapter's identity and its storage location: the
// record store path and the acting user every family mutation is attributed
// to. Values come from a YAML file, with environment variables taking
// precedence over whatever the file says.
//
// Config file locations (priority order):
//  1. $ELKBRIDGE_CONFIG
//  2. ./elkbridge.yaml
//  3. $XDG_CONFIG_HOME/elkbridge/config.yaml
//  4. ~/.config/elkbridge/config.yaml
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the adapter's runtime settings
type Config struct {
	// DatabasePath locates the SQLite record store
	DatabasePath string `yaml:"database_path" env:"ELKBRIDGE_DB"`

	// OwnerEmail identifies the acting user; family mutations are
	// attributed to and authorized against this identity
	OwnerEmail string `yaml:"owner_email" env:"ELKBRIDGE_OWNER"`

	// StopIfExisting makes uploads treat duplicated content hashes in the
	// store as fatal instead of reusing the first match
	StopIfExisting bool `yaml:"stop_if_existing" env:"ELKBRIDGE_STRICT"`
}

// Load finds and loads the config file, then applies environment overrides.
// A missing config file is not an error; defaults are used.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		if err := env.Parse(cfg); err != nil {
			return nil, "", fmt.Errorf("parse environment: %w", err)
		}
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, path, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "./elkbridge.db",
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = "./elkbridge.db"
	}
}
