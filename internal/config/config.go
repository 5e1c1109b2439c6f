// Package config provides configuration management for factbot.
//
// Configuration comes from a yaml file with environment variable
// overrides on top, so deployments can keep credentials out of the
// file entirely.
//
// Config file locations (priority order):
//  1. $FACTBOT_CONFIG
//  2. ./factbot.yaml
//  3. ~/.config/factbot/config.yaml
//  4. /etc/factbot/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none
// found, then applies environment overrides.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
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

	cfg.applyDefaults()
	cfg.ApplyEnv()

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

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendSQLite,
		SQLite:  SQLiteConfig{Path: "./factbot.db"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "./factbot.db"
	}
}

// ApplyEnv overrides file values from the environment. Credentials are
// expected to arrive this way in most deployments.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("FACTBOT_BACKEND"); v != "" {
		c.Backend = Backend(v)
	}
	if v := os.Getenv("FACTBOT_DB"); v != "" {
		c.SQLite.Path = v
	}
	if v := os.Getenv("FACTBOT_MYSQL_HOST"); v != "" {
		c.MySQL.Host = v
	}
	if v := os.Getenv("FACTBOT_MYSQL_USER"); v != "" {
		c.MySQL.User = v
	}
	if v := os.Getenv("FACTBOT_MYSQL_PASSWORD"); v != "" {
		c.MySQL.Password = v
	}
	if v := os.Getenv("FACTBOT_MYSQL_DATABASE"); v != "" {
		c.MySQL.Database = v
	}
	if v := os.Getenv("FACTBOT_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// Validate checks that the selected backend is usable as configured
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite backend requires a database path")
		}
	case BackendMySQL:
		if c.MySQL.Host == "" || c.MySQL.Database == "" {
			return fmt.Errorf("mysql backend requires host and database")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
