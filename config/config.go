// Package config loads application configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Logging LoggingConfig `yaml:"logging"`
}

// SessionConfig configures the unified HTTP/browser session.
type SessionConfig struct {
	// Browser is the engine to drive: "chrome" or "firefox".
	Browser string `yaml:"browser"`
	// Timeout bounds HTTP requests and element waits, e.g. "30s".
	Timeout duration `yaml:"timeout"`
	// Headless runs the browser without a visible window.
	Headless bool `yaml:"headless"`
	// HTTPProxy and SSLProxy are host:port endpoints; both must be set
	// for proxying to take effect.
	HTTPProxy string `yaml:"httpProxy,omitempty"`
	SSLProxy  string `yaml:"sslProxy,omitempty"`
	// UserAgent overrides the default outgoing user-agent.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// MongoConfig configures snapshot persistence. An empty URI disables it.
type MongoConfig struct {
	URI      string `yaml:"uri,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`
	// Dir is the log file directory (prod builds only).
	Dir string `yaml:"dir,omitempty"`
}

// duration is a wrapper for time.Duration that handles YAML parsing.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// TimeoutDuration returns the session timeout as a time.Duration.
func (c *SessionConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Browser:  "firefox",
			Timeout:  duration(30 * time.Second),
			Headless: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses a YAML configuration file. Fields missing from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.Session.Browser != "chrome" && cfg.Session.Browser != "firefox" {
		return nil, fmt.Errorf("config %s: browser must be chrome or firefox, not %q",
			path, cfg.Session.Browser)
	}
	return cfg, nil
}
