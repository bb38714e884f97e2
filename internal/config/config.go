// Package config loads and validates the TOML configuration shared by the
// decode server and supporting tooling.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"wxtools/internal/fetch"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server  ServerConfig  `toml:"server"`  // HTTP server settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
	Storage StorageConfig `toml:"storage"` // Report archive settings
	Fetch   fetch.Config  `toml:"fetch"`   // Upstream product fetch settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port             int    `toml:"port"`                  // HTTP port for the server
	Host             string `toml:"host"`                  // Host address to bind to
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
	IdleTimeoutSecs  int    `toml:"idle_timeout_seconds"`  // Keep-alive idle timeout
}

// LoggingConfig contains application logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: debug, info, warn, error
	Format string `toml:"format"` // Log output format: console or json
}

// StorageConfig contains report archive settings
type StorageConfig struct {
	SQLiteBasePath    string `toml:"sqlite_base_path"`    // Directory for the SQLite database file
	MaxHistoryReports int    `toml:"max_history_reports"` // Maximum reports returned by a history query
}

// Default returns a configuration with working defaults for every section.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             8080,
			Host:             "0.0.0.0",
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 15,
			IdleTimeoutSecs:  60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			SQLiteBasePath:    "data",
			MaxHistoryReports: 100,
		},
		Fetch: fetch.DefaultConfig(),
	}
}

// Load reads and parses the configuration file at the given path on top of
// the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// LoadWithFallback tries the preferred path first, then the conventional
// locations. When no file exists anywhere, the defaults are returned.
func LoadWithFallback(preferredPath string) (*Config, error) {
	searchPaths := []string{
		preferredPath,
		"configs/config.toml",
		"config.toml",
	}

	for _, path := range searchPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	return Default(), nil
}

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q (must be console or json)", c.Logging.Format)
	}

	if c.Storage.MaxHistoryReports <= 0 {
		return fmt.Errorf("storage max_history_reports must be greater than 0: %d", c.Storage.MaxHistoryReports)
	}

	if c.Fetch.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch request_timeout_seconds must be greater than 0: %d", c.Fetch.RequestTimeoutSeconds)
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch max_retries must be 0 or greater: %d", c.Fetch.MaxRetries)
	}
	if c.Fetch.AviationBaseURL == "" {
		return fmt.Errorf("fetch aviation_base_url cannot be empty")
	}
	if c.Fetch.ReconBaseURL == "" {
		return fmt.Errorf("fetch recon_base_url cannot be empty")
	}

	return nil
}
