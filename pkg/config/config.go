package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the wallet client
type Config struct {
	// Env selects logging behavior: "development" or "production"
	Env string `toml:"env"`

	// APIBaseURL is the root of the e-wallet REST API, including the
	// /api prefix
	APIBaseURL string `toml:"api_base_url"`

	// TokenPath is where the session token is persisted
	TokenPath string `toml:"token_path"`

	// RequestTimeoutSec bounds each API call
	RequestTimeoutSec int `toml:"request_timeout_sec"`
}

const (
	defaultBaseURL    = "http://localhost:8080/api"
	defaultTimeoutSec = 15
)

// Load builds configuration from the optional config file at
// ~/.walletctl/config.toml, with environment variables taking
// precedence over file values.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               "development",
		APIBaseURL:        defaultBaseURL,
		RequestTimeoutSec: defaultTimeoutSec,
	}

	if path, err := DefaultConfigPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	cfg.Env = getEnv("WALLETCTL_ENV", cfg.Env)
	cfg.APIBaseURL = getEnv("WALLETCTL_API_URL", cfg.APIBaseURL)
	cfg.TokenPath = getEnv("WALLETCTL_TOKEN_PATH", cfg.TokenPath)
	cfg.RequestTimeoutSec = getEnvAsInt("WALLETCTL_TIMEOUT_SEC", cfg.RequestTimeoutSec)

	if cfg.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfg.TokenPath = filepath.Join(home, ".walletctl", "token")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigPath returns ~/.walletctl/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".walletctl", "config.toml"), nil
}

// Validate ensures all required configuration is present and sane
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not a valid URL", c.APIBaseURL)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request_timeout_sec must be positive")
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
