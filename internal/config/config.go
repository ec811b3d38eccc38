// Package config loads server settings from a .env file, an optional TOML
// file and the process environment, in that order of precedence (lowest first).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/mmynk/splitledger/pkg/logging"
)

const minSecretLength = 16

type Config struct {
	// HTTP Server
	Port string `toml:"port"`

	// Database
	DBPath string `toml:"db_path"`

	// Sessions
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`

	// Observability
	LogLevel       string `toml:"log_level"`
	MetricsEnabled bool   `toml:"metrics_enabled"`
}

// Default returns the settings used when nothing overrides them.
// JWTSecret has no default and must be provided.
func Default() *Config {
	return &Config{
		Port:           "8080",
		DBPath:         "./data/splitledger.db",
		TokenTTL:       24 * time.Hour,
		LogLevel:       "info",
		MetricsEnabled: true,
	}
}

// Load reads .env (if present), the TOML file named by LEDGER_CONFIG (if
// set) and then the environment variables PORT, DB_PATH, JWT_SECRET,
// TOKEN_TTL, LOG_LEVEL and METRICS_ENABLED.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("LEDGER_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = d
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid METRICS_ENABLED %q: %w", v, err)
		}
		c.MetricsEnabled = b
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
		}
	}

	if len(c.JWTSecret) < minSecretLength {
		errors = append(errors, fmt.Sprintf("JWT secret must be at least %d characters", minSecretLength))
	}

	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
