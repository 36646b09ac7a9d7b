// Package config loads and validates the bridge configuration.
//
// DESIGN: All configuration MUST come from YAML files. No defaults.
// This ensures explicit, auditable configuration for production
// deployments. Values support ${VAR} and ${VAR:-default} expansion so
// secrets stay out of the file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
)

// Config is the root configuration for the bridge.
// All fields are required - no defaults are applied.
type Config struct {
	Server  ServerConfig            `yaml:"server"`  // HTTP server settings
	Logging monitoring.LoggerConfig `yaml:"logging"` // Structured logging
	Alerts  monitoring.AlertConfig  `yaml:"alerts"`  // Anomaly thresholds
	Store   StoreConfig             `yaml:"store"`   // Audit trail + cache
	Hooks   HooksConfig             `yaml:"hooks"`   // Built-in hook settings
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // Port to listen on
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Max time to read request
	WriteTimeout time.Duration `yaml:"write_timeout"` // Max time to write response
}

// StoreConfig contains storage settings.
type StoreConfig struct {
	AuditPath string        `yaml:"audit_path"` // sqlite file, or ":memory:"
	CacheTTL  time.Duration `yaml:"cache_ttl"`  // Response cache time-to-live
}

// HooksConfig configures the built-in global hooks. Disabled hooks are
// simply not instantiated.
type HooksConfig struct {
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Audit     AuditConfig     `yaml:"audit"`
	Timing    TimingConfig    `yaml:"timing"`
}

// RateLimitConfig configures the per-client token bucket hook.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`
	Rate    int  `yaml:"rate"` // Tokens per second per client
}

// AuthConfig configures the bearer-token hook.
// Tokens maps a token value to the user id it authenticates.
type AuthConfig struct {
	Enabled bool              `yaml:"enabled"`
	Tokens  map[string]string `yaml:"tokens"`
}

// CacheConfig configures the early-response cache hook.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Routes  []string `yaml:"routes"` // Route ids eligible for caching
}

// AuditConfig configures the outcome audit hook.
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TimingConfig configures the request timing hook.
type TimingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	// Pattern matches ${VAR:-default} or ${VAR}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file.
// Returns an error if the file doesn't exist or is invalid.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes.
// Supports ${VAR:-default} env var expansion, env overrides, and validation.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// This lets container orchestration redirect paths without editing the
// base config file.
func (c *Config) applyEnvOverrides() {
	if envPath := os.Getenv("BRIDGE_AUDIT_DB"); envPath != "" {
		c.Store.AuditPath = envPath
	}
	if envPath := os.Getenv("BRIDGE_LOG_OUTPUT"); envPath != "" {
		c.Logging.Output = envPath
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout == 0 {
		return fmt.Errorf("server.read_timeout is required")
	}
	if c.Server.WriteTimeout == 0 {
		return fmt.Errorf("server.write_timeout is required")
	}

	// Store validation
	if c.Hooks.Audit.Enabled && c.Store.AuditPath == "" {
		return fmt.Errorf("store.audit_path is required when hooks.audit is enabled")
	}
	if c.Hooks.Cache.Enabled && c.Store.CacheTTL == 0 {
		return fmt.Errorf("store.cache_ttl is required when hooks.cache is enabled")
	}

	// Hook validations
	if c.Hooks.RateLimit.Enabled && c.Hooks.RateLimit.Rate < 1 {
		return fmt.Errorf("hooks.ratelimit.rate must be at least 1")
	}
	if c.Hooks.Auth.Enabled && len(c.Hooks.Auth.Tokens) == 0 {
		return fmt.Errorf("hooks.auth.tokens is required when hooks.auth is enabled")
	}

	return nil
}
