package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  port: 8080
  read_timeout: 30s
  write_timeout: 30s
logging:
  level: info
  format: json
  output: stdout
store:
  audit_path: ":memory:"
  cache_ttl: 5m
hooks:
  ratelimit:
    enabled: true
    rate: 100
  auth:
    enabled: true
    tokens:
      secret-token: user-1
  cache:
    enabled: true
    routes: [items.list]
  audit:
    enabled: true
  timing:
    enabled: true
`

// TestLoadFromBytesValid verifies a complete config parses and validates.
func TestLoadFromBytesValid(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, ":memory:", cfg.Store.AuditPath)
	assert.Equal(t, 5*time.Minute, cfg.Store.CacheTTL)
	assert.Equal(t, 100, cfg.Hooks.RateLimit.Rate)
	assert.Equal(t, "user-1", cfg.Hooks.Auth.Tokens["secret-token"])
	assert.Equal(t, []string{"items.list"}, cfg.Hooks.Cache.Routes)
}

// TestLoadFromBytesEnvExpansion verifies ${VAR:-default} expansion.
func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("BRIDGE_PORT", "9999")

	yaml := `
server:
  port: ${BRIDGE_PORT:-8080}
  read_timeout: ${BRIDGE_READ_TIMEOUT:-10s}
  write_timeout: 10s
`
	cfg, err := LoadFromBytes([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
}

// TestLoadFromBytesEnvOverrides verifies the audit db path override.
func TestLoadFromBytesEnvOverrides(t *testing.T) {
	t.Setenv("BRIDGE_AUDIT_DB", "/tmp/audit.db")

	cfg, err := LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/audit.db", cfg.Store.AuditPath)
}

// TestValidateFailures verifies each required field is enforced.
func TestValidateFailures(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"missing read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read_timeout"},
		{"missing write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, "write_timeout"},
		{"audit without path", func(c *Config) { c.Store.AuditPath = "" }, "audit_path"},
		{"cache without ttl", func(c *Config) { c.Store.CacheTTL = 0 }, "cache_ttl"},
		{"ratelimit without rate", func(c *Config) { c.Hooks.RateLimit.Rate = 0 }, "ratelimit.rate"},
		{"auth without tokens", func(c *Config) { c.Hooks.Auth.Tokens = nil }, "auth.tokens"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFromBytes([]byte(validYAML))
			require.NoError(t, err)

			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// TestLoadMissingFile verifies a helpful error for a bad path.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/bridge.yaml")
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
