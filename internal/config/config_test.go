package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every DOGDISCOVERER_ env var that Load() reads.
var allConfigKeys = []string{
	"DOGDISCOVERER_LISTEN_ADDR",
	"DOGDISCOVERER_DOG_API_URL",
	"DOGDISCOVERER_MAX_ATTEMPTS",
	"DOGDISCOVERER_REQUEST_TIMEOUT",
	"DOGDISCOVERER_RATE_LIMIT_RPS",
	"DOGDISCOVERER_RATE_LIMIT_BURST",
	"DOGDISCOVERER_BREED_CACHE_TTL",
	"DOGDISCOVERER_DB_PATH",
	"DOGDISCOVERER_REDIS_URL",
	"DOGDISCOVERER_LOG_LEVEL",
	"DOGDISCOVERER_CONFIG_FILE",
}

// isolateConfigEnv saves and unsets all DOGDISCOVERER_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("DOGDISCOVERER_DOG_API_URL", "http://localhost:4000/api/")
	t.Setenv("DOGDISCOVERER_MAX_ATTEMPTS", "5")
	t.Setenv("DOGDISCOVERER_REQUEST_TIMEOUT", "3s")
	t.Setenv("DOGDISCOVERER_RATE_LIMIT_RPS", "2.5")
	t.Setenv("DOGDISCOVERER_RATE_LIMIT_BURST", "1")
	t.Setenv("DOGDISCOVERER_BREED_CACHE_TTL", "30m")
	t.Setenv("DOGDISCOVERER_DB_PATH", "/tmp/dogs.db")
	t.Setenv("DOGDISCOVERER_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:4000/api", cfg.DogAPIURL)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0)
	assert.Equal(t, 1, cfg.RateLimitBurst)
	assert.Equal(t, 30*time.Minute, cfg.BreedCacheTTL)
	assert.Equal(t, "/tmp/dogs.db", cfg.DBPath)
	assert.False(t, cfg.InMemory())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "https://dog.ceo/api", cfg.DogAPIURL)
	assert.Equal(t, 15, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 10, cfg.RateLimitRPS, 0)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, time.Hour, cfg.BreedCacheTTL)
	assert.True(t, cfg.InMemory())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

// TestLoad_EmptyValueUsesDefault verifies that VAR= behaves like an unset variable.
func TestLoad_EmptyValueUsesDefault(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_MAX_ATTEMPTS", "")
	t.Setenv("DOGDISCOVERER_LISTEN_ADDR", "  ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 15, cfg.MaxAttempts)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
}

func TestLoad_ZeroRateDisablesLimiter(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_RATE_LIMIT_RPS", "0")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimitRPS)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"max attempts not a number", "DOGDISCOVERER_MAX_ATTEMPTS", "lots", "invalid integer"},
		{"max attempts zero", "DOGDISCOVERER_MAX_ATTEMPTS", "0", "at least 1"},
		{"timeout garbage", "DOGDISCOVERER_REQUEST_TIMEOUT", "soon", "invalid duration"},
		{"timeout negative", "DOGDISCOVERER_REQUEST_TIMEOUT", "-1s", "must be positive"},
		{"cache ttl zero", "DOGDISCOVERER_BREED_CACHE_TTL", "0s", "must be positive"},
		{"rps garbage", "DOGDISCOVERER_RATE_LIMIT_RPS", "fast", "invalid number"},
		{"rps negative", "DOGDISCOVERER_RATE_LIMIT_RPS", "-2", "must not be negative"},
		{"burst zero", "DOGDISCOVERER_RATE_LIMIT_BURST", "0", "at least 1"},
		{"api url scheme", "DOGDISCOVERER_DOG_API_URL", "ftp://dog.ceo/api", "absolute http(s) URL"},
		{"api url relative", "DOGDISCOVERER_DOG_API_URL", "/api", "absolute http(s) URL"},
		{"log level", "DOGDISCOVERER_LOG_LEVEL", "chatty", "invalid level"},
		{"redis scheme", "DOGDISCOVERER_REDIS_URL", "http://localhost:6379", "redis:// or rediss://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RedisURL(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_REDIS_URL", "redis://localhost:6379/2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.UseRedis())
	assert.False(t, cfg.InMemory())
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
}

func TestLoad_RedisAndDBPathConflict(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_REDIS_URL", "redis://localhost:6379")
	t.Setenv("DOGDISCOVERER_DB_PATH", "/tmp/dogs.db")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dogdiscoverer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfigFile(t, `
listen_addr: 0.0.0.0:7000
max_attempts: 8
breed_cache_ttl: 5m
log_level: warn
`)
	t.Setenv("DOGDISCOVERER_CONFIG_FILE", path)
	// Environment variables take precedence over the file.
	t.Setenv("DOGDISCOVERER_MAX_ATTEMPTS", "3")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.BreedCacheTTL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

// TestLoad_BlankEnvFallsBackToConfigFile verifies that VAR= does not hide the
// file value.
func TestLoad_BlankEnvFallsBackToConfigFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfigFile(t, "max_attempts: 8\n")
	t.Setenv("DOGDISCOVERER_CONFIG_FILE", path)
	t.Setenv("DOGDISCOVERER_MAX_ATTEMPTS", "")
	t.Setenv("DOGDISCOVERER_LISTEN_ADDR", " ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxAttempts)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "listen_address: 1.2.3.4:80\n", `unknown key "listen_address"`},
		{"not a mapping", "- a\n- b\n", "parse config file"},
		{"invalid value", "max_attempts: none\n", "invalid integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("DOGDISCOVERER_CONFIG_FILE", writeConfigFile(t, tt.content))

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DOGDISCOVERER_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
