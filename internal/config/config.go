// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to every variable Load reads.
const envPrefix = "DOGDISCOVERER_"

// knownKeys lists every setting; a config file key is the lowercase name.
var knownKeys = []string{
	"LISTEN_ADDR",
	"DOG_API_URL",
	"MAX_ATTEMPTS",
	"REQUEST_TIMEOUT",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"BREED_CACHE_TTL",
	"DB_PATH",
	"REDIS_URL",
	"LOG_LEVEL",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	DogAPIURL      string
	MaxAttempts    int
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	BreedCacheTTL  time.Duration
	DBPath         string
	RedisURL       string
	LogLevel       slog.Level
}

// InMemory reports whether session state is kept only for the process lifetime.
func (c *Config) InMemory() bool {
	return c.DBPath == "" && c.RedisURL == ""
}

// UseRedis reports whether session state is stored in Redis instead of SQLite.
func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}

// source resolves settings from the environment, falling back to an optional
// YAML config file.
type source struct {
	file map[string]string
}

// Load reads configuration from environment variables and returns a validated Config.
// DOGDISCOVERER_CONFIG_FILE may name a YAML file whose lowercase keys
// (listen_addr, max_attempts, ...) supply values for unset variables.
// Every variable is optional. Defaults: DOGDISCOVERER_LISTEN_ADDR (127.0.0.1:8080),
// DOGDISCOVERER_DOG_API_URL (https://dog.ceo/api), DOGDISCOVERER_MAX_ATTEMPTS (15),
// DOGDISCOVERER_REQUEST_TIMEOUT (10s), DOGDISCOVERER_RATE_LIMIT_RPS (10),
// DOGDISCOVERER_RATE_LIMIT_BURST (5), DOGDISCOVERER_BREED_CACHE_TTL (1h),
// DOGDISCOVERER_DB_PATH (empty, in-memory), DOGDISCOVERER_REDIS_URL (empty)
// and DOGDISCOVERER_LOG_LEVEL (info).
func Load() (*Config, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:     "127.0.0.1:8080",
		DogAPIURL:      "https://dog.ceo/api",
		MaxAttempts:    15,
		RequestTimeout: 10 * time.Second,
		RateLimitRPS:   10,
		RateLimitBurst: 5,
		BreedCacheTTL:  time.Hour,
		LogLevel:       slog.LevelInfo,
	}

	if v, ok := src.lookup("LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := src.lookup("DOG_API_URL"); ok {
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%sDOG_API_URL must be an absolute http(s) URL, got %q", envPrefix, v)
		}
		cfg.DogAPIURL = strings.TrimRight(v, "/")
	}

	if v, ok := src.lookup("MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sMAX_ATTEMPTS has invalid integer %q: %w", envPrefix, v, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%sMAX_ATTEMPTS must be at least 1, got %d", envPrefix, n)
		}
		cfg.MaxAttempts = n
	}

	if cfg.RequestTimeout, err = src.positiveDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.BreedCacheTTL, err = src.positiveDuration("BREED_CACHE_TTL", cfg.BreedCacheTTL); err != nil {
		return nil, err
	}

	if v, ok := src.lookup("RATE_LIMIT_RPS"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%sRATE_LIMIT_RPS has invalid number %q: %w", envPrefix, v, err)
		}
		if rps < 0 {
			return nil, fmt.Errorf("%sRATE_LIMIT_RPS must not be negative, got %v", envPrefix, rps)
		}
		cfg.RateLimitRPS = rps
	}

	if v, ok := src.lookup("RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%sRATE_LIMIT_BURST has invalid integer %q: %w", envPrefix, v, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%sRATE_LIMIT_BURST must be at least 1, got %d", envPrefix, n)
		}
		cfg.RateLimitBurst = n
	}

	if v, ok := src.lookup("DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := src.lookup("REDIS_URL"); ok {
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return nil, fmt.Errorf("%sREDIS_URL must be a redis:// or rediss:// URL", envPrefix)
		}
		if cfg.DBPath != "" {
			return nil, fmt.Errorf("%sREDIS_URL and %sDB_PATH are mutually exclusive", envPrefix, envPrefix)
		}
		cfg.RedisURL = v
	}

	if v, ok := src.lookup("LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%sLOG_LEVEL has invalid level %q: %w", envPrefix, v, err)
		}
	}

	return cfg, nil
}

func newSource() (source, error) {
	path, ok := os.LookupEnv(envPrefix + "CONFIG_FILE")
	if !ok || strings.TrimSpace(path) == "" {
		return source{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read config file: %w", err)
	}

	var file map[string]string
	if err := yaml.Unmarshal(data, &file); err != nil {
		return source{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	for key := range file {
		if !slices.Contains(knownKeys, strings.ToUpper(key)) {
			return source{}, fmt.Errorf("config file %s: unknown key %q", path, key)
		}
	}

	return source{file: file}, nil
}

// lookup returns the trimmed value of a prefixed variable, or of the config
// file key when the variable is unset or blank. A blank value with no file key
// falls back to the default.
func (s source) lookup(name string) (string, bool) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
		return v, true
	}
	v := strings.TrimSpace(s.file[strings.ToLower(name)])
	return v, v != ""
}

func (s source) positiveDuration(name string, def time.Duration) (time.Duration, error) {
	v, ok := s.lookup(name)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s%s has invalid duration %q: %w", envPrefix, name, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s%s must be positive, got %s", envPrefix, name, d)
	}
	return d, nil
}
