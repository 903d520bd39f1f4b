// Package config loads chouse settings from defaults, a TOML file and the
// environment. Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chouse/pkg/archive"
	"github.com/matzehuels/chouse/pkg/cache"
	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/integrations/companieshouse"
)

const appName = "chouse"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds every setting the CLI and server use.
type Config struct {
	APIKey      string        `toml:"api_key"`
	BaseURL     string        `toml:"base_url"`
	MaxDepth    int           `toml:"max_depth"`
	Concurrency int           `toml:"concurrency"`
	Timeout     time.Duration `toml:"timeout"`

	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Archive ArchiveConfig `toml:"archive"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`
	Redis   RedisConfig   `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures "chouse serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ArchiveConfig configures the MongoDB record archive.
type ArchiveConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:     companieshouse.DefaultBaseURL,
		MaxDepth:    companieshouse.DefaultMaxDepth,
		Concurrency: 1,
		Timeout:     10 * time.Second,
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     24 * time.Hour,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: cache.DefaultRedisPrefix,
			},
		},
		Server: ServerConfig{Addr: ":8080"},
		Archive: ArchiveConfig{
			Database:   archive.DefaultDatabase,
			Collection: archive.DefaultCollection,
		},
	}
}

// DefaultPath returns the config file location using XDG standard
// (~/.config/chouse/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// process environment. An empty path means [DefaultPath], which may be
// missing; an explicit path must exist.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return cfg, applyEnv(&cfg, lookup)
		}
		return cfg, err
	}
	return cfg, applyEnv(&cfg, lookup)
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if _, err := toml.Decode(string(data), c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

// applyEnv overrides cfg with CHOUSE_* variables. COMPANIES_HOUSE_API_KEY
// is accepted as a fallback for the key.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
		}
		*dst = d
		return nil
	}

	str("COMPANIES_HOUSE_API_KEY", &cfg.APIKey)
	str("CHOUSE_API_KEY", &cfg.APIKey)
	str("CHOUSE_BASE_URL", &cfg.BaseURL)
	str("CHOUSE_CACHE", &cfg.Cache.Backend)
	str("CHOUSE_CACHE_DIR", &cfg.Cache.Dir)
	str("CHOUSE_REDIS_ADDR", &cfg.Cache.Redis.Addr)
	str("CHOUSE_REDIS_PASSWORD", &cfg.Cache.Redis.Password)
	str("CHOUSE_MONGO_URI", &cfg.Archive.MongoURI)
	str("CHOUSE_LISTEN_ADDR", &cfg.Server.Addr)

	for _, f := range []func() error{
		func() error { return num("CHOUSE_MAX_DEPTH", &cfg.MaxDepth) },
		func() error { return num("CHOUSE_CONCURRENCY", &cfg.Concurrency) },
		func() error { return dur("CHOUSE_CACHE_TTL", &cfg.Cache.TTL) },
		func() error { return dur("CHOUSE_TIMEOUT", &cfg.Timeout) },
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks settings needed to talk to the registry.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New(errors.ErrCodeInvalidConfig,
			"API key is required (set CHOUSE_API_KEY, api_key in the config file, or --api-key)")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() || errors.ValidateURL(c.BaseURL) != nil {
		return errors.New(errors.ErrCodeInvalidConfig, "base_url must be an absolute http(s) URL: %q", c.BaseURL)
	}
	if c.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_depth must be >= 0")
	}
	if c.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be >= 1")
	}
	if c.Timeout < 0 || c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs cache.redis.addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "key:" + cache.Fingerprint(c.APIKey)
	}
	if c.Cache.Redis.Password != "" {
		c.Cache.Redis.Password = "********"
	}
	return c
}

// TOML encodes c in config file syntax.
func (c Config) TOML() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
