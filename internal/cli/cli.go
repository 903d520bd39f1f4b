package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chouse/internal/config"
	"github.com/matzehuels/chouse/pkg/buildinfo"
	"github.com/matzehuels/chouse/pkg/cache"
	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/integrations/companieshouse"
	"github.com/matzehuels/chouse/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chouse"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	flags      overrides
}

// overrides holds global flags that take precedence over file and
// environment settings. Only flags the user actually set are applied.
type overrides struct {
	apiKey      string
	baseURL     string
	cache       string
	refresh     bool
	maxDepth    int
	concurrency int
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level, HTTP and cache
// events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger}
		observability.SetHTTPHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetRegistryHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "chouse queries the UK company registry",
		Long:         `chouse looks up UK companies by number or name and prints their profiles as JSON, with linked resources such as officers and filing history inlined.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chouse/config.toml)")
	pf.StringVar(&c.flags.apiKey, "api-key", "", "registry API key (overrides CHOUSE_API_KEY)")
	pf.StringVar(&c.flags.baseURL, "base-url", "", "registry base URL")
	pf.StringVar(&c.flags.cache, "cache", "", "response cache: none, file or redis")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached responses")
	pf.IntVar(&c.flags.maxDepth, "max-depth", companieshouse.DefaultMaxDepth, "levels of links to expand (0 disables)")
	pf.IntVar(&c.flags.concurrency, "concurrency", 1, "relations fetched in parallel per object")

	// Register all subcommands
	root.AddCommand(c.lookupCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads file and environment settings and applies the flags
// set on cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = c.flags.apiKey
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = c.flags.baseURL
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend = c.flags.cache
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = c.flags.maxDepth
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = c.flags.concurrency
	}
	return cfg, nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient builds a registry client from cfg. The returned close function
// releases the cache backend.
func (c *CLI) newClient(ctx context.Context, cfg config.Config) (*companieshouse.Client, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	backend, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := companieshouse.NewClient(cfg.APIKey,
		companieshouse.WithBaseURL(cfg.BaseURL),
		companieshouse.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		companieshouse.WithCache(backend, cfg.Cache.TTL),
		companieshouse.WithRefresh(c.flags.refresh),
		companieshouse.WithMaxDepth(cfg.MaxDepth),
		companieshouse.WithConcurrency(cfg.Concurrency),
		companieshouse.WithLogger(c.Logger),
	)
	return client, backend.Close, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate file cache (set cache.dir)")
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create file cache in %s", dir)
		}
		return fc, nil
	case config.CacheRedis:
		r := cfg.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", r.Addr)
		}
		return rc, nil
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chouse/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
