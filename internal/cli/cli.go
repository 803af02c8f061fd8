// Package cli implements the ghoshna command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ghoshnapatra/ghoshna/pkg/buildinfo"
	"github.com/ghoshnapatra/ghoshna/pkg/cache"
	"github.com/ghoshnapatra/ghoshna/pkg/config"
	"github.com/ghoshnapatra/ghoshna/pkg/fonts"
	"github.com/ghoshnapatra/ghoshna/pkg/history"
	"github.com/ghoshnapatra/ghoshna/pkg/observability"
	"github.com/ghoshnapatra/ghoshna/pkg/pipeline"
	"github.com/ghoshnapatra/ghoshna/pkg/render"
	"github.com/ghoshnapatra/ghoshna/pkg/render/chrome"
	"github.com/ghoshnapatra/ghoshna/pkg/render/native"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// historyFile is the default file history backend, under the data dir.
	historyFile = "history.jsonl"
)

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

	// configPath is the --config flag; empty means config.Path().
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ghoshna exports self-declaration forms as size-bounded JPEGs",
		Long: `Ghoshna renders a self-declaration (स्वप्रमाणित घोषणा-पत्र) onto an A4 page and
exports it as a JPEG between 20 KB and 50 KB, the range most upload portals accept.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := newLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ghoshna/config.toml)")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// resolveConfigPath returns the --config path or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

// loadConfig reads the configuration, falling back to defaults when the
// file does not exist.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", path, "engine", cfg.Render.Engine, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts are per-invocation overrides of the configuration.
type runnerOpts struct {
	noCache bool
	refresh bool
}

// newRunner creates a pipeline runner for CLI use. The caller closes it.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, ro runnerOpts) (*pipeline.Runner, error) {
	engine, err := c.newEngine(cfg)
	if err != nil {
		return nil, err
	}
	store, keyer, err := c.newCache(ctx, cfg, ro.noCache)
	if err != nil {
		closeQuietly(engine)
		return nil, fmt.Errorf("open cache: %w", err)
	}
	hist, err := c.newHistory(ctx, cfg)
	if err != nil {
		closeQuietly(engine)
		store.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	runner := pipeline.NewRunner(engine, store, keyer, c.Logger)
	runner.History = hist
	runner.Options = pipeline.Options{
		Page:     cfg.Page,
		Compress: cfg.Compress.Options(),
		Fonts:    cfg.Render.Fonts,
		CacheTTL: cfg.Cache.TTL.Duration,
		Refresh:  ro.refresh,
	}
	return runner, nil
}

// newEngine builds the configured rasterization engine.
func (c *CLI) newEngine(cfg config.Config) (render.Engine, error) {
	switch cfg.Render.Engine {
	case chrome.Name:
		return chrome.New(
			chrome.WithExecPath(cfg.Render.ChromePath),
			chrome.WithSettle(cfg.Render.Settle.Duration),
			chrome.WithLogger(c.Logger),
		), nil
	case native.Name, "":
		set, err := fonts.Load(cfg.Render.Fonts...)
		if err != nil {
			return nil, fmt.Errorf("load fonts: %w", err)
		}
		return native.New(native.WithFonts(set), native.WithLogger(c.Logger)), nil
	}
	return nil, fmt.Errorf("unknown render engine %q", cfg.Render.Engine)
}

// newCache opens the configured artifact cache and the keyer that goes
// with it.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, cache.NewDefaultKeyer(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:    cfg.Cache.RedisURL,
			Prefix: cfg.Cache.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, cfg.Cache.RedisPrefix), nil
	}
	return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
}

// newHistory opens the configured history store.
func (c *CLI) newHistory(ctx context.Context, cfg config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case config.BackendFile:
		path := cfg.History.Path
		if path == "" {
			dir, err := dataDir()
			if err != nil {
				c.Logger.Warn("no data directory, history disabled", "error", err)
				return history.NullStore{}, nil
			}
			path = filepath.Join(dir, historyFile)
		}
		return history.NewFileStore(path)
	case config.BackendMongo:
		return history.NewMongoStore(ctx, history.MongoOptions{
			URI:        cfg.History.MongoURI,
			Database:   cfg.History.Database,
			Collection: cfg.History.Collection,
		})
	}
	return history.NullStore{}, nil
}

// newSessionStore opens the session store.
func (c *CLI) newSessionStore(cfg config.Config) (*session.FileStore, error) {
	dir := cfg.Session.Dir
	if dir == "" {
		base, err := config.Dir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "sessions")
	}
	return session.NewFileStore(dir)
}

func closeQuietly(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ghoshna/).
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

// dataDir returns the data directory using XDG standard
// (~/.local/share/ghoshna/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
