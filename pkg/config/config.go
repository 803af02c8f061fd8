// Package config loads the ghoshna configuration file.
//
// The file is TOML with one table per concern:
//
//	[page]
//	width = 794
//	height = 1123
//	padding = 60
//	background = "#FFFEF7"
//
//	[compress]
//	min_size = 20480
//	max_size = 51200
//
//	[render]
//	engine = "native"
//	fonts = ["/usr/share/fonts/noto/NotoSansDevanagari-Regular.ttf"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
// Every key is optional; a missing file yields [Default].
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ghoshnapatra/ghoshna/pkg/compress"
	"github.com/ghoshnapatra/ghoshna/pkg/document"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	"github.com/ghoshnapatra/ghoshna/pkg/render/chrome"
	"github.com/ghoshnapatra/ghoshna/pkg/render/native"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

// AppName names the configuration, cache and data directories.
const AppName = "ghoshna"

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Backend names shared by the cache and history sections.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

const (
	// DefaultCacheTTL bounds how long an encoded artifact is reused.
	DefaultCacheTTL = 7 * 24 * time.Hour
	// DefaultHistoryLimit is how many entries `history list` shows.
	DefaultHistoryLimit = 20
	// DefaultRedisPrefix namespaces cache keys in a shared Redis.
	DefaultRedisPrefix = "ghoshna:"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// =============================================================================
// Sections
// =============================================================================

// Config is the full configuration.
type Config struct {
	Page     document.Page  `toml:"page"`
	Compress CompressConfig `toml:"compress"`
	Render   RenderConfig   `toml:"render"`
	Output   OutputConfig   `toml:"output"`
	Cache    CacheConfig    `toml:"cache"`
	History  HistoryConfig  `toml:"history"`
	Session  SessionConfig  `toml:"session"`
}

// CompressConfig bounds the size search.
type CompressConfig struct {
	MinSize       int     `toml:"min_size"`
	MaxSize       int     `toml:"max_size"`
	Low           float64 `toml:"low"`
	High          float64 `toml:"high"`
	Initial       float64 `toml:"initial"`
	MaxIterations int     `toml:"max_iterations"`
}

// Options converts the section to compressor options.
func (c CompressConfig) Options() compress.Options {
	return compress.Options{
		Window:        compress.Window{Min: c.MinSize, Max: c.MaxSize},
		Low:           c.Low,
		High:          c.High,
		Initial:       c.Initial,
		MaxIterations: c.MaxIterations,
	}
}

// RenderConfig selects and tunes the rasterization engine.
type RenderConfig struct {
	Engine string `toml:"engine"`
	// Fonts are tried in order before the built-in Go font.
	Fonts []string `toml:"fonts"`
	// ChromePath overrides Chrome discovery for the chrome engine.
	ChromePath string `toml:"chrome_path"`
	// Settle is how long the chrome engine waits after load.
	Settle Duration `toml:"settle"`
}

// OutputConfig controls where artifacts are saved.
type OutputConfig struct {
	Dir       string `toml:"dir"`
	Overwrite bool   `toml:"overwrite"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend     string   `toml:"backend"`
	Dir         string   `toml:"dir"`
	RedisURL    string   `toml:"redis_url"`
	RedisPrefix string   `toml:"redis_prefix"`
	TTL         Duration `toml:"ttl"`
}

// HistoryConfig selects the export history backend.
type HistoryConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Limit      int    `toml:"limit"`
}

// SessionConfig controls the once-per-session nudges.
type SessionConfig struct {
	Dir string   `toml:"dir"`
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Page: document.A4(),
		Compress: CompressConfig{
			MinSize:       compress.DefaultMinSize,
			MaxSize:       compress.DefaultMaxSize,
			Low:           compress.DefaultLow,
			High:          compress.DefaultHigh,
			Initial:       compress.DefaultInitial,
			MaxIterations: compress.DefaultMaxIterations,
		},
		Render: RenderConfig{
			Engine: native.Name,
			Settle: Duration{chrome.DefaultSettle},
		},
		Output: OutputConfig{Dir: "."},
		Cache: CacheConfig{
			Backend:     BackendNone,
			RedisPrefix: DefaultRedisPrefix,
			TTL:         Duration{DefaultCacheTTL},
		},
		History: HistoryConfig{
			Backend: BackendFile,
			Limit:   DefaultHistoryLimit,
		},
		Session: SessionConfig{
			TTL: Duration{session.DefaultTTL},
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Dir returns the configuration directory ($XDG_CONFIG_HOME/ghoshna, else
// ~/.config/ghoshna).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Read decodes a configuration from r over the defaults and validates it.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every section.
func (c Config) Validate() error {
	p := c.Page
	if p.Width <= 0 || p.Height <= 0 {
		return invalid("page size must be positive (got %dx%d)", p.Width, p.Height)
	}
	if p.Padding < 0 || p.ContentWidth() <= 0 {
		return invalid("page padding %d leaves no content width", p.Padding)
	}
	if !hexColor.MatchString(p.Background) {
		return invalid("page background %q is not #RRGGBB", p.Background)
	}

	opts := c.Compress.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	switch c.Render.Engine {
	case native.Name, chrome.Name:
	default:
		return invalid("unknown render engine %q (want %s or %s)", c.Render.Engine, native.Name, chrome.Name)
	}
	if c.Render.Settle.Duration < 0 {
		return invalid("render settle must not be negative")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache backend redis needs redis_url")
		}
	default:
		return invalid("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache ttl must not be negative")
	}

	switch c.History.Backend {
	case BackendNone, BackendFile:
	case BackendMongo:
		if c.History.MongoURI == "" {
			return invalid("history backend mongo needs mongo_uri")
		}
	default:
		return invalid("unknown history backend %q", c.History.Backend)
	}
	if c.History.Limit < 0 {
		return invalid("history limit must not be negative")
	}

	if c.Session.TTL.Duration <= 0 {
		return invalid("session ttl must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
