// Package config loads server settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName     = ".omnieconomy-wiki"
	configFileName = "config.toml"
)

// Content source kinds
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
)

// Store drivers
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration is a time.Duration written as "300ms", "10s", ... in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ContentConfig struct {
	Source  string   `toml:"source"`
	Dir     string   `toml:"dir"`
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	Watch   bool     `toml:"watch"`
}

type SearchConfig struct {
	MaxResults    int      `toml:"max_results"`
	ExcerptWindow int      `toml:"excerpt_window"`
	Debounce      Duration `toml:"debounce"`
	PreloadDelay  Duration `toml:"preload_delay"`
}

type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

type HTTPConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
	Burst     int     `toml:"burst"`
}

type ModConfig struct {
	CurrentVersion string `toml:"current_version"`
}

// Config is the complete server configuration
type Config struct {
	DataDir string        `toml:"data_dir"`
	Content ContentConfig `toml:"content"`
	Search  SearchConfig  `toml:"search"`
	Store   StoreConfig   `toml:"store"`
	HTTP    HTTPConfig    `toml:"http"`
	Mod     ModConfig     `toml:"mod"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			Source:  SourceEmbedded,
			Timeout: Duration{10 * time.Second},
		},
		Search: SearchConfig{
			MaxResults:    8,
			ExcerptWindow: 100,
			Debounce:      Duration{300 * time.Millisecond},
			PreloadDelay:  Duration{1 * time.Second},
		},
		Store: StoreConfig{Driver: DriverSQLite},
		HTTP: HTTPConfig{
			Addr:      "127.0.0.1:8787",
			RateLimit: 10,
			Burst:     20,
		},
	}
}

// DefaultPath is $WIKI_CONFIG, or config.toml in the user's wiki directory
func DefaultPath() string {
	if p := os.Getenv("WIKI_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(home, appDirName, configFileName)
}

// Load reads the TOML file at path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.DataDir == "" {
		cfg.DataDir = resolveDataDir()
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.DataDir, "recent.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"WIKI_CONTENT_SOURCE", &c.Content.Source},
		{"WIKI_CONTENT_BASE_URL", &c.Content.BaseURL},
		{"WIKI_CONTENT_DIR", &c.Content.Dir},
		{"WIKI_DATA_DIR", &c.DataDir},
		{"WIKI_HTTP_ADDR", &c.HTTP.Addr},
		{"WIKI_MOD_VERSION", &c.Mod.CurrentVersion},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && strings.TrimSpace(v) != "" {
			*o.target = strings.TrimSpace(v)
		}
	}
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	switch c.Content.Source {
	case SourceEmbedded:
	case SourceDir:
		if c.Content.Dir == "" {
			return fmt.Errorf("%w: content.dir is required when content.source is %q", ErrInvalidConfig, SourceDir)
		}
	case SourceHTTP:
		if c.Content.BaseURL == "" {
			return fmt.Errorf("%w: content.base_url is required when content.source is %q", ErrInvalidConfig, SourceHTTP)
		}
	default:
		return fmt.Errorf("%w: unknown content.source %q", ErrInvalidConfig, c.Content.Source)
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
	}

	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("%w: search.max_results must be positive", ErrInvalidConfig)
	}
	if c.Search.ExcerptWindow <= 0 {
		return fmt.Errorf("%w: search.excerpt_window must be positive", ErrInvalidConfig)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("%w: http.rate_limit cannot be negative", ErrInvalidConfig)
	}

	if c.Mod.CurrentVersion != "" {
		if _, err := semver.NewVersion(c.Mod.CurrentVersion); err != nil {
			return fmt.Errorf("%w: mod.current_version %q: %v", ErrInvalidConfig, c.Mod.CurrentVersion, err)
		}
	}
	return nil
}

// resolveDataDir picks where runtime state lives.
// Strategy 1: ~/.omnieconomy-wiki, created if missing.
// Strategy 2: ./data relative to the working directory.
func resolveDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		userDataDir := filepath.Join(homeDir, appDirName)

		if info, err := os.Stat(userDataDir); err == nil && info.IsDir() {
			return userDataDir
		}

		if err := os.MkdirAll(userDataDir, 0755); err == nil {
			log.Printf("✓ Data directory created: %s", userDataDir)
			return userDataDir
		}

		log.Printf("Warning: Could not create user data directory at %s: %v", userDataDir, err)
	} else {
		log.Printf("Warning: Could not determine user home directory: %v", err)
	}

	fallback := "data"
	log.Printf("Warning: Using fallback data directory: %s", fallback)
	return fallback
}
