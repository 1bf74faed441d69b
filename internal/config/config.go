// Package config loads the optional popcon.toml configuration file.
//
// Settings resolve in three layers: built-in defaults, then the config file,
// then command-line flags. Only the first two live here; the CLI applies
// flags that were explicitly set on top of the returned [Config].
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/popcon/pkg/cache"
	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/pipeline"
	"github.com/matzehuels/popcon/pkg/snapshot"
)

const (
	appName = "popcon"

	// FileName is the name of the configuration file.
	FileName = "popcon.toml"

	// DefaultDataDir is the snapshot directory used when none is configured.
	DefaultDataDir = "stats"

	// DefaultAddr is the default listen address of the chart server.
	DefaultAddr = ":8080"
)

// Config is the decoded configuration file.
type Config struct {
	DataDir     string                `toml:"data_dir"`
	Width       int                   `toml:"width"`
	Height      int                   `toml:"height"`
	Percent     bool                  `toml:"percent"`
	Precision   int                   `toml:"precision"`
	NoiseFloor  float64               `toml:"noise_floor"`
	Granularity int                   `toml:"granularity"`
	Font        string                `toml:"font"`
	FontSize    float64               `toml:"font_size"`
	Supersample int                   `toml:"supersample"`
	RemoteURL   string                `toml:"remote_url"`
	Families    []snapshot.FamilyRule `toml:"family"`

	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend    string `toml:"backend"`
	URL        string `toml:"url"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Prefix     string `toml:"prefix"` // key prefix for shared backends
}

// Server configures the chart server.
type Server struct {
	Addr    string `toml:"addr"`
	BaseURL string `toml:"base_url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Cache:   Cache{Backend: cache.BackendFile},
		Server:  Server{Addr: DefaultAddr},
	}
}

// SearchPaths returns the locations tried when no file is given, in order.
func SearchPaths() []string {
	var paths []string
	if dir := configHome(); dir != "" {
		paths = append(paths, filepath.Join(dir, appName, FileName))
	}
	return append(paths, FileName)
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// Load reads the configuration. An explicit path must exist; otherwise the
// first existing file among [SearchPaths] is used, and the defaults are
// returned when there is none.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return LoadFile(path)
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return Default(), nil
}

// LoadFile decodes path on top of the defaults. Unknown keys are rejected
// so that typos do not go unnoticed.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	return cfg, nil
}

// Options returns the pipeline options described by the configuration.
// Zero values are left for the pipeline to default.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		DataDir:     c.DataDir,
		Percent:     c.Percent,
		Families:    c.Families,
		NoiseFloor:  c.NoiseFloor,
		Width:       c.Width,
		Height:      c.Height,
		Granularity: c.Granularity,
		Precision:   c.Precision,
		Font:        c.Font,
		FontSize:    c.FontSize,
		Supersample: c.Supersample,
		RemoteURL:   c.RemoteURL,
	}
}

// CacheOptions returns the cache backend options. dir is used by the file
// backend.
func (c *Config) CacheOptions(dir string) cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
}

// Keyer returns the cache keyer, scoped by the configured prefix.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Prefix)
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<invalid config: %v>", err)
	}
	return b.String()
}
