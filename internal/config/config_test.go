package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/popcon/pkg/cache"
	"github.com/matzehuels/popcon/pkg/errors"
)

const sample = `
data_dir = "/srv/popcon/stats"
width = 800
percent = true
precision = 1
noise_floor = 2.0

[[family]]
prefix = "firefox-"
canonical = "firefox"

[[family]]
prefix = "linux-image-"
canonical = "linux-image"

[cache]
backend = "redis"
url = "redis://localhost:6379/0"
prefix = "debian:"

[server]
addr = ":9000"
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sample)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.DataDir != "/srv/popcon/stats" || cfg.Width != 800 || !cfg.Percent || cfg.Precision != 1 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Families) != 2 || cfg.Families[1].Canonical != "linux-image" {
		t.Errorf("Families = %+v", cfg.Families)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.URL != "redis://localhost:6379/0" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	// Unset keys keep their defaults
	if cfg.Height != 0 {
		t.Errorf("Height = %d, want 0 (pipeline default)", cfg.Height)
	}
}

func TestLoadFileUnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "data_dir = \"x\"\nwidht = 3\n")

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "widht") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFileSyntaxError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "data_dir = \n")
	if _, err := LoadFile(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// No file anywhere: defaults
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != DefaultDataDir || cfg.Path != "" {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	// Working directory file
	writeConfig(t, ".", "width = 640\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 640 {
		t.Errorf("Width = %d, want 640", cfg.Width)
	}

	// XDG file wins over the working directory
	xdg := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(xdg, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, xdg, "width = 320\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 320 {
		t.Errorf("Width = %d, want 320", cfg.Width)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, t.TempDir(), sample))
	if err != nil {
		t.Fatal(err)
	}

	opts := cfg.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != 800 || opts.Height != 700 || opts.Precision != 1 || !opts.Percent {
		t.Errorf("unexpected options: %+v", opts)
	}
	if len(opts.Families) != 2 {
		t.Errorf("Families = %+v", opts.Families)
	}

	co := cfg.CacheOptions("/tmp/cache")
	if co.Backend != cache.BackendRedis || co.Dir != "/tmp/cache" {
		t.Errorf("CacheOptions = %+v", co)
	}
}

func TestKeyer(t *testing.T) {
	plain := Default().Keyer()
	scoped := (&Config{Cache: Cache{Prefix: "debian:"}}).Keyer()

	key := scoped.DatasetKey("fp", cache.DatasetKeyOpts{})
	if !strings.HasPrefix(key, "debian:") {
		t.Errorf("scoped key = %q", key)
	}
	if plain.DatasetKey("fp", cache.DatasetKeyOpts{}) == key {
		t.Error("prefix should change the key")
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	if !strings.Contains(s, `data_dir = "stats"`) {
		t.Errorf("String() = %s", s)
	}
}
