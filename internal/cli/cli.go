package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popcon/internal/config"
	"github.com/matzehuels/popcon/pkg/buildinfo"
	"github.com/matzehuels/popcon/pkg/cache"
	"github.com/matzehuels/popcon/pkg/pipeline"
	"github.com/matzehuels/popcon/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "popcon"

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
	cfg        *config.Config
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
		Use:          appName,
		Short:        "popcon charts package popularity over time",
		Long:         `popcon reads daily package popularity snapshots and draws a log-scale line chart of the most installed packages, as a PNG, a remote chart URL or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/popcon/popcon.toml or ./popcon.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.urlCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file once.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or the defaults.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.config().Keyer(), c.Logger), nil
}

// newCache opens the configured cache backend. The file backend falls back
// to no caching when there is no home directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config()
	dir, err := cacheDir()
	if err != nil && (cfg.Cache.Backend == "" || cfg.Cache.Backend == cache.BackendFile) {
		c.Logger.Debug("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions(dir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/popcon/).
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

// =============================================================================
// Chart Flags
// =============================================================================

// chartFlags holds the command-line flags shared by the chart commands.
// A flag overrides the config file only when it was set explicitly.
type chartFlags struct {
	dataDir     string
	width       int
	height      int
	percent     bool
	precision   int
	noiseFloor  float64
	granularity int
	font        string
	fontSize    float64
	supersample int
	families    []string // "prefix=canonical"
	remoteURL   string
	noCache     bool
	refresh     bool
}

// addChartFlags registers the shared chart flags on cmd.
func addChartFlags(cmd *cobra.Command, f *chartFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.dataDir, "data", "d", config.DefaultDataDir, "snapshot directory")
	flags.IntVar(&f.width, "width", 0, "chart width in pixels (default depends on format)")
	flags.IntVar(&f.height, "height", 0, "chart height in pixels (default depends on format)")
	flags.BoolVarP(&f.percent, "percent", "p", false, "plot each package as a percentage of the day's total")
	flags.IntVar(&f.precision, "precision", 0, "remote chart encoding: 1 (simple) or 2 (extended, default)")
	flags.Float64Var(&f.noiseFloor, "noise-floor", 0, "log10 of the smallest plotted value (default log10(15))")
	flags.IntVar(&f.granularity, "granularity", 0, "pixels per snapshot (default 1, or 20 for url)")
	flags.StringVar(&f.font, "font", "", "TrueType font file (default: Go Regular)")
	flags.Float64Var(&f.fontSize, "font-size", 0, "font size in points (default 9)")
	flags.IntVar(&f.supersample, "supersample", 0, "render at N times the size and downscale (1-4)")
	flags.StringSliceVar(&f.families, "family", nil, "package family rule prefix=canonical (repeatable)")
	flags.StringVar(&f.remoteURL, "remote-url", "", "remote chart service base URL")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	flags.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// chartOptions resolves the pipeline options of a command: config file
// values first, then explicitly set flags.
func (c *CLI) chartOptions(cmd *cobra.Command, f *chartFlags) (pipeline.Options, error) {
	opts := c.config().Options()
	opts.Logger = c.Logger
	opts.Refresh = f.refresh

	changed := cmd.Flags().Changed
	if changed("data") || opts.DataDir == "" {
		opts.DataDir = f.dataDir
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if changed("percent") {
		opts.Percent = f.percent
	}
	if changed("precision") {
		opts.Precision = f.precision
	}
	if changed("noise-floor") {
		opts.NoiseFloor = f.noiseFloor
	}
	if changed("granularity") {
		opts.Granularity = f.granularity
	}
	if changed("font") {
		opts.Font = f.font
	}
	if changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if changed("supersample") {
		opts.Supersample = f.supersample
	}
	if changed("remote-url") {
		opts.RemoteURL = f.remoteURL
	}
	if changed("family") {
		rules, err := parseFamilies(f.families)
		if err != nil {
			return opts, err
		}
		opts.Families = rules
	}
	return opts, nil
}

// parseFamilies parses "prefix=canonical" rules.
func parseFamilies(specs []string) ([]snapshot.FamilyRule, error) {
	rules := make([]snapshot.FamilyRule, 0, len(specs))
	for _, s := range specs {
		prefix, canonical, ok := strings.Cut(s, "=")
		if !ok || prefix == "" || canonical == "" {
			return nil, fmt.Errorf("invalid family rule %q (want prefix=canonical)", s)
		}
		rules = append(rules, snapshot.FamilyRule{Prefix: prefix, Canonical: canonical})
	}
	return rules, nil
}
