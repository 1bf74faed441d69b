package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popcon/pkg/cache"
	"github.com/matzehuels/popcon/pkg/chart"
	"github.com/matzehuels/popcon/pkg/observability"
	"github.com/matzehuels/popcon/pkg/series"
	"github.com/matzehuels/popcon/pkg/snapshot"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	sink, err := opts.Sink()
	if err != nil {
		return nil, err
	}
	files, err := snapshot.List(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{
		Fingerprint: snapshot.Fingerprint(files),
		ContentType: sink.ContentType(),
	}

	chartKey := r.Keyer.ChartKey(result.Fingerprint, opts.ChartKeyOpts())
	if !opts.Refresh {
		if data, hit := r.get(ctx, "chart", chartKey); hit {
			result.Artifact = data
			result.CacheInfo.ChartHit = true
			r.Logger.Debug("chart from cache", "format", opts.Format)
			return result, nil
		}
	}

	// Stage 1: Load
	loadStart := time.Now()
	ds, loadHit, err := r.loadFiles(ctx, files, result.Fingerprint, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Snapshots = len(ds.Days)
	result.Stats.Packages = len(ds.Packages)
	result.CacheInfo.DatasetHit = loadHit

	r.Logger.Info("loaded snapshots",
		"snapshots", result.Stats.Snapshots,
		"packages", result.Stats.Packages,
		"duration", result.Stats.LoadTime)

	// Stages 2 and 3: Analyze and render
	renderStart := time.Now()
	data, err := Render(ctx, ds, opts)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered chart",
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	r.set(ctx, "chart", chartKey, data, cache.TTLChart)
	return result, nil
}

// LoadDatasetWithCacheInfo loads the dataset with caching and returns cache hit info.
func (r *Runner) LoadDatasetWithCacheInfo(ctx context.Context, opts Options) (*series.Dataset, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	opts.SetRenderDefaults()

	files, err := snapshot.List(opts.DataDir)
	if err != nil {
		return nil, false, err
	}
	return r.loadFiles(ctx, files, snapshot.Fingerprint(files), opts)
}

// LoadDataset is a convenience wrapper that calls LoadDatasetWithCacheInfo and discards the cache hit info.
func (r *Runner) LoadDataset(ctx context.Context, opts Options) (*series.Dataset, error) {
	ds, _, err := r.LoadDatasetWithCacheInfo(ctx, opts)
	return ds, err
}

// Model loads the dataset and analyzes it.
func (r *Runner) Model(ctx context.Context, opts Options) (*chart.Model, error) {
	ds, err := r.LoadDataset(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if opts.NoiseFloor == 0 {
		opts.NoiseFloor = series.DefaultNoiseFloor
	}
	return chart.Build(ds, opts.NoiseFloor)
}

func (r *Runner) loadFiles(ctx context.Context, files []snapshot.File, fingerprint string, opts Options) (*series.Dataset, bool, error) {
	key := r.Keyer.DatasetKey(fingerprint, opts.DatasetKeyOpts())
	if !opts.Refresh {
		if data, hit := r.get(ctx, "dataset", key); hit {
			var ds series.Dataset
			if err := json.Unmarshal(data, &ds); err == nil {
				return &ds, true, nil
			}
			// If deserialization fails, fall through to reload
		}
	}

	ds, err := Load(ctx, files, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(ds); err == nil {
		r.set(ctx, "dataset", key, data, cache.TTLDataset)
	}
	return ds, false, nil
}

// get reads from the cache. Backend errors are logged and treated as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
