package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/popcon/pkg/chart"
	"github.com/matzehuels/popcon/pkg/observability"
	"github.com/matzehuels/popcon/pkg/series"
	"github.com/matzehuels/popcon/pkg/snapshot"
)

// Load reads the given snapshot files into a dataset, sampling about
// opts.Target() of them.
func Load(ctx context.Context, files []snapshot.File, opts Options) (ds *series.Dataset, err error) {
	dir := opts.DataDir
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, dir)
	defer func() {
		n, p := 0, 0
		if ds != nil {
			n, p = len(ds.Days), len(ds.Packages)
		}
		observability.Pipeline().OnLoadComplete(ctx, dir, n, p, time.Since(start), err)
	}()

	return opts.Loader().LoadFiles(ctx, files)
}

// Render analyzes ds and draws it in opts.Format.
func Render(ctx context.Context, ds *series.Dataset, opts Options) (data []byte, err error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	}()

	sink, err := opts.Sink()
	if err != nil {
		return nil, err
	}
	data, err = chart.Assemble(ds, opts.NoiseFloor, sink)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}
