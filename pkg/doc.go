// Package pkg provides the core libraries for popcon package popularity charts.
//
// # Overview
//
// popcon reads a directory of daily popularity snapshots, one "name,count"
// record per line and one file per day, and draws a log-scale line chart of
// every package present in the latest snapshot. The pkg directory is
// organized into three areas:
//
//  1. Data - loading snapshots and analyzing series
//  2. Drawing - colors, axes, legend, encodings and the chart sinks
//  3. Orchestration - caching, the pipeline runner and exports
//
// # Architecture
//
// The typical data flow through popcon:
//
//	snapshot directory
//	         ↓
//	    [snapshot] package (list, downsample, parse, reconcile families)
//	         ↓
//	    [series] package (bounds, ranking by last value)
//	         ↓
//	    [chart] package (palette, axis, legend, encode → sink)
//	         ↓
//	    PNG / remote chart URL / JSON
//
// # Quick Start
//
// Load a snapshot directory and render a PNG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/popcon/pkg/chart"
//	    "github.com/matzehuels/popcon/pkg/series"
//	    "github.com/matzehuels/popcon/pkg/snapshot"
//	)
//
//	files, _ := snapshot.List("stats")
//	loader := snapshot.Loader{Families: snapshot.DefaultFamilies, Target: 1000}
//	ds, _ := loader.LoadFiles(context.Background(), files)
//
//	png, _ := chart.Assemble(ds, series.DefaultNoiseFloor, chart.NewRasterSink())
//
// Most callers go through [pipeline] instead, which adds validation, caching
// and observability hooks.
//
// # Main Packages
//
// ## Data
//
// [snapshot] - Snapshot discovery, even downsampling of the day list, record
// parsing and family reconciliation (for example firefox-* into firefox).
//
// [series] - The in-memory dataset keyed by epoch day, chart bounds with the
// noise floor applied, and the legend order.
//
// ## Drawing
//
// [palette] - Rank to color mapping: evenly spread hues with alternating
// brightness.
//
// [axis] - Decade gridlines for raster charts and the reference-centered
// axis of the remote chart service.
//
// [legend] - Legend rows that pack into columns when they do not fit.
//
// [encode] - Pixel mapping for raster charts and the simple and extended
// symbol alphabets of the remote chart service.
//
// [fonts] - Font faces for labels.
//
// [chart] - The chart model and its sinks: raster PNG, remote URL and JSON.
//
// ## Orchestration
//
// [pipeline] - Validated options and the cached runner used by the CLI and
// the HTTP server.
//
// [cache] - File, Redis and MongoDB cache backends with content-derived keys.
//
// [export] - Flat JSON and Parquet rows of a loaded dataset.
//
// [observability] - Hooks for load, render, cache and HTTP events.
//
// [errors] - Structured error codes shared by the CLI and the server.
//
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/snapshot
// [series]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/series
// [palette]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/palette
// [axis]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/axis
// [legend]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/legend
// [encode]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/encode
// [fonts]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/fonts
// [chart]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/chart
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/cache
// [export]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/export
// [observability]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/popcon/pkg/errors
package pkg
