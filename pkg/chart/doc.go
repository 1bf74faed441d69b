// Package chart assembles analyzed popularity series into a finished chart.
//
// [Build] runs the analysis and captures everything a renderer needs in a
// [Model]: bounds, ranked order and the dataset. A [Sink] turns the model
// into an artifact. Each sink picks its own strategy pair:
//
//   - [RasterSink] draws the chart itself with decade gridlines and pixel
//     coordinates, and returns PNG bytes.
//   - [RemoteSink] plans a single reference gridline and encodes values into
//     symbols, and returns a chart-service URL.
//   - [JSONSink] returns the planned chart as JSON for other tools.
//
// The raster sink draws through the [Canvas] interface, implemented on top
// of github.com/fogleman/gg.
//
//	m, err := chart.Build(ds, series.DefaultNoiseFloor)
//	if err != nil {
//	    return err
//	}
//	png, err := chart.NewRasterSink(chart.WithSize(1000, 700)).Render(m)
package chart
