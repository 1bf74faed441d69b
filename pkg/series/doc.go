// Package series holds the normalized popularity time series and the
// analysis that every chart is built from.
//
// # Data Model
//
// A [Dataset] maps an epoch day to the values of every package on that day.
// A package missing from a day's map has no data for that day: it is
// "absent", which is rendered as a gap and never as zero. Values are either
// raw vote counts or percentages of the day's total, depending on how the
// snapshot loader was configured.
//
// # Analysis
//
// [Analyze] computes the global [Bounds] of the dataset and the ranked
// package order:
//
//	a, err := series.Analyze(ds, series.DefaultNoiseFloor)
//	if err != nil {
//	    // errors.ErrCodeInsufficientData: nothing to plot
//	}
//	for rank, name := range a.Order {
//	    fmt.Println(rank, name, a.Last[name])
//	}
//
// The lower y bound is floored at a noise threshold, expressed in log10
// units (the default floors the axis at a value of 15), so that
// statistically insignificant values do not stretch the logarithmic axis.
//
// Packages are ranked by their most recent known value, descending. Ties
// keep the order in which packages appear in the latest snapshot.
//
// # Resampling
//
// [SampleIndices] selects evenly spaced indices out of a sequence so that
// long histories can be reduced to roughly one point per output pixel
// bucket. [Resample] applies it to a dataset's days.
package series
