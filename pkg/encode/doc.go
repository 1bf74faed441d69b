// Package encode maps series values onto an output medium.
//
// [PixelScale] places values on a raster plot. The x axis is linear in
// time. The y axis is logarithmic and inverted (pixel rows grow downwards),
// with a small band above the x axis reserved for values that are missing or
// below the plotted range:
//
//	y = bottom - ((log10(v) - logmin) / (logmax - logmin) * (h - zero) + zero)
//
// [Symbol] turns values into fixed-width strings for chart services that
// accept pre-scaled data in a URL. Two encodings exist:
//
//	precision 1  "simple"    62 symbols (A-Z a-z 0-9), 62 levels
//	precision 2  "extended"  64 symbols (A-Z a-z 0-9 - .), 4096 levels
//
// A missing value is written as one underscore per digit. Absent values are
// passed around as NaN.
package encode
