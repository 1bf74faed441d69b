package chart

import (
	"image/color"
	"io"
)

// Canvas is the drawing backend of [RasterSink]. Coordinates are pixels
// with the origin at the top left.
type Canvas interface {
	// Line draws a one pixel wide line.
	Line(x1, y1, x2, y2 float64, c color.Color)
	// DashedLine draws a sparse dotted line.
	DashedLine(x1, y1, x2, y2 float64, c color.Color)
	// FillEllipse fills the ellipse of size w x h centered on (x, y).
	FillEllipse(x, y, w, h float64, c color.Color)
	// FillRect fills the rectangle spanning (x1, y1) to (x2, y2).
	FillRect(x1, y1, x2, y2 float64, c color.Color)
	// StrokeRect outlines the rectangle spanning (x1, y1) to (x2, y2).
	StrokeRect(x1, y1, x2, y2 float64, c color.Color)
	// Text draws s with its baseline origin at (x, y).
	Text(s string, x, y float64, c color.Color)
	// Bounds measures s as drawn by Text at the origin.
	Bounds(s string) Box
	// EncodePNG writes the canvas as PNG.
	EncodePNG(w io.Writer) error
}
