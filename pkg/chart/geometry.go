package chart

import (
	"math"

	"github.com/matzehuels/popcon/pkg/encode"
	"github.com/matzehuels/popcon/pkg/legend"
)

// Default raster dimensions.
const (
	DefaultWidth  = 1000
	DefaultHeight = 700
)

// Plot margins and label spacing, in pixels.
const (
	MarginLeft   = 70
	MarginTop    = 20
	MarginRight  = 175
	MarginBottom = 30
	LabelPad     = 5
	TickSize     = 4
	DotSize      = 3
)

// Box is a text bounding box relative to the baseline origin. MinY is
// negative for glyphs that rise above the baseline.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Geometry holds the pixel layout of a raster chart.
type Geometry struct {
	Width, Height            int
	Left, Top, Right, Bottom float64 // plot rectangle

	// TextHeight spans the ascender to the descender of the label font;
	// TextMid is the baseline offset of the vertical text center.
	TextHeight, TextMid float64
}

// NewGeometry lays out a width x height chart whose label font measures
// "fg" as metrics. Sizes smaller than the margins collapse the plot
// rectangle to zero width or height instead of inverting it.
func NewGeometry(width, height int, metrics Box) Geometry {
	return Geometry{
		Width:      width,
		Height:     height,
		Left:       MarginLeft,
		Top:        MarginTop,
		Right:      float64(max(MarginLeft, width-MarginRight)),
		Bottom:     float64(max(MarginTop, height-MarginBottom)),
		TextHeight: metrics.Height(),
		TextMid:    (metrics.MinY + metrics.MaxY) / 2,
	}
}

// PlotWidth returns the width of the plot rectangle.
func (g Geometry) PlotWidth() float64 { return g.Right - g.Left }

// PlotHeight returns the height of the plot rectangle.
func (g Geometry) PlotHeight() float64 { return g.Bottom - g.Top }

// Scale returns the pixel strategy for m on this geometry.
func (g Geometry) Scale(m *Model) encode.PixelScale {
	return encode.PixelScale{
		Bounds:     m.Bounds,
		Left:       g.Left,
		Top:        g.Top,
		Width:      g.PlotWidth(),
		Height:     g.PlotHeight(),
		ZeroOffset: encode.DefaultZeroOffset,
	}
}

// Legend lays out the legend of m: every series label starts at the y of
// its latest value.
func (g Geometry) Legend(m *Model) []*legend.Group {
	scale := g.Scale(m)
	entries := make([]legend.Entry, len(m.Order))
	for rank, name := range m.Order {
		v, ok := m.Last[name]
		if !ok {
			v = math.NaN()
		}
		entries[rank] = legend.Entry{Rank: rank, Name: name, Y: scale.Y(v)}
	}
	return legend.Layout(entries, g.TextHeight, LabelPad)
}
