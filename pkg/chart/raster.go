package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/matzehuels/popcon/pkg/axis"
	"github.com/matzehuels/popcon/pkg/fonts"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey  = color.RGBA{R: 0xbb, G: 0xbb, B: 0xbb, A: 0xff}
)

// RasterOption configures a [RasterSink].
type RasterOption func(*RasterSink)

// RasterSink draws charts as PNG images.
type RasterSink struct {
	width, height int
	fontPath      string
	fontSize      float64
	supersample   int
	canvas        func(width, height int) (Canvas, error)
}

// WithSize sets the image size in pixels (default 1000x700).
func WithSize(width, height int) RasterOption {
	return func(s *RasterSink) { s.width, s.height = width, height }
}

// WithFont sets the label font file and point size. An empty path uses the
// embedded font.
func WithFont(path string, size float64) RasterOption {
	return func(s *RasterSink) { s.fontPath, s.fontSize = path, size }
}

// WithSupersample renders at n times the size and downscales, smoothing
// lines and text. 1 disables it.
func WithSupersample(n int) RasterOption {
	return func(s *RasterSink) { s.supersample = max(1, n) }
}

// WithCanvas replaces the drawing backend.
func WithCanvas(fn func(width, height int) (Canvas, error)) RasterOption {
	return func(s *RasterSink) { s.canvas = fn }
}

// NewRasterSink creates a raster sink.
func NewRasterSink(opts ...RasterOption) *RasterSink {
	s := &RasterSink{
		width:       DefaultWidth,
		height:      DefaultHeight,
		fontSize:    fonts.DefaultSize,
		supersample: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.canvas == nil {
		s.canvas = func(w, h int) (Canvas, error) {
			face, err := fonts.NewFace(s.fontPath, s.fontSize*float64(s.supersample))
			if err != nil {
				return nil, err
			}
			return NewGGCanvas(w, h, face, s.supersample), nil
		}
	}
	return s
}

// ContentType implements [Sink].
func (s *RasterSink) ContentType() string { return "image/png" }

// Render implements [Sink].
func (s *RasterSink) Render(m *Model) ([]byte, error) {
	c, err := s.canvas(s.width, s.height)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}
	Draw(m, c, NewGeometry(s.width, s.height, c.Bounds("fg")))

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw paints m onto c: time ticks, legend, axes with decade gridlines and
// finally the series, highest rank last.
func Draw(m *Model, c Canvas, g Geometry) {
	drawTicks(m, c, g)
	drawLegend(m, c, g)

	c.Line(g.Left, g.Bottom, g.Right, g.Bottom, black)
	drawGridlines(m, c, g)
	c.Line(g.Left, g.Bottom, g.Left, g.Top, black)

	scale := g.Scale(m)
	for rank := range m.Order {
		col := m.Color(rank)
		for _, line := range scale.Polylines(m.Series(rank)) {
			if len(line) == 1 {
				c.FillEllipse(line[0].X, line[0].Y, DotSize, DotSize, col)
				continue
			}
			for i := 1; i < len(line); i++ {
				c.Line(line[i-1].X, line[i-1].Y, line[i].X, line[i].Y, col)
			}
		}
	}
}

func drawTicks(m *Model, c Canvas, g Geometry) {
	y := g.Bottom
	for _, t := range axis.TimeTicks(m.Bounds.XMin, m.Bounds.XMax, g.PlotWidth()) {
		x := g.Left + t.Position*g.PlotWidth()
		c.Line(x, y+TickSize, x, y-TickSize, black)

		b := c.Bounds(t.Label)
		lx := x - (b.MinX+b.MaxX)/2
		ly := y - b.MinY + LabelPad + TickSize
		lx -= max(0, lx+b.MaxX-g.Right)
		c.Text(t.Label, lx, ly, black)
	}
}

func drawGridlines(m *Model, c Canvas, g Geometry) {
	scale := g.Scale(m)
	for _, line := range axis.Decade(m.Bounds.LogMin(), m.Bounds.LogMax(), m.Percent) {
		y := scale.Y(line.Value)
		c.DashedLine(g.Left, y, g.Right, y, grey)

		b := c.Bounds(line.Label)
		c.Text(line.Label, g.Left-b.MaxX-LabelPad, y-(b.MinY+b.MaxY)/2, black)
	}
}

func drawLegend(m *Model, c Canvas, g Geometry) {
	th := g.TextHeight
	x := g.Right + 2*LabelPad
	for _, group := range g.Legend(m) {
		for i, y := range group.Slots() {
			item := group.Items[i]
			c.FillRect(x, y-th/2, x+th, y+th/2, m.Color(item.Rank))
			c.StrokeRect(x, y-th/2, x+th, y+th/2, black)
			c.Text(item.Name, x+th+LabelPad, y-g.TextMid, black)
		}
	}
}
