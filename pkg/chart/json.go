package chart

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/popcon/pkg/axis"
	"github.com/matzehuels/popcon/pkg/fonts"
	"github.com/matzehuels/popcon/pkg/legend"
	"github.com/matzehuels/popcon/pkg/series"
)

// JSONOption configures a [JSONSink].
type JSONOption func(*JSONSink)

// JSONSink renders the planned chart as JSON: bounds, ranked series with
// colors, gridlines, time ticks and legend groups laid out for the raster
// geometry.
type JSONSink struct {
	width, height int
	fontPath      string
	fontSize      float64
}

// WithJSONSize sets the geometry the legend and ticks are planned for.
func WithJSONSize(width, height int) JSONOption {
	return func(s *JSONSink) { s.width, s.height = width, height }
}

// WithJSONFont sets the font used to measure legend labels.
func WithJSONFont(path string, size float64) JSONOption {
	return func(s *JSONSink) { s.fontPath, s.fontSize = path, size }
}

// NewJSONSink creates a JSON sink.
func NewJSONSink(opts ...JSONOption) *JSONSink {
	s := &JSONSink{width: DefaultWidth, height: DefaultHeight, fontSize: fonts.DefaultSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type jsonChart struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Percent   bool            `json:"percent"`
	Bounds    jsonBounds      `json:"bounds"`
	Series    []jsonSeries    `json:"series"`
	Gridlines []axis.Gridline `json:"gridlines"`
	Remote    axis.RemotePlan `json:"remote"`
	Ticks     []axis.Tick     `json:"ticks"`
	Legend    []*legend.Group `json:"legend"`
}

type jsonBounds struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type jsonSeries struct {
	Rank   int         `json:"rank"`
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Last   *float64    `json:"last,omitempty"`
	Points []jsonPoint `json:"points"`
}

type jsonPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// ContentType implements [Sink].
func (s *JSONSink) ContentType() string { return "application/json" }

// Render implements [Sink].
func (s *JSONSink) Render(m *Model) ([]byte, error) {
	face, err := fonts.NewFace(s.fontPath, s.fontSize)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	defer face.Close()
	g := NewGeometry(s.width, s.height, measure(face, "fg", 1))

	out := jsonChart{
		Width:   s.width,
		Height:  s.height,
		Percent: m.Percent,
		Bounds: jsonBounds{
			Start: series.DayTime(m.Bounds.XMin).Format("2006-01-02"),
			End:   series.DayTime(m.Bounds.XMax).Format("2006-01-02"),
			Min:   m.Bounds.YMin,
			Max:   m.Bounds.YMax,
		},
		Gridlines: axis.Decade(m.Bounds.LogMin(), m.Bounds.LogMax(), m.Percent),
		Remote:    axis.Remote(m.Bounds.LogMin(), m.Bounds.LogMax(), axis.DefaultReference, axis.DefaultHalfRange),
		Ticks:     axis.TimeTicks(m.Bounds.XMin, m.Bounds.XMax, g.PlotWidth()),
		Legend:    g.Legend(m),
	}

	for rank, name := range m.Order {
		js := jsonSeries{Rank: rank, Name: name, Color: "#" + m.Hex(rank)}
		if v, ok := m.Last[name]; ok {
			js.Last = &v
		}
		for _, p := range m.Series(rank).Points {
			jp := jsonPoint{Date: series.DayTime(p.Day).Format("2006-01-02")}
			if p.Present && !math.IsNaN(p.Value) {
				v := p.Value
				jp.Value = &v
			}
			js.Points = append(js.Points, jp)
		}
		out.Series = append(out.Series, js)
	}

	return json.MarshalIndent(out, "", "  ")
}
