package chart

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/popcon/pkg/palette"
	"github.com/matzehuels/popcon/pkg/series"
)

// Model is the per-request pipeline state shared by all sinks.
type Model struct {
	Dataset *series.Dataset
	Bounds  series.Bounds
	Order   []string
	Last    map[string]float64
	Colors  []color.RGBA
	Percent bool
}

// Build analyzes ds and returns its chart model.
func Build(ds *series.Dataset, noiseFloor float64) (*Model, error) {
	a, err := series.Analyze(ds, noiseFloor)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return &Model{
		Dataset: ds,
		Bounds:  a.Bounds,
		Order:   a.Order,
		Last:    a.Last,
		Colors:  palette.Colors(len(a.Order)),
		Percent: ds.Percent,
	}, nil
}

// Color returns the color of the series at rank.
func (m *Model) Color(rank int) color.RGBA {
	if rank >= 0 && rank < len(m.Colors) {
		return m.Colors[rank]
	}
	return palette.Color(rank)
}

// Hex returns the color of the series at rank as "rrggbb".
func (m *Model) Hex(rank int) string {
	return palette.HexOf(m.Color(rank))
}

// Series returns the series at rank.
func (m *Model) Series(rank int) series.Series {
	return m.Dataset.Series(m.Order[rank])
}

// Sink renders a model into an artifact.
type Sink interface {
	Render(m *Model) ([]byte, error)
	ContentType() string
}

// Assemble builds the model of ds and hands it to sink.
func Assemble(ds *series.Dataset, noiseFloor float64, sink Sink) ([]byte, error) {
	m, err := Build(ds, noiseFloor)
	if err != nil {
		return nil, err
	}
	return sink.Render(m)
}
