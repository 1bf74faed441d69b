package chart

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/popcon/pkg/axis"
	"github.com/matzehuels/popcon/pkg/encode"
)

// Remote chart defaults.
const (
	DefaultRemoteURL       = "http://chart.apis.google.com/chart"
	DefaultRemoteWidth     = 600
	DefaultRemoteHeight    = 500
	DefaultRemotePrecision = encode.Extended
)

// RemoteOption configures a [RemoteSink].
type RemoteOption func(*RemoteSink)

// RemoteSink renders charts as a URL of a chart service that draws line
// charts from encoded data.
type RemoteSink struct {
	baseURL       string
	width, height int
	precision     int
}

// WithRemoteURL sets the chart service endpoint.
func WithRemoteURL(u string) RemoteOption { return func(s *RemoteSink) { s.baseURL = u } }

// WithRemoteSize sets the requested chart size (default 600x500).
func WithRemoteSize(width, height int) RemoteOption {
	return func(s *RemoteSink) { s.width, s.height = width, height }
}

// WithPrecision selects the simple (1) or extended (2) encoding.
func WithPrecision(p int) RemoteOption { return func(s *RemoteSink) { s.precision = p } }

// NewRemoteSink creates a remote chart sink.
func NewRemoteSink(opts ...RemoteOption) *RemoteSink {
	s := &RemoteSink{
		baseURL:   DefaultRemoteURL,
		width:     DefaultRemoteWidth,
		height:    DefaultRemoteHeight,
		precision: DefaultRemotePrecision,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContentType implements [Sink].
func (s *RemoteSink) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements [Sink]. It returns the chart URL.
func (s *RemoteSink) Render(m *Model) ([]byte, error) {
	u, err := s.URL(m)
	if err != nil {
		return nil, err
	}
	return []byte(u), nil
}

// URL returns the chart service URL for m.
func (s *RemoteSink) URL(m *Model) (string, error) {
	params, err := s.Params(m)
	if err != nil {
		return "", err
	}
	return s.baseURL + "?" + params.Encode(), nil
}

// Params returns the chart service parameters for m. Values are encoded on
// a log scale between the model's y bounds.
func (s *RemoteSink) Params(m *Model) (url.Values, error) {
	logmin, logmax := m.Bounds.LogMin(), m.Bounds.LogMax()
	enc, err := encode.NewSymbol(s.precision, logmin, logmax)
	if err != nil {
		return nil, err
	}

	ds := m.Dataset
	data := make([][]float64, len(m.Order))
	colors := make([]string, len(m.Order))
	for rank, name := range m.Order {
		values := make([]float64, len(ds.Days))
		for i, day := range ds.Days {
			if v, ok := ds.Value(day, name); ok {
				values[i] = math.Log10(v)
			} else {
				values[i] = math.NaN()
			}
		}
		data[rank] = values
		colors[rank] = m.Hex(rank)
	}

	params := url.Values{}
	params.Set("chs", fmt.Sprintf("%dx%d", s.width, s.height))
	params.Set("cht", "lc")
	params.Set("chd", enc.Encode(data))
	params.Set("chco", strings.Join(colors, ","))
	params.Set("chdl", strings.Join(m.Order, "|"))

	plan := axis.Remote(logmin, logmax, axis.DefaultReference, axis.DefaultHalfRange)
	params.Set("chg", fmt.Sprintf("0,%.2f,2,6,0,%.2f", plan.Step, plan.Offset))

	s.setAxes(params, m)
	return params, nil
}

// setAxes defines the y axis (axis 0) with decade labels and the x axis
// (axis 1) with dated ticks.
func (s *RemoteSink) setAxes(params url.Values, m *Model) {
	var ylabels, ypos []string
	for _, g := range axis.Decade(m.Bounds.LogMin(), m.Bounds.LogMax(), m.Percent) {
		ylabels = append(ylabels, g.Label)
		ypos = append(ypos, strconv.Itoa(int(math.Round(g.Position*100))))
	}

	var xlabels, xpos []string
	for _, t := range axis.TimeTicks(m.Bounds.XMin, m.Bounds.XMax, float64(s.width)) {
		xlabels = append(xlabels, t.Label)
		xpos = append(xpos, strconv.Itoa(int(math.Round(t.Position*100))))
	}

	params.Set("chxt", "y,x")
	params.Set("chxl", "0:|"+strings.Join(ylabels, "|")+"|1:|"+strings.Join(xlabels, "|"))
	params.Set("chxp", "0,"+strings.Join(ypos, ",")+"|1,"+strings.Join(xpos, ","))
}
