package chart

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/popcon/pkg/encode"
	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/palette"
	"github.com/matzehuels/popcon/pkg/series"
)

const day0 = 19783 // 2024-03-01

// twoPackages is three days of A at 100 votes and B at 50, as percentages.
func twoPackages() *series.Dataset {
	ds := series.NewDataset([]string{"A", "B"}, true)
	for d := int64(0); d < 3; d++ {
		ds.SetDay(day0+d, map[string]float64{"A": 100 * 100.0 / 150, "B": 100 * 50.0 / 150})
	}
	return ds
}

// recorder is a Canvas that counts draw calls.
type recorder struct {
	lines, dashed, dots, fills, strokes int
	texts                               []string
}

func (r *recorder) Line(x1, y1, x2, y2 float64, c color.Color)       { r.lines++ }
func (r *recorder) DashedLine(x1, y1, x2, y2 float64, c color.Color) { r.dashed++ }
func (r *recorder) FillEllipse(x, y, w, h float64, c color.Color)    { r.dots++ }
func (r *recorder) FillRect(x1, y1, x2, y2 float64, c color.Color)   { r.fills++ }
func (r *recorder) StrokeRect(x1, y1, x2, y2 float64, c color.Color) { r.strokes++ }
func (r *recorder) Text(s string, x, y float64, c color.Color)       { r.texts = append(r.texts, s) }
func (r *recorder) Bounds(s string) Box                              { return measure(basicfont.Face7x13, s, 1) }
func (r *recorder) EncodePNG(w io.Writer) error                      { return nil }

func TestBuild(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, m.Order)
	assert.InDelta(t, 66.7, m.Last["A"], 0.05)
	assert.InDelta(t, 33.3, m.Last["B"], 0.05)
	assert.True(t, m.Percent)
	assert.Equal(t, palette.Color(0), m.Color(0))
	assert.Equal(t, palette.Colors(2), m.Colors)
	assert.Equal(t, palette.Hex(1), m.Hex(1))
}

func TestBuildInsufficientData(t *testing.T) {
	_, err := Build(series.NewDataset(nil, false), series.DefaultNoiseFloor)
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientData))
}

func TestLegendTwoFlatSeries(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	g := NewGeometry(DefaultWidth, DefaultHeight, measure(basicfont.Face7x13, "fg", 1))
	groups := g.Legend(m)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Items[0].Name)
	assert.Equal(t, "B", groups[1].Items[0].Name)
	assert.False(t, groups[0].Overlaps(groups[1]))
}

func TestLegendMergesCloseSeries(t *testing.T) {
	ds := series.NewDataset([]string{"A", "B", "C"}, false)
	for d := int64(0); d < 3; d++ {
		ds.SetDay(day0+d, map[string]float64{"A": 1000, "B": 990, "C": 20})
	}
	m, err := Build(ds, series.DefaultNoiseFloor)
	require.NoError(t, err)

	g := NewGeometry(DefaultWidth, DefaultHeight, measure(basicfont.Face7x13, "fg", 1))
	groups := g.Legend(m)
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].Count())
	assert.Equal(t, "A", groups[0].Items[0].Name)
	assert.Equal(t, "B", groups[0].Items[1].Name)
	assert.Equal(t, 1, groups[1].Count())
}

func TestDraw(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	r := &recorder{}
	Draw(m, r, NewGeometry(DefaultWidth, DefaultHeight, r.Bounds("fg")))

	assert.Equal(t, 2, r.fills, "one legend box per series")
	assert.Equal(t, 2, r.strokes)
	assert.Equal(t, 1, r.dashed, "only the 50% gridline is in range")
	assert.Zero(t, r.dots)
	assert.Contains(t, r.texts, "50%")
	assert.Contains(t, r.texts, "2024-03-01")
	assert.Contains(t, r.texts, "2024-03-03")
	assert.Contains(t, r.texts, "A")
	assert.Contains(t, r.texts, "B")
}

func TestDrawSingleDayAsDots(t *testing.T) {
	ds := series.NewDataset([]string{"A", "B"}, false)
	ds.SetDay(day0, map[string]float64{"A": 100, "B": 50})
	m, err := Build(ds, series.DefaultNoiseFloor)
	require.NoError(t, err)

	r := &recorder{}
	Draw(m, r, NewGeometry(DefaultWidth, DefaultHeight, r.Bounds("fg")))
	assert.Equal(t, 2, r.dots)
}

func TestRasterSink(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	for _, ss := range []int{1, 2} {
		sink := NewRasterSink(WithSize(400, 300), WithSupersample(ss))
		data, err := sink.Render(m)
		require.NoError(t, err)
		assert.Equal(t, "image/png", sink.ContentType())

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 300, img.Bounds().Dy())
	}
}

func TestRasterSinkLegendColor(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	data, err := NewRasterSink().Render(m)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	face, err := newTestFace()
	require.NoError(t, err)
	g := NewGeometry(DefaultWidth, DefaultHeight, measure(face, "fg", 1))
	groups := g.Legend(m)
	x := g.Right + 2*LabelPad + g.TextHeight/2
	y := groups[0].Slots()[0]

	got := color.RGBAModel.Convert(img.At(int(x), int(y))).(color.RGBA)
	want := palette.Color(0)
	assert.Equal(t, want.R, got.R)
	assert.Equal(t, want.G, got.G)
	assert.Equal(t, want.B, got.B)
}

func TestGeometrySmallSize(t *testing.T) {
	metrics := measure(basicfont.Face7x13, "fg", 1)

	g := NewGeometry(DefaultWidth, DefaultHeight, metrics)
	assert.Equal(t, float64(DefaultWidth-MarginRight), g.Right)
	assert.Equal(t, float64(DefaultHeight-MarginBottom), g.Bottom)

	g = NewGeometry(100, 50, metrics)
	assert.Equal(t, g.Left, g.Right)
	assert.Equal(t, g.Top, g.Bottom)
	assert.Zero(t, g.PlotWidth())
	assert.Zero(t, g.PlotHeight())
}

func TestRasterSinkSmallSize(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	data, err := NewRasterSink(WithSize(100, 50)).Render(m)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestRasterSinkBadFont(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)
	_, err = NewRasterSink(WithFont("/does/not/exist.ttf", 9)).Render(m)
	assert.Error(t, err)
}

func TestRemoteSink(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	sink := NewRemoteSink()
	params, err := sink.Params(m)
	require.NoError(t, err)

	assert.Equal(t, "600x500", params.Get("chs"))
	assert.Equal(t, "lc", params.Get("cht"))
	assert.Equal(t, "e:......,AAAAAA", params.Get("chd"))
	assert.Equal(t, palette.Hex(0)+","+palette.Hex(1), params.Get("chco"))
	assert.Equal(t, "A|B", params.Get("chdl"))
	assert.Equal(t, "0,166.10,2,6,0,100.00", params.Get("chg"))
	assert.Equal(t, "y,x", params.Get("chxt"))
	assert.True(t, strings.HasPrefix(params.Get("chxl"), "0:|50%|1:|2024-03-01"), params.Get("chxl"))
	assert.True(t, strings.HasPrefix(params.Get("chxp"), "0,58|1,0,"), params.Get("chxp"))

	raw, err := sink.Render(m)
	require.NoError(t, err)
	u, err := url.Parse(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "chart.apis.google.com", u.Host)
	assert.Equal(t, params.Get("chd"), u.Query().Get("chd"))
}

func TestRemoteSinkRoundTrip(t *testing.T) {
	ds := series.NewDataset([]string{"A", "B"}, false)
	ds.SetDay(day0, map[string]float64{"A": 1000, "B": 20})
	ds.SetDay(day0+1, map[string]float64{"A": 500})
	ds.SetDay(day0+2, map[string]float64{"A": 200, "B": 40})
	m, err := Build(ds, series.DefaultNoiseFloor)
	require.NoError(t, err)

	params, err := NewRemoteSink(WithPrecision(encode.Simple)).Params(m)
	require.NoError(t, err)
	chd := params.Get("chd")
	require.True(t, strings.HasPrefix(chd, "s:"))

	enc, err := encode.NewSymbol(encode.Simple, m.Bounds.LogMin(), m.Bounds.LogMax())
	require.NoError(t, err)
	decoded, err := enc.Decode(chd)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Len(t, decoded[1], 3)
	assert.Equal(t, "_", chd[len("s:AAA,")+1:len("s:AAA,")+2], "absent B on day 2")
}

func TestRemoteSinkInvalidPrecision(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)
	_, err = NewRemoteSink(WithPrecision(3)).Render(m)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPrecision))
}

func TestJSONSink(t *testing.T) {
	m, err := Build(twoPackages(), series.DefaultNoiseFloor)
	require.NoError(t, err)

	data, err := NewJSONSink().Render(m)
	require.NoError(t, err)

	var out struct {
		Percent bool `json:"percent"`
		Series  []struct {
			Name   string   `json:"name"`
			Color  string   `json:"color"`
			Last   *float64 `json:"last"`
			Points []struct {
				Date  string   `json:"date"`
				Value *float64 `json:"value"`
			} `json:"points"`
		} `json:"series"`
		Gridlines []struct {
			Value float64 `json:"value"`
			Label string  `json:"label"`
		} `json:"gridlines"`
		Legend []struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
		} `json:"legend"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.True(t, out.Percent)
	require.Len(t, out.Series, 2)
	assert.Equal(t, "A", out.Series[0].Name)
	assert.Equal(t, "#"+palette.Hex(0), out.Series[0].Color)
	require.NotNil(t, out.Series[1].Last)
	assert.InDelta(t, 33.3, *out.Series[1].Last, 0.05)
	require.Len(t, out.Series[0].Points, 3)
	assert.Equal(t, "2024-03-01", out.Series[0].Points[0].Date)
	require.Len(t, out.Gridlines, 1)
	assert.Equal(t, "50%", out.Gridlines[0].Label)
	assert.Len(t, out.Legend, 2)
}

func TestAssemble(t *testing.T) {
	data, err := Assemble(twoPackages(), series.DefaultNoiseFloor, NewRemoteSink())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), DefaultRemoteURL+"?"))

	_, err = Assemble(series.NewDataset(nil, false), series.DefaultNoiseFloor, NewRemoteSink())
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientData))
}
