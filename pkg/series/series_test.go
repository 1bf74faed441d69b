package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/popcon/pkg/errors"
)

func sample() *Dataset {
	ds := NewDataset([]string{"gcc", "vim", "emacs"}, false)
	ds.SetDay(19001, map[string]float64{"gcc": 900, "vim": 400})
	ds.SetDay(19000, map[string]float64{"gcc": 800, "vim": 500, "emacs": 20})
	ds.SetDay(19002, map[string]float64{"gcc": 1000, "vim": 300})
	return ds
}

func TestDayRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)
	day := DayOf(ts)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DayTime(day))
}

func TestSetDayKeepsDaysSorted(t *testing.T) {
	ds := sample()
	assert.Equal(t, []int64{19000, 19001, 19002}, ds.Days)

	ds.SetDay(19001, map[string]float64{"gcc": 1})
	assert.Equal(t, []int64{19000, 19001, 19002}, ds.Days)
	v, ok := ds.Value(19001, "gcc")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = ds.Value(19001, "vim")
	assert.False(t, ok)
}

func TestSetDayDropsNonPositive(t *testing.T) {
	ds := NewDataset([]string{"a"}, false)
	ds.SetDay(1, map[string]float64{"a": 0})
	_, ok := ds.Value(1, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, ds.PresentCount())
}

func TestSeriesMarksAbsentDays(t *testing.T) {
	s := sample().Series("emacs")
	require.Len(t, s.Points, 3)
	assert.True(t, s.Points[0].Present)
	assert.False(t, s.Points[1].Present)
	assert.False(t, s.Points[2].Present)
	assert.Equal(t, 1, s.PresentCount())
}

func TestAnalyze(t *testing.T) {
	a, err := Analyze(sample(), DefaultNoiseFloor)
	require.NoError(t, err)

	assert.Equal(t, int64(19000), a.Bounds.XMin)
	assert.Equal(t, int64(19002), a.Bounds.XMax)
	assert.InDelta(t, 20, a.Bounds.YMin, 1e-9)
	assert.InDelta(t, 1000, a.Bounds.YMax, 1e-9)
	assert.Equal(t, []string{"gcc", "vim", "emacs"}, a.Order)
	assert.Equal(t, 20.0, a.Last["emacs"])
}

func TestAnalyzeNoiseFloor(t *testing.T) {
	ds := NewDataset([]string{"a", "b"}, true)
	ds.SetDay(1, map[string]float64{"a": 90, "b": 2})
	a, err := Analyze(ds, DefaultNoiseFloor)
	require.NoError(t, err)
	assert.InDelta(t, 15, a.Bounds.YMin, 1e-9)
	assert.InDelta(t, 90, a.Bounds.YMax, 1e-9)
}

func TestAnalyzeDegenerateRange(t *testing.T) {
	ds := NewDataset([]string{"a"}, false)
	ds.SetDay(1, map[string]float64{"a": 50})
	a, err := Analyze(ds, DefaultNoiseFloor)
	require.NoError(t, err)
	assert.Less(t, a.Bounds.YMin, a.Bounds.YMax)
	assert.InDelta(t, 500, a.Bounds.YMax, 1e-9)
	assert.InDelta(t, 1, a.Bounds.LogMax()-a.Bounds.LogMin(), 1e-9)
}

func TestAnalyzeRankingTiesAndAbsent(t *testing.T) {
	ds := NewDataset([]string{"ghost", "b", "a", "c"}, false)
	ds.SetDay(1, map[string]float64{"a": 50, "b": 50, "c": 80})
	ds.SetDay(2, map[string]float64{"a": 50, "b": 50})

	a, err := Analyze(ds, 0)
	require.NoError(t, err)
	// c keeps its last known value even though it is absent on day 2.
	assert.Equal(t, []string{"c", "b", "a", "ghost"}, a.Order)
	_, ok := a.Last["ghost"]
	assert.False(t, ok)
}

func TestAnalyzeInsufficientData(t *testing.T) {
	_, err := Analyze(NewDataset(nil, false), DefaultNoiseFloor)
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientData))

	ds := NewDataset([]string{"a"}, false)
	ds.SetDay(1, map[string]float64{})
	_, err = Analyze(ds, DefaultNoiseFloor)
	assert.True(t, errors.Is(err, errors.ErrCodeInsufficientData))
}

func TestSampleIndices(t *testing.T) {
	tests := []struct {
		name      string
		n, target int
		want      []int
	}{
		{"empty", 0, 5, nil},
		{"fewer than target", 3, 5, []int{0, 1, 2}},
		{"no target", 3, 0, []int{0, 1, 2}},
		{"keeps last", 10, 4, []int{0, 3, 5, 8, 9}},
		{"exact step", 9, 3, []int{0, 3, 6, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleIndices(tt.n, tt.target))
		})
	}
}

func TestSampleIndicesAlwaysIncludesLatest(t *testing.T) {
	for n := 1; n < 200; n += 7 {
		for _, target := range []int{1, 2, 5, 20, 50} {
			idx := SampleIndices(n, target)
			require.NotEmpty(t, idx)
			assert.Equal(t, n-1, idx[len(idx)-1])
			assert.Equal(t, 0, idx[0])
			assert.LessOrEqual(t, len(idx), int(math.Max(float64(target), 1))+2)
		}
	}
}

func TestResample(t *testing.T) {
	ds := NewDataset([]string{"a"}, false)
	for d := int64(0); d < 10; d++ {
		ds.SetDay(d, map[string]float64{"a": float64(d + 1)})
	}
	out := Resample(ds, 4)
	assert.Equal(t, []int64{0, 3, 5, 8, 9}, out.Days)
	v, ok := out.Value(9, "a")
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}
