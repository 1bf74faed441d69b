package axis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/popcon/pkg/series"
)

func values(lines []Gridline) []float64 {
	out := make([]float64, len(lines))
	for i, l := range lines {
		out[i] = l.Value
	}
	return out
}

func TestDecadeOneDecade(t *testing.T) {
	lines := Decade(1.0, 2.0, false)
	assert.Equal(t, []float64{10, 20, 30, 50, 100}, values(lines))

	assert.Equal(t, 0.0, lines[0].Position)
	assert.InDelta(t, math.Log10(2), lines[1].Position, 1e-9)
	assert.Equal(t, 1.0, lines[4].Position)
	for i := 1; i < len(lines); i++ {
		assert.Greater(t, lines[i].Position, lines[i-1].Position)
	}
	assert.Equal(t, "100", lines[4].Label)
}

func TestDecadePartialRange(t *testing.T) {
	lines := Decade(math.Log10(15), math.Log10(66.7), true)
	assert.Equal(t, []float64{20, 30, 50}, values(lines))
	assert.Equal(t, "20%", lines[0].Label)
	for _, l := range lines {
		assert.GreaterOrEqual(t, l.Position, 0.0)
		assert.LessOrEqual(t, l.Position, 1.0)
	}
}

func TestDecadeSeveralDecades(t *testing.T) {
	lines := Decade(0.5, 3.2, false)
	assert.Equal(t, []float64{5, 10, 20, 30, 50, 100, 200, 300, 500, 1000}, values(lines))
}

func TestDecadeDegenerate(t *testing.T) {
	lines := Decade(1, 1, false)
	require.Len(t, lines, 1)
	assert.Equal(t, 10.0, lines[0].Value)
	assert.Equal(t, 0.0, lines[0].Position)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0.3", FormatValue(math.Pow(10, -1)*3, false))
	assert.Equal(t, "2000", FormatValue(2000, false))
	assert.Equal(t, "50%", FormatValue(50, true))
}

func TestRemote(t *testing.T) {
	p := Remote(1, 3, DefaultReference, DefaultHalfRange)
	assert.Equal(t, 100.0, p.Reference)
	assert.InDelta(t, 50, p.Offset, 1e-9)
	assert.InDelta(t, 25, p.Step, 1e-9)

	p = Remote(2.5, 3, DefaultReference, DefaultHalfRange)
	assert.Equal(t, 0.0, p.Offset)
	assert.InDelta(t, 100, p.Step, 1e-9)

	p = Remote(1, 1, DefaultReference, DefaultHalfRange)
	assert.Equal(t, 0.0, p.Offset)
	assert.Equal(t, 50.0, p.Step)
}

func TestTimeTicks(t *testing.T) {
	start := series.DayOf(mustDate(t, "2024-01-01"))
	ticks := TimeTicks(start, start+60, 755)
	require.Len(t, ticks, 6)
	assert.Equal(t, "2024-01-01", ticks[0].Label)
	assert.Equal(t, "2024-03-01", ticks[5].Label)
	assert.Equal(t, 0.0, ticks[0].Position)
	assert.Equal(t, 1.0, ticks[5].Position)
	assert.Equal(t, "2024-01-13", ticks[1].Label)
}

func TestTimeTicksNarrowAndSingleDay(t *testing.T) {
	day := series.DayOf(mustDate(t, "2024-01-01"))
	assert.Len(t, TimeTicks(day, day+10, 20), 2)

	ticks := TimeTicks(day, day, 755)
	require.Len(t, ticks, 1)
	assert.Equal(t, "2024-01-01", ticks[0].Label)
}
