package axis

import (
	"math"
	"strconv"
	"time"

	"github.com/matzehuels/popcon/pkg/series"
)

const eps = 1e-9

// Mantissas are the round multiples of each power of ten that get a gridline.
var Mantissas = []float64{1, 2, 3, 5}

// Gridline is a horizontal line at a round value.
type Gridline struct {
	Value    float64 `json:"value"`
	Position float64 `json:"position"` // 0 at logmin, 1 at logmax
	Label    string  `json:"label"`
}

// Decade returns the decade gridlines within [logmin, logmax], ordered by
// position. Labels get a "%" suffix when percent is set.
func Decade(logmin, logmax float64, percent bool) []Gridline {
	var lines []Gridline
	span := logmax - logmin
	for e := math.Floor(logmin); e <= logmax+eps; e++ {
		p := math.Pow(10, e)
		for _, m := range Mantissas {
			v := p * m
			lv := math.Log10(v)
			if lv < logmin-eps || lv > logmax+eps {
				continue
			}
			pos := 0.0
			if span > 0 {
				pos = clamp((lv-logmin)/span, 0, 1)
			}
			lines = append(lines, Gridline{Value: v, Position: pos, Label: FormatValue(v, percent)})
		}
	}
	return lines
}

// FormatValue formats a gridline value as a short label.
func FormatValue(v float64, percent bool) string {
	s := strconv.FormatFloat(v, 'g', 12, 64)
	if percent {
		return s + "%"
	}
	return s
}

// Remote reference line defaults.
const (
	DefaultReference = 100
	DefaultHalfRange = 50
)

// RemotePlan describes the gridlines a chart service draws on its own.
type RemotePlan struct {
	Reference float64 `json:"reference"` // value the reference line marks
	Offset    float64 `json:"offset"`    // reference position, 0..100
	Step      float64 `json:"step"`      // gridline spacing, percent of the plot height
}

// Remote plans a single reference gridline at reference and the spacing of
// the evenly spaced gridlines drawn around it, (1/(logmax-logmin)) *
// halfRange. The offset is clamped to the plot.
func Remote(logmin, logmax, reference, halfRange float64) RemotePlan {
	span := logmax - logmin
	if span <= 0 {
		return RemotePlan{Reference: reference, Step: halfRange}
	}
	return RemotePlan{
		Reference: reference,
		Offset:    clamp((math.Log10(reference)-logmin)/span*100, 0, 100),
		Step:      1 / span * halfRange,
	}
}

// Tick is a dated mark on the time axis.
type Tick struct {
	Time     time.Time `json:"time"`
	Position float64   `json:"position"` // 0 at xmin, 1 at xmax
	Label    string    `json:"label"`
}

// TickSpacing is the approximate distance in pixels between time ticks.
const TickSpacing = 150

// TimeTicks splits [xmin, xmax] (epoch days) into round(width/150) equal
// intervals and returns a tick at every boundary, both ends included. A
// single-day range yields one tick.
func TimeTicks(xmin, xmax int64, width float64) []Tick {
	start := series.DayTime(xmin)
	if xmax <= xmin {
		return []Tick{{Time: start, Label: start.Format(time.DateOnly)}}
	}

	n := max(1, int(math.Round(width/TickSpacing)))
	step := float64(xmax-xmin) / float64(n) * 24 * float64(time.Hour)

	ticks := make([]Tick, n+1)
	for i := range ticks {
		t := start.Add(time.Duration(math.Round(float64(i) * step)))
		ticks[i] = Tick{
			Time:     t,
			Position: float64(i) / float64(n),
			Label:    t.Format(time.DateOnly),
		}
	}
	return ticks
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
