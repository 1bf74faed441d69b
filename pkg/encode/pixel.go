package encode

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/popcon/pkg/series"
)

// DefaultZeroOffset is the height in pixels of the band that holds values
// below the plotted range.
const DefaultZeroOffset = 6

// Point is a pixel position.
type Point struct {
	X, Y float64
}

// Polyline is a run of connected points. A polyline with a single point is
// drawn as a dot.
type Polyline []Point

// PixelScale maps epoch days and values onto a plot rectangle.
type PixelScale struct {
	Bounds series.Bounds

	// Plot rectangle in pixels.
	Left, Top, Width, Height float64

	// ZeroOffset is the height of the band reserved for values that are
	// missing or below Bounds.YMin.
	ZeroOffset float64
}

// X maps an epoch day to a pixel column.
func (s PixelScale) X(day int64) float64 {
	span := s.Bounds.XMax - s.Bounds.XMin
	if span <= 0 {
		return s.Left
	}
	return s.Left + s.Width*float64(day-s.Bounds.XMin)/float64(span)
}

// Y maps a value to a pixel row. Values that are NaN, non-positive, or below
// the lower bound land at the bottom of the plot.
func (s PixelScale) Y(v float64) float64 {
	bottom := s.Top + s.Height
	if math.IsNaN(v) || v <= 0 || v < s.Bounds.YMin {
		return bottom
	}
	return bottom - (s.Fraction(v)*(s.Height-s.ZeroOffset) + s.ZeroOffset)
}

// Fraction returns the normalized log position of v within the y bounds.
func (s PixelScale) Fraction(v float64) float64 {
	lo, hi := s.Bounds.LogMin(), s.Bounds.LogMax()
	if hi <= lo {
		return 0
	}
	return (math.Log10(v) - lo) / (hi - lo)
}

// Polylines converts a series into drawable runs. Absent points split the
// series. Consecutive points that fall into the same pixel column are
// averaged into one point.
func (s PixelScale) Polylines(sr series.Series) []Polyline {
	var (
		lines  []Polyline
		run    Polyline
		bucket []float64
		col    float64
	)

	flushBucket := func() {
		if len(bucket) == 0 {
			return
		}
		mean, _ := stats.Mean(bucket)
		run = append(run, Point{X: col, Y: s.Y(mean)})
		bucket = bucket[:0]
	}
	flushRun := func() {
		flushBucket()
		if len(run) > 0 {
			lines = append(lines, run)
			run = nil
		}
	}

	for _, p := range sr.Points {
		if !p.Present {
			flushRun()
			continue
		}
		x := math.Floor(s.X(p.Day))
		if len(bucket) > 0 && x != col {
			flushBucket()
		}
		col = x
		bucket = append(bucket, p.Value)
	}
	flushRun()
	return lines
}
