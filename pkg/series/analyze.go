package series

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/popcon/pkg/errors"
)

// DefaultNoiseFloor is the default lower bound of the y axis in log10
// units. Values below 15 votes (or 15%) carry no signal.
var DefaultNoiseFloor = math.Log10(15)

// Bounds is the global extent of a dataset.
type Bounds struct {
	XMin, XMax int64   // first and last day
	YMin, YMax float64 // smallest and largest plotted value, YMin > 0
}

// LogMin returns log10 of the lower y bound.
func (b Bounds) LogMin() float64 { return math.Log10(b.YMin) }

// LogMax returns log10 of the upper y bound.
func (b Bounds) LogMax() float64 { return math.Log10(b.YMax) }

// Analysis is the result of [Analyze].
type Analysis struct {
	Bounds Bounds

	// Order lists every package of the dataset by last known value,
	// largest first. Packages without any data come last.
	Order []string

	// Last holds the most recent present value of each package that has
	// data on at least one day.
	Last map[string]float64
}

// Analyze computes the bounds and ranking of a dataset. noiseFloor is the
// log10 of the smallest y bound allowed.
//
// It returns an ErrCodeInsufficientData error when the dataset holds no
// present value at all.
func Analyze(ds *Dataset, noiseFloor float64) (*Analysis, error) {
	if ds == nil || len(ds.Days) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "dataset has no days")
	}

	values := make([]float64, 0, ds.PresentCount())
	for _, day := range ds.Days {
		for _, v := range ds.Values[day] {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeInsufficientData, "dataset has no values")
	}

	lo, err := stats.Min(values)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "min")
	}
	hi, err := stats.Max(values)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "max")
	}

	lo = math.Max(lo, math.Pow(10, noiseFloor))
	if hi <= lo {
		hi = lo * 10
	}

	a := &Analysis{
		Bounds: Bounds{
			XMin: ds.Days[0],
			XMax: ds.Days[len(ds.Days)-1],
			YMin: lo,
			YMax: hi,
		},
		Last: lastValues(ds),
	}
	a.Order = rank(ds.Packages, a.Last)
	return a, nil
}

func lastValues(ds *Dataset) map[string]float64 {
	last := make(map[string]float64, len(ds.Packages))
	for _, day := range ds.Days {
		for name, v := range ds.Values[day] {
			last[name] = v
		}
	}
	return last
}

func rank(packages []string, last map[string]float64) []string {
	order := slices.Clone(packages)
	slices.SortStableFunc(order, func(a, b string) int {
		va, oka := last[a]
		vb, okb := last[b]
		switch {
		case oka && !okb:
			return -1
		case !oka && okb:
			return 1
		case va > vb:
			return -1
		case va < vb:
			return 1
		default:
			return 0
		}
	})
	return order
}
