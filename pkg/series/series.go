package series

import (
	"slices"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// DayOf returns the epoch day of t, counted in UTC.
func DayOf(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}

// DayTime returns midnight UTC of an epoch day.
func DayTime(day int64) time.Time {
	return time.Unix(day*secondsPerDay, 0).UTC()
}

// Point is a single day of a package series. Present is false when the
// package has no data for that day.
type Point struct {
	Day     int64
	Value   float64
	Present bool
}

// Series is the time series of one package, ordered by day.
type Series struct {
	Name   string
	Points []Point
}

// PresentCount returns the number of points that carry data.
func (s Series) PresentCount() int {
	n := 0
	for _, p := range s.Points {
		if p.Present {
			n++
		}
	}
	return n
}

// Dataset is the loader output: for every day, the value of every package
// that has data on that day.
type Dataset struct {
	// Days lists the loaded days in ascending order.
	Days []int64

	// Packages lists the retained packages in the order they appear in the
	// latest snapshot. This order breaks ranking ties.
	Packages []string

	// Values maps day -> package -> value. Absent packages have no entry.
	Values map[int64]map[string]float64

	// Percent reports whether values are percentages of the day's total.
	Percent bool
}

// NewDataset creates an empty dataset for the given packages.
func NewDataset(packages []string, percent bool) *Dataset {
	return &Dataset{
		Packages: slices.Clone(packages),
		Values:   make(map[int64]map[string]float64),
		Percent:  percent,
	}
}

// SetDay stores the values of a day, replacing any previous values.
// Non-positive values are dropped: they are "no data" on a log scale.
func (d *Dataset) SetDay(day int64, values map[string]float64) {
	m := make(map[string]float64, len(values))
	for name, v := range values {
		if v > 0 {
			m[name] = v
		}
	}
	if _, ok := d.Values[day]; !ok {
		i, _ := slices.BinarySearch(d.Days, day)
		d.Days = slices.Insert(d.Days, i, day)
	}
	d.Values[day] = m
}

// Value returns the value of a package on a day and whether it is present.
func (d *Dataset) Value(day int64, name string) (float64, bool) {
	v, ok := d.Values[day][name]
	return v, ok
}

// Series returns the series of a package with one point per loaded day.
func (d *Dataset) Series(name string) Series {
	s := Series{Name: name, Points: make([]Point, len(d.Days))}
	for i, day := range d.Days {
		v, ok := d.Value(day, name)
		s.Points[i] = Point{Day: day, Value: v, Present: ok}
	}
	return s
}

// PresentCount returns the number of present values across all days.
func (d *Dataset) PresentCount() int {
	n := 0
	for _, day := range d.Days {
		n += len(d.Values[day])
	}
	return n
}

// Latest returns the most recent loaded day.
func (d *Dataset) Latest() (int64, bool) {
	if len(d.Days) == 0 {
		return 0, false
	}
	return d.Days[len(d.Days)-1], true
}
