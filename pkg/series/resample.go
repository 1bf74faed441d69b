package series

import "math"

// SampleIndices selects about target evenly spaced indices out of n. The
// step between picks is max(1, n/target); the last index is always kept so
// that the most recent data point is never dropped. A non-positive target
// keeps every index.
func SampleIndices(n, target int) []int {
	if n <= 0 {
		return nil
	}
	if target <= 0 || n <= target {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	step := math.Max(1, float64(n)/float64(target))
	idx := make([]int, 0, target+1)
	for f := 0.0; ; f += step {
		i := int(math.Round(f))
		if i >= n {
			break
		}
		if len(idx) == 0 || idx[len(idx)-1] != i {
			idx = append(idx, i)
		}
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx
}

// Resample returns a copy of ds holding only about target of its days.
func Resample(ds *Dataset, target int) *Dataset {
	out := NewDataset(ds.Packages, ds.Percent)
	for _, i := range SampleIndices(len(ds.Days), target) {
		day := ds.Days[i]
		out.SetDay(day, ds.Values[day])
	}
	return out
}
