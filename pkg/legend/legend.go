// Package legend arranges series labels next to the plot without overlaps.
//
// Each label wants to sit at the y position of its series' latest value.
// Labels that would collide are merged into a [Group] that stacks its
// members around their count-weighted centroid. [Layout] sweeps the labels
// from top to bottom, merging a group into its predecessor whenever their
// padded spans intersect and stepping back to re-check the grown group.
package legend

import "slices"

// Item is one label of a group.
type Item struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

// Entry is a label and the y position it would like to occupy.
type Entry struct {
	Rank int
	Name string
	Y    float64
}

// Group is a stack of labels sharing one vertical slot.
type Group struct {
	Y     float64 `json:"y"` // centroid
	Items []Item  `json:"items"`

	labelHeight float64
	padding     float64
}

// NewGroup creates a group holding a single label.
func NewGroup(e Entry, labelHeight, padding float64) *Group {
	return &Group{
		Y:           e.Y,
		Items:       []Item{{Rank: e.Rank, Name: e.Name}},
		labelHeight: labelHeight,
		padding:     padding,
	}
}

// Count returns the number of labels in the group.
func (g *Group) Count() int { return len(g.Items) }

// Height returns n*labelHeight + (n-1)*padding.
func (g *Group) Height() float64 {
	n := float64(g.Count())
	return n*g.labelHeight + (n-1)*g.padding
}

// Min returns the top of the group's span.
func (g *Group) Min() float64 { return g.Y - g.Height()/2 }

// Max returns the bottom of the group's span.
func (g *Group) Max() float64 { return g.Y + g.Height()/2 }

// Overlaps reports whether the spans of g and o, inflated by the padding,
// intersect.
func (g *Group) Overlaps(o *Group) bool {
	return g.Min()-o.Max() < g.padding && o.Min()-g.Max() < g.padding
}

// Merge appends the labels of o to g and moves g to the count-weighted
// average of both centroids.
func (g *Group) Merge(o *Group) {
	n, m := float64(g.Count()), float64(o.Count())
	g.Y = (g.Y*n + o.Y*m) / (n + m)
	g.Items = append(g.Items, o.Items...)
}

// Slots returns the center y of each label, top to bottom.
func (g *Group) Slots() []float64 {
	ys := make([]float64, g.Count())
	y := g.Min() + g.labelHeight/2
	for i := range ys {
		ys[i] = y
		y += g.labelHeight + g.padding
	}
	return ys
}

// Layout groups the entries so that no two groups overlap. Groups are
// returned top to bottom and hold every entry exactly once.
func Layout(entries []Entry, labelHeight, padding float64) []*Group {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})

	groups := make([]*Group, len(sorted))
	for i, e := range sorted {
		groups[i] = NewGroup(e, labelHeight, padding)
	}

	for i := 1; i < len(groups); {
		if !groups[i-1].Overlaps(groups[i]) {
			i++
			continue
		}
		groups[i-1].Merge(groups[i])
		groups = slices.Delete(groups, i, i+1)
		if i > 1 {
			i--
		}
	}
	return groups
}
