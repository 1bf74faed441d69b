package legend

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	labelHeight = 11.0
	padding     = 5.0
)

func TestGroupGeometry(t *testing.T) {
	g := NewGroup(Entry{Rank: 0, Name: "vim", Y: 100}, labelHeight, padding)
	assert.Equal(t, 11.0, g.Height())
	assert.Equal(t, 94.5, g.Min())
	assert.Equal(t, 105.5, g.Max())

	g.Merge(NewGroup(Entry{Rank: 1, Name: "emacs", Y: 110}, labelHeight, padding))
	assert.Equal(t, 2, g.Count())
	assert.Equal(t, 27.0, g.Height())
	assert.Equal(t, 105.0, g.Y)
	assert.Equal(t, []float64{97, 113}, g.Slots())
	assert.Equal(t, []Item{{0, "vim"}, {1, "emacs"}}, g.Items)
}

func TestMergeIsCountWeighted(t *testing.T) {
	g := NewGroup(Entry{Name: "a", Y: 0}, labelHeight, padding)
	g.Merge(NewGroup(Entry{Name: "b", Y: 0}, labelHeight, padding))
	g.Merge(NewGroup(Entry{Name: "c", Y: 30}, labelHeight, padding))
	assert.Equal(t, 10.0, g.Y)
}

func TestOverlaps(t *testing.T) {
	a := NewGroup(Entry{Y: 100}, labelHeight, padding)
	tests := []struct {
		y    float64
		want bool
	}{
		{100, true},
		{111, true},
		{115.9, true},
		{116, false},
		{200, false},
		{84.1, true},
		{84, false},
	}
	for _, tt := range tests {
		b := NewGroup(Entry{Y: tt.y}, labelHeight, padding)
		assert.Equal(t, tt.want, a.Overlaps(b), "y=%v", tt.y)
		assert.Equal(t, tt.want, b.Overlaps(a), "y=%v (swapped)", tt.y)
	}
}

func TestLayoutSeparated(t *testing.T) {
	groups := Layout([]Entry{
		{Rank: 0, Name: "A", Y: 100},
		{Rank: 1, Name: "B", Y: 300},
	}, labelHeight, padding)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Items[0].Name)
	assert.Equal(t, "B", groups[1].Items[0].Name)
}

func TestLayoutMergesCloseLabels(t *testing.T) {
	groups := Layout([]Entry{
		{Rank: 0, Name: "A", Y: 100},
		{Rank: 1, Name: "B", Y: 108},
	}, labelHeight, padding)
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count())
	assert.Equal(t, 104.0, groups[0].Y)
	assert.Equal(t, []Item{{0, "A"}, {1, "B"}}, groups[0].Items)
}

func TestLayoutSortsByY(t *testing.T) {
	groups := Layout([]Entry{
		{Rank: 0, Name: "low", Y: 400},
		{Rank: 1, Name: "high", Y: 10},
	}, labelHeight, padding)
	require.Len(t, groups, 2)
	assert.Equal(t, "high", groups[0].Items[0].Name)
}

func TestLayoutBacktracks(t *testing.T) {
	// B and C collide; their merged group grows upward into A.
	groups := Layout([]Entry{
		{Rank: 0, Name: "A", Y: 100},
		{Rank: 1, Name: "B", Y: 120},
		{Rank: 2, Name: "C", Y: 126},
	}, labelHeight, padding)
	require.Len(t, groups, 1)
	assert.Equal(t, []Item{{0, "A"}, {1, "B"}, {2, "C"}}, groups[0].Items)
}

func TestLayoutEmpty(t *testing.T) {
	assert.Empty(t, Layout(nil, labelHeight, padding))
}

func TestLayoutNeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(40)
		entries := make([]Entry, n)
		for i := range entries {
			entries[i] = Entry{Rank: i, Name: string(rune('a' + i%26)), Y: rng.Float64() * 600}
		}

		groups := Layout(entries, labelHeight, padding)

		total := 0
		for _, g := range groups {
			total += g.Count()
		}
		require.Equal(t, n, total, "round %d", round)

		for i := range groups {
			for j := i + 1; j < len(groups); j++ {
				require.False(t, groups[i].Overlaps(groups[j]), "round %d: groups %d and %d overlap", round, i, j)
			}
		}
	}
}
