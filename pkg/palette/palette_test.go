package palette

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorIsPure(t *testing.T) {
	for rank := 0; rank < 50; rank++ {
		assert.Equal(t, Color(rank), Color(rank))
		assert.Equal(t, Hex(rank), Hex(rank))
	}
}

func TestAdjacentRanksDiffer(t *testing.T) {
	assert.NotEqual(t, Color(0), Color(1))
	for rank := 0; rank < 12; rank++ {
		assert.NotEqual(t, Color(rank), Color(rank+1), "rank %d", rank)
	}
}

func TestHueWraps(t *testing.T) {
	assert.Equal(t, 0.0, Hue(0))
	assert.Equal(t, 110.0, Hue(1))
	assert.Equal(t, 221.0, Hue(2))
	for rank := 0; rank < 100; rank++ {
		h := Hue(rank)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.Less(t, h, 360.0)
	}
	// 13 steps of 4/13 turns make exactly four turns.
	assert.InDelta(t, 0, Hue(13), 1e-9)
}

func TestFullySaturated(t *testing.T) {
	for rank := 0; rank < 26; rank++ {
		c := Color(rank)
		lo := min(c.R, c.G, c.B)
		hi := max(c.R, c.G, c.B)
		assert.Equal(t, uint8(0), lo, "rank %d: %v", rank, c)
		if rank%2 == 1 {
			assert.Equal(t, uint8(255), hi, "rank %d: %v", rank, c)
		} else {
			assert.Equal(t, uint8(178), hi, "rank %d: %v", rank, c)
		}
	}
}

func TestHex(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{6}$`)
	for rank := 0; rank < 20; rank++ {
		assert.Regexp(t, re, Hex(rank))
	}
	assert.Len(t, Colors(5), 5)
	assert.Equal(t, Color(3), Colors(5)[3])
}

func TestHexGolden(t *testing.T) {
	want := []string{
		"b20000", "2aff00", "0038b2", "ff0077", "6eb200", "00c7ff", "b200a6",
		"ffe900", "00b288", "9800ff", "b25000", "00ff4c", "1a00b2",
	}
	for rank, hex := range want {
		assert.Equal(t, hex, Hex(rank), "rank %d", rank)
	}
	// The sequence repeats its hues after 13 ranks, with brightness flipped.
	assert.Equal(t, "ff0000", Hex(13))
	assert.Equal(t, "2aff00", HexOf(Colors(2)[1]))
}
