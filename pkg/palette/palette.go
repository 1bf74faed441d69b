// Package palette assigns each ranked series a distinct, deterministic color.
//
// Hues advance by four thirteenths of the color wheel per rank, so adjacent
// ranks land far apart before the sequence wraps. Brightness alternates
// between two levels to separate series whose hues end up close.
//
// Hues are truncated to whole degrees and channels to whole 8-bit steps, so
// the same rank yields the same "rrggbb" on every installation.
package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// HueStep is the hue distance in degrees between consecutive ranks.
const HueStep = 360.0 / 13 * 4

// Hue returns the hue of a rank in whole degrees [0, 360).
func Hue(rank int) float64 {
	return float64(int64(HueStep*float64(rank)) % 360)
}

// Brightness returns the HSV value of a rank: 0.7 for even ranks, 1.0 for
// odd ones.
func Brightness(rank int) float64 {
	return 0.7 + 0.3*float64(rank%2)
}

// Color returns the color of a rank.
func Color(rank int) color.RGBA {
	c := colorful.Hsv(Hue(rank), 1.0, Brightness(rank))
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xff}
}

// channel truncates a [0, 1] channel to 8 bits.
func channel(v float64) uint8 {
	return uint8(v * 255)
}

// Hex returns the color of a rank as "rrggbb".
func Hex(rank int) string {
	return HexOf(Color(rank))
}

// HexOf formats c as "rrggbb".
func HexOf(c color.RGBA) string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Colors returns the colors of ranks 0..n-1.
func Colors(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		out[i] = Color(i)
	}
	return out
}
