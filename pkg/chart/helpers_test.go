package chart

import (
	"golang.org/x/image/font"

	"github.com/matzehuels/popcon/pkg/fonts"
)

func newTestFace() (font.Face, error) {
	return fonts.NewFace("", fonts.DefaultSize)
}
