// Package fonts provides the TrueType faces used to draw chart labels.
//
// The Go Regular font is compiled into the binary, so charts render without
// any font installed on the host. A custom TTF can be loaded from disk.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// DPI is the resolution faces are rasterized at. Point sizes therefore map
// to the same pixel sizes as typical server-side image libraries.
const DPI = 96

// DefaultSize is the default label size in points.
const DefaultSize = 9.0

// Parsed default font (computed once on first access).
var (
	defaultFont    *truetype.Font
	defaultFontErr error
	defaultOnce    sync.Once
)

// Default returns the embedded Go Regular font.
func Default() (*truetype.Font, error) {
	defaultOnce.Do(func() {
		defaultFont, defaultFontErr = truetype.Parse(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// Load reads a TTF file. An empty path returns [Default].
func Load(path string) (*truetype.Font, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// Face returns a face of f at size points.
func Face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}

// NewFace loads the font at path and returns a face of the given size. When
// the embedded font cannot be used the fixed 7x13 bitmap face is returned.
func NewFace(path string, size float64) (font.Face, error) {
	f, err := Load(path)
	if err != nil {
		if path != "" {
			return nil, err
		}
		return Fallback(), nil
	}
	return Face(f, size), nil
}

// Fallback returns the fixed-size bitmap face.
func Fallback() font.Face {
	return basicfont.Face7x13
}
