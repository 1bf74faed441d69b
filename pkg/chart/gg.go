package chart

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// GGCanvas is a [Canvas] backed by a gg context. With supersampling, it
// draws at n times the size and downscales when encoding.
type GGCanvas struct {
	dc            *gg.Context
	face          font.Face
	width, height int
	ss            float64
}

// NewGGCanvas creates a white width x height canvas. face must already be
// sized for the supersampled resolution.
func NewGGCanvas(width, height int, face font.Face, supersample int) *GGCanvas {
	ss := max(1, supersample)
	dc := gg.NewContext(width*ss, height*ss)
	dc.SetColor(white)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetLineWidth(float64(ss))
	return &GGCanvas{dc: dc, face: face, width: width, height: height, ss: float64(ss)}
}

func (c *GGCanvas) Line(x1, y1, x2, y2 float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawLine(x1*c.ss, y1*c.ss, x2*c.ss, y2*c.ss)
	c.dc.Stroke()
}

func (c *GGCanvas) DashedLine(x1, y1, x2, y2 float64, col color.Color) {
	c.dc.SetDash(c.ss, 4*c.ss)
	c.Line(x1, y1, x2, y2, col)
	c.dc.SetDash()
}

func (c *GGCanvas) FillEllipse(x, y, w, h float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawEllipse(x*c.ss, y*c.ss, w/2*c.ss, h/2*c.ss)
	c.dc.Fill()
}

func (c *GGCanvas) FillRect(x1, y1, x2, y2 float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x1*c.ss, y1*c.ss, (x2-x1)*c.ss, (y2-y1)*c.ss)
	c.dc.Fill()
}

func (c *GGCanvas) StrokeRect(x1, y1, x2, y2 float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x1*c.ss, y1*c.ss, (x2-x1)*c.ss, (y2-y1)*c.ss)
	c.dc.Stroke()
}

func (c *GGCanvas) Text(s string, x, y float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawString(s, x*c.ss, y*c.ss)
}

func (c *GGCanvas) Bounds(s string) Box {
	return measure(c.face, s, c.ss)
}

// Image returns the canvas at its final size.
func (c *GGCanvas) Image() image.Image {
	img := c.dc.Image()
	if c.ss > 1 {
		return imaging.Resize(img, c.width, c.height, imaging.Lanczos)
	}
	return img
}

func (c *GGCanvas) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, c.Image(), imaging.PNG)
}

// measure returns the bounds of s in face, divided by scale.
func measure(face font.Face, s string, scale float64) Box {
	b, _ := font.BoundString(face, s)
	return Box{
		MinX: float64(b.Min.X) / 64 / scale,
		MinY: float64(b.Min.Y) / 64 / scale,
		MaxX: float64(b.Max.X) / 64 / scale,
		MaxY: float64(b.Max.Y) / 64 / scale,
	}
}
