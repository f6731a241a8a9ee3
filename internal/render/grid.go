// Package render turns artwork into terminal output. It decodes and
// scales images to half-block pixel grids, blends cross-fades, applies
// ambient drift, and derives adaptive palettes from image brightness.
package render

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// Grid is a rectangular field of pixels at half-cell resolution: one
// terminal cell displays two vertically stacked pixels, so a grid of
// height H fills H/2 rows.
type Grid struct {
	W, H int
	Pix  []colorful.Color
}

// NewGrid allocates a black grid of the given pixel dimensions.
func NewGrid(w, h int) *Grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Grid{W: w, H: h, Pix: make([]colorful.Color, w*h)}
}

// At returns the pixel at (x, y). Out-of-range coordinates return black.
func (g *Grid) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return colorful.Color{}
	}
	return g.Pix[y*g.W+x]
}

// Set writes the pixel at (x, y), ignoring out-of-range coordinates.
func (g *Grid) Set(x, y int, c colorful.Color) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.Pix[y*g.W+x] = c
}

// Fill sets every pixel to c.
func (g *Grid) Fill(c colorful.Color) {
	for i := range g.Pix {
		g.Pix[i] = c
	}
}

// Bytes estimates the grid's memory footprint for cache accounting.
func (g *Grid) Bytes() int64 {
	return int64(len(g.Pix)) * 24
}

// FromImage samples every pixel of img into a grid of the same size.
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r, gr, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			g.Pix[y*g.W+x] = colorful.Color{
				R: float64(r) / 65535.0,
				G: float64(gr) / 65535.0,
				B: float64(bl) / 65535.0,
			}
		}
	}
	return g
}

// Blend mixes a and b into dst with the given alpha: 0 shows only a,
// 1 only b. The grids must share dimensions; dst may alias a or b.
func Blend(dst, a, b *Grid, alpha float64) {
	if alpha <= 0 {
		copy(dst.Pix, a.Pix)
		return
	}
	if alpha >= 1 {
		copy(dst.Pix, b.Pix)
		return
	}
	for i := range dst.Pix {
		dst.Pix[i] = a.Pix[i].BlendRgb(b.Pix[i], alpha)
	}
}

// AverageBrightness returns the grid's mean luminance in [0, 1] using
// the same weights the site build applies at analysis time.
func AverageBrightness(g *Grid) float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	var total float64
	for _, c := range g.Pix {
		total += 0.299*c.R + 0.587*c.G + 0.114*c.B
	}
	return total / float64(len(g.Pix))
}
