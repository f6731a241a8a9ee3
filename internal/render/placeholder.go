package render

import (
	"hash/fnv"
	"math/rand"

	"github.com/fogleman/gg"
)

// Placeholder paints substitute artwork for a unit whose image could
// not be loaded: a dark wash of the unit's palette color with a few
// soft shapes. The composition is deterministic per slug, so the same
// unit always gets the same placeholder.
func Placeholder(slug, hexColor string, w, h int) *Grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	base := ParseHex(hexColor)
	r := rand.New(rand.NewSource(slugSeed(slug)))

	dc := gg.NewContext(w, h)

	dc.SetRGB(base.R*0.22, base.G*0.22, base.B*0.22)
	dc.Clear()

	// Soft drifting discs in the palette color.
	minDim := float64(w)
	if h < w {
		minDim = float64(h)
	}
	for i := 0; i < 6; i++ {
		dc.SetRGBA(base.R, base.G, base.B, 0.06+0.10*r.Float64())
		cx := r.Float64() * float64(w)
		cy := r.Float64() * float64(h)
		radius := (0.12 + 0.30*r.Float64()) * minDim
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	}

	// A brighter horizon band gives the text something to sit over.
	bandY := (0.55 + 0.2*r.Float64()) * float64(h)
	dc.SetRGBA(base.R, base.G, base.B, 0.18)
	dc.DrawRectangle(0, bandY, float64(w), float64(h)*0.12)
	dc.Fill()

	return FromImage(dc.Image())
}

// slugSeed derives a stable random seed from the unit slug.
func slugSeed(slug string) int64 {
	hash := fnv.New64a()
	hash.Write([]byte(slug))
	return int64(hash.Sum64())
}
