package render

import "math/rand"

// Motion is one ambient drift pattern applied to overscanned artwork
// while a variation dwells on screen.
type Motion int

const (
	// MotionNone shows the centered window with no drift.
	MotionNone Motion = iota
	MotionPanRight
	MotionPanLeft
	MotionZoomIn
	MotionZoomOut
)

// motions holds the drift variants eligible for random selection.
var motions = []Motion{MotionPanRight, MotionPanLeft, MotionZoomIn, MotionZoomOut}

// RandomMotion picks one of the drift variants.
func RandomMotion(r *rand.Rand) Motion {
	return motions[r.Intn(len(motions))]
}

// OverscanX returns the horizontal drift margin in pixels for a view
// that is w pixels wide.
func OverscanX(w int) int {
	m := w / 16
	if m < 2 {
		m = 2
	}
	return m
}

// OverscanY returns the vertical drift margin in pixels for a view
// that is h pixels tall.
func OverscanY(h int) int {
	m := h / 16
	if m < 2 {
		m = 2
	}
	return m
}

// ApplyMotion samples a window of src into dst according to the drift
// pattern at progress p in [0, 1]. The margins available for movement
// come from the size difference between src and dst; a src no larger
// than dst is copied through centered.
func ApplyMotion(src, dst *Grid, m Motion, p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	mx := (src.W - dst.W) / 2
	my := (src.H - dst.H) / 2
	if mx < 0 {
		mx = 0
	}
	if my < 0 {
		my = 0
	}

	// Window geometry in src coordinates.
	x0, y0 := float64(mx), float64(my)
	w, h := float64(dst.W), float64(dst.H)

	switch m {
	case MotionPanRight:
		x0 = p * float64(2*mx)
	case MotionPanLeft:
		x0 = (1 - p) * float64(2*mx)
	case MotionZoomIn:
		// Window shrinks toward center: full overscan down to 1:1.
		fx := (1 - p) * float64(mx)
		fy := (1 - p) * float64(my)
		x0, y0 = float64(mx)-fx, float64(my)-fy
		w, h = float64(dst.W)+2*fx, float64(dst.H)+2*fy
	case MotionZoomOut:
		fx := p * float64(mx)
		fy := p * float64(my)
		x0, y0 = float64(mx)-fx, float64(my)-fy
		w, h = float64(dst.W)+2*fx, float64(dst.H)+2*fy
	}

	sampleWindow(src, dst, x0, y0, w, h)
}

// sampleWindow resizes the window (x0, y0, w, h) of src onto dst with
// nearest sampling. Subtle drifts at cell resolution do not benefit
// from filtering.
func sampleWindow(src, dst *Grid, x0, y0, w, h float64) {
	if dst.W == 0 || dst.H == 0 {
		return
	}
	sx := w / float64(dst.W)
	sy := h / float64(dst.H)
	for y := 0; y < dst.H; y++ {
		srcY := int(y0 + (float64(y)+0.5)*sy)
		if srcY < 0 {
			srcY = 0
		}
		if srcY >= src.H {
			srcY = src.H - 1
		}
		for x := 0; x < dst.W; x++ {
			srcX := int(x0 + (float64(x)+0.5)*sx)
			if srcX < 0 {
				srcX = 0
			}
			if srcX >= src.W {
				srcX = src.W - 1
			}
			dst.Pix[y*dst.W+x] = src.Pix[srcY*src.W+srcX]
		}
	}
}
