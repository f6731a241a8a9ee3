package render

import (
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientGrid builds a grid whose pixel values encode their position,
// so window sampling can be checked exactly.
func gradientGrid(w, h int) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, colorful.Color{
				R: float64(x) / float64(w),
				G: float64(y) / float64(h),
			})
		}
	}
	return g
}

func TestApplyMotion_NoneIsCentered(t *testing.T) {
	src := gradientGrid(20, 10)
	dst := NewGrid(16, 6)

	ApplyMotion(src, dst, MotionNone, 0.5)

	// Margins are (20-16)/2 = 2 and (10-6)/2 = 2.
	assert.Equal(t, src.At(2, 2), dst.At(0, 0))
	assert.Equal(t, src.At(17, 7), dst.At(15, 5))
}

func TestApplyMotion_PanRight(t *testing.T) {
	src := gradientGrid(20, 10)
	dst := NewGrid(16, 6)

	ApplyMotion(src, dst, MotionPanRight, 0)
	assert.Equal(t, src.At(0, 2), dst.At(0, 0))

	ApplyMotion(src, dst, MotionPanRight, 1)
	assert.Equal(t, src.At(4, 2), dst.At(0, 0))
}

func TestApplyMotion_PanLeft(t *testing.T) {
	src := gradientGrid(20, 10)
	dst := NewGrid(16, 6)

	ApplyMotion(src, dst, MotionPanLeft, 0)
	assert.Equal(t, src.At(4, 2), dst.At(0, 0))

	ApplyMotion(src, dst, MotionPanLeft, 1)
	assert.Equal(t, src.At(0, 2), dst.At(0, 0))
}

func TestApplyMotion_ZoomEndsCentered(t *testing.T) {
	src := gradientGrid(20, 10)

	zoomed := NewGrid(16, 6)
	ApplyMotion(src, zoomed, MotionZoomIn, 1)

	centered := NewGrid(16, 6)
	ApplyMotion(src, centered, MotionNone, 0)

	// Zoom-in finishes on the exact centered 1:1 window.
	assert.Equal(t, centered.Pix, zoomed.Pix)

	// Zoom-out starts there instead.
	ApplyMotion(src, zoomed, MotionZoomOut, 0)
	assert.Equal(t, centered.Pix, zoomed.Pix)
}

func TestApplyMotion_NoMargins(t *testing.T) {
	src := gradientGrid(8, 4)
	dst := NewGrid(8, 4)

	for _, m := range []Motion{MotionNone, MotionPanRight, MotionPanLeft, MotionZoomIn, MotionZoomOut} {
		ApplyMotion(src, dst, m, 0.7)
		assert.Equal(t, src.Pix, dst.Pix, "motion %d with no overscan should copy through", m)
	}
}

func TestApplyMotion_ClampsProgress(t *testing.T) {
	src := gradientGrid(20, 10)
	a := NewGrid(16, 6)
	b := NewGrid(16, 6)

	ApplyMotion(src, a, MotionPanRight, -3)
	ApplyMotion(src, b, MotionPanRight, 0)
	assert.Equal(t, b.Pix, a.Pix)

	ApplyMotion(src, a, MotionPanRight, 42)
	ApplyMotion(src, b, MotionPanRight, 1)
	assert.Equal(t, b.Pix, a.Pix)
}

func TestRandomMotion(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	seen := map[Motion]bool{}
	for i := 0; i < 200; i++ {
		m := RandomMotion(r)
		require.NotEqual(t, MotionNone, m)
		seen[m] = true
	}
	assert.Len(t, seen, 4, "all four drift variants should come up")
}

func TestOverscanMargins(t *testing.T) {
	assert.Equal(t, 2, OverscanX(10))
	assert.Equal(t, 5, OverscanX(80))
	assert.Equal(t, 2, OverscanY(20))
	assert.Equal(t, 4, OverscanY(64))
}
