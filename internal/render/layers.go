package render

import "time"

// Layers holds the on-screen artwork and, during a cross-fade, the
// incoming one. The incoming grid is promoted to active once the fade
// reaches full opacity, so at most one fade is ever in flight.
type Layers struct {
	active *Grid
	next   *Grid
	alpha  float64
	fading bool
}

// SetActive replaces the visible artwork immediately and cancels any
// fade in progress.
func (l *Layers) SetActive(g *Grid) {
	l.active = g
	l.next = nil
	l.alpha = 0
	l.fading = false
}

// ArmNext stages the incoming artwork for a cross-fade starting at
// alpha 0.
func (l *Layers) ArmNext(g *Grid) {
	l.next = g
	l.alpha = 0
	l.fading = true
}

// SetCrossfade sets the mix alpha in [0, 1]. At 1 the incoming grid is
// promoted to active and fading stops.
func (l *Layers) SetCrossfade(alpha float64) {
	switch {
	case alpha <= 0:
		l.alpha = 0
	case alpha >= 1:
		l.alpha = 1
		l.fading = false
		if l.next != nil {
			l.active = l.next
		}
		l.next = nil
	default:
		l.alpha = alpha
		l.fading = true
	}
}

// Fading reports whether a cross-fade is in progress.
func (l *Layers) Fading() bool {
	return l.fading
}

// Active returns the current base artwork, which may be nil before the
// first image arrives.
func (l *Layers) Active() *Grid {
	return l.active
}

// Next returns the staged artwork, or nil outside a fade.
func (l *Layers) Next() *Grid {
	return l.next
}

// Compose blends the layers into dst at the current alpha. With no
// fade in progress the active grid is copied through.
func (l *Layers) Compose(dst *Grid) {
	if l.active == nil {
		return
	}
	if !l.fading || l.next == nil {
		copy(dst.Pix, l.active.Pix)
		return
	}
	Blend(dst, l.active, l.next, l.alpha)
}

// Progress maps elapsed time onto [0, 1] over the given duration.
// A non-positive duration counts as already complete.
func Progress(now, start time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	p := float64(now.Sub(start)) / float64(d)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// EaseInOutQuad accelerates through the first half of a transition and
// decelerates through the second.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}
