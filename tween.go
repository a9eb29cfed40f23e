package grip

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Surface simultaneously.
// It exists for the common follow-up to a gesture — snapping a dragged card
// back home, easing a zoomed view to a clean scale — without pulling in an
// animation framework. Create one via the convenience constructors
// (TweenPosition, TweenSize, TweenValues) and call Update(dt) each frame.
// If the target surface is disposed, the group stops immediately.
//
// There is no global animation manager — users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Surface
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target surface has been disposed, Done is set to true and
// no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition creates a TweenGroup that animates surface.X and surface.Y to
// the given target coordinates over the specified duration using the easing
// function.
func TweenPosition(s *Surface, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(s.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(s.Y), float32(toY), duration, fn)
	g.fields[0] = &s.X
	g.fields[1] = &s.Y
	return g
}

// TweenSize creates a TweenGroup that animates surface.Width and
// surface.Height to the given target extents over the specified duration
// using the easing function.
func TweenSize(s *Surface, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(s.Width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(s.Height), float32(toH), duration, fn)
	g.fields[0] = &s.Width
	g.fields[1] = &s.Height
	return g
}

// TweenValues creates a TweenGroup over arbitrary float64 fields — up to
// four (from, to) pairs animated in lockstep. Pass the surface whose
// lifecycle should gate the animation, or nil to run unconditionally.
func TweenValues(s *Surface, fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	n := len(fields)
	if len(to) < n {
		n = len(to)
	}
	if n > 4 {
		n = 4
	}
	g := &TweenGroup{count: n, target: s}
	for i := 0; i < n; i++ {
		g.tweens[i] = gween.New(float32(*fields[i]), float32(to[i]), duration, fn)
		g.fields[i] = fields[i]
	}
	return g
}
