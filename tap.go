package grip

import "time"

// tapGesture recognizes one or more press/release sequences. A sequence
// aborts if the pointer wanders past MaxDistance; between taps the next press
// must arrive within TapInterval or the count silently resets to zero.
type tapGesture struct {
	gestureBase

	pressed  bool
	count    int
	deadline time.Time // inter-tap window; zero means no pending window
	ptrBuf   []Pointer
}

func newTapGesture() *tapGesture { return &tapGesture{} }

func (g *tapGesture) handleInput(ev *RawEvent, table []Pointer) {
	if g.dead {
		return
	}
	switch ev.Kind {
	case InputPress:
		g.onPress(ev, table)
	case InputMove:
		g.onMove(ev, table)
	case InputRelease:
		g.onRelease(ev, table)
	case InputCancel:
		if g.pressed || g.count > 0 {
			g.cancelNow(ev)
		}
	}
}

func (g *tapGesture) onPress(ev *RawEvent, table []Pointer) {
	// The window may have lapsed without a tick in between; expire it lazily.
	if !g.deadline.IsZero() && ev.Time.After(g.deadline) {
		g.expireWindow()
	}

	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	n := len(ps)

	if n > g.opts.MaxPointers {
		if g.pressed || g.count > 0 {
			g.cancelNow(ev)
		}
		return
	}
	if g.pressed || n < g.opts.MinPointers {
		// All required pointers must be down together before the tap arms.
		return
	}
	if g.count == 0 && g.shouldSuppress() {
		return
	}
	g.pressed = true
	g.deadline = time.Time{}
	cx, cy := centroid(ps)
	if g.count == 0 {
		g.st.StartX, g.st.StartY = cx, cy
		g.st.startTime = ev.Time
	}
	g.st.LastX, g.st.LastY = cx, cy
	g.setActive(true)
}

func (g *tapGesture) onMove(ev *RawEvent, table []Pointer) {
	if !g.pressed {
		return
	}
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	if len(ps) == 0 {
		return
	}
	cx, cy := centroid(ps)
	g.st.LastX, g.st.LastY = cx, cy
	if hypot(cx-g.st.StartX, cy-g.st.StartY) > g.opts.MaxDistance {
		g.cancelNow(ev)
	}
}

func (g *tapGesture) onRelease(ev *RawEvent, table []Pointer) {
	if !g.pressed {
		return
	}
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	if len(ps) > 0 {
		// Not all pointers lifted yet.
		return
	}
	g.pressed = false
	g.count++
	g.st.TapCount = g.count

	if g.count >= g.opts.Taps {
		e := g.newEvent(PhaseOngoing, ev, nil)
		e.CenterX, e.CenterY = ev.X, ev.Y
		e.TapCount = g.count
		// Reset after dispatch: the event's registry snapshot still shows
		// the sequence active.
		g.send(e)
		g.reset()
		return
	}
	// Wait for the next tap of the sequence.
	g.deadline = ev.Time.Add(g.opts.TapInterval)
}

func (g *tapGesture) tick(now time.Time) {
	if !g.deadline.IsZero() && !now.Before(g.deadline) {
		g.expireWindow()
	}
}

// expireWindow silently resets a lapsed tap sequence. No event fires.
func (g *tapGesture) expireWindow() {
	g.deadline = time.Time{}
	g.count = 0
	g.st.TapCount = 0
	g.pressed = false
	g.setActive(false)
}

// cancelNow aborts the sequence with a cancel event carrying TapCount 0.
func (g *tapGesture) cancelNow(raw *RawEvent) {
	e := g.newEvent(PhaseCancel, raw, nil)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.TapCount = 0
	g.send(e)
	g.reset()
}

func (g *tapGesture) reset() {
	g.pressed = false
	g.count = 0
	g.st.TapCount = 0
	g.deadline = time.Time{}
	g.setActive(false)
}

func (g *tapGesture) forceCancel() {
	if g.pressed || g.count > 0 {
		g.cancelNow(nil)
		return
	}
	g.reset()
}

func (g *tapGesture) teardown() {
	g.deadline = time.Time{}
	g.teardownBase()
}
