package grip

import "time"

// pressGesture recognizes a timed hold. Nothing is emitted until the pointer
// has stayed within MaxDistance for PressDuration; after activation it
// reports ongoing events (with elapsed duration) each frame and on movement,
// then ends on release.
type pressGesture struct {
	gestureBase

	pressed   bool
	activated bool
	deadline  time.Time // activation deadline; zero means no pending timer
	ptrBuf    []Pointer
}

func newPressGesture() *pressGesture { return &pressGesture{} }

func (g *pressGesture) handleInput(ev *RawEvent, table []Pointer) {
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
		g.abort(ev)
	}
}

func (g *pressGesture) onPress(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	n := len(ps)

	if n > g.opts.MaxPointers {
		g.abort(ev)
		return
	}
	if g.pressed || n < g.opts.MinPointers {
		return
	}
	g.pressed = true
	cx, cy := centroid(ps)
	g.st.StartX, g.st.StartY = cx, cy
	g.st.LastX, g.st.LastY = cx, cy
	g.st.startTime = ev.Time
	g.deadline = ev.Time.Add(g.opts.PressDuration)
}

func (g *pressGesture) onMove(ev *RawEvent, table []Pointer) {
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
		// Excess movement: cancel if already activated, otherwise the hold
		// simply never happened.
		g.abort(ev)
		return
	}
	if g.activated {
		g.emitPhase(PhaseOngoing, ev, ps, ev.Time)
	}
}

func (g *pressGesture) onRelease(ev *RawEvent, table []Pointer) {
	if !g.pressed {
		return
	}
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	if len(ps) >= g.opts.MinPointers {
		return
	}
	if g.activated {
		g.emitPhase(PhaseEnd, ev, ps, ev.Time)
	}
	g.reset()
}

func (g *pressGesture) tick(now time.Time) {
	if g.pressed && !g.activated && !g.deadline.IsZero() && !now.Before(g.deadline) {
		g.deadline = time.Time{}
		if g.shouldSuppress() {
			g.reset()
			return
		}
		g.activated = true
		g.setActive(true)
		g.emitPhase(PhaseStart, nil, nil, now)
		return
	}
	if g.activated {
		// Frame-cadence ongoing events carry the growing hold duration.
		g.emitPhase(PhaseOngoing, nil, nil, now)
	}
}

func (g *pressGesture) emitPhase(phase Phase, raw *RawEvent, ps []Pointer, at time.Time) {
	e := g.newEvent(phase, raw, ps)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.Time = at
	e.Duration = at.Sub(g.st.startTime)
	g.st.lastTime = at
	g.send(e)
}

// abort cancels an activated press or silently discards a pending one.
func (g *pressGesture) abort(raw *RawEvent) {
	if g.activated {
		at := g.man.now()
		if raw != nil {
			at = raw.Time
		}
		e := g.newEvent(PhaseCancel, raw, nil)
		e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
		e.Time = at
		e.Duration = at.Sub(g.st.startTime)
		g.send(e)
		g.reset()
		return
	}
	g.reset()
}

func (g *pressGesture) reset() {
	g.pressed = false
	g.activated = false
	g.deadline = time.Time{}
	g.setActive(false)
}

func (g *pressGesture) forceCancel() {
	g.abort(nil)
}

func (g *pressGesture) teardown() {
	g.deadline = time.Time{}
	g.teardownBase()
}
