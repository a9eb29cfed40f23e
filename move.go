package grip

// moveGesture tracks a pointer hovering over the bound surface. Activation is
// boundary-driven: entering the surface starts the gesture, movement inside
// keeps it ongoing, leaving ends it. There is no distance threshold and no
// accumulation.
type moveGesture struct {
	gestureBase
}

func newMoveGesture() *moveGesture { return &moveGesture{} }

func (g *moveGesture) handleInput(ev *RawEvent, table []Pointer) {
	if g.dead || !g.matches(ev.Surface) {
		return
	}
	switch ev.Kind {
	case InputEnter:
		g.onEnter(ev, table)
	case InputMove:
		g.onInsideMove(ev, table)
	case InputLeave:
		g.onLeave(ev)
	}
}

// onSurface counts pointers attributed to the bound surface, hovering or
// down.
func (g *moveGesture) onSurface(table []Pointer) int {
	n := 0
	for _, p := range table {
		if g.matches(p.Surface) {
			n++
		}
	}
	return n
}

func (g *moveGesture) onEnter(ev *RawEvent, table []Pointer) {
	if g.st.Active {
		return
	}
	n := g.onSurface(table)
	if n < g.opts.MinPointers || n > g.opts.MaxPointers {
		return
	}
	if g.shouldSuppress() {
		return
	}
	g.st.StartX, g.st.StartY = ev.X, ev.Y
	g.st.LastX, g.st.LastY = ev.X, ev.Y
	g.st.startTime = ev.Time
	g.setActive(true)
	g.emitPhase(PhaseStart, ev)
}

func (g *moveGesture) onInsideMove(ev *RawEvent, table []Pointer) {
	if !g.st.Active {
		return
	}
	g.st.LastX, g.st.LastY = ev.X, ev.Y
	// An excluded gesture (say, a pan in progress) mutes emissions for as
	// long as it stays active; tracking continues underneath.
	if g.shouldSuppress() {
		return
	}
	g.emitPhase(PhaseOngoing, ev)
}

func (g *moveGesture) onLeave(ev *RawEvent) {
	if !g.st.Active {
		return
	}
	g.st.LastX, g.st.LastY = ev.X, ev.Y
	if !g.shouldSuppress() {
		g.emitPhase(PhaseEnd, ev)
	}
	g.setActive(false)
}

func (g *moveGesture) emitPhase(phase Phase, raw *RawEvent) {
	e := g.newEvent(phase, raw, nil)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.DeltaX = g.st.LastX - g.st.StartX
	e.DeltaY = g.st.LastY - g.st.StartY
	g.st.lastTime = e.Time
	g.send(e)
}

func (g *moveGesture) forceCancel() {
	if !g.st.Active {
		return
	}
	e := g.newEvent(PhaseCancel, nil, nil)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	g.send(e)
	g.setActive(false)
}

func (g *moveGesture) teardown() {
	g.teardownBase()
}
