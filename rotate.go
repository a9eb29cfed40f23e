package grip

// rotateGesture recognizes two-pointer rotation. The angle is taken from the
// vector between the first two contributing pointers; per-sample deltas are
// wrapped to the shortest arc, so crossing the 359°→0° boundary reports a
// delta near zero and the session rotation tracks the true signed change,
// accumulating past a full revolution if the fingers keep turning.
type rotateGesture struct {
	gestureBase

	baselined       bool
	lastAngle       float64 // degrees, angle between the first two pointers
	sessionRotation float64 // degrees accumulated since activation baseline
	lastDelta       float64 // latest wrapped per-sample delta
	ptrBuf          []Pointer
}

func newRotateGesture() *rotateGesture { return &rotateGesture{} }

func (g *rotateGesture) handleInput(ev *RawEvent, table []Pointer) {
	if g.dead {
		return
	}
	switch ev.Kind {
	case InputPress:
		g.onPress(ev, table)
	case InputMove:
		g.onMove(ev, table)
	case InputRelease, InputCancel:
		g.onRelease(ev, table)
	}
}

func (g *rotateGesture) minRequired() int {
	if g.opts.MinPointers > 2 {
		return g.opts.MinPointers
	}
	return 2
}

func (g *rotateGesture) onPress(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	n := len(ps)

	if n > g.opts.MaxPointers {
		if g.st.Active {
			g.cancelNow(ev, ps)
		} else {
			g.baselined = false
		}
		return
	}
	if g.st.Active {
		// New pointer mid-gesture: the reference pair may have changed, so
		// re-anchor the angle baseline without touching the accumulation.
		g.lastAngle = angleBetween(ps[0], ps[1])
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}
	if n < g.minRequired() {
		return
	}
	if g.baselined {
		// Pointer joined before activation: re-anchor the angle baseline.
		g.lastAngle = angleBetween(ps[0], ps[1])
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}
	g.lastAngle = angleBetween(ps[0], ps[1])
	g.sessionRotation = 0
	cx, cy := centroid(ps)
	g.st.StartX, g.st.StartY = cx, cy
	g.st.LastX, g.st.LastY = cx, cy
	g.st.startTime = ev.Time
	g.baselined = true
}

func (g *rotateGesture) onMove(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	if len(ps) > g.opts.MaxPointers {
		if g.st.Active {
			g.cancelNow(ev, ps)
		} else {
			g.baselined = false
		}
		return
	}
	if !g.baselined || len(ps) < g.minRequired() {
		return
	}
	angle := angleBetween(ps[0], ps[1])
	delta := wrapAngle(angle - g.lastAngle)
	g.lastAngle = angle
	g.sessionRotation += delta
	g.lastDelta = delta

	cx, cy := centroid(ps)
	g.st.LastX, g.st.LastY = cx, cy

	if !g.st.Active {
		if abs(g.sessionRotation) < g.opts.Threshold {
			return
		}
		if g.shouldSuppress() {
			return
		}
		g.setActive(true)
		g.emitPhase(PhaseStart, ev, ps, cx, cy)
		return
	}
	g.emitPhase(PhaseOngoing, ev, ps, cx, cy)
}

func (g *rotateGesture) onRelease(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	remaining := len(ps)

	if !g.st.Active {
		if remaining < g.minRequired() {
			g.baselined = false
		} else if g.baselined {
			g.lastAngle = angleBetween(ps[0], ps[1])
		}
		return
	}
	if remaining >= g.minRequired() {
		// Partial release: re-anchor the angle only; the session rotation
		// carries forward so the next ongoing event shows no jump.
		g.lastAngle = angleBetween(ps[0], ps[1])
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}

	g.emitPhase(PhaseEnd, ev, ps, g.st.LastX, g.st.LastY)
	g.st.TotalRotation += g.sessionRotation
	g.setActive(false)
	g.baselined = false
}

func (g *rotateGesture) emitPhase(phase Phase, raw *RawEvent, ps []Pointer, cx, cy float64) {
	e := g.newEvent(phase, raw, ps)
	e.CenterX, e.CenterY = cx, cy
	e.Rotation = g.sessionRotation
	e.RotationDelta = g.lastDelta
	e.TotalRotation = g.st.TotalRotation + g.sessionRotation
	g.st.lastTime = e.Time
	g.send(e)
}

func (g *rotateGesture) cancelNow(raw *RawEvent, ps []Pointer) {
	e := g.newEvent(PhaseCancel, raw, ps)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.Rotation = g.sessionRotation
	e.TotalRotation = g.st.TotalRotation + g.sessionRotation
	g.st.TotalRotation += g.sessionRotation
	// Deactivate after dispatch so the cancel snapshot shows the gesture.
	g.send(e)
	g.setActive(false)
	g.baselined = false
}

func (g *rotateGesture) forceCancel() {
	if !g.st.Active {
		g.baselined = false
		return
	}
	g.cancelNow(nil, nil)
}

func (g *rotateGesture) teardown() {
	g.teardownBase()
}
