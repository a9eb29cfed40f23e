package grip

// pinchGesture recognizes multi-pointer scaling. Distance is the mean
// pairwise distance over all contributing pointers, so pinches with more than
// two contacts work the same way as two-finger pinches.
//
// Session scale is tracked incrementally (dist / lastDist folded into a
// running factor), so lifting one of three fingers only resets the distance
// baseline — the reported scale stays continuous with no jump.
type pinchGesture struct {
	gestureBase

	baselined    bool
	startDist    float64
	lastDist     float64
	sessionScale float64 // current / activation distance, rebaseline-proof
	lastStep     float64 // sign of the latest scale delta
	ptrBuf       []Pointer
}

func newPinchGesture() *pinchGesture { return &pinchGesture{} }

func (g *pinchGesture) handleInput(ev *RawEvent, table []Pointer) {
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

func (g *pinchGesture) minRequired() int {
	// Scaling needs geometry: never fewer than two pointers.
	if g.opts.MinPointers > 2 {
		return g.opts.MinPointers
	}
	return 2
}

func (g *pinchGesture) onPress(ev *RawEvent, table []Pointer) {
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
		// A pointer joined mid-gesture: rebaseline the distance so the
		// next sample continues from the current scale.
		g.lastDist = meanPairwiseDistance(ps)
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}
	if n < g.minRequired() {
		return
	}
	if g.baselined {
		// Pointer joined before activation: the geometry changed, so the
		// distance baseline follows it.
		g.lastDist = meanPairwiseDistance(ps)
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}
	g.startDist = meanPairwiseDistance(ps)
	g.lastDist = g.startDist
	g.sessionScale = 1
	cx, cy := centroid(ps)
	g.st.StartX, g.st.StartY = cx, cy
	g.st.LastX, g.st.LastY = cx, cy
	g.st.startTime = ev.Time
	g.baselined = true
}

func (g *pinchGesture) onMove(ev *RawEvent, table []Pointer) {
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
	dist := meanPairwiseDistance(ps)
	if dist <= 0 || g.lastDist <= 0 {
		return
	}
	step := dist / g.lastDist
	g.lastDist = dist

	prevScale := g.sessionScale
	g.sessionScale *= step

	cx, cy := centroid(ps)
	g.st.LastX, g.st.LastY = cx, cy

	switch {
	case g.sessionScale > prevScale:
		g.lastStep = 1
	case g.sessionScale < prevScale:
		g.lastStep = -1
	default:
		g.lastStep = 0
	}

	if !g.st.Active {
		if abs(g.sessionScale-1) < g.opts.Threshold {
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

func (g *pinchGesture) onRelease(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	remaining := len(ps)

	if !g.st.Active {
		if remaining < g.minRequired() {
			g.baselined = false
		} else if g.baselined {
			g.lastDist = meanPairwiseDistance(ps)
		}
		return
	}
	if remaining >= g.minRequired() {
		// Partial release: only the distance baseline resets; sessionScale
		// carries forward so the next ongoing event shows no jump.
		g.lastDist = meanPairwiseDistance(ps)
		g.st.LastX, g.st.LastY = centroid(ps)
		return
	}

	g.emitPhase(PhaseEnd, ev, ps, g.st.LastX, g.st.LastY)
	g.st.TotalScale *= g.sessionScale
	g.setActive(false)
	g.baselined = false
}

func (g *pinchGesture) emitPhase(phase Phase, raw *RawEvent, ps []Pointer, cx, cy float64) {
	e := g.newEvent(phase, raw, ps)
	e.CenterX, e.CenterY = cx, cy
	e.Scale = g.sessionScale
	e.TotalScale = g.st.TotalScale * g.sessionScale
	e.ScaleDirection = int(g.lastStep)
	g.st.lastTime = e.Time
	g.send(e)
}

func (g *pinchGesture) cancelNow(raw *RawEvent, ps []Pointer) {
	e := g.newEvent(PhaseCancel, raw, ps)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.Scale = g.sessionScale
	e.TotalScale = g.st.TotalScale * g.sessionScale
	g.st.TotalScale *= g.sessionScale
	// Deactivate after dispatch so the cancel snapshot shows the gesture.
	g.send(e)
	g.setActive(false)
	g.baselined = false
}

func (g *pinchGesture) forceCancel() {
	if !g.st.Active {
		g.baselined = false
		return
	}
	g.cancelNow(nil, nil)
}

func (g *pinchGesture) teardown() {
	g.teardownBase()
}
