package grip

// panGesture recognizes single- or multi-pointer drags. Movement must exceed
// the threshold in an allowed direction before the gesture starts; totals
// accumulate across start/end cycles for cumulative drag tracking.
type panGesture struct {
	gestureBase

	baselined bool // geometry recorded, waiting for threshold
	ptrBuf    []Pointer
}

func newPanGesture() *panGesture { return &panGesture{} }

func (g *panGesture) handleInput(ev *RawEvent, table []Pointer) {
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

func (g *panGesture) onPress(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	n := len(ps)

	if n > g.opts.MaxPointers {
		if g.st.Active {
			g.cancelNow(ev, ps)
		} else {
			// Too many contacts before activation: the baseline is void and
			// a valid count must form again from scratch.
			g.baselined = false
		}
		return
	}
	if n < g.opts.MinPointers {
		return
	}
	if g.st.Active {
		// Pointer joined mid-gesture: shift the reference so the centroid
		// change doesn't read as movement.
		cx, cy := centroid(ps)
		g.st.StartX += cx - g.st.LastX
		g.st.StartY += cy - g.st.LastY
		g.st.LastX, g.st.LastY = cx, cy
		return
	}
	// Baseline (or rebaseline after a pre-activation join).
	cx, cy := centroid(ps)
	g.st.StartX, g.st.StartY = cx, cy
	g.st.LastX, g.st.LastY = cx, cy
	g.st.startTime = ev.Time
	g.baselined = true
}

func (g *panGesture) onMove(ev *RawEvent, table []Pointer) {
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
	if !g.baselined || len(ps) < g.opts.MinPointers {
		return
	}
	cx, cy := centroid(ps)
	stepX := cx - g.st.LastX
	stepY := cy - g.st.LastY

	if !g.st.Active {
		dx := cx - g.st.StartX
		dy := cy - g.st.StartY
		if hypot(dx, dy) < g.opts.Threshold {
			return
		}
		if !g.opts.Directions.Has(classifyDirection(dx, dy)) {
			// Wrong-direction movement never starts the gesture; keep the
			// baseline so a later qualifying direction still can.
			return
		}
		if g.shouldSuppress() {
			return
		}
		g.setActive(true)
		g.accumulate(cx, cy)
		g.emitPhase(PhaseStart, ev, ps, cx, cy, dx, dy)
		return
	}

	g.accumulate(cx, cy)
	g.emitPhase(PhaseOngoing, ev, ps, cx, cy, stepX, stepY)
}

func (g *panGesture) onRelease(ev *RawEvent, table []Pointer) {
	ps := g.contributing(table, g.ptrBuf[:0])
	g.ptrBuf = ps
	remaining := len(ps)

	if !g.st.Active {
		if remaining < g.opts.MinPointers {
			g.baselined = false
		}
		return
	}
	if remaining >= g.opts.MinPointers {
		// Partial release: rebaseline the centroid over the survivors so
		// the next ongoing event reports no jump. Totals are untouched.
		cx, cy := centroid(ps)
		g.st.StartX, g.st.StartY = cx, cy
		g.st.LastX, g.st.LastY = cx, cy
		g.st.startTime = ev.Time
		return
	}

	g.emitPhase(PhaseEnd, ev, ps, g.st.LastX, g.st.LastY, 0, 0)
	g.setActive(false)
	g.baselined = false
}

// accumulate folds the movement since the last sample into the running
// totals. Totals persist across sessions by design.
func (g *panGesture) accumulate(cx, cy float64) {
	g.st.TotalDeltaX += cx - g.st.LastX
	g.st.TotalDeltaY += cy - g.st.LastY
	g.st.LastX, g.st.LastY = cx, cy
}

// emitPhase sends one pan event. stepX/stepY is the movement classified into
// the event's Direction (the latest delta, not the session displacement).
func (g *panGesture) emitPhase(phase Phase, raw *RawEvent, ps []Pointer, cx, cy, stepX, stepY float64) {
	e := g.newEvent(phase, raw, ps)
	e.CenterX, e.CenterY = cx, cy
	e.DeltaX = cx - g.st.StartX
	e.DeltaY = cy - g.st.StartY
	e.TotalDeltaX = g.st.TotalDeltaX
	e.TotalDeltaY = g.st.TotalDeltaY
	e.Direction = classifyDirection(stepX, stepY)
	if elapsed := e.Time.Sub(g.st.startTime).Seconds(); elapsed > 0 {
		e.VelocityX = e.DeltaX / elapsed
		e.VelocityY = e.DeltaY / elapsed
	}
	g.st.lastTime = e.Time
	g.send(e)
}

// cancelNow aborts the gesture at the last known centroid, used for
// pointer-count violations and forced resets.
func (g *panGesture) cancelNow(raw *RawEvent, ps []Pointer) {
	e := g.newEvent(PhaseCancel, raw, ps)
	e.CenterX, e.CenterY = g.st.LastX, g.st.LastY
	e.TotalDeltaX = g.st.TotalDeltaX
	e.TotalDeltaY = g.st.TotalDeltaY
	// Deactivate after dispatch: the cancel event's registry snapshot still
	// shows the gesture active, matching the End path.
	g.send(e)
	g.setActive(false)
	g.baselined = false
}

func (g *panGesture) forceCancel() {
	if !g.st.Active {
		g.baselined = false
		return
	}
	g.cancelNow(nil, nil)
}

func (g *panGesture) teardown() {
	g.teardownBase()
}
