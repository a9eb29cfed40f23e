package grip

// wheelGesture turns discrete wheel input into single-phase events. Each
// wheel turn yields exactly one event — wheel input has no natural start or
// end. The effective delta is the raw vertical delta scaled by sensitivity
// and, unless WheelNatural is set, sign-flipped so wheel-up reads positive.
// The accumulator is clamped to [WheelMin, WheelMax] after each update, never
// per-delta, and can be seeded through WheelInitialDelta.
type wheelGesture struct {
	gestureBase

	seeded bool
}

func newWheelGesture() *wheelGesture { return &wheelGesture{} }

func (g *wheelGesture) handleInput(ev *RawEvent, table []Pointer) {
	if g.dead || ev.Kind != InputWheel || !g.matches(ev.Surface) {
		return
	}
	if g.shouldSuppress() {
		return
	}
	if !g.seeded {
		g.st.TotalWheelDelta += g.opts.WheelInitialDelta
		g.seeded = true
	}

	sign := -1.0
	if g.opts.WheelNatural {
		sign = 1.0
	}
	delta := ev.WheelY * g.opts.WheelSensitivity * sign

	g.st.TotalWheelDelta += delta
	if g.opts.WheelMin < g.opts.WheelMax {
		if g.st.TotalWheelDelta > g.opts.WheelMax {
			g.st.TotalWheelDelta = g.opts.WheelMax
		} else if g.st.TotalWheelDelta < g.opts.WheelMin {
			g.st.TotalWheelDelta = g.opts.WheelMin
		}
	}
	g.st.LastX, g.st.LastY = ev.X, ev.Y

	// Active only for the duration of the recognized turn itself.
	g.setActive(true)
	e := g.newEvent(PhaseOngoing, ev, nil)
	e.CenterX, e.CenterY = ev.X, ev.Y
	e.WheelDelta = delta
	e.TotalWheelDelta = g.st.TotalWheelDelta
	g.send(e)
	g.setActive(false)
}

func (g *wheelGesture) forceCancel() {}

func (g *wheelGesture) teardown() {
	g.teardownBase()
}
