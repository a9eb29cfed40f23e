package grip

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pollState is the per-frame bookkeeping for Update's ebiten polling.
type pollState struct {
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	touchX       [maxPointers]float64 // last seen positions, reported on release
	touchY       [maxPointers]float64
	mouseDown    bool
	mouseButton  MouseButton
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// Update polls ebiten's mouse, touch, and wheel state, feeds the multiplexer,
// and advances gesture timers. Call it once per frame from your
// ebiten.Game.Update. Applications feeding synthesized input through Mux()
// directly can skip Update and drive timers via their own clock.
func (m *Manager) Update() {
	if m.destroyed {
		return
	}
	mods := readModifiers()
	m.pollMouse(mods)
	m.pollTouches(mods)
	m.pollWheel(mods)
	m.tick(m.now())
}

// pollMouse handles mouse input (pointer 0).
func (m *Manager) pollMouse(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	var pressed bool
	var button MouseButton
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		pressed, button = true, MouseButtonLeft
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		pressed, button = true, MouseButtonRight
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		pressed, button = true, MouseButtonMiddle
	}

	switch {
	case pressed && !m.poll.mouseDown:
		m.poll.mouseDown = true
		m.poll.mouseButton = button
		m.mux.Press(0, x, y, PointerMouse, button, mods)
	case pressed && m.poll.mouseDown:
		// Keep the press-time button; the contact doesn't change identity
		// mid-stream.
		m.mux.Move(0, x, y, mods)
	case !pressed && m.poll.mouseDown:
		m.poll.mouseDown = false
		m.mux.Release(0, x, y, mods)
	default:
		m.mux.Hover(0, x, y, mods)
	}
}

// pollTouches handles touch input (pointers 1-9).
func (m *Manager) pollTouches(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(m.poll.prevTouchIDs[:0])
	m.poll.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := m.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		if p, ok := m.mux.Pointer(slot); ok && p.Down {
			m.mux.Move(slot, x, y, mods)
		} else {
			m.mux.Press(slot, x, y, PointerTouch, MouseButtonLeft, mods)
		}
		m.poll.touchX[slot], m.poll.touchY[slot] = x, y
	}

	// Release any touch slots that are no longer reported.
	for i := 1; i < maxPointers; i++ {
		if m.poll.touchUsed[i] && !activeSlots[i] {
			m.mux.Release(i, m.poll.touchX[i], m.poll.touchY[i], mods)
			m.poll.touchUsed[i] = false
			m.poll.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (m *Manager) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if m.poll.touchUsed[i] && m.poll.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !m.poll.touchUsed[i] {
			m.poll.touchUsed[i] = true
			m.poll.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// pollWheel forwards discrete wheel turns at the cursor position.
func (m *Manager) pollWheel(mods KeyModifiers) {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	m.mux.Wheel(float64(mx), float64(my), dx, dy, mods)
}
