package grip

import "time"

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// InputKind identifies a raw multiplexer notification.
type InputKind uint8

const (
	InputPress   InputKind = iota // pointer made contact
	InputMove                     // pointer position changed
	InputRelease                  // pointer lifted (sample still present with its final position)
	InputCancel                   // pointer contact aborted
	InputWheel                    // discrete wheel turn
	InputEnter                    // pointer crossed into a surface's hit region
	InputLeave                    // pointer crossed out of a surface's hit region
)

// RawEvent is a single normalized input event as delivered to recognizers.
// Recognizers that emit a gesture event may suppress the default action or
// further propagation of the raw event that produced it.
type RawEvent struct {
	Kind      InputKind
	PointerID int
	X, Y      float64
	WheelX    float64 // InputWheel only
	WheelY    float64 // InputWheel only
	Button    MouseButton
	Modifiers KeyModifiers
	Time      time.Time

	// Surface this event is attributed to: the captured surface for a down
	// pointer, otherwise the hit-tested surface under the pointer. May be nil.
	Surface *Surface

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault marks the originating input event as consumed. The embedding
// application can check DefaultPrevented after Manager.Update to skip its own
// handling (camera scroll, selection, ...).
func (e *RawEvent) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a recognizer consumed this event.
func (e *RawEvent) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents gesture events built from this input event from
// bubbling past their bound surface.
func (e *RawEvent) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether propagation was suppressed.
func (e *RawEvent) PropagationStopped() bool { return e.propagationStopped }

// Pointer is a read-only snapshot of one entry in the multiplexer's table.
// Recognizers receive copies; the table itself is owned by the Mux.
type Pointer struct {
	ID             int
	Kind           PointerKind
	X, Y           float64
	StartX, StartY float64 // position at press (or first hover sample)
	Button         MouseButton
	Surface        *Surface // captured at press, hover surface otherwise
	Down           bool     // liveness: false for hover samples and during the release pass
	Time           time.Time
}

// --- Mux ---

type muxSub struct {
	id uint32
	fn func(*RawEvent, []Pointer)
}

// Mux is the pointer input multiplexer: the single source of truth for what
// pointers are down, where, and on which surface. Every press/move/release/
// cancel/wheel feeds one synchronous FIFO notification pass across all
// subscribers; no batching or coalescing occurs.
type Mux struct {
	table map[int]*Pointer
	order []int // pointer ids in insertion order for deterministic snapshots

	captured map[int]*Surface // press-time capture, held until release/cancel
	hover    map[int]*Surface // last surface each pointer was over

	subs      []muxSub
	nextSub   uint32
	notifying int  // depth of in-flight notification passes
	subsDirty bool // a subscriber was torn down mid-pass

	// hitTest attributes a world position to a surface. Supplied by the
	// owning Manager; nil means no attribution.
	hitTest func(x, y float64) *Surface

	now func() time.Time

	snapBuf []Pointer // reused snapshot buffer
}

// NewMux creates an empty multiplexer. hitTest may be nil.
func NewMux(hitTest func(x, y float64) *Surface) *Mux {
	return &Mux{
		table:    make(map[int]*Pointer),
		captured: make(map[int]*Surface),
		hover:    make(map[int]*Surface),
		hitTest:  hitTest,
		now:      time.Now,
	}
}

// SetClock overrides the multiplexer's time source.
func (m *Mux) SetClock(now func() time.Time) {
	m.now = now
}

// Subscribe registers a handler for every notification pass and returns a
// function that unsubscribes it. Handlers run in subscription order.
func (m *Mux) Subscribe(fn func(*RawEvent, []Pointer)) (unsubscribe func()) {
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, muxSub{id: id, fn: fn})
	return func() {
		for i := range m.subs {
			if m.subs[i].id == id {
				if m.notifying > 0 {
					// Shifting entries under an in-flight pass would skip
					// the next subscriber; mark dead and compact after.
					m.subs[i].fn = nil
					m.subsDirty = true
					return
				}
				copy(m.subs[i:], m.subs[i+1:])
				m.subs[len(m.subs)-1] = muxSub{}
				m.subs = m.subs[:len(m.subs)-1]
				return
			}
		}
	}
}

// NumPointers returns the number of tracked pointer samples (including hover
// samples).
func (m *Mux) NumPointers() int {
	return len(m.table)
}

// Pointer returns a snapshot of the sample for id and whether it exists.
func (m *Mux) Pointer(id int) (Pointer, bool) {
	p, ok := m.table[id]
	if !ok {
		return Pointer{}, false
	}
	return *p, true
}

// Capture routes subsequent events for the pointer to the given surface,
// overriding hit testing. Press captures automatically; this is for callers
// that need to redirect mid-stream.
func (m *Mux) Capture(pointerID int, s *Surface) {
	m.captured[pointerID] = s
}

// ReleaseCapture stops routing events for pointerID to a captured surface.
func (m *Mux) ReleaseCapture(pointerID int) {
	delete(m.captured, pointerID)
}

// --- Feed methods ---

// Press records pointer contact at (x, y) and notifies subscribers. The
// attributed surface is captured for the pointer until release. A press for
// an identity that is already down is idempotent: the sample is refreshed in
// place and no duplicate entry is created.
func (m *Mux) Press(id int, x, y float64, kind PointerKind, button MouseButton, mods KeyModifiers) {
	target := m.attribute(id, x, y)

	p, exists := m.table[id]
	if exists && p.Down {
		// Idempotent double-press: refresh position only.
		p.X, p.Y = x, y
		p.Time = m.now()
		return
	}
	if !exists {
		p = &Pointer{ID: id}
		m.table[id] = p
		m.order = append(m.order, id)
	}
	p.Kind = kind
	p.X, p.Y = x, y
	p.StartX, p.StartY = x, y
	p.Button = button
	p.Surface = target
	p.Down = true
	p.Time = m.now()

	m.captured[id] = target
	// Boundary passes run after the sample is in the table so subscribers
	// see the pressed pointer.
	m.updateHover(id, x, y, target, mods)
	m.notify(&RawEvent{
		Kind: InputPress, PointerID: id, X: x, Y: y,
		Button: button, Modifiers: mods, Time: p.Time, Surface: target,
	})
}

// Move updates the sample for a down pointer in place and notifies
// subscribers. Unknown pointer identities are ignored.
func (m *Mux) Move(id int, x, y float64, mods KeyModifiers) {
	p, ok := m.table[id]
	if !ok || !p.Down {
		return
	}
	target := m.attribute(id, x, y)
	m.updateHover(id, x, y, target, mods)

	p.X, p.Y = x, y
	p.Surface = target
	p.Time = m.now()
	m.notify(&RawEvent{
		Kind: InputMove, PointerID: id, X: x, Y: y,
		Button: p.Button, Modifiers: mods, Time: p.Time, Surface: target,
	})
}

// Hover updates (or creates) a non-down sample for pointers that report
// position without contact — the mouse between clicks. Boundary transitions
// fire InputLeave/InputEnter passes; movement within a surface fires
// InputMove so hover-tracking recognizers can follow it.
func (m *Mux) Hover(id int, x, y float64, mods KeyModifiers) {
	p, ok := m.table[id]
	if ok && p.Down {
		// A down pointer has no hover stream.
		return
	}
	target := m.hitTestAt(x, y)
	if !ok {
		p = &Pointer{ID: id, X: x, Y: y, StartX: x, StartY: y}
		if id == 0 {
			p.Kind = PointerMouse
		} else {
			p.Kind = PointerTouch
		}
		m.table[id] = p
		m.order = append(m.order, id)
	}
	moved := p.X != x || p.Y != y
	p.X, p.Y = x, y
	p.Surface = target
	p.Down = false
	p.Time = m.now()

	prev := m.hover[id]
	m.updateHover(id, x, y, target, mods)
	// Movement within a surface fires InputMove; a sample that crossed a
	// boundary already fired enter/leave for it.
	if moved && target != nil && target == prev {
		m.notify(&RawEvent{
			Kind: InputMove, PointerID: id, X: x, Y: y,
			Modifiers: mods, Time: p.Time, Surface: target,
		})
	}
}

// Release reports the pointer lifting at (x, y). Subscribers are notified
// with the sample still present — marked not-down but holding its final
// position — then the sample is removed and capture released. Unknown
// identities are ignored.
func (m *Mux) Release(id int, x, y float64, mods KeyModifiers) {
	m.endContact(id, x, y, mods, InputRelease)
}

// Cancel aborts the pointer's contact. Same table semantics as Release with
// an InputCancel notification.
func (m *Mux) Cancel(id int, x, y float64, mods KeyModifiers) {
	m.endContact(id, x, y, mods, InputCancel)
}

func (m *Mux) endContact(id int, x, y float64, mods KeyModifiers, kind InputKind) {
	p, ok := m.table[id]
	if !ok || !p.Down {
		return
	}
	target := m.attribute(id, x, y)
	p.X, p.Y = x, y
	p.Surface = target
	p.Down = false // final position stays visible for this pass
	p.Time = m.now()

	m.notify(&RawEvent{
		Kind: kind, PointerID: id, X: x, Y: y,
		Button: p.Button, Modifiers: mods, Time: p.Time, Surface: target,
	})

	m.remove(id)
	delete(m.captured, id)
	if prev := m.hover[id]; prev != nil {
		m.notifyBoundary(InputLeave, id, x, y, mods, prev)
	}
	delete(m.hover, id)
}

// Wheel reports a discrete wheel turn at (x, y) and notifies subscribers.
// The event is attributed to the surface under the position.
func (m *Mux) Wheel(x, y, dx, dy float64, mods KeyModifiers) *RawEvent {
	ev := &RawEvent{
		Kind: InputWheel, PointerID: 0, X: x, Y: y,
		WheelX: dx, WheelY: dy,
		Modifiers: mods, Time: m.now(), Surface: m.hitTestAt(x, y),
	}
	m.notify(ev)
	return ev
}

// Reset drops every sample, capture, and hover record without notifying.
// Used by forced-cancel paths after recognizers have been cancelled.
func (m *Mux) Reset() {
	for id := range m.table {
		delete(m.table, id)
	}
	m.order = m.order[:0]
	for id := range m.captured {
		delete(m.captured, id)
	}
	for id := range m.hover {
		delete(m.hover, id)
	}
}

// --- Internals ---

// attribute resolves the surface for a pointer position: the captured
// surface when present, the hit-tested surface otherwise.
func (m *Mux) attribute(id int, x, y float64) *Surface {
	if s, ok := m.captured[id]; ok && s != nil {
		return s
	}
	return m.hitTestAt(x, y)
}

func (m *Mux) hitTestAt(x, y float64) *Surface {
	if m.hitTest == nil {
		return nil
	}
	return m.hitTest(x, y)
}

// updateHover fires leave/enter boundary passes when the surface under the
// pointer changes.
func (m *Mux) updateHover(id int, x, y float64, target *Surface, mods KeyModifiers) {
	prev := m.hover[id]
	if target == prev {
		return
	}
	if prev != nil {
		m.notifyBoundary(InputLeave, id, x, y, mods, prev)
	}
	if target != nil {
		m.notifyBoundary(InputEnter, id, x, y, mods, target)
	}
	if target != nil {
		m.hover[id] = target
	} else {
		delete(m.hover, id)
	}
}

func (m *Mux) notifyBoundary(kind InputKind, id int, x, y float64, mods KeyModifiers, s *Surface) {
	m.notify(&RawEvent{
		Kind: kind, PointerID: id, X: x, Y: y,
		Modifiers: mods, Time: m.now(), Surface: s,
	})
}

// notify builds one consistent table snapshot and runs every subscriber
// against it, in subscription order. No subscriber can observe a partially
// updated table.
func (m *Mux) notify(ev *RawEvent) {
	m.snapBuf = m.snapBuf[:0]
	for _, id := range m.order {
		if p, ok := m.table[id]; ok {
			m.snapBuf = append(m.snapBuf, *p)
		}
	}
	// Handlers that unsubscribe mid-pass only mark their entry dead, so the
	// iteration never shifts; the list compacts once the outermost pass is
	// done. Subscribers added mid-pass sit past n and miss this event.
	m.notifying++
	n := len(m.subs)
	for i := 0; i < n; i++ {
		if fn := m.subs[i].fn; fn != nil {
			fn(ev, m.snapBuf)
		}
	}
	m.notifying--
	if m.notifying == 0 && m.subsDirty {
		m.subsDirty = false
		live := m.subs[:0]
		for _, sub := range m.subs {
			if sub.fn != nil {
				live = append(live, sub)
			}
		}
		for i := len(live); i < len(m.subs); i++ {
			m.subs[i] = muxSub{}
		}
		m.subs = live
	}
}

func (m *Mux) remove(id int) {
	delete(m.table, id)
	for i, v := range m.order {
		if v == id {
			copy(m.order[i:], m.order[i+1:])
			m.order = m.order[:len(m.order)-1]
			return
		}
	}
}
