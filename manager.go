package grip

import (
	"fmt"
	"os"
	"time"
)

// warnf prints a non-fatal diagnostic to stderr.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[grip] warning: "+format+"\n", args...)
}

type bindKey struct {
	name    string
	surface *Surface
}

// Manager holds the gesture templates, binds them to surfaces, and owns the
// multiplexer and active-gesture registry. All recognition runs synchronously
// inside the feed calls; the only time-driven behavior (tap windows, press
// delays) advances through Update/tick. A Manager must be used from a single
// goroutine.
type Manager struct {
	root      *Surface
	mux       *Mux
	registry  *activeRegistry
	templates map[string]Options
	instances map[bindKey]recognizer
	order     []bindKey

	now       func() time.Time
	hitBuf    []*Surface
	poll      pollState // live ebiten input bookkeeping (input.go)
	destroyed bool
}

// NewManager creates a manager with an empty root surface. Surfaces added
// under Root() participate in hit testing; gesture events bubble up to it,
// so handlers registered on Root() observe every surface's gestures.
func NewManager() *Manager {
	m := &Manager{
		root:      NewSurface("root", Rect{}),
		registry:  newActiveRegistry(),
		templates: make(map[string]Options),
		instances: make(map[bindKey]recognizer),
		now:       time.Now,
	}
	m.mux = NewMux(m.hitTestWorld)
	return m
}

// Root returns the manager's root surface.
func (m *Manager) Root() *Surface { return m.root }

// Mux returns the pointer multiplexer, for callers that feed synthesized or
// platform-specific input instead of (or in addition to) Update's polling.
func (m *Manager) Mux() *Mux { return m.mux }

// SetClock overrides the time source used for event stamps and gesture
// timers.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
	m.mux.SetClock(now)
}

// hitTestWorld finds the topmost interactable surface at (x, y), or nil.
func (m *Manager) hitTestWorld(x, y float64) *Surface {
	m.hitBuf = collectInteractable(m.root, m.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost surface first.
	for i := len(m.hitBuf) - 1; i >= 0; i-- {
		s := m.hitBuf[i]
		if s.containsWorld(x, y) {
			return s
		}
	}
	return nil
}

// --- Templates ---

// Register stores a gesture template under name. The template is a plain
// configuration value; binding copies it, so later Register calls replace
// the template without touching live instances.
func (m *Manager) Register(name string, opts Options) {
	opts.Name = name
	m.templates[name] = opts
}

// --- Binding ---

// Bind clones the named templates onto the surface and returns the same
// surface for chaining. Unknown names are logged and skipped; the surface
// stays usable for whatever gestures did bind. Re-binding an already bound
// (name, surface) pair tears down the prior instance first.
func (m *Manager) Bind(s *Surface, names ...string) *Surface {
	for _, name := range names {
		m.bindOne(s, name, OptionPatch{})
	}
	return s
}

// BindWith is Bind for a single gesture with per-binding option overrides.
func (m *Manager) BindWith(s *Surface, name string, patch OptionPatch) *Surface {
	m.bindOne(s, name, patch)
	return s
}

func (m *Manager) bindOne(s *Surface, name string, patch OptionPatch) {
	tmpl, ok := m.templates[name]
	if !ok {
		warnf("unknown gesture %q; bind skipped", name)
		return
	}
	key := bindKey{name: name, surface: s}
	if old, exists := m.instances[key]; exists {
		warnf("gesture %q already bound to surface %q; replacing", name, s.Name)
		m.removeInstance(key, old)
	}

	opts := tmpl
	opts.Excludes = append([]string(nil), tmpl.Excludes...)
	patch.apply(&opts)

	inst := newRecognizer(opts.Kind)
	inst.attach(m, s, opts)
	inst.setUnsub(m.mux.Subscribe(inst.handleInput))
	m.instances[key] = inst
	m.order = append(m.order, key)
}

func newRecognizer(kind Kind) recognizer {
	switch kind {
	case KindPinch:
		return newPinchGesture()
	case KindRotate:
		return newRotateGesture()
	case KindTap:
		return newTapGesture()
	case KindPress:
		return newPressGesture()
	case KindMove:
		return newMoveGesture()
	case KindWheel:
		return newWheelGesture()
	default:
		return newPanGesture()
	}
}

// Unbind tears down the bound instance for (name, surface). Unknown pairs
// are a no-op.
func (m *Manager) Unbind(name string, s *Surface) {
	key := bindKey{name: name, surface: s}
	if inst, ok := m.instances[key]; ok {
		m.removeInstance(key, inst)
	}
}

// UnbindAll tears down every gesture bound to the surface.
func (m *Manager) UnbindAll(s *Surface) {
	for _, key := range m.boundKeys(s) {
		m.removeInstance(key, m.instances[key])
	}
	m.registry.dropSurface(s)
}

func (m *Manager) boundKeys(s *Surface) []bindKey {
	var keys []bindKey
	for _, key := range m.order {
		if key.surface == s {
			keys = append(keys, key)
		}
	}
	return keys
}

func (m *Manager) removeInstance(key bindKey, inst recognizer) {
	inst.teardown()
	delete(m.instances, key)
	for i, k := range m.order {
		if k == key {
			copy(m.order[i:], m.order[i+1:])
			m.order = m.order[:len(m.order)-1]
			return
		}
	}
}

// --- Live reconfiguration ---

// Configure merges the set fields of the patch into the live instance bound
// to (name, surface). Unset fields are untouched; unknown pairs are logged
// and ignored. Templates are never affected.
func (m *Manager) Configure(name string, s *Surface, patch OptionPatch) {
	inst, ok := m.instances[bindKey{name: name, surface: s}]
	if !ok {
		warnf("configure: gesture %q not bound to surface %q", name, s.Name)
		return
	}
	patch.apply(inst.options())
}

// SetState merges runtime-state fields into the live instance, for
// diagnostics and tests — recognition never depends on pushed state. Use it
// with zero values to reset accumulators explicitly.
func (m *Manager) SetState(name string, s *Surface, patch StatePatch) {
	inst, ok := m.instances[bindKey{name: name, surface: s}]
	if !ok {
		warnf("set state: gesture %q not bound to surface %q", name, s.Name)
		return
	}
	patch.apply(inst.state())
}

// --- Introspection ---

// IsActive reports whether the named gesture is currently active on the
// surface.
func (m *Manager) IsActive(name string, s *Surface) bool {
	return m.registry.isActive(s, name)
}

// ActiveGestures returns a fresh {name: active} snapshot for the surface.
func (m *Manager) ActiveGestures(s *Surface) map[string]bool {
	return m.registry.snapshot(s)
}

// instance returns the live recognizer for (name, surface), if bound.
func (m *Manager) instance(name string, s *Surface) (recognizer, bool) {
	inst, ok := m.instances[bindKey{name: name, surface: s}]
	return inst, ok
}

// --- Lifecycle ---

// CancelAll forces an immediate cancel on every active instance — the
// response to losing input focus — and drops all pointer samples.
func (m *Manager) CancelAll() {
	for _, key := range append([]bindKey(nil), m.order...) {
		if inst, ok := m.instances[key]; ok {
			inst.forceCancel()
		}
	}
	m.mux.Reset()
}

// tick advances time-driven recognizers (tap windows, press delays).
func (m *Manager) tick(now time.Time) {
	for _, key := range append([]bindKey(nil), m.order...) {
		if inst, ok := m.instances[key]; ok {
			inst.tick(now)
		}
	}
}

// Destroy tears down every bound instance, the multiplexer's subscriber
// list, and the pointer table. Pending timers are cleared unconditionally;
// no timer can fire after Destroy returns.
func (m *Manager) Destroy() {
	for _, key := range append([]bindKey(nil), m.order...) {
		if inst, ok := m.instances[key]; ok {
			inst.teardown()
			delete(m.instances, key)
		}
	}
	m.order = m.order[:0]
	m.mux.Reset()
	m.destroyed = true
}
