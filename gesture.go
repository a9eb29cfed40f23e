package grip

import (
	"math"
	"time"
)

// --- Defaults ---

const (
	defaultPanThreshold    = 4.0                    // pixels, matches the classic drag dead zone
	defaultPinchThreshold  = 0.05                   // relative scale change
	defaultRotateThreshold = 2.0                    // degrees
	defaultTapDistance     = 10.0                   // pixels
	defaultTapInterval     = 300 * time.Millisecond // window between taps of a sequence
	defaultPressDuration   = 600 * time.Millisecond // hold time before a press activates
)

// --- Options ---

// Options configures one gesture template or bound instance. A template is a
// plain Options value registered under a name; binding copies it, so mutating
// a live instance never touches the template.
type Options struct {
	// Name is the unique key within a Manager and the event name prefix.
	Name string

	// Kind selects the recognizer the template builds.
	Kind Kind

	// MinPointers and MaxPointers bound the contributing pointer count.
	MinPointers int
	MaxPointers int

	// Threshold is the movement magnitude that must be exceeded before a
	// continuous gesture starts: pixels for pan, relative scale change for
	// pinch, degrees for rotate.
	Threshold float64

	// PreventDefault consumes the originating input event whenever this
	// gesture emits.
	PreventDefault bool

	// StopPropagation keeps emitted events from bubbling past the bound
	// surface.
	StopPropagation bool

	// Excludes lists gesture names that, while active on the same surface,
	// suppress this gesture from starting or emitting.
	Excludes []string

	// Directions restricts which pan directions may start the gesture.
	Directions DirectionSet

	// Taps is the number of press/release sequences required (tap).
	Taps int

	// MaxDistance is the movement tolerance before a tap or press aborts.
	MaxDistance float64

	// TapInterval is the window within which the next tap of a sequence
	// must begin.
	TapInterval time.Duration

	// PressDuration is the hold time before a press activates.
	PressDuration time.Duration

	// WheelSensitivity scales raw wheel deltas.
	WheelSensitivity float64

	// WheelNatural keeps the raw wheel delta sign. By default deltas are
	// negated so that wheel-up reads as positive.
	WheelNatural bool

	// WheelMin and WheelMax clamp the wheel accumulator after each update.
	// Equal values (the default) disable clamping.
	WheelMin, WheelMax float64

	// WheelInitialDelta seeds the wheel accumulator before the first event.
	WheelInitialDelta float64
}

// PanOptions returns pan defaults: one pointer, any direction, a 4px
// threshold.
func PanOptions() Options {
	return Options{
		Kind:        KindPan,
		MinPointers: 1,
		MaxPointers: 1,
		Threshold:   defaultPanThreshold,
		Directions:  DirAll,
	}
}

// PinchOptions returns pinch defaults: exactly two pointers, 5% scale
// threshold. Raise MaxPointers to recognize pinches with more contacts.
func PinchOptions() Options {
	return Options{
		Kind:        KindPinch,
		MinPointers: 2,
		MaxPointers: 2,
		Threshold:   defaultPinchThreshold,
	}
}

// RotateOptions returns rotate defaults: exactly two pointers, 2° threshold.
func RotateOptions() Options {
	return Options{
		Kind:        KindRotate,
		MinPointers: 2,
		MaxPointers: 2,
		Threshold:   defaultRotateThreshold,
	}
}

// TapOptions returns single-tap defaults.
func TapOptions() Options {
	return Options{
		Kind:        KindTap,
		MinPointers: 1,
		MaxPointers: 1,
		Taps:        1,
		MaxDistance: defaultTapDistance,
		TapInterval: defaultTapInterval,
	}
}

// PressOptions returns long-press defaults.
func PressOptions() Options {
	return Options{
		Kind:          KindPress,
		MinPointers:   1,
		MaxPointers:   1,
		MaxDistance:   defaultTapDistance,
		PressDuration: defaultPressDuration,
	}
}

// MoveOptions returns hover-tracking defaults.
func MoveOptions() Options {
	return Options{
		Kind:        KindMove,
		MinPointers: 1,
		MaxPointers: 1,
	}
}

// WheelOptions returns wheel defaults: sensitivity 1, unclamped.
func WheelOptions() Options {
	return Options{
		Kind:             KindWheel,
		WheelSensitivity: 1,
	}
}

// --- Patches ---

// Pointer-field helpers for building patches inline.

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Dur returns a pointer to v.
func Dur(v time.Duration) *time.Duration { return &v }

// OptionPatch is a partial Options update. Nil fields are left unchanged;
// there is no way to unset a field back to its zero value other than setting
// it explicitly.
type OptionPatch struct {
	MinPointers       *int
	MaxPointers       *int
	Threshold         *float64
	PreventDefault    *bool
	StopPropagation   *bool
	Excludes          []string // non-nil replaces the exclusion list
	Directions        *DirectionSet
	Taps              *int
	MaxDistance       *float64
	TapInterval       *time.Duration
	PressDuration     *time.Duration
	WheelSensitivity  *float64
	WheelNatural      *bool
	WheelMin          *float64
	WheelMax          *float64
	WheelInitialDelta *float64
}

// apply merges the set fields of the patch into opts.
func (p OptionPatch) apply(opts *Options) {
	if p.MinPointers != nil {
		opts.MinPointers = *p.MinPointers
	}
	if p.MaxPointers != nil {
		opts.MaxPointers = *p.MaxPointers
	}
	if p.Threshold != nil {
		opts.Threshold = *p.Threshold
	}
	if p.PreventDefault != nil {
		opts.PreventDefault = *p.PreventDefault
	}
	if p.StopPropagation != nil {
		opts.StopPropagation = *p.StopPropagation
	}
	if p.Excludes != nil {
		opts.Excludes = p.Excludes
	}
	if p.Directions != nil {
		opts.Directions = *p.Directions
	}
	if p.Taps != nil {
		opts.Taps = *p.Taps
	}
	if p.MaxDistance != nil {
		opts.MaxDistance = *p.MaxDistance
	}
	if p.TapInterval != nil {
		opts.TapInterval = *p.TapInterval
	}
	if p.PressDuration != nil {
		opts.PressDuration = *p.PressDuration
	}
	if p.WheelSensitivity != nil {
		opts.WheelSensitivity = *p.WheelSensitivity
	}
	if p.WheelNatural != nil {
		opts.WheelNatural = *p.WheelNatural
	}
	if p.WheelMin != nil {
		opts.WheelMin = *p.WheelMin
	}
	if p.WheelMax != nil {
		opts.WheelMax = *p.WheelMax
	}
	if p.WheelInitialDelta != nil {
		opts.WheelInitialDelta = *p.WheelInitialDelta
	}
}

// StatePatch is a partial runtime-state update for diagnostics and tests.
// Recognition never depends on state being pushed in from outside.
type StatePatch struct {
	TotalDeltaX     *float64
	TotalDeltaY     *float64
	TotalScale      *float64
	TotalRotation   *float64
	TotalWheelDelta *float64
	TapCount        *int
}

func (p StatePatch) apply(st *State) {
	if p.TotalDeltaX != nil {
		st.TotalDeltaX = *p.TotalDeltaX
	}
	if p.TotalDeltaY != nil {
		st.TotalDeltaY = *p.TotalDeltaY
	}
	if p.TotalScale != nil {
		st.TotalScale = *p.TotalScale
	}
	if p.TotalRotation != nil {
		st.TotalRotation = *p.TotalRotation
	}
	if p.TotalWheelDelta != nil {
		st.TotalWheelDelta = *p.TotalWheelDelta
	}
	if p.TapCount != nil {
		st.TapCount = *p.TapCount
	}
}

// --- Runtime state ---

// State is the mutable runtime state of one bound instance. Accumulator
// fields persist across start/end cycles — they are running session totals,
// reset only through SetState — while the rest is rebaselined per activation.
type State struct {
	Active bool

	StartX, StartY float64 // centroid at activation
	LastX, LastY   float64 // centroid at the last sample

	TotalDeltaX     float64
	TotalDeltaY     float64
	TotalScale      float64 // multiplicative; 1 means unscaled
	TotalRotation   float64 // degrees, additive, may exceed ±360
	TotalWheelDelta float64

	TapCount int

	startTime time.Time // activation time (velocity baseline)
	lastTime  time.Time
}

// --- Event payload ---

// Event is the payload delivered to gesture handlers.
type Event struct {
	Gesture string
	Phase   Phase
	Surface *Surface // the bound surface the event was emitted on

	// Centroid of the contributing pointers.
	CenterX, CenterY float64

	// Contributing pointer snapshots at emission time.
	Pointers []Pointer

	// Raw is the input event that produced this gesture event. Nil for
	// timer-driven emissions (press activation, forced cancels).
	Raw *RawEvent

	Time      time.Time
	Modifiers KeyModifiers

	// Pan fields.
	DeltaX, DeltaY             float64 // displacement since activation
	TotalDeltaX, TotalDeltaY   float64
	VelocityX, VelocityY       float64 // displacement / elapsed since activation
	Direction                  Direction

	// Pinch fields.
	Scale          float64 // current / activation distance
	TotalScale     float64
	ScaleDirection int // +1 spreading, -1 pinching, 0 no change

	// Rotate fields (degrees).
	Rotation      float64 // accumulated this session
	RotationDelta float64 // since the previous sample, wrapped to [-180, 180]
	TotalRotation float64

	// Tap and press fields.
	TapCount int
	Duration time.Duration

	// Wheel fields.
	WheelDelta      float64
	TotalWheelDelta float64

	// Active is the {gestureName: active} registry snapshot for the bound
	// surface, taken after this event's own transition was committed.
	Active map[string]bool

	propagationStopped bool
}

// StopPropagation keeps this event from bubbling past the current surface.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether bubbling was suppressed, either by a
// handler or by the emitting gesture's configuration.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped || (e.Raw != nil && e.Raw.PropagationStopped())
}

// Name returns the composed event name: the gesture name plus a Start/End/
// Cancel suffix, or the bare name for ongoing events (tap and wheel emit only
// the bare name).
func (e *Event) Name() string {
	return e.Gesture + e.Phase.suffix()
}

// --- Recognizer contract ---

// recognizer is the contract every bound gesture instance satisfies.
type recognizer interface {
	name() string
	options() *Options
	state() *State

	// attach binds the instance to a manager and surface with its own
	// options copy; setUnsub stores the multiplexer unsubscribe hook.
	attach(man *Manager, surface *Surface, opts Options)
	setUnsub(func())

	// handleInput is the multiplexer fan-out entry: one call per
	// notification pass, with a read-only table snapshot.
	handleInput(ev *RawEvent, table []Pointer)

	// tick advances time-driven behavior (tap windows, press delays).
	tick(now time.Time)

	// forceCancel aborts the gesture immediately using the last known
	// centroid, as on loss of input focus.
	forceCancel()

	// teardown detaches from the multiplexer and clears all pending
	// timers. Must be safe to call twice.
	teardown()
}

// gestureBase carries the plumbing shared by every recognizer: the bound
// surface, options, runtime state, and emission helpers.
type gestureBase struct {
	man     *Manager
	surface *Surface
	opts    Options
	st      State
	unsub   func()
	dead    bool
}

func (g *gestureBase) name() string      { return g.opts.Name }
func (g *gestureBase) options() *Options { return &g.opts }
func (g *gestureBase) state() *State     { return &g.st }

// tick is a no-op for recognizers without timers.
func (g *gestureBase) tick(time.Time) {}

func (g *gestureBase) attach(man *Manager, surface *Surface, opts Options) {
	g.man = man
	g.surface = surface
	g.opts = opts
	g.st.TotalScale = 1
}

func (g *gestureBase) setUnsub(fn func()) { g.unsub = fn }

func (g *gestureBase) teardownBase() {
	if g.dead {
		return
	}
	g.dead = true
	if g.unsub != nil {
		g.unsub()
		g.unsub = nil
	}
	g.man.registry.unregister(g.surface, g.opts.Name)
	g.st.Active = false
}

// matches reports whether a pointer attributed to s contributes to this
// instance: s must be the bound surface or one of its descendants.
func (g *gestureBase) matches(s *Surface) bool {
	return s != nil && isAncestor(g.surface, s)
}

// contributing appends the down pointers attributed to the bound surface to
// buf and returns it.
func (g *gestureBase) contributing(table []Pointer, buf []Pointer) []Pointer {
	for _, p := range table {
		if p.Down && g.matches(p.Surface) {
			buf = append(buf, p)
		}
	}
	return buf
}

// shouldSuppress consults the registry for every excluded gesture name.
func (g *gestureBase) shouldSuppress() bool {
	for _, name := range g.opts.Excludes {
		if g.man.registry.isActive(g.surface, name) {
			return true
		}
	}
	return false
}

// setActive commits the instance's registry membership. Called before the
// dependent event is dispatched so snapshots are consistent.
func (g *gestureBase) setActive(active bool) {
	g.st.Active = active
	if active {
		g.man.registry.register(g.surface, g.opts.Name)
	} else {
		g.man.registry.unregister(g.surface, g.opts.Name)
	}
}

// newEvent builds a payload with the shared fields filled in. The caller sets
// gesture-specific fields and passes it to send.
func (g *gestureBase) newEvent(phase Phase, raw *RawEvent, pointers []Pointer) *Event {
	ev := &Event{
		Gesture:  g.opts.Name,
		Phase:    phase,
		Surface:  g.surface,
		Raw:      raw,
		Pointers: append([]Pointer(nil), pointers...),
	}
	if raw != nil {
		ev.Time = raw.Time
		ev.Modifiers = raw.Modifiers
	} else {
		ev.Time = g.man.now()
	}
	if len(pointers) > 0 {
		ev.CenterX, ev.CenterY = centroid(pointers)
	} else {
		ev.CenterX, ev.CenterY = g.st.LastX, g.st.LastY
	}
	return ev
}

// send applies default-action/propagation suppression, snapshots the
// registry, and dispatches the event from the bound surface.
func (g *gestureBase) send(ev *Event) {
	if g.dead {
		return
	}
	if ev.Raw != nil && g.opts.PreventDefault {
		ev.Raw.PreventDefault()
	}
	if g.opts.StopPropagation {
		ev.propagationStopped = true
	}
	ev.Active = g.man.registry.snapshot(g.surface)
	g.surface.dispatch(ev)
}

// --- Geometry helpers ---

// centroid returns the arithmetic mean position of the pointers.
func centroid(pointers []Pointer) (x, y float64) {
	if len(pointers) == 0 {
		return 0, 0
	}
	for _, p := range pointers {
		x += p.X
		y += p.Y
	}
	n := float64(len(pointers))
	return x / n, y / n
}

func hypot(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// meanPairwiseDistance returns the mean distance over all pointer pairs.
// With two pointers this is simply their distance.
func meanPairwiseDistance(pointers []Pointer) float64 {
	n := len(pointers)
	if n < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := pointers[j].X - pointers[i].X
			dy := pointers[j].Y - pointers[i].Y
			sum += math.Sqrt(dx*dx + dy*dy)
			pairs++
		}
	}
	return sum / float64(pairs)
}

// angleBetween returns the angle of the vector from the first to the second
// pointer, in degrees.
func angleBetween(a, b Pointer) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// wrapAngle maps an angular difference in degrees to the shortest arc in
// [-180, 180].
func wrapAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg < -180 {
		deg += 360
	}
	return deg
}
