package grip

// Vec2 is a 2D vector used for positions, offsets, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Phase identifies the lifecycle stage of a gesture event.
type Phase uint8

const (
	PhaseStart   Phase = iota // first event after the gesture is recognized
	PhaseOngoing              // fires while the gesture continues (the only phase for tap and wheel)
	PhaseEnd                  // fires when the gesture completes normally
	PhaseCancel               // fires when the gesture is aborted
)

// suffix returns the event-name suffix for the phase. Ongoing events use the
// bare gesture name.
func (p Phase) suffix() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseEnd:
		return "End"
	case PhaseCancel:
		return "Cancel"
	default:
		return ""
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseOngoing:
		return "ongoing"
	case PhaseEnd:
		return "end"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Kind selects which recognizer a template builds.
type Kind uint8

const (
	KindPan   Kind = iota // continuous drag with a movement threshold
	KindPinch             // continuous multi-pointer scaling
	KindRotate            // continuous multi-pointer rotation
	KindTap               // discrete press/release sequences
	KindPress             // timed hold
	KindMove              // boundary-driven hover tracking
	KindWheel             // discrete wheel-delta accumulation
)

// PointerKind distinguishes fine (mouse) from coarse (touch) pointers.
type PointerKind uint8

const (
	PointerMouse PointerKind = iota // fine pointer (pointer slot 0)
	PointerTouch                    // coarse touch contact (slots 1-9)
)

// Direction is the classified dominant-axis direction of a movement.
type Direction uint8

const (
	DirectionNone Direction = iota // no dominant axis (tie or no movement)
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// DirectionSet is a bitmask of allowed pan directions.
// Values can be combined with bitwise OR (e.g. DirLeft | DirRight).
type DirectionSet uint8

const (
	DirLeft DirectionSet = 1 << iota
	DirRight
	DirUp
	DirDown
)

const (
	DirHorizontal = DirLeft | DirRight
	DirVertical   = DirUp | DirDown
	DirAll        = DirHorizontal | DirVertical
)

// Has reports whether the classified direction d is in the set.
// DirectionNone is never in any set.
func (s DirectionSet) Has(d Direction) bool {
	switch d {
	case DirectionLeft:
		return s&DirLeft != 0
	case DirectionRight:
		return s&DirRight != 0
	case DirectionUp:
		return s&DirUp != 0
	case DirectionDown:
		return s&DirDown != 0
	default:
		return false
	}
}

// classifyDirection returns the dominant-axis direction of (dx, dy).
// An exact tie between axes yields DirectionNone.
func classifyDirection(dx, dy float64) Direction {
	ax, ay := dx, dy
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	switch {
	case ax == 0 && ay == 0, ax == ay:
		return DirectionNone
	case ax > ay:
		if dx < 0 {
			return DirectionLeft
		}
		return DirectionRight
	default:
		if dy < 0 {
			return DirectionUp
		}
		return DirectionDown
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
