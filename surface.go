package grip

// --- Built-in HitShape types ---

// HitShape is used for custom hit testing regions. Coordinates are local to
// the surface (origin at the surface's top-left corner).
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- ID counter ---

// surfaceIDCounter is a plain counter (no atomic — grip is single-threaded).
var surfaceIDCounter uint32

func nextSurfaceID() uint32 {
	surfaceIDCounter++
	return surfaceIDCounter
}

// --- Surface ---

// Surface is a target element gestures can be bound to. Surfaces form a tree;
// children inherit their parent's translation, and gesture events bubble from
// the bound surface toward the root unless the emitting gesture suppresses
// propagation.
type Surface struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Surface
	children []*Surface

	// Placement (local, relative to parent)
	X, Y          float64
	Width, Height float64

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// Ordering among siblings for hit testing (higher is on top).
	ZIndex int

	// Hit testing override. When nil, the surface's Width/Height rectangle
	// is used.
	HitShape HitShape

	// Metadata
	UserData any

	// Per-gesture event handlers, keyed by gesture name.
	handlers      map[string][]gestureHandler
	nextHandlerID uint32

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Surface // reused buffer for ZIndex-sorted traversal order
}

type gestureHandler struct {
	id uint32
	fn func(*Event)
}

// NewSurface creates an interactable surface with the given name and bounds.
func NewSurface(name string, bounds Rect) *Surface {
	return &Surface{
		ID:             nextSurfaceID(),
		Name:           name,
		X:              bounds.X,
		Y:              bounds.Y,
		Width:          bounds.Width,
		Height:         bounds.Height,
		Visible:        true,
		Interactable:   true,
		childrenSorted: true,
	}
}

// --- Event subscription ---

// CallbackHandle allows removing a registered gesture callback.
type CallbackHandle struct {
	id      uint32
	surface *Surface
	gesture string
}

// On registers a callback for every event of the named gesture on this
// surface, regardless of phase. Handlers also receive events that bubble up
// from descendant surfaces.
func (s *Surface) On(gesture string, fn func(*Event)) CallbackHandle {
	if s.handlers == nil {
		s.handlers = make(map[string][]gestureHandler)
	}
	s.nextHandlerID++
	id := s.nextHandlerID
	s.handlers[gesture] = append(s.handlers[gesture], gestureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, surface: s, gesture: gesture}
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.surface == nil || h.surface.handlers == nil {
		return
	}
	hs := h.surface.handlers[h.gesture]
	for i := range hs {
		if hs[i].id == h.id {
			copy(hs[i:], hs[i+1:])
			hs[len(hs)-1] = gestureHandler{}
			h.surface.handlers[h.gesture] = hs[:len(hs)-1]
			return
		}
	}
}

// dispatch invokes handlers registered under the composed event name
// ("dragstart") and under the bare gesture name ("drag") on this surface,
// then bubbles to ancestors. Bubbling stops when the event's propagation is
// suppressed.
func (s *Surface) dispatch(ev *Event) {
	name := ev.Name()
	for node := s; node != nil; node = node.Parent {
		if node.handlers != nil {
			for _, h := range node.handlers[name] {
				h.fn(ev)
			}
			if name != ev.Gesture {
				for _, h := range node.handlers[ev.Gesture] {
					h.fn(ev)
				}
			}
		}
		if ev.PropagationStopped() {
			return
		}
	}
}

// --- Coordinates ---

// WorldPosition returns the surface's top-left corner in world coordinates
// (parent translations accumulated).
func (s *Surface) WorldPosition() (x, y float64) {
	for node := s; node != nil; node = node.Parent {
		x += node.X
		y += node.Y
	}
	return x, y
}

// WorldToLocal converts world coordinates to this surface's local space.
func (s *Surface) WorldToLocal(x, y float64) (lx, ly float64) {
	wx, wy := s.WorldPosition()
	return x - wx, y - wy
}

// containsWorld tests whether the world point (x, y) falls inside this
// surface's hit region. Uses HitShape if set; otherwise the bounds rectangle.
// Surfaces with zero dimensions and no HitShape are not hit-testable.
func (s *Surface) containsWorld(x, y float64) bool {
	lx, ly := s.WorldToLocal(x, y)
	if s.HitShape != nil {
		return s.HitShape.Contains(lx, ly)
	}
	if s.Width == 0 && s.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= s.Width && ly >= 0 && ly <= s.Height
}

// --- Tree manipulation ---

// AddChild appends child to this surface's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this surface (cycle).
func (s *Surface) AddChild(child *Surface) {
	if child == nil {
		panic("grip: cannot add nil child")
	}
	if isAncestor(child, s) {
		panic("grip: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = s
	s.children = append(s.children, child)
	s.childrenSorted = false
}

// RemoveChild detaches child from this surface.
// Panics if child.Parent != s.
func (s *Surface) RemoveChild(child *Surface) {
	if child.Parent != s {
		panic("grip: child's parent is not this surface")
	}
	s.removeChildByPtr(child)
	child.Parent = nil
	s.childrenSorted = false
}

// RemoveFromParent detaches this surface from its parent.
// No-op if this surface has no parent.
func (s *Surface) RemoveFromParent() {
	if s.Parent == nil {
		return
	}
	s.Parent.RemoveChild(s)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (s *Surface) Children() []*Surface {
	return s.children
}

// SetZIndex sets the surface's ZIndex and marks the parent's children as unsorted.
func (s *Surface) SetZIndex(z int) {
	if s.ZIndex == z {
		return
	}
	s.ZIndex = z
	if s.Parent != nil {
		s.Parent.childrenSorted = false
	}
}

// Dispose removes this surface from its parent, marks it as disposed, and
// recursively disposes all descendants. Handlers are dropped; gesture
// instances bound to a disposed surface must be unbound by the Manager.
func (s *Surface) Dispose() {
	if s.disposed {
		return
	}
	s.RemoveFromParent()
	s.dispose()
}

func (s *Surface) dispose() {
	s.disposed = true
	s.ID = 0
	for _, child := range s.children {
		child.Parent = nil
		child.dispose()
	}
	s.children = nil
	s.sortedChildren = nil
	s.Parent = nil
	s.HitShape = nil
	s.UserData = nil
	s.handlers = nil
}

// IsDisposed returns true if this surface has been disposed.
func (s *Surface) IsDisposed() bool {
	return s.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of surface.
func isAncestor(candidate, surface *Surface) bool {
	for p := surface; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from s.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (s *Surface) removeChildByPtr(child *Surface) {
	for i, c := range s.children {
		if c == child {
			copy(s.children[i:], s.children[i+1:])
			s.children[len(s.children)-1] = nil
			s.children = s.children[:len(s.children)-1]
			return
		}
	}
}

// rebuildSortedChildren refreshes the ZIndex-sorted traversal buffer.
// Stable insertion sort keeps insertion order for equal ZIndex values.
func (s *Surface) rebuildSortedChildren() {
	s.sortedChildren = append(s.sortedChildren[:0], s.children...)
	sorted := s.sortedChildren
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].ZIndex > sorted[j].ZIndex; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	s.childrenSorted = true
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable surfaces to buf. Skips Visible=false or
// Interactable=false subtrees.
func collectInteractable(s *Surface, buf []*Surface) []*Surface {
	if !s.Visible || !s.Interactable {
		return buf
	}
	buf = append(buf, s)

	if len(s.children) == 0 {
		return buf
	}
	if !s.childrenSorted {
		s.rebuildSortedChildren()
	}
	children := s.children
	if s.sortedChildren != nil {
		children = s.sortedChildren
	}
	for _, child := range children {
		buf = collectInteractable(child, buf)
	}
	return buf
}
