package grip

// activeRegistry tracks which gesture instances are currently active on which
// surface. It mediates cross-gesture awareness: recognizers consult it for
// mutual exclusion before starting, and every emitted event carries a
// snapshot of it. Membership is updated synchronously before any dependent
// event is dispatched, so handlers always observe a consistent view.
type activeRegistry struct {
	active map[*Surface]map[string]bool
}

func newActiveRegistry() *activeRegistry {
	return &activeRegistry{active: make(map[*Surface]map[string]bool)}
}

// register marks the named gesture active on the surface. Idempotent.
func (r *activeRegistry) register(s *Surface, name string) {
	set := r.active[s]
	if set == nil {
		set = make(map[string]bool)
		r.active[s] = set
	}
	set[name] = true
}

// unregister clears the active flag. Idempotent; unknown entries are no-ops.
func (r *activeRegistry) unregister(s *Surface, name string) {
	set := r.active[s]
	if set == nil {
		return
	}
	delete(set, name)
	if len(set) == 0 {
		delete(r.active, s)
	}
}

// isActive reports whether the named gesture is active on the surface.
func (r *activeRegistry) isActive(s *Surface, name string) bool {
	return r.active[s][name]
}

// snapshot returns a fresh {gestureName: active} map for the surface.
// The returned map is owned by the caller.
func (r *activeRegistry) snapshot(s *Surface) map[string]bool {
	set := r.active[s]
	out := make(map[string]bool, len(set))
	for name := range set {
		out[name] = true
	}
	return out
}

// dropSurface removes every entry for the surface. Used at unbind/teardown.
func (r *activeRegistry) dropSurface(s *Surface) {
	delete(r.active, s)
}
