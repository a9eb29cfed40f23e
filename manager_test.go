package grip

import (
	"testing"
	"time"
)

// --- Binding ---

func TestManager_BindUnknownNameSkips(t *testing.T) {
	r := newTestRig()
	r.man.Bind(r.card, "nope")

	if _, ok := r.man.instance("nope", r.card); ok {
		t.Error("unknown template should not produce an instance")
	}
	// The surface stays usable: binding a real template afterwards works.
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag", "nope")
	if _, ok := r.man.instance("drag", r.card); !ok {
		t.Error("valid template in the same call should still bind")
	}
}

func TestManager_RebindReplacesInstance(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	first, _ := r.man.instance("drag", r.card)

	r.man.Bind(r.card, "drag")
	second, _ := r.man.instance("drag", r.card)

	if first == second {
		t.Error("rebinding should replace the instance")
	}
	if len(r.man.order) != 1 {
		t.Errorf("order has %d entries after rebind, want 1", len(r.man.order))
	}
}

func TestManager_BindWithPatch(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.BindWith(r.card, "drag", OptionPatch{Threshold: Float(20)})

	inst, _ := r.man.instance("drag", r.card)
	if inst.options().Threshold != 20 {
		t.Errorf("instance threshold = %v, want patched 20", inst.options().Threshold)
	}
	if r.man.templates["drag"].Threshold != defaultPanThreshold {
		t.Error("patch must not touch the template")
	}
}

func TestManager_SameTemplateOnTwoSurfaces(t *testing.T) {
	r := newTestRig()
	other := NewSurface("other", Rect{X: 300, Y: 0, Width: 100, Height: 100})
	r.man.Root().AddChild(other)

	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	r.man.Bind(other, "drag")

	cardEvents := record(r.card, "drag")
	otherEvents := record(other, "drag")

	r.press(1, 350, 50) // on other
	r.move(1, 370, 50)
	r.release(1, 370, 50)

	if len(*otherEvents) == 0 {
		t.Fatal("gesture on other surface emitted nothing")
	}
	if len(*cardEvents) != 0 {
		t.Errorf("card instance emitted %d events for other's pointer, want 0", len(*cardEvents))
	}
}

// --- Unbinding ---

func TestManager_Unbind(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	events := record(r.card, "drag")

	r.man.Unbind("drag", r.card)

	r.press(1, 100, 100)
	r.move(1, 150, 100)

	if len(*events) != 0 {
		t.Errorf("unbound gesture emitted %d events, want 0", len(*events))
	}
	if _, ok := r.man.instance("drag", r.card); ok {
		t.Error("instance should be gone after Unbind")
	}
}

func TestManager_UnbindAll(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Register("tap", TapOptions())
	r.man.Bind(r.card, "drag", "tap")

	r.man.UnbindAll(r.card)

	if len(r.man.instances) != 0 || len(r.man.order) != 0 {
		t.Errorf("instances = %d, order = %d after UnbindAll, want 0, 0",
			len(r.man.instances), len(r.man.order))
	}
}

// --- Live reconfiguration ---

func TestManager_ConfigureLiveInstance(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	events := record(r.card, "drag")

	r.man.Configure("drag", r.card, OptionPatch{Threshold: Float(50)})

	r.press(1, 100, 100)
	r.move(1, 120, 100) // 20px: over the default 4 but under the new 50
	if len(*events) != 0 {
		t.Fatal("reconfigured threshold not honored")
	}
	r.move(1, 160, 100) // 60px
	if len(*events) != 1 {
		t.Errorf("got %d events after crossing the new threshold, want 1", len(*events))
	}
}

func TestManager_ConfigureUnknownPairIsNoop(t *testing.T) {
	r := newTestRig()
	// Must not panic or create an instance.
	r.man.Configure("ghost", r.card, OptionPatch{Threshold: Float(1)})
	if _, ok := r.man.instance("ghost", r.card); ok {
		t.Error("Configure must not create instances")
	}
}

// --- Introspection ---

func TestManager_ActiveGesturesSnapshot(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")

	r.press(1, 100, 100)
	r.move(1, 130, 100)

	snap := r.man.ActiveGestures(r.card)
	if !snap["drag"] {
		t.Error("snapshot should report drag active")
	}

	// The snapshot is a copy: mutating it does not affect the registry.
	snap["drag"] = false
	if !r.man.IsActive("drag", r.card) {
		t.Error("snapshot mutation leaked into the registry")
	}
}

func TestManager_EventCarriesActiveSnapshot(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	events := record(r.card, "drag")

	r.press(1, 100, 100)
	r.move(1, 130, 100)

	start := (*events)[0]
	if !start.Active["drag"] {
		t.Error("start event's Active snapshot should include the gesture itself")
	}
}

// --- Mutual exclusion ---

func TestManager_PanExcludesHover(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	hover := MoveOptions()
	hover.Excludes = []string{"drag"}
	r.man.Register("hover", hover)
	r.man.Bind(r.card, "drag", "hover")

	hoverEvents := record(r.card, "hover")
	dragEvents := record(r.card, "drag")

	r.press(0, 50, 50) // enter fires moveStart
	r.move(0, 53, 50)  // below pan threshold: hover ongoing
	hoverBefore := len(*hoverEvents)

	r.move(0, 80, 50) // pan starts; hover now suppressed
	r.move(0, 100, 50)

	if len(*dragEvents) == 0 {
		t.Fatal("pan should have started")
	}
	if len(*hoverEvents) != hoverBefore {
		t.Errorf("hover emitted %d events while excluded pan was active, want 0",
			len(*hoverEvents)-hoverBefore)
	}

	// Pan ends; hover tracking resumes.
	r.release(0, 100, 50)
	r.hover(0, 60, 50)
	r.hover(0, 70, 50)
	if len(*hoverEvents) <= hoverBefore {
		t.Error("hover should resume after the excluding gesture ends")
	}
}

func TestManager_ExclusionBlocksStart(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	tap := TapOptions()
	tap.Excludes = []string{"drag"}
	r.man.Register("tap", tap)
	r.man.Bind(r.card, "drag", "tap")
	tapEvents := record(r.card, "tap")

	// Drag with pointer 1, then press pointer 2: the tap must not arm while
	// the excluded drag is active.
	one := OptionPatch{MaxPointers: Int(9)}
	r.man.Configure("drag", r.card, one)
	r.press(1, 100, 100)
	r.move(1, 130, 100)

	r.press(2, 50, 50)
	r.release(2, 50, 50)

	if len(*tapEvents) != 0 {
		t.Errorf("tap emitted %d events while excluded drag was active, want 0", len(*tapEvents))
	}
}

// --- Lifecycle ---

func TestManager_CancelAllCancelsEveryActiveInstance(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Register("zoom", PinchOptions())
	drag := OptionPatch{MaxPointers: Int(9)}
	r.man.BindWith(r.card, "drag", drag)
	r.man.Bind(r.card, "zoom")

	dragEvents := record(r.card, "drag")
	zoomEvents := record(r.card, "zoom")

	r.press(1, 0, 100)
	r.press(2, 100, 100)
	r.move(2, 200, 100) // activates both

	r.man.CancelAll()

	if last := (*dragEvents)[len(*dragEvents)-1]; last.Phase != PhaseCancel {
		t.Errorf("drag phase = %v, want cancel", last.Phase)
	}
	if last := (*zoomEvents)[len(*zoomEvents)-1]; last.Phase != PhaseCancel {
		t.Errorf("zoom phase = %v, want cancel", last.Phase)
	}
	if r.man.Mux().NumPointers() != 0 {
		t.Error("CancelAll should drop all pointer samples")
	}
}

func TestManager_DestroyTearsDownEverything(t *testing.T) {
	r := newTestRig()
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	events := record(r.card, "drag")

	r.man.Destroy()

	r.press(1, 100, 100)
	r.move(1, 150, 100)
	r.advance(time.Second)

	if len(*events) != 0 {
		t.Errorf("destroyed manager emitted %d events, want 0", len(*events))
	}
	if len(r.man.instances) != 0 {
		t.Error("Destroy should clear all instances")
	}
}

// --- Bubbling ---

func TestManager_GestureOnChildBubblesToAncestors(t *testing.T) {
	r := newTestRig()
	child := NewSurface("child", Rect{X: 20, Y: 20, Width: 100, Height: 100})
	r.card.AddChild(child)

	r.man.Register("drag", PanOptions())
	r.man.Bind(child, "drag")

	rootEvents := record(r.man.Root(), "drag")

	r.press(1, 60, 60) // hits child (topmost)
	r.move(1, 90, 60)

	if len(*rootEvents) == 0 {
		t.Fatal("root should observe bubbled gesture events")
	}
	if (*rootEvents)[0].Surface != child {
		t.Errorf("event surface = %v, want the bound child", (*rootEvents)[0].Surface)
	}
}

func TestManager_StopPropagationOptionConfinesEvents(t *testing.T) {
	r := newTestRig()
	child := NewSurface("child", Rect{X: 20, Y: 20, Width: 100, Height: 100})
	r.card.AddChild(child)

	opts := PanOptions()
	opts.StopPropagation = true
	r.man.Register("drag", opts)
	r.man.Bind(child, "drag")

	childEvents := record(child, "drag")
	rootEvents := record(r.man.Root(), "drag")

	r.press(1, 60, 60)
	r.move(1, 90, 60)

	if len(*childEvents) == 0 {
		t.Fatal("bound surface should still receive events")
	}
	if len(*rootEvents) != 0 {
		t.Errorf("root received %d events despite StopPropagation, want 0", len(*rootEvents))
	}
}

func TestManager_PreventDefaultMarksRawEvent(t *testing.T) {
	r := newTestRig()
	opts := PanOptions()
	opts.PreventDefault = true
	r.man.Register("drag", opts)
	r.man.Bind(r.card, "drag")

	r.press(1, 100, 100)
	r.move(1, 130, 100)

	var raw *RawEvent
	r.man.Mux().Subscribe(func(ev *RawEvent, table []Pointer) { raw = ev })
	r.move(1, 160, 100)

	if raw == nil || !raw.DefaultPrevented() {
		t.Error("ongoing pan should mark its raw events default-prevented")
	}
}

// --- Descendant contribution ---

func TestManager_PointerOnDescendantContributes(t *testing.T) {
	r := newTestRig()
	child := NewSurface("child", Rect{X: 20, Y: 20, Width: 100, Height: 100})
	r.card.AddChild(child)

	// Gesture bound to the parent; the pointer lands on the child.
	r.man.Register("drag", PanOptions())
	r.man.Bind(r.card, "drag")
	events := record(r.card, "drag")

	r.press(1, 60, 60) // hit-tests to child, a descendant of card
	r.move(1, 90, 60)

	if len(*events) == 0 {
		t.Error("pointer on a descendant should drive the parent-bound gesture")
	}
}
