package grip

import "testing"

func wheelRig(t *testing.T, patch OptionPatch) (*testRig, *[]*Event) {
	t.Helper()
	r := newTestRig()
	r.man.Register("scroll", WheelOptions())
	r.man.BindWith(r.card, "scroll", patch)
	return r, record(r.card, "scroll")
}

func (r *testRig) wheel(x, y, dy float64) *RawEvent {
	return r.man.Mux().Wheel(x, y, 0, dy, 0)
}

// --- Single-phase emission ---

func TestWheel_OneEventPerTurn(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{})

	r.wheel(50, 50, -1)
	r.wheel(50, 50, -1)

	wantPhases(t, *events, PhaseOngoing, PhaseOngoing)
	if name := (*events)[0].Name(); name != "scroll" {
		t.Errorf("Name() = %q, want bare %q", name, "scroll")
	}
	if r.man.IsActive("scroll", r.card) {
		t.Error("wheel gesture should not stay active between turns")
	}
}

func TestWheel_DefaultSignInverts(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{})

	// Raw wheel-down (negative) reads as a positive delta by default.
	r.wheel(50, 50, -1)

	e := (*events)[0]
	if e.WheelDelta != 1 {
		t.Errorf("WheelDelta = %v, want 1", e.WheelDelta)
	}
	if e.TotalWheelDelta != 1 {
		t.Errorf("TotalWheelDelta = %v, want 1", e.TotalWheelDelta)
	}
}

func TestWheel_NaturalKeepsSign(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{WheelNatural: Bool(true)})

	r.wheel(50, 50, -1)

	if got := (*events)[0].WheelDelta; got != -1 {
		t.Errorf("natural WheelDelta = %v, want -1", got)
	}
}

func TestWheel_SensitivityScalesDelta(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{WheelSensitivity: Float(2.5)})

	r.wheel(50, 50, -2)

	if got := (*events)[0].WheelDelta; got != 5 {
		t.Errorf("WheelDelta = %v, want 5 (2 × 2.5)", got)
	}
}

// --- Accumulator ---

func TestWheel_AccumulatorClamps(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{
		WheelMin: Float(-100),
		WheelMax: Float(100),
	})

	r.wheel(50, 50, -60) // +60
	r.wheel(50, 50, -60) // +120 → clamped to 100
	r.wheel(50, 50, -60)

	got := (*events)[len(*events)-1].TotalWheelDelta
	if got != 100 {
		t.Errorf("TotalWheelDelta = %v, want clamped 100", got)
	}

	for i := 0; i < 5; i++ {
		r.wheel(50, 50, 60) // -60 each
	}
	got = (*events)[len(*events)-1].TotalWheelDelta
	if got != -100 {
		t.Errorf("TotalWheelDelta = %v, want clamped -100", got)
	}
}

func TestWheel_EqualBoundsDisableClamping(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{})

	for i := 0; i < 10; i++ {
		r.wheel(50, 50, -100)
	}

	if got := (*events)[len(*events)-1].TotalWheelDelta; got != 1000 {
		t.Errorf("TotalWheelDelta = %v, want unclamped 1000", got)
	}
}

func TestWheel_InitialDeltaSeedsOnce(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{WheelInitialDelta: Float(5)})

	r.wheel(50, 50, -1)
	r.wheel(50, 50, -1)

	if got := (*events)[0].TotalWheelDelta; got != 6 {
		t.Errorf("first TotalWheelDelta = %v, want 6 (5 seed + 1)", got)
	}
	if got := (*events)[1].TotalWheelDelta; got != 7 {
		t.Errorf("second TotalWheelDelta = %v, want 7 (seed applied once)", got)
	}
}

// --- Attribution ---

func TestWheel_OutsideSurfaceIgnored(t *testing.T) {
	r, events := wheelRig(t, OptionPatch{})

	r.wheel(300, 300, -1)

	if len(*events) != 0 {
		t.Errorf("wheel outside the surface emitted %d events, want 0", len(*events))
	}
}
