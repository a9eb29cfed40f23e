package grip

import (
	"testing"
	"time"
)

func tapRig(t *testing.T, patch OptionPatch) (*testRig, *[]*Event) {
	t.Helper()
	r := newTestRig()
	r.man.Register("tap", TapOptions())
	r.man.BindWith(r.card, "tap", patch)
	return r, record(r.card, "tap")
}

// --- Single tap ---

func TestTap_PressReleaseFires(t *testing.T) {
	r, events := tapRig(t, OptionPatch{})

	r.press(1, 50, 50)
	if len(*events) != 0 {
		t.Fatal("tap should not fire on press alone")
	}
	r.release(1, 52, 50)

	wantPhases(t, *events, PhaseOngoing)
	e := (*events)[0]
	if e.TapCount != 1 {
		t.Errorf("TapCount = %d, want 1", e.TapCount)
	}
	if e.Name() != "tap" {
		t.Errorf("Name() = %q, want bare %q", e.Name(), "tap")
	}
	if e.CenterX != 52 || e.CenterY != 50 {
		t.Errorf("center = (%v, %v), want release position (52, 50)", e.CenterX, e.CenterY)
	}
}

func TestTap_MovementCancels(t *testing.T) {
	r, events := tapRig(t, OptionPatch{})

	r.press(1, 50, 50)
	r.move(1, 80, 50) // 30px > 10px tolerance
	r.release(1, 80, 50)

	wantPhases(t, *events, PhaseCancel)
	if got := (*events)[0].TapCount; got != 0 {
		t.Errorf("cancel TapCount = %d, want 0", got)
	}
}

func TestTap_CancelEventSnapshotStillActive(t *testing.T) {
	r, events := tapRig(t, OptionPatch{})

	r.press(1, 50, 50)
	r.move(1, 80, 50) // beyond tolerance: cancels the armed tap

	wantPhases(t, *events, PhaseCancel)
	if !(*events)[0].Active["tap"] {
		t.Error("cancel event snapshot should still include the tap sequence")
	}
	if r.man.IsActive("tap", r.card) {
		t.Error("tap should be inactive once the cancel is delivered")
	}
}

func TestTap_SmallMovementTolerated(t *testing.T) {
	r, events := tapRig(t, OptionPatch{})

	r.press(1, 50, 50)
	r.move(1, 55, 50) // within tolerance
	r.release(1, 55, 50)

	wantPhases(t, *events, PhaseOngoing)
}

// --- Multi-tap sequences ---

func TestTap_DoubleTapFiresOnce(t *testing.T) {
	r, events := tapRig(t, OptionPatch{Taps: Int(2)})

	r.press(1, 50, 50)
	r.release(1, 50, 50)
	if len(*events) != 0 {
		t.Fatal("double tap should not fire after the first tap")
	}

	r.advance(100 * time.Millisecond)
	r.press(1, 51, 50)
	r.release(1, 51, 50)

	wantPhases(t, *events, PhaseOngoing)
	if got := (*events)[0].TapCount; got != 2 {
		t.Errorf("TapCount = %d, want 2", got)
	}
}

func TestTap_WindowExpiryResetsSilently(t *testing.T) {
	r, events := tapRig(t, OptionPatch{Taps: Int(2)})

	r.press(1, 50, 50)
	r.release(1, 50, 50)
	r.advance(400 * time.Millisecond) // past the 300ms window

	if len(*events) != 0 {
		t.Fatal("window expiry should be silent")
	}

	// The next press starts a fresh sequence: one more tap is not enough.
	r.press(1, 50, 50)
	r.release(1, 50, 50)
	if len(*events) != 0 {
		t.Error("a single tap after expiry should not complete the sequence")
	}

	r.advance(100 * time.Millisecond)
	r.press(1, 50, 50)
	r.release(1, 50, 50)
	wantPhases(t, *events, PhaseOngoing)
}

func TestTap_LazyExpiryWithoutTick(t *testing.T) {
	r, events := tapRig(t, OptionPatch{Taps: Int(2)})

	r.press(1, 50, 50)
	r.release(1, 50, 50)
	// No tick runs; the clock just moves past the window before the next
	// press arrives.
	r.now = r.now.Add(time.Second)
	r.press(1, 50, 50)
	r.release(1, 50, 50)

	if len(*events) != 0 {
		t.Error("late second tap should have started a new sequence, not completed the old one")
	}
}

// --- Registry visibility ---

func TestTap_ActiveDuringSequence(t *testing.T) {
	r, _ := tapRig(t, OptionPatch{Taps: Int(2)})

	r.press(1, 50, 50)
	if !r.man.IsActive("tap", r.card) {
		t.Error("tap should be registry-active while armed")
	}
	r.release(1, 50, 50)
	// Sequence window still open: stays active.
	if !r.man.IsActive("tap", r.card) {
		t.Error("tap should remain active while the sequence window is open")
	}

	r.advance(400 * time.Millisecond)
	if r.man.IsActive("tap", r.card) {
		t.Error("tap should be inactive after the window expires")
	}
}

// --- Cancel propagation ---

func TestTap_PointerCancelAborts(t *testing.T) {
	r, events := tapRig(t, OptionPatch{})

	r.press(1, 50, 50)
	r.man.Mux().Cancel(1, 50, 50, 0)

	wantPhases(t, *events, PhaseCancel)
}
