package tui

import (
	"testing"
	"time"

	"github.com/vovakirdan/starfall/internal/core"
)

func TestHeldKeysHoldWindow(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(100 * time.Millisecond)
	h.Press(core.ActionLeft, t0)
	h.Press(core.ActionFire, t0)

	tests := []struct {
		name string
		at   time.Duration
		left bool
		fire bool
	}{
		{"same instant", 0, true, true},
		{"inside window", 80 * time.Millisecond, true, true},
		{"at window edge", 100 * time.Millisecond, true, true},
		{"after window", 150 * time.Millisecond, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := h.Frame(t0.Add(tt.at))
			if f.Has(core.ActionLeft) != tt.left {
				t.Errorf("Left = %v, want %v", f.Has(core.ActionLeft), tt.left)
			}
			if f.Has(core.ActionFire) != tt.fire {
				t.Errorf("Fire = %v, want %v", f.Has(core.ActionFire), tt.fire)
			}
		})
	}
}

func TestHeldKeysRepeatExtendsHold(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(100 * time.Millisecond)
	h.Press(core.ActionUp, t0)
	h.Press(core.ActionUp, t0.Add(90*time.Millisecond))

	if f := h.Frame(t0.Add(180 * time.Millisecond)); !f.Has(core.ActionUp) {
		t.Error("repeat should keep Up held")
	}
}

func TestHeldKeysOppositeCancels(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(time.Second)
	h.Press(core.ActionLeft, t0)
	h.Press(core.ActionRight, t0)
	h.Press(core.ActionDown, t0)
	h.Press(core.ActionUp, t0)

	f := h.Frame(t0)
	if f.Has(core.ActionLeft) || f.Has(core.ActionDown) {
		t.Error("opposite direction should release the earlier key")
	}
	if !f.Has(core.ActionRight) || !f.Has(core.ActionUp) {
		t.Error("latest directions should be held")
	}
}

func TestHeldKeysPulsesLastOneFrame(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(time.Second)

	for _, a := range []core.Action{core.ActionPause, core.ActionRestart, core.ActionQuit, core.ActionEscape} {
		h.Press(a, t0)
		if f := h.Frame(t0); !f.Has(a) {
			t.Errorf("%v missing from first frame", a)
		}
		if f := h.Frame(t0); f.Has(a) {
			t.Errorf("%v repeated in second frame", a)
		}
	}
}

func TestHeldKeysAutofire(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(time.Second)

	if !h.ToggleAutofire() {
		t.Fatal("first toggle should enable autofire")
	}
	if f := h.Frame(t0.Add(time.Hour)); !f.Has(core.ActionFire) {
		t.Error("autofire should hold Fire")
	}
	h.Reset()
	if !h.Autofire() {
		t.Error("Reset should keep autofire")
	}
	if h.ToggleAutofire() {
		t.Error("second toggle should disable autofire")
	}
	if f := h.Frame(t0); f.Has(core.ActionFire) {
		t.Error("Fire held after autofire off")
	}
}

func TestHeldKeysReset(t *testing.T) {
	t0 := time.Unix(1000, 0)
	h := NewHeldKeys(0)
	h.Press(core.ActionLeft, t0)
	h.Press(core.ActionPause, t0)
	h.Press(core.ActionNone, t0)
	h.Reset()

	if f := h.Frame(t0); len(f.Actions) != 0 {
		t.Errorf("frame after Reset = %v, want empty", f.Actions)
	}
}
