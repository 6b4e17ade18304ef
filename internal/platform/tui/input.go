package tui

import (
	"time"

	"github.com/vovakirdan/starfall/internal/core"
)

// DefaultHoldWindow covers the usual terminal key-repeat delay.
const DefaultHoldWindow = 450 * time.Millisecond

// HeldKeys turns terminal key presses into per-frame input.
//
// Terminals report presses and auto-repeats but never releases, so a
// movement or fire key counts as held until no press has arrived for the
// hold window. Pause, restart, quit and escape are pulses: they appear in
// exactly one frame.
type HeldKeys struct {
	window   time.Duration
	held     map[core.Action]time.Time
	pulses   map[core.Action]bool
	autofire bool
}

// NewHeldKeys creates a tracker. A non-positive window uses DefaultHoldWindow.
func NewHeldKeys(window time.Duration) *HeldKeys {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HeldKeys{
		window: window,
		held:   make(map[core.Action]time.Time),
		pulses: make(map[core.Action]bool),
	}
}

var opposite = map[core.Action]core.Action{
	core.ActionLeft:  core.ActionRight,
	core.ActionRight: core.ActionLeft,
	core.ActionUp:    core.ActionDown,
	core.ActionDown:  core.ActionUp,
}

// Press records a key event at now.
func (h *HeldKeys) Press(a core.Action, now time.Time) {
	switch a {
	case core.ActionNone:
		return
	case core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown:
		delete(h.held, opposite[a])
		h.held[a] = now
	case core.ActionFire:
		h.held[a] = now
	default:
		h.pulses[a] = true
	}
}

// ToggleAutofire flips autofire and returns the new setting.
func (h *HeldKeys) ToggleAutofire() bool {
	h.autofire = !h.autofire
	return h.autofire
}

// Autofire reports whether fire is held permanently.
func (h *HeldKeys) Autofire() bool {
	return h.autofire
}

// Frame builds the input for the frame at now and consumes pending pulses.
func (h *HeldKeys) Frame(now time.Time) core.InputFrame {
	f := core.NewInputFrame()
	for a, at := range h.held {
		if now.Sub(at) > h.window {
			delete(h.held, a)
			continue
		}
		f.Set(a)
	}
	for a := range h.pulses {
		f.Set(a)
		delete(h.pulses, a)
	}
	if h.autofire {
		f.Set(core.ActionFire)
	}
	return f
}

// Reset forgets every held key and pending pulse. Autofire is kept.
func (h *HeldKeys) Reset() {
	clear(h.held)
	clear(h.pulses)
}
