package shooter

import "github.com/vovakirdan/starfall/internal/core"

// Input is the per-frame key state handed to the simulation.
// Directions and Fire are held state; Pause, Restart, Quit and Escape
// are expected to be set only on the frame the key arrived.
type Input struct {
	Left, Right, Up, Down bool
	Fire                  bool
	Pause                 bool
	Restart               bool // Honoured in GameOver only
	Quit                  bool // Honoured in GameOver only
	Escape                bool // Leaves from any state
}

// InputFromFrame converts platform actions into simulation input.
func InputFromFrame(f core.InputFrame) Input {
	return Input{
		Left:    f.Has(core.ActionLeft),
		Right:   f.Has(core.ActionRight),
		Up:      f.Has(core.ActionUp),
		Down:    f.Has(core.ActionDown),
		Fire:    f.Has(core.ActionFire),
		Pause:   f.Has(core.ActionPause),
		Restart: f.Has(core.ActionRestart),
		Quit:    f.Has(core.ActionQuit),
		Escape:  f.Has(core.ActionEscape),
	}
}
