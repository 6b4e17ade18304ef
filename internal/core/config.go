package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameDelta returns the nominal frame duration in seconds for the tick rate.
func (c RuntimeConfig) FrameDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the summary a game reports back to the platform after each step.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score known to the game
	Level     int  // Wave, level or stage reached
	GameOver  bool // Whether the game has ended
	Paused    bool // Whether the game is paused
	Quit      bool // Whether the game asked the platform to stop after this frame
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
