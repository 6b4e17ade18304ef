package shooter

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starfall/internal/config"
	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/registry"
)

// GameID is the registry and score-storage identifier.
const GameID = "starfall"

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger is shared by every simulation the registry creates.
var logger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetLogger sets the logger used by simulations created afterwards.
func SetLogger(l *log.Logger) {
	logger = l
}

// LoadConfig resolves the configuration from the CLI path and preset.
// Broken files fall back to the defaults with a warning.
func LoadConfig() config.StarfallConfig {
	return loadConfig(difficultyPreset)
}

func loadConfig(preset config.DifficultyPreset) config.StarfallConfig {
	cfg, err := config.Load(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("using default config", "path", configPath, "err", err)
		}
		cfg = config.DefaultStarfallConfig()
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// Game adapts a Simulation to the platform's Game interface.
type Game struct {
	sim        *Simulation
	scores     HighScoreStore
	sink       EventSink
	difficulty config.DifficultyPreset
	last       StepResult
}

// NewGame creates an unstarted game; Reset must be called before Step.
func NewGame() *Game {
	return &Game{}
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return NewGame()
	})
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return GameID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Starfall" }

// UseHighScores sets the persistence gateway for subsequent resets.
func (g *Game) UseHighScores(store core.HighScoreStore) {
	g.scores = store
}

// UseEventSink sets the per-frame event receiver for subsequent resets.
func (g *Game) UseEventSink(sink EventSink) {
	g.sink = sink
}

// SetDifficulty overrides the CLI preset for this game only.
func (g *Game) SetDifficulty(preset string) error {
	p, err := config.ParsePreset(preset)
	if err != nil {
		return err
	}
	g.difficulty = p
	return nil
}

// Reset starts a new session with a fresh RNG seeded from the runtime config.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	preset := difficultyPreset
	if g.difficulty != "" {
		preset = g.difficulty
	}
	g.sim = New(Options{
		Config: loadConfig(preset),
		Source: core.NewSimpleRNG(runtime.Seed),
		Scores: g.scores,
		Events: g.sink,
		Logger: logger,
	})
	g.last = StepResult{State: StatePlaying, HighScore: g.sim.HighScore(), Wave: g.sim.Wave()}
}

// Step advances the simulation by dt seconds of wall time.
func (g *Game) Step(in core.InputFrame, dt float64) core.StepResult {
	g.last = g.sim.Step(InputFromFrame(in), dt)
	return core.StepResult{State: g.State()}
}

// Render draws the current session into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	Render(g.sim.Snapshot(), dst)
}

// State returns the platform-level summary of the session.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:     g.sim.Player().Score,
		HighScore: g.sim.HighScore(),
		Level:     g.sim.Wave(),
		GameOver:  g.sim.State() == StateGameOver,
		Paused:    g.sim.State() == StatePaused,
		Quit:      g.last.Quit,
	}
}

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *Simulation { return g.sim }

var _ registry.Game = (*Game)(nil)

var (
	_ registry.HighScoreUser    = (*Game)(nil)
	_ registry.DifficultySetter = (*Game)(nil)
)
