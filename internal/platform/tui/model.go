package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/storage"
)

// StepObserver receives the wall time each game step took.
type StepObserver interface {
	ObserveStep(d time.Duration)
}

// ModelOptions configures a game model. Every field is optional.
type ModelOptions struct {
	Store      *storage.Store
	Player     string
	HoldWindow time.Duration
	Observer   StepObserver
	Logger     *log.Logger

	// ExitToMenu makes a game-requested quit end the model (see Done)
	// instead of the whole program.
	ExitToMenu bool
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	held       *HeldKeys
	player     string
	observer   StepObserver
	logger     *log.Logger
	exitToMenu bool
	clock      func() time.Time

	gameState  core.GameState
	lastTick   time.Time
	quitting   bool
	done       bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// A store is handed to games that keep a high score.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = "local"
	}

	if u, ok := game.(registry.HighScoreUser); ok && opts.Store != nil {
		u.UseHighScores(opts.Store.HighScores(game.ID()))
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		config:     cfg,
		keys:       NewKeyMapper(),
		held:       NewHeldKeys(opts.HoldWindow),
		player:     player,
		observer:   opts.Observer,
		logger:     logger,
		exitToMenu: opts.ExitToMenu,
		clock:      time.Now,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The game draws its field scaled to whatever the screen is.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.keys.IsAutofireToggle(msg) {
		m.held.ToggleAutofire()
		return m, nil
	}

	action, forceQuit := m.keys.MapKey(msg)
	if forceQuit {
		m.quitting = true
		return m, tea.Quit
	}
	m.held.Press(action, m.clock())
	return m, nil
}

// handleTick runs one simulation step with the measured frame time.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.done || m.quitting {
		return m, nil
	}

	dt := m.config.FrameDelta()
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	in := m.held.Frame(m.clock())
	start := time.Now()
	result := m.game.Step(in, dt)
	if m.observer != nil {
		m.observer.ObserveStep(time.Since(start))
	}
	m.gameState = result.State

	if m.gameState.GameOver {
		if !m.scoreSaved {
			m.saveScore()
			m.scoreSaved = true
		}
	} else {
		m.scoreSaved = false
	}

	if m.gameState.Quit {
		if m.exitToMenu {
			m.done = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(m.config.TickRate)
}

// saveScore appends the finished game to the score history.
func (m *Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, err := m.store.SaveScore(storage.ScoreEntry{
		GameID: m.game.ID(),
		Player: m.player,
		Score:  m.gameState.Score,
		Wave:   m.gameState.Level,
	})
	if err != nil {
		m.logger.Warn("could not save score", "player", m.player, "score", m.gameState.Score, "err", err)
		return
	}
	m.logger.Info("score saved", "player", m.player, "score", m.gameState.Score, "wave", m.gameState.Level)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}
	dir := filepath.Join(home, ".starfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "err", err)
		return
	}

	timestamp := m.clock().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "path", path, "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
// A game-requested quit still shows its last frame.
func (m Model) View() string {
	if m.quitting && !m.gameState.Quit {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last state the game reported.
func (m Model) State() core.GameState {
	return m.gameState
}

// Done reports whether the game asked to leave while ExitToMenu is set.
func (m Model) Done() bool {
	return m.done
}

// IsQuitting reports whether the whole program should stop.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
