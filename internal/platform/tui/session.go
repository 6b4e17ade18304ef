package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/storage"
)

// GameSetup is called on every game a session creates, before its first Reset.
type GameSetup func(g registry.Game)

// SessionConfig configures one interactive session.
type SessionConfig struct {
	GameID     string
	Store      *storage.Store
	Runtime    core.RuntimeConfig
	Player     string
	Difficulty string
	HoldWindow time.Duration
	Setup      GameSetup
	Observer   StepObserver
	Logger     *log.Logger
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full session flow: menu -> game -> menu, with the
// scoreboard reachable from the menu. It is the top-level model for SSH sessions.
type SessionModel struct {
	cfg        SessionConfig
	screen     sessionScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	game       *Model
	quitting   bool
}

// NewSessionModel creates a session that starts on the title menu.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return SessionModel{
		cfg:  cfg,
		menu: NewMenuModel(cfg.Store, cfg.GameID, cfg.Runtime, cfg.Difficulty),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Runtime.ScreenW = wsm.Width
		m.cfg.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// Left over from a finished game.
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch m.menu.Choice() {
	case MenuChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuChoicePlay:
		m.cfg.Difficulty = m.menu.Difficulty()
		return m.startGame()
	case MenuChoiceScores:
		m.cfg.Difficulty = m.menu.Difficulty()
		m.scoreboard = NewScoreboardModel(m.cfg.Store, m.cfg.GameID, m.title(),
			m.cfg.Runtime.ScreenW, m.cfg.Runtime.ScreenH)
		m.screen = screenScores
		return m, m.scoreboard.Init()
	}

	return m, cmd
}

// startGame creates a fresh game with the menu's difficulty.
func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	game, err := registry.Create(m.cfg.GameID)
	if err != nil {
		m.cfg.Logger.Error("cannot create game", "game", m.cfg.GameID, "err", err)
		m.quitting = true
		return m, tea.Quit
	}
	if d, ok := game.(registry.DifficultySetter); ok {
		if err := d.SetDifficulty(m.cfg.Difficulty); err != nil {
			m.cfg.Logger.Warn("ignoring difficulty", "difficulty", m.cfg.Difficulty, "err", err)
		}
	}
	if m.cfg.Setup != nil {
		m.cfg.Setup(game)
	}

	runtime := m.cfg.Runtime
	runtime.Seed = time.Now().UnixNano()
	model := NewModel(game, runtime, ModelOptions{
		Store:      m.cfg.Store,
		Player:     m.cfg.Player,
		HoldWindow: m.cfg.HoldWindow,
		Observer:   m.cfg.Observer,
		Logger:     m.cfg.Logger,
		ExitToMenu: true,
	})
	m.game = &model
	m.screen = screenGame
	m.cfg.Logger.Info("game started", "player", m.cfg.Player, "difficulty", m.cfg.Difficulty)
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if model, ok := next.(Model); ok {
		m.game = &model
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.Done() {
		m.cfg.Logger.Info("game finished", "player", m.cfg.Player, "score", m.game.State().Score)
		m.game = nil
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so it shows the latest best score.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.cfg.Store, m.cfg.GameID, m.cfg.Runtime, m.cfg.Difficulty)
	m.screen = screenMenu
	return m, m.menu.Init()
}

func (m SessionModel) title() string {
	for _, g := range registry.List() {
		if g.ID == m.cfg.GameID {
			return g.Title
		}
	}
	return m.cfg.GameID
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}
