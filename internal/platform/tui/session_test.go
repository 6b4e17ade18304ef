package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/registry"
)

func newTestSession(t *testing.T, setup GameSetup) SessionModel {
	t.Helper()
	return NewSessionModel(SessionConfig{
		GameID:     fakeGameID,
		Store:      openStore(t),
		Runtime:    core.RuntimeConfig{ScreenW: 90, ScreenH: 30, TickRate: 60},
		Player:     "grace",
		Difficulty: "normal",
		Setup:      setup,
	})
}

func sessionStep(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionStartsGame(t *testing.T) {
	var setupCalls int
	m := newTestSession(t, func(registry.Game) { setupCalls++ })

	// Move to difficulty and pick "hard", then back to Play.
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := sessionStep(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.screen != screenGame || m.game == nil {
		t.Fatalf("screen = %v, want game", m.screen)
	}
	if cmd == nil {
		t.Error("starting a game should schedule a tick")
	}
	if setupCalls != 1 {
		t.Errorf("setup called %d times, want 1", setupCalls)
	}
	if lastFake.difficulty != "hard" {
		t.Errorf("difficulty = %q, want hard", lastFake.difficulty)
	}
	if lastFake.resets != 1 {
		t.Errorf("resets = %d, want 1", lastFake.resets)
	}
	if lastFake.scores == nil {
		t.Error("session store not attached to game")
	}
}

func TestSessionGameDoneReturnsToMenu(t *testing.T) {
	m := newTestSession(t, nil)
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	lastFake.state = core.GameState{Score: 120, GameOver: true, Quit: true}

	m, cmd := sessionStep(t, m, TickMsg{})
	if m.screen != screenMenu || m.game != nil {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
	if cmd != nil {
		t.Error("returning to the menu should not quit")
	}
	if m.menu.best != 0 {
		// The fake game never writes the high-score record.
		t.Errorf("menu best = %d", m.menu.best)
	}
	scores, err := m.cfg.Store.TopScores(fakeGameID, 5)
	if err != nil || len(scores) != 1 || scores[0].Player != "grace" {
		t.Errorf("scores = %+v, err %v", scores, err)
	}

	// Stray ticks from the finished game are ignored by the menu.
	m, cmd = sessionStep(t, m, TickMsg{})
	if cmd != nil || m.screen != screenMenu {
		t.Error("menu reacted to a tick")
	}
}

func TestSessionScoreboardRoundTrip(t *testing.T) {
	m := newTestSession(t, nil)
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, want scores", m.screen)
	}
	if m.View() == "" {
		t.Error("scoreboard view empty")
	}

	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession(t, nil)
	m, cmd := sessionStep(t, m, runeKey('q'))
	if cmd == nil || !m.quitting {
		t.Error("q on the menu should end the session")
	}
	if m.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestSessionResizeReachesGame(t *testing.T) {
	m := newTestSession(t, nil)
	m, _ = sessionStep(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = sessionStep(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.cfg.Runtime.ScreenW != 120 || m.game.screen.Width() != 120 {
		t.Error("resize not propagated")
	}
}
