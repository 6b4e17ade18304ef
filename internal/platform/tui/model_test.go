package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/storage"
)

const fakeGameID = "tui-fake"

// fakeGame records what the platform feeds it and reports a scripted state.
type fakeGame struct {
	resets     int
	difficulty string
	dts        []float64
	inputs     []core.InputFrame
	state      core.GameState
	scores     core.HighScoreStore
}

func (g *fakeGame) ID() string                          { return fakeGameID }
func (g *fakeGame) Title() string                       { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig)            { g.resets++ }
func (g *fakeGame) Render(dst *core.Screen)             { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) State() core.GameState               { return g.state }
func (g *fakeGame) UseHighScores(s core.HighScoreStore) { g.scores = s }

func (g *fakeGame) SetDifficulty(preset string) error {
	g.difficulty = preset
	return nil
}

func (g *fakeGame) Step(in core.InputFrame, dt float64) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	g.dts = append(g.dts, dt)
	return core.StepResult{State: g.state}
}

var lastFake *fakeGame

func init() {
	registry.Register(fakeGameID, func() registry.Game {
		lastFake = &fakeGame{}
		return lastFake
	})
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestModel(g *fakeGame, opts ModelOptions) Model {
	m := NewModel(g, core.RuntimeConfig{ScreenW: 40, ScreenH: 20, TickRate: 50, Seed: 1}, opts)
	m.clock = func() time.Time { return time.Unix(1000, 0) }
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelAttachesHighScores(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	newTestModel(g, ModelOptions{Store: store})
	if g.scores == nil {
		t.Fatal("store not handed to game")
	}

	g2 := &fakeGame{}
	newTestModel(g2, ModelOptions{})
	if g2.scores != nil {
		t.Error("no store should leave the game without one")
	}
}

func TestModelTickMeasuresDelta(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, ModelOptions{})
	m.Init()
	if g.resets != 1 {
		t.Fatalf("resets = %d, want 1", g.resets)
	}

	t0 := time.Unix(2000, 0)
	m, cmd := step(t, m, TickMsg(t0))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	m, _ = step(t, m, TickMsg(t0.Add(30*time.Millisecond)))
	step(t, m, TickMsg(t0.Add(130*time.Millisecond)))

	want := []float64{0.02, 0.03, 0.1}
	if len(g.dts) != len(want) {
		t.Fatalf("steps = %d, want %d", len(g.dts), len(want))
	}
	for i, dt := range want {
		if diff := g.dts[i] - dt; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("dt[%d] = %v, want %v", i, g.dts[i], dt)
		}
	}
}

func TestModelFeedsHeldKeys(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, ModelOptions{HoldWindow: 100 * time.Millisecond})
	base := time.Unix(1000, 0)

	m, _ = step(t, m, runeKey('a'))
	m, _ = step(t, m, runeKey('p'))
	m, _ = step(t, m, TickMsg(base))
	m, _ = step(t, m, TickMsg(base.Add(time.Millisecond)))
	m.clock = func() time.Time { return base.Add(time.Second) }
	step(t, m, TickMsg(base.Add(time.Second)))

	if !g.inputs[0].Has(core.ActionLeft) || !g.inputs[0].Has(core.ActionPause) {
		t.Errorf("first frame = %v, want Left and Pause", g.inputs[0].Actions)
	}
	if !g.inputs[1].Has(core.ActionLeft) || g.inputs[1].Has(core.ActionPause) {
		t.Errorf("second frame = %v, want Left only", g.inputs[1].Actions)
	}
	if g.inputs[2].Has(core.ActionLeft) {
		t.Error("Left should be released after the hold window")
	}
}

func TestModelAutofireKey(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, ModelOptions{})
	m, _ = step(t, m, runeKey('f'))
	step(t, m, TickMsg(time.Unix(5000, 0)))

	if !g.inputs[0].Has(core.ActionFire) {
		t.Error("autofire should hold Fire")
	}
}

func TestModelSavesScoreOncePerGameOver(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{state: core.GameState{Score: 700, Level: 4, GameOver: true}}
	m := newTestModel(g, ModelOptions{Store: store, Player: "ada"})

	t0 := time.Unix(3000, 0)
	m, _ = step(t, m, TickMsg(t0))
	m, _ = step(t, m, TickMsg(t0.Add(time.Millisecond)))

	g.state = core.GameState{Score: 10}
	m, _ = step(t, m, TickMsg(t0.Add(2*time.Millisecond)))
	g.state = core.GameState{Score: 300, Level: 2, GameOver: true}
	step(t, m, TickMsg(t0.Add(3*time.Millisecond)))

	scores, err := store.TopScores(fakeGameID, 10)
	if err != nil {
		t.Fatalf("TopScores() error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("saved %d scores, want 2", len(scores))
	}
	if scores[0].Score != 700 || scores[0].Wave != 4 || scores[0].Player != "ada" {
		t.Errorf("best entry = %+v", scores[0])
	}
	if scores[1].Score != 300 || scores[1].Wave != 2 {
		t.Errorf("second entry = %+v", scores[1])
	}
}

func TestModelSkipsZeroScore(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{state: core.GameState{GameOver: true}}
	m := newTestModel(g, ModelOptions{Store: store})
	step(t, m, TickMsg(time.Unix(3000, 0)))

	scores, _ := store.TopScores(fakeGameID, 10)
	if len(scores) != 0 {
		t.Errorf("saved %d scores, want 0", len(scores))
	}
}

func TestModelQuit(t *testing.T) {
	tests := []struct {
		name       string
		exitToMenu bool
		wantCmd    bool
		quitting   bool
		done       bool
	}{
		{"standalone", false, true, true, false},
		{"in session", true, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGame{state: core.GameState{GameOver: true, Quit: true}}
			m := newTestModel(g, ModelOptions{ExitToMenu: tt.exitToMenu})
			m, cmd := step(t, m, TickMsg(time.Unix(4000, 0)))

			if (cmd != nil) != tt.wantCmd {
				t.Errorf("cmd = %v, want non-nil %v", cmd != nil, tt.wantCmd)
			}
			if m.IsQuitting() != tt.quitting || m.Done() != tt.done {
				t.Errorf("quitting=%v done=%v", m.IsQuitting(), m.Done())
			}
			if m.View() == "" {
				t.Error("quit requested by the game should keep the last frame")
			}

			// Later ticks are ignored.
			_, cmd = step(t, m, TickMsg(time.Unix(4001, 0)))
			if cmd != nil || len(g.dts) != 1 {
				t.Error("tick after quit should not step")
			}
		})
	}
}

func TestModelForceQuit(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, ModelOptions{ExitToMenu: true})
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.IsQuitting() {
		t.Error("ctrl+c should quit the program")
	}
	if m.View() != "" {
		t.Error("forced quit should clear the view")
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g, ModelOptions{})
	m.Init()
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if g.resets != 1 {
		t.Errorf("resize reset the game (%d resets)", g.resets)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen = %dx%d, want 100x30", m.screen.Width(), m.screen.Height())
	}
}
