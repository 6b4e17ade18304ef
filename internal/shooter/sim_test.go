package shooter

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/starfall/internal/config"
	"github.com/vovakirdan/starfall/internal/core"
)

// scriptedSource replays fixed values, then falls back to values that never
// pass a small probability check.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func newTestSim(t *testing.T, src core.Source, store HighScoreStore) *Simulation {
	t.Helper()
	if src == nil {
		src = core.NewSimpleRNG(42)
	}
	return New(Options{
		Config: config.DefaultStarfallConfig(),
		Source: src,
		Scores: store,
	})
}

const frame = 1.0 / 60.0

func TestClampDT(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.1, MaxDT},
		{1.0, MaxDT},
		{MaxDT, MaxDT},
		{0.016, 0.016},
		{0, 0},
		{-0.5, 0},
	}
	for _, tt := range tests {
		if got := ClampDT(tt.in); got != tt.want {
			t.Errorf("ClampDT(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStepUsesClampedDelta(t *testing.T) {
	s := newTestSim(t, nil, nil)
	start := s.player.Pos.X

	res := s.Step(Input{Left: true}, 2.0)
	if res.DT != MaxDT {
		t.Errorf("effective dt = %v, want %v", res.DT, MaxDT)
	}
	moved := start - s.player.Pos.X
	want := s.cfg.Player.Speed * MaxDT
	if math.Abs(moved-want) > 1e-9 {
		t.Errorf("player moved %v, want %v", moved, want)
	}
	if s.director.Countdown != s.cfg.Waves.FirstDelay-MaxDT {
		t.Errorf("countdown = %v, want %v", s.director.Countdown, s.cfg.Waves.FirstDelay-MaxDT)
	}
}

func TestPauseSkipsPipeline(t *testing.T) {
	s := newTestSim(t, nil, nil)
	for range 30 {
		s.Step(Input{Fire: true}, frame)
	}

	res := s.Step(Input{Pause: true}, frame)
	if res.State != StatePaused {
		t.Fatalf("state = %v, want paused", res.State)
	}
	before := s.Snapshot()
	for range 100 {
		s.Step(Input{Left: true, Fire: true}, frame)
	}
	after := s.Snapshot()
	if before.Hash() != after.Hash() {
		t.Error("simulation advanced while paused")
	}

	if res := s.Step(Input{Pause: true}, frame); res.State != StatePlaying {
		t.Errorf("state = %v, want playing after second toggle", res.State)
	}
	s.Step(Input{}, frame)
	if s.Snapshot().Frame != before.Frame+1 {
		t.Error("simulation did not resume after unpausing")
	}
}

func TestQuitAndEscape(t *testing.T) {
	s := newTestSim(t, nil, nil)
	if res := s.Step(Input{Quit: true}, frame); res.Quit {
		t.Error("quit honoured while playing")
	}
	if res := s.Step(Input{Restart: true}, frame); s.Snapshot().Frame != 2 || res.State != StatePlaying {
		t.Error("restart should be ignored while playing")
	}

	res := s.Step(Input{Escape: true}, frame)
	if !res.Quit {
		t.Error("escape should quit from playing")
	}

	s = newTestSim(t, nil, nil)
	s.gameOver()
	if res := s.Step(Input{Quit: true}, frame); !res.Quit {
		t.Error("quit should be honoured after game over")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	store := NewMemoryHighScores(0)
	s := newTestSim(t, nil, store)
	for range 600 {
		s.Step(Input{Fire: true, Left: true}, frame)
	}
	s.player.Score = 2500
	s.player.Lives = 0
	s.gameOver()
	if s.State() != StateGameOver {
		t.Fatal("expected game over")
	}

	res := s.Step(Input{Restart: true}, frame)
	if res.State != StatePlaying {
		t.Fatalf("state = %v, want playing", res.State)
	}
	snap := s.Snapshot()
	if snap.Wave != 1 {
		t.Errorf("wave = %d, want 1", snap.Wave)
	}
	if len(snap.Bullets)+len(snap.EnemyBullets)+len(snap.Enemies)+len(snap.PowerUps)+len(snap.Particles) != 0 {
		t.Error("entity sequences not cleared")
	}
	if snap.Boss != nil {
		t.Error("boss not cleared")
	}
	cfg := s.cfg.Player
	if snap.Player.Lives != cfg.Lives || snap.Player.HP != cfg.HP || snap.Player.Score != 0 || snap.Player.Power != 1 {
		t.Errorf("player not fresh: %+v", snap.Player)
	}
	if snap.HighScore != 2500 {
		t.Errorf("high score = %d, want 2500 kept across restart", snap.HighScore)
	}
}

func TestFireCooldown(t *testing.T) {
	s := newTestSim(t, nil, nil)

	res := s.Step(Input{Fire: true}, frame)
	if res.Events.ShotsFired != 5 {
		t.Fatalf("first shot fired %d projectiles, want 5", res.Events.ShotsFired)
	}
	if len(s.particles) != 20 {
		t.Errorf("muzzle particles = %d, want 20", len(s.particles))
	}
	if res := s.Step(Input{Fire: true}, frame); res.Events.ShotsFired != 0 {
		t.Error("fired again before cooldown elapsed")
	}

	frames := 0
	for s.Step(Input{Fire: true}, frame).Events.ShotsFired == 0 {
		frames++
		if frames > 60 {
			t.Fatal("cooldown never elapsed")
		}
	}
	if frames < 5 {
		t.Errorf("refired after %d frames, cooldown too short", frames)
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]Input, 3000)
	for i := range inputs {
		inputs[i].Fire = i%3 != 0
		inputs[i].Left = i%200 < 100
		inputs[i].Right = i%200 >= 100
		inputs[i].Up = i%90 < 10
	}

	run := func() Snapshot {
		s := newTestSim(t, core.NewSimpleRNG(12345), nil)
		for _, in := range inputs {
			if s.Step(in, frame).State == StateGameOver {
				break
			}
		}
		return s.Snapshot()
	}

	snap1 := run()
	snap2 := run()
	if snap1.Hash() != snap2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", snap1.Hash(), snap2.Hash())
	}
	if snap1.Score() != snap2.Score() {
		t.Errorf("Determinism failed: scores differ. Run1=%d, Run2=%d", snap1.Score(), snap2.Score())
	}
	if snap1.Wave < 2 {
		t.Errorf("wave = %d, expected waves to have spawned", snap1.Wave)
	}
}

func TestHighScoreLoad(t *testing.T) {
	s := newTestSim(t, nil, NewMemoryHighScores(700))
	if s.HighScore() != 700 {
		t.Errorf("high score = %d, want 700", s.HighScore())
	}

	broken := NewMemoryHighScores(700)
	broken.LoadErr = errors.New("disk gone")
	s = newTestSim(t, nil, broken)
	if s.HighScore() != 0 {
		t.Errorf("high score = %d, want 0 on load failure", s.HighScore())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSim(t, nil, nil)
	s.Step(Input{Fire: true}, frame)

	snap := s.Snapshot()
	snap.Bullets[0].Pos.X = -1000
	snap.Player.Score = 99
	if s.bullets[0].Pos.X == -1000 || s.player.Score == 99 {
		t.Error("snapshot aliases live entities")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StatePlaying:  "playing",
		StatePaused:   "paused",
		StateGameOver: "gameover",
		State(9):      "unknown",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", st, got, want)
		}
	}
}
