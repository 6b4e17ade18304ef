// Package shooter implements the starfall simulation core: a player ship
// surviving waves of enemies and a periodic boss. It has no terminal or
// storage dependencies; gateways for persistence, input and presentation
// are injected.
package shooter

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starfall/internal/config"
	"github.com/vovakirdan/starfall/internal/core"
)

// State is the top-level state of a session.
type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// MaxDT is the longest step the simulation will integrate in one frame.
const MaxDT = 0.05

// ClampDT bounds a frame delta to [0, MaxDT].
func ClampDT(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return min(dt, MaxDT)
}

// HighScoreStore is the persistence gateway for the best score.
type HighScoreStore = core.HighScoreStore

// FrameEvents counts what happened during one Step.
type FrameEvents struct {
	WavesSpawned      int
	ShotsFired        int
	EnemiesKilled     int
	BossesDefeated    int
	PowerUpsCollected int
	PlayerHits        int
	LivesLost         int
	BossSpawned       bool
	GameOver          bool
	NewHighScore      bool
}

// EventSink receives the events of every frame that advanced play.
type EventSink interface {
	RecordFrame(ev FrameEvents, score int)
}

// StepResult is the outcome of a single Step.
type StepResult struct {
	State     State
	Score     int
	HighScore int
	Wave      int
	DT        float64 // Effective, clamped delta
	Quit      bool    // The session should end after this frame is presented
	Events    FrameEvents
}

// Options configures a Simulation. Zero values pick defaults: the embedded
// configuration, a fixed seed of 1, no persistence, no event sink and a
// discarding logger.
type Options struct {
	Config config.StarfallConfig
	Source core.Source
	Scores HighScoreStore
	Events EventSink
	Logger *log.Logger
}

// Simulation owns every entity of a session and advances them frame by frame.
// It is not safe for concurrent use.
type Simulation struct {
	cfg    config.StarfallConfig
	src    core.Source
	scores HighScoreStore
	sink   EventSink
	logger *log.Logger
	field  Field

	player       *Player
	boss         *Boss
	bullets      []*Projectile
	enemyBullets []*Projectile
	enemies      []*Enemy
	powerUps     []*PowerUp
	particles    []*Particle

	director  Director
	state     State
	highScore int
	frame     uint64
	quit      bool
	events    FrameEvents
}

// New creates a simulation ready to play.
func New(opts Options) *Simulation {
	cfg := opts.Config
	if cfg == (config.StarfallConfig{}) {
		cfg = config.DefaultStarfallConfig()
	}
	src := opts.Source
	if src == nil {
		src = core.NewSimpleRNG(1)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Simulation{
		cfg:    cfg,
		src:    src,
		scores: opts.Scores,
		sink:   opts.Events,
		logger: logger,
		field:  Field{W: cfg.Field.Width, H: cfg.Field.Height},
	}
	s.reset()
	return s
}

// reset starts a fresh session and re-reads the stored high score.
func (s *Simulation) reset() {
	s.player = NewPlayer(s.cfg.Player, s.field)
	s.boss = nil
	s.bullets = nil
	s.enemyBullets = nil
	s.enemies = nil
	s.powerUps = nil
	s.particles = nil
	s.director = newDirector(s.cfg.Waves.FirstDelay)
	s.state = StatePlaying
	s.frame = 0
	s.quit = false
	s.highScore = max(s.highScore, s.loadHighScore())
}

func (s *Simulation) loadHighScore() int {
	if s.scores == nil {
		return 0
	}
	hs, err := s.scores.LoadHighScore()
	if err != nil {
		s.logger.Warn("failed to load high score", "err", err)
		return 0
	}
	return max(0, hs)
}

// Restart discards the session and begins a new one. The high score is kept.
func (s *Simulation) Restart() {
	s.reset()
	s.logger.Debug("session restarted")
}

// Step advances the simulation by dt seconds. dt is clamped to MaxDT here
// and nowhere else. While paused or after game over only the state
// transitions run; a frame that changes state does not advance play.
func (s *Simulation) Step(in Input, dt float64) StepResult {
	dt = ClampDT(dt)
	s.events = FrameEvents{}
	playing := s.state == StatePlaying

	switch s.state {
	case StatePlaying:
		if in.Pause {
			s.state = StatePaused
		}
	case StatePaused:
		if in.Pause {
			s.state = StatePlaying
		}
	case StateGameOver:
		switch {
		case in.Restart:
			s.Restart()
		case in.Quit:
			s.quit = true
		}
	}
	if in.Escape {
		s.quit = true
	}

	if playing && s.state == StatePlaying && !s.quit {
		s.update(in, dt)
		if s.sink != nil {
			s.sink.RecordFrame(s.events, s.player.Score)
		}
	}

	return StepResult{
		State:     s.state,
		Score:     s.player.Score,
		HighScore: s.highScore,
		Wave:      s.director.Wave,
		DT:        dt,
		Quit:      s.quit,
		Events:    s.events,
	}
}

// update is one frame of play: motion, spawning, collisions, cleanup.
func (s *Simulation) update(in Input, dt float64) {
	s.frame++
	s.player.Update(in, dt, s.field)
	if in.Fire && s.player.CanFire() {
		s.firePlayer()
	}

	s.director.tick(s, dt)
	s.maybeSpawnBoss()

	s.moveProjectiles(dt)
	s.moveEnemies(dt)
	s.moveBoss(dt)
	s.movePowerUps(dt)

	s.resolveCollisions()
	s.maybeSpawnAmbientPowerUp()

	for _, p := range s.particles {
		p.Update(dt)
	}

	s.compact()
	s.fieldCleared()
}

func (s *Simulation) moveProjectiles(dt float64) {
	margin := s.cfg.Projectiles.OffMargin
	for _, seq := range [][]*Projectile{s.bullets, s.enemyBullets} {
		for _, b := range seq {
			b.Update(dt)
			if b.Offscreen(s.field, margin) {
				b.kill()
			}
		}
	}
}

func (s *Simulation) moveEnemies(dt float64) {
	exit := s.field.H + s.cfg.Enemies.ExitMargin
	for _, e := range s.enemies {
		e.Update(dt)
		if e.Pos.Y > exit {
			e.kill()
			continue
		}
		if e.ShootTimer <= 0 {
			s.fireEnemy(e)
		}
	}
}

func (s *Simulation) moveBoss(dt float64) {
	b := s.boss
	if b == nil {
		return
	}
	b.Update(dt)
	if b.ShootTimer <= 0 {
		s.fireBoss(b)
	}
	if b.Pos.Y > s.field.H+s.cfg.Boss.ExitMargin {
		s.boss = nil
	}
}

func (s *Simulation) movePowerUps(dt float64) {
	exit := s.field.H + powerUpExitMargin
	for _, u := range s.powerUps {
		u.Update(dt)
		if u.Expired() || u.Pos.Y > exit {
			u.kill()
		}
	}
}

// compact drops everything marked dead during this frame.
func (s *Simulation) compact() {
	s.bullets = compact(s.bullets)
	s.enemyBullets = compact(s.enemyBullets)
	s.enemies = compact(s.enemies)
	s.powerUps = compact(s.powerUps)
	s.particles = compact(s.particles)
}

// State returns the current top-level state.
func (s *Simulation) State() State { return s.state }

// Player returns the live player record.
func (s *Simulation) Player() *Player { return s.player }

// Wave returns the index of the next wave to spawn.
func (s *Simulation) Wave() int { return s.director.Wave }

// HighScore returns the best score known to the session.
func (s *Simulation) HighScore() int { return s.highScore }

// Field returns the play-field size.
func (s *Simulation) Field() Field { return s.field }

// Config returns the tuning the simulation runs with.
func (s *Simulation) Config() config.StarfallConfig { return s.cfg }
