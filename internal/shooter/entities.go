package shooter

import (
	"math"

	"github.com/vovakirdan/starfall/internal/config"
	"github.com/vovakirdan/starfall/internal/core"
)

// Field is the play-field rectangle, origin at the top-left.
type Field struct {
	W, H float64
}

// Player bounds: the ship keeps 20 units from the side and bottom edges
// and may not climb above the middle of the field.
const (
	playerEdgeMargin  = 20.0
	powerUpExitMargin = 20.0
	maxPowerLevel     = 3
)

// countdown decrements a timer by dt, stopping at zero.
func countdown(t, dt float64) float64 {
	return math.Max(0, t-dt)
}

// Player is the ship controlled by the input gateway.
type Player struct {
	Pos      core.Vec
	Speed    float64
	Radius   float64
	Cooldown float64 // Seconds until the next shot, <= 0 means ready
	HP       int
	MaxHP    int
	Lives    int
	Power    int // 1..3, selects the shot pattern
	Score    int
	Invuln   float64 // Seconds of remaining invulnerability

	invulnWindow float64
}

// NewPlayer creates a ship at the bottom center of the field.
func NewPlayer(cfg config.PlayerConfig, f Field) *Player {
	return &Player{
		Pos:          core.V(f.W/2, f.H-cfg.StartOffset),
		Speed:        cfg.Speed,
		Radius:       cfg.Radius,
		HP:           cfg.HP,
		MaxHP:        cfg.HP,
		Lives:        cfg.Lives,
		Power:        1,
		invulnWindow: cfg.InvulnWindow,
	}
}

// Update moves the ship from held directions, clamps it to the lower half
// of the field and runs down its timers.
func (p *Player) Update(in Input, dt float64, f Field) {
	step := p.Speed * dt
	if in.Left {
		p.Pos.X -= step
	}
	if in.Right {
		p.Pos.X += step
	}
	if in.Up {
		p.Pos.Y -= step
	}
	if in.Down {
		p.Pos.Y += step
	}
	p.Clamp(f)

	p.Cooldown = countdown(p.Cooldown, dt)
	p.Invuln = countdown(p.Invuln, dt)
}

// Clamp forces the ship back inside its allowed area.
func (p *Player) Clamp(f Field) {
	p.Pos.X = core.ClampF(p.Pos.X, playerEdgeMargin, f.W-playerEdgeMargin)
	p.Pos.Y = core.ClampF(p.Pos.Y, f.H/2, f.H-playerEdgeMargin)
}

// CanFire reports whether the shot cooldown has elapsed.
func (p *Player) CanFire() bool {
	return p.Cooldown <= 0
}

// Hurt applies damage unless the ship is invulnerable.
// A successful hit re-arms invulnerability and returns true.
func (p *Player) Hurt(dmg int) bool {
	if p.Invuln > 0 {
		return false
	}
	p.HP = max(0, p.HP-dmg)
	p.Invuln = p.invulnWindow
	return true
}

// Respawn refills hp after a lost life and grants a short grace window.
func (p *Player) Respawn(grace float64) {
	p.HP = p.MaxHP
	p.Invuln = grace
}

// Heal adds hp up to the maximum.
func (p *Player) Heal(n int) {
	p.HP = min(p.MaxHP, p.HP+n)
}

// PowerUp raises the shot pattern level, capped at 3.
func (p *Player) PowerUp() {
	p.Power = min(maxPowerLevel, p.Power+1)
}

// Projectile is a bullet fired by the player or an enemy.
type Projectile struct {
	Pos    core.Vec
	Vel    core.Vec
	Owner  Owner
	Damage int
	Radius float64

	dead bool
}

// Update advances the projectile along its velocity.
func (b *Projectile) Update(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// Offscreen reports whether the projectile left the field by more than margin.
func (b *Projectile) Offscreen(f Field, margin float64) bool {
	return b.Pos.X < -margin || b.Pos.X > f.W+margin || b.Pos.Y < -margin || b.Pos.Y > f.H+margin
}

// Enemy is a regular wave enemy.
type Enemy struct {
	Pos        core.Vec
	HP         int
	Radius     float64
	Type       EnemyType
	Speed      float64
	Phase      float64
	ShootTimer float64

	drift float64
	sway  float64
	dead  bool
}

// Update drifts the enemy downward while swaying sideways.
func (e *Enemy) Update(dt float64) {
	e.Phase += dt * 2
	e.Pos.X += math.Sin(e.Phase) * e.sway * dt
	e.Pos.Y += e.Speed * e.drift * dt
	e.ShootTimer -= dt
}

// Points is the score awarded for destroying the enemy.
func (e *Enemy) Points() int {
	return 50 + int(e.Type)*25
}

// Boss is the single large enemy that appears from wave 6 onward.
type Boss struct {
	Pos        core.Vec
	HP         int
	MaxHP      int
	Radius     float64
	Phase      float64
	ShootTimer float64

	centerX       float64
	entrySpeed    float64
	entryAltitude float64
	sweep         float64
	fireInterval  float64
}

// Boss entry starts this far above the field.
const bossStartY = -120.0

// NewBoss creates a boss above the top center of the field.
func NewBoss(cfg config.BossConfig, f Field) *Boss {
	return &Boss{
		Pos:           core.V(f.W/2, bossStartY),
		HP:            cfg.HP,
		MaxHP:         cfg.HP,
		Radius:        cfg.Radius,
		ShootTimer:    cfg.FireInterval,
		centerX:       f.W / 2,
		entrySpeed:    cfg.EntrySpeed,
		entryAltitude: cfg.EntryAltitude,
		sweep:         cfg.Sweep,
		fireInterval:  cfg.FireInterval,
	}
}

// Update descends to the entry altitude, then sweeps side to side.
func (b *Boss) Update(dt float64) {
	if b.Pos.Y < b.entryAltitude {
		b.Pos.Y += b.entrySpeed * dt
	} else {
		b.Phase += dt * 1.5
		b.Pos.X = b.centerX + math.Sin(b.Phase)*b.sweep
	}
	b.ShootTimer -= dt
}

// Entered reports whether the boss finished its entry descent.
func (b *Boss) Entered() bool {
	return b.Pos.Y >= b.entryAltitude
}

// PowerUp is a falling pickup.
type PowerUp struct {
	Pos  core.Vec
	Kind PowerUpKind
	TTL  float64

	fall float64
	dead bool
}

// Update moves the pickup down and ages it.
func (p *PowerUp) Update(dt float64) {
	p.Pos.Y += p.fall * dt
	p.TTL -= dt
}

// Expired reports whether the pickup's time-to-live ran out.
func (p *PowerUp) Expired() bool {
	return p.TTL <= 0
}

// Particle is a cosmetic spark.
type Particle struct {
	Pos   core.Vec
	Vel   core.Vec
	Life  float64
	Size  int
	Color core.Color
}

// Update moves and ages the particle.
func (p *Particle) Update(dt float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Life -= dt
}

// Dead reports whether the particle faded out.
func (p *Particle) Dead() bool {
	return p.Life <= 0
}

// Mark-then-compact: resolution marks entities dead, sequences are compacted
// once the pass is over. Marking twice is harmless.

func (b *Projectile) kill() { b.dead = true }
func (e *Enemy) kill()      { e.dead = true }
func (p *PowerUp) kill()    { p.dead = true }

func (b *Projectile) isDead() bool { return b.dead }
func (e *Enemy) isDead() bool      { return e.dead }
func (p *PowerUp) isDead() bool    { return p.dead }
func (p *Particle) isDead() bool   { return p.Dead() }

type mortal interface {
	isDead() bool
}

// compact drops dead entities in place, keeping order.
func compact[T mortal](s []T) []T {
	live := s[:0]
	for _, e := range s {
		if !e.isDead() {
			live = append(live, e)
		}
	}
	clear(s[len(live):])
	return live
}
