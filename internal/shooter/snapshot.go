package shooter

import "math"

// Snapshot is a read-only copy of a session, handed to renderers and tests.
// Mutating it does not affect the simulation.
type Snapshot struct {
	Frame     uint64
	State     State
	Field     Field
	Wave      int
	Countdown float64
	HighScore int

	Player       Player
	Boss         *Boss // nil when no boss is active
	Bullets      []Projectile
	EnemyBullets []Projectile
	Enemies      []Enemy
	PowerUps     []PowerUp
	Particles    []Particle

	RNGState uint64 // Zero unless the source exposes its state
}

func copyAll[T any](src []*T) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = *v
	}
	return out
}

// Snapshot returns a deep copy of the current session.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:        s.frame,
		State:        s.state,
		Field:        s.field,
		Wave:         s.director.Wave,
		Countdown:    s.director.Countdown,
		HighScore:    s.highScore,
		Player:       *s.player,
		Bullets:      copyAll(s.bullets),
		EnemyBullets: copyAll(s.enemyBullets),
		Enemies:      copyAll(s.enemies),
		PowerUps:     copyAll(s.powerUps),
		Particles:    copyAll(s.particles),
	}
	if s.boss != nil {
		b := *s.boss
		snap.Boss = &b
	}
	if st, ok := s.src.(interface{ State() uint64 }); ok {
		snap.RNGState = st.State()
	}
	return snap
}

// Score is the player's score at snapshot time.
func (snap *Snapshot) Score() int { return snap.Player.Score }

type hasher uint64

func (h *hasher) addInt(v int) {
	*h = *h*31 + hasher(uint64(v)) //#nosec G115 -- hash computation
}

func (h *hasher) addU64(v uint64) {
	*h = *h*31 + hasher(v)
}

func (h *hasher) addF64(v float64) {
	*h = *h*31 + hasher(math.Float64bits(v))
}

func (h *hasher) addVec(x, y float64) {
	h.addF64(x)
	h.addF64(y)
}

// Hash returns a simple hash of the snapshot for determinism testing.
// Cosmetic particles are counted but not hashed field by field.
func (snap *Snapshot) Hash() uint64 {
	var h hasher
	h.addU64(snap.Frame)
	h.addInt(int(snap.State))
	h.addInt(snap.Wave)
	h.addF64(snap.Countdown)
	h.addInt(snap.HighScore)

	p := snap.Player
	h.addVec(p.Pos.X, p.Pos.Y)
	h.addInt(p.HP)
	h.addInt(p.Lives)
	h.addInt(p.Power)
	h.addInt(p.Score)
	h.addF64(p.Cooldown)
	h.addF64(p.Invuln)

	if b := snap.Boss; b != nil {
		h.addVec(b.Pos.X, b.Pos.Y)
		h.addInt(b.HP)
		h.addF64(b.ShootTimer)
	}
	for _, seq := range [][]Projectile{snap.Bullets, snap.EnemyBullets} {
		h.addInt(len(seq))
		for _, b := range seq {
			h.addVec(b.Pos.X, b.Pos.Y)
			h.addVec(b.Vel.X, b.Vel.Y)
		}
	}
	h.addInt(len(snap.Enemies))
	for _, e := range snap.Enemies {
		h.addVec(e.Pos.X, e.Pos.Y)
		h.addInt(e.HP)
		h.addInt(int(e.Type))
		h.addF64(e.ShootTimer)
	}
	h.addInt(len(snap.PowerUps))
	for _, u := range snap.PowerUps {
		h.addVec(u.Pos.X, u.Pos.Y)
		h.addInt(int(u.Kind))
	}
	h.addInt(len(snap.Particles))
	h.addU64(snap.RNGState)

	return uint64(h)
}
