package shooter

import (
	"math"

	"github.com/vovakirdan/starfall/internal/core"
)

// Wave pacing. The interval shrinks by 0.2s per wave down to a 2s floor.
const (
	waveBaseSize     = 5
	waveSizePerWave  = 2
	eliteChanceStep  = 0.05
	eliteChanceCap   = 0.3
	eliteHP          = 3
	waveIntervalBase = 6.0
	waveIntervalStep = 0.2
	waveIntervalMin  = 2.0
)

// Spawn area for regular enemies, entering from above.
const (
	enemySpawnMarginX = 60
	enemySpawnTop     = -300
	enemySpawnBottom  = -60
	ambientMarginX    = 40
	ambientSpawnY     = -20
	bossDropSpreadX   = 80
	bossDropY         = -50
	bossDropCount     = 3
)

// WaveSize is the number of enemies spawned for the given wave.
func WaveSize(wave int) int {
	return waveBaseSize + wave*waveSizePerWave
}

// EliteChance is the probability that an enemy of the given wave is elite.
func EliteChance(wave int) float64 {
	return math.Min(eliteChanceCap, float64(wave)*eliteChanceStep)
}

// BasicHP is the hit points of a basic enemy in the given wave.
func BasicHP(wave int) int {
	return 1 + wave/3
}

// WaveInterval is the countdown armed after a wave spawn.
// wave is the index after the spawn advanced it.
func WaveInterval(wave int) float64 {
	return math.Max(waveIntervalMin, waveIntervalBase-float64(wave)*waveIntervalStep)
}

// Director decides when waves arrive.
type Director struct {
	Countdown float64 // Seconds until the next wave
	Wave      int     // Index of the next wave to spawn, starts at 1
}

func newDirector(firstDelay float64) Director {
	return Director{Countdown: firstDelay, Wave: 1}
}

// tick runs the countdown and spawns a wave when it expires.
func (d *Director) tick(s *Simulation, dt float64) {
	d.Countdown -= dt
	if d.Countdown <= 0 {
		s.spawnWave()
		d.Countdown = WaveInterval(d.Wave)
	}
}

// spawnWave appends the next batch of enemies and advances the wave index.
func (s *Simulation) spawnWave() {
	wave := s.director.Wave
	n := WaveSize(wave)
	for range n {
		x := float64(core.IntRange(s.src, enemySpawnMarginX, int(s.field.W)-enemySpawnMarginX))
		y := float64(core.IntRange(s.src, enemySpawnTop, enemySpawnBottom))
		typ := EnemyBasic
		hp := BasicHP(wave)
		if core.Chance(s.src, EliteChance(wave)) {
			typ = EnemyElite
			hp = eliteHP
		}
		s.enemies = append(s.enemies, s.newEnemy(core.V(x, y), typ, hp))
	}
	s.director.Wave++
	s.events.WavesSpawned++
	s.logger.Debug("wave spawned", "wave", wave, "enemies", n)
}

func (s *Simulation) newEnemy(pos core.Vec, typ EnemyType, hp int) *Enemy {
	e := &Enemy{
		Pos:    pos,
		HP:     hp,
		Type:   typ,
		Radius: s.cfg.Enemies.BasicRadius,
		Speed:  1 + float64(typ)*0.3,
		Phase:  core.Uniform(s.src, 0, 2*math.Pi),
		drift:  s.cfg.Enemies.Drift,
		sway:   s.cfg.Enemies.Sway,
	}
	if typ == EnemyElite {
		e.Radius = s.cfg.Enemies.EliteRadius
		e.ShootTimer = core.Uniform(s.src, 1.2, 3.0)
	} else {
		e.ShootTimer = core.Uniform(s.src, 2.0, 4.0)
	}
	return e
}

// maybeSpawnBoss activates the boss with a small per-frame chance once the
// wave index is high enough and no boss is present.
func (s *Simulation) maybeSpawnBoss() {
	if s.boss != nil || s.director.Wave < s.cfg.Waves.BossMinWave {
		return
	}
	if !core.Chance(s.src, s.cfg.Waves.BossChance) {
		return
	}
	s.boss = NewBoss(s.cfg.Boss, s.field)
	s.events.BossSpawned = true
	s.logger.Info("boss incoming", "wave", s.director.Wave)
}

// maybeSpawnAmbientPowerUp drops a random pickup from the top edge.
func (s *Simulation) maybeSpawnAmbientPowerUp() {
	if !core.Chance(s.src, s.cfg.PowerUps.AmbientChance) {
		return
	}
	x := float64(core.IntRange(s.src, ambientMarginX, int(s.field.W)-ambientMarginX))
	s.spawnPowerUp(core.V(x, ambientSpawnY), randomPowerUpKind(s.src))
}

func (s *Simulation) spawnPowerUp(pos core.Vec, kind PowerUpKind) {
	s.powerUps = append(s.powerUps, &PowerUp{
		Pos:  pos,
		Kind: kind,
		TTL:  s.cfg.PowerUps.TTL,
		fall: s.cfg.PowerUps.FallSpeed,
	})
}

// dropBossLoot scatters three pickups above the player.
func (s *Simulation) dropBossLoot() {
	for range bossDropCount {
		x := s.player.Pos.X + float64(core.IntRange(s.src, -bossDropSpreadX, bossDropSpreadX))
		kind := bossDropKinds[s.src.Intn(len(bossDropKinds))]
		s.spawnPowerUp(core.V(x, bossDropY), kind)
	}
}

// fieldCleared pulls the countdown down while nothing is on screen and
// occasionally spawns the next wave right away.
func (s *Simulation) fieldCleared() {
	if len(s.enemies) > 0 || s.boss != nil {
		return
	}
	s.director.Countdown = math.Min(s.director.Countdown, s.cfg.Waves.ClearDelay)
	if core.Chance(s.src, s.cfg.Waves.ClearChance) {
		s.spawnWave()
	}
}

// spreadAngles are the offsets of the level 1 fan.
var spreadAngles = [...]float64{-0.2, -0.1, 0, 0.1, 0.2}

// ShotPattern returns the projectiles fired by a ship at origin with the
// given power level. Level 1 is a five-way fan, level 2 a parallel pair and
// level 3 a single straight shot. Unknown levels fall back to the fan.
func ShotPattern(power int, origin core.Vec, speed float64, damage int, radius float64) []*Projectile {
	shot := func(x, y, vx float64) *Projectile {
		return &Projectile{
			Pos:    core.V(x, y),
			Vel:    core.V(vx, -speed),
			Owner:  OwnerPlayer,
			Damage: damage,
			Radius: radius,
		}
	}

	switch power {
	case 3:
		return []*Projectile{shot(origin.X, origin.Y-22, 0)}
	case 2:
		return []*Projectile{
			shot(origin.X-6, origin.Y-20, -0.5),
			shot(origin.X+6, origin.Y-20, 0.5),
		}
	default:
		out := make([]*Projectile, 0, len(spreadAngles))
		for _, a := range spreadAngles {
			out = append(out, shot(origin.X+a*10, origin.Y-20, a*speed))
		}
		return out
	}
}

// firePlayer emits the current shot pattern and re-arms the cooldown.
func (s *Simulation) firePlayer() {
	p := s.player
	shots := ShotPattern(p.Power, p.Pos, s.cfg.Projectiles.PlayerSpeed, s.cfg.Projectiles.Damage, s.cfg.Projectiles.Radius)
	for _, b := range shots {
		s.bullets = append(s.bullets, b)
		s.muzzleFlash(b.Pos)
	}
	p.Cooldown = s.cfg.Player.FireCooldown
	s.events.ShotsFired += len(shots)
}

// fireEnemy sends one projectile from e toward the player.
func (s *Simulation) fireEnemy(e *Enemy) {
	ang := e.Pos.Angle(s.player.Pos)
	s.enemyFire(core.V(e.Pos.X, e.Pos.Y+10), core.FromAngle(ang, s.cfg.Projectiles.EnemySpeed))
	e.ShootTimer = core.Uniform(s.src, 1.0, 3.0)
}

// fireBoss emits a jittered 12-way ring plus a three-shot fan at the player.
func (s *Simulation) fireBoss(b *Boss) {
	const ring = 12
	for i := range ring {
		ang := float64(i)*(2*math.Pi/ring) + core.Uniform(s.src, -0.2, 0.2)
		s.enemyFire(b.Pos.Add(core.FromAngle(ang, 40)), core.FromAngle(ang, s.cfg.Projectiles.BossRingSpeed))
	}
	aim := b.Pos.Angle(s.player.Pos)
	for k := -1; k <= 1; k++ {
		a := aim + float64(k)*0.15
		s.enemyFire(core.V(b.Pos.X, b.Pos.Y+30), core.FromAngle(a, s.cfg.Projectiles.BossAimedSpeed))
	}
	b.ShootTimer = b.fireInterval
}

func (s *Simulation) enemyFire(pos, vel core.Vec) {
	s.enemyBullets = append(s.enemyBullets, &Projectile{
		Pos:    pos,
		Vel:    vel,
		Owner:  OwnerEnemy,
		Damage: s.cfg.Projectiles.Damage,
		Radius: s.cfg.Projectiles.Radius,
	})
}

// muzzleFlash emits the small spark trail behind a fresh shot.
func (s *Simulation) muzzleFlash(at core.Vec) {
	for range 4 {
		a := core.Uniform(s.src, -1, 1)
		s.particles = append(s.particles, &Particle{
			Pos:   core.V(at.X, at.Y+6),
			Vel:   core.V(a*20, 0.5*s.src.Float64()*40),
			Life:  0.5,
			Size:  2,
			Color: core.ColorBrightYellow,
		})
	}
}

// explode emits a radial burst of count particles.
func (s *Simulation) explode(at core.Vec, count int, c core.Color) {
	for range count {
		ang := core.Uniform(s.src, 0, 2*math.Pi)
		speed := core.Uniform(s.src, 20, 160)
		s.particles = append(s.particles, &Particle{
			Pos:   at,
			Vel:   core.FromAngle(ang, speed),
			Life:  core.Uniform(s.src, 0.5, 1.0),
			Size:  core.IntRange(s.src, 2, 5),
			Color: c,
		})
	}
}
