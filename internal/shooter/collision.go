package shooter

import "github.com/vovakirdan/starfall/internal/core"

// Score awards.
const (
	bossBounty  = 1000
	scoreBonus  = 200
	healAmount  = 2
	contactDmg  = 1
	bulletSpark = 4
	bossSpark   = 8
	bossBlast   = 60
	playerBlast = 18
	rammedBlast = 20
)

// resolveCollisions runs the interaction stages in fixed order. Entities
// are only marked dead here; sequences are compacted by the caller.
func (s *Simulation) resolveCollisions() {
	s.bulletsVsBoss()
	s.bulletsVsEnemies()
	s.enemyBulletsVsPlayer()
	s.enemiesVsPlayer()
	s.playerVsPowerUps()
}

// bulletsVsBoss consumes every player projectile that reaches the boss.
// The boss is defeated once, by the projectile that takes its hp to zero.
func (s *Simulation) bulletsVsBoss() {
	for _, b := range s.bullets {
		if s.boss == nil {
			return
		}
		if b.dead || !core.Overlaps(b.Pos, b.Radius, s.boss.Pos, s.boss.Radius) {
			continue
		}
		b.kill()
		s.boss.HP -= b.Damage
		s.explode(b.Pos, bossSpark, core.ColorBrightYellow)
		if s.boss.HP <= 0 {
			s.defeatBoss()
		}
	}
}

func (s *Simulation) defeatBoss() {
	s.explode(s.boss.Pos, bossBlast, core.ColorBrightRed)
	s.player.Score += bossBounty
	s.boss = nil
	s.dropBossLoot()
	s.events.BossesDefeated++
	s.logger.Info("boss defeated", "score", s.player.Score)
}

// bulletsVsEnemies lets each projectile hit the first live enemy it overlaps.
func (s *Simulation) bulletsVsEnemies() {
	for _, b := range s.bullets {
		if b.dead {
			continue
		}
		for _, e := range s.enemies {
			if e.dead || !core.Overlaps(b.Pos, b.Radius, e.Pos, e.Radius) {
				continue
			}
			b.kill()
			e.HP -= b.Damage
			s.explode(b.Pos, bulletSpark, core.ColorOrange)
			if e.HP <= 0 {
				s.killEnemy(e)
			}
			break
		}
	}
}

func (s *Simulation) killEnemy(e *Enemy) {
	e.kill()
	s.player.Score += e.Points()
	s.events.EnemiesKilled++
	if core.Chance(s.src, s.cfg.PowerUps.DropChance) {
		s.spawnPowerUp(e.Pos, randomPowerUpKind(s.src))
	}
}

// enemyBulletsVsPlayer consumes every enemy projectile touching the player,
// whether or not the hit landed through invulnerability.
func (s *Simulation) enemyBulletsVsPlayer() {
	p := s.player
	for _, b := range s.enemyBullets {
		if b.dead || !core.Overlaps(b.Pos, b.Radius, p.Pos, p.Radius) {
			continue
		}
		b.kill()
		if s.hurtPlayer(b.Damage) {
			s.explode(p.Pos, playerBlast, core.ColorRed)
		}
	}
}

// enemiesVsPlayer handles ramming. The enemy is destroyed only when the hit
// lands, and ramming never scores.
func (s *Simulation) enemiesVsPlayer() {
	p := s.player
	for _, e := range s.enemies {
		if e.dead || !core.Overlaps(e.Pos, e.Radius, p.Pos, p.Radius) {
			continue
		}
		if s.hurtPlayer(contactDmg) {
			s.explode(e.Pos, rammedBlast, core.ColorOrange)
			e.kill()
		}
	}
}

func (s *Simulation) playerVsPowerUps() {
	p := s.player
	for _, u := range s.powerUps {
		if u.dead || !core.Overlaps(u.Pos, s.cfg.PowerUps.Radius, p.Pos, p.Radius) {
			continue
		}
		u.kill()
		s.applyPowerUp(u.Kind)
	}
}

func (s *Simulation) applyPowerUp(kind PowerUpKind) {
	switch kind {
	case PowerUpHeal:
		s.player.Heal(healAmount)
	case PowerUpPower:
		s.player.PowerUp()
	case PowerUpScore:
		s.player.Score += scoreBonus
	}
	s.events.PowerUpsCollected++
}

// hurtPlayer applies damage and handles life loss. It reports whether the
// hit landed.
func (s *Simulation) hurtPlayer(dmg int) bool {
	if s.state == StateGameOver {
		return false
	}
	p := s.player
	if !p.Hurt(dmg) {
		return false
	}
	s.events.PlayerHits++
	if p.HP > 0 {
		return true
	}

	p.Lives--
	s.events.LivesLost++
	if p.Lives > 0 {
		p.Respawn(s.cfg.Player.RespawnInvuln)
		s.logger.Info("life lost", "lives", p.Lives, "wave", s.director.Wave)
		return true
	}
	s.gameOver()
	return true
}

// gameOver ends the session and records a new high score. Persistence is
// best-effort: a failed save is logged and play continues.
func (s *Simulation) gameOver() {
	s.state = StateGameOver
	s.events.GameOver = true
	score := s.player.Score
	s.logger.Info("game over", "score", score, "wave", s.director.Wave, "high", s.highScore)

	// Other sessions may have raised the record since this one started.
	s.highScore = max(s.highScore, s.loadHighScore())
	if score <= s.highScore {
		return
	}
	s.highScore = score
	s.events.NewHighScore = true
	if s.scores == nil {
		return
	}
	if err := s.scores.SaveHighScore(score); err != nil {
		s.logger.Warn("failed to save high score", "score", score, "err", err)
	}
}
