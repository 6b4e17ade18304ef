// Package config provides YAML-based tuning for the starfall simulation:
// embedded defaults, a user/local search path and difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// StarfallConfig is the full tuning surface of the simulation.
type StarfallConfig struct {
	Field       FieldConfig      `yaml:"field"`
	Player      PlayerConfig     `yaml:"player"`
	Projectiles ProjectileConfig `yaml:"projectiles"`
	Enemies     EnemyConfig      `yaml:"enemies"`
	Boss        BossConfig       `yaml:"boss"`
	PowerUps    PowerUpConfig    `yaml:"powerups"`
	Waves       WaveConfig       `yaml:"waves"`
}

// FieldConfig defines the play-field size in field units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the player ship.
type PlayerConfig struct {
	Speed         float64 `yaml:"speed"`
	Radius        float64 `yaml:"radius"`
	HP            int     `yaml:"hp"`
	Lives         int     `yaml:"lives"`
	FireCooldown  float64 `yaml:"fire_cooldown"`  // Seconds between shots, 0 = every frame
	InvulnWindow  float64 `yaml:"invuln_window"`  // Invulnerability after a hit
	RespawnInvuln float64 `yaml:"respawn_invuln"` // Invulnerability after losing a life
	StartOffset   float64 `yaml:"start_offset"`   // Spawn distance above the bottom edge
}

// ProjectileConfig defines bullet speeds and size.
type ProjectileConfig struct {
	PlayerSpeed    float64 `yaml:"player_speed"`
	EnemySpeed     float64 `yaml:"enemy_speed"`
	BossRingSpeed  float64 `yaml:"boss_ring_speed"`
	BossAimedSpeed float64 `yaml:"boss_aimed_speed"`
	Radius         float64 `yaml:"radius"`
	Damage         int     `yaml:"damage"`
	OffMargin      float64 `yaml:"off_margin"` // Removal margin outside the field
}

// EnemyConfig defines regular enemy motion and size.
type EnemyConfig struct {
	Drift       float64 `yaml:"drift"` // Downward speed per unit of enemy speed
	Sway        float64 `yaml:"sway"`  // Horizontal oscillation amplitude per second
	BasicRadius float64 `yaml:"basic_radius"`
	EliteRadius float64 `yaml:"elite_radius"`
	ExitMargin  float64 `yaml:"exit_margin"`
}

// BossConfig defines the boss encounter.
type BossConfig struct {
	HP            int     `yaml:"hp"`
	Radius        float64 `yaml:"radius"`
	EntrySpeed    float64 `yaml:"entry_speed"`
	EntryAltitude float64 `yaml:"entry_altitude"`
	Sweep         float64 `yaml:"sweep"`
	FireInterval  float64 `yaml:"fire_interval"`
	ExitMargin    float64 `yaml:"exit_margin"`
}

// PowerUpConfig defines falling power-ups.
type PowerUpConfig struct {
	FallSpeed     float64 `yaml:"fall_speed"`
	TTL           float64 `yaml:"ttl"`
	Radius        float64 `yaml:"radius"`
	DropChance    float64 `yaml:"drop_chance"`    // Per enemy kill
	AmbientChance float64 `yaml:"ambient_chance"` // Per frame
}

// WaveConfig defines wave pacing and boss activation.
type WaveConfig struct {
	FirstDelay  float64 `yaml:"first_delay"`
	BossMinWave int     `yaml:"boss_min_wave"`
	BossChance  float64 `yaml:"boss_chance"`  // Per frame, once BossMinWave is reached
	ClearDelay  float64 `yaml:"clear_delay"`  // Countdown cap while the field is empty
	ClearChance float64 `yaml:"clear_chance"` // Per frame chance of an immediate wave on an empty field
}

// Validate rejects configurations the simulation cannot run with.
func (c StarfallConfig) Validate() error {
	var errs []error

	if c.Field.Width < 100 || c.Field.Height < 100 {
		errs = append(errs, fmt.Errorf("field must be at least 100x100, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Player.HP <= 0 {
		errs = append(errs, fmt.Errorf("player.hp must be positive, got %d", c.Player.HP))
	}
	if c.Player.Lives <= 0 {
		errs = append(errs, fmt.Errorf("player.lives must be positive, got %d", c.Player.Lives))
	}
	if c.Player.FireCooldown < 0 {
		errs = append(errs, fmt.Errorf("player.fire_cooldown must not be negative, got %g", c.Player.FireCooldown))
	}
	if c.Boss.HP <= 0 {
		errs = append(errs, fmt.Errorf("boss.hp must be positive, got %d", c.Boss.HP))
	}
	for name, p := range map[string]float64{
		"powerups.drop_chance":    c.PowerUps.DropChance,
		"powerups.ambient_chance": c.PowerUps.AmbientChance,
		"waves.boss_chance":       c.Waves.BossChance,
		"waves.clear_chance":      c.Waves.ClearChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %g", name, p))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
