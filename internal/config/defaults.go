package config

import (
	_ "embed"
)

//go:embed defaults/starfall.yaml
var defaultStarfallYAML []byte

// DefaultStarfallConfig returns the built-in tuning.
// It mirrors defaults/starfall.yaml and is used when the embedded file cannot be parsed.
func DefaultStarfallConfig() StarfallConfig {
	return StarfallConfig{
		Field: FieldConfig{
			Width:  900,
			Height: 600,
		},
		Player: PlayerConfig{
			Speed:         360,
			Radius:        14,
			HP:            5,
			Lives:         3,
			FireCooldown:  0.12,
			InvulnWindow:  1.5,
			RespawnInvuln: 1.0,
			StartOffset:   80,
		},
		Projectiles: ProjectileConfig{
			PlayerSpeed:    720,
			EnemySpeed:     240,
			BossRingSpeed:  160,
			BossAimedSpeed: 260,
			Radius:         4,
			Damage:         1,
			OffMargin:      50,
		},
		Enemies: EnemyConfig{
			Drift:       40,
			Sway:        40,
			BasicRadius: 18,
			EliteRadius: 26,
			ExitMargin:  80,
		},
		Boss: BossConfig{
			HP:            150,
			Radius:        70,
			EntrySpeed:    30,
			EntryAltitude: 120,
			Sweep:         200,
			FireInterval:  0.6,
			ExitMargin:    200,
		},
		PowerUps: PowerUpConfig{
			FallSpeed:     40,
			TTL:           8,
			Radius:        20,
			DropChance:    0.18,
			AmbientChance: 0.003,
		},
		Waves: WaveConfig{
			FirstDelay:  1.0,
			BossMinWave: 6,
			BossChance:  0.01,
			ClearDelay:  1.2,
			ClearChance: 0.01,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultStarfallYAML
}
