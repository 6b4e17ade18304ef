package shooter

import "github.com/vovakirdan/starfall/internal/core"

// Owner tags which side fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
	ownerCount
)

// EnemyType distinguishes the two regular enemy variants.
// The numeric value feeds the score and speed formulas.
type EnemyType int

const (
	EnemyBasic EnemyType = iota
	EnemyElite
	enemyTypeCount
)

// PowerUpKind is the closed set of pickups.
type PowerUpKind int

const (
	PowerUpHeal PowerUpKind = iota
	PowerUpPower
	PowerUpScore
	powerUpKindCount
)

// Appearance is how a closed-set kind is drawn and named.
type Appearance struct {
	Glyph rune
	Color core.Color
	Name  string
}

var ownerLooks = [...]Appearance{
	OwnerPlayer: {Glyph: '|', Color: core.ColorBrightYellow, Name: "player"},
	OwnerEnemy:  {Glyph: '•', Color: core.ColorBrightRed, Name: "enemy"},
}

var enemyLooks = [...]Appearance{
	EnemyBasic: {Glyph: 'W', Color: core.ColorRed, Name: "basic"},
	EnemyElite: {Glyph: 'M', Color: core.ColorOrange, Name: "elite"},
}

var powerUpLooks = [...]Appearance{
	PowerUpHeal:  {Glyph: '+', Color: core.ColorGreen, Name: "heal"},
	PowerUpPower: {Glyph: 'P', Color: core.ColorBlue, Name: "power"},
	PowerUpScore: {Glyph: '$', Color: core.ColorYellow, Name: "score"},
}

// The lookup tables must cover every kind exactly; a mismatch is a negative array length.
var (
	_ [len(ownerLooks) - int(ownerCount)]struct{}
	_ [int(ownerCount) - len(ownerLooks)]struct{}
	_ [len(enemyLooks) - int(enemyTypeCount)]struct{}
	_ [int(enemyTypeCount) - len(enemyLooks)]struct{}
	_ [len(powerUpLooks) - int(powerUpKindCount)]struct{}
	_ [int(powerUpKindCount) - len(powerUpLooks)]struct{}
)

// Appearance returns the glyph, color and name of the owner's projectiles.
func (o Owner) Appearance() Appearance { return ownerLooks[o] }

func (o Owner) String() string { return ownerLooks[o].Name }

// Appearance returns the glyph, color and name of the enemy type.
func (t EnemyType) Appearance() Appearance { return enemyLooks[t] }

func (t EnemyType) String() string { return enemyLooks[t].Name }

// Appearance returns the glyph, color and name of the power-up kind.
func (k PowerUpKind) Appearance() Appearance { return powerUpLooks[k] }

func (k PowerUpKind) String() string { return powerUpLooks[k].Name }

// randomPowerUpKind draws uniformly from every kind.
func randomPowerUpKind(src core.Source) PowerUpKind {
	return PowerUpKind(src.Intn(int(powerUpKindCount)))
}

// bossDropKinds is the pool boss drops are drawn from, with replacement.
var bossDropKinds = [...]PowerUpKind{PowerUpPower, PowerUpHeal}
