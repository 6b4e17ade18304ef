package shooter

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/starfall/internal/core"
)

// Visual characters for rendering
const (
	PlayerChar   = '▲'
	BossEdgeChar = '▓'
	BossBodyChar = '░'
	BossEyeChar  = '◉'
	SparkChar    = '·'
	BlastChar    = '*'
	HeartChar    = '♥'
	HPFullChar   = '■'
	HPEmptyChar  = '□'
)

// Minimum terminal size the renderer will draw the field into.
const (
	MinScreenW = 30
	MinScreenH = 12
	hudRows    = 1
)

// viewport maps field coordinates onto screen cells below the HUD.
type viewport struct {
	field      Field
	cols, rows int
	top        int
}

func newViewport(f Field, dst *core.Screen) viewport {
	return viewport{field: f, cols: dst.Width(), rows: dst.Height() - hudRows, top: hudRows}
}

func (v viewport) cell(p core.Vec) (int, int) {
	x := int(p.X / v.field.W * float64(v.cols))
	y := int(p.Y/v.field.H*float64(v.rows)) + v.top
	return x, y
}

// visible reports whether a cell lies inside the field area.
func (v viewport) visible(x, y int) bool {
	return x >= 0 && x < v.cols && y >= v.top && y < v.top+v.rows
}

func (v viewport) put(dst *core.Screen, p core.Vec, r rune, c core.Color) {
	x, y := v.cell(p)
	if v.visible(x, y) {
		dst.SetColored(x, y, r, c)
	}
}

// Render draws a snapshot into dst. The screen is cleared first.
func Render(snap Snapshot, dst *core.Screen) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH))
		return
	}

	vp := newViewport(snap.Field, dst)
	renderHUD(snap, dst)
	renderParticles(snap, vp, dst)
	renderPowerUps(snap, vp, dst)
	renderEnemies(snap, vp, dst)
	renderBoss(snap, vp, dst)
	renderProjectiles(snap, vp, dst)
	renderPlayer(snap, vp, dst)
	renderOverlay(snap, dst)
}

// renderHUD draws score, wave and player stats on the top row.
func renderHUD(snap Snapshot, dst *core.Screen) {
	p := snap.Player
	left := fmt.Sprintf("SCORE %d  HI %d  WAVE %d", p.Score, max(snap.HighScore, p.Score), snap.Wave)
	dst.DrawTextColored(1, 0, left, core.ColorWhite)

	x := dst.Width() - 1
	if b := snap.Boss; b != nil {
		boss := fmt.Sprintf("BOSS %d/%d", max(0, b.HP), b.MaxHP)
		x -= len(boss)
		dst.DrawTextColored(x, 0, boss, core.ColorMagenta)
		x -= 2
	}

	hp := strings.Repeat(string(HPFullChar), max(0, p.HP)) + strings.Repeat(string(HPEmptyChar), max(0, p.MaxHP-p.HP))
	x -= len([]rune(hp))
	dst.DrawTextColored(x, 0, hp, core.ColorGreen)
	x--

	lives := strings.Repeat(string(HeartChar), max(0, p.Lives))
	x -= len([]rune(lives))
	dst.DrawTextColored(x, 0, lives, core.ColorBrightRed)

	pwr := fmt.Sprintf("P%d ", p.Power)
	x -= len(pwr)
	dst.DrawTextColored(x, 0, pwr, core.ColorBlue)
}

func renderParticles(snap Snapshot, vp viewport, dst *core.Screen) {
	for _, pt := range snap.Particles {
		r := SparkChar
		if pt.Size >= 4 && pt.Life > 0.5 {
			r = BlastChar
		}
		vp.put(dst, pt.Pos, r, pt.Color)
	}
}

func renderPowerUps(snap Snapshot, vp viewport, dst *core.Screen) {
	for _, u := range snap.PowerUps {
		look := u.Kind.Appearance()
		vp.put(dst, u.Pos, look.Glyph, look.Color)
	}
}

func renderEnemies(snap Snapshot, vp viewport, dst *core.Screen) {
	for _, e := range snap.Enemies {
		look := e.Type.Appearance()
		vp.put(dst, e.Pos, look.Glyph, look.Color)
		if e.Type == EnemyElite {
			vp.put(dst, e.Pos.Sub(core.V(e.Radius/2, 0)), '<', look.Color)
			vp.put(dst, e.Pos.Add(core.V(e.Radius/2, 0)), '>', look.Color)
		}
	}
}

// renderBoss fills the boss ellipse scaled to the cell grid.
func renderBoss(snap Snapshot, vp viewport, dst *core.Screen) {
	b := snap.Boss
	if b == nil {
		return
	}
	cx, cy := vp.cell(b.Pos)
	rx := b.Radius / vp.field.W * float64(vp.cols)
	ry := b.Radius / vp.field.H * float64(vp.rows)
	if rx < 1 || ry < 1 {
		vp.put(dst, b.Pos, BossEdgeChar, core.ColorMagenta)
		return
	}
	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(rx); dx <= int(rx); dx++ {
			d := sq(float64(dx)/rx) + sq(float64(dy)/ry)
			if d > 1 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !vp.visible(x, y) {
				continue
			}
			r := BossBodyChar
			if d > 0.6 {
				r = BossEdgeChar
			}
			dst.SetColored(x, y, r, core.ColorMagenta)
		}
	}
	eye := int(rx / 3)
	for _, x := range []int{cx - eye, cx + eye} {
		if vp.visible(x, cy) {
			dst.SetColored(x, cy, BossEyeChar, core.ColorBrightRed)
		}
	}
}

func sq(v float64) float64 { return v * v }

func renderProjectiles(snap Snapshot, vp viewport, dst *core.Screen) {
	for _, seq := range [][]Projectile{snap.Bullets, snap.EnemyBullets} {
		for _, b := range seq {
			look := b.Owner.Appearance()
			vp.put(dst, b.Pos, look.Glyph, look.Color)
		}
	}
}

// renderPlayer draws the ship, blinking while invulnerable.
func renderPlayer(snap Snapshot, vp viewport, dst *core.Screen) {
	p := snap.Player
	if p.Invuln > 0 && int(p.Invuln*10)%2 == 1 {
		return
	}
	vp.put(dst, p.Pos, PlayerChar, core.ColorBrightCyan)
}

// renderOverlay draws the pause and game over boxes.
func renderOverlay(snap Snapshot, dst *core.Screen) {
	var lines []string
	color := core.ColorWhite
	switch snap.State {
	case StatePaused:
		lines = []string{"PAUSED", "", "P to resume"}
		color = core.ColorBrightYellow
	case StateGameOver:
		lines = []string{"GAME OVER", "", fmt.Sprintf("Score: %d", snap.Player.Score)}
		if snap.Player.Score > 0 && snap.Player.Score >= snap.HighScore {
			lines = append(lines, "New high score!")
		} else {
			lines = append(lines, fmt.Sprintf("Best: %d", snap.HighScore))
		}
		lines = append(lines, "", "R restart  Q quit")
		color = core.ColorBrightRed
	default:
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	box := core.NewRect((dst.Width()-w-4)/2, (dst.Height()-len(lines)-2)/2, w+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	for i, l := range lines {
		x := box.X + (box.W-len([]rune(l)))/2
		dst.DrawTextColored(x, box.Y+1+i, l, color)
	}
}
