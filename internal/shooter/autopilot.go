package shooter

import "math"

// Autopilot steers the player for headless runs. It always fires, sidesteps
// the closest enemy bullet heading for the ship and otherwise lines up under
// the boss or the lowest enemy.
type Autopilot struct {
	Deadzone float64 // Horizontal slack before the ship moves
	Alert    float64 // How far above the ship a bullet counts as a threat
	Margin   float64 // Extra clearance added to the collision radii
}

// NewAutopilot returns an autopilot with tuning that survives early waves.
func NewAutopilot() Autopilot {
	return Autopilot{Deadzone: 6, Alert: 140, Margin: 10}
}

// Input decides the controls for the next frame.
func (a Autopilot) Input(snap *Snapshot) Input {
	in := Input{Fire: true}
	if snap.State != StatePlaying {
		return in
	}
	p := snap.Player

	if b, ok := a.threat(snap); ok {
		left := b.Pos.X >= p.Pos.X
		// Against a wall, break the other way.
		if left && p.Pos.X-playerEdgeMargin < 2*p.Radius {
			left = false
		} else if !left && snap.Field.W-playerEdgeMargin-p.Pos.X < 2*p.Radius {
			left = true
		}
		in.Left, in.Right = left, !left
		return in
	}

	tx := a.targetX(snap)
	switch {
	case tx < p.Pos.X-a.Deadzone:
		in.Left = true
	case tx > p.Pos.X+a.Deadzone:
		in.Right = true
	}
	return in
}

// threat returns the lowest enemy bullet on a collision course.
func (a Autopilot) threat(snap *Snapshot) (Projectile, bool) {
	p := snap.Player
	var (
		best  Projectile
		found bool
	)
	for _, b := range snap.EnemyBullets {
		above := p.Pos.Y - b.Pos.Y
		if above < -p.Radius || above > a.Alert || b.Vel.Y <= 0 {
			continue
		}
		// Where the bullet will be once it reaches the ship's row.
		x := b.Pos.X + b.Vel.X*(above/b.Vel.Y)
		if math.Abs(x-p.Pos.X) > p.Radius+b.Radius+a.Margin {
			continue
		}
		if !found || b.Pos.Y > best.Pos.Y {
			best, found = b, true
		}
	}
	return best, found
}

// targetX picks the column to line up under.
func (a Autopilot) targetX(snap *Snapshot) float64 {
	if snap.Boss != nil {
		return snap.Boss.Pos.X
	}
	tx, lowest := snap.Field.W/2, math.Inf(-1)
	for _, e := range snap.Enemies {
		if e.Pos.Y > lowest && e.Pos.Y > 0 {
			tx, lowest = e.Pos.X, e.Pos.Y
		}
	}
	return tx
}
