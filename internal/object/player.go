package object

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/physics"
)

// Intent is the control state the player reads each frame.
type Intent = input.Intent

// Player is the ship the user controls.
type Player struct {
	Entity
	Lives  int
	Intent Intent

	lastShot time.Time // Zero until the first shot
	parts    []VisualPart
}

// NewPlayer creates a visible player at the origin.
func NewPlayer(lives int) *Player {
	p := &Player{
		Entity: Entity{Kind: KindPlayer, Visible: true},
		Lives:  lives,
		parts: shipParts(
			Hex(0x00ff00), Hex(0x00cc00), Hex(0x008800), Color{},
			mgl64.Vec3{1.5, 0.1, 0.7}, mgl64.Vec3{0.2, 0.15, 0.9},
			0.8, 1.5,
		),
	}
	return p
}

// Move applies the held direction flags, keeps the ship inside the
// bounds and banks it toward the direction of travel.
func (p *Player) Move(bounds config.BoundsTuning, t config.PlayerTuning) {
	in := p.Intent
	if in.Left {
		p.Position[0] -= t.Speed
	}
	if in.Right {
		p.Position[0] += t.Speed
	}
	if in.Up {
		p.Position[1] += t.Speed
	}
	if in.Down {
		p.Position[1] -= t.Speed
	}
	p.Position[0] = physics.Clamp(p.Position[0], -bounds.X, bounds.X)
	p.Position[1] = physics.Clamp(p.Position[1], -bounds.Y, bounds.Y)

	var roll, pitch float64
	switch {
	case in.Left:
		roll = t.TiltAngle
	case in.Right:
		roll = -t.TiltAngle
	}
	switch {
	case in.Up:
		pitch = -t.TiltAngle
	case in.Down:
		pitch = t.TiltAngle
	}
	p.Rotation[2] = physics.Smooth(p.Rotation[2], roll, t.TiltSmoothing)
	p.Rotation[0] = physics.Smooth(p.Rotation[0], pitch, t.TiltSmoothing)
}

// CanShoot reports whether the cooldown has elapsed at now.
func (p *Player) CanShoot(now time.Time, cooldown time.Duration) bool {
	return p.lastShot.IsZero() || now.Sub(p.lastShot) >= cooldown
}

// TryShoot fires a projectile if shoot is held and the cooldown allows it.
// Returns nil when no shot was fired.
func (p *Player) TryShoot(now time.Time, cooldown time.Duration, t config.ProjectileTuning) *Projectile {
	if !p.Intent.Shoot || !p.CanShoot(now, cooldown) {
		return nil
	}
	p.lastShot = now
	return NewProjectile(OwnerPlayer, p.Position, t)
}

// ResetTransform puts the ship back at the origin, level and visible,
// and clears the shooting cooldown.
func (p *Player) ResetTransform() {
	p.Position = mgl64.Vec3{}
	p.Rotation = mgl64.Vec3{}
	p.Visible = true
	p.lastShot = time.Time{}
}

// ForEachVisualPart visits the ship's boxes.
func (p *Player) ForEachVisualPart(fn func(part *VisualPart)) {
	for i := range p.parts {
		fn(&p.parts[i])
	}
}
