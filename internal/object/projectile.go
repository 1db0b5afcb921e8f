package object

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
)

// Owner is the side that fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

// Projectile is a bolt travelling along the depth axis only.
// Player bolts fly away from the camera, enemy bolts toward it.
type Projectile struct {
	Entity
	Owner   Owner
	Tint    Color
	Opacity float64
}

// NewProjectile spawns a bolt one muzzle offset in front of origin.
func NewProjectile(owner Owner, origin mgl64.Vec3, t config.ProjectileTuning) *Projectile {
	p := &Projectile{
		Entity:  Entity{Position: origin, Visible: true},
		Owner:   owner,
		Opacity: 0.8,
	}
	switch owner {
	case OwnerEnemy:
		p.Kind = KindEnemyProjectile
		p.Position[2] += t.MuzzleOffset
		p.Tint = Hex(0xff0000)
	default:
		p.Kind = KindPlayerProjectile
		p.Position[2] -= t.MuzzleOffset
		p.Tint = Hex(0x00ff00)
	}
	return p
}

// Advance moves the bolt one frame.
func (p *Projectile) Advance(speed float64) {
	if p.Owner == OwnerEnemy {
		p.Position[2] += speed
	} else {
		p.Position[2] -= speed
	}
}

// Expired reports whether the bolt has left the playfield.
func (p *Projectile) Expired(t config.ProjectileTuning) bool {
	if p.Owner == OwnerEnemy {
		return p.Position[2] > t.EnemyLimitZ
	}
	return p.Position[2] < t.PlayerLimitZ
}
