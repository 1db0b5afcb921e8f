// Package object defines the simulated entities of the game and the rules
// each kind follows on its own: movement, shooting, explosions and spawning.
package object

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies what an entity is.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
	KindPlayerProjectile
	KindEnemyProjectile
	KindExplosionParticle
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindPlayerProjectile:
		return "player_projectile"
	case KindEnemyProjectile:
		return "enemy_projectile"
	case KindExplosionParticle:
		return "explosion"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ID uniquely identifies an entity for its whole lifetime. The renderer
// keys its visual handle on it.
type ID uint64

// Entity is the transform every simulated object carries.
type Entity struct {
	ID       ID
	Kind     Kind
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler angles: X pitch, Y yaw, Z roll
	Visible  bool
}

// Base returns the embedded entity. Promoted to every entity type so the
// registry can handle them uniformly.
func (e *Entity) Base() *Entity {
	return e
}

// Identified is implemented by every type that embeds Entity.
type Identified interface {
	Base() *Entity
}

// Rand is the random source used by spawning and effects.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// uniform returns a value uniformly distributed in [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// Color is a linear RGB triple in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Hex converts a 0xRRGGBB value to a Color.
func Hex(v uint32) Color {
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// VisualPart is one box of a composite ship model.
type VisualPart struct {
	Name     string     `json:"name"`
	Offset   mgl64.Vec3 `json:"offset"` // Relative to the owning entity
	Size     mgl64.Vec3 `json:"size"`
	Color    Color      `json:"color"`
	Emissive Color      `json:"emissive"`
	Opacity  float64    `json:"opacity"`
}

// Composite is implemented by entities built from several visual parts.
type Composite interface {
	ForEachVisualPart(fn func(part *VisualPart))
}

// shipParts builds the five-box ship layout (body, wings, wing tips).
func shipParts(body, wing, tip Color, emissive Color, wingSize, tipSize mgl64.Vec3, wingX, tipX float64) []VisualPart {
	return []VisualPart{
		{Name: "body", Size: mgl64.Vec3{1, 0.4, 1}, Color: body, Emissive: emissive, Opacity: 1},
		{Name: "left_wing", Offset: mgl64.Vec3{-wingX, 0, 0}, Size: wingSize, Color: wing, Emissive: emissive, Opacity: 1},
		{Name: "right_wing", Offset: mgl64.Vec3{wingX, 0, 0}, Size: wingSize, Color: wing, Emissive: emissive, Opacity: 1},
		{Name: "left_tip", Offset: mgl64.Vec3{-tipX, 0, 0}, Size: tipSize, Color: tip, Emissive: emissive, Opacity: 1},
		{Name: "right_tip", Offset: mgl64.Vec3{tipX, 0, 0}, Size: tipSize, Color: tip, Emissive: emissive, Opacity: 1},
	}
}
