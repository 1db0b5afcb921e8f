package object

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/physics"
)

// Enemy is a hostile ship that flies toward the camera while homing on the player.
type Enemy struct {
	Entity
	SpawnTime time.Time

	parts []VisualPart
}

// NewEnemy creates an enemy at pos.
func NewEnemy(pos mgl64.Vec3, now time.Time) *Enemy {
	return &Enemy{
		Entity:    Entity{Kind: KindEnemy, Position: pos, Visible: true},
		SpawnTime: now,
		parts: shipParts(
			Hex(0xff0000), Hex(0xcc0000), Hex(0x880000), Hex(0x330000),
			mgl64.Vec3{2, 0.1, 0.7}, mgl64.Vec3{0.3, 0.15, 1.2},
			1, 2,
		),
	}
}

// Home advances the enemy one frame toward target at the given lateral
// speed and banks it: roll follows the lateral change, pitch follows the
// vertical component of the heading.
func (e *Enemy) Home(target mgl64.Vec3, speed float64, bounds config.BoundsTuning, t config.EnemyTuning, smoothing float64) {
	dir := physics.Direction(e.Position, target)
	prevX := e.Position[0]

	e.Position[2] += t.ForwardStep
	e.Position[0] += dir[0] * speed
	e.Position[1] += dir[1] * speed
	e.Position[0] = physics.Clamp(e.Position[0], -bounds.X, bounds.X)
	e.Position[1] = physics.Clamp(e.Position[1], -bounds.Y, bounds.Y)

	roll := physics.Clamp(-(e.Position[0]-prevX)*t.RollGain, -t.MaxTilt, t.MaxTilt)
	pitch := physics.Clamp(dir[1]*t.MaxTilt/2, -t.MaxTilt/2, t.MaxTilt/2)
	e.Rotation[2] = physics.Smooth(e.Rotation[2], roll, smoothing)
	e.Rotation[0] = physics.Smooth(e.Rotation[0], pitch, smoothing)
}

// Intensity is 0 at the spawn depth and rises to 1 fadeDepth units closer.
func (e *Enemy) Intensity(t config.EnemyTuning) float64 {
	return physics.Clamp((e.Position[2]-t.SpawnZ)/t.FadeDepth, 0, 1)
}

// Recolor derives emissive glow and opacity from the current depth.
func (e *Enemy) Recolor(t config.EnemyTuning) {
	i := e.Intensity(t)
	value := 0.3 + 0.7*i
	e.ForEachVisualPart(func(part *VisualPart) {
		part.Emissive = Color{R: value * 0.5}
		part.Opacity = 0.5 + 0.5*i
	})
}

// ForEachVisualPart visits the ship's boxes.
func (e *Enemy) ForEachVisualPart(fn func(part *VisualPart)) {
	for i := range e.parts {
		fn(&e.parts[i])
	}
}
