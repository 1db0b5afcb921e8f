package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/starstrike/internal/object"
)

// EntityView is the render state of one entity.
type EntityView struct {
	ID       object.ID           `json:"id"`
	Kind     object.Kind         `json:"kind"`
	Position mgl64.Vec3          `json:"position"`
	Rotation mgl64.Vec3          `json:"rotation"`
	Visible  bool                `json:"visible"`
	Opacity  float64             `json:"opacity"`
	Tint     object.Color        `json:"tint"`
	Parts    []object.VisualPart `json:"parts,omitempty"`
}

// ParticleView is the render state of one explosion particle.
type ParticleView struct {
	Position mgl64.Vec3   `json:"position"`
	Rotation mgl64.Vec3   `json:"rotation"`
	Opacity  float64      `json:"opacity"`
	Scale    float64      `json:"scale"`
	Size     float64      `json:"size"`
	Color    object.Color `json:"color"`
}

// ExplosionView is the render state of one explosion group.
type ExplosionView struct {
	ID        object.ID      `json:"id"`
	Final     bool           `json:"final"`
	Particles []ParticleView `json:"particles"`
}

// Snapshot is an immutable copy of everything a renderer needs for one
// frame. It shares nothing with the World.
type Snapshot struct {
	Frame       uint64          `json:"frame"`
	Phase       Phase           `json:"phase"`
	Display     Display         `json:"display"`
	Player      EntityView      `json:"player"`
	Enemies     []EntityView    `json:"enemies"`
	Projectiles []EntityView    `json:"projectiles"`
	Explosions  []ExplosionView `json:"explosions"`
	Stars       []mgl64.Vec3    `json:"stars,omitempty"`
	StarRoll    float64         `json:"star_roll"`
}

// Snapshot copies the current render state.
func (w *World) Snapshot() *Snapshot {
	r := w.Registry
	s := &Snapshot{
		Frame:       w.Stats.Frames,
		Phase:       w.State.Phase,
		Display:     w.display,
		Player:      compositeView(&w.Player.Entity, w.Player),
		Enemies:     make([]EntityView, 0, r.Enemies.Len()),
		Projectiles: make([]EntityView, 0, r.PlayerShots.Len()+r.EnemyShots.Len()),
		Explosions:  make([]ExplosionView, 0, r.Explosions.Len()),
		Stars:       append([]mgl64.Vec3(nil), w.Stars.Stars...),
		StarRoll:    w.Stars.Roll,
	}

	for _, e := range r.Enemies.Items() {
		v := compositeView(&e.Entity, e)
		v.Opacity = 0.5 + 0.5*e.Intensity(w.tuning.Enemy)
		s.Enemies = append(s.Enemies, v)
	}
	for _, p := range r.PlayerShots.Items() {
		s.Projectiles = append(s.Projectiles, projectileView(p))
	}
	for _, p := range r.EnemyShots.Items() {
		s.Projectiles = append(s.Projectiles, projectileView(p))
	}
	for _, g := range r.Explosions.Items() {
		ev := ExplosionView{
			ID:        g.ID,
			Final:     g.Final,
			Particles: make([]ParticleView, len(g.Particles)),
		}
		for i, p := range g.Particles {
			ev.Particles[i] = ParticleView{
				Position: p.Position,
				Rotation: p.Rotation,
				Opacity:  p.Opacity,
				Scale:    p.Scale,
				Size:     p.Size,
				Color:    p.Color,
			}
		}
		s.Explosions = append(s.Explosions, ev)
	}
	return s
}

func compositeView(e *object.Entity, c object.Composite) EntityView {
	v := EntityView{
		ID:       e.ID,
		Kind:     e.Kind,
		Position: e.Position,
		Rotation: e.Rotation,
		Visible:  e.Visible,
		Opacity:  1,
	}
	c.ForEachVisualPart(func(part *object.VisualPart) {
		v.Parts = append(v.Parts, *part)
	})
	if len(v.Parts) > 0 {
		v.Tint = v.Parts[0].Color
	}
	return v
}

func projectileView(p *object.Projectile) EntityView {
	return EntityView{
		ID:       p.ID,
		Kind:     p.Kind,
		Position: p.Position,
		Rotation: p.Rotation,
		Visible:  p.Visible,
		Opacity:  p.Opacity,
		Tint:     p.Tint,
	}
}
