package object

import (
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
// A final explosion alone allocates 200 of them.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is one debris box of an explosion.
type Particle struct {
	Position      mgl64.Vec3
	Velocity      mgl64.Vec3
	Rotation      mgl64.Vec3
	RotationSpeed mgl64.Vec3
	Opacity       float64 // Saturates at 0
	Scale         float64
	Size          float64 // Edge length of the box before scaling
	Color         Color
}

func newParticle(pos, vel mgl64.Vec3, size float64, color Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Position: pos,
		Velocity: vel,
		Opacity:  1,
		Scale:    1,
		Size:     size,
		Color:    color,
	}
	return p
}

// ExplosionState is the lifecycle stage of an explosion group.
type ExplosionState int

const (
	ExplosionSpawned ExplosionState = iota
	ExplosionAnimating
	ExplosionExpired
)

func (s ExplosionState) String() string {
	switch s {
	case ExplosionSpawned:
		return "spawned"
	case ExplosionAnimating:
		return "animating"
	case ExplosionExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ExplosionGroup is a time-bounded burst of particles. The group's own
// position is the impact point.
type ExplosionGroup struct {
	Entity
	Particles []*Particle
	Final     bool
	Alive     time.Duration // Accumulated in fixed frame steps
	Duration  time.Duration
	State     ExplosionState

	fx config.EffectsTuning
}

// NewExplosion creates a standard hit explosion. Player hits are green
// and faster, enemy kills orange.
func NewExplosion(rng Rand, pos mgl64.Vec3, playerHit bool, fx config.EffectsTuning) *ExplosionGroup {
	speed, color := fx.EnemyBlast, Hex(0xff4400)
	if playerHit {
		speed, color = fx.PlayerBlast, Hex(0x00ff44)
	}

	g := newGroup(pos, fx.Particles, fx.Duration, false, fx)
	for i := 0; i < fx.Particles; i++ {
		vel := mgl64.Vec3{
			(rng.Float64() - 0.5) * speed,
			(rng.Float64() - 0.5) * speed,
			(rng.Float64() - 0.5) * speed,
		}
		g.Particles = append(g.Particles, newParticle(pos, vel, 0.2, color))
	}
	return g
}

var finalPalette = []Color{Hex(0x00ff00), Hex(0x00dd00), Hex(0x00ff44)}

// NewFinalExplosion creates the large burst played when the last life is
// lost. Its expiry reveals the game-over screen.
func NewFinalExplosion(rng Rand, pos mgl64.Vec3, fx config.EffectsTuning) *ExplosionGroup {
	g := newGroup(pos, fx.FinalParticles, fx.FinalDuration, true, fx)
	for i := 0; i < fx.FinalParticles; i++ {
		size := rng.Float64()*fx.FinalSizeSpread + fx.FinalSizeMin
		color := finalPalette[rng.Intn(len(finalPalette))]
		angle := rng.Float64() * 2 * math.Pi
		height := (rng.Float64() - 0.5) * 2
		vel := mgl64.Vec3{
			math.Cos(angle) * fx.FinalBlast,
			height * fx.FinalBlast,
			math.Sin(angle) * fx.FinalBlast,
		}
		p := newParticle(pos, vel, size, color)
		p.RotationSpeed = mgl64.Vec3{
			(rng.Float64() - 0.5) * fx.SpinRange,
			(rng.Float64() - 0.5) * fx.SpinRange,
			(rng.Float64() - 0.5) * fx.SpinRange,
		}
		g.Particles = append(g.Particles, p)
	}
	return g
}

func newGroup(pos mgl64.Vec3, n int, duration time.Duration, final bool, fx config.EffectsTuning) *ExplosionGroup {
	return &ExplosionGroup{
		Entity:    Entity{Kind: KindExplosionParticle, Position: pos, Visible: true},
		Particles: make([]*Particle, 0, n),
		Final:     final,
		Duration:  duration,
		fx:        fx,
	}
}

// Advance runs one animation pass. Once the accumulated time exceeds the
// duration the group expires instead of moving; Advance returns true on
// that pass. Further calls on an expired group are no-ops returning false.
func (g *ExplosionGroup) Advance() bool {
	switch g.State {
	case ExplosionExpired:
		return false
	case ExplosionSpawned:
		g.State = ExplosionAnimating
	}

	if g.Alive > g.Duration {
		g.State = ExplosionExpired
		g.Visible = false
		return true
	}

	fx := g.fx
	fading := !g.Final || g.Alive > g.Duration/2
	for _, p := range g.Particles {
		p.Position = p.Position.Add(p.Velocity)
		if g.Final {
			p.Velocity[1] -= fx.Gravity
			p.Rotation = p.Rotation.Add(p.RotationSpeed)
		} else {
			p.Scale *= fx.Shrink
		}
		if fading {
			p.Opacity = math.Max(0, p.Opacity-fx.FadeStep)
		}
		if g.Final {
			p.Velocity = p.Velocity.Mul(fx.Damping)
		}
	}
	g.Alive += fx.FrameStep
	return false
}

// Expired reports whether the group has finished.
func (g *ExplosionGroup) Expired() bool {
	return g.State == ExplosionExpired
}

// Release returns the particles to the pool. The group must not be used afterwards.
func (g *ExplosionGroup) Release() {
	for _, p := range g.Particles {
		particlePool.Put(p)
	}
	g.Particles = nil
}
