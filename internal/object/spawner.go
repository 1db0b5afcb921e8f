package object

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
)

// Spawner rolls the per-frame chances for new enemies and enemy fire.
type Spawner struct {
	rng    Rand
	bounds config.BoundsTuning
	enemy  config.EnemyTuning
	shots  config.ProjectileTuning
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng Rand, t config.Tuning) *Spawner {
	return &Spawner{
		rng:    rng,
		bounds: t.Bounds,
		enemy:  t.Enemy,
		shots:  t.Projectile,
	}
}

// SpawnEnemy adds an enemy at a random x/y on the spawn plane with
// probability chance. Returns the new enemy or nil.
func (s *Spawner) SpawnEnemy(r *Registry, chance float64, now time.Time) *Enemy {
	if s.rng.Float64() >= chance {
		return nil
	}
	pos := mgl64.Vec3{
		uniform(s.rng, -s.bounds.X, s.bounds.X),
		uniform(s.rng, -s.bounds.Y, s.bounds.Y),
		s.enemy.SpawnZ,
	}
	e := NewEnemy(pos, now)
	r.AddEnemy(e)
	return e
}

// EnemyFire picks a random live enemy with probability chance and fires
// a bolt from it toward the camera. The roll happens even when there are
// no enemies, in which case nothing is spawned.
func (s *Spawner) EnemyFire(r *Registry, chance float64) *Projectile {
	if s.rng.Float64() >= chance || r.Enemies.Len() == 0 {
		return nil
	}
	shooter := r.Enemies.At(s.rng.Intn(r.Enemies.Len()))
	p := NewProjectile(OwnerEnemy, shooter.Position, s.shots)
	r.AddShot(p)
	return p
}
