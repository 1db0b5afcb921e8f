package object

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/starstrike/internal/config"
)

// seqRand replays fixed values; Intn scales the next float.
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *seqRand) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

func TestPlayerMoveClampsToBounds(t *testing.T) {
	tun := config.DefaultTuning()
	p := NewPlayer(3)
	p.Intent = Intent{Right: true, Up: true}

	for i := 0; i < 200; i++ {
		p.Move(tun.Bounds, tun.Player)
		require.LessOrEqual(t, p.Position.X(), tun.Bounds.X)
		require.LessOrEqual(t, p.Position.Y(), tun.Bounds.Y)
	}
	assert.Equal(t, tun.Bounds.X, p.Position.X())
	assert.Equal(t, tun.Bounds.Y, p.Position.Y())

	p.Intent = Intent{Left: true, Down: true}
	for i := 0; i < 300; i++ {
		p.Move(tun.Bounds, tun.Player)
	}
	assert.Equal(t, -tun.Bounds.X, p.Position.X())
	assert.Equal(t, -tun.Bounds.Y, p.Position.Y())
}

func TestPlayerTiltIsSmoothed(t *testing.T) {
	tun := config.DefaultTuning()
	p := NewPlayer(3)
	p.Intent = Intent{Left: true, Up: true}

	p.Move(tun.Bounds, tun.Player)
	assert.InDelta(t, 0.03, p.Rotation.Z(), 1e-12)
	assert.InDelta(t, -0.03, p.Rotation.X(), 1e-12)

	for i := 0; i < 200; i++ {
		p.Move(tun.Bounds, tun.Player)
	}
	assert.InDelta(t, 0.3, p.Rotation.Z(), 1e-6)

	p.Intent = Intent{}
	p.Move(tun.Bounds, tun.Player)
	assert.Less(t, p.Rotation.Z(), 0.3)
	assert.Greater(t, p.Rotation.Z(), 0.0)
}

func TestPlayerShootCooldown(t *testing.T) {
	tun := config.DefaultTuning()
	p := NewPlayer(3)
	now := time.Unix(0, 0)

	assert.Nil(t, p.TryShoot(now, tun.Player.ShootCooldown, tun.Projectile), "shoot not held")

	p.Intent.Shoot = true
	shot := p.TryShoot(now, tun.Player.ShootCooldown, tun.Projectile)
	require.NotNil(t, shot)
	assert.Equal(t, KindPlayerProjectile, shot.Kind)
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, shot.Position)

	assert.Nil(t, p.TryShoot(now.Add(249*time.Millisecond), tun.Player.ShootCooldown, tun.Projectile))
	assert.NotNil(t, p.TryShoot(now.Add(250*time.Millisecond), tun.Player.ShootCooldown, tun.Projectile))

	p.ResetTransform()
	assert.True(t, p.CanShoot(now, tun.Player.ShootCooldown))
}

func TestEnemyHomesAndFadesIn(t *testing.T) {
	tun := config.DefaultTuning()
	e := NewEnemy(mgl64.Vec3{5, 0, -50}, time.Time{})

	e.Recolor(tun.Enemy)
	e.ForEachVisualPart(func(part *VisualPart) {
		assert.InDelta(t, 0.15, part.Emissive.R, 1e-12)
		assert.InDelta(t, 0.5, part.Opacity, 1e-12)
	})

	e.Home(mgl64.Vec3{}, tun.Enemy.Speed, tun.Bounds, tun.Enemy, tun.Player.TiltSmoothing)
	assert.InDelta(t, -49.9, e.Position.Z(), 1e-12)
	assert.Less(t, e.Position.X(), 5.0)
	assert.Greater(t, e.Rotation.Z(), 0.0, "moving left banks positive")

	e.Position[2] = -20
	e.Recolor(tun.Enemy)
	assert.Equal(t, 1.0, e.Intensity(tun.Enemy))
	e.ForEachVisualPart(func(part *VisualPart) {
		assert.InDelta(t, 0.5, part.Emissive.R, 1e-12)
		assert.InDelta(t, 1.0, part.Opacity, 1e-12)
	})
}

func TestEnemyPitchClamped(t *testing.T) {
	tun := config.DefaultTuning()
	e := NewEnemy(mgl64.Vec3{0, -5, -1}, time.Time{})
	for i := 0; i < 500; i++ {
		e.Home(mgl64.Vec3{0, 5, 0}, tun.Enemy.Speed, tun.Bounds, tun.Enemy, tun.Player.TiltSmoothing)
		e.Position[2] = -1
	}
	assert.LessOrEqual(t, e.Rotation.X(), tun.Enemy.MaxTilt/2+1e-9)
	assert.LessOrEqual(t, e.Position.Y(), tun.Bounds.Y)
}

func TestProjectileLifetime(t *testing.T) {
	tun := config.DefaultTuning()
	p := NewProjectile(OwnerPlayer, mgl64.Vec3{}, tun.Projectile)

	frames := 0
	for !p.Expired(tun.Projectile) {
		p.Advance(tun.Projectile.Speed)
		frames++
	}
	assert.Equal(t, 50, frames)

	e := NewProjectile(OwnerEnemy, mgl64.Vec3{0, 0, -50}, tun.Projectile)
	assert.Equal(t, KindEnemyProjectile, e.Kind)
	assert.Equal(t, -49.0, e.Position.Z())
	e.Advance(1)
	assert.Equal(t, -48.0, e.Position.Z())
	assert.False(t, e.Expired(tun.Projectile))
}

func TestStandardExplosionLifecycle(t *testing.T) {
	fx := config.DefaultTuning().Effects
	g := NewExplosion(rand.New(rand.NewSource(1)), mgl64.Vec3{1, 2, 3}, false, fx)

	require.Len(t, g.Particles, 30)
	assert.Equal(t, ExplosionSpawned, g.State)
	for _, p := range g.Particles {
		assert.Equal(t, Hex(0xff4400), p.Color)
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, p.Velocity[axis], 0.15)
			assert.GreaterOrEqual(t, p.Velocity[axis], -0.15)
		}
	}

	passes := 0
	for !g.Advance() {
		passes++
		require.Equal(t, ExplosionAnimating, g.State)
	}
	assert.Equal(t, 60, passes)
	assert.True(t, g.Expired())
	assert.False(t, g.Advance())

	for _, p := range g.Particles {
		assert.GreaterOrEqual(t, p.Opacity, 0.0)
		assert.Less(t, p.Scale, 1.0)
	}
}

func TestPlayerHitExplosionIsGreen(t *testing.T) {
	fx := config.DefaultTuning().Effects
	g := NewExplosion(rand.New(rand.NewSource(2)), mgl64.Vec3{}, true, fx)
	assert.Equal(t, Hex(0x00ff44), g.Particles[0].Color)
	assert.False(t, g.Final)
}

func TestFinalExplosionFadesLate(t *testing.T) {
	fx := config.DefaultTuning().Effects
	g := NewFinalExplosion(rand.New(rand.NewSource(3)), mgl64.Vec3{}, fx)

	require.Len(t, g.Particles, 200)
	require.True(t, g.Final)
	for _, p := range g.Particles {
		assert.GreaterOrEqual(t, p.Size, 0.3)
		assert.Less(t, p.Size, 0.8)
		assert.Contains(t, finalPalette, p.Color)
	}

	// 1000ms of frames at 16.7ms: opacity untouched.
	for i := 0; i < 60; i++ {
		require.False(t, g.Advance())
	}
	assert.Equal(t, 1.0, g.Particles[0].Opacity)

	g.Advance()
	assert.Less(t, g.Particles[0].Opacity, 1.0)

	passes := 61
	for !g.Advance() {
		passes++
	}
	assert.Equal(t, 120, passes)
}

func TestFinalExplosionGravity(t *testing.T) {
	fx := config.DefaultTuning().Effects
	g := NewFinalExplosion(&seqRand{vals: []float64{0.5}}, mgl64.Vec3{}, fx)
	p := g.Particles[0]
	require.InDelta(t, 0, p.Velocity.Y(), 1e-12)

	g.Advance()
	assert.InDelta(t, -0.01*0.99, p.Velocity.Y(), 1e-12)
}

func TestStarfieldWraps(t *testing.T) {
	cfg := config.StarTuning{Count: 1, Extent: 100, Speed: 0.05, Spin: 0.0001}
	s := NewStarfield(&seqRand{vals: []float64{0.5}}, cfg)
	s.Stars[0] = mgl64.Vec3{1, 1, 99.99}

	s.Advance(&seqRand{vals: []float64{0.75}})
	assert.Equal(t, mgl64.Vec3{50, 50, -100}, s.Stars[0])
	assert.InDelta(t, 0.0001, s.Roll, 1e-15)

	s.Advance(&seqRand{vals: []float64{0.75}})
	assert.InDelta(t, -99.95, s.Stars[0].Z(), 1e-9)
}

func TestRegistryInsertRemove(t *testing.T) {
	tun := config.DefaultTuning()
	r := NewRegistry()
	var detached []ID
	r.OnDetach = func(e Identified) { detached = append(detached, e.Base().ID) }

	e1 := NewEnemy(mgl64.Vec3{}, time.Time{})
	e2 := NewEnemy(mgl64.Vec3{}, time.Time{})
	e3 := NewEnemy(mgl64.Vec3{}, time.Time{})
	require.True(t, r.AddEnemy(e1))
	require.True(t, r.AddEnemy(e2))
	require.True(t, r.AddEnemy(e3))
	assert.False(t, r.AddEnemy(e2), "already registered")
	assert.NotEqual(t, e1.ID, e2.ID)

	shot := NewProjectile(OwnerEnemy, mgl64.Vec3{}, tun.Projectile)
	require.True(t, r.AddShot(shot))
	assert.Equal(t, 1, r.EnemyShots.Len())
	assert.Equal(t, 0, r.PlayerShots.Len())
	assert.Equal(t, 4, r.Count())

	// Reverse-index removal visits every sibling exactly once.
	visited := map[ID]int{}
	for i := r.Enemies.Len() - 1; i >= 0; i-- {
		e := r.Enemies.At(i)
		visited[e.ID]++
		if e == e2 {
			r.RemoveEnemyAt(i)
		}
	}
	assert.Equal(t, map[ID]int{e1.ID: 1, e2.ID: 1, e3.ID: 1}, visited)
	assert.Equal(t, []*Enemy{e1, e3}, r.Enemies.Items())
	assert.False(t, r.Contains(e2.ID))

	assert.True(t, r.Remove(shot.ID))
	assert.False(t, r.Remove(shot.ID))
	assert.Equal(t, []ID{e2.ID, shot.ID}, detached)

	r.AddExplosion(NewExplosion(rand.New(rand.NewSource(1)), mgl64.Vec3{}, false, tun.Effects))
	r.Clear()
	assert.Zero(t, r.Count())
	assert.Zero(t, r.Enemies.Len())
	assert.Zero(t, r.Explosions.Len())
	assert.Len(t, detached, 5)
}

func TestSpawner(t *testing.T) {
	tun := config.DefaultTuning()
	r := NewRegistry()

	miss := NewSpawner(&seqRand{vals: []float64{0.5}}, tun)
	assert.Nil(t, miss.SpawnEnemy(r, 0.02, time.Time{}))
	assert.Nil(t, miss.EnemyFire(r, 0.02))

	rng := &seqRand{vals: []float64{0.01, 0.75, 0.25}}
	s := NewSpawner(rng, tun)
	e := s.SpawnEnemy(r, 0.02, time.Unix(5, 0))
	require.NotNil(t, e)
	assert.Equal(t, mgl64.Vec3{5, -2.5, -50}, e.Position)
	assert.Equal(t, 1, r.Enemies.Len())

	// No enemies: the roll is consumed and nothing spawns.
	empty := NewRegistry()
	rng2 := &seqRand{vals: []float64{0.01}}
	assert.Nil(t, NewSpawner(rng2, tun).EnemyFire(empty, 0.02))
	assert.Equal(t, 1, rng2.i)

	rng.vals = []float64{0.01, 0.0}
	rng.i = 0
	shot := s.EnemyFire(r, 0.02)
	require.NotNil(t, shot)
	assert.Equal(t, mgl64.Vec3{5, -2.5, -49}, shot.Position)
	assert.Equal(t, 1, r.EnemyShots.Len())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "enemy", KindEnemy.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "animating", ExplosionAnimating.String())
}
