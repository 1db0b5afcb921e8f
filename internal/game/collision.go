package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/starstrike/internal/object"
	"github.com/tomz197/starstrike/internal/physics"
)

// resolveShotHit checks player bolt i against the enemies, newest first.
// The first enemy in range is destroyed together with the bolt; later
// matches are ignored. Both leave the registry before the scan moves on,
// so neither can be hit or scored twice.
func (w *World) resolveShotHit(i int) bool {
	shot := w.Registry.PlayerShots.At(i)
	enemies := &w.Registry.Enemies
	for j := enemies.Len() - 1; j >= 0; j-- {
		e := enemies.At(j)
		if !physics.Within(shot.Position, e.Position, w.tuning.Collision.ShotRadius) {
			continue
		}
		w.Registry.AddExplosion(object.NewExplosion(w.rng, e.Position, false, w.tuning.Effects))
		w.Registry.RemovePlayerShotAt(i)
		w.Registry.RemoveEnemyAt(j)
		w.Stats.Kills++
		if w.policy.ScoreOnKill {
			w.State.Score++
		}
		return true
	}
	return false
}

// hitsPlayer reports whether pos is within the player's hit radius.
// A hidden player cannot be hit.
func (w *World) hitsPlayer(pos mgl64.Vec3) bool {
	return w.Player.Visible && physics.Within(pos, w.Player.Position, w.tuning.Collision.PlayerRadius)
}
