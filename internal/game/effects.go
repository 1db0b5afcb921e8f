package game

import (
	"github.com/tomz197/starstrike/internal/object"
)

// playerHit takes one life, or all of them under a one-hit policy.
// The last life hides the player and starts the final explosion; the
// game-over screen waits for it to finish.
func (w *World) playerHit() {
	pos := w.Player.Position
	w.Registry.AddExplosion(object.NewExplosion(w.rng, pos, true, w.tuning.Effects))

	w.Player.Lives--
	if w.policy.OneHitEnds {
		w.Player.Lives = 0
	}
	w.Stats.LivesLost++
	w.log.Debug("life lost", "lives", max(w.Player.Lives, 0), "score", w.State.Score)

	if w.Player.Lives > 0 {
		return
	}
	w.Player.Lives = 0
	w.Player.Visible = false
	w.State.Phase = PhaseDying
	w.Registry.AddExplosion(object.NewFinalExplosion(w.rng, pos, w.tuning.Effects))
}

// advanceExplosions runs one pass of every explosion regardless of phase,
// including those created earlier in this frame. Expiry of the final
// explosion ends the game.
func (w *World) advanceExplosions() {
	groups := &w.Registry.Explosions
	for i := groups.Len() - 1; i >= 0; i-- {
		g := groups.At(i)
		if !g.Advance() {
			continue
		}
		final := g.Final
		w.Registry.RemoveExplosionAt(i)
		if final && w.State.Phase == PhaseDying {
			w.State.Phase = PhaseGameOver
			w.Stats.GamesOver++
			w.log.Info("game over", "score", w.State.Score)
		}
	}
}
