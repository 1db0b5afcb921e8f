package game

import "github.com/tomz197/starstrike/internal/config"

// Policy is the set of rules that differ between game modes.
type Policy struct {
	PlayerShoots bool // Player and enemies may fire
	ScoreOnKill  bool // +1 per enemy destroyed by a player bolt
	ScoreOnDodge bool // +1 per enemy that flies past the camera
	OneHitEnds   bool // Any hit takes all remaining lives
}

// PolicyFor returns the rules of mode. Unknown modes play as shooter.
func PolicyFor(mode config.Mode) Policy {
	switch mode {
	case config.ModeDodger:
		return Policy{ScoreOnDodge: true, OneHitEnds: true}
	default:
		return Policy{PlayerShoots: true, ScoreOnKill: true}
	}
}
