// Package game runs the simulation: one World per game, advanced one
// fixed frame at a time by a driver.
package game

import (
	"time"

	"github.com/tomz197/starstrike/internal/config"
)

// Phase is the stage of the game state machine.
type Phase int

const (
	// PhasePlaying is normal play. Losing a life with lives left stays here.
	PhasePlaying Phase = iota
	// PhaseDying plays the final explosion after the last life is lost.
	// The player is hidden and nothing spawns or collides.
	PhaseDying
	// PhaseGameOver shows the summary until Reset.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseDying:
		return "dying"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Difficulty holds the rates that may change during a game.
type Difficulty struct {
	EnemySpeed  float64
	SpawnChance float64
	FireChance  float64

	lastRamp time.Time
}

func defaultDifficulty(t config.Tuning, now time.Time) Difficulty {
	return Difficulty{
		EnemySpeed:  t.Enemy.Speed,
		SpawnChance: t.Enemy.SpawnChance,
		FireChance:  t.Enemy.FireChance,
		lastRamp:    now,
	}
}

// ramp raises the spawn and fire chances once per interval, capped at max.
func (d *Difficulty) ramp(now time.Time, t config.DifficultyTuning) bool {
	if t.RampInterval <= 0 || now.Sub(d.lastRamp) < t.RampInterval {
		return false
	}
	d.lastRamp = now
	d.SpawnChance = min(d.SpawnChance*t.RampFactor, t.MaxChance)
	d.FireChance = min(d.FireChance*t.RampFactor, t.MaxChance)
	return true
}

// GameState is the score and phase of one game.
type GameState struct {
	Score      int
	Phase      Phase
	Difficulty Difficulty
}

// GameOver reports whether the game has ended, including while the final
// explosion is still playing.
func (s GameState) GameOver() bool {
	return s.Phase != PhasePlaying
}

// FinalExplosionActive reports whether the final explosion is playing.
func (s GameState) FinalExplosionActive() bool {
	return s.Phase == PhaseDying
}

// Stats counts events across the lifetime of a World, resets included.
type Stats struct {
	Frames    uint64
	Kills     uint64
	Dodged    uint64
	LivesLost uint64
	GamesOver uint64
	Resets    uint64
}
