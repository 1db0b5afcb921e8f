package game

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/logging"
	"github.com/tomz197/starstrike/internal/object"
)

// World is one game. It is not safe for concurrent use: a single driver
// calls Step once per frame and Reset between frames.
type World struct {
	Registry *object.Registry
	Player   *object.Player
	Stars    *object.Starfield
	State    GameState
	Stats    Stats

	tuning  config.Tuning
	policy  Policy
	rng     object.Rand
	clock   Clock
	spawner *object.Spawner
	log     *log.Logger

	display   Display
	published bool
	observers []DisplayObserver
}

// Option configures a World.
type Option func(*World)

// WithRand sets the random source. Tests use a seeded one.
func WithRand(rng object.Rand) Option {
	return func(w *World) { w.rng = rng }
}

// WithClock sets the wall clock used for the cooldown and difficulty ramp.
func WithClock(c Clock) Option {
	return func(w *World) { w.clock = c }
}

// WithLogger sets the logger for game events.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithDisplayObserver registers fn to receive HUD changes.
func WithDisplayObserver(fn DisplayObserver) Option {
	return func(w *World) { w.observers = append(w.observers, fn) }
}

// NewWorld creates a world in the Playing phase.
func NewWorld(t config.Tuning, opts ...Option) *World {
	w := &World{
		tuning: t,
		policy: PolicyFor(t.Mode),
		clock:  SystemClock(),
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	w.Registry = object.NewRegistry()
	w.Player = object.NewPlayer(t.Player.Lives)
	w.Stars = object.NewStarfield(w.rng, t.Stars)
	w.spawner = object.NewSpawner(w.rng, t)
	w.reset()
	return w
}

// Tuning returns the parameters the world was created with.
func (w *World) Tuning() config.Tuning {
	return w.tuning
}

// OnDetach registers fn to be told about every entity leaving the registry.
func (w *World) OnDetach(fn func(object.Identified)) {
	w.Registry.OnDetach = fn
}

// Reset starts a new game: score and lives restored, every entity and
// explosion removed, player back at the origin with a fresh cooldown.
func (w *World) Reset() {
	w.reset()
	w.Stats.Resets++
	w.log.Info("game reset")
}

func (w *World) reset() {
	w.Registry.Clear()
	w.Player.ResetTransform()
	w.Player.Lives = w.tuning.Player.Lives
	w.Player.Intent = input.Intent{}
	w.State = GameState{
		Phase:      PhasePlaying,
		Difficulty: defaultDifficulty(w.tuning, w.clock.Now()),
	}
	w.publish()
}

// Step advances the world one frame with the given control intent.
//
// Order within a frame: shooting and spawning, player bolts (with enemy
// hits), enemy bolts (with player hits), player movement, starfield,
// enemies (homing, recolor, player hits, fly-by), explosions.
// Bolts and stars keep moving while the final explosion plays. Only
// explosions advance once the game is over.
func (w *World) Step(intent input.Intent) {
	w.Stats.Frames++
	w.Player.Intent = intent

	if w.State.Phase != PhaseGameOver {
		if w.State.Phase == PhasePlaying {
			now := w.clock.Now()
			if w.State.Difficulty.ramp(now, w.tuning.Difficulty) {
				w.log.Debug("difficulty raised",
					"spawn", w.State.Difficulty.SpawnChance,
					"fire", w.State.Difficulty.FireChance)
			}
			w.spawn(now)
		}

		w.updatePlayerShots()
		w.updateEnemyShots()
		if w.State.Phase == PhasePlaying {
			w.Player.Move(w.tuning.Bounds, w.tuning.Player)
		}
		w.Stars.Advance(w.rng)
		if w.State.Phase == PhasePlaying {
			w.updateEnemies()
		}
	}

	w.advanceExplosions()
	w.publish()
}

func (w *World) spawn(now time.Time) {
	d := w.State.Difficulty
	if w.policy.PlayerShoots {
		if shot := w.Player.TryShoot(now, w.tuning.Player.ShootCooldown, w.tuning.Projectile); shot != nil {
			w.Registry.AddShot(shot)
		}
		w.spawner.EnemyFire(w.Registry, d.FireChance)
	}
	w.spawner.SpawnEnemy(w.Registry, d.SpawnChance, now)
}

func (w *World) updatePlayerShots() {
	shots := &w.Registry.PlayerShots
	for i := shots.Len() - 1; i >= 0; i-- {
		shot := shots.At(i)
		shot.Advance(w.tuning.Projectile.Speed)
		if shot.Expired(w.tuning.Projectile) {
			w.Registry.RemovePlayerShotAt(i)
			continue
		}
		if w.State.Phase == PhasePlaying {
			w.resolveShotHit(i)
		}
	}
}

func (w *World) updateEnemyShots() {
	shots := &w.Registry.EnemyShots
	for i := shots.Len() - 1; i >= 0; i-- {
		shot := shots.At(i)
		shot.Advance(w.tuning.Projectile.Speed)
		if shot.Expired(w.tuning.Projectile) {
			w.Registry.RemoveEnemyShotAt(i)
			continue
		}
		if w.State.Phase == PhasePlaying && w.hitsPlayer(shot.Position) {
			w.Registry.RemoveEnemyShotAt(i)
			w.playerHit()
		}
	}
}

func (w *World) updateEnemies() {
	enemies := &w.Registry.Enemies
	t := w.tuning
	for i := enemies.Len() - 1; i >= 0; i-- {
		e := enemies.At(i)
		e.Home(w.Player.Position, w.State.Difficulty.EnemySpeed, t.Bounds, t.Enemy, t.Player.TiltSmoothing)
		e.Recolor(t.Enemy)

		if w.hitsPlayer(e.Position) {
			w.Registry.RemoveEnemyAt(i)
			w.playerHit()
			continue
		}
		if e.Position.Z() > t.Enemy.RemoveZ {
			w.Registry.RemoveEnemyAt(i)
			if w.policy.ScoreOnDodge && w.State.Phase == PhasePlaying {
				w.State.Score++
				w.Stats.Dodged++
			}
		}
	}
}
