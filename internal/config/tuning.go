package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Mode selects the collision and scoring policy of a game.
type Mode string

const (
	ModeShooter Mode = "shooter" // Lives, shooting, score per destroyed enemy
	ModeDodger  Mode = "dodger"  // No shooting, one hit ends the run, score per dodged enemy
)

// Tuning holds every tunable game parameter.
// Distances are world units, per-frame rates assume the nominal 60 Hz tick.
type Tuning struct {
	Mode       Mode             `yaml:"mode"`
	TickRate   int              `yaml:"tick_rate"`
	Bounds     BoundsTuning     `yaml:"bounds"`
	Player     PlayerTuning     `yaml:"player"`
	Enemy      EnemyTuning      `yaml:"enemy"`
	Projectile ProjectileTuning `yaml:"projectile"`
	Collision  CollisionTuning  `yaml:"collision"`
	Effects    EffectsTuning    `yaml:"effects"`
	Stars      StarTuning       `yaml:"stars"`
	Difficulty DifficultyTuning `yaml:"difficulty"`
}

// BoundsTuning is the playable half-extent shared by the player and enemies.
type BoundsTuning struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlayerTuning configures the player ship.
type PlayerTuning struct {
	Speed         float64       `yaml:"speed"`
	Lives         int           `yaml:"lives"`
	TiltAngle     float64       `yaml:"tilt_angle"`
	TiltSmoothing float64       `yaml:"tilt_smoothing"`
	ShootCooldown time.Duration `yaml:"shoot_cooldown"`
}

// EnemyTuning configures spawning and homing of enemy ships.
type EnemyTuning struct {
	Speed       float64 `yaml:"speed"`
	ForwardStep float64 `yaml:"forward_step"`
	SpawnZ      float64 `yaml:"spawn_z"`
	RemoveZ     float64 `yaml:"remove_z"`
	MaxTilt     float64 `yaml:"max_tilt"`
	RollGain    float64 `yaml:"roll_gain"`
	SpawnChance float64 `yaml:"spawn_chance"`
	FireChance  float64 `yaml:"fire_chance"`
	FadeDepth   float64 `yaml:"fade_depth"`
}

// ProjectileTuning configures both projectile owners.
type ProjectileTuning struct {
	Speed        float64 `yaml:"speed"`
	MuzzleOffset float64 `yaml:"muzzle_offset"`
	PlayerLimitZ float64 `yaml:"player_limit_z"`
	EnemyLimitZ  float64 `yaml:"enemy_limit_z"`
}

// CollisionTuning holds the proximity radii.
type CollisionTuning struct {
	ShotRadius   float64 `yaml:"shot_radius"`
	PlayerRadius float64 `yaml:"player_radius"`
}

// EffectsTuning configures explosion groups.
type EffectsTuning struct {
	Particles       int           `yaml:"particles"`
	FinalParticles  int           `yaml:"final_particles"`
	Duration        time.Duration `yaml:"duration"`
	FinalDuration   time.Duration `yaml:"final_duration"`
	FrameStep       time.Duration `yaml:"frame_step"`
	PlayerBlast     float64       `yaml:"player_blast"`
	EnemyBlast      float64       `yaml:"enemy_blast"`
	FinalBlast      float64       `yaml:"final_blast"`
	Gravity         float64       `yaml:"gravity"`
	Damping         float64       `yaml:"damping"`
	FadeStep        float64       `yaml:"fade_step"`
	Shrink          float64       `yaml:"shrink"`
	SpinRange       float64       `yaml:"spin_range"`
	FinalSizeMin    float64       `yaml:"final_size_min"`
	FinalSizeSpread float64       `yaml:"final_size_spread"`
}

// StarTuning configures the parallax starfield.
type StarTuning struct {
	Count  int     `yaml:"count"`
	Extent float64 `yaml:"extent"`
	Speed  float64 `yaml:"speed"`
	Spin   float64 `yaml:"spin"`
}

// DifficultyTuning configures the optional spawn-rate ramp.
// A zero RampInterval keeps the rates constant.
type DifficultyTuning struct {
	RampInterval time.Duration `yaml:"ramp_interval"`
	RampFactor   float64       `yaml:"ramp_factor"`
	MaxChance    float64       `yaml:"max_chance"`
}

// DefaultTuning returns the design values.
func DefaultTuning() Tuning {
	return Tuning{
		Mode:     ModeShooter,
		TickRate: 60,
		Bounds:   BoundsTuning{X: 10, Y: 5},
		Player: PlayerTuning{
			Speed:         0.2,
			Lives:         3,
			TiltAngle:     0.3,
			TiltSmoothing: 0.1,
			ShootCooldown: 250 * time.Millisecond,
		},
		Enemy: EnemyTuning{
			Speed:       0.15,
			ForwardStep: 0.1,
			SpawnZ:      -50,
			RemoveZ:     10,
			MaxTilt:     math.Pi / 6,
			RollGain:    10,
			SpawnChance: 0.02,
			FireChance:  0.02,
			FadeDepth:   30,
		},
		Projectile: ProjectileTuning{
			Speed:        1.0,
			MuzzleOffset: 1,
			PlayerLimitZ: -50,
			EnemyLimitZ:  10,
		},
		Collision: CollisionTuning{
			ShotRadius:   2.0,
			PlayerRadius: 1.0,
		},
		Effects: EffectsTuning{
			Particles:       30,
			FinalParticles:  200,
			Duration:        1000 * time.Millisecond,
			FinalDuration:   2000 * time.Millisecond,
			FrameStep:       16700 * time.Microsecond,
			PlayerBlast:     0.4,
			EnemyBlast:      0.3,
			FinalBlast:      1.0,
			Gravity:         0.01,
			Damping:         0.99,
			FadeStep:        0.02,
			Shrink:          0.98,
			SpinRange:       0.2,
			FinalSizeMin:    0.3,
			FinalSizeSpread: 0.5,
		},
		Stars: StarTuning{
			Count:  2000,
			Extent: 100,
			Speed:  0.05,
			Spin:   0.0001,
		},
		Difficulty: DifficultyTuning{
			RampFactor: 1.25,
			MaxChance:  0.1,
		},
	}
}

// LoadTuning reads YAML overrides from path on top of DefaultTuning.
// Keys missing from the file keep their default value.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	f, err := os.Open(path)
	if err != nil {
		return t, fmt.Errorf("open tuning: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return t, fmt.Errorf("decode tuning %s: %w", path, err)
	}
	return t, t.Validate()
}

// TuningFromEnv applies STARSTRIKE_* environment overrides to base.
func TuningFromEnv(base Tuning) Tuning {
	t := base
	t.Mode = Mode(GetEnv("STARSTRIKE_MODE", string(t.Mode)))
	t.TickRate = GetEnvInt("STARSTRIKE_TICK_RATE", t.TickRate)
	t.Player.Lives = GetEnvInt("STARSTRIKE_LIVES", t.Player.Lives)
	t.Enemy.SpawnChance = GetEnvFloat("STARSTRIKE_ENEMY_SPAWN_CHANCE", t.Enemy.SpawnChance)
	t.Enemy.FireChance = GetEnvFloat("STARSTRIKE_ENEMY_FIRE_CHANCE", t.Enemy.FireChance)
	t.Stars.Count = GetEnvInt("STARSTRIKE_STARS", t.Stars.Count)
	return t
}

// Load resolves the tuning used by the commands: defaults, then the YAML
// file named by STARSTRIKE_TUNING_FILE if set, then env overrides.
func Load() (Tuning, error) {
	t := DefaultTuning()
	if path := GetEnv("STARSTRIKE_TUNING_FILE", ""); path != "" {
		loaded, err := LoadTuning(path)
		if err != nil {
			return t, err
		}
		t = loaded
	}
	t = TuningFromEnv(t)
	return t, t.Validate()
}

// Validate reports every out-of-range parameter.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}

	check(t.Mode == ModeShooter || t.Mode == ModeDodger, "unknown mode %q", t.Mode)
	check(t.TickRate > 0, "tick_rate must be positive, got %d", t.TickRate)
	check(t.Bounds.X > 0 && t.Bounds.Y > 0, "bounds must be positive")
	check(t.Player.Lives > 0, "player.lives must be positive, got %d", t.Player.Lives)
	check(t.Player.Speed >= 0, "player.speed must not be negative")
	check(t.Player.TiltSmoothing >= 0 && t.Player.TiltSmoothing <= 1, "player.tilt_smoothing must be in [0,1]")
	check(t.Player.ShootCooldown >= 0, "player.shoot_cooldown must not be negative")
	check(t.Enemy.SpawnChance >= 0 && t.Enemy.SpawnChance <= 1, "enemy.spawn_chance must be in [0,1]")
	check(t.Enemy.FireChance >= 0 && t.Enemy.FireChance <= 1, "enemy.fire_chance must be in [0,1]")
	check(t.Enemy.FadeDepth > 0, "enemy.fade_depth must be positive")
	check(t.Projectile.Speed > 0, "projectile.speed must be positive")
	check(t.Collision.ShotRadius > 0 && t.Collision.PlayerRadius > 0, "collision radii must be positive")
	check(t.Effects.Particles >= 0 && t.Effects.FinalParticles >= 0, "particle counts must not be negative")
	check(t.Effects.FrameStep > 0, "effects.frame_step must be positive")
	check(t.Stars.Count >= 0, "stars.count must not be negative")
	check(t.Stars.Extent > 0, "stars.extent must be positive")
	check(t.Difficulty.RampInterval >= 0, "difficulty.ramp_interval must not be negative")
	check(t.Difficulty.MaxChance >= 0 && t.Difficulty.MaxChance <= 1, "difficulty.max_chance must be in [0,1]")

	return errors.Join(errs...)
}

// TickTime is the nominal duration of one frame.
func (t Tuning) TickTime() time.Duration {
	if t.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(t.TickRate)
}
