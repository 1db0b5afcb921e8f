package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultTuningIsValid(t *testing.T) {
	tun := DefaultTuning()
	require.NoError(t, tun.Validate())
	require.Equal(t, ModeShooter, tun.Mode)
	require.Equal(t, 3, tun.Player.Lives)
	require.Equal(t, 250*time.Millisecond, tun.Player.ShootCooldown)
	require.Equal(t, 30, tun.Effects.Particles)
	require.Equal(t, 200, tun.Effects.FinalParticles)
	require.Equal(t, time.Second/60, tun.TickTime())
}

func TestLoadTuningOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := []byte(`
mode: dodger
player:
  lives: 5
  shoot_cooldown: 100ms
enemy:
  spawn_chance: 0.05
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	tun, err := LoadTuning(path)
	require.NoError(t, err)
	require.Equal(t, ModeDodger, tun.Mode)
	require.Equal(t, 5, tun.Player.Lives)
	require.Equal(t, 100*time.Millisecond, tun.Player.ShootCooldown)
	require.InDelta(t, 0.05, tun.Enemy.SpawnChance, 1e-9)

	// untouched keys keep defaults
	require.InDelta(t, 0.2, tun.Player.Speed, 1e-9)
	require.Equal(t, 2000, tun.Stars.Count)
}

func TestLoadTuningRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  jetpack: true\n"), 0o600))

	_, err := LoadTuning(path)
	require.Error(t, err)
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	tun := DefaultTuning()
	tun.Mode = "arcade"
	tun.Player.Lives = 0
	tun.Enemy.SpawnChance = 1.5

	err := tun.Validate()
	require.ErrorIs(t, err, ErrInvalidTuning)
	require.Contains(t, err.Error(), "unknown mode")
	require.Contains(t, err.Error(), "player.lives")
	require.Contains(t, err.Error(), "enemy.spawn_chance")
}

func TestTuningFromEnv(t *testing.T) {
	t.Setenv("STARSTRIKE_MODE", "dodger")
	t.Setenv("STARSTRIKE_LIVES", "7")
	t.Setenv("STARSTRIKE_ENEMY_SPAWN_CHANCE", "0.5")
	t.Setenv("STARSTRIKE_TICK_RATE", "not-a-number")

	tun := TuningFromEnv(DefaultTuning())
	require.Equal(t, ModeDodger, tun.Mode)
	require.Equal(t, 7, tun.Player.Lives)
	require.InDelta(t, 0.5, tun.Enemy.SpawnChance, 1e-9)
	require.Equal(t, 60, tun.TickRate)
}

func TestLoadUsesTuningFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 30\n"), 0o600))
	t.Setenv("STARSTRIKE_TUNING_FILE", path)
	t.Setenv("STARSTRIKE_LIVES", "4")

	tun, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30, tun.TickRate)
	require.Equal(t, 4, tun.Player.Lives)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SS_TEST_INT", " 42 ")
	t.Setenv("SS_TEST_FLOAT", "1.5")
	t.Setenv("SS_TEST_BOOL", "true")

	require.Equal(t, 42, GetEnvInt("SS_TEST_INT", 1))
	require.Equal(t, 1, GetEnvInt("SS_TEST_MISSING", 1))
	require.InDelta(t, 1.5, GetEnvFloat("SS_TEST_FLOAT", 0), 1e-9)
	require.True(t, GetEnvBool("SS_TEST_BOOL", false))
	require.Equal(t, "fallback", GetEnv("SS_TEST_MISSING", "fallback"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SS_DOTENV_VALUE=loaded\n"), 0o600))
	t.Setenv("SS_DOTENV_VALUE", "")
	os.Unsetenv("SS_DOTENV_VALUE")

	got := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	require.Equal(t, path, got)
	require.Equal(t, "loaded", os.Getenv("SS_DOTENV_VALUE"))
}
