// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, PresetName, cfg.Preset)
	assert.Equal(t, 800.0, cfg.Engine.IdleRPM)
	assert.Equal(t, 7000.0, cfg.Engine.RedlineRPM)
	assert.Len(t, cfg.Gears.Forward, 6)
	assert.Equal(t, 60, cfg.Loop.TickRate)
}

func TestDefaultConfig_TuningMatchesPhysicsDefaults(t *testing.T) {
	assert.Equal(t, physics.DefaultTuning(), DefaultConfig().Tuning())
}

func TestTuning_CopiesGearbox(t *testing.T) {
	cfg := DefaultConfig()
	tuning := cfg.Tuning()
	cfg.Gears.Forward[0] = 99

	assert.Equal(t, 2.8, tuning.Gearbox.Forward[0])
	assert.Equal(t, 50*time.Millisecond, tuning.LimiterMin)
}

func TestLoadConfig_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topdrive.json")
	data := `{
		"preset": "v-latest",
		"world": {"width": 4000, "height": 3000},
		"engine": {"redlineRPM": 6500},
		"gears": {"forward": [3.0, 2.0, 1.0]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4000.0, cfg.World.Width)
	assert.Equal(t, 3000.0, cfg.World.Height)
	assert.Equal(t, 6500.0, cfg.Engine.RedlineRPM)
	assert.Equal(t, []float64{3, 2, 1}, cfg.Gears.Forward)
	// Unmentioned keys keep their defaults.
	assert.Equal(t, 800.0, cfg.Engine.IdleRPM)
	assert.Equal(t, 40.0, cfg.Vehicle.Size)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TOPDRIVE_ENGINE_REDLINERPM", "6000")
	t.Setenv("TOPDRIVE_LOOP_MAXTICKS", "120")
	t.Setenv("TOPDRIVE_AUDIO_ENABLED", "false")

	path := filepath.Join(t.TempDir(), "topdrive.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"engine": {"redlineRPM": 6500}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6000.0, cfg.Engine.RedlineRPM, "environment wins over file")
	assert.Equal(t, 120, cfg.Loop.MaxTicks)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"world": {`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	cfg := DefaultConfig()
	cfg.Display.BaseZoom = 1.5
	cfg.Gears.Forward = []float64{3.1, 2.2}

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveConfig_Errors(t *testing.T) {
	assert.Error(t, SaveConfig(nil, filepath.Join(t.TempDir(), "nil.json")))
	assert.Error(t, SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "missing", "dir", "cfg.json")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *SimConfig)
		wantErr string
	}{
		{"unknown_preset", func(c *SimConfig) { c.Preset = "v1" }, "unknown preset"},
		{"tiny_world", func(c *SimConfig) { c.World.Width = 10 }, "larger than the vehicle"},
		{"idle_above_redline", func(c *SimConfig) { c.Engine.IdleRPM = 8000 }, "idle rpm"},
		{"no_gears", func(c *SimConfig) { c.Gears.Forward = nil }, "forward gear"},
		{"zero_ratio", func(c *SimConfig) { c.Gears.Forward[2] = 0 }, "gear 3 ratio"},
		{"inverted_limiter", func(c *SimConfig) { c.Engine.LimiterMinMs = 200 }, "limiter window"},
		{"zero_tick_rate", func(c *SimConfig) { c.Loop.TickRate = 0 }, "tick rate"},
		{"zoom_range", func(c *SimConfig) { c.Display.MinBaseZoom = 3 }, "base zoom range"},
		{"brake_ramp", func(c *SimConfig) { c.Brakes.Ramp = 0 }, "brake ramp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = ""
	cfg.Loop.TickRate = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
	assert.Contains(t, err.Error(), "tick rate")
}

func TestTickInterval(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second/60, cfg.TickInterval())

	cfg.Loop.TickRate = 20
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval())
}
