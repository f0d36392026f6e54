// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

// PresetName is the only tuning rule set this build implements.
const PresetName = "v-latest"

// EnvPrefix prefixes every environment override, e.g. TOPDRIVE_ENGINE_REDLINERPM.
const EnvPrefix = "TOPDRIVE"

// SimConfig contains every tunable of a simulation run. It is read once at
// startup; changing it means restarting the simulation.
type SimConfig struct {
	Preset    string          `json:"preset" mapstructure:"preset"`
	World     WorldConfig     `json:"world" mapstructure:"world"`
	Vehicle   VehicleConfig   `json:"vehicle" mapstructure:"vehicle"`
	Steering  SteeringConfig  `json:"steering" mapstructure:"steering"`
	Brakes    BrakeConfig     `json:"brakes" mapstructure:"brakes"`
	Engine    EngineConfig    `json:"engine" mapstructure:"engine"`
	Gears     GearConfig      `json:"gears" mapstructure:"gears"`
	Display   DisplayConfig   `json:"display" mapstructure:"display"`
	Loop      LoopConfig      `json:"loop" mapstructure:"loop"`
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry"`
	Audio     AudioConfig     `json:"audio" mapstructure:"audio"`
}

// WorldConfig contains the background extents
type WorldConfig struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
	// Optional background image for graphical renderers.
	Background string `json:"background" mapstructure:"background"`
}

// VehicleConfig contains the vehicle footprint and start pose
type VehicleConfig struct {
	Size         float64 `json:"size" mapstructure:"size"`
	StartX       float64 `json:"startX" mapstructure:"startx"`
	StartY       float64 `json:"startY" mapstructure:"starty"`
	StartHeading float64 `json:"startHeading" mapstructure:"startheading"`
	Friction     float64 `json:"friction" mapstructure:"friction"`
	MaxSpeed     float64 `json:"maxSpeed" mapstructure:"maxspeed"`
}

// SteeringConfig contains steering constants
type SteeringConfig struct {
	Divisor          float64 `json:"divisor" mapstructure:"divisor"`
	ScrubDivisor     float64 `json:"scrubDivisor" mapstructure:"scrubdivisor"`
	BaseRate         float64 `json:"baseRate" mapstructure:"baserate"`
	MinRate          float64 `json:"minRate" mapstructure:"minrate"`
	RateSpeedDivisor float64 `json:"rateSpeedDivisor" mapstructure:"ratespeeddivisor"`
	MaxSteer         float64 `json:"maxSteer" mapstructure:"maxsteer"`
}

// BrakeConfig contains brake constants
type BrakeConfig struct {
	Ramp  float64 `json:"ramp" mapstructure:"ramp"`
	Force float64 `json:"force" mapstructure:"force"`
}

// EngineConfig contains RPM model and rev limiter constants
type EngineConfig struct {
	IdleRPM              float64 `json:"idleRPM" mapstructure:"idlerpm"`
	RedlineRPM           float64 `json:"redlineRPM" mapstructure:"redlinerpm"`
	RPMStep              float64 `json:"rpmStep" mapstructure:"rpmstep"`
	RPMDecay             float64 `json:"rpmDecay" mapstructure:"rpmdecay"`
	Friction             float64 `json:"friction" mapstructure:"friction"`
	NeutralFrictionScale float64 `json:"neutralFrictionScale" mapstructure:"neutralfrictionscale"`
	EngagedFrictionScale float64 `json:"engagedFrictionScale" mapstructure:"engagedfrictionscale"`
	NeutralGearFactor    float64 `json:"neutralGearFactor" mapstructure:"neutralgearfactor"`
	SpeedPerRPM          float64 `json:"speedPerRPM" mapstructure:"speedperrpm"`
	LimiterMinMs         int     `json:"limiterMinMs" mapstructure:"limiterminms"`
	LimiterMaxMs         int     `json:"limiterMaxMs" mapstructure:"limitermaxms"`
}

// GearConfig contains the gearbox ratios. The forward list length sets the top gear.
type GearConfig struct {
	Reverse float64   `json:"reverse" mapstructure:"reverse"`
	Forward []float64 `json:"forward" mapstructure:"forward"`
}

// DisplayConfig contains presentation parameters that are not owned by physics
type DisplayConfig struct {
	MphFactor   float64 `json:"mphFactor" mapstructure:"mphfactor"`
	BaseZoom    float64 `json:"baseZoom" mapstructure:"basezoom"`
	MinBaseZoom float64 `json:"minBaseZoom" mapstructure:"minbasezoom"`
	MaxBaseZoom float64 `json:"maxBaseZoom" mapstructure:"maxbasezoom"`
	ZoomStep    float64 `json:"zoomStep" mapstructure:"zoomstep"`
}

// LoopConfig contains headless loop settings
type LoopConfig struct {
	TickRate int `json:"tickRate" mapstructure:"tickrate"`
	// Zero runs until cancelled.
	MaxTicks int `json:"maxTicks" mapstructure:"maxticks"`
}

// TelemetryConfig contains metrics export settings
type TelemetryConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	IntervalMs int  `json:"intervalMs" mapstructure:"intervalms"`
}

// AudioConfig contains engine tone settings
type AudioConfig struct {
	Enabled    bool    `json:"enabled" mapstructure:"enabled"`
	SampleRate int     `json:"sampleRate" mapstructure:"samplerate"`
	Volume     float64 `json:"volume" mapstructure:"volume"`
	Cylinders  int     `json:"cylinders" mapstructure:"cylinders"`
}

// LoadConfig loads a configuration from a JSON file layered over the
// defaults, then applies TOPDRIVE_* environment overrides. An empty path
// yields the defaults plus environment.
func LoadConfig(path string) (*SimConfig, error) {
	v := viper.New()
	if err := setDefaults(v, DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var cfg SimConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every field of cfg as a viper default so that
// environment overrides resolve for keys the file does not mention.
func setDefaults(v *viper.Viper, cfg *SimConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to flatten defaults: %w", err)
	}
	flatten(v, "", tree)
	return nil
}

func flatten(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		full := strings.ToLower(key)
		if prefix != "" {
			full = prefix + "." + full
		}
		if sub, ok := value.(map[string]any); ok {
			flatten(v, full, sub)
			continue
		}
		v.SetDefault(full, value)
	}
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	if config == nil {
		return errors.New("cannot save nil config")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every setting that would break the vehicle model.
func (c *SimConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Preset == PresetName, "unknown preset %q (supported: %s)", c.Preset, PresetName)
	check(c.World.Width > c.Vehicle.Size && c.World.Height > c.Vehicle.Size,
		"world %vx%v must be larger than the vehicle (%v)", c.World.Width, c.World.Height, c.Vehicle.Size)
	check(c.Vehicle.Size >= 0, "vehicle size %v is negative", c.Vehicle.Size)
	check(c.Vehicle.MaxSpeed > 0, "max speed must be positive")
	check(c.Vehicle.Friction >= 0, "friction must not be negative")
	check(c.Steering.Divisor > 0 && c.Steering.ScrubDivisor > 0 && c.Steering.RateSpeedDivisor > 0,
		"steering divisors must be positive")
	check(c.Steering.MaxSteer > 0, "max steer must be positive")
	check(c.Steering.MinRate > 0 && c.Steering.MinRate <= c.Steering.BaseRate,
		"steer rate floor %v must be in (0, %v]", c.Steering.MinRate, c.Steering.BaseRate)
	check(c.Brakes.Ramp > 0 && c.Brakes.Ramp <= 1, "brake ramp %v must be in (0, 1]", c.Brakes.Ramp)
	check(c.Brakes.Force >= 0, "brake force must not be negative")
	check(c.Engine.IdleRPM > 0 && c.Engine.IdleRPM < c.Engine.RedlineRPM,
		"idle rpm %v must be positive and below redline %v", c.Engine.IdleRPM, c.Engine.RedlineRPM)
	check(c.Engine.SpeedPerRPM > 0, "speed per rpm must be positive")
	check(c.Engine.LimiterMinMs > 0 && c.Engine.LimiterMinMs <= c.Engine.LimiterMaxMs,
		"limiter window %d..%dms is invalid", c.Engine.LimiterMinMs, c.Engine.LimiterMaxMs)
	check(len(c.Gears.Forward) > 0, "at least one forward gear is required")
	check(len(c.Gears.Forward) <= 127, "too many forward gears")
	check(c.Gears.Reverse > 0, "reverse ratio must be positive")
	for i, r := range c.Gears.Forward {
		check(r > 0, "gear %d ratio %v must be positive", i+1, r)
	}
	check(c.Display.MinBaseZoom > 0 && c.Display.MinBaseZoom <= c.Display.MaxBaseZoom,
		"base zoom range %v..%v is invalid", c.Display.MinBaseZoom, c.Display.MaxBaseZoom)
	check(c.Loop.TickRate > 0, "tick rate must be positive")
	check(c.Loop.MaxTicks >= 0, "max ticks must not be negative")
	check(!c.Telemetry.Enabled || c.Telemetry.IntervalMs > 0, "telemetry interval must be positive")
	check(!c.Audio.Enabled || c.Audio.SampleRate > 0, "audio sample rate must be positive")

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Tuning converts the configuration into physics constants.
func (c *SimConfig) Tuning() physics.Tuning {
	return physics.Tuning{
		Bounds: physics.Bounds{
			Width:       c.World.Width,
			Height:      c.World.Height,
			VehicleSize: c.Vehicle.Size,
		},
		SpeedFriction:         c.Vehicle.Friction,
		MaxSpeed:              c.Vehicle.MaxSpeed,
		SteerDivisor:          c.Steering.Divisor,
		ScrubDivisor:          c.Steering.ScrubDivisor,
		BaseSteerRate:         c.Steering.BaseRate,
		MinSteerRate:          c.Steering.MinRate,
		SteerRateSpeedDivisor: c.Steering.RateSpeedDivisor,
		MaxSteer:              c.Steering.MaxSteer,
		BrakeRamp:             c.Brakes.Ramp,
		BrakeForce:            c.Brakes.Force,
		IdleRPM:               c.Engine.IdleRPM,
		RedlineRPM:            c.Engine.RedlineRPM,
		RPMStep:               c.Engine.RPMStep,
		RPMDecay:              c.Engine.RPMDecay,
		EngineFriction:        c.Engine.Friction,
		NeutralFrictionScale:  c.Engine.NeutralFrictionScale,
		EngagedFrictionScale:  c.Engine.EngagedFrictionScale,
		NeutralGearFactor:     c.Engine.NeutralGearFactor,
		SpeedPerRPM:           c.Engine.SpeedPerRPM,
		Gearbox: physics.Gearbox{
			Reverse: c.Gears.Reverse,
			Forward: append([]float64(nil), c.Gears.Forward...),
		},
		LimiterMin:   time.Duration(c.Engine.LimiterMinMs) * time.Millisecond,
		LimiterMax:   time.Duration(c.Engine.LimiterMaxMs) * time.Millisecond,
		MphFactor:    c.Display.MphFactor,
		Start:        physics.Vector2D{X: c.Vehicle.StartX, Y: c.Vehicle.StartY},
		StartHeading: c.Vehicle.StartHeading,
	}
}

// TickInterval returns the duration of one headless tick.
func (c *SimConfig) TickInterval() time.Duration {
	if c.Loop.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Loop.TickRate)
}

// DefaultConfig returns the v-latest configuration
func DefaultConfig() *SimConfig {
	t := physics.DefaultTuning()
	return &SimConfig{
		Preset: PresetName,
		World: WorldConfig{
			Width:  t.Bounds.Width,
			Height: t.Bounds.Height,
		},
		Vehicle: VehicleConfig{
			Size:         t.Bounds.VehicleSize,
			StartX:       t.Start.X,
			StartY:       t.Start.Y,
			StartHeading: t.StartHeading,
			Friction:     t.SpeedFriction,
			MaxSpeed:     t.MaxSpeed,
		},
		Steering: SteeringConfig{
			Divisor:          t.SteerDivisor,
			ScrubDivisor:     t.ScrubDivisor,
			BaseRate:         t.BaseSteerRate,
			MinRate:          t.MinSteerRate,
			RateSpeedDivisor: t.SteerRateSpeedDivisor,
			MaxSteer:         t.MaxSteer,
		},
		Brakes: BrakeConfig{
			Ramp:  t.BrakeRamp,
			Force: t.BrakeForce,
		},
		Engine: EngineConfig{
			IdleRPM:              t.IdleRPM,
			RedlineRPM:           t.RedlineRPM,
			RPMStep:              t.RPMStep,
			RPMDecay:             t.RPMDecay,
			Friction:             t.EngineFriction,
			NeutralFrictionScale: t.NeutralFrictionScale,
			EngagedFrictionScale: t.EngagedFrictionScale,
			NeutralGearFactor:    t.NeutralGearFactor,
			SpeedPerRPM:          t.SpeedPerRPM,
			LimiterMinMs:         int(t.LimiterMin / time.Millisecond),
			LimiterMaxMs:         int(t.LimiterMax / time.Millisecond),
		},
		Gears: GearConfig{
			Reverse: t.Gearbox.Reverse,
			Forward: append([]float64(nil), t.Gearbox.Forward...),
		},
		Display: DisplayConfig{
			MphFactor:   t.MphFactor,
			BaseZoom:    1,
			MinBaseZoom: 0.2,
			MaxBaseZoom: 2,
			ZoomStep:    0.02,
		},
		Loop: LoopConfig{
			TickRate: 60,
		},
		Telemetry: TelemetryConfig{
			Enabled:    false,
			IntervalMs: 10000,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.3,
			Cylinders:  4,
		},
	}
}
