package physics

import "time"

// Tuning holds every constant of the vehicle model. It is fixed for the
// lifetime of an Engine; changing it means building a new one.
type Tuning struct {
	Bounds Bounds

	// Passive speed loss per tick.
	SpeedFriction float64
	// Global cap on |speed|.
	MaxSpeed float64

	// Steering: effect = steerInput * speed / SteerDivisor.
	SteerDivisor float64
	// Speed lost per unit of steering effect.
	ScrubDivisor float64
	// Steer rate = max(MinSteerRate, BaseSteerRate - |speed|/SteerRateSpeedDivisor).
	BaseSteerRate         float64
	MinSteerRate          float64
	SteerRateSpeedDivisor float64
	MaxSteer              float64

	// Brake pressure change per tick, and speed removed per tick at full pressure.
	BrakeRamp  float64
	BrakeForce float64

	IdleRPM    float64
	RedlineRPM float64
	// Base RPM gained per accelerating tick, before gear and inertia factors.
	RPMStep  float64
	RPMDecay float64
	// Engine friction multiplier and the per-mode scale it is applied with.
	EngineFriction       float64
	NeutralFrictionScale float64
	EngagedFrictionScale float64
	// Gear factor used for acceleration while in neutral.
	NeutralGearFactor float64
	// speed = rpm * SpeedPerRPM / ratio.
	SpeedPerRPM float64

	Gearbox Gearbox

	LimiterMin time.Duration
	LimiterMax time.Duration

	// Display speed = round(speed * MphFactor).
	MphFactor float64

	Start Vector2D
	// Heading in degrees at start.
	StartHeading float64
}

// DefaultTuning returns the v-latest rule set.
func DefaultTuning() Tuning {
	return Tuning{
		Bounds: Bounds{
			Width:       16830,
			Height:      14700,
			VehicleSize: 40,
		},
		SpeedFriction:         0.006,
		MaxSpeed:              24,
		SteerDivisor:          100,
		ScrubDivisor:          500,
		BaseSteerRate:         3,
		MinSteerRate:          1,
		SteerRateSpeedDivisor: 10,
		MaxSteer:              30,
		BrakeRamp:             0.08,
		BrakeForce:            0.05,
		IdleRPM:               800,
		RedlineRPM:            7000,
		RPMStep:               50,
		RPMDecay:              20,
		EngineFriction:        0.1,
		NeutralFrictionScale:  0.1,
		EngagedFrictionScale:  0.001,
		NeutralGearFactor:     5,
		SpeedPerRPM:           0.002,
		Gearbox: Gearbox{
			Reverse: 1,
			Forward: []float64{2.8, 1.8, 1.4, 1.1, 0.85, 0.6},
		},
		LimiterMin:   50 * time.Millisecond,
		LimiterMax:   100 * time.Millisecond,
		MphFactor:    68.75,
		Start:        Vector2D{X: 5850, Y: 5000},
		StartHeading: 180,
	}
}
