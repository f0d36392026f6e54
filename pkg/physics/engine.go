package physics

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/opd-ai/go-topdrive/pkg/control"
)

// Engine advances a VehicleState by one tick at a time. Besides its tuning
// it keeps only transient control state: the rev limiter window and the
// shift latches that make gear changes edge-triggered.
type Engine struct {
	tuning  Tuning
	limiter *RevLimiter

	shiftUp   control.Edge
	shiftDown control.Edge

	contact Contact
	trips   uint64
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	clock clock.Clock
	rng   *rand.Rand
}

// WithClock sets the clock the rev limiter measures its window on.
func WithClock(c clock.Clock) EngineOption {
	return func(o *engineOptions) {
		o.clock = c
	}
}

// WithRand sets the source used to pick rev limiter windows.
func WithRand(r *rand.Rand) EngineOption {
	return func(o *engineOptions) {
		o.rng = r
	}
}

// NewEngine creates an engine for the given tuning.
func NewEngine(t Tuning, opts ...EngineOption) *Engine {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.rng == nil {
		seed := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	return &Engine{
		tuning:  t,
		limiter: NewRevLimiter(o.clock, o.rng, t.LimiterMin, t.LimiterMax),
	}
}

// Tuning returns the constants the engine was built with.
func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// LimiterActive reports whether the rev limiter is currently cutting
// acceleration. Safe to call from any goroutine.
func (e *Engine) LimiterActive() bool {
	return e.limiter.Active()
}

// Contact returns the world edges touched during the last Update.
func (e *Engine) Contact() Contact {
	return e.contact
}

// LimiterTrips returns how many cut windows the rev limiter has opened
// since the engine was created or reset.
func (e *Engine) LimiterTrips() uint64 {
	return e.trips
}

// Reset clears the limiter and shift latches, as on restart.
func (e *Engine) Reset() {
	e.limiter.Reset()
	e.shiftUp.Reset()
	e.shiftDown.Reset()
	e.contact = Contact{}
	e.trips = 0
}

// Update returns the state one tick after s under the given controls.
// baseZoom is the camera scale at rest. Out-of-range inputs are clamped,
// never rejected.
func (e *Engine) Update(s VehicleState, in control.Intent, baseZoom float64) VehicleState {
	t := &e.tuning

	// Runs before anything moves so a state placed outside the world
	// (restart, hand-built) is pulled back in first.
	var before Contact
	s.Position, before = t.Bounds.Clamp(s.Position)
	s.Speed = clamp(s.Speed, -t.MaxSpeed, t.MaxSpeed)
	s.SteerInput = clamp(s.SteerInput, -t.MaxSteer, t.MaxSteer)
	s.BrakePressure = clamp(s.BrakePressure, 0, 1)
	s.RPM = math.Max(t.IdleRPM, s.RPM)

	s.Speed = approach(s.Speed, t.SpeedFriction)

	e.steer(&s)
	s.SteerRate = math.Max(t.MinSteerRate, t.BaseSteerRate-math.Abs(s.Speed)/t.SteerRateSpeedDivisor)
	s.Heading = WrapDegrees(s.Heading)

	s.Speed = Quantize(s.Speed)
	s.SteerInput = Quantize(s.SteerInput)
	s.Heading = WrapDegrees(Quantize(s.Heading))

	if s.Speed != 0 && math.Abs(s.Speed) < 0.01 {
		s.Speed = 0
	}

	var after Contact
	s.Position, after = t.Bounds.Clamp(s.Position.Add(FromHeading(s.Heading, s.Speed)))
	e.contact = before.Merge(after)

	s.MphSpeed = math.Round(s.Speed * t.MphFactor)
	s.Zoom = baseZoom - math.Abs(s.Speed)/100*baseZoom

	// Controls are applied last so the speed they produce is what the
	// next tick integrates.
	e.applySteering(&s, in)
	e.applyShift(&s, in)
	e.applyBrake(&s, in)
	e.applyDrivetrain(&s, in)

	return s
}

// steer turns the heading by the current wheel offset, scrubs a little speed
// for it and lets the wheel drift back toward centre by the same amount.
func (e *Engine) steer(s *VehicleState) {
	if s.Speed == 0 {
		return
	}
	effect := s.SteerInput * (s.Speed / e.tuning.SteerDivisor)
	s.Heading += effect
	s.Speed = approach(s.Speed, math.Abs(effect)/e.tuning.ScrubDivisor)
	s.SteerInput = approach(s.SteerInput, math.Abs(effect))
}

func (e *Engine) applySteering(s *VehicleState, in control.Intent) {
	limit := e.tuning.MaxSteer
	if in.SteerLeft {
		s.SteerInput = math.Max(-limit, s.SteerInput-s.SteerRate)
	}
	if in.SteerRight {
		s.SteerInput = math.Min(limit, s.SteerInput+s.SteerRate)
	}
}

func (e *Engine) applyShift(s *VehicleState, in control.Intent) {
	up := e.shiftUp.Rising(in.ShiftUp)
	down := e.shiftDown.Rising(in.ShiftDown)

	switch {
	case up && !down:
		s.Gear = e.tuning.Gearbox.ShiftUp(s.Gear)
	case down && !up:
		s.Gear = e.tuning.Gearbox.ShiftDown(s.Gear)
	}
}

func (e *Engine) applyBrake(s *VehicleState, in control.Intent) {
	t := &e.tuning
	if in.Brake {
		s.BrakePressure = math.Min(1, s.BrakePressure+t.BrakeRamp)
	} else {
		s.BrakePressure = math.Max(0, s.BrakePressure-t.BrakeRamp)
	}
	if s.BrakePressure > 0 {
		s.Speed = approach(s.Speed, s.BrakePressure*t.BrakeForce)
	}
}

// applyDrivetrain couples RPM and speed through the engaged gear, runs the
// rev limiter and adds throttle.
func (e *Engine) applyDrivetrain(s *VehicleState, in control.Intent) {
	t := &e.tuning
	ratio, engaged := t.Gearbox.Ratio(s.Gear)

	decay := t.RPMDecay * s.RPM / t.RedlineRPM
	if engaged {
		// A downshift at speed cannot spin the engine past redline; the
		// re-derived speed below brakes the vehicle down to match instead.
		friction := t.EngineFriction * s.RPM * t.EngagedFrictionScale
		s.RPM = math.Min(t.RedlineRPM, math.Abs(s.Speed)*ratio/t.SpeedPerRPM-decay-friction)
	} else {
		friction := t.EngineFriction * s.RPM * t.NeutralFrictionScale
		s.RPM -= decay + friction
	}
	// Never stalls.
	s.RPM = math.Max(t.IdleRPM, s.RPM)

	if s.RPM >= t.RedlineRPM && e.limiter.Arm() {
		e.trips++
	}

	if in.Accelerate && !e.limiter.Active() {
		gearFactor := t.NeutralGearFactor
		if engaged {
			gearFactor = ratio
		}
		inertia := s.RPM / t.RedlineRPM
		s.RPM += t.RPMStep * gearFactor * inertia

		// Throttle can carry the engine past redline; the cut starts on the
		// same tick.
		if s.RPM >= t.RedlineRPM {
			if e.limiter.Arm() {
				e.trips++
			}
			if !e.limiter.Active() {
				s.RPM = t.RedlineRPM
			}
		}
	}

	if !engaged {
		return
	}
	s.Speed = s.RPM * t.SpeedPerRPM / ratio
	if s.Gear == GearReverse {
		s.Speed = -s.Speed
	}
	s.Speed = clamp(s.Speed, -t.MaxSpeed, t.MaxSpeed)
}
