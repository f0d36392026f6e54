package physics

import (
	"errors"
	"fmt"
	"math"
)

// VehicleState is everything the simulation advances each tick.
// It is a plain value: copies handed to renderers are independent of the
// engine's working state.
type VehicleState struct {
	// Top-left corner of the vehicle in world pixels.
	Position Vector2D
	// Signed speed along the heading; negative is reverse. World pixels per tick.
	Speed float64
	// Display speed derived from Speed.
	MphSpeed float64
	// Facing in degrees, [0, 360).
	Heading float64
	// Front-wheel offset from heading, [-MaxSteer, MaxSteer]; decays toward 0.
	SteerInput float64
	// Largest change SteerInput may take this tick.
	SteerRate     float64
	Gear          Gear
	RPM           float64
	BrakePressure float64
	// Camera scale derived from base zoom and speed.
	Zoom float64
}

// NewVehicleState returns the state a simulation starts (and restarts) with.
func NewVehicleState(t Tuning) VehicleState {
	pos, _ := t.Bounds.Clamp(t.Start)
	return VehicleState{
		Position:  pos,
		Heading:   WrapDegrees(t.StartHeading),
		SteerRate: t.BaseSteerRate,
		Gear:      GearNeutral,
		RPM:       t.IdleRPM,
		Zoom:      1,
	}
}

// Check returns an error describing every invariant the state violates.
// The engine never produces such a state; Check exists for tests and for
// validating states built by hand.
func (s VehicleState) Check(t Tuning) error {
	var errs []error
	if math.IsNaN(s.Heading) || s.Heading < 0 || s.Heading >= 360 {
		errs = append(errs, fmt.Errorf("heading %v outside [0, 360)", s.Heading))
	}
	if math.Abs(s.SteerInput) > t.MaxSteer {
		errs = append(errs, fmt.Errorf("steer input %v exceeds ±%v", s.SteerInput, t.MaxSteer))
	}
	if s.RPM < t.IdleRPM {
		errs = append(errs, fmt.Errorf("rpm %v below idle %v", s.RPM, t.IdleRPM))
	}
	if s.BrakePressure < 0 || s.BrakePressure > 1 {
		errs = append(errs, fmt.Errorf("brake pressure %v outside [0, 1]", s.BrakePressure))
	}
	if !t.Bounds.Contains(s.Position) {
		errs = append(errs, fmt.Errorf("position %+v outside world", s.Position))
	}
	if math.Abs(s.Speed) > t.MaxSpeed {
		errs = append(errs, fmt.Errorf("speed %v exceeds cap %v", s.Speed, t.MaxSpeed))
	}
	return errors.Join(errs...)
}
