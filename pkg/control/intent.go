// Package control turns raw input device state into the per-tick intent
// snapshot consumed by the physics engine.
package control

// Intent is an immutable snapshot of the driver's controls, sampled once per tick.
type Intent struct {
	Accelerate bool
	Brake      bool
	SteerLeft  bool
	SteerRight bool
	ShiftUp    bool
	ShiftDown  bool
}

// Source supplies one intent snapshot per tick.
type Source interface {
	Sample() Intent
}

// Edge detects false->true transitions of a held control.
// The zero value is ready to use.
type Edge struct {
	held bool
}

// Rising records the current held state and reports whether it just went down.
func (e *Edge) Rising(held bool) bool {
	rising := held && !e.held
	e.held = held
	return rising
}

// Reset forgets the previously held state.
func (e *Edge) Reset() {
	e.held = false
}
