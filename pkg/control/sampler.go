package control

import (
	"slices"
	"strings"
	"sync"
)

// Action names a single driver control.
type Action int

const (
	ActionAccelerate Action = iota
	ActionBrake
	ActionSteerLeft
	ActionSteerRight
	ActionShiftUp
	ActionShiftDown
	actionCount
)

var actionNames = [...]string{
	ActionAccelerate: "accelerate",
	ActionBrake:      "brake",
	ActionSteerLeft:  "steerLeft",
	ActionSteerRight: "steerRight",
	ActionShiftUp:    "shiftUp",
	ActionShiftDown:  "shiftDown",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount)
	for a := Action(0); a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// Bindings maps lower-case key names to actions.
type Bindings map[string]Action

// DefaultBindings returns the WASD/arrow layout with X/Z for shifting.
func DefaultBindings() Bindings {
	return Bindings{
		"w":          ActionAccelerate,
		"arrowup":    ActionAccelerate,
		"s":          ActionBrake,
		"arrowdown":  ActionBrake,
		"a":          ActionSteerLeft,
		"arrowleft":  ActionSteerLeft,
		"d":          ActionSteerRight,
		"arrowright": ActionSteerRight,
		"x":          ActionShiftUp,
		"z":          ActionShiftDown,
	}
}

// Keys returns the sorted key names bound to action.
func (b Bindings) Keys(action Action) []string {
	var keys []string
	for k, a := range b {
		if a == action {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Sampler collects key-down/key-up events, possibly from another goroutine,
// and hands out intent snapshots. A key held by two bindings of the same
// action keeps the action held until both are released.
type Sampler struct {
	mu       sync.Mutex
	bindings Bindings
	down     map[string]bool
	forced   [actionCount]bool
}

// NewSampler creates a sampler with the given bindings, or the defaults if nil.
func NewSampler(bindings Bindings) *Sampler {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Sampler{
		bindings: bindings,
		down:     make(map[string]bool),
	}
}

// KeyDown marks a key as held. Unbound keys are ignored.
func (s *Sampler) KeyDown(key string) {
	s.setKey(key, true)
}

// KeyUp marks a key as released.
func (s *Sampler) KeyUp(key string) {
	s.setKey(key, false)
}

// Set forces the held state of an action, bypassing key bindings.
func (s *Sampler) Set(action Action, held bool) {
	if action < 0 || action >= actionCount {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[action] = held
}

// Release clears every held key and action.
func (s *Sampler) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.down)
	s.forced = [actionCount]bool{}
}

func (s *Sampler) setKey(key string, held bool) {
	key = strings.ToLower(key)
	if _, ok := s.bindings[key]; !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down[key] = held
}

// Sample implements Source.
func (s *Sampler) Sample() Intent {
	return s.Snapshot()
}

// Snapshot returns the held state of every action.
func (s *Sampler) Snapshot() Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := s.forced
	for key, down := range s.down {
		if down {
			held[s.bindings[key]] = true
		}
	}

	return Intent{
		Accelerate: held[ActionAccelerate],
		Brake:      held[ActionBrake],
		SteerLeft:  held[ActionSteerLeft],
		SteerRight: held[ActionSteerRight],
		ShiftUp:    held[ActionShiftUp],
		ShiftDown:  held[ActionShiftDown],
	}
}
