package control

import (
	"fmt"
	"sort"
	"sync"
)

// Step holds one intent for a number of ticks.
type Step struct {
	Intent Intent
	Ticks  int
}

// Script replays a fixed sequence of steps, one intent per Sample call.
// After the last step it either loops or keeps returning the idle intent.
type Script struct {
	mu    sync.Mutex
	steps []Step
	loop  bool
	idx   int
	spent int
}

// NewScript creates a script from steps. Steps with no ticks are dropped.
func NewScript(loop bool, steps ...Step) *Script {
	kept := make([]Step, 0, len(steps))
	for _, st := range steps {
		if st.Ticks > 0 {
			kept = append(kept, st)
		}
	}
	return &Script{steps: kept, loop: loop}
}

// Sample implements Source.
func (s *Script) Sample() Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.steps) {
		if !s.loop || len(s.steps) == 0 {
			return Intent{}
		}
		s.idx = 0
	}

	in := s.steps[s.idx].Intent
	s.spent++
	if s.spent >= s.steps[s.idx].Ticks {
		s.idx++
		s.spent = 0
	}
	return in
}

// Done reports whether a non-looping script has run out of steps.
func (s *Script) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loop && s.idx >= len(s.steps)
}

// Len returns the total number of ticks in one pass of the script.
func (s *Script) Len() int {
	n := 0
	for _, st := range s.steps {
		n += st.Ticks
	}
	return n
}

var builtinScripts = map[string]func() *Script{
	"idle": func() *Script {
		return NewScript(true, Step{Ticks: 1})
	},
	"accelerate": func() *Script {
		return NewScript(false,
			Step{Intent: Intent{ShiftUp: true}, Ticks: 1},
			Step{Intent: Intent{Accelerate: true}, Ticks: 600},
		)
	},
	"cruise": func() *Script {
		return NewScript(false,
			Step{Intent: Intent{ShiftUp: true}, Ticks: 1},
			Step{Intent: Intent{Accelerate: true}, Ticks: 180},
			Step{Intent: Intent{Accelerate: true, ShiftUp: true}, Ticks: 1},
			Step{Intent: Intent{Accelerate: true}, Ticks: 180},
			Step{Intent: Intent{}, Ticks: 120},
			Step{Intent: Intent{Brake: true}, Ticks: 120},
		)
	},
	"figure8": func() *Script {
		return NewScript(true,
			Step{Intent: Intent{ShiftUp: true}, Ticks: 1},
			Step{Intent: Intent{Accelerate: true}, Ticks: 120},
			Step{Intent: Intent{Accelerate: true, SteerLeft: true}, Ticks: 240},
			Step{Intent: Intent{Accelerate: true, SteerRight: true}, Ticks: 240},
			Step{Intent: Intent{ShiftDown: true}, Ticks: 1},
			Step{Intent: Intent{Brake: true}, Ticks: 60},
		)
	},
}

// BuiltinScript returns a fresh copy of a named headless script.
func BuiltinScript(name string) (*Script, error) {
	build, ok := builtinScripts[name]
	if !ok {
		return nil, fmt.Errorf("unknown script %q (available: %v)", name, ScriptNames())
	}
	return build(), nil
}

// ScriptNames lists the builtin script names.
func ScriptNames() []string {
	names := make([]string, 0, len(builtinScripts))
	for name := range builtinScripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
