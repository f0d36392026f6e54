package control

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdge_RisingOnlyOnTransition(t *testing.T) {
	var e Edge

	held := []bool{false, true, true, true, false, true, false}
	want := []bool{false, true, false, false, false, true, false}

	for i := range held {
		assert.Equal(t, want[i], e.Rising(held[i]), "tick %d", i)
	}
}

func TestEdge_Reset(t *testing.T) {
	var e Edge
	require.True(t, e.Rising(true))
	require.False(t, e.Rising(true))

	e.Reset()
	assert.True(t, e.Rising(true), "held control should count as a new press after reset")
}

func TestSampler_DefaultBindings(t *testing.T) {
	tests := []struct {
		key  string
		want Intent
	}{
		{"w", Intent{Accelerate: true}},
		{"ArrowUp", Intent{Accelerate: true}},
		{"s", Intent{Brake: true}},
		{"a", Intent{SteerLeft: true}},
		{"ArrowRight", Intent{SteerRight: true}},
		{"X", Intent{ShiftUp: true}},
		{"z", Intent{ShiftDown: true}},
		{"q", Intent{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := NewSampler(nil)
			s.KeyDown(tt.key)
			assert.Equal(t, tt.want, s.Snapshot())

			s.KeyUp(tt.key)
			assert.Equal(t, Intent{}, s.Snapshot())
		})
	}
}

func TestSampler_TwoKeysSameAction(t *testing.T) {
	s := NewSampler(nil)
	s.KeyDown("w")
	s.KeyDown("arrowup")
	s.KeyUp("w")

	assert.True(t, s.Snapshot().Accelerate, "arrowup still held")

	s.KeyUp("arrowup")
	assert.False(t, s.Snapshot().Accelerate)
}

func TestSampler_SetAndRelease(t *testing.T) {
	s := NewSampler(nil)
	s.Set(ActionBrake, true)
	s.KeyDown("d")

	got := s.Sample()
	assert.True(t, got.Brake)
	assert.True(t, got.SteerRight)

	s.Release()
	assert.Equal(t, Intent{}, s.Sample())
}

func TestSampler_ConcurrentEvents(t *testing.T) {
	s := NewSampler(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.KeyDown("w")
				_ = s.Snapshot()
				s.KeyUp("w")
			}
		}()
	}
	wg.Wait()

	assert.False(t, s.Snapshot().Accelerate)
}

func TestBindings_Keys(t *testing.T) {
	keys := DefaultBindings().Keys(ActionSteerLeft)
	assert.Equal(t, []string{"a", "arrowleft"}, keys)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "shiftUp", ActionShiftUp.String())
	assert.Equal(t, "unknown", Action(42).String())
	assert.Len(t, Actions(), 6)
}

func TestScript_PlaysStepsInOrder(t *testing.T) {
	s := NewScript(false,
		Step{Intent: Intent{ShiftUp: true}, Ticks: 1},
		Step{Intent: Intent{Accelerate: true}, Ticks: 2},
		Step{Intent: Intent{Brake: true}, Ticks: 0},
	)
	require.Equal(t, 3, s.Len())

	assert.Equal(t, Intent{ShiftUp: true}, s.Sample())
	assert.Equal(t, Intent{Accelerate: true}, s.Sample())
	assert.False(t, s.Done())
	assert.Equal(t, Intent{Accelerate: true}, s.Sample())
	assert.True(t, s.Done())
	assert.Equal(t, Intent{}, s.Sample())
}

func TestScript_Loops(t *testing.T) {
	s := NewScript(true,
		Step{Intent: Intent{SteerLeft: true}, Ticks: 1},
		Step{Intent: Intent{SteerRight: true}, Ticks: 1},
	)

	for i := 0; i < 3; i++ {
		assert.True(t, s.Sample().SteerLeft)
		assert.True(t, s.Sample().SteerRight)
	}
	assert.False(t, s.Done())
}

func TestBuiltinScript(t *testing.T) {
	for _, name := range ScriptNames() {
		s, err := BuiltinScript(name)
		require.NoError(t, err, name)
		assert.Positive(t, s.Len(), name)
	}

	_, err := BuiltinScript("donuts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown script")
}
