// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-topdrive/pkg/control"
	"github.com/opd-ai/go-topdrive/pkg/engine"
)

// Button names registered with engo beyond the driving actions, which are
// registered under control.Action.String().
const (
	buttonZoomIn  = "zoomIn"
	buttonZoomOut = "zoomOut"
	buttonRestart = "restart"
	buttonQuit    = "quit"
)

// Buttons reports the state of named input buttons.
type Buttons interface {
	Down(name string) bool
	JustPressed(name string) bool
}

// engoButtons reads the global engo input manager.
type engoButtons struct{}

func (engoButtons) Down(name string) bool {
	return engo.Input.Button(name).Down()
}

func (engoButtons) JustPressed(name string) bool {
	return engo.Input.Button(name).JustPressed()
}

// InputSystem samples the keyboard once per frame, steps the simulation with
// the resulting intent and hands the snapshot to every frame listener.
type InputSystem struct {
	sim     *engine.Simulation
	sampler *control.Sampler
	buttons Buttons

	listeners []func(engine.Snapshot)
	quit      func()
	last      engine.Snapshot
}

// NewInputSystem creates an input system driving sim.
func NewInputSystem(sim *engine.Simulation) *InputSystem {
	return &InputSystem{
		sim:     sim,
		sampler: control.NewSampler(nil),
		buttons: engoButtons{},
		quit:    engo.Exit,
		last:    sim.Snapshot(),
	}
}

// OnFrame registers fn to receive the snapshot produced each frame.
func (is *InputSystem) OnFrame(fn func(engine.Snapshot)) {
	is.listeners = append(is.listeners, fn)
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update processes input and advances the simulation by one tick.
func (is *InputSystem) Update(dt float32) {
	if is.buttons.JustPressed(buttonQuit) {
		is.quit()
		return
	}
	if is.buttons.JustPressed(buttonRestart) {
		is.sim.Restart()
		is.sampler.Release()
	}

	switch {
	case is.buttons.Down(buttonZoomIn) && !is.buttons.Down(buttonZoomOut):
		is.sim.AdjustBaseZoom(1)
	case is.buttons.Down(buttonZoomOut) && !is.buttons.Down(buttonZoomIn):
		is.sim.AdjustBaseZoom(-1)
	}

	for _, action := range control.Actions() {
		is.sampler.Set(action, is.buttons.Down(action.String()))
	}

	is.last = is.sim.Tick(is.sampler.Sample())
	for _, fn := range is.listeners {
		fn(is.last)
	}
}

// Last returns the snapshot produced by the most recent Update.
func (is *InputSystem) Last() engine.Snapshot {
	return is.last
}

// SetupInputBindings registers the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(control.ActionAccelerate.String(), engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(control.ActionBrake.String(), engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(control.ActionSteerLeft.String(), engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(control.ActionSteerRight.String(), engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(control.ActionShiftUp.String(), engo.KeyX)
	engo.Input.RegisterButton(control.ActionShiftDown.String(), engo.KeyZ)

	engo.Input.RegisterButton(buttonZoomIn, engo.KeyE)
	engo.Input.RegisterButton(buttonZoomOut, engo.KeyQ)
	engo.Input.RegisterButton(buttonRestart, engo.KeyR)
	engo.Input.RegisterButton(buttonQuit, engo.KeyEscape)
}
