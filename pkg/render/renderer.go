// pkg/render/renderer.go
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/opd-ai/go-topdrive/pkg/engine"
	"github.com/opd-ai/go-topdrive/pkg/logging"
	"github.com/opd-ai/go-topdrive/pkg/physics"
)

// Renderer paints one frame from a read-only snapshot. It never feeds
// anything back into the simulation.
type Renderer interface {
	Clear()
	RenderVehicle(state physics.VehicleState)
	RenderHUD(hud HUD)
	Present()
}

// Background describes the world the vehicle drives over. The image is an
// opaque handle for graphical renderers; physics only sees the extents.
type Background struct {
	Width  float64
	Height float64
	Image  string
}

// DrawFrame renders one complete frame of snap.
func DrawFrame(r Renderer, snap engine.Snapshot) {
	r.Clear()
	r.RenderVehicle(snap.State)
	r.RenderHUD(NewHUD(snap))
	r.Present()
}

// HUD is the driver readout derived from a snapshot.
type HUD struct {
	Tick          uint64
	Mph           float64
	Gear          physics.Gear
	RPM           float64
	BrakePercent  int
	LimiterActive bool
	Zoom          float64
	Heading       float64
}

// NewHUD builds the readout for a snapshot.
func NewHUD(s engine.Snapshot) HUD {
	return HUD{
		Tick:          s.Tick,
		Mph:           s.State.MphSpeed,
		Gear:          s.State.Gear,
		RPM:           s.State.RPM,
		BrakePercent:  int(s.State.BrakePressure*100 + 0.5),
		LimiterActive: s.LimiterActive,
		Zoom:          s.State.Zoom,
		Heading:       s.State.Heading,
	}
}

// Lines returns the readout as display lines.
func (h HUD) Lines() []string {
	lines := []string{
		fmt.Sprintf("SPEED %4.0f mph", h.Mph),
		fmt.Sprintf("GEAR  %s", h.Gear),
		fmt.Sprintf("RPM   %4.0f", h.RPM),
		fmt.Sprintf("BRAKE %3d%%", h.BrakePercent),
		fmt.Sprintf("ZOOM  %.2f", h.Zoom),
	}
	if h.LimiterActive {
		lines = append(lines, "LIMIT")
	}
	return lines
}

// String joins the readout into one status line.
func (h HUD) String() string {
	return strings.Join(h.Lines(), " | ")
}

// NullRenderer draws nothing and logs each call at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NullRenderer{logger: logger}
}

// Frames returns how many frames have been presented.
func (d *NullRenderer) Frames() int {
	return d.frames
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// RenderVehicle implements Renderer.
func (d *NullRenderer) RenderVehicle(state physics.VehicleState) {
	d.logger.Debug(context.Background(), "RenderVehicle called",
		"x", state.Position.X,
		"y", state.Position.Y,
		"heading", state.Heading,
		"gear", state.Gear.String(),
	)
}

// RenderHUD implements Renderer.
func (d *NullRenderer) RenderHUD(hud HUD) {
	d.logger.Debug(context.Background(), "RenderHUD called", "hud", hud.String())
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}
