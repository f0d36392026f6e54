// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-topdrive/pkg/physics"
	"github.com/opd-ai/go-topdrive/pkg/render"
)

// EngoRenderer implements render.Renderer on top of the engo systems. It
// only queues what each system shows; the systems apply it in their own
// Update, on the engo loop.
type EngoRenderer struct {
	vehicle *VehicleSystem
	camera  *CameraSystem
	hud     *HUDSystem

	frames int
}

// NewEngoRenderer creates a renderer feeding the given systems.
func NewEngoRenderer(vehicle *VehicleSystem, camera *CameraSystem, hud *HUDSystem) *EngoRenderer {
	return &EngoRenderer{
		vehicle: vehicle,
		camera:  camera,
		hud:     hud,
	}
}

// Clear implements render.Renderer. engo clears the frame itself.
func (r *EngoRenderer) Clear() {}

// RenderVehicle implements render.Renderer
func (r *EngoRenderer) RenderVehicle(state physics.VehicleState) {
	r.vehicle.SetState(state)
	r.camera.Follow(state)
}

// RenderHUD implements render.Renderer
func (r *EngoRenderer) RenderHUD(h render.HUD) {
	r.vehicle.SetLimiter(h.LimiterActive)
	r.hud.SetHUD(h)
}

// Present implements render.Renderer
func (r *EngoRenderer) Present() {
	r.frames++
}

// Frames returns how many frames have been presented.
func (r *EngoRenderer) Frames() int {
	return r.frames
}

// groundEntities builds the tiles covering a world of the given extents
// plus a rectangle outlining its edges.
func groundEntities(bg render.Background, tile common.Drawable) []*spriteEntity {
	origins := tileOrigins(bg.Width, bg.Height)
	out := make([]*spriteEntity, 0, len(origins)+1)

	scale := float32(1)
	if tile != nil && tile.Width() > 0 {
		scale = TileSize / tile.Width()
	}
	for _, o := range origins {
		e := &spriteEntity{BasicEntity: ecs.NewBasic()}
		e.RenderComponent = common.RenderComponent{
			Drawable: tile,
			Scale:    engo.Point{X: scale, Y: scale},
		}
		e.SpaceComponent = common.SpaceComponent{
			Position: engo.Point{X: float32(o.X), Y: float32(o.Y)},
			Width:    TileSize,
			Height:   TileSize,
		}
		out = append(out, e)
	}

	edge := &spriteEntity{BasicEntity: ecs.NewBasic()}
	edge.RenderComponent = common.RenderComponent{
		Drawable: common.Rectangle{BorderWidth: 8, BorderColor: borderColor},
		Color:    color.Transparent,
	}
	edge.RenderComponent.SetZIndex(1)
	edge.SpaceComponent = common.SpaceComponent{
		Width:  float32(bg.Width),
		Height: float32(bg.Height),
	}
	return append(out, edge)
}
