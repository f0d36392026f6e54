// pkg/render/engo/vehicle.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

var (
	normalTint  = color.White
	limiterTint = color.NRGBA{R: 255, G: 200, B: 120, A: 255}
)

type spriteEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// VehicleSystem places the car sprite from the latest vehicle state.
type VehicleSystem struct {
	size    float64
	entity  *spriteEntity
	pending *physics.VehicleState
	limiter bool
}

// NewVehicleSystem creates a vehicle system. The sprite may be nil in tests;
// positioning still works.
func NewVehicleSystem(size float64, sprite common.Drawable) *VehicleSystem {
	e := &spriteEntity{BasicEntity: ecs.NewBasic()}
	e.RenderComponent = common.RenderComponent{Drawable: sprite, Color: normalTint}
	e.SpaceComponent = common.SpaceComponent{Width: float32(size), Height: float32(size)}
	e.RenderComponent.SetZIndex(10)
	return &VehicleSystem{size: size, entity: e}
}

// Entity exposes the sprite entity so it can be added to a RenderSystem.
func (vs *VehicleSystem) Entity() (*ecs.BasicEntity, *common.RenderComponent, *common.SpaceComponent) {
	return &vs.entity.BasicEntity, &vs.entity.RenderComponent, &vs.entity.SpaceComponent
}

// SetState queues s to be applied on the next Update.
func (vs *VehicleSystem) SetState(s physics.VehicleState) {
	vs.pending = &s
}

// SetLimiter tints the car while the rev limiter is cutting.
func (vs *VehicleSystem) SetLimiter(active bool) {
	vs.limiter = active
}

// Remove satisfies the ecs.System interface
func (vs *VehicleSystem) Remove(basic ecs.BasicEntity) {}

// Update moves the sprite to the queued state.
func (vs *VehicleSystem) Update(dt float32) {
	vs.entity.RenderComponent.Color = vehicleTint(vs.limiter)
	if vs.pending == nil {
		return
	}
	placeVehicle(&vs.entity.SpaceComponent, *vs.pending, vs.size)
	vs.pending = nil
}

// placeVehicle rotates the sprite to the heading about the centre of the
// vehicle's bounding square.
func placeVehicle(sc *common.SpaceComponent, s physics.VehicleState, size float64) {
	sc.Width = float32(size)
	sc.Height = float32(size)
	sc.Rotation = float32(s.Heading)
	sc.SetCenter(engo.Point{
		X: float32(s.Position.X + size/2),
		Y: float32(s.Position.Y + size/2),
	})
}

func vehicleTint(limiter bool) color.Color {
	if limiter {
		return limiterTint
	}
	return normalTint
}
