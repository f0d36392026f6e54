// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

// minZoom keeps the camera distance finite when the vehicle's zoom
// approaches zero at top speed with a small base zoom.
const minZoom = 0.05

// CameraSystem keeps engo's camera centred on the vehicle and scaled by the
// vehicle's zoom.
type CameraSystem struct {
	vehicleSize float64

	target    physics.Vector2D
	targetSet bool
	zoom      float64

	// Smooth following
	followSpeed float64
	smoothing   bool

	currentPos physics.Vector2D

	viewWidth  float64
	viewHeight float64

	dispatch func(engo.Message)
}

// NewCameraSystem creates a camera for a vehicle of the given size.
func NewCameraSystem(vehicleSize float64) *CameraSystem {
	return &CameraSystem{
		vehicleSize: vehicleSize,
		zoom:        1,
		followSpeed: 8,
		dispatch:    dispatchToMailbox,
	}
}

func dispatchToMailbox(m engo.Message) {
	if engo.Mailbox != nil {
		engo.Mailbox.Dispatch(m)
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Follow points the camera at the centre of the vehicle and takes its zoom.
func (cs *CameraSystem) Follow(s physics.VehicleState) {
	half := cs.vehicleSize / 2
	cs.SetTarget(s.Position.Add(physics.Vector2D{X: half, Y: half}))
	cs.zoom = s.Zoom
}

// Update moves the camera toward its target and applies the zoom.
func (cs *CameraSystem) Update(dt float32) {
	if !cs.targetSet {
		return
	}
	cs.updateCameraPosition(float64(dt))

	cs.dispatch(common.CameraMessage{Axis: common.XAxis, Value: float32(cs.currentPos.X)})
	cs.dispatch(common.CameraMessage{Axis: common.YAxis, Value: float32(cs.currentPos.Y)})
	cs.dispatch(common.CameraMessage{Axis: common.ZAxis, Value: cameraDistance(cs.zoom)})
}

// updateCameraPosition moves the camera toward the target
func (cs *CameraSystem) updateCameraPosition(dt float64) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	step := cs.followSpeed * dt
	if step > 1 {
		step = 1
	}
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Scale(step))
}

// cameraDistance maps a zoom factor to engo's camera Z, where a larger Z
// shows more of the world.
func cameraDistance(zoom float64) float32 {
	if zoom < minZoom {
		zoom = minZoom
	}
	return float32(1 / zoom)
}

// SetTarget sets the point the camera follows. The first target is
// adopted immediately.
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	if !cs.targetSet {
		cs.currentPos = target
	}
	cs.target = target
	cs.targetSet = true
}

// ClearTarget stops the camera from following.
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// Zoom returns the zoom factor last taken from the vehicle.
func (cs *CameraSystem) Zoom() float64 {
	return cs.zoom
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// SetFollowSpeed sets how much of the remaining distance is covered per second.
func (cs *CameraSystem) SetFollowSpeed(speed float64) {
	cs.followSpeed = speed
}

// CurrentPosition returns the world point at the centre of the view.
func (cs *CameraSystem) CurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// SetViewport sets the screen size used by the coordinate helpers.
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.viewWidth = width
	cs.viewHeight = height
}

// WorldToScreen converts world coordinates to screen coordinates
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	z := cs.effectiveZoom()
	rel := worldPos.Sub(cs.currentPos).Scale(z)
	return physics.Vector2D{X: rel.X + cs.viewWidth/2, Y: rel.Y + cs.viewHeight/2}
}

// ScreenToWorld converts screen coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	z := cs.effectiveZoom()
	rel := physics.Vector2D{X: screenPos.X - cs.viewWidth/2, Y: screenPos.Y - cs.viewHeight/2}
	return rel.Scale(1 / z).Add(cs.currentPos)
}

func (cs *CameraSystem) effectiveZoom() float64 {
	if cs.zoom < minZoom {
		return minZoom
	}
	return cs.zoom
}
