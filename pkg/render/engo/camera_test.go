package engo

import (
	"math"
	"testing"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

func newTestCamera() (*CameraSystem, *[]common.CameraMessage) {
	cs := NewCameraSystem(40)
	var sent []common.CameraMessage
	cs.dispatch = func(m engo.Message) {
		if cm, ok := m.(common.CameraMessage); ok {
			sent = append(sent, cm)
		}
	}
	return cs, &sent
}

func TestNewCameraSystem(t *testing.T) {
	cs := NewCameraSystem(40)

	if cs.Zoom() != 1 {
		t.Errorf("default zoom = %v, want 1", cs.Zoom())
	}
	if cs.smoothing {
		t.Error("smoothing should be off by default")
	}
	if cs.targetSet {
		t.Error("no target should be set by default")
	}
}

func TestCameraSystem_FollowCentresOnVehicle(t *testing.T) {
	cs, _ := newTestCamera()

	cs.Follow(physics.VehicleState{Position: physics.Vector2D{X: 100, Y: 200}, Zoom: 0.8})

	want := physics.Vector2D{X: 120, Y: 220}
	if got := cs.CurrentPosition(); got != want {
		t.Errorf("position = %v, want %v", got, want)
	}
	if cs.Zoom() != 0.8 {
		t.Errorf("zoom = %v, want 0.8", cs.Zoom())
	}
}

func TestCameraSystem_UpdateDispatchesPositionAndZoom(t *testing.T) {
	cs, sent := newTestCamera()

	cs.Update(1.0 / 60)
	if len(*sent) != 0 {
		t.Fatalf("camera without a target sent %d messages", len(*sent))
	}

	cs.Follow(physics.VehicleState{Position: physics.Vector2D{X: 480, Y: 980}, Zoom: 0.5})
	cs.Update(1.0 / 60)

	if len(*sent) != 3 {
		t.Fatalf("got %d messages, want 3", len(*sent))
	}
	want := []common.CameraMessage{
		{Axis: common.XAxis, Value: 500},
		{Axis: common.YAxis, Value: 1000},
		{Axis: common.ZAxis, Value: 2},
	}
	for i, w := range want {
		if (*sent)[i] != w {
			t.Errorf("message %d = %+v, want %+v", i, (*sent)[i], w)
		}
	}
}

func TestCameraSystem_Smoothing(t *testing.T) {
	cs, _ := newTestCamera()
	cs.EnableSmoothing(true)
	cs.SetFollowSpeed(2)

	cs.SetTarget(physics.Vector2D{})
	cs.SetTarget(physics.Vector2D{X: 100})

	cs.Update(0.25)
	if got := cs.CurrentPosition().X; math.Abs(got-50) > 1e-9 {
		t.Errorf("after 0.25s x = %v, want 50", got)
	}

	cs.Update(10)
	if got := cs.CurrentPosition().X; got != 100 {
		t.Errorf("long frame should land on target, x = %v", got)
	}
}

func TestCameraSystem_ClearTarget(t *testing.T) {
	cs, sent := newTestCamera()
	cs.SetTarget(physics.Vector2D{X: 1, Y: 1})
	cs.ClearTarget()

	cs.Update(1.0 / 60)
	if len(*sent) != 0 {
		t.Errorf("cleared camera sent %d messages", len(*sent))
	}
}

func TestCameraDistance(t *testing.T) {
	tests := []struct {
		zoom float64
		want float32
	}{
		{1, 1},
		{0.5, 2},
		{2, 0.5},
		{0, 1 / minZoom},
		{-1, 1 / minZoom},
	}

	for _, tt := range tests {
		if got := cameraDistance(tt.zoom); math.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("cameraDistance(%v) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestCameraSystem_CoordinateConversion(t *testing.T) {
	cs, _ := newTestCamera()
	cs.SetViewport(800, 600)
	cs.Follow(physics.VehicleState{Position: physics.Vector2D{X: 980, Y: 980}, Zoom: 0.5})

	centre := cs.WorldToScreen(physics.Vector2D{X: 1000, Y: 1000})
	if centre != (physics.Vector2D{X: 400, Y: 300}) {
		t.Errorf("camera target maps to %v, want screen centre", centre)
	}

	got := cs.WorldToScreen(physics.Vector2D{X: 1200, Y: 1000})
	if got.X != 500 {
		t.Errorf("200px right at zoom 0.5 maps to x=%v, want 500", got.X)
	}

	points := []physics.Vector2D{{X: 0, Y: 0}, {X: 1234.5, Y: 42}, {X: -50, Y: 3000}}
	for _, p := range points {
		back := cs.ScreenToWorld(cs.WorldToScreen(p))
		if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}
}
