// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-topdrive/pkg/audio"
	"github.com/opd-ai/go-topdrive/pkg/engine"
	"github.com/opd-ai/go-topdrive/pkg/event"
	"github.com/opd-ai/go-topdrive/pkg/logging"
	"github.com/opd-ai/go-topdrive/pkg/render"
)

// GameScene is the engo scene driving one simulation.
type GameScene struct {
	sim    *engine.Simulation
	audio  *audio.Player
	logger *logging.Logger
	ctx    context.Context

	background render.Background
	bgTile     common.Drawable
	font       *common.Font

	renderer *EngoRenderer
	assets   *AssetManager
	camera   *CameraSystem
	input    *InputSystem
	vehicle  *VehicleSystem
	hud      *HUDSystem

	subscriptions []subscription
}

type subscription struct {
	typ event.Type
	id  event.SubscriptionID
}

// NewGameScene creates a scene for sim. player may be nil.
func NewGameScene(ctx context.Context, sim *engine.Simulation, player *audio.Player, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	cfg := sim.Config
	return &GameScene{
		sim:    sim,
		audio:  player,
		logger: logger,
		ctx:    ctx,
		background: render.Background{
			Width:  cfg.World.Width,
			Height: cfg.World.Height,
			Image:  cfg.World.Background,
		},
		assets: NewAssetManager(cfg.Vehicle.Size),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload loads the font and, if configured, the background image.
func (scene *GameScene) Preload() {
	if err := LoadHUDFont(); err != nil {
		scene.logger.Warn(scene.ctx, "HUD font unavailable", "error", err.Error())
	}
	if scene.background.Image == "" {
		return
	}
	if err := engo.Files.Load(scene.background.Image); err != nil {
		scene.logger.Warn(scene.ctx, "Background image unavailable, using generated ground",
			"image", scene.background.Image,
			"error", err.Error(),
		)
		scene.background.Image = ""
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.RGBA{R: 40, G: 40, B: 40, A: 255})

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	if err := scene.assets.LoadAssets(); err != nil {
		panic("failed to load assets: " + err.Error())
	}
	scene.bgTile = scene.assets.GroundTile()
	if scene.background.Image != "" {
		if tex, err := common.LoadedSprite(scene.background.Image); err == nil {
			scene.bgTile = tex
		}
	}
	for _, e := range groundEntities(scene.background, scene.bgTile) {
		renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
	}

	if f, err := NewHUDFont(); err != nil {
		scene.logger.Warn(scene.ctx, "HUD text disabled", "error", err.Error())
	} else {
		scene.font = f
	}

	scene.build()
	scene.camera.SetViewport(float64(engo.GameWidth()), float64(engo.GameHeight()))

	renderSystem.Add(scene.vehicle.Entity())
	if scene.font != nil {
		renderSystem.Add(scene.hud.Entity())
	}

	// Input ticks the simulation first so the other systems see this frame.
	world.AddSystem(scene.input)
	world.AddSystem(scene.vehicle)
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	SetupInputBindings()

	if scene.audio != nil {
		if err := scene.audio.Start(); err != nil {
			scene.logger.Warn(scene.ctx, "Audio disabled", "error", err.Error())
		}
	}
	scene.sim.Start()
}

// build creates the systems and wires the per-frame flow:
// input -> simulation tick -> renderer/audio.
func (scene *GameScene) build() {
	size := scene.sim.Config.Vehicle.Size
	scene.vehicle = NewVehicleSystem(size, scene.assets.VehicleSprite())
	scene.camera = NewCameraSystem(size)
	scene.hud = NewHUDSystem(scene.font)
	scene.renderer = NewEngoRenderer(scene.vehicle, scene.camera, scene.hud)
	scene.input = NewInputSystem(scene.sim)

	scene.input.OnFrame(func(snap engine.Snapshot) {
		render.DrawFrame(scene.renderer, snap)
		if scene.audio != nil {
			scene.audio.Update(snap)
		}
	})
	render.DrawFrame(scene.renderer, scene.sim.Snapshot())

	scene.subscribeToEvents()
}

// subscribeToEvents sets up event handlers
func (scene *GameScene) subscribeToEvents() {
	bus := scene.sim.EventBus
	scene.subscriptions = append(scene.subscriptions,
		subscription{event.GearChanged, bus.Subscribe(event.GearChanged, func(e event.Event) {
			if ge, ok := e.(*event.GearEvent); ok {
				scene.logger.Debug(scene.ctx, "Shift", "from", ge.From, "to", ge.To)
			}
		})},
		subscription{event.SimulationRestarted, bus.Subscribe(event.SimulationRestarted, func(e event.Event) {
			render.DrawFrame(scene.renderer, scene.sim.Snapshot())
		})},
	)
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	for _, s := range scene.subscriptions {
		scene.sim.EventBus.Unsubscribe(s.typ, s.id)
	}
	scene.subscriptions = nil

	scene.sim.Stop()
	if scene.audio != nil {
		if err := scene.audio.Close(); err != nil {
			scene.logger.Warn(scene.ctx, "Closing audio", "error", err.Error())
		}
	}
}
