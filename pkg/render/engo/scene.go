// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/logging"
	"github.com/opd-ai/go-particlesim/pkg/render"
)

// WindowOptions configures the simulation window
type WindowOptions struct {
	Width      int
	Height     int
	Fullscreen bool
	// Zoom is the initial number of pixels per simulation length unit
	Zoom float64
	// FontPath is a TTF file for the HUD. Without one the HUD is hidden.
	FontPath string
}

// SimulationScene represents the simulation viewer in Engo
type SimulationScene struct {
	world  *ecs.World
	sim    *engine.Simulation
	opts   WindowOptions
	logger *logging.Logger

	controls *Controls
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	system   *SimulationSystem
}

// NewSimulationScene creates a new scene showing sim
func NewSimulationScene(sim *engine.Simulation, opts WindowOptions, logger *logging.Logger) *SimulationScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SimulationScene{
		sim:    sim,
		opts:   opts,
		logger: logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *SimulationScene) Type() string {
	return "SimulationScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *SimulationScene) Preload() {
	if scene.opts.FontPath == "" {
		return
	}
	if err := engo.Files.Load(scene.opts.FontPath); err != nil {
		scene.logger.Warn(scene.sim.Context(), "HUD font not loaded", "path", scene.opts.FontPath, "error", err)
		scene.opts.FontPath = ""
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *SimulationScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		world = &ecs.World{}
	}
	scene.world = world
	common.SetBackground(color.Black)

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	scene.camera = NewCameraSystem(float64(engo.GameWidth()), float64(engo.GameHeight()), scene.opts.Zoom)
	scene.controls = &Controls{Follow: true}

	scene.renderer = NewEngoRenderer(renderSystem, scene.camera)
	if err := scene.renderer.Initialize(); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}
	scene.renderer.SetChargeScale(chargeScale(scene.sim))

	scene.hud = NewHUDSystem(renderSystem)
	scene.hud.Watch(scene.sim.EventBus)
	if scene.opts.FontPath != "" {
		scene.hud.SetFont(scene.loadFont())
	}

	SetupInputBindings()
	scene.input = NewInputSystem(scene.controls, scene.camera, engo.Exit)
	scene.system = NewSimulationSystem(scene.sim, scene.controls, scene.renderer, scene.camera, scene.hud)

	// Input first so a step or pause applies to the same frame
	scene.world.AddSystem(scene.input)
	scene.world.AddSystem(scene.system)
	scene.world.AddSystem(scene.camera)
	scene.world.AddSystem(scene.hud)

	scene.sim.Start()
}

func (scene *SimulationScene) loadFont() *common.Font {
	font := &common.Font{
		URL:  scene.opts.FontPath,
		FG:   color.White,
		Size: 14,
	}
	if err := font.CreatePreloaded(); err != nil {
		scene.logger.Warn(scene.sim.Context(), "HUD font not usable", "path", scene.opts.FontPath, "error", err)
		return nil
	}
	return font
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *SimulationScene) Exit() {
	if scene.hud != nil {
		scene.hud.Unwatch()
	}
	scene.sim.Stop()
}

func chargeScale(sim *engine.Simulation) float64 {
	state := sim.GetState()
	charges := make([]float64, len(state.Particles))
	for i := range state.Particles {
		charges[i] = state.Particles[i].Charge()
	}
	return render.MaxAbsCharge(charges...)
}

// Run opens a window and runs the simulation in it until the window closes
func Run(sim *engine.Simulation, opts WindowOptions, logger *logging.Logger) {
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 400
	}

	engo.Run(engo.RunOptions{
		Title:      "Particle Simulation",
		Width:      opts.Width,
		Height:     opts.Height,
		Fullscreen: opts.Fullscreen,
		VSync:      true,
	}, NewSimulationScene(sim, opts, logger))
}
