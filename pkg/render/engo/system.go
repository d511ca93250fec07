// pkg/render/engo/system.go
package engo

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/render"
)

// SimulationSystem advances the simulation once per frame and hands the
// resulting state to the renderer, camera and HUD
type SimulationSystem struct {
	sim      *engine.Simulation
	controls *Controls
	renderer *EngoRenderer
	camera   *CameraSystem
	hud      *HUDSystem
}

// NewSimulationSystem creates a new simulation system
func NewSimulationSystem(sim *engine.Simulation, controls *Controls, renderer *EngoRenderer, camera *CameraSystem, hud *HUDSystem) *SimulationSystem {
	return &SimulationSystem{
		sim:      sim,
		controls: controls,
		renderer: renderer,
		camera:   camera,
		hud:      hud,
	}
}

// Remove satisfies the ecs.System interface
func (ss *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the simulation unless paused and redraws the ensemble
func (ss *SimulationSystem) Update(dt float32) {
	if ss.controls.TakeStep() {
		ss.sim.Update()
	}
	ss.Draw(ss.sim.GetState())
}

// Draw renders a state without stepping
func (ss *SimulationSystem) Draw(state *engine.SimulationState) {
	if ss.controls.Follow {
		ss.camera.SetTarget(render.CenterOfMass(state.Particles).XY())
	}

	render.DrawEnsemble(ss.renderer, state.Particles)
	ss.hud.SetState(state, ss.controls.Paused)
}
