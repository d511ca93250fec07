package engo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/event"
	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/render"
)

func newTestSystem(t *testing.T) (*SimulationSystem, *engine.Simulation, *Controls) {
	t.Helper()
	sim, err := engine.NewSimulation(config.DefaultConfig())
	require.NoError(t, err)

	camera := NewCameraSystem(800, 600, 100)
	controls := &Controls{Follow: true}
	renderer := NewEngoRenderer(nil, camera)
	hud := NewHUDSystem(nil)
	hud.Watch(sim.EventBus)
	t.Cleanup(hud.Unwatch)

	sim.Start()
	return NewSimulationSystem(sim, controls, renderer, camera, hud), sim, controls
}

func TestSimulationSystem_Update(t *testing.T) {
	ss, sim, controls := newTestSystem(t)

	ss.Update(0.016)
	assert.Equal(t, uint64(1), sim.GetState().Tick)
	assert.Equal(t, 3, ss.renderer.EntityCount())
	require.NotEmpty(t, ss.hud.Text())
	assert.Contains(t, ss.hud.Text()[0], "tick 1")

	controls.Apply(ActionTogglePause)
	ss.Update(0.016)
	ss.Update(0.016)
	assert.Equal(t, uint64(1), sim.GetState().Tick, "paused system must not step")
	assert.Contains(t, ss.hud.Text()[0], "[paused]")

	controls.Apply(ActionStep)
	ss.Update(0.016)
	ss.Update(0.016)
	assert.Equal(t, uint64(2), sim.GetState().Tick, "single step advances exactly once")
}

func TestSimulationSystem_FollowsCenterOfMass(t *testing.T) {
	ss, sim, controls := newTestSystem(t)

	ss.Draw(sim.GetState())
	com := render.CenterOfMass(sim.GetState().Particles).XY()
	assert.Equal(t, com, ss.camera.GetCurrentPosition())

	controls.Apply(ActionToggleFollow)
	ss.camera.ClearTarget()
	ss.Draw(sim.GetState())
	assert.False(t, ss.camera.targetSet)
}

func TestHUDSystem_CountsCollisions(t *testing.T) {
	bus := event.NewEventBus()
	hud := NewHUDSystem(nil)
	hud.Watch(bus)

	bus.Publish(event.NewCollisionEvent(nil, 1, 0, 1))
	bus.Publish(event.NewCollisionEvent(nil, 1, 1, 2))
	bus.Publish(event.NewTickEvent(nil, 1, 0.1))
	assert.Equal(t, uint64(2), hud.Collisions())

	hud.Unwatch()
	bus.Publish(event.NewCollisionEvent(nil, 2, 0, 1))
	assert.Equal(t, uint64(2), hud.Collisions())

	// Without a font or render system Update is a no-op
	assert.NotPanics(t, func() { hud.Update(0.016) })
}

func TestFormatStatus(t *testing.T) {
	assert.Nil(t, FormatStatus(nil, 0, false))

	state := &engine.SimulationState{
		Tick:            12,
		Elapsed:         0.096,
		Status:          engine.StatusRunning,
		Particles:       make([]entity.Particle, 3),
		TotalMomentum:   physics.Vector3D{X: 1.5},
		KineticEnergy:   2.25,
		AngularMomentum: physics.Vector3D{Z: -0.5},
	}

	lines := FormatStatus(state, 4, false)
	require.Len(t, lines, 5)
	assert.Equal(t, "tick 12  t=0.096s  [running]", lines[0])
	assert.Equal(t, "particles 3  collisions 4", lines[1])
	assert.Equal(t, "E_k 2.25", lines[2])
	assert.Equal(t, "P (1.5, 0, 0)", lines[3])
	assert.Equal(t, "L (0, 0, -0.5)", lines[4])

	assert.True(t, strings.HasSuffix(FormatStatus(state, 4, true)[0], "[paused]"))

	state.Status = engine.StatusStopped
	assert.True(t, strings.HasSuffix(FormatStatus(state, 4, true)[0], "[stopped]"))
}
