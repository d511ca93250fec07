// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
)

// Button names registered with engo.Input
const (
	ButtonPause     = "pause"
	ButtonStep      = "step"
	ButtonResetView = "resetView"
	ButtonFollow    = "follow"
	ButtonQuit      = "quit"
	ButtonZoomIn    = "zoomIn"
	ButtonZoomOut   = "zoomOut"
)

// Action is a user command understood by the simulation scene
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionStep
	ActionResetView
	ActionToggleFollow
	ActionQuit
)

// Controls holds the playback state shared by the input and simulation systems
type Controls struct {
	Paused      bool
	StepPending bool
	Follow      bool
	Quit        bool
}

// Apply updates the controls for a single action. Stepping only has an effect
// while paused.
func (c *Controls) Apply(a Action) {
	switch a {
	case ActionTogglePause:
		c.Paused = !c.Paused
		c.StepPending = false
	case ActionStep:
		if c.Paused {
			c.StepPending = true
		}
	case ActionToggleFollow:
		c.Follow = !c.Follow
	case ActionQuit:
		c.Quit = true
	}
}

// TakeStep reports whether the simulation should advance this frame,
// consuming a pending single step
func (c *Controls) TakeStep() bool {
	if !c.Paused {
		return true
	}
	if c.StepPending {
		c.StepPending = false
		return true
	}
	return false
}

// InputSystem translates key presses into controls
type InputSystem struct {
	controls *Controls
	camera   *CameraSystem
	homeZoom float64
	onQuit   func()
}

// NewInputSystem creates a new input system. onQuit runs once when the quit
// key is pressed.
func NewInputSystem(controls *Controls, camera *CameraSystem, onQuit func()) *InputSystem {
	return &InputSystem{
		controls: controls,
		camera:   camera,
		homeZoom: camera.GetZoom(),
		onQuit:   onQuit,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update polls the registered buttons
func (is *InputSystem) Update(dt float32) {
	if engo.Input == nil {
		return
	}
	for _, binding := range []struct {
		button string
		action Action
	}{
		{ButtonPause, ActionTogglePause},
		{ButtonStep, ActionStep},
		{ButtonResetView, ActionResetView},
		{ButtonFollow, ActionToggleFollow},
		{ButtonQuit, ActionQuit},
	} {
		if engo.Input.Button(binding.button).JustPressed() {
			is.Handle(binding.action)
		}
	}
}

// Handle applies an action to the controls and the camera
func (is *InputSystem) Handle(a Action) {
	if a == ActionQuit && is.controls.Quit {
		return
	}
	is.controls.Apply(a)

	switch a {
	case ActionResetView:
		is.camera.SetZoom(is.homeZoom)
	case ActionToggleFollow:
		if !is.controls.Follow {
			is.camera.ClearTarget()
		}
	case ActionQuit:
		if is.onQuit != nil {
			is.onQuit()
		}
	}
}

// SetupInputBindings registers the scene's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace)
	engo.Input.RegisterButton(ButtonStep, engo.KeyN, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonResetView, engo.KeyR)
	engo.Input.RegisterButton(ButtonFollow, engo.KeyF)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyS, engo.KeyArrowDown)
}
