// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// CameraSystem maps simulation coordinates to window pixels and follows the
// ensemble's center of mass
type CameraSystem struct {
	// Target to follow
	target    physics.Vector2D
	targetSet bool

	// Pixels per world unit
	zoom    float64
	minZoom float64
	maxZoom float64

	// Smooth following
	followSpeed float64
	smoothing   bool

	// Current camera state
	currentPos physics.Vector2D

	viewWidth  float64
	viewHeight float64
}

// NewCameraSystem creates a camera showing zoom pixels per world unit in a
// viewport of the given size
func NewCameraSystem(width, height, zoom float64) *CameraSystem {
	cs := &CameraSystem{
		minZoom:     zoom / 100,
		maxZoom:     zoom * 100,
		followSpeed: 2.0,
		smoothing:   true,
		viewWidth:   width,
		viewHeight:  height,
	}
	cs.zoom = zoom
	return cs
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update moves the camera toward its target and applies zoom keys
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.Step(float64(dt))
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	if engo.Input == nil {
		return
	}
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + float64(scrollY)*0.1))
	}
	if engo.Input.Button(ButtonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(ButtonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
}

// Step advances the follow interpolation by dt seconds
func (cs *CameraSystem) Step(dt float64) {
	if !cs.targetSet {
		return
	}
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}

	k := cs.followSpeed * dt
	if k > 1 {
		k = 1
	}
	cs.currentPos.X += (cs.target.X - cs.currentPos.X) * k
	cs.currentPos.Y += (cs.target.Y - cs.currentPos.Y) * k
}

// SetTarget sets the position for the camera to follow
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true

	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget clears the camera target
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetViewport sets the window size in pixels
func (cs *CameraSystem) SetViewport(width, height float64) {
	cs.viewWidth = width
	cs.viewHeight = height
}

// SetZoom sets the pixels per world unit, clamped to the zoom limits
func (cs *CameraSystem) SetZoom(zoom float64) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float64 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float64) float64 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float64) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// WorldToScreen converts world coordinates to pixels. World Y grows upwards,
// screen Y downwards.
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vector2D) physics.Vector2D {
	return physics.Vector2D{
		X: (worldPos.X-cs.currentPos.X)*cs.zoom + cs.viewWidth/2,
		Y: cs.viewHeight/2 - (worldPos.Y-cs.currentPos.Y)*cs.zoom,
	}
}

// ScreenToWorld converts pixels to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vector2D) physics.Vector2D {
	return physics.Vector2D{
		X: (screenPos.X-cs.viewWidth/2)/cs.zoom + cs.currentPos.X,
		Y: (cs.viewHeight/2-screenPos.Y)/cs.zoom + cs.currentPos.Y,
	}
}
