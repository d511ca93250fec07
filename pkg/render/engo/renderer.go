// pkg/render/engo/renderer.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/render"
)

// minSpriteSize keeps very small particles visible
const minSpriteSize = 3

type particleEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements entity.Renderer using the Engo game engine. Each
// particle gets one sprite entity which is kept across frames and removed
// once the particle stops being drawn.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem
	assets       *AssetManager

	entities  map[entity.ID]*particleEntity
	seen      map[entity.ID]bool
	maxCharge float64
}

// NewEngoRenderer creates a renderer drawing through renderSystem as seen by
// camera. A nil render system keeps the sprite state without drawing, which
// is how the renderer runs without a window.
func NewEngoRenderer(renderSystem *common.RenderSystem, camera *CameraSystem) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: renderSystem,
		camera:       camera,
		assets:       NewAssetManager(),
		entities:     make(map[entity.ID]*particleEntity),
		seen:         make(map[entity.ID]bool),
	}
}

// Initialize loads the sprite textures
func (r *EngoRenderer) Initialize() error {
	return r.assets.LoadAssets()
}

// SetChargeScale sets the charge magnitude drawn at full saturation
func (r *EngoRenderer) SetChargeScale(maxAbs float64) {
	r.maxCharge = maxAbs
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	clear(r.seen)
}

// RenderParticle implements entity.Renderer
func (r *EngoRenderer) RenderParticle(p *entity.Particle) {
	if p == nil {
		return
	}
	pe := r.getOrCreateParticleEntity(p.ID)
	r.updateParticleComponents(pe, p)
	r.seen[p.ID] = true
}

// Present implements entity.Renderer. Engo draws the sprites itself, so this
// only drops the ones not rendered since the last Clear.
func (r *EngoRenderer) Present() {
	for id := range r.entities {
		if !r.seen[id] {
			r.RemoveParticle(id)
		}
	}
}

// getOrCreateParticleEntity gets an existing particle entity or creates a new one
func (r *EngoRenderer) getOrCreateParticleEntity(id entity.ID) *particleEntity {
	if pe, exists := r.entities[id]; exists {
		return pe
	}

	pe := &particleEntity{BasicEntity: ecs.NewBasic()}
	pe.RenderComponent = common.RenderComponent{
		Drawable: r.assets.GetParticleSprite(),
	}
	r.entities[id] = pe

	if r.renderSystem != nil {
		r.renderSystem.Add(&pe.BasicEntity, &pe.RenderComponent, &pe.SpaceComponent)
	}
	return pe
}

// updateParticleComponents places the sprite over the particle's disk in the
// XY plane and tints it by charge
func (r *EngoRenderer) updateParticleComponents(pe *particleEntity, p *entity.Particle) {
	center := r.camera.WorldToScreen(p.Position.XY())
	size := 2 * p.Radius() * r.camera.GetZoom()
	if size < minSpriteSize {
		size = minSpriteSize
	}

	pe.SpaceComponent.Width = float32(size)
	pe.SpaceComponent.Height = float32(size)
	pe.SpaceComponent.Position = engo.Point{
		X: float32(center.X - size/2),
		Y: float32(center.Y - size/2),
	}
	// Screen Y points down, so a counterclockwise world angle is clockwise on screen
	pe.SpaceComponent.Rotation = float32(-p.Orientation.Z * 180 / math.Pi)

	pe.RenderComponent.Color = render.RGBA(render.ChargeColor(p.Charge(), r.maxCharge))
}

// RemoveParticle removes a particle entity from rendering
func (r *EngoRenderer) RemoveParticle(id entity.ID) {
	pe, exists := r.entities[id]
	if !exists {
		return
	}
	if r.renderSystem != nil {
		r.renderSystem.Remove(pe.BasicEntity)
	}
	delete(r.entities, id)
}

// EntityCount returns the number of particle sprites currently kept
func (r *EngoRenderer) EntityCount() int {
	return len(r.entities)
}
