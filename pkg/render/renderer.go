// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/logging"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// NullRenderer is an entity.Renderer that only logs what it is asked to draw.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer writing to logger.
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

// Frames returns the number of presented frames.
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderParticle implements entity.Renderer.
func (d *NullRenderer) RenderParticle(p *entity.Particle) {
	ctx := context.Background()
	if p == nil {
		d.logger.Debug(ctx, "RenderParticle called with nil particle")
		return
	}
	d.logger.Debug(ctx, "RenderParticle called",
		"particle_id", uint64(p.ID),
		"particle_name", p.Name,
		"position", p.GetPosition(),
		"orientation", p.GetOrientation(),
	)
}

// DrawEnsemble renders every particle of a snapshot as one frame.
func DrawEnsemble(r entity.Renderer, particles []entity.Particle) {
	r.Clear()
	for i := range particles {
		particles[i].Render(r)
	}
	r.Present()
}

// CenterOfMass returns the mass weighted mean position of the particles
func CenterOfMass(particles []entity.Particle) physics.Vector3D {
	var sum physics.Vector3D
	var mass float64
	for i := range particles {
		m := particles[i].Mass()
		sum = sum.Add(particles[i].Position.Scale(m))
		mass += m
	}
	if mass == 0 {
		return physics.Vector3D{}
	}
	return sum.Scale(1 / mass)
}
