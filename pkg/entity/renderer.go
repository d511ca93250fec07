package entity

// Renderer handles drawing particles once per frame
type Renderer interface {
	RenderParticle(particle *Particle)
	Clear()
	Present()
}
