// pkg/entity/entity.go
package entity

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// ID is a unique identifier for a particle within an ensemble
type ID uint64

var (
	// ErrInvalidMass is returned when a particle is constructed with mass <= 0
	ErrInvalidMass = errors.New("mass must be positive")
	// ErrInvalidRadius is returned when a particle is constructed with radius <= 0
	ErrInvalidRadius = errors.New("radius must be positive")
	// ErrNonFinite is returned when any initial value is NaN or infinite
	ErrNonFinite = errors.New("value must be finite")
)

// Entity is the read surface renderers use to draw a simulated body
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector3D
	GetOrientation() physics.Vector3D
	GetCollider() physics.Sphere
	Render(r Renderer)
}

// State holds the kinematic and rotational state of a particle
type State struct {
	Position        physics.Vector3D
	Momentum        physics.Vector3D
	Orientation     physics.Vector3D // pitch, roll, yaw in radians
	AngularMomentum physics.Vector3D
}

// Constants holds the physical constants of a particle
type Constants struct {
	Mass   float64 // grams
	Charge float64 // coulombs
	Radius float64
}

// Particle is a charged sphere. Its mass, charge and radius are fixed at
// construction; the State fields are mutated every tick by the engine.
type Particle struct {
	ID   ID
	Name string
	State

	mass   float64
	charge float64
	radius float64
}

// NewParticle creates a particle after checking its constants and state
func NewParticle(id ID, state State, constants Constants) (Particle, error) {
	for _, v := range []physics.Vector3D{state.Position, state.Momentum, state.Orientation, state.AngularMomentum} {
		if !v.IsFinite() {
			return Particle{}, fmt.Errorf("particle %d state %v: %w", id, v, ErrNonFinite)
		}
	}
	if !(physics.Vector3D{X: constants.Mass, Y: constants.Charge, Z: constants.Radius}).IsFinite() {
		return Particle{}, fmt.Errorf("particle %d constants %+v: %w", id, constants, ErrNonFinite)
	}
	if constants.Mass <= 0 {
		return Particle{}, fmt.Errorf("particle %d mass %g: %w", id, constants.Mass, ErrInvalidMass)
	}
	if constants.Radius <= 0 {
		return Particle{}, fmt.Errorf("particle %d radius %g: %w", id, constants.Radius, ErrInvalidRadius)
	}

	return Particle{
		ID:     id,
		State:  state,
		mass:   constants.Mass,
		charge: constants.Charge,
		radius: constants.Radius,
	}, nil
}

// Mass returns the particle's mass
func (p *Particle) Mass() float64 {
	return p.mass
}

// Charge returns the particle's charge
func (p *Particle) Charge() float64 {
	return p.charge
}

// Radius returns the particle's radius
func (p *Particle) Radius() float64 {
	return p.radius
}

// Constants returns the particle's physical constants
func (p *Particle) Constants() Constants {
	return Constants{Mass: p.mass, Charge: p.charge, Radius: p.radius}
}

// Velocity returns momentum / mass
func (p *Particle) Velocity() physics.Vector3D {
	return p.Momentum.Scale(1 / p.mass)
}

// KineticEnergy returns the translational kinetic energy |p|²/2m
func (p *Particle) KineticEnergy() float64 {
	return p.Momentum.LengthSquared() / (2 * p.mass)
}

// MomentOfInertia returns coefficient * m * r². A solid sphere uses 2/5; the
// simulator defaults to 4/5.
func (p *Particle) MomentOfInertia(coefficient float64) float64 {
	return coefficient * p.mass * p.radius * p.radius
}

// GetID returns the particle's unique identifier
func (p *Particle) GetID() ID {
	return p.ID
}

// GetPosition returns the particle's position
func (p *Particle) GetPosition() physics.Vector3D {
	return p.Position
}

// GetOrientation returns the particle's pitch/roll/yaw angles
func (p *Particle) GetOrientation() physics.Vector3D {
	return p.Orientation
}

// GetCollider returns the particle's collision shape
func (p *Particle) GetCollider() physics.Sphere {
	return physics.Sphere{
		Center: p.Position,
		Radius: p.radius,
	}
}

// Render draws the particle with r
func (p *Particle) Render(r Renderer) {
	r.RenderParticle(p)
}
