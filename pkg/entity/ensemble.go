// pkg/entity/ensemble.go
package entity

import (
	"errors"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// InitialCondition describes one particle of an ensemble before creation
type InitialCondition struct {
	Name string
	State
	Constants
}

// Ensemble is the fixed set of particles simulated together. Membership never
// changes after CreateEnsemble.
type Ensemble struct {
	Particles []Particle
}

// CreateEnsemble builds an ensemble from initial conditions, assigning IDs
// 0..N-1 in table order.
func CreateEnsemble(conditions []InitialCondition) (*Ensemble, error) {
	if len(conditions) == 0 {
		return nil, errors.New("ensemble needs at least one particle")
	}

	particles := make([]Particle, 0, len(conditions))
	for i, ic := range conditions {
		p, err := NewParticle(ID(i), ic.State, ic.Constants)
		if err != nil {
			return nil, err
		}
		p.Name = ic.Name
		particles = append(particles, p)
	}

	return &Ensemble{Particles: particles}, nil
}

// Len returns the number of particles
func (e *Ensemble) Len() int {
	return len(e.Particles)
}

// At returns a pointer to the i-th particle for in-place mutation
func (e *Ensemble) At(i int) *Particle {
	return &e.Particles[i]
}

// Clone returns a deep copy of the ensemble
func (e *Ensemble) Clone() *Ensemble {
	particles := make([]Particle, len(e.Particles))
	copy(particles, e.Particles)
	return &Ensemble{Particles: particles}
}

// TotalMomentum sums the linear momenta
func (e *Ensemble) TotalMomentum() physics.Vector3D {
	var total physics.Vector3D
	for i := range e.Particles {
		total = total.Add(e.Particles[i].Momentum)
	}
	return total
}

// TotalKineticEnergy sums the translational kinetic energies
func (e *Ensemble) TotalKineticEnergy() float64 {
	var total float64
	for i := range e.Particles {
		total += e.Particles[i].KineticEnergy()
	}
	return total
}

// TotalAngularMomentum sums the spin angular momenta
func (e *Ensemble) TotalAngularMomentum() physics.Vector3D {
	var total physics.Vector3D
	for i := range e.Particles {
		total = total.Add(e.Particles[i].AngularMomentum)
	}
	return total
}
