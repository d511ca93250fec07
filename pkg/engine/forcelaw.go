// pkg/engine/forcelaw.go
package engine

import (
	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// ForceLaw computes the force exerted on this by that
type ForceLaw interface {
	Force(this, that *entity.Particle) physics.Vector3D
	Name() string
}

// Electric is the Coulomb interaction alone. Positive magnitudes push this
// away from that.
type Electric struct{}

// Force implements ForceLaw
func (Electric) Force(this, that *entity.Particle) physics.Vector3D {
	d := this.Position.Sub(that.Position)
	f := physics.ElectricForce(this.Charge(), that.Charge(), d.Length())
	return physics.ComponentizeForce3D(f, d)
}

// Name implements ForceLaw
func (Electric) Name() string { return "electric" }

// ElectricPlusGravity adds an always attractive gravitational term to the
// Coulomb interaction
type ElectricPlusGravity struct {
	Electric
}

// Force implements ForceLaw
func (g ElectricPlusGravity) Force(this, that *entity.Particle) physics.Vector3D {
	d := that.Position.Sub(this.Position)
	f := physics.GravitationalForce(this.Mass(), that.Mass(), d.Length())
	return g.Electric.Force(this, that).Add(physics.ComponentizeForce3D(f, d))
}

// Name implements ForceLaw
func (ElectricPlusGravity) Name() string { return "electric+gravity" }

// NewForceLaw selects the force law for the gravity flag
func NewForceLaw(gravity bool) ForceLaw {
	if gravity {
		return ElectricPlusGravity{}
	}
	return Electric{}
}
