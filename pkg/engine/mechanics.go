// pkg/engine/mechanics.go
package engine

import (
	"context"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/event"
	"github.com/opd-ai/go-particlesim/pkg/logging"
	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/trace"
)

// DefaultInertiaCoefficient is the solid sphere factor in I = c*m*r²
const DefaultInertiaCoefficient = 0.8

// Engine advances an ensemble through time. It carries everything a step
// needs so several independent simulations can run in one process.
type Engine struct {
	Physics  config.PhysicsConfig
	ForceLaw ForceLaw

	logger *logging.Logger
	trace  trace.Sink
	bus    *event.Bus
	tick   uint64

	forces   []physics.Vector3D
	resolved map[pair]struct{}
	records  []trace.Record
}

type pair struct{ a, b int }

func orderedPair(i, j int) pair {
	if i > j {
		i, j = j, i
	}
	return pair{i, j}
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTrace sets the sink that receives one record per particle per tick
func WithTrace(s trace.Sink) Option {
	return func(e *Engine) { e.trace = s }
}

// WithEventBus sets the bus collision events are published on
func WithEventBus(b *event.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithForceLaw replaces the force law chosen from the gravity flag
func WithForceLaw(f ForceLaw) Option {
	return func(e *Engine) { e.ForceLaw = f }
}

// NewEngine creates an engine for the given physics configuration
func NewEngine(cfg config.PhysicsConfig, opts ...Option) *Engine {
	if cfg.InertiaCoefficient <= 0 {
		cfg.InertiaCoefficient = DefaultInertiaCoefficient
	}
	if cfg.Ordering == "" {
		cfg.Ordering = config.OrderingSnapshot
	}

	e := &Engine{
		Physics:  cfg,
		ForceLaw: NewForceLaw(cfg.Gravity),
		logger:   logging.Discard(),
		resolved: make(map[pair]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick returns the number of completed time steps
func (e *Engine) Tick() uint64 {
	return e.tick
}

// TimeEvolution advances every particle of the ensemble by one sample period.
// Each particle in turn gets its resultant force applied to its momentum, its
// position and orientation integrated, and is then checked against every other
// particle for collisions.
func (e *Engine) TimeEvolution(ctx context.Context, ens *entity.Ensemble, samplePeriod float64) {
	tick := e.tick + 1
	n := ens.Len()
	snapshot := e.Physics.Ordering != config.OrderingSequential

	if snapshot {
		e.forces = e.forces[:0]
		for i := 0; i < n; i++ {
			e.forces = append(e.forces, e.resultantForce(ens, i))
		}
	}
	clear(e.resolved)

	for i := 0; i < n; i++ {
		p := ens.At(i)

		var force physics.Vector3D
		if snapshot {
			force = e.forces[i]
		} else {
			force = e.resultantForce(ens, i)
		}

		p.Momentum = e.planarLinear(p.Momentum.Add(force.Scale(samplePeriod)))
		e.updatePosition(p, samplePeriod)
		if e.Physics.Spin {
			e.updateOrientation(p, samplePeriod)
		}

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			key := orderedPair(i, j)
			if _, done := e.resolved[key]; done {
				continue
			}
			other := ens.At(j)
			result := physics.CheckCollision(p.GetCollider(), other.GetCollider())
			if !result.Collided {
				continue
			}
			e.resolved[key] = struct{}{}
			e.resolveCollision(ctx, tick, p, other, result, samplePeriod)
		}
	}

	e.tick = tick
	e.emit(ctx, ens)
}

// resultantForce sums the force law over every other particle
func (e *Engine) resultantForce(ens *entity.Ensemble, i int) physics.Vector3D {
	this := ens.At(i)
	var total physics.Vector3D
	for j := 0; j < ens.Len(); j++ {
		if j == i {
			continue
		}
		total = total.Add(e.ForceLaw.Force(this, ens.At(j)))
	}
	return e.planarLinear(total)
}

func (e *Engine) updatePosition(p *entity.Particle, dt float64) {
	p.Position = e.planarLinear(p.Position.Add(p.Momentum.Scale(dt / p.Mass())))
}

func (e *Engine) updateOrientation(p *entity.Particle, dt float64) {
	p.AngularMomentum = e.planarAngular(p.AngularMomentum)
	inertia := p.MomentOfInertia(e.Physics.InertiaCoefficient)
	p.Orientation = p.Orientation.Add(p.AngularMomentum.Scale(dt / inertia))
}

// resolveCollision applies the elastic exchange, moves this out along its new
// momentum and, with spin enabled, couples the pre-collision momenta into
// angular momentum about the contact points. The angular exchange does not
// conserve total angular momentum.
func (e *Engine) resolveCollision(ctx context.Context, tick uint64, this, that *entity.Particle, contact physics.CollisionResult, dt float64) {
	thisMomentum, thatMomentum := this.Momentum, that.Momentum

	ElasticCollision(this, that)
	this.Momentum = e.planarLinear(this.Momentum)
	that.Momentum = e.planarLinear(that.Momentum)
	e.updatePosition(this, dt)

	if e.Physics.Spin {
		this.AngularMomentum = e.planarAngular(this.AngularMomentum.Add(contact.ContactA.Cross(thatMomentum)))
		that.AngularMomentum = e.planarAngular(that.AngularMomentum.Add(contact.ContactB.Cross(thisMomentum)))
	}

	e.logger.Debug(ctx, "particles collided",
		"tick", tick,
		"particle_a", uint64(this.ID),
		"particle_b", uint64(that.ID),
		"penetration", contact.Penetration,
	)
	if e.bus != nil {
		e.bus.Publish(event.NewCollisionEvent(e, tick, uint64(this.ID), uint64(that.ID)))
	}
}

// planarLinear drops the out of plane component in planar mode
func (e *Engine) planarLinear(v physics.Vector3D) physics.Vector3D {
	if e.Physics.Planar {
		v.Z = 0
	}
	return v
}

// planarAngular keeps only rotation about the plane normal in planar mode
func (e *Engine) planarAngular(v physics.Vector3D) physics.Vector3D {
	if e.Physics.Planar {
		v.X, v.Y = 0, 0
	}
	return v
}

// emit writes the end of tick state to the trace sink and the debug log
func (e *Engine) emit(ctx context.Context, ens *entity.Ensemble) {
	debug := e.logger.DebugEnabled(ctx)
	if e.trace == nil && !debug {
		return
	}

	e.records = e.records[:0]
	for i := 0; i < ens.Len(); i++ {
		p := ens.At(i)
		e.records = append(e.records, trace.Record{
			ParticleID:      uint64(p.ID),
			Mass:            p.Mass(),
			Charge:          p.Charge(),
			Momentum:        p.Momentum,
			Position:        p.Position,
			AngularMomentum: p.AngularMomentum,
			Orientation:     p.Orientation,
		})
		if debug {
			e.logger.Debug(ctx, "particle state",
				"tick", e.tick,
				"particle_id", uint64(p.ID),
				"momentum", p.Momentum,
				"position", p.Position,
				"angular_momentum", p.AngularMomentum,
				"orientation", p.Orientation,
			)
		}
	}

	if e.trace == nil {
		return
	}
	if err := e.trace.WriteTick(e.tick, e.records); err != nil {
		// A failing sink stays failed; stop writing and keep simulating
		e.logger.Error(ctx, "trace write failed, disabling trace", err, "tick", e.tick)
		e.trace = nil
	}
}

// DetectCollision reports whether two particles overlap. Touching spheres do
// not collide.
func DetectCollision(p1, p2 *entity.Particle) bool {
	return p1.GetCollider().Collides(p2.GetCollider())
}

// ElasticCollision exchanges momentum between a and b using the one
// dimensional elastic formula applied to each velocity component. Total
// momentum and kinetic energy are conserved.
func ElasticCollision(a, b *entity.Particle) {
	m1, m2 := a.Mass(), b.Mass()
	v1, v2 := a.Velocity(), b.Velocity()
	total := m1 + m2

	u1 := v1.Scale((m1 - m2) / total).Add(v2.Scale(2 * m2 / total))
	u2 := v2.Scale((m2 - m1) / total).Add(v1.Scale(2 * m1 / total))

	a.Momentum = u1.Scale(m1)
	b.Momentum = u2.Scale(m2)
}
