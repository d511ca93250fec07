// pkg/engine/simulation.go
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/event"
	"github.com/opd-ai/go-particlesim/pkg/logging"
	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/validation"
)

// Status is the lifecycle state of a simulation
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusStopped
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Simulation owns an ensemble and drives the engine over it
type Simulation struct {
	Config      *config.SimulationConfig
	Ensemble    *entity.Ensemble
	Engine      *Engine
	EventBus    *event.Bus
	EntityLock  sync.RWMutex
	Status      Status
	CurrentTick uint64
	ElapsedTime float64 // simulated seconds
	StartTime   time.Time

	ctx    context.Context
	logger *logging.Logger
}

// SimulationState is a copy of the ensemble at a tick boundary
type SimulationState struct {
	Tick            uint64
	Elapsed         float64
	Status          Status
	Particles       []entity.Particle
	TotalMomentum   physics.Vector3D
	KineticEnergy   float64
	AngularMomentum physics.Vector3D
}

// NewSimulation validates the configuration, builds the ensemble it
// describes and an engine for it. Options are passed on to the engine.
func NewSimulation(cfg *config.SimulationConfig, opts ...Option) (*Simulation, error) {
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	conditions, err := config.InitialConditions(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolving initial conditions: %w", err)
	}
	if err := validation.ValidateInitialConditions(conditions); err != nil {
		return nil, fmt.Errorf("invalid initial conditions: %w", err)
	}

	ensemble, err := entity.CreateEnsemble(conditions)
	if err != nil {
		return nil, fmt.Errorf("creating ensemble: %w", err)
	}

	bus := event.NewEventBus()
	eng := NewEngine(cfg.Physics, append([]Option{WithEventBus(bus)}, opts...)...)

	return &Simulation{
		Config:   cfg,
		Ensemble: ensemble,
		Engine:   eng,
		EventBus: bus,
		Status:   StatusIdle,
		ctx:      logging.WithRunID(context.Background(), ""),
		logger:   eng.logger,
	}, nil
}

// RunID returns the identifier attached to every log record of this run
func (s *Simulation) RunID() string {
	return logging.GetRunID(s.ctx)
}

// Context returns the run context carrying the run ID, for logging on
// behalf of the simulation
func (s *Simulation) Context() context.Context {
	return s.ctx
}

// Start marks the simulation running
func (s *Simulation) Start() {
	s.EntityLock.Lock()
	if s.Status == StatusRunning {
		s.EntityLock.Unlock()
		return
	}
	s.Status = StatusRunning
	s.StartTime = time.Now()
	s.EntityLock.Unlock()

	s.logger.Info(s.ctx, "simulation started",
		"particles", s.Ensemble.Len(),
		"force_law", s.Engine.ForceLaw.Name(),
		"ordering", s.Engine.Physics.Ordering,
		"sample_period", s.Config.SamplePeriod,
	)
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStarted,
		Source:    s,
	})
}

// Stop halts the simulation. Stopping twice publishes one event.
func (s *Simulation) Stop() {
	s.EntityLock.Lock()
	if s.Status != StatusRunning {
		s.EntityLock.Unlock()
		return
	}
	s.Status = StatusStopped
	tick, started := s.CurrentTick, s.StartTime
	s.EntityLock.Unlock()

	s.logger.Info(s.ctx, "simulation stopped",
		"tick", tick,
		"wall_seconds", time.Since(started).Seconds(),
	)
	s.EventBus.Publish(&event.BaseEvent{
		EventType: event.SimulationStopped,
		Source:    s,
	})
}

// Update advances the simulation by one tick. It returns false without
// changing anything unless the simulation is running.
func (s *Simulation) Update() bool {
	s.EntityLock.Lock()
	if s.Status != StatusRunning {
		s.EntityLock.Unlock()
		return false
	}

	s.Engine.TimeEvolution(s.ctx, s.Ensemble, s.Config.SamplePeriod)
	s.CurrentTick++
	s.ElapsedTime += s.Config.SamplePeriod

	tick, elapsed := s.CurrentTick, s.ElapsedTime
	done := s.Config.MaxTicks > 0 && tick >= s.Config.MaxTicks
	s.EntityLock.Unlock()

	// Handlers may read state, so publish outside the lock
	s.EventBus.Publish(event.NewTickEvent(s, tick, elapsed))
	if done {
		s.Stop()
	}
	return true
}

// Run starts the simulation and advances it at the configured frame rate
// until the context is cancelled or the tick limit is reached. A frame rate
// of zero runs unpaced.
func (s *Simulation) Run(ctx context.Context) error {
	s.Start()
	defer s.Stop()

	if s.Config.FrameRate <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if !s.Update() {
				return nil
			}
		}
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.Config.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.Update() {
				return nil
			}
		}
	}
}

// GetState returns a snapshot of the current simulation state
func (s *Simulation) GetState() *SimulationState {
	s.EntityLock.RLock()
	defer s.EntityLock.RUnlock()

	snapshot := s.Ensemble.Clone()
	return &SimulationState{
		Tick:            s.CurrentTick,
		Elapsed:         s.ElapsedTime,
		Status:          s.Status,
		Particles:       snapshot.Particles,
		TotalMomentum:   snapshot.TotalMomentum(),
		KineticEnergy:   snapshot.TotalKineticEnergy(),
		AngularMomentum: snapshot.TotalAngularMomentum(),
	}
}
