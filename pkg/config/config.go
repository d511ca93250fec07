// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// Force accumulation orderings
const (
	// OrderingSnapshot computes every resultant from the tick-start state
	OrderingSnapshot = "snapshot"
	// OrderingSequential computes each resultant from the partially updated
	// ensemble, in index order
	OrderingSequential = "sequential"
)

// SimulationConfig contains configuration for a simulation run. It is read
// once at start-up and never changed while the simulation runs.
type SimulationConfig struct {
	SamplePeriod float64          `json:"samplePeriod"` // simulated seconds per tick
	FrameRate    int              `json:"frameRate"`    // ticks per wall-clock second, 0 = unpaced
	MaxTicks     uint64           `json:"maxTicks"`     // 0 = unlimited
	Physics      PhysicsConfig    `json:"physics"`
	Trace        TraceConfig      `json:"trace"`
	Particles    []ParticleConfig `json:"particles"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity            bool    `json:"gravity"`
	Spin               bool    `json:"spin"`
	Planar             bool    `json:"planar"`
	Ordering           string  `json:"ordering"`
	InertiaCoefficient float64 `json:"inertiaCoefficient"`
	NucleusRadius      float64 `json:"nucleusRadius"`
}

// TraceConfig selects the per-tick trace output. An empty path disables it.
type TraceConfig struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// Vec3 is a vector written as a JSON array [x, y, z]
type Vec3 [3]float64

// Vector converts v to a physics vector
func (v Vec3) Vector() physics.Vector3D {
	return physics.Vector3D{X: v[0], Y: v[1], Z: v[2]}
}

// ParticleConfig describes one particle. Constants come from Preset unless
// overridden by Mass, Charge or Radius.
type ParticleConfig struct {
	Name            string   `json:"name"`
	Preset          string   `json:"preset,omitempty"`
	ElectronCount   int      `json:"electronCount,omitempty"`
	Position        Vec3     `json:"position"`
	Momentum        Vec3     `json:"momentum"`
	Orientation     Vec3     `json:"orientation"`
	AngularMomentum Vec3     `json:"angularMomentum"`
	Mass            *float64 `json:"mass,omitempty"`
	Charge          *float64 `json:"charge,omitempty"`
	Radius          *float64 `json:"radius,omitempty"`
}

// LoadConfig loads a configuration from a JSON file. Fields missing from the
// file keep their DefaultConfig values.
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	config.Particles = nil
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Particles == nil {
		config.Particles = DefaultConfig().Particles
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the nucleus-and-two-electrons configuration
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		SamplePeriod: 8e-3,
		FrameRate:    100,
		MaxTicks:     0,
		Physics: PhysicsConfig{
			Gravity:            false,
			Spin:               true,
			Planar:             false,
			Ordering:           OrderingSnapshot,
			InertiaCoefficient: 0.8,
			NucleusRadius:      entity.FakeNucleusRadius,
		},
		Trace: TraceConfig{
			Path:   "",
			Format: "csv",
		},
		Particles: []ParticleConfig{
			{
				Name:          "nucleus",
				Preset:        entity.PresetNucleus,
				ElectronCount: 2,
			},
			{
				Name:     "electron-1",
				Preset:   entity.PresetElectron,
				Position: Vec3{0.3, 0.5, 0},
			},
			{
				Name:     "electron-2",
				Preset:   entity.PresetElectron,
				Position: Vec3{0.5, 0.3, 0},
			},
		},
	}
}

// InitialConditions resolves presets and overrides into the table
// entity.CreateEnsemble consumes. A nucleus without an electron count
// balances the electrons present in the configuration.
func InitialConditions(config *SimulationConfig) ([]entity.InitialCondition, error) {
	electrons := 0
	for _, p := range config.Particles {
		if strings.EqualFold(strings.TrimSpace(p.Preset), entity.PresetElectron) {
			electrons++
		}
	}

	conditions := make([]entity.InitialCondition, 0, len(config.Particles))
	for i, p := range config.Particles {
		constants, err := resolveConstants(p, electrons, config.Physics.NucleusRadius)
		if err != nil {
			return nil, fmt.Errorf("particle %d (%s): %w", i, p.Name, err)
		}

		state := entity.State{
			Position:        p.Position.Vector(),
			Momentum:        p.Momentum.Vector(),
			Orientation:     p.Orientation.Vector(),
			AngularMomentum: p.AngularMomentum.Vector(),
		}
		if config.Physics.Planar {
			state = planarState(state)
		}

		name := p.Name
		if name == "" {
			name = p.Preset
		}
		conditions = append(conditions, entity.InitialCondition{
			Name:      name,
			State:     state,
			Constants: constants,
		})
	}

	return conditions, nil
}

func resolveConstants(p ParticleConfig, electrons int, nucleusRadius float64) (entity.Constants, error) {
	var constants entity.Constants
	if p.Preset != "" {
		count := p.ElectronCount
		if count == 0 {
			count = electrons
		}
		var err error
		constants, err = entity.PresetConstants(p.Preset, count, nucleusRadius)
		if err != nil {
			return constants, err
		}
	} else if p.Mass == nil || p.Charge == nil || p.Radius == nil {
		return constants, fmt.Errorf("particle without a preset needs mass, charge and radius")
	}

	if p.Mass != nil {
		constants.Mass = *p.Mass
	}
	if p.Charge != nil {
		constants.Charge = *p.Charge
	}
	if p.Radius != nil {
		constants.Radius = *p.Radius
	}
	return constants, nil
}

// planarState keeps motion in the XY plane and spin about Z
func planarState(s entity.State) entity.State {
	s.Position.Z = 0
	s.Momentum.Z = 0
	s.Orientation.X, s.Orientation.Y = 0, 0
	s.AngularMomentum.X, s.AngularMomentum.Y = 0, 0
	return s
}
