// pkg/config/templates.go
package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// EnsembleTemplate is a named, built-in particle arrangement
type EnsembleTemplate struct {
	Name        string
	Description string
	Particles   []ParticleConfig
}

var ensembleTemplates = map[string]*EnsembleTemplate{
	"helium": {
		Name:        "Helium",
		Description: "Nucleus of two protons and two neutrons with two electrons at rest",
		Particles:   DefaultConfig().Particles,
	},
	"hydrogen": {
		Name:        "Hydrogen",
		Description: "Single electron launched on a near-circular orbit around a proton-neutron nucleus",
		Particles: []ParticleConfig{
			{Name: "nucleus", Preset: entity.PresetNucleus, ElectronCount: 1},
			{
				Name:     "electron",
				Preset:   entity.PresetElectron,
				Position: Vec3{0.5, 0, 0},
				Momentum: Vec3{0, orbitalMomentum(entity.ProtonCharge, entity.ElectronCharge, entity.ElectronMass, 0.5), 0},
			},
		},
	},
	"lithium_ring": {
		Name:        "Lithium ring",
		Description: "Three electrons evenly spaced on a ring around a lithium-like nucleus",
		Particles:   ringTemplate(3, 0.4),
	},
	"head_on": {
		Name:        "Head-on",
		Description: "Two neutral equal-mass spheres colliding along the X axis",
		Particles: []ParticleConfig{
			neutralSphere("left", Vec3{-0.5, 0, 0}, Vec3{1, 0, 0}),
			neutralSphere("right", Vec3{0.5, 0, 0}, Vec3{-1, 0, 0}),
		},
	},
}

// orbitalMomentum is the momentum of a circular Coulomb orbit of radius r
func orbitalMomentum(q1, q2, mass, r float64) float64 {
	return math.Sqrt(physics.CoulombConstant * math.Abs(q1*q2) * mass / r)
}

func ringTemplate(electrons int, radius float64) []ParticleConfig {
	particles := []ParticleConfig{{Name: "nucleus", Preset: entity.PresetNucleus, ElectronCount: electrons}}
	for i := 0; i < electrons; i++ {
		pos := physics.FromAngle(2*math.Pi*float64(i)/float64(electrons), radius)
		particles = append(particles, ParticleConfig{
			Name:     fmt.Sprintf("electron-%d", i+1),
			Preset:   entity.PresetElectron,
			Position: Vec3{pos.X, pos.Y, 0},
		})
	}
	return particles
}

func neutralSphere(name string, position, momentum Vec3) ParticleConfig {
	mass, charge, radius := 1.0, 0.0, 0.1
	return ParticleConfig{
		Name:     name,
		Position: position,
		Momentum: momentum,
		Mass:     &mass,
		Charge:   &charge,
		Radius:   &radius,
	}
}

// GetEnsembleTemplate returns the named template, or nil if it is unknown
func GetEnsembleTemplate(name string) *EnsembleTemplate {
	return ensembleTemplates[name]
}

// ListEnsembleTemplates maps template keys to their descriptions
func ListEnsembleTemplates() map[string]string {
	list := make(map[string]string, len(ensembleTemplates))
	for key, template := range ensembleTemplates {
		list[key] = template.Description
	}
	return list
}

// TemplateNames returns the template keys in sorted order
func TemplateNames() []string {
	names := make([]string, 0, len(ensembleTemplates))
	for key := range ensembleTemplates {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// ApplyEnsembleTemplate replaces the particles of config with a copy of the
// named template
func ApplyEnsembleTemplate(config *SimulationConfig, name string) error {
	template := GetEnsembleTemplate(name)
	if template == nil {
		return fmt.Errorf("unknown ensemble template %q", name)
	}

	config.Particles = append([]ParticleConfig(nil), template.Particles...)
	return nil
}
