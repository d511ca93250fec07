// pkg/config/ensemble.go
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"
)

// ensembleFile mirrors the INI layout of an ensemble description:
//
//	[simulation]
//	sampleperiod = 8e-3
//	gravity = false
//
//	[particle "nucleus"]
//	preset = nucleus
//	electrons = 2
//
//	[particle "electron-1"]
//	preset = electron
//	position = 0.3 0.5 0
//
// Vectors are three numbers separated by spaces or commas. Particles keep
// the order in which their sections appear.
type ensembleFile struct {
	Simulation struct {
		SamplePeriod       float64
		FrameRate          int
		MaxTicks           int
		Gravity            bool
		Spin               bool
		Planar             bool
		Ordering           string
		InertiaCoefficient float64
		NucleusRadius      float64
		TracePath          string
		TraceFormat        string
	}
	Particle map[string]*particleSection
}

type particleSection struct {
	Preset          string
	Electrons       int
	Position        string
	Momentum        string
	Orientation     string
	AngularMomentum string
	Mass            string
	Charge          string
	Radius          string
}

var particleSectionHeader = regexp.MustCompile(`(?mi)^\s*\[\s*particle\s+"((?:[^"\\]|\\.)*)"\s*\]`)

// LoadEnsembleFile reads an INI ensemble description on top of DefaultConfig
func LoadEnsembleFile(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ensemble file: %w", err)
	}
	config, err := ParseEnsemble(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseEnsemble parses an INI ensemble description. Simulation keys that
// are absent keep their DefaultConfig values. When the text declares any
// particle, it replaces the default ensemble.
func ParseEnsemble(text string) (*SimulationConfig, error) {
	config := DefaultConfig()

	var file ensembleFile
	sim := &file.Simulation
	sim.SamplePeriod = config.SamplePeriod
	sim.FrameRate = config.FrameRate
	sim.MaxTicks = int(config.MaxTicks)
	sim.Gravity = config.Physics.Gravity
	sim.Spin = config.Physics.Spin
	sim.Planar = config.Physics.Planar
	sim.Ordering = config.Physics.Ordering
	sim.InertiaCoefficient = config.Physics.InertiaCoefficient
	sim.NucleusRadius = config.Physics.NucleusRadius
	sim.TracePath = config.Trace.Path
	sim.TraceFormat = config.Trace.Format

	if err := gcfg.ReadStringInto(&file, text); err != nil {
		return nil, fmt.Errorf("failed to parse ensemble: %w", err)
	}

	if sim.MaxTicks < 0 {
		return nil, fmt.Errorf("maxticks must not be negative, got %d", sim.MaxTicks)
	}
	config.SamplePeriod = sim.SamplePeriod
	config.FrameRate = sim.FrameRate
	config.MaxTicks = uint64(sim.MaxTicks)
	config.Physics = PhysicsConfig{
		Gravity:            sim.Gravity,
		Spin:               sim.Spin,
		Planar:             sim.Planar,
		Ordering:           sim.Ordering,
		InertiaCoefficient: sim.InertiaCoefficient,
		NucleusRadius:      sim.NucleusRadius,
	}
	config.Trace = TraceConfig{Path: sim.TracePath, Format: sim.TraceFormat}

	if len(file.Particle) == 0 {
		return config, nil
	}

	config.Particles = config.Particles[:0]
	for _, name := range particleOrder(text, file.Particle) {
		p, err := file.Particle[name].toParticleConfig(name)
		if err != nil {
			return nil, fmt.Errorf("particle %q: %w", name, err)
		}
		config.Particles = append(config.Particles, p)
	}

	return config, nil
}

// particleOrder recovers section order from the raw text, since gcfg stores
// subsections in a map.
func particleOrder(text string, sections map[string]*particleSection) []string {
	seen := make(map[string]bool, len(sections))
	order := make([]string, 0, len(sections))
	for _, m := range particleSectionHeader.FindAllStringSubmatch(text, -1) {
		name := strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(m[1])
		if _, ok := sections[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

func (s *particleSection) toParticleConfig(name string) (ParticleConfig, error) {
	p := ParticleConfig{
		Name:          name,
		Preset:        strings.TrimSpace(s.Preset),
		ElectronCount: s.Electrons,
	}

	vectors := []struct {
		key    string
		text   string
		target *Vec3
	}{
		{"position", s.Position, &p.Position},
		{"momentum", s.Momentum, &p.Momentum},
		{"orientation", s.Orientation, &p.Orientation},
		{"angularmomentum", s.AngularMomentum, &p.AngularMomentum},
	}
	for _, v := range vectors {
		parsed, err := parseVec3(v.text)
		if err != nil {
			return p, fmt.Errorf("%s: %w", v.key, err)
		}
		*v.target = parsed
	}

	scalars := []struct {
		key    string
		text   string
		target **float64
	}{
		{"mass", s.Mass, &p.Mass},
		{"charge", s.Charge, &p.Charge},
		{"radius", s.Radius, &p.Radius},
	}
	for _, sc := range scalars {
		text := strings.TrimSpace(sc.text)
		if text == "" {
			continue
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return p, fmt.Errorf("%s: %w", sc.key, err)
		}
		*sc.target = &value
	}

	return p, nil
}

// parseVec3 reads "x y z" or "x, y, z". An empty string is the zero vector.
func parseVec3(text string) (Vec3, error) {
	var v Vec3
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return v, nil
	}
	if len(fields) != 3 {
		return v, fmt.Errorf("expected 3 components, got %d in %q", len(fields), text)
	}
	for i, f := range fields {
		value, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return v, err
		}
		v[i] = value
	}
	return v, nil
}
