// Package validation checks simulation configuration and initial conditions
// before an ensemble is built from them.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/trace"
)

// Limits applied to configuration input
const (
	MaxParticleNameLen = 32
	MaxParticles       = 4096
	MaxFrameRate       = 1000
)

var (
	// Particle names end up in trace headers and log lines, so keep them
	// to identifiers without separators used by either format
	validParticleNameChars = regexp.MustCompile(`^[a-zA-Z0-9\-_.]+$`)
)

// ValidateParticleName validates and trims a particle name
func ValidateParticleName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("particle name cannot be empty")
	}

	if len(name) > MaxParticleNameLen {
		return "", fmt.Errorf("particle name too long: %d characters (max %d)", len(name), MaxParticleNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("particle name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("particle name cannot be only whitespace")
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("particle name contains control characters")
		}
	}

	if !validParticleNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("particle name %q contains invalid characters (only alphanumeric, hyphens, underscores and dots allowed)", trimmed)
	}

	return trimmed, nil
}

// ValidateSamplePeriod checks the integration step
func ValidateSamplePeriod(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("sample period must be finite, got %g", dt)
	}
	if dt <= 0 {
		return fmt.Errorf("sample period must be positive, got %g", dt)
	}
	return nil
}

// ValidateConfig checks every field of a simulation configuration that the
// engine depends on
func ValidateConfig(cfg *config.SimulationConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := ValidateSamplePeriod(cfg.SamplePeriod); err != nil {
		return err
	}

	if cfg.FrameRate < 0 || cfg.FrameRate > MaxFrameRate {
		return fmt.Errorf("invalid frame rate: %d (must be 0-%d)", cfg.FrameRate, MaxFrameRate)
	}

	switch cfg.Physics.Ordering {
	case config.OrderingSnapshot, config.OrderingSequential:
	default:
		return fmt.Errorf("invalid force ordering %q (must be %q or %q)",
			cfg.Physics.Ordering, config.OrderingSnapshot, config.OrderingSequential)
	}

	if c := cfg.Physics.InertiaCoefficient; !(c > 0) || math.IsInf(c, 0) {
		return fmt.Errorf("inertia coefficient must be positive and finite, got %g", c)
	}
	if r := cfg.Physics.NucleusRadius; !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("nucleus radius must be positive and finite, got %g", r)
	}

	if _, err := trace.ParseFormat(cfg.Trace.Format); err != nil {
		return err
	}

	if len(cfg.Particles) > MaxParticles {
		return fmt.Errorf("too many particles: %d (max %d)", len(cfg.Particles), MaxParticles)
	}

	seen := make(map[string]int, len(cfg.Particles))
	for i, p := range cfg.Particles {
		name := p.Name
		if name == "" {
			name = p.Preset
		}
		if name == "" {
			continue
		}
		clean, err := ValidateParticleName(name)
		if err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
		if p.Name == "" {
			// Unnamed particles share their preset name
			continue
		}
		if j, dup := seen[clean]; dup {
			return fmt.Errorf("particle %d: name %q already used by particle %d", i, clean, j)
		}
		seen[clean] = i
	}

	return nil
}

// ValidateInitialConditions checks a resolved table of initial conditions
// without building particles from it
func ValidateInitialConditions(conditions []entity.InitialCondition) error {
	if len(conditions) == 0 {
		return fmt.Errorf("initial condition table is empty")
	}
	if len(conditions) > MaxParticles {
		return fmt.Errorf("too many particles: %d (max %d)", len(conditions), MaxParticles)
	}

	for i, ic := range conditions {
		if !(ic.Mass > 0) || math.IsInf(ic.Mass, 0) {
			return fmt.Errorf("particle %d (%s): %w: %g", i, ic.Name, entity.ErrInvalidMass, ic.Mass)
		}
		if !(ic.Radius > 0) || math.IsInf(ic.Radius, 0) {
			return fmt.Errorf("particle %d (%s): %w: %g", i, ic.Name, entity.ErrInvalidRadius, ic.Radius)
		}
		if math.IsNaN(ic.Charge) || math.IsInf(ic.Charge, 0) {
			return fmt.Errorf("particle %d (%s): %w: charge %g", i, ic.Name, entity.ErrNonFinite, ic.Charge)
		}
		vectors := []struct {
			label string
			v     physics.Vector3D
		}{
			{"position", ic.Position},
			{"momentum", ic.Momentum},
			{"orientation", ic.Orientation},
			{"angular momentum", ic.AngularMomentum},
		}
		for _, vec := range vectors {
			if !vec.v.IsFinite() {
				return fmt.Errorf("particle %d (%s): %w: %s", i, ic.Name, entity.ErrNonFinite, vec.label)
			}
		}
	}
	return nil
}
