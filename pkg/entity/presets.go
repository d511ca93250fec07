// pkg/entity/presets.go
package entity

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// Physical constants in CGS-ish units: charge in coulombs, mass in grams,
// radii in metres.
const (
	ProtonCharge        = 1.602e-19
	ElectronCharge      = -1.602e-19
	ProtonMass          = 1.6727e-24
	NeutronMass         = 1.675e-24
	ElectronMass        = 9.11e-28
	HeliumNucleusRadius = 28e-12
	ElectronRadius      = 10e-15

	// FakeNucleusRadius is the visible nucleus size used by the default
	// ensemble. Electrons are drawn at an eighth of it.
	FakeNucleusRadius = 0.1
)

// Preset names accepted by PresetConstants
const (
	PresetProton   = "proton"
	PresetElectron = "electron"
	PresetNucleus  = "nucleus"
)

// ProtonConstants returns a proton whose radius is the given nucleus radius
func ProtonConstants(radius float64) Constants {
	return Constants{
		Mass:   ProtonMass,
		Charge: ProtonCharge,
		Radius: radius,
	}
}

// ElectronConstants returns an electron sized relative to nucleusRadius
func ElectronConstants(nucleusRadius float64) Constants {
	return Constants{
		Mass:   ElectronMass,
		Charge: ElectronCharge,
		Radius: nucleusRadius / 8,
	}
}

// NucleusConstants returns a nucleus that neutralises electronCount electrons,
// with one neutron per proton.
func NucleusConstants(electronCount int, radius float64) Constants {
	n := float64(electronCount)
	return Constants{
		Mass:   n * (ProtonMass + NeutronMass),
		Charge: n * ProtonCharge,
		Radius: radius,
	}
}

// PresetConstants looks up a preset by name. electronCount only affects the
// nucleus preset; radius is the nucleus radius for every preset.
func PresetConstants(name string, electronCount int, radius float64) (Constants, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PresetProton:
		return ProtonConstants(radius), nil
	case PresetElectron:
		return ElectronConstants(radius), nil
	case PresetNucleus:
		if electronCount <= 0 {
			return Constants{}, fmt.Errorf("nucleus preset needs a positive electron count, got %d", electronCount)
		}
		return NucleusConstants(electronCount, radius), nil
	default:
		return Constants{}, fmt.Errorf("unknown particle preset %q", name)
	}
}

// DefaultInitialConditions returns the nucleus and two electrons the
// simulator starts with when no ensemble is configured.
func DefaultInitialConditions() []InitialCondition {
	const electronCount = 2
	return []InitialCondition{
		{
			Name:      PresetNucleus,
			Constants: NucleusConstants(electronCount, FakeNucleusRadius),
		},
		{
			Name:      PresetElectron,
			State:     State{Position: physics.Vector3D{X: 0.3, Y: 0.5}},
			Constants: ElectronConstants(FakeNucleusRadius),
		},
		{
			Name:      PresetElectron,
			State:     State{Position: physics.Vector3D{X: 0.5, Y: 0.3}},
			Constants: ElectronConstants(FakeNucleusRadius),
		},
	}
}
