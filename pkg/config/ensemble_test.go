// pkg/config/ensemble_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heliumINI = `
; nucleus with two electrons
[simulation]
sampleperiod = 4e-3
maxticks = 250
gravity = true
ordering = sequential
tracepath = helium.csv

[particle "nucleus"]
preset = nucleus
electrons = 2

[particle "electron-b"]
preset = electron
position = 0.5, 0.3, 0
momentum = 0 1e-28 0

[particle "electron-a"]
preset = electron
position = 0.3 0.5 0
angularmomentum = 0 0 1e-30
`

func TestParseEnsemble(t *testing.T) {
	config, err := ParseEnsemble(heliumINI)
	require.NoError(t, err)

	assert.Equal(t, 4e-3, config.SamplePeriod)
	assert.Equal(t, uint64(250), config.MaxTicks)
	assert.True(t, config.Physics.Gravity)
	assert.Equal(t, OrderingSequential, config.Physics.Ordering)
	assert.Equal(t, "helium.csv", config.Trace.Path)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 100, config.FrameRate)
	assert.True(t, config.Physics.Spin)
	assert.Equal(t, 0.8, config.Physics.InertiaCoefficient)
	assert.Equal(t, "csv", config.Trace.Format)

	require.Len(t, config.Particles, 3)
	// File order is kept, not map or name order
	assert.Equal(t, "nucleus", config.Particles[0].Name)
	assert.Equal(t, "electron-b", config.Particles[1].Name)
	assert.Equal(t, "electron-a", config.Particles[2].Name)

	assert.Equal(t, 2, config.Particles[0].ElectronCount)
	assert.Equal(t, Vec3{0.5, 0.3, 0}, config.Particles[1].Position)
	assert.Equal(t, Vec3{0, 1e-28, 0}, config.Particles[1].Momentum)
	assert.Equal(t, Vec3{0, 0, 1e-30}, config.Particles[2].AngularMomentum)
	assert.Nil(t, config.Particles[2].Mass)
}

func TestParseEnsemble_ExplicitConstants(t *testing.T) {
	config, err := ParseEnsemble(`
[particle "ball"]
mass = 2.5
charge = 0
radius = 0.05
position = 1 1 1
`)
	require.NoError(t, err)
	require.Len(t, config.Particles, 1)

	p := config.Particles[0]
	require.NotNil(t, p.Mass)
	require.NotNil(t, p.Charge)
	require.NotNil(t, p.Radius)
	assert.Equal(t, 2.5, *p.Mass)
	assert.Equal(t, 0.0, *p.Charge)
	assert.Equal(t, 0.05, *p.Radius)

	conditions, err := InitialConditions(config)
	require.NoError(t, err)
	assert.Equal(t, 2.5, conditions[0].Mass)
}

func TestParseEnsemble_SimulationOnlyKeepsDefaultParticles(t *testing.T) {
	config, err := ParseEnsemble("[simulation]\nplanar = true\n")
	require.NoError(t, err)

	assert.True(t, config.Physics.Planar)
	assert.Equal(t, DefaultConfig().Particles, config.Particles)
}

func TestParseEnsemble_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown_variable", "[simulation]\nwarp = 9\n"},
		{"bad_vector_length", "[particle \"p\"]\npreset = proton\nposition = 1 2\n"},
		{"bad_vector_component", "[particle \"p\"]\npreset = proton\nmomentum = 1 two 3\n"},
		{"bad_mass", "[particle \"p\"]\nmass = heavy\n"},
		{"negative_max_ticks", "[simulation]\nmaxticks = -5\n"},
		{"malformed_section", "[simulation\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnsemble(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnsembleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helium.ini")
	require.NoError(t, os.WriteFile(path, []byte(heliumINI), 0o644))

	config, err := LoadEnsembleFile(path)
	require.NoError(t, err)
	assert.Len(t, config.Particles, 3)

	_, err = LoadEnsembleFile(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestParseVec3(t *testing.T) {
	tests := []struct {
		input   string
		want    Vec3
		wantErr bool
	}{
		{"", Vec3{}, false},
		{"1 2 3", Vec3{1, 2, 3}, false},
		{"1,2,3", Vec3{1, 2, 3}, false},
		{" -1e-3 ,\t0 , 4 ", Vec3{-1e-3, 0, 4}, false},
		{"1 2 3 4", Vec3{}, true},
		{"x y z", Vec3{}, true},
	}

	for _, tt := range tests {
		got, err := parseVec3(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
