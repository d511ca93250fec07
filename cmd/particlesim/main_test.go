package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/logging"
)

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "sim.json")
	saved := config.DefaultConfig()
	saved.MaxTicks = 40
	require.NoError(t, config.SaveConfig(saved, jsonPath))

	iniPath := filepath.Join(dir, "sim.ini")
	require.NoError(t, os.WriteFile(iniPath, []byte(`
[simulation]
maxticks = 7

[particle "a"]
preset = proton

[particle "b"]
preset = electron
position = 1 0 0
`), 0o644))

	tests := []struct {
		name      string
		opts      options
		env       map[string]string
		particles int
		maxTicks  uint64
		trace     config.TraceConfig
		expectErr bool
	}{
		{
			name:      "missing_file_uses_defaults",
			opts:      options{configPath: filepath.Join(dir, "nope.json")},
			particles: 3,
			trace:     config.TraceConfig{Format: "csv"},
		},
		{
			name:      "json_file",
			opts:      options{configPath: jsonPath},
			particles: 3,
			maxTicks:  40,
			trace:     config.TraceConfig{Format: "csv"},
		},
		{
			name:      "ensemble_file_wins",
			opts:      options{configPath: jsonPath, ensemblePath: iniPath},
			particles: 2,
			maxTicks:  7,
			trace:     config.TraceConfig{Format: "csv"},
		},
		{
			name:      "template_and_flags",
			opts:      options{configPath: jsonPath, template: "lithium_ring", ticks: 5, tracePath: "out.dat", traceFormat: "table"},
			particles: 4,
			maxTicks:  5,
			trace:     config.TraceConfig{Path: "out.dat", Format: "table"},
		},
		{
			name:      "flags_override_environment",
			opts:      options{configPath: jsonPath, ticks: 9},
			env:       map[string]string{config.EnvMaxTicks: "100", config.EnvTraceFormat: "table"},
			particles: 3,
			maxTicks:  9,
			trace:     config.TraceConfig{Format: "table"},
		},
		{
			name:      "unknown_template",
			opts:      options{configPath: jsonPath, template: "carbon"},
			expectErr: true,
		},
		{
			name:      "bad_environment",
			opts:      options{configPath: jsonPath},
			env:       map[string]string{config.EnvFrameRate: "fast"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := loadConfiguration(context.Background(), logging.Discard(), tt.opts)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cfg.Particles, tt.particles)
			assert.Equal(t, tt.maxTicks, cfg.MaxTicks)
			assert.Equal(t, tt.trace, cfg.Trace)
		})
	}
}

func TestOpenTrace(t *testing.T) {
	cfg := config.DefaultConfig()
	w, err := openTrace(cfg)
	require.NoError(t, err)
	assert.Nil(t, w)

	cfg.Trace = config.TraceConfig{Path: filepath.Join(t.TempDir(), "run.csv"), Format: "xml"}
	_, err = openTrace(cfg)
	assert.Error(t, err)

	cfg.Trace.Format = "csv"
	w, err = openTrace(cfg)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.NoError(t, w.Close())
}

func TestNewHealthChecker_MomentumOnlyForSnapshot(t *testing.T) {
	tests := []struct {
		ordering string
		checks   []string
	}{
		{config.OrderingSnapshot, []string{"memory", "momentum", "numerics", "simulation"}},
		{config.OrderingSequential, []string{"memory", "numerics", "simulation"}},
	}

	for _, tt := range tests {
		t.Run(tt.ordering, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Physics.Ordering = tt.ordering
			sim, err := engine.NewSimulation(cfg)
			require.NoError(t, err)
			sim.Start()
			sim.Update()

			status := newHealthChecker(sim).CheckHealth(context.Background())
			names := make([]string, 0, len(status.Checks))
			for name := range status.Checks {
				names = append(names, name)
			}
			assert.ElementsMatch(t, tt.checks, names)
		})
	}
}

func TestRun_HeadlessStopsAtTickLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FrameRate = 0
	cfg.MaxTicks = 25
	sim, err := engine.NewSimulation(cfg)
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), sim, options{renderer: "none"}, logging.Discard()))
	state := sim.GetState()
	assert.Equal(t, uint64(25), state.Tick)
	assert.Equal(t, engine.StatusStopped, state.Status)

	assert.Error(t, run(context.Background(), sim, options{renderer: "vulkan"}, logging.Discard()))
}
