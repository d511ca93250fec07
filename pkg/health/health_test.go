package health

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// mockHealthCheck implements HealthCheck for testing
type mockHealthCheck struct {
	name    string
	healthy bool
}

func (m *mockHealthCheck) Name() string {
	return m.name
}

func (m *mockHealthCheck) Check(ctx context.Context) error {
	if !m.healthy {
		return fmt.Errorf("%s failed", m.name)
	}
	return nil
}

// slowHealthCheck blocks until its delay passes or the context ends
type slowHealthCheck struct {
	delay time.Duration
}

func (s *slowHealthCheck) Name() string {
	return "slow"
}

func (s *slowHealthCheck) Check(ctx context.Context) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTestSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.FrameRate = 0
	sim, err := engine.NewSimulation(cfg)
	require.NoError(t, err)
	return sim
}

func assertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), substr)
}

func TestHealthChecker_AddAndRemove(t *testing.T) {
	hc := NewHealthChecker()
	check := &mockHealthCheck{name: "test", healthy: true}

	hc.AddCheck(check)
	assert.Len(t, hc.checks, 1)
	assert.Same(t, check, hc.checks["test"])

	hc.RemoveCheck("test")
	assert.Empty(t, hc.checks)
}

func TestHealthChecker_CheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		checks   []*mockHealthCheck
		expected string
	}{
		{"no checks", nil, "healthy"},
		{"all healthy", []*mockHealthCheck{{"a", true}, {"b", true}}, "healthy"},
		{"one unhealthy", []*mockHealthCheck{{"a", true}, {"b", false}}, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for _, check := range tt.checks {
				hc.AddCheck(check)
			}

			status := hc.CheckHealth(context.Background())
			assert.Equal(t, tt.expected, status.Status)
			require.Len(t, status.Checks, len(tt.checks))
			for _, check := range tt.checks {
				result := status.Checks[check.name]
				if check.healthy {
					assert.Equal(t, "healthy", result.Status)
					assert.Empty(t, result.Message)
				} else {
					assert.Equal(t, "unhealthy", result.Status)
					assert.Contains(t, result.Message, check.name)
				}
			}
		})
	}
}

func TestHealthChecker_CheckHealthWithTimeout(t *testing.T) {
	hc := NewHealthChecker()
	hc.AddCheck(&slowHealthCheck{delay: 100 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	status := hc.CheckHealth(ctx)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "unhealthy", status.Checks["slow"].Status)
}

func TestHealthChecker_Handlers(t *testing.T) {
	hc := NewHealthChecker()

	w := httptest.NewRecorder()
	hc.LivenessHandler(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())

	hc.AddCheck(&mockHealthCheck{name: "numerics", healthy: false})
	w = httptest.NewRecorder()
	hc.ReadinessHandler(w, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var status HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "numerics failed", status.Checks["numerics"].Message)
}

func TestProgressHealthCheck(t *testing.T) {
	sim := newTestSimulation(t)
	check := NewProgressHealthCheck(sim)
	ctx := context.Background()

	assert.Equal(t, "simulation", check.Name())
	assertErrorContains(t, check.Check(ctx), "idle")

	sim.Start()
	assert.NoError(t, check.Check(ctx), "first check only records the tick")
	assertErrorContains(t, check.Check(ctx), "stalled at tick 0")

	sim.Update()
	assert.NoError(t, check.Check(ctx))

	sim.Stop()
	assertErrorContains(t, check.Check(ctx), "stopped")
}

func TestNumericsHealthCheck(t *testing.T) {
	sim := newTestSimulation(t)
	check := NewNumericsHealthCheck(sim)

	assert.Equal(t, "numerics", check.Name())
	assert.NoError(t, check.Check(context.Background()))

	sim.Ensemble.At(1).Momentum.Y = math.Inf(1)
	assertErrorContains(t, check.Check(context.Background()), "non-finite")
}

func TestMomentumHealthCheck(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Start()
	check := NewMomentumHealthCheck(sim, 1e-9)
	ctx := context.Background()

	assert.Equal(t, "momentum", check.Name())
	for i := 0; i < 20; i++ {
		sim.Update()
	}
	assert.NoError(t, check.Check(ctx))

	sim.Ensemble.At(0).Momentum = sim.Ensemble.At(0).Momentum.Add(physics.Vector3D{X: 1})
	assertErrorContains(t, check.Check(ctx), "drifted")
}

func TestMemoryHealthCheck(t *testing.T) {
	tests := []struct {
		name         string
		currentMemMB int64
		expectError  bool
	}{
		{"within limit", 50, false},
		{"at limit", 100, false},
		{"exceeds limit", 150, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewMemoryHealthCheck(100, func() int64 { return tt.currentMemMB })
			assert.Equal(t, "memory", check.Name())

			err := check.Check(context.Background())
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, NewMemoryHealthCheck(1<<20, CurrentMemoryMB).Check(context.Background()))
}

func TestNewServer_Routes(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Start()
	sim.Update()
	sim.Update()

	hc := NewHealthChecker()
	hc.AddCheck(NewNumericsHealthCheck(sim))
	srv := NewServer(":0", hc, sim)

	tests := []struct {
		path string
		code int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusOK},
		{"/state", http.StatusOK},
		{"/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/state", nil))
	var summary StateSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, uint64(2), summary.Tick)
	assert.Equal(t, "running", summary.Status)
	assert.Equal(t, 3, summary.Particles)
	assert.InDelta(t, 2*sim.Config.SamplePeriod, summary.Elapsed, 1e-12)
}

func BenchmarkHealthChecker_CheckHealth(b *testing.B) {
	hc := NewHealthChecker()
	for i := 0; i < 10; i++ {
		hc.AddCheck(&mockHealthCheck{name: fmt.Sprintf("check%d", i), healthy: true})
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hc.CheckHealth(ctx)
	}
}
