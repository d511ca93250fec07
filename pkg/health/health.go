// Package health reports whether a long running simulation is still making
// sound progress. It serves liveness, readiness and state endpoints for
// headless runs.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the run.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a new health check, replacing one with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks. The overall status is
// "healthy" only if every check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler returns 200 OK while the process can answer requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler runs every health check and returns 200 OK when all pass,
// or 503 Service Unavailable otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")

	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// StateSource supplies simulation snapshots. *engine.Simulation implements it.
type StateSource interface {
	GetState() *engine.SimulationState
}

// StateSummary is the JSON body of the state endpoint
type StateSummary struct {
	Tick            uint64           `json:"tick"`
	Elapsed         float64          `json:"elapsed"`
	Status          string           `json:"status"`
	Particles       int              `json:"particles"`
	KineticEnergy   float64          `json:"kineticEnergy"`
	TotalMomentum   physics.Vector3D `json:"totalMomentum"`
	AngularMomentum physics.Vector3D `json:"angularMomentum"`
}

// Summarize reduces a state to its totals
func Summarize(state *engine.SimulationState) StateSummary {
	return StateSummary{
		Tick:            state.Tick,
		Elapsed:         state.Elapsed,
		Status:          state.Status.String(),
		Particles:       len(state.Particles),
		KineticEnergy:   state.KineticEnergy,
		TotalMomentum:   state.TotalMomentum,
		AngularMomentum: state.AngularMomentum,
	}
}

// StateHandler serves the current simulation totals as JSON.
func StateHandler(source StateSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Summarize(source.GetState()))
	}
}

// NewServer returns an HTTP server exposing /health, /ready and /state.
func NewServer(addr string, hc *HealthChecker, source StateSource) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	mux.Handle("/state", StateHandler(source))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// ProgressHealthCheck fails when the simulation is not running or its tick
// counter has not moved since the previous check.
type ProgressHealthCheck struct {
	source   StateSource
	mu       sync.Mutex
	lastTick uint64
	checked  bool
}

// NewProgressHealthCheck creates a health check for simulation progress.
func NewProgressHealthCheck(source StateSource) *ProgressHealthCheck {
	return &ProgressHealthCheck{source: source}
}

// Name returns the name of this health check.
func (p *ProgressHealthCheck) Name() string {
	return "simulation"
}

// Check verifies that the simulation is running and advancing.
func (p *ProgressHealthCheck) Check(ctx context.Context) error {
	state := p.source.GetState()
	if state.Status != engine.StatusRunning {
		return fmt.Errorf("simulation is %s", state.Status)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	stalled := p.checked && state.Tick == p.lastTick
	p.lastTick, p.checked = state.Tick, true
	if stalled {
		return fmt.Errorf("simulation stalled at tick %d", state.Tick)
	}
	return nil
}

// NumericsHealthCheck fails once any particle state is NaN or infinite.
type NumericsHealthCheck struct {
	source StateSource
}

// NewNumericsHealthCheck creates a health check for finite particle state.
func NewNumericsHealthCheck(source StateSource) *NumericsHealthCheck {
	return &NumericsHealthCheck{source: source}
}

// Name returns the name of this health check.
func (n *NumericsHealthCheck) Name() string {
	return "numerics"
}

// Check verifies that every particle state is finite.
func (n *NumericsHealthCheck) Check(ctx context.Context) error {
	state := n.source.GetState()
	for i := range state.Particles {
		p := &state.Particles[i]
		if !p.Position.IsFinite() || !p.Momentum.IsFinite() ||
			!p.Orientation.IsFinite() || !p.AngularMomentum.IsFinite() {
			return fmt.Errorf("particle %d has non-finite state at tick %d", p.ID, state.Tick)
		}
	}
	return nil
}

// MomentumHealthCheck fails when total linear momentum drifts from its
// starting value by more than tolerance times the summed momentum magnitude.
type MomentumHealthCheck struct {
	source    StateSource
	initial   physics.Vector3D
	tolerance float64
}

// NewMomentumHealthCheck records the current total momentum as the
// reference.
func NewMomentumHealthCheck(source StateSource, tolerance float64) *MomentumHealthCheck {
	return &MomentumHealthCheck{
		source:    source,
		initial:   source.GetState().TotalMomentum,
		tolerance: tolerance,
	}
}

// Name returns the name of this health check.
func (m *MomentumHealthCheck) Name() string {
	return "momentum"
}

// Check verifies that linear momentum is conserved within tolerance.
func (m *MomentumHealthCheck) Check(ctx context.Context) error {
	state := m.source.GetState()

	var scale float64
	for i := range state.Particles {
		scale += state.Particles[i].Momentum.Length()
	}
	drift := state.TotalMomentum.Sub(m.initial).Length()
	if drift > m.tolerance*scale {
		return fmt.Errorf("total momentum drifted by %.3g (limit %.3g)", drift, m.tolerance*scale)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// CurrentMemoryMB returns the heap bytes in use, in megabytes
func CurrentMemoryMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
