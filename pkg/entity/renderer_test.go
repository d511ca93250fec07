package entity

import (
	"testing"

	"github.com/opd-ai/go-particlesim/pkg/physics"
)

// MockRenderer is a test implementation of the Renderer interface that tracks
// call information
type MockRenderer struct {
	RenderParticleCalls []*Particle
	ClearCallCount      int
	PresentCallCount    int
}

// RenderParticle implements the Renderer interface
func (m *MockRenderer) RenderParticle(particle *Particle) {
	m.RenderParticleCalls = append(m.RenderParticleCalls, particle)
}

// Clear implements the Renderer interface
func (m *MockRenderer) Clear() {
	m.ClearCallCount++
}

// Present implements the Renderer interface
func (m *MockRenderer) Present() {
	m.PresentCallCount++
}

func TestRenderer_InterfaceCompliance(t *testing.T) {
	var _ Renderer = (*MockRenderer)(nil)
	var _ Entity = (*Particle)(nil)
}

// TestRenderer_CompleteRenderingSequence tests a typical rendering frame sequence
func TestRenderer_CompleteRenderingSequence(t *testing.T) {
	renderer := &MockRenderer{}

	ensemble, err := CreateEnsemble(DefaultInitialConditions())
	if err != nil {
		t.Fatalf("CreateEnsemble() unexpected error: %v", err)
	}

	renderer.Clear()
	for i := 0; i < ensemble.Len(); i++ {
		ensemble.At(i).Render(renderer)
	}
	renderer.Present()

	if renderer.ClearCallCount != 1 {
		t.Errorf("Expected 1 Clear call, got %d", renderer.ClearCallCount)
	}
	if renderer.PresentCallCount != 1 {
		t.Errorf("Expected 1 Present call, got %d", renderer.PresentCallCount)
	}
	if len(renderer.RenderParticleCalls) != ensemble.Len() {
		t.Fatalf("Expected %d RenderParticle calls, got %d", ensemble.Len(), len(renderer.RenderParticleCalls))
	}

	// Calls point into the ensemble, in index order
	for i, p := range renderer.RenderParticleCalls {
		if p != ensemble.At(i) {
			t.Errorf("RenderParticle call %d got particle %d", i, p.GetID())
		}
	}
}

func TestRenderer_SeesMutatedState(t *testing.T) {
	renderer := &MockRenderer{}
	ensemble, _ := CreateEnsemble(DefaultInitialConditions())

	ensemble.At(1).Position = physics.Vector3D{X: 9}
	ensemble.At(1).Render(renderer)

	if got := renderer.RenderParticleCalls[0].GetPosition(); got != (physics.Vector3D{X: 9}) {
		t.Errorf("renderer saw position %v, want {9 0 0}", got)
	}
}
