package config

import (
	"math"
	"testing"

	"github.com/opd-ai/go-particlesim/pkg/entity"
)

func TestEnsembleTemplateSystem(t *testing.T) {
	template := GetEnsembleTemplate("hydrogen")
	if template == nil {
		t.Fatal("Expected to get hydrogen template, got nil")
	}
	if template.Name != "Hydrogen" {
		t.Errorf("Expected template name 'Hydrogen', got '%s'", template.Name)
	}

	templates := ListEnsembleTemplates()
	for _, expected := range []string{"helium", "hydrogen", "lithium_ring", "head_on"} {
		if _, ok := templates[expected]; !ok {
			t.Errorf("Expected template '%s' to be available", expected)
		}
	}
	if names := TemplateNames(); len(names) != len(templates) || names[0] != "head_on" {
		t.Errorf("TemplateNames() = %v", names)
	}

	cfg := DefaultConfig()
	if err := ApplyEnsembleTemplate(cfg, "lithium_ring"); err != nil {
		t.Fatalf("Failed to apply ensemble template: %v", err)
	}
	if len(cfg.Particles) != 4 {
		t.Errorf("Expected 4 particles from lithium_ring, got %d", len(cfg.Particles))
	}

	// Changing the config must not change the template
	cfg.Particles[0].Name = "changed"
	if GetEnsembleTemplate("lithium_ring").Particles[0].Name != "nucleus" {
		t.Error("ApplyEnsembleTemplate shared the template slice")
	}

	if err := ApplyEnsembleTemplate(cfg, "unknown_template"); err == nil {
		t.Error("Expected error for unknown template")
	}
}

func TestEnsembleTemplateValidation(t *testing.T) {
	for key, template := range ensembleTemplates {
		t.Run(key, func(t *testing.T) {
			if template.Name == "" {
				t.Error("Template name should not be empty")
			}
			if template.Description == "" {
				t.Error("Template description should not be empty")
			}

			cfg := DefaultConfig()
			if err := ApplyEnsembleTemplate(cfg, key); err != nil {
				t.Fatal(err)
			}
			conditions, err := InitialConditions(cfg)
			if err != nil {
				t.Fatalf("template does not resolve: %v", err)
			}
			if _, err := entity.CreateEnsemble(conditions); err != nil {
				t.Fatalf("template does not build an ensemble: %v", err)
			}
		})
	}
}

func TestHydrogenTemplate_CircularOrbitMomentum(t *testing.T) {
	electron := GetEnsembleTemplate("hydrogen").Particles[1]
	r := electron.Position[0]
	p := electron.Momentum[1]

	// Centripetal force p²/(m r) equals the Coulomb attraction
	centripetal := p * p / (entity.ElectronMass * r)
	coulomb := 8.9875e9 * entity.ProtonCharge * entity.ProtonCharge / (r * r)
	if math.Abs(centripetal-coulomb)/coulomb > 1e-12 {
		t.Errorf("centripetal %g != coulomb %g", centripetal, coulomb)
	}
}

func TestLithiumRing_EvenlySpaced(t *testing.T) {
	particles := GetEnsembleTemplate("lithium_ring").Particles
	if particles[0].ElectronCount != 3 {
		t.Errorf("nucleus electron count = %d, want 3", particles[0].ElectronCount)
	}
	for _, p := range particles[1:] {
		r := math.Hypot(p.Position[0], p.Position[1])
		if math.Abs(r-0.4) > 1e-12 {
			t.Errorf("%s at radius %g, want 0.4", p.Name, r)
		}
	}
}
