// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/event"
)

const (
	hudMargin     = 10
	hudLineHeight = 18
)

type hudLine struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// HUDSystem shows the simulation clock and conserved totals in the top left
// corner. Text is only drawn once a font is set.
type HUDSystem struct {
	renderSystem *common.RenderSystem
	font         *common.Font
	lines        []*hudLine
	text         []string

	collisions atomic.Uint64
	sub        *event.Subscription

	hudColor color.Color
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(renderSystem *common.RenderSystem) *HUDSystem {
	return &HUDSystem{
		renderSystem: renderSystem,
		hudColor:     color.RGBA{220, 220, 220, 255},
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update redraws the current status text
func (hud *HUDSystem) Update(dt float32) {
	if hud.font == nil || hud.renderSystem == nil {
		return
	}

	for i, text := range hud.text {
		if i == len(hud.lines) {
			hud.lines = append(hud.lines, hud.newLine(i))
		}
		line := hud.lines[i]
		line.RenderComponent.Drawable = common.Text{Font: hud.font, Text: text}
		line.SpaceComponent.Width = float32(len(text) * 8)
	}
	for len(hud.lines) > len(hud.text) {
		last := hud.lines[len(hud.lines)-1]
		hud.renderSystem.Remove(last.BasicEntity)
		hud.lines = hud.lines[:len(hud.lines)-1]
	}
}

func (hud *HUDSystem) newLine(i int) *hudLine {
	line := &hudLine{BasicEntity: ecs.NewBasic()}
	line.RenderComponent = common.RenderComponent{
		Drawable: common.Text{Font: hud.font},
		Color:    hud.hudColor,
	}
	line.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{X: hudMargin, Y: float32(hudMargin + i*hudLineHeight)},
		Height:   hudLineHeight,
	}
	hud.renderSystem.Add(&line.BasicEntity, &line.RenderComponent, &line.SpaceComponent)
	return line
}

// Watch counts collision events published on bus
func (hud *HUDSystem) Watch(bus *event.Bus) {
	hud.Unwatch()
	hud.sub = bus.Subscribe(event.ParticleCollision, func(event.Event) {
		hud.collisions.Add(1)
	})
}

// Unwatch stops counting collisions
func (hud *HUDSystem) Unwatch() {
	if hud.sub != nil {
		hud.sub.Cancel()
		hud.sub = nil
	}
}

// Collisions returns the number of collisions seen so far
func (hud *HUDSystem) Collisions() uint64 {
	return hud.collisions.Load()
}

// SetState updates the HUD with the current simulation state
func (hud *HUDSystem) SetState(state *engine.SimulationState, paused bool) {
	hud.text = FormatStatus(state, hud.Collisions(), paused)
}

// Text returns the lines shown on the next update
func (hud *HUDSystem) Text() []string {
	return hud.text
}

// SetFont sets the font used for HUD text rendering
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}

// FormatStatus renders the status panel text for a state
func FormatStatus(state *engine.SimulationState, collisions uint64, paused bool) []string {
	if state == nil {
		return nil
	}

	status := state.Status.String()
	if paused && state.Status == engine.StatusRunning {
		status = "paused"
	}

	p := state.TotalMomentum
	l := state.AngularMomentum
	return []string{
		fmt.Sprintf("tick %d  t=%.4gs  [%s]", state.Tick, state.Elapsed, status),
		fmt.Sprintf("particles %d  collisions %d", len(state.Particles), collisions),
		fmt.Sprintf("E_k %.6g", state.KineticEnergy),
		fmt.Sprintf("P (%.4g, %.4g, %.4g)", p.X, p.Y, p.Z),
		fmt.Sprintf("L (%.4g, %.4g, %.4g)", l.X, l.Y, l.Z),
	}
}
