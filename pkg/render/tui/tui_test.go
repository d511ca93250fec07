package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/event"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	sim, err := engine.NewSimulation(config.DefaultConfig())
	require.NoError(t, err)

	m := New(sim, 0.05)
	require.NotNil(t, m.Init())
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_TickSteps(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick should schedule the next frame")
	assert.Equal(t, uint64(1), m.state.Tick)
	assert.Len(t, m.history, 1)

	m.Update(key("+"))
	m.Update(key("+"))
	assert.Equal(t, 4, m.speed)

	m.Update(tickMsg(time.Now()))
	assert.Equal(t, uint64(5), m.state.Tick)

	m.Update(key("0"))
	assert.Equal(t, 1, m.speed)
	m.Update(key("-"))
	assert.Equal(t, 1, m.speed, "speed never drops below one tick per frame")
}

func TestModel_PauseAndStep(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.paused)

	m.Update(tickMsg(time.Now()))
	assert.Equal(t, uint64(0), m.state.Tick, "paused model must not step")

	m.Update(key("n"))
	assert.Equal(t, uint64(1), m.state.Tick)

	m.Update(key("p"))
	assert.False(t, m.paused)
	m.Update(key("n"))
	assert.Equal(t, uint64(1), m.state.Tick, "step only applies while paused")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, engine.StatusStopped, m.sim.GetState().Status)
}

func TestModel_WindowResizeAndZoom(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	w, h := m.frame.Size()
	assert.Equal(t, 100-chromeWidth, w)
	assert.Equal(t, 40-chromeHeight, h)

	m.Update(key("z"))
	assert.InDelta(t, 0.04, m.frame.Scale(), 1e-12)
	m.Update(key("x"))
	assert.InDelta(t, 0.05, m.frame.Scale(), 1e-12)
}

func TestModel_CountsCollisions(t *testing.T) {
	m := newTestModel(t)

	m.sim.EventBus.Publish(event.NewCollisionEvent(nil, 1, 0, 1))
	assert.Equal(t, uint64(1), m.collisions)
	assert.Contains(t, m.View(), "collisions")
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m.Update(tickMsg(time.Now()))

	view := m.View()
	assert.Contains(t, view, "particlesim")
	assert.Contains(t, view, "tick 1")
	assert.Contains(t, view, "+", "nucleus should be drawn")
	assert.Contains(t, view, "-", "electrons should be drawn")

	m.Update(key("p"))
	assert.Contains(t, m.View(), "paused")
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", sparkline(nil, 10))
	assert.Equal(t, "▁▁▁", sparkline([]float64{2, 2, 2}, 10))
	assert.Equal(t, "▁█", sparkline([]float64{0, 1}, 10))

	long := make([]float64, 30)
	assert.Equal(t, 8, len([]rune(sparkline(long, 8))))
	assert.True(t, strings.HasPrefix(sparkline([]float64{0, 0.5, 1}, 10), "▁"))
}
