// pkg/render/tui/tui.go
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/event"
	"github.com/opd-ai/go-particlesim/pkg/physics"
	"github.com/opd-ai/go-particlesim/pkg/render"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const (
	frameInterval = 16 * time.Millisecond
	historyLen    = 60
	maxSpeed      = 64
	zoomFactor    = 1.25

	// rows and columns taken by everything around the frame
	chromeWidth  = 4
	chromeHeight = 10
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is a bubbletea program that steps a simulation and draws the XY
// plane of its ensemble
type Model struct {
	sim   *engine.Simulation
	frame *render.TerminalRenderer
	state *engine.SimulationState

	paused bool
	follow bool
	speed  int

	collisions uint64
	sub        *event.Subscription

	history   []float64
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// New creates a model for sim where one character cell spans scale length
// units
func New(sim *engine.Simulation, scale float64) *Model {
	m := &Model{
		sim:     sim,
		frame:   render.NewTerminalRenderer(nil, 80-chromeWidth, 24-chromeHeight, scale),
		follow:  true,
		speed:   1,
		history: make([]float64, 0, historyLen),
		width:   80,
		height:  24,
	}

	m.state = sim.GetState()
	charges := make([]float64, len(m.state.Particles))
	for i := range m.state.Particles {
		charges[i] = m.state.Particles[i].Charge()
	}
	m.frame.SetChargeScale(render.MaxAbsCharge(charges...))

	// Handlers run on the goroutine calling sim.Update, which is Update below
	m.sub = sim.EventBus.Subscribe(event.ParticleCollision, func(event.Event) {
		m.collisions++
	})
	return m
}

// Init starts the frame clock and the simulation
func (m *Model) Init() tea.Cmd {
	m.sim.Start()
	return tick()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.frame.Resize(m.width-chromeWidth, m.height-chromeHeight)
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 1 / dt
			}
		}
		m.lastFrame = now
		if !m.paused {
			m.step(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.sub.Cancel()
		m.sim.Stop()
		return tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "n", "right":
		if m.paused {
			m.step(1)
		}
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case "0":
		m.speed = 1
	case "z":
		m.frame.SetScale(m.frame.Scale() / zoomFactor)
	case "x":
		m.frame.SetScale(m.frame.Scale() * zoomFactor)
	case "f":
		m.follow = !m.follow
		if !m.follow {
			m.frame.SetCenter(physics.Vector2D{})
		}
	}
	return nil
}

// step advances the simulation n ticks and records the kinetic energy
func (m *Model) step(n int) {
	for i := 0; i < n; i++ {
		if !m.sim.Update() {
			break
		}
	}
	m.state = m.sim.GetState()

	m.history = append(m.history, m.state.KineticEnergy)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.follow {
		m.frame.SetCenter(render.CenterOfMass(m.state.Particles).XY())
	}
	render.DrawEnsemble(m.frame, m.state.Particles)

	var b strings.Builder

	statusIcon, statusText := green.Render("●"), green.Render("running")
	switch {
	case m.state.Status == engine.StatusStopped:
		statusIcon, statusText = red.Render("■"), red.Render("stopped")
	case m.paused:
		statusIcon, statusText = yellow.Render("○"), yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf(" %s %s  %s  %s\n",
		statusIcon, cyan.Render("particlesim"), statusText,
		dim.Render(fmt.Sprintf("tick %d  t=%.4gs  x%d  %.0ffps", m.state.Tick, m.state.Elapsed, m.speed, m.fps))))

	b.WriteString(m.frame.Styled() + "\n")

	p, l := m.state.TotalMomentum, m.state.AngularMomentum
	b.WriteString(fmt.Sprintf(" %s %s  %s %s\n",
		dim.Render("particles"), white.Render(fmt.Sprint(len(m.state.Particles))),
		dim.Render("collisions"), white.Render(fmt.Sprint(m.collisions))))
	b.WriteString(fmt.Sprintf(" %s %s  %s %s\n",
		dim.Render("P"), white.Render(fmt.Sprintf("(%.3g, %.3g, %.3g)", p.X, p.Y, p.Z)),
		dim.Render("L"), white.Render(fmt.Sprintf("(%.3g, %.3g, %.3g)", l.X, l.Y, l.Z))))
	b.WriteString(fmt.Sprintf(" %s %s %s\n",
		dim.Render("E_k"), white.Render(fmt.Sprintf("%.6g", m.state.KineticEnergy)), cyan.Render(sparkline(m.history, 24))))

	b.WriteString(dim.Render(" space pause  n step  ±speed  z/x zoom  f follow  q quit") + "\n")
	return b.String()
}

// sparkline draws data scaled between its extremes using block characters
func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	start := 0
	if len(data) > width {
		start = len(data) - width
	}
	var sb strings.Builder
	for _, v := range data[start:] {
		idx := int((v - minVal) / rang * 7)
		idx = max(0, min(idx, 7))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// Run shows sim in the terminal until the user quits
func Run(sim *engine.Simulation, scale float64) error {
	p := tea.NewProgram(New(sim, scale), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
