// pkg/render/terminal.go
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opd-ai/go-particlesim/pkg/entity"
	"github.com/opd-ai/go-particlesim/pkg/physics"
)

const clearScreen = "\033[H\033[2J"

type cell struct {
	r      rune
	charge float64
	used   bool
}

// TerminalRenderer provides a simple character-cell rendering of the XY plane
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]cell
	scale     float64 // world units per cell
	centerPos physics.Vector2D
	maxCharge float64
	out       io.Writer
	border    lipgloss.Style
	clear     bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions writing frames to out. A nil out makes Present a no-op.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]cell, height)
	for i := range buffer {
		buffer[i] = make([]cell, width)
	}

	r := &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    out,
		border: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("242")),
		clear: true,
	}
	r.Clear()
	return r
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// Resize changes the frame size in cells and clears it
func (r *TerminalRenderer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.buffer = make([][]cell, height)
	for i := range r.buffer {
		r.buffer[i] = make([]cell, width)
	}
	r.Clear()
}

// Size returns the frame size in cells
func (r *TerminalRenderer) Size() (width, height int) {
	return r.width, r.height
}

// SetScale sets the world units covered by one cell
func (r *TerminalRenderer) SetScale(scale float64) {
	if scale > 0 {
		r.scale = scale
	}
}

// Scale returns the world units covered by one cell
func (r *TerminalRenderer) Scale() float64 {
	return r.scale
}

// SetChargeScale sets the charge magnitude drawn at full saturation
func (r *TerminalRenderer) SetChargeScale(maxAbs float64) {
	r.maxCharge = maxAbs
}

// SetClearScreen controls whether Present clears the terminal first
func (r *TerminalRenderer) SetClearScreen(clear bool) {
	r.clear = clear
}

// worldToScreen converts world coordinates to cell coordinates. World Y grows
// upwards, screen rows grow downwards.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/r.scale))
	return screenX, screenY
}

func (r *TerminalRenderer) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = cell{r: ' '}
		}
	}
}

// RenderParticle implements entity.Renderer. Particles larger than a cell are
// drawn as a dotted disk around a charge symbol.
func (r *TerminalRenderer) RenderParticle(p *entity.Particle) {
	if p == nil {
		return
	}
	cx, cy := r.worldToScreen(p.GetPosition().XY())

	cells := int(p.Radius() / r.scale)
	for dy := -cells; dy <= cells; dy++ {
		for dx := -cells; dx <= cells; dx++ {
			if dx*dx+dy*dy > cells*cells {
				continue
			}
			x, y := cx+dx, cy+dy
			if r.inBounds(x, y) && !r.buffer[y][x].used {
				r.buffer[y][x] = cell{r: '.', charge: p.Charge()}
			}
		}
	}

	if r.inBounds(cx, cy) {
		r.buffer[cy][cx] = cell{r: chargeSymbol(p.Charge()), charge: p.Charge(), used: true}
	}
}

func chargeSymbol(q float64) rune {
	switch {
	case q > 0:
		return '+'
	case q < 0:
		return '-'
	default:
		return 'o'
	}
}

// String returns the current frame without styling
func (r *TerminalRenderer) String() string {
	var b strings.Builder
	for y, row := range r.buffer {
		for _, c := range row {
			b.WriteRune(c.r)
		}
		if y < len(r.buffer)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Styled returns the current frame tinted by charge inside a border
func (r *TerminalRenderer) Styled() string {
	var b strings.Builder
	for y, row := range r.buffer {
		for _, c := range row {
			if c.r == ' ' {
				b.WriteRune(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(TerminalColor(ChargeColor(c.charge, r.maxCharge)))
			b.WriteString(style.Render(string(c.r)))
		}
		if y < len(r.buffer)-1 {
			b.WriteByte('\n')
		}
	}
	return r.border.Render(b.String())
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	if r.out == nil {
		return
	}
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}
	fmt.Fprintln(r.out, r.Styled())
}
