// pkg/render/palette.go
package render

import (
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Hues used for charge coloring, in degrees
const (
	positiveHue = 10.0
	negativeHue = 220.0
)

// ChargeColor maps a charge to a color. Positive charges are red, negative
// charges blue and neutral particles grey. Saturation grows with
// |charge|/maxAbs, so the largest charge in an ensemble is fully saturated.
func ChargeColor(charge, maxAbs float64) colorful.Color {
	if charge == 0 || maxAbs <= 0 || math.IsNaN(charge) {
		return colorful.Hsv(0, 0, 0.6)
	}

	strength := math.Min(math.Abs(charge)/maxAbs, 1)
	hue := positiveHue
	if charge < 0 {
		hue = negativeHue
	}
	return colorful.Hsv(hue, 0.35+0.65*strength, 1)
}

// RGBA converts a palette color for image and GL consumers.
func RGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// TerminalColor converts a palette color for lipgloss styles.
func TerminalColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// MaxAbsCharge returns the largest charge magnitude in charges.
func MaxAbsCharge(charges ...float64) float64 {
	var max float64
	for _, q := range charges {
		if a := math.Abs(q); a > max {
			max = a
		}
	}
	return max
}
