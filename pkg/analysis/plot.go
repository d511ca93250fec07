// pkg/analysis/plot.go
package analysis

import (
	"fmt"
	"path"

	plt "github.com/phil-mansfield/pyplot"
)

var colors = []string{
	"DarkSlateBlue", "DeepPink", "DarkTurquoise",
	"DarkOrange", "DarkViolet", "ForestGreen",
	"Crimson", "DimGray", "Goldenrod",
}

// PlotOptions controls the figures written by Plot
type PlotOptions struct {
	Dir          string
	SamplePeriod float64 // seconds per tick, for the time axes
	Show         bool    // open the figures instead of only saving them
}

// Plot writes trajectory and conservation figures for a trace. The figures
// are drawn by a generated Python script run by pyplot.
func Plot(t *Trace, opts PlotOptions) []string {
	if opts.SamplePeriod <= 0 {
		opts.SamplePeriod = 1
	}

	plt.Reset()
	files := []string{
		plotTrajectories(t, opts.Dir),
		plotKineticEnergy(t, opts),
		plotMomentum(t, opts),
	}
	if opts.Show {
		plt.Show()
	}
	plt.Execute()
	return files
}

func seriesColor(i int) string {
	return colors[i%len(colors)]
}

func plotTrajectories(t *Trace, dir string) string {
	fname := path.Join(dir, "trajectories.png")

	plt.Figure(plt.FigSize(8, 8))
	for i, s := range t.Particles {
		xs := make([]float64, s.Len())
		ys := make([]float64, s.Len())
		for j, p := range s.Position {
			xs[j], ys[j] = p.X, p.Y
		}
		plt.Plot(xs, ys, plt.LW(2), plt.C(seriesColor(i)))
		// Mark the starting position
		plt.Plot(xs[:1], ys[:1], "o", plt.C(seriesColor(i)))
	}
	plt.Title(fmt.Sprintf("Trajectories of %d particles", len(t.Particles)))
	plt.XLabel(`$x$ [m]`, plt.FontSize(16))
	plt.YLabel(`$y$ [m]`, plt.FontSize(16))
	plt.Grid(plt.Axis("x"), plt.Which("both"))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	return fname
}

func plotKineticEnergy(t *Trace, opts PlotOptions) string {
	fname := path.Join(opts.Dir, "kinetic_energy.png")
	totals := t.Totals()

	ts := make([]float64, len(totals))
	es := make([]float64, len(totals))
	for i, tot := range totals {
		ts[i] = float64(tot.Tick) * opts.SamplePeriod
		es[i] = tot.KineticEnergy
	}

	drift := ConservationDrift(totals)
	plt.Figure()
	plt.Plot(ts, es, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("Kinetic energy, max relative change %.3g", drift.KineticEnergy))
	plt.XLabel(`$t$ [s]`, plt.FontSize(16))
	plt.YLabel(`$E_k$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	return fname
}

func plotMomentum(t *Trace, opts PlotOptions) string {
	fname := path.Join(opts.Dir, "momentum.png")
	totals := t.Totals()

	ts := make([]float64, len(totals))
	px := make([]float64, len(totals))
	py := make([]float64, len(totals))
	pz := make([]float64, len(totals))
	for i, tot := range totals {
		ts[i] = float64(tot.Tick) * opts.SamplePeriod
		px[i], py[i], pz[i] = tot.Momentum.X, tot.Momentum.Y, tot.Momentum.Z
	}

	plt.Figure()
	plt.Plot(ts, px, plt.LW(2), plt.C(seriesColor(0)))
	plt.Plot(ts, py, plt.LW(2), plt.C(seriesColor(1)))
	plt.Plot(ts, pz, plt.LW(2), plt.C(seriesColor(2)))
	plt.Title("Total momentum (x, y, z)")
	plt.XLabel(`$t$ [s]`, plt.FontSize(16))
	plt.YLabel(`$P$`, plt.FontSize(16))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	return fname
}
