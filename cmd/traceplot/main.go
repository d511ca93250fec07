// cmd/traceplot/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/opd-ai/go-particlesim/pkg/analysis"
	"github.com/opd-ai/go-particlesim/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	outDir := flag.String("out", ".", "Directory the figures are written to")
	samplePeriod := flag.Float64("sample-period", 8e-3, "Seconds per tick of the traced run")
	show := flag.Bool("show", false, "Open the figures after writing them")
	noPlot := flag.Bool("no-plot", false, "Only report conservation drift")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error(ctx, "Expected exactly one trace file argument", nil,
			"args", flag.NArg(),
		)
		os.Exit(2)
	}
	path := flag.Arg(0)

	tr, err := analysis.ReadTrace(path)
	if err != nil {
		logger.Error(ctx, "Failed to read trace", err,
			"trace_path", path,
		)
		os.Exit(1)
	}

	totals := tr.Totals()
	drift := analysis.ConservationDrift(totals)
	logger.Info(ctx, "Trace loaded",
		"trace_path", path,
		"particles", len(tr.Particles),
		"ticks", len(totals),
		"spin", tr.Spin,
		"momentum_drift", drift.Momentum,
		"kinetic_energy_drift", drift.KineticEnergy,
	)

	if *noPlot {
		return
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error(ctx, "Failed to create output directory", err,
			"out", *outDir,
		)
		os.Exit(1)
	}

	files := analysis.Plot(tr, analysis.PlotOptions{
		Dir:          *outDir,
		SamplePeriod: *samplePeriod,
		Show:         *show,
	})
	logger.Info(ctx, "Figures written", "files", files)
}
