// cmd/particlesim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opd-ai/go-particlesim/pkg/config"
	"github.com/opd-ai/go-particlesim/pkg/engine"
	"github.com/opd-ai/go-particlesim/pkg/event"
	"github.com/opd-ai/go-particlesim/pkg/health"
	"github.com/opd-ai/go-particlesim/pkg/logging"
	"github.com/opd-ai/go-particlesim/pkg/render"
	engorender "github.com/opd-ai/go-particlesim/pkg/render/engo"
	"github.com/opd-ai/go-particlesim/pkg/render/tui"
	"github.com/opd-ai/go-particlesim/pkg/trace"
)

// momentumTolerance bounds total momentum drift relative to the summed
// particle momenta before the run is reported unhealthy
const momentumTolerance = 1e-6

// options holds the parsed command line
type options struct {
	configPath   string
	ensemblePath string
	template     string
	renderer     string
	ticks        uint64
	logLevel     string
	healthAddr   string
	tracePath    string
	traceFormat  string
	width        int
	height       int
	fullscreen   bool
	zoom         float64
	fontPath     string
	scale        float64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "particlesim.json", "Path to JSON configuration file")
	flag.StringVar(&opts.ensemblePath, "ensemble", "", "Path to INI ensemble file (replaces -config)")
	flag.StringVar(&opts.template, "template", "", "Ensemble template: "+strings.Join(config.TemplateNames(), ", "))
	flag.StringVar(&opts.renderer, "renderer", "none", "Renderer type: 'none', 'terminal', 'tui' or 'engo'")
	flag.Uint64Var(&opts.ticks, "ticks", 0, "Stop after this many ticks (overrides config, 0 keeps it)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN or ERROR")
	flag.StringVar(&opts.healthAddr, "health-addr", "", "Serve /health, /ready and /state on this address")
	flag.StringVar(&opts.tracePath, "trace", "", "Write the per-tick trace to this file (overrides config)")
	flag.StringVar(&opts.traceFormat, "trace-format", "", "Trace format: 'csv' or 'table' (overrides config)")
	flag.IntVar(&opts.width, "width", 1024, "Window width (engo only)")
	flag.IntVar(&opts.height, "height", 768, "Window height (engo only)")
	flag.BoolVar(&opts.fullscreen, "fullscreen", false, "Run in fullscreen mode (engo only)")
	flag.Float64Var(&opts.zoom, "zoom", 400, "Pixels per length unit (engo only)")
	flag.StringVar(&opts.fontPath, "font", "", "TTF font for the HUD (engo only)")
	flag.Float64Var(&opts.scale, "scale", 0.05, "Length units per character cell (terminal and tui)")
	createDefault := flag.Bool("default", false, "Create default configuration file and exit")
	listTemplates := flag.Bool("templates", false, "List ensemble templates and exit")
	flag.Parse()

	logger := logging.NewLogger()
	if opts.logLevel != "" {
		level, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown log level %q\n", opts.logLevel)
			os.Exit(2)
		}
		logger = logging.NewLoggerWithWriter(os.Stderr, level)
	}
	ctx := context.Background()

	if *listTemplates {
		descriptions := config.ListEnsembleTemplates()
		for _, name := range config.TemplateNames() {
			fmt.Printf("%-12s %s\n", name, descriptions[name])
		}
		return
	}

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", opts.configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", opts.configPath,
		)
		return
	}

	simConfig, err := loadConfiguration(ctx, logger, opts)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err)
		os.Exit(1)
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	writer, err := openTrace(simConfig)
	if err != nil {
		logger.Error(ctx, "Failed to open trace", err,
			"trace_path", simConfig.Trace.Path,
		)
		os.Exit(1)
	}
	if writer != nil {
		engineOpts = append(engineOpts, engine.WithTrace(writer))
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error(ctx, "Failed to close trace", err)
			}
		}()
	}

	sim, err := engine.NewSimulation(simConfig, engineOpts...)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}
	runCtx := sim.Context()
	logger.Info(runCtx, "Simulation created",
		"particles", sim.Ensemble.Len(),
		"renderer", opts.renderer,
		"trace_path", simConfig.Trace.Path,
	)

	var healthServer *http.Server
	if opts.healthAddr != "" {
		healthServer = health.NewServer(opts.healthAddr, newHealthChecker(sim), sim)
		go func() {
			logger.Info(runCtx, "Starting health check server",
				"address", opts.healthAddr,
			)
			if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error(runCtx, "Health check server failed", err)
			}
		}()
	}

	if err := run(runCtx, sim, opts, logger); err != nil {
		logger.Error(runCtx, "Simulation failed", err)
		shutdown(runCtx, healthServer, logger)
		os.Exit(1)
	}

	state := sim.GetState()
	logger.Info(runCtx, "Simulation finished",
		"tick", state.Tick,
		"elapsed", state.Elapsed,
		"kinetic_energy", state.KineticEnergy,
		"total_momentum", state.TotalMomentum,
	)
	shutdown(runCtx, healthServer, logger)
}

// loadConfiguration builds the run configuration from an ensemble file or a
// JSON configuration, then applies the template, environment and flags in
// that order
func loadConfiguration(ctx context.Context, logger *logging.Logger, opts options) (*config.SimulationConfig, error) {
	var simConfig *config.SimulationConfig

	switch {
	case opts.ensemblePath != "":
		loaded, err := config.LoadEnsembleFile(opts.ensemblePath)
		if err != nil {
			return nil, err
		}
		simConfig = loaded
	default:
		if _, err := os.Stat(opts.configPath); os.IsNotExist(err) {
			logger.Info(ctx, "Configuration file not found, using default configuration",
				"config_path", opts.configPath,
			)
			simConfig = config.DefaultConfig()
		} else {
			loaded, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return nil, err
			}
			simConfig = loaded
		}
	}

	if opts.template != "" {
		if err := config.ApplyEnsembleTemplate(simConfig, opts.template); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(simConfig); err != nil {
		return nil, fmt.Errorf("failed to apply environment configuration: %w", err)
	}

	if opts.ticks > 0 {
		simConfig.MaxTicks = opts.ticks
	}
	if opts.tracePath != "" {
		simConfig.Trace.Path = opts.tracePath
	}
	if opts.traceFormat != "" {
		simConfig.Trace.Format = opts.traceFormat
	}
	return simConfig, nil
}

// openTrace creates the configured trace file, or returns nil when tracing
// is off
func openTrace(simConfig *config.SimulationConfig) (*trace.Writer, error) {
	if simConfig.Trace.Path == "" {
		return nil, nil
	}
	format, err := trace.ParseFormat(simConfig.Trace.Format)
	if err != nil {
		return nil, err
	}
	return trace.Create(simConfig.Trace.Path, format, simConfig.Physics.Spin)
}

// newHealthChecker registers the checks that apply to sim. Momentum is only
// conserved under snapshot ordering.
func newHealthChecker(sim *engine.Simulation) *health.HealthChecker {
	hc := health.NewHealthChecker()
	hc.AddCheck(health.NewProgressHealthCheck(sim))
	hc.AddCheck(health.NewNumericsHealthCheck(sim))
	if sim.Engine.Physics.Ordering == config.OrderingSnapshot {
		hc.AddCheck(health.NewMomentumHealthCheck(sim, momentumTolerance))
	}
	hc.AddCheck(health.NewMemoryHealthCheck(500, health.CurrentMemoryMB))
	return hc
}

// run drives sim with the selected renderer until it stops or the process
// is interrupted
func run(ctx context.Context, sim *engine.Simulation, opts options, logger *logging.Logger) error {
	switch opts.renderer {
	case "engo":
		engorender.Run(sim, engorender.WindowOptions{
			Width:      opts.width,
			Height:     opts.height,
			Fullscreen: opts.fullscreen,
			Zoom:       opts.zoom,
			FontPath:   opts.fontPath,
		}, logger)
		return nil
	case "tui":
		return tui.Run(sim, opts.scale)
	case "terminal":
		frame := render.NewTerminalRenderer(os.Stdout, 80, 24, opts.scale)
		state := sim.GetState()
		charges := make([]float64, len(state.Particles))
		for i := range state.Particles {
			charges[i] = state.Particles[i].Charge()
		}
		frame.SetChargeScale(render.MaxAbsCharge(charges...))

		sub := sim.EventBus.Subscribe(event.TickCompleted, func(event.Event) {
			state := sim.GetState()
			frame.SetCenter(render.CenterOfMass(state.Particles).XY())
			render.DrawEnsemble(frame, state.Particles)
		})
		defer sub.Cancel()
		return runHeadless(ctx, sim, logger)
	case "none", "":
		return runHeadless(ctx, sim, logger)
	default:
		return fmt.Errorf("unknown renderer %q", opts.renderer)
	}
}

// runHeadless runs sim until its tick limit or an interrupt signal
func runHeadless(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := sim.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info(ctx, "Interrupted, stopping simulation")
		return nil
	}
	return err
}

func shutdown(ctx context.Context, srv *http.Server, logger *logging.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}
}
