// cmd/topdrive/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-topdrive/pkg/audio"
	"github.com/opd-ai/go-topdrive/pkg/config"
	"github.com/opd-ai/go-topdrive/pkg/control"
	"github.com/opd-ai/go-topdrive/pkg/engine"
	"github.com/opd-ai/go-topdrive/pkg/logging"
	"github.com/opd-ai/go-topdrive/pkg/render"
	engorender "github.com/opd-ai/go-topdrive/pkg/render/engo"
	"github.com/opd-ai/go-topdrive/pkg/telemetry"
)

// Terminal cells are sized from the window flags at this many pixels each.
const (
	cellWidthPx   = 8
	cellHeightPx  = 16
	terminalScale = 20
)

type options struct {
	configPath string
	renderer   string
	width      int
	height     int
	fullscreen bool
	ticks      int
	script     string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "topdrive.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.StringVar(&opts.renderer, "renderer", "engo", "Renderer type: 'engo', 'terminal' or 'null'")
	flag.IntVar(&opts.width, "width", 1024, "Window width in pixels")
	flag.IntVar(&opts.height, "height", 768, "Window height in pixels")
	flag.BoolVar(&opts.fullscreen, "fullscreen", false, "Run in fullscreen mode (Engo only)")
	flag.IntVar(&opts.ticks, "ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&opts.script, "script", "cruise", fmt.Sprintf("Headless intent script %v", control.ScriptNames()))
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nControls:\n%s", controlsHelp(control.DefaultBindings()))
	}
	flag.Parse()

	// A renderer that owns stdout gets its logs on stderr.
	logOut := io.Writer(os.Stdout)
	if opts.renderer == "terminal" {
		logOut = os.Stderr
	}
	logger := logging.NewLoggerWithWriter(logOut, logging.ParseLevel(os.Getenv("TOPDRIVE_LOG_LEVEL")))
	ctx := logging.WithRunID(context.Background(), logging.NewRunID())

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

	cfg, err := loadConfig(ctx, logger, opts)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", opts.configPath)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, opts); err != nil {
		logger.Error(ctx, "Simulation failed", err)
		stop()
		os.Exit(1)
	}
}

// controlsHelp lists the keys bound to each action, one action per line.
func controlsHelp(b control.Bindings) string {
	var sb strings.Builder
	for _, action := range control.Actions() {
		keys := b.Keys(action)
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %-12s %s\n", action, strings.Join(keys, ", "))
	}
	return sb.String()
}

// loadConfig reads the configuration file, falling back to defaults (still
// subject to environment overrides) when it does not exist, and applies
// command-line overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, opts options) (*config.SimConfig, error) {
	path := opts.configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		path = ""
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if opts.ticks > 0 {
		cfg.Loop.MaxTicks = opts.ticks
	}
	if opts.renderer != "engo" {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run builds the simulation and drives it with the selected renderer until
// ctx is cancelled or the run ends on its own.
func run(ctx context.Context, logger *logging.Logger, cfg *config.SimConfig, opts options) error {
	provider, err := telemetry.Setup(ctx, cfg.Telemetry, os.Stderr)
	if err != nil {
		return logging.WrapError(err, "setting up telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "Telemetry shutdown failed", "error", err.Error())
		}
	}()

	recorder, err := telemetry.NewRecorder(provider.MeterProvider())
	if err != nil {
		return logging.WrapError(err, "creating metrics recorder")
	}

	sim, err := engine.NewSimulation(cfg,
		engine.WithLogger(logger),
		engine.WithRecorder(recorder),
		engine.WithContext(ctx),
	)
	if err != nil {
		return logging.WrapError(err, "creating simulation")
	}

	logger.Info(ctx, "Starting simulation",
		"renderer", opts.renderer,
		"preset", cfg.Preset,
		"tick_rate", cfg.Loop.TickRate,
		"max_ticks", cfg.Loop.MaxTicks,
	)

	switch opts.renderer {
	case "engo":
		return runEngo(ctx, logger, sim, opts)
	case "terminal":
		term := render.NewTerminalRenderer(os.Stdout,
			opts.width/cellWidthPx, opts.height/cellHeightPx, terminalScale,
			render.Background{Width: cfg.World.Width, Height: cfg.World.Height, Image: cfg.World.Background},
			cfg.Vehicle.Size,
		)
		term.SetANSI(true)
		if err := runHeadless(ctx, logger, sim, term, opts.script); err != nil {
			return err
		}
		return term.Err()
	case "null":
		return runHeadless(ctx, logger, sim, render.NewNullRenderer(logger), opts.script)
	}
	return fmt.Errorf("unknown renderer %q", opts.renderer)
}

// runHeadless replays a builtin script through sim, drawing every tick.
// An interrupt is a normal way to end the run.
func runHeadless(ctx context.Context, logger *logging.Logger, sim *engine.Simulation, r render.Renderer, script string) error {
	src, err := control.BuiltinScript(script)
	if err != nil {
		return err
	}

	err = sim.Run(ctx, src, func(snap engine.Snapshot) {
		render.DrawFrame(r, snap)
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	snap := sim.Snapshot()
	logger.Info(ctx, "Simulation finished",
		"ticks", snap.Tick,
		"mph", snap.State.MphSpeed,
		"gear", snap.State.Gear.String(),
		"x", snap.State.Position.X,
		"y", snap.State.Position.Y,
	)
	return err
}

// runEngo opens the window and blocks until it is closed.
func runEngo(ctx context.Context, logger *logging.Logger, sim *engine.Simulation, opts options) error {
	player, err := audio.NewPlayer(sim.Config.Audio)
	if err != nil {
		logger.Warn(ctx, "Audio unavailable", "error", err.Error())
		player = nil
	}

	go func() {
		<-ctx.Done()
		engo.Exit()
	}()

	engo.Run(engo.RunOptions{
		Title:      "Top Drive",
		Width:      opts.width,
		Height:     opts.height,
		Fullscreen: opts.fullscreen,
		VSync:      true,
		FPSLimit:   sim.Config.Loop.TickRate,
	}, engorender.NewGameScene(ctx, sim, player, logger))
	return nil
}
