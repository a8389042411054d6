package main

import (
	"flag"
	"log"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"bayer-bender/internal/config"
	"bayer-bender/internal/dither"
	"bayer-bender/internal/gui"
	"bayer-bender/internal/logger"
	"bayer-bender/internal/params"
	"bayer-bender/internal/pipeline"
	"bayer-bender/internal/render"
	"bayer-bender/internal/shutdown"
	"bayer-bender/internal/tonemap"
)

const (
	AppName    = "Bayer Bender"
	AppID      = "com.imageprocessing.bayer-bender"
	AppVersion = "1.0.0"

	WindowWidth  = 1200
	WindowHeight = 800
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		imagePath  = flag.String("image", "", "source image path (overrides config)")
		backend    = flag.String("backend", "", "render backend (overrides config)")
		workers    = flag.Int("workers", -1, "render worker count, 0 = one per CPU (overrides config)")
		logLevel   = flag.String("log-level", "", "debug | info | warn | error (overrides config)")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *imagePath != "" {
		cfg.ImagePath = *imagePath
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	appLogger := logger.NewConsoleLogger(logger.ParseLevel(cfg.LogLevel))
	appLogger.Info("main", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"backend":    cfg.Backend,
		"image":      cfg.ImagePath,
	})

	// Acquire the render device first: without a backend there is nothing to
	// run, so fail before any UI comes up.
	device, err := render.Open(cfg.Backend, render.Options{Workers: cfg.Workers, Logger: appLogger})
	if err != nil {
		log.Fatalf("render backend unavailable: %v", err)
	}

	loader := pipeline.NewLoader(appLogger)
	source, err := loader.LoadFromPath(cfg.ImagePath)
	if err != nil {
		device.Close()
		log.Fatalf("source image load failed: %v", err)
	}

	initial := params.Adjustments{
		Exposure:   cfg.Adjustments.Exposure,
		Contrast:   cfg.Adjustments.Contrast,
		Highlights: cfg.Adjustments.Highlights,
		Shadows:    cfg.Adjustments.Shadows,
		Saturation: cfg.Adjustments.Saturation,
		Matrix:     dither.MustBayer(cfg.MatrixSize),
	}
	var stages tonemap.Stages
	if cfg.Stages.Saturation {
		stages |= tonemap.StageSaturation
	}
	if cfg.Stages.Dither {
		stages |= tonemap.StageDither
	}

	session, err := render.NewSession(device, source.Image, initial, stages, appLogger)
	if err != nil {
		device.Close()
		log.Fatalf("render session failed: %v", err)
	}

	store := params.NewStore(session.Projection(), appLogger)
	if err := store.Initialize(initial); err != nil {
		session.Close()
		log.Fatalf("parameter store failed: %v", err)
	}

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	manager := gui.NewManager(window, store, session, source, appLogger)

	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register("render session", func() {
		if err := session.Close(); err != nil {
			appLogger.Error("main", err, nil)
		}
	})
	shutdownManager.Register("gui", manager.Shutdown)
	shutdownManager.Listen()

	window.SetOnClosed(func() {
		shutdownManager.Shutdown()
	})

	manager.Start()
	window.ShowAndRun()

	// Window closed without the OnClosed hook firing (some platforms).
	shutdownManager.Shutdown()
	appLogger.Info("main", "terminated", nil)
}

func loadConfig(path string) *config.Config {
	bootstrapLogger := logger.NewConsoleLogger(logger.ParseLevel("info"))
	cfg, err := config.Load(path)
	if err != nil {
		bootstrapLogger.Warning("main", "config load failed, using defaults", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return config.Default()
	}
	return cfg
}
