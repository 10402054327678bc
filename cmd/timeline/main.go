package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jscyril/golang_timeline_editor/internal/audio"
	"github.com/jscyril/golang_timeline_editor/internal/config"
	"github.com/jscyril/golang_timeline_editor/internal/editor"
	"github.com/jscyril/golang_timeline_editor/internal/library"
	"github.com/jscyril/golang_timeline_editor/internal/mixdown"
	"github.com/jscyril/golang_timeline_editor/internal/playback"
	"github.com/jscyril/golang_timeline_editor/internal/ui"
	"github.com/jscyril/golang_timeline_editor/pkg/events"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	settings, err := config.NewStore(config.GetConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	err = settings.Override(func(c *config.Config) error {
		return config.ApplyEnv(c, ".env")
	})
	if err != nil {
		return fmt.Errorf("apply env: %w", err)
	}
	cfg := settings.Get()

	// Create data directory
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "timeline.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	logger.Info("starting", "config", settings.Path(), "rate", cfg.SampleRate)

	// Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	bus := events.NewBus()
	defer bus.Close()

	fileIO := library.OSFileIO{}
	assets := audio.NewStore(fileIO, logger, bus)
	curve := audio.ParseFadeCurve(cfg.FadeCurve)

	player := playback.NewScheduler(assets, playback.NewSpeakerBackend(cfg.SampleRate), playback.Options{
		Lookahead:     cfg.LookaheadSeconds,
		FrameInterval: time.Duration(cfg.FrameIntervalMs) * time.Millisecond,
		Curve:         curve,
		Logger:        logger,
		Bus:           bus,
	})
	defer player.Stop()

	renderer := mixdown.NewRenderer(assets, fileIO, mixdown.Options{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		Curve:      curve,
		Logger:     logger,
	})

	ed := editor.New(editor.Deps{
		Assets:   assets,
		Player:   player,
		Exporter: renderer,
		Settings: settings,
		Bus:      bus,
		Logger:   logger,
	})

	// Fill the bin from the asset directories and keep it current
	bin := library.NewBin()
	var changes <-chan library.Change
	if len(cfg.AssetDirectories) > 0 {
		for _, err := range bin.Scan(ctx, cfg.AssetDirectories) {
			logger.Warn("scan", "err", err)
		}
		logger.Info("bin scanned", "items", bin.Len())

		changes, err = library.Watch(ctx, logger, cfg.AssetDirectories...)
		if err != nil {
			logger.Warn("watch disabled", "err", err)
		}
	}

	// Run UI
	err = ui.Run(ctx, ui.Deps{
		Editor:   ed,
		Bin:      bin,
		Assets:   assets,
		Bus:      bus,
		Settings: settings,
		Changes:  changes,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
