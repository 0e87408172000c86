package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vlysenko/voicelink/internal/codec"
	"github.com/vlysenko/voicelink/internal/config"
	"github.com/vlysenko/voicelink/internal/device"
	"github.com/vlysenko/voicelink/internal/metrics"
	"github.com/vlysenko/voicelink/internal/pipeline"
	"github.com/vlysenko/voicelink/internal/server"
	"github.com/vlysenko/voicelink/internal/transport"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "voicelink"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Int("target_sample_rate", cfg.Audio.TargetSampleRate),
		slog.Int("frame_length", cfg.Audio.FrameLength),
		slog.Float64("packet_interval", cfg.Audio.PacketInterval),
		slog.String("codec", cfg.Pipeline.Codec),
		slog.String("destination", cfg.Network.DestinationAddr()),
		slog.String("listen", cfg.Network.ListenAddr()),
		slog.String("log_level", cfg.Logging.Level),
	)

	if err := device.Initialize(); err != nil {
		logger.Error("Failed to initialize audio subsystem", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer device.Terminate()

	capture, err := device.OpenCapture(cfg.Audio.SampleRate, cfg.Audio.FrameLength)
	if err != nil {
		logger.Error("Failed to open capture device", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer capture.Close()

	playback, err := device.OpenPlayback(cfg.Audio.TargetSampleRate, cfg.Audio.WireFrameLength())
	if err != nil {
		logger.Error("Failed to open playback device", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer playback.Close()

	conn, err := transport.New(&cfg.Network, logger)
	if err != nil {
		logger.Error("Failed to create transport", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cdc, err := codec.New(cfg)
	if err != nil {
		logger.Error("Failed to create codec", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appMetrics := metrics.New()

	tx, err := pipeline.NewTransmitter(cfg, capture, conn, cdc, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to create transmit cycle", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rx := pipeline.NewReceiver(cfg, conn, playback, cdc, logger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tx.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		rx.Run(ctx)
	}()

	var httpServer *server.StatusServer
	if cfg.HTTP.Enabled {
		httpServer = server.New(cfg, logger, tx, rx, appMetrics)
		httpServer.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started, both cycles running")

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	// Cancel first, then close the socket: closing unblocks the receive
	// cycle's pending read, which then observes the cancelled context.
	cancel()
	if err := conn.Close(); err != nil {
		logger.Warn("Error closing transport", slog.String("error", err.Error()))
	}
	wg.Wait()

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
		}
	}

	txStats, rxStats := tx.Stats(), rx.Stats()
	logger.Info("Final statistics",
		slog.Uint64("frames_captured", txStats.FramesCaptured),
		slog.Uint64("packets_sent", txStats.PacketsSent),
		slog.Uint64("send_errors", txStats.SendErrors),
		slog.Uint64("datagrams_received", rxStats.DatagramsReceived),
		slog.Uint64("packets_played", rxStats.PacketsPlayed),
		slog.Uint64("protocol_errors", rxStats.ProtocolErrors),
	)

	logger.Info("Service stopped")
}

// initLogger creates the structured logger from configuration.
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
