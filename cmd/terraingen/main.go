package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"terraingen/internal/config"
	"terraingen/internal/telemetry"
	"terraingen/internal/terrain"
	"terraingen/internal/tiles"
	"terraingen/internal/world"
)

func main() {
	var (
		cfgPath     string
		viewport    string
		previewDir  string
		metricsAddr string
		verbose     bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to terrain generator configuration file (json or yaml); "+config.EnvJSON+" or "+config.EnvYAMLB64+" override it")
	flag.StringVar(&viewport, "viewport", "0,0,63,63", "world tile rectangle to generate as minX,minY,maxX,maxY")
	flag.StringVar(&previewDir, "preview", "", "write a PNG preview per active chunk into this directory")
	flag.StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address (overrides telemetry.metricsAddr)")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.LoadEnv(cfgPath, os.Getenv)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	view, err := parseViewport(viewport)
	if err != nil {
		log.Fatalf("parse viewport: %v", err)
	}
	registry, err := tiles.NewRegistry(cfg.Rules)
	if err != nil {
		log.Fatalf("build tile registry: %v", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if metricsAddr != "" {
		cfg.Telemetry.Metrics = true
		cfg.Telemetry.MetricsAddr = metricsAddr
	}
	promReg := prometheus.NewRegistry()
	sink := buildSink(cfg.Telemetry, promReg, logger)

	store, err := world.NewDiskStore(cfg.Chunks.SaveDir, cfg.Chunks.Size)
	if err != nil {
		log.Fatalf("open chunk store: %v", err)
	}
	generator := world.NewGenerator(cfg, registry, terrain.NewNoiseSampler(cfg.Terrain), sink, logger)
	manager := world.NewManager(cfg.Chunks, generator, store, sink, logger)

	ctx, cancel := signalContext()
	defer cancel()

	var metricsServer *http.Server
	if cfg.Telemetry.Metrics {
		metricsServer = serveMetrics(cfg.Telemetry.MetricsAddr, promReg, logger)
	}

	start := time.Now()
	if err := manager.UpdateViewport(ctx, view); err != nil {
		logger.Error("viewport update incomplete", slog.Any("err", err))
	}

	fallbacks := 0
	for _, chunk := range manager.Chunks() {
		if chunk.Fallback() {
			fallbacks++
		}
		if previewDir == "" {
			continue
		}
		path, err := world.SaveChunkPreview(chunk, previewDir)
		if err != nil {
			logger.Warn("preview failed", slog.String("chunk", chunk.Coord.String()), slog.Any("err", err))
			continue
		}
		logger.Debug("preview written", slog.String("path", path))
	}
	logger.Info("viewport generated",
		slog.Int("chunks", manager.ActiveCount()),
		slog.Int("fallbacks", fallbacks),
		slog.Duration("elapsed", time.Since(start)))

	if err := manager.Close(); err != nil {
		log.Fatalf("save chunks: %v", err)
	}

	if metricsServer != nil {
		// keep serving until interrupted so the final counters can be scraped
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown", slog.Any("err", err))
		}
	}
}

func buildSink(cfg config.TelemetryConfig, reg *prometheus.Registry, logger *slog.Logger) telemetry.Sink {
	var sinks []telemetry.Sink
	if cfg.Metrics {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		sinks = append(sinks, telemetry.NewPrometheusSink(reg))
	}
	if cfg.Tracing {
		sinks = append(sinks, telemetry.NewTracingSink(nil))
	}
	if cfg.LogEvents {
		sinks = append(sinks, telemetry.NewLogSink(logger))
	}
	return telemetry.Combine(sinks...)
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("err", err))
		}
	}()
	return srv
}

// parseViewport reads "minX,minY,maxX,maxY" in world tiles.
func parseViewport(value string) (world.Viewport, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return world.Viewport{}, fmt.Errorf("expected minX,minY,maxX,maxY, got %q", value)
	}
	var n [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return world.Viewport{}, fmt.Errorf("viewport component %d: %w", i, err)
		}
		n[i] = v
	}
	return world.Viewport{MinX: n[0], MinY: n[1], MaxX: n[2], MaxY: n[3]}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
