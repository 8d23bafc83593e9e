package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/chart"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := dataset.NewClient(cfg.DatasetURL, cfg.DatasetTimeout, cfg.BreakerMaxFailures, metrics, logger)
	transformer := pipeline.NewTransformer(chart.DefaultLayout(), logger)

	// Cell export (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publishers []pipeline.ChartPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publishers = append(publishers, writer)
		logger.Info("kafka cell export enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka cell export disabled")
	}

	p := pipeline.New(source, transformer, logger, metrics, publishers...)
	sched := scheduler.New(p, cfg.DatasetRefreshInterval, cfg.DatasetTimeout, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.RenderCacheSize, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Initial load. Chart routes answer 503 until it succeeds.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("initial dataset load failed", "error", err, "url", cfg.DatasetURL)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start failed", "error", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sched.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
