// Command label runs the pollution source labeling pipeline once: it reads
// the processed monitoring table, assigns a source to every record, simulates
// minority classes when the distribution is skewed, and writes the labeled
// table. Kafka export and the operational HTTP server are feature-flagged.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbanairlab/source-attribution/internal/adapter/csvfile"
	httpadapter "github.com/urbanairlab/source-attribution/internal/adapter/http"
	kafkaadapter "github.com/urbanairlab/source-attribution/internal/adapter/kafka"
	"github.com/urbanairlab/source-attribution/internal/config"
	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/observability"
	"github.com/urbanairlab/source-attribution/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	rules := domain.DefaultRules()
	labeler := pipeline.NewLabeler(rules, cfg.Thresholds)
	rebalancer := pipeline.NewRebalancer(rules, cfg.Thresholds,
		cfg.BalanceFraction, cfg.ClassMin, cfg.SimMaxAttempts, cfg.Seed, logger)

	reader := csvfile.NewReader(cfg.InputFile, logger)
	loaders := []pipeline.TableLoader{csvfile.NewWriter(cfg.LabeledFile, logger)}

	// Kafka export is feature-flagged via KAFKA_ENABLED.
	var exporter *kafkaadapter.Exporter
	if cfg.KafkaEnabled {
		exporter = kafkaadapter.NewExporter(cfg, logger, metrics)
		loaders = append(loaders, exporter)
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	p := pipeline.New(reader, labeler, rebalancer, loaders, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The HTTP server is optional; a plain batch invocation leaves HTTP_ADDR
	// unset and exits when the run finishes.
	if cfg.HTTPAddr == "" {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
			closeExporter(exporter, logger)
			os.Exit(1)
		}
		closeExporter(exporter, logger)
		logger.Info("done")
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeExporter(exporter, logger)

	logger.Info("shutdown complete")
}

func closeExporter(e *kafkaadapter.Exporter, logger *slog.Logger) {
	if e == nil {
		return
	}
	if err := e.Close(); err != nil {
		logger.Error("kafka exporter close error", "error", err)
	}
}
