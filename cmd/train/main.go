// Command train fits the baseline classifiers on the labeled table, writes
// the per-model performance report, and persists the best model.
package main

import (
	"log/slog"
	"os"

	"github.com/urbanairlab/source-attribution/internal/config"
	"github.com/urbanairlab/source-attribution/internal/model"
	"github.com/urbanairlab/source-attribution/internal/observability"
	"github.com/urbanairlab/source-attribution/internal/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	f, err := os.Open(cfg.LabeledFile)
	if err != nil {
		return err
	}
	defer f.Close()

	tbl, err := table.Read(f)
	if err != nil {
		return err
	}
	logger.Info("labeled table read", "path", cfg.LabeledFile, "rows", len(tbl.Rows))

	ds, err := model.FromTable(tbl)
	if err != nil {
		return err
	}

	trainer := model.NewTrainer(model.DefaultCandidates(cfg.Seed), cfg.SplitRatio, cfg.Seed, logger, metrics)
	res, err := trainer.Train(ds)
	if err != nil {
		return err
	}

	if err := model.SavePerformance(cfg.PerformanceFile, res); err != nil {
		return err
	}
	logger.Info("performance report written", "path", cfg.PerformanceFile)

	if err := model.SaveArtifact(cfg.ModelFile, res); err != nil {
		return err
	}
	logger.Info("best model written", "path", cfg.ModelFile, "model", res.BestName)
	return nil
}
