// Command pipeline executes one run end to end: optional conversion of a
// spreadsheet source, the aggregation itself, and publication of the
// resulting document into the site directory with a run manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tabsum/internal/aggregator"
	"tabsum/internal/config"
	"tabsum/internal/converter"
	"tabsum/internal/exporter"
	"tabsum/internal/infrastructure"
	"tabsum/internal/pipeline"
)

func main() {
	source := flag.String("source", "", "delimited input file (overrides the configured source)")
	flag.Parse()

	os.Exit(run(context.Background(), *source))
}

func run(ctx context.Context, sourceOverride string) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		return 1
	}
	paths.LogPathResolution()

	var metrics *infrastructure.PipelineMetrics
	if cfg.Telemetry.Enabled {
		providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
		if err != nil {
			logger.Warn("Failed to initialize telemetry, continuing without",
				slog.String("error", err.Error()))
		} else {
			defer func() {
				if err := providers.Shutdown(context.Background()); err != nil {
					logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
				}
			}()
			metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
			if err != nil {
				logger.Warn("Failed to create pipeline metrics",
					slog.String("error", err.Error()))
			}
		}
	}

	sourcePath, steps, err := assembleRun(ctx, cfg, paths, logger, metrics)
	if err != nil {
		logger.Error("Failed to assemble run", slog.String("error", err.Error()))
		return 1
	}
	if sourceOverride != "" {
		sourcePath = sourceOverride
	}

	logger.Info("Starting pipeline run",
		slog.String("source", sourcePath),
		slog.Int("step_count", len(steps)),
		slog.String("artifact", cfg.Pipeline.ArtifactName),
		slog.String("version", config.AppVersion))

	runner := pipeline.NewRunner(logger, metrics, cfg.Pipeline.StepTimeout)
	state, err := runner.Execute(ctx, sourcePath, steps)
	if err != nil {
		logger.Error("Run failed",
			slog.String("run_id", state.ID),
			slog.String("error", err.Error()))
		return 1
	}

	logger.Info("Run published",
		slog.String("run_id", state.ID),
		slog.String("artifact", paths.SiteFile(cfg.Pipeline.ArtifactName)),
		slog.String("manifest", paths.ManifestJSON))
	return 0
}

// assembleRun builds the step list for one run. A configured workbook or
// spreadsheet prepends a conversion step and moves the source to the
// converted file; otherwise the run reads the configured source directly.
func assembleRun(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) (string, []pipeline.Step, error) {
	var steps []pipeline.Step
	sourcePath := cfg.Source.File

	if cfg.Source.Workbook != "" || cfg.Sheets.SpreadsheetID != "" {
		conv := converter.New(logger, exporter.NewCSVWriter(paths), firstRune(cfg.Source.Delimiter))

		var client *converter.SheetsClient
		if cfg.Source.Workbook == "" {
			var err error
			client, err = converter.NewSheetsClient(ctx, cfg.Sheets, logger)
			if err != nil {
				return "", nil, fmt.Errorf("failed to create sheets client: %w", err)
			}
		}

		sourcePath = paths.SourceCSV
		steps = append(steps, pipeline.NewConvertStep(conv, client, cfg.Source.Workbook, cfg.Source.Sheet, sourcePath))
	}

	agg := aggregator.New(logger, aggregator.Config{Delimiter: firstRune(cfg.Source.Delimiter)})
	steps = append(steps,
		pipeline.NewAggregateStep(agg, paths.ArtifactFile(cfg.Pipeline.ArtifactName)).WithMetrics(metrics),
		pipeline.NewPublishStep(cfg.Pipeline.ArtifactName, paths.SiteDir, paths.ManifestJSON).WithMetrics(metrics),
	)

	return sourcePath, steps, nil
}

// firstRune returns the first rune of s, or a comma when s is empty.
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}
