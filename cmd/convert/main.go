// Command convert produces the delimited source file the aggregation
// reads, either from a local workbook or from a remote worksheet. It
// writes logs only; the converted file is its sole output.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"tabsum/internal/config"
	"tabsum/internal/converter"
	"tabsum/internal/exporter"
	"tabsum/internal/infrastructure"
)

const (
	modeWorkbook = "workbook"
	modeRemote   = "remote"
)

func main() {
	workbook := flag.String("workbook", "", "local workbook (.xlsx) to convert (defaults to the configured workbook)")
	sheet := flag.String("sheet", "", "worksheet name (defaults to the configured sheet, then the first sheet)")
	out := flag.String("out", "", "output path for the delimited file (defaults to the data directory source file)")
	flag.Parse()

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
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *workbook == "" {
		*workbook = cfg.Source.Workbook
	}
	if *sheet == "" {
		*sheet = cfg.Source.Sheet
	}
	if *out == "" {
		*out = paths.SourceCSV
	}

	mode := conversionMode(*workbook, cfg.Sheets.SpreadsheetID)
	if mode == "" {
		logger.Error("No conversion source configured: set a workbook path or a spreadsheet id")
		os.Exit(1)
	}

	logger.Info("Starting conversion",
		slog.String("mode", mode),
		slog.String("workbook", *workbook),
		slog.String("sheet", *sheet),
		slog.String("output", *out),
		slog.String("version", config.AppVersion))

	ctx := context.Background()
	conv := converter.New(logger, exporter.NewCSVWriter(paths), firstRune(cfg.Source.Delimiter))

	switch mode {
	case modeWorkbook:
		err = conv.ConvertWorkbook(ctx, *workbook, *sheet, *out)
	case modeRemote:
		client, cerr := converter.NewSheetsClient(ctx, cfg.Sheets, logger)
		if cerr != nil {
			logger.Error("Failed to create sheets client", slog.String("error", cerr.Error()))
			os.Exit(1)
		}
		err = conv.ConvertRemote(ctx, client, *out)
	}
	if err != nil {
		logger.Error("Conversion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Conversion complete", slog.String("output", *out))
}

// conversionMode selects how the source is produced. A workbook path wins
// over a configured spreadsheet so local files can override the remote
// setup without editing config.
func conversionMode(workbook, spreadsheetID string) string {
	switch {
	case workbook != "":
		return modeWorkbook
	case spreadsheetID != "":
		return modeRemote
	default:
		return ""
	}
}

// firstRune returns the first rune of s, or a comma when s is empty.
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}
