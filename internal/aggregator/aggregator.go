// Package aggregator implements the summary computation over one delimited
// source file: load, schema check, numeric cleaning, and either per-category
// means or overall totals. Run reports failures as typed errors; Execute
// emits the reporting contract document on a writer.
package aggregator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tabsum/internal/dataset"
	"tabsum/internal/errors"
	"tabsum/internal/validation"
	"tabsum/pkg/contracts/domain"
)

// Config holds aggregation options.
type Config struct {
	// Delimiter separates fields in the source file.
	Delimiter rune
}

// DefaultConfig returns the standard comma-delimited configuration.
func DefaultConfig() Config {
	return Config{Delimiter: ','}
}

// Aggregator computes summaries for delimited source files.
type Aggregator struct {
	logger    *slog.Logger
	validator *validation.FileValidator
	delimiter rune
}

// New creates an aggregator with the given configuration.
func New(logger *slog.Logger, cfg Config) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}

	return &Aggregator{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		delimiter: cfg.Delimiter,
	}
}

// Result carries a successful run's summary plus the row accounting for
// logs and metrics.
type Result struct {
	Summary domain.Summary
	Loaded  int
	Kept    int
	Dropped int
}

// Run computes the summary for the source file at sourcePath. Every failure
// comes back as a typed error whose user message follows the reporting
// contract; panics are recovered into unexpected errors so callers always
// see an error value, never a fault.
func (a *Aggregator) Run(ctx context.Context, sourcePath string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.NewUnexpectedError(fmt.Errorf("%v", r))
			a.logger.ErrorContext(ctx, "recovered panic during aggregation",
				slog.Any("panic", r))
		}
	}()

	logger := a.logger.With(slog.String("source", sourcePath))
	logger.InfoContext(ctx, "starting aggregation")

	if err := a.validator.ValidateSource(sourcePath); err != nil {
		return nil, err
	}

	table, err := dataset.LoadCSV(sourcePath, a.delimiter)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load source table",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Required fields are checked in order; only the first missing one is
	// reported.
	if missing := table.MissingField(dataset.RequiredFields()...); missing != "" {
		logger.WarnContext(ctx, "required column missing",
			slog.String("column", missing))
		return nil, errors.NewSchemaError(missing, sourcePath)
	}

	cleaned := dataset.Clean(table)
	logger.InfoContext(ctx, "cleaned source table",
		slog.Int("loaded", cleaned.Loaded),
		slog.Int("kept", len(cleaned.Records)),
		slog.Int("dropped", cleaned.Dropped))

	if cleaned.Empty() {
		return nil, errors.NewEmptyAfterCleanError()
	}

	cleaned.DeriveSums()

	var summary domain.Summary
	if table.HasField(dataset.FieldCategory) {
		summary = groupedSummary(cleaned)
		logger.InfoContext(ctx, "aggregation complete",
			slog.String("summary", "grouped"),
			slog.Int("categories", len(summary.Grouped.SummaryByCategory)))
	} else {
		summary = overallSummary(cleaned)
		logger.InfoContext(ctx, "aggregation complete",
			slog.String("summary", "overall"),
			slog.Int("record_count", len(cleaned.Records)))
	}

	return &Result{
		Summary: summary,
		Loaded:  cleaned.Loaded,
		Kept:    len(cleaned.Records),
		Dropped: cleaned.Dropped,
	}, nil
}

// Execute runs the aggregation and emits the outcome on w following the
// reporting contract: exactly one JSON document, either the summary or an
// {"error": ...} payload. The returned exit code is 0 on success and 1 on
// any failure.
func (a *Aggregator) Execute(ctx context.Context, sourcePath string, w io.Writer) int {
	result, err := a.Run(ctx, sourcePath)
	if err == nil {
		werr := domain.WriteJSON(w, result.Summary)
		if werr == nil {
			return 0
		}
		a.logger.ErrorContext(ctx, "failed to encode summary",
			slog.String("error", werr.Error()))
		err = errors.NewUnexpectedError(werr)
	}

	payload := domain.ErrorPayload{Error: errors.UserMessage(err)}
	if werr := domain.WriteJSON(w, payload); werr != nil {
		// The data channel itself is broken; nothing more can be delivered
		a.logger.ErrorContext(ctx, "failed to write error payload",
			slog.String("error", werr.Error()))
	}
	return 1
}

// groupedSummary averages Sum per category. Category values are trimmed for
// grouping; records with a blank category carry no group key and are
// excluded.
func groupedSummary(ct *dataset.CleanedTable) domain.Summary {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, record := range ct.Records {
		category := strings.TrimSpace(record.Category)
		if category == "" {
			continue
		}
		sums[category] += record.Sum
		counts[category]++
	}

	byCategory := make(map[string]float64, len(sums))
	for category, total := range sums {
		byCategory[category] = total / float64(counts[category])
	}

	return domain.NewGroupedSummary(byCategory)
}

// overallSummary totals Sum across all records. The caller guarantees at
// least one record, so the mean is always defined.
func overallSummary(ct *dataset.CleanedTable) domain.Summary {
	var total float64
	for _, record := range ct.Records {
		total += record.Sum
	}

	count := len(ct.Records)
	return domain.NewOverallSummary(total, total/float64(count), count)
}
