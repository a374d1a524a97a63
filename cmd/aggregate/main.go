// Command aggregate computes the summary for one delimited source file
// and prints exactly one JSON document on stdout: the summary on success,
// an {"error": ...} payload on any failure. Logs never touch stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"tabsum/internal/aggregator"
	"tabsum/internal/config"
	"tabsum/internal/errors"
	"tabsum/internal/infrastructure"
	"tabsum/pkg/contracts/domain"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

// run executes the aggregation and returns the process exit code. Every
// failure, including configuration faults and recovered panics, is
// reported as an error payload on out before the non-zero code.
func run(ctx context.Context, args []string, out io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			writeErrorPayload(out, errors.NewUnexpectedError(fmt.Errorf("%v", r)))
			code = 1
		}
	}()

	fs := flag.NewFlagSet("aggregate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	source := fs.String("source", "", "delimited input file (defaults to the configured source file)")
	delimiter := fs.String("delimiter", "", "single-character field delimiter (defaults to the configured delimiter)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		writeErrorPayload(out, errors.NewUnexpectedError(err))
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		writeErrorPayload(out, errors.NewConfigError("failed to load configuration", err))
		return 1
	}

	// Stdout is the data channel. A config that points logs at stdout
	// would corrupt the output document, so it is overridden here.
	logCfg := cfg.Logging
	if logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	sourcePath := cfg.Source.File
	if *source != "" {
		sourcePath = *source
	}
	delim := firstRune(cfg.Source.Delimiter)
	if *delimiter != "" {
		delim = firstRune(*delimiter)
	}

	logger.InfoContext(ctx, "Starting aggregation",
		slog.String("source", sourcePath),
		slog.String("delimiter", string(delim)),
		slog.String("version", config.AppVersion))

	agg := aggregator.New(logger, aggregator.Config{Delimiter: delim})
	code = agg.Execute(ctx, sourcePath, out)

	logger.InfoContext(ctx, "Aggregation finished",
		slog.String("source", sourcePath),
		slog.Int("exit_code", code))
	return code
}

// writeErrorPayload emits the {"error": ...} document for failures that
// happen before the aggregator itself can report them.
func writeErrorPayload(out io.Writer, err error) {
	payload := domain.ErrorPayload{Error: errors.UserMessage(err)}
	if werr := domain.WriteJSON(out, payload); werr != nil {
		fmt.Fprintf(os.Stderr, "failed to write error payload: %v\n", werr)
	}
}

// firstRune returns the first rune of s, or a comma when s is empty.
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}
