package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"

	"tabsum/internal/config"
)

// CSVWriter provides delimited-text export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance. A nil paths value leaves
// relative output paths unresolved, which suits tests writing into temp dirs.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures delimited-text writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Delimiter rune // 0 means comma
	BOMPrefix bool // Add UTF-8 BOM for spreadsheet apps
}

// WriteCSV writes data to a delimited file with the given options. The file
// is replaced atomically so a concurrently running aggregation never reads
// a half-written source.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing delimited file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	var buf bytes.Buffer

	if options.BOMPrefix {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}

	writer := csv.NewWriter(&buf)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}

	return WriteFileAtomic(fullPath, buf.Bytes(), 0644)
}

// resolvePath resolves a relative output path to the data directory, where
// the aggregation looks for its source files.
func (w *CSVWriter) resolvePath(filePath string) string {
	if w.paths == nil || filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.DataFile(filePath)
}
