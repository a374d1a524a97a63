package converter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"tabsum/internal/exporter"
	"tabsum/internal/validation"
)

// Converter turns spreadsheet sources into the delimited file the
// aggregation core reads.
type Converter struct {
	logger    *slog.Logger
	writer    *exporter.CSVWriter
	validator *validation.FileValidator
	delimiter rune
}

// New creates a Converter. A nil logger falls back to the default and a
// zero delimiter means comma.
func New(logger *slog.Logger, writer *exporter.CSVWriter, delimiter rune) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Converter{
		logger:    logger,
		writer:    writer,
		validator: validation.NewFileValidator(logger),
		delimiter: delimiter,
	}
}

// ConvertWorkbook reads one sheet of a local workbook and writes it as a
// delimited file at outPath. An empty sheetName selects the first sheet.
func (c *Converter) ConvertWorkbook(ctx context.Context, workbookPath, sheetName, outPath string) error {
	if err := c.validator.ValidateWorkbook(workbookPath); err != nil {
		return err
	}

	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return fmt.Errorf("workbook %s has no sheets", workbookPath)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %q is empty", sheetName)
	}

	c.logger.InfoContext(ctx, "Converting workbook sheet",
		slog.String("workbook", workbookPath),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)))

	return c.write(ctx, outPath, rows[0], rows[1:])
}

// write normalizes the records against the header and hands the result to
// the exporter. The BOM keeps the converted file openable in spreadsheet
// apps; the dataset reader strips it on load.
func (c *Converter) write(ctx context.Context, outPath string, headers []string, rows [][]string) error {
	records := normalizeRows(len(headers), rows)

	if err := c.writer.WriteCSV(outPath, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		Delimiter: c.delimiter,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to write delimited output: %w", err)
	}

	c.logger.InfoContext(ctx, "Delimited output written",
		slog.String("output", outPath),
		slog.Int("record_count", len(records)))

	return nil
}

// normalizeRows pads short rows and truncates long ones so every record
// matches the header width. Workbook and Sheets responses both omit
// trailing empty cells.
func normalizeRows(width int, rows [][]string) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}
	return records
}
