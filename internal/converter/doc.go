// Package converter produces the delimited source file consumed by the
// aggregation core. It reads either a local spreadsheet workbook or a
// remote Google Sheets range and writes the rows through the exporter,
// so the output file appears atomically.
//
// Cell values pass through as text. Coercion and row cleaning belong to
// the dataset package; the converter's only normalization is padding or
// truncating records to the header width so the output is rectangular.
//
// Usage:
//
//	conv := converter.New(logger, exporter.NewCSVWriter(paths), ',')
//	if err := conv.ConvertWorkbook(ctx, "report.xlsx", "", "data.csv"); err != nil {
//		log.Fatal(err)
//	}
package converter
