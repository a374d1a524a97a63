// Package exporter provides file export functionality for the aggregation
// pipeline.
//
// This package contains two main components:
//
// CSVWriter: Delimited-text writing with optional UTF-8 BOM for spreadsheet
// compatibility, used by the converter to produce the aggregation source
// file.
//
// WriteFileAtomic: Temp-file-then-rename writes so readers of published
// artifacts never observe a partial document.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//
//	err := writer.WriteCSV("data.csv", exporter.WriteOptions{
//	    Headers: []string{"Value1", "Value2"},
//	    Records: rows,
//	})
package exporter
