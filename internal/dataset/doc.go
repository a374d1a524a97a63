// Package dataset provides the tabular input model shared by the aggregation
// pipeline. It loads delimited text into an in-memory table, checks the field
// schema, and cleans records down to the rows usable for numeric work.
//
// # Architecture
//
// The package is organized around two shapes:
//
// 1. Table: raw records exactly as read, every value still text
// 2. CleanedTable: records whose required fields survived numeric coercion
//
// # Usage
//
// Loading and cleaning a source file:
//
//	table, err := dataset.LoadCSV("data.csv", ',')
//	if err != nil {
//	    return err
//	}
//	if missing := table.MissingField(dataset.FieldValue1, dataset.FieldValue2); missing != "" {
//	    return fmt.Errorf("missing column %s", missing)
//	}
//	cleaned := dataset.Clean(table)
//
// # Coercion
//
// Cleaning is best-effort per field: a value that does not parse as a float
// becomes missing rather than an error, and records missing either required
// field are dropped. NaN parses but still counts as missing.
package dataset
