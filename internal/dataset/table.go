package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"tabsum/internal/errors"
)

// Field names recognized by the aggregation schema. Matching is exact and
// case-sensitive everywhere.
const (
	FieldValue1   = "Value1"
	FieldValue2   = "Value2"
	FieldCategory = "Category"
)

// RequiredFields returns the numeric fields every usable record must carry,
// in the order they are checked.
func RequiredFields() []string {
	return []string{FieldValue1, FieldValue2}
}

// Record is one row of tabular input, keyed by field name. Values are the
// raw text read from the source.
type Record map[string]string

// Table is an ordered collection of records sharing one field schema.
type Table struct {
	// Fields preserves the header order from the source.
	Fields  []string
	Records []Record
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCSV reads the delimited file at path into a Table.
func LoadCSV(path string, delimiter rune) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open source file", err)
	}
	defer file.Close()

	return ReadTable(file, delimiter)
}

// ReadTable parses delimited text into a Table. The first row is the header;
// every data row must match its width. A leading UTF-8 BOM is skipped so
// spreadsheet exports load cleanly.
func ReadTable(r io.Reader, delimiter rune) (*Table, error) {
	buffered := bufio.NewReader(r)
	if lead, _ := buffered.Peek(len(utf8BOM)); bytes.Equal(lead, utf8BOM) {
		if _, err := buffered.Discard(len(utf8BOM)); err != nil {
			return nil, errors.NewParsingError("failed to read source file", err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("source file has no header row", nil)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header row", err)
	}

	table := &Table{Fields: header}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read data row", err)
		}

		record := make(Record, len(header))
		for i, name := range header {
			record[name] = row[i]
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// HasField reports whether name appears in the table's field schema.
func (t *Table) HasField(name string) bool {
	for _, field := range t.Fields {
		if field == name {
			return true
		}
	}
	return false
}

// MissingField returns the first of names absent from the field schema, or
// the empty string when all are present. Names are checked in the order
// given so callers get a deterministic first failure.
func (t *Table) MissingField(names ...string) string {
	for _, name := range names {
		if !t.HasField(name) {
			return name
		}
	}
	return ""
}
