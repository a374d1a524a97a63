package dataset

import (
	"math"
	"strconv"
	"strings"
)

// CleanedRecord is a record whose required fields survived numeric coercion.
// Sum stays zero until DeriveSums runs.
type CleanedRecord struct {
	Value1   float64
	Value2   float64
	Category string
	Sum      float64
}

// CleanedTable holds the records usable for numeric work plus the row
// accounting for logs and metrics.
type CleanedTable struct {
	Records []CleanedRecord
	// Loaded is the record count before cleaning.
	Loaded int
	// Dropped is the number of records removed for missing numeric values.
	Dropped int
}

// Empty reports whether no records survived cleaning.
func (ct *CleanedTable) Empty() bool {
	return len(ct.Records) == 0
}

// DeriveSums fills Sum on every record as Value1 + Value2.
func (ct *CleanedTable) DeriveSums() {
	for i := range ct.Records {
		ct.Records[i].Sum = ct.Records[i].Value1 + ct.Records[i].Value2
	}
}

// Clean coerces the required numeric fields on every record and drops the
// records where either fails to parse. Category values ride along untouched;
// records without a Category field carry the empty string.
func Clean(t *Table) *CleanedTable {
	cleaned := &CleanedTable{
		Records: make([]CleanedRecord, 0, len(t.Records)),
		Loaded:  len(t.Records),
	}

	for _, record := range t.Records {
		value1, ok1 := coerceFloat(record[FieldValue1])
		value2, ok2 := coerceFloat(record[FieldValue2])
		if !ok1 || !ok2 {
			cleaned.Dropped++
			continue
		}

		cleaned.Records = append(cleaned.Records, CleanedRecord{
			Value1:   value1,
			Value2:   value2,
			Category: record[FieldCategory],
		})
	}

	return cleaned
}

// coerceFloat parses a raw cell value as float64. NaN parses but still
// reports missing so it is dropped with the other unusable values. Infinities
// are valid numbers.
func coerceFloat(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}
