package domain

import (
	"encoding/json"
	"fmt"
	"io"
)

// SummaryKind identifies which variant of the Summary union is populated.
type SummaryKind string

const (
	// SummaryKindGrouped is the per-category mean breakdown, produced when
	// the input schema carries a Category column.
	SummaryKindGrouped SummaryKind = "grouped"

	// SummaryKindOverall is the whole-table total/average/count record,
	// produced when no Category column is present.
	SummaryKindOverall SummaryKind = "overall"
)

// GroupedSummary maps each Category value to the arithmetic mean of the
// derived Sum (Value1 + Value2) within that group.
type GroupedSummary struct {
	SummaryByCategory map[string]float64 `json:"summary_by_category"`
}

// OverallSummary describes the whole cleaned table when no grouping
// column exists.
type OverallSummary struct {
	TotalSum    float64 `json:"total_sum"`
	AverageSum  float64 `json:"average_sum"`
	RecordCount int     `json:"record_count"`
}

// Summary is the aggregation result. It is a two-variant union: exactly
// one of Grouped or Overall is populated, selected by Kind. The union is
// the Single Source of Truth for the published document shape; every
// exporter and API consumer dispatches on it rather than on loose maps.
//
// Construct values through NewGroupedSummary or NewOverallSummary;
// serializing an inconsistent value fails rather than emitting a
// half-formed document.
type Summary struct {
	Kind    SummaryKind
	Grouped *GroupedSummary
	Overall *OverallSummary
}

// NewGroupedSummary wraps a category-to-mean mapping as a Summary.
// A nil mapping is normalized to an empty one so the serialized document
// carries {} rather than null.
func NewGroupedSummary(byCategory map[string]float64) Summary {
	if byCategory == nil {
		byCategory = make(map[string]float64)
	}
	return Summary{
		Kind:    SummaryKindGrouped,
		Grouped: &GroupedSummary{SummaryByCategory: byCategory},
	}
}

// NewOverallSummary wraps whole-table statistics as a Summary.
func NewOverallSummary(totalSum, averageSum float64, recordCount int) Summary {
	return Summary{
		Kind: SummaryKindOverall,
		Overall: &OverallSummary{
			TotalSum:    totalSum,
			AverageSum:  averageSum,
			RecordCount: recordCount,
		},
	}
}

// MarshalJSON emits the populated variant only. The two shapes share no
// keys, so consumers can dispatch on the presence of summary_by_category.
func (s Summary) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SummaryKindGrouped:
		if s.Grouped == nil {
			return nil, fmt.Errorf("grouped summary has no payload")
		}
		return json.Marshal(s.Grouped)
	case SummaryKindOverall:
		if s.Overall == nil {
			return nil, fmt.Errorf("overall summary has no payload")
		}
		return json.Marshal(s.Overall)
	default:
		return nil, fmt.Errorf("unknown summary kind %q", s.Kind)
	}
}

// ErrorPayload is the error-as-data document: failures are reported as
// JSON on the same output stream as results, never as a raw process
// fault.
type ErrorPayload struct {
	Error string `json:"error"`
}

// WriteJSON writes v to w as a single JSON document with 2-space
// indentation and a trailing newline. Map keys serialize in sorted
// order, which keeps repeated runs over unchanged input byte-identical.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
