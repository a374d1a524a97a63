package domain

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		summary  Summary
		wantJSON string
		wantErr  bool
	}{
		{
			name:     "grouped summary emits only the category mapping",
			summary:  NewGroupedSummary(map[string]float64{"A": 5, "B": 10}),
			wantJSON: `{"summary_by_category":{"A":5,"B":10}}`,
		},
		{
			name:     "grouped summary with no groups emits an empty mapping",
			summary:  NewGroupedSummary(nil),
			wantJSON: `{"summary_by_category":{}}`,
		},
		{
			name:     "overall summary emits totals and count",
			summary:  NewOverallSummary(10, 5, 2),
			wantJSON: `{"total_sum":10,"average_sum":5,"record_count":2}`,
		},
		{
			name:     "overall summary keeps fractional precision",
			summary:  NewOverallSummary(3, 1.5, 2),
			wantJSON: `{"total_sum":3,"average_sum":1.5,"record_count":2}`,
		},
		{
			name:    "zero value has no variant",
			summary: Summary{},
			wantErr: true,
		},
		{
			name:    "grouped kind without payload fails",
			summary: Summary{Kind: SummaryKindGrouped},
			wantErr: true,
		},
		{
			name:    "overall kind without payload fails",
			summary: Summary{Kind: SummaryKindOverall},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.summary)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(got))
		})
	}
}

func TestSummary_VariantsShareNoKeys(t *testing.T) {
	grouped, err := json.Marshal(NewGroupedSummary(map[string]float64{"A": 1}))
	require.NoError(t, err)

	overall, err := json.Marshal(NewOverallSummary(1, 1, 1))
	require.NoError(t, err)

	var groupedDoc, overallDoc map[string]interface{}
	require.NoError(t, json.Unmarshal(grouped, &groupedDoc))
	require.NoError(t, json.Unmarshal(overall, &overallDoc))

	for key := range groupedDoc {
		assert.NotContains(t, overallDoc, key)
	}
}

func TestWriteJSON_Indentation(t *testing.T) {
	tests := []struct {
		name string
		doc  interface{}
		want string
	}{
		{
			name: "overall summary document",
			doc:  NewOverallSummary(10, 5, 2),
			want: "{\n  \"total_sum\": 10,\n  \"average_sum\": 5,\n  \"record_count\": 2\n}\n",
		},
		{
			name: "grouped summary document with sorted keys",
			doc:  NewGroupedSummary(map[string]float64{"B": 10, "A": 5}),
			want: "{\n  \"summary_by_category\": {\n    \"A\": 5,\n    \"B\": 10\n  }\n}\n",
		},
		{
			name: "error payload document",
			doc:  ErrorPayload{Error: "No valid numeric data found for processing after cleaning."},
			want: "{\n  \"error\": \"No valid numeric data found for processing after cleaning.\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteJSON(&buf, tt.doc))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteJSON_Deterministic(t *testing.T) {
	summary := NewGroupedSummary(map[string]float64{
		"telecom":   12.5,
		"banking":   3.25,
		"industry":  7,
		"transport": 0.5,
	})

	var first, second bytes.Buffer
	require.NoError(t, WriteJSON(&first, summary))
	require.NoError(t, WriteJSON(&second, summary))

	assert.Equal(t, first.Bytes(), second.Bytes())
}
