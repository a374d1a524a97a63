package aggregator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabsum/internal/errors"
	"tabsum/pkg/contracts/domain"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAggregator_Run_OverallSummary(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2\n1,2\n3,4\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryKindOverall, result.Summary.Kind)
	require.NotNil(t, result.Summary.Overall)
	assert.Equal(t, 10.0, result.Summary.Overall.TotalSum)
	assert.Equal(t, 5.0, result.Summary.Overall.AverageSum)
	assert.Equal(t, 2, result.Summary.Overall.RecordCount)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 2, result.Kept)
	assert.Zero(t, result.Dropped)
}

func TestAggregator_Run_GroupedSummary(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2,Category\n1,2,A\n3,4,A\n5,5,B\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, domain.SummaryKindGrouped, result.Summary.Kind)
	require.NotNil(t, result.Summary.Grouped)
	assert.Equal(t, map[string]float64{"A": 5.0, "B": 10.0}, result.Summary.Grouped.SummaryByCategory)
}

func TestAggregator_Run_DropsNonNumericRows(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2\nx,y\n1,2\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)

	require.NotNil(t, result.Summary.Overall)
	assert.Equal(t, 3.0, result.Summary.Overall.TotalSum)
	assert.Equal(t, 3.0, result.Summary.Overall.AverageSum)
	assert.Equal(t, 1, result.Summary.Overall.RecordCount)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Kept)
	assert.Equal(t, 1, result.Dropped)
}

func TestAggregator_Run_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		content     string
		missingFile bool
		wantType    errors.ErrorType
		wantMessage func(path string) string
	}{
		{
			name:        "source file missing",
			missingFile: true,
			wantType:    errors.ErrTypeNotFound,
			wantMessage: func(path string) string {
				return fmt.Sprintf("Error: Input file '%s' not found. Please ensure data.csv exists.", path)
			},
		},
		{
			name:     "Value1 column missing",
			content:  "x,y\n1,2\n",
			wantType: errors.ErrTypeSchema,
			wantMessage: func(path string) string {
				return fmt.Sprintf("Error: Required column 'Value1' not found in '%s'.", path)
			},
		},
		{
			name:     "Value2 column missing",
			content:  "Value1,Other\n1,2\n",
			wantType: errors.ErrTypeSchema,
			wantMessage: func(path string) string {
				return fmt.Sprintf("Error: Required column 'Value2' not found in '%s'.", path)
			},
		},
		{
			name:     "all rows invalid",
			content:  "Value1,Value2\nx,y\n",
			wantType: errors.ErrTypeEmptyAfterClean,
			wantMessage: func(string) string {
				return "No valid numeric data found for processing after cleaning."
			},
		},
		{
			name:     "header only",
			content:  "Value1,Value2\n",
			wantType: errors.ErrTypeEmptyAfterClean,
			wantMessage: func(string) string {
				return "No valid numeric data found for processing after cleaning."
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := New(slog.Default(), DefaultConfig())

			var path string
			if tt.missingFile {
				path = filepath.Join(t.TempDir(), "data.csv")
			} else {
				path = writeSource(t, tt.content)
			}

			result, err := agg.Run(ctx, path)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantType, errors.TypeOf(err))
			assert.Equal(t, tt.wantMessage(path), errors.UserMessage(err))
		})
	}
}

func TestAggregator_Run_ParseFailures(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())

	tests := []struct {
		name    string
		content string
	}{
		{name: "ragged row", content: "Value1,Value2\n1,2,3\n"},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.content)

			_, err := agg.Run(ctx, path)
			require.Error(t, err)
			assert.Equal(t, errors.ErrTypeParsing, errors.TypeOf(err))
			assert.Contains(t, errors.UserMessage(err), "An unexpected error occurred:")
		})
	}
}

func TestAggregator_Run_BlankCategoriesExcluded(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())

	t.Run("blank category rows dropped from grouping", func(t *testing.T) {
		path := writeSource(t, "Value1,Value2,Category\n1,2,A\n3,4,\n")

		result, err := agg.Run(ctx, path)
		require.NoError(t, err)
		require.NotNil(t, result.Summary.Grouped)
		assert.Equal(t, map[string]float64{"A": 3.0}, result.Summary.Grouped.SummaryByCategory)
	})

	t.Run("category values trimmed before grouping", func(t *testing.T) {
		path := writeSource(t, "Value1,Value2,Category\n1,2, A \n3,4,A\n")

		result, err := agg.Run(ctx, path)
		require.NoError(t, err)
		require.NotNil(t, result.Summary.Grouped)
		assert.Equal(t, map[string]float64{"A": 5.0}, result.Summary.Grouped.SummaryByCategory)
	})

	t.Run("all categories blank yields empty grouping", func(t *testing.T) {
		path := writeSource(t, "Value1,Value2,Category\n1,2,\n3,4, \n")

		result, err := agg.Run(ctx, path)
		require.NoError(t, err)
		require.NotNil(t, result.Summary.Grouped)
		assert.Empty(t, result.Summary.Grouped.SummaryByCategory)
	})
}

func TestAggregator_Run_ExtraColumnsIgnored(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2,Note\n1,2,first\n3,4,second\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)

	// Only a column named exactly Category triggers grouping
	assert.Equal(t, domain.SummaryKindOverall, result.Summary.Kind)
	assert.Equal(t, 2, result.Summary.Overall.RecordCount)
}

func TestAggregator_Run_CustomDelimiter(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), Config{Delimiter: ';'})
	path := writeSource(t, "Value1;Value2\n1;2\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Summary.Overall.TotalSum)
}

func TestAggregator_Run_FullPrecision(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2\n1.1,2.2\n")

	result, err := agg.Run(ctx, path)
	require.NoError(t, err)

	// No rounding anywhere: the sum carries full float64 precision
	assert.Equal(t, 1.1+2.2, result.Summary.Overall.TotalSum)
	assert.Equal(t, 1.1+2.2, result.Summary.Overall.AverageSum)
}

func TestAggregator_Execute_Success(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2\n1,2\n3,4\n")

	var out bytes.Buffer
	code := agg.Execute(ctx, path, &out)

	assert.Zero(t, code)
	assert.Equal(t, "{\n  \"total_sum\": 10,\n  \"average_sum\": 5,\n  \"record_count\": 2\n}\n", out.String())
}

func TestAggregator_Execute_GroupedOrdering(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	// Categories arrive out of order; output keys are sorted
	path := writeSource(t, "Value1,Value2,Category\n5,5,B\n1,2,A\n3,4,A\n")

	var out bytes.Buffer
	code := agg.Execute(ctx, path, &out)

	assert.Zero(t, code)
	assert.Equal(t, "{\n  \"summary_by_category\": {\n    \"A\": 5,\n    \"B\": 10\n  }\n}\n", out.String())
}

func TestAggregator_Execute_ErrorPayload(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := filepath.Join(t.TempDir(), "data.csv")

	var out bytes.Buffer
	code := agg.Execute(ctx, path, &out)

	assert.Equal(t, 1, code)
	want := fmt.Sprintf("{\n  \"error\": \"Error: Input file '%s' not found. Please ensure data.csv exists.\"\n}\n", path)
	assert.Equal(t, want, out.String())
}

func TestAggregator_Execute_Idempotent(t *testing.T) {
	ctx := context.Background()
	agg := New(slog.Default(), DefaultConfig())
	path := writeSource(t, "Value1,Value2,Category\n1,2,A\n3,4,B\n5,6,A\n")

	var first, second bytes.Buffer
	require.Zero(t, agg.Execute(ctx, path, &first))
	require.Zero(t, agg.Execute(ctx, path, &second))

	assert.Equal(t, first.Bytes(), second.Bytes())
}
