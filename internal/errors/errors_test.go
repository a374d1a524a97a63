package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "schema error type",
			errType:  ErrTypeSchema,
			expected: "SCHEMA",
		},
		{
			name:     "empty after clean error type",
			errType:  ErrTypeEmptyAfterClean,
			expected: "EMPTY_AFTER_CLEAN",
		},
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "network error type",
			errType:  ErrTypeNetwork,
			expected: "NETWORK",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
		{
			name:     "unexpected error type",
			errType:  ErrTypeUnexpected,
			expected: "UNEXPECTED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeSchema,
				Message: "Required column missing",
				Cause:   nil,
			},
			wantMessage: "[SCHEMA] Required column missing",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "Failed to read delimited file",
				Cause:   fmt.Errorf("record on line 3: wrong number of fields"),
			},
			wantMessage: "[PARSING] Failed to read delimited file: record on line 3: wrong number of fields",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	t.Run("unwrap with cause", func(t *testing.T) {
		cause := fmt.Errorf("original error")
		appErr := NewParsingError("Parse failed", cause)
		assert.Equal(t, cause, appErr.Unwrap())
	})

	t.Run("unwrap without cause", func(t *testing.T) {
		appErr := NewValidationError("Validation failed")
		assert.Nil(t, appErr.Unwrap())
	})
}

func TestAppError_WithContext(t *testing.T) {
	tests := []struct {
		name          string
		appError      *AppError
		key           string
		value         interface{}
		expectedValue interface{}
	}{
		{
			name:          "add string context",
			appError:      NewStorageError("Write failed", nil),
			key:           "path",
			value:         "reports/summary.json",
			expectedValue: "reports/summary.json",
		},
		{
			name:          "add integer context",
			appError:      NewParsingError("Parse failed", nil),
			key:           "row",
			value:         42,
			expectedValue: 42,
		},
		{
			name: "add context to error with nil context",
			appError: &AppError{
				Type:    ErrTypeConfig,
				Message: "Config error",
				Context: nil,
			},
			key:           "file",
			value:         "config.yaml",
			expectedValue: "config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.WithContext(tt.key, tt.value)

			// Should return the same instance
			assert.Same(t, tt.appError, result)

			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.expectedValue, result.Context[tt.key])
			assert.NotNil(t, result.Context)
		})
	}
}

func TestContractConstructors(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "source not found names the missing path",
			build:    func() *AppError { return NewSourceNotFoundError("data.csv") },
			wantType: ErrTypeNotFound,
			wantMsg:  "Error: Input file 'data.csv' not found. Please ensure data.csv exists.",
		},
		{
			name:     "source not found keeps the hint for non-default paths",
			build:    func() *AppError { return NewSourceNotFoundError("input/other.csv") },
			wantType: ErrTypeNotFound,
			wantMsg:  "Error: Input file 'input/other.csv' not found. Please ensure data.csv exists.",
		},
		{
			name:     "schema error names field and path",
			build:    func() *AppError { return NewSchemaError("Value1", "data.csv") },
			wantType: ErrTypeSchema,
			wantMsg:  "Error: Required column 'Value1' not found in 'data.csv'.",
		},
		{
			name:     "schema error for second required field",
			build:    func() *AppError { return NewSchemaError("Value2", "data.csv") },
			wantType: ErrTypeSchema,
			wantMsg:  "Error: Required column 'Value2' not found in 'data.csv'.",
		},
		{
			name:     "empty after clean carries the fixed message",
			build:    func() *AppError { return NewEmptyAfterCleanError() },
			wantType: ErrTypeEmptyAfterClean,
			wantMsg:  "No valid numeric data found for processing after cleaning.",
		},
		{
			name:     "unexpected error embeds the cause details",
			build:    func() *AppError { return NewUnexpectedError(errors.New("boom")) },
			wantType: ErrTypeUnexpected,
			wantMsg:  "An unexpected error occurred: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found passes through verbatim",
			err:  NewSourceNotFoundError("data.csv"),
			want: "Error: Input file 'data.csv' not found. Please ensure data.csv exists.",
		},
		{
			name: "schema passes through verbatim",
			err:  NewSchemaError("Value2", "data.csv"),
			want: "Error: Required column 'Value2' not found in 'data.csv'.",
		},
		{
			name: "empty after clean passes through verbatim",
			err:  NewEmptyAfterCleanError(),
			want: "No valid numeric data found for processing after cleaning.",
		},
		{
			name: "unexpected passes through verbatim",
			err:  NewUnexpectedError(errors.New("disk gone")),
			want: "An unexpected error occurred: disk gone",
		},
		{
			name: "wrapped contract error is still recognized",
			err:  fmt.Errorf("running aggregation: %w", NewEmptyAfterCleanError()),
			want: "No valid numeric data found for processing after cleaning.",
		},
		{
			name: "non-contract app error is folded into the unexpected format",
			err:  NewParsingError("Failed to read delimited file", errors.New("bad quoting")),
			want: "An unexpected error occurred: [PARSING] Failed to read delimited file: bad quoting",
		},
		{
			name: "plain error is folded into the unexpected format",
			err:  errors.New("broken pipe"),
			want: "An unexpected error occurred: broken pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "app error reports its own type",
			err:  NewSchemaError("Value1", "data.csv"),
			want: ErrTypeSchema,
		},
		{
			name: "wrapped app error reports the inner type",
			err:  fmt.Errorf("wrapped: %w", NewEmptyAfterCleanError()),
			want: ErrTypeEmptyAfterClean,
		},
		{
			name: "plain error defaults to unexpected",
			err:  errors.New("boom"),
			want: ErrTypeUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestAppError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is reaches the cause", func(t *testing.T) {
		cause := fmt.Errorf("underlying read failure")
		appErr := NewUnexpectedError(cause)

		assert.True(t, errors.Is(appErr, cause))
		assert.False(t, errors.Is(appErr, errors.New("other")))
	})

	t.Run("errors.As finds AppError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("step failed: %w", NewSourceNotFoundError("data.csv"))

		var appErr *AppError
		require.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, ErrTypeNotFound, appErr.Type)
		assert.Equal(t, "data.csv", appErr.Context["path"])
	})

	t.Run("nested app errors unwrap in order", func(t *testing.T) {
		root := fmt.Errorf("root cause")
		parseErr := NewParsingError("Row parse failed", root)
		topErr := NewUnexpectedError(parseErr)

		assert.True(t, errors.Is(topErr, parseErr))
		assert.True(t, errors.Is(topErr, root))

		var appErr *AppError
		require.True(t, errors.As(topErr, &appErr))
		assert.Equal(t, ErrTypeUnexpected, appErr.Type)
	})
}
