package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeSchema          ErrorType = "SCHEMA"
	ErrTypeEmptyAfterClean ErrorType = "EMPTY_AFTER_CLEAN"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeNetwork         ErrorType = "NETWORK"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeConfig          ErrorType = "CONFIG"
	ErrTypeUnexpected      ErrorType = "UNEXPECTED"
)

// Messages surfaced through the reporting contract. The aggregate CLI
// prints these verbatim inside the {"error": ...} document, and
// downstream consumers match on the exact strings.
const (
	sourceNotFoundFormat   = "Error: Input file '%s' not found. Please ensure data.csv exists."
	missingColumnFormat    = "Error: Required column '%s' not found in '%s'."
	emptyAfterCleanMessage = "No valid numeric data found for processing after cleaning."
	unexpectedFormat       = "An unexpected error occurred: %v"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Constructors for the reporting contract

// NewSourceNotFoundError reports a missing input source file.
func NewSourceNotFoundError(path string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf(sourceNotFoundFormat, path), nil).
		WithContext("path", path)
}

// NewSchemaError reports a required column absent from the loaded table.
func NewSchemaError(field, path string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf(missingColumnFormat, field, path), nil).
		WithContext("field", field).
		WithContext("path", path)
}

// NewEmptyAfterCleanError reports that no rows survived numeric cleaning.
func NewEmptyAfterCleanError() *AppError {
	return NewAppError(ErrTypeEmptyAfterClean, emptyAfterCleanMessage, nil)
}

// NewUnexpectedError wraps any other failure for the reporting contract.
func NewUnexpectedError(cause error) *AppError {
	return NewAppError(ErrTypeUnexpected, fmt.Sprintf(unexpectedFormat, cause), cause)
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType carried by err, or ErrTypeUnexpected when
// err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeUnexpected
}

// UserMessage maps any error to the message shown in the reporting
// contract. The four contract kinds pass their message through verbatim;
// every other failure is folded into the unexpected-error format.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeNotFound, ErrTypeSchema, ErrTypeEmptyAfterClean, ErrTypeUnexpected:
			return appErr.Message
		}
	}
	return fmt.Sprintf(unexpectedFormat, err)
}
