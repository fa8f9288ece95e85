// Package errors provides standardized error types for DataFrame and Series
// operations. Shape violations surface as DataFrameError values carrying the
// operation name, the column involved and an optional cause. Absent values
// are never errors.
package errors

import (
	"fmt"
)

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Op      string // Operation name (e.g., "New", "WithIndex", "LoadConfig")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *DataFrameError) Is(target error) bool {
	if df, ok := target.(*DataFrameError); ok {
		return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
	}
	return false
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Message: message,
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewLengthMismatchError creates an error for sequences whose lengths must
// agree. It wraps ErrMismatchedLength.
func NewLengthMismatchError(op, column, context string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: fmt.Sprintf("%s: expected length %d, got %d", context, expected, actual),
		Cause:   ErrMismatchedLength,
	}
}

// NewDuplicateColumnError creates an error for a column name given twice.
// It wraps ErrDuplicateColumn.
func NewDuplicateColumnError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Message: "duplicate column name",
		Cause:   ErrDuplicateColumn,
	}
}

// Predefined error variables for common cases
var (
	// ErrMismatchedLength indicates length mismatches in construction inputs
	ErrMismatchedLength = &DataFrameError{
		Op:      "validation",
		Message: "sequences must have the same length",
	}

	// ErrDuplicateColumn indicates a column name that occurs more than once
	ErrDuplicateColumn = &DataFrameError{
		Op:      "validation",
		Message: "column names must be unique",
	}
)
