// Package validation provides the shape checks run when DataFrames and Series
// are constructed. Each validator reports the first violation it finds as a
// DataFrameError; absent values are never a validation failure.
package validation

import (
	"strconv"

	"github.com/paveg/lazyframe/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// LengthValidator validates that a sequence has the expected length
type LengthValidator struct {
	expected int
	actual   int
	op       string
	column   string
	context  string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, context string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		context:  context,
	}
}

// ForColumn attributes a length violation to a column.
func (v *LengthValidator) ForColumn(column string) *LengthValidator {
	v.column = column
	return v
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewLengthMismatchError(v.op, v.column, v.context, v.expected, v.actual)
	}
	return nil
}

// UniqueNamesValidator validates that no name occurs twice
type UniqueNamesValidator struct {
	names []string
	op    string
}

// NewUniqueNamesValidator creates a validator for column name uniqueness
func NewUniqueNamesValidator(op string, names ...string) *UniqueNamesValidator {
	return &UniqueNamesValidator{
		names: names,
		op:    op,
	}
}

// Validate reports the first repeated name
func (v *UniqueNamesValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.names))
	for _, name := range v.names {
		if _, dup := seen[name]; dup {
			return errors.NewDuplicateColumnError(v.op, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// RowWidthValidator validates that every row has one value per column
type RowWidthValidator struct {
	width int
	rows  [][]any
	op    string
}

// NewRowWidthValidator creates a validator for row widths
func NewRowWidthValidator(width int, rows [][]any, op string) *RowWidthValidator {
	return &RowWidthValidator{
		width: width,
		rows:  rows,
		op:    op,
	}
}

// Validate checks every row against the column count
func (v *RowWidthValidator) Validate() error {
	for i, row := range v.rows {
		if len(row) != v.width {
			return errors.NewLengthMismatchError(v.op, "", rowContext(i), v.width, len(row))
		}
	}
	return nil
}

func rowContext(i int) string {
	return "row " + strconv.Itoa(i) + " width"
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, context string) error {
	return NewLengthValidator(expected, actual, op, context).Validate()
}
