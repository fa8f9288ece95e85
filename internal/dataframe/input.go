package dataframe

import (
	"fmt"

	"github.com/paveg/lazyframe/internal/errors"
	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/paveg/lazyframe/internal/series"
	"github.com/paveg/lazyframe/internal/validation"
)

// Field is one named value of a row object.
type Field struct {
	Name  string
	Value any
}

// Row is a row object: named values in order.
type Row []Field

// Get returns the value of the named field.
func (r Row) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return sequence.Missing, false
}

// KeyedRow is a row object labeled with its index key.
type KeyedRow struct {
	Key any
	Row Row
}

// Column is a named column of values.
type Column struct {
	Name   string
	Values []any
}

// Input is one of the accepted construction shapes: Objects, Rows, Pairs or
// Columns.
type Input interface {
	normalize() (*normalized, error)
}

// Objects builds a DataFrame from row objects. The columns are the field
// names in first-seen order and the index defaults to 0..n-1.
type Objects []Row

// Rows builds a DataFrame from positional rows. A nil Index defaults to
// 0..n-1.
type Rows struct {
	ColumnNames []string
	Rows        [][]any
	Index       []any
}

// Pairs builds a DataFrame from row objects with explicit index keys.
type Pairs []KeyedRow

// Columns builds a DataFrame from named columns of equal length. A nil
// Index defaults to 0..n-1.
type Columns struct {
	Columns []Column
	Index   []any
}

// normalized is the canonical shape every Input resolves to.
type normalized struct {
	order  []string
	values map[string][]any
	keys   []any
	rows   int
}

func (n *normalized) indexOf() *index.Index {
	if n.keys == nil {
		return index.Range(n.rows)
	}
	return index.New(n.keys)
}

// New creates a DataFrame from one of the construction shapes. Shape
// violations and a nil input are reported immediately as
// *errors.DataFrameError.
func New(input Input, opts ...Option) (*DataFrame, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("New", "input must not be nil; use Empty for a DataFrame without rows")
	}
	st := newSettings(opts)

	return st.tracer.TraceOperation("New", nil, map[string]string{"input": inputName(input)}, func() (*DataFrame, error) {
		n, err := input.normalize()
		if err != nil {
			return nil, err
		}

		df := &DataFrame{
			order:    n.order,
			columns:  make(map[string]*series.Series, len(n.order)),
			index:    n.indexOf(),
			settings: st,
		}
		for _, name := range n.order {
			df.columns[name] = df.column(sequence.FromSlice(n.values[name]))
		}
		return df, nil
	})
}

func inputName(input Input) string {
	switch input.(type) {
	case Objects:
		return "objects"
	case Rows:
		return "rows"
	case Pairs:
		return "pairs"
	case Columns:
		return "columns"
	default:
		return fmt.Sprintf("%T", input)
	}
}

func (o Objects) normalize() (*normalized, error) {
	return fromObjects([]Row(o), nil)
}

func (p Pairs) normalize() (*normalized, error) {
	objects := make([]Row, len(p))
	keys := make([]any, len(p))
	for i, pair := range p {
		objects[i] = pair.Row
		keys[i] = pair.Key
	}
	return fromObjects(objects, keys)
}

func fromObjects(objects []Row, keys []any) (*normalized, error) {
	n := &normalized{
		order:  make([]string, 0),
		values: make(map[string][]any),
		keys:   keys,
		rows:   len(objects),
	}

	for i, row := range objects {
		seen := make(map[string]struct{}, len(row))
		for _, field := range row {
			if _, dup := seen[field.Name]; dup {
				return nil, errors.NewValidationError("New", field.Name, fmt.Sprintf("row %d has the field twice", i))
			}
			seen[field.Name] = struct{}{}

			column, ok := n.values[field.Name]
			if !ok {
				column = missingColumn(len(objects))
				n.values[field.Name] = column
				n.order = append(n.order, field.Name)
			}
			column[i] = field.Value
		}
	}
	return n, nil
}

func missingColumn(rows int) []any {
	column := make([]any, rows)
	for i := range column {
		column[i] = sequence.Missing
	}
	return column
}

func (r Rows) normalize() (*normalized, error) {
	err := validation.NewCompoundValidator(
		validation.NewUniqueNamesValidator("New", r.ColumnNames...),
		validation.NewRowWidthValidator(len(r.ColumnNames), r.Rows, "New"),
		indexValidator(r.Index, len(r.Rows)),
	).Validate()
	if err != nil {
		return nil, err
	}

	n := &normalized{
		order:  append([]string{}, r.ColumnNames...),
		values: make(map[string][]any, len(r.ColumnNames)),
		keys:   r.Index,
		rows:   len(r.Rows),
	}
	for j, name := range r.ColumnNames {
		column := make([]any, len(r.Rows))
		for i, row := range r.Rows {
			column[i] = row[j]
		}
		n.values[name] = column
	}
	return n, nil
}

func (c Columns) normalize() (*normalized, error) {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}

	rows := 0
	if len(c.Columns) > 0 {
		rows = len(c.Columns[0].Values)
	} else if c.Index != nil {
		rows = len(c.Index)
	}

	validators := []validation.Validator{validation.NewUniqueNamesValidator("New", names...)}
	for _, col := range c.Columns {
		validators = append(validators,
			validation.NewLengthValidator(rows, len(col.Values), "New", "column values").ForColumn(col.Name))
	}
	validators = append(validators, indexValidator(c.Index, rows))
	if err := validation.NewCompoundValidator(validators...).Validate(); err != nil {
		return nil, err
	}

	n := &normalized{
		order:  names,
		values: make(map[string][]any, len(c.Columns)),
		keys:   c.Index,
		rows:   rows,
	}
	for _, col := range c.Columns {
		n.values[col.Name] = append([]any(nil), col.Values...)
	}
	return n, nil
}

func indexValidator(keys []any, rows int) validation.Validator {
	if keys == nil {
		return validation.NewCompoundValidator()
	}
	return validation.NewLengthValidator(rows, len(keys), "New", "index")
}
