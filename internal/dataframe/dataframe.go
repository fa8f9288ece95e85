// Package dataframe provides the indexed, column-oriented table built on
// Series.
//
// A DataFrame holds an ordered list of unique column names, one Series per
// column and a single row Index shared by every column. Columns hold Missing
// where a row has no value. DataFrames are immutable: mutators return new
// frames that share unchanged column Series with the receiver.
package dataframe

import (
	"fmt"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/lazyframe/internal/common"
	"github.com/paveg/lazyframe/internal/config"
	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/paveg/lazyframe/internal/series"
)

const maxStringRows = 10

// DataFrame represents a table of named columns sharing one row index
type DataFrame struct {
	order   []string
	columns map[string]*series.Series
	index   *index.Index
	baked   bool
	settings
}

type settings struct {
	cfg       *config.Config
	allocator memory.Allocator
	tracer    *Tracer
}

// Option configures DataFrame construction.
type Option func(*settings)

// WithConfig overrides the global configuration for this DataFrame and
// every frame derived from it.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.cfg = &cfg
	}
}

// WithAllocator sets the Arrow allocator used when columns are baked.
func WithAllocator(mem memory.Allocator) Option {
	return func(s *settings) {
		s.allocator = mem
	}
}

// WithTracer records traced operations of this DataFrame and every frame
// derived from it.
func WithTracer(t *Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.tracer == nil {
		cfg := s.config()
		if cfg.TraceOperations {
			s.tracer = NewTracer(TraceConfig{Enabled: true, Logger: traceLogger(cfg)})
		}
	}
	return s
}

func (s settings) config() config.Config {
	if s.cfg != nil {
		return *s.cfg
	}
	return config.GetGlobalConfig()
}

func (s settings) seriesOptions() []series.Option {
	opts := make([]series.Option, 0, 2)
	if s.cfg != nil {
		opts = append(opts, series.WithConfig(*s.cfg))
	}
	if s.allocator != nil {
		opts = append(opts, series.WithAllocator(s.allocator))
	}
	return opts
}

// Empty returns a DataFrame without rows or columns.
func Empty(opts ...Option) *DataFrame {
	return &DataFrame{
		order:    []string{},
		columns:  map[string]*series.Series{},
		index:    index.Empty(),
		baked:    true,
		settings: newSettings(opts),
	}
}

func (df *DataFrame) derive(order []string, columns map[string]*series.Series, idx *index.Index) *DataFrame {
	return &DataFrame{
		order:    order,
		columns:  columns,
		index:    idx,
		settings: df.settings,
	}
}

// column wraps values as a column over the frame's row index.
func (df *DataFrame) column(values *sequence.Sequence) *series.Series {
	return series.FromSequence(df.index, values, df.seriesOptions()...)
}

// GetColumnNames returns the column names in order
func (df *DataFrame) GetColumnNames() []string {
	return slices.Clone(df.order)
}

// GetIndex returns the shared row index
func (df *DataFrame) GetIndex() *index.Index {
	return df.index
}

// Count returns the number of rows
func (df *DataFrame) Count() int {
	return df.index.Len()
}

// HasSeries reports whether the DataFrame has a column named name
func (df *DataFrame) HasSeries(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Baked reports whether every column lives in owned storage
func (df *DataFrame) Baked() bool {
	return df.baked
}

// Tracer returns the tracer recording this DataFrame's operations, if any.
func (df *DataFrame) Tracer() *Tracer {
	return df.tracer
}

// ToRows returns every row as values in column order.
func (df *DataFrame) ToRows() [][]any {
	n := df.Count()
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, len(df.order))
	}
	for j, name := range df.order {
		for i, v := range df.columns[name].ToArray() {
			if i < n {
				rows[i][j] = v
			}
		}
	}
	return rows
}

// ToArray returns every row as an object. Missing values are left out, so
// a row only lists the columns it has a value for.
func (df *DataFrame) ToArray() []Row {
	rows := df.ToRows()
	objects := make([]Row, len(rows))
	for i, values := range rows {
		objects[i] = df.toObject(values)
	}
	return objects
}

// ToPairs returns every row object together with its index key.
func (df *DataFrame) ToPairs() []KeyedRow {
	keys := df.index.ToArray()
	rows := df.ToRows()
	pairs := make([]KeyedRow, len(rows))
	for i, values := range rows {
		pairs[i] = KeyedRow{Key: keys[i], Row: df.toObject(values)}
	}
	return pairs
}

func (df *DataFrame) toObject(values []any) Row {
	row := make(Row, 0, len(values))
	for j, v := range values {
		if sequence.IsMissing(v) {
			continue
		}
		row = append(row, Field{Name: df.order[j], Value: v})
	}
	return row
}

// Skip drops the first n rows.
func (df *DataFrame) Skip(n int) *DataFrame {
	idx := df.index.Skip(n)
	columns := make(map[string]*series.Series, len(df.columns))
	for name, col := range df.columns {
		columns[name] = series.FromSequence(idx, sequence.Skip(col.Sequence(), n), df.seriesOptions()...)
	}
	return df.derive(slices.Clone(df.order), columns, idx)
}

// Take keeps at most the first n rows.
func (df *DataFrame) Take(n int) *DataFrame {
	idx := df.index.Take(n)
	columns := make(map[string]*series.Series, len(df.columns))
	for name, col := range df.columns {
		columns[name] = series.FromSequence(idx, sequence.Take(col.Sequence(), n), df.seriesOptions()...)
	}
	return df.derive(slices.Clone(df.order), columns, idx)
}

// Bake forces the row index and every column into owned storage. Baking a
// baked DataFrame returns the same DataFrame.
func (df *DataFrame) Bake() *DataFrame {
	if df.baked {
		return df
	}
	result, _ := df.tracer.TraceOperation("Bake", df, nil, func() (*DataFrame, error) {
		return df.bake(), nil
	})
	return result
}

func (df *DataFrame) bake() *DataFrame {
	opts := df.config().BakeOptions()
	if df.allocator != nil {
		opts = append(opts, sequence.WithAllocator(df.allocator))
	}

	baked := df.derive(slices.Clone(df.order), make(map[string]*series.Series, len(df.columns)), df.index.Bake(opts...))
	for name, col := range df.columns {
		baked.columns[name] = baked.column(col.Sequence().Bake(opts...))
	}
	baked.baked = true
	return baked
}

// String renders the column names and the first rows.
func (df *DataFrame) String() string {
	if len(df.order) == 0 {
		return fmt.Sprintf("DataFrame[%dx0]", df.Count())
	}

	parts := []string{
		fmt.Sprintf("DataFrame[%dx%d]", df.Count(), len(df.order)),
		"  index | " + strings.Join(df.order, " | "),
	}

	head := df.Take(maxStringRows)
	keys := head.index.ToArray()
	for i, values := range head.ToRows() {
		cells := make([]string, len(values))
		for j, v := range values {
			cells[j] = common.ToString(v)
		}
		parts = append(parts, fmt.Sprintf("  %s | %s", common.ToString(keys[i]), strings.Join(cells, " | ")))
	}
	if df.Count() > maxStringRows {
		parts = append(parts, "  ...")
	}

	return strings.Join(parts, "\n")
}
