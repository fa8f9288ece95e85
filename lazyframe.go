// Package lazyframe provides an in-memory, indexed, column-oriented table
// built on lazily evaluated sequences. This package is the sole public API
// for the library.
//
// A Series pairs an Index with a value sequence. A DataFrame is an ordered
// set of named Series sharing one row Index. Values are only produced when
// a consumer pulls them (ToArray, ToRows, Bake); Bake forces a Series or
// DataFrame into owned storage, using Apache Arrow arrays for homogeneous
// columns.
//
// # Missing values
//
// Positions without a value hold Missing, which is distinct from nil. Column
// reads drop Missing values; alignment fills them in:
//
//	df, _ := lazyframe.NewDataFrame(lazyframe.Rows{
//		ColumnNames: []string{"S"},
//		Rows:        [][]any{{lazyframe.Missing}, {11}, {12}},
//	})
//	df.GetSeries("S").ToPairs() // [{1 11} {2 12}]
//
// # Alignment
//
// WithSeries and EnsureSeries align the new column on the row index: every
// row takes the value under the first matching key of the column, or
// Missing.
//
//	s, _ := lazyframe.NewSeries([]any{"foo"}, lazyframe.WithIndex([]any{1}))
//	df = df.WithSeries("T", lazyframe.SeriesValue(s))
package lazyframe

import (
	"iter"

	"github.com/paveg/lazyframe/internal/config"
	"github.com/paveg/lazyframe/internal/dataframe"
	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/paveg/lazyframe/internal/series"
)

type (
	// Series is an Index paired with a same-length lazy value sequence.
	Series = series.Series
	// Pair is one (key, value) entry of a Series.
	Pair = series.Pair
	// SeriesOption configures NewSeries and SeriesFromSeq.
	SeriesOption = series.Option

	// DataFrame is an ordered set of named Series sharing one row Index.
	DataFrame = dataframe.DataFrame
	// DataFrameOption configures NewDataFrame.
	DataFrameOption = dataframe.Option
	// Input is one of Objects, Rows, Pairs or Columns.
	Input = dataframe.Input
	// Objects builds a DataFrame from row objects.
	Objects = dataframe.Objects
	// Rows builds a DataFrame from positional rows.
	Rows = dataframe.Rows
	// Pairs builds a DataFrame from keyed row objects.
	Pairs = dataframe.Pairs
	// Columns builds a DataFrame from named columns.
	Columns = dataframe.Columns
	// Column is a named column of values.
	Column = dataframe.Column
	// Row is an ordered row object.
	Row = dataframe.Row
	// Field is one named value of a Row.
	Field = dataframe.Field
	// KeyedRow is a Row labeled with its index key.
	KeyedRow = dataframe.KeyedRow

	// ColumnSource supplies a column: SeriesValue or a SeriesFunc.
	ColumnSource = dataframe.ColumnSource
	// SeriesFunc builds a column from the DataFrame it is added to.
	SeriesFunc = dataframe.SeriesFunc
	// SeriesSpec lists column sources for EnsureSeriesSpec.
	SeriesSpec = dataframe.SeriesSpec
	// SeriesEntry names one column source of a SeriesSpec.
	SeriesEntry = dataframe.SeriesEntry
	// Tracer records DataFrame operations.
	Tracer = dataframe.Tracer
	// TraceConfig configures a Tracer.
	TraceConfig = dataframe.TraceConfig

	// Index is an ordered sequence of row keys.
	Index = index.Index

	// Config holds engine settings.
	Config = config.Config
)

// Missing marks a position without a value. It is distinct from nil.
var Missing = sequence.Missing

// IsMissing reports whether v is Missing.
func IsMissing(v any) bool {
	return sequence.IsMissing(v)
}

// NewSeries creates a Series over values, labeled 0..n-1 unless WithIndex
// is given.
func NewSeries(values []any, opts ...SeriesOption) (*Series, error) {
	return series.New(values, opts...)
}

// SeriesFromSeq creates a Series over a generator that is pulled at most
// once.
func SeriesFromSeq(gen iter.Seq[any], opts ...SeriesOption) *Series {
	return series.FromSeq(gen, opts...)
}

// SeriesFromFunc creates a Series over a restartable generator that is
// re-run on every pass.
func SeriesFromFunc(gen iter.Seq[any], opts ...SeriesOption) *Series {
	return series.FromFunc(gen, opts...)
}

// EmptySeries returns a Series without entries.
func EmptySeries() *Series {
	return series.Empty()
}

// WithIndex labels Series values with keys.
func WithIndex(keys []any) SeriesOption {
	return series.WithIndex(keys)
}

// NewDataFrame creates a DataFrame from one of the construction shapes.
func NewDataFrame(input Input, opts ...DataFrameOption) (*DataFrame, error) {
	return dataframe.New(input, opts...)
}

// EmptyDataFrame returns a DataFrame without rows or columns.
func EmptyDataFrame() *DataFrame {
	return dataframe.Empty()
}

// SeriesValue uses s as a column source.
func SeriesValue(s *Series) ColumnSource {
	return dataframe.SeriesValue(s)
}

// NewTracer creates a Tracer to pass to WithTracer.
func NewTracer(cfg TraceConfig) *Tracer {
	return dataframe.NewTracer(cfg)
}

// WithTracer records the operations of a DataFrame and its derivatives.
func WithTracer(t *Tracer) DataFrameOption {
	return dataframe.WithTracer(t)
}

// WithConfig overrides the global configuration for one DataFrame.
func WithConfig(cfg Config) DataFrameOption {
	return dataframe.WithConfig(cfg)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return config.NewConfig()
}

// SetConfig replaces the global configuration.
func SetConfig(cfg Config) {
	config.SetGlobalConfig(cfg)
}

// GetConfig returns the global configuration.
func GetConfig() Config {
	return config.GetGlobalConfig()
}

// LoadConfig reads a JSON or YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return config.LoadFromFile(path)
}

// LoadConfigJSON parses a JSON configuration document.
func LoadConfigJSON(data []byte) (Config, error) {
	return config.LoadFromJSON(data)
}

// LoadConfigFromEnv builds a configuration from the LAZYFRAME_* environment
// variables on top of the defaults.
func LoadConfigFromEnv() Config {
	return config.LoadFromEnv()
}
