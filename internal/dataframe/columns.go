package dataframe

import (
	"maps"
	"slices"

	"github.com/paveg/lazyframe/internal/series"
)

// ColumnSource supplies the Series for a column: either a Series value
// (see SeriesValue) or a SeriesFunc. Sources are resolved once, when the
// column is added.
type ColumnSource interface {
	resolve(df *DataFrame) *series.Series
}

// SeriesFunc builds a column from the DataFrame it is added to.
type SeriesFunc func(df *DataFrame) *series.Series

func (fn SeriesFunc) resolve(df *DataFrame) *series.Series {
	if fn == nil {
		return nil
	}
	return fn(df)
}

type seriesValue struct {
	s *series.Series
}

func (v seriesValue) resolve(*DataFrame) *series.Series {
	return v.s
}

// SeriesValue uses s as a column source.
func SeriesValue(s *series.Series) ColumnSource {
	return seriesValue{s: s}
}

// SeriesEntry names the source of one column.
type SeriesEntry struct {
	Name   string
	Source ColumnSource
}

// SeriesSpec lists column sources in the order they are applied.
type SeriesSpec []SeriesEntry

func resolve(source ColumnSource, df *DataFrame) *series.Series {
	var s *series.Series
	if source != nil {
		s = source.resolve(df)
	}
	if s == nil {
		return series.Empty()
	}
	return s
}

// GetSeries returns the named column with its Missing values removed. The
// remaining values keep their row keys and order. An unknown name yields an
// empty Series.
func (df *DataFrame) GetSeries(name string) *series.Series {
	col, ok := df.columns[name]
	if !ok {
		return series.Empty(df.seriesOptions()...)
	}
	return col.DropMissing()
}

// WithSeries sets the named column to source aligned on the row index.
// Rows whose key the source lacks hold Missing. An existing column is
// replaced in place; a new column is appended.
func (df *DataFrame) WithSeries(name string, source ColumnSource) *DataFrame {
	result, _ := df.tracer.TraceOperation("WithSeries", df, map[string]string{"column": name}, func() (*DataFrame, error) {
		return df.withSeries(name, source), nil
	})
	return result
}

func (df *DataFrame) withSeries(name string, source ColumnSource) *DataFrame {
	s := resolve(source, df)
	aligned := series.FromSequence(s.GetIndex(), s.Sequence(), df.seriesOptions()...).Reindex(df.index)

	order := slices.Clone(df.order)
	if !df.HasSeries(name) {
		order = append(order, name)
	}
	columns := maps.Clone(df.columns)
	columns[name] = df.column(aligned.Sequence())

	return df.derive(order, columns, df.index)
}

// EnsureSeries adds the named column from source unless the DataFrame
// already has it. source is not resolved for an existing column.
func (df *DataFrame) EnsureSeries(name string, source ColumnSource) *DataFrame {
	result, _ := df.tracer.TraceOperation("EnsureSeries", df, map[string]string{"column": name}, func() (*DataFrame, error) {
		return df.ensureSeries(name, source), nil
	})
	return result
}

func (df *DataFrame) ensureSeries(name string, source ColumnSource) *DataFrame {
	if df.HasSeries(name) {
		return df
	}
	return df.withSeries(name, source)
}

// EnsureSeriesSpec applies EnsureSeries for every entry of spec in order.
func (df *DataFrame) EnsureSeriesSpec(spec SeriesSpec) *DataFrame {
	result := df
	for _, entry := range spec {
		result = result.EnsureSeries(entry.Name, entry.Source)
	}
	return result
}

// DropSeries removes the named columns. Unknown names are ignored.
func (df *DataFrame) DropSeries(names ...string) *DataFrame {
	columns := maps.Clone(df.columns)
	for _, name := range names {
		delete(columns, name)
	}
	order := slices.DeleteFunc(slices.Clone(df.order), func(name string) bool {
		_, keep := columns[name]
		return !keep
	})

	result := df.derive(order, columns, df.index)
	result.baked = df.baked
	return result
}

// SubsetColumns keeps only the named columns, in the given order. Unknown
// and repeated names are ignored.
func (df *DataFrame) SubsetColumns(names ...string) *DataFrame {
	order := make([]string, 0, len(names))
	columns := make(map[string]*series.Series, len(names))
	for _, name := range names {
		col, ok := df.columns[name]
		if !ok {
			continue
		}
		if _, dup := columns[name]; dup {
			continue
		}
		columns[name] = col
		order = append(order, name)
	}

	result := df.derive(order, columns, df.index)
	result.baked = df.baked
	return result
}
