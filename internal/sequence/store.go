package sequence

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Store is indexable concrete storage for a sequence.
type Store interface {
	Len() int
	At(i int) any
}

type sliceStore []any

func (s sliceStore) Len() int     { return len(s) }
func (s sliceStore) At(i int) any { return s[i] }

// window is a positional view over another store
type window struct {
	base   Store
	offset int
	length int
}

func (w window) Len() int     { return w.length }
func (w window) At(i int) any { return w.base.At(w.offset + i) }

type bakeOptions struct {
	allocator memory.Allocator
	columnar  bool
	minRows   int
}

// BakeOption configures how values are stored when a sequence is baked.
type BakeOption func(*bakeOptions)

// WithAllocator sets the Arrow allocator used for columnar storage.
func WithAllocator(mem memory.Allocator) BakeOption {
	return func(o *bakeOptions) {
		if mem != nil {
			o.allocator = mem
		}
	}
}

// WithColumnar enables or disables Arrow-backed storage.
func WithColumnar(enabled bool) BakeOption {
	return func(o *bakeOptions) {
		o.columnar = enabled
	}
}

// WithColumnarMinRows sets the minimum length for Arrow-backed storage.
func WithColumnarMinRows(n int) BakeOption {
	return func(o *bakeOptions) {
		o.minRows = n
	}
}

// NewStore copies values into owned storage. Homogeneous int, int64,
// float64, string and bool values are stored in an Arrow array when
// columnar storage is enabled; everything else is kept in a slice.
func NewStore(values []any, opts ...BakeOption) Store {
	o := bakeOptions{columnar: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = memory.NewGoAllocator()
	}

	if o.columnar && len(values) > 0 && len(values) >= o.minRows {
		if kind, ok := detectKind(values); ok {
			return newArrowStore(kind, values, o.allocator)
		}
	}
	return sliceStore(append([]any(nil), values...))
}

type valueKind int

const (
	kindInt valueKind = iota
	kindInt64
	kindFloat64
	kindString
	kindBool
)

// detectKind finds the single Go type shared by all present values.
func detectKind(values []any) (valueKind, bool) {
	var kind valueKind
	found := false
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		var k valueKind
		switch v.(type) {
		case int:
			k = kindInt
		case int64:
			k = kindInt64
		case float64:
			k = kindFloat64
		case string:
			k = kindString
		case bool:
			k = kindBool
		default:
			return 0, false
		}
		if !found {
			kind, found = k, true
		} else if k != kind {
			return 0, false
		}
	}
	return kind, found
}

// arrowStore keeps a column in an Arrow array. Nulls encode Missing and the
// original Go type is restored on read.
type arrowStore struct {
	arr  arrow.Array
	kind valueKind
}

func newArrowStore(kind valueKind, values []any, mem memory.Allocator) *arrowStore {
	var arr arrow.Array

	switch kind {
	case kindInt, kindInt64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			switch val := v.(type) {
			case int:
				builder.Append(int64(val))
			case int64:
				builder.Append(val)
			default:
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case kindFloat64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			if val, ok := v.(float64); ok {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case kindString:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			if val, ok := v.(string); ok {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case kindBool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			if val, ok := v.(bool); ok {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	}

	return &arrowStore{arr: arr, kind: kind}
}

func (s *arrowStore) Len() int {
	return s.arr.Len()
}

func (s *arrowStore) At(i int) any {
	if s.arr.IsNull(i) {
		return Missing
	}

	switch arr := s.arr.(type) {
	case *array.Int64:
		if s.kind == kindInt {
			return int(arr.Value(i))
		}
		return arr.Value(i)
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.Boolean:
		return arr.Value(i)
	default:
		return Missing
	}
}

// DataType returns the Arrow type of the stored column.
func (s *arrowStore) DataType() arrow.DataType {
	return s.arr.DataType()
}
