// Package series provides the indexed, lazily evaluated value column shared
// by DataFrames.
//
// A Series pairs an Index with a value Sequence of the same length. Series
// are immutable: every transform returns a new Series and leaves the
// receiver untouched.
package series

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/lazyframe/internal/common"
	"github.com/paveg/lazyframe/internal/config"
	"github.com/paveg/lazyframe/internal/index"
	"github.com/paveg/lazyframe/internal/sequence"
	"github.com/paveg/lazyframe/internal/validation"
)

const maxStringValues = 10

// Pair is one (index key, value) entry of a Series.
type Pair struct {
	Key   any
	Value any
}

// settings carry through every Series derived from one another.
type settings struct {
	cfg       *config.Config
	allocator memory.Allocator
}

func (st settings) config() config.Config {
	if st.cfg != nil {
		return *st.cfg
	}
	return config.GetGlobalConfig()
}

// Option configures Series construction.
type Option func(*options)

type options struct {
	settings
	keys    []any
	hasKeys bool
	idx     *index.Index
}

// WithIndex labels the values with keys. len(keys) must equal the number of
// values.
func WithIndex(keys []any) Option {
	return func(o *options) {
		o.keys = keys
		o.hasKeys = true
	}
}

// WithIndexOf labels the values with an existing index.
func WithIndexOf(idx *index.Index) Option {
	return func(o *options) {
		o.idx = idx
	}
}

// WithConfig overrides the global configuration for this Series and
// everything derived from it.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithAllocator sets the Arrow allocator used when the Series is baked.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		o.allocator = mem
	}
}

// Series is an Index paired with a same-length value Sequence.
type Series struct {
	index  *index.Index
	values *sequence.Sequence
	baked  bool
	settings
}

// New creates a Series over values. The slice is not copied, so the Series
// is not baked until Bake is called. Without WithIndex the keys default to
// 0..n-1.
func New(values []any, opts ...Option) (*Series, error) {
	o := applyOptions(opts)

	idx := index.Range(len(values))
	switch {
	case o.hasKeys:
		if err := validation.ValidateLength(len(values), len(o.keys), "New", "index"); err != nil {
			return nil, err
		}
		idx = index.New(o.keys)
	case o.idx != nil:
		if err := validation.ValidateLength(len(values), o.idx.Len(), "New", "index"); err != nil {
			return nil, err
		}
		idx = o.idx
	}

	return &Series{
		index:    idx,
		values:   sequence.FromSlice(values),
		settings: o.settings,
	}, nil
}

// FromSeq creates a Series over a single-pass generator. The generator is
// pulled at most once; the default index follows its length.
func FromSeq(gen iter.Seq[any], opts ...Option) *Series {
	o := applyOptions(opts)
	values := sequence.FromSeq(gen)
	return &Series{
		index:    index.Lazy(values.Len),
		values:   values,
		settings: o.settings,
	}
}

// FromFunc creates a Series over a restartable generator that is re-run on
// every pass. Random access materializes it once.
func FromFunc(gen iter.Seq[any], opts ...Option) *Series {
	o := applyOptions(opts)
	values := sequence.FromFunc(gen)
	return &Series{
		index:    index.Lazy(values.Len),
		values:   values,
		settings: o.settings,
	}
}

// FromSequence pairs an index with a value sequence of the same length.
// The caller guarantees the lengths agree.
func FromSequence(idx *index.Index, values *sequence.Sequence, opts ...Option) *Series {
	o := applyOptions(opts)
	return &Series{
		index:    idx,
		values:   values,
		baked:    idx.Baked() && values.Baked(),
		settings: o.settings,
	}
}

// Empty returns a Series with no keys and no values.
func Empty(opts ...Option) *Series {
	return FromSequence(index.Empty(), sequence.Empty(), opts...)
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (s *Series) derive(idx *index.Index, values *sequence.Sequence) *Series {
	return &Series{index: idx, values: values, settings: s.settings}
}

// GetIndex returns the Series' index.
func (s *Series) GetIndex() *index.Index {
	return s.index
}

// Sequence returns the value sequence.
func (s *Series) Sequence() *sequence.Sequence {
	return s.values
}

// Count returns the number of values, forcing lazy values when needed.
func (s *Series) Count() int {
	return s.values.Len()
}

// Baked reports whether both keys and values live in owned storage.
func (s *Series) Baked() bool {
	return s.baked
}

// All iterates (key, value) pairs in order.
func (s *Series) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		next, stop := iter.Pull(s.index.All())
		defer stop()
		for v := range s.values.All() {
			k, ok := next()
			if !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// ToArray returns the values in order.
func (s *Series) ToArray() []any {
	return s.values.Values()
}

// ToPairs returns the (key, value) pairs in order.
func (s *Series) ToPairs() []Pair {
	keys := s.index.ToArray()
	values := s.values.Values()
	pairs := make([]Pair, min(len(keys), len(values)))
	for i := range pairs {
		pairs[i] = Pair{Key: keys[i], Value: values[i]}
	}
	return pairs
}

// At returns the value stored under the first occurrence of key.
func (s *Series) At(key any) (any, bool) {
	pos, ok := s.index.Position(key)
	if !ok {
		return sequence.Missing, false
	}
	return s.values.At(pos), true
}

// Skip drops the first n entries. n <= 0 keeps every entry and n >= Count
// yields an empty Series.
func (s *Series) Skip(n int) *Series {
	return s.derive(s.index.Skip(n), sequence.Skip(s.values, n))
}

// Take keeps at most the first n entries.
func (s *Series) Take(n int) *Series {
	return s.derive(s.index.Take(n), sequence.Take(s.values, n))
}

// Head is an alias for Take.
func (s *Series) Head(n int) *Series {
	return s.Take(n)
}

// Tail keeps at most the last n entries.
func (s *Series) Tail(n int) *Series {
	return s.Skip(s.Count() - max(n, 0))
}

// Where keeps the entries whose value satisfies pred, with their keys.
func (s *Series) Where(pred func(any) bool) *Series {
	positions := sync.OnceValue(func() []int {
		kept := make([]int, 0)
		i := 0
		for v := range s.values.All() {
			if pred(v) {
				kept = append(kept, i)
			}
			i++
		}
		return kept
	})
	return s.derive(s.index.Gather(positions), sequence.Gather(s.values, positions))
}

// Select maps every value through fn. Keys are unchanged.
func (s *Series) Select(fn func(any) any) *Series {
	return s.derive(s.index, sequence.Map(s.values, fn))
}

// DropMissing removes Missing values together with their keys.
func (s *Series) DropMissing() *Series {
	return s.Where(func(v any) bool { return !sequence.IsMissing(v) })
}

// WithIndex replaces the keys. The length is checked immediately.
func (s *Series) WithIndex(keys []any) (*Series, error) {
	if err := validation.ValidateLength(s.Count(), len(keys), "WithIndex", "index"); err != nil {
		return nil, err
	}
	return s.derive(index.New(keys), s.values), nil
}

// ResetIndex replaces the keys with the default 0..n-1 index.
func (s *Series) ResetIndex() *Series {
	return s.derive(index.Lazy(s.values.Len), s.values)
}

// Reindex aligns the Series onto target: the result carries target's keys
// and, for each, the value under the first matching key of the receiver or
// Missing. Alignment runs on first use.
func (s *Series) Reindex(target *index.Index) *Series {
	cfg := s.config()
	positions := sync.OnceValue(func() []int {
		pos, strategy := cfg.Planner().Align(target, s.index)
		if cfg.VerboseLogging {
			cfg.Logger().Debug("aligned series",
				slog.String("strategy", strategy.String()),
				slog.Int("target", len(pos)),
				slog.Int("source", s.index.Len()))
		}
		return pos
	})
	return s.derive(target, sequence.Gather(s.values, positions))
}

// Bake forces keys and values into owned storage. Baking a baked Series
// returns the same Series.
func (s *Series) Bake() *Series {
	if s.baked {
		return s
	}
	opts := s.config().BakeOptions()
	if s.allocator != nil {
		opts = append(opts, sequence.WithAllocator(s.allocator))
	}
	return &Series{
		index:    s.index.Bake(opts...),
		values:   s.values.Bake(opts...),
		baked:    true,
		settings: s.settings,
	}
}

// String renders the first entries of the Series.
func (s *Series) String() string {
	var sb strings.Builder
	n := 0
	for k, v := range s.All() {
		if n == maxStringValues {
			sb.WriteString(" ...")
			break
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", common.ToString(k), common.ToString(v))
		n++
	}
	return fmt.Sprintf("Series[%d]{%s}", s.Count(), sb.String())
}
