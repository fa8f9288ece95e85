// Package sequence provides the lazily evaluated value sequences that back
// both Index keys and Series values.
package sequence

import (
	"iter"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
)

// Kind tags how a Sequence produces its values.
type Kind int

const (
	// Array sequences read from concrete storage and are always restartable.
	Array Kind = iota
	// Computed sequences re-run a restartable generator on every pass.
	Computed
	// SinglePass sequences wrap a generator that may only be pulled once.
	// The first pull memoizes everything the generator produced.
	SinglePass
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Array:
		return "array"
	case Computed:
		return "computed"
	case SinglePass:
		return "single-pass"
	default:
		return "unknown"
	}
}

// Sequence is an immutable, lazily evaluated sequence of values.
type Sequence struct {
	kind  Kind
	store Store
	baked bool
	gen   iter.Seq[any]
	count func() int

	once sync.Once
	memo []any

	viewOnce sync.Once
	view     Store
}

// FromSlice wraps values without copying them. The result is restartable
// but not baked: later changes to the caller's slice remain visible until
// the sequence is baked.
func FromSlice(values []any) *Sequence {
	return &Sequence{kind: Array, store: sliceStore(values)}
}

// FromStore returns a baked sequence reading from store.
func FromStore(store Store) *Sequence {
	return &Sequence{kind: Array, store: store, baked: true}
}

// FromFunc returns a restartable sequence that re-runs gen on every pass.
func FromFunc(gen iter.Seq[any]) *Sequence {
	if gen == nil {
		gen = func(func(any) bool) {}
	}
	return &Sequence{kind: Computed, gen: gen}
}

// FromSeq returns a single-pass sequence over gen.
func FromSeq(gen iter.Seq[any]) *Sequence {
	return &Sequence{kind: SinglePass, gen: gen}
}

// Empty returns a baked sequence with no values.
func Empty() *Sequence {
	return FromStore(sliceStore(nil))
}

// Kind returns how the sequence produces its values
func (s *Sequence) Kind() Kind {
	return s.kind
}

// Baked reports whether the sequence reads from storage it owns.
func (s *Sequence) Baked() bool {
	return s.baked
}

// Restartable reports whether the sequence may be iterated more than once
// without relying on memoization.
func (s *Sequence) Restartable() bool {
	return s.kind != SinglePass
}

// All returns an iterator over the values.
func (s *Sequence) All() iter.Seq[any] {
	switch {
	case s.store != nil:
		store := s.store
		return func(yield func(any) bool) {
			for i := 0; i < store.Len(); i++ {
				if !yield(store.At(i)) {
					return
				}
			}
		}
	case s.kind == SinglePass:
		return func(yield func(any) bool) {
			for _, v := range s.pull() {
				if !yield(v) {
					return
				}
			}
		}
	default:
		return s.gen
	}
}

// pull drains the single-pass generator exactly once.
func (s *Sequence) pull() []any {
	s.once.Do(func() {
		values := make([]any, 0)
		if s.gen != nil {
			for v := range s.gen {
				values = append(values, v)
			}
		}
		s.memo = values
		s.gen = nil
	})
	return s.memo
}

// Len returns the number of values, forcing the sequence when the length
// cannot be known otherwise.
func (s *Sequence) Len() int {
	switch {
	case s.store != nil:
		return s.store.Len()
	case s.kind == SinglePass:
		return len(s.pull())
	case s.count != nil:
		return s.count()
	}
	n := 0
	for range s.gen {
		n++
	}
	return n
}

// Values returns a fresh slice holding every value.
func (s *Sequence) Values() []any {
	if s.store != nil {
		values := make([]any, s.store.Len())
		for i := range values {
			values[i] = s.store.At(i)
		}
		return values
	}
	if s.kind == SinglePass {
		return append([]any(nil), s.pull()...)
	}
	values := make([]any, 0)
	for v := range s.gen {
		values = append(values, v)
	}
	return values
}

// At returns the value at position i, or Missing when i is out of range.
func (s *Sequence) At(i int) any {
	values := s.random()
	if i < 0 || i >= values.Len() {
		return Missing
	}
	return values.At(i)
}

// Bake forces the sequence into owned concrete storage. Baking a baked
// sequence returns it unchanged.
func (s *Sequence) Bake(opts ...BakeOption) *Sequence {
	if s.baked {
		return s
	}
	return FromStore(NewStore(s.Values(), opts...))
}

// Arrow returns the Arrow array backing a columnar baked sequence. The
// caller owns the returned reference and must release it.
func (s *Sequence) Arrow() (arrow.Array, bool) {
	st, ok := s.store.(*arrowStore)
	if !ok {
		return nil, false
	}
	st.arr.Retain()
	return st.arr, true
}

// random returns an indexable view of the values. Sequences without
// storage are materialized once and the view is reused.
func (s *Sequence) random() Store {
	if s.store != nil {
		return s.store
	}
	s.viewOnce.Do(func() {
		if s.kind == SinglePass {
			s.view = sliceStore(s.pull())
			return
		}
		s.view = sliceStore(s.Values())
	})
	return s.view
}

func derived(gen iter.Seq[any], count func() int) *Sequence {
	return &Sequence{kind: Computed, gen: gen, count: count}
}

// Map returns a sequence applying fn to every value of src.
func Map(src *Sequence, fn func(any) any) *Sequence {
	return derived(func(yield func(any) bool) {
		for v := range src.All() {
			if !yield(fn(v)) {
				return
			}
		}
	}, src.Len)
}

// Skip returns the values of src from position n onwards.
func Skip(src *Sequence, n int) *Sequence {
	if n < 0 {
		n = 0
	}
	if src.store != nil {
		start := min(n, src.store.Len())
		return &Sequence{kind: Array, store: window{base: src.store, offset: start, length: src.store.Len() - start}}
	}
	return derived(func(yield func(any) bool) {
		i := 0
		for v := range src.All() {
			if i >= n && !yield(v) {
				return
			}
			i++
		}
	}, func() int { return max(src.Len()-n, 0) })
}

// Take returns at most the first n values of src.
func Take(src *Sequence, n int) *Sequence {
	if n < 0 {
		n = 0
	}
	if src.store != nil {
		return &Sequence{kind: Array, store: window{base: src.store, length: min(n, src.store.Len())}}
	}
	return derived(func(yield func(any) bool) {
		if n == 0 {
			return
		}
		i := 0
		for v := range src.All() {
			if !yield(v) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}, func() int { return min(src.Len(), n) })
}

// Gather returns the values of src at the given positions. A negative
// position produces Missing. positions is evaluated on every pass; wrap it
// in sync.OnceValue when it is expensive.
func Gather(src *Sequence, positions func() []int) *Sequence {
	return derived(func(yield func(any) bool) {
		pos := positions()
		if len(pos) == 0 {
			return
		}
		values := src.random()
		for _, p := range pos {
			v := Missing
			if p >= 0 && p < values.Len() {
				v = values.At(p)
			}
			if !yield(v) {
				return
			}
		}
	}, func() int { return len(positions()) })
}

// Counter returns the restartable sequence 0, 1, ..., n()-1. n is evaluated
// on every pass, so the length may depend on another lazy sequence.
func Counter(n func() int) *Sequence {
	return derived(func(yield func(any) bool) {
		count := n()
		for i := 0; i < count; i++ {
			if !yield(i) {
				return
			}
		}
	}, n)
}
