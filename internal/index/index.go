// Package index provides the row labels shared by Series and DataFrames and
// the alignment primitive that maps one index onto another.
package index

import (
	"iter"
	"slices"
	"sync"

	"github.com/paveg/lazyframe/internal/sequence"
)

// Index is an immutable ordered sequence of keys. Keys need not be unique.
type Index struct {
	keys   *sequence.Sequence
	lookup func() *LookupTable
}

// FromSequence wraps a key sequence.
func FromSequence(keys *sequence.Sequence) *Index {
	idx := &Index{keys: keys}
	idx.lookup = sync.OnceValue(func() *LookupTable {
		return buildLookup(idx.keys.Values())
	})
	return idx
}

// New returns an index over a copy of keys, so later changes to the
// caller's slice never reach the index.
func New(keys []any) *Index {
	return FromSequence(sequence.FromSlice(slices.Clone(keys)))
}

// Range returns the default index 0..n-1.
func Range(n int) *Index {
	return FromSequence(sequence.Counter(func() int { return n }))
}

// Lazy returns the default index 0..n()-1 where n is only evaluated when
// the keys are pulled.
func Lazy(n func() int) *Index {
	return FromSequence(sequence.Counter(n))
}

// Empty returns an index with no keys.
func Empty() *Index {
	return FromSequence(sequence.Empty())
}

// Len returns the number of keys.
func (idx *Index) Len() int {
	return idx.keys.Len()
}

// All returns an iterator over the keys.
func (idx *Index) All() iter.Seq[any] {
	return idx.keys.All()
}

// ToArray returns the keys in order.
func (idx *Index) ToArray() []any {
	return idx.keys.Values()
}

// Baked reports whether the keys live in owned concrete storage.
func (idx *Index) Baked() bool {
	return idx.keys.Baked()
}

// Bake forces the keys into concrete storage. Baking a baked index returns
// it unchanged.
func (idx *Index) Bake(opts ...sequence.BakeOption) *Index {
	if idx.keys.Baked() {
		return idx
	}
	return FromSequence(idx.keys.Bake(opts...))
}

// Skip drops the first n keys.
func (idx *Index) Skip(n int) *Index {
	return FromSequence(sequence.Skip(idx.keys, n))
}

// Take keeps at most the first n keys.
func (idx *Index) Take(n int) *Index {
	return FromSequence(sequence.Take(idx.keys, n))
}

// Gather returns the keys at the given positions.
func (idx *Index) Gather(positions func() []int) *Index {
	return FromSequence(sequence.Gather(idx.keys, positions))
}

// Lookup returns the hash table over the keys, built on first use.
func (idx *Index) Lookup() *LookupTable {
	return idx.lookup()
}

// Position returns the first position holding key.
func (idx *Index) Position(key any) (int, bool) {
	return idx.lookup().First(key)
}

// Equal reports whether both indexes hold the same keys in the same order.
func (idx *Index) Equal(other *Index) bool {
	if idx == other {
		return true
	}
	if other == nil {
		return false
	}
	return keysEqual(idx.ToArray(), other.ToArray())
}

func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameKey(a[i], b[i]) {
			return false
		}
	}
	return true
}
