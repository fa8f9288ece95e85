package sequence

import (
	"iter"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingGen(values []any, pulls *int) iter.Seq[any] {
	return func(yield func(any) bool) {
		*pulls++
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		name        string
		seq         *Sequence
		kind        Kind
		restartable bool
		baked       bool
	}{
		{"slice", FromSlice([]any{1, 2}), Array, true, false},
		{"store", FromStore(NewStore([]any{1, 2})), Array, true, true},
		{"func", FromFunc(countingGen([]any{1}, new(int))), Computed, true, false},
		{"seq", FromSeq(countingGen([]any{1}, new(int))), SinglePass, false, false},
		{"empty", Empty(), Array, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.seq.Kind())
			assert.Equal(t, tt.restartable, tt.seq.Restartable())
			assert.Equal(t, tt.baked, tt.seq.Baked())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "array", Array.String())
	assert.Equal(t, "computed", Computed.String())
	assert.Equal(t, "single-pass", SinglePass.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestSinglePassIsPulledOnce(t *testing.T) {
	pulls := 0
	seq := FromSeq(countingGen([]any{1, 2, 3}, &pulls))

	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, []any{1, 2, 3}, seq.Values())
	assert.Equal(t, []any{1, 2, 3}, seq.Values())
	assert.Equal(t, 1, pulls)
}

func TestComputedRerunsGenerator(t *testing.T) {
	pulls := 0
	seq := FromFunc(countingGen([]any{"a", "b"}, &pulls))

	assert.Equal(t, []any{"a", "b"}, seq.Values())
	assert.Equal(t, []any{"a", "b"}, seq.Values())
	assert.Equal(t, 2, pulls)
}

func TestFromFuncNil(t *testing.T) {
	seq := FromFunc(nil)
	assert.Equal(t, 0, seq.Len())
	assert.Empty(t, seq.Values())
}

func TestSinglePassConcurrentPull(t *testing.T) {
	pulls := 0
	seq := FromSeq(countingGen([]any{1, 2, 3, 4}, &pulls))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 4, seq.Len())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, pulls)
}

func TestFromSliceDoesNotCopy(t *testing.T) {
	values := []any{1, 2}
	seq := FromSlice(values)
	baked := seq.Bake()

	values[0] = 100
	assert.Equal(t, []any{100, 2}, seq.Values())
	assert.Equal(t, []any{1, 2}, baked.Values())
}

func TestBakeIdentity(t *testing.T) {
	seq := FromSlice([]any{1, 2})
	baked := seq.Bake()

	assert.NotSame(t, seq, baked)
	assert.Same(t, baked, baked.Bake())
	assert.True(t, baked.Baked())
	assert.Equal(t, Array, baked.Kind())
}

func TestBakeSinglePass(t *testing.T) {
	pulls := 0
	seq := FromSeq(countingGen([]any{"x", Missing, "z"}, &pulls))
	baked := seq.Bake()

	assert.Equal(t, []any{"x", Missing, "z"}, baked.Values())
	assert.True(t, baked.Restartable())
	assert.Equal(t, 1, pulls)
}

func TestMap(t *testing.T) {
	seq := Map(FromSlice([]any{1, 2, 3}), func(v any) any { return v.(int) * 10 })

	assert.Equal(t, Computed, seq.Kind())
	assert.Equal(t, 3, seq.Len())
	assert.Equal(t, []any{10, 20, 30}, seq.Values())
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected []any
	}{
		{"negative", -1, []any{1, 2, 3}},
		{"zero", 0, []any{1, 2, 3}},
		{"middle", 2, []any{3}},
		{"length", 3, []any{}},
		{"beyond", 10, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			array := Skip(FromSlice([]any{1, 2, 3}), tt.n)
			assert.Equal(t, Array, array.Kind())
			assert.Equal(t, tt.expected, array.Values())
			assert.Equal(t, len(tt.expected), array.Len())

			lazy := Skip(FromFunc(countingGen([]any{1, 2, 3}, new(int))), tt.n)
			assert.Equal(t, Computed, lazy.Kind())
			assert.Equal(t, tt.expected, lazy.Values())
			assert.Equal(t, len(tt.expected), lazy.Len())
		})
	}
}

func TestTake(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected []any
	}{
		{"negative", -2, []any{}},
		{"zero", 0, []any{}},
		{"some", 2, []any{1, 2}},
		{"beyond", 5, []any{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			array := Take(FromSlice([]any{1, 2, 3}), tt.n)
			assert.Equal(t, tt.expected, array.Values())

			lazy := Take(FromSeq(countingGen([]any{1, 2, 3}, new(int))), tt.n)
			assert.Equal(t, tt.expected, lazy.Values())
			assert.Equal(t, len(tt.expected), lazy.Len())
		})
	}
}

func TestSkipOfWindow(t *testing.T) {
	seq := Skip(Skip(FromSlice([]any{1, 2, 3, 4, 5}), 1), 2)
	assert.Equal(t, []any{4, 5}, seq.Values())
	assert.Equal(t, []any{4}, Take(seq, 1).Values())
}

func TestGather(t *testing.T) {
	src := FromSlice([]any{"a", "b", "c"})
	seq := Gather(src, func() []int { return []int{2, -1, 0, 7} })

	assert.Equal(t, 4, seq.Len())
	assert.Equal(t, []any{"c", Missing, "a", Missing}, seq.Values())

	lazy := Gather(FromSeq(countingGen([]any{"a", "b"}, new(int))), func() []int { return []int{1, 1} })
	assert.Equal(t, []any{"b", "b"}, lazy.Values())

	assert.Empty(t, Gather(src, func() []int { return nil }).Values())
}

func TestRandomAccessMaterializesOnce(t *testing.T) {
	pulls := 0
	computed := FromFunc(countingGen([]any{"a", "b", "c"}, &pulls))

	assert.Equal(t, "b", computed.At(1))
	assert.Equal(t, "c", computed.At(2))
	assert.Equal(t, Missing, computed.At(3))
	assert.Equal(t, 1, pulls)

	gathered := Gather(computed, func() []int { return []int{2, 0} })
	assert.Equal(t, []any{"c", "a"}, gathered.Values())
	assert.Equal(t, []any{"c", "a"}, gathered.Values())
	assert.Equal(t, "a", gathered.At(1))
	assert.Equal(t, 1, pulls)
}

func TestEarlyStop(t *testing.T) {
	seqs := []*Sequence{
		FromSlice([]any{1, 2, 3}),
		FromSeq(countingGen([]any{1, 2, 3}, new(int))),
		Map(FromSlice([]any{1, 2, 3}), func(v any) any { return v }),
		Skip(FromFunc(countingGen([]any{0, 1, 2, 3}, new(int))), 1),
		Take(FromFunc(countingGen([]any{1, 2, 3}, new(int))), 3),
		Gather(FromSlice([]any{1, 2, 3}), func() []int { return []int{0, 1, 2} }),
	}

	for _, seq := range seqs {
		var got []any
		for v := range seq.All() {
			got = append(got, v)
			if len(got) == 2 {
				break
			}
		}
		assert.Equal(t, []any{1, 2}, got)
	}
}

func TestArrow(t *testing.T) {
	_, ok := FromSlice([]any{1}).Arrow()
	assert.False(t, ok)

	baked := FromSlice([]any{1.5, Missing}).Bake(WithAllocator(memory.NewGoAllocator()))
	arr, ok := baked.Arrow()
	require.True(t, ok)
	defer arr.Release()

	assert.Equal(t, arrow.FLOAT64, arr.DataType().ID())
	assert.Equal(t, 1, arr.NullN())
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(Missing))
	assert.False(t, IsMissing(nil))
	assert.False(t, IsMissing(0))
	assert.Equal(t, "<missing>", Missing.(interface{ String() string }).String())
}

func TestCounter(t *testing.T) {
	values := FromSeq(countingGen([]any{"a", "b", "c"}, new(int)))
	counter := Counter(values.Len)

	assert.Equal(t, Computed, counter.Kind())
	assert.Equal(t, 3, counter.Len())
	assert.Equal(t, []any{0, 1, 2}, counter.Values())
	assert.Equal(t, []any{}, Counter(func() int { return 0 }).Values())
}

func TestAt(t *testing.T) {
	s := FromSlice([]any{"a", nil, "c"})
	assert.Equal(t, "a", s.At(0))
	assert.Nil(t, s.At(1))
	assert.True(t, IsMissing(s.At(3)))
	assert.True(t, IsMissing(s.At(-1)))

	pulls := 0
	single := FromSeq(countingGen([]any{1, 2}, &pulls))
	assert.Equal(t, 2, single.At(1))
	assert.Equal(t, 1, single.At(0))
	assert.Equal(t, 1, pulls)
}
